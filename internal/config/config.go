// Package config wires the §6 CLI surface (bathymetry/source inputs,
// nesting grids, output selection, maregraph/tracer files, and the
// -f/-C/-L/-U/-J/-Q/-X/-N flags) onto a viper-backed configuration
// object, following the teacher's Cfg-embeds-Viper pattern from
// inmaputil/cmd.go.
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/lnashier/viper"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/nswing/nswing"
)

// Cfg holds every configuration option for one run, merged from flags,
// environment variables (NSWING_*), and an optional config file, mirroring
// the teacher's *viper.Viper-embedding Cfg.
type Cfg struct {
	*viper.Viper

	Root *cobra.Command

	inputFiles []string
}

// InputFiles returns the configuration keys that name input files, used
// by the status server to expose file-upload fields.
func (cfg *Cfg) InputFiles() []string { return cfg.inputFiles }

type option struct {
	name, usage, shorthand string
	defaultVal             interface{}
	isInputFile            bool
}

var options = []option{
	{name: "bathymetry", usage: "base bathymetry grid file (Surfer 6)", shorthand: "", defaultVal: "", isInputFile: true},
	{name: "initial", usage: "initial-condition source: a grid file, Okada fault parameters, or a Kaba source region", defaultVal: "", isInputFile: true},
	{name: "dt", usage: "L0 time step, seconds", shorthand: "t", defaultVal: 1.0},
	{name: "geographic", usage: "interpret the grid as geographic (lon/lat) rather than Cartesian", shorthand: "f", defaultVal: false},
	{name: "coriolis", usage: "Coriolis reference latitude in degrees; a nonzero value enables Coriolis terms, 0 leaves them off", shorthand: "C", defaultVal: 0.0},
	{name: "linear", usage: "run in global linear mode (suppress advection everywhere)", shorthand: "L", defaultVal: false},
	{name: "upscale", usage: "enable child-to-parent upscaling feedback", shorthand: "U", defaultVal: false},
	{name: "wall-boundary", usage: "treat all four L0 borders as closed walls instead of radiating", defaultVal: false},
	{name: "jump", usage: "output-jump and nested-run-jump times, e.g. 10+5", shorthand: "J", defaultVal: ""},
	{name: "tide", usage: "tide offset added to still-water level", shorthand: "Q", defaultVal: 0.0},
	{name: "manning", usage: "per-level Manning coefficients and depth cutoff, e.g. 0.03,0.025+5", shorthand: "X", defaultVal: "0.03"},
	{name: "cycles", usage: "number of L0 cycles to run", shorthand: "N", defaultVal: 1000},
	{name: "nest", usage: "up to 9 additional nested bathymetry grids, one per level", defaultVal: []string{}, isInputFile: true},
	{name: "maregraphs", usage: "text file of (x, y [, name]) maregraph points", defaultVal: "", isInputFile: true},
	{name: "maregraph-interval", usage: "maregraph sampling interval, in steps", defaultVal: 1},
	{name: "tracers-in", usage: "input file of tracer start positions", defaultVal: "", isInputFile: true},
	{name: "tracers-out", usage: "output time-series file for tracer positions", defaultVal: ""},
	{name: "out-grids", usage: "directory/stem for per-step 2D grids", defaultVal: ""},
	{name: "out-3d", usage: "3D NetCDF output file", defaultVal: ""},
	{name: "out-sww", usage: "ANUGA .sww output file", defaultVal: ""},
	{name: "out-most", usage: "MOST triple output stem", defaultVal: ""},
	{name: "out-maxlevel", usage: "maximum-level (wmax) output grid", defaultVal: ""},
	{name: "out-maxspeed", usage: "maximum-speed (vmax) output grid", defaultVal: ""},
	{name: "out-energy", usage: "energy/power diagnostic output: a text time series of wet-cell eta variance, not a grid", defaultVal: ""},
	{name: "out-beach", usage: "long-beach (ever-dried) mask output grid; the short-beach mask is not written", defaultVal: ""},
	{name: "config", usage: "configuration file location", defaultVal: "./nswing.toml"},
}

// New builds a Cfg with the §6 CLI surface registered on Root's
// persistent flags and bound into a fresh viper instance with an
// "NSWING" environment prefix, following the teacher's InitializeConfig.
func New() *Cfg {
	cfg := &Cfg{Viper: viper.New()}
	cfg.SetEnvPrefix("NSWING")
	cfg.AutomaticEnv()

	cfg.Root = &cobra.Command{
		Use:   "nswing",
		Short: "A multi-level nested shallow-water tsunami/long-wave simulator.",
		Long: `nswing time-steps the non-linear shallow-water equations on a hierarchy
of nested finite-difference grids, with two-way parent-child coupling and
a moving-shoreline wet/dry algorithm.

Configuration can come from command-line flags, a TOML configuration file
(--config), or NSWING_ environment variables.`,
		DisableAutoGenTag: true,
		PersistentPreRunE: func(*cobra.Command, []string) error {
			return cfg.readConfigFile()
		},
	}

	fs := cfg.Root.PersistentFlags()
	for _, o := range options {
		registerFlag(fs, o)
		cfg.BindPFlag(o.name, fs.Lookup(o.name))
		if o.isInputFile {
			cfg.inputFiles = append(cfg.inputFiles, o.name)
		}
	}
	return cfg
}

func registerFlag(fs *pflag.FlagSet, o option) {
	switch v := o.defaultVal.(type) {
	case string:
		if o.shorthand != "" {
			fs.StringP(o.name, o.shorthand, v, o.usage)
		} else {
			fs.String(o.name, v, o.usage)
		}
	case bool:
		if o.shorthand != "" {
			fs.BoolP(o.name, o.shorthand, v, o.usage)
		} else {
			fs.Bool(o.name, v, o.usage)
		}
	case float64:
		if o.shorthand != "" {
			fs.Float64P(o.name, o.shorthand, v, o.usage)
		} else {
			fs.Float64(o.name, v, o.usage)
		}
	case int:
		if o.shorthand != "" {
			fs.IntP(o.name, o.shorthand, v, o.usage)
		} else {
			fs.Int(o.name, v, o.usage)
		}
	case []string:
		fs.StringSlice(o.name, v, o.usage)
	}
}

func (cfg *Cfg) readConfigFile() error {
	path := cfg.GetString("config")
	if path == "" {
		return nil
	}
	if _, err := os.Stat(path); err != nil {
		return nil // no config file is not an error; flags/env still apply
	}
	cfg.SetConfigFile(path)
	if err := cfg.ReadInConfig(); err != nil {
		return nswing.NewConfigError("reading config file "+path, err)
	}
	return nil
}

// ManningEntry is one parsed component of the -X flag: a per-level
// Manning coefficient and depth cutoff.
type ManningEntry struct {
	Manning      float64
	DepthCutoff  float64
}

// ParseManning parses the -X<n[,n,...][+d]> flag syntax: a comma-separated
// list of per-level Manning coefficients, optionally followed by a
// "+depth" cutoff shared by all levels.
func ParseManning(flag string) ([]ManningEntry, error) {
	depth := 0.0
	body := flag
	if idx := strings.Index(flag, "+"); idx >= 0 {
		body = flag[:idx]
		d, err := strconv.ParseFloat(flag[idx+1:], 64)
		if err != nil {
			return nil, nswing.NewConfigError("parsing -X depth cutoff", err)
		}
		depth = d
	}
	parts := strings.Split(body, ",")
	out := make([]ManningEntry, 0, len(parts))
	for _, p := range parts {
		n, err := strconv.ParseFloat(strings.TrimSpace(p), 64)
		if err != nil {
			return nil, nswing.NewConfigError("parsing -X manning coefficient", err)
		}
		out = append(out, ManningEntry{Manning: n, DepthCutoff: depth})
	}
	return out, nil
}

// JumpTimes is the parsed result of the -J<t>[+<t>] flag: an output-jump
// time and an optional nested-run-jump time.
type JumpTimes struct {
	OutputJump float64
	RunJump    float64
}

// ParseJump parses the -J flag syntax.
func ParseJump(flag string) (JumpTimes, error) {
	if flag == "" {
		return JumpTimes{}, nil
	}
	parts := strings.SplitN(flag, "+", 2)
	out, err := strconv.ParseFloat(parts[0], 64)
	if err != nil {
		return JumpTimes{}, nswing.NewConfigError("parsing -J output-jump time", err)
	}
	jt := JumpTimes{OutputJump: out}
	if len(parts) == 2 {
		run, err := strconv.ParseFloat(parts[1], 64)
		if err != nil {
			return JumpTimes{}, nswing.NewConfigError("parsing -J run-jump time", err)
		}
		jt.RunJump = run
	}
	return jt, nil
}

// Validate checks the required CLI surface is present, surfacing a
// *nswing.ConfigError per §7 before the simulation starts.
func (cfg *Cfg) Validate() error {
	if cfg.GetString("bathymetry") == "" {
		return nswing.NewConfigError("cli", fmt.Errorf("a base bathymetry file is required (--bathymetry)"))
	}
	if cfg.GetString("initial") == "" {
		return nswing.NewConfigError("cli", fmt.Errorf("an initial-condition source is required (--initial)"))
	}
	if cfg.GetFloat64("dt") <= 0 {
		return nswing.NewConfigError("cli", fmt.Errorf("-t/--dt must be > 0"))
	}
	if cfg.GetInt("cycles") <= 0 {
		return nswing.NewConfigError("cli", fmt.Errorf("-N/--cycles must be > 0"))
	}
	return nil
}
