// Package scenario loads named end-to-end presets matching the testable
// scenarios of §8: each preset is a TOML fixture describing grid
// geometry, time stepping, boundary mode, and expected-result bounds,
// loaded by tests. The CLI has no flag that loads a preset.
package scenario

import (
	"fmt"
	"os"

	"github.com/BurntSushi/toml"
)

// Grid mirrors the subset of nswing.GridHeader a preset needs to
// specify. It is a separate type so this package stays independent of
// the solver core; this package does not convert it to a GridHeader.
type Grid struct {
	NX, NY       int
	XInc, YInc   float64
	ZMin, ZMax   float64
	IsGeographic bool
}

// Expectation records the bound a scenario is expected to satisfy, for
// use by tests that load the preset and assert against a live run.
type Expectation struct {
	Metric      string
	Value       float64
	Tolerance   float64
}

// Preset is one named scenario: geometry, forcing, run length, and the
// expectations a correct implementation should meet.
type Preset struct {
	Name        string
	Description string

	Grid Grid

	Dt        float64
	NCycles   int
	Coriolis  bool
	Linear    bool
	Upscale   bool

	InitialEtaAmplitude float64
	InitialEtaCenterX   float64
	InitialEtaCenterY   float64

	WallBoundary bool

	Expectations []Expectation
}

// Load reads a named TOML preset file.
func Load(path string) (*Preset, error) {
	var p Preset
	if _, err := toml.DecodeFile(path, &p); err != nil {
		return nil, fmt.Errorf("scenario: decoding %s: %w", path, err)
	}
	return &p, nil
}

// MustLoad is Load, panicking on error; intended for test fixtures shipped
// alongside this package rather than user-facing CLI input.
func MustLoad(path string) *Preset {
	p, err := Load(path)
	if err != nil {
		panic(err)
	}
	return p
}

// Write serializes p as TOML to path, used to generate the bundled
// fixtures below.
func Write(path string, p *Preset) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("scenario: creating %s: %w", path, err)
	}
	defer f.Close()
	return toml.NewEncoder(f).Encode(p)
}
