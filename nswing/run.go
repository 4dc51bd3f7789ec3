package nswing

import (
	"fmt"
	"io"
)

// ProgressFunc is invoked once per 1% of total cycles, per §5's progress
// reporting guarantee.
type ProgressFunc func(cycle, total int, simTime float64)

// RunConfig bundles the knobs that vary the loop's behavior without
// touching the Nest's per-level state: total cycle count, the boundary
// descriptor, optional sampler/tracker hooks, and where to log.
type RunConfig struct {
	NCycles  int
	Boundary *BoundaryConfig
	Sampler  *Sampler
	Tracers  []*Tracer
	Volume   *VolumeTracker
	Energy   *EnergyTracker

	Progress ProgressFunc
	Log      io.Writer

	// EnergyDecimation, when > 0, restricts energy/power tracking to
	// every EnergyDecimation-th step to cap CPU cost, per §4.9.
	EnergyDecimation int

	// TracerHook, when non-nil, is invoked right after Tracers have been
	// advanced at each write-level visit, so the caller can record each
	// tracer's trajectory; the core only advects positions, file output
	// is an external collaborator per §6.
	TracerHook func(time float64, tracers []*Tracer)

	// GridHook, when non-nil, is invoked once per write-level visit with
	// the write level and the current global time, letting the caller
	// accumulate 2D/3D snapshot output without the core depending on any
	// particular I/O format.
	GridHook func(l *Level, time float64)
}

// Run validates the nest's CFL constraints, then drives n_cycles L0
// steps, invoking hooks along the way. It stops and returns the first
// error encountered (ConfigError before the loop starts; RuntimeError if
// a momentum worker produces a non-finite value mid-run).
func Run(n *Nest, cfg RunConfig) ([]Sample, error) {
	logf := func(format string, args ...interface{}) {
		if cfg.Log != nil {
			fmt.Fprintf(cfg.Log, format+"\n", args...)
		}
	}

	for _, l := range n.Levels {
		if cerr, warn := l.Header.CheckCFL(l.Dt); cerr != nil {
			return nil, cerr
		} else if warn != nil {
			logf("warning: level %d: %v", l.Depth, warn)
		}
	}

	var allSamples []Sample
	everyPercent := cfg.NCycles / 100
	if everyPercent < 1 {
		everyPercent = 1
	}

	hooks := Hooks{
		OnWriteLevelVisit: func(l *Level) {
			UpdateTrackers(l)
			if cfg.Sampler != nil {
				if samples := cfg.Sampler.Visit(l, n.Time); samples != nil {
					allSamples = append(allSamples, samples...)
				}
			}
			for _, t := range cfg.Tracers {
				t.Advance(l)
			}
			if cfg.TracerHook != nil && len(cfg.Tracers) > 0 {
				cfg.TracerHook(n.Time, cfg.Tracers)
			}
			if cfg.GridHook != nil {
				cfg.GridHook(l, n.Time)
			}
		},
	}

	for cycle := 0; cycle < cfg.NCycles; cycle++ {
		if err := StepL0(n, cfg.Boundary, hooks); err != nil {
			return allSamples, err
		}

		if cfg.Volume != nil {
			cfg.Volume.Sample(TotalVolume(n.Root()))
		}

		if cfg.Energy != nil && cfg.EnergyDecimation > 0 && cycle%cfg.EnergyDecimation == 0 {
			cfg.Energy.Sample(n.WriteLevelGrid())
		}

		if cfg.Progress != nil && cycle%everyPercent == 0 {
			cfg.Progress(cycle, cfg.NCycles, n.Time)
		}
	}

	FinalizeSpeed(n.WriteLevelGrid())
	if cfg.Progress != nil {
		cfg.Progress(cfg.NCycles, cfg.NCycles, n.Time)
	}
	return allSamples, nil
}

// Log returns a progress function that writes one line per invocation to
// w, mirroring the teacher's Log(w io.Writer) DomainManipulator pattern
// adapted to NSWING's single progress callback instead of a manipulator
// pipeline.
func Log(w io.Writer) ProgressFunc {
	return func(cycle, total int, simTime float64) {
		fmt.Fprintf(w, "cycle %d/%d (t=%.3fs)\n", cycle, total, simTime)
	}
}
