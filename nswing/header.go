package nswing

import (
	"math"
	"strconv"
)

// Physical constants shared by the Cartesian and spherical kernels.
const (
	gravity       = 9.8
	earthRadius   = 6.371e6
	earthOmega    = 7.2722e-5
	// MaxRunup marks the permanent-dry threshold for bathymetry stored
	// positive-down: cells with Bat <= MaxRunup never take flux.
	MaxRunup = -50.0

	epsWet   = 1e-10 // ε_wet / ε₁0: wetting/drying threshold on H_total
	epsOne   = 1e-2  // ε₁: long/short beach sticky-flag threshold on depth d
	epsDepth = 1e-4  // ε_depth: minimum depth admitted to advection/division
	epsFlux  = 1e-5  // ε₄/ε₅: small-flux threshold at the open boundary

	// VLimitDefault is the discharge-limiter default from the original
	// source, exposed here as a configuration knob rather than a
	// compile-time toggle per the redesign note.
	VLimitDefault = 20.0
)

// GridHeader describes one level's geometry: cell counts, origin, cell
// size, bathymetry extrema, and whether the level is geographic.
type GridHeader struct {
	NX, NY           int
	XMin, YMin       float64
	XInc, YInc       float64
	ZMin, ZMax       float64
	IsGeographic     bool
	CoriolisLatRef   float64
	CoriolisEnabled  bool
}

// Index returns the row-major scanline offset for cell (row, col).
func (h *GridHeader) Index(row, col int) int { return row*h.NX + col }

// CFLTimeStep returns the Courant-limited maximum time step for this
// header, Δx / sqrt(g * |z_min|), per the glossary's CFL definition.
func (h *GridHeader) CFLTimeStep() float64 {
	depth := math.Abs(h.ZMin)
	if depth <= 0 {
		return math.Inf(1)
	}
	dx := math.Min(h.XInc, h.YInc)
	return dx / math.Sqrt(gravity*depth)
}

// CheckCFL validates dt against this header's CFL limit. It returns a
// *ConfigError if dt exceeds the hard limit, and a non-nil
// *NumericalWarning (with a nil error) if dt sits within the soft warning
// band (dt > 0.5*dtCFL*1.1) but is still admissible.
func (h *GridHeader) CheckCFL(dt float64) (*ConfigError, *NumericalWarning) {
	dtCFL := h.CFLTimeStep()
	if dt > dtCFL {
		return NewConfigError("cfl", errCFLExceeded(dt, dtCFL)), nil
	}
	if dt > 0.5*dtCFL*1.1 {
		return nil, NewNumericalWarning("cfl",
			"time step close to half the CFL limit; reduce dt or refine the grid")
	}
	return nil, nil
}

func errCFLExceeded(dt, dtCFL float64) error {
	return &cflError{dt: dt, dtCFL: dtCFL}
}

type cflError struct{ dt, dtCFL float64 }

func (e *cflError) Error() string {
	return "time step exceeds CFL limit: dt=" + ftoa(e.dt) + " > dtCFL=" + ftoa(e.dtCFL)
}

func ftoa(v float64) string {
	return strconv.FormatFloat(v, 'g', 6, 64)
}
