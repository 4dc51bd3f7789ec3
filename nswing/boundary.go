package nswing

import "math"

// BorderMode is the border descriptor from §9's "Boundary wall technique"
// note: each of the four L0 borders carries an explicit mode. A wall
// border is still realised by overwriting bathymetry in place (applyWall).
type BorderMode int

const (
	BorderRadiating BorderMode = iota // open, radiating outward
	BorderWall                        // closed; no flux crosses
	BorderForced                      // forced from a BC profile (wave maker)
)

// Border identifies one of the four L0 edges.
type Border int

const (
	BorderS Border = iota
	BorderW
	BorderN
	BorderE
)

// BoundaryConfig holds the per-border mode for L0, set once at startup.
// The zero value is "all radiating", matching the pure open-boundary
// mode when no BC file is loaded.
type BoundaryConfig struct {
	Modes [4]BorderMode
	BC    *BCDescriptor // non-nil when a wave-maker border is active
}

// ApplyBoundary dispatches to the radiating, wave-maker, or mixed
// handler for L0 based on cfg, per §4.7.
func ApplyBoundary(l *Level, cfg *BoundaryConfig, globalTime float64) {
	for _, b := range [4]Border{BorderS, BorderW, BorderN, BorderE} {
		switch cfg.Modes[b] {
		case BorderForced:
			if cfg.BC != nil && cfg.BC.HasSample(globalTime) {
				applyForced(l, cfg.BC, b, globalTime)
				continue
			}
			// Mixed mode: BC time series exhausted, fall back to radiating.
			applyRadiating(l, b)
		case BorderWall:
			applyWall(l, b)
		default:
			applyRadiating(l, b)
		}
	}
	applyCorners(l, cfg)
}

// applyRadiating sets eta_d along border b using the outward-radiating
// condition η = ±sqrt(M²+N²)/sqrt(g·bat), sign chosen from the adjacent
// cell's outward flux direction; dry cells get η_d = -bat.
func applyRadiating(l *Level, b Border) {
	nx, ny := l.Header.NX, l.Header.NY
	bat := l.State.Bat
	etaD := l.State.EtaD
	fm := l.State.FluxMA
	fn := l.State.FluxNA

	set := func(row, col int) {
		depth := bat.Get(row, col)
		if depth <= MaxRunup {
			return
		}
		m := fm.Get(row, col)
		n := fn.Get(row, col)
		speed := math.Sqrt(m*m + n*n)
		if speed <= epsFlux || depth <= 0 {
			etaD.Set(-depth, row, col)
			return
		}
		sign := 1.0
		var outward float64
		switch b {
		case BorderW:
			outward = -m
		case BorderE:
			outward = m
		case BorderS:
			outward = -n
		case BorderN:
			outward = n
		}
		if outward < 0 {
			sign = -1.0
		}
		etaD.Set(sign*speed/math.Sqrt(gravity*depth), row, col)
	}

	switch b {
	case BorderW:
		for row := 0; row < ny; row++ {
			set(row, 0)
		}
	case BorderE:
		for row := 0; row < ny; row++ {
			set(row, nx-1)
		}
	case BorderS:
		for col := 0; col < nx; col++ {
			set(0, col)
		}
	case BorderN:
		for col := 0; col < nx; col++ {
			set(ny-1, col)
		}
	}
}

// applyWall replaces bathymetry in a 2-cell ribbon around border b with
// the level's max bathymetry, preventing flux from crossing. Kept for
// parity with the original's wall technique, but driven by the
// BorderMode descriptor rather than implicitly from "the other three
// borders" whenever a wave maker is configured.
func applyWall(l *Level, b Border) {
	nx, ny := l.Header.NX, l.Header.NY
	bat := l.State.Bat
	zmax := l.Header.ZMax

	switch b {
	case BorderW:
		for row := 0; row < ny; row++ {
			for col := 0; col < 2 && col < nx; col++ {
				bat.Set(zmax, row, col)
			}
		}
	case BorderE:
		for row := 0; row < ny; row++ {
			for col := nx - 2; col < nx; col++ {
				if col >= 0 {
					bat.Set(zmax, row, col)
				}
			}
		}
	case BorderS:
		for col := 0; col < nx; col++ {
			for row := 0; row < 2 && row < ny; row++ {
				bat.Set(zmax, row, col)
			}
		}
	case BorderN:
		for col := 0; col < nx; col++ {
			for row := ny - 2; row < ny; row++ {
				if row >= 0 {
					bat.Set(zmax, row, col)
				}
			}
		}
	}
}

// applyForced sets eta_d directly from the BC descriptor's time-interpolated
// profile along border b at globalTime: profile point p goes to border cell
// p. The profile is not resampled in space onto the border cells.
func applyForced(l *Level, bc *BCDescriptor, b Border, globalTime float64) {
	profile := bc.InterpolatedProfile(globalTime)
	nx, ny := l.Header.NX, l.Header.NY
	etaD := l.State.EtaD

	switch b {
	case BorderW:
		for row := 0; row < ny && row < len(profile); row++ {
			etaD.Set(profile[row], row, 0)
		}
	case BorderE:
		for row := 0; row < ny && row < len(profile); row++ {
			etaD.Set(profile[row], row, nx-1)
		}
	case BorderS:
		for col := 0; col < nx && col < len(profile); col++ {
			etaD.Set(profile[col], 0, col)
		}
	case BorderN:
		for col := 0; col < nx && col < len(profile); col++ {
			etaD.Set(profile[col], ny-1, col)
		}
	}
}

// applyCorners handles the four L0 corners by combining the diagonal flux
// components from the two bordering edges, per §4.7's closing clause.
func applyCorners(l *Level, cfg *BoundaryConfig) {
	nx, ny := l.Header.NX, l.Header.NY
	bat := l.State.Bat
	etaD := l.State.EtaD
	fm := l.State.FluxMA
	fn := l.State.FluxNA

	corners := [4][2]int{{0, 0}, {0, nx - 1}, {ny - 1, 0}, {ny - 1, nx - 1}}
	for _, rc := range corners {
		row, col := rc[0], rc[1]
		depth := bat.Get(row, col)
		if depth <= MaxRunup {
			continue
		}
		m := fm.Get(row, col)
		n := fn.Get(row, col)
		speed := math.Sqrt(m*m + n*n)
		if speed <= epsFlux || depth <= 0 {
			etaD.Set(-depth, row, col)
			continue
		}
		etaD.Set(speed/math.Sqrt(gravity*depth), row, col)
	}
}
