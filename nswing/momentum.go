package nswing

import "math"

// axis selects which flux component a momentum pass updates.
type axis int

const (
	axisM axis = iota // x-direction flux, east face
	axisN              // y-direction flux, north face
)

// MomentM updates flux_m_d from flux_*_a, eta_d and h_total_d, per §4.4.
// Independent of MomentN within a step; the two may run concurrently
// (see schedule.go).
func MomentM(l *Level) error { return moment(l, axisM) }

// MomentN updates flux_n_d, independent of MomentM within a step.
func MomentN(l *Level) error { return moment(l, axisN) }

// jupeWidth returns the linear-buffer width (in cells) within which
// advection is suppressed, per §4.4 step 6.
func jupeWidth(l *Level, linearMode bool) int {
	if linearMode {
		return 1 << 30 // "global linear mode": effectively infinite
	}
	if l.Depth > 0 {
		return 0 // nested levels
	}
	if l.Header.IsGeographic {
		return 10
	}
	return 5
}

func moment(l *Level, ax axis) error {
	h := &l.Header
	nx, ny := h.NX, h.NY
	bat := l.State.Bat
	etaD := l.State.EtaD
	htD := l.State.HTotalD
	htA := l.State.HTotalA

	var fluxA, fluxD, orthoA *sparseDense
	if ax == axisM {
		fluxA, fluxD = l.State.FluxMA, l.State.FluxMD
		orthoA = l.State.FluxNA
	} else {
		fluxA, fluxD = l.State.FluxNA, l.State.FluxND
		orthoA = l.State.FluxMA
	}

	jupe := jupeWidth(l, l.linearMode)
	writeVel := l.IsWriteLevel

	for j := 0; j < ny; j++ {
		for i := 0; i < nx; i++ {
			if bat.Get(j, i) <= MaxRunup {
				continue
			}
			var i2, j2 int
			if ax == axisM {
				i2, j2 = i+1, j
			} else {
				i2, j2 = i, j+1
			}
			if i2 >= nx || j2 >= ny {
				continue
			}
			if bat.Get(j2, i2) <= MaxRunup {
				continue
			}

			c := classifyFace(bat, etaD, htD, i, j, i2, j2)
			if c.dd < epsWet {
				continue
			}

			manningDepth := l.ManningDepth
			n := l.Manning
			ortho := fourPointAvg(orthoA, i, j, i2, j2, ax)
			ff := 0.0
			if bat.Get(j, i) > -manningDepth || bat.Get(j2, i2) > -manningDepth {
				fThis := fluxA.Get(j, i)
				ff = n * n * l.Dt * gravity * math.Sqrt(fThis*fThis+ortho*ortho) / math.Pow(c.df, 7.0/3.0)
			}

			var coefGrav float64
			if h.IsGeographic {
				if ax == axisM {
					coefGrav = l.Coeff.R3M[j]
				} else {
					coefGrav = l.Coeff.R3N[j]
				}
			} else {
				if ax == axisM {
					coefGrav = gravity * l.Dt / h.XInc
				} else {
					coefGrav = gravity * l.Dt / h.YInc
				}
			}

			etaHere := etaD.Get(j, i)
			etaThere := etaD.Get(j2, i2)
			xp := (1-ff)*fluxA.Get(j, i) - coefGrav*c.dd*(etaThere-etaHere)

			if l.CoriolisEnabledRow(j) {
				var r4 float64
				if ax == axisM {
					r4 = l.Coeff.R4M[j]
				} else {
					r4 = l.Coeff.R4N[j]
				}
				sign := 1.0
				if ax == axisN {
					sign = -1.0
				}
				xp += sign * r4 * 2 * ortho
			}

			if c.dpa >= epsDepth && i-jupe >= 0 && i+jupe < nx && j-jupe >= 0 && j+jupe < ny {
				xp += advectionTerm(l, ax, i, j, i2, j2, htA, fluxA)
			}

			xp /= (1 + ff)

			if l.dischargeLimiterOn() {
				lim := l.vLimit() * c.dd
				if xp > lim {
					xp = lim
				} else if xp < -lim {
					xp = -lim
				}
			}

			if math.IsNaN(xp) || math.IsInf(xp, 0) {
				field := "flux_m_d"
				if ax == axisN {
					field = "flux_n_d"
				}
				return NewRuntimeError(l.Depth, j, i, field)
			}

			fluxD.Set(xp, j, i)

			if writeVel {
				var v float64
				if c.validVel && c.dd > epsDepth {
					v = xp / c.df
				}
				if ax == axisM {
					l.State.Vx.Set(v, j, i)
				} else {
					l.State.Vy.Set(v, j, i)
				}
			}
		}
	}
	return nil
}

// CoriolisEnabledRow reports whether Coriolis terms apply at row j. Carried
// as a level-wide flag set by the driver; kept as a method so momentum.go
// does not need a direct Nest reference.
func (l *Level) CoriolisEnabledRow(j int) bool { return l.coriolisOn }

func (l *Level) dischargeLimiterOn() bool { return l.dischargeLimiter }
func (l *Level) vLimit() float64 {
	if l.vLimitVal == 0 {
		return VLimitDefault
	}
	return l.vLimitVal
}

type faceClass struct {
	dd, df   float64
	validVel bool
	dpa      float64
}

// classifyFace implements the §4.4 step-1 wet/dry case split between cell
// A=(i,j) and its neighbor B=(i2,j2) across one face.
func classifyFace(bat, etaD, htD *sparseDense, i, j, i2, j2 int) faceClass {
	batA, batB := bat.Get(j, i), bat.Get(j2, i2)
	hdA, hdB := htD.Get(j, i), htD.Get(j2, i2)
	etaA, etaB := etaD.Get(j, i), etaD.Get(j2, i2)

	wetA := hdA > epsWet
	wetB := hdB > epsWet

	switch {
	case wetA && wetB:
		if -batB >= etaA || -batA >= etaB {
			// degenerate: shallower side governs, no advective velocity.
			shallow := hdA
			if hdB < hdA {
				shallow = hdB
			}
			return faceClass{dd: shallow, df: shallow, validVel: false}
		}
		dd := (hdA + hdB) / 2
		df := fourPointAvgDepth(htD, i, j, i2, j2)
		return faceClass{dd: dd, df: df, validVel: true, dpa: df}
	case wetA && !wetB:
		if batB > batA {
			v := etaA - etaB
			return faceClass{dd: v, df: v, validVel: true, dpa: v}
		}
		return faceClass{dd: hdA, df: hdA, validVel: true, dpa: hdA}
	case !wetA && wetB:
		if batA > batB {
			v := etaB - etaA
			return faceClass{dd: v, df: v, validVel: true, dpa: v}
		}
		return faceClass{dd: hdB, df: hdB, validVel: true, dpa: hdB}
	default:
		return faceClass{}
	}
}

// fourPointAvgDepth averages H_d of the two cells (i,j) and (i2,j2) that
// share the face; H_a is not included in the average.
func fourPointAvgDepth(htD *sparseDense, i, j, i2, j2 int) float64 {
	return (htD.Get(j, i) + htD.Get(j2, i2)) / 2
}

// fourPointAvg interpolates the orthogonal flux component onto the face
// between (i,j) and (i2,j2), a 4-point staggered average.
func fourPointAvg(ortho *sparseDense, i, j, i2, j2 int, ax axis) float64 {
	nx := ortho.Shape[1]
	ny := ortho.Shape[0]
	get := func(r, c int) float64 {
		if r < 0 || r >= ny || c < 0 || c >= nx {
			return 0
		}
		return ortho.Get(r, c)
	}
	if ax == axisM {
		return (get(j, i) + get(j-1, i) + get(j, i2) + get(j-1, i2)) / 4
	}
	return (get(j, i) + get(j, i-1) + get(j2, i) + get(j2, i-1)) / 4
}

// advectionTerm implements §4.4 step 6: first-order upwind advection,
// falling back to the central donor term when any contributing depth is
// below epsDepth.
func advectionTerm(l *Level, ax axis, i, j, i2, j2 int, htA, fluxA *sparseDense) float64 {
	f := fluxA.Get(j, i)
	var donorRow, donorCol, upRow, upCol int
	var step float64
	if ax == axisM {
		if l.Header.IsGeographic {
			step = l.Coeff.R2M[j]
		} else {
			step = l.Dt / l.Header.XInc
		}
		if f >= 0 {
			donorRow, donorCol = j, i
			upRow, upCol = j, i-1
		} else {
			donorRow, donorCol = j, i2
			upRow, upCol = j, i2+1
		}
	} else {
		if l.Header.IsGeographic {
			step = l.Coeff.R0[j]
		} else {
			step = l.Dt / l.Header.YInc
		}
		if f >= 0 {
			donorRow, donorCol = j, i
			upRow, upCol = j-1, i
		} else {
			donorRow, donorCol = j2, i2
			upRow, upCol = j2+1, i2
		}
	}
	hDonor := htA.Get(donorRow, donorCol)
	if hDonor < epsDepth {
		return 0
	}
	fDonor := fluxA.Get(donorRow, donorCol)
	nx, ny := l.Header.NX, l.Header.NY
	if upRow < 0 || upRow >= ny || upCol < 0 || upCol >= nx {
		return -step * (fDonor * fDonor / hDonor)
	}
	hUp := htA.Get(upRow, upCol)
	if hUp < epsDepth {
		return -step * (fDonor * fDonor / hDonor)
	}
	fUp := fluxA.Get(upRow, upCol)
	return -step * (fDonor*fDonor/hDonor - fUp*fUp/hUp)
}
