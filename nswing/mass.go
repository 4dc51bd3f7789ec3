package nswing

// Mass advances l's surface elevation and total depth by one continuity
// step, per §4.3. The Cartesian and spherical variants share this entry
// point; the level's IsGeographic flag selects between them once, not
// per cell.
func Mass(l *Level) {
	if l.Header.IsGeographic {
		massSpherical(l)
	} else {
		massCartesian(l)
	}
}

func massCartesian(l *Level) {
	h := &l.Header
	nx, ny := h.NX, h.NY
	dtdx := l.Dt / h.XInc
	dtdy := l.Dt / h.YInc

	bat := l.State.Bat
	etaA := l.State.EtaA
	etaD := l.State.EtaD
	fm := l.State.FluxMA
	fn := l.State.FluxNA
	ht := l.State.HTotalD

	writeLevel := l.IsWriteLevel
	longBeach, shortBeach := l.State.LongBeach, l.State.ShortBeach

	for j := 0; j < ny; j++ {
		jm1 := j - 1
		if jm1 < 0 {
			jm1 = j // replicate at bottom edge
		}
		for i := 0; i < nx; i++ {
			b := bat.Get(j, i)
			if b <= MaxRunup {
				continue
			}
			im1 := i - 1
			if im1 < 0 {
				im1 = i // replicate at left edge
			}
			mDiv := fm.Get(j, i) - fm.Get(j, im1)
			nDiv := fn.Get(j, i) - fn.Get(jm1, i)
			eta := etaA.Get(j, i) - dtdx*mDiv - dtdy*nDiv

			d := eta + b
			if d > epsDepth {
				ht.Set(d, j, i)
			} else {
				ht.Set(0, j, i)
				eta = -b
			}
			etaD.Set(eta, j, i)

			if writeLevel {
				if b > 0 && d < epsOne {
					longBeach.Set(1, j, i)
				}
				if b < 0 && d > epsOne {
					shortBeach.Set(1, j, i)
				}
			}
		}
	}
}

func massSpherical(l *Level) {
	h := &l.Header
	nx, ny := h.NX, h.NY

	bat := l.State.Bat
	etaA := l.State.EtaA
	etaD := l.State.EtaD
	fm := l.State.FluxMA
	fn := l.State.FluxNA
	ht := l.State.HTotalD

	writeLevel := l.IsWriteLevel
	longBeach, shortBeach := l.State.LongBeach, l.State.ShortBeach

	for j := 0; j < ny; j++ {
		jm1 := j - 1
		if jm1 < 0 {
			jm1 = j
		}
		r2m := l.Coeff.R2M[j]
		r2n := l.Coeff.R2N[j]
		r1nHere := l.Coeff.R1N[j]
		r1nBelow := l.Coeff.R1N[jm1]

		for i := 0; i < nx; i++ {
			b := bat.Get(j, i)
			if b <= MaxRunup {
				continue
			}
			im1 := i - 1
			if im1 < 0 {
				im1 = i
			}
			mDiv := r2m * (fm.Get(j, i) - fm.Get(j, im1))
			nDiv := r2n * (r1nHere*fn.Get(j, i) - r1nBelow*fn.Get(jm1, i))
			eta := etaA.Get(j, i) - mDiv - nDiv

			d := eta + b
			if d > epsDepth {
				ht.Set(d, j, i)
			} else {
				ht.Set(0, j, i)
				eta = -b
			}
			etaD.Set(eta, j, i)

			if writeLevel {
				if b > 0 && d < epsOne {
					longBeach.Set(1, j, i)
				}
				if b < 0 && d > epsOne {
					shortBeach.Set(1, j, i)
				}
			}
		}
	}
}
