package nswing

import (
	"runtime"
	"sync"
)

// Hooks lets callers observe the recursion at the write level: tracker
// updates and sampler flushes fire from inside the innermost loop, per §2
// and §4.9/§4.10, without schedule.go needing to import tracker/sampler
// types directly into its control flow.
type Hooks struct {
	OnWriteLevelVisit func(l *Level)
}

// StepL0 advances the whole nest by one L0 time step: mass, boundary,
// recursive nested sub-stepping, L0 momentum, and commit, strictly in
// that order per §5's ordering guarantees.
func StepL0(n *Nest, cfg *BoundaryConfig, hooks Hooks) error {
	root := n.Root()
	Mass(root)
	ApplyBoundary(root, cfg, n.Time)

	if root.IsWriteLevel && hooks.OnWriteLevelVisit != nil {
		hooks.OnWriteLevelVisit(root)
	}

	for _, child := range root.Children {
		if err := stepChild(n, root, child, hooks); err != nil {
			return err
		}
	}

	if err := runMoment(root); err != nil {
		return err
	}
	replicate(root)
	root.Commit()
	n.Time += root.Dt
	return nil
}

// stepChild implements the recursive driver of §4.8/§9: r_level
// sub-steps, each injecting edges, solving mass, recursing into any
// grandchildren, solving momentum, replicating ghost cells, upscaling at
// the floor(r/2) midpoint, and committing.
func stepChild(n *Nest, parent, child *Level, hooks Hooks) error {
	if child.Nesting.ShouldHold(n.Time) {
		return nil
	}
	if child.Nesting.JumpTime > 0 && !child.Nesting.jumped {
		ResampleGrid(parent, child)
		child.Nesting.MarkJumped()
	}

	r := child.Nesting.IncRatio
	half := r / 2

	for i := 0; i < r; i++ {
		InjectEdges(parent, child)
		Mass(child)

		if child.IsWriteLevel && hooks.OnWriteLevelVisit != nil {
			hooks.OnWriteLevelVisit(child)
		}

		for _, grandchild := range child.Children {
			if err := stepChild(n, child, grandchild, hooks); err != nil {
				return err
			}
		}

		if err := runMoment(child); err != nil {
			return err
		}
		replicate(child)

		if n.UpscaleOn && i == half {
			Upscale(parent, child, r%2 == 0)
		}
		child.Commit()
	}
	return nil
}

// runMoment runs MomentM and MomentN for l, in parallel when more than
// one hardware thread is available, sequentially (M then N, in fixed
// order, with no shared scratch) otherwise. Both paths must produce
// identical results per §5/§9.
func runMoment(l *Level) error {
	if runtime.GOMAXPROCS(0) < 2 {
		if err := MomentM(l); err != nil {
			return err
		}
		return MomentN(l)
	}

	var wg sync.WaitGroup
	var errM, errN error
	wg.Add(2)
	go func() {
		defer wg.Done()
		errM = MomentM(l)
	}()
	go func() {
		defer wg.Done()
		errN = MomentN(l)
	}()
	wg.Wait()

	if errM != nil {
		return errM
	}
	return errN
}

// replicate fills the left/bottom ghost row and column by copying the
// adjacent interior row/column, skipping permanently-dry cells, matching
// the original's replicate().
func replicate(l *Level) {
	nx, ny := l.Header.NX, l.Header.NY
	bat := l.State.Bat

	for row := 0; row < ny; row++ {
		if bat.Get(row, 0) <= MaxRunup {
			continue
		}
		copyCell(l, row, 0, row, 1)
	}
	for col := 0; col < nx; col++ {
		if bat.Get(0, col) <= MaxRunup {
			continue
		}
		copyCell(l, 0, col, 1, col)
	}
}

func copyCell(l *Level, dstRow, dstCol, srcRow, srcCol int) {
	s := &l.State
	s.EtaD.Set(s.EtaD.Get(srcRow, srcCol), dstRow, dstCol)
	s.FluxMD.Set(s.FluxMD.Get(srcRow, srcCol), dstRow, dstCol)
	s.FluxND.Set(s.FluxND.Get(srcRow, srcCol), dstRow, dstCol)
	s.HTotalD.Set(s.HTotalD.Get(srcRow, srcCol), dstRow, dstCol)
}

// ResampleGrid resamples the parent's eta_a onto the child's eta_a and
// eta_d when a held (jump-time) child first resumes, per §4.8's hold_time
// hook. Fluxes and total depth are not resampled.
// The original uses a bicubic kernel here while ordinary edge injection
// is bilinear; that inconsistency is preserved and flagged rather than
// guessed away, per the documented open question.
func ResampleGrid(parent, child *Level) {
	nx, ny := child.Header.NX, child.Header.NY
	for row := 0; row < ny; row++ {
		y := child.Header.YMin + float64(row)*child.Header.YInc
		for col := 0; col < nx; col++ {
			x := child.Header.XMin + float64(col)*child.Header.XInc
			eta := bicubicSample(parent.State.EtaA, &parent.Header, x, y)
			child.State.EtaA.Set(eta, row, col)
			child.State.EtaD.Set(eta, row, col)
		}
	}
}

// bicubicSample is a Catmull-Rom bicubic interpolation of field at
// world-space (x, y) against parent's header geometry.
func bicubicSample(field *sparseDense, h *GridHeader, x, y float64) float64 {
	fc := (x - h.XMin) / h.XInc
	fr := (y - h.YMin) / h.YInc
	col := int(fc)
	row := int(fr)
	tx := fc - float64(col)
	ty := fr - float64(row)

	get := func(r, c int) float64 {
		if r < 0 {
			r = 0
		}
		if r >= h.NY {
			r = h.NY - 1
		}
		if c < 0 {
			c = 0
		}
		if c >= h.NX {
			c = h.NX - 1
		}
		return field.Get(r, c)
	}

	var cols [4]float64
	for i := -1; i <= 2; i++ {
		var p [4]float64
		for j := -1; j <= 2; j++ {
			p[j+1] = get(row+i, col+j)
		}
		cols[i+1] = catmullRom(p, tx)
	}
	return catmullRom(cols, ty)
}

func catmullRom(p [4]float64, t float64) float64 {
	return 0.5 * ((2 * p[1]) +
		(-p[0]+p[2])*t +
		(2*p[0]-5*p[1]+4*p[2]-p[3])*t*t +
		(-p[0]+3*p[1]-3*p[2]+p[3])*t*t*t)
}
