package nswing

// InjectEdges samples the parent's flux fields along the child's bounding
// footprint, linearly resamples them onto the child's finer edge
// positions, and writes the result into the child's outermost rows and
// columns as its boundary flux for this sub-step, per §4.5. The parent
// snapshot is read once per sub-step call; it does not change across a
// child's r_k sub-steps because injection always reads the parent's "a"
// buffers, which are only updated by the parent's own commit.
func InjectEdges(parent, child *Level) {
	n := child.Nesting
	if n == nil {
		return
	}
	sampleParentEdges(parent, child)
	resampleToChild(parent, child, n)
	zeroDryEdges(child)
}

// sampleParentEdges copies the parent's boundary flux along the
// west/east columns and south/north rows bounding the child into the
// child's parent-side edge scratch.
func sampleParentEdges(parent, child *Level) {
	n := child.Nesting
	e := &child.Edge

	for r, row := n.LLRow, 0; row <= n.URRow-n.LLRow; r, row = r+1, row+1 {
		e.ParentW[row] = parent.State.FluxMA.Get(r, n.LLCol)
		e.ParentE[row] = parent.State.FluxMA.Get(r, n.URCol)
	}
	for c, col := n.LLCol, 0; col <= n.URCol-n.LLCol; c, col = c+1, col+1 {
		e.ParentS[col] = parent.State.FluxNA.Get(n.LLRow, c)
		e.ParentN[col] = parent.State.FluxNA.Get(n.URRow, c)
	}
}

// resampleToChild linearly interpolates each parent-side edge sample onto
// the child's finer cell positions along that edge, per intp_lin in the
// original source.
func resampleToChild(parent, child *Level, n *Nesting) {
	parentDx := parent.Header.XInc
	parentDy := parent.Header.YInc

	srcX := axisPositions(len(child.Edge.ParentS), parentDx, parent.Header.XMin+float64(n.LLCol)*parentDx)
	srcYw := axisPositions(len(child.Edge.ParentW), parentDy, parent.Header.YMin+float64(n.LLRow)*parentDy)

	dstX := axisPositions(child.Header.NX, child.Header.XInc, child.Header.XMin)
	dstY := axisPositions(child.Header.NY, child.Header.YInc, child.Header.YMin)

	intpLin(srcX, child.Edge.ParentS, dstX, child.Edge.ChildS)
	intpLin(srcX, child.Edge.ParentN, dstX, child.Edge.ChildN)
	intpLin(srcYw, child.Edge.ParentW, dstY, child.Edge.ChildW)
	intpLin(srcYw, child.Edge.ParentE, dstY, child.Edge.ChildE)
}

func axisPositions(n int, inc, min float64) []float64 {
	out := make([]float64, n)
	for i := range out {
		out[i] = min + float64(i)*inc
	}
	return out
}

// intpLin implements the original's 1-D linear interpolation with a
// monotonicity check: if src is decreasing it is walked in reverse.
func intpLin(src, srcVals, dst, out []float64) {
	n := len(src)
	if n == 0 {
		return
	}
	reversed := n > 1 && src[n-1] < src[0]

	for k, x := range dst {
		if reversed {
			out[k] = interpReversed(src, srcVals, x)
		} else {
			out[k] = interpForward(src, srcVals, x)
		}
	}
}

func interpForward(src, vals []float64, x float64) float64 {
	n := len(src)
	if x <= src[0] {
		return vals[0]
	}
	if x >= src[n-1] {
		return vals[n-1]
	}
	for i := 1; i < n; i++ {
		if x <= src[i] {
			span := src[i] - src[i-1]
			if span == 0 {
				return vals[i-1]
			}
			frac := (x - src[i-1]) / span
			return vals[i-1] + frac*(vals[i]-vals[i-1])
		}
	}
	return vals[n-1]
}

func interpReversed(src, vals []float64, x float64) float64 {
	n := len(src)
	if x >= src[0] {
		return vals[0]
	}
	if x <= src[n-1] {
		return vals[n-1]
	}
	for i := 1; i < n; i++ {
		if x >= src[i] {
			span := src[i] - src[i-1]
			if span == 0 {
				return vals[i-1]
			}
			frac := (x - src[i-1]) / span
			return vals[i-1] + frac*(vals[i]-vals[i-1])
		}
	}
	return vals[n-1]
}

// zeroDryEdges clears the freshly-written child boundary flux wherever the
// child cell is dry (bat+eta_a <= eps_wet), per §4.5's exception clause.
func zeroDryEdges(child *Level) {
	nx, ny := child.Header.NX, child.Header.NY
	bat := child.State.Bat
	etaA := child.State.EtaA

	dry := func(row, col int) bool {
		return bat.Get(row, col)+etaA.Get(row, col) <= epsWet
	}

	for row := 0; row < ny; row++ {
		if dry(row, 0) {
			child.Edge.ChildW[row] = 0
		}
		if dry(row, nx-1) {
			child.Edge.ChildE[row] = 0
		}
	}
	for col := 0; col < nx; col++ {
		if dry(0, col) {
			child.Edge.ChildS[col] = 0
		}
		if dry(ny-1, col) {
			child.Edge.ChildN[col] = 0
		}
	}

	for row := 0; row < ny; row++ {
		child.State.FluxMA.Set(child.Edge.ChildW[row], row, 0)
		child.State.FluxMA.Set(child.Edge.ChildE[row], row, nx-1)
	}
	for col := 0; col < nx; col++ {
		child.State.FluxNA.Set(child.Edge.ChildS[col], 0, col)
		child.State.FluxNA.Set(child.Edge.ChildN[col], ny-1, col)
	}
}
