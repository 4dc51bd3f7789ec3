package nswing

// Upscale averages child's eta back onto the parent cells its footprint
// overlaps, per §4.6. Invoked once per parent step at the child's
// midpoint sub-iteration (i==r/2, floor division on odd r per the
// documented open question). subStepIsEven is true when the refinement
// ratio r is even; the child eta is then averaged as (eta_a+eta_d)/2 for
// time accuracy, while an odd ratio uses eta_d directly.
func Upscale(parent, child *Level, subStepIsEven bool) {
	n := child.Nesting
	r := n.IncRatio

	for prow := n.LLRow; prow <= n.URRow; prow++ {
		for pcol := n.LLCol; pcol <= n.URCol; pcol++ {
			upscaleCell(parent, child, n, prow, pcol, r, subStepIsEven)
		}
	}
}

// upscaleCell handles one parent cell's footprint. Leaves the parent
// value untouched unless more than two-thirds of the child cells in the
// footprint are wet.
func upscaleCell(parent, child *Level, n *Nesting, prow, pcol, r int, subStepIsEven bool) {
	cRowBase := (prow - n.LLRow) * r
	cColBase := (pcol - n.LLCol) * r

	wetCount := 0
	sum := 0.0
	total := 0

	for dr := 1; dr < r; dr++ { // exclude a one-cell rim inside the child
		for dc := 1; dc < r; dc++ {
			crow := cRowBase + dr
			ccol := cColBase + dc
			if crow <= 0 || crow >= child.Header.NY-1 || ccol <= 0 || ccol >= child.Header.NX-1 {
				continue
			}
			total++
			bat := child.State.Bat.Get(crow, ccol)
			var eta float64
			if subStepIsEven {
				eta = (child.State.EtaA.Get(crow, ccol) + child.State.EtaD.Get(crow, ccol)) / 2
			} else {
				eta = child.State.EtaD.Get(crow, ccol)
			}
			if bat+eta > epsWet {
				wetCount++
			}
			sum += eta
			if bat < 0 {
				sum -= parent.State.Bat.Get(prow, pcol)
			}
		}
	}

	// more-than-two-thirds-wet threshold: floor(inc^2*2/3) expressed as a
	// fraction comparison so it generalizes to the (r-1)^2 footprint here.
	if total == 0 || wetCount*3 <= 2*total {
		return
	}

	parent.State.EtaD.Set(sum/float64(total), prow, pcol)
}
