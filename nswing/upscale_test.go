package nswing

import "testing"

func buildParentChild(r int) (*Level, *Level) {
	parent := &Level{
		Header: GridHeader{NX: 6, NY: 6, XInc: float64(r), YInc: float64(r)},
		Dt:     1.0,
	}
	parent.Allocate()
	for i := range parent.State.Bat.Elements {
		parent.State.Bat.Elements[i] = 10
	}

	childNesting := &Nesting{LLCol: 1, LLRow: 1, URCol: 3, URRow: 3, IncRatio: r}
	child := &Level{
		Header:  GridHeader{NX: (3-1)*r + 1, NY: (3-1)*r + 1, XInc: 1, YInc: 1},
		Dt:      1.0 / float64(r),
		Nesting: childNesting,
	}
	child.Allocate()
	for i := range child.State.Bat.Elements {
		child.State.Bat.Elements[i] = 10
		child.State.EtaD.Elements[i] = 0.25
		child.State.EtaA.Elements[i] = 0.25
	}
	return parent, child
}

func TestUpscaleWetFootprintWritesParent(t *testing.T) {
	parent, child := buildParentChild(4)
	Upscale(parent, child, false)
	got := parent.State.EtaD.Get(2, 2)
	if got != 0.25 {
		t.Errorf("expected parent eta averaged to 0.25 for a fully wet footprint, got %v", got)
	}
}

func TestUpscaleSkipsMostlyDryFootprint(t *testing.T) {
	parent, child := buildParentChild(4)
	// Dry out all but a minority of the interior child cells.
	for row := 1; row < child.Header.NY-1; row++ {
		for col := 1; col < child.Header.NX-1; col++ {
			if row != 1 {
				child.State.Bat.Set(MaxRunup-1, row, col)
				child.State.EtaD.Set(-100, row, col)
			}
		}
	}
	parent.State.EtaD.Set(-1, 2, 2)
	Upscale(parent, child, false)
	if got := parent.State.EtaD.Get(2, 2); got != -1 {
		t.Errorf("expected parent cell untouched when footprint is mostly dry, got %v", got)
	}
}
