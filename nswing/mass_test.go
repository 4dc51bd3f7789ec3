package nswing

import "testing"

func flatPond(nx, ny int, depth float64) *Level {
	l := &Level{
		Depth:        0,
		Header:       GridHeader{NX: nx, NY: ny, XInc: 1, YInc: 1, ZMin: -depth},
		Dt:           0.01,
		IsWriteLevel: true,
	}
	l.Allocate()
	for i := range l.State.Bat.Elements {
		l.State.Bat.Elements[i] = depth
		l.State.HTotalA.Elements[i] = depth
		l.State.HTotalD.Elements[i] = depth
	}
	return l
}

func TestMassCartesianFlatPondPreservesEta(t *testing.T) {
	l := flatPond(5, 5, 1.0)
	Mass(l)
	for row := 0; row < l.Header.NY; row++ {
		for col := 0; col < l.Header.NX; col++ {
			eta := l.State.EtaD.Get(row, col)
			if eta != 0 {
				t.Fatalf("flat pond with zero flux should leave eta at 0, got %v at (%d,%d)", eta, row, col)
			}
			ht := l.State.HTotalD.Get(row, col)
			if ht != 1.0 {
				t.Errorf("expected h_total=1 at (%d,%d), got %v", row, col, ht)
			}
		}
	}
}

func TestMassPermanentDryCellUntouched(t *testing.T) {
	l := flatPond(3, 3, 1.0)
	l.State.Bat.Set(MaxRunup-1, 1, 1)
	l.State.HTotalD.Set(42, 1, 1)
	Mass(l)
	if got := l.State.HTotalD.Get(1, 1); got != 42 {
		t.Errorf("permanently-dry cell must not be touched by Mass, h_total changed to %v", got)
	}
}

func TestMassDriesOutBelowEpsilonDepth(t *testing.T) {
	l := flatPond(3, 3, 0.0)
	for i := range l.State.Bat.Elements {
		l.State.Bat.Elements[i] = 0
	}
	l.State.EtaA.Set(-epsDepth/2, 1, 1)
	Mass(l)
	if ht := l.State.HTotalD.Get(1, 1); ht != 0 {
		t.Errorf("cell below epsDepth should report h_total=0, got %v", ht)
	}
	if eta := l.State.EtaD.Get(1, 1); eta != 0 {
		t.Errorf("dry cell eta should equal -bat (0 here), got %v", eta)
	}
}
