package nswing

import "testing"

func flatMomentumLevel(nx, ny int, depth float64) *Level {
	l := &Level{
		Header:       GridHeader{NX: nx, NY: ny, XInc: 1, YInc: 1, ZMin: -depth},
		Dt:           0.01,
		Manning:      0.03,
		ManningDepth: 1000,
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

func TestMomentMFlatRestStaysZero(t *testing.T) {
	l := flatMomentumLevel(5, 5, 1.0)
	if err := MomentM(l); err != nil {
		t.Fatalf("MomentM returned an error on a flat resting pond: %v", err)
	}
	for _, v := range l.State.FluxMD.Elements {
		if v != 0 {
			t.Fatalf("expected zero flux on a flat resting pond, got %v", v)
		}
	}
}

func TestMomentMPermanentDryProducesZeroFlux(t *testing.T) {
	l := flatMomentumLevel(5, 5, 1.0)
	l.State.Bat.Set(MaxRunup-1, 2, 2)
	if err := MomentM(l); err != nil {
		t.Fatalf("MomentM error: %v", err)
	}
	if got := l.State.FluxMD.Get(2, 2); got != 0 {
		t.Errorf("permanently-dry cell must produce zero flux, got %v", got)
	}
}

func TestJupeWidthLinearModeIsUnbounded(t *testing.T) {
	l := flatMomentumLevel(5, 5, 1.0)
	if w := jupeWidth(l, false); w != 5 {
		t.Errorf("expected the L0 Cartesian jupe width of 5, got %d", w)
	}
	if w := jupeWidth(l, true); w != 1<<30 {
		t.Errorf("expected global linear mode to return an effectively-infinite jupe width, got %d", w)
	}
}

func TestConfigureThreadsLinearModeIntoMoment(t *testing.T) {
	l := flatMomentumLevel(5, 5, 1.0)
	l.Configure(false, true, VLimitDefault, true)
	if !l.linearMode {
		t.Fatal("Configure did not set linearMode")
	}
	if err := MomentM(l); err != nil {
		t.Fatalf("MomentM returned an error: %v", err)
	}
}

func TestAdvectionTermUsesGeographicCoefficients(t *testing.T) {
	l := flatMomentumLevel(5, 5, 1.0)
	l.Header.IsGeographic = true
	l.Coeff.R2M[2] = 7.0
	l.Coeff.R0[2] = 11.0

	l.State.FluxMA.Set(1.0, 2, 2)
	gotM := advectionTerm(l, axisM, 2, 2, 3, 2, l.State.HTotalA, l.State.FluxMA)
	if want := -7.0; gotM != want {
		t.Errorf("axisM: expected R2M-scaled advection %v, got %v", want, gotM)
	}

	l.State.FluxNA.Set(1.0, 2, 2)
	gotN := advectionTerm(l, axisN, 2, 2, 2, 3, l.State.HTotalA, l.State.FluxNA)
	if want := -11.0; gotN != want {
		t.Errorf("axisN: expected R0-scaled advection %v, got %v", want, gotN)
	}
}

func TestClassifyFaceBothWetSymmetric(t *testing.T) {
	bat := flatMomentumLevel(3, 3, 1.0).State.Bat
	etaD := flatMomentumLevel(3, 3, 1.0).State.EtaD
	htD := flatMomentumLevel(3, 3, 1.0).State.HTotalD
	c := classifyFace(bat, etaD, htD, 0, 0, 1, 0)
	if c.dd != 1.0 {
		t.Errorf("expected symmetric wet/wet dd=1.0, got %v", c.dd)
	}
	if !c.validVel {
		t.Error("expected validVel=true for ordinary wet/wet face")
	}
}
