package nswing

import "testing"

func TestCFLTimeStep(t *testing.T) {
	h := &GridHeader{NX: 10, NY: 10, XInc: 1, YInc: 1, ZMin: -1}
	got := h.CFLTimeStep()
	want := 1.0 / 3.13049516849 // sqrt(9.8*1)
	if diff := got - want; diff > 1e-3 || diff < -1e-3 {
		t.Errorf("CFLTimeStep() = %v, want ~%v", got, want)
	}
}

func TestCheckCFLRejectsTooLarge(t *testing.T) {
	h := &GridHeader{NX: 10, NY: 10, XInc: 1, YInc: 1, ZMin: -1}
	dtCFL := h.CFLTimeStep()
	cerr, warn := h.CheckCFL(1.1 * dtCFL)
	if cerr == nil {
		t.Fatal("expected a ConfigError for dt > dtCFL, got nil")
	}
	if warn != nil {
		t.Errorf("did not expect a warning alongside a hard CFL rejection, got %v", warn)
	}
}

func TestCheckCFLWarnsNearHalf(t *testing.T) {
	h := &GridHeader{NX: 10, NY: 10, XInc: 1, YInc: 1, ZMin: -1}
	dtCFL := h.CFLTimeStep()
	cerr, warn := h.CheckCFL(0.6 * dtCFL)
	if cerr != nil {
		t.Fatalf("did not expect a ConfigError, got %v", cerr)
	}
	if warn == nil {
		t.Error("expected a NumericalWarning for dt close to half the CFL limit")
	}
}

func TestCheckCFLQuietWellBelowLimit(t *testing.T) {
	h := &GridHeader{NX: 10, NY: 10, XInc: 1, YInc: 1, ZMin: -1}
	dtCFL := h.CFLTimeStep()
	cerr, warn := h.CheckCFL(0.1 * dtCFL)
	if cerr != nil || warn != nil {
		t.Errorf("expected no error or warning for dt well below limit, got cerr=%v warn=%v", cerr, warn)
	}
}
