package nswing

import "testing"

func TestIntpLinForwardMonotone(t *testing.T) {
	src := []float64{0, 1, 2, 3}
	vals := []float64{0, 10, 20, 30}
	dst := []float64{0.5, 1.5, 2.5}
	out := make([]float64, len(dst))
	intpLin(src, vals, dst, out)
	want := []float64{5, 15, 25}
	for i := range want {
		if out[i] != want[i] {
			t.Errorf("intpLin[%d] = %v, want %v", i, out[i], want[i])
		}
	}
}

func TestIntpLinReversed(t *testing.T) {
	src := []float64{3, 2, 1, 0}
	vals := []float64{30, 20, 10, 0}
	dst := []float64{0.5, 2.5}
	out := make([]float64, len(dst))
	intpLin(src, vals, dst, out)
	want := []float64{5, 25}
	for i := range want {
		if out[i] != want[i] {
			t.Errorf("intpLin reversed [%d] = %v, want %v", i, out[i], want[i])
		}
	}
}

func TestIntpLinClampsOutOfRange(t *testing.T) {
	src := []float64{0, 1, 2}
	vals := []float64{0, 10, 20}
	dst := []float64{-1, 5}
	out := make([]float64, len(dst))
	intpLin(src, vals, dst, out)
	if out[0] != 0 || out[1] != 20 {
		t.Errorf("expected clamping to endpoint values, got %v", out)
	}
}
