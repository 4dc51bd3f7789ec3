package source

import "testing"

func TestKabaSourceType2CentersOnGrid(t *testing.T) {
	k := &KabaSource{Type: 2, CenterX: 5, CenterY: 5, HalfWidthX: 1, HalfWidthY: 1}
	nx, ny := 10, 10
	z := make([]float64, nx*ny)
	k.Fill(nx, ny, 0, 0, 1, 1, z)

	if z[5*nx+5] != 1 {
		t.Errorf("expected center cell set to 1, got %v", z[5*nx+5])
	}
	if z[0] != 0 {
		t.Errorf("expected corner cell to remain 0, got %v", z[0])
	}
	count := 0
	for _, v := range z {
		if v == 1 {
			count++
		}
	}
	want := (2*k.HalfWidthX + 1) * (2*k.HalfWidthY + 1)
	if count != want {
		t.Errorf("expected %d cells set, got %d", want, count)
	}
}

func TestKabaSourceType1AbsoluteExtents(t *testing.T) {
	k := &KabaSource{Type: 1, XMin: 2, XMax: 4, YMin: 2, YMax: 4}
	nx, ny := 10, 10
	z := make([]float64, nx*ny)
	k.Fill(nx, ny, 0, 0, 1, 1, z)
	if z[3*nx+3] != 1 {
		t.Error("expected interior of extents to be set")
	}
}
