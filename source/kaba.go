package source

import "math"

// KabaSource is a prismatic (block) initial-condition region used with
// Green's-function source methods, per the original's kaba_source. Type 1
// specifies absolute extents; type 2 specifies a center and half-widths
// expressed in cell counts.
type KabaSource struct {
	Type                   int // 1 = absolute extents, 2 = center + half-width in cells
	XMin, XMax, YMin, YMax float64
	CenterX, CenterY       float64
	HalfWidthX, HalfWidthY int // cell counts, type 2 only
}

// Fill zeros z (row-major nx*ny) and sets 1 inside the prism's footprint,
// matching kaba_source's column/row bracket arithmetic.
func (k *KabaSource) Fill(nx, ny int, xMin, yMin, xInc, yInc float64, z []float64) {
	for i := range z {
		z[i] = 0
	}

	var col1, col2, row1, row2 int
	if k.Type == 1 {
		col1 = round((k.XMin-xMin)/xInc) + 1
		col2 = round((k.XMax - xMin) / xInc)
		row1 = round((k.YMin-yMin)/yInc) + 1
		row2 = round((k.YMax - yMin) / yInc)
	} else {
		col1 = round((k.CenterX-xMin)/xInc) - k.HalfWidthX
		col2 = col1 + 2*k.HalfWidthX
		row1 = round((k.CenterY-yMin)/yInc) - k.HalfWidthY
		row2 = row1 + 2*k.HalfWidthY
	}

	for row := clamp(row1, 0, ny-1); row <= clamp(row2, 0, ny-1); row++ {
		for col := clamp(col1, 0, nx-1); col <= clamp(col2, 0, nx-1); col++ {
			z[row*nx+col] = 1
		}
	}
}

func round(v float64) int { return int(math.Round(v)) }

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
