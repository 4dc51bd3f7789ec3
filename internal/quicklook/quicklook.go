// Package quicklook renders a level's free-surface elevation as a PNG
// heatmap, following the vgimg/draw canvas pattern the teacher uses in
// its LegendHandler (root webserver.go): a vg/draw canvas filled with
// colored cell polygons, written out as a PNG through vgimg.PngCanvas.
package quicklook

import (
	"fmt"
	"image/color"
	"io"
	"math"

	"github.com/ctessum/sparse"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"
	"gonum.org/v1/plot/vg/vgimg"
)

// Palette maps a normalized value in [0, 1] to a color. The default
// palette runs blue (low) through white (the midpoint of the grid's
// [min, max] range) to red (high).
type Palette func(t float64) color.Color

// DivergingBlueRed is the default palette: blue at 0, white at 0.5, red at 1.
func DivergingBlueRed(t float64) color.Color {
	if t < 0 {
		t = 0
	}
	if t > 1 {
		t = 1
	}
	if t < 0.5 {
		s := t / 0.5
		return color.NRGBA{
			R: uint8(255 * s),
			G: uint8(255 * s),
			B: 255,
			A: 255,
		}
	}
	s := (t - 0.5) / 0.5
	return color.NRGBA{
		R: 255,
		G: uint8(255 * (1 - s)),
		B: uint8(255 * (1 - s)),
		A: 255,
	}
}

const (
	defaultWidth  = 6.2 * vg.Inch
	defaultHeight = 4.8 * vg.Inch
)

// RenderHeatmap draws grid as a PNG heatmap scaled to [min, max] with
// pal, writing the encoded image to w.
func RenderHeatmap(grid *sparse.DenseArray, pal Palette, w io.Writer) error {
	if pal == nil {
		pal = DivergingBlueRed
	}
	ny, nx := grid.Shape[0], grid.Shape[1]
	if ny == 0 || nx == 0 {
		return fmt.Errorf("quicklook: empty grid")
	}

	lo, hi := math.Inf(1), math.Inf(-1)
	for _, v := range grid.Elements {
		if v < lo {
			lo = v
		}
		if v > hi {
			hi = v
		}
	}
	if hi <= lo {
		hi = lo + 1
	}

	c := vgimg.New(defaultWidth, defaultHeight)
	dc := draw.New(c)

	cellW := dc.Size().X / vg.Length(nx)
	cellH := dc.Size().Y / vg.Length(ny)

	for j := 0; j < ny; j++ {
		for i := 0; i < nx; i++ {
			v := grid.Get(j, i)
			t := (v - lo) / (hi - lo)
			x0 := dc.Min.X + vg.Length(i)*cellW
			y0 := dc.Min.Y + vg.Length(ny-1-j)*cellH
			poly := []vg.Point{
				{X: x0, Y: y0},
				{X: x0 + cellW, Y: y0},
				{X: x0 + cellW, Y: y0 + cellH},
				{X: x0, Y: y0 + cellH},
				{X: x0, Y: y0},
			}
			dc.FillPolygon(pal(t), poly)
		}
	}

	png := vgimg.PngCanvas{Canvas: c}
	_, err := png.WriteTo(w)
	return err
}
