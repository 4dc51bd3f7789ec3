package ncio

import (
	"fmt"
	"os"

	"github.com/ctessum/cdf"
	"github.com/ctessum/sparse"
)

// TimeSeries3D is one (time, y, x) quantity ready to be written as a
// generic 3D NetCDF file, an ANUGA .sww-style file, or one leg of a MOST
// triple, per §6.
type TimeSeries3D struct {
	Name, Units, Description string
	NX, NY                   int
	XMin, YMin, XInc, YInc   float64
	Times                    []float64
	// Frames[t] is a row-major NY*NX snapshot at Times[t].
	Frames []*sparse.DenseArray
}

// WriteGeneric3D writes ts as a standard COARDS/CF-layout NetCDF file
// with time as the unlimited dimension and one (time,y,x) variable, per
// §6. The teacher's NetCDF binding exposes the classic (NetCDF-3) writer
// interface with no deflate/shuffle knobs, so frames are written
// uncompressed; see the design notes for why no chunked/compressed
// backend was substituted.
func WriteGeneric3D(path string, ts *TimeSeries3D) error {
	h := cdf.NewHeader(
		[]string{"time", "y", "x"},
		[]int{-1, ts.NY, ts.NX},
	)
	h.AddAttribute("", "comment", "NSWING output, COARDS/CF layout")
	h.AddVariable("time", []string{"time"}, []float64{0})
	h.AddAttribute("time", "units", "seconds since simulation start")
	h.AddVariable("x", []string{"x"}, []float64{0})
	h.AddVariable("y", []string{"y"}, []float64{0})
	h.AddVariable(ts.Name, []string{"time", "y", "x"}, []float32{0})
	h.AddAttribute(ts.Name, "units", ts.Units)
	h.AddAttribute(ts.Name, "description", ts.Description)
	h.Define()

	ff, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("ncio: create %s: %w", path, err)
	}
	defer ff.Close()

	f, err := cdf.Create(ff, h)
	if err != nil {
		return fmt.Errorf("ncio: write header to %s: %w", path, err)
	}

	writeAxis(f, "x", ts.NX, ts.XMin, ts.XInc)
	writeAxis(f, "y", ts.NY, ts.YMin, ts.YInc)
	writeFloat64(f, "time", ts.Times)

	for t, frame := range ts.Frames {
		writeFrame(f, ts.Name, t, frame)
	}
	return cdf.UpdateNumRecs(ff)
}

// WriteMOSTTriple writes the three MOST files (*_ha.nc height-above,
// *_ua.nc x-velocity, *_va.nc y-velocity) that share one grid geometry
// and time axis, per §6.
func WriteMOSTTriple(stem string, eta, u, v *TimeSeries3D) error {
	if err := WriteGeneric3D(stem+"_ha.nc", eta); err != nil {
		return err
	}
	if err := WriteGeneric3D(stem+"_ua.nc", u); err != nil {
		return err
	}
	return WriteGeneric3D(stem+"_va.nc", v)
}

// WriteANUGASww writes a simplified ANUGA-compatible .sww file: the same
// COARDS (time,y,x) layout as WriteGeneric3D under the "stage" variable
// name ANUGA expects for free-surface elevation.
func WriteANUGASww(path string, eta *TimeSeries3D) error {
	stage := *eta
	stage.Name = "stage"
	return WriteGeneric3D(path, &stage)
}

func writeAxis(f *cdf.File, name string, n int, min, inc float64) {
	vals := make([]float64, n)
	for i := range vals {
		vals[i] = min + float64(i)*inc
	}
	writeFloat64(f, name, vals)
}

func writeFloat64(f *cdf.File, name string, vals []float64) {
	end := f.Header.Lengths(name)
	start := make([]int, len(end))
	w := f.Writer(name, start, end)
	if _, err := w.Write(vals); err != nil {
		panic(fmt.Errorf("ncio: writing variable %s: %w", name, err))
	}
}

func writeFrame(f *cdf.File, name string, t int, frame *sparse.DenseArray) {
	data32 := make([]float32, len(frame.Elements))
	for i, v := range frame.Elements {
		data32[i] = float32(v)
	}
	end := f.Header.Lengths(name)
	start := make([]int, len(end))
	start[0] = t
	end[0] = t + 1
	w := f.Writer(name, start, end)
	if _, err := w.Write(data32); err != nil {
		panic(fmt.Errorf("ncio: writing frame %d of %s: %w", t, name, err))
	}
}

// WriteMaregNetCDF stores the same maregraph samples as the text writer
// (mareg.go) in NetCDF form: time, lon/x, lat/y, NamesMareg, and a 2-D
// maregs(time,count) variable, per §6.
func WriteMaregNetCDF(path string, names []string, x, y, times []float64, values [][]float64) error {
	count := len(names)
	h := cdf.NewHeader(
		[]string{"time", "count", "namelen"},
		[]int{-1, count, 32},
	)
	h.AddVariable("time", []string{"time"}, []float64{0})
	h.AddVariable("x", []string{"count"}, []float64{0})
	h.AddVariable("y", []string{"count"}, []float64{0})
	h.AddVariable("NamesMareg", []string{"count", "namelen"}, []byte{0})
	h.AddVariable("maregs", []string{"time", "count"}, []float32{0})
	h.AddAttribute("maregs", "description", "eta at each registered point")
	h.Define()

	ff, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("ncio: create %s: %w", path, err)
	}
	defer ff.Close()

	f, err := cdf.Create(ff, h)
	if err != nil {
		return fmt.Errorf("ncio: write header to %s: %w", path, err)
	}

	writeFloat64(f, "time", times)
	writeFloat64(f, "x", x)
	writeFloat64(f, "y", y)

	namebuf := make([]byte, count*32)
	for i, name := range names {
		copy(namebuf[i*32:(i+1)*32], name)
	}
	nend := f.Header.Lengths("NamesMareg")
	nstart := make([]int, len(nend))
	nw := f.Writer("NamesMareg", nstart, nend)
	if _, err := nw.Write(namebuf); err != nil {
		return fmt.Errorf("ncio: writing NamesMareg: %w", err)
	}

	for t, row := range values {
		row32 := make([]float32, len(row))
		for i, v := range row {
			row32[i] = float32(v)
		}
		end := f.Header.Lengths("maregs")
		start := make([]int, len(end))
		start[0] = t
		end[0] = t + 1
		w := f.Writer("maregs", start, end)
		if _, err := w.Write(row32); err != nil {
			return fmt.Errorf("ncio: writing maregs frame %d: %w", t, err)
		}
	}
	return cdf.UpdateNumRecs(ff)
}
