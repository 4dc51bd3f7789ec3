package ncio

import (
	"bufio"
	"fmt"
	"os"
)

// MaregWriter emits the text maregraph format of §6: header rows of
// names, then coordinate rows, then one row per sample containing
// t, followed by (eta, [vx, vy, bearing]) per registered point.
type MaregWriter struct {
	w           *bufio.Writer
	f           *os.File
	includeVel  bool
}

// NewMaregWriter opens path and writes the header (names, then
// coordinates) for the given points.
func NewMaregWriter(path string, names []string, x, y []float64, includeVel bool) (*MaregWriter, error) {
	f, err := os.Create(path)
	if err != nil {
		return nil, fmt.Errorf("ncio: create %s: %w", path, err)
	}
	mw := &MaregWriter{w: bufio.NewWriter(f), f: f, includeVel: includeVel}

	for _, n := range names {
		fmt.Fprintf(mw.w, "%s\t", n)
	}
	fmt.Fprintln(mw.w)
	for i := range names {
		fmt.Fprintf(mw.w, "%.6f %.6f\t", x[i], y[i])
	}
	fmt.Fprintln(mw.w)
	return mw, nil
}

// WriteSample emits one sample row: t followed by eta (and vx, vy,
// bearing if includeVel was set) per point.
func (mw *MaregWriter) WriteSample(t float64, eta, vx, vy, bearing []float64) error {
	fmt.Fprintf(mw.w, "%.6f", t)
	for i := range eta {
		if mw.includeVel {
			fmt.Fprintf(mw.w, "\t%.6f %.6f %.6f %.6f", eta[i], vx[i], vy[i], bearing[i])
		} else {
			fmt.Fprintf(mw.w, "\t%.6f", eta[i])
		}
	}
	_, err := fmt.Fprintln(mw.w)
	return err
}

// Close flushes and closes the underlying file.
func (mw *MaregWriter) Close() error {
	if err := mw.w.Flush(); err != nil {
		return err
	}
	return mw.f.Close()
}
