// Package ncio implements the grid and time-series file formats NSWING
// reads and writes: Surfer binary/ASCII grids, the various NetCDF output
// products, and maregraph text files.
package ncio

import (
	"bufio"
	"encoding/binary"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
)

const (
	magicBinary = "DSBB"
	magicASCII  = "DSAA"
)

// SurferGrid is the in-memory representation of a Surfer 6 grid: header
// extrema plus a row-major nx*ny array of float32 values, as read by
// ReadSurfer and written by WriteSurfer.
type SurferGrid struct {
	NX, NY                         int
	XMin, XMax, YMin, YMax         float64
	ZMin, ZMax                     float64
	Values                         []float32
}

// ReadSurfer reads a Surfer 6 grid, binary or ASCII, detected from the
// 4-byte magic. Any other magic is an error.
func ReadSurfer(path string) (*SurferGrid, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("ncio: open %s: %w", path, err)
	}
	defer f.Close()

	magic := make([]byte, 4)
	if _, err := io.ReadFull(f, magic); err != nil {
		return nil, fmt.Errorf("ncio: read magic from %s: %w", path, err)
	}

	switch string(magic) {
	case magicBinary:
		return readSurferBinary(f)
	case magicASCII:
		return readSurferASCII(f)
	default:
		return nil, fmt.Errorf("ncio: %s: unrecognized grid magic %q", path, magic)
	}
}

func readSurferBinary(f io.Reader) (*SurferGrid, error) {
	g := &SurferGrid{}
	var nx16, ny16 int16
	if err := binary.Read(f, binary.LittleEndian, &nx16); err != nil {
		return nil, err
	}
	if err := binary.Read(f, binary.LittleEndian, &ny16); err != nil {
		return nil, err
	}
	g.NX, g.NY = int(nx16), int(ny16)

	for _, dst := range []*float64{&g.XMin, &g.XMax, &g.YMin, &g.YMax, &g.ZMin, &g.ZMax} {
		if err := binary.Read(f, binary.LittleEndian, dst); err != nil {
			return nil, err
		}
	}

	g.Values = make([]float32, g.NX*g.NY)
	if err := binary.Read(f, binary.LittleEndian, g.Values); err != nil {
		return nil, fmt.Errorf("ncio: reading %d grid values: %w", len(g.Values), err)
	}
	return g, nil
}

func readSurferASCII(f io.Reader) (*SurferGrid, error) {
	g := &SurferGrid{}
	sc := bufio.NewScanner(f)
	sc.Buffer(make([]byte, 0, 64*1024), 1024*1024)

	readLine := func() []string {
		sc.Scan()
		return strings.Fields(sc.Text())
	}

	dims := readLine()
	if len(dims) < 2 {
		return nil, fmt.Errorf("ncio: malformed ASCII grid dimensions line")
	}
	g.NX, _ = strconv.Atoi(dims[0])
	g.NY, _ = strconv.Atoi(dims[1])

	xr := readLine()
	g.XMin, _ = strconv.ParseFloat(xr[0], 64)
	g.XMax, _ = strconv.ParseFloat(xr[1], 64)
	yr := readLine()
	g.YMin, _ = strconv.ParseFloat(yr[0], 64)
	g.YMax, _ = strconv.ParseFloat(yr[1], 64)
	zr := readLine()
	g.ZMin, _ = strconv.ParseFloat(zr[0], 64)
	g.ZMax, _ = strconv.ParseFloat(zr[1], 64)

	g.Values = make([]float32, 0, g.NX*g.NY)
	for sc.Scan() {
		for _, tok := range strings.Fields(sc.Text()) {
			v, err := strconv.ParseFloat(tok, 32)
			if err != nil {
				return nil, fmt.Errorf("ncio: parsing grid value %q: %w", tok, err)
			}
			g.Values = append(g.Values, float32(v))
		}
	}
	if len(g.Values) != g.NX*g.NY {
		return nil, fmt.Errorf("ncio: expected %d values, got %d", g.NX*g.NY, len(g.Values))
	}
	return g, nil
}

// WriteSurfer always emits the binary DSBB variant, per §6 ("writer always
// emits binary").
func WriteSurfer(path string, g *SurferGrid) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("ncio: create %s: %w", path, err)
	}
	defer f.Close()

	w := bufio.NewWriter(f)
	if _, err := w.WriteString(magicBinary); err != nil {
		return err
	}
	if err := binary.Write(w, binary.LittleEndian, int16(g.NX)); err != nil {
		return err
	}
	if err := binary.Write(w, binary.LittleEndian, int16(g.NY)); err != nil {
		return err
	}
	for _, v := range []float64{g.XMin, g.XMax, g.YMin, g.YMax, g.ZMin, g.ZMax} {
		if err := binary.Write(w, binary.LittleEndian, v); err != nil {
			return err
		}
	}
	if err := binary.Write(w, binary.LittleEndian, g.Values); err != nil {
		return err
	}
	return w.Flush()
}
