package main

import (
	"bufio"
	"fmt"
	"math"
	"os"
	"strconv"
	"strings"

	"github.com/ctessum/sparse"

	"github.com/nswing/nswing"
	"github.com/nswing/nswing/internal/config"
	"github.com/nswing/nswing/ncio"
	"github.com/nswing/nswing/source"
)

// runSolver builds a Nest from cfg's flags, applies the initial
// condition, and drives it to completion, writing whichever outputs were
// requested.
func runSolver(cfg *config.Cfg) error {
	if err := cfg.Validate(); err != nil {
		return err
	}

	grid, err := ncio.ReadSurfer(cfg.GetString("bathymetry"))
	if err != nil {
		return nswing.NewIOError(cfg.GetString("bathymetry"), err)
	}

	root := &nswing.Level{
		Depth: 0,
		Header: nswing.GridHeader{
			NX: grid.NX, NY: grid.NY,
			XMin: grid.XMin, YMin: grid.YMin,
			XInc: (grid.XMax - grid.XMin) / float64(grid.NX-1),
			YInc: (grid.YMax - grid.YMin) / float64(grid.NY-1),
			ZMin: grid.ZMin, ZMax: grid.ZMax,
			IsGeographic: cfg.GetBool("geographic"),
		},
		Dt:           cfg.GetFloat64("dt"),
		Manning:      0.03,
		IsWriteLevel: true,
	}

	manningEntries, err := config.ParseManning(cfg.GetString("manning"))
	if err != nil {
		return err
	}
	if len(manningEntries) > 0 {
		root.Manning = manningEntries[0].Manning
		root.ManningDepth = manningEntries[0].DepthCutoff
	}

	coriolisLat := cfg.GetFloat64("coriolis")
	coriolisOn := coriolisLat != 0
	root.Header.CoriolisLatRef = coriolisLat
	root.Header.CoriolisEnabled = coriolisOn

	if cerr, warn := root.Header.CheckCFL(root.Dt); cerr != nil {
		return cerr
	} else if warn != nil {
		fmt.Fprintln(os.Stderr, warn)
	}

	linearMode := cfg.GetBool("linear")

	root.Allocate()
	root.Configure(coriolisOn, true, nswing.VLimitDefault, linearMode)

	for i, v := range grid.Values {
		// Bathymetry files are stored positive-up; the solver's sign
		// convention is positive-down.
		root.State.Bat.Elements[i] = -float64(v)
	}

	if err := nswing.InitProjection(root, coriolisOn); err != nil {
		return err
	}

	if err := applyInitialCondition(root, cfg.GetString("initial")); err != nil {
		return err
	}

	tide := cfg.GetFloat64("tide")
	if tide != 0 {
		for i := range root.State.EtaA.Elements {
			root.State.EtaA.Elements[i] += tide
			root.State.EtaD.Elements[i] += tide
		}
	}

	jump, err := config.ParseJump(cfg.GetString("jump"))
	if err != nil {
		return err
	}

	n := &nswing.Nest{
		Levels:             []*nswing.Level{root},
		WriteLevel:         0,
		CoriolisOn:         coriolisOn,
		UpscaleOn:          cfg.GetBool("upscale"),
		LinearMode:         linearMode,
		VLimit:             nswing.VLimitDefault,
		DischargeLimiterOn: true,
	}

	if err := buildNest(n, cfg, manningEntries, coriolisOn, linearMode, jump.RunJump); err != nil {
		return err
	}

	boundary := &nswing.BoundaryConfig{}
	if cfg.GetBool("wall-boundary") {
		for b := range boundary.Modes {
			boundary.Modes[b] = nswing.BorderWall
		}
	}

	volume := &nswing.VolumeTracker{}

	var energy *nswing.EnergyTracker
	energyDecimation := 0
	if cfg.GetString("out-energy") != "" {
		energy = &nswing.EnergyTracker{}
		energyDecimation = 100
	}

	sampler, maregNames, maregX, maregY, err := buildSampler(cfg, n.WriteLevelGrid().Header)
	if err != nil {
		return err
	}

	tracers, err := buildTracers(cfg.GetString("tracers-in"))
	if err != nil {
		return err
	}

	tracerHist := newTracerHistory(tracers)
	gridOut := newGridAccumulator(cfg, n.WriteLevelGrid().Header, jump.OutputJump)

	samples, err := nswing.Run(n, nswing.RunConfig{
		NCycles:          cfg.GetInt("cycles"),
		Boundary:         boundary,
		Sampler:          sampler,
		Tracers:          tracers,
		Volume:           volume,
		Energy:           energy,
		EnergyDecimation: energyDecimation,
		Progress:         nswing.Log(os.Stdout),
		Log:              os.Stdout,
		TracerHook:       tracerHist.record,
		GridHook:         gridOut.visit,
	})
	if err != nil {
		return err
	}

	if energy != nil {
		if err := writeEnergySeries(cfg.GetString("out-energy"), energy); err != nil {
			return err
		}
	}

	if sampler != nil {
		if err := writeMaregraphs(cfg.GetString("maregraphs"), maregNames, maregX, maregY, len(sampler.Points), samples); err != nil {
			return err
		}
	}

	if path := cfg.GetString("tracers-out"); path != "" {
		if err := tracerHist.write(path); err != nil {
			return err
		}
	}

	if err := gridOut.finish(); err != nil {
		return err
	}

	return writeOutputs(cfg, n.WriteLevelGrid())
}

// buildNest reads the --nest bathymetry files (up to 9, per §3) and
// chains each one as the child of the previously built level, matching
// the descriptor-validated parent/child relationship nesting.go enforces.
// Each child's refinement ratio and placement are inferred from its grid
// geometry relative to its parent's, rather than requiring a second flag.
func buildNest(n *nswing.Nest, cfg *config.Cfg, manningEntries []config.ManningEntry, coriolisOn, linearMode bool, runJump float64) error {
	files := cfg.GetStringSlice("nest")
	if len(files) > 9 {
		return nswing.NewConfigError("nest", fmt.Errorf("at most 9 nested grids are supported, got %d", len(files)))
	}
	parent := n.Root()
	for depth, path := range files {
		grid, err := ncio.ReadSurfer(path)
		if err != nil {
			return nswing.NewIOError(path, err)
		}

		childHeader := nswing.GridHeader{
			NX: grid.NX, NY: grid.NY,
			XMin: grid.XMin, YMin: grid.YMin,
			XInc: (grid.XMax - grid.XMin) / float64(grid.NX-1),
			YInc: (grid.YMax - grid.YMin) / float64(grid.NY-1),
			ZMin: grid.ZMin, ZMax: grid.ZMax,
			IsGeographic:    parent.Header.IsGeographic,
			CoriolisLatRef:  parent.Header.CoriolisLatRef,
			CoriolisEnabled: coriolisOn,
		}

		ratio := int(math.Round(parent.Header.XInc / childHeader.XInc))
		llCol := int(math.Round((childHeader.XMin - parent.Header.XMin) / parent.Header.XInc))
		llRow := int(math.Round((childHeader.YMin - parent.Header.YMin) / parent.Header.YInc))
		nest := &nswing.Nesting{
			LLCol: llCol, LLRow: llRow,
			URCol: llCol + (childHeader.NX-1)/ratio,
			URRow: llRow + (childHeader.NY-1)/ratio,
			IncRatio: ratio,
			JumpTime: runJump,
		}
		if err := nest.Validate(&parent.Header, &childHeader); err != nil {
			return err
		}

		childDt := parent.Dt / float64(ratio)
		if err := nest.ValidateTimeStep(parent.Dt, childDt); err != nil {
			return err
		}

		child := &nswing.Level{
			Depth:   depth + 1,
			Header:  childHeader,
			Dt:      childDt,
			Manning: parent.Manning, ManningDepth: parent.ManningDepth,
			Nesting: nest,
		}
		if depth+1 < len(manningEntries) {
			child.Manning = manningEntries[depth+1].Manning
			child.ManningDepth = manningEntries[depth+1].DepthCutoff
		}
		if cerr, warn := child.Header.CheckCFL(child.Dt); cerr != nil {
			return cerr
		} else if warn != nil {
			fmt.Fprintln(os.Stderr, warn)
		}

		child.Allocate()
		for i, v := range grid.Values {
			child.State.Bat.Elements[i] = -float64(v)
		}
		child.Configure(coriolisOn, true, nswing.VLimitDefault, linearMode)
		if err := nswing.InitProjection(child, coriolisOn); err != nil {
			return err
		}

		parent.Children = append(parent.Children, child)
		n.Levels = append(n.Levels, child)
		parent = child
	}
	return nil
}

// buildSampler reads the maregraphs point file ("x y [name]" per line,
// blank lines and lines starting with # ignored) and registers each point
// against the write level, per §4.10/§6.
func buildSampler(cfg *config.Cfg, writeHeader nswing.GridHeader) (sampler *nswing.Sampler, names []string, x, y []float64, err error) {
	path := cfg.GetString("maregraphs")
	if path == "" {
		return nil, nil, nil, nil, nil
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, nil, nil, nil, nswing.NewIOError(path, err)
	}
	defer f.Close()

	sampler = &nswing.Sampler{Interval: cfg.GetInt("maregraph-interval")}
	sc := bufio.NewScanner(f)
	i := 0
	for sc.Scan() {
		line := strings.TrimSpace(sc.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		fields := strings.Fields(line)
		if len(fields) < 2 {
			return nil, nil, nil, nil, nswing.NewConfigError("maregraphs", fmt.Errorf("line %q: expected at least x y", line))
		}
		px, perr := strconv.ParseFloat(fields[0], 64)
		py, perr2 := strconv.ParseFloat(fields[1], 64)
		if perr != nil || perr2 != nil {
			return nil, nil, nil, nil, nswing.NewConfigError("maregraphs", fmt.Errorf("line %q: invalid coordinates", line))
		}
		name := fmt.Sprintf("p%d", i)
		if len(fields) >= 3 {
			name = fields[2]
		}
		if warn := sampler.Register(name, px, py, &writeHeader); warn != nil {
			fmt.Fprintln(os.Stderr, warn)
			i++
			continue
		}
		names = append(names, name)
		x = append(x, px)
		y = append(y, py)
		i++
	}
	if err := sc.Err(); err != nil {
		return nil, nil, nil, nil, nswing.NewIOError(path, err)
	}
	return sampler, names, x, y, nil
}

// writeMaregraphs writes the collected per-point samples out in the text
// format of §6, deriving the output path from the input points file since
// no separate output flag is exposed.
func writeMaregraphs(inPath string, names []string, x, y []float64, nPoints int, samples []nswing.Sample) error {
	if nPoints == 0 || len(samples) == 0 {
		return nil
	}
	mw, err := ncio.NewMaregWriter(inPath+".out", names, x, y, true)
	if err != nil {
		return err
	}
	defer mw.Close()

	for i := 0; i < len(samples); i += nPoints {
		row := samples[i : i+nPoints]
		eta := make([]float64, nPoints)
		vx := make([]float64, nPoints)
		vy := make([]float64, nPoints)
		bearing := make([]float64, nPoints)
		t := 0.0
		for j, s := range row {
			eta[j], vx[j], vy[j], bearing[j] = s.Eta, s.Vx, s.Vy, s.Bearing
			t = s.Time
		}
		if err := mw.WriteSample(t, eta, vx, vy, bearing); err != nil {
			return err
		}
	}
	return nil
}

// buildTracers reads tracer start positions ("x y" per line) from path.
func buildTracers(path string) ([]*nswing.Tracer, error) {
	if path == "" {
		return nil, nil
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, nswing.NewIOError(path, err)
	}
	defer f.Close()

	var tracers []*nswing.Tracer
	sc := bufio.NewScanner(f)
	for sc.Scan() {
		line := strings.TrimSpace(sc.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		fields := strings.Fields(line)
		if len(fields) < 2 {
			return nil, nswing.NewConfigError("tracers-in", fmt.Errorf("line %q: expected x y", line))
		}
		x, err1 := strconv.ParseFloat(fields[0], 64)
		y, err2 := strconv.ParseFloat(fields[1], 64)
		if err1 != nil || err2 != nil {
			return nil, nswing.NewConfigError("tracers-in", fmt.Errorf("line %q: invalid coordinates", line))
		}
		tracers = append(tracers, &nswing.Tracer{X: x, Y: y})
	}
	if err := sc.Err(); err != nil {
		return nil, nswing.NewIOError(path, err)
	}
	return tracers, nil
}

// tracerHistory accumulates each tracer's (t, x, y) trajectory via the
// Run loop's TracerHook, since the core only advects current position.
type tracerHistory struct {
	n    int
	t    []float64
	x, y [][]float64
}

func newTracerHistory(tracers []*nswing.Tracer) *tracerHistory {
	return &tracerHistory{n: len(tracers), x: make([][]float64, len(tracers)), y: make([][]float64, len(tracers))}
}

func (h *tracerHistory) record(t float64, tracers []*nswing.Tracer) {
	if h.n == 0 {
		return
	}
	h.t = append(h.t, t)
	for i, tr := range tracers {
		h.x[i] = append(h.x[i], tr.X)
		h.y[i] = append(h.y[i], tr.Y)
	}
}

func (h *tracerHistory) write(path string) error {
	if h.n == 0 {
		return nil
	}
	f, err := os.Create(path)
	if err != nil {
		return nswing.NewIOError(path, err)
	}
	defer f.Close()

	for step, t := range h.t {
		fmt.Fprintf(f, "%.6f", t)
		for i := 0; i < h.n; i++ {
			fmt.Fprintf(f, "\t%.6f %.6f", h.x[i][step], h.y[i][step])
		}
		fmt.Fprintln(f)
	}
	return nil
}

// gridAccumulator collects write-level snapshots for --out-grids,
// --out-3d, --out-sww, and --out-most, decimated by the -J output-jump
// time when one is set (0 means "every write-level visit").
type gridAccumulator struct {
	cfg        *config.Cfg
	outputJump float64
	nextOutput float64
	gridStem   string
	gridCount  int
	wantTS     bool
	eta, u, v  *ncio.TimeSeries3D
}

func newGridAccumulator(cfg *config.Cfg, header nswing.GridHeader, outputJump float64) *gridAccumulator {
	g := &gridAccumulator{cfg: cfg, outputJump: outputJump, gridStem: cfg.GetString("out-grids")}
	g.wantTS = cfg.GetString("out-3d") != "" || cfg.GetString("out-sww") != "" || cfg.GetString("out-most") != ""
	if g.wantTS {
		g.eta = newTimeSeries3D("eta", "m", "sea-surface elevation", header)
		g.u = newTimeSeries3D("u", "m s-1", "x-velocity", header)
		g.v = newTimeSeries3D("v", "m s-1", "y-velocity", header)
	}
	return g
}

func newTimeSeries3D(name, units, desc string, h nswing.GridHeader) *ncio.TimeSeries3D {
	return &ncio.TimeSeries3D{
		Name: name, Units: units, Description: desc,
		NX: h.NX, NY: h.NY, XMin: h.XMin, YMin: h.YMin, XInc: h.XInc, YInc: h.YInc,
	}
}

func (g *gridAccumulator) visit(l *nswing.Level, t float64) {
	if g.gridStem == "" && !g.wantTS {
		return
	}
	if g.outputJump > 0 {
		if t < g.nextOutput {
			return
		}
		g.nextOutput += g.outputJump
	}

	if g.gridStem != "" {
		path := fmt.Sprintf("%s_%04d.grd", g.gridStem, g.gridCount)
		if err := ncio.WriteSurfer(path, sparseToSurfer(l, l.State.EtaD)); err != nil {
			fmt.Fprintln(os.Stderr, err)
		}
		g.gridCount++
	}

	if g.wantTS {
		g.eta.Times = append(g.eta.Times, t)
		g.eta.Frames = append(g.eta.Frames, cloneDense(l.State.EtaD))
		g.u.Times = append(g.u.Times, t)
		g.u.Frames = append(g.u.Frames, cloneDense(l.State.Vx))
		g.v.Times = append(g.v.Times, t)
		g.v.Frames = append(g.v.Frames, cloneDense(l.State.Vy))
	}
}

// cloneDense snapshots a, since its underlying buffer is reused and
// mutated in place on every subsequent step.
func cloneDense(a *sparse.DenseArray) *sparse.DenseArray {
	out := sparse.ZerosDense(a.Shape...)
	copy(out.Elements, a.Elements)
	return out
}

func (g *gridAccumulator) finish() error {
	if path := g.cfg.GetString("out-3d"); path != "" {
		if err := ncio.WriteGeneric3D(path, g.eta); err != nil {
			return err
		}
	}
	if path := g.cfg.GetString("out-sww"); path != "" {
		if err := ncio.WriteANUGASww(path, g.eta); err != nil {
			return err
		}
	}
	if stem := g.cfg.GetString("out-most"); stem != "" {
		if err := ncio.WriteMOSTTriple(stem, g.eta, g.u, g.v); err != nil {
			return err
		}
	}
	return nil
}

// applyInitialCondition dispatches on source's format: a Surfer grid of
// initial eta, an Okada fault descriptor ("okada:..."), or a Kaba source
// region ("kaba:...").
func applyInitialCondition(l *nswing.Level, source0 string) error {
	switch {
	case strings.HasPrefix(source0, "okada:"):
		return applyOkada(l, strings.TrimPrefix(source0, "okada:"))
	case strings.HasPrefix(source0, "kaba:"):
		return applyKaba(l, strings.TrimPrefix(source0, "kaba:"))
	default:
		g, err := ncio.ReadSurfer(source0)
		if err != nil {
			return nswing.NewIOError(source0, err)
		}
		if g.NX != l.Header.NX || g.NY != l.Header.NY {
			return nswing.NewConfigError("initial",
				fmt.Errorf("initial-condition grid is %dx%d, bathymetry is %dx%d",
					g.NX, g.NY, l.Header.NX, l.Header.NY))
		}
		for i, v := range g.Values {
			l.State.EtaA.Elements[i] = float64(v)
		}
		return nil
	}
}

func applyOkada(l *nswing.Level, params string) error {
	fault, err := source.ParseOkadaFault(params)
	if err != nil {
		return err
	}
	z := make([]float64, l.Header.NX*l.Header.NY)
	fault.Deform(l.Header.NX, l.Header.NY, l.Header.XMin, l.Header.YMin,
		l.Header.XInc, l.Header.YInc, l.Header.IsGeographic, z)
	for i, dz := range z {
		l.State.EtaA.Elements[i] = dz
	}
	return nil
}

func applyKaba(l *nswing.Level, params string) error {
	src, err := source.ParseKabaSource(params)
	if err != nil {
		return err
	}
	z := make([]float64, l.Header.NX*l.Header.NY)
	src.Fill(l.Header.NX, l.Header.NY, l.Header.XMin, l.Header.YMin,
		l.Header.XInc, l.Header.YInc, z)
	for i, dz := range z {
		l.State.EtaA.Elements[i] = dz
	}
	return nil
}

func writeOutputs(cfg *config.Cfg, l *nswing.Level) error {
	if path := cfg.GetString("out-maxlevel"); path != "" {
		if err := ncio.WriteSurfer(path, sparseToSurfer(l, l.State.WMax)); err != nil {
			return nswing.NewIOError(path, err)
		}
	}
	if path := cfg.GetString("out-maxspeed"); path != "" {
		if err := ncio.WriteSurfer(path, sparseToSurfer(l, l.State.VMax)); err != nil {
			return nswing.NewIOError(path, err)
		}
	}
	if path := cfg.GetString("out-beach"); path != "" {
		if err := ncio.WriteSurfer(path, sparseToSurfer(l, l.State.LongBeach)); err != nil {
			return nswing.NewIOError(path, err)
		}
	}
	return nil
}

func writeEnergySeries(path string, t *nswing.EnergyTracker) error {
	f, err := os.Create(path)
	if err != nil {
		return nswing.NewIOError(path, err)
	}
	defer f.Close()
	for i, v := range t.Samples {
		if _, err := fmt.Fprintf(f, "%d\t%.6g\n", i, v); err != nil {
			return nswing.NewIOError(path, err)
		}
	}
	return nil
}

func sparseToSurfer(l *nswing.Level, field *sparse.DenseArray) *ncio.SurferGrid {
	h := l.Header
	vals := make([]float32, len(field.Elements))
	lo, hi := field.Elements[0], field.Elements[0]
	for i, v := range field.Elements {
		vals[i] = float32(v)
		if v < lo {
			lo = v
		}
		if v > hi {
			hi = v
		}
	}
	return &ncio.SurferGrid{
		NX: h.NX, NY: h.NY,
		XMin: h.XMin, XMax: h.XMin + float64(h.NX-1)*h.XInc,
		YMin: h.YMin, YMax: h.YMin + float64(h.NY-1)*h.YInc,
		ZMin: lo, ZMax: hi,
		Values: vals,
	}
}
