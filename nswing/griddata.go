package nswing

import "github.com/ctessum/sparse"

// State holds one level's per-cell field buffers, each a dense
// row-major (NY rows by NX cols) array, mirroring the Data field layout
// used throughout the teacher's CTMData grid container.
type State struct {
	Bat *sparse.DenseArray // bathymetry, positive-down

	EtaA, EtaD *sparse.DenseArray // surface elevation, previous/current
	FluxMA, FluxMD *sparse.DenseArray // x-flux, staggered east face
	FluxNA, FluxND *sparse.DenseArray // y-flux, staggered north face
	HTotalA, HTotalD *sparse.DenseArray // total depth, clamped >= 0

	// Write-level-only diagnostic fields.
	Vx, Vy *sparse.DenseArray
	LongBeach, ShortBeach *sparse.DenseArray // byte masks, 1.0/0.0

	WMax, VMax *sparse.DenseArray // running-max trackers, write level only
}

// CoeffTable holds the per-row coefficient tables built once by the
// Projection Initializer and never mutated afterward.
type CoeffTable struct {
	R0, R1M, R1N         []float64
	R2M, R2N, R3M, R3N   []float64
	R4M, R4N             []float64
}

// EdgeScratch buffers the 1-D boundary samples exchanged between a child
// and its parent. Parent-side slices are sized to the overlap footprint
// (URcol-LLcol+1 / URrow-LLrow+1); child-side slices are sized NX/NY.
type EdgeScratch struct {
	ParentW, ParentE []float64 // sampled flux_m along west/east parent columns
	ParentS, ParentN []float64 // sampled flux_n along south/north parent rows
	ChildW, ChildE   []float64
	ChildS, ChildN   []float64
}

// Level is one node in the nesting tree: its own header, state, coefficient
// table, time step, and (if it has a parent) a Nesting descriptor plus edge
// scratch buffers.
type Level struct {
	Depth   int // 0 = L0
	Header  GridHeader
	State   State
	Coeff   CoeffTable
	Dt      float64
	Manning float64 // Manning roughness coefficient for this level
	ManningDepth float64 // friction cutoff depth (bat > -ManningDepth to apply friction)

	Nesting *Nesting // nil for L0
	Edge    EdgeScratch

	Children []*Level

	IsWriteLevel bool

	coriolisOn       bool
	dischargeLimiter bool
	vLimitVal        float64
	linearMode       bool
}

// sparseDense is a local alias for the dense array type backing every
// per-cell field, so momentum.go and friends don't need to import sparse
// directly in every signature.
type sparseDense = sparse.DenseArray

// Configure sets the per-level runtime flags that vary by scenario
// (Coriolis, discharge limiter, its V_LIMIT, global linear mode) without
// touching the state buffers.
func (l *Level) Configure(coriolisOn, dischargeLimiter bool, vLimit float64, linearMode bool) {
	l.coriolisOn = coriolisOn
	l.dischargeLimiter = dischargeLimiter
	l.vLimitVal = vLimit
	l.linearMode = linearMode
}

// Allocate initializes every state buffer in l to the header's dimensions,
// zero-filled, and sizes the edge scratch buffers against the nesting
// descriptor (if any). Bathymetry sign convention: Bat is positive-down,
// so callers that load data stored positive-up negate each value as they
// copy it into State.Bat after Allocate.
func (l *Level) Allocate() {
	nx, ny := l.Header.NX, l.Header.NY
	l.State = State{
		Bat:       sparse.ZerosDense(ny, nx),
		EtaA:      sparse.ZerosDense(ny, nx),
		EtaD:      sparse.ZerosDense(ny, nx),
		FluxMA:    sparse.ZerosDense(ny, nx),
		FluxMD:    sparse.ZerosDense(ny, nx),
		FluxNA:    sparse.ZerosDense(ny, nx),
		FluxND:    sparse.ZerosDense(ny, nx),
		HTotalA:   sparse.ZerosDense(ny, nx),
		HTotalD:   sparse.ZerosDense(ny, nx),
	}
	if l.IsWriteLevel {
		l.State.Vx = sparse.ZerosDense(ny, nx)
		l.State.Vy = sparse.ZerosDense(ny, nx)
		l.State.LongBeach = sparse.ZerosDense(ny, nx)
		l.State.ShortBeach = sparse.ZerosDense(ny, nx)
		l.State.WMax = sparse.ZerosDense(ny, nx)
		l.State.VMax = sparse.ZerosDense(ny, nx)
	}

	n := ny
	if nx > n {
		n = nx
	}
	l.Coeff = CoeffTable{
		R0: make([]float64, n), R1M: make([]float64, n), R1N: make([]float64, n),
		R2M: make([]float64, n), R2N: make([]float64, n),
		R3M: make([]float64, n), R3N: make([]float64, n),
		R4M: make([]float64, n), R4N: make([]float64, n),
	}

	if l.Nesting != nil {
		width := l.Nesting.URCol - l.Nesting.LLCol + 1
		height := l.Nesting.URRow - l.Nesting.LLRow + 1
		l.Edge = EdgeScratch{
			ParentW: make([]float64, height), ParentE: make([]float64, height),
			ParentS: make([]float64, width), ParentN: make([]float64, width),
			ChildW: make([]float64, ny), ChildE: make([]float64, ny),
			ChildS: make([]float64, nx), ChildN: make([]float64, nx),
		}
	}
}

// Free releases a level's buffers, matching the teacher's explicit
// lifecycle in the Grid Container rather than waiting on the garbage
// collector for large nests.
func (l *Level) Free() {
	l.State = State{}
	l.Coeff = CoeffTable{}
	l.Edge = EdgeScratch{}
}

// Commit copies the "d" (current) buffers onto the "a" (previous) buffers,
// matching the original's memcpy-based update(): a <- d for eta, both
// fluxes, and h_total.
func (l *Level) Commit() {
	copy(l.State.EtaA.Elements, l.State.EtaD.Elements)
	copy(l.State.FluxMA.Elements, l.State.FluxMD.Elements)
	copy(l.State.FluxNA.Elements, l.State.FluxND.Elements)
	copy(l.State.HTotalA.Elements, l.State.HTotalD.Elements)
}

// Nest owns the whole tree of levels, indexed by depth, plus the global
// clock and shared configuration.
type Nest struct {
	Levels      []*Level // Levels[0] is L0
	WriteLevel  int
	Time        float64
	CoriolisOn  bool
	UpscaleOn   bool
	LinearMode  bool
	VLimit      float64
	DischargeLimiterOn bool
}

// Root returns L0.
func (n *Nest) Root() *Level { return n.Levels[0] }

// WriteLevelGrid returns the level designated to receive tracker/sampler
// output.
func (n *Nest) WriteLevelGrid() *Level { return n.Levels[n.WriteLevel] }
