package nswing

import "math"

// Sample is one mareographic reading: elevation, velocity components, and
// bearing (direction of travel), emitted per §4.10.
type Sample struct {
	Time     float64
	Eta      float64
	Vx, Vy   float64
	Bearing  float64
}

// MaregPoint is a registered sampling point: a name and the row and column
// of the write-level cell it was resolved to at registration time.
type MaregPoint struct {
	Name string
	Row, Col int
}

// Sampler collects point samples from the write level at a fixed
// sub-sampling interval, per §4.10. Consumers register coordinates once;
// out-of-bounds points are dropped with a warning at registration, per
// §7's silent-policy list.
type Sampler struct {
	Points   []MaregPoint
	Interval int // emit every Interval-th visit

	visits int
}

// Register resolves (x, y) to the nearest write-level cell and adds it to
// the sampler. It returns a *NumericalWarning (not an error) if the point
// falls outside the write-level bounding box, in which case the point is
// dropped rather than added.
func (s *Sampler) Register(name string, x, y float64, h *GridHeader) *NumericalWarning {
	col := int(math.Round((x - h.XMin) / h.XInc))
	row := int(math.Round((y - h.YMin) / h.YInc))
	if col < 0 || col >= h.NX || row < 0 || row >= h.NY {
		return NewNumericalWarning("sampler", "point "+name+" lies outside the write-level grid; dropped")
	}
	s.Points = append(s.Points, MaregPoint{Name: name, Row: row, Col: col})
	return nil
}

// Visit is called once per write-level recursion visit; it returns
// samples only every Interval-th visit, nil otherwise.
func (s *Sampler) Visit(l *Level, globalTime float64) []Sample {
	s.visits++
	if s.Interval <= 0 {
		s.Interval = 1
	}
	if s.visits%s.Interval != 0 {
		return nil
	}
	out := make([]Sample, len(s.Points))
	for i, p := range s.Points {
		ht := l.State.HTotalD.Get(p.Row, p.Col)
		vx, vy := 0.0, 0.0
		if ht > epsWet {
			vx = l.State.Vx.Get(p.Row, p.Col)
			vy = l.State.Vy.Get(p.Row, p.Col)
		}
		out[i] = Sample{
			Time:    globalTime,
			Eta:     l.State.EtaD.Get(p.Row, p.Col),
			Vx:      vx,
			Vy:      vy,
			Bearing: math.Atan2(vy, vx) * 180 / math.Pi,
		}
	}
	return out
}

// Tracer is a passively-advected Lagrangian point: bilinearly interpolate
// velocity at its position and Euler-step forward, per §4.10. The core
// only implements this hook; full tracer file I/O is an external
// collaborator.
type Tracer struct {
	X, Y float64
}

// Advance steps the tracer forward by the write level's Δt using
// bilinearly-interpolated velocity, reading velocity as 0 on cells with
// H < ε_wet.
func (tr *Tracer) Advance(l *Level) {
	vx := bilinear(l.State.Vx, &l.Header, l.State.HTotalD, tr.X, tr.Y)
	vy := bilinear(l.State.Vy, &l.Header, l.State.HTotalD, tr.X, tr.Y)
	tr.X += vx * l.Dt
	tr.Y += vy * l.Dt
}

func bilinear(field *sparseDense, h *GridHeader, ht *sparseDense, x, y float64) float64 {
	fc := (x - h.XMin) / h.XInc
	fr := (y - h.YMin) / h.YInc
	c0, r0 := int(math.Floor(fc)), int(math.Floor(fr))
	tx, ty := fc-float64(c0), fr-float64(r0)

	get := func(r, c int) (float64, bool) {
		if r < 0 || r >= h.NY || c < 0 || c >= h.NX {
			return 0, false
		}
		if ht.Get(r, c) < epsWet {
			return 0, true
		}
		return field.Get(r, c), true
	}

	v00, _ := get(r0, c0)
	v10, _ := get(r0, c0+1)
	v01, _ := get(r0+1, c0)
	v11, _ := get(r0+1, c0+1)

	top := v00 + tx*(v10-v00)
	bot := v01 + tx*(v11-v01)
	return top + ty*(bot-top)
}
