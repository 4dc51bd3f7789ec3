package nswing

import (
	"math"

	"github.com/GaryBoone/GoStats/stats"
	"gonum.org/v1/gonum/stat"
)

// UpdateTrackers updates wmax/vmax on the write level, per §4.9. Called
// from the schedule's write-level hook at every visit.
func UpdateTrackers(l *Level) {
	nx, ny := l.Header.NX, l.Header.NY
	bat := l.State.Bat
	etaD := l.State.EtaD
	etaA := l.State.EtaA
	vx := l.State.Vx
	vy := l.State.Vy
	wmax := l.State.WMax
	vmax := l.State.VMax

	for row := 0; row < ny; row++ {
		for col := 0; col < nx; col++ {
			b := bat.Get(row, col)
			var v float64
			if b >= 0 {
				v = etaD.Get(row, col)
			} else {
				v = math.Min(0, etaA.Get(row, col)+b)
			}
			if v > wmax.Get(row, col) {
				wmax.Set(v, row, col)
			}

			x, y := vx.Get(row, col), vy.Get(row, col)
			speed2 := x*x + y*y
			if speed2 > vmax.Get(row, col) {
				vmax.Set(speed2, row, col)
			}
		}
	}
}

// FinalizeSpeed takes the post-run square root of vmax, per §4.9 ("post-run
// square root").
func FinalizeSpeed(l *Level) {
	v := l.State.VMax
	for i, e := range v.Elements {
		v.Elements[i] = math.Sqrt(e)
		_ = i
	}
}

// VolumeTracker accumulates a running mean/stddev of total water volume,
// used by the §8 wall-only pond conservation test. Grounded on the
// teacher corpus's use of GaryBoone/GoStats for streaming statistics.
type VolumeTracker struct {
	stats stats.Stats
	first float64
	seen  bool
}

// Sample records the total volume (sum of eta*cellArea) at the current
// step.
func (t *VolumeTracker) Sample(volume float64) {
	if !t.seen {
		t.first = volume
		t.seen = true
	}
	t.stats.Update(volume)
}

// Deviation returns the running mean minus the first sampled volume,
// normalized by the first sample, matching the §8 "|∫η·dA|/|∫η₀·dA|"
// conservation metric.
func (t *VolumeTracker) Deviation() float64 {
	if t.first == 0 {
		return 0
	}
	return (t.stats.Mean() - t.first) / t.first
}

// StdDev exposes the running standard deviation of sampled volumes.
func (t *VolumeTracker) StdDev() float64 { return t.stats.PopulationStandardDeviation() }

// EnergyTracker samples a decimated time series of the wet-cell surface
// elevation variance as a proxy for wave energy/power, per §4.9's optional
// energy/power diagnostic. Variance is computed with gonum/stat rather
// than hand-rolled, mirroring the single-pass statistics approach the
// teacher corpus uses GoStats for elsewhere.
type EnergyTracker struct {
	Samples []float64

	scratch []float64
}

// Sample appends the current wet-cell eta variance on l to the series.
func (t *EnergyTracker) Sample(l *Level) {
	bat := l.State.Bat
	etaD := l.State.EtaD
	ht := l.State.HTotalD

	t.scratch = t.scratch[:0]
	for i := range bat.Elements {
		if bat.Elements[i] <= MaxRunup || ht.Elements[i] <= epsWet {
			continue
		}
		t.scratch = append(t.scratch, etaD.Elements[i])
	}
	if len(t.scratch) == 0 {
		t.Samples = append(t.Samples, 0)
		return
	}
	t.Samples = append(t.Samples, stat.Variance(t.scratch, nil))
}

// TotalVolume sums eta*cellArea over every non-permanently-dry, wet cell
// on l, for volume-conservation sampling.
func TotalVolume(l *Level) float64 {
	area := l.Header.XInc * l.Header.YInc
	bat := l.State.Bat
	etaD := l.State.EtaD
	ht := l.State.HTotalD

	sum := 0.0
	for i := range bat.Elements {
		if bat.Elements[i] <= MaxRunup {
			continue
		}
		if ht.Elements[i] <= epsWet {
			continue
		}
		sum += etaD.Elements[i] * area
	}
	return sum
}
