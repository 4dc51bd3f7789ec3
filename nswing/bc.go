package nswing

// BCDescriptor holds the wave-maker boundary-condition time series: the
// positions of the forcing points along the active border, the sample
// times, and the per-time per-point eta values. Loading the BC text file
// itself is ncio's job; this type only does the linear interpolation in
// time. The profile is not resampled in space.
type BCDescriptor struct {
	ActiveBorder Border
	Positions    []float64   // the file's position row (x y ...) as read; not used for interpolation
	Times        []float64   // t_i
	Values       [][]float64 // Values[i][p] = eta at time Times[i], position Positions[p]
}

// HasSample reports whether globalTime still falls within the loaded
// time series; once past the last sample the caller falls back to the
// radiating boundary (the "mixed" mode of §4.7).
func (bc *BCDescriptor) HasSample(globalTime float64) bool {
	if len(bc.Times) == 0 {
		return false
	}
	return globalTime <= bc.Times[len(bc.Times)-1]
}

// InterpolatedProfile returns the spatial profile along the active
// border at globalTime, linearly interpolated in time between bracketing
// samples (and held at the nearest sample outside the range).
func (bc *BCDescriptor) InterpolatedProfile(globalTime float64) []float64 {
	n := len(bc.Times)
	if n == 0 {
		return nil
	}
	if n == 1 || globalTime <= bc.Times[0] {
		return bc.Values[0]
	}
	if globalTime >= bc.Times[n-1] {
		return bc.Values[n-1]
	}
	for i := 1; i < n; i++ {
		if globalTime <= bc.Times[i] {
			span := bc.Times[i] - bc.Times[i-1]
			frac := 0.0
			if span > 0 {
				frac = (globalTime - bc.Times[i-1]) / span
			}
			return lerpProfiles(bc.Values[i-1], bc.Values[i], frac)
		}
	}
	return bc.Values[n-1]
}

func lerpProfiles(a, b []float64, frac float64) []float64 {
	out := make([]float64, len(a))
	for i := range a {
		bv := a[i]
		if i < len(b) {
			bv = b[i]
		}
		out[i] = a[i] + frac*(bv-a[i])
	}
	return out
}
