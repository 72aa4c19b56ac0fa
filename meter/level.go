package meter

// Fill is the rendered level meter: how full the gauge is and where the
// peak marker sits, both in [0,1].
type Fill struct {
	FillRatio  float64
	PeakMarker float64
}

// Level renders the meter for the current and peak audio levels. Total
// over all inputs: out-of-range values are clamped, and the marker
// never falls below the fill even if the caller hands in a stale pair.
func Level(current, peak float64) Fill {
	f := Fill{
		FillRatio:  clamp01(current),
		PeakMarker: clamp01(peak),
	}
	if f.PeakMarker < f.FillRatio {
		f.PeakMarker = f.FillRatio
	}
	return f
}
