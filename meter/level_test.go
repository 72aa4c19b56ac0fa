package meter

import "testing"

func TestLevelPassthrough(t *testing.T) {
	f := Level(0.7, 0.9)
	if f.FillRatio != 0.7 || f.PeakMarker != 0.9 {
		t.Fatalf("got %+v, want {0.7 0.9}", f)
	}
}

func TestLevelClamps(t *testing.T) {
	f := Level(1.5, 2.0)
	if f.FillRatio != 1.0 || f.PeakMarker != 1.0 {
		t.Fatalf("got %+v, want {1 1}", f)
	}
	f = Level(-0.3, -0.1)
	if f.FillRatio != 0 || f.PeakMarker != 0 {
		t.Fatalf("got %+v, want {0 0}", f)
	}
}

func TestLevelMarkerNeverBelowFill(t *testing.T) {
	// Stale pair violating the tracker invariant still renders sane.
	f := Level(0.8, 0.2)
	if f.PeakMarker < f.FillRatio {
		t.Fatalf("marker %v below fill %v", f.PeakMarker, f.FillRatio)
	}
}
