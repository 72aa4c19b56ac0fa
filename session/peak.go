package session

import "time"

// DefaultPeakDecayPerSecond is how fast the held peak falls toward the
// current level when no louder sample arrives.
const DefaultPeakDecayPerSecond = 0.8

// PeakTracker folds a stream of audio levels into a current value and a
// decaying peak. The peak never drops below the current level and never
// rises except when a new sample exceeds it.
type PeakTracker struct {
	current      float64
	peak         float64
	decayPerSec  float64
	lastObserved time.Time
}

func NewPeakTracker(decayPerSec float64) *PeakTracker {
	if decayPerSec <= 0 {
		decayPerSec = DefaultPeakDecayPerSecond
	}
	return &PeakTracker{decayPerSec: decayPerSec}
}

// Observe folds one reading into the tracker. Levels outside [0,1] are
// clamped, never rejected.
func (t *PeakTracker) Observe(level float64, now time.Time) {
	level = clamp01(level)

	decayed := t.peak
	if !t.lastObserved.IsZero() {
		dt := now.Sub(t.lastObserved).Seconds()
		if dt > 0 {
			decayed -= t.decayPerSec * dt
		}
	}
	t.lastObserved = now
	t.current = level

	t.peak = decayed
	if t.peak < level {
		t.peak = level
	}
}

func (t *PeakTracker) Current() float64 { return t.current }

func (t *PeakTracker) Peak() float64 { return t.peak }

// Reset clears the tracker for a new session.
func (t *PeakTracker) Reset() {
	t.current = 0
	t.peak = 0
	t.lastObserved = time.Time{}
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
