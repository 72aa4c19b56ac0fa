// Package meter turns the session's audio readings into the numeric
// outputs a presentation layer animates toward: a row of activity bar
// heights and a level-meter fill with peak marker. Everything here is a
// pure function; callers may invoke them on their own refresh cadence
// with stale inputs.
package meter

import "math/rand"

const (
	// MinBarHeight is the resting height of an activity bar.
	MinBarHeight = 4.0
	// MaxBarDelta is the full-level height gain before jitter.
	MaxBarDelta = 20.0

	jitterLow  = 0.5
	jitterHigh = 1.5
)

// Bar is one activity indicator, recomputed on every render tick.
type Bar struct {
	Index  int
	Height float64
}

// Bars renders count bars for the given level. Each bar's gain is
// scaled by an independent jitter factor in [0.5, 1.5) drawn from a
// PRNG seeded with seed, so equal inputs always produce equal output.
// Jitter scales the level-dependent delta only: at level 0 every bar
// sits exactly at MinBarHeight.
func Bars(level float64, count int, seed int64) []Bar {
	if count <= 0 {
		return nil
	}
	level = clamp01(level)
	rng := rand.New(rand.NewSource(seed))

	bars := make([]Bar, count)
	for i := range bars {
		jitter := jitterLow + rng.Float64()*(jitterHigh-jitterLow)
		h := MinBarHeight + level*MaxBarDelta*jitter
		bars[i] = Bar{Index: i, Height: clamp(h, MinBarHeight, MinBarHeight+MaxBarDelta*jitterHigh)}
	}
	return bars
}

func clamp01(v float64) float64 {
	return clamp(v, 0, 1)
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
