package main

import "time"

const (
	tickInterval   = 100 * time.Millisecond
	turnWarnAfter  = 8 * time.Second
	turnEndHold    = 2 * time.Second
	speechMinRatio = 0.10
)

type TurnEvent int

const (
	TurnNone      TurnEvent = iota
	TurnWarn                // no voice detected since the session began
	TurnWarnClear           // speech arrived after a warning
	TurnEnd                 // trailing silence after confirmed speech; turn is over
)

// turnMonitor watches per-tick speech flags while a session is active
// and decides when the user's turn has ended: once speech has been
// confirmed, a trailing window that is almost entirely silent means the
// utterance is complete. Sessions that never produce speech get a
// single warning instead.
type turnMonitor struct {
	warnAt   int
	holdSz   int
	minRatio float64
	autoEnd  func() bool

	ticks  int
	window []bool
	spoke  bool
	warned bool
}

// newTurnMonitor builds a monitor over tickInterval ticks. autoEnd
// gates TurnEnd: push-to-talk sessions end on key release instead, so
// only toggle sessions arm silence-based endpointing.
func newTurnMonitor(warnAfter, endHold time.Duration, minRatio float64, autoEnd func() bool) *turnMonitor {
	warnAt := int(warnAfter / tickInterval)
	holdSz := int(endHold / tickInterval)
	return &turnMonitor{
		warnAt:   warnAt,
		holdSz:   holdSz,
		minRatio: minRatio,
		autoEnd:  autoEnd,
		window:   make([]bool, holdSz),
	}
}

// ratio returns the speech fraction of the last n ticks.
func (m *turnMonitor) ratio(n int) float64 {
	if m.ticks < n {
		n = m.ticks
	}
	if n == 0 {
		return 1.0
	}
	count := 0
	for i := 0; i < n; i++ {
		if m.window[(m.ticks-1-i+m.holdSz)%m.holdSz] {
			count++
		}
	}
	return float64(count) / float64(n)
}

func (m *turnMonitor) Tick(hasSpeech bool) TurnEvent {
	m.window[m.ticks%m.holdSz] = hasSpeech
	m.ticks++
	if hasSpeech {
		m.spoke = true
	}

	if !m.spoke {
		if m.ticks >= m.warnAt && !m.warned {
			m.warned = true
			return TurnWarn
		}
		return TurnNone
	}

	if m.warned {
		m.warned = false
		return TurnWarnClear
	}

	if !m.autoEnd() {
		return TurnNone
	}

	// End: the whole trailing window is (near) silent after real speech.
	if m.ticks >= m.holdSz && m.ratio(m.holdSz) < m.minRatio {
		return TurnEnd
	}

	return TurnNone
}
