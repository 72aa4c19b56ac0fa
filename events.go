package main

import "aura/session"

// EventSink abstracts the display layer so the Bubble Tea TUI and the
// headless test driver receive the same session events.
type EventSink interface {
	StateChanged(s session.State, status string)
	AudioLevel(level, peak float64)
	SessionTick(duration float64)
	NoVoiceWarning(active bool)
	TurnEnded(auto bool)
}
