package session

// State is the current phase of a voice interaction.
type State int

const (
	StateIdle State = iota
	StateListening
	StateRecording
	StateProcessing
	StateSpeaking
	StateError
)

// String returns the state name used in diagnostics logs.
func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateListening:
		return "listening"
	case StateRecording:
		return "recording"
	case StateProcessing:
		return "processing"
	case StateSpeaking:
		return "speaking"
	case StateError:
		return "error"
	default:
		return "unknown"
	}
}

// Active reports whether audio samples are accepted in this state.
func (s State) Active() bool {
	return s == StateListening || s == StateRecording
}
