package session

import (
	"sync"
	"time"
)

// Controller is the single source of truth for voice-interaction state
// and the latest audio level. Transitions are triggered by external
// events (hotkey, voice detection, turn completion); each is handled to
// completion under one lock, so callers on different goroutines never
// observe a half-applied transition.
//
// State machine:
//
//	idle -> listening -> recording -> processing -> speaking -> idle
//
// with error reachable from everywhere and recoverable only via Start.
type Controller struct {
	mu      sync.Mutex
	state   State
	errMsg  string
	tracker *PeakTracker
}

func NewController(decayPerSec float64) *Controller {
	return &Controller{tracker: NewPeakTracker(decayPerSec)}
}

// Start begins a listening session. Valid from idle or error; the peak
// tracker is reset for the new session.
func (c *Controller) Start() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.state != StateIdle && c.state != StateError {
		return transitionErr("start", c.state)
	}
	c.state = StateListening
	c.errMsg = ""
	c.tracker.Reset()
	return nil
}

// Stop returns to idle. Valid from listening or recording only: once a
// turn is being processed or spoken, it cannot be user-cancelled.
func (c *Controller) Stop() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.state != StateListening && c.state != StateRecording {
		return transitionErr("stop", c.state)
	}
	c.state = StateIdle
	return nil
}

// BeginRecording marks confirmed voice activity. Valid from listening.
func (c *Controller) BeginRecording() error {
	return c.advance("begin recording", StateListening, StateRecording)
}

// BeginProcessing marks the end of the user's turn. Valid from recording.
func (c *Controller) BeginProcessing() error {
	return c.advance("begin processing", StateRecording, StateProcessing)
}

// BeginSpeaking marks the start of the reply. Valid from processing.
func (c *Controller) BeginSpeaking() error {
	return c.advance("begin speaking", StateProcessing, StateSpeaking)
}

// FinishSpeaking completes the turn and rests at idle.
func (c *Controller) FinishSpeaking() error {
	return c.advance("finish speaking", StateSpeaking, StateIdle)
}

func (c *Controller) advance(op string, from, to State) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.state != from {
		return transitionErr(op, c.state)
	}
	c.state = to
	return nil
}

// ReportError records an unrecoverable session failure. Valid from any
// state; only Start leaves the error state again.
func (c *Controller) ReportError(msg string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.state = StateError
	c.errMsg = msg
}

// IngestAudioSample folds a level reading into the peak tracker. The
// producer runs on its own cadence and may deliver samples outside the
// active window; those are dropped without error.
func (c *Controller) IngestAudioSample(level float64) {
	c.ingestAt(level, time.Now())
}

func (c *Controller) ingestAt(level float64, now time.Time) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if !c.state.Active() {
		return
	}
	c.tracker.Observe(level, now)
}

// StatusText derives the human-readable status for the current state.
func (c *Controller) StatusText() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	switch c.state {
	case StateIdle:
		return "Ready to listen"
	case StateListening:
		return "Listening..."
	case StateRecording:
		return "Recording..."
	case StateProcessing:
		return "Processing..."
	case StateSpeaking:
		return "Speaking..."
	case StateError:
		return "Error: " + c.errMsg
	default:
		return "Ready to listen"
	}
}

func (c *Controller) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

func (c *Controller) ErrorMessage() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.errMsg
}

// Level returns the most recent accepted audio level.
func (c *Controller) Level() float64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.tracker.Current()
}

// Peak returns the decaying peak of recent audio levels.
func (c *Controller) Peak() float64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.tracker.Peak()
}
