package session

import (
	"errors"
	"testing"
	"time"
)

func TestStartFromIdle(t *testing.T) {
	c := NewController(0)
	if err := c.Start(); err != nil {
		t.Fatalf("start from idle: %v", err)
	}
	if c.State() != StateListening {
		t.Fatalf("expected listening, got %s", c.State())
	}
	if got := c.StatusText(); got != "Listening..." {
		t.Fatalf("status = %q", got)
	}
}

func TestStartInvalidWhileActive(t *testing.T) {
	for _, s := range []State{StateRecording, StateProcessing, StateSpeaking} {
		c := controllerIn(t, s)
		if err := c.Start(); !errors.Is(err, ErrInvalidTransition) {
			t.Fatalf("start from %s: expected ErrInvalidTransition, got %v", s, err)
		}
		if c.State() != s {
			t.Fatalf("start from %s mutated state to %s", s, c.State())
		}
	}
}

func TestStartRecoversFromError(t *testing.T) {
	c := NewController(0)
	c.ReportError("mic gone")
	if err := c.Start(); err != nil {
		t.Fatalf("start from error: %v", err)
	}
	if c.State() != StateListening {
		t.Fatalf("expected listening, got %s", c.State())
	}
	if c.ErrorMessage() != "" {
		t.Fatalf("error message not cleared: %q", c.ErrorMessage())
	}
}

func TestStopOnlyFromListeningOrRecording(t *testing.T) {
	for _, s := range []State{StateListening, StateRecording} {
		c := controllerIn(t, s)
		if err := c.Stop(); err != nil {
			t.Fatalf("stop from %s: %v", s, err)
		}
		if c.State() != StateIdle {
			t.Fatalf("stop from %s: expected idle, got %s", s, c.State())
		}
	}
	for _, s := range []State{StateIdle, StateProcessing, StateSpeaking, StateError} {
		c := controllerIn(t, s)
		if err := c.Stop(); !errors.Is(err, ErrInvalidTransition) {
			t.Fatalf("stop from %s: expected ErrInvalidTransition, got %v", s, err)
		}
		if c.State() != s {
			t.Fatalf("stop from %s mutated state to %s", s, c.State())
		}
	}
}

func TestReportErrorFromEveryState(t *testing.T) {
	states := []State{StateIdle, StateListening, StateRecording, StateProcessing, StateSpeaking, StateError}
	for _, s := range states {
		c := controllerIn(t, s)
		c.ReportError("backend unreachable")
		if c.State() != StateError {
			t.Fatalf("report error from %s: got %s", s, c.State())
		}
		if got := c.StatusText(); got != "Error: backend unreachable" {
			t.Fatalf("status = %q", got)
		}
	}
}

func TestFullTurnTraversal(t *testing.T) {
	c := NewController(0)
	steps := []struct {
		op   func() error
		want State
	}{
		{c.Start, StateListening},
		{c.BeginRecording, StateRecording},
		{c.BeginProcessing, StateProcessing},
		{c.BeginSpeaking, StateSpeaking},
		{c.FinishSpeaking, StateIdle},
	}
	for i, step := range steps {
		if err := step.op(); err != nil {
			t.Fatalf("step %d: %v", i, err)
		}
		if c.State() != step.want {
			t.Fatalf("step %d: expected %s, got %s", i, step.want, c.State())
		}
	}
}

func TestAdvanceRejectedOutOfOrder(t *testing.T) {
	c := NewController(0)
	if err := c.BeginRecording(); !errors.Is(err, ErrInvalidTransition) {
		t.Fatalf("begin recording from idle: %v", err)
	}
	if err := c.BeginSpeaking(); !errors.Is(err, ErrInvalidTransition) {
		t.Fatalf("begin speaking from idle: %v", err)
	}
	if c.State() != StateIdle {
		t.Fatalf("state mutated to %s", c.State())
	}
}

func TestIngestIgnoredOutsideActiveWindow(t *testing.T) {
	for _, s := range []State{StateIdle, StateProcessing, StateSpeaking, StateError} {
		c := controllerIn(t, s)
		c.IngestAudioSample(0.9)
		if c.Level() != 0 || c.Peak() != 0 {
			t.Fatalf("ingest in %s changed tracker: level=%v peak=%v", s, c.Level(), c.Peak())
		}
	}
}

func TestIngestWhileListening(t *testing.T) {
	c := NewController(0)
	if err := c.Start(); err != nil {
		t.Fatal(err)
	}
	c.IngestAudioSample(0.6)
	if c.Level() != 0.6 {
		t.Fatalf("level = %v, want 0.6", c.Level())
	}
	if c.Peak() != 0.6 {
		t.Fatalf("peak = %v, want 0.6", c.Peak())
	}
	if err := c.Stop(); err != nil {
		t.Fatal(err)
	}
	if c.State() != StateIdle {
		t.Fatalf("expected idle, got %s", c.State())
	}
}

func TestStartResetsTracker(t *testing.T) {
	c := NewController(0)
	c.Start()
	c.IngestAudioSample(0.8)
	c.Stop()
	c.Start()
	if c.Level() != 0 || c.Peak() != 0 {
		t.Fatalf("tracker not reset: level=%v peak=%v", c.Level(), c.Peak())
	}
}

func TestStatusTextPerState(t *testing.T) {
	want := map[State]string{
		StateIdle:       "Ready to listen",
		StateListening:  "Listening...",
		StateRecording:  "Recording...",
		StateProcessing: "Processing...",
		StateSpeaking:   "Speaking...",
	}
	for s, text := range want {
		c := controllerIn(t, s)
		if got := c.StatusText(); got != text {
			t.Fatalf("status in %s = %q, want %q", s, got, text)
		}
	}
}

// controllerIn walks a fresh controller into the given state via legal
// transitions.
func controllerIn(t *testing.T, s State) *Controller {
	t.Helper()
	c := NewController(0)
	path := map[State][]func() error{
		StateIdle:       {},
		StateListening:  {c.Start},
		StateRecording:  {c.Start, c.BeginRecording},
		StateProcessing: {c.Start, c.BeginRecording, c.BeginProcessing},
		StateSpeaking:   {c.Start, c.BeginRecording, c.BeginProcessing, c.BeginSpeaking},
	}
	if s == StateError {
		c.ReportError("backend unreachable")
		return c
	}
	for _, op := range path[s] {
		if err := op(); err != nil {
			t.Fatalf("walking to %s: %v", s, err)
		}
	}
	return c
}

func TestIngestTimestampsDriveDecay(t *testing.T) {
	c := NewController(0.5)
	c.Start()
	base := time.Now()
	c.ingestAt(1.0, base)
	c.ingestAt(0.2, base.Add(time.Second))
	peak := c.Peak()
	if peak >= 1.0 {
		t.Fatalf("peak did not decay: %v", peak)
	}
	if peak < c.Level() {
		t.Fatalf("peak %v fell below current %v", peak, c.Level())
	}
}
