package main

import (
	"testing"
	"time"

	"aura/session"
)

func pttTurnMonitor() *turnMonitor {
	return newTurnMonitor(turnWarnAfter, turnEndHold, speechMinRatio, func() bool { return false })
}

func toggleTurnMonitor() *turnMonitor {
	return newTurnMonitor(turnWarnAfter, turnEndHold, speechMinRatio, func() bool { return true })
}

func feedN(m *turnMonitor, speech bool, n int) TurnEvent {
	var last TurnEvent
	for i := 0; i < n; i++ {
		last = m.Tick(speech)
	}
	return last
}

func TestWarnAfter8sOfSilence(t *testing.T) {
	m := pttTurnMonitor()
	// 79 ticks of silence — no warning yet
	for i := 0; i < 79; i++ {
		if ev := m.Tick(false); ev != TurnNone {
			t.Fatalf("unexpected event at tick %d: %d", i, ev)
		}
	}
	// 80th tick triggers warning (8s)
	if ev := m.Tick(false); ev != TurnWarn {
		t.Fatalf("expected TurnWarn at tick 80, got %d", ev)
	}
}

func TestWarnOnlyOnce(t *testing.T) {
	m := pttTurnMonitor()
	warns := 0
	for i := 0; i < 300; i++ {
		if ev := m.Tick(false); ev == TurnWarn {
			warns++
		}
	}
	if warns != 1 {
		t.Fatalf("expected exactly 1 TurnWarn, got %d", warns)
	}
}

func TestWarnClearsOnSpeech(t *testing.T) {
	m := pttTurnMonitor()
	feedN(m, false, 80) // triggers warn
	if ev := m.Tick(true); ev != TurnWarnClear {
		t.Fatalf("expected TurnWarnClear on first speech, got %d", ev)
	}
}

func TestNoWarnDuringSpeech(t *testing.T) {
	m := pttTurnMonitor()
	for i := 0; i < 200; i++ {
		if ev := m.Tick(true); ev == TurnWarn {
			t.Fatalf("unexpected warn during speech at tick %d", i)
		}
	}
}

func TestToggleEndsAfterTrailingSilence(t *testing.T) {
	m := toggleTurnMonitor()
	feedN(m, true, 10) // one second of speech
	// 2s of silence ends the turn; the 20-tick window must flush first
	var gotEnd bool
	for i := 0; i < 40; i++ {
		if ev := m.Tick(false); ev == TurnEnd {
			gotEnd = true
			break
		}
	}
	if !gotEnd {
		t.Fatal("expected TurnEnd after trailing silence")
	}
}

func TestNoEndBeforeAnySpeech(t *testing.T) {
	m := toggleTurnMonitor()
	for i := 0; i < 400; i++ {
		if ev := m.Tick(false); ev == TurnEnd {
			t.Fatalf("turn ended at tick %d without any speech", i)
		}
	}
}

func TestNoEndInPTTMode(t *testing.T) {
	m := pttTurnMonitor()
	feedN(m, true, 10)
	for i := 0; i < 400; i++ {
		if ev := m.Tick(false); ev == TurnEnd {
			t.Fatalf("unexpected auto-end in PTT mode at tick %d", i)
		}
	}
}

func TestOngoingSpeechKeepsTurnAlive(t *testing.T) {
	m := toggleTurnMonitor()
	for i := 0; i < 500; i++ {
		speech := i%10 < 7 // 70% speech
		if ev := m.Tick(speech); ev == TurnEnd {
			t.Fatalf("turn ended at tick %d despite ongoing speech", i)
		}
	}
}

func TestSparseNoiseDoesNotBlockEnd(t *testing.T) {
	m := toggleTurnMonitor()
	feedN(m, true, 10)
	// Occasional VAD false positives below the ratio threshold still end.
	var gotEnd bool
	for i := 0; i < 60; i++ {
		speech := i%25 == 0 // ~4% of ticks
		if ev := m.Tick(speech); ev == TurnEnd {
			gotEnd = true
			break
		}
	}
	if !gotEnd {
		t.Fatal("sparse noise prevented TurnEnd")
	}
}

func TestNoisyTickTurnEndWhileListeningResolvesToIdle(t *testing.T) {
	// A single noisy tick marks speech for the monitor even though the
	// debounced voice confirmation never fired, so TurnEnd can arrive
	// with the controller still listening.
	m := toggleTurnMonitor()
	m.Tick(true)
	ended := false
	for i := 0; i < 40; i++ {
		if m.Tick(false) == TurnEnd {
			ended = true
			break
		}
	}
	if !ended {
		t.Fatal("expected TurnEnd after trailing silence")
	}

	ctrl := session.NewController(0)
	if err := ctrl.Start(); err != nil {
		t.Fatal(err)
	}
	if turnCompleted(ctrl.State()) {
		t.Fatal("listening session treated as a completed turn")
	}
	// The session must resolve through Stop and stay startable.
	if err := ctrl.Stop(); err != nil {
		t.Fatal(err)
	}
	if ctrl.State() != session.StateIdle {
		t.Fatalf("expected idle, got %s", ctrl.State())
	}
	if err := ctrl.Start(); err != nil {
		t.Fatalf("follow-up session rejected: %v", err)
	}
}

func TestTurnCompletedOnlyFromRecording(t *testing.T) {
	states := []session.State{
		session.StateIdle, session.StateListening, session.StateProcessing,
		session.StateSpeaking, session.StateError,
	}
	for _, s := range states {
		if turnCompleted(s) {
			t.Errorf("turnCompleted(%s) = true", s)
		}
	}
	if !turnCompleted(session.StateRecording) {
		t.Error("turnCompleted(recording) = false")
	}
}

func TestCustomWindows(t *testing.T) {
	m := newTurnMonitor(time.Second, 500*time.Millisecond, speechMinRatio, func() bool { return true })
	if ev := feedN(m, false, 10); ev != TurnWarn {
		t.Fatalf("expected warn at 1s with custom window, got %d", ev)
	}
	m2 := newTurnMonitor(time.Second, 500*time.Millisecond, speechMinRatio, func() bool { return true })
	feedN(m2, true, 5)
	if ev := feedN(m2, false, 6); ev != TurnEnd {
		t.Fatalf("expected end after 500ms custom hold, got %d", ev)
	}
}
