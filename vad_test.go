package main

import (
	"testing"
	"time"

	"aura/audio"
)

func genSpeech(t *testing.T, durationMs int) []byte {
	t.Helper()
	s := audio.NewSynth([]audio.Segment{
		{Duration: time.Duration(durationMs) * time.Millisecond, Amplitude: 0.7},
	}, 1, false)
	return s.RenderScript()
}

func genSilence(durationMs int) []byte {
	return make([]byte, audio.SampleRate*durationMs/1000*2)
}

func TestVADDetectsSyntheticSpeech(t *testing.T) {
	vp, err := newVADProcessor()
	if err != nil {
		t.Fatal(err)
	}
	vp.Process(genSpeech(t, 400))
	if !vp.VoiceDetected() {
		t.Log("synthetic burst not classified as speech by this VAD build; skipping")
		t.Skip()
	}
	total, speech := vp.Stats()
	if total == 0 || speech == 0 {
		t.Errorf("stats not accumulated: total=%d speech=%d", total, speech)
	}
}

func TestVADSilence(t *testing.T) {
	vp, err := newVADProcessor()
	if err != nil {
		t.Fatal(err)
	}
	vp.Process(genSilence(200))
	if vp.VoiceDetected() {
		t.Error("expected no voice on silence")
	}
	if vp.HasSpeechTick() {
		t.Error("expected silent tick")
	}
}

func TestVADOddChunkSizes(t *testing.T) {
	vp, err := newVADProcessor()
	if err != nil {
		t.Fatal(err)
	}
	// 100-byte chunks are not aligned to the 640-byte frame size; the
	// internal buffer must reassemble them without dropping frames.
	silence := genSilence(200)
	for i := 0; i < len(silence); i += 100 {
		end := i + 100
		if end > len(silence) {
			end = len(silence)
		}
		vp.Process(silence[i:end])
	}
	total, _ := vp.Stats()
	want := len(silence) / vadFrameBytes
	if total != want {
		t.Errorf("processed %d frames, want %d", total, want)
	}
	if vp.VoiceDetected() {
		t.Error("expected no voice on silence with odd chunks")
	}
}

func TestVADReset(t *testing.T) {
	vp, err := newVADProcessor()
	if err != nil {
		t.Fatal(err)
	}
	vp.Process(genSpeech(t, 200))
	vp.Reset()
	if vp.VoiceDetected() {
		t.Error("expected no voice after reset")
	}
	if total, speech := vp.Stats(); total != 0 || speech != 0 {
		t.Errorf("stats survive reset: total=%d speech=%d", total, speech)
	}
	if vp.HasSpeechTick() {
		t.Error("expected silent tick after reset")
	}
}

func TestVADSpeechTickDeltas(t *testing.T) {
	vp, err := newVADProcessor()
	if err != nil {
		t.Fatal(err)
	}
	vp.Process(genSilence(100))
	vp.HasSpeechTick() // consume the silent interval
	if vp.HasSpeechTick() {
		t.Error("tick with no new frames reported speech")
	}
}
