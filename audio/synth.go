package audio

import (
	"math"
	"math/rand"
	"sync"
	"time"
)

// Segment is one stretch of generated audio: a speech-like burst at the
// given amplitude, or silence when Amplitude is 0.
type Segment struct {
	Duration  time.Duration
	Amplitude float64 // 0 = silence, otherwise peak amplitude in (0,1]
}

// Conversation is the default synth script: a pause, two utterances
// with a gap, then trailing silence that lets silence-based turn
// endpointing fire.
func Conversation() []Segment {
	return []Segment{
		{800 * time.Millisecond, 0},
		{2200 * time.Millisecond, 0.55},
		{400 * time.Millisecond, 0},
		{1600 * time.Millisecond, 0.7},
		{4 * time.Second, 0},
	}
}

// Synth generates deterministic speech-like PCM16 from a segment
// script, looping when the script runs out. Speech bursts are a carrier
// tone with pitch and amplitude modulation plus a little seeded noise,
// which is enough to register as voice on a WebRTC VAD frame.
type Synth struct {
	script   []Segment
	seed     int64
	realtime bool

	mu       sync.Mutex
	cb       DataCallback
	stopCh   chan struct{}
	feedDone chan struct{}
}

func NewSynth(script []Segment, seed int64, realtime bool) *Synth {
	if len(script) == 0 {
		script = Conversation()
	}
	return &Synth{script: script, seed: seed, realtime: realtime}
}

func (s *Synth) Name() string { return "synth" }

func (s *Synth) SetCallback(cb DataCallback) {
	s.mu.Lock()
	s.cb = cb
	s.mu.Unlock()
}

func (s *Synth) ClearCallback() {
	s.mu.Lock()
	s.cb = nil
	s.mu.Unlock()
}

func (s *Synth) Start() error {
	s.stopCh = make(chan struct{})
	s.feedDone = make(chan struct{})
	pcm := s.RenderScript()

	interval := time.Duration(chunkFrames) * time.Second / time.Duration(SampleRate)
	chunkBytes := chunkFrames * bytesPerFrame

	go func() {
		defer close(s.feedDone)
		pos := 0
		for {
			select {
			case <-s.stopCh:
				return
			default:
			}

			s.mu.Lock()
			cb := s.cb
			s.mu.Unlock()
			if cb == nil {
				time.Sleep(time.Millisecond)
				continue
			}

			end := pos + chunkBytes
			if end > len(pcm) {
				end = len(pcm)
			}
			chunk := make([]byte, end-pos)
			copy(chunk, pcm[pos:end])
			cb(chunk, uint32(len(chunk)/bytesPerFrame))
			pos = end
			if pos >= len(pcm) {
				pos = 0 // loop the script
			}

			if s.realtime {
				select {
				case <-s.stopCh:
					return
				case <-time.After(interval):
				}
			}
		}
	}()
	return nil
}

func (s *Synth) Stop() {
	select {
	case <-s.stopCh:
	default:
		close(s.stopCh)
	}
	<-s.feedDone
}

// RenderScript renders the whole script to PCM without delivering it,
// for callers that want the raw signal.
func (s *Synth) RenderScript() []byte {
	rng := rand.New(rand.NewSource(s.seed))
	var out []byte
	for _, seg := range s.script {
		out = append(out, renderSegment(seg, rng)...)
	}
	return out
}

func renderSegment(seg Segment, rng *rand.Rand) []byte {
	n := int(float64(SampleRate) * seg.Duration.Seconds())
	buf := make([]byte, n*bytesPerFrame)
	if seg.Amplitude <= 0 {
		return buf
	}

	base := 140.0 + rng.Float64()*60 // fundamental drifts per burst
	for i := 0; i < n; i++ {
		t := float64(i) / SampleRate
		// Syllable-rate envelope around 4 Hz, never fully closing.
		envelope := 0.55 + 0.45*math.Sin(2*math.Pi*4*t+rng.Float64()*0.01)
		pitch := base * (1 + 0.08*math.Sin(2*math.Pi*0.7*t))
		v := math.Sin(2*math.Pi*pitch*t) * 0.8
		v += math.Sin(2*math.Pi*pitch*2.1*t) * 0.3
		v += (rng.Float64()*2 - 1) * 0.15
		v *= seg.Amplitude * envelope

		sample := int16(clampF(v, -0.999, 0.999) * 32767)
		buf[i*2] = byte(sample)
		buf[i*2+1] = byte(uint16(sample) >> 8)
	}
	return buf
}

func clampF(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
