// Package beep plays short synthesized cues marking session phase
// changes, and a reply tone standing in for speech output during the
// speaking phase.
package beep

import "math"

var disabled bool

// Disable silences all cues (headless and test runs).
func Disable() { disabled = true }

const (
	sampleRate = 44100

	// Listen cue: high pitch, short
	startFreq   = 1200
	startVolume = 0.5
	startDecay  = 60

	// End cue: medium pitch, slightly longer
	endFreq   = 900
	endVolume = 0.5
	endDecay  = 40

	// Error cue: low pitch double-beep
	errorFreq   = 350
	errorVolume = 0.6
	errorDecay  = 30

	// Reply tone: soft mid-range warble
	replyFreq   = 520
	replyVolume = 0.35
)

func generateTick(sampleRate int, freq float64, duration float64, volume float64, decay float64) []int16 {
	n := int(float64(sampleRate) * duration)
	samples := make([]int16, n*2)
	for i := 0; i < n; i++ {
		t := float64(i) / float64(sampleRate)
		envelope := math.Exp(-t * decay)
		s := int16(math.Sin(2*math.Pi*freq*t) * 32767 * volume * envelope)
		samples[i*2] = s
		samples[i*2+1] = s
	}
	return samples
}

func generateDoubleBeep(sampleRate int, freq float64, beepDur float64, gapDur float64, volume float64, decay float64) []int16 {
	beep := generateTick(sampleRate, freq, beepDur, volume, decay)
	gap := make([]int16, int(float64(sampleRate)*gapDur)*2)
	result := make([]int16, 0, len(beep)*2+len(gap))
	result = append(result, beep...)
	result = append(result, gap...)
	result = append(result, beep...)
	return result
}

// generateReply renders a warbling tone of the given duration with a
// fade-in/fade-out so the speaking phase has an audible body.
func generateReply(sampleRate int, duration float64) []int16 {
	n := int(float64(sampleRate) * duration)
	samples := make([]int16, n*2)
	for i := 0; i < n; i++ {
		t := float64(i) / float64(sampleRate)
		fade := 1.0
		if t < 0.05 {
			fade = t / 0.05
		} else if duration-t < 0.1 {
			fade = (duration - t) / 0.1
		}
		freq := replyFreq * (1 + 0.04*math.Sin(2*math.Pi*5*t))
		s := int16(math.Sin(2*math.Pi*freq*t) * 32767 * replyVolume * fade)
		samples[i*2] = s
		samples[i*2+1] = s
	}
	return samples
}
