// Package audio provides the level-sample producers the session core
// consumes. Microphone capture is out of scope; the sources here are
// synthetic, generating PCM16 on the same callback contract a capture
// device would use, so the rest of the pipeline (RMS, VAD, metering) is
// exercised with real sample data.
package audio

// SampleRate is the PCM rate all sources produce, mono 16-bit.
const SampleRate = 16000

const (
	Channels      = 1
	WAVHeaderSize = 44

	bytesPerFrame = 2
	chunkFrames   = 1024
)

type DataCallback func(pcm []byte, frameCount uint32)

// Source delivers PCM chunks to a callback at its own cadence. Start
// and Stop may be called repeatedly; the callback may be swapped while
// running.
type Source interface {
	Start() error
	Stop()
	SetCallback(cb DataCallback)
	ClearCallback()
	Name() string
}
