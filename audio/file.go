package audio

import (
	"os"
	"sync"
	"time"
)

// FileSource feeds the PCM body of a WAV file through the Source
// callback, then silence until stopped. Used by headless test mode.
type FileSource struct {
	pcm      []byte
	realtime bool
	// audioDone closes once the file body has been fully delivered.
	audioDone chan struct{}

	mu       sync.Mutex
	cb       DataCallback
	stopCh   chan struct{}
	feedDone chan struct{}
}

func NewFileSource(wavPath string, realtime bool) (*FileSource, error) {
	data, err := os.ReadFile(wavPath)
	if err != nil {
		return nil, err
	}
	if len(data) > WAVHeaderSize {
		data = data[WAVHeaderSize:]
	}
	return &FileSource{pcm: data, realtime: realtime, audioDone: make(chan struct{})}, nil
}

func (f *FileSource) Name() string { return "file" }

func (f *FileSource) AudioDone() <-chan struct{} { return f.audioDone }

func (f *FileSource) SetCallback(cb DataCallback) {
	f.mu.Lock()
	f.cb = cb
	f.mu.Unlock()
}

func (f *FileSource) ClearCallback() {
	f.mu.Lock()
	f.cb = nil
	f.mu.Unlock()
}

func (f *FileSource) feedChunk(cb DataCallback, pos, chunkBytes int) int {
	end := min(pos+chunkBytes, len(f.pcm))
	chunk := make([]byte, end-pos)
	copy(chunk, f.pcm[pos:end])
	cb(chunk, uint32(len(chunk)/bytesPerFrame))
	return end
}

func (f *FileSource) Start() error {
	f.stopCh = make(chan struct{})
	f.feedDone = make(chan struct{})
	// audioDone is NOT recreated here -- callers may already be waiting
	// on it. It's reset in Stop() for replay.

	chunkBytes := chunkFrames * bytesPerFrame
	interval := time.Duration(chunkFrames) * time.Second / time.Duration(SampleRate)

	go func() {
		defer close(f.feedDone)
		pos := 0
		silence := make([]byte, chunkBytes)
		audioFinished := false

		for {
			select {
			case <-f.stopCh:
				return
			default:
			}

			f.mu.Lock()
			cb := f.cb
			f.mu.Unlock()
			if cb == nil {
				time.Sleep(time.Millisecond)
				continue
			}

			if pos < len(f.pcm) {
				pos = f.feedChunk(cb, pos, chunkBytes)
			} else {
				if !audioFinished {
					audioFinished = true
					close(f.audioDone)
				}
				cb(silence, chunkFrames)
			}

			if f.realtime {
				select {
				case <-f.stopCh:
					return
				case <-time.After(interval):
				}
			} else {
				select {
				case <-f.stopCh:
					return
				case <-time.After(time.Millisecond):
				}
			}
		}
	}()
	return nil
}

func (f *FileSource) Stop() {
	select {
	case <-f.stopCh:
	default:
		close(f.stopCh)
	}
	if f.feedDone != nil {
		<-f.feedDone
	}
	f.audioDone = make(chan struct{}) // reset for replay
}
