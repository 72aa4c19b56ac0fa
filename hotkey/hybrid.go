package hotkey

import (
	"sync"
	"time"
)

// Hybrid wraps a Hotkey to provide hybrid tap-to-toggle and
// hold-to-talk behavior on the same key combination. It emits Start
// events and a unified Stop channel signaling when the session should
// end, for both modes. Toggle mode additionally arms silence-based
// auto-end in the caller.
type Hybrid struct {
	startCh chan struct{}
	stopCh  chan struct{}

	mu     sync.Mutex
	toggle bool
}

// NewHybrid builds a Hybrid controller on top of an existing Hotkey.
// longPress is the hold duration separating PTT from a tap.
func NewHybrid(hk Hotkey, longPress time.Duration) *Hybrid {
	h := &Hybrid{
		startCh: make(chan struct{}, 1),
		stopCh:  make(chan struct{}, 1),
	}
	go h.run(hk, longPress)
	return h
}

// Start returns a channel signaled when a new session should begin.
func (h *Hybrid) Start() <-chan struct{} { return h.startCh }

// StopChan returns a channel signaled when the session should stop.
func (h *Hybrid) StopChan() <-chan struct{} { return h.stopCh }

// IsToggle reports whether the current session was started by a tap.
func (h *Hybrid) IsToggle() bool {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.toggle
}

func (h *Hybrid) setToggle(v bool) {
	h.mu.Lock()
	h.toggle = v
	h.mu.Unlock()
}

func (h *Hybrid) fireStop() {
	select {
	case h.stopCh <- struct{}{}:
	default:
	}
}

func (h *Hybrid) run(hk Hotkey, longPress time.Duration) {
	for {
		// Any press starts immediately; the hold duration decides the mode.
		<-hk.Keydown()
		h.setToggle(false)
		h.startCh <- struct{}{}

		timer := time.NewTimer(longPress)
		select {
		case <-timer.C:
			// Held past the threshold: PTT, stop on release.
			<-hk.Keyup()
			h.fireStop()
		case <-hk.Keyup():
			// Short tap: toggled on; the next press-release stops.
			if !timer.Stop() {
				select {
				case <-timer.C:
				default:
				}
			}
			h.setToggle(true)
			<-hk.Keydown()
			<-hk.Keyup()
			h.fireStop()
		}
	}
}
