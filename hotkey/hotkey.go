// Package hotkey watches the global Ctrl+Shift+Space combination and
// turns raw press/release pairs into session start and stop signals.
package hotkey

type Hotkey interface {
	Register() error
	Unregister()
	Keydown() <-chan struct{}
	Keyup() <-chan struct{}
}
