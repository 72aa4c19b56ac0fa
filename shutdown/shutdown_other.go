//go:build !windows

// Package shutdown routes the platform's termination signals to a
// channel so the session loop can close the log cleanly.
package shutdown

import (
	"os"
	"os/signal"
	"syscall"
)

func Notify(ch chan os.Signal) {
	signal.Notify(ch, os.Interrupt, syscall.SIGTERM)
}
