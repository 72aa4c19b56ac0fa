package main

import (
	"bufio"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"aura/audio"
	"aura/beep"
	"aura/config"
	"aura/hotkey"
	"aura/log"
	"aura/session"
)

// testSink prints session events line-by-line so a driving script can
// assert on them. Level and tick traffic is deliberately silent.
type testSink struct{}

func (testSink) StateChanged(s session.State, status string) {
	fmt.Printf("STATE %s | %s\n", s, status)
}

func (testSink) AudioLevel(level, peak float64) {}

func (testSink) SessionTick(duration float64) {}

func (testSink) NoVoiceWarning(active bool) {
	fmt.Printf("WARN %v\n", active)
}

func (testSink) TurnEnded(auto bool) {
	fmt.Printf("TURN auto=%v\n", auto)
}

// runTestMode drives the full session pipeline headlessly: a WAV file
// stands in for the audio source and a fake hotkey is pulsed by stdin
// commands (KEYDOWN, KEYUP, WAIT_IDLE, WAIT_AUDIO_DONE, SLEEP ms,
// QUIT).
func runTestMode(wavPath string, cfg config.Config) {
	beep.Disable()
	sink = testSink{}
	defer log.Close()

	src, err := audio.NewFileSource(wavPath, true)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading WAV: %v\n", err)
		os.Exit(1)
	}

	log.SessionStart(src.Name(), cfg.BarCount, cfg.JitterSeed)

	ctrl := session.NewController(cfg.PeakDecayPerSecond)
	fk := hotkey.NewFake()
	hy := hotkey.NewHybrid(fk, cfg.LongPress.Duration)
	turnDone := make(chan struct{}, 1)

	// Stdin driver in background -- pulses the fake hotkey, handles
	// WAIT/SLEEP/QUIT.
	go func() {
		scanner := bufio.NewScanner(os.Stdin)
		for scanner.Scan() {
			cmd := strings.TrimSpace(scanner.Text())
			switch cmd {
			case "KEYDOWN":
				fk.SimKeydown()
			case "KEYUP":
				fk.SimKeyup()
			case "WAIT_IDLE":
				<-turnDone
			case "WAIT_AUDIO_DONE":
				<-src.AudioDone()
			case "QUIT":
				turnsMu.Lock()
				n := turnsTotal
				turnsMu.Unlock()
				log.SessionEnd(n)
				os.Exit(0)
			default:
				if strings.HasPrefix(cmd, "SLEEP ") {
					if ms, err := strconv.Atoi(cmd[6:]); err == nil {
						time.Sleep(time.Duration(ms) * time.Millisecond)
					}
				}
			}
		}
		os.Exit(0)
	}()

	// Event loop -- same shape as run()
	for range hy.Start() {
		runTurn(ctrl, src, hy.StopChan(), hy.IsToggle, cfg)
		select {
		case turnDone <- struct{}{}:
		default:
		}
	}
}
