package main

import (
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"runtime/debug"
	"sync"
	"time"

	"github.com/joho/godotenv"

	"aura/audio"
	"aura/beep"
	"aura/config"
	"aura/hotkey"
	"aura/log"
	"aura/session"
	"aura/shutdown"
)

var version = "dev"

var sink EventSink = tuiSink{}

var (
	turnsMu    sync.Mutex
	turnsTotal int
)

var shutdownOnce sync.Once

func gracefulShutdown() {
	shutdownOnce.Do(func() {
		turnsMu.Lock()
		n := turnsTotal
		turnsMu.Unlock()
		log.SessionEnd(n)
		log.Close()
		if tuiProgram != nil {
			tuiProgram.Quit()
		}
		os.Exit(0)
	})
}

func bumpTurns() {
	turnsMu.Lock()
	turnsTotal++
	turnsMu.Unlock()
}

func run() {
	// .env may carry AURA_LOG_PATH and friends; absence is fine.
	_ = godotenv.Load()

	configFlag := flag.String("config", config.DefaultPath(), "Path to config.toml")
	logPathFlag := flag.String("logpath", "", "log directory path (default: OS-specific location, use ./ for current dir)")
	barsFlag := flag.Int("bars", 0, "Activity bar count (overrides config)")
	seedFlag := flag.Int64("seed", 0, "Jitter seed (overrides config)")
	versionFlag := flag.Bool("version", false, "Print version and exit")
	testFlag := flag.Bool("test", false, "Test mode (headless, stdin-driven)")
	cuesFlag := flag.Bool("cues", true, "Play audible cues on state changes")
	crashFlag := flag.Bool("crash", false, "Trigger synthetic panic for testing crash logging")
	flag.Parse()

	if *versionFlag {
		fmt.Printf("aura %s\n", version)
		os.Exit(0)
	}

	cfg, err := config.Load(*configFlag)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	if *barsFlag > 0 {
		cfg.BarCount = *barsFlag
	}
	if *seedFlag != 0 {
		cfg.JitterSeed = *seedFlag
	}
	if !*cuesFlag {
		cfg.CuesOn = false
	}

	// Resolve log directory early
	logPath, err := log.ResolveDir(*logPathFlag)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: failed to resolve log directory: %v\n", err)
		os.Exit(1)
	}
	log.SetDir(logPath)

	if err := log.EnsureDir(); err != nil {
		fmt.Fprintf(os.Stderr, "Warning: could not create log directory: %v\n", err)
	}

	crashPath := filepath.Join(log.Dir(), "crash_log.txt")
	crashFile, err := os.OpenFile(crashPath, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
	if err == nil {
		fmt.Fprintf(crashFile, "\n=== Session %s [pid=%d] ===\n", time.Now().Format("2006-01-02 15:04:05"), os.Getpid())
		debug.SetCrashOutput(crashFile, debug.CrashOptions{})
	}

	if *crashFlag {
		panic("TEST CRASH: synthetic panic to verify crash logging")
	}

	if err := log.Init(); err != nil {
		fmt.Fprintf(os.Stderr, "Warning: could not init logging: %v\n", err)
	}

	if !cfg.CuesOn {
		beep.Disable()
	}

	if *testFlag {
		args := flag.Args()
		if len(args) == 0 {
			fmt.Fprintln(os.Stderr, "Usage: aura -test <wav-file>")
			os.Exit(1)
		}
		runTestMode(args[0], cfg)
		return
	}

	src := audio.NewSynth(audio.Conversation(), cfg.SynthSeed, true)
	ctrl := session.NewController(cfg.PeakDecayPerSecond)

	log.SessionStart(src.Name(), cfg.BarCount, cfg.JitterSeed)

	tuiMu.Lock()
	tuiProgram = NewTUIProgram(cfg.BarCount, cfg.JitterSeed)
	tuiMu.Unlock()

	go func() {
		if _, err := tuiProgram.Run(); err != nil {
			log.Errorf("TUI error: %v", err)
			log.Close()
			os.Exit(1)
		}
		gracefulShutdown()
	}()

	<-tuiReady

	sigChan := make(chan os.Signal, 1)
	shutdown.Notify(sigChan)
	go func() {
		<-sigChan
		gracefulShutdown()
	}()

	go beep.Init()

	hk := hotkey.New()
	if err := hk.Register(); err != nil {
		log.Errorf("hotkey register error: %v", err)
		fmt.Printf("Error registering hotkey: %v\n", err)
		os.Exit(1)
	}
	defer hk.Unregister()

	hy := hotkey.NewHybrid(hk, cfg.LongPress.Duration)
	for range hy.Start() {
		runTurn(ctrl, src, hy.StopChan(), hy.IsToggle, cfg)
	}
}

// applyState pushes a transition's outcome to the sink and the log.
func applyState(ctrl *session.Controller, from session.State) {
	to := ctrl.State()
	if to != from {
		log.StateTransition(from.String(), to.String())
	}
	sink.StateChanged(to, ctrl.StatusText())
}

// turnStats accumulates level readings delivered by the audio callback.
type turnStats struct {
	mu    sync.Mutex
	sum   float64
	max   float64
	count int
}

func (s *turnStats) add(level float64) {
	s.mu.Lock()
	s.sum += level
	s.count++
	if level > s.max {
		s.max = level
	}
	s.mu.Unlock()
}

func (s *turnStats) mean() float64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.count == 0 {
		return 0
	}
	return s.sum / float64(s.count)
}

func (s *turnStats) peak() float64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.max
}

// runTurn drives one session from Start until the controller rests at
// idle or error again: listening, recording once voice is confirmed,
// then the processing and speaking phases after the turn ends.
func runTurn(ctrl *session.Controller, src audio.Source, stop <-chan struct{}, isToggle func() bool, cfg config.Config) {
	// A toggle session that auto-ended on silence leaves its stop press
	// unconsumed; drop it so it cannot cut this session short.
	select {
	case <-stop:
	default:
	}

	prev := ctrl.State()
	if err := ctrl.Start(); err != nil {
		// A press while processing or speaking; surface and move on.
		log.InvalidTransition("start", prev.String())
		return
	}
	applyState(ctrl, prev)
	beep.PlayStart()

	vp, err := newVADProcessor()
	if err != nil {
		reportFailure(ctrl, fmt.Sprintf("voice detector init failed: %v", err))
		return
	}

	stats := &turnStats{}
	src.SetCallback(func(data []byte, frameCount uint32) {
		if len(data) == 0 {
			return
		}
		level := audio.Level(data)
		ctrl.IngestAudioSample(level)
		stats.add(level)
		sink.AudioLevel(ctrl.Level(), ctrl.Peak())
		vp.Process(data)
	})

	if err := src.Start(); err != nil {
		src.ClearCallback()
		reportFailure(ctrl, fmt.Sprintf("audio source failed: %v", err))
		return
	}

	mon := newTurnMonitor(cfg.WarnAfter.Duration, cfg.EndHold.Duration, cfg.SpeechMin, isToggle)
	sessionStart := time.Now()
	recordStart := time.Time{}
	autoEnded := false
	completed := false

	ticker := time.NewTicker(tickInterval)
	defer ticker.Stop()

loop:
	for {
		select {
		case <-ticker.C:
			sink.SessionTick(time.Since(sessionStart).Seconds())

			if ctrl.State() == session.StateListening && vp.VoiceDetected() {
				from := ctrl.State()
				if err := ctrl.BeginRecording(); err == nil {
					recordStart = time.Now()
					applyState(ctrl, from)
				}
			}

			switch mon.Tick(vp.HasSpeechTick()) {
			case TurnWarn:
				log.Info("no_voice_warning")
				sink.NoVoiceWarning(true)
				beep.PlayError()
			case TurnWarnClear:
				sink.NoVoiceWarning(false)
			case TurnEnd:
				log.Info("turn_auto_end")
				autoEnded = true
				completed = turnCompleted(ctrl.State())
				break loop
			}

		case <-stop:
			completed = turnCompleted(ctrl.State())
			break loop
		}
	}

	src.Stop()
	src.ClearCallback()
	beep.PlayEnd()

	if !completed {
		// Nothing was said; back to rest.
		from := ctrl.State()
		if err := ctrl.Stop(); err != nil {
			log.InvalidTransition("stop", from.String())
			return
		}
		applyState(ctrl, from)
		return
	}

	finishTurn(ctrl, stats, vp, recordStart, autoEnded, cfg)
}

// turnCompleted reports whether the session actually reached Recording.
// The monitor can emit TurnEnd off stray noisy ticks while the
// controller is still Listening; such sessions resolve through Stop,
// never through the processing phases.
func turnCompleted(st session.State) bool {
	return st == session.StateRecording
}

// finishTurn walks a completed recording through processing and
// speaking. Neither phase is user-cancellable.
func finishTurn(ctrl *session.Controller, stats *turnStats, vp *vadProcessor, recordStart time.Time, autoEnded bool, cfg config.Config) {
	recDur := time.Since(recordStart)

	from := ctrl.State()
	if err := ctrl.BeginProcessing(); err != nil {
		log.InvalidTransition("begin processing", from.String())
		return
	}
	applyState(ctrl, from)
	time.Sleep(cfg.ProcessDur.Duration)

	from = ctrl.State()
	if err := ctrl.BeginSpeaking(); err != nil {
		log.InvalidTransition("begin speaking", from.String())
		return
	}
	applyState(ctrl, from)

	replyDur := replyDuration(recDur)
	go beep.PlayReply(replyDur.Seconds())
	time.Sleep(replyDur)

	from = ctrl.State()
	if err := ctrl.FinishSpeaking(); err != nil {
		log.InvalidTransition("finish speaking", from.String())
		return
	}
	applyState(ctrl, from)

	total, speech := vp.Stats()
	ratio := 0.0
	if total > 0 {
		ratio = float64(speech) / float64(total)
	}
	log.Turn(log.TurnMetrics{
		DurationS:   recDur.Seconds(),
		MeanLevel:   stats.mean(),
		PeakLevel:   stats.peak(),
		SpeechRatio: ratio,
		AutoEnded:   autoEnded,
	})
	bumpTurns()
	sink.TurnEnded(autoEnded)
}

// replyDuration sizes the speaking phase to the length of the turn.
func replyDuration(recDur time.Duration) time.Duration {
	d := time.Duration(float64(recDur) * 0.8)
	if d < 800*time.Millisecond {
		d = 800 * time.Millisecond
	}
	if d > 3*time.Second {
		d = 3 * time.Second
	}
	return d
}

func reportFailure(ctrl *session.Controller, msg string) {
	log.Error(msg)
	ctrl.ReportError(msg)
	sink.StateChanged(ctrl.State(), ctrl.StatusText())
	beep.PlayError()
}
