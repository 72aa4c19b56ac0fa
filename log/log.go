package log

import (
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/rs/zerolog"
)

var (
	diagLog  zerolog.Logger
	diagFile *os.File
	logMu    sync.Mutex
	logReady bool
	pid      int
	dir      string
)

func ResolveDir(flagPath string) (string, error) {
	// Priority 1: -logpath flag
	if flagPath != "" {
		if !filepath.IsAbs(flagPath) {
			wd, err := os.Getwd()
			if err != nil {
				return "", err
			}
			return filepath.Join(wd, flagPath), nil
		}
		return flagPath, nil
	}

	// Priority 2: AURA_LOG_PATH environment variable
	envPath := os.Getenv("AURA_LOG_PATH")
	if envPath != "" {
		if !filepath.IsAbs(envPath) {
			wd, err := os.Getwd()
			if err != nil {
				return "", err
			}
			return filepath.Join(wd, envPath), nil
		}
		return envPath, nil
	}

	// Priority 3: Default OS-specific location
	return getDefaultDir()
}

func SetDir(d string) {
	dir = d
}

func Dir() string {
	return dir
}

func EnsureDir() error {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create log directory: %w", err)
	}
	return nil
}

func Init() error {
	logMu.Lock()
	defer logMu.Unlock()

	if err := EnsureDir(); err != nil {
		return err
	}

	pid = os.Getpid()

	diagPath := filepath.Join(dir, "diagnostics_log.txt")
	f, err := os.OpenFile(diagPath, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
	if err != nil {
		return err
	}
	diagFile = f

	consoleWriter := zerolog.ConsoleWriter{
		Out:        diagFile,
		TimeFormat: "2006-01-02 15:04:05",
		NoColor:    true,
	}
	diagLog = zerolog.New(consoleWriter).With().Timestamp().Int("pid", pid).Logger()

	logReady = true
	return nil
}

func Close() {
	logMu.Lock()
	defer logMu.Unlock()
	if diagFile != nil {
		diagFile.Close()
		diagFile = nil
	}
	logReady = false
}

// Writers run on the audio-callback and session goroutines while Close
// runs on the shutdown path; every emit holds logMu so the readiness
// check and the file write cannot race a concurrent Close.

func Info(msg string) {
	logMu.Lock()
	defer logMu.Unlock()
	if logReady {
		diagLog.Info().Msg(msg)
	}
}

func Error(msg string) {
	logMu.Lock()
	defer logMu.Unlock()
	if logReady {
		diagLog.Error().Msg(msg)
	}
}

func Errorf(format string, args ...any) {
	logMu.Lock()
	defer logMu.Unlock()
	if logReady {
		diagLog.Error().Msg(fmt.Sprintf(format, args...))
	}
}

func Warn(msg string) {
	logMu.Lock()
	defer logMu.Unlock()
	if logReady {
		diagLog.Warn().Msg(msg)
	}
}

func Warnf(format string, args ...any) {
	logMu.Lock()
	defer logMu.Unlock()
	if logReady {
		diagLog.Warn().Msg(fmt.Sprintf(format, args...))
	}
}

// StateTransition records one controller transition.
func StateTransition(from, to string) {
	logMu.Lock()
	defer logMu.Unlock()
	if !logReady {
		return
	}
	diagLog.Info().
		Str("from", from).
		Str("to", to).
		Msg("state_transition")
}

// InvalidTransition records a rejected operation; the state is unchanged.
func InvalidTransition(op, state string) {
	logMu.Lock()
	defer logMu.Unlock()
	if !logReady {
		return
	}
	diagLog.Warn().
		Str("op", op).
		Str("state", state).
		Msg("invalid_transition")
}

// TurnMetrics summarizes one completed voice turn.
type TurnMetrics struct {
	DurationS   float64
	MeanLevel   float64
	PeakLevel   float64
	SpeechRatio float64
	AutoEnded   bool
}

func Turn(m TurnMetrics) {
	logMu.Lock()
	defer logMu.Unlock()
	if !logReady {
		return
	}
	diagLog.Info().
		Float64("duration_s", m.DurationS).
		Float64("mean_level", m.MeanLevel).
		Float64("peak_level", m.PeakLevel).
		Float64("speech_ratio", m.SpeechRatio).
		Bool("auto_ended", m.AutoEnded).
		Msg("turn")
}

func SessionStart(source string, bars int, seed int64) {
	logMu.Lock()
	defer logMu.Unlock()
	if !logReady {
		return
	}
	diagLog.Info().
		Str("source", source).
		Int("bars", bars).
		Int64("seed", seed).
		Msg("session_start")
}

func SessionEnd(turns int) {
	logMu.Lock()
	defer logMu.Unlock()
	if !logReady {
		return
	}
	diagLog.Info().
		Int("turns", turns).
		Msg("session_end")
}
