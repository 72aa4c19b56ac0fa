// Package config loads optional TOML settings merged under the
// command-line flags. A missing file yields defaults; a malformed file
// is an error.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/BurntSushi/toml"
)

type Config struct {
	// Presentation
	BarCount   int   `toml:"bar_count"`
	JitterSeed int64 `toml:"jitter_seed"`

	// Session
	PeakDecayPerSecond float64  `toml:"peak_decay_per_second"`
	LongPress          duration `toml:"long_press"`

	// Turn endpointing
	WarnAfter  duration `toml:"warn_after"`
	EndHold    duration `toml:"end_hold"`
	SpeechMin  float64  `toml:"speech_min_ratio"`
	CuesOn     bool     `toml:"cues"`
	SynthSeed  int64    `toml:"synth_seed"`
	ProcessDur duration `toml:"processing_duration"`
}

// duration wraps time.Duration for TOML text values like "350ms".
type duration struct {
	time.Duration
}

func (d *duration) UnmarshalText(text []byte) error {
	v, err := time.ParseDuration(string(text))
	if err != nil {
		return err
	}
	d.Duration = v
	return nil
}

func Default() Config {
	return Config{
		BarCount:           20,
		JitterSeed:         1,
		PeakDecayPerSecond: 0.8,
		LongPress:          duration{350 * time.Millisecond},
		WarnAfter:          duration{8 * time.Second},
		EndHold:            duration{2 * time.Second},
		SpeechMin:          0.10,
		CuesOn:             true,
		SynthSeed:          1,
		ProcessDur:         duration{400 * time.Millisecond},
	}
}

// DefaultPath is the conventional config location, or "" if the home
// directory cannot be resolved.
func DefaultPath() string {
	xdg := os.Getenv("XDG_CONFIG_HOME")
	if xdg == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return ""
		}
		xdg = filepath.Join(home, ".config")
	}
	return filepath.Join(xdg, "aura", "config.toml")
}

// Load reads path over the defaults. An absent file is not an error.
func Load(path string) (Config, error) {
	cfg := Default()
	if path == "" {
		return cfg, nil
	}
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return cfg, nil
	}
	if _, err := toml.DecodeFile(path, &cfg); err != nil {
		return cfg, fmt.Errorf("parsing %s: %w", path, err)
	}
	if err := cfg.validate(); err != nil {
		return cfg, fmt.Errorf("%s: %w", path, err)
	}
	return cfg, nil
}

func (c Config) validate() error {
	if c.BarCount <= 0 {
		return fmt.Errorf("bar_count must be positive, got %d", c.BarCount)
	}
	if c.PeakDecayPerSecond <= 0 {
		return fmt.Errorf("peak_decay_per_second must be positive, got %g", c.PeakDecayPerSecond)
	}
	if c.SpeechMin < 0 || c.SpeechMin > 1 {
		return fmt.Errorf("speech_min_ratio must be in [0,1], got %g", c.SpeechMin)
	}
	return nil
}
