// Package config loads formcoach configuration from file and environment.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/viper"

	"github.com/formcoach/go-formcoach/pkg/pace"
	"github.com/formcoach/go-formcoach/pkg/reference"
	"github.com/formcoach/go-formcoach/pkg/repdetect"
	"github.com/formcoach/go-formcoach/pkg/session"
)

// Config holds application configuration.
type Config struct {
	Log      LogConfig
	Server   ServerConfig
	Source   SourceConfig
	Speech   SpeechConfig
	Session  SessionConfig
	Detector DetectorConfig
	Pace     PaceConfig
}

// LogConfig holds logging settings.
type LogConfig struct {
	Level string
}

// ServerConfig holds the HTTP listener settings.
type ServerConfig struct {
	Addr string
}

// SourceConfig selects and tunes the pose source.
type SourceConfig struct {
	// Kind is "websocket" or "file".
	Kind string
	URL  string

	// Path and ReplayIntervalMs apply to the file source.
	Path             string
	ReplayIntervalMs int `mapstructure:"replay_interval_ms"`
}

// SpeechConfig holds speech synthesis settings.
type SpeechConfig struct {
	Enabled  bool
	Endpoint string
	Voice    string
}
// SessionConfig holds per-session coaching settings.
type SessionConfig struct {
	Exercise           string
	SmoothingWindow    int `mapstructure:"smoothing_window"`
	FeedbackCooldownMs int `mapstructure:"feedback_cooldown_ms"`
	DedupWindowMs      int `mapstructure:"dedup_window_ms"`
}

// DetectorConfig holds rep-detection thresholds.
type DetectorConfig struct {
	Capacity            int
	MinFrames           int     `mapstructure:"min_frames"`
	ExcursionPx         float64 `mapstructure:"excursion_px"`
	PeakWindow          float64 `mapstructure:"peak_window"`
	BaselineFrames      int     `mapstructure:"baseline_frames"`
	BaselineTolerancePx float64 `mapstructure:"baseline_tolerance_px"`
}

// PaceConfig holds pace band boundaries and escalation thresholds.
type PaceConfig struct {
	HardFastBelowMs int `mapstructure:"hard_fast_below_ms"`
	SoftFastBelowMs int `mapstructure:"soft_fast_below_ms"`
	IdealBelowMs    int `mapstructure:"ideal_below_ms"`
	SoftSlowBelowMs int `mapstructure:"soft_slow_below_ms"`
	WarnAfter       int `mapstructure:"warn_after"`
	RestartAfter    int `mapstructure:"restart_after"`
}

// Load reads configuration from file and env. Env var overrides use
// prefix FORMCOACH_, e.g. FORMCOACH_SERVER_ADDR.
func Load() (Config, error) {
	v := viper.New()

	det := repdetect.DefaultConfig()
	pc := pace.DefaultConfig()
	sess := session.DefaultConfig()

	v.SetDefault("log.level", "info")
	v.SetDefault("server.addr", ":8080")
	v.SetDefault("source.kind", "websocket")
	v.SetDefault("source.url", "ws://localhost:9090/poses")
	v.SetDefault("source.path", "")
	v.SetDefault("source.replay_interval_ms", 33)
	v.SetDefault("speech.enabled", true)
	v.SetDefault("speech.endpoint", "http://localhost:5002/api/tts")
	v.SetDefault("speech.voice", "en-US-coach")
	v.SetDefault("session.exercise", string(sess.Exercise))
	v.SetDefault("session.smoothing_window", sess.SmoothingWindow)
	v.SetDefault("session.feedback_cooldown_ms", int(sess.FeedbackCooldown/time.Millisecond))
	v.SetDefault("session.dedup_window_ms", int(sess.DedupWindow/time.Millisecond))
	v.SetDefault("detector.capacity", det.Capacity)
	v.SetDefault("detector.min_frames", det.MinFrames)
	v.SetDefault("detector.excursion_px", det.ExcursionPx)
	v.SetDefault("detector.peak_window", det.PeakWindow)
	v.SetDefault("detector.baseline_frames", det.BaselineFrames)
	v.SetDefault("detector.baseline_tolerance_px", det.BaselineTolerance)
	v.SetDefault("pace.hard_fast_below_ms", int(pc.HardFastBelow/time.Millisecond))
	v.SetDefault("pace.soft_fast_below_ms", int(pc.SoftFastBelow/time.Millisecond))
	v.SetDefault("pace.ideal_below_ms", int(pc.IdealBelow/time.Millisecond))
	v.SetDefault("pace.soft_slow_below_ms", int(pc.SoftSlowBelow/time.Millisecond))
	v.SetDefault("pace.warn_after", pc.WarnAfter)
	v.SetDefault("pace.restart_after", pc.RestartAfter)

	v.SetConfigType("toml")

	cfgPath := os.Getenv("FORMCOACH_CONFIG")
	if cfgPath != "" {
		v.SetConfigFile(cfgPath)
	} else {
		v.AddConfigPath(filepath.Join(os.Getenv("HOME"), ".config", "formcoach"))
		v.SetConfigName("config")
	}

	v.SetEnvPrefix("FORMCOACH")
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	// config file is optional
	_ = v.ReadInConfig()

	var c Config
	if err := v.Unmarshal(&c); err != nil {
		return Config{}, fmt.Errorf("unmarshal config: %w", err)
	}
	return c, nil
}

// SessionConfig assembles the per-session tuning from the loaded values.
func (c Config) SessionConfig() session.Config {
	return session.Config{
		Exercise:         reference.Exercise(c.Session.Exercise),
		SmoothingWindow:  c.Session.SmoothingWindow,
		FeedbackCooldown: time.Duration(c.Session.FeedbackCooldownMs) * time.Millisecond,
		DedupWindow:      time.Duration(c.Session.DedupWindowMs) * time.Millisecond,
		Detector: repdetect.Config{
			Capacity:          c.Detector.Capacity,
			MinFrames:         c.Detector.MinFrames,
			ExcursionPx:       c.Detector.ExcursionPx,
			PeakWindow:        c.Detector.PeakWindow,
			BaselineFrames:    c.Detector.BaselineFrames,
			BaselineTolerance: c.Detector.BaselineTolerancePx,
		},
		Pace: pace.Config{
			HardFastBelow: time.Duration(c.Pace.HardFastBelowMs) * time.Millisecond,
			SoftFastBelow: time.Duration(c.Pace.SoftFastBelowMs) * time.Millisecond,
			IdealBelow:    time.Duration(c.Pace.IdealBelowMs) * time.Millisecond,
			SoftSlowBelow: time.Duration(c.Pace.SoftSlowBelowMs) * time.Millisecond,
			WarnAfter:     c.Pace.WarnAfter,
			RestartAfter:  c.Pace.RestartAfter,
		},
	}
}

// ReplayInterval returns the file-source frame interval.
func (c Config) ReplayInterval() time.Duration {
	return time.Duration(c.Source.ReplayIntervalMs) * time.Millisecond
}
