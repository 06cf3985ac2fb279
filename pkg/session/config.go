package session

import (
	"time"

	"github.com/formcoach/go-formcoach/pkg/audioqueue"
	"github.com/formcoach/go-formcoach/pkg/pace"
	"github.com/formcoach/go-formcoach/pkg/reference"
	"github.com/formcoach/go-formcoach/pkg/repdetect"
)

// Config tunes one coaching session. Zero values are filled in by
// DefaultConfig; every knob is independently overridable.
type Config struct {
	// Exercise the session starts with.
	Exercise reference.Exercise

	// SmoothingWindow is the per-joint moving-average span applied to
	// incoming frames before detection. 1 disables smoothing.
	SmoothingWindow int

	// FeedbackCooldown suppresses rep-completion signals for this long
	// after a rep fires, so one physical rep never produces two verdicts.
	FeedbackCooldown time.Duration

	// DedupWindow is how long identical spoken feedback is suppressed.
	DedupWindow time.Duration

	Detector repdetect.Config
	Pace     pace.Config
}

// DefaultConfig returns the tuning used in live coaching.
func DefaultConfig() Config {
	return Config{
		Exercise:         reference.OverheadPress,
		SmoothingWindow:  3,
		FeedbackCooldown: 1500 * time.Millisecond,
		DedupWindow:      audioqueue.DefaultDedupWindow,
		Detector:         repdetect.DefaultConfig(),
		Pace:             pace.DefaultConfig(),
	}
}
