// Package pace classifies inter-repetition timing and escalates coaching
// urgency on sustained too-fast or too-slow execution.
package pace

import "time"

// Band classifies one inter-rep duration.
type Band string

const (
	BandHardFast Band = "hard_fast"
	BandSoftFast Band = "soft_fast"
	BandIdeal    Band = "ideal"
	BandSoftSlow Band = "soft_slow"
	BandHardSlow Band = "hard_slow"
)

// Fast reports whether the band is on the fast side.
func (b Band) Fast() bool { return b == BandHardFast || b == BandSoftFast }

// Slow reports whether the band is on the slow side.
func (b Band) Slow() bool { return b == BandHardSlow || b == BandSoftSlow }

// Verdict is the pace annotation for one repetition.
type Verdict struct {
	Band Band `json:"band"`

	// ConsecutiveFast / ConsecutiveSlow are the counter values after this
	// rep was recorded.
	ConsecutiveFast int `json:"consecutive_fast"`
	ConsecutiveSlow int `json:"consecutive_slow"`

	// Escalation is empty, EscalationWarn, or EscalationRestart.
	Escalation Escalation `json:"escalation,omitempty"`
}

// Escalation is the coaching urgency attached to sustained deviation.
type Escalation string

const (
	EscalationNone    Escalation = ""
	EscalationWarn    Escalation = "warn"
	EscalationRestart Escalation = "restart"
)

// Config holds the pace band boundaries and escalation thresholds.
type Config struct {
	HardFastBelow time.Duration
	SoftFastBelow time.Duration
	IdealBelow    time.Duration
	SoftSlowBelow time.Duration

	WarnAfter    int // consecutive same-direction reps before a warning
	RestartAfter int // consecutive same-direction reps before restart advice
}

// DefaultConfig returns the standard band boundaries.
func DefaultConfig() Config {
	return Config{
		HardFastBelow: 1000 * time.Millisecond,
		SoftFastBelow: 1500 * time.Millisecond,
		IdealBelow:    4000 * time.Millisecond,
		SoftSlowBelow: 6000 * time.Millisecond,
		WarnAfter:     3,
		RestartAfter:  5,
	}
}

// Tracker carries the per-session consecutive deviation counters.
//
// Soft and hard deviations share the same counters: three consecutive
// soft-fast reps escalate exactly like three hard-fast reps.
type Tracker struct {
	cfg Config

	consecutiveFast int
	consecutiveSlow int
}

// NewTracker creates a tracker with the given configuration.
func NewTracker(cfg Config) *Tracker {
	return &Tracker{cfg: cfg}
}

// Classify maps a duration onto its band without mutating counters.
func (t *Tracker) Classify(d time.Duration) Band {
	switch {
	case d < t.cfg.HardFastBelow:
		return BandHardFast
	case d < t.cfg.SoftFastBelow:
		return BandSoftFast
	case d < t.cfg.IdealBelow:
		return BandIdeal
	case d <= t.cfg.SoftSlowBelow:
		return BandSoftSlow
	default:
		return BandHardSlow
	}
}

// Record classifies the wall-clock gap since the previous rep, updates the
// counters, and returns the verdict. A fast rep resets the slow counter and
// vice versa; an in-band rep resets both.
func (t *Tracker) Record(sinceLastRep time.Duration) Verdict {
	band := t.Classify(sinceLastRep)

	switch {
	case band.Fast():
		t.consecutiveFast++
		t.consecutiveSlow = 0
	case band.Slow():
		t.consecutiveSlow++
		t.consecutiveFast = 0
	default:
		t.consecutiveFast = 0
		t.consecutiveSlow = 0
	}

	v := Verdict{
		Band:            band,
		ConsecutiveFast: t.consecutiveFast,
		ConsecutiveSlow: t.consecutiveSlow,
	}

	// Escalations fire exactly once per threshold crossing; the streak has
	// to reset (an in-band rep or a direction change) before they can fire
	// again.
	streak := t.consecutiveFast
	if band.Slow() {
		streak = t.consecutiveSlow
	}
	switch streak {
	case t.cfg.RestartAfter:
		v.Escalation = EscalationRestart
	case t.cfg.WarnAfter:
		v.Escalation = EscalationWarn
	}

	return v
}

// Counters returns the current consecutive fast/slow counts.
func (t *Tracker) Counters() (fast, slow int) {
	return t.consecutiveFast, t.consecutiveSlow
}

// Reset clears both counters, e.g. when detection is disabled or the
// exercise changes.
func (t *Tracker) Reset() {
	t.consecutiveFast = 0
	t.consecutiveSlow = 0
}

// Coaching renders the spoken pace cue for a verdict, empty when no
// escalation fired.
func (v Verdict) Coaching() string {
	switch v.Escalation {
	case EscalationWarn:
		if v.Band.Fast() {
			return "You're rushing your reps. Slow down and control the movement."
		}
		return "Your reps are dragging. Pick the pace back up."
	case EscalationRestart:
		return "Your pacing is way off. Consider restarting this set with guidance."
	default:
		return ""
	}
}
