package pace

import (
	"testing"
	"time"
)

func TestClassify_Bands(t *testing.T) {
	tr := NewTracker(DefaultConfig())

	tests := []struct {
		d        time.Duration
		expected Band
	}{
		{500 * time.Millisecond, BandHardFast},
		{999 * time.Millisecond, BandHardFast},
		{1000 * time.Millisecond, BandSoftFast},
		{1499 * time.Millisecond, BandSoftFast},
		{1500 * time.Millisecond, BandIdeal},
		{3999 * time.Millisecond, BandIdeal},
		{4000 * time.Millisecond, BandSoftSlow},
		{5999 * time.Millisecond, BandSoftSlow},
		{6000 * time.Millisecond, BandSoftSlow},
		{6001 * time.Millisecond, BandHardSlow},
		{20 * time.Second, BandHardSlow},
	}

	for _, tt := range tests {
		if got := tr.Classify(tt.d); got != tt.expected {
			t.Errorf("Classify(%v) = %s, want %s", tt.d, got, tt.expected)
		}
	}
}

func TestRecord_ThreeFastRepsWarnOnce(t *testing.T) {
	tr := NewTracker(DefaultConfig())

	warns := 0
	for i := 0; i < 3; i++ {
		if v := tr.Record(800 * time.Millisecond); v.Escalation == EscalationWarn {
			warns++
		}
	}
	if warns != 1 {
		t.Errorf("three hard-fast reps produced %d warnings, want exactly 1", warns)
	}

	// An in-band rep resets both counters to zero.
	v := tr.Record(2 * time.Second)
	if v.ConsecutiveFast != 0 || v.ConsecutiveSlow != 0 {
		t.Errorf("ideal rep left counters at fast=%d slow=%d, want 0/0",
			v.ConsecutiveFast, v.ConsecutiveSlow)
	}
}

func TestRecord_SoftAndHardShareCounters(t *testing.T) {
	tr := NewTracker(DefaultConfig())

	// Two soft-fast reps then one hard-fast: same counter, so the third
	// rep triggers the warning.
	tr.Record(1200 * time.Millisecond)
	tr.Record(1300 * time.Millisecond)
	v := tr.Record(700 * time.Millisecond)

	if v.Escalation != EscalationWarn {
		t.Errorf("mixed soft/hard fast streak of 3 should warn, got %q", v.Escalation)
	}
}

func TestRecord_RestartAtFive(t *testing.T) {
	tr := NewTracker(DefaultConfig())

	var last Verdict
	for i := 0; i < 5; i++ {
		last = tr.Record(7 * time.Second)
	}
	if last.Escalation != EscalationRestart {
		t.Errorf("five consecutive slow reps should advise a restart, got %q", last.Escalation)
	}
	if last.ConsecutiveSlow != 5 {
		t.Errorf("slow counter = %d, want 5", last.ConsecutiveSlow)
	}
}

func TestRecord_DirectionChangeResetsOpposite(t *testing.T) {
	tr := NewTracker(DefaultConfig())

	tr.Record(800 * time.Millisecond)
	tr.Record(800 * time.Millisecond)
	v := tr.Record(7 * time.Second)

	if v.ConsecutiveFast != 0 {
		t.Errorf("slow rep should reset the fast counter, got %d", v.ConsecutiveFast)
	}
	if v.ConsecutiveSlow != 1 {
		t.Errorf("slow counter = %d, want 1", v.ConsecutiveSlow)
	}
}

func TestReset(t *testing.T) {
	tr := NewTracker(DefaultConfig())
	tr.Record(800 * time.Millisecond)
	tr.Record(7 * time.Second)
	tr.Reset()

	fast, slow := tr.Counters()
	if fast != 0 || slow != 0 {
		t.Errorf("Reset left counters at fast=%d slow=%d", fast, slow)
	}
}

func TestVerdict_Coaching(t *testing.T) {
	tr := NewTracker(DefaultConfig())

	var v Verdict
	for i := 0; i < 3; i++ {
		v = tr.Record(600 * time.Millisecond)
	}
	if v.Coaching() == "" {
		t.Error("warning escalation should carry a spoken cue")
	}

	if (Verdict{Band: BandIdeal}).Coaching() != "" {
		t.Error("no escalation should mean no cue")
	}
}
