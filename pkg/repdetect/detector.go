// Package repdetect watches the live pose stream for completed repetitions
// using windowed analysis of wrist height.
package repdetect

import (
	"github.com/formcoach/go-formcoach/pkg/pose"
)

// Detector keeps a fixed-capacity FIFO of pose snapshots and re-evaluates a
// completion predicate on every pushed frame.
//
// The predicate is stateless: there is no idle/active state machine, so a
// window that satisfies it on one frame can satisfy it again on the next.
// Callers own the cooldown that keeps one physical repetition from being
// counted twice, and callers own clearing the window; the detector never
// clears its own buffer.
type Detector struct {
	cfg    Config
	window []*pose.Snapshot
}

// New creates a detector with the given configuration.
func New(cfg Config) *Detector {
	return &Detector{
		cfg:    cfg,
		window: make([]*pose.Snapshot, 0, cfg.Capacity),
	}
}

// Push appends a frame, evicting the oldest beyond capacity, and reports
// whether the current window now looks like one completed repetition.
// On completion the returned slice is the full current window, oldest first.
func (d *Detector) Push(s *pose.Snapshot) ([]*pose.Snapshot, bool) {
	d.window = append(d.window, s)
	if len(d.window) > d.cfg.Capacity {
		d.window = d.window[1:]
	}

	if !d.complete() {
		return nil, false
	}

	out := make([]*pose.Snapshot, len(d.window))
	copy(out, d.window)
	return out, true
}

// Len returns the number of buffered frames.
func (d *Detector) Len() int {
	return len(d.window)
}

// Clear drops the buffered window. Called by the session on rep handoff or
// when detection is disabled, never by the detector itself.
func (d *Detector) Clear() {
	d.window = d.window[:0]
}

// complete evaluates the four completion conditions, all required:
// enough frames, enough vertical excursion, peak away from the edges,
// and return to the starting baseline.
func (d *Detector) complete() bool {
	n := len(d.window)
	if n < d.cfg.MinFrames {
		return false
	}

	heights := make([]float64, 0, n)
	for _, s := range d.window {
		h, ok := wristHeight(s)
		if !ok {
			// A frame with no visible wrists breaks the height series;
			// skip it rather than poisoning the window.
			continue
		}
		heights = append(heights, h)
	}
	if len(heights) < d.cfg.MinFrames {
		return false
	}

	minIdx, maxIdx := 0, 0
	for i, h := range heights {
		if h < heights[minIdx] {
			minIdx = i
		}
		if h > heights[maxIdx] {
			maxIdx = i
		}
	}

	if heights[maxIdx]-heights[minIdx] < d.cfg.ExcursionPx {
		return false
	}

	// The extreme of the movement (lowest Y = highest point in the image)
	// must sit inside the middle window, not at either edge.
	margin := int(float64(len(heights)) * (1 - d.cfg.PeakWindow) / 2)
	if minIdx < margin || minIdx >= len(heights)-margin {
		return false
	}

	lead := mean(heights[:d.cfg.BaselineFrames])
	trail := mean(heights[len(heights)-d.cfg.BaselineFrames:])
	return abs(lead-trail) <= d.cfg.BaselineTolerance
}

// wristHeight averages the two wrist Y coordinates, falling back to a
// single visible wrist.
func wristHeight(s *pose.Snapshot) (float64, bool) {
	l, lok := s.Keypoint(pose.LeftWrist)
	r, rok := s.Keypoint(pose.RightWrist)
	lok = lok && l.Confidence >= pose.MinJointConfidence
	rok = rok && r.Confidence >= pose.MinJointConfidence

	switch {
	case lok && rok:
		return (l.Y + r.Y) / 2, true
	case lok:
		return l.Y, true
	case rok:
		return r.Y, true
	default:
		return 0, false
	}
}

func mean(vals []float64) float64 {
	var sum float64
	for _, v := range vals {
		sum += v
	}
	return sum / float64(len(vals))
}

func abs(v float64) float64 {
	if v < 0 {
		return -v
	}
	return v
}
