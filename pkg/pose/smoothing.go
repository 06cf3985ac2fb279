package pose

// Smoother averages joint positions over a fixed-size per-joint ring buffer
// to damp frame-to-frame jitter from the pose model. Window 0 or 1 passes
// frames through unchanged.
type Smoother struct {
	window  int
	history map[Joint][]Keypoint
	next    map[Joint]int
	filled  map[Joint]int
}

// NewSmoother creates a smoother averaging over the given window of frames.
func NewSmoother(window int) *Smoother {
	return &Smoother{
		window:  window,
		history: make(map[Joint][]Keypoint),
		next:    make(map[Joint]int),
		filled:  make(map[Joint]int),
	}
}

// Smooth records the snapshot's keypoints and returns a copy with each
// joint's position replaced by its ring-buffer average. Confidence is the
// average of the buffered confidences so a joint that flickers in and out
// degrades smoothly instead of oscillating.
func (sm *Smoother) Smooth(s *Snapshot) *Snapshot {
	if sm.window <= 1 {
		return s
	}

	out := &Snapshot{
		Timestamp:  s.Timestamp,
		Confidence: s.Confidence,
		Keypoints:  make([]Keypoint, 0, len(s.Keypoints)),
	}

	for _, kp := range s.Keypoints {
		buf, ok := sm.history[kp.Joint]
		if !ok {
			buf = make([]Keypoint, sm.window)
			sm.history[kp.Joint] = buf
		}

		buf[sm.next[kp.Joint]] = kp
		sm.next[kp.Joint] = (sm.next[kp.Joint] + 1) % sm.window
		if sm.filled[kp.Joint] < sm.window {
			sm.filled[kp.Joint]++
		}

		n := sm.filled[kp.Joint]
		var sx, sy, sc float64
		for i := 0; i < n; i++ {
			sx += buf[i].X
			sy += buf[i].Y
			sc += buf[i].Confidence
		}

		out.Keypoints = append(out.Keypoints, Keypoint{
			Joint:      kp.Joint,
			X:          sx / float64(n),
			Y:          sy / float64(n),
			Confidence: sc / float64(n),
		})
	}

	return out
}

// Reset clears all buffered joint history.
func (sm *Smoother) Reset() {
	sm.history = make(map[Joint][]Keypoint)
	sm.next = make(map[Joint]int)
	sm.filled = make(map[Joint]int)
}
