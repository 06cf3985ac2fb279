package form

import (
	"math"

	"github.com/formcoach/go-formcoach/pkg/pose"
)

// repStats precomputes the geometric facts the rule checks read: the
// representative start and peak frames plus angle vectors for each.
type repStats struct {
	rep   []*pose.Snapshot
	start *pose.Snapshot
	peak  *pose.Snapshot

	startVec   pose.AngleVector
	startVecOK bool
	peakVec    pose.AngleVector
	peakVecOK  bool
}

// newRepStats picks the peak as the frame with the highest averaged wrist
// position (lowest image Y) and the start as the first frame.
func newRepStats(rep []*pose.Snapshot) *repStats {
	st := &repStats{rep: rep, start: rep[0], peak: rep[0]}

	best := math.Inf(1)
	for _, s := range rep {
		if h, ok := avgWristY(s); ok && h < best {
			best = h
			st.peak = s
		}
	}

	st.startVec, st.startVecOK = pose.ExtractAngles(st.start)
	st.peakVec, st.peakVecOK = pose.ExtractAngles(st.peak)
	return st
}

// visible reports whether the peak frame satisfies the common evaluation
// precondition: a full skeleton with confident shoulders and elbows.
func (st *repStats) visible() bool {
	if st.peak.JointCount() < pose.SkeletonSize {
		return false
	}
	return st.peak.VisibleAll(pose.MinJointConfidence,
		pose.LeftShoulder, pose.RightShoulder, pose.LeftElbow, pose.RightElbow)
}

// wristsAboveShoulders reports whether both wrists sit above their
// shoulders in the peak frame.
func (st *repStats) wristsAboveShoulders() bool {
	lw, ok1 := st.peak.Keypoint(pose.LeftWrist)
	rw, ok2 := st.peak.Keypoint(pose.RightWrist)
	ls, ok3 := st.peak.Keypoint(pose.LeftShoulder)
	rs, ok4 := st.peak.Keypoint(pose.RightShoulder)
	if !ok1 || !ok2 || !ok3 || !ok4 {
		return false
	}
	return lw.Y < ls.Y && rw.Y < rs.Y
}

// elbowsNearTorso reports whether both elbows stay within a fraction of the
// shoulder width of their shoulder's vertical line in the peak frame.
func (st *repStats) elbowsNearTorso(maxDriftRatio float64) bool {
	le, ok1 := st.peak.Keypoint(pose.LeftElbow)
	re, ok2 := st.peak.Keypoint(pose.RightElbow)
	ls, ok3 := st.peak.Keypoint(pose.LeftShoulder)
	rs, ok4 := st.peak.Keypoint(pose.RightShoulder)
	if !ok1 || !ok2 || !ok3 || !ok4 {
		return false
	}

	width := math.Abs(ls.X - rs.X)
	if width == 0 {
		return false
	}
	maxDrift := width * maxDriftRatio
	return math.Abs(le.X-ls.X) <= maxDrift && math.Abs(re.X-rs.X) <= maxDrift
}

// minElbowAngle returns the smaller of the two elbow angles in the peak
// vector.
func (st *repStats) minElbowAngle() float64 {
	return math.Min(st.peakVec[pose.LeftElbowAngle], st.peakVec[pose.RightElbowAngle])
}

// elbowSymmetryDelta is the left/right elbow angle gap at the peak.
func (st *repStats) elbowSymmetryDelta() float64 {
	return math.Abs(st.peakVec[pose.LeftElbowAngle] - st.peakVec[pose.RightElbowAngle])
}

// minHipAngle is the most bent torso angle observed anywhere in the rep,
// catching lean-back or swing at any point in the cycle.
func (st *repStats) minHipAngle() float64 {
	minAngle := 180.0
	for _, s := range st.rep {
		v, ok := pose.ExtractAngles(s)
		if !ok {
			continue
		}
		minAngle = math.Min(minAngle, math.Min(v[pose.LeftHipAngle], v[pose.RightHipAngle]))
	}
	return minAngle
}

// shoulderRise is how far the shoulders travelled upward from the start
// frame to the peak frame, in pixels. Large values indicate shrugging.
func (st *repStats) shoulderRise() float64 {
	s0, ok1 := avgShoulderY(st.start)
	s1, ok2 := avgShoulderY(st.peak)
	if !ok1 || !ok2 {
		return 0
	}
	return s0 - s1
}

// peakElevation is the mean wrist-above-shoulder offset at the peak.
func (st *repStats) peakElevation() float64 {
	return (st.peakVec[pose.LeftArmElevation] + st.peakVec[pose.RightArmElevation]) / 2
}

func avgWristY(s *pose.Snapshot) (float64, bool) {
	l, ok1 := s.Keypoint(pose.LeftWrist)
	r, ok2 := s.Keypoint(pose.RightWrist)
	if !ok1 || !ok2 {
		return 0, false
	}
	return (l.Y + r.Y) / 2, true
}

func avgShoulderY(s *pose.Snapshot) (float64, bool) {
	l, ok1 := s.Keypoint(pose.LeftShoulder)
	r, ok2 := s.Keypoint(pose.RightShoulder)
	if !ok1 || !ok2 {
		return 0, false
	}
	return (l.Y + r.Y) / 2, true
}
