package pose

import "math"

// AngleVector is the fixed 8-dimension geometric feature derived from one
// snapshot. Angle components are degrees in [0,180]; elevation components
// are pixels (positive = wrist above shoulder), capped at ±MaxElevationPx.
// A vector is always complete or absent, never partial.
type AngleVector [8]float64

// Component indices into an AngleVector.
const (
	LeftShoulderAngle = iota
	RightShoulderAngle
	LeftElbowAngle
	RightElbowAngle
	LeftHipAngle
	RightHipAngle
	LeftArmElevation
	RightArmElevation
)

// MaxElevationPx caps the wrist-to-shoulder vertical offset before it is
// normalized for similarity matching.
const MaxElevationPx = 250.0

// requiredJoints must all clear the confidence threshold before a vector
// can be extracted.
var requiredJoints = []Joint{
	LeftShoulder, RightShoulder,
	LeftElbow, RightElbow,
	LeftWrist, RightWrist,
}

// ExtractAngles derives the angle vector for one snapshot.
// Returns false when any required upper-body joint is missing or below
// MinJointConfidence. Hip angles default to 180° (upright) when hip or knee
// keypoints are absent rather than failing the whole extraction.
func ExtractAngles(s *Snapshot) (AngleVector, bool) {
	var v AngleVector

	if !s.VisibleAll(MinJointConfidence, requiredJoints...) {
		return v, false
	}

	ls, _ := s.Keypoint(LeftShoulder)
	rs, _ := s.Keypoint(RightShoulder)
	le, _ := s.Keypoint(LeftElbow)
	re, _ := s.Keypoint(RightElbow)
	lw, _ := s.Keypoint(LeftWrist)
	rw, _ := s.Keypoint(RightWrist)

	// Shoulder angle: interior angle elbow-shoulder-hip, or elbow-shoulder-
	// opposite-shoulder when the hip is not visible.
	v[LeftShoulderAngle] = shoulderAngle(s, le, ls, LeftHip, rs)
	v[RightShoulderAngle] = shoulderAngle(s, re, rs, RightHip, ls)

	v[LeftElbowAngle] = interiorAngle(ls, le, lw)
	v[RightElbowAngle] = interiorAngle(rs, re, rw)

	v[LeftHipAngle] = hipAngle(s, ls, LeftHip, LeftKnee)
	v[RightHipAngle] = hipAngle(s, rs, RightHip, RightKnee)

	// Image Y grows downward, so shoulder minus wrist is positive when the
	// wrist is raised.
	v[LeftArmElevation] = clamp(ls.Y-lw.Y, -MaxElevationPx, MaxElevationPx)
	v[RightArmElevation] = clamp(rs.Y-rw.Y, -MaxElevationPx, MaxElevationPx)

	return v, true
}

// shoulderAngle measures the interior angle at the shoulder between the
// elbow and the same-side hip, falling back to the opposite shoulder as the
// third point when the hip is below confidence.
func shoulderAngle(s *Snapshot, elbow, shoulder Keypoint, hip Joint, opposite Keypoint) float64 {
	if h, ok := s.Keypoint(hip); ok && h.Confidence >= MinJointConfidence {
		return interiorAngle(elbow, shoulder, h)
	}
	return interiorAngle(elbow, shoulder, opposite)
}

// hipAngle measures shoulder-hip-knee. Missing hip or knee keypoints yield
// 180°, treating the torso as upright.
func hipAngle(s *Snapshot, shoulder Keypoint, hip, knee Joint) float64 {
	h, ok := s.Keypoint(hip)
	if !ok || h.Confidence < MinJointConfidence {
		return 180
	}
	k, ok := s.Keypoint(knee)
	if !ok || k.Confidence < MinJointConfidence {
		return 180
	}
	return interiorAngle(shoulder, h, k)
}

// interiorAngle returns the angle at b formed by the rays b→a and b→c,
// normalized into [0,180] by reflection.
func interiorAngle(a, b, c Keypoint) float64 {
	angAB := math.Atan2(a.Y-b.Y, a.X-b.X)
	angCB := math.Atan2(c.Y-b.Y, c.X-b.X)

	deg := math.Abs(angAB-angCB) * 180 / math.Pi
	if deg > 180 {
		deg = 360 - deg
	}
	return deg
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
