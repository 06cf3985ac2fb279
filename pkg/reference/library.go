// Package reference holds the canonical joint-angle signatures for each
// supported exercise and matches live angle vectors against them.
package reference

import "github.com/formcoach/go-formcoach/pkg/pose"

// Exercise identifies a supported exercise.
type Exercise string

const (
	OverheadPress Exercise = "overhead_press"
	BicepCurl     Exercise = "bicep_curl"
	LateralRaise  Exercise = "lateral_raise"
)

// Exercises lists supported exercises in declaration order. Matcher ties
// resolve in this order.
var Exercises = []Exercise{OverheadPress, BicepCurl, LateralRaise}

// Phase names a point in an exercise's movement cycle.
type Phase string

const (
	PhaseStart Phase = "start"
	PhasePeak  Phase = "peak"
)

// Pose is a canonical angle vector for one {exercise, phase} pair.
type Pose struct {
	Exercise Exercise
	Phase    Phase
	Vector   pose.AngleVector
}

// Library is the static catalog of reference poses, loaded once.
type Library struct {
	poses []Pose
}

// NewLibrary returns the built-in catalog.
func NewLibrary() *Library {
	return &Library{poses: builtinPoses}
}

// Poses returns every reference pose for the exercise, in catalog order.
func (l *Library) Poses(ex Exercise) []Pose {
	var out []Pose
	for _, p := range l.poses {
		if p.Exercise == ex {
			out = append(out, p)
		}
	}
	return out
}

// All returns the full catalog.
func (l *Library) All() []Pose {
	return l.poses
}

// Canonical vectors: {L/R shoulder, L/R elbow, L/R hip, L/R elevation}.
// Angles in degrees, elevation in pixels (positive = wrist above shoulder).
var builtinPoses = []Pose{
	// Overhead press: bar at the shoulders, elbows bent, then arms locked
	// out overhead.
	{OverheadPress, PhaseStart, pose.AngleVector{20, 20, 70, 70, 175, 175, -20, -20}},
	{OverheadPress, PhasePeak, pose.AngleVector{170, 170, 172, 172, 178, 178, 220, 220}},

	// Bicep curl: upper arm pinned, forearm swings from hanging to fully
	// flexed. Wrists stay below the shoulders throughout.
	{BicepCurl, PhaseStart, pose.AngleVector{12, 12, 165, 165, 178, 178, -200, -200}},
	{BicepCurl, PhasePeak, pose.AngleVector{15, 15, 45, 45, 178, 178, -60, -60}},

	// Lateral raise: straight arms swing out to shoulder height.
	{LateralRaise, PhaseStart, pose.AngleVector{15, 15, 170, 170, 178, 178, -210, -210}},
	{LateralRaise, PhasePeak, pose.AngleVector{90, 90, 168, 168, 178, 178, 0, 0}},
}
