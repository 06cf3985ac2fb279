package form

import (
	"github.com/formcoach/go-formcoach/pkg/pose"
	"github.com/formcoach/go-formcoach/pkg/reference"
)

// Lateral raise thresholds.
const (
	raiseGateShoulderAngle = 55.0  // min shoulder abduction at the peak, degrees
	raiseStraightArmAngle  = 150.0 // min elbow angle throughout, degrees
	raiseMaxElevationPx    = 60.0  // wrist height above shoulder before "too high"
	raiseSymmetryDelta     = 20.0  // max left/right elbow angle gap, degrees
	raiseMaxShoulderPx     = 25.0  // shoulder rise before it reads as a shrug
)

// lateralRaise scores a strict raise: straight arms out to the sides,
// stopping at shoulder height, no shrug.
type lateralRaise struct{}

func (lateralRaise) exercise() reference.Exercise {
	return reference.LateralRaise
}

func (lateralRaise) gate(st *repStats) (bool, string) {
	abduction := minPair(
		st.peakVec[pose.LeftShoulderAngle],
		st.peakVec[pose.RightShoulderAngle],
	)
	return abduction >= raiseGateShoulderAngle,
		"Raise your arms out to your sides up to shoulder height."
}

func (lateralRaise) checks() []check {
	return []check{
		{
			name:       "straight arms",
			correction: "Keep a soft, nearly straight elbow as you raise.",
			failed: func(st *repStats) bool {
				return st.minElbowAngle() < raiseStraightArmAngle
			},
		},
		{
			name:       "too high",
			correction: "Stop at shoulder height, no need to go higher.",
			failed: func(st *repStats) bool {
				return st.peakElevation() > raiseMaxElevationPx
			},
		},
		{
			name:       "symmetry",
			correction: "Raise both arms together.",
			failed: func(st *repStats) bool {
				return st.elbowSymmetryDelta() > raiseSymmetryDelta
			},
		},
		{
			name:       "shrug",
			correction: "Lead with your elbows, not your shoulders.",
			failed: func(st *repStats) bool {
				return st.shoulderRise() > raiseMaxShoulderPx
			},
		},
	}
}
