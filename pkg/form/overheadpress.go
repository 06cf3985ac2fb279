package form

import "github.com/formcoach/go-formcoach/pkg/reference"

// Overhead press thresholds.
const (
	pressLockoutAngle  = 160.0 // min elbow angle at the top, degrees
	pressSymmetryDelta = 20.0  // max left/right elbow angle gap, degrees
	pressMinTorsoAngle = 150.0 // lean-back limit, degrees
	pressMaxShoulderPx = 30.0  // shoulder rise before it reads as a shrug
)

// overheadPress scores a strict press: bar from the shoulders to lockout
// overhead with an upright torso.
type overheadPress struct{}

func (overheadPress) exercise() reference.Exercise {
	return reference.OverheadPress
}

func (overheadPress) gate(st *repStats) (bool, string) {
	return st.wristsAboveShoulders(),
		"Press the weight overhead until your hands pass your shoulders."
}

func (overheadPress) checks() []check {
	return []check{
		{
			name:       "lockout",
			correction: "Fully extend your elbows at the top of the press.",
			failed: func(st *repStats) bool {
				return st.minElbowAngle() < pressLockoutAngle
			},
		},
		{
			name:       "symmetry",
			correction: "Press evenly, one arm is lagging behind the other.",
			failed: func(st *repStats) bool {
				return st.elbowSymmetryDelta() > pressSymmetryDelta
			},
		},
		{
			name:       "torso lean",
			correction: "Keep your torso upright, don't lean back to finish the press.",
			failed: func(st *repStats) bool {
				return st.minHipAngle() < pressMinTorsoAngle
			},
		},
		{
			name:       "shrug",
			correction: "Keep your shoulders down away from your ears.",
			failed: func(st *repStats) bool {
				return st.shoulderRise() > pressMaxShoulderPx
			},
		},
	}
}
