package form

import (
	"github.com/formcoach/go-formcoach/pkg/pose"
	"github.com/formcoach/go-formcoach/pkg/reference"
)

// Bicep curl thresholds.
const (
	curlElbowDriftRatio = 0.45  // elbow drift from shoulder line, as shoulder-width fraction
	curlFlexionAngle    = 70.0  // max elbow angle at the top of the curl, degrees
	curlExtensionAngle  = 150.0 // min elbow angle at the bottom, degrees
	curlSymmetryDelta   = 25.0  // max left/right elbow angle gap, degrees
	curlMinTorsoAngle   = 155.0 // swing limit, degrees
)

// bicepCurl scores a standing curl: upper arms pinned to the sides, forearm
// travelling from full extension to full flexion without torso swing.
type bicepCurl struct{}

func (bicepCurl) exercise() reference.Exercise {
	return reference.BicepCurl
}

func (bicepCurl) gate(st *repStats) (bool, string) {
	// A curl keeps the elbows pinned near the torso and never carries the
	// wrists above the shoulders.
	ok := st.elbowsNearTorso(curlElbowDriftRatio) && !st.wristsAboveShoulders()
	return ok, "Keep your upper arms pinned to your sides and curl the weight up."
}

func (bicepCurl) checks() []check {
	return []check{
		{
			name:       "flexion",
			correction: "Curl all the way up and squeeze at the top.",
			failed: func(st *repStats) bool {
				return st.minElbowAngle() > curlFlexionAngle
			},
		},
		{
			name:       "extension",
			correction: "Lower the weight all the way down between reps.",
			failed: func(st *repStats) bool {
				if !st.startVecOK {
					return false
				}
				return minPair(
					st.startVec[pose.LeftElbowAngle],
					st.startVec[pose.RightElbowAngle],
				) < curlExtensionAngle
			},
		},
		{
			name:       "symmetry",
			correction: "Curl both arms at the same pace.",
			failed: func(st *repStats) bool {
				return st.elbowSymmetryDelta() > curlSymmetryDelta
			},
		},
		{
			name:       "torso swing",
			correction: "Stop swinging, keep your body still and let the arms do the work.",
			failed: func(st *repStats) bool {
				return st.minHipAngle() < curlMinTorsoAngle
			},
		},
	}
}

func minPair(a, b float64) float64 {
	if a < b {
		return a
	}
	return b
}
