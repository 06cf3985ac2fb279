package reference

import (
	"math"

	"github.com/formcoach/go-formcoach/pkg/pose"
)

// Matcher scores live angle vectors against the reference catalog using
// cosine similarity over normalized components.
type Matcher struct {
	library *Library
}

// NewMatcher creates a matcher over the given library.
func NewMatcher(library *Library) *Matcher {
	return &Matcher{library: library}
}

// Score returns the match between a live vector and one reference pose as a
// value in [0,1]. Cosine similarity is computed over components normalized
// into comparable ranges, then rescaled from [-1,1]. A zero-magnitude vector
// on either side scores a defined 0 rather than NaN.
func (m *Matcher) Score(v pose.AngleVector, ref Pose) float64 {
	a := normalize(v)
	b := normalize(ref.Vector)

	var dot, magA, magB float64
	for i := range a {
		dot += a[i] * b[i]
		magA += a[i] * a[i]
		magB += b[i] * b[i]
	}

	if magA == 0 || magB == 0 {
		return 0
	}

	cos := dot / (math.Sqrt(magA) * math.Sqrt(magB))
	return (cos + 1) / 2
}

// BestPhase returns the highest-scoring phase of the exercise for the
// vector, with its score. ok is false when the exercise has no catalog
// entries.
func (m *Matcher) BestPhase(v pose.AngleVector, ex Exercise) (Phase, float64, bool) {
	var (
		best      Phase
		bestScore = -1.0
	)
	for _, ref := range m.library.Poses(ex) {
		if s := m.Score(v, ref); s > bestScore {
			bestScore = s
			best = ref.Phase
		}
	}
	if bestScore < 0 {
		return "", 0, false
	}
	return best, bestScore, true
}

// MeanScore averages the vector's match across all phases of the exercise.
func (m *Matcher) MeanScore(v pose.AngleVector, ex Exercise) float64 {
	refs := m.library.Poses(ex)
	if len(refs) == 0 {
		return 0
	}
	var sum float64
	for _, ref := range refs {
		sum += m.Score(v, ref)
	}
	return sum / float64(len(refs))
}

// Identify guesses which exercise the vector most resembles: the exercise
// whose phases yield the highest mean score. Ties resolve to the earlier
// exercise in declaration order; the ambiguity is accepted rather than
// broken by a secondary metric.
func (m *Matcher) Identify(v pose.AngleVector) (Exercise, float64) {
	var (
		best      Exercise
		bestScore = -1.0
	)
	for _, ex := range Exercises {
		if s := m.MeanScore(v, ex); s > bestScore {
			bestScore = s
			best = ex
		}
	}
	if bestScore < 0 {
		return "", 0
	}
	return best, bestScore
}

// normalize maps angle components onto [0,1] and elevation components onto
// [-1,1] so no single dimension dominates the cosine.
func normalize(v pose.AngleVector) [8]float64 {
	var out [8]float64
	for i := pose.LeftShoulderAngle; i <= pose.RightHipAngle; i++ {
		out[i] = v[i] / 180
	}
	out[pose.LeftArmElevation] = v[pose.LeftArmElevation] / pose.MaxElevationPx
	out[pose.RightArmElevation] = v[pose.RightArmElevation] / pose.MaxElevationPx
	return out
}
