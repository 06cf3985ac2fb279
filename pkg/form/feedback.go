// Package form scores completed repetitions against per-exercise
// biomechanical rules and produces bounded, prioritized corrections.
package form

import (
	"fmt"
	"strings"

	"github.com/formcoach/go-formcoach/pkg/reference"
)

// Quality is the ordinal form rating for one repetition.
type Quality string

const (
	QualityGood             Quality = "good"
	QualityNeedsImprovement Quality = "needs_improvement"
	QualityPoor             Quality = "poor"
)

// Downgrade moves one tier down the ordering good > needs_improvement > poor.
// Quality never upgrades within a single evaluation.
func (q Quality) Downgrade() Quality {
	switch q {
	case QualityGood:
		return QualityNeedsImprovement
	default:
		return QualityPoor
	}
}

// Label returns the spoken form of the quality tier.
func (q Quality) Label() string {
	switch q {
	case QualityGood:
		return "Good rep"
	case QualityNeedsImprovement:
		return "Okay rep"
	default:
		return "Rough rep"
	}
}

// MaxCorrections bounds the corrections attached to one evaluation.
const MaxCorrections = 3

// Feedback is the verdict for one evaluated repetition. Created once per
// rep and immutable thereafter.
type Feedback struct {
	Exercise reference.Exercise `json:"exercise"`
	Quality  Quality            `json:"quality"`
	Summary  string             `json:"summary"`

	// Corrections are ordered first-detected-first, capped at MaxCorrections.
	Corrections []string `json:"corrections"`

	// IsPerformingExercise is false when the motion failed the exercise's
	// gate or the body was not sufficiently visible.
	IsPerformingExercise bool `json:"is_performing_exercise"`

	// MatchScore is the similarity sanity-check score in [0,1], when a
	// matcher was configured. Advisory only.
	MatchScore float64 `json:"match_score,omitempty"`
}

// Utterance renders the plain-text coaching line handed to speech
// synthesis: the quality label plus the leading correction.
func (f *Feedback) Utterance() string {
	if len(f.Corrections) == 0 {
		return f.Summary
	}
	return fmt.Sprintf("%s. %s", f.Quality.Label(), f.Corrections[0])
}

// DedupKey identifies semantically identical feedback for audio
// deduplication: same exercise, tier, and correction set.
func (f *Feedback) DedupKey() string {
	return fmt.Sprintf("%s|%s|%s", f.Exercise, f.Quality, strings.Join(f.Corrections, ";"))
}

// Summary templates keyed only by final quality tier, independent of which
// checks fired.
func summaryFor(q Quality) string {
	switch q {
	case QualityGood:
		return "Great rep! Keep that form going."
	case QualityNeedsImprovement:
		return "Decent rep, with a couple of things to tighten up."
	default:
		return "Let's slow down and rebuild that form."
	}
}
