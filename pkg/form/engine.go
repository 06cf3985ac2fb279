package form

import (
	"errors"

	"github.com/formcoach/go-formcoach/pkg/pose"
	"github.com/formcoach/go-formcoach/pkg/reference"
)

// Errors returned by the engine.
var (
	ErrUnknownExercise = errors.New("form: unknown exercise")
	ErrEmptyWindow     = errors.New("form: empty repetition window")
)

// check is one ordered secondary rule. A failing check appends its
// correction and downgrades quality by one tier.
type check struct {
	name       string
	correction string
	failed     func(*repStats) bool
}

// evaluator holds the rules for one exercise behind the engine's single
// evaluation entry point.
type evaluator interface {
	exercise() reference.Exercise

	// gate is the binary test that the gross motion pattern is present.
	// The guidance string is the exercise-specific prompt used whenever
	// the motion does not look like this exercise; on gate failure no
	// further rules run.
	gate(*repStats) (ok bool, guidance string)

	// checks returns the ordered secondary rules.
	checks() []check
}

// Engine evaluates completed repetitions. Scoring is deterministic: the
// same window always yields the same verdict, and every correction traces
// to a named rule.
type Engine struct {
	matcher    *reference.Matcher
	evaluators map[reference.Exercise]evaluator
}

// wrongExerciseScore is the similarity floor below which the matcher's
// disagreement overrides a passing gate.
const wrongExerciseScore = 0.75

// visibilityCorrection is the generic guidance when the body is not
// sufficiently visible for scoring.
const visibilityCorrection = "Step back so your whole body is visible to the camera."

// NewEngine creates an engine with all built-in exercises registered.
// matcher may be nil to skip the similarity cross-check.
func NewEngine(matcher *reference.Matcher) *Engine {
	e := &Engine{
		matcher:    matcher,
		evaluators: make(map[reference.Exercise]evaluator),
	}
	for _, ev := range []evaluator{&overheadPress{}, &bicepCurl{}, &lateralRaise{}} {
		e.evaluators[ev.exercise()] = ev
	}
	return e
}

// Evaluate scores one completed repetition window against the named
// exercise's rules.
func (e *Engine) Evaluate(ex reference.Exercise, rep []*pose.Snapshot) (*Feedback, error) {
	ev, ok := e.evaluators[ex]
	if !ok {
		return nil, ErrUnknownExercise
	}
	if len(rep) == 0 {
		return nil, ErrEmptyWindow
	}

	st := newRepStats(rep)

	// Common precondition: enough of the body must be visible to score
	// anything. Degrades to a reposition verdict, never an error.
	if !st.visible() || !st.peakVecOK {
		return &Feedback{
			Exercise:             ex,
			Quality:              QualityNeedsImprovement,
			Summary:              summaryFor(QualityNeedsImprovement),
			Corrections:          []string{visibilityCorrection},
			IsPerformingExercise: false,
		}, nil
	}

	matchScore := e.matchScore(st, ex)

	// Gate: is the gross motion pattern even present?
	gateOK, guidance := ev.gate(st)
	if !gateOK {
		return &Feedback{
			Exercise:             ex,
			Quality:              QualityNeedsImprovement,
			Summary:              summaryFor(QualityNeedsImprovement),
			Corrections:          []string{guidance},
			IsPerformingExercise: false,
			MatchScore:           matchScore,
		}, nil
	}

	// Similarity sanity check: a passing gate with a vector that looks
	// nothing like this exercise is still reported as the wrong exercise,
	// not silently absorbed into a low score.
	if e.matcher != nil && matchScore < wrongExerciseScore {
		if guessed, _ := e.matcher.Identify(st.peakVec); guessed != ex {
			return &Feedback{
				Exercise:             ex,
				Quality:              QualityNeedsImprovement,
				Summary:              summaryFor(QualityNeedsImprovement),
				Corrections:          []string{guidance},
				IsPerformingExercise: false,
				MatchScore:           matchScore,
			}, nil
		}
	}

	// Ordered secondary checks: first-detected-first corrections, one tier
	// down per failure, never back up.
	quality := QualityGood
	var corrections []string
	for _, c := range ev.checks() {
		if !c.failed(st) {
			continue
		}
		quality = quality.Downgrade()
		if len(corrections) < MaxCorrections {
			corrections = append(corrections, c.correction)
		}
	}

	return &Feedback{
		Exercise:             ex,
		Quality:              quality,
		Summary:              summaryFor(quality),
		Corrections:          corrections,
		IsPerformingExercise: true,
		MatchScore:           matchScore,
	}, nil
}

// Supports reports whether the exercise has registered rules.
func (e *Engine) Supports(ex reference.Exercise) bool {
	_, ok := e.evaluators[ex]
	return ok
}

// Exercises returns the registered exercises.
func (e *Engine) Exercises() []reference.Exercise {
	out := make([]reference.Exercise, 0, len(e.evaluators))
	for _, ex := range reference.Exercises {
		if _, ok := e.evaluators[ex]; ok {
			out = append(out, ex)
		}
	}
	return out
}

func (e *Engine) matchScore(st *repStats, ex reference.Exercise) float64 {
	if e.matcher == nil || !st.peakVecOK {
		return 0
	}
	_, score, ok := e.matcher.BestPhase(st.peakVec, ex)
	if !ok {
		return 0
	}
	return score
}
