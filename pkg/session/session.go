// Package session runs the per-user coaching pipeline: smoothed pose
// frames feed rep detection, completed reps are scored for form and
// pace, and the resulting feedback is spoken and broadcast.
package session

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/formcoach/go-formcoach/pkg/audioqueue"
	"github.com/formcoach/go-formcoach/pkg/form"
	"github.com/formcoach/go-formcoach/pkg/pace"
	"github.com/formcoach/go-formcoach/pkg/pose"
	"github.com/formcoach/go-formcoach/pkg/reference"
	"github.com/formcoach/go-formcoach/pkg/repdetect"
	"github.com/formcoach/go-formcoach/pkg/speech"
)

// Event is one completed, scored repetition.
type Event struct {
	SessionID string             `json:"session_id"`
	Rep       int                `json:"rep"`
	Exercise  reference.Exercise `json:"exercise"`
	Feedback  *form.Feedback     `json:"feedback"`

	// Pace is zero-valued for the first rep of an exercise, since pace is
	// measured between consecutive reps.
	Pace      pace.Verdict `json:"pace"`
	HasPace   bool         `json:"has_pace"`
	Timestamp time.Time    `json:"timestamp"`
}

// Option configures a Session.
type Option func(*Session)

// WithSynthesizer attaches speech synthesis for spoken feedback.
func WithSynthesizer(s speech.Synthesizer) Option {
	return func(c *Session) { c.synth = s }
}

// WithAudioQueue attaches the playback queue spoken feedback goes through.
func WithAudioQueue(q *audioqueue.Queue) Option {
	return func(c *Session) { c.queue = q }
}

// WithLogger overrides the default logger.
func WithLogger(l *slog.Logger) Option {
	return func(c *Session) { c.logger = l }
}

// WithClock overrides the time source, for tests.
func WithClock(now func() time.Time) Option {
	return func(c *Session) { c.now = now }
}

// Session coaches one user through one exercise at a time. Process is
// not safe for concurrent callers; everything else is.
type Session struct {
	id     string
	cfg    Config
	engine *form.Engine
	logger *slog.Logger

	synth speech.Synthesizer
	queue *audioqueue.Queue
	now   func() time.Time

	smoother *pose.Smoother
	detector *repdetect.Detector
	tracker  *pace.Tracker

	mu           sync.RWMutex
	active       bool
	exercise     reference.Exercise
	reps         int
	lastRepAt    time.Time
	lastFeedback *form.Feedback

	events chan Event
	speak  sync.WaitGroup
	closed chan struct{}
}

// New creates a session evaluating with the given engine.
func New(id string, cfg Config, engine *form.Engine, opts ...Option) *Session {
	def := DefaultConfig()
	if cfg.Exercise == "" {
		cfg.Exercise = def.Exercise
	}
	if cfg.SmoothingWindow == 0 {
		cfg.SmoothingWindow = def.SmoothingWindow
	}
	if cfg.FeedbackCooldown == 0 {
		cfg.FeedbackCooldown = def.FeedbackCooldown
	}
	if cfg.Detector.Capacity == 0 {
		cfg.Detector = def.Detector
	}
	if cfg.Pace.IdealBelow == 0 {
		cfg.Pace = def.Pace
	}

	s := &Session{
		id:       id,
		cfg:      cfg,
		engine:   engine,
		logger:   slog.Default(),
		now:      time.Now,
		smoother: pose.NewSmoother(cfg.SmoothingWindow),
		detector: repdetect.New(cfg.Detector),
		tracker:  pace.NewTracker(cfg.Pace),
		active:   true,
		exercise: cfg.Exercise,
		events:   make(chan Event, 16),
		closed:   make(chan struct{}),
	}
	for _, opt := range opts {
		opt(s)
	}
	s.logger = s.logger.With("session", id)
	return s
}

// ID returns the session identifier.
func (s *Session) ID() string { return s.id }

// Events returns the stream of scored reps. Slow consumers lose events
// rather than stalling frame processing.
func (s *Session) Events() <-chan Event { return s.events }

// Exercise returns the exercise currently being coached.
func (s *Session) Exercise() reference.Exercise {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.exercise
}

// Reps returns how many reps have been scored for the current exercise.
func (s *Session) Reps() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.reps
}

// LastFeedback returns the most recent verdict, or nil before the first rep.
func (s *Session) LastFeedback() *form.Feedback {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.lastFeedback
}

// Active reports whether rep detection is running.
func (s *Session) Active() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.active
}

// Disable pauses rep detection. The frame window, pace streaks, and
// pending speech are cleared so nothing from before the pause carries
// over, but a synthesis call already in flight is left to finish.
func (s *Session) Disable() {
	s.mu.Lock()
	if !s.active {
		s.mu.Unlock()
		return
	}
	s.active = false
	s.lastRepAt = time.Time{}
	s.mu.Unlock()

	s.smoother.Reset()
	s.detector.Clear()
	s.tracker.Reset()
	if s.queue != nil {
		s.queue.Flush()
	}
	s.logger.Info("detection disabled")
}

// Enable resumes rep detection from an empty window. A closed session
// stays inactive.
func (s *Session) Enable() {
	s.mu.Lock()
	select {
	case <-s.closed:
		s.mu.Unlock()
		return
	default:
	}
	if s.active {
		s.mu.Unlock()
		return
	}
	s.active = true
	s.mu.Unlock()
	s.logger.Info("detection enabled")
}

// SetExercise switches the session to a new exercise. The frame window,
// rep count, and pace streaks restart, and pending speech is flushed so
// stale feedback is never attributed to the new exercise.
func (s *Session) SetExercise(ex reference.Exercise) error {
	if !s.engine.Supports(ex) {
		return form.ErrUnknownExercise
	}

	s.mu.Lock()
	s.exercise = ex
	s.reps = 0
	s.lastRepAt = time.Time{}
	s.lastFeedback = nil
	s.mu.Unlock()

	s.smoother.Reset()
	s.detector.Clear()
	s.tracker.Reset()
	if s.queue != nil {
		s.queue.Flush()
	}
	s.logger.Info("exercise changed", "exercise", ex)
	return nil
}

// Process feeds one frame through smoothing and rep detection. When a
// rep completes outside the cooldown it is scored, announced, and
// emitted as an Event.
func (s *Session) Process(frame *pose.Snapshot) {
	s.mu.RLock()
	active := s.active
	s.mu.RUnlock()
	if !active {
		return
	}

	smoothed := s.smoother.Smooth(frame)
	rep, complete := s.detector.Push(smoothed)
	if !complete {
		return
	}

	now := s.now()

	s.mu.Lock()
	if !s.lastRepAt.IsZero() && now.Sub(s.lastRepAt) < s.cfg.FeedbackCooldown {
		s.mu.Unlock()
		return
	}
	ex := s.exercise
	interval := time.Duration(0)
	if !s.lastRepAt.IsZero() {
		interval = now.Sub(s.lastRepAt)
	}
	s.lastRepAt = now
	s.reps++
	repNum := s.reps
	s.mu.Unlock()

	// The window restarts after each scored rep so leftover frames from
	// this rep cannot satisfy the completion predicate again.
	s.detector.Clear()

	fb, err := s.engine.Evaluate(ex, rep)
	if err != nil {
		s.logger.Error("rep evaluation failed", "exercise", ex, "error", err)
		return
	}

	s.mu.Lock()
	s.lastFeedback = fb
	s.mu.Unlock()

	evt := Event{
		SessionID: s.id,
		Rep:       repNum,
		Exercise:  ex,
		Feedback:  fb,
		Timestamp: now,
	}
	if interval > 0 {
		evt.Pace = s.tracker.Record(interval)
		evt.HasPace = true
	}

	s.logger.Info("rep scored",
		"exercise", ex,
		"rep", repNum,
		"quality", fb.Quality,
		"corrections", len(fb.Corrections),
		"performing", fb.IsPerformingExercise,
	)

	s.announce(evt)
	s.emit(evt)
}

// emit delivers the event unless the session has closed. Holding mu
// through the send keeps Close from closing the channel mid-send.
func (s *Session) emit(evt Event) {
	s.mu.Lock()
	defer s.mu.Unlock()
	select {
	case <-s.closed:
		return
	default:
	}
	select {
	case s.events <- evt:
	default:
		s.logger.Warn("event dropped, consumer behind", "rep", evt.Rep)
	}
}

// announce synthesizes the spoken line off the frame path and queues it
// for playback. Pace escalations get their own clip after the form line.
func (s *Session) announce(evt Event) {
	if s.synth == nil || s.queue == nil {
		return
	}

	lines := []struct {
		text string
		key  string
	}{
		{evt.Feedback.Utterance(), evt.Feedback.DedupKey()},
	}
	if evt.HasPace && evt.Pace.Escalation != pace.EscalationNone {
		lines = append(lines, struct {
			text string
			key  string
		}{evt.Pace.Coaching(), string(evt.Exercise) + "|pace|" + string(evt.Pace.Escalation)})
	}

	s.speak.Add(1)
	go func() {
		defer s.speak.Done()
		for _, line := range lines {
			if line.text == "" {
				continue
			}
			ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
			clip, err := s.synth.Synthesize(ctx, line.text)
			cancel()
			if err != nil {
				s.logger.Warn("speech synthesis failed", "error", err)
				continue
			}
			s.queue.Enqueue(clip, line.key)
		}
	}()
}

// Close deactivates the session and stops the event stream after
// in-flight speech work finishes. Frames processed afterwards are
// dropped.
func (s *Session) Close() {
	s.mu.Lock()
	select {
	case <-s.closed:
		s.mu.Unlock()
		return
	default:
	}
	s.active = false
	close(s.closed)
	s.mu.Unlock()

	s.speak.Wait()
	close(s.events)
}
