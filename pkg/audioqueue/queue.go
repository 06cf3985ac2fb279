// Package audioqueue serializes playback of coaching clips so at most one
// plays at a time, with time-windowed deduplication of identical feedback.
package audioqueue

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/formcoach/go-formcoach/pkg/speech"
)

// Player plays one clip to completion. Implementations wrap the actual
// audio output; playback errors never stall the queue.
type Player interface {
	Play(ctx context.Context, clip *speech.Clip) error
}

// DefaultDedupWindow is how long an identical clip key suppresses
// re-enqueueing.
const DefaultDedupWindow = 30 * time.Second

// QueuedClip is one pending playback entry.
type QueuedClip struct {
	Clip       *speech.Clip
	Key        string
	EnqueuedAt time.Time
}

// Queue is a FIFO with a single active playback slot. Enqueue starts
// playback immediately when idle; completion or error unconditionally
// advances to the next clip.
type Queue struct {
	player Player
	window time.Duration
	logger *slog.Logger

	mu       sync.Mutex
	pending  []QueuedClip
	lastSeen map[string]time.Time
	playing  bool

	now func() time.Time // injected for tests

	// OnPlaybackStart and OnPlaybackEnd fire around each clip, outside
	// the queue lock.
	OnPlaybackStart func(QueuedClip)
	OnPlaybackEnd   func(QueuedClip)
}

// New creates a queue playing through the given player.
func New(player Player, window time.Duration, logger *slog.Logger) *Queue {
	if window <= 0 {
		window = DefaultDedupWindow
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Queue{
		player:   player,
		window:   window,
		logger:   logger,
		lastSeen: make(map[string]time.Time),
		now:      time.Now,
	}
}

// Enqueue appends the clip keyed for deduplication. An identical key seen
// within the dedup window is silently dropped; the function reports
// whether the clip was accepted. Playback starts immediately when idle.
func (q *Queue) Enqueue(clip *speech.Clip, key string) bool {
	q.mu.Lock()

	now := q.now()
	q.pruneLocked(now)

	if seen, ok := q.lastSeen[key]; ok && now.Sub(seen) < q.window {
		q.mu.Unlock()
		q.logger.Debug("dropped duplicate clip", "key", key)
		return false
	}
	q.lastSeen[key] = now

	q.pending = append(q.pending, QueuedClip{Clip: clip, Key: key, EnqueuedAt: now})
	start := !q.playing
	if start {
		q.playing = true
	}
	q.mu.Unlock()

	if start {
		go q.drain()
	}
	return true
}

// drain plays pending clips until the queue empties. Only one drain
// goroutine runs at a time, which is what keeps a single clip playing at
// any instant.
func (q *Queue) drain() {
	for {
		q.mu.Lock()
		if len(q.pending) == 0 {
			q.playing = false
			q.mu.Unlock()
			return
		}
		next := q.pending[0]
		q.pending = q.pending[1:]
		q.mu.Unlock()

		if q.OnPlaybackStart != nil {
			q.OnPlaybackStart(next)
		}
		if err := q.player.Play(context.Background(), next.Clip); err != nil {
			// Errors advance the queue the same as completion.
			q.logger.Warn("clip playback failed", "key", next.Key, "error", err)
		}
		if q.OnPlaybackEnd != nil {
			q.OnPlaybackEnd(next)
		}
	}
}

// pruneLocked expires dedup entries older than the window.
func (q *Queue) pruneLocked(now time.Time) {
	for key, seen := range q.lastSeen {
		if now.Sub(seen) >= q.window {
			delete(q.lastSeen, key)
		}
	}
}

// Flush drops all pending clips and the dedup history. The currently
// playing clip, if any, finishes; callers flush when switching exercises
// so stale feedback is never attributed to the new one.
func (q *Queue) Flush() {
	q.mu.Lock()
	defer q.mu.Unlock()
	q.pending = nil
	q.lastSeen = make(map[string]time.Time)
}

// Pending returns the number of queued (not yet playing) clips.
func (q *Queue) Pending() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return len(q.pending)
}

// Playing reports whether a clip is currently in the playback slot.
func (q *Queue) Playing() bool {
	q.mu.Lock()
	defer q.mu.Unlock()
	return q.playing
}
