package audioqueue

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/formcoach/go-formcoach/pkg/speech"
)

func testClip(text string) *speech.Clip {
	return &speech.Clip{ID: text, Text: text, Audio: []byte{0}}
}

func waitFor(t *testing.T, cond func() bool, msg string) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if cond() {
			return
		}
		time.Sleep(5 * time.Millisecond)
	}
	t.Fatal(msg)
}

func TestEnqueueDropsDuplicateWithinWindow(t *testing.T) {
	q := New(NewMockPlayer(), 30*time.Second, nil)

	clock := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	q.now = func() time.Time { return clock }

	if !q.Enqueue(testClip("lock out your elbows"), "press|needs_improvement|1") {
		t.Fatal("first enqueue should be accepted")
	}
	clock = clock.Add(10 * time.Second)
	if q.Enqueue(testClip("lock out your elbows"), "press|needs_improvement|1") {
		t.Fatal("duplicate within window should be dropped")
	}
	clock = clock.Add(25 * time.Second)
	if !q.Enqueue(testClip("lock out your elbows"), "press|needs_improvement|1") {
		t.Fatal("same key after window should be accepted")
	}
}

func TestDistinctKeysNotDeduplicated(t *testing.T) {
	q := New(NewMockPlayer(), 30*time.Second, nil)

	if !q.Enqueue(testClip("a"), "press|good|0") {
		t.Fatal("first key rejected")
	}
	if !q.Enqueue(testClip("b"), "press|poor|3") {
		t.Fatal("second key rejected")
	}
}

func TestPlaybackSerialized(t *testing.T) {
	player := NewMockPlayer()
	release := make(chan struct{})
	player.PlayFunc = func(ctx context.Context, clip *speech.Clip) error {
		<-release
		return nil
	}

	q := New(player, time.Second, nil)
	ended := make(chan QueuedClip, 2)
	q.OnPlaybackEnd = func(qc QueuedClip) { ended <- qc }

	q.Enqueue(testClip("first"), "k1")
	q.Enqueue(testClip("second"), "k2")

	waitFor(t, func() bool { return len(player.Played()) == 1 }, "first clip never started")
	if !q.Playing() {
		t.Fatal("queue should report an active clip")
	}
	if got := q.Pending(); got != 1 {
		t.Fatalf("pending = %d, want 1", got)
	}

	release <- struct{}{}
	<-ended
	waitFor(t, func() bool { return len(player.Played()) == 2 }, "second clip never started")

	release <- struct{}{}
	<-ended
	waitFor(t, func() bool { return !q.Playing() }, "queue never went idle")
}

func TestPlaybackErrorAdvancesQueue(t *testing.T) {
	player := NewMockPlayer()
	player.PlayFunc = func(ctx context.Context, clip *speech.Clip) error {
		if clip.Text == "first" {
			return errors.New("device busy")
		}
		return nil
	}

	q := New(player, time.Second, nil)
	q.Enqueue(testClip("first"), "k1")
	q.Enqueue(testClip("second"), "k2")

	waitFor(t, func() bool { return len(player.Played()) == 2 }, "error should not stall the queue")
}

func TestFlushDropsPendingAndDedupHistory(t *testing.T) {
	player := NewMockPlayer()
	release := make(chan struct{})
	player.PlayFunc = func(ctx context.Context, clip *speech.Clip) error {
		<-release
		return nil
	}

	q := New(player, 30*time.Second, nil)
	q.Enqueue(testClip("first"), "k1")
	q.Enqueue(testClip("second"), "k2")
	waitFor(t, func() bool { return len(player.Played()) == 1 }, "first clip never started")

	q.Flush()
	if got := q.Pending(); got != 0 {
		t.Fatalf("pending after flush = %d, want 0", got)
	}

	close(release)
	waitFor(t, func() bool { return !q.Playing() }, "queue never went idle")
	if got := len(player.Played()); got != 1 {
		t.Fatalf("played %d clips, want 1 after flush", got)
	}

	// Flush also forgets dedup history so the new exercise can reuse keys.
	if !q.Enqueue(testClip("second"), "k2") {
		t.Fatal("key should be accepted again after flush")
	}
}
