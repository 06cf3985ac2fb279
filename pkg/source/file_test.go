package source

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/formcoach/go-formcoach/pkg/pose"
)

var (
	_ Source = (*FileSource)(nil)
	_ Source = (*WebSocketSource)(nil)
)

const recordingLines = `{"timestamp_ms":1700000000000,"confidence":0.9,"keypoints":[{"joint":"left_wrist","x":100,"y":400,"confidence":0.8}]}
not json
{"timestamp_ms":1700000000033,"confidence":0.85,"keypoints":[{"joint":"left_wrist","x":100,"y":395,"confidence":0.8}]}
`

func writeRecording(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "frames.jsonl")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestFileSourceReplaysFrames(t *testing.T) {
	src := NewFileSource(writeRecording(t, recordingLines), 0, nil)

	errCh := make(chan error, 1)
	go func() { errCh <- src.Run(context.Background()) }()

	var got []*pose.Snapshot
	for s := range src.Frames() {
		got = append(got, s)
	}
	if err := <-errCh; err != nil {
		t.Fatalf("Run: %v", err)
	}

	// The malformed middle line is skipped, not fatal.
	if len(got) != 2 {
		t.Fatalf("replayed %d frames, want 2", len(got))
	}

	first := got[0]
	if want := time.UnixMilli(1700000000000); !first.Timestamp.Equal(want) {
		t.Errorf("timestamp = %v, want %v", first.Timestamp, want)
	}
	if first.Confidence != 0.9 {
		t.Errorf("confidence = %v, want 0.9", first.Confidence)
	}
	kp, ok := first.Keypoint(pose.LeftWrist)
	if !ok {
		t.Fatal("left wrist missing from decoded frame")
	}
	if kp.X != 100 || kp.Y != 400 || kp.Confidence != 0.8 {
		t.Errorf("keypoint = %+v", kp)
	}
}

func TestFileSourceCloseStopsReplay(t *testing.T) {
	// A long recording with a throttle so Close lands mid-replay.
	var content string
	for range 1000 {
		content += `{"confidence":0.5,"keypoints":[]}` + "\n"
	}
	src := NewFileSource(writeRecording(t, content), 10*time.Millisecond, nil)

	errCh := make(chan error, 1)
	go func() { errCh <- src.Run(context.Background()) }()

	<-src.Frames()
	src.Close()

	// Drain until the channel closes.
	for range src.Frames() {
	}
	if err := <-errCh; err != ErrClosed {
		t.Fatalf("Run = %v, want ErrClosed", err)
	}
}

func TestFileSourceMissingFile(t *testing.T) {
	src := NewFileSource(filepath.Join(t.TempDir(), "absent.jsonl"), 0, nil)
	if err := src.Run(context.Background()); err == nil {
		t.Fatal("expected error for missing recording")
	}
}

func TestWireFrameSnapshotDefaultsTimestamp(t *testing.T) {
	now := time.Date(2025, 6, 1, 9, 0, 0, 0, time.UTC)
	frame := wireFrame{Confidence: 0.7}
	s := frame.snapshot(now)
	if !s.Timestamp.Equal(now) {
		t.Errorf("timestamp = %v, want arrival time %v", s.Timestamp, now)
	}
}
