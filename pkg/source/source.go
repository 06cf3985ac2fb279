// Package source ingests pose frames from an upstream estimator. Frames
// arrive as JSON, one 17-point skeleton per message, and are decoded into
// pose snapshots without any smoothing or filtering of our own.
package source

import (
	"context"
	"errors"
	"time"

	"github.com/formcoach/go-formcoach/pkg/pose"
)

var (
	// ErrClosed is returned when reading from a source that has been shut down.
	ErrClosed = errors.New("source: closed")
)

// Source streams pose snapshots until the context is cancelled or the
// upstream ends.
type Source interface {
	// Frames returns the channel snapshots are delivered on. The channel
	// is closed when the source stops.
	Frames() <-chan *pose.Snapshot

	// Run blocks, pumping frames until ctx is done or the upstream is
	// exhausted.
	Run(ctx context.Context) error

	Close() error
}

// wireKeypoint is one joint as the estimator sends it.
type wireKeypoint struct {
	Joint      string  `json:"joint"`
	X          float64 `json:"x"`
	Y          float64 `json:"y"`
	Confidence float64 `json:"confidence"`
}

// wireFrame is the upstream message format. TimestampMs is producer time;
// zero means "use arrival time".
type wireFrame struct {
	TimestampMs int64          `json:"timestamp_ms"`
	Confidence  float64        `json:"confidence"`
	Keypoints   []wireKeypoint `json:"keypoints"`
}

// snapshot converts a wire frame, substituting now for a missing timestamp.
func (f *wireFrame) snapshot(now time.Time) *pose.Snapshot {
	ts := now
	if f.TimestampMs > 0 {
		ts = time.UnixMilli(f.TimestampMs)
	}
	s := &pose.Snapshot{
		Timestamp:  ts,
		Confidence: f.Confidence,
		Keypoints:  make([]pose.Keypoint, 0, len(f.Keypoints)),
	}
	for _, kp := range f.Keypoints {
		s.Keypoints = append(s.Keypoints, pose.Keypoint{
			Joint:      pose.Joint(kp.Joint),
			X:          kp.X,
			Y:          kp.Y,
			Confidence: kp.Confidence,
		})
	}
	return s
}
