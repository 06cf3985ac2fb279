package source

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"os"
	"time"

	"github.com/formcoach/go-formcoach/pkg/pose"
)

// FileSource replays a JSONL recording of pose frames, one frame per
// line, at a fixed rate. A zero interval replays as fast as the consumer
// drains.
type FileSource struct {
	path     string
	interval time.Duration
	logger   *slog.Logger

	frames chan *pose.Snapshot
	done   chan struct{}
}

// NewFileSource replays frames from path, one every interval.
func NewFileSource(path string, interval time.Duration, logger *slog.Logger) *FileSource {
	if logger == nil {
		logger = slog.Default()
	}
	return &FileSource{
		path:     path,
		interval: interval,
		logger:   logger,
		frames:   make(chan *pose.Snapshot),
		done:     make(chan struct{}),
	}
}

// Frames returns the snapshot delivery channel.
func (s *FileSource) Frames() <-chan *pose.Snapshot {
	return s.frames
}

// Run reads the recording line by line until EOF, ctx cancellation, or
// Close. The frames channel is closed on return.
func (s *FileSource) Run(ctx context.Context) error {
	defer close(s.frames)

	f, err := os.Open(s.path)
	if err != nil {
		return fmt.Errorf("open recording: %w", err)
	}
	defer f.Close()

	var ticker *time.Ticker
	if s.interval > 0 {
		ticker = time.NewTicker(s.interval)
		defer ticker.Stop()
	}

	scanner := bufio.NewScanner(f)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)

	line := 0
	for scanner.Scan() {
		line++
		raw := scanner.Bytes()
		if len(raw) == 0 {
			continue
		}

		var frame wireFrame
		if err := json.Unmarshal(raw, &frame); err != nil {
			s.logger.Warn("skipping malformed frame", "line", line, "error", err)
			continue
		}

		if ticker != nil {
			select {
			case <-ticker.C:
			case <-ctx.Done():
				return ctx.Err()
			case <-s.done:
				return ErrClosed
			}
		}

		select {
		case s.frames <- frame.snapshot(time.Now()):
		case <-ctx.Done():
			return ctx.Err()
		case <-s.done:
			return ErrClosed
		}
	}
	if err := scanner.Err(); err != nil && err != io.EOF {
		return fmt.Errorf("read recording: %w", err)
	}
	return nil
}

// Close stops replay before EOF.
func (s *FileSource) Close() error {
	select {
	case <-s.done:
	default:
		close(s.done)
	}
	return nil
}
