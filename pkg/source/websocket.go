package source

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"github.com/formcoach/go-formcoach/pkg/pose"
)

const (
	handshakeTimeout = 10 * time.Second
	readTimeout      = 30 * time.Second
	initialBackoff   = 500 * time.Millisecond
	maxBackoff       = 10 * time.Second
)

// WebSocketSource connects to a pose-estimator websocket endpoint and
// streams the frames it publishes. Dropped connections are redialed with
// exponential backoff until the context ends.
type WebSocketSource struct {
	url    string
	logger *slog.Logger

	mu     sync.Mutex
	conn   *websocket.Conn
	closed bool

	frames chan *pose.Snapshot
}

// NewWebSocketSource creates a source for the given ws:// or wss:// URL.
func NewWebSocketSource(url string, logger *slog.Logger) *WebSocketSource {
	if logger == nil {
		logger = slog.Default()
	}
	return &WebSocketSource{
		url:    url,
		logger: logger,
		frames: make(chan *pose.Snapshot, 8),
	}
}

// Frames returns the snapshot delivery channel.
func (s *WebSocketSource) Frames() <-chan *pose.Snapshot {
	return s.frames
}

// Run dials the estimator and pumps frames until ctx is done. The frames
// channel is closed on return.
func (s *WebSocketSource) Run(ctx context.Context) error {
	defer close(s.frames)

	backoff := initialBackoff
	for {
		if err := ctx.Err(); err != nil {
			return err
		}
		if s.isClosed() {
			return ErrClosed
		}

		err := s.pump(ctx)
		if err == nil || ctx.Err() != nil {
			return ctx.Err()
		}
		if s.isClosed() {
			return ErrClosed
		}

		s.logger.Warn("pose stream disconnected, redialing",
			"url", s.url, "backoff", backoff, "error", err)

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(backoff):
		}
		backoff = min(backoff*2, maxBackoff)
	}
}

// pump runs one connection lifetime: dial, then read frames until the
// connection drops.
func (s *WebSocketSource) pump(ctx context.Context) error {
	dialer := websocket.Dialer{HandshakeTimeout: handshakeTimeout}
	conn, _, err := dialer.DialContext(ctx, s.url, nil)
	if err != nil {
		return fmt.Errorf("dial %s: %w", s.url, err)
	}

	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		conn.Close()
		return ErrClosed
	}
	s.conn = conn
	s.mu.Unlock()

	s.logger.Info("pose stream connected", "url", s.url)
	defer conn.Close()

	for {
		conn.SetReadDeadline(time.Now().Add(readTimeout))
		_, msg, err := conn.ReadMessage()
		if err != nil {
			return fmt.Errorf("read frame: %w", err)
		}

		var frame wireFrame
		if err := json.Unmarshal(msg, &frame); err != nil {
			// One malformed frame should not tear down the stream.
			s.logger.Warn("skipping malformed frame", "error", err)
			continue
		}

		select {
		case s.frames <- frame.snapshot(time.Now()):
		default:
			// Consumer is behind; drop the frame rather than stall the reader.
		}

		if err := ctx.Err(); err != nil {
			return err
		}
	}
}

func (s *WebSocketSource) isClosed() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.closed
}

// Close tears down the connection and stops redial attempts.
func (s *WebSocketSource) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return nil
	}
	s.closed = true
	if s.conn != nil {
		return s.conn.Close()
	}
	return nil
}
