package speech

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/google/uuid"

	"github.com/formcoach/go-formcoach/internal/httpc"
)

// bytesPerSecond approximates 16-bit mono PCM at 22.05kHz, the default
// output of the coqui-style TTS servers this client targets.
const bytesPerSecond = 44100

// HTTPSynthesizer talks to a self-hosted TTS server over HTTP. The
// endpoint takes {"text","voice"} and answers with encoded audio.
type HTTPSynthesizer struct {
	endpoint string
	voice    string
	client   *http.Client
	logger   *slog.Logger
}

// HTTPOption configures the synthesizer.
type HTTPOption func(*HTTPSynthesizer)

// WithVoice selects the server-side voice.
func WithVoice(voice string) HTTPOption {
	return func(h *HTTPSynthesizer) { h.voice = voice }
}

// WithHTTPClient overrides the default shared client.
func WithHTTPClient(c *http.Client) HTTPOption {
	return func(h *HTTPSynthesizer) { h.client = c }
}

// WithLogger overrides the default logger.
func WithLogger(l *slog.Logger) HTTPOption {
	return func(h *HTTPSynthesizer) { h.logger = l }
}

// NewHTTPSynthesizer creates a client for the given TTS endpoint.
func NewHTTPSynthesizer(endpoint string, opts ...HTTPOption) *HTTPSynthesizer {
	h := &HTTPSynthesizer{
		endpoint: endpoint,
		client:   httpc.Client,
		logger:   slog.Default(),
	}
	for _, opt := range opts {
		opt(h)
	}
	h.logger = h.logger.With("component", "speech.http")
	return h
}

// Synthesize converts text to audio, returning the complete clip.
func (h *HTTPSynthesizer) Synthesize(ctx context.Context, text string) (*Clip, error) {
	start := time.Now()

	payload, err := json.Marshal(map[string]string{
		"text":  text,
		"voice": h.voice,
	})
	if err != nil {
		return nil, fmt.Errorf("marshal payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, h.endpoint, bytes.NewReader(payload))
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := h.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 256))
		return nil, fmt.Errorf("speech: server returned %d: %s", resp.StatusCode, body)
	}

	audio, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read audio: %w", err)
	}
	if len(audio) == 0 {
		return nil, ErrNoAudio
	}

	h.logger.Debug("synthesized clip",
		"chars", len(text),
		"bytes", len(audio),
		"latency_ms", time.Since(start).Milliseconds(),
	)

	return &Clip{
		ID:        uuid.NewString(),
		Text:      text,
		Audio:     audio,
		Duration:  time.Duration(len(audio)) * time.Second / bytesPerSecond,
		CreatedAt: time.Now(),
	}, nil
}

// Health checks that the endpoint answers at all.
func (h *HTTPSynthesizer) Health(ctx context.Context) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, h.endpoint, nil)
	if err != nil {
		return err
	}
	resp, err := h.client.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	resp.Body.Close()
	return nil
}

// Close releases idle connections.
func (h *HTTPSynthesizer) Close() error {
	h.client.CloseIdleConnections()
	return nil
}
