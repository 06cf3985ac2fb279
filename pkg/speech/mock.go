package speech

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
)

// Mock implements Synthesizer for testing. Methods can be customized via
// function fields; the zero behavior returns a silent clip sized to the
// text at natural speech pacing.
type Mock struct {
	// SynthesizeFunc overrides Synthesize when set.
	SynthesizeFunc func(ctx context.Context, text string) (*Clip, error)

	// HealthFunc overrides Health when set.
	HealthFunc func(ctx context.Context) error

	mu    sync.Mutex
	calls []string
}

// NewMock creates a mock synthesizer with default behavior.
func NewMock() *Mock {
	return &Mock{}
}

// Synthesize records the call and returns a synthetic clip.
func (m *Mock) Synthesize(ctx context.Context, text string) (*Clip, error) {
	m.mu.Lock()
	m.calls = append(m.calls, text)
	m.mu.Unlock()

	if m.SynthesizeFunc != nil {
		return m.SynthesizeFunc(ctx, text)
	}

	// ~60ms of audio per character approximates speech pacing.
	return &Clip{
		ID:        uuid.NewString(),
		Text:      text,
		Audio:     make([]byte, len(text)*128),
		Duration:  time.Duration(len(text)) * 60 * time.Millisecond,
		CreatedAt: time.Now(),
	}, nil
}

// Health reports healthy unless overridden.
func (m *Mock) Health(ctx context.Context) error {
	if m.HealthFunc != nil {
		return m.HealthFunc(ctx)
	}
	return nil
}

// Close is a no-op.
func (m *Mock) Close() error { return nil }

// Calls returns the synthesized texts in order.
func (m *Mock) Calls() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]string, len(m.calls))
	copy(out, m.calls)
	return out
}
