package audioqueue

import (
	"context"
	"sync"

	"github.com/formcoach/go-formcoach/pkg/speech"
)

// MockPlayer records every clip it is asked to play. Tests can override
// PlayFunc to block or fail playback.
type MockPlayer struct {
	PlayFunc func(ctx context.Context, clip *speech.Clip) error

	mu     sync.Mutex
	played []*speech.Clip
}

// NewMockPlayer returns a player whose default playback succeeds
// instantly.
func NewMockPlayer() *MockPlayer {
	return &MockPlayer{}
}

func (m *MockPlayer) Play(ctx context.Context, clip *speech.Clip) error {
	m.mu.Lock()
	m.played = append(m.played, clip)
	m.mu.Unlock()

	if m.PlayFunc != nil {
		return m.PlayFunc(ctx, clip)
	}
	return nil
}

// Played returns a copy of the clips played so far.
func (m *MockPlayer) Played() []*speech.Clip {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]*speech.Clip, len(m.played))
	copy(out, m.played)
	return out
}
