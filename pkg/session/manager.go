package session

import (
	"errors"
	"log/slog"
	"sync"

	"github.com/google/uuid"

	"github.com/formcoach/go-formcoach/pkg/form"
	"github.com/formcoach/go-formcoach/pkg/reference"
)

// ErrNotFound is returned when a session ID is unknown.
var ErrNotFound = errors.New("session: not found")

// Manager owns the live sessions, keyed by generated ID.
type Manager struct {
	engine *form.Engine
	logger *slog.Logger

	mu       sync.RWMutex
	sessions map[string]*Session
}

// NewManager creates an empty manager evaluating with the given engine.
func NewManager(engine *form.Engine, logger *slog.Logger) *Manager {
	if logger == nil {
		logger = slog.Default()
	}
	return &Manager{
		engine:   engine,
		logger:   logger,
		sessions: make(map[string]*Session),
	}
}

// Supports reports whether the engine has rules for the exercise.
func (m *Manager) Supports(ex reference.Exercise) bool {
	return m.engine.Supports(ex)
}

// Create starts a new session with a generated ID.
func (m *Manager) Create(cfg Config, opts ...Option) *Session {
	id := uuid.NewString()
	s := New(id, cfg, m.engine, append([]Option{WithLogger(m.logger)}, opts...)...)

	m.mu.Lock()
	m.sessions[id] = s
	m.mu.Unlock()

	m.logger.Info("session created", "session", id, "exercise", s.Exercise())
	return s
}

// Get returns the session by ID.
func (m *Manager) Get(id string) (*Session, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	s, ok := m.sessions[id]
	if !ok {
		return nil, ErrNotFound
	}
	return s, nil
}

// List returns all live sessions.
func (m *Manager) List() []*Session {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]*Session, 0, len(m.sessions))
	for _, s := range m.sessions {
		out = append(out, s)
	}
	return out
}

// Delete closes and removes the session. Unknown IDs are not an error.
func (m *Manager) Delete(id string) {
	m.mu.Lock()
	s, ok := m.sessions[id]
	delete(m.sessions, id)
	m.mu.Unlock()

	if ok {
		s.Close()
		m.logger.Info("session closed", "session", id)
	}
}

// Close shuts down every session.
func (m *Manager) Close() {
	m.mu.Lock()
	sessions := m.sessions
	m.sessions = make(map[string]*Session)
	m.mu.Unlock()

	for id, s := range sessions {
		s.Close()
		m.logger.Info("session closed", "session", id)
	}
}
