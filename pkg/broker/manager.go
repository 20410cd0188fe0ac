package broker

import (
	"context"
	"errors"
	"sync"

	"github.com/google/uuid"

	"github.com/rishta-council/brokerd/pkg/models"
)

// ErrSessionNotFound is returned for an unknown session id.
var ErrSessionNotFound = errors.New("session not found")

// SessionManager owns the live sessions and serializes runs per session:
// a session is never shared in-place across concurrent runs.
type SessionManager struct {
	mu       sync.Mutex
	sessions map[string]*managedSession
}

type managedSession struct {
	mu      sync.Mutex
	session *models.Session
}

// NewSessionManager creates an empty manager.
func NewSessionManager() *SessionManager {
	return &SessionManager{sessions: make(map[string]*managedSession)}
}

// Create starts a new session in INIT.
func (m *SessionManager) Create() *models.Session {
	s := &models.Session{
		ID:    uuid.NewString(),
		Phase: models.PhaseInit,
	}
	m.mu.Lock()
	m.sessions[s.ID] = &managedSession{session: s}
	m.mu.Unlock()
	return s
}

// Snapshot returns a copy of the session's current state.
func (m *SessionManager) Snapshot(id string) (*models.Session, error) {
	m.mu.Lock()
	ms, ok := m.sessions[id]
	m.mu.Unlock()
	if !ok {
		return nil, ErrSessionNotFound
	}

	ms.mu.Lock()
	defer ms.mu.Unlock()
	copied := *ms.session
	copied.Turns = append([]models.Turn(nil), ms.session.Turns...)
	if ms.session.VettedPair != nil {
		pair := *ms.session.VettedPair
		copied.VettedPair = &pair
	}
	return &copied, nil
}

// Run executes one engine run on the session, holding its lock for the
// duration so concurrent messages to the same session are serialized.
func (m *SessionManager) Run(ctx context.Context, engine *Engine, id, userText string) (string, error) {
	m.mu.Lock()
	ms, ok := m.sessions[id]
	m.mu.Unlock()
	if !ok {
		return "", ErrSessionNotFound
	}

	ms.mu.Lock()
	defer ms.mu.Unlock()
	return engine.Run(ctx, ms.session, userText)
}
