package memory

import (
	"context"
	"sync"
	"time"

	"github.com/adminpanel/identity-api/internal/core/domain"
)

type session struct {
	userID    int64
	visited   bool
	expiresAt time.Time
}

// SessionStore keeps sessions in a map with lazy expiry.
type SessionStore struct {
	mu       sync.Mutex
	sessions map[string]*session
	now      func() time.Time
}

func NewSessionStore() *SessionStore {
	return &SessionStore{sessions: make(map[string]*session), now: time.Now}
}

func (s *SessionStore) Create(_ context.Context, sessionID string, userID int64, ttl time.Duration) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.sessions[sessionID] = &session{userID: userID, expiresAt: s.now().Add(ttl)}
	return nil
}

func (s *SessionStore) Lookup(_ context.Context, sessionID string) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess := s.live(sessionID)
	if sess == nil {
		return 0, domain.ErrSessionNotFound
	}
	return sess.userID, nil
}

func (s *SessionStore) Revoke(_ context.Context, sessionID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.sessions, sessionID)
	return nil
}

func (s *SessionStore) MarkDashboardVisited(_ context.Context, sessionID string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess := s.live(sessionID)
	if sess == nil {
		return false, domain.ErrSessionNotFound
	}
	if sess.visited {
		return false, nil
	}
	sess.visited = true
	return true, nil
}

// live returns the session if it exists and has not expired. Lock held.
func (s *SessionStore) live(sessionID string) *session {
	sess, ok := s.sessions[sessionID]
	if !ok {
		return nil
	}
	if !s.now().Before(sess.expiresAt) {
		delete(s.sessions, sessionID)
		return nil
	}
	return sess
}
