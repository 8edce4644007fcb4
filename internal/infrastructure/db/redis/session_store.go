package redis

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/adminpanel/identity-api/internal/core/domain"
)

// SessionStore backs login sessions with Redis.
// Key format: session:<id> -> user id, session:<id>:dashboard_visited -> "1".
// Both keys expire with the token.
type SessionStore struct {
	client *redis.Client
	ttl    time.Duration
}

// NewSessionStore wraps client. ttl bounds the dashboard flag when the
// session key's own TTL cannot be read.
func NewSessionStore(client *redis.Client, ttl time.Duration) *SessionStore {
	return &SessionStore{client: client, ttl: ttl}
}

func (s *SessionStore) Create(ctx context.Context, sessionID string, userID int64, ttl time.Duration) error {
	if err := s.client.Set(ctx, s.key(sessionID), userID, ttl).Err(); err != nil {
		return fmt.Errorf("create session: %w", err)
	}
	return nil
}

func (s *SessionStore) Lookup(ctx context.Context, sessionID string) (int64, error) {
	userID, err := s.client.Get(ctx, s.key(sessionID)).Int64()
	if errors.Is(err, redis.Nil) {
		return 0, domain.ErrSessionNotFound
	}
	if err != nil {
		return 0, fmt.Errorf("lookup session: %w", err)
	}
	return userID, nil
}

func (s *SessionStore) Revoke(ctx context.Context, sessionID string) error {
	if err := s.client.Del(ctx, s.key(sessionID), s.visitedKey(sessionID)).Err(); err != nil {
		return fmt.Errorf("revoke session: %w", err)
	}
	return nil
}

func (s *SessionStore) MarkDashboardVisited(ctx context.Context, sessionID string) (bool, error) {
	ttl, err := s.client.PTTL(ctx, s.key(sessionID)).Result()
	if err != nil {
		return false, fmt.Errorf("session ttl: %w", err)
	}
	// go-redis reports a missing key as -2 and no expiry as -1, unscaled.
	if ttl == -2 {
		return false, domain.ErrSessionNotFound
	}
	if ttl <= 0 {
		ttl = s.ttl
	}

	set, err := s.client.SetNX(ctx, s.visitedKey(sessionID), "1", ttl).Result()
	if err != nil {
		return false, fmt.Errorf("mark dashboard visited: %w", err)
	}
	return set, nil
}

func (s *SessionStore) key(sessionID string) string {
	return "session:" + sessionID
}

func (s *SessionStore) visitedKey(sessionID string) string {
	return s.key(sessionID) + ":dashboard_visited"
}
