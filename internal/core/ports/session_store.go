package ports

import (
	"context"
	"time"
)

// SessionStore keeps the server side of issued tokens. A token whose session
// is gone is treated as anonymous.
type SessionStore interface {
	Create(ctx context.Context, sessionID string, userID int64, ttl time.Duration) error
	// Lookup returns the owning user id or domain.ErrSessionNotFound.
	Lookup(ctx context.Context, sessionID string) (int64, error)
	Revoke(ctx context.Context, sessionID string) error
	// MarkDashboardVisited sets the per-session dashboard flag and reports
	// whether this call was the one that set it.
	MarkDashboardVisited(ctx context.Context, sessionID string) (bool, error)
}

// PasswordHasher hashes and verifies plaintext passwords.
type PasswordHasher interface {
	Hash(plaintext string) (string, error)
	// Verify never fails loudly: a malformed hash simply does not match.
	Verify(plaintext, hash string) bool
}
