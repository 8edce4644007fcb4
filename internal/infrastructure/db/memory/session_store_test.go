package memory

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/adminpanel/identity-api/internal/core/domain"
)

func TestSessionStore_Lifecycle(t *testing.T) {
	s := NewSessionStore()
	ctx := context.Background()

	if err := s.Create(ctx, "sid", 7, time.Hour); err != nil {
		t.Fatalf("Create: %v", err)
	}
	if id, err := s.Lookup(ctx, "sid"); err != nil || id != 7 {
		t.Fatalf("expected user 7, got %d (%v)", id, err)
	}

	first, err := s.MarkDashboardVisited(ctx, "sid")
	if err != nil || !first {
		t.Fatalf("expected first visit, got %v (%v)", first, err)
	}
	if again, _ := s.MarkDashboardVisited(ctx, "sid"); again {
		t.Fatalf("expected second visit to report false")
	}

	if err := s.Revoke(ctx, "sid"); err != nil {
		t.Fatalf("Revoke: %v", err)
	}
	if _, err := s.Lookup(ctx, "sid"); !errors.Is(err, domain.ErrSessionNotFound) {
		t.Fatalf("expected ErrSessionNotFound, got %v", err)
	}
}

func TestSessionStore_Expiry(t *testing.T) {
	s := NewSessionStore()
	ctx := context.Background()
	base := time.Now()
	s.now = func() time.Time { return base }

	_ = s.Create(ctx, "sid", 1, time.Minute)

	s.now = func() time.Time { return base.Add(time.Minute) }
	if _, err := s.Lookup(ctx, "sid"); !errors.Is(err, domain.ErrSessionNotFound) {
		t.Fatalf("expected expired session to be gone, got %v", err)
	}
	if _, err := s.MarkDashboardVisited(ctx, "sid"); !errors.Is(err, domain.ErrSessionNotFound) {
		t.Fatalf("expected ErrSessionNotFound, got %v", err)
	}
}
