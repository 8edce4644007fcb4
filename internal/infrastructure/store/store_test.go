package store

import (
	"context"
	"testing"

	"github.com/rs/zerolog"

	"github.com/adminpanel/identity-api/internal/infrastructure/config"
	"github.com/adminpanel/identity-api/internal/infrastructure/db/memory"
	"github.com/adminpanel/identity-api/internal/infrastructure/db/sqlstore"
)

func TestOpen_Memory(t *testing.T) {
	cfg := &config.Config{StoreDriver: config.DriverMemory}

	s, err := Open(context.Background(), cfg, true, zerolog.Nop())
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	defer s.Close(context.Background())

	if _, ok := s.Users.(*memory.UserRepository); !ok {
		t.Fatalf("expected memory user repository, got %T", s.Users)
	}
	if _, ok := s.Sessions.(*memory.SessionStore); !ok {
		t.Fatalf("expected memory session store, got %T", s.Sessions)
	}
	if len(s.Probes) != 0 {
		t.Fatalf("expected no probes for memory driver, got %d", len(s.Probes))
	}
}

func TestOpen_SQLiteWithoutSessions(t *testing.T) {
	cfg := &config.Config{StoreDriver: config.DriverSQLite}
	cfg.SQL.SQLitePath = "file:store_open_test?mode=memory&cache=shared"

	s, err := Open(context.Background(), cfg, false, zerolog.Nop())
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	defer s.Close(context.Background())

	if _, ok := s.Users.(*sqlstore.UserRepository); !ok {
		t.Fatalf("expected sql user repository, got %T", s.Users)
	}
	if s.Sessions != nil {
		t.Fatalf("expected no session store")
	}
	if len(s.Probes) != 1 || s.Probes[0].Name != config.DriverSQLite {
		t.Fatalf("unexpected probes: %+v", s.Probes)
	}
	if err := s.Probes[0].Ping(context.Background()); err != nil {
		t.Fatalf("probe failed: %v", err)
	}
}

func TestOpen_UnsupportedDriver(t *testing.T) {
	cfg := &config.Config{StoreDriver: "cassandra"}
	if _, err := Open(context.Background(), cfg, false, zerolog.Nop()); err == nil {
		t.Fatalf("expected error")
	}
}
