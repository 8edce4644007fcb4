package sqlstore

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/adminpanel/identity-api/internal/core/domain"
	"github.com/adminpanel/identity-api/internal/core/ports"
)

func newTestRepo(t *testing.T) *UserRepository {
	t.Helper()
	dsn := "file:" + strings.ReplaceAll(t.Name(), "/", "_") + "?mode=memory&cache=shared"
	db, err := Open(context.Background(), Config{Driver: DriverSQLite, DSN: dsn}, zerolog.Nop())
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			_ = sqlDB.Close()
		}
	})
	return NewUserRepository(db)
}

func newUser(email, username string) *domain.User {
	u := domain.NewUser()
	u.Email = email
	u.Username = username
	u.PasswordHash = "$2a$04$hash"
	return u
}

func TestSave_InsertAssignsIDAndTimestamps(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	u := newUser("a@b.co", "alice")
	if err := repo.Save(ctx, u); err != nil {
		t.Fatalf("Save: %v", err)
	}
	if u.ID == 0 {
		t.Fatalf("expected ID to be assigned")
	}
	if u.CreatedAt.IsZero() || u.UpdatedAt.Before(u.CreatedAt) {
		t.Fatalf("unexpected timestamps: created=%s updated=%s", u.CreatedAt, u.UpdatedAt)
	}

	got, err := repo.FindByID(ctx, u.ID)
	if err != nil {
		t.Fatalf("FindByID: %v", err)
	}
	if got.Email != "a@b.co" || got.Username != "alice" || !got.IsActive {
		t.Fatalf("unexpected user: %+v", got)
	}
	if len(got.Roles) != 1 || got.Roles[0] != domain.RoleUser {
		t.Fatalf("expected [ROLE_USER], got %v", got.Roles)
	}
}

func TestSave_DuplicateEmailOnInsert(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	if err := repo.Save(ctx, newUser("a@b.co", "alice")); err != nil {
		t.Fatalf("Save: %v", err)
	}
	err := repo.Save(ctx, newUser("a@b.co", "other"))
	if !errors.Is(err, domain.ErrDuplicateEmail) {
		t.Fatalf("expected ErrDuplicateEmail, got %v", err)
	}
}

func TestSave_DuplicateUsernameHitsIndex(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	if err := repo.Save(ctx, newUser("a@b.co", "alice")); err != nil {
		t.Fatalf("Save: %v", err)
	}
	u := newUser("c@d.co", "alice")
	err := repo.Save(ctx, u)
	if !errors.Is(err, domain.ErrDuplicateKey) {
		t.Fatalf("expected ErrDuplicateKey, got %v", err)
	}
	if u.ID != 0 {
		t.Fatalf("expected ID to stay zero on failed insert, got %d", u.ID)
	}
}

func TestSave_UpdateKeepsCreatedAt(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	u := newUser("a@b.co", "alice")
	if err := repo.Save(ctx, u); err != nil {
		t.Fatalf("Save: %v", err)
	}
	created := u.CreatedAt

	repo.now = func() time.Time { return created.Add(time.Minute) }
	u.FirstName = "Alice"
	u.IsActive = false
	u.SetRoles([]string{domain.RoleAdmin})
	if err := repo.Save(ctx, u); err != nil {
		t.Fatalf("Save update: %v", err)
	}

	got, err := repo.FindByID(ctx, u.ID)
	if err != nil {
		t.Fatalf("FindByID: %v", err)
	}
	if !got.CreatedAt.Equal(created) {
		t.Fatalf("createdAt changed: %s -> %s", created, got.CreatedAt)
	}
	if !got.UpdatedAt.After(created) {
		t.Fatalf("expected updatedAt to move forward, got %s", got.UpdatedAt)
	}
	if got.FirstName != "Alice" || got.IsActive {
		t.Fatalf("update not persisted: %+v", got)
	}
	if !got.HasRole(domain.RoleAdmin) || !got.HasRole(domain.RoleUser) {
		t.Fatalf("expected admin and user roles, got %v", got.Roles)
	}
}

func TestSave_UpdateMissingUser(t *testing.T) {
	repo := newTestRepo(t)

	u := newUser("a@b.co", "alice")
	u.ID = 42
	if err := repo.Save(context.Background(), u); !errors.Is(err, domain.ErrUserNotFound) {
		t.Fatalf("expected ErrUserNotFound, got %v", err)
	}
}

func TestDeleteAndExists(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	u := newUser("a@b.co", "alice")
	if err := repo.Save(ctx, u); err != nil {
		t.Fatalf("Save: %v", err)
	}
	if ok, _ := repo.ExistsByUsername(ctx, "alice"); !ok {
		t.Fatalf("expected username to exist")
	}
	if err := repo.Delete(ctx, u); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if ok, _ := repo.ExistsByEmail(ctx, "a@b.co"); ok {
		t.Fatalf("expected email to be gone")
	}
	if _, err := repo.FindByEmail(ctx, "a@b.co"); !errors.Is(err, domain.ErrUserNotFound) {
		t.Fatalf("expected ErrUserNotFound, got %v", err)
	}
	if err := repo.Delete(ctx, u); !errors.Is(err, domain.ErrUserNotFound) {
		t.Fatalf("expected ErrUserNotFound on second delete, got %v", err)
	}
}

func TestFindAll_Sorted(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	for _, name := range []string{"carol", "alice", "bob"} {
		if err := repo.Save(ctx, newUser(name+"@x.io", name)); err != nil {
			t.Fatalf("Save %s: %v", name, err)
		}
	}

	users, err := repo.FindAll(ctx, ports.SortOption{Field: ports.SortByUsername})
	if err != nil {
		t.Fatalf("FindAll: %v", err)
	}
	if len(users) != 3 || users[0].Username != "alice" || users[2].Username != "carol" {
		t.Fatalf("unexpected order: %v", usernames(users))
	}

	users, err = repo.FindAll(ctx, ports.SortOption{Field: ports.SortByID, Desc: true})
	if err != nil {
		t.Fatalf("FindAll: %v", err)
	}
	if users[0].Username != "bob" {
		t.Fatalf("expected newest first, got %v", usernames(users))
	}
}

func TestOpen_UnsupportedDriver(t *testing.T) {
	if _, err := Open(context.Background(), Config{Driver: "oracle"}, zerolog.Nop()); err == nil {
		t.Fatalf("expected error for unsupported driver")
	}
}

func usernames(users []*domain.User) []string {
	out := make([]string, len(users))
	for i, u := range users {
		out[i] = u.Username
	}
	return out
}
