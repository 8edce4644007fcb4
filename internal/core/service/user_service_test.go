package service

import (
	"context"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/adminpanel/identity-api/internal/core/domain"
	"github.com/adminpanel/identity-api/internal/core/ports"
	"github.com/adminpanel/identity-api/internal/infrastructure/db/memory"
)

func seedUser(t *testing.T, repo *memory.UserRepository, email, username string, created time.Time, active bool, roles ...string) *domain.User {
	t.Helper()
	u := domain.NewUser()
	u.Email = email
	u.Username = username
	u.PasswordHash = "hash"
	u.IsActive = active
	u.CreatedAt = created
	u.SetRoles(roles)
	if err := repo.Save(context.Background(), u); err != nil {
		t.Fatalf("Save(%s): %v", email, err)
	}
	return u
}

func newUserFixture(t *testing.T) (*UserService, *memory.UserRepository) {
	t.Helper()
	repo := memory.NewUserRepository()
	svc := NewUserService(repo, zerolog.Nop())
	svc.now = func() time.Time { return time.Date(2026, time.March, 15, 12, 0, 0, 0, time.UTC) }
	return svc, repo
}

func TestUserService_Directory_NewestFirstWithStats(t *testing.T) {
	svc, repo := newUserFixture(t)

	seedUser(t, repo, "old@x.io", "old", time.Date(2026, time.January, 3, 0, 0, 0, 0, time.UTC), true, domain.RoleAdmin)
	seedUser(t, repo, "edge@x.io", "edge", time.Date(2026, time.March, 1, 0, 0, 0, 0, time.UTC), false)
	seedUser(t, repo, "new@x.io", "new", time.Date(2026, time.March, 10, 0, 0, 0, 0, time.UTC), true)

	dir, err := svc.Directory(context.Background())
	if err != nil {
		t.Fatalf("Directory: %v", err)
	}
	var order []string
	for _, u := range dir.Users {
		order = append(order, u.Username)
	}
	if len(order) != 3 || order[0] != "new" || order[1] != "edge" || order[2] != "old" {
		t.Fatalf("expected newest first, got %v", order)
	}
	want := ports.DirectoryStats{TotalUsers: 3, ActiveUsers: 2, AdminUsers: 1, RecentUsers: 2}
	if dir.Stats != want {
		t.Fatalf("expected %+v, got %+v", want, dir.Stats)
	}
}

func TestUserService_ListUsers_Sort(t *testing.T) {
	svc, repo := newUserFixture(t)
	base := time.Date(2026, time.February, 1, 0, 0, 0, 0, time.UTC)
	seedUser(t, repo, "c@x.io", "bravo", base, true)
	seedUser(t, repo, "a@x.io", "charlie", base.Add(time.Hour), true)
	seedUser(t, repo, "b@x.io", "alpha", base.Add(2*time.Hour), true)

	cases := []struct {
		sort ports.SortOption
		want []string
	}{
		{ports.SortOption{}, []string{"bravo", "charlie", "alpha"}},
		{ports.SortOption{Field: ports.SortByEmail}, []string{"charlie", "alpha", "bravo"}},
		{ports.SortOption{Field: ports.SortByUsername, Desc: true}, []string{"charlie", "bravo", "alpha"}},
		{ports.SortOption{Field: ports.SortByCreatedAt, Desc: true}, []string{"alpha", "charlie", "bravo"}},
	}
	for _, tc := range cases {
		users, err := svc.ListUsers(context.Background(), tc.sort)
		if err != nil {
			t.Fatalf("ListUsers(%+v): %v", tc.sort, err)
		}
		for i, u := range users {
			if u.Username != tc.want[i] {
				t.Fatalf("ListUsers(%+v): position %d = %s, want %s", tc.sort, i, u.Username, tc.want[i])
			}
		}
	}
}
