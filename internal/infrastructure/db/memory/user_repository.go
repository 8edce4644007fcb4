// Package memory holds process-local adapters for the user store and the
// session store. They back STORE_DRIVER=memory for local development and the
// package tests of the layers above.
package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/adminpanel/identity-api/internal/core/domain"
	"github.com/adminpanel/identity-api/internal/core/ports"
)

// UserRepository is a mutex-guarded map that emulates unique indexes on
// email and username.
type UserRepository struct {
	mu     sync.RWMutex
	users  map[int64]*domain.User
	nextID int64
	now    func() time.Time
}

func NewUserRepository() *UserRepository {
	return &UserRepository{
		users: make(map[int64]*domain.User),
		now:   time.Now,
	}
}

func cloneUser(u *domain.User) *domain.User {
	if u == nil {
		return nil
	}
	clone := *u
	clone.Roles = append([]string(nil), u.Roles...)
	return &clone
}

func (r *UserRepository) FindByID(_ context.Context, id int64) (*domain.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	u, ok := r.users[id]
	if !ok {
		return nil, domain.ErrUserNotFound
	}
	return cloneUser(u), nil
}

func (r *UserRepository) FindByEmail(_ context.Context, email string) (*domain.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	if u := r.findBy(func(u *domain.User) bool { return u.Email == email }); u != nil {
		return cloneUser(u), nil
	}
	return nil, domain.ErrUserNotFound
}

func (r *UserRepository) FindByUsername(_ context.Context, username string) (*domain.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	if u := r.findBy(func(u *domain.User) bool { return u.Username == username }); u != nil {
		return cloneUser(u), nil
	}
	return nil, domain.ErrUserNotFound
}

func (r *UserRepository) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	_, err := r.FindByEmail(ctx, email)
	return err == nil, nil
}

func (r *UserRepository) ExistsByUsername(ctx context.Context, username string) (bool, error) {
	_, err := r.FindByUsername(ctx, username)
	return err == nil, nil
}

func (r *UserRepository) Save(_ context.Context, user *domain.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if user.ID == 0 && r.findBy(func(u *domain.User) bool { return u.Email == user.Email }) != nil {
		return domain.ErrDuplicateEmail
	}
	if r.collides(user) {
		return domain.ErrDuplicateKey
	}
	if user.ID != 0 {
		if _, ok := r.users[user.ID]; !ok {
			return domain.ErrUserNotFound
		}
	}

	user.Roles = domain.NormalizeRoles(user.Roles)
	user.Touch(r.now().UTC())
	if user.ID == 0 {
		r.nextID++
		user.ID = r.nextID
	}
	r.users[user.ID] = cloneUser(user)
	return nil
}

func (r *UserRepository) Delete(_ context.Context, user *domain.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.users[user.ID]; !ok {
		return domain.ErrUserNotFound
	}
	delete(r.users, user.ID)
	return nil
}

func (r *UserRepository) FindAll(_ context.Context, opt ports.SortOption) ([]*domain.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]*domain.User, 0, len(r.users))
	for _, u := range r.users {
		out = append(out, cloneUser(u))
	}

	less := func(a, b *domain.User) bool { return a.ID < b.ID }
	switch opt.Field {
	case ports.SortByEmail:
		less = func(a, b *domain.User) bool { return a.Email < b.Email }
	case ports.SortByUsername:
		less = func(a, b *domain.User) bool { return a.Username < b.Username }
	case ports.SortByCreatedAt:
		less = func(a, b *domain.User) bool {
			if a.CreatedAt.Equal(b.CreatedAt) {
				return a.ID < b.ID
			}
			return a.CreatedAt.Before(b.CreatedAt)
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		if opt.Desc {
			return less(out[j], out[i])
		}
		return less(out[i], out[j])
	})
	return out, nil
}

// findBy must be called with the lock held.
func (r *UserRepository) findBy(match func(*domain.User) bool) *domain.User {
	for _, u := range r.users {
		if match(u) {
			return u
		}
	}
	return nil
}

// collides reports whether another record holds user's email or username.
func (r *UserRepository) collides(user *domain.User) bool {
	for id, u := range r.users {
		if id == user.ID {
			continue
		}
		if u.Email == user.Email || u.Username == user.Username {
			return true
		}
	}
	return false
}
