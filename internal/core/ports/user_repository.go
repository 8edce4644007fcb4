package ports

import (
	"context"

	"github.com/adminpanel/identity-api/internal/core/domain"
)

// Sortable fields accepted by UserRepository.FindAll.
const (
	SortByID        = "id"
	SortByEmail     = "email"
	SortByUsername  = "username"
	SortByCreatedAt = "createdAt"
)

// SortOption orders FindAll results. The zero value leaves the order to the store.
type SortOption struct {
	Field string
	Desc  bool
}

// UserRepository defines persistence for user accounts.
//
// The Exists* pre-checks are best effort. Every implementation must also
// enforce unique email and username at the storage level and report a
// violation as domain.ErrDuplicateKey.
type UserRepository interface {
	FindByID(ctx context.Context, id int64) (*domain.User, error)
	FindByEmail(ctx context.Context, email string) (*domain.User, error)
	FindByUsername(ctx context.Context, username string) (*domain.User, error)
	ExistsByEmail(ctx context.Context, email string) (bool, error)
	ExistsByUsername(ctx context.Context, username string) (bool, error)
	// Save inserts the user when ID is zero, assigning ID and timestamps,
	// and replaces the stored record otherwise. Insert refuses an email that
	// already exists with domain.ErrDuplicateEmail.
	Save(ctx context.Context, user *domain.User) error
	Delete(ctx context.Context, user *domain.User) error
	FindAll(ctx context.Context, sort SortOption) ([]*domain.User, error)
}
