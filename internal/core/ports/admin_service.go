package ports

import (
	"context"

	"github.com/adminpanel/identity-api/internal/core/domain"
)

// UserFilter narrows ListUsers. Filters compose with AND semantics.
type UserFilter struct {
	Role   string // optional: role membership
	Active *bool  // optional: isActive equality
	Search string // optional: case-insensitive match on email, username or full name
}

// UserFields carries an admin create or update. Nil means "not provided".
type UserFields struct {
	Email     *string
	Username  *string
	Password  *string
	FirstName *string
	LastName  *string
	Roles     []string
	IsActive  *bool
}

// UserStats summarises the whole user set.
type UserStats struct {
	TotalUsers    int `json:"total_users"`
	ActiveUsers   int `json:"active_users"`
	InactiveUsers int `json:"inactive_users"`
	AdminUsers    int `json:"admin_users"`
	RegularUsers  int `json:"regular_users"`
}

// AdminService defines privileged account management. Callers must already
// hold ROLE_ADMIN; actorID identifies the acting admin for self-action guards.
type AdminService interface {
	ListUsers(ctx context.Context, filter UserFilter) ([]*domain.User, error)
	GetUser(ctx context.Context, id int64) (*domain.User, error)
	CreateUser(ctx context.Context, in UserFields) (*domain.User, error)
	UpdateUser(ctx context.Context, id int64, in UserFields) (*domain.User, error)
	DeleteUser(ctx context.Context, actorID, id int64) error
	ActivateUser(ctx context.Context, id int64) (*domain.User, error)
	DeactivateUser(ctx context.Context, actorID, id int64) (*domain.User, error)
	UpdateRoles(ctx context.Context, id int64, roles []string) (*domain.User, error)
	Stats(ctx context.Context) (*UserStats, error)
}
