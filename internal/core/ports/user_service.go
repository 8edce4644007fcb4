package ports

import (
	"context"

	"github.com/adminpanel/identity-api/internal/core/domain"
)

// DirectoryStats summarises the member directory.
type DirectoryStats struct {
	TotalUsers  int `json:"total_users"`
	ActiveUsers int `json:"active_users"`
	AdminUsers  int `json:"admin_users"`
	// RecentUsers counts accounts created since the first day of the current month (UTC).
	RecentUsers int `json:"recent_users"`
}

// Directory is the member list, newest first, with its summary.
type Directory struct {
	Users []*domain.User
	Stats DirectoryStats
}

// UserService is the read-only member directory available to any signed-in user.
type UserService interface {
	ListUsers(ctx context.Context, sort SortOption) ([]*domain.User, error)
	Directory(ctx context.Context) (*Directory, error)
}
