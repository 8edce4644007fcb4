package service

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/adminpanel/identity-api/internal/core/domain"
	"github.com/adminpanel/identity-api/internal/core/ports"
)

// UserService serves the member directory.
type UserService struct {
	repo   ports.UserRepository
	logger zerolog.Logger
	now    func() time.Time
}

func NewUserService(repo ports.UserRepository, logger zerolog.Logger) *UserService {
	return &UserService{repo: repo, logger: logger, now: time.Now}
}

// ListUsers returns every user in the requested order, by id when sort.Field
// is empty.
func (s *UserService) ListUsers(ctx context.Context, sort ports.SortOption) ([]*domain.User, error) {
	if sort.Field == "" {
		sort.Field = ports.SortByID
	}
	users, err := s.repo.FindAll(ctx, sort)
	if err != nil {
		return nil, fmt.Errorf("list users: %w", err)
	}
	return users, nil
}

func (s *UserService) Directory(ctx context.Context) (*ports.Directory, error) {
	users, err := s.repo.FindAll(ctx, ports.SortOption{Field: ports.SortByCreatedAt, Desc: true})
	if err != nil {
		return nil, fmt.Errorf("directory: %w", err)
	}

	now := s.now().UTC()
	monthStart := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, time.UTC)

	dir := &ports.Directory{Users: users, Stats: ports.DirectoryStats{TotalUsers: len(users)}}
	for _, u := range users {
		if u.IsActive {
			dir.Stats.ActiveUsers++
		}
		if u.HasRole(domain.RoleAdmin) {
			dir.Stats.AdminUsers++
		}
		if !u.CreatedAt.IsZero() && !u.CreatedAt.Before(monthStart) {
			dir.Stats.RecentUsers++
		}
	}
	s.logger.Debug().Int("users", len(users)).Msg("directory built")
	return dir, nil
}
