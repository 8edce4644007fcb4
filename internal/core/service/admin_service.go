package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/rs/zerolog"

	"github.com/adminpanel/identity-api/internal/core/domain"
	"github.com/adminpanel/identity-api/internal/core/ports"
)

// AdminService implements privileged account management.
type AdminService struct {
	repo      ports.UserRepository
	hasher    ports.PasswordHasher
	validator *userValidator
	logger    zerolog.Logger
}

func NewAdminService(repo ports.UserRepository, hasher ports.PasswordHasher, logger zerolog.Logger) *AdminService {
	return &AdminService{
		repo:      repo,
		hasher:    hasher,
		validator: newUserValidator(repo),
		logger:    logger,
	}
}

func (s *AdminService) ListUsers(ctx context.Context, filter ports.UserFilter) ([]*domain.User, error) {
	users, err := s.repo.FindAll(ctx, ports.SortOption{Field: ports.SortByID})
	if err != nil {
		return nil, fmt.Errorf("list users: %w", err)
	}

	search := strings.ToLower(strings.TrimSpace(filter.Search))
	out := make([]*domain.User, 0, len(users))
	for _, u := range users {
		if filter.Role != "" && !u.HasRole(filter.Role) {
			continue
		}
		if filter.Active != nil && u.IsActive != *filter.Active {
			continue
		}
		if search != "" && !matchesSearch(u, search) {
			continue
		}
		out = append(out, u)
	}
	return out, nil
}

func matchesSearch(u *domain.User, needle string) bool {
	return strings.Contains(strings.ToLower(u.Email), needle) ||
		strings.Contains(strings.ToLower(u.Username), needle) ||
		strings.Contains(strings.ToLower(u.FullName()), needle)
}

func (s *AdminService) GetUser(ctx context.Context, id int64) (*domain.User, error) {
	user, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, userNotFound(err)
	}
	return user, nil
}

// CreateUser follows the registration rules but lets the admin choose roles
// and the active flag.
func (s *AdminService) CreateUser(ctx context.Context, in ports.UserFields) (*domain.User, error) {
	if in.Email != nil && *in.Email != "" {
		exists, err := s.repo.ExistsByEmail(ctx, normalizeEmail(*in.Email))
		if err != nil {
			return nil, fmt.Errorf("create user: %w", err)
		}
		if exists {
			return nil, domain.NewError(domain.ErrDuplicateEmail, registerDuplicates.email)
		}
	}
	if in.Username != nil && *in.Username != "" {
		exists, err := s.repo.ExistsByUsername(ctx, strings.TrimSpace(*in.Username))
		if err != nil {
			return nil, fmt.Errorf("create user: %w", err)
		}
		if exists {
			return nil, domain.NewError(domain.ErrDuplicateUsername, registerDuplicates.username)
		}
	}

	user := domain.NewUser()
	applyFields(user, in)

	if err := s.validator.validate(ctx, &candidate{user: user, password: in.Password}); err != nil {
		return nil, err
	}
	if err := s.setPassword(user, in.Password); err != nil {
		return nil, err
	}
	if err := s.repo.Save(ctx, user); err != nil {
		return nil, translateDuplicate(ctx, s.repo, user, err, registerDuplicates)
	}

	s.logger.Info().Int64("user_id", user.ID).Strs("roles", user.Roles).Msg("user created by admin")
	return user, nil
}

func (s *AdminService) UpdateUser(ctx context.Context, id int64, in ports.UserFields) (*domain.User, error) {
	user, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, userNotFound(err)
	}

	if in.Email != nil {
		if err := s.ensureFree(ctx, user, normalizeEmail(*in.Email), s.repo.FindByEmail,
			domain.ErrDuplicateEmail, updateDuplicates.email); err != nil {
			return nil, err
		}
	}
	if in.Username != nil {
		if err := s.ensureFree(ctx, user, strings.TrimSpace(*in.Username), s.repo.FindByUsername,
			domain.ErrDuplicateUsername, updateDuplicates.username); err != nil {
			return nil, err
		}
	}

	applyFields(user, in)

	if err := s.validator.validate(ctx, &candidate{user: user, password: in.Password}); err != nil {
		return nil, err
	}
	if err := s.setPassword(user, in.Password); err != nil {
		return nil, err
	}
	if err := s.repo.Save(ctx, user); err != nil {
		return nil, translateDuplicate(ctx, s.repo, user, err, updateDuplicates)
	}

	s.logger.Info().Int64("user_id", user.ID).Msg("user updated by admin")
	return user, nil
}

// ensureFree rejects value when a different user already holds it.
func (s *AdminService) ensureFree(
	ctx context.Context,
	target *domain.User,
	value string,
	find func(context.Context, string) (*domain.User, error),
	kind error,
	msg string,
) error {
	if value == "" {
		return nil
	}
	existing, err := find(ctx, value)
	if errors.Is(err, domain.ErrUserNotFound) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("update user: %w", err)
	}
	if existing.ID != target.ID {
		return domain.NewError(kind, msg)
	}
	return nil
}

func (s *AdminService) DeleteUser(ctx context.Context, actorID, id int64) error {
	user, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return userNotFound(err)
	}
	if user.ID == actorID {
		return domain.NewError(domain.ErrSelfDelete, "You cannot delete your own account")
	}
	if err := s.repo.Delete(ctx, user); err != nil {
		return fmt.Errorf("delete user: %w", err)
	}

	s.logger.Info().Int64("user_id", user.ID).Int64("actor_id", actorID).Msg("user deleted")
	return nil
}

func (s *AdminService) ActivateUser(ctx context.Context, id int64) (*domain.User, error) {
	user, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, userNotFound(err)
	}
	user.IsActive = true
	if err := s.repo.Save(ctx, user); err != nil {
		return nil, fmt.Errorf("activate user: %w", err)
	}
	return user, nil
}

func (s *AdminService) DeactivateUser(ctx context.Context, actorID, id int64) (*domain.User, error) {
	user, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, userNotFound(err)
	}
	if user.ID == actorID {
		return nil, domain.NewError(domain.ErrSelfDeactivate, "You cannot deactivate your own account")
	}
	user.IsActive = false
	if err := s.repo.Save(ctx, user); err != nil {
		return nil, fmt.Errorf("deactivate user: %w", err)
	}

	s.logger.Info().Int64("user_id", user.ID).Int64("actor_id", actorID).Msg("user deactivated")
	return user, nil
}

// UpdateRoles replaces the role set wholesale; ROLE_USER is always kept.
func (s *AdminService) UpdateRoles(ctx context.Context, id int64, roles []string) (*domain.User, error) {
	user, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, userNotFound(err)
	}
	if len(roles) == 0 {
		return nil, domain.NewError(domain.ErrBadRequest, "Roles array is required")
	}

	user.SetRoles(roles)
	if err := s.validator.validate(ctx, &candidate{user: user}); err != nil {
		return nil, err
	}
	if err := s.repo.Save(ctx, user); err != nil {
		return nil, fmt.Errorf("update roles: %w", err)
	}

	s.logger.Info().Int64("user_id", user.ID).Strs("roles", user.Roles).Msg("roles updated")
	return user, nil
}

func (s *AdminService) Stats(ctx context.Context) (*ports.UserStats, error) {
	users, err := s.repo.FindAll(ctx, ports.SortOption{})
	if err != nil {
		return nil, fmt.Errorf("stats: %w", err)
	}

	stats := &ports.UserStats{TotalUsers: len(users)}
	for _, u := range users {
		if u.IsActive {
			stats.ActiveUsers++
		} else {
			stats.InactiveUsers++
		}
		if u.HasRole(domain.RoleAdmin) {
			stats.AdminUsers++
		} else {
			stats.RegularUsers++
		}
	}
	return stats, nil
}

func (s *AdminService) setPassword(user *domain.User, password *string) error {
	if password == nil {
		return nil
	}
	hash, err := s.hasher.Hash(*password)
	if err != nil {
		return err
	}
	user.PasswordHash = hash
	return nil
}

// applyFields copies the provided fields onto user.
func applyFields(user *domain.User, in ports.UserFields) {
	if in.Email != nil {
		user.Email = normalizeEmail(*in.Email)
	}
	if in.Username != nil {
		user.Username = strings.TrimSpace(*in.Username)
	}
	if in.FirstName != nil {
		user.FirstName = strings.TrimSpace(*in.FirstName)
	}
	if in.LastName != nil {
		user.LastName = strings.TrimSpace(*in.LastName)
	}
	if in.Roles != nil {
		user.SetRoles(in.Roles)
	}
	if in.IsActive != nil {
		user.IsActive = *in.IsActive
	}
}
