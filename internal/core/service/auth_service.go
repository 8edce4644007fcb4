package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/adminpanel/identity-api/internal/core/domain"
	"github.com/adminpanel/identity-api/internal/core/ports"
)

// AuthService implements self-service registration, login and profile
// management.
type AuthService struct {
	repo      ports.UserRepository
	sessions  ports.SessionStore
	hasher    ports.PasswordHasher
	tokens    *TokenIssuer
	validator *userValidator
	logger    zerolog.Logger

	// dummyHash is verified against when the email is unknown so both
	// failure paths cost one bcrypt comparison.
	dummyHash string
}

func NewAuthService(
	repo ports.UserRepository,
	sessions ports.SessionStore,
	hasher ports.PasswordHasher,
	tokens *TokenIssuer,
	logger zerolog.Logger,
) *AuthService {
	dummy, _ := hasher.Hash("not-a-real-password")
	return &AuthService{
		repo:      repo,
		sessions:  sessions,
		hasher:    hasher,
		tokens:    tokens,
		validator: newUserValidator(repo),
		logger:    logger,
		dummyHash: dummy,
	}
}

func (s *AuthService) Register(ctx context.Context, in ports.RegisterInput) (*domain.User, error) {
	email := normalizeEmail(in.Email)
	username := strings.TrimSpace(in.Username)

	if email != "" {
		exists, err := s.repo.ExistsByEmail(ctx, email)
		if err != nil {
			return nil, fmt.Errorf("register: %w", err)
		}
		if exists {
			return nil, domain.NewError(domain.ErrDuplicateEmail, registerDuplicates.email)
		}
	}
	if username != "" {
		exists, err := s.repo.ExistsByUsername(ctx, username)
		if err != nil {
			return nil, fmt.Errorf("register: %w", err)
		}
		if exists {
			return nil, domain.NewError(domain.ErrDuplicateUsername, registerDuplicates.username)
		}
	}

	user := domain.NewUser()
	user.Email = email
	user.Username = username
	user.FirstName = strings.TrimSpace(in.FirstName)
	user.LastName = strings.TrimSpace(in.LastName)

	password := in.Password
	if err := s.validator.validate(ctx, &candidate{user: user, password: &password}); err != nil {
		return nil, err
	}

	hash, err := s.hasher.Hash(password)
	if err != nil {
		return nil, err
	}
	user.PasswordHash = hash

	if err := s.repo.Save(ctx, user); err != nil {
		return nil, translateDuplicate(ctx, s.repo, user, err, registerDuplicates)
	}

	s.logger.Info().Int64("user_id", user.ID).Str("email", user.Email).Msg("user registered")
	return user, nil
}

func (s *AuthService) Login(ctx context.Context, email, password string) (*ports.LoginResult, error) {
	if email == "" || password == "" {
		fields := map[string]string{}
		if email == "" {
			fields["email"] = "Email is required"
		}
		if password == "" {
			fields["password"] = "Password is required"
		}
		return nil, domain.NewError(domain.ErrBadRequest, "Email and password are required").WithFields(fields)
	}

	invalid := domain.NewError(domain.ErrInvalidCredentials, "Invalid credentials")

	user, err := s.repo.FindByEmail(ctx, normalizeEmail(email))
	if errors.Is(err, domain.ErrUserNotFound) {
		s.hasher.Verify(password, s.dummyHash)
		return nil, invalid
	}
	if err != nil {
		return nil, fmt.Errorf("login: %w", err)
	}
	if !s.hasher.Verify(password, user.PasswordHash) {
		s.logger.Debug().Int64("user_id", user.ID).Msg("password mismatch")
		return nil, invalid
	}
	if !user.IsActive {
		return nil, domain.NewError(domain.ErrAccountDeactivated, "Account is deactivated")
	}

	sessionID := uuid.NewString()
	token, expiresAt, err := s.tokens.Issue(user, sessionID)
	if err != nil {
		return nil, err
	}
	if err := s.sessions.Create(ctx, sessionID, user.ID, s.tokens.TTL()); err != nil {
		return nil, fmt.Errorf("login: create session: %w", err)
	}

	s.logger.Info().
		Int64("user_id", user.ID).
		Strs("roles", domain.NormalizeRoles(user.Roles)).
		Msg("user authenticated")

	return &ports.LoginResult{
		User:      user,
		Token:     token,
		SessionID: sessionID,
		ExpiresAt: expiresAt,
		ExpiresIn: s.tokens.TTL(),
	}, nil
}

func (s *AuthService) Profile(ctx context.Context, userID int64) (*domain.User, error) {
	user, err := s.repo.FindByID(ctx, userID)
	if err != nil {
		return nil, userNotFound(err)
	}
	return user, nil
}

func (s *AuthService) UpdateProfile(ctx context.Context, userID int64, in ports.ProfileUpdate) (*domain.User, error) {
	user, err := s.repo.FindByID(ctx, userID)
	if err != nil {
		return nil, userNotFound(err)
	}

	if in.FirstName != nil {
		user.FirstName = strings.TrimSpace(*in.FirstName)
	}
	if in.LastName != nil {
		user.LastName = strings.TrimSpace(*in.LastName)
	}
	if in.Username != nil {
		username := strings.TrimSpace(*in.Username)
		existing, err := s.repo.FindByUsername(ctx, username)
		switch {
		case err == nil && existing.ID != user.ID:
			return nil, domain.NewError(domain.ErrDuplicateUsername, updateDuplicates.username)
		case err != nil && !errors.Is(err, domain.ErrUserNotFound):
			return nil, fmt.Errorf("update profile: %w", err)
		}
		user.Username = username
	}

	if err := s.validator.validate(ctx, &candidate{user: user}); err != nil {
		return nil, err
	}
	if err := s.repo.Save(ctx, user); err != nil {
		return nil, translateDuplicate(ctx, s.repo, user, err, updateDuplicates)
	}

	s.logger.Info().Int64("user_id", user.ID).Msg("profile updated")
	return user, nil
}

func (s *AuthService) ChangePassword(ctx context.Context, userID int64, currentPassword, newPassword string) error {
	if currentPassword == "" || newPassword == "" {
		return domain.NewError(domain.ErrBadRequest, "Current password and new password are required")
	}

	user, err := s.repo.FindByID(ctx, userID)
	if err != nil {
		return userNotFound(err)
	}
	if !s.hasher.Verify(currentPassword, user.PasswordHash) {
		return domain.NewError(domain.ErrIncorrectPassword, "Current password is incorrect")
	}
	if len(newPassword) < minPasswordLength {
		return domain.NewError(domain.ErrWeakPassword,
			fmt.Sprintf("New password must be at least %d characters long", minPasswordLength))
	}
	if len(newPassword) > maxPasswordBytes {
		return domain.NewError(domain.ErrBadRequest,
			fmt.Sprintf("New password cannot be longer than %d bytes", maxPasswordBytes))
	}

	hash, err := s.hasher.Hash(newPassword)
	if err != nil {
		return err
	}
	user.PasswordHash = hash
	if err := s.repo.Save(ctx, user); err != nil {
		return fmt.Errorf("change password: %w", err)
	}

	s.logger.Info().Int64("user_id", user.ID).Msg("password changed")
	return nil
}

// Logout revokes the session behind the principal's token.
func (s *AuthService) Logout(ctx context.Context, principal *domain.Principal) error {
	if principal == nil || principal.SessionID == "" {
		return nil
	}
	if err := s.sessions.Revoke(ctx, principal.SessionID); err != nil {
		return fmt.Errorf("logout: %w", err)
	}
	s.logger.Info().Int64("user_id", principal.UserID).Msg("session revoked")
	return nil
}

// Authenticate verifies the token, its live session and the account behind
// it. Roles come from the stored user, not the token, so role changes and
// deactivation apply to tokens already issued.
func (s *AuthService) Authenticate(ctx context.Context, raw string) (*domain.Principal, error) {
	claims, err := s.tokens.Parse(raw)
	if err != nil {
		return nil, err
	}
	userID, err := claims.userID()
	if err != nil {
		return nil, err
	}

	owner, err := s.sessions.Lookup(ctx, claims.ID)
	if errors.Is(err, domain.ErrSessionNotFound) {
		return nil, domain.ErrInvalidToken
	}
	if err != nil {
		return nil, fmt.Errorf("authenticate: %w", err)
	}
	if owner != userID {
		return nil, domain.ErrInvalidToken
	}

	user, err := s.repo.FindByID(ctx, userID)
	if errors.Is(err, domain.ErrUserNotFound) {
		return nil, domain.ErrInvalidToken
	}
	if err != nil {
		return nil, fmt.Errorf("authenticate: %w", err)
	}
	if !user.IsActive {
		return nil, domain.ErrAccountDeactivated
	}

	p := &domain.Principal{
		UserID:    user.ID,
		Email:     user.Email,
		Roles:     domain.NormalizeRoles(user.Roles),
		SessionID: claims.ID,
	}
	if claims.ExpiresAt != nil {
		p.ExpiresAt = claims.ExpiresAt.Time
	}
	return p, nil
}

func (s *AuthService) VisitDashboard(ctx context.Context, principal *domain.Principal) (bool, error) {
	if principal == nil || principal.SessionID == "" {
		return false, nil
	}
	first, err := s.sessions.MarkDashboardVisited(ctx, principal.SessionID)
	if err != nil {
		return false, fmt.Errorf("visit dashboard: %w", err)
	}
	return first, nil
}
