package ports

import (
	"context"
	"time"

	"github.com/adminpanel/identity-api/internal/core/domain"
)

// RegisterInput carries a self-service registration.
type RegisterInput struct {
	Email     string
	Username  string
	Password  string
	FirstName string
	LastName  string
}

// ProfileUpdate holds the fields a user may change on their own account.
// Nil means "leave unchanged".
type ProfileUpdate struct {
	FirstName *string
	LastName  *string
	Username  *string
}

// LoginResult is returned after a successful login.
type LoginResult struct {
	User      *domain.User
	Token     string
	SessionID string
	ExpiresAt time.Time
	ExpiresIn time.Duration
}

type AuthService interface {
	Register(ctx context.Context, in RegisterInput) (*domain.User, error)
	Login(ctx context.Context, email, password string) (*LoginResult, error)
	Profile(ctx context.Context, userID int64) (*domain.User, error)
	UpdateProfile(ctx context.Context, userID int64, in ProfileUpdate) (*domain.User, error)
	ChangePassword(ctx context.Context, userID int64, currentPassword, newPassword string) error
	Logout(ctx context.Context, principal *domain.Principal) error
	// Authenticate resolves a raw token into a principal.
	Authenticate(ctx context.Context, token string) (*domain.Principal, error)
	// VisitDashboard reports whether this is the session's first dashboard visit.
	VisitDashboard(ctx context.Context, principal *domain.Principal) (bool, error)
}
