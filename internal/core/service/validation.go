package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/adminpanel/identity-api/internal/core/domain"
	"github.com/adminpanel/identity-api/internal/core/ports"
)

const (
	msgEmailTaken    = "This email is already registered."
	msgUsernameTaken = "This username is already taken."

	minPasswordLength = 8
	maxPasswordBytes  = 72 // bcrypt ignores anything past this
	maxIdentLength    = 180
	maxNameLength     = 100
)

// violations collects field -> message, keeping the first message per field.
type violations map[string]string

func (v violations) add(field, msg string) {
	if _, ok := v[field]; !ok {
		v[field] = msg
	}
}

// candidate is a user about to be persisted. password is the plaintext
// being set by the current operation, nil when the password is unchanged.
type candidate struct {
	user     *domain.User
	password *string
}

// userCheck inspects a candidate and records violations. A returned error
// aborts the pass (store failures only).
type userCheck func(ctx context.Context, c *candidate, v violations) error

// userValidator runs an ordered list of checks before any persistence call.
type userValidator struct {
	repo   ports.UserRepository
	v      *validator.Validate
	checks []userCheck
}

func newUserValidator(repo ports.UserRepository) *userValidator {
	uv := &userValidator{repo: repo, v: validator.New()}
	uv.checks = []userCheck{
		uv.checkEmail,
		uv.checkUsername,
		uv.checkPassword,
		uv.checkNames,
		uv.checkRoles,
		uv.uniqueEmail,
		uv.uniqueUsername,
	}
	return uv
}

// validate returns a domain validation error carrying every violation, or nil.
func (uv *userValidator) validate(ctx context.Context, c *candidate) error {
	v := violations{}
	for _, check := range uv.checks {
		if err := check(ctx, c, v); err != nil {
			return err
		}
	}
	if len(v) > 0 {
		return domain.NewValidationError(v)
	}
	return nil
}

func (uv *userValidator) checkEmail(_ context.Context, c *candidate, v violations) error {
	email := c.user.Email
	switch {
	case email == "":
		v.add("email", "Email is required.")
	case len(email) > maxIdentLength:
		v.add("email", fmt.Sprintf("Email cannot be longer than %d characters.", maxIdentLength))
	case uv.v.Var(email, "email") != nil:
		v.add("email", "Please enter a valid email address.")
	}
	return nil
}

func (uv *userValidator) checkUsername(_ context.Context, c *candidate, v violations) error {
	username := c.user.Username
	switch {
	case strings.TrimSpace(username) == "":
		v.add("username", "Username is required.")
	case len(username) > maxIdentLength:
		v.add("username", fmt.Sprintf("Username cannot be longer than %d characters.", maxIdentLength))
	}
	return nil
}

func (uv *userValidator) checkPassword(_ context.Context, c *candidate, v violations) error {
	if c.password == nil {
		if c.user.PasswordHash == "" {
			v.add("password", "Password is required.")
		}
		return nil
	}
	switch {
	case *c.password == "":
		v.add("password", "Password is required.")
	case len(*c.password) > maxPasswordBytes:
		v.add("password", fmt.Sprintf("Password cannot be longer than %d bytes.", maxPasswordBytes))
	}
	return nil
}

func (uv *userValidator) checkNames(_ context.Context, c *candidate, v violations) error {
	if len(c.user.FirstName) > maxNameLength {
		v.add("firstName", fmt.Sprintf("First name cannot be longer than %d characters.", maxNameLength))
	}
	if len(c.user.LastName) > maxNameLength {
		v.add("lastName", fmt.Sprintf("Last name cannot be longer than %d characters.", maxNameLength))
	}
	return nil
}

func (uv *userValidator) checkRoles(_ context.Context, c *candidate, v violations) error {
	for _, r := range c.user.Roles {
		if !strings.HasPrefix(r, "ROLE_") || len(r) == len("ROLE_") {
			v.add("roles", fmt.Sprintf("Invalid role %q.", r))
			return nil
		}
	}
	return nil
}

func (uv *userValidator) uniqueEmail(ctx context.Context, c *candidate, v violations) error {
	return uv.unique(ctx, c, v, "email", c.user.Email, msgEmailTaken, uv.repo.ExistsByEmail, uv.repo.FindByEmail)
}

func (uv *userValidator) uniqueUsername(ctx context.Context, c *candidate, v violations) error {
	return uv.unique(ctx, c, v, "username", c.user.Username, msgUsernameTaken, uv.repo.ExistsByUsername, uv.repo.FindByUsername)
}

// unique flags value when another user already holds it. Empty values are
// left to the required-field checks.
func (uv *userValidator) unique(
	ctx context.Context,
	c *candidate,
	v violations,
	field, value, msg string,
	exists func(context.Context, string) (bool, error),
	find func(context.Context, string) (*domain.User, error),
) error {
	if value == "" {
		return nil
	}
	taken, err := exists(ctx, value)
	if err != nil {
		return fmt.Errorf("check %s uniqueness: %w", field, err)
	}
	if !taken {
		return nil
	}
	if c.user.ID != 0 {
		owner, err := find(ctx, value)
		if errors.Is(err, domain.ErrUserNotFound) {
			return nil
		}
		if err != nil {
			return fmt.Errorf("check %s uniqueness: %w", field, err)
		}
		if owner.ID == c.user.ID {
			return nil
		}
	}
	v.add(field, msg)
	return nil
}

// duplicateMessages are the client messages used when a save collides.
type duplicateMessages struct {
	email    string
	username string
}

var (
	registerDuplicates = duplicateMessages{
		email:    "User with this email already exists",
		username: "User with this username already exists",
	}
	updateDuplicates = duplicateMessages{
		email:    "Email is already taken",
		username: "Username is already taken",
	}
)

// translateDuplicate maps a store uniqueness failure to the 409 errors. The
// storage index does not say which column collided, so the email owner is
// looked up to attribute it.
func translateDuplicate(ctx context.Context, repo ports.UserRepository, u *domain.User, err error, msgs duplicateMessages) error {
	if errors.Is(err, domain.ErrDuplicateEmail) {
		return domain.NewError(domain.ErrDuplicateEmail, msgs.email)
	}
	if !errors.Is(err, domain.ErrDuplicateKey) {
		return err
	}
	if owner, ferr := repo.FindByEmail(ctx, u.Email); ferr == nil && owner.ID != u.ID {
		return domain.NewError(domain.ErrDuplicateEmail, msgs.email)
	}
	return domain.NewError(domain.ErrDuplicateUsername, msgs.username)
}

// normalizeEmail trims and lowercases an address so uniqueness and login
// lookups are case-insensitive.
func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// userNotFound wraps a store miss with the client message, passing other
// errors through.
func userNotFound(err error) error {
	if errors.Is(err, domain.ErrUserNotFound) {
		return domain.NewError(domain.ErrUserNotFound, "User not found")
	}
	return err
}
