package domain

import "errors"

var (
	ErrBadRequest         = errors.New("bad request")
	ErrValidation         = errors.New("validation failed")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrAccountDeactivated = errors.New("account is deactivated")
	ErrForbidden          = errors.New("access forbidden")
	ErrSelfDelete         = errors.New("cannot delete own account")
	ErrSelfDeactivate     = errors.New("cannot deactivate own account")
	ErrUserNotFound       = errors.New("user not found")
	ErrDuplicateEmail     = errors.New("email already registered")
	ErrDuplicateUsername  = errors.New("username already taken")
	ErrDuplicateKey       = errors.New("duplicate key")
	ErrIncorrectPassword  = errors.New("current password is incorrect")
	ErrWeakPassword       = errors.New("password too short")
	ErrSessionNotFound    = errors.New("session not found")
	ErrInvalidToken       = errors.New("invalid token")
)

// Error attaches a client-facing message, and optionally per-field
// messages, to one of the sentinel errors above.
type Error struct {
	Kind    error
	Message string
	Fields  map[string]string
}

func NewError(kind error, message string) *Error {
	return &Error{Kind: kind, Message: message}
}

// NewValidationError wraps field violations as ErrValidation.
func NewValidationError(fields map[string]string) *Error {
	return &Error{Kind: ErrValidation, Message: "Validation failed", Fields: fields}
}

func (e *Error) Error() string {
	if e.Message != "" {
		return e.Message
	}
	return e.Kind.Error()
}

func (e *Error) Unwrap() error { return e.Kind }

// WithFields returns e with per-field messages attached.
func (e *Error) WithFields(fields map[string]string) *Error {
	e.Fields = fields
	return e
}
