package middleware

import (
	"context"
	"errors"
	"strings"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/adminpanel/identity-api/internal/core/domain"
)

const (
	// PrincipalKey is the echo context key holding the *domain.Principal.
	PrincipalKey = "principal"
	// SessionCookie carries the same token as the Authorization header for
	// browser routes.
	SessionCookie = "session_token"
)

// PrincipalResolver turns a raw token into a live principal.
type PrincipalResolver interface {
	Authenticate(ctx context.Context, token string) (*domain.Principal, error)
}

// Authenticate resolves the caller from the Bearer header or the session
// cookie and stores the principal on the context. It never rejects a
// request: a missing, invalid, expired or revoked token leaves the caller
// anonymous and RequireRole decides what that means for the route.
func Authenticate(resolver PrincipalResolver, log zerolog.Logger) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			token := tokenFrom(c)
			if token == "" {
				return next(c)
			}

			p, err := resolver.Authenticate(c.Request().Context(), token)
			switch {
			case err == nil:
				c.Set(PrincipalKey, p)
			case errors.Is(err, domain.ErrInvalidToken), errors.Is(err, domain.ErrAccountDeactivated):
				log.Debug().Err(err).Str("path", c.Path()).Msg("token rejected")
			default:
				log.Error().Err(err).Str("path", c.Path()).Msg("resolve principal")
			}
			return next(c)
		}
	}
}

// PrincipalFrom returns the authenticated principal, or nil for anonymous
// callers.
func PrincipalFrom(c echo.Context) *domain.Principal {
	p, _ := c.Get(PrincipalKey).(*domain.Principal)
	return p
}

func tokenFrom(c echo.Context) string {
	if header := c.Request().Header.Get(echo.HeaderAuthorization); header != "" {
		parts := strings.SplitN(header, " ", 2)
		if len(parts) == 2 && strings.EqualFold(parts[0], "bearer") {
			return strings.TrimSpace(parts[1])
		}
		return ""
	}
	if cookie, err := c.Cookie(SessionCookie); err == nil {
		return cookie.Value
	}
	return ""
}
