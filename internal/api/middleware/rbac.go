package middleware

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/adminpanel/identity-api/internal/core/domain"
)

// Surface tells RequireRole how to treat anonymous callers.
type Surface int

const (
	// SurfaceAPI answers anonymous callers with 401 JSON.
	SurfaceAPI Surface = iota
	// SurfaceBrowser redirects anonymous callers to the login page.
	SurfaceBrowser
)

// LoginPath is where browser routes send anonymous callers.
const LoginPath = "/login"

// RequireRole lets the request through when the principal holds role. Roles
// are flat: ROLE_ADMIN does not imply anything else.
func RequireRole(surface Surface, role string) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			p := PrincipalFrom(c)
			if p == nil {
				if surface == SurfaceBrowser {
					return c.Redirect(http.StatusFound, LoginPath)
				}
				return echo.NewHTTPError(http.StatusUnauthorized, "Authentication required")
			}
			if !p.HasRole(role) {
				return domain.NewError(domain.ErrForbidden, "Access denied")
			}
			return next(c)
		}
	}
}
