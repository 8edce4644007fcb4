package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/adminpanel/identity-api/internal/api/middleware"
	"github.com/adminpanel/identity-api/internal/core/domain"
)

// currentPrincipal returns the principal set by the Authenticate middleware.
// Routes are already behind RequireRole, so a missing principal means the
// middleware chain is misconfigured; answer 401 rather than panic.
func currentPrincipal(c echo.Context) (*domain.Principal, error) {
	p := middleware.PrincipalFrom(c)
	if p == nil {
		return nil, echo.NewHTTPError(http.StatusUnauthorized, "Authentication required")
	}
	return p, nil
}
