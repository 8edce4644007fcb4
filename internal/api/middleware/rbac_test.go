package middleware

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"

	"github.com/adminpanel/identity-api/internal/core/domain"
)

func newRBACContext(p *domain.Principal) (echo.Context, *httptest.ResponseRecorder) {
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	if p != nil {
		c.Set(PrincipalKey, p)
	}
	return c, rec
}

func TestRequireRole_Allows(t *testing.T) {
	c, rec := newRBACContext(&domain.Principal{UserID: 1, Roles: []string{domain.RoleAdmin, domain.RoleUser}})

	called := false
	handler := RequireRole(SurfaceAPI, domain.RoleAdmin)(func(c echo.Context) error {
		called = true
		return c.NoContent(http.StatusOK)
	})

	if err := handler(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if !called {
		t.Fatalf("next handler not called")
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
}

func TestRequireRole_Forbids(t *testing.T) {
	c, _ := newRBACContext(&domain.Principal{UserID: 1, Roles: []string{domain.RoleUser}})

	handler := RequireRole(SurfaceAPI, domain.RoleAdmin)(func(c echo.Context) error {
		t.Fatalf("should not reach next handler")
		return nil
	})

	err := handler(c)
	if !errors.Is(err, domain.ErrForbidden) {
		t.Fatalf("expected ErrForbidden, got %v", err)
	}
	if err.Error() != "Access denied" {
		t.Fatalf("unexpected message: %v", err)
	}
}

func TestRequireRole_NoHierarchy(t *testing.T) {
	// an admin without ROLE_USER in the principal does not pass a user gate
	c, _ := newRBACContext(&domain.Principal{UserID: 1, Roles: []string{domain.RoleAdmin}})

	handler := RequireRole(SurfaceAPI, "ROLE_EDITOR")(func(c echo.Context) error {
		t.Fatalf("should not reach next handler")
		return nil
	})

	if err := handler(c); !errors.Is(err, domain.ErrForbidden) {
		t.Fatalf("expected ErrForbidden, got %v", err)
	}
}

func TestRequireRole_AnonymousAPI(t *testing.T) {
	c, _ := newRBACContext(nil)

	handler := RequireRole(SurfaceAPI, domain.RoleUser)(func(c echo.Context) error {
		t.Fatalf("should not reach next handler")
		return nil
	})

	var he *echo.HTTPError
	if err := handler(c); !errors.As(err, &he) || he.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %v", err)
	}
}

func TestRequireRole_AnonymousBrowserRedirects(t *testing.T) {
	c, rec := newRBACContext(nil)

	handler := RequireRole(SurfaceBrowser, domain.RoleUser)(func(c echo.Context) error {
		t.Fatalf("should not reach next handler")
		return nil
	})

	if err := handler(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusFound {
		t.Fatalf("expected 302, got %d", rec.Code)
	}
	if loc := rec.Header().Get("Location"); loc != LoginPath {
		t.Fatalf("expected redirect to %s, got %q", LoginPath, loc)
	}
}
