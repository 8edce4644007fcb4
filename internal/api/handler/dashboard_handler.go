package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/adminpanel/identity-api/internal/api/middleware"
	"github.com/adminpanel/identity-api/internal/core/domain"
	"github.com/adminpanel/identity-api/internal/core/ports"
)

const welcomeMessage = "Welcome! You have successfully logged in."

// DashboardHandler serves the browser surface. Pages themselves are rendered
// client side; these endpoints return the data behind them.
type DashboardHandler struct {
	authService  ports.AuthService
	adminService ports.AdminService
}

func NewDashboardHandler(authService ports.AuthService, adminService ports.AdminService) *DashboardHandler {
	return &DashboardHandler{authService: authService, adminService: adminService}
}

type dashboardStats struct {
	TotalUsers  int    `json:"total_users"`
	ActiveUsers int    `json:"active_users"`
	UserRole    string `json:"user_role"`
}

type dashboardData struct {
	User    domain.UserView `json:"user"`
	Stats   dashboardStats  `json:"stats"`
	Welcome string          `json:"welcome,omitempty"`
}

// Dashboard returns the caller's summary. The welcome message appears on the
// first visit of each login session only.
//
// @Summary      Dashboard summary
// @Tags         dashboard
// @Produce      json
// @Success      200  {object}  Response
// @Failure      302  "Redirect to /login when anonymous"
// @Router       /dashboard [get]
func (h *DashboardHandler) Dashboard(c echo.Context) error {
	p, err := currentPrincipal(c)
	if err != nil {
		return err
	}
	ctx := c.Request().Context()

	user, err := h.authService.Profile(ctx, p.UserID)
	if err != nil {
		return err
	}
	stats, err := h.adminService.Stats(ctx)
	if err != nil {
		return err
	}
	first, err := h.authService.VisitDashboard(ctx, p)
	if err != nil {
		return err
	}

	view := user.View()
	data := dashboardData{
		User: view,
		Stats: dashboardStats{
			TotalUsers:  stats.TotalUsers,
			ActiveUsers: stats.ActiveUsers,
			UserRole:    view.Roles[0],
		},
	}
	if first {
		data.Welcome = welcomeMessage
	}
	return respond(c, http.StatusOK, "", data)
}

// LoginPage tells browser clients where to post credentials. Callers that
// are already signed in go straight to the dashboard.
//
// @Summary      Login page hint
// @Tags         dashboard
// @Produce      json
// @Success      200  {object}  Response
// @Router       /login [get]
func (h *DashboardHandler) LoginPage(c echo.Context) error {
	if middleware.PrincipalFrom(c) != nil {
		return c.Redirect(http.StatusFound, "/dashboard")
	}
	return respond(c, http.StatusOK, "Please sign in", Data{
		"endpoint": "/api/auth/login",
		"method":   http.MethodPost,
		"fields":   []string{"email", "password"},
	})
}
