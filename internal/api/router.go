package api

import (
	"strings"

	"github.com/labstack/echo-contrib/echoprometheus"
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog"
	echoSwagger "github.com/swaggo/echo-swagger"

	_ "github.com/adminpanel/identity-api/docs"
	"github.com/adminpanel/identity-api/internal/api/handler"
	"github.com/adminpanel/identity-api/internal/api/middleware"
	"github.com/adminpanel/identity-api/internal/core/domain"
	"github.com/adminpanel/identity-api/internal/core/ports"
	"github.com/adminpanel/identity-api/internal/core/service"
)

// Deps are the adapters the router wires into the services.
type Deps struct {
	Users    ports.UserRepository
	Sessions ports.SessionStore
	Hasher   ports.PasswordHasher
	Tokens   *service.TokenIssuer
	Logger   zerolog.Logger

	// Checks feed /health/ready and /api/status.
	Checks       []handler.Check
	Version      string
	Environment  string
	SecureCookie bool

	// Registry receives the HTTP request metrics. A fresh registry is used
	// when nil.
	Registry *prometheus.Registry
}

// NewRouter builds and returns the Echo instance with all routes registered.
func NewRouter(d Deps) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Validator = handler.NewValidator()
	e.HTTPErrorHandler = NewHTTPErrorHandler(d.Logger)

	reg := d.Registry
	if reg == nil {
		reg = prometheus.NewRegistry()
	}

	// --- Dependencies ---
	authService := service.NewAuthService(d.Users, d.Sessions, d.Hasher, d.Tokens, d.Logger.With().Str("component", "auth").Logger())
	adminService := service.NewAdminService(d.Users, d.Hasher, d.Logger.With().Str("component", "admin").Logger())
	userService := service.NewUserService(d.Users, d.Logger.With().Str("component", "users").Logger())

	authHandler := handler.NewAuthHandler(authService, d.SecureCookie)
	adminHandler := handler.NewAdminHandler(adminService)
	userHandler := handler.NewUserHandler(userService)
	dashboardHandler := handler.NewDashboardHandler(authService, adminService)
	healthHandler := handler.NewHealthHandler(d.Version, d.Environment, d.Checks...)

	// --- Global middleware ---
	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.RequestID())
	e.Use(echoprometheus.NewMiddlewareWithConfig(echoprometheus.MiddlewareConfig{
		Subsystem:  "identity",
		Registerer: reg,
		Skipper: func(c echo.Context) bool {
			p := c.Path()
			return p == "/metrics" || strings.HasPrefix(p, "/health") || strings.HasPrefix(p, "/swagger")
		},
	}))
	e.Use(middleware.Authenticate(authService, d.Logger))
	e.Use(middleware.RequestLogger(d.Logger))

	requireUser := middleware.RequireRole(middleware.SurfaceAPI, domain.RoleUser)
	requireAdmin := middleware.RequireRole(middleware.SurfaceAPI, domain.RoleAdmin)

	// --- Auth routes ---
	auth := e.Group("/api/auth")
	auth.POST("/register", authHandler.Register)
	auth.POST("/login", authHandler.Login)
	auth.GET("/me", authHandler.Me, requireUser)
	auth.PUT("/me", authHandler.UpdateMe, requireUser)
	auth.PATCH("/me", authHandler.UpdateMe, requireUser)
	auth.POST("/change-password", authHandler.ChangePassword, requireUser)
	auth.POST("/logout", authHandler.Logout, requireUser)

	// --- Member directory ---
	e.GET("/api/users", userHandler.List, requireUser)

	// --- Admin routes ---
	admin := e.Group("/api/admin", requireAdmin)
	admin.GET("/users", adminHandler.ListUsers)
	admin.POST("/users", adminHandler.CreateUser)
	admin.GET("/users/:id", adminHandler.GetUser)
	admin.PUT("/users/:id", adminHandler.UpdateUser)
	admin.PATCH("/users/:id", adminHandler.UpdateUser)
	admin.DELETE("/users/:id", adminHandler.DeleteUser)
	admin.POST("/users/:id/activate", adminHandler.ActivateUser)
	admin.POST("/users/:id/deactivate", adminHandler.DeactivateUser)
	admin.PUT("/users/:id/roles", adminHandler.UpdateRoles)
	admin.GET("/stats", adminHandler.Stats)

	// --- Browser routes ---
	e.GET("/login", dashboardHandler.LoginPage)
	browserUser := middleware.RequireRole(middleware.SurfaceBrowser, domain.RoleUser)
	e.GET("/dashboard", dashboardHandler.Dashboard, browserUser)
	e.GET("/users", userHandler.Directory, browserUser)

	// --- Health probes (no auth required) ---
	e.GET("/health", healthHandler.Liveness)        // liveness  – is the process alive?
	e.GET("/health/ready", healthHandler.Readiness) // readiness – are dependencies up?
	e.GET("/api/health", healthHandler.Info)
	e.GET("/api/ping", healthHandler.Ping)
	e.GET("/api/status", healthHandler.Status)

	// --- Ops ---
	e.GET("/metrics", echoprometheus.NewHandlerWithConfig(echoprometheus.HandlerConfig{
		Gatherer: prometheus.Gatherers{reg, prometheus.DefaultGatherer},
	}))
	e.GET("/swagger/*", echoSwagger.WrapHandler)

	return e
}
