package handler

import (
	"context"
	"net/http"
	"runtime"
	"time"

	"github.com/labstack/echo/v4"
)

// Check is a named dependency probe used by the readiness endpoints.
type Check struct {
	Name string
	Ping func(ctx context.Context) error
}

// HealthHandler serves liveness, readiness and service info.
type HealthHandler struct {
	version     string
	environment string
	started     time.Time
	checks      []Check
	now         func() time.Time
}

func NewHealthHandler(version, environment string, checks ...Check) *HealthHandler {
	return &HealthHandler{
		version:     version,
		environment: environment,
		started:     time.Now(),
		checks:      checks,
		now:         time.Now,
	}
}

// Liveness handles GET /health. It only confirms the process is alive.
func (h *HealthHandler) Liveness(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]string{
		"status": "ok",
	})
}

// Ping handles GET /api/ping.
func (h *HealthHandler) Ping(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]string{
		"message":   "pong",
		"timestamp": h.now().Format(time.RFC3339),
	})
}

type infoResponse struct {
	Status      string `json:"status"`
	Timestamp   string `json:"timestamp"`
	Version     string `json:"version"`
	Environment string `json:"environment"`
	GoVersion   string `json:"go_version"`
	Uptime      string `json:"uptime"`
}

// Info handles GET /api/health.
func (h *HealthHandler) Info(c echo.Context) error {
	now := h.now()
	return c.JSON(http.StatusOK, infoResponse{
		Status:      "OK",
		Timestamp:   now.Format(time.RFC3339),
		Version:     h.version,
		Environment: h.environment,
		GoVersion:   runtime.Version(),
		Uptime:      now.Sub(h.started).Truncate(time.Second).String(),
	})
}

type dependencyStatus struct {
	Status string `json:"status"`
	Error  string `json:"error,omitempty"`
}

type readinessResponse struct {
	Status       string                      `json:"status"`
	Dependencies map[string]dependencyStatus `json:"dependencies"`
}

// Readiness handles GET /health/ready: 503 while any dependency is down.
func (h *HealthHandler) Readiness(c echo.Context) error {
	deps, healthy := h.run(c.Request().Context())

	status, code := "ok", http.StatusOK
	if !healthy {
		status, code = "degraded", http.StatusServiceUnavailable
	}
	return c.JSON(code, readinessResponse{Status: status, Dependencies: deps})
}

type statusResponse struct {
	OverallStatus string                      `json:"overall_status"`
	Checks        map[string]dependencyStatus `json:"checks"`
	Timestamp     string                      `json:"timestamp"`
}

// Status handles GET /api/status, the same checks in the healthy/unhealthy
// vocabulary.
func (h *HealthHandler) Status(c echo.Context) error {
	deps, healthy := h.run(c.Request().Context())
	for name, d := range deps {
		if d.Status == "ok" {
			d.Status = "healthy"
		}
		deps[name] = d
	}

	overall, code := "healthy", http.StatusOK
	if !healthy {
		overall, code = "unhealthy", http.StatusServiceUnavailable
	}
	return c.JSON(code, statusResponse{
		OverallStatus: overall,
		Checks:        deps,
		Timestamp:     h.now().Format(time.RFC3339),
	})
}

func (h *HealthHandler) run(ctx context.Context) (map[string]dependencyStatus, bool) {
	ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()

	deps := make(map[string]dependencyStatus, len(h.checks))
	healthy := true
	for _, chk := range h.checks {
		if err := chk.Ping(ctx); err != nil {
			deps[chk.Name] = dependencyStatus{Status: "unhealthy", Error: err.Error()}
			healthy = false
			continue
		}
		deps[chk.Name] = dependencyStatus{Status: "ok"}
	}
	return deps, healthy
}
