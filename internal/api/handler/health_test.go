package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
)

func serveHealth(t *testing.T, h *HealthHandler, fn func(echo.Context) error, path string) (*httptest.ResponseRecorder, map[string]any) {
	t.Helper()
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, path, nil)
	rec := httptest.NewRecorder()
	if err := fn(e.NewContext(req, rec)); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	var body map[string]any
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode body: %v", err)
	}
	return rec, body
}

func okCheck(name string) Check {
	return Check{Name: name, Ping: func(context.Context) error { return nil }}
}

func TestHealthHandler_Liveness(t *testing.T) {
	h := NewHealthHandler("1.0.0", "test")
	rec, body := serveHealth(t, h, h.Liveness, "/health")
	if rec.Code != http.StatusOK || body["status"] != "ok" {
		t.Fatalf("unexpected liveness: %d %v", rec.Code, body)
	}
}

func TestHealthHandler_PingAndInfo(t *testing.T) {
	h := NewHealthHandler("1.2.3", "staging")

	_, body := serveHealth(t, h, h.Ping, "/api/ping")
	if body["message"] != "pong" || body["timestamp"] == "" {
		t.Fatalf("unexpected ping: %v", body)
	}

	_, body = serveHealth(t, h, h.Info, "/api/health")
	if body["status"] != "OK" || body["version"] != "1.2.3" || body["environment"] != "staging" {
		t.Fatalf("unexpected info: %v", body)
	}
	if body["go_version"] == "" || body["uptime"] == nil {
		t.Fatalf("expected runtime fields, got %v", body)
	}
}

func TestHealthHandler_Readiness(t *testing.T) {
	h := NewHealthHandler("1.0.0", "test", okCheck("mongodb"), okCheck("redis"))
	rec, body := serveHealth(t, h, h.Readiness, "/health/ready")
	if rec.Code != http.StatusOK || body["status"] != "ok" {
		t.Fatalf("expected ready, got %d %v", rec.Code, body)
	}

	down := Check{Name: "redis", Ping: func(context.Context) error { return errors.New("connection refused") }}
	h = NewHealthHandler("1.0.0", "test", okCheck("mongodb"), down)
	rec, body = serveHealth(t, h, h.Readiness, "/health/ready")
	if rec.Code != http.StatusServiceUnavailable || body["status"] != "degraded" {
		t.Fatalf("expected degraded 503, got %d %v", rec.Code, body)
	}
	deps, _ := body["dependencies"].(map[string]any)
	redis, _ := deps["redis"].(map[string]any)
	if redis["status"] != "unhealthy" || redis["error"] != "connection refused" {
		t.Fatalf("unexpected redis status: %v", redis)
	}
}

func TestHealthHandler_Status(t *testing.T) {
	h := NewHealthHandler("1.0.0", "test", okCheck("sqlite"))
	rec, body := serveHealth(t, h, h.Status, "/api/status")
	if rec.Code != http.StatusOK || body["overall_status"] != "healthy" {
		t.Fatalf("expected healthy, got %d %v", rec.Code, body)
	}
	checks, _ := body["checks"].(map[string]any)
	sqlite, _ := checks["sqlite"].(map[string]any)
	if sqlite["status"] != "healthy" {
		t.Fatalf("unexpected check status: %v", sqlite)
	}

	down := Check{Name: "sqlite", Ping: func(context.Context) error { return errors.New("locked") }}
	h = NewHealthHandler("1.0.0", "test", down)
	rec, body = serveHealth(t, h, h.Status, "/api/status")
	if rec.Code != http.StatusServiceUnavailable || body["overall_status"] != "unhealthy" {
		t.Fatalf("expected unhealthy 503, got %d %v", rec.Code, body)
	}
}
