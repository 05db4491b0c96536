package services_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/studyloop/studyplan-api/internal/config"
	"github.com/studyloop/studyplan-api/internal/services"
	"github.com/studyloop/studyplan-api/internal/storage"
)

// TestHealthCheckMemory tests a healthy memory-backed service
func TestHealthCheckMemory(t *testing.T) {
	cfg := &config.Config{StorageDriver: "memory"}
	result := services.HealthCheck(context.Background(), cfg, storage.NewMemStorage())

	if result.Status != "healthy" {
		t.Errorf("Expected healthy status, got %q", result.Status)
	}
	if result.Storage != "ok" {
		t.Errorf("Expected storage ok, got %q", result.Storage)
	}
	// Calendar is not configured, so it is not reported
	if result.Calendar != "" {
		t.Errorf("Expected no calendar status, got %q", result.Calendar)
	}
	// Neither is the authorizer
	if _, ok := result.Details["authorizer_initialized"]; ok {
		t.Error("Expected no authorizer detail without AUTHZ_URL")
	}
}

// TestHealthCheckAuthorizerDetail tests the lazy authorizer state reporting
func TestHealthCheckAuthorizerDetail(t *testing.T) {
	cfg := &config.Config{
		StorageDriver: "memory",
		AuthzURL:      "https://auth.example.com",
		AuthzClientID: "client",
	}
	result := services.HealthCheck(context.Background(), cfg, storage.NewMemStorage())

	// No guarded request has run, so the client has not initialized
	if result.Details["authorizer_initialized"] != "false" {
		t.Errorf("Expected authorizer_initialized=false, got %q", result.Details["authorizer_initialized"])
	}
	if result.Status != "healthy" {
		t.Errorf("Expected healthy status, got %q", result.Status)
	}
}

// TestHealthCheckCalendar tests calendar reachability reporting
func TestHealthCheckCalendar(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	defer server.Close()

	cfg := &config.Config{StorageDriver: "memory", CalendarURL: server.URL}
	result := services.HealthCheck(context.Background(), cfg, storage.NewMemStorage())
	if result.Status != "healthy" {
		t.Errorf("Expected healthy status, got %q", result.Status)
	}
	if result.Calendar != "ok" {
		t.Errorf("Expected calendar ok, got %q", result.Calendar)
	}

	// Unreachable calendar server turns the service unhealthy
	cfg.CalendarURL = "http://127.0.0.1:1"
	result = services.HealthCheck(context.Background(), cfg, storage.NewMemStorage())
	if result.Status != "unhealthy" {
		t.Errorf("Expected unhealthy status, got %q", result.Status)
	}
	if result.Calendar != "unreachable" {
		t.Errorf("Expected calendar unreachable, got %q", result.Calendar)
	}
}
