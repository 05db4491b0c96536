package handlers_test

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/studyloop/studyplan-api/internal/handlers"
	"github.com/studyloop/studyplan-api/internal/storage"
)

func setupUserApp(store storage.Storage) *fiber.App {
	app := fiber.New()
	handler := &handlers.UserHandler{Store: store}
	app.Post("/api/users", handler.CreateUser)
	app.Get("/api/users/:id", handler.GetUser)
	app.Get("/api/users", handler.LookupUser)
	return app
}

// TestCreateUser tests the POST /api/users endpoint
func TestCreateUser(t *testing.T) {
	app := setupUserApp(storage.NewMemStorage())

	body, _ := json.Marshal(map[string]string{"username": "alice", "password": "secret"})
	req := httptest.NewRequest("POST", "/api/users", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")

	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("Failed to execute request: %v", err)
	}

	// Check status code
	if resp.StatusCode != 201 {
		t.Errorf("Expected status 201, got %d", resp.StatusCode)
	}

	var result map[string]interface{}
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		t.Fatalf("Failed to decode response: %v", err)
	}
	if result["username"] != "alice" {
		t.Errorf("Expected username alice, got %v", result["username"])
	}
	if result["id"] == nil {
		t.Error("Expected id in response")
	}
}

// TestCreateUserConflict tests duplicate username rejection
func TestCreateUserConflict(t *testing.T) {
	app := setupUserApp(storage.NewMemStorage())

	body, _ := json.Marshal(map[string]string{"username": "alice", "password": "secret"})
	for i, wantStatus := range []int{201, 409} {
		req := httptest.NewRequest("POST", "/api/users", bytes.NewReader(body))
		req.Header.Set("Content-Type", "application/json")

		resp, err := app.Test(req)
		if err != nil {
			t.Fatalf("Failed to execute request %d: %v", i, err)
		}
		if resp.StatusCode != wantStatus {
			t.Errorf("Expected status %d on request %d, got %d", wantStatus, i, resp.StatusCode)
		}
	}
}

// TestCreateUserValidation tests missing field rejection
func TestCreateUserValidation(t *testing.T) {
	app := setupUserApp(storage.NewMemStorage())

	body, _ := json.Marshal(map[string]string{"username": "alice"})
	req := httptest.NewRequest("POST", "/api/users", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")

	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("Failed to execute request: %v", err)
	}
	if resp.StatusCode != 400 {
		t.Errorf("Expected status 400, got %d", resp.StatusCode)
	}

	// Verify the error response shape
	var result map[string]interface{}
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		t.Fatalf("Failed to decode response: %v", err)
	}
	if result["ok"] != false {
		t.Error("Expected ok=false in error response")
	}
	if result["type"] != "users.validation.input" {
		t.Errorf("Expected validation error type, got %v", result["type"])
	}
}

// TestLookupUser tests the GET /api/users?username= endpoint
func TestLookupUser(t *testing.T) {
	store := storage.NewMemStorage()
	app := setupUserApp(store)

	if _, err := store.CreateUser(context.Background(), storage.NewUser{Username: "bob", Password: "pw"}); err != nil {
		t.Fatalf("Failed to seed user: %v", err)
	}

	req := httptest.NewRequest("GET", "/api/users?username=bob", nil)
	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("Failed to execute request: %v", err)
	}
	if resp.StatusCode != 200 {
		t.Errorf("Expected status 200, got %d", resp.StatusCode)
	}

	// Missing query parameter is a 400
	req = httptest.NewRequest("GET", "/api/users", nil)
	resp, err = app.Test(req)
	if err != nil {
		t.Fatalf("Failed to execute request: %v", err)
	}
	if resp.StatusCode != 400 {
		t.Errorf("Expected status 400 without username, got %d", resp.StatusCode)
	}

	// Unknown username is a 404
	req = httptest.NewRequest("GET", "/api/users?username=nobody", nil)
	resp, err = app.Test(req)
	if err != nil {
		t.Fatalf("Failed to execute request: %v", err)
	}
	if resp.StatusCode != 404 {
		t.Errorf("Expected status 404 for unknown user, got %d", resp.StatusCode)
	}
}

// TestGetUserNotFound tests 404 responses
func TestGetUserNotFound(t *testing.T) {
	app := setupUserApp(storage.NewMemStorage())

	req := httptest.NewRequest("GET", "/api/users/42", nil)
	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("Failed to execute request: %v", err)
	}
	if resp.StatusCode != 404 {
		t.Errorf("Expected status 404, got %d", resp.StatusCode)
	}
}
