package calendar_test

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/studyloop/studyplan-api/internal/calendar"
	"github.com/studyloop/studyplan-api/internal/models"
)

// TestEventFromTask tests the task-to-event mapping
func TestEventFromTask(t *testing.T) {
	desc := "spaced repetition pass"
	resource := "flashcards"
	task := models.StudyTask{
		ID:          7,
		Title:       "Review chapter 3",
		Description: &desc,
		Date:        "2024-03-01",
		Duration:    90,
		Resource:    &resource,
		TaskType:    models.TaskTypeReview,
	}

	event, err := calendar.EventFromTask(task)
	if err != nil {
		t.Fatalf("Failed to map task: %v", err)
	}

	wantStart := time.Date(2024, 3, 1, 10, 0, 0, 0, time.Local)
	if !event.Start.Equal(wantStart) {
		t.Errorf("Expected start %v, got %v", wantStart, event.Start)
	}
	if got := event.End.Sub(event.Start); got != 90*time.Minute {
		t.Errorf("Expected 90 minute event, got %v", got)
	}
	if event.ColorID != "2" {
		t.Errorf("Expected review colorId 2, got %q", event.ColorID)
	}
	if event.Description != desc {
		t.Errorf("Expected description carried over, got %q", event.Description)
	}
	if event.Location != resource {
		t.Errorf("Expected resource as location, got %q", event.Location)
	}
}

// TestEventFromTaskTimestampDate tests that timestamp-shaped dates still map
func TestEventFromTaskTimestampDate(t *testing.T) {
	task := models.StudyTask{Title: "morning block", Date: "2024-03-01T00:00:00.000Z", Duration: 30}

	event, err := calendar.EventFromTask(task)
	if err != nil {
		t.Fatalf("Failed to map task: %v", err)
	}
	wantStart := time.Date(2024, 3, 1, 10, 0, 0, 0, time.Local)
	if !event.Start.Equal(wantStart) {
		t.Errorf("Expected start %v, got %v", wantStart, event.Start)
	}
	// Unknown task type falls back to the default color
	if event.ColorID != "5" {
		t.Errorf("Expected default colorId 5, got %q", event.ColorID)
	}
}

// TestEventFromTaskDSTTransition tests that the start stays 10:00 wall clock
// on a day where the clocks jump forward
func TestEventFromTaskDSTTransition(t *testing.T) {
	ny, err := time.LoadLocation("America/New_York")
	if err != nil {
		t.Skipf("Timezone database unavailable: %v", err)
	}
	restore := time.Local
	time.Local = ny
	defer func() { time.Local = restore }()

	// 2024-03-10: US spring-forward, 02:00 -> 03:00
	task := models.StudyTask{Title: "morning block", Date: "2024-03-10", Duration: 60}
	event, err := calendar.EventFromTask(task)
	if err != nil {
		t.Fatalf("Failed to map task: %v", err)
	}
	if event.Start.Hour() != 10 {
		t.Errorf("Expected 10:00 local on DST day, got %02d:00", event.Start.Hour())
	}
}

// TestEventFromTaskBadDate tests that a malformed date is an error
func TestEventFromTaskBadDate(t *testing.T) {
	task := models.StudyTask{Title: "broken", Date: "March 1st"}
	if _, err := calendar.EventFromTask(task); err == nil {
		t.Error("Expected error for malformed date")
	}
}

// TestExportTasksSuccess tests the happy export path
func TestExportTasksSuccess(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/calendar/google/export" {
			t.Errorf("Unexpected path %s", r.URL.Path)
		}
		var body map[string]interface{}
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			t.Fatalf("Failed to decode export payload: %v", err)
		}
		if body["calendarName"] != "Exam Prep" {
			t.Errorf("Expected calendar name in payload, got %v", body["calendarName"])
		}
		if body["syncMode"] != calendar.SyncModeOneTime {
			t.Errorf("Expected sync mode in payload, got %v", body["syncMode"])
		}
		json.NewEncoder(w).Encode(map[string]interface{}{"events": body["events"]})
	}))
	defer server.Close()

	client := calendar.New(server.URL)
	tasks := []models.StudyTask{
		{Title: "drill", Date: "2024-03-01", Duration: 45, TaskType: models.TaskTypePractice},
	}

	result, err := client.ExportTasks(context.Background(), tasks, "Exam Prep", calendar.SyncModeOneTime)
	if err != nil {
		t.Fatalf("Failed to export: %v", err)
	}
	if !result.Success {
		t.Error("Expected success result")
	}
	if len(result.Events) != 1 || result.Events[0].Title != "drill" {
		t.Errorf("Expected exported events echoed back, got %v", result.Events)
	}
}

// TestExportTasksNeedsAuth tests the 401-with-authUrl recoverable path
func TestExportTasksNeedsAuth(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		json.NewEncoder(w).Encode(map[string]string{"authUrl": "https://accounts.example/consent"})
	}))
	defer server.Close()

	client := calendar.New(server.URL)
	result, err := client.ExportTasks(context.Background(), nil, "Exam Prep", calendar.SyncModeFull)
	if err != nil {
		t.Fatalf("Expected needs-auth to be a non-error result, got %v", err)
	}
	if result.Success {
		t.Error("Expected success=false")
	}
	if result.AuthURL != "https://accounts.example/consent" {
		t.Errorf("Expected authUrl carried through, got %q", result.AuthURL)
	}
}

// TestExportTasksRemoteError tests that other failures surface the remote message
func TestExportTasksRemoteError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
		json.NewEncoder(w).Encode(map[string]string{"message": "quota exceeded"})
	}))
	defer server.Close()

	client := calendar.New(server.URL)
	_, err := client.ExportTasks(context.Background(), nil, "Exam Prep", calendar.SyncModeFull)
	if err == nil {
		t.Fatal("Expected error for 502 response")
	}
	if !strings.Contains(err.Error(), "quota exceeded") {
		t.Errorf("Expected remote message in error, got %v", err)
	}
}

// TestAuthURL tests fetching the consent URL
func TestAuthURL(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/auth/google/url" {
			t.Errorf("Unexpected path %s", r.URL.Path)
		}
		json.NewEncoder(w).Encode(map[string]string{"url": "https://accounts.example/consent"})
	}))
	defer server.Close()

	client := calendar.New(server.URL)
	url, err := client.AuthURL(context.Background())
	if err != nil {
		t.Fatalf("Failed to fetch auth URL: %v", err)
	}
	if url != "https://accounts.example/consent" {
		t.Errorf("Expected consent URL, got %q", url)
	}
}

// TestAuthURLUnavailable tests that every failure wraps the sentinel
func TestAuthURLUnavailable(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	server.Close() // force a transport error

	client := calendar.New(server.URL)
	if _, err := client.AuthURL(context.Background()); !errors.Is(err, calendar.ErrAuthURLUnavailable) {
		t.Errorf("Expected ErrAuthURLUnavailable on transport failure, got %v", err)
	}
}

// TestAuthStatusDegradesToFalse tests that status never errors
func TestAuthStatusDegradesToFalse(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]bool{"authenticated": true})
	}))

	client := calendar.New(server.URL)
	if !client.AuthStatus(context.Background()) {
		t.Error("Expected authenticated true")
	}

	// Unreachable server reads as not authenticated
	server.Close()
	if client.AuthStatus(context.Background()) {
		t.Error("Expected unreachable server to read as false")
	}
}

// TestDisableSync tests the best-effort disable path
func TestDisableSync(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/calendar/google/disable-sync" {
			t.Errorf("Unexpected path %s", r.URL.Path)
		}
		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	client := calendar.New(server.URL)
	if !client.DisableSync(context.Background()) {
		t.Error("Expected disable to report true")
	}

	broken := calendar.New("http://127.0.0.1:1")
	if broken.DisableSync(context.Background()) {
		t.Error("Expected unreachable server to report false")
	}
}
