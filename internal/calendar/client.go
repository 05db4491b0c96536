package calendar

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log"
	"net/http"
	"time"

	"github.com/studyloop/studyplan-api/internal/models"
)

// Sync modes accepted by the integration server
const (
	SyncModeFull    = "full"
	SyncModeOneTime = "one-time"
)

// ErrAuthURLUnavailable wraps any failure to obtain the authorization URL.
// Unlike AuthStatus, this path propagates: the caller cannot start the
// authorize flow without the URL and must be told so.
var ErrAuthURLUnavailable = errors.New("calendar authorization URL unavailable")

// Exported tasks start at this local wall-clock time
const eventStartHour = 10

// taskTypeColors maps internal task types to the calendar service's colorId
// visual categories. Unrecognized types get defaultColorID.
var taskTypeColors = map[string]string{
	models.TaskTypeStudy:    "1",
	models.TaskTypeReview:   "2",
	models.TaskTypePractice: "3",
	models.TaskTypeBreak:    "4",
}

const defaultColorID = "5"

// Event is the external calendar event representation
type Event struct {
	Title       string    `json:"title"`
	Description string    `json:"description"`
	Start       time.Time `json:"start"`
	End         time.Time `json:"end"`
	Location    string    `json:"location"`
	ColorID     string    `json:"colorId"`
}

// ExportResult is the outcome of an export attempt. Success false with a
// non-empty AuthURL is the one recoverable failure mode: the session lost its
// authorization and the caller should redirect the user to re-authorize.
type ExportResult struct {
	Success bool    `json:"success"`
	AuthURL string  `json:"authUrl,omitempty"`
	Events  []Event `json:"events,omitempty"`
}

// Client drives the authorize/export/disable flow against the calendar
// integration server. It performs no retries and no backoff; the only timeout
// is the HTTP client's.
type Client struct {
	baseURL string
	httpc   *http.Client
}

// New creates a client for the integration server at baseURL
func New(baseURL string) *Client {
	return &Client{
		baseURL: baseURL,
		httpc:   &http.Client{Timeout: 15 * time.Second},
	}
}

// NewWithHTTPClient creates a client with a caller-supplied HTTP client
func NewWithHTTPClient(baseURL string, httpc *http.Client) *Client {
	return &Client{baseURL: baseURL, httpc: httpc}
}

// AuthURL fetches the URL that starts the Google authorization flow
func (c *Client) AuthURL(ctx context.Context) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/api/auth/google/url", nil)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrAuthURLUnavailable, err)
	}

	resp, err := c.httpc.Do(req)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrAuthURLUnavailable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("%w: status %d", ErrAuthURLUnavailable, resp.StatusCode)
	}

	var body struct {
		URL string `json:"url"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return "", fmt.Errorf("%w: %v", ErrAuthURLUnavailable, err)
	}
	return body.URL, nil
}

// AuthStatus reports whether the current session is authorized against the
// calendar service. Any failure, transport included, degrades to false: an
// unreachable integration server reads as "not authenticated", never as an
// error. This asymmetry with AuthURL is deliberate.
func (c *Client) AuthStatus(ctx context.Context) bool {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/api/auth/google/status", nil)
	if err != nil {
		return false
	}

	resp, err := c.httpc.Do(req)
	if err != nil {
		return false
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return false
	}

	var body struct {
		Authenticated bool `json:"authenticated"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return false
	}
	return body.Authenticated
}

// ExportTasks maps tasks to events and pushes them to the integration server.
// A 401 response carrying a re-authorization URL is returned as a non-error
// needs-auth result; every other failure is an error carrying the remote
// message when one is present.
func (c *Client) ExportTasks(ctx context.Context, tasks []models.StudyTask, calendarName, syncMode string) (*ExportResult, error) {
	events := make([]Event, 0, len(tasks))
	for _, task := range tasks {
		event, err := EventFromTask(task)
		if err != nil {
			return nil, err
		}
		events = append(events, event)
	}

	payload, err := json.Marshal(map[string]interface{}{
		"events":       events,
		"calendarName": calendarName,
		"syncMode":     syncMode,
	})
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/api/calendar/google/export", bytes.NewReader(payload))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpc.Do(req)
	if err != nil {
		return nil, fmt.Errorf("calendar export request failed: %w", err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("calendar export request failed: %w", err)
	}

	if resp.StatusCode == http.StatusOK {
		var body struct {
			Events []Event `json:"events"`
		}
		if err := json.Unmarshal(data, &body); err != nil {
			return nil, fmt.Errorf("calendar export response malformed: %w", err)
		}
		return &ExportResult{Success: true, Events: body.Events}, nil
	}

	var errBody struct {
		AuthURL string `json:"authUrl"`
		Message string `json:"message"`
	}
	_ = json.Unmarshal(data, &errBody)

	if resp.StatusCode == http.StatusUnauthorized && errBody.AuthURL != "" {
		return &ExportResult{Success: false, AuthURL: errBody.AuthURL}, nil
	}

	if errBody.Message != "" {
		return nil, fmt.Errorf("calendar export failed: %s", errBody.Message)
	}
	return nil, fmt.Errorf("calendar export failed: status %d", resp.StatusCode)
}

// DisableSync turns off ongoing synchronization. Best effort: disabling sync
// is not on a critical path, so failures are logged and reported as false
// rather than raised.
func (c *Client) DisableSync(ctx context.Context) bool {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/api/calendar/google/disable-sync", nil)
	if err != nil {
		log.Printf("Failed to build disable-sync request: %v", err)
		return false
	}

	resp, err := c.httpc.Do(req)
	if err != nil {
		log.Printf("Failed to disable calendar sync: %v", err)
		return false
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		var body struct {
			Message string `json:"message"`
		}
		_ = json.NewDecoder(resp.Body).Decode(&body)
		log.Printf("Failed to disable calendar sync: status %d %s", resp.StatusCode, body.Message)
		return false
	}
	return true
}

// EventFromTask maps one task onto its calendar event: the start is the task
// date at 10:00 local, the end is start plus the task duration.
func EventFromTask(task models.StudyTask) (Event, error) {
	day := task.Date
	if len(day) > 10 {
		day = day[:10]
	}
	date, err := time.ParseInLocation("2006-01-02", day, time.Local)
	if err != nil {
		return Event{}, fmt.Errorf("task %d has invalid date %q: %w", task.ID, task.Date, err)
	}

	// Pin the wall clock rather than adding hours to midnight, which would
	// drift on DST transition days
	start := time.Date(date.Year(), date.Month(), date.Day(), eventStartHour, 0, 0, 0, time.Local)
	event := Event{
		Title:   task.Title,
		Start:   start,
		End:     start.Add(time.Duration(task.Duration) * time.Minute),
		ColorID: colorForTaskType(task.TaskType),
	}
	if task.Description != nil {
		event.Description = *task.Description
	}
	if task.Resource != nil {
		event.Location = *task.Resource
	}
	return event, nil
}

func colorForTaskType(taskType string) string {
	if color, ok := taskTypeColors[taskType]; ok {
		return color
	}
	return defaultColorID
}
