package services

import (
	"context"
	"fmt"
	"log"
	"strconv"

	"github.com/studyloop/studyplan-api/internal/config"
	"github.com/studyloop/studyplan-api/internal/storage"
	"github.com/studyloop/studyplan-api/internal/utils"
)

// HealthCheckResult represents the result of a health check
type HealthCheckResult struct {
	Status       string            `json:"status"`
	Storage      string            `json:"storage"`
	Calendar     string            `json:"calendar,omitempty"`
	Details      map[string]string `json:"details,omitempty"`
	ErrorMessage string            `json:"error,omitempty"`
}

// HealthCheck probes the storage backend and, when configured, the calendar
// integration server.
func HealthCheck(ctx context.Context, cfg *config.Config, store storage.Storage) HealthCheckResult {
	result := HealthCheckResult{
		Status:  "healthy",
		Details: make(map[string]string),
	}

	// Check storage reachability
	if err := store.Ping(ctx); err != nil {
		result.Status = "unhealthy"
		result.Storage = "unreachable"
		result.Details["storage_error"] = err.Error()
		result.ErrorMessage = fmt.Sprintf("Storage ping failed: %v", err)
		log.Printf("Health check failed - storage ping: %v", err)
	} else {
		result.Storage = "ok"
		result.Details["storage_driver"] = cfg.StorageDriver
		if cfg.StorageDriver == "database" {
			result.Details["database_type"] = cfg.DBType
			result.Details["database_name"] = cfg.DBDatabase
		}
	}

	// Report whether the admin guard's Authorizer client has come up yet;
	// it initializes lazily on the first guarded request.
	if cfg.AuthzURL != "" {
		result.Details["authorizer_initialized"] = strconv.FormatBool(IsAuthorizerInitialized())
	}

	// Check calendar integration server connectivity
	if cfg.CalendarURL != "" {
		if err := utils.PingCalendar(cfg.CalendarURL); err != nil {
			result.Status = "unhealthy"
			result.Calendar = "unreachable"
			result.Details["calendar_error"] = err.Error()
			if result.ErrorMessage == "" {
				result.ErrorMessage = fmt.Sprintf("Calendar ping failed: %v", err)
			} else {
				result.ErrorMessage += fmt.Sprintf("; Calendar ping failed: %v", err)
			}
			log.Printf("Health check failed - calendar ping: %v", err)
		} else {
			result.Calendar = "ok"
			result.Details["calendar_url"] = cfg.CalendarURL
		}
	}

	if result.Status == "healthy" {
		log.Println("Health check passed - all systems operational")
	}

	return result
}
