package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
)

// Default sqlite file used when DATABASE_URL is unset
const defaultSQLitePath = "data/studyplan.db"

// Config holds all application configuration
type Config struct {
	// Server configuration
	Port string

	// Storage selection: "database" or "memory"
	StorageDriver string

	// Database configuration
	DBType            string // mysql, postgres, sqlite, sqlserver, etc.
	DBHost            string
	DBPort            string
	DBDatabase        string
	DBUser            string
	DBPassword        string
	DBConnectionLimit int

	// Calendar integration server
	CalendarURL string

	// Authorizer configuration (optional; guards admin listings when set)
	AuthzURL      string
	AuthzClientID string
}

// Load loads configuration from environment variables.
//
// DATABASE_URL ("file:<path>") selects the sqlite store location the way the
// web client's server did; when present it forces DB_TYPE=sqlite. The DB_*
// variables cover the server-class engines.
func Load() (*Config, error) {
	cfg := &Config{
		Port:              getEnv("PORT", "3000"),
		StorageDriver:     getEnv("STORAGE_DRIVER", "database"),
		DBType:            getEnv("DB_TYPE", "sqlite"),
		DBHost:            getEnv("DB_HOST", "localhost"),
		DBPort:            getEnv("DB_PORT", "3306"),
		DBDatabase:        getEnv("DB_DATABASE", defaultSQLitePath),
		DBUser:            getEnv("DB_USER", ""),
		DBPassword:        getEnv("DB_PASSWORD", ""),
		DBConnectionLimit: getEnvAsInt("DB_CONNECTION_LIMIT", 5),
		CalendarURL:       getEnv("CALENDAR_URL", ""),
		AuthzURL:          getEnv("AUTHZ_URL", ""),
		AuthzClientID:     getEnv("AUTHZ_CLIENT_ID", ""),
	}

	if dbURL := os.Getenv("DATABASE_URL"); dbURL != "" {
		cfg.DBType = "sqlite"
		cfg.DBDatabase = strings.TrimPrefix(dbURL, "file:")
	}

	// Validate required fields
	if cfg.StorageDriver != "database" && cfg.StorageDriver != "memory" {
		return nil, fmt.Errorf("STORAGE_DRIVER must be 'database' or 'memory', got %q", cfg.StorageDriver)
	}
	if cfg.StorageDriver == "database" {
		if cfg.DBDatabase == "" {
			return nil, fmt.Errorf("DB_DATABASE is required")
		}
		if cfg.DBType != "sqlite" && cfg.DBType != "sqlite-cgo" && cfg.DBUser == "" {
			return nil, fmt.Errorf("DB_USER is required for %s", cfg.DBType)
		}
	}
	if cfg.AuthzURL != "" && cfg.AuthzClientID == "" {
		return nil, fmt.Errorf("AUTHZ_CLIENT_ID is required when AUTHZ_URL is set")
	}

	return cfg, nil
}

// getEnv gets an environment variable or returns a default value
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// getEnvAsInt gets an environment variable as an integer or returns a default value
func getEnvAsInt(key string, defaultValue int) int {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}
	value, err := strconv.Atoi(valueStr)
	if err != nil {
		return defaultValue
	}
	return value
}
