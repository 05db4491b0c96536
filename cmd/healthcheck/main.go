package main

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"os"

	"github.com/studyloop/studyplan-api/internal/config"
	"github.com/studyloop/studyplan-api/internal/database"
	"github.com/studyloop/studyplan-api/internal/services"
	"github.com/studyloop/studyplan-api/internal/storage"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	var store storage.Storage
	if cfg.StorageDriver == "memory" {
		store = storage.NewMemStorage()
	} else {
		db, err := database.Connect(cfg)
		if err != nil {
			log.Fatalf("Failed to connect to database: %v", err)
		}
		defer database.Close(db)
		store = storage.NewGormStorage(db)
	}

	// Perform health check
	result := services.HealthCheck(context.Background(), cfg, store)

	// Output result as JSON
	output, err := json.MarshalIndent(result, "", "  ")
	if err != nil {
		log.Fatalf("Failed to marshal health check result: %v", err)
	}

	fmt.Println(string(output))

	// Exit with appropriate code
	if result.Status != "healthy" {
		os.Exit(1)
	}
	os.Exit(0)
}
