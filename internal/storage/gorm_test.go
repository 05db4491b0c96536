package storage_test

import (
	"testing"

	"github.com/glebarez/sqlite"
	"github.com/studyloop/studyplan-api/internal/models"
	"github.com/studyloop/studyplan-api/internal/storage"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// setupTestDB creates an in-memory SQLite database for testing
func setupTestDB(t *testing.T) *gorm.DB {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Silent),
		TranslateError: true,
	})
	if err != nil {
		t.Fatalf("Failed to create test database: %v", err)
	}

	// Auto-migrate models
	err = db.AutoMigrate(
		&models.User{},
		&models.StudyPlan{},
		&models.StudyTask{},
		&models.StudyWeek{},
	)
	if err != nil {
		t.Fatalf("Failed to migrate test database: %v", err)
	}

	return db
}

func TestGormStorage(t *testing.T) {
	runStorageTests(t, func(t *testing.T) storage.Storage {
		return storage.NewGormStorage(setupTestDB(t))
	})
}
