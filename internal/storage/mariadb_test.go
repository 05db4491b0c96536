package storage_test

import (
	"fmt"
	"os"
	"testing"

	"github.com/studyloop/studyplan-api/internal/storage"
	"github.com/studyloop/studyplan-api/internal/testutil"
	"gorm.io/driver/mysql"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// TestGormStorageMariaDB runs the storage contract against a real MariaDB.
// Requires a docker daemon; set RUN_DB_TESTS=1 to enable.
func TestGormStorageMariaDB(t *testing.T) {
	if os.Getenv("RUN_DB_TESTS") == "" {
		t.Skip("Set RUN_DB_TESTS=1 to run container-backed tests")
	}

	containers, err := testutil.CreateDBContainer(t)
	if err != nil {
		t.Skipf("Docker unavailable: %v", err)
	}
	defer containers.Terminate(t)

	dsn := fmt.Sprintf("root:root@tcp(%s:%s)/studyplan?parseTime=true",
		containers.DBHost, containers.DBPort)
	db, err := gorm.Open(mysql.Open(dsn), &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Silent),
		TranslateError: true,
	})
	if err != nil {
		t.Fatalf("Failed to connect to MariaDB: %v", err)
	}

	runStorageTests(t, func(t *testing.T) storage.Storage {
		// Subtests expect an empty store
		for _, table := range []string{"study_weeks", "study_tasks", "study_plans", "users"} {
			if err := db.Exec("DELETE FROM " + table).Error; err != nil {
				t.Fatalf("Failed to reset table %s: %v", table, err)
			}
		}
		return storage.NewGormStorage(db)
	})
}
