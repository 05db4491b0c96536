package storage_test

import (
	"context"
	"errors"
	"testing"

	"github.com/studyloop/studyplan-api/internal/models"
	"github.com/studyloop/studyplan-api/internal/storage"
)

func strPtr(s string) *string { return &s }
func intPtr(i int) *int       { return &i }

// newPlanInput builds a minimal valid create input
func newPlanInput(course string) storage.NewStudyPlan {
	return storage.NewStudyPlan{
		CourseName:      course,
		ExamDate:        "2026-06-15",
		WeeklyStudyTime: 10,
		StudyPreference: "short",
		Topics:          []string{"algebra", "calculus"},
		Resources:       []string{"textbook"},
	}
}

// runStorageTests exercises the Storage contract against any backend
func runStorageTests(t *testing.T, newStore func(t *testing.T) storage.Storage) {
	ctx := context.Background()

	t.Run("UserRoundTrip", func(t *testing.T) {
		store := newStore(t)

		created, err := store.CreateUser(ctx, storage.NewUser{Username: "alice", Password: "secret"})
		if err != nil {
			t.Fatalf("Failed to create user: %v", err)
		}
		if created.ID < 1 {
			t.Errorf("Expected positive id, got %d", created.ID)
		}

		got, err := store.GetUser(ctx, created.ID)
		if err != nil {
			t.Fatalf("Failed to get user: %v", err)
		}
		if got.Username != "alice" {
			t.Errorf("Expected username alice, got %q", got.Username)
		}

		byName, err := store.GetUserByUsername(ctx, "alice")
		if err != nil {
			t.Fatalf("Failed to get user by username: %v", err)
		}
		if byName.ID != created.ID {
			t.Errorf("Expected id %d, got %d", created.ID, byName.ID)
		}

		// Unknown lookups report ErrNotFound
		if _, err := store.GetUser(ctx, 9999); !errors.Is(err, storage.ErrNotFound) {
			t.Errorf("Expected ErrNotFound, got %v", err)
		}
		if _, err := store.GetUserByUsername(ctx, "nobody"); !errors.Is(err, storage.ErrNotFound) {
			t.Errorf("Expected ErrNotFound, got %v", err)
		}
	})

	t.Run("UserUsernameUnique", func(t *testing.T) {
		store := newStore(t)

		if _, err := store.CreateUser(ctx, storage.NewUser{Username: "alice", Password: "secret"}); err != nil {
			t.Fatalf("Failed to create user: %v", err)
		}

		// The store itself rejects duplicates, independent of handler checks
		if _, err := store.CreateUser(ctx, storage.NewUser{Username: "alice", Password: "other"}); !errors.Is(err, storage.ErrConflict) {
			t.Errorf("Expected ErrConflict for duplicate username, got %v", err)
		}

		// A different username is unaffected
		if _, err := store.CreateUser(ctx, storage.NewUser{Username: "bob", Password: "pw"}); err != nil {
			t.Errorf("Failed to create second user: %v", err)
		}
	})

	t.Run("PlanCreateDefaults", func(t *testing.T) {
		store := newStore(t)

		plan, err := store.CreateStudyPlan(ctx, newPlanInput("Linear Algebra"))
		if err != nil {
			t.Fatalf("Failed to create plan: %v", err)
		}

		// Omitted optional fields are normalized, never nil
		if plan.StudyMaterials == nil {
			t.Error("Expected empty study materials, got nil")
		}
		if plan.TopicsProgress == nil {
			t.Error("Expected empty topics progress, got nil")
		}
		if plan.SelectedSchedule != 1 {
			t.Errorf("Expected selected schedule 1, got %d", plan.SelectedSchedule)
		}
		if plan.CreatedAt.IsZero() {
			t.Error("Expected created timestamp to be set")
		}

		got, err := store.GetStudyPlan(ctx, plan.ID)
		if err != nil {
			t.Fatalf("Failed to get plan: %v", err)
		}
		if got.CourseName != "Linear Algebra" {
			t.Errorf("Expected course name round trip, got %q", got.CourseName)
		}
		if len(got.Topics) != 2 || got.Topics[0] != "algebra" {
			t.Errorf("Expected topics round trip, got %v", got.Topics)
		}
	})

	t.Run("PlanPatchMerge", func(t *testing.T) {
		store := newStore(t)

		in := newPlanInput("History")
		in.SelectedSchedule = intPtr(2)
		plan, err := store.CreateStudyPlan(ctx, in)
		if err != nil {
			t.Fatalf("Failed to create plan: %v", err)
		}

		updated, err := store.UpdateStudyPlan(ctx, plan.ID, storage.PlanPatch{
			CourseName:     strPtr("World History"),
			TopicsProgress: &map[string]int{"algebra": 40},
		})
		if err != nil {
			t.Fatalf("Failed to update plan: %v", err)
		}

		// Patched fields change, the rest survive
		if updated.CourseName != "World History" {
			t.Errorf("Expected patched course name, got %q", updated.CourseName)
		}
		if updated.TopicsProgress["algebra"] != 40 {
			t.Errorf("Expected patched progress, got %v", updated.TopicsProgress)
		}
		if updated.ExamDate != "2026-06-15" {
			t.Errorf("Expected exam date untouched, got %q", updated.ExamDate)
		}
		if updated.SelectedSchedule != 2 {
			t.Errorf("Expected selected schedule untouched, got %d", updated.SelectedSchedule)
		}
	})

	t.Run("UpdateMissingCreatesNothing", func(t *testing.T) {
		store := newStore(t)

		_, err := store.UpdateStudyPlan(ctx, 42, storage.PlanPatch{CourseName: strPtr("Ghost")})
		if !errors.Is(err, storage.ErrNotFound) {
			t.Fatalf("Expected ErrNotFound, got %v", err)
		}

		plans, err := store.GetAllStudyPlans(ctx)
		if err != nil {
			t.Fatalf("Failed to list plans: %v", err)
		}
		if len(plans) != 0 {
			t.Errorf("Expected no plans after failed update, got %d", len(plans))
		}
	})

	t.Run("DeleteIdempotence", func(t *testing.T) {
		store := newStore(t)

		plan, err := store.CreateStudyPlan(ctx, newPlanInput("Chemistry"))
		if err != nil {
			t.Fatalf("Failed to create plan: %v", err)
		}

		deleted, err := store.DeleteStudyPlan(ctx, plan.ID)
		if err != nil {
			t.Fatalf("Failed to delete plan: %v", err)
		}
		if !deleted {
			t.Error("Expected first delete to report true")
		}

		// Second delete is a no-op, not an error
		deleted, err = store.DeleteStudyPlan(ctx, plan.ID)
		if err != nil {
			t.Fatalf("Failed on repeat delete: %v", err)
		}
		if deleted {
			t.Error("Expected repeat delete to report false")
		}

		if _, err := store.GetStudyPlan(ctx, plan.ID); !errors.Is(err, storage.ErrNotFound) {
			t.Errorf("Expected ErrNotFound after delete, got %v", err)
		}
	})

	t.Run("TasksByPlanFilterAndOrder", func(t *testing.T) {
		store := newStore(t)

		planA, _ := store.CreateStudyPlan(ctx, newPlanInput("Physics"))
		planB, _ := store.CreateStudyPlan(ctx, newPlanInput("Biology"))

		for _, title := range []string{"first", "second", "third"} {
			if _, err := store.CreateStudyTask(ctx, storage.NewStudyTask{
				StudyPlanID: planA.ID,
				Title:       title,
				Date:        "2026-03-01",
				Duration:    60,
			}); err != nil {
				t.Fatalf("Failed to create task: %v", err)
			}
		}
		if _, err := store.CreateStudyTask(ctx, storage.NewStudyTask{
			StudyPlanID: planB.ID,
			Title:       "other plan",
			Date:        "2026-03-02",
			Duration:    30,
		}); err != nil {
			t.Fatalf("Failed to create task: %v", err)
		}

		tasks, err := store.GetTasksByPlanID(ctx, planA.ID)
		if err != nil {
			t.Fatalf("Failed to list tasks: %v", err)
		}
		if len(tasks) != 3 {
			t.Fatalf("Expected 3 tasks for plan, got %d", len(tasks))
		}
		// Creation order is preserved
		for i, want := range []string{"first", "second", "third"} {
			if tasks[i].Title != want {
				t.Errorf("Expected task %d to be %q, got %q", i, want, tasks[i].Title)
			}
		}

		// Unknown plan yields an empty list, not an error
		tasks, err = store.GetTasksByPlanID(ctx, 9999)
		if err != nil {
			t.Fatalf("Failed on unknown plan: %v", err)
		}
		if len(tasks) != 0 {
			t.Errorf("Expected no tasks for unknown plan, got %d", len(tasks))
		}
	})

	t.Run("TaskDefaultsAndComplete", func(t *testing.T) {
		store := newStore(t)

		plan, _ := store.CreateStudyPlan(ctx, newPlanInput("Latin"))
		task, err := store.CreateStudyTask(ctx, storage.NewStudyTask{
			StudyPlanID: plan.ID,
			Title:       "vocab drill",
			Date:        "2026-04-01",
			Duration:    45,
		})
		if err != nil {
			t.Fatalf("Failed to create task: %v", err)
		}
		if task.TaskType != models.TaskTypeStudy {
			t.Errorf("Expected default task type study, got %q", task.TaskType)
		}
		if task.Completed {
			t.Error("Expected new task to be incomplete")
		}

		done, err := store.MarkTaskComplete(ctx, task.ID, true)
		if err != nil {
			t.Fatalf("Failed to mark task complete: %v", err)
		}
		if !done.Completed {
			t.Error("Expected task to be complete")
		}

		undone, err := store.MarkTaskComplete(ctx, task.ID, false)
		if err != nil {
			t.Fatalf("Failed to mark task incomplete: %v", err)
		}
		if undone.Completed {
			t.Error("Expected task to be incomplete again")
		}

		if _, err := store.MarkTaskComplete(ctx, 9999, true); !errors.Is(err, storage.ErrNotFound) {
			t.Errorf("Expected ErrNotFound, got %v", err)
		}
	})

	t.Run("WeekSlotSnapshots", func(t *testing.T) {
		store := newStore(t)

		plan, _ := store.CreateStudyPlan(ctx, newPlanInput("Music Theory"))
		monday := models.StudyTask{Title: "intervals", Date: "2026-05-04", Duration: 30, TaskType: models.TaskTypeStudy}
		week, err := store.CreateStudyWeek(ctx, storage.NewStudyWeek{
			StudyPlanID: plan.ID,
			WeekStart:   "2026-05-04",
			WeekEnd:     "2026-05-10",
			MondayTask:  &monday,
		})
		if err != nil {
			t.Fatalf("Failed to create week: %v", err)
		}
		if week.MondayTask == nil {
			t.Fatal("Expected monday slot to be populated")
		}
		if got := week.MondayTask.Data(); got.Title != "intervals" {
			t.Errorf("Expected snapshot title, got %q", got.Title)
		}
		if week.WednesdayTask != nil {
			t.Error("Expected empty wednesday slot")
		}

		// Patching a slot replaces the snapshot and leaves the others alone
		friday := models.StudyTask{Title: "chords", Date: "2026-05-08", Duration: 20}
		updated, err := store.UpdateStudyWeek(ctx, week.ID, storage.WeekPatch{FridayTask: &friday})
		if err != nil {
			t.Fatalf("Failed to update week: %v", err)
		}
		if updated.FridayTask == nil || updated.FridayTask.Data().Title != "chords" {
			t.Error("Expected friday slot replaced")
		}
		if updated.MondayTask == nil || updated.MondayTask.Data().Title != "intervals" {
			t.Error("Expected monday slot untouched")
		}

		weeks, err := store.GetWeeksByPlanID(ctx, plan.ID)
		if err != nil {
			t.Fatalf("Failed to list weeks: %v", err)
		}
		if len(weeks) != 1 {
			t.Errorf("Expected 1 week, got %d", len(weeks))
		}

		deleted, err := store.DeleteStudyWeek(ctx, week.ID)
		if err != nil || !deleted {
			t.Errorf("Expected week delete to succeed, got %v/%v", deleted, err)
		}
	})

	t.Run("Ping", func(t *testing.T) {
		store := newStore(t)
		if err := store.Ping(ctx); err != nil {
			t.Errorf("Expected ping to succeed, got %v", err)
		}
	})
}

func TestMemStorage(t *testing.T) {
	runStorageTests(t, func(t *testing.T) storage.Storage {
		return storage.NewMemStorage()
	})
}

// TestMemStorageIDsStartAtOne checks the counter seed directly
func TestMemStorageIDsStartAtOne(t *testing.T) {
	ctx := context.Background()
	store := storage.NewMemStorage()

	user, err := store.CreateUser(ctx, storage.NewUser{Username: "first", Password: "pw"})
	if err != nil {
		t.Fatalf("Failed to create user: %v", err)
	}
	if user.ID != 1 {
		t.Errorf("Expected first user id 1, got %d", user.ID)
	}

	plan, err := store.CreateStudyPlan(ctx, newPlanInput("Intro"))
	if err != nil {
		t.Fatalf("Failed to create plan: %v", err)
	}
	if plan.ID != 1 {
		t.Errorf("Expected first plan id 1, got %d", plan.ID)
	}
}
