package services

import (
	"context"
	"fmt"

	"github.com/studyloop/studyplan-api/internal/calendar"
	"github.com/studyloop/studyplan-api/internal/storage"
)

// ExportPlanTasks loads a plan's tasks and pushes them to the calendar
// integration server. The plan must exist; a plan with no tasks exports an
// empty batch rather than failing, so a sync can be established before
// scheduling.
func ExportPlanTasks(ctx context.Context, store storage.Storage, client *calendar.Client, planID int64, calendarName, syncMode string) (*calendar.ExportResult, error) {
	if _, err := store.GetStudyPlan(ctx, planID); err != nil {
		return nil, err
	}

	tasks, err := store.GetTasksByPlanID(ctx, planID)
	if err != nil {
		return nil, fmt.Errorf("failed to load tasks for plan %d: %w", planID, err)
	}

	return client.ExportTasks(ctx, tasks, calendarName, syncMode)
}
