package storage

import (
	"context"
	"errors"
	"time"

	"github.com/studyloop/studyplan-api/internal/models"
)

// ErrNotFound is returned by reads, updates, and completion toggles when the
// identified record does not exist. It is an expected result, not a failure:
// handlers translate it to 404 and deletes report it as a false boolean
// instead.
var ErrNotFound = errors.New("not found")

// ErrConflict is returned by CreateUser when the username is already taken.
// Uniqueness is enforced here, not just by the handler's lookup, so two
// concurrent creates cannot both succeed on any backend.
var ErrConflict = errors.New("already exists")

// NewUser is the input for creating a user.
type NewUser struct {
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required"`
}

// NewStudyPlan is the input for creating a study plan. Optional fields are
// normalized at creation time: nil StudyMaterials becomes an empty list, nil
// TopicsProgress an empty map, nil SelectedSchedule defaults to 1.
type NewStudyPlan struct {
	UserID           *int64         `json:"userId"`
	CourseName       string         `json:"courseName" validate:"required"`
	ExamDate         string         `json:"examDate" validate:"required"`
	WeeklyStudyTime  int            `json:"weeklyStudyTime" validate:"gte=0"`
	StudyPreference  string         `json:"studyPreference" validate:"required,oneof=short long"`
	LearningStyle    *string        `json:"learningStyle" validate:"omitempty,oneof=visual auditory reading kinesthetic"`
	StudyMaterials   []string       `json:"studyMaterials"`
	Topics           []string       `json:"topics" validate:"required"`
	TopicsProgress   map[string]int `json:"topicsProgress" validate:"omitempty,dive,gte=0,lte=100"`
	Resources        []string       `json:"resources" validate:"required"`
	SelectedSchedule *int           `json:"selectedSchedule" validate:"omitempty,gte=1"`
}

// PlanPatch lists the study plan fields eligible for partial update. A nil
// field leaves the stored value untouched. Nullable fields (UserID,
// LearningStyle) cannot be reset to null through a patch; absent and null are
// indistinguishable here.
type PlanPatch struct {
	UserID           *int64          `json:"userId"`
	CourseName       *string         `json:"courseName"`
	ExamDate         *string         `json:"examDate"`
	WeeklyStudyTime  *int            `json:"weeklyStudyTime" validate:"omitempty,gte=0"`
	StudyPreference  *string         `json:"studyPreference" validate:"omitempty,oneof=short long"`
	LearningStyle    *string         `json:"learningStyle" validate:"omitempty,oneof=visual auditory reading kinesthetic"`
	StudyMaterials   *[]string       `json:"studyMaterials"`
	Topics           *[]string       `json:"topics"`
	TopicsProgress   *map[string]int `json:"topicsProgress" validate:"omitempty,dive,gte=0,lte=100"`
	Resources        *[]string       `json:"resources"`
	SelectedSchedule *int            `json:"selectedSchedule" validate:"omitempty,gte=1"`
}

// NewStudyTask is the input for creating a study task.
type NewStudyTask struct {
	StudyPlanID int64   `json:"studyPlanId" validate:"required"`
	Title       string  `json:"title" validate:"required"`
	Description *string `json:"description"`
	Date        string  `json:"date" validate:"required"`
	Duration    int     `json:"duration" validate:"gte=0"`
	Resource    *string `json:"resource"`
	Completed   bool    `json:"completed"`
	TaskType    string  `json:"taskType"`
}

// TaskPatch lists the study task fields eligible for partial update.
type TaskPatch struct {
	StudyPlanID *int64  `json:"studyPlanId"`
	Title       *string `json:"title"`
	Description *string `json:"description"`
	Date        *string `json:"date"`
	Duration    *int    `json:"duration" validate:"omitempty,gte=0"`
	Resource    *string `json:"resource"`
	Completed   *bool   `json:"completed"`
	TaskType    *string `json:"taskType"`
}

// NewStudyWeek is the input for creating a study week. Slots carry full task
// snapshots, not references.
type NewStudyWeek struct {
	StudyPlanID   int64             `json:"studyPlanId" validate:"required"`
	WeekStart     string            `json:"weekStart" validate:"required"`
	WeekEnd       string            `json:"weekEnd" validate:"required"`
	MondayTask    *models.StudyTask `json:"mondayTask"`
	WednesdayTask *models.StudyTask `json:"wednesdayTask"`
	FridayTask    *models.StudyTask `json:"fridayTask"`
	WeekendTask   *models.StudyTask `json:"weekendTask"`
}

// WeekPatch lists the study week fields eligible for partial update. Slots can
// be replaced but not cleared through a patch.
type WeekPatch struct {
	WeekStart     *string           `json:"weekStart"`
	WeekEnd       *string           `json:"weekEnd"`
	MondayTask    *models.StudyTask `json:"mondayTask"`
	WednesdayTask *models.StudyTask `json:"wednesdayTask"`
	FridayTask    *models.StudyTask `json:"fridayTask"`
	WeekendTask   *models.StudyTask `json:"weekendTask"`
}

// Storage is the persistence contract for the whole service. Every read,
// update, and completion toggle reports a missing record as ErrNotFound and
// never creates one as a side effect; every delete is idempotent and reports
// whether a record was actually removed.
//
// DeleteStudyPlan does not cascade: tasks and weeks of a deleted plan are
// orphaned, matching the schema's soft references.
type Storage interface {
	// Users
	GetUser(ctx context.Context, id int64) (*models.User, error)
	GetUserByUsername(ctx context.Context, username string) (*models.User, error)
	CreateUser(ctx context.Context, in NewUser) (*models.User, error)

	// Study plans
	GetStudyPlan(ctx context.Context, id int64) (*models.StudyPlan, error)
	GetAllStudyPlans(ctx context.Context) ([]models.StudyPlan, error)
	CreateStudyPlan(ctx context.Context, in NewStudyPlan) (*models.StudyPlan, error)
	UpdateStudyPlan(ctx context.Context, id int64, patch PlanPatch) (*models.StudyPlan, error)
	DeleteStudyPlan(ctx context.Context, id int64) (bool, error)

	// Study tasks
	GetStudyTask(ctx context.Context, id int64) (*models.StudyTask, error)
	GetTasksByPlanID(ctx context.Context, planID int64) ([]models.StudyTask, error)
	CreateStudyTask(ctx context.Context, in NewStudyTask) (*models.StudyTask, error)
	UpdateStudyTask(ctx context.Context, id int64, patch TaskPatch) (*models.StudyTask, error)
	DeleteStudyTask(ctx context.Context, id int64) (bool, error)
	MarkTaskComplete(ctx context.Context, id int64, completed bool) (*models.StudyTask, error)

	// Study weeks
	GetStudyWeek(ctx context.Context, id int64) (*models.StudyWeek, error)
	GetWeeksByPlanID(ctx context.Context, planID int64) ([]models.StudyWeek, error)
	CreateStudyWeek(ctx context.Context, in NewStudyWeek) (*models.StudyWeek, error)
	UpdateStudyWeek(ctx context.Context, id int64, patch WeekPatch) (*models.StudyWeek, error)
	DeleteStudyWeek(ctx context.Context, id int64) (bool, error)

	// Ping reports backing-store reachability for health checks.
	Ping(ctx context.Context) error
}

// newPlanRecord normalizes a create input into a full record. CreatedAt is
// stamped here unconditionally; any caller-supplied value is ignored.
func newPlanRecord(in NewStudyPlan) models.StudyPlan {
	plan := models.StudyPlan{
		UserID:           in.UserID,
		CourseName:       in.CourseName,
		ExamDate:         in.ExamDate,
		WeeklyStudyTime:  in.WeeklyStudyTime,
		StudyPreference:  in.StudyPreference,
		LearningStyle:    in.LearningStyle,
		StudyMaterials:   models.StringList(in.StudyMaterials),
		Topics:           models.StringList(in.Topics),
		TopicsProgress:   models.ProgressMap(in.TopicsProgress),
		Resources:        models.StringList(in.Resources),
		SelectedSchedule: 1,
		CreatedAt:        time.Now().UTC(),
	}
	if plan.StudyMaterials == nil {
		plan.StudyMaterials = models.StringList{}
	}
	if plan.Topics == nil {
		plan.Topics = models.StringList{}
	}
	if plan.TopicsProgress == nil {
		plan.TopicsProgress = models.ProgressMap{}
	}
	if plan.Resources == nil {
		plan.Resources = models.StringList{}
	}
	if in.SelectedSchedule != nil {
		plan.SelectedSchedule = *in.SelectedSchedule
	}
	return plan
}

// newTaskRecord normalizes a create input into a full record.
func newTaskRecord(in NewStudyTask) models.StudyTask {
	task := models.StudyTask{
		StudyPlanID: in.StudyPlanID,
		Title:       in.Title,
		Description: in.Description,
		Date:        in.Date,
		Duration:    in.Duration,
		Resource:    in.Resource,
		Completed:   in.Completed,
		TaskType:    in.TaskType,
	}
	if task.TaskType == "" {
		task.TaskType = models.TaskTypeStudy
	}
	return task
}

// newWeekRecord normalizes a create input into a full record, snapshotting
// the supplied tasks into their slots.
func newWeekRecord(in NewStudyWeek) models.StudyWeek {
	return models.StudyWeek{
		StudyPlanID:   in.StudyPlanID,
		WeekStart:     in.WeekStart,
		WeekEnd:       in.WeekEnd,
		MondayTask:    snapshotTask(in.MondayTask),
		WednesdayTask: snapshotTask(in.WednesdayTask),
		FridayTask:    snapshotTask(in.FridayTask),
		WeekendTask:   snapshotTask(in.WeekendTask),
	}
}

func snapshotTask(task *models.StudyTask) *models.TaskSlot {
	if task == nil {
		return nil
	}
	slot := models.NewTaskSlot(*task)
	return &slot
}

// mergePlan applies a patch field by field over an existing record.
func mergePlan(plan *models.StudyPlan, patch PlanPatch) {
	if patch.UserID != nil {
		plan.UserID = patch.UserID
	}
	if patch.CourseName != nil {
		plan.CourseName = *patch.CourseName
	}
	if patch.ExamDate != nil {
		plan.ExamDate = *patch.ExamDate
	}
	if patch.WeeklyStudyTime != nil {
		plan.WeeklyStudyTime = *patch.WeeklyStudyTime
	}
	if patch.StudyPreference != nil {
		plan.StudyPreference = *patch.StudyPreference
	}
	if patch.LearningStyle != nil {
		plan.LearningStyle = patch.LearningStyle
	}
	if patch.StudyMaterials != nil {
		plan.StudyMaterials = models.StringList(*patch.StudyMaterials)
	}
	if patch.Topics != nil {
		plan.Topics = models.StringList(*patch.Topics)
	}
	if patch.TopicsProgress != nil {
		plan.TopicsProgress = models.ProgressMap(*patch.TopicsProgress)
	}
	if patch.Resources != nil {
		plan.Resources = models.StringList(*patch.Resources)
	}
	if patch.SelectedSchedule != nil {
		plan.SelectedSchedule = *patch.SelectedSchedule
	}
}

// mergeTask applies a patch field by field over an existing record.
func mergeTask(task *models.StudyTask, patch TaskPatch) {
	if patch.StudyPlanID != nil {
		task.StudyPlanID = *patch.StudyPlanID
	}
	if patch.Title != nil {
		task.Title = *patch.Title
	}
	if patch.Description != nil {
		task.Description = patch.Description
	}
	if patch.Date != nil {
		task.Date = *patch.Date
	}
	if patch.Duration != nil {
		task.Duration = *patch.Duration
	}
	if patch.Resource != nil {
		task.Resource = patch.Resource
	}
	if patch.Completed != nil {
		task.Completed = *patch.Completed
	}
	if patch.TaskType != nil {
		task.TaskType = *patch.TaskType
	}
}

// mergeWeek applies a patch field by field over an existing record.
func mergeWeek(week *models.StudyWeek, patch WeekPatch) {
	if patch.WeekStart != nil {
		week.WeekStart = *patch.WeekStart
	}
	if patch.WeekEnd != nil {
		week.WeekEnd = *patch.WeekEnd
	}
	if patch.MondayTask != nil {
		week.MondayTask = snapshotTask(patch.MondayTask)
	}
	if patch.WednesdayTask != nil {
		week.WednesdayTask = snapshotTask(patch.WednesdayTask)
	}
	if patch.FridayTask != nil {
		week.FridayTask = snapshotTask(patch.FridayTask)
	}
	if patch.WeekendTask != nil {
		week.WeekendTask = snapshotTask(patch.WeekendTask)
	}
}
