package storage

import (
	"context"
	"sync"

	"github.com/studyloop/studyplan-api/internal/models"
)

// MemStorage is the process-resident reference implementation of Storage,
// suitable for tests and ephemeral deployments. Each entity type owns one map
// and one monotonically increasing id counter starting at 1; counters are
// never reused after deletion, so ids stay unique for the process lifetime but
// reset on restart.
//
// Fiber serves requests on concurrent goroutines, so unlike the durable
// implementation (which delegates locking to the database engine) the maps are
// guarded by a single RWMutex.
type MemStorage struct {
	mu sync.RWMutex

	users map[int64]models.User
	plans map[int64]models.StudyPlan
	tasks map[int64]models.StudyTask
	weeks map[int64]models.StudyWeek

	nextUserID int64
	nextPlanID int64
	nextTaskID int64
	nextWeekID int64

	// creation order per entity, for insertion-ordered listings
	planOrder []int64
	taskOrder []int64
	weekOrder []int64
}

// NewMemStorage creates an empty in-memory store. Construct one per process
// or per test and pass it to consumers explicitly; there is no shared
// singleton.
func NewMemStorage() *MemStorage {
	return &MemStorage{
		users:      make(map[int64]models.User),
		plans:      make(map[int64]models.StudyPlan),
		tasks:      make(map[int64]models.StudyTask),
		weeks:      make(map[int64]models.StudyWeek),
		nextUserID: 1,
		nextPlanID: 1,
		nextTaskID: 1,
		nextWeekID: 1,
	}
}

// GetUser returns the user with the given id
func (s *MemStorage) GetUser(ctx context.Context, id int64) (*models.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	user, ok := s.users[id]
	if !ok {
		return nil, ErrNotFound
	}
	return &user, nil
}

// GetUserByUsername scans all users for a username match. Linear, which is
// fine at in-memory cardinality; the durable implementation uses the unique
// index instead.
func (s *MemStorage) GetUserByUsername(ctx context.Context, username string) (*models.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, user := range s.users {
		if user.Username == username {
			u := user
			return &u, nil
		}
	}
	return nil, ErrNotFound
}

// CreateUser stores a new user under the next id. The username must be
// unique; the check runs under the write lock, standing in for the durable
// implementation's unique index.
func (s *MemStorage) CreateUser(ctx context.Context, in NewUser) (*models.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, existing := range s.users {
		if existing.Username == in.Username {
			return nil, ErrConflict
		}
	}

	user := models.User{
		ID:       s.nextUserID,
		Username: in.Username,
		Password: in.Password,
	}
	s.users[user.ID] = user
	s.nextUserID++
	return &user, nil
}

// GetStudyPlan returns the plan with the given id
func (s *MemStorage) GetStudyPlan(ctx context.Context, id int64) (*models.StudyPlan, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	plan, ok := s.plans[id]
	if !ok {
		return nil, ErrNotFound
	}
	return &plan, nil
}

// GetAllStudyPlans returns every plan in creation order
func (s *MemStorage) GetAllStudyPlans(ctx context.Context) ([]models.StudyPlan, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	plans := make([]models.StudyPlan, 0, len(s.plans))
	for _, id := range s.planOrder {
		if plan, ok := s.plans[id]; ok {
			plans = append(plans, plan)
		}
	}
	return plans, nil
}

// CreateStudyPlan normalizes optional fields and stores a new plan
func (s *MemStorage) CreateStudyPlan(ctx context.Context, in NewStudyPlan) (*models.StudyPlan, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	plan := newPlanRecord(in)
	plan.ID = s.nextPlanID
	s.plans[plan.ID] = plan
	s.planOrder = append(s.planOrder, plan.ID)
	s.nextPlanID++
	return &plan, nil
}

// UpdateStudyPlan merges the patch over an existing plan
func (s *MemStorage) UpdateStudyPlan(ctx context.Context, id int64, patch PlanPatch) (*models.StudyPlan, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	plan, ok := s.plans[id]
	if !ok {
		return nil, ErrNotFound
	}
	mergePlan(&plan, patch)
	s.plans[id] = plan
	return &plan, nil
}

// DeleteStudyPlan removes a plan. Dependent tasks and weeks are left in
// place (no cascade), matching the schema's soft references.
func (s *MemStorage) DeleteStudyPlan(ctx context.Context, id int64) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.plans[id]; !ok {
		return false, nil
	}
	delete(s.plans, id)
	return true, nil
}

// GetStudyTask returns the task with the given id
func (s *MemStorage) GetStudyTask(ctx context.Context, id int64) (*models.StudyTask, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	task, ok := s.tasks[id]
	if !ok {
		return nil, ErrNotFound
	}
	return &task, nil
}

// GetTasksByPlanID returns the plan's tasks in creation order
func (s *MemStorage) GetTasksByPlanID(ctx context.Context, planID int64) ([]models.StudyTask, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var tasks []models.StudyTask
	for _, id := range s.taskOrder {
		if task, ok := s.tasks[id]; ok && task.StudyPlanID == planID {
			tasks = append(tasks, task)
		}
	}
	return tasks, nil
}

// CreateStudyTask stores a new task under the next id
func (s *MemStorage) CreateStudyTask(ctx context.Context, in NewStudyTask) (*models.StudyTask, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	task := newTaskRecord(in)
	task.ID = s.nextTaskID
	s.tasks[task.ID] = task
	s.taskOrder = append(s.taskOrder, task.ID)
	s.nextTaskID++
	return &task, nil
}

// UpdateStudyTask merges the patch over an existing task
func (s *MemStorage) UpdateStudyTask(ctx context.Context, id int64, patch TaskPatch) (*models.StudyTask, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	task, ok := s.tasks[id]
	if !ok {
		return nil, ErrNotFound
	}
	mergeTask(&task, patch)
	s.tasks[id] = task
	return &task, nil
}

// DeleteStudyTask removes a task, reporting whether one existed
func (s *MemStorage) DeleteStudyTask(ctx context.Context, id int64) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.tasks[id]; !ok {
		return false, nil
	}
	delete(s.tasks, id)
	return true, nil
}

// MarkTaskComplete sets the completion flag on an existing task
func (s *MemStorage) MarkTaskComplete(ctx context.Context, id int64, completed bool) (*models.StudyTask, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	task, ok := s.tasks[id]
	if !ok {
		return nil, ErrNotFound
	}
	task.Completed = completed
	s.tasks[id] = task
	return &task, nil
}

// GetStudyWeek returns the week with the given id
func (s *MemStorage) GetStudyWeek(ctx context.Context, id int64) (*models.StudyWeek, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	week, ok := s.weeks[id]
	if !ok {
		return nil, ErrNotFound
	}
	return &week, nil
}

// GetWeeksByPlanID returns the plan's weeks in creation order
func (s *MemStorage) GetWeeksByPlanID(ctx context.Context, planID int64) ([]models.StudyWeek, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var weeks []models.StudyWeek
	for _, id := range s.weekOrder {
		if week, ok := s.weeks[id]; ok && week.StudyPlanID == planID {
			weeks = append(weeks, week)
		}
	}
	return weeks, nil
}

// CreateStudyWeek stores a new week under the next id
func (s *MemStorage) CreateStudyWeek(ctx context.Context, in NewStudyWeek) (*models.StudyWeek, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	week := newWeekRecord(in)
	week.ID = s.nextWeekID
	s.weeks[week.ID] = week
	s.weekOrder = append(s.weekOrder, week.ID)
	s.nextWeekID++
	return &week, nil
}

// UpdateStudyWeek merges the patch over an existing week
func (s *MemStorage) UpdateStudyWeek(ctx context.Context, id int64, patch WeekPatch) (*models.StudyWeek, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	week, ok := s.weeks[id]
	if !ok {
		return nil, ErrNotFound
	}
	mergeWeek(&week, patch)
	s.weeks[id] = week
	return &week, nil
}

// DeleteStudyWeek removes a week, reporting whether one existed
func (s *MemStorage) DeleteStudyWeek(ctx context.Context, id int64) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.weeks[id]; !ok {
		return false, nil
	}
	delete(s.weeks, id)
	return true, nil
}

// Ping always succeeds; there is no backing service to reach
func (s *MemStorage) Ping(ctx context.Context) error {
	return nil
}
