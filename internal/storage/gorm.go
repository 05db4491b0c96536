package storage

import (
	"context"
	"errors"

	"github.com/studyloop/studyplan-api/internal/models"
	"gorm.io/gorm"
	"gorm.io/hints"
)

// GormStorage is the durable implementation of Storage over a GORM-managed
// database. Identifier assignment and transactional discipline are delegated
// to the database engine; the schema is evolved by auto-migration at startup
// before any query runs (see database.AutoMigrate).
type GormStorage struct {
	db *gorm.DB
}

// NewGormStorage wraps an open database connection
func NewGormStorage(db *gorm.DB) *GormStorage {
	return &GormStorage{db: db}
}

func (s *GormStorage) conn(ctx context.Context) *gorm.DB {
	return s.db.WithContext(ctx)
}

// translate maps GORM errors onto the storage sentinels. Duplicated-key
// detection relies on the connection being opened with TranslateError.
func translate(err error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return ErrNotFound
	}
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return ErrConflict
	}
	return err
}

// GetUser returns the user with the given id
func (s *GormStorage) GetUser(ctx context.Context, id int64) (*models.User, error) {
	var user models.User
	if err := s.conn(ctx).First(&user, id).Error; err != nil {
		return nil, translate(err)
	}
	return &user, nil
}

// GetUserByUsername resolves a username through its unique index
func (s *GormStorage) GetUserByUsername(ctx context.Context, username string) (*models.User, error) {
	var user models.User
	query := s.conn(ctx)
	if s.db.Dialector.Name() == "mysql" {
		query = query.Clauses(hints.UseIndex("idx_users_username"))
	}
	if err := query.Where("username = ?", username).First(&user).Error; err != nil {
		return nil, translate(err)
	}
	return &user, nil
}

// CreateUser inserts a new user; the unique index rejects duplicate usernames
func (s *GormStorage) CreateUser(ctx context.Context, in NewUser) (*models.User, error) {
	user := models.User{Username: in.Username, Password: in.Password}
	if err := s.conn(ctx).Create(&user).Error; err != nil {
		return nil, translate(err)
	}
	return &user, nil
}

// GetStudyPlan returns the plan with the given id
func (s *GormStorage) GetStudyPlan(ctx context.Context, id int64) (*models.StudyPlan, error) {
	var plan models.StudyPlan
	if err := s.conn(ctx).First(&plan, id).Error; err != nil {
		return nil, translate(err)
	}
	return &plan, nil
}

// GetAllStudyPlans returns every plan in creation order
func (s *GormStorage) GetAllStudyPlans(ctx context.Context) ([]models.StudyPlan, error) {
	var plans []models.StudyPlan
	if err := s.conn(ctx).Order("id").Find(&plans).Error; err != nil {
		return nil, err
	}
	return plans, nil
}

// CreateStudyPlan normalizes optional fields and inserts a new plan
func (s *GormStorage) CreateStudyPlan(ctx context.Context, in NewStudyPlan) (*models.StudyPlan, error) {
	plan := newPlanRecord(in)
	if err := s.conn(ctx).Create(&plan).Error; err != nil {
		return nil, err
	}
	return &plan, nil
}

// UpdateStudyPlan merges the patch over an existing plan inside a transaction
func (s *GormStorage) UpdateStudyPlan(ctx context.Context, id int64, patch PlanPatch) (*models.StudyPlan, error) {
	var plan models.StudyPlan
	err := s.conn(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.First(&plan, id).Error; err != nil {
			return translate(err)
		}
		mergePlan(&plan, patch)
		return tx.Save(&plan).Error
	})
	if err != nil {
		return nil, err
	}
	return &plan, nil
}

// DeleteStudyPlan removes a plan. Dependent tasks and weeks are left in
// place (no cascade), matching the schema's soft references.
func (s *GormStorage) DeleteStudyPlan(ctx context.Context, id int64) (bool, error) {
	result := s.conn(ctx).Delete(&models.StudyPlan{}, id)
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected > 0, nil
}

// GetStudyTask returns the task with the given id
func (s *GormStorage) GetStudyTask(ctx context.Context, id int64) (*models.StudyTask, error) {
	var task models.StudyTask
	if err := s.conn(ctx).First(&task, id).Error; err != nil {
		return nil, translate(err)
	}
	return &task, nil
}

// GetTasksByPlanID returns the plan's tasks in creation order
func (s *GormStorage) GetTasksByPlanID(ctx context.Context, planID int64) ([]models.StudyTask, error) {
	var tasks []models.StudyTask
	if err := s.conn(ctx).Where("study_plan_id = ?", planID).Order("id").Find(&tasks).Error; err != nil {
		return nil, err
	}
	return tasks, nil
}

// CreateStudyTask inserts a new task
func (s *GormStorage) CreateStudyTask(ctx context.Context, in NewStudyTask) (*models.StudyTask, error) {
	task := newTaskRecord(in)
	if err := s.conn(ctx).Create(&task).Error; err != nil {
		return nil, err
	}
	return &task, nil
}

// UpdateStudyTask merges the patch over an existing task inside a transaction
func (s *GormStorage) UpdateStudyTask(ctx context.Context, id int64, patch TaskPatch) (*models.StudyTask, error) {
	var task models.StudyTask
	err := s.conn(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.First(&task, id).Error; err != nil {
			return translate(err)
		}
		mergeTask(&task, patch)
		return tx.Save(&task).Error
	})
	if err != nil {
		return nil, err
	}
	return &task, nil
}

// DeleteStudyTask removes a task, reporting whether one existed
func (s *GormStorage) DeleteStudyTask(ctx context.Context, id int64) (bool, error) {
	result := s.conn(ctx).Delete(&models.StudyTask{}, id)
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected > 0, nil
}

// MarkTaskComplete sets the completion flag on an existing task
func (s *GormStorage) MarkTaskComplete(ctx context.Context, id int64, completed bool) (*models.StudyTask, error) {
	var task models.StudyTask
	err := s.conn(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.First(&task, id).Error; err != nil {
			return translate(err)
		}
		task.Completed = completed
		return tx.Model(&task).Update("completed", completed).Error
	})
	if err != nil {
		return nil, err
	}
	return &task, nil
}

// GetStudyWeek returns the week with the given id
func (s *GormStorage) GetStudyWeek(ctx context.Context, id int64) (*models.StudyWeek, error) {
	var week models.StudyWeek
	if err := s.conn(ctx).First(&week, id).Error; err != nil {
		return nil, translate(err)
	}
	return &week, nil
}

// GetWeeksByPlanID returns the plan's weeks in creation order
func (s *GormStorage) GetWeeksByPlanID(ctx context.Context, planID int64) ([]models.StudyWeek, error) {
	var weeks []models.StudyWeek
	if err := s.conn(ctx).Where("study_plan_id = ?", planID).Order("id").Find(&weeks).Error; err != nil {
		return nil, err
	}
	return weeks, nil
}

// CreateStudyWeek inserts a new week with its task snapshots
func (s *GormStorage) CreateStudyWeek(ctx context.Context, in NewStudyWeek) (*models.StudyWeek, error) {
	week := newWeekRecord(in)
	if err := s.conn(ctx).Create(&week).Error; err != nil {
		return nil, err
	}
	return &week, nil
}

// UpdateStudyWeek merges the patch over an existing week inside a transaction
func (s *GormStorage) UpdateStudyWeek(ctx context.Context, id int64, patch WeekPatch) (*models.StudyWeek, error) {
	var week models.StudyWeek
	err := s.conn(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.First(&week, id).Error; err != nil {
			return translate(err)
		}
		mergeWeek(&week, patch)
		return tx.Save(&week).Error
	})
	if err != nil {
		return nil, err
	}
	return &week, nil
}

// DeleteStudyWeek removes a week, reporting whether one existed
func (s *GormStorage) DeleteStudyWeek(ctx context.Context, id int64) (bool, error) {
	result := s.conn(ctx).Delete(&models.StudyWeek{}, id)
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected > 0, nil
}

// Ping checks database reachability for health checks
func (s *GormStorage) Ping(ctx context.Context) error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.PingContext(ctx)
}
