package models

// Task type values. New types may appear as the client evolves; anything
// unrecognized falls back to the default calendar color on export.
const (
	TaskTypeStudy    = "study"
	TaskTypeReview   = "review"
	TaskTypePractice = "practice"
	TaskTypeBreak    = "break"
)

// StudyTask represents one scheduled study activity belonging to a plan.
// Date is an ISO-8601 date string as supplied by the client.
type StudyTask struct {
	ID          int64   `gorm:"primaryKey;autoIncrement" json:"id"`
	StudyPlanID int64   `gorm:"index;not null" json:"studyPlanId"`
	Title       string  `gorm:"size:255;not null" json:"title"`
	Description *string `gorm:"size:1024" json:"description"`
	Date        string  `gorm:"size:64;not null" json:"date"`
	Duration    int     `gorm:"not null" json:"duration"`
	Resource    *string `gorm:"size:255" json:"resource"`
	Completed   bool    `gorm:"not null;default:false" json:"completed"`
	TaskType    string  `gorm:"size:16;not null;default:study" json:"taskType"`
}

// TableName overrides the table name for StudyTask
func (StudyTask) TableName() string {
	return "study_tasks"
}
