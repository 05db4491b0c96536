package models

import (
	"gorm.io/datatypes"
)

// TaskSlot is a point-in-time JSON snapshot of a StudyTask embedded in a week
// record. Slots are copies by design: editing the source task later does not
// rewrite weeks that already reference it.
type TaskSlot = datatypes.JSONType[StudyTask]

// NewTaskSlot snapshots a task into a slot value.
func NewTaskSlot(task StudyTask) TaskSlot {
	return datatypes.NewJSONType(task)
}

// StudyWeek groups up to four designated tasks of one plan into a calendar
// week view. WeekStart and WeekEnd are ISO-8601 date strings with
// WeekStart <= WeekEnd; each slot is either a task snapshot or absent.
type StudyWeek struct {
	ID            int64     `gorm:"primaryKey;autoIncrement" json:"id"`
	StudyPlanID   int64     `gorm:"index;not null" json:"studyPlanId"`
	WeekStart     string    `gorm:"size:64;not null" json:"weekStart"`
	WeekEnd       string    `gorm:"size:64;not null" json:"weekEnd"`
	MondayTask    *TaskSlot `json:"mondayTask"`
	WednesdayTask *TaskSlot `json:"wednesdayTask"`
	FridayTask    *TaskSlot `json:"fridayTask"`
	WeekendTask   *TaskSlot `json:"weekendTask"`
}

// TableName overrides the table name for StudyWeek
func (StudyWeek) TableName() string {
	return "study_weeks"
}
