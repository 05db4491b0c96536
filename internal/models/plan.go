package models

import (
	"time"
)

// Study preference values
const (
	PreferenceShort = "short"
	PreferenceLong  = "long"
)

// Learning style values
const (
	StyleVisual      = "visual"
	StyleAuditory    = "auditory"
	StyleReading     = "reading"
	StyleKinesthetic = "kinesthetic"
)

// StudyPlan represents one exam-preparation configuration. UserID is nullable
// so plans created before registration stay anonymous; it is a soft reference,
// deleting a user does not touch their plans.
type StudyPlan struct {
	ID               int64       `gorm:"primaryKey;autoIncrement" json:"id"`
	UserID           *int64      `gorm:"index" json:"userId"`
	CourseName       string      `gorm:"size:255;not null" json:"courseName"`
	ExamDate         string      `gorm:"size:64;not null" json:"examDate"`
	WeeklyStudyTime  int         `gorm:"not null" json:"weeklyStudyTime"`
	StudyPreference  string      `gorm:"size:16;not null" json:"studyPreference"`
	LearningStyle    *string     `gorm:"size:32" json:"learningStyle"`
	StudyMaterials   StringList  `json:"studyMaterials"`
	Topics           StringList  `json:"topics"`
	TopicsProgress   ProgressMap `json:"topicsProgress"`
	Resources        StringList  `json:"resources"`
	SelectedSchedule int         `gorm:"not null;default:1" json:"selectedSchedule"`
	CreatedAt        time.Time   `json:"createdAt"`
}

// TableName overrides the table name for StudyPlan
func (StudyPlan) TableName() string {
	return "study_plans"
}
