package model

import "time"

type ProgressStatus string

const (
	StatusNotStarted ProgressStatus = "not_started"
	StatusInProgress ProgressStatus = "in_progress"
	StatusCompleted  ProgressStatus = "completed"
)

// DeriveStatus maps a completion percentage onto a status. Only the exact
// bounds 0 and 100 map to not_started and completed.
func DeriveStatus(percentage float64) ProgressStatus {
	switch {
	case percentage >= 100:
		return StatusCompleted
	case percentage <= 0:
		return StatusNotStarted
	default:
		return StatusInProgress
	}
}

type UserCourseUnitProgress struct {
	ID                   uint           `gorm:"primarykey" json:"id"`
	UserID               uint           `json:"user_id" gorm:"not null;uniqueIndex:idx_user_course_unit"`
	User                 *User          `json:"-" gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE;"`
	CourseUnitID         uint           `json:"course_unit_id" gorm:"not null;uniqueIndex:idx_user_course_unit;index"`
	CourseUnit           *CourseUnit    `json:"-" gorm:"foreignKey:CourseUnitID;constraint:OnDelete:CASCADE;"`
	Status               ProgressStatus `json:"status" gorm:"not null;default:'not_started'"`
	CompletionPercentage float64        `json:"completion_percentage" gorm:"not null;default:0"`
	CompletedAt          *time.Time     `json:"completed_at,omitempty"`
	CreatedAt            time.Time      `json:"created_at"`
	UpdatedAt            time.Time      `json:"updated_at"`
}

type UserCourseProgress struct {
	ID                   uint           `gorm:"primarykey" json:"id"`
	UserID               uint           `json:"user_id" gorm:"not null;uniqueIndex:idx_user_course"`
	User                 *User          `json:"-" gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE;"`
	CourseID             uint           `json:"course_id" gorm:"not null;uniqueIndex:idx_user_course;index"`
	Course               *Course        `json:"-" gorm:"foreignKey:CourseID;constraint:OnDelete:CASCADE;"`
	Status               ProgressStatus `json:"status" gorm:"not null;default:'not_started'"`
	CompletionPercentage float64        `json:"completion_percentage" gorm:"not null;default:0"`
	CompletedAt          *time.Time     `json:"completed_at,omitempty"`
	CreatedAt            time.Time      `json:"created_at"`
	UpdatedAt            time.Time      `json:"updated_at"`
}

type UserModuleProgress struct {
	ID                   uint           `gorm:"primarykey" json:"id"`
	UserID               uint           `json:"user_id" gorm:"not null;uniqueIndex:idx_user_module"`
	User                 *User          `json:"-" gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE;"`
	ModuleID             uint           `json:"module_id" gorm:"not null;uniqueIndex:idx_user_module;index"`
	Module               *Module        `json:"-" gorm:"foreignKey:ModuleID;constraint:OnDelete:CASCADE;"`
	Status               ProgressStatus `json:"status" gorm:"not null;default:'not_started'"`
	CompletionPercentage float64        `json:"completion_percentage" gorm:"not null;default:0"`
	CompletedAt          *time.Time     `json:"completed_at,omitempty"`
	CreatedAt            time.Time      `json:"created_at"`
	UpdatedAt            time.Time      `json:"updated_at"`
}

type UserTrainingAreaProgress struct {
	ID                   uint           `gorm:"primarykey" json:"id"`
	UserID               uint           `json:"user_id" gorm:"not null;uniqueIndex:idx_user_training_area"`
	User                 *User          `json:"-" gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE;"`
	TrainingAreaID       uint           `json:"training_area_id" gorm:"not null;uniqueIndex:idx_user_training_area;index"`
	TrainingArea         *TrainingArea  `json:"-" gorm:"foreignKey:TrainingAreaID;constraint:OnDelete:CASCADE;"`
	Status               ProgressStatus `json:"status" gorm:"not null;default:'not_started'"`
	CompletionPercentage float64        `json:"completion_percentage" gorm:"not null;default:0"`
	CompletedAt          *time.Time     `json:"completed_at,omitempty"`
	CreatedAt            time.Time      `json:"created_at"`
	UpdatedAt            time.Time      `json:"updated_at"`
}

// LearningBlockCompletion records a block a learner finished inside one course placement.
type LearningBlockCompletion struct {
	ID              uint           `gorm:"primarykey" json:"id"`
	UserID          uint           `json:"user_id" gorm:"not null;uniqueIndex:idx_block_completion"`
	User            *User          `json:"-" gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE;"`
	CourseUnitID    uint           `json:"course_unit_id" gorm:"not null;uniqueIndex:idx_block_completion"`
	CourseUnit      *CourseUnit    `json:"-" gorm:"foreignKey:CourseUnitID;constraint:OnDelete:CASCADE;"`
	LearningBlockID uint           `json:"learning_block_id" gorm:"not null;uniqueIndex:idx_block_completion"`
	LearningBlock   *LearningBlock `json:"-" gorm:"foreignKey:LearningBlockID;constraint:OnDelete:CASCADE;"`
	CompletedAt     time.Time      `json:"completed_at"`
}
