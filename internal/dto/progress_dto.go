package dto

import "time"

type RecordProgressRequest struct {
	UserID     uint     `json:"user_id" binding:"required"`
	Percentage *float64 `json:"percentage" binding:"required,min=0,max=100"`
}

type CompleteRequest struct {
	UserID uint `json:"user_id" binding:"required"`
}

type ProgressEntry struct {
	EntityID             uint       `json:"entity_id"`
	Name                 string     `json:"name,omitempty"`
	Status               string     `json:"status"`
	CompletionPercentage float64    `json:"completion_percentage"`
	CompletedAt          *time.Time `json:"completed_at,omitempty"`
}

type CourseProgressResponse struct {
	UserID               uint            `json:"user_id"`
	CourseID             uint            `json:"course_id"`
	Status               string          `json:"status"`
	CompletionPercentage float64         `json:"completion_percentage"`
	CompletedAt          *time.Time      `json:"completed_at,omitempty"`
	Units                []ProgressEntry `json:"units"`
}

type LearnerOverviewResponse struct {
	UserID        uint            `json:"user_id"`
	XP            int             `json:"xp"`
	TrainingAreas []ProgressEntry `json:"training_areas"`
	Modules       []ProgressEntry `json:"modules"`
	Courses       []ProgressEntry `json:"courses"`
}

// RollupResponse reports the recomputed ancestors of one leaf event.
type RollupResponse struct {
	UnitProgress         ProgressEntry `json:"unit"`
	CourseProgress       ProgressEntry `json:"course"`
	ModuleProgress       ProgressEntry `json:"module"`
	TrainingAreaProgress ProgressEntry `json:"training_area"`
	CourseCompleted      bool          `json:"course_completed"`
	XPAwarded            int           `json:"xp_awarded"`
}
