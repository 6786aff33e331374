package dto

import (
	"time"

	"github.com/vxacademy/academy/internal/apperr"
)

// Response is the envelope every endpoint answers with.
type Response struct {
	Success bool                `json:"success"`
	Data    interface{}         `json:"data,omitempty"`
	Message string              `json:"message,omitempty"`
	Errors  []apperr.FieldError `json:"errors,omitempty"`
}

type TrainingAreaResponse struct {
	ID          uint             `json:"id"`
	Name        string           `json:"name"`
	Description string           `json:"description,omitempty"`
	ImageURL    string           `json:"image_url,omitempty"`
	Modules     []ModuleResponse `json:"modules,omitempty"`
	CreatedAt   time.Time        `json:"created_at"`
	UpdatedAt   time.Time        `json:"updated_at"`
}

type ModuleResponse struct {
	ID             uint             `json:"id"`
	TrainingAreaID uint             `json:"training_area_id"`
	Name           string           `json:"name"`
	Description    string           `json:"description,omitempty"`
	ImageURL       string           `json:"image_url,omitempty"`
	Courses        []CourseResponse `json:"courses,omitempty"`
	CreatedAt      time.Time        `json:"created_at"`
	UpdatedAt      time.Time        `json:"updated_at"`
}

type CourseResponse struct {
	ID           uint                 `json:"id"`
	ModuleID     uint                 `json:"module_id"`
	Name         string               `json:"name"`
	Description  string               `json:"description,omitempty"`
	ImageURL     string               `json:"image_url,omitempty"`
	Duration     int                  `json:"duration"`
	Level        string               `json:"level"`
	ShowDuration bool                 `json:"show_duration"`
	ShowLevel    bool                 `json:"show_level"`
	CourseUnits  []CourseUnitResponse `json:"course_units,omitempty"`
	CreatedAt    time.Time            `json:"created_at"`
	UpdatedAt    time.Time            `json:"updated_at"`
}

type CourseUnitResponse struct {
	ID       uint          `json:"id"`
	CourseID uint          `json:"course_id"`
	UnitID   uint          `json:"unit_id"`
	Order    int           `json:"order"`
	Unit     *UnitResponse `json:"unit,omitempty"`
}

type UnitResponse struct {
	ID             uint                    `json:"id"`
	Name           string                  `json:"name"`
	Description    string                  `json:"description,omitempty"`
	Order          int                     `json:"order"`
	Duration       int                     `json:"duration"`
	XPPoints       int                     `json:"xp_points"`
	LearningBlocks []LearningBlockResponse `json:"learning_blocks,omitempty"`
	CreatedAt      time.Time               `json:"created_at"`
	UpdatedAt      time.Time               `json:"updated_at"`
}

type LearningBlockResponse struct {
	ID       uint   `json:"id"`
	UnitID   uint   `json:"unit_id"`
	Type     string `json:"type"`
	Title    string `json:"title,omitempty"`
	Content  string `json:"content,omitempty"`
	MediaURL string `json:"media_url,omitempty"`
	Order    int    `json:"order"`
	XPPoints int    `json:"xp_points"`
}
