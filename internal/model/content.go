package model

import (
	"time"
)

type TrainingArea struct {
	ID          uint      `gorm:"primarykey" json:"id"`
	Name        string    `json:"name" gorm:"not null"`
	Description string    `json:"description" gorm:"type:text"`
	ImageURL    string    `json:"image_url"`
	Modules     []Module  `json:"modules,omitempty" gorm:"foreignKey:TrainingAreaID;constraint:OnDelete:CASCADE;"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

type Module struct {
	ID             uint      `gorm:"primarykey" json:"id"`
	TrainingAreaID uint      `json:"training_area_id" gorm:"not null;index"`
	Name           string    `json:"name" gorm:"not null"`
	Description    string    `json:"description" gorm:"type:text"`
	ImageURL       string    `json:"image_url"`
	Courses        []Course  `json:"courses,omitempty" gorm:"foreignKey:ModuleID;constraint:OnDelete:CASCADE;"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
}

type CourseLevel string

const (
	LevelBeginner     CourseLevel = "beginner"
	LevelIntermediate CourseLevel = "intermediate"
	LevelAdvanced     CourseLevel = "advanced"
)

type Course struct {
	ID           uint         `gorm:"primarykey" json:"id"`
	ModuleID     uint         `json:"module_id" gorm:"not null;index"`
	Name         string       `json:"name" gorm:"not null"`
	Description  string       `json:"description" gorm:"type:text"`
	ImageURL     string       `json:"image_url"`
	Duration     int          `json:"duration"` // minutes
	Level        CourseLevel  `json:"level" gorm:"default:'beginner'"`
	ShowDuration bool         `json:"show_duration"`
	ShowLevel    bool         `json:"show_level"`
	CourseUnits  []CourseUnit `json:"course_units,omitempty" gorm:"foreignKey:CourseID;constraint:OnDelete:CASCADE;"`
	CreatedAt    time.Time    `json:"created_at"`
	UpdatedAt    time.Time    `json:"updated_at"`
}

// Unit is reusable: it is placed into courses through CourseUnit rows.
type Unit struct {
	ID             uint            `gorm:"primarykey" json:"id"`
	Name           string          `json:"name" gorm:"not null"`
	Description    string          `json:"description" gorm:"type:text"`
	Order          int             `json:"order" gorm:"column:sort_order"`
	Duration       int             `json:"duration"` // minutes
	XPPoints       int             `json:"xp_points" gorm:"column:xp_points;default:0"`
	LearningBlocks []LearningBlock `json:"learning_blocks,omitempty" gorm:"foreignKey:UnitID;constraint:OnDelete:CASCADE;"`
	CreatedAt      time.Time       `json:"created_at"`
	UpdatedAt      time.Time       `json:"updated_at"`
}

// CourseUnit places a Unit inside a Course. Progress is tracked per placement.
type CourseUnit struct {
	ID        uint      `gorm:"primarykey" json:"id"`
	CourseID  uint      `json:"course_id" gorm:"not null;uniqueIndex:idx_course_unit"`
	UnitID    uint      `json:"unit_id" gorm:"not null;uniqueIndex:idx_course_unit;index"`
	Unit      *Unit     `json:"unit,omitempty" gorm:"foreignKey:UnitID;constraint:OnDelete:CASCADE;"`
	Order     int       `json:"order" gorm:"column:sort_order;not null"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

type BlockType string

const (
	BlockVideo       BlockType = "video"
	BlockText        BlockType = "text"
	BlockImage       BlockType = "image"
	BlockInteractive BlockType = "interactive"
)

type LearningBlock struct {
	ID        uint      `gorm:"primarykey" json:"id"`
	UnitID    uint      `json:"unit_id" gorm:"not null;index"`
	Type      BlockType `json:"type" gorm:"not null"`
	Title     string    `json:"title"`
	Content   string    `json:"content" gorm:"type:text"`
	MediaURL  string    `json:"media_url"`
	Order     int       `json:"order" gorm:"column:sort_order;not null"`
	XPPoints  int       `json:"xp_points" gorm:"column:xp_points;default:0"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
