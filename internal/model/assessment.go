package model

import (
	"fmt"
	"time"

	"gorm.io/datatypes"
)

type OwnerKind string

const (
	OwnerTrainingArea OwnerKind = "training_area"
	OwnerModule       OwnerKind = "module"
	OwnerCourse       OwnerKind = "course"
	OwnerUnit         OwnerKind = "unit"
)

func (k OwnerKind) Valid() bool {
	switch k {
	case OwnerTrainingArea, OwnerModule, OwnerCourse, OwnerUnit:
		return true
	}
	return false
}

// AssessmentOwner is the single content entity an assessment is attached to.
type AssessmentOwner struct {
	Kind OwnerKind `json:"type" gorm:"column:owner_type;not null;index:idx_assessment_owner"`
	ID   uint      `json:"id" gorm:"column:owner_id;not null;index:idx_assessment_owner"`
}

func (o AssessmentOwner) String() string {
	return fmt.Sprintf("%s:%d", o.Kind, o.ID)
}

type Placement string

const (
	PlacementStart Placement = "start"
	PlacementEnd   Placement = "end"
)

type Assessment struct {
	ID                  uint            `gorm:"primarykey" json:"id"`
	Owner               AssessmentOwner `json:"owner" gorm:"embedded"`
	Title               string          `json:"title" gorm:"not null"`
	Description         string          `json:"description" gorm:"type:text"`
	Placement           Placement       `json:"placement" gorm:"default:'end'"`
	PassingScore        int             `json:"passing_score" gorm:"not null"`
	TimeLimit           int             `json:"time_limit"` // minutes, 0 = unlimited
	MaxRetakes          int             `json:"max_retakes" gorm:"not null"`
	XPReward            int             `json:"xp_reward" gorm:"column:xp_reward;default:0"`
	CertificateTemplate string          `json:"certificate_template,omitempty"`
	Questions           []Question      `json:"questions,omitempty" gorm:"foreignKey:AssessmentID;constraint:OnDelete:CASCADE;"`
	CreatedAt           time.Time       `json:"created_at"`
	UpdatedAt           time.Time       `json:"updated_at"`
}

type QuestionType string

const (
	QuestionMCQ       QuestionType = "mcq"
	QuestionTrueFalse QuestionType = "true_false"
)

type Question struct {
	ID            uint                        `gorm:"primarykey" json:"id"`
	AssessmentID  uint                        `json:"assessment_id" gorm:"not null;index"`
	Text          string                      `json:"text" gorm:"type:text;not null"`
	Type          QuestionType                `json:"type" gorm:"not null"`
	Options       datatypes.JSONSlice[string] `json:"options"`
	CorrectAnswer string                      `json:"correct_answer" gorm:"not null"`
	Order         int                         `json:"order" gorm:"column:sort_order"`
	CreatedAt     time.Time                   `json:"created_at"`
	UpdatedAt     time.Time                   `json:"updated_at"`
}

// OptionIndex returns the position of answer among the options, or -1.
func (q Question) OptionIndex(answer string) int {
	for i, opt := range q.Options {
		if opt == answer {
			return i
		}
	}
	return -1
}

type AssessmentAttempt struct {
	ID              uint                                `gorm:"primarykey" json:"id"`
	UserID          uint                                `json:"user_id" gorm:"not null;index:idx_attempt_user_assessment"`
	User            *User                               `json:"-" gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE;"`
	AssessmentID    uint                                `json:"assessment_id" gorm:"not null;index:idx_attempt_user_assessment"`
	Assessment      *Assessment                         `json:"-" gorm:"foreignKey:AssessmentID;constraint:OnDelete:CASCADE;"`
	Score           int                                 `json:"score"`
	Passed          bool                                `json:"passed"`
	Answers         datatypes.JSONType[map[uint]string] `json:"answers"`
	SelectedIndexes datatypes.JSONType[map[uint]int]    `json:"selected_indexes"`
	StartedAt       time.Time                           `json:"started_at"`
	CompletedAt     time.Time                           `json:"completed_at"`
	CreatedAt       time.Time                           `json:"created_at"`
}
