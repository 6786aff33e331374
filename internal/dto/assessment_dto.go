package dto

import "time"

type AssessmentOwnerDTO struct {
	Type string `json:"type" binding:"required,oneof=training_area module course unit"`
	ID   uint   `json:"id" binding:"required"`
}

type CreateQuestionRequest struct {
	Text          string   `json:"text" binding:"required"`
	Type          string   `json:"type" binding:"required,oneof=mcq true_false"`
	Options       []string `json:"options" binding:"omitempty,dive,required"`
	CorrectAnswer string   `json:"correct_answer" binding:"required"`
	Order         int      `json:"order" binding:"min=0"`
}

type UpdateQuestionRequest struct {
	Text          *string  `json:"text" binding:"omitempty,min=1"`
	Type          *string  `json:"type" binding:"omitempty,oneof=mcq true_false"`
	Options       []string `json:"options" binding:"omitempty,dive,required"`
	CorrectAnswer *string  `json:"correct_answer" binding:"omitempty,min=1"`
	Order         *int     `json:"order" binding:"omitempty,min=0"`
}

type CreateAssessmentRequest struct {
	Owner               AssessmentOwnerDTO      `json:"owner" binding:"required"`
	Title               string                  `json:"title" binding:"required,max=255"`
	Description         string                  `json:"description"`
	Placement           string                  `json:"placement" binding:"omitempty,oneof=start end"`
	PassingScore        int                     `json:"passing_score" binding:"min=0,max=100"`
	TimeLimit           int                     `json:"time_limit" binding:"min=0"`
	MaxRetakes          int                     `json:"max_retakes" binding:"required,min=1"`
	XPReward            int                     `json:"xp_reward" binding:"min=0"`
	CertificateTemplate string                  `json:"certificate_template"`
	Questions           []CreateQuestionRequest `json:"questions" binding:"omitempty,dive"`
}

type UpdateAssessmentRequest struct {
	Title               *string `json:"title" binding:"omitempty,min=1,max=255"`
	Description         *string `json:"description"`
	Placement           *string `json:"placement" binding:"omitempty,oneof=start end"`
	PassingScore        *int    `json:"passing_score" binding:"omitempty,min=0,max=100"`
	TimeLimit           *int    `json:"time_limit" binding:"omitempty,min=0"`
	MaxRetakes          *int    `json:"max_retakes" binding:"omitempty,min=1"`
	XPReward            *int    `json:"xp_reward" binding:"omitempty,min=0"`
	CertificateTemplate *string `json:"certificate_template"`
}

type QuestionResponse struct {
	ID            uint     `json:"id"`
	AssessmentID  uint     `json:"assessment_id"`
	Text          string   `json:"text"`
	Type          string   `json:"type"`
	Options       []string `json:"options"`
	CorrectAnswer string   `json:"correct_answer,omitempty"`
	Order         int      `json:"order"`
}

type AssessmentResponse struct {
	ID                  uint               `json:"id"`
	Owner               AssessmentOwnerDTO `json:"owner"`
	Title               string             `json:"title"`
	Description         string             `json:"description,omitempty"`
	Placement           string             `json:"placement"`
	PassingScore        int                `json:"passing_score"`
	TimeLimit           int                `json:"time_limit"`
	MaxRetakes          int                `json:"max_retakes"`
	XPReward            int                `json:"xp_reward"`
	CertificateTemplate string             `json:"certificate_template,omitempty"`
	QuestionCount       int                `json:"question_count"`
	Questions           []QuestionResponse `json:"questions,omitempty"`
	CreatedAt           time.Time          `json:"created_at"`
	UpdatedAt           time.Time          `json:"updated_at"`
}

// SubmitAssessmentRequest carries the selected option text per question id.
type SubmitAssessmentRequest struct {
	UserID       uint            `json:"user_id" binding:"required"`
	CourseUnitID *uint           `json:"course_unit_id"`
	StartedAt    *time.Time      `json:"started_at"`
	Answers      map[uint]string `json:"answers" binding:"required"`
}

type AttemptResponse struct {
	ID              uint                 `json:"id"`
	AssessmentID    uint                 `json:"assessment_id"`
	UserID          uint                 `json:"user_id"`
	Score           int                  `json:"score"`
	Passed          bool                 `json:"passed"`
	CorrectCount    int                  `json:"correct_count"`
	TotalQuestions  int                  `json:"total_questions"`
	Answers         map[uint]string      `json:"answers"`
	SelectedIndexes map[uint]int         `json:"selected_indexes"`
	AttemptsUsed    int64                `json:"attempts_used"`
	AttemptsLeft    int64                `json:"attempts_left"`
	XPAwarded       int                  `json:"xp_awarded"`
	Certificate     *CertificateResponse `json:"certificate,omitempty"`
	StartedAt       time.Time            `json:"started_at"`
	CompletedAt     time.Time            `json:"completed_at"`
}
