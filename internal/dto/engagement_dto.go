package dto

import "time"

type EnrollRequest struct {
	UserID uint   `json:"user_id" binding:"required"`
	Source string `json:"source" binding:"omitempty,oneof=self admin assignment"`
}

type EnrollmentResponse struct {
	ID         uint      `json:"id"`
	UserID     uint      `json:"user_id"`
	CourseID   uint      `json:"course_id"`
	EnrolledAt time.Time `json:"enrolled_at"`
	Source     string    `json:"source"`
}

type IssueCertificateRequest struct {
	UserID   uint `json:"user_id" binding:"required"`
	CourseID uint `json:"course_id" binding:"required"`
}

type CertificateResponse struct {
	ID                uint      `json:"id"`
	UserID            uint      `json:"user_id"`
	CourseID          uint      `json:"course_id"`
	CertificateNumber string    `json:"certificate_number"`
	IssueDate         time.Time `json:"issue_date"`
	ExpiryDate        time.Time `json:"expiry_date"`
	Status            string    `json:"status"`
}

type CreateBadgeRequest struct {
	Name        string `json:"name" binding:"required,max=255"`
	Description string `json:"description"`
	ImageURL    string `json:"image_url" binding:"omitempty,url"`
	XPPoints    int    `json:"xp_points" binding:"min=0"`
}

type AwardBadgeRequest struct {
	UserID uint `json:"user_id" binding:"required"`
}

type UserBadgeResponse struct {
	BadgeID     uint      `json:"badge_id"`
	Name        string    `json:"name"`
	Description string    `json:"description,omitempty"`
	ImageURL    string    `json:"image_url,omitempty"`
	EarnedAt    time.Time `json:"earned_at"`
}

type NotificationResponse struct {
	ID        uint                   `json:"id"`
	Type      string                 `json:"type"`
	Title     string                 `json:"title"`
	Message   string                 `json:"message,omitempty"`
	Payload   map[string]interface{} `json:"payload,omitempty"`
	Read      bool                   `json:"read"`
	CreatedAt time.Time              `json:"created_at"`
}

type CourseCompletionResponse struct {
	CourseID          uint    `json:"course_id"`
	CourseName        string  `json:"course_name"`
	Enrolled          int64   `json:"enrolled"`
	Completed         int64   `json:"completed"`
	CompletionRate    float64 `json:"completion_rate"`
	AveragePercentage float64 `json:"average_percentage"`
}

type CompletionReportResponse struct {
	From    time.Time                  `json:"from"`
	To      time.Time                  `json:"to"`
	Courses []CourseCompletionResponse `json:"courses"`
}

type AskAssistantRequest struct {
	UserID   uint   `json:"user_id" binding:"required"`
	Question string `json:"question" binding:"required,max=2000"`
	UnitID   *uint  `json:"unit_id"`
}

type AssistantAnswerResponse struct {
	Answer string `json:"answer"`
}
