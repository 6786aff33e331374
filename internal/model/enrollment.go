package model

import "time"

type EnrollmentSource string

const (
	SourceSelf       EnrollmentSource = "self"
	SourceAdmin      EnrollmentSource = "admin"
	SourceAssignment EnrollmentSource = "assignment"
)

type CourseEnrollment struct {
	ID         uint             `gorm:"primarykey" json:"id"`
	UserID     uint             `json:"user_id" gorm:"not null;uniqueIndex:idx_enrollment_user_course"`
	User       *User            `json:"-" gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE;"`
	CourseID   uint             `json:"course_id" gorm:"not null;uniqueIndex:idx_enrollment_user_course;index"`
	Course     *Course          `json:"-" gorm:"foreignKey:CourseID;constraint:OnDelete:CASCADE;"`
	EnrolledAt time.Time        `json:"enrolled_at"`
	Source     EnrollmentSource `json:"source" gorm:"not null;default:'self'"`
}

type CertificateStatus string

const (
	CertificateActive  CertificateStatus = "active"
	CertificateRevoked CertificateStatus = "revoked"
	CertificateExpired CertificateStatus = "expired"
)

type Certificate struct {
	ID                uint              `gorm:"primarykey" json:"id"`
	UserID            uint              `json:"user_id" gorm:"not null;index:idx_certificate_user_course"`
	User              *User             `json:"-" gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE;"`
	CourseID          uint              `json:"course_id" gorm:"not null;index:idx_certificate_user_course"`
	Course            *Course           `json:"-" gorm:"foreignKey:CourseID;constraint:OnDelete:CASCADE;"`
	CertificateNumber string            `json:"certificate_number" gorm:"not null;uniqueIndex"`
	IssueDate         time.Time         `json:"issue_date"`
	ExpiryDate        time.Time         `json:"expiry_date"`
	Status            CertificateStatus `json:"status" gorm:"not null;default:'active';index"`
	CreatedAt         time.Time         `json:"created_at"`
	UpdatedAt         time.Time         `json:"updated_at"`
}

type Badge struct {
	ID          uint      `gorm:"primarykey" json:"id"`
	Name        string    `json:"name" gorm:"not null;uniqueIndex"`
	Description string    `json:"description" gorm:"type:text"`
	ImageURL    string    `json:"image_url"`
	XPPoints    int       `json:"xp_points" gorm:"column:xp_points;default:0"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

type UserBadge struct {
	ID       uint      `gorm:"primarykey" json:"id"`
	UserID   uint      `json:"user_id" gorm:"not null;uniqueIndex:idx_user_badge"`
	User     *User     `json:"-" gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE;"`
	BadgeID  uint      `json:"badge_id" gorm:"not null;uniqueIndex:idx_user_badge"`
	Badge    *Badge    `json:"badge,omitempty" gorm:"foreignKey:BadgeID;constraint:OnDelete:CASCADE;"`
	EarnedAt time.Time `json:"earned_at"`
}
