package model

import (
	"time"

	"gorm.io/datatypes"
)

type NotificationType string

const (
	NotificationCourseCompleted    NotificationType = "course_completed"
	NotificationCertificateIssued  NotificationType = "certificate_issued"
	NotificationCertificateExpired NotificationType = "certificate_expired"
	NotificationBadgeEarned        NotificationType = "badge_earned"
)

type Notification struct {
	ID        uint              `gorm:"primarykey" json:"id"`
	UserID    uint              `json:"user_id" gorm:"not null;index"`
	User      *User             `json:"-" gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE;"`
	Type      NotificationType  `json:"type" gorm:"not null"`
	Title     string            `json:"title" gorm:"not null"`
	Message   string            `json:"message" gorm:"type:text"`
	Payload   datatypes.JSONMap `json:"payload,omitempty"`
	Read      bool              `json:"read" gorm:"column:is_read;default:false"`
	CreatedAt time.Time         `json:"created_at"`
}
