package model

import "time"

type UserType string

const (
	UserTypeAdmin    UserType = "admin"
	UserTypeSubAdmin UserType = "sub_admin"
	UserTypeUser     UserType = "user"
)

func (t UserType) Valid() bool {
	return t == UserTypeAdmin || t == UserTypeSubAdmin || t == UserTypeUser
}

type User struct {
	ID                uint              `gorm:"primarykey" json:"id"`
	Name              string            `json:"name" gorm:"not null"`
	Email             string            `json:"email" gorm:"not null;uniqueIndex"`
	PasswordHash      string            `json:"-" gorm:"not null"`
	UserType          UserType          `json:"user_type" gorm:"not null;default:'user';index"`
	XP                int               `json:"xp" gorm:"column:xp;not null;default:0"`
	OrganizationID    *uint             `json:"organization_id,omitempty" gorm:"index"`
	Organization      *Organization     `json:"-" gorm:"foreignKey:OrganizationID;constraint:OnDelete:SET NULL;"`
	SubOrganizationID *uint             `json:"sub_organization_id,omitempty" gorm:"index"`
	SubOrganization   *SubOrganization  `json:"-" gorm:"foreignKey:SubOrganizationID;constraint:OnDelete:SET NULL;"`
	AssetID           *uint             `json:"asset_id,omitempty" gorm:"index"`
	Asset             *Asset            `json:"-" gorm:"foreignKey:AssetID;constraint:OnDelete:SET NULL;"`
	SubAssetID        *uint             `json:"sub_asset_id,omitempty" gorm:"index"`
	SubAsset          *SubAsset         `json:"-" gorm:"foreignKey:SubAssetID;constraint:OnDelete:SET NULL;"`
	SubAdminDetail    *SubAdminDetail   `json:"sub_admin_detail,omitempty" gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE;"`
	NormalUserDetail  *NormalUserDetail `json:"normal_user_detail,omitempty" gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE;"`
	CreatedAt         time.Time         `json:"created_at"`
	UpdatedAt         time.Time         `json:"updated_at"`
}

type SubAdminDetail struct {
	ID        uint      `gorm:"primarykey" json:"id"`
	UserID    uint      `json:"user_id" gorm:"not null;uniqueIndex"`
	JobTitle  string    `json:"job_title"`
	EID       string    `json:"eid" gorm:"column:eid;not null;uniqueIndex"`
	Phone     string    `json:"phone"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

type NormalUserDetail struct {
	ID               uint      `gorm:"primarykey" json:"id"`
	UserID           uint      `json:"user_id" gorm:"not null;uniqueIndex"`
	RoleID           *uint     `json:"role_id,omitempty" gorm:"index"`
	SeniorityLevelID *uint     `json:"seniority_level_id,omitempty" gorm:"index"`
	EID              string    `json:"eid" gorm:"column:eid;not null;uniqueIndex"`
	CreatedAt        time.Time `json:"created_at"`
	UpdatedAt        time.Time `json:"updated_at"`
}
