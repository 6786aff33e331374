package model

import "time"

type RoleCategory struct {
	ID          uint      `gorm:"primarykey" json:"id"`
	Name        string    `json:"name" gorm:"not null;uniqueIndex"`
	Description string    `json:"description"`
	Roles       []Role    `json:"roles,omitempty" gorm:"foreignKey:RoleCategoryID;constraint:OnDelete:CASCADE;"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

type Role struct {
	ID             uint      `gorm:"primarykey" json:"id"`
	RoleCategoryID uint      `json:"role_category_id" gorm:"not null;index"`
	Name           string    `json:"name" gorm:"not null"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
}

type SeniorityLevel struct {
	ID        uint      `gorm:"primarykey" json:"id"`
	Name      string    `json:"name" gorm:"not null;uniqueIndex"`
	Rank      int       `json:"rank"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// UnitRoleAssignment names the units relevant to a role category, seniority
// level and asset combination.
type UnitRoleAssignment struct {
	ID               uint             `gorm:"primarykey" json:"id"`
	Name             string           `json:"name" gorm:"not null;uniqueIndex:idx_assignment_tuple"`
	RoleCategoryID   uint             `json:"role_category_id" gorm:"not null;uniqueIndex:idx_assignment_tuple"`
	RoleCategory     *RoleCategory    `json:"-" gorm:"foreignKey:RoleCategoryID;constraint:OnDelete:CASCADE;"`
	SeniorityLevelID uint             `json:"seniority_level_id" gorm:"not null;uniqueIndex:idx_assignment_tuple"`
	SeniorityLevel   *SeniorityLevel  `json:"-" gorm:"foreignKey:SeniorityLevelID;constraint:OnDelete:CASCADE;"`
	AssetID          uint             `json:"asset_id" gorm:"not null;uniqueIndex:idx_assignment_tuple"`
	Asset            *Asset           `json:"-" gorm:"foreignKey:AssetID;constraint:OnDelete:CASCADE;"`
	Units            []AssignmentUnit `json:"units,omitempty" gorm:"foreignKey:AssignmentID;constraint:OnDelete:CASCADE;"`
	CreatedAt        time.Time        `json:"created_at"`
	UpdatedAt        time.Time        `json:"updated_at"`
}

type AssignmentUnit struct {
	ID           uint  `gorm:"primarykey" json:"id"`
	AssignmentID uint  `json:"assignment_id" gorm:"not null;uniqueIndex:idx_assignment_unit"`
	UnitID       uint  `json:"unit_id" gorm:"not null;uniqueIndex:idx_assignment_unit;index"`
	Unit         *Unit `json:"-" gorm:"foreignKey:UnitID;constraint:OnDelete:CASCADE;"`
}
