package dto

import "time"

type SubAdminDetailDTO struct {
	JobTitle string `json:"job_title"`
	EID      string `json:"eid" binding:"required"`
	Phone    string `json:"phone"`
}

type NormalUserDetailDTO struct {
	RoleID           *uint  `json:"role_id"`
	SeniorityLevelID *uint  `json:"seniority_level_id"`
	EID              string `json:"eid" binding:"required"`
}

type CreateUserRequest struct {
	Name              string               `json:"name" binding:"required,max=255"`
	Email             string               `json:"email" binding:"required,email"`
	Password          string               `json:"password" binding:"required,min=8"`
	UserType          string               `json:"user_type" binding:"required,oneof=admin sub_admin user"`
	OrganizationID    *uint                `json:"organization_id"`
	SubOrganizationID *uint                `json:"sub_organization_id"`
	AssetID           *uint                `json:"asset_id"`
	SubAssetID        *uint                `json:"sub_asset_id"`
	SubAdminDetail    *SubAdminDetailDTO   `json:"sub_admin_detail"`
	NormalUserDetail  *NormalUserDetailDTO `json:"normal_user_detail"`
}

type UpdateUserRequest struct {
	Name              *string              `json:"name" binding:"omitempty,min=1,max=255"`
	Email             *string              `json:"email" binding:"omitempty,email"`
	Password          *string              `json:"password" binding:"omitempty,min=8"`
	OrganizationID    *uint                `json:"organization_id"`
	SubOrganizationID *uint                `json:"sub_organization_id"`
	AssetID           *uint                `json:"asset_id"`
	SubAssetID        *uint                `json:"sub_asset_id"`
	SubAdminDetail    *SubAdminDetailDTO   `json:"sub_admin_detail"`
	NormalUserDetail  *NormalUserDetailDTO `json:"normal_user_detail"`
}

type UserResponse struct {
	ID                uint                 `json:"id"`
	Name              string               `json:"name"`
	Email             string               `json:"email"`
	UserType          string               `json:"user_type"`
	XP                int                  `json:"xp"`
	OrganizationID    *uint                `json:"organization_id,omitempty"`
	SubOrganizationID *uint                `json:"sub_organization_id,omitempty"`
	AssetID           *uint                `json:"asset_id,omitempty"`
	SubAssetID        *uint                `json:"sub_asset_id,omitempty"`
	SubAdminDetail    *SubAdminDetailDTO   `json:"sub_admin_detail,omitempty"`
	NormalUserDetail  *NormalUserDetailDTO `json:"normal_user_detail,omitempty"`
	CreatedAt         time.Time            `json:"created_at"`
	UpdatedAt         time.Time            `json:"updated_at"`
}

type NamedRequest struct {
	Name string `json:"name" binding:"required,max=255"`
}

type SubAssetRequest struct {
	AssetID uint   `json:"asset_id" binding:"required"`
	Name    string `json:"name" binding:"required,max=255"`
}

type OrganizationRequest struct {
	Name       string `json:"name" binding:"required,max=255"`
	AssetID    *uint  `json:"asset_id"`
	SubAssetID *uint  `json:"sub_asset_id"`
}

type SubOrganizationRequest struct {
	OrganizationID uint   `json:"organization_id" binding:"required"`
	Name           string `json:"name" binding:"required,max=255"`
}

type RoleCategoryRequest struct {
	Name        string `json:"name" binding:"required,max=255"`
	Description string `json:"description"`
}

type RoleRequest struct {
	RoleCategoryID uint   `json:"role_category_id" binding:"required"`
	Name           string `json:"name" binding:"required,max=255"`
}

type SeniorityLevelRequest struct {
	Name string `json:"name" binding:"required,max=255"`
	Rank int    `json:"rank" binding:"min=0"`
}

type AssignmentRequest struct {
	Name             string `json:"name" binding:"required,max=255"`
	RoleCategoryID   uint   `json:"role_category_id" binding:"required"`
	SeniorityLevelID uint   `json:"seniority_level_id" binding:"required"`
	AssetID          uint   `json:"asset_id" binding:"required"`
	UnitIDs          []uint `json:"unit_ids" binding:"omitempty,dive,min=1"`
}

type AssignmentResponse struct {
	ID               uint      `json:"id"`
	Name             string    `json:"name"`
	RoleCategoryID   uint      `json:"role_category_id"`
	SeniorityLevelID uint      `json:"seniority_level_id"`
	AssetID          uint      `json:"asset_id"`
	UnitIDs          []uint    `json:"unit_ids"`
	CreatedAt        time.Time `json:"created_at"`
	UpdatedAt        time.Time `json:"updated_at"`
}
