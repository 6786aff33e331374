package model

import "time"

type Asset struct {
	ID        uint       `gorm:"primarykey" json:"id"`
	Name      string     `json:"name" gorm:"not null;uniqueIndex"`
	SubAssets []SubAsset `json:"sub_assets,omitempty" gorm:"foreignKey:AssetID;constraint:OnDelete:CASCADE;"`
	CreatedAt time.Time  `json:"created_at"`
	UpdatedAt time.Time  `json:"updated_at"`
}

type SubAsset struct {
	ID        uint      `gorm:"primarykey" json:"id"`
	AssetID   uint      `json:"asset_id" gorm:"not null;index"`
	Name      string    `json:"name" gorm:"not null"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

type Organization struct {
	ID               uint              `gorm:"primarykey" json:"id"`
	Name             string            `json:"name" gorm:"not null;uniqueIndex"`
	AssetID          *uint             `json:"asset_id,omitempty" gorm:"index"`
	Asset            *Asset            `json:"-" gorm:"foreignKey:AssetID;constraint:OnDelete:SET NULL;"`
	SubAssetID       *uint             `json:"sub_asset_id,omitempty" gorm:"index"`
	SubAsset         *SubAsset         `json:"-" gorm:"foreignKey:SubAssetID;constraint:OnDelete:SET NULL;"`
	SubOrganizations []SubOrganization `json:"sub_organizations,omitempty" gorm:"foreignKey:OrganizationID;constraint:OnDelete:CASCADE;"`
	CreatedAt        time.Time         `json:"created_at"`
	UpdatedAt        time.Time         `json:"updated_at"`
}

type SubOrganization struct {
	ID             uint      `gorm:"primarykey" json:"id"`
	OrganizationID uint      `json:"organization_id" gorm:"not null;index"`
	Name           string    `json:"name" gorm:"not null"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
}
