package repository

import (
	"context"

	"github.com/vxacademy/academy/internal/model"
	"gorm.io/gorm"
)

// OrganizationRepository covers the reporting classification tables.
type OrganizationRepository interface {
	WithTx(tx *gorm.DB) OrganizationRepository

	CreateAsset(ctx context.Context, a *model.Asset) error
	FindAsset(ctx context.Context, id uint) (*model.Asset, error)
	FindAssets(ctx context.Context, search string) ([]model.Asset, error)
	UpdateAsset(ctx context.Context, a *model.Asset) error
	DeleteAsset(ctx context.Context, id uint) error

	CreateSubAsset(ctx context.Context, s *model.SubAsset) error
	FindSubAsset(ctx context.Context, id uint) (*model.SubAsset, error)
	FindSubAssets(ctx context.Context, assetID *uint) ([]model.SubAsset, error)
	UpdateSubAsset(ctx context.Context, s *model.SubAsset) error
	DeleteSubAsset(ctx context.Context, id uint) error

	CreateOrganization(ctx context.Context, o *model.Organization) error
	FindOrganization(ctx context.Context, id uint) (*model.Organization, error)
	FindOrganizations(ctx context.Context, search string) ([]model.Organization, error)
	UpdateOrganization(ctx context.Context, o *model.Organization) error
	DeleteOrganization(ctx context.Context, id uint) error

	CreateSubOrganization(ctx context.Context, s *model.SubOrganization) error
	FindSubOrganization(ctx context.Context, id uint) (*model.SubOrganization, error)
	FindSubOrganizations(ctx context.Context, organizationID *uint) ([]model.SubOrganization, error)
	UpdateSubOrganization(ctx context.Context, s *model.SubOrganization) error
	DeleteSubOrganization(ctx context.Context, id uint) error
}

type organizationRepository struct {
	assets    store[model.Asset]
	subAssets store[model.SubAsset]
	orgs      store[model.Organization]
	subOrgs   store[model.SubOrganization]
}

func NewOrganizationRepository(db *gorm.DB) OrganizationRepository {
	return &organizationRepository{
		assets:    newStore[model.Asset](db, "asset"),
		subAssets: newStore[model.SubAsset](db, "sub asset"),
		orgs:      newStore[model.Organization](db, "organization"),
		subOrgs:   newStore[model.SubOrganization](db, "sub organization"),
	}
}

func (r *organizationRepository) WithTx(tx *gorm.DB) OrganizationRepository {
	return NewOrganizationRepository(tx)
}

func (r *organizationRepository) CreateAsset(ctx context.Context, a *model.Asset) error {
	return r.assets.create(ctx, a)
}

func (r *organizationRepository) FindAsset(ctx context.Context, id uint) (*model.Asset, error) {
	return r.assets.findByID(ctx, id)
}

func (r *organizationRepository) FindAssets(ctx context.Context, search string) ([]model.Asset, error) {
	return r.assets.findAll(ctx, nameLike("name", search))
}

func (r *organizationRepository) UpdateAsset(ctx context.Context, a *model.Asset) error {
	return r.assets.update(ctx, a)
}

func (r *organizationRepository) DeleteAsset(ctx context.Context, id uint) error {
	return r.assets.delete(ctx, id)
}

func (r *organizationRepository) CreateSubAsset(ctx context.Context, s *model.SubAsset) error {
	return r.subAssets.create(ctx, s)
}

func (r *organizationRepository) FindSubAsset(ctx context.Context, id uint) (*model.SubAsset, error) {
	return r.subAssets.findByID(ctx, id)
}

func (r *organizationRepository) FindSubAssets(ctx context.Context, assetID *uint) ([]model.SubAsset, error) {
	return r.subAssets.findAll(ctx, whereEq("asset_id", assetID))
}

func (r *organizationRepository) UpdateSubAsset(ctx context.Context, s *model.SubAsset) error {
	return r.subAssets.update(ctx, s)
}

func (r *organizationRepository) DeleteSubAsset(ctx context.Context, id uint) error {
	return r.subAssets.delete(ctx, id)
}

func (r *organizationRepository) CreateOrganization(ctx context.Context, o *model.Organization) error {
	return r.orgs.create(ctx, o)
}

func (r *organizationRepository) FindOrganization(ctx context.Context, id uint) (*model.Organization, error) {
	return r.orgs.findByID(ctx, id)
}

func (r *organizationRepository) FindOrganizations(ctx context.Context, search string) ([]model.Organization, error) {
	return r.orgs.findAll(ctx, nameLike("name", search))
}

func (r *organizationRepository) UpdateOrganization(ctx context.Context, o *model.Organization) error {
	return r.orgs.update(ctx, o)
}

func (r *organizationRepository) DeleteOrganization(ctx context.Context, id uint) error {
	return r.orgs.delete(ctx, id)
}

func (r *organizationRepository) CreateSubOrganization(ctx context.Context, s *model.SubOrganization) error {
	return r.subOrgs.create(ctx, s)
}

func (r *organizationRepository) FindSubOrganization(ctx context.Context, id uint) (*model.SubOrganization, error) {
	return r.subOrgs.findByID(ctx, id)
}

func (r *organizationRepository) FindSubOrganizations(ctx context.Context, organizationID *uint) ([]model.SubOrganization, error) {
	return r.subOrgs.findAll(ctx, whereEq("organization_id", organizationID))
}

func (r *organizationRepository) UpdateSubOrganization(ctx context.Context, s *model.SubOrganization) error {
	return r.subOrgs.update(ctx, s)
}

func (r *organizationRepository) DeleteSubOrganization(ctx context.Context, id uint) error {
	return r.subOrgs.delete(ctx, id)
}
