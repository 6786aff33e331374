package service

import (
	"context"

	"github.com/vxacademy/academy/internal/apperr"
	"github.com/vxacademy/academy/internal/dto"
	"github.com/vxacademy/academy/internal/model"
	"github.com/vxacademy/academy/internal/repository"
)

// OrganizationService maintains the asset and organisation tables used to
// classify users in reports.
type OrganizationService interface {
	CreateAsset(ctx context.Context, req dto.NamedRequest) (*model.Asset, error)
	ListAssets(ctx context.Context, search string) ([]model.Asset, error)
	UpdateAsset(ctx context.Context, id uint, req dto.NamedRequest) (*model.Asset, error)
	DeleteAsset(ctx context.Context, id uint) error

	CreateSubAsset(ctx context.Context, req dto.SubAssetRequest) (*model.SubAsset, error)
	ListSubAssets(ctx context.Context, assetID *uint) ([]model.SubAsset, error)
	UpdateSubAsset(ctx context.Context, id uint, req dto.SubAssetRequest) (*model.SubAsset, error)
	DeleteSubAsset(ctx context.Context, id uint) error

	CreateOrganization(ctx context.Context, req dto.OrganizationRequest) (*model.Organization, error)
	ListOrganizations(ctx context.Context, search string) ([]model.Organization, error)
	UpdateOrganization(ctx context.Context, id uint, req dto.OrganizationRequest) (*model.Organization, error)
	DeleteOrganization(ctx context.Context, id uint) error

	CreateSubOrganization(ctx context.Context, req dto.SubOrganizationRequest) (*model.SubOrganization, error)
	ListSubOrganizations(ctx context.Context, organizationID *uint) ([]model.SubOrganization, error)
	UpdateSubOrganization(ctx context.Context, id uint, req dto.SubOrganizationRequest) (*model.SubOrganization, error)
	DeleteSubOrganization(ctx context.Context, id uint) error
}

type organizationService struct {
	orgRepo repository.OrganizationRepository
}

func NewOrganizationService(orgRepo repository.OrganizationRepository) OrganizationService {
	return &organizationService{orgRepo: orgRepo}
}

// named turns a unique-name violation into a Conflict on the name field.
func named(err error, entity, name string) error {
	if apperr.IsConflict(err) {
		return apperr.Conflict(entity, "name", name)
	}
	return err
}

func (s *organizationService) CreateAsset(ctx context.Context, req dto.NamedRequest) (*model.Asset, error) {
	asset := model.Asset{Name: req.Name}
	if err := s.orgRepo.CreateAsset(ctx, &asset); err != nil {
		return nil, named(err, "asset", req.Name)
	}
	return &asset, nil
}

func (s *organizationService) ListAssets(ctx context.Context, search string) ([]model.Asset, error) {
	return s.orgRepo.FindAssets(ctx, search)
}

func (s *organizationService) UpdateAsset(ctx context.Context, id uint, req dto.NamedRequest) (*model.Asset, error) {
	asset, err := s.orgRepo.FindAsset(ctx, id)
	if err != nil {
		return nil, err
	}
	asset.Name = req.Name
	if err := s.orgRepo.UpdateAsset(ctx, asset); err != nil {
		return nil, named(err, "asset", req.Name)
	}
	return asset, nil
}

func (s *organizationService) DeleteAsset(ctx context.Context, id uint) error {
	return s.orgRepo.DeleteAsset(ctx, id)
}

func (s *organizationService) CreateSubAsset(ctx context.Context, req dto.SubAssetRequest) (*model.SubAsset, error) {
	if _, err := s.orgRepo.FindAsset(ctx, req.AssetID); err != nil {
		return nil, err
	}
	sub := model.SubAsset{AssetID: req.AssetID, Name: req.Name}
	if err := s.orgRepo.CreateSubAsset(ctx, &sub); err != nil {
		return nil, err
	}
	return &sub, nil
}

func (s *organizationService) ListSubAssets(ctx context.Context, assetID *uint) ([]model.SubAsset, error) {
	return s.orgRepo.FindSubAssets(ctx, assetID)
}

func (s *organizationService) UpdateSubAsset(ctx context.Context, id uint, req dto.SubAssetRequest) (*model.SubAsset, error) {
	sub, err := s.orgRepo.FindSubAsset(ctx, id)
	if err != nil {
		return nil, err
	}
	if _, err := s.orgRepo.FindAsset(ctx, req.AssetID); err != nil {
		return nil, err
	}
	sub.AssetID, sub.Name = req.AssetID, req.Name
	if err := s.orgRepo.UpdateSubAsset(ctx, sub); err != nil {
		return nil, err
	}
	return sub, nil
}

func (s *organizationService) DeleteSubAsset(ctx context.Context, id uint) error {
	return s.orgRepo.DeleteSubAsset(ctx, id)
}

// checkAssetTag validates an organisation's optional asset tag. A sub-asset
// tag needs the asset it belongs to.
func (s *organizationService) checkAssetTag(ctx context.Context, assetID, subAssetID *uint) error {
	if assetID != nil {
		if _, err := s.orgRepo.FindAsset(ctx, *assetID); err != nil {
			return err
		}
	}
	if subAssetID == nil {
		return nil
	}
	sub, err := s.orgRepo.FindSubAsset(ctx, *subAssetID)
	if err != nil {
		return err
	}
	if assetID == nil || sub.AssetID != *assetID {
		return apperr.Invalid("sub_asset_id", "must belong to the selected asset")
	}
	return nil
}

func (s *organizationService) CreateOrganization(ctx context.Context, req dto.OrganizationRequest) (*model.Organization, error) {
	if err := s.checkAssetTag(ctx, req.AssetID, req.SubAssetID); err != nil {
		return nil, err
	}
	org := model.Organization{Name: req.Name, AssetID: req.AssetID, SubAssetID: req.SubAssetID}
	if err := s.orgRepo.CreateOrganization(ctx, &org); err != nil {
		return nil, named(err, "organization", req.Name)
	}
	return &org, nil
}

func (s *organizationService) ListOrganizations(ctx context.Context, search string) ([]model.Organization, error) {
	return s.orgRepo.FindOrganizations(ctx, search)
}

func (s *organizationService) UpdateOrganization(ctx context.Context, id uint, req dto.OrganizationRequest) (*model.Organization, error) {
	org, err := s.orgRepo.FindOrganization(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := s.checkAssetTag(ctx, req.AssetID, req.SubAssetID); err != nil {
		return nil, err
	}
	org.Name, org.AssetID, org.SubAssetID = req.Name, req.AssetID, req.SubAssetID
	if err := s.orgRepo.UpdateOrganization(ctx, org); err != nil {
		return nil, named(err, "organization", req.Name)
	}
	return org, nil
}

func (s *organizationService) DeleteOrganization(ctx context.Context, id uint) error {
	return s.orgRepo.DeleteOrganization(ctx, id)
}

func (s *organizationService) CreateSubOrganization(ctx context.Context, req dto.SubOrganizationRequest) (*model.SubOrganization, error) {
	if _, err := s.orgRepo.FindOrganization(ctx, req.OrganizationID); err != nil {
		return nil, err
	}
	sub := model.SubOrganization{OrganizationID: req.OrganizationID, Name: req.Name}
	if err := s.orgRepo.CreateSubOrganization(ctx, &sub); err != nil {
		return nil, err
	}
	return &sub, nil
}

func (s *organizationService) ListSubOrganizations(ctx context.Context, organizationID *uint) ([]model.SubOrganization, error) {
	return s.orgRepo.FindSubOrganizations(ctx, organizationID)
}

func (s *organizationService) UpdateSubOrganization(ctx context.Context, id uint, req dto.SubOrganizationRequest) (*model.SubOrganization, error) {
	sub, err := s.orgRepo.FindSubOrganization(ctx, id)
	if err != nil {
		return nil, err
	}
	if _, err := s.orgRepo.FindOrganization(ctx, req.OrganizationID); err != nil {
		return nil, err
	}
	sub.OrganizationID, sub.Name = req.OrganizationID, req.Name
	if err := s.orgRepo.UpdateSubOrganization(ctx, sub); err != nil {
		return nil, err
	}
	return sub, nil
}

func (s *organizationService) DeleteSubOrganization(ctx context.Context, id uint) error {
	return s.orgRepo.DeleteSubOrganization(ctx, id)
}
