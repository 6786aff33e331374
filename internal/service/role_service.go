package service

import (
	"context"
	"fmt"
	"sort"

	"github.com/rs/zerolog/log"
	"github.com/vxacademy/academy/internal/apperr"
	"github.com/vxacademy/academy/internal/dto"
	"github.com/vxacademy/academy/internal/model"
	"github.com/vxacademy/academy/internal/repository"
	"gorm.io/gorm"
)

type RoleService interface {
	CreateCategory(ctx context.Context, req dto.RoleCategoryRequest) (*model.RoleCategory, error)
	ListCategories(ctx context.Context) ([]model.RoleCategory, error)
	UpdateCategory(ctx context.Context, id uint, req dto.RoleCategoryRequest) (*model.RoleCategory, error)
	DeleteCategory(ctx context.Context, id uint) error

	CreateRole(ctx context.Context, req dto.RoleRequest) (*model.Role, error)
	ListRoles(ctx context.Context, categoryID *uint) ([]model.Role, error)
	UpdateRole(ctx context.Context, id uint, req dto.RoleRequest) (*model.Role, error)
	DeleteRole(ctx context.Context, id uint) error

	CreateSeniority(ctx context.Context, req dto.SeniorityLevelRequest) (*model.SeniorityLevel, error)
	ListSeniorities(ctx context.Context) ([]model.SeniorityLevel, error)
	UpdateSeniority(ctx context.Context, id uint, req dto.SeniorityLevelRequest) (*model.SeniorityLevel, error)
	DeleteSeniority(ctx context.Context, id uint) error

	CreateAssignment(ctx context.Context, req dto.AssignmentRequest) (*dto.AssignmentResponse, error)
	GetAssignment(ctx context.Context, id uint) (*dto.AssignmentResponse, error)
	ListAssignments(ctx context.Context) ([]dto.AssignmentResponse, error)
	UpdateAssignment(ctx context.Context, id uint, req dto.AssignmentRequest) (*dto.AssignmentResponse, error)
	DeleteAssignment(ctx context.Context, id uint) error
	UnitsFor(ctx context.Context, roleCategoryID, seniorityLevelID, assetID uint) ([]dto.UnitResponse, error)
}

type roleService struct {
	db       *gorm.DB
	roleRepo repository.RoleRepository
	orgRepo  repository.OrganizationRepository
	unitRepo repository.UnitRepository
}

func NewRoleService(
	db *gorm.DB,
	roleRepo repository.RoleRepository,
	orgRepo repository.OrganizationRepository,
	unitRepo repository.UnitRepository,
) RoleService {
	return &roleService{db: db, roleRepo: roleRepo, orgRepo: orgRepo, unitRepo: unitRepo}
}

func (s *roleService) CreateCategory(ctx context.Context, req dto.RoleCategoryRequest) (*model.RoleCategory, error) {
	c := model.RoleCategory{Name: req.Name, Description: req.Description}
	if err := s.roleRepo.CreateCategory(ctx, &c); err != nil {
		return nil, named(err, "role category", req.Name)
	}
	return &c, nil
}

func (s *roleService) ListCategories(ctx context.Context) ([]model.RoleCategory, error) {
	return s.roleRepo.FindCategories(ctx)
}

func (s *roleService) UpdateCategory(ctx context.Context, id uint, req dto.RoleCategoryRequest) (*model.RoleCategory, error) {
	c, err := s.roleRepo.FindCategory(ctx, id)
	if err != nil {
		return nil, err
	}
	c.Name, c.Description = req.Name, req.Description
	if err := s.roleRepo.UpdateCategory(ctx, c); err != nil {
		return nil, named(err, "role category", req.Name)
	}
	return c, nil
}

func (s *roleService) DeleteCategory(ctx context.Context, id uint) error {
	return s.roleRepo.DeleteCategory(ctx, id)
}

func (s *roleService) CreateRole(ctx context.Context, req dto.RoleRequest) (*model.Role, error) {
	if _, err := s.roleRepo.FindCategory(ctx, req.RoleCategoryID); err != nil {
		return nil, err
	}
	role := model.Role{RoleCategoryID: req.RoleCategoryID, Name: req.Name}
	if err := s.roleRepo.CreateRole(ctx, &role); err != nil {
		return nil, err
	}
	return &role, nil
}

func (s *roleService) ListRoles(ctx context.Context, categoryID *uint) ([]model.Role, error) {
	return s.roleRepo.FindRoles(ctx, categoryID)
}

func (s *roleService) UpdateRole(ctx context.Context, id uint, req dto.RoleRequest) (*model.Role, error) {
	role, err := s.roleRepo.FindRole(ctx, id)
	if err != nil {
		return nil, err
	}
	if _, err := s.roleRepo.FindCategory(ctx, req.RoleCategoryID); err != nil {
		return nil, err
	}
	role.RoleCategoryID, role.Name = req.RoleCategoryID, req.Name
	if err := s.roleRepo.UpdateRole(ctx, role); err != nil {
		return nil, err
	}
	return role, nil
}

func (s *roleService) DeleteRole(ctx context.Context, id uint) error {
	return s.roleRepo.DeleteRole(ctx, id)
}

func (s *roleService) CreateSeniority(ctx context.Context, req dto.SeniorityLevelRequest) (*model.SeniorityLevel, error) {
	level := model.SeniorityLevel{Name: req.Name, Rank: req.Rank}
	if err := s.roleRepo.CreateSeniority(ctx, &level); err != nil {
		return nil, named(err, "seniority level", req.Name)
	}
	return &level, nil
}

func (s *roleService) ListSeniorities(ctx context.Context) ([]model.SeniorityLevel, error) {
	return s.roleRepo.FindSeniorities(ctx)
}

func (s *roleService) UpdateSeniority(ctx context.Context, id uint, req dto.SeniorityLevelRequest) (*model.SeniorityLevel, error) {
	level, err := s.roleRepo.FindSeniority(ctx, id)
	if err != nil {
		return nil, err
	}
	level.Name, level.Rank = req.Name, req.Rank
	if err := s.roleRepo.UpdateSeniority(ctx, level); err != nil {
		return nil, named(err, "seniority level", req.Name)
	}
	return level, nil
}

func (s *roleService) DeleteSeniority(ctx context.Context, id uint) error {
	return s.roleRepo.DeleteSeniority(ctx, id)
}

// checkAssignment verifies every reference of the request and the uniqueness
// of its (name, role category, seniority level, asset) tuple.
func (s *roleService) checkAssignment(ctx context.Context, tx *gorm.DB, req dto.AssignmentRequest, excludeID uint) ([]uint, error) {
	roles, units := s.roleRepo.WithTx(tx), s.unitRepo.WithTx(tx)
	if _, err := roles.FindCategory(ctx, req.RoleCategoryID); err != nil {
		return nil, err
	}
	if _, err := roles.FindSeniority(ctx, req.SeniorityLevelID); err != nil {
		return nil, err
	}
	if _, err := s.orgRepo.WithTx(tx).FindAsset(ctx, req.AssetID); err != nil {
		return nil, err
	}
	unitIDs := dedupe(req.UnitIDs)
	missing, err := units.MissingIDs(ctx, unitIDs)
	if err != nil {
		return nil, err
	}
	if len(missing) > 0 {
		return nil, apperr.NotFound("unit", missing[0])
	}
	exists, err := roles.AssignmentExists(ctx, repository.AssignmentKey{
		Name:             req.Name,
		RoleCategoryID:   req.RoleCategoryID,
		SeniorityLevelID: req.SeniorityLevelID,
		AssetID:          req.AssetID,
	}, excludeID)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, apperr.Conflict("unit role assignment", "name",
			fmt.Sprintf("%s/%d/%d/%d", req.Name, req.RoleCategoryID, req.SeniorityLevelID, req.AssetID))
	}
	return unitIDs, nil
}

func dedupe(ids []uint) []uint {
	seen := make(map[uint]bool, len(ids))
	out := make([]uint, 0, len(ids))
	for _, id := range ids {
		if !seen[id] {
			seen[id] = true
			out = append(out, id)
		}
	}
	return out
}

func (s *roleService) CreateAssignment(ctx context.Context, req dto.AssignmentRequest) (*dto.AssignmentResponse, error) {
	return s.saveAssignment(ctx, 0, req)
}

func (s *roleService) UpdateAssignment(ctx context.Context, id uint, req dto.AssignmentRequest) (*dto.AssignmentResponse, error) {
	return s.saveAssignment(ctx, id, req)
}

// saveAssignment creates (id 0) or updates an assignment and replaces its unit set.
func (s *roleService) saveAssignment(ctx context.Context, id uint, req dto.AssignmentRequest) (*dto.AssignmentResponse, error) {
	var saved *model.UnitRoleAssignment
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		roles := s.roleRepo.WithTx(tx)
		a := &model.UnitRoleAssignment{}
		if id != 0 {
			var err error
			if a, err = roles.FindAssignment(ctx, id); err != nil {
				return err
			}
		}
		unitIDs, err := s.checkAssignment(ctx, tx, req, id)
		if err != nil {
			return err
		}
		a.Name, a.RoleCategoryID, a.SeniorityLevelID, a.AssetID = req.Name, req.RoleCategoryID, req.SeniorityLevelID, req.AssetID
		a.Units = nil
		if id == 0 {
			err = roles.CreateAssignment(ctx, a)
		} else {
			err = roles.UpdateAssignment(ctx, a)
		}
		if err != nil {
			return err
		}
		if err := roles.ReplaceAssignmentUnits(ctx, a.ID, unitIDs); err != nil {
			return err
		}
		saved, err = roles.FindAssignment(ctx, a.ID)
		return err
	})
	if err != nil {
		if !isClientError(err) {
			log.Error().Err(err).Uint("assignmentID", id).Msg("SaveAssignment: transaction failed")
		}
		return nil, err
	}
	return toAssignmentResponse(saved), nil
}

func (s *roleService) GetAssignment(ctx context.Context, id uint) (*dto.AssignmentResponse, error) {
	a, err := s.roleRepo.FindAssignment(ctx, id)
	if err != nil {
		return nil, err
	}
	return toAssignmentResponse(a), nil
}

func (s *roleService) ListAssignments(ctx context.Context) ([]dto.AssignmentResponse, error) {
	rows, err := s.roleRepo.FindAssignments(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]dto.AssignmentResponse, 0, len(rows))
	for i := range rows {
		out = append(out, *toAssignmentResponse(&rows[i]))
	}
	return out, nil
}

func (s *roleService) DeleteAssignment(ctx context.Context, id uint) error {
	return s.roleRepo.DeleteAssignment(ctx, id)
}

func (s *roleService) UnitsFor(ctx context.Context, roleCategoryID, seniorityLevelID, assetID uint) ([]dto.UnitResponse, error) {
	units, err := s.roleRepo.UnitsFor(ctx, roleCategoryID, seniorityLevelID, assetID)
	if err != nil {
		return nil, err
	}
	out := make([]dto.UnitResponse, 0, len(units))
	for i := range units {
		out = append(out, *toUnitResponse(&units[i]))
	}
	return out, nil
}

func toAssignmentResponse(a *model.UnitRoleAssignment) *dto.AssignmentResponse {
	resp := &dto.AssignmentResponse{
		ID:               a.ID,
		Name:             a.Name,
		RoleCategoryID:   a.RoleCategoryID,
		SeniorityLevelID: a.SeniorityLevelID,
		AssetID:          a.AssetID,
		UnitIDs:          make([]uint, 0, len(a.Units)),
		CreatedAt:        a.CreatedAt,
		UpdatedAt:        a.UpdatedAt,
	}
	for _, u := range a.Units {
		resp.UnitIDs = append(resp.UnitIDs, u.UnitID)
	}
	sort.Slice(resp.UnitIDs, func(i, j int) bool { return resp.UnitIDs[i] < resp.UnitIDs[j] })
	return resp
}
