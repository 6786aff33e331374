package repository

import (
	"context"

	"github.com/vxacademy/academy/internal/apperr"
	"github.com/vxacademy/academy/internal/model"
	"gorm.io/gorm"
)

type AssignmentKey struct {
	Name             string
	RoleCategoryID   uint
	SeniorityLevelID uint
	AssetID          uint
}

type RoleRepository interface {
	WithTx(tx *gorm.DB) RoleRepository

	CreateCategory(ctx context.Context, c *model.RoleCategory) error
	FindCategory(ctx context.Context, id uint) (*model.RoleCategory, error)
	FindCategories(ctx context.Context) ([]model.RoleCategory, error)
	UpdateCategory(ctx context.Context, c *model.RoleCategory) error
	DeleteCategory(ctx context.Context, id uint) error

	CreateRole(ctx context.Context, role *model.Role) error
	FindRole(ctx context.Context, id uint) (*model.Role, error)
	FindRoles(ctx context.Context, categoryID *uint) ([]model.Role, error)
	UpdateRole(ctx context.Context, role *model.Role) error
	DeleteRole(ctx context.Context, id uint) error

	CreateSeniority(ctx context.Context, s *model.SeniorityLevel) error
	FindSeniority(ctx context.Context, id uint) (*model.SeniorityLevel, error)
	FindSeniorities(ctx context.Context) ([]model.SeniorityLevel, error)
	UpdateSeniority(ctx context.Context, s *model.SeniorityLevel) error
	DeleteSeniority(ctx context.Context, id uint) error

	CreateAssignment(ctx context.Context, a *model.UnitRoleAssignment) error
	FindAssignment(ctx context.Context, id uint) (*model.UnitRoleAssignment, error)
	FindAssignments(ctx context.Context) ([]model.UnitRoleAssignment, error)
	// AssignmentExists reports whether another assignment (not excludeID) uses key.
	AssignmentExists(ctx context.Context, key AssignmentKey, excludeID uint) (bool, error)
	UpdateAssignment(ctx context.Context, a *model.UnitRoleAssignment) error
	// ReplaceAssignmentUnits makes unitIDs the exact unit set of the assignment.
	ReplaceAssignmentUnits(ctx context.Context, assignmentID uint, unitIDs []uint) error
	DeleteAssignment(ctx context.Context, id uint) error
	// UnitsFor lists the units of every assignment matching the combination.
	UnitsFor(ctx context.Context, roleCategoryID, seniorityLevelID, assetID uint) ([]model.Unit, error)
}

type roleRepository struct {
	db          *gorm.DB
	categories  store[model.RoleCategory]
	roles       store[model.Role]
	seniorities store[model.SeniorityLevel]
}

func NewRoleRepository(db *gorm.DB) RoleRepository {
	return &roleRepository{
		db:          db,
		categories:  newStore[model.RoleCategory](db, "role category"),
		roles:       newStore[model.Role](db, "role"),
		seniorities: newStore[model.SeniorityLevel](db, "seniority level"),
	}
}

func (r *roleRepository) WithTx(tx *gorm.DB) RoleRepository {
	return NewRoleRepository(tx)
}

func (r *roleRepository) CreateCategory(ctx context.Context, c *model.RoleCategory) error {
	return r.categories.create(ctx, c)
}

func (r *roleRepository) FindCategory(ctx context.Context, id uint) (*model.RoleCategory, error) {
	return r.categories.findByID(ctx, id)
}

func (r *roleRepository) FindCategories(ctx context.Context) ([]model.RoleCategory, error) {
	return r.categories.findAll(ctx)
}

func (r *roleRepository) UpdateCategory(ctx context.Context, c *model.RoleCategory) error {
	return r.categories.update(ctx, c)
}

func (r *roleRepository) DeleteCategory(ctx context.Context, id uint) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		assignmentIDs, err := pluckIDs(tx, &model.UnitRoleAssignment{}, "role_category_id = ?", id)
		if err != nil {
			return apperr.FromDB(err, "role category", id, "failed to load assignments")
		}
		if err := deleteAssignments(tx, assignmentIDs); err != nil {
			return apperr.FromDB(err, "role category", id, "failed to delete assignments")
		}
		if err := tx.Where("role_category_id = ?", id).Delete(&model.Role{}).Error; err != nil {
			return apperr.FromDB(err, "role category", id, "failed to delete roles")
		}
		return newStore[model.RoleCategory](tx, "role category").delete(ctx, id)
	})
}

func (r *roleRepository) CreateRole(ctx context.Context, role *model.Role) error {
	return r.roles.create(ctx, role)
}

func (r *roleRepository) FindRole(ctx context.Context, id uint) (*model.Role, error) {
	return r.roles.findByID(ctx, id)
}

func (r *roleRepository) FindRoles(ctx context.Context, categoryID *uint) ([]model.Role, error) {
	return r.roles.findAll(ctx, whereEq("role_category_id", categoryID))
}

func (r *roleRepository) UpdateRole(ctx context.Context, role *model.Role) error {
	return r.roles.update(ctx, role)
}

func (r *roleRepository) DeleteRole(ctx context.Context, id uint) error {
	return r.roles.delete(ctx, id)
}

func (r *roleRepository) CreateSeniority(ctx context.Context, s *model.SeniorityLevel) error {
	return r.seniorities.create(ctx, s)
}

func (r *roleRepository) FindSeniority(ctx context.Context, id uint) (*model.SeniorityLevel, error) {
	return r.seniorities.findByID(ctx, id)
}

func (r *roleRepository) FindSeniorities(ctx context.Context) ([]model.SeniorityLevel, error) {
	var out []model.SeniorityLevel
	err := r.db.WithContext(ctx).Order("rank ASC").Order("id ASC").Find(&out).Error
	return out, apperr.FromDB(err, "seniority level", 0, "failed to list seniority levels")
}

func (r *roleRepository) UpdateSeniority(ctx context.Context, s *model.SeniorityLevel) error {
	return r.seniorities.update(ctx, s)
}

func (r *roleRepository) DeleteSeniority(ctx context.Context, id uint) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		assignmentIDs, err := pluckIDs(tx, &model.UnitRoleAssignment{}, "seniority_level_id = ?", id)
		if err != nil {
			return apperr.FromDB(err, "seniority level", id, "failed to load assignments")
		}
		if err := deleteAssignments(tx, assignmentIDs); err != nil {
			return apperr.FromDB(err, "seniority level", id, "failed to delete assignments")
		}
		return newStore[model.SeniorityLevel](tx, "seniority level").delete(ctx, id)
	})
}

func (r *roleRepository) CreateAssignment(ctx context.Context, a *model.UnitRoleAssignment) error {
	return apperr.FromDB(r.db.WithContext(ctx).Create(a).Error, "unit role assignment", 0, "failed to create assignment")
}

func (r *roleRepository) FindAssignment(ctx context.Context, id uint) (*model.UnitRoleAssignment, error) {
	var a model.UnitRoleAssignment
	if err := r.db.WithContext(ctx).Preload("Units").First(&a, id).Error; err != nil {
		return nil, apperr.FromDB(err, "unit role assignment", id, "failed to load assignment")
	}
	return &a, nil
}

func (r *roleRepository) FindAssignments(ctx context.Context) ([]model.UnitRoleAssignment, error) {
	var rows []model.UnitRoleAssignment
	err := r.db.WithContext(ctx).Preload("Units").Order("id ASC").Find(&rows).Error
	return rows, apperr.FromDB(err, "unit role assignment", 0, "failed to list assignments")
}

func (r *roleRepository) AssignmentExists(ctx context.Context, key AssignmentKey, excludeID uint) (bool, error) {
	var n int64
	err := r.db.WithContext(ctx).Model(&model.UnitRoleAssignment{}).
		Where("name = ? AND role_category_id = ? AND seniority_level_id = ? AND asset_id = ? AND id <> ?",
			key.Name, key.RoleCategoryID, key.SeniorityLevelID, key.AssetID, excludeID).
		Count(&n).Error
	return n > 0, apperr.FromDB(err, "unit role assignment", 0, "failed to check assignment")
}

func (r *roleRepository) UpdateAssignment(ctx context.Context, a *model.UnitRoleAssignment) error {
	err := r.db.WithContext(ctx).Omit("Units").Save(a).Error
	return apperr.FromDB(err, "unit role assignment", a.ID, "failed to update assignment")
}

func (r *roleRepository) ReplaceAssignmentUnits(ctx context.Context, assignmentID uint, unitIDs []uint) error {
	db := r.db.WithContext(ctx)
	if err := db.Where("assignment_id = ?", assignmentID).Delete(&model.AssignmentUnit{}).Error; err != nil {
		return apperr.FromDB(err, "unit role assignment", assignmentID, "failed to clear assignment units")
	}
	if len(unitIDs) == 0 {
		return nil
	}
	rows := make([]model.AssignmentUnit, 0, len(unitIDs))
	for _, id := range unitIDs {
		rows = append(rows, model.AssignmentUnit{AssignmentID: assignmentID, UnitID: id})
	}
	return apperr.FromDB(db.Create(&rows).Error, "unit role assignment", assignmentID, "failed to link assignment units")
}

func (r *roleRepository) DeleteAssignment(ctx context.Context, id uint) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if _, err := NewRoleRepository(tx).FindAssignment(ctx, id); err != nil {
			return err
		}
		return apperr.FromDB(deleteAssignments(tx, []uint{id}), "unit role assignment", id, "failed to delete assignment")
	})
}

func (r *roleRepository) UnitsFor(ctx context.Context, roleCategoryID, seniorityLevelID, assetID uint) ([]model.Unit, error) {
	var units []model.Unit
	sub := r.db.Model(&model.AssignmentUnit{}).
		Select("assignment_units.unit_id").
		Joins("JOIN unit_role_assignments ON unit_role_assignments.id = assignment_units.assignment_id").
		Where("unit_role_assignments.role_category_id = ? AND unit_role_assignments.seniority_level_id = ? AND unit_role_assignments.asset_id = ?",
			roleCategoryID, seniorityLevelID, assetID)
	err := r.db.WithContext(ctx).Where("id IN (?)", sub).Order("sort_order ASC").Order("id ASC").Find(&units).Error
	return units, apperr.FromDB(err, "unit", 0, "failed to list assigned units")
}

func deleteAssignments(tx *gorm.DB, ids []uint) error {
	if len(ids) == 0 {
		return nil
	}
	if err := tx.Where("assignment_id IN ?", ids).Delete(&model.AssignmentUnit{}).Error; err != nil {
		return err
	}
	return tx.Where("id IN ?", ids).Delete(&model.UnitRoleAssignment{}).Error
}
