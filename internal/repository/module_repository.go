package repository

import (
	"context"

	"github.com/vxacademy/academy/internal/apperr"
	"github.com/vxacademy/academy/internal/model"
	"gorm.io/gorm"
)

type ModuleFilter struct {
	TrainingAreaID *uint
	Search         string
}

type ModuleRepository interface {
	WithTx(tx *gorm.DB) ModuleRepository
	Create(ctx context.Context, module *model.Module) error
	FindByID(ctx context.Context, id uint) (*model.Module, error)
	FindByIDWithCourses(ctx context.Context, id uint) (*model.Module, error)
	FindAll(ctx context.Context, filter ModuleFilter) ([]model.Module, error)
	Update(ctx context.Context, module *model.Module) error
	Delete(ctx context.Context, id uint) error
}

type moduleRepository struct {
	db    *gorm.DB
	store store[model.Module]
}

func NewModuleRepository(db *gorm.DB) ModuleRepository {
	return &moduleRepository{db: db, store: newStore[model.Module](db, "module")}
}

func (r *moduleRepository) WithTx(tx *gorm.DB) ModuleRepository {
	return NewModuleRepository(tx)
}

func (r *moduleRepository) Create(ctx context.Context, module *model.Module) error {
	return r.store.create(ctx, module)
}

func (r *moduleRepository) FindByID(ctx context.Context, id uint) (*model.Module, error) {
	return r.store.findByID(ctx, id)
}

func (r *moduleRepository) FindByIDWithCourses(ctx context.Context, id uint) (*model.Module, error) {
	var module model.Module
	err := r.db.WithContext(ctx).Preload("Courses", func(db *gorm.DB) *gorm.DB {
		return db.Order("courses.id ASC")
	}).First(&module, id).Error
	if err != nil {
		return nil, apperr.FromDB(err, "module", id, "failed to load module")
	}
	return &module, nil
}

func (r *moduleRepository) FindAll(ctx context.Context, filter ModuleFilter) ([]model.Module, error) {
	return r.store.findAll(ctx, whereEq("training_area_id", filter.TrainingAreaID), nameLike("name", filter.Search))
}

func (r *moduleRepository) Update(ctx context.Context, module *model.Module) error {
	return r.store.update(ctx, module)
}

func (r *moduleRepository) Delete(ctx context.Context, id uint) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if _, err := NewModuleRepository(tx).FindByID(ctx, id); err != nil {
			return err
		}
		if err := deleteModules(tx, []uint{id}); err != nil {
			return apperr.FromDB(err, "module", id, "failed to delete module")
		}
		return nil
	})
}
