package repository

import (
	"context"

	"github.com/vxacademy/academy/internal/apperr"
	"github.com/vxacademy/academy/internal/model"
	"gorm.io/gorm"
)

type TrainingAreaRepository interface {
	WithTx(tx *gorm.DB) TrainingAreaRepository
	Create(ctx context.Context, area *model.TrainingArea) error
	FindByID(ctx context.Context, id uint) (*model.TrainingArea, error)
	FindByIDWithModules(ctx context.Context, id uint) (*model.TrainingArea, error)
	FindAll(ctx context.Context, search string) ([]model.TrainingArea, error)
	Update(ctx context.Context, area *model.TrainingArea) error
	// Delete removes the area with its modules, courses, owned assessments and progress rows.
	Delete(ctx context.Context, id uint) error
}

type trainingAreaRepository struct {
	db    *gorm.DB
	store store[model.TrainingArea]
}

func NewTrainingAreaRepository(db *gorm.DB) TrainingAreaRepository {
	return &trainingAreaRepository{db: db, store: newStore[model.TrainingArea](db, "training area")}
}

func (r *trainingAreaRepository) WithTx(tx *gorm.DB) TrainingAreaRepository {
	return NewTrainingAreaRepository(tx)
}

func (r *trainingAreaRepository) Create(ctx context.Context, area *model.TrainingArea) error {
	return r.store.create(ctx, area)
}

func (r *trainingAreaRepository) FindByID(ctx context.Context, id uint) (*model.TrainingArea, error) {
	return r.store.findByID(ctx, id)
}

func (r *trainingAreaRepository) FindByIDWithModules(ctx context.Context, id uint) (*model.TrainingArea, error) {
	var area model.TrainingArea
	err := r.db.WithContext(ctx).Preload("Modules", func(db *gorm.DB) *gorm.DB {
		return db.Order("modules.id ASC")
	}).First(&area, id).Error
	if err != nil {
		return nil, apperr.FromDB(err, "training area", id, "failed to load training area")
	}
	return &area, nil
}

func (r *trainingAreaRepository) FindAll(ctx context.Context, search string) ([]model.TrainingArea, error) {
	return r.store.findAll(ctx, nameLike("name", search))
}

func (r *trainingAreaRepository) Update(ctx context.Context, area *model.TrainingArea) error {
	return r.store.update(ctx, area)
}

func (r *trainingAreaRepository) Delete(ctx context.Context, id uint) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if _, err := NewTrainingAreaRepository(tx).FindByID(ctx, id); err != nil {
			return err
		}
		if err := deleteTrainingAreas(tx, []uint{id}); err != nil {
			return apperr.FromDB(err, "training area", id, "failed to delete training area")
		}
		return nil
	})
}
