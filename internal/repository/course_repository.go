package repository

import (
	"context"

	"github.com/vxacademy/academy/internal/apperr"
	"github.com/vxacademy/academy/internal/model"
	"gorm.io/gorm"
)

type CourseFilter struct {
	ModuleID       *uint
	TrainingAreaID *uint
	Search         string
}

type CourseRepository interface {
	WithTx(tx *gorm.DB) CourseRepository
	Create(ctx context.Context, course *model.Course) error
	FindByID(ctx context.Context, id uint) (*model.Course, error)
	FindByIDWithUnits(ctx context.Context, id uint) (*model.Course, error)
	FindAll(ctx context.Context, filter CourseFilter) ([]model.Course, error)
	Update(ctx context.Context, course *model.Course) error
	Delete(ctx context.Context, id uint) error

	CreateCourseUnit(ctx context.Context, cu *model.CourseUnit) error
	FindCourseUnit(ctx context.Context, id uint) (*model.CourseUnit, error)
	FindCourseUnits(ctx context.Context, courseID uint) ([]model.CourseUnit, error)
	ExistsCourseUnit(ctx context.Context, courseID, unitID uint) (bool, error)
	// DeleteCourseUnit removes a placement together with its progress trail.
	DeleteCourseUnit(ctx context.Context, id uint) error
	// SetCourseUnitOrder assigns sort orders 1..n following ids.
	SetCourseUnitOrder(ctx context.Context, ids []uint) error
}

type courseRepository struct {
	db    *gorm.DB
	store store[model.Course]
}

func NewCourseRepository(db *gorm.DB) CourseRepository {
	return &courseRepository{db: db, store: newStore[model.Course](db, "course")}
}

func (r *courseRepository) WithTx(tx *gorm.DB) CourseRepository {
	return NewCourseRepository(tx)
}

func (r *courseRepository) Create(ctx context.Context, course *model.Course) error {
	return r.store.create(ctx, course)
}

func (r *courseRepository) FindByID(ctx context.Context, id uint) (*model.Course, error) {
	return r.store.findByID(ctx, id)
}

func (r *courseRepository) FindByIDWithUnits(ctx context.Context, id uint) (*model.Course, error) {
	var course model.Course
	err := r.db.WithContext(ctx).
		Preload("CourseUnits", func(db *gorm.DB) *gorm.DB {
			return db.Order("course_units.sort_order ASC")
		}).
		Preload("CourseUnits.Unit").
		First(&course, id).Error
	if err != nil {
		return nil, apperr.FromDB(err, "course", id, "failed to load course")
	}
	return &course, nil
}

func (r *courseRepository) FindAll(ctx context.Context, filter CourseFilter) ([]model.Course, error) {
	byArea := func(db *gorm.DB) *gorm.DB {
		if filter.TrainingAreaID == nil {
			return db
		}
		return db.Where("module_id IN (?)", r.db.Model(&model.Module{}).Select("id").Where("training_area_id = ?", *filter.TrainingAreaID))
	}
	return r.store.findAll(ctx, whereEq("module_id", filter.ModuleID), byArea, nameLike("name", filter.Search))
}

func (r *courseRepository) Update(ctx context.Context, course *model.Course) error {
	return r.store.update(ctx, course)
}

func (r *courseRepository) Delete(ctx context.Context, id uint) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if _, err := NewCourseRepository(tx).FindByID(ctx, id); err != nil {
			return err
		}
		if err := deleteCourses(tx, []uint{id}); err != nil {
			return apperr.FromDB(err, "course", id, "failed to delete course")
		}
		return nil
	})
}

func (r *courseRepository) CreateCourseUnit(ctx context.Context, cu *model.CourseUnit) error {
	err := r.db.WithContext(ctx).Create(cu).Error
	return apperr.FromDB(err, "course unit", 0, "failed to attach unit to course")
}

func (r *courseRepository) FindCourseUnit(ctx context.Context, id uint) (*model.CourseUnit, error) {
	var cu model.CourseUnit
	if err := r.db.WithContext(ctx).First(&cu, id).Error; err != nil {
		return nil, apperr.FromDB(err, "course unit", id, "failed to load course unit")
	}
	return &cu, nil
}

func (r *courseRepository) FindCourseUnits(ctx context.Context, courseID uint) ([]model.CourseUnit, error) {
	var cus []model.CourseUnit
	err := r.db.WithContext(ctx).
		Where("course_id = ?", courseID).
		Order("sort_order ASC").Order("id ASC").
		Find(&cus).Error
	if err != nil {
		return nil, apperr.FromDB(err, "course unit", 0, "failed to list course units")
	}
	return cus, nil
}

func (r *courseRepository) ExistsCourseUnit(ctx context.Context, courseID, unitID uint) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&model.CourseUnit{}).
		Where("course_id = ? AND unit_id = ?", courseID, unitID).
		Count(&count).Error
	return count > 0, apperr.FromDB(err, "course unit", 0, "failed to check course unit")
}

func (r *courseRepository) DeleteCourseUnit(ctx context.Context, id uint) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return apperr.FromDB(deleteCourseUnits(tx, []uint{id}), "course unit", id, "failed to detach unit")
	})
}

func (r *courseRepository) SetCourseUnitOrder(ctx context.Context, ids []uint) error {
	err := renumber(r.db.WithContext(ctx), &model.CourseUnit{}, ids)
	return apperr.FromDB(err, "course unit", 0, "failed to reorder course units")
}
