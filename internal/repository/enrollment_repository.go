package repository

import (
	"context"

	"github.com/vxacademy/academy/internal/apperr"
	"github.com/vxacademy/academy/internal/model"
	"gorm.io/gorm"
)

type EnrollmentRepository interface {
	WithTx(tx *gorm.DB) EnrollmentRepository
	Create(ctx context.Context, enrollment *model.CourseEnrollment) error
	// Find returns nil without error when the learner is not enrolled.
	Find(ctx context.Context, userID, courseID uint) (*model.CourseEnrollment, error)
	FindByUser(ctx context.Context, userID uint) ([]model.CourseEnrollment, error)
	FindByCourse(ctx context.Context, courseID uint) ([]model.CourseEnrollment, error)
}

type enrollmentRepository struct {
	db *gorm.DB
}

func NewEnrollmentRepository(db *gorm.DB) EnrollmentRepository {
	return &enrollmentRepository{db: db}
}

func (r *enrollmentRepository) WithTx(tx *gorm.DB) EnrollmentRepository {
	return NewEnrollmentRepository(tx)
}

func (r *enrollmentRepository) Create(ctx context.Context, enrollment *model.CourseEnrollment) error {
	return apperr.FromDB(r.db.WithContext(ctx).Create(enrollment).Error, "enrollment", 0, "failed to create enrollment")
}

func (r *enrollmentRepository) Find(ctx context.Context, userID, courseID uint) (*model.CourseEnrollment, error) {
	var rows []model.CourseEnrollment
	err := r.db.WithContext(ctx).Where("user_id = ? AND course_id = ?", userID, courseID).Limit(1).Find(&rows).Error
	if err != nil {
		return nil, apperr.FromDB(err, "enrollment", 0, "failed to load enrollment")
	}
	if len(rows) == 0 {
		return nil, nil
	}
	return &rows[0], nil
}

func (r *enrollmentRepository) FindByUser(ctx context.Context, userID uint) ([]model.CourseEnrollment, error) {
	var rows []model.CourseEnrollment
	err := r.db.WithContext(ctx).Where("user_id = ?", userID).Order("enrolled_at DESC").Find(&rows).Error
	return rows, apperr.FromDB(err, "enrollment", 0, "failed to list enrollments")
}

func (r *enrollmentRepository) FindByCourse(ctx context.Context, courseID uint) ([]model.CourseEnrollment, error) {
	var rows []model.CourseEnrollment
	err := r.db.WithContext(ctx).Where("course_id = ?", courseID).Order("enrolled_at DESC").Find(&rows).Error
	return rows, apperr.FromDB(err, "enrollment", 0, "failed to list enrollments")
}
