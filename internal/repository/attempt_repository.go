package repository

import (
	"context"

	"github.com/vxacademy/academy/internal/apperr"
	"github.com/vxacademy/academy/internal/model"
	"gorm.io/gorm"
)

type AttemptRepository interface {
	WithTx(tx *gorm.DB) AttemptRepository
	Create(ctx context.Context, attempt *model.AssessmentAttempt) error
	FindByID(ctx context.Context, id uint) (*model.AssessmentAttempt, error)
	// FindByAssessment lists attempts newest first. A nil userID lists every learner.
	FindByAssessment(ctx context.Context, assessmentID uint, userID *uint) ([]model.AssessmentAttempt, error)
	Count(ctx context.Context, assessmentID, userID uint) (int64, error)
	HasPassed(ctx context.Context, assessmentID, userID uint) (bool, error)
}

type attemptRepository struct {
	db *gorm.DB
}

func NewAttemptRepository(db *gorm.DB) AttemptRepository {
	return &attemptRepository{db: db}
}

func (r *attemptRepository) WithTx(tx *gorm.DB) AttemptRepository {
	return NewAttemptRepository(tx)
}

func (r *attemptRepository) Create(ctx context.Context, attempt *model.AssessmentAttempt) error {
	return apperr.FromDB(r.db.WithContext(ctx).Create(attempt).Error, "assessment attempt", 0, "failed to create attempt")
}

func (r *attemptRepository) FindByID(ctx context.Context, id uint) (*model.AssessmentAttempt, error) {
	var attempt model.AssessmentAttempt
	if err := r.db.WithContext(ctx).First(&attempt, id).Error; err != nil {
		return nil, apperr.FromDB(err, "assessment attempt", id, "failed to load attempt")
	}
	return &attempt, nil
}

func (r *attemptRepository) FindByAssessment(ctx context.Context, assessmentID uint, userID *uint) ([]model.AssessmentAttempt, error) {
	var attempts []model.AssessmentAttempt
	err := r.db.WithContext(ctx).
		Where("assessment_id = ?", assessmentID).
		Scopes(whereEq("user_id", userID)).
		Order("completed_at DESC").Order("id DESC").
		Find(&attempts).Error
	if err != nil {
		return nil, apperr.FromDB(err, "assessment attempt", 0, "failed to list attempts")
	}
	return attempts, nil
}

func (r *attemptRepository) Count(ctx context.Context, assessmentID, userID uint) (int64, error) {
	var n int64
	err := r.db.WithContext(ctx).Model(&model.AssessmentAttempt{}).
		Where("assessment_id = ? AND user_id = ?", assessmentID, userID).
		Count(&n).Error
	return n, apperr.FromDB(err, "assessment attempt", 0, "failed to count attempts")
}

func (r *attemptRepository) HasPassed(ctx context.Context, assessmentID, userID uint) (bool, error) {
	var n int64
	err := r.db.WithContext(ctx).Model(&model.AssessmentAttempt{}).
		Where("assessment_id = ? AND user_id = ? AND passed = ?", assessmentID, userID, true).
		Count(&n).Error
	return n > 0, apperr.FromDB(err, "assessment attempt", 0, "failed to check attempts")
}
