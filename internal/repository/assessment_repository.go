package repository

import (
	"context"

	"github.com/vxacademy/academy/internal/apperr"
	"github.com/vxacademy/academy/internal/model"
	"gorm.io/gorm"
)

type AssessmentRepository interface {
	WithTx(tx *gorm.DB) AssessmentRepository
	Create(ctx context.Context, assessment *model.Assessment) error
	FindByID(ctx context.Context, id uint) (*model.Assessment, error)
	FindByIDWithQuestions(ctx context.Context, id uint) (*model.Assessment, error)
	FindByOwner(ctx context.Context, owner *model.AssessmentOwner) ([]AssessmentWithQuestionCount, error)
	Update(ctx context.Context, assessment *model.Assessment) error
	// Delete removes the assessment with its questions and attempts.
	Delete(ctx context.Context, id uint) error
}

type AssessmentWithQuestionCount struct {
	model.Assessment
	QuestionCount int
}

type assessmentRepository struct {
	db    *gorm.DB
	store store[model.Assessment]
}

func NewAssessmentRepository(db *gorm.DB) AssessmentRepository {
	return &assessmentRepository{db: db, store: newStore[model.Assessment](db, "assessment")}
}

func (r *assessmentRepository) WithTx(tx *gorm.DB) AssessmentRepository {
	return NewAssessmentRepository(tx)
}

func (r *assessmentRepository) Create(ctx context.Context, assessment *model.Assessment) error {
	return r.store.create(ctx, assessment)
}

func (r *assessmentRepository) FindByID(ctx context.Context, id uint) (*model.Assessment, error) {
	return r.store.findByID(ctx, id)
}

func (r *assessmentRepository) FindByIDWithQuestions(ctx context.Context, id uint) (*model.Assessment, error) {
	var assessment model.Assessment
	err := r.db.WithContext(ctx).Preload("Questions", func(db *gorm.DB) *gorm.DB {
		return db.Order("questions.sort_order ASC").Order("questions.id ASC")
	}).First(&assessment, id).Error
	if err != nil {
		return nil, apperr.FromDB(err, "assessment", id, "failed to load assessment")
	}
	return &assessment, nil
}

func (r *assessmentRepository) FindByOwner(ctx context.Context, owner *model.AssessmentOwner) ([]AssessmentWithQuestionCount, error) {
	var results []AssessmentWithQuestionCount
	q := r.db.WithContext(ctx).Model(&model.Assessment{}).
		Select("assessments.*, (SELECT COUNT(*) FROM questions WHERE questions.assessment_id = assessments.id) AS question_count")
	if owner != nil {
		q = q.Where("owner_type = ? AND owner_id = ?", owner.Kind, owner.ID)
	}
	if err := q.Order("assessments.id ASC").Scan(&results).Error; err != nil {
		return nil, apperr.FromDB(err, "assessment", 0, "failed to list assessments")
	}
	return results, nil
}

func (r *assessmentRepository) Update(ctx context.Context, assessment *model.Assessment) error {
	return r.store.update(ctx, assessment)
}

func (r *assessmentRepository) Delete(ctx context.Context, id uint) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if _, err := NewAssessmentRepository(tx).FindByID(ctx, id); err != nil {
			return err
		}
		return apperr.FromDB(deleteAssessments(tx, []uint{id}), "assessment", id, "failed to delete assessment")
	})
}
