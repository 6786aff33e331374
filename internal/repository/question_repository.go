package repository

import (
	"context"

	"github.com/vxacademy/academy/internal/apperr"
	"github.com/vxacademy/academy/internal/model"
	"gorm.io/gorm"
)

type QuestionRepository interface {
	WithTx(tx *gorm.DB) QuestionRepository
	Create(ctx context.Context, question *model.Question) error
	FindByID(ctx context.Context, id uint) (*model.Question, error)
	FindByAssessmentID(ctx context.Context, assessmentID uint) ([]model.Question, error)
	CountByAssessmentID(ctx context.Context, assessmentID uint) (int64, error)
	Update(ctx context.Context, question *model.Question) error
	Delete(ctx context.Context, id uint) error
}

type questionRepository struct {
	db    *gorm.DB
	store store[model.Question]
}

func NewQuestionRepository(db *gorm.DB) QuestionRepository {
	return &questionRepository{db: db, store: newStore[model.Question](db, "question")}
}

func (r *questionRepository) WithTx(tx *gorm.DB) QuestionRepository {
	return NewQuestionRepository(tx)
}

func (r *questionRepository) Create(ctx context.Context, question *model.Question) error {
	return r.store.create(ctx, question)
}

func (r *questionRepository) FindByID(ctx context.Context, id uint) (*model.Question, error) {
	return r.store.findByID(ctx, id)
}

func (r *questionRepository) FindByAssessmentID(ctx context.Context, assessmentID uint) ([]model.Question, error) {
	var questions []model.Question
	err := r.db.WithContext(ctx).Where("assessment_id = ?", assessmentID).Order("sort_order ASC").Order("id ASC").Find(&questions).Error
	if err != nil {
		return nil, apperr.FromDB(err, "question", 0, "failed to list questions")
	}
	return questions, nil
}

func (r *questionRepository) CountByAssessmentID(ctx context.Context, assessmentID uint) (int64, error) {
	var n int64
	err := r.db.WithContext(ctx).Model(&model.Question{}).Where("assessment_id = ?", assessmentID).Count(&n).Error
	return n, apperr.FromDB(err, "question", 0, "failed to count questions")
}

func (r *questionRepository) Update(ctx context.Context, question *model.Question) error {
	return r.store.update(ctx, question)
}

func (r *questionRepository) Delete(ctx context.Context, id uint) error {
	return r.store.delete(ctx, id)
}
