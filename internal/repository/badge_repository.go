package repository

import (
	"context"

	"github.com/vxacademy/academy/internal/apperr"
	"github.com/vxacademy/academy/internal/model"
	"gorm.io/gorm"
)

type BadgeRepository interface {
	WithTx(tx *gorm.DB) BadgeRepository
	Create(ctx context.Context, badge *model.Badge) error
	FindByID(ctx context.Context, id uint) (*model.Badge, error)
	FindAll(ctx context.Context) ([]model.Badge, error)
	Delete(ctx context.Context, id uint) error
	HasUserBadge(ctx context.Context, userID, badgeID uint) (bool, error)
	Award(ctx context.Context, ub *model.UserBadge) error
	FindUserBadges(ctx context.Context, userID uint) ([]model.UserBadge, error)
}

type badgeRepository struct {
	db    *gorm.DB
	store store[model.Badge]
}

func NewBadgeRepository(db *gorm.DB) BadgeRepository {
	return &badgeRepository{db: db, store: newStore[model.Badge](db, "badge")}
}

func (r *badgeRepository) WithTx(tx *gorm.DB) BadgeRepository {
	return NewBadgeRepository(tx)
}

func (r *badgeRepository) Create(ctx context.Context, badge *model.Badge) error {
	return r.store.create(ctx, badge)
}

func (r *badgeRepository) FindByID(ctx context.Context, id uint) (*model.Badge, error) {
	return r.store.findByID(ctx, id)
}

func (r *badgeRepository) FindAll(ctx context.Context) ([]model.Badge, error) {
	return r.store.findAll(ctx)
}

func (r *badgeRepository) Delete(ctx context.Context, id uint) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("badge_id = ?", id).Delete(&model.UserBadge{}).Error; err != nil {
			return apperr.FromDB(err, "badge", id, "failed to delete user badges")
		}
		return newStore[model.Badge](tx, "badge").delete(ctx, id)
	})
}

func (r *badgeRepository) HasUserBadge(ctx context.Context, userID, badgeID uint) (bool, error) {
	var n int64
	err := r.db.WithContext(ctx).Model(&model.UserBadge{}).Where("user_id = ? AND badge_id = ?", userID, badgeID).Count(&n).Error
	return n > 0, apperr.FromDB(err, "user badge", 0, "failed to check user badge")
}

func (r *badgeRepository) Award(ctx context.Context, ub *model.UserBadge) error {
	return apperr.FromDB(r.db.WithContext(ctx).Create(ub).Error, "user badge", 0, "failed to award badge")
}

func (r *badgeRepository) FindUserBadges(ctx context.Context, userID uint) ([]model.UserBadge, error) {
	var rows []model.UserBadge
	err := r.db.WithContext(ctx).Preload("Badge").Where("user_id = ?", userID).Order("earned_at DESC").Find(&rows).Error
	return rows, apperr.FromDB(err, "user badge", 0, "failed to list user badges")
}
