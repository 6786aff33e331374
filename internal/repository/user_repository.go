package repository

import (
	"context"
	"strings"

	"github.com/vxacademy/academy/internal/apperr"
	"github.com/vxacademy/academy/internal/model"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type UserFilter struct {
	UserType       *model.UserType
	OrganizationID *uint
	AssetID        *uint
	Search         string
}

type UserRepository interface {
	WithTx(tx *gorm.DB) UserRepository
	// Create inserts the user together with whichever detail row is set.
	Create(ctx context.Context, user *model.User) error
	FindByID(ctx context.Context, id uint) (*model.User, error)
	FindAll(ctx context.Context, filter UserFilter) ([]model.User, error)
	EmailTaken(ctx context.Context, email string, excludeUserID uint) (bool, error)
	// EIDTaken checks both detail tables.
	EIDTaken(ctx context.Context, eid string, excludeUserID uint) (bool, error)
	Update(ctx context.Context, user *model.User) error
	SaveSubAdminDetail(ctx context.Context, d *model.SubAdminDetail) error
	SaveNormalUserDetail(ctx context.Context, d *model.NormalUserDetail) error
	AddXP(ctx context.Context, userID uint, delta int) error
	// Lock takes a row lock on the user for the rest of the transaction. All
	// writes to a learner's progress and attempts happen under it.
	Lock(ctx context.Context, id uint) error
	// LockMany locks several users in ascending id order.
	LockMany(ctx context.Context, ids []uint) error
	// Delete removes the user and every row that references it.
	Delete(ctx context.Context, id uint) error
}

type userRepository struct {
	db *gorm.DB
}

func NewUserRepository(db *gorm.DB) UserRepository {
	return &userRepository{db: db}
}

func (r *userRepository) WithTx(tx *gorm.DB) UserRepository {
	return NewUserRepository(tx)
}

func (r *userRepository) Create(ctx context.Context, user *model.User) error {
	return apperr.FromDB(r.db.WithContext(ctx).Create(user).Error, "user", 0, "failed to create user")
}

func (r *userRepository) FindByID(ctx context.Context, id uint) (*model.User, error) {
	var user model.User
	err := r.db.WithContext(ctx).Preload("SubAdminDetail").Preload("NormalUserDetail").First(&user, id).Error
	if err != nil {
		return nil, apperr.FromDB(err, "user", id, "failed to load user")
	}
	return &user, nil
}

func (r *userRepository) FindAll(ctx context.Context, filter UserFilter) ([]model.User, error) {
	var users []model.User
	q := r.db.WithContext(ctx).Preload("SubAdminDetail").Preload("NormalUserDetail").
		Scopes(whereEq("organization_id", filter.OrganizationID), whereEq("asset_id", filter.AssetID))
	if filter.UserType != nil {
		q = q.Where("user_type = ?", *filter.UserType)
	}
	if s := strings.TrimSpace(filter.Search); s != "" {
		like := "%" + strings.ToLower(s) + "%"
		q = q.Where("LOWER(name) LIKE ? OR LOWER(email) LIKE ?", like, like)
	}
	if err := q.Order("id ASC").Find(&users).Error; err != nil {
		return nil, apperr.FromDB(err, "user", 0, "failed to list users")
	}
	return users, nil
}

func (r *userRepository) EmailTaken(ctx context.Context, email string, excludeUserID uint) (bool, error) {
	var n int64
	err := r.db.WithContext(ctx).Model(&model.User{}).
		Where("LOWER(email) = ? AND id <> ?", strings.ToLower(email), excludeUserID).
		Count(&n).Error
	return n > 0, apperr.FromDB(err, "user", 0, "failed to check email")
}

func (r *userRepository) EIDTaken(ctx context.Context, eid string, excludeUserID uint) (bool, error) {
	for _, m := range []interface{}{&model.SubAdminDetail{}, &model.NormalUserDetail{}} {
		var n int64
		err := r.db.WithContext(ctx).Model(m).Where("eid = ? AND user_id <> ?", eid, excludeUserID).Count(&n).Error
		if err != nil {
			return false, apperr.FromDB(err, "user", 0, "failed to check eid")
		}
		if n > 0 {
			return true, nil
		}
	}
	return false, nil
}

func (r *userRepository) Update(ctx context.Context, user *model.User) error {
	err := r.db.WithContext(ctx).Omit("SubAdminDetail", "NormalUserDetail").Save(user).Error
	return apperr.FromDB(err, "user", user.ID, "failed to update user")
}

func (r *userRepository) SaveSubAdminDetail(ctx context.Context, d *model.SubAdminDetail) error {
	return apperr.FromDB(r.db.WithContext(ctx).Save(d).Error, "sub admin detail", 0, "failed to save sub admin detail")
}

func (r *userRepository) SaveNormalUserDetail(ctx context.Context, d *model.NormalUserDetail) error {
	return apperr.FromDB(r.db.WithContext(ctx).Save(d).Error, "user detail", 0, "failed to save user detail")
}

func (r *userRepository) Lock(ctx context.Context, id uint) error {
	var user model.User
	err := r.db.WithContext(ctx).Clauses(clause.Locking{Strength: "UPDATE"}).Select("id").First(&user, id).Error
	return apperr.FromDB(err, "user", id, "failed to lock user")
}

func (r *userRepository) LockMany(ctx context.Context, ids []uint) error {
	if len(ids) == 0 {
		return nil
	}
	var locked []uint
	err := r.db.WithContext(ctx).Model(&model.User{}).Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("id IN ?", ids).Order("id ASC").Pluck("id", &locked).Error
	return apperr.FromDB(err, "user", 0, "failed to lock users")
}

func (r *userRepository) AddXP(ctx context.Context, userID uint, delta int) error {
	if delta == 0 {
		return nil
	}
	res := r.db.WithContext(ctx).Model(&model.User{}).Where("id = ?", userID).
		UpdateColumn("xp", gorm.Expr("CASE WHEN xp + ? < 0 THEN 0 ELSE xp + ? END", delta, delta))
	if res.Error != nil {
		return apperr.FromDB(res.Error, "user", userID, "failed to award xp")
	}
	if res.RowsAffected == 0 {
		return apperr.NotFound("user", userID)
	}
	return nil
}

func (r *userRepository) Delete(ctx context.Context, id uint) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if _, err := NewUserRepository(tx).FindByID(ctx, id); err != nil {
			return err
		}
		dependents := []interface{}{
			&model.SubAdminDetail{}, &model.NormalUserDetail{},
			&model.LearningBlockCompletion{},
			&model.UserCourseUnitProgress{}, &model.UserCourseProgress{},
			&model.UserModuleProgress{}, &model.UserTrainingAreaProgress{},
			&model.AssessmentAttempt{}, &model.CourseEnrollment{}, &model.Certificate{},
			&model.UserBadge{}, &model.Notification{},
		}
		for _, m := range dependents {
			if err := tx.Where("user_id = ?", id).Delete(m).Error; err != nil {
				return apperr.FromDB(err, "user", id, "failed to delete user data")
			}
		}
		return apperr.FromDB(tx.Delete(&model.User{}, id).Error, "user", id, "failed to delete user")
	})
}
