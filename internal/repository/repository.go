// Package repository wraps gorm access to the academy schema. Every
// repository can be rebound to a transaction with WithTx.
package repository

import (
	"context"
	"strings"

	"github.com/vxacademy/academy/internal/apperr"
	"gorm.io/gorm"
)

// store implements the plain CRUD shared by lookup tables.
type store[T any] struct {
	db     *gorm.DB
	entity string
}

func newStore[T any](db *gorm.DB, entity string) store[T] {
	return store[T]{db: db, entity: entity}
}

func (s store[T]) create(ctx context.Context, v *T) error {
	return apperr.FromDB(s.db.WithContext(ctx).Create(v).Error, s.entity, 0, "failed to create "+s.entity)
}

func (s store[T]) findByID(ctx context.Context, id uint) (*T, error) {
	var v T
	if err := s.db.WithContext(ctx).First(&v, id).Error; err != nil {
		return nil, apperr.FromDB(err, s.entity, id, "failed to load "+s.entity)
	}
	return &v, nil
}

func (s store[T]) findAll(ctx context.Context, scopes ...func(*gorm.DB) *gorm.DB) ([]T, error) {
	var out []T
	if err := s.db.WithContext(ctx).Scopes(scopes...).Order("id ASC").Find(&out).Error; err != nil {
		return nil, apperr.FromDB(err, s.entity, 0, "failed to list "+s.entity)
	}
	return out, nil
}

func (s store[T]) update(ctx context.Context, v *T) error {
	return apperr.FromDB(s.db.WithContext(ctx).Save(v).Error, s.entity, 0, "failed to update "+s.entity)
}

func (s store[T]) delete(ctx context.Context, id uint) error {
	res := s.db.WithContext(ctx).Delete(new(T), id)
	if res.Error != nil {
		return apperr.FromDB(res.Error, s.entity, id, "failed to delete "+s.entity)
	}
	if res.RowsAffected == 0 {
		return apperr.NotFound(s.entity, id)
	}
	return nil
}

// nameLike filters on a case-insensitive name match.
func nameLike(column, search string) func(*gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		search = strings.TrimSpace(search)
		if search == "" {
			return db
		}
		return db.Where("LOWER("+column+") LIKE ?", "%"+strings.ToLower(search)+"%")
	}
}

func whereEq(column string, id *uint) func(*gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		if id == nil {
			return db
		}
		return db.Where(column+" = ?", *id)
	}
}

func pluckIDs(db *gorm.DB, model interface{}, query string, args ...interface{}) ([]uint, error) {
	var ids []uint
	err := db.Model(model).Where(query, args...).Pluck("id", &ids).Error
	return ids, err
}

func pluckOrdered(db *gorm.DB, model interface{}, query string, args ...interface{}) ([]uint, error) {
	var ids []uint
	err := db.Model(model).Where(query, args...).Order("sort_order ASC").Order("id ASC").Pluck("id", &ids).Error
	return ids, err
}
