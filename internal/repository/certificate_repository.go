package repository

import (
	"context"
	"time"

	"github.com/vxacademy/academy/internal/apperr"
	"github.com/vxacademy/academy/internal/model"
	"gorm.io/gorm"
)

type CertificateRepository interface {
	WithTx(tx *gorm.DB) CertificateRepository
	Create(ctx context.Context, cert *model.Certificate) error
	FindByID(ctx context.Context, id uint) (*model.Certificate, error)
	// FindActive returns nil without error when no active certificate exists.
	FindActive(ctx context.Context, userID, courseID uint) (*model.Certificate, error)
	FindByUser(ctx context.Context, userID uint) ([]model.Certificate, error)
	FindDue(ctx context.Context, now time.Time) ([]model.Certificate, error)
	UpdateStatus(ctx context.Context, ids []uint, status model.CertificateStatus) error
}

type certificateRepository struct {
	db *gorm.DB
}

func NewCertificateRepository(db *gorm.DB) CertificateRepository {
	return &certificateRepository{db: db}
}

func (r *certificateRepository) WithTx(tx *gorm.DB) CertificateRepository {
	return NewCertificateRepository(tx)
}

func (r *certificateRepository) Create(ctx context.Context, cert *model.Certificate) error {
	return apperr.FromDB(r.db.WithContext(ctx).Create(cert).Error, "certificate", 0, "failed to create certificate")
}

func (r *certificateRepository) FindByID(ctx context.Context, id uint) (*model.Certificate, error) {
	var cert model.Certificate
	if err := r.db.WithContext(ctx).First(&cert, id).Error; err != nil {
		return nil, apperr.FromDB(err, "certificate", id, "failed to load certificate")
	}
	return &cert, nil
}

func (r *certificateRepository) FindActive(ctx context.Context, userID, courseID uint) (*model.Certificate, error) {
	var rows []model.Certificate
	err := r.db.WithContext(ctx).
		Where("user_id = ? AND course_id = ? AND status = ?", userID, courseID, model.CertificateActive).
		Limit(1).Find(&rows).Error
	if err != nil {
		return nil, apperr.FromDB(err, "certificate", 0, "failed to load certificate")
	}
	if len(rows) == 0 {
		return nil, nil
	}
	return &rows[0], nil
}

func (r *certificateRepository) FindByUser(ctx context.Context, userID uint) ([]model.Certificate, error) {
	var rows []model.Certificate
	err := r.db.WithContext(ctx).Where("user_id = ?", userID).Order("issue_date DESC").Find(&rows).Error
	return rows, apperr.FromDB(err, "certificate", 0, "failed to list certificates")
}

func (r *certificateRepository) FindDue(ctx context.Context, now time.Time) ([]model.Certificate, error) {
	var rows []model.Certificate
	err := r.db.WithContext(ctx).
		Where("status = ? AND expiry_date <= ?", model.CertificateActive, now).
		Find(&rows).Error
	return rows, apperr.FromDB(err, "certificate", 0, "failed to list due certificates")
}

func (r *certificateRepository) UpdateStatus(ctx context.Context, ids []uint, status model.CertificateStatus) error {
	if len(ids) == 0 {
		return nil
	}
	err := r.db.WithContext(ctx).Model(&model.Certificate{}).Where("id IN ?", ids).Update("status", status).Error
	return apperr.FromDB(err, "certificate", 0, "failed to update certificates")
}
