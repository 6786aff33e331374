package service

import (
	"context"
	"fmt"
	"net/mail"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"github.com/vxacademy/academy/config"
	"github.com/vxacademy/academy/internal/apperr"
	"github.com/vxacademy/academy/internal/dto"
	"github.com/vxacademy/academy/internal/mailer"
	"github.com/vxacademy/academy/internal/model"
	"github.com/vxacademy/academy/internal/repository"
	"gorm.io/gorm"
)

type CertificateService interface {
	// Issue returns the learner's active certificate for the course, creating it when absent.
	Issue(ctx context.Context, userID, courseID uint) (*dto.CertificateResponse, error)
	Revoke(ctx context.Context, id uint) (*dto.CertificateResponse, error)
	ListByUser(ctx context.Context, userID uint) ([]dto.CertificateResponse, error)
	// ExpireDue marks active certificates past their expiry date as expired.
	ExpireDue(ctx context.Context, now time.Time) (int, error)
}

type certificateService struct {
	db               *gorm.DB
	certRepo         repository.CertificateRepository
	userRepo         repository.UserRepository
	courseRepo       repository.CourseRepository
	notificationRepo repository.NotificationRepository
	mailer           mailer.Mailer
	validity         time.Duration
	number           func(issued time.Time) string
}

func NewCertificateService(
	db *gorm.DB,
	cfg *config.Config,
	certRepo repository.CertificateRepository,
	userRepo repository.UserRepository,
	courseRepo repository.CourseRepository,
	notificationRepo repository.NotificationRepository,
	m mailer.Mailer,
) CertificateService {
	validity := cfg.Certificate.Validity()
	if validity <= 0 {
		validity = 365 * 24 * time.Hour
	}
	return &certificateService{
		db:               db,
		certRepo:         certRepo,
		userRepo:         userRepo,
		courseRepo:       courseRepo,
		notificationRepo: notificationRepo,
		mailer:           m,
		validity:         validity,
		number:           certificateNumber,
	}
}

// certificateNumber has the form VXA-<year>-<first 12 hex digits of a uuid>.
func certificateNumber(issued time.Time) string {
	id := strings.ReplaceAll(uuid.NewString(), "-", "")
	return fmt.Sprintf("VXA-%d-%s", issued.Year(), strings.ToUpper(id[:12]))
}

const numberAttempts = 3

// createWithNumber inserts cert under a fresh number, drawing again when the
// number is taken. Each insert runs in a savepoint so a collision leaves tx usable.
func (s *certificateService) createWithNumber(ctx context.Context, tx *gorm.DB, cert *model.Certificate) error {
	var err error
	for attempt := 1; attempt <= numberAttempts; attempt++ {
		cert.CertificateNumber = s.number(cert.IssueDate)
		err = tx.Transaction(func(sp *gorm.DB) error {
			return s.certRepo.WithTx(sp).Create(ctx, cert)
		})
		if !apperr.IsConflict(err) {
			return err
		}
		log.Warn().Str("number", cert.CertificateNumber).Int("attempt", attempt).Msg("Certificate number taken, drawing another")
	}
	return err
}

func (s *certificateService) Issue(ctx context.Context, userID, courseID uint) (*dto.CertificateResponse, error) {
	var (
		cert   *model.Certificate
		user   *model.User
		course *model.Course
		fresh  bool
	)
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var err error
		if user, err = s.userRepo.WithTx(tx).FindByID(ctx, userID); err != nil {
			return err
		}
		if course, err = s.courseRepo.WithTx(tx).FindByID(ctx, courseID); err != nil {
			return err
		}
		certs := s.certRepo.WithTx(tx)
		if cert, err = certs.FindActive(ctx, userID, courseID); err != nil || cert != nil {
			return err
		}

		now := time.Now()
		cert = &model.Certificate{
			UserID:     userID,
			CourseID:   courseID,
			IssueDate:  now,
			ExpiryDate: now.Add(s.validity),
			Status:     model.CertificateActive,
		}
		if !cert.ExpiryDate.After(cert.IssueDate) {
			return apperr.Invalid("expiry_date", "must be after the issue date")
		}
		if err := s.createWithNumber(ctx, tx, cert); err != nil {
			return err
		}
		fresh = true
		return s.notificationRepo.WithTx(tx).Create(ctx, &model.Notification{
			UserID:  userID,
			Type:    model.NotificationCertificateIssued,
			Title:   "Certificate issued",
			Message: fmt.Sprintf("Your certificate %s for %s is ready.", cert.CertificateNumber, course.Name),
			Payload: map[string]interface{}{"certificate_id": cert.ID, "course_id": courseID},
		})
	})
	if err != nil {
		if !isClientError(err) {
			log.Error().Err(err).Uint("userID", userID).Uint("courseID", courseID).Msg("IssueCertificate: transaction failed")
		}
		return nil, err
	}

	if fresh {
		log.Info().Str("number", cert.CertificateNumber).Uint("userID", userID).Uint("courseID", courseID).Msg("Certificate issued")
		s.mailer.Send(mailer.Message{
			To:          mail.Address{Name: user.Name, Address: user.Email},
			Subject:     "Your certificate for " + course.Name,
			TextContent: fmt.Sprintf("Congratulations %s, you earned certificate %s. It is valid until %s.", user.Name, cert.CertificateNumber, cert.ExpiryDate.Format("2006-01-02")),
		})
	}
	return toCertificateResponse(cert), nil
}

func (s *certificateService) Revoke(ctx context.Context, id uint) (*dto.CertificateResponse, error) {
	cert, err := s.certRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if cert.Status != model.CertificateActive {
		return nil, apperr.Invalid("status", fmt.Sprintf("certificate is already %s", cert.Status))
	}
	if err := s.certRepo.UpdateStatus(ctx, []uint{id}, model.CertificateRevoked); err != nil {
		log.Error().Err(err).Uint("certificateID", id).Msg("RevokeCertificate: failed to save")
		return nil, err
	}
	cert.Status = model.CertificateRevoked
	return toCertificateResponse(cert), nil
}

func (s *certificateService) ListByUser(ctx context.Context, userID uint) ([]dto.CertificateResponse, error) {
	if _, err := s.userRepo.FindByID(ctx, userID); err != nil {
		return nil, err
	}
	certs, err := s.certRepo.FindByUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	out := make([]dto.CertificateResponse, 0, len(certs))
	for i := range certs {
		out = append(out, *toCertificateResponse(&certs[i]))
	}
	return out, nil
}

func (s *certificateService) ExpireDue(ctx context.Context, now time.Time) (int, error) {
	var due []model.Certificate
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		certs := s.certRepo.WithTx(tx)
		var err error
		if due, err = certs.FindDue(ctx, now); err != nil || len(due) == 0 {
			return err
		}
		ids := make([]uint, 0, len(due))
		for _, c := range due {
			ids = append(ids, c.ID)
		}
		if err := certs.UpdateStatus(ctx, ids, model.CertificateExpired); err != nil {
			return err
		}
		notifications := s.notificationRepo.WithTx(tx)
		for _, c := range due {
			if err := notifications.Create(ctx, &model.Notification{
				UserID:  c.UserID,
				Type:    model.NotificationCertificateExpired,
				Title:   "Certificate expired",
				Message: fmt.Sprintf("Certificate %s has expired.", c.CertificateNumber),
				Payload: map[string]interface{}{"certificate_id": c.ID, "course_id": c.CourseID},
			}); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		log.Error().Err(err).Msg("ExpireDue: failed to expire certificates")
		return 0, err
	}
	if len(due) > 0 {
		log.Info().Int("count", len(due)).Msg("Certificates expired")
	}
	return len(due), nil
}
