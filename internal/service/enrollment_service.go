package service

import (
	"context"
	"strconv"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/vxacademy/academy/internal/apperr"
	"github.com/vxacademy/academy/internal/dto"
	"github.com/vxacademy/academy/internal/model"
	"github.com/vxacademy/academy/internal/repository"
)

type EnrollmentService interface {
	Enroll(ctx context.Context, courseID uint, req dto.EnrollRequest) (*dto.EnrollmentResponse, error)
	ListByUser(ctx context.Context, userID uint) ([]dto.EnrollmentResponse, error)
	ListByCourse(ctx context.Context, courseID uint) ([]dto.EnrollmentResponse, error)
}

type enrollmentService struct {
	enrollmentRepo repository.EnrollmentRepository
	userRepo       repository.UserRepository
	courseRepo     repository.CourseRepository
}

func NewEnrollmentService(
	enrollmentRepo repository.EnrollmentRepository,
	userRepo repository.UserRepository,
	courseRepo repository.CourseRepository,
) EnrollmentService {
	return &enrollmentService{enrollmentRepo: enrollmentRepo, userRepo: userRepo, courseRepo: courseRepo}
}

func (s *enrollmentService) Enroll(ctx context.Context, courseID uint, req dto.EnrollRequest) (*dto.EnrollmentResponse, error) {
	if _, err := s.userRepo.FindByID(ctx, req.UserID); err != nil {
		return nil, err
	}
	if _, err := s.courseRepo.FindByID(ctx, courseID); err != nil {
		return nil, err
	}
	existing, err := s.enrollmentRepo.Find(ctx, req.UserID, courseID)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, apperr.Conflict("enrollment", "course_id", strconv.FormatUint(uint64(courseID), 10))
	}

	source := model.SourceAdmin
	if req.Source != "" {
		source = model.EnrollmentSource(req.Source)
	}
	enrollment := model.CourseEnrollment{UserID: req.UserID, CourseID: courseID, EnrolledAt: time.Now(), Source: source}
	if err := s.enrollmentRepo.Create(ctx, &enrollment); err != nil {
		if !apperr.IsConflict(err) {
			log.Error().Err(err).Uint("userID", req.UserID).Uint("courseID", courseID).Msg("Enroll: failed to save")
		}
		return nil, err
	}
	resp := toEnrollmentResponse(&enrollment)
	return &resp, nil
}

func (s *enrollmentService) ListByUser(ctx context.Context, userID uint) ([]dto.EnrollmentResponse, error) {
	if _, err := s.userRepo.FindByID(ctx, userID); err != nil {
		return nil, err
	}
	rows, err := s.enrollmentRepo.FindByUser(ctx, userID)
	return toEnrollmentResponses(rows), err
}

func (s *enrollmentService) ListByCourse(ctx context.Context, courseID uint) ([]dto.EnrollmentResponse, error) {
	if _, err := s.courseRepo.FindByID(ctx, courseID); err != nil {
		return nil, err
	}
	rows, err := s.enrollmentRepo.FindByCourse(ctx, courseID)
	return toEnrollmentResponses(rows), err
}

func toEnrollmentResponses(rows []model.CourseEnrollment) []dto.EnrollmentResponse {
	out := make([]dto.EnrollmentResponse, 0, len(rows))
	for i := range rows {
		out = append(out, toEnrollmentResponse(&rows[i]))
	}
	return out
}
