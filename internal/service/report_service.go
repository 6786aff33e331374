package service

import (
	"context"
	"time"

	"github.com/jinzhu/now"
	"github.com/vxacademy/academy/internal/apperr"
	"github.com/vxacademy/academy/internal/dto"
	"github.com/vxacademy/academy/internal/repository"
)

type ReportQuery struct {
	CourseID          *uint
	OrganizationID    *uint
	SubOrganizationID *uint
	AssetID           *uint
	SubAssetID        *uint
	// From and To are inclusive calendar days. Both empty means the current month.
	From *time.Time
	To   *time.Time
}

type ReportService interface {
	CourseCompletion(ctx context.Context, q ReportQuery) (*dto.CompletionReportResponse, error)
}

type reportService struct {
	reportRepo repository.ReportRepository
	clock      func() time.Time
}

func NewReportService(reportRepo repository.ReportRepository) ReportService {
	return &reportService{reportRepo: reportRepo, clock: time.Now}
}

// window resolves the half-open [from, to) range of a report query.
func (s *reportService) window(q ReportQuery) (time.Time, time.Time, error) {
	today := now.With(s.clock())
	from, to := today.BeginningOfMonth(), today.BeginningOfMonth().AddDate(0, 1, 0)
	if q.From != nil {
		from = now.With(*q.From).BeginningOfDay()
	}
	if q.To != nil {
		to = now.With(*q.To).BeginningOfDay().AddDate(0, 0, 1)
	}
	if !to.After(from) {
		return time.Time{}, time.Time{}, apperr.Invalid("to", "must not be before from")
	}
	return from, to, nil
}

func (s *reportService) CourseCompletion(ctx context.Context, q ReportQuery) (*dto.CompletionReportResponse, error) {
	from, to, err := s.window(q)
	if err != nil {
		return nil, err
	}
	rows, err := s.reportRepo.CourseCompletion(ctx, repository.CompletionFilter{
		CourseID:          q.CourseID,
		OrganizationID:    q.OrganizationID,
		SubOrganizationID: q.SubOrganizationID,
		AssetID:           q.AssetID,
		SubAssetID:        q.SubAssetID,
		From:              from,
		To:                to,
	})
	if err != nil {
		return nil, err
	}
	resp := &dto.CompletionReportResponse{From: from, To: to, Courses: make([]dto.CourseCompletionResponse, 0, len(rows))}
	for _, r := range rows {
		c := dto.CourseCompletionResponse{
			CourseID:          r.CourseID,
			CourseName:        r.CourseName,
			Enrolled:          r.Enrolled,
			Completed:         r.Completed,
			AveragePercentage: r.AveragePercentage,
		}
		if r.Enrolled > 0 {
			c.CompletionRate = 100 * float64(r.Completed) / float64(r.Enrolled)
		}
		resp.Courses = append(resp.Courses, c)
	}
	return resp, nil
}
