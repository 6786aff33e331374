package repository

import (
	"context"
	"time"

	"github.com/vxacademy/academy/internal/apperr"
	"github.com/vxacademy/academy/internal/model"
	"gorm.io/gorm"
)

type CompletionFilter struct {
	CourseID          *uint
	OrganizationID    *uint
	SubOrganizationID *uint
	AssetID           *uint
	SubAssetID        *uint
	// Enrollments with EnrolledAt in [From, To) are counted.
	From time.Time
	To   time.Time
}

type CourseCompletionRow struct {
	CourseID          uint
	CourseName        string
	Enrolled          int64
	Completed         int64
	AveragePercentage float64
}

type ReportRepository interface {
	CourseCompletion(ctx context.Context, filter CompletionFilter) ([]CourseCompletionRow, error)
}

type reportRepository struct {
	db *gorm.DB
}

func NewReportRepository(db *gorm.DB) ReportRepository {
	return &reportRepository{db: db}
}

func (r *reportRepository) CourseCompletion(ctx context.Context, filter CompletionFilter) ([]CourseCompletionRow, error) {
	var rows []CourseCompletionRow
	q := r.db.WithContext(ctx).Table("course_enrollments AS e").
		Select(`c.id AS course_id, c.name AS course_name, COUNT(e.id) AS enrolled,
			SUM(CASE WHEN p.status = ? THEN 1 ELSE 0 END) AS completed,
			AVG(COALESCE(p.completion_percentage, 0)) AS average_percentage`, model.StatusCompleted).
		Joins("JOIN courses c ON c.id = e.course_id").
		Joins("JOIN users u ON u.id = e.user_id").
		Joins("LEFT JOIN user_course_progresses p ON p.user_id = e.user_id AND p.course_id = e.course_id").
		Where("e.enrolled_at >= ? AND e.enrolled_at < ?", filter.From, filter.To).
		Scopes(
			whereEq("e.course_id", filter.CourseID),
			whereEq("u.organization_id", filter.OrganizationID),
			whereEq("u.sub_organization_id", filter.SubOrganizationID),
			whereEq("u.asset_id", filter.AssetID),
			whereEq("u.sub_asset_id", filter.SubAssetID),
		).
		Group("c.id, c.name").
		Order("c.name ASC")
	if err := q.Scan(&rows).Error; err != nil {
		return nil, apperr.FromDB(err, "report", 0, "failed to compute course completion")
	}
	return rows, nil
}
