package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vxacademy/academy/internal/apperr"
	"github.com/vxacademy/academy/internal/model"
	"github.com/vxacademy/academy/internal/testutil"
)

func day(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func TestReportWindow(t *testing.T) {
	s := &reportService{clock: func() time.Time { return time.Date(2026, 3, 14, 9, 30, 0, 0, time.UTC) }}

	from, to, err := s.window(ReportQuery{})
	require.NoError(t, err)
	assert.Equal(t, day(2026, 3, 1), from)
	assert.Equal(t, day(2026, 4, 1), to)

	f, l := day(2026, 1, 5), day(2026, 1, 5)
	from, to, err = s.window(ReportQuery{From: &f, To: &l})
	require.NoError(t, err)
	assert.Equal(t, day(2026, 1, 5), from)
	assert.Equal(t, day(2026, 1, 6), to, "to is inclusive")

	early := day(2026, 1, 4)
	_, _, err = s.window(ReportQuery{From: &f, To: &early})
	assert.True(t, apperr.IsValidation(err))
}

func TestCourseCompletionReport(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()
	h := testutil.SeedHierarchy(t, e.db, 0)
	done := testutil.SeedLearner(t, e.db, "Donald Knuth")
	started := testutil.SeedLearner(t, e.db, "Robert Floyd")
	late := testutil.SeedLearner(t, e.db, "Peter Naur")

	enroll := func(u model.User, at time.Time) {
		require.NoError(t, e.db.Create(&model.CourseEnrollment{UserID: u.ID, CourseID: h.Course.ID, EnrolledAt: at, Source: model.SourceAdmin}).Error)
	}
	enroll(done, day(2026, 3, 2))
	enroll(started, day(2026, 3, 20))
	enroll(late, day(2026, 4, 2))

	require.NoError(t, e.db.Create(&model.UserCourseProgress{UserID: done.ID, CourseID: h.Course.ID, Status: model.StatusCompleted, CompletionPercentage: 100}).Error)
	require.NoError(t, e.db.Create(&model.UserCourseProgress{UserID: started.ID, CourseID: h.Course.ID, Status: model.StatusInProgress, CompletionPercentage: 50}).Error)

	e.reports.clock = func() time.Time { return day(2026, 3, 25) }
	got, err := e.reports.CourseCompletion(ctx, ReportQuery{})
	require.NoError(t, err)
	require.Len(t, got.Courses, 1)
	c := got.Courses[0]
	assert.Equal(t, "Induction", c.CourseName)
	assert.EqualValues(t, 2, c.Enrolled)
	assert.EqualValues(t, 1, c.Completed)
	assert.InDelta(t, 50.0, c.CompletionRate, 0.001)
	assert.InDelta(t, 75.0, c.AveragePercentage, 0.001)

	other := uint(12345)
	got, err = e.reports.CourseCompletion(ctx, ReportQuery{CourseID: &other})
	require.NoError(t, err)
	assert.Empty(t, got.Courses)
}
