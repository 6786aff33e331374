package service

import (
	"context"
	"fmt"
	"sync"
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vxacademy/academy/internal/apperr"
	"github.com/vxacademy/academy/internal/model"
	"github.com/vxacademy/academy/internal/repository"
	"github.com/vxacademy/academy/internal/testutil"
	"gorm.io/gorm"
)

func TestRecordUnitProgressCountsMissingChildrenAsZero(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()
	h := testutil.SeedHierarchy(t, e.db, 10, 20)
	learner := testutil.SeedLearner(t, e.db, "Ada Lovelace")

	out, err := e.progress.RecordUnitProgress(ctx, learner.ID, h.CourseUnits[0].ID, 100)
	require.NoError(t, err)

	assert.Equal(t, "completed", out.UnitProgress.Status)
	assert.NotNil(t, out.UnitProgress.CompletedAt)
	assert.Equal(t, 50.0, out.CourseProgress.CompletionPercentage)
	assert.Equal(t, "in_progress", out.CourseProgress.Status)
	assert.Nil(t, out.CourseProgress.CompletedAt)
	assert.Equal(t, 50.0, out.ModuleProgress.CompletionPercentage)
	assert.Equal(t, 50.0, out.TrainingAreaProgress.CompletionPercentage)
	assert.Equal(t, 10, out.XPAwarded)
	assert.False(t, out.CourseCompleted)
}

func TestRecordUnitProgressAveragesEveryCourseOfTheModule(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()
	h := testutil.SeedHierarchy(t, e.db, 0)
	other := testutil.SeedCourse(t, e.db, h.Module.ID, "Refresher")
	learner := testutil.SeedLearner(t, e.db, "Grace Hopper")

	out, err := e.progress.RecordUnitProgress(ctx, learner.ID, h.CourseUnits[0].ID, 100)
	require.NoError(t, err)

	assert.Equal(t, 100.0, out.CourseProgress.CompletionPercentage)
	assert.Equal(t, 50.0, out.ModuleProgress.CompletionPercentage, "course %d has no progress and counts as 0", other.ID)
	assert.Equal(t, "in_progress", out.ModuleProgress.Status)
}

func TestRecordUnitProgressIsIdempotent(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()
	h := testutil.SeedHierarchy(t, e.db, 15)
	learner := testutil.SeedLearner(t, e.db, "Alan Turing")

	first, err := e.progress.RecordUnitProgress(ctx, learner.ID, h.CourseUnits[0].ID, 100)
	require.NoError(t, err)
	second, err := e.progress.RecordUnitProgress(ctx, learner.ID, h.CourseUnits[0].ID, 100)
	require.NoError(t, err)

	assert.Equal(t, first.CourseProgress.CompletionPercentage, second.CourseProgress.CompletionPercentage)
	assert.Equal(t, 15, first.XPAwarded)
	assert.Zero(t, second.XPAwarded)
	require.NotNil(t, second.UnitProgress.CompletedAt)
	assert.True(t, first.UnitProgress.CompletedAt.Equal(*second.UnitProgress.CompletedAt))

	var user model.User
	require.NoError(t, e.db.First(&user, learner.ID).Error)
	assert.Equal(t, 15, user.XP)

	var rows int64
	require.NoError(t, e.db.Model(&model.UserCourseUnitProgress{}).Where("user_id = ?", learner.ID).Count(&rows).Error)
	assert.EqualValues(t, 1, rows)
}

func TestCompletedAtSurvivesRegression(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()
	h := testutil.SeedHierarchy(t, e.db, 5)
	learner := testutil.SeedLearner(t, e.db, "Edsger Dijkstra")

	_, err := e.progress.RecordUnitProgress(ctx, learner.ID, h.CourseUnits[0].ID, 100)
	require.NoError(t, err)
	out, err := e.progress.RecordUnitProgress(ctx, learner.ID, h.CourseUnits[0].ID, 40)
	require.NoError(t, err)
	assert.Equal(t, "in_progress", out.UnitProgress.Status)
	assert.NotNil(t, out.UnitProgress.CompletedAt)

	out, err = e.progress.RecordUnitProgress(ctx, learner.ID, h.CourseUnits[0].ID, 100)
	require.NoError(t, err)
	assert.Zero(t, out.XPAwarded)
}

func TestCompleteCourseNotifiesOnce(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()
	h := testutil.SeedHierarchy(t, e.db, 10, 20, 30)
	learner := testutil.SeedLearner(t, e.db, "Barbara Liskov")

	out, err := e.progress.CompleteCourse(ctx, learner.ID, h.Course.ID)
	require.NoError(t, err)
	assert.Equal(t, 100.0, out.CourseProgress.CompletionPercentage)
	assert.Equal(t, "completed", out.CourseProgress.Status)
	assert.True(t, out.CourseCompleted)
	assert.Equal(t, "completed", out.TrainingAreaProgress.Status)

	_, err = e.progress.CompleteCourse(ctx, learner.ID, h.Course.ID)
	require.NoError(t, err)

	var notes []model.Notification
	require.NoError(t, e.db.Where("user_id = ? AND type = ?", learner.ID, model.NotificationCourseCompleted).Find(&notes).Error)
	assert.Len(t, notes, 1)

	var user model.User
	require.NoError(t, e.db.First(&user, learner.ID).Error)
	assert.Equal(t, 60, user.XP)
}

func TestCompleteCourseWithoutUnits(t *testing.T) {
	e := newEnv(t)
	h := testutil.SeedHierarchy(t, e.db)
	learner := testutil.SeedLearner(t, e.db, "Ken Thompson")

	_, err := e.progress.CompleteCourse(context.Background(), learner.ID, h.Course.ID)
	assert.True(t, apperr.IsValidation(err))
}

func TestRecordUnitProgressRejectsBadInput(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()
	h := testutil.SeedHierarchy(t, e.db, 1)
	learner := testutil.SeedLearner(t, e.db, "Donald Knuth")

	_, err := e.progress.RecordUnitProgress(ctx, learner.ID, h.CourseUnits[0].ID, 101)
	assert.True(t, apperr.IsValidation(err))
	_, err = e.progress.RecordUnitProgress(ctx, learner.ID, h.CourseUnits[0].ID, -1)
	assert.True(t, apperr.IsValidation(err))

	_, err = e.progress.RecordUnitProgress(ctx, learner.ID, 9999, 50)
	assert.True(t, apperr.IsNotFound(err))
	_, err = e.progress.RecordUnitProgress(ctx, 9999, h.CourseUnits[0].ID, 50)
	assert.True(t, apperr.IsNotFound(err))

	var rows int64
	require.NoError(t, e.db.Model(&model.UserCourseProgress{}).Count(&rows).Error)
	assert.Zero(t, rows)
}

func TestRecordUnitProgressEnrollsLearner(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()
	h := testutil.SeedHierarchy(t, e.db, 1)
	learner := testutil.SeedLearner(t, e.db, "Niklaus Wirth")

	_, err := e.progress.RecordUnitProgress(ctx, learner.ID, h.CourseUnits[0].ID, 30)
	require.NoError(t, err)

	enrollments, err := e.enrollments.ListByUser(ctx, learner.ID)
	require.NoError(t, err)
	require.Len(t, enrollments, 1)
	assert.Equal(t, h.Course.ID, enrollments[0].CourseID)
	assert.Equal(t, "self", enrollments[0].Source)
}

func TestCompleteLearningBlock(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()
	h := testutil.SeedHierarchy(t, e.db, 0, 0)
	blocks := testutil.SeedBlocks(t, e.db, h.Units[0].ID, 4)
	foreign := testutil.SeedBlocks(t, e.db, h.Units[1].ID, 1)
	learner := testutil.SeedLearner(t, e.db, "Frances Allen")

	out, err := e.progress.CompleteLearningBlock(ctx, learner.ID, h.CourseUnits[0].ID, blocks[0].ID)
	require.NoError(t, err)
	assert.Equal(t, 25.0, out.UnitProgress.CompletionPercentage)

	out, err = e.progress.CompleteLearningBlock(ctx, learner.ID, h.CourseUnits[0].ID, blocks[0].ID)
	require.NoError(t, err)
	assert.Equal(t, 25.0, out.UnitProgress.CompletionPercentage)

	out, err = e.progress.CompleteLearningBlock(ctx, learner.ID, h.CourseUnits[0].ID, blocks[1].ID)
	require.NoError(t, err)
	assert.Equal(t, 50.0, out.UnitProgress.CompletionPercentage)
	assert.Equal(t, 25.0, out.CourseProgress.CompletionPercentage)

	_, err = e.progress.CompleteLearningBlock(ctx, learner.ID, h.CourseUnits[0].ID, foreign[0].ID)
	assert.True(t, apperr.IsValidation(err))
}

func TestGetCourseProgressListsEveryUnit(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()
	h := testutil.SeedHierarchy(t, e.db, 0, 0)
	learner := testutil.SeedLearner(t, e.db, "John Backus")

	_, err := e.progress.RecordUnitProgress(ctx, learner.ID, h.CourseUnits[1].ID, 60)
	require.NoError(t, err)

	resp, err := e.progress.GetCourseProgress(ctx, learner.ID, h.Course.ID)
	require.NoError(t, err)
	require.Len(t, resp.Units, 2)
	assert.Equal(t, "not_started", resp.Units[0].Status)
	assert.Equal(t, "Unit 1", resp.Units[0].Name)
	assert.Equal(t, 60.0, resp.Units[1].CompletionPercentage)
	assert.Equal(t, 30.0, resp.CompletionPercentage)

	overview, err := e.progress.GetLearnerOverview(ctx, learner.ID)
	require.NoError(t, err)
	require.Len(t, overview.Courses, 1)
	assert.Equal(t, 30.0, overview.Courses[0].CompletionPercentage)
	require.Len(t, overview.TrainingAreas, 1)
}

func TestMeanWithMissing(t *testing.T) {
	assert.Equal(t, 0.0, meanWithMissing(nil, 0))
	assert.Equal(t, 0.0, meanWithMissing(nil, 3))
	assert.Equal(t, 50.0, meanWithMissing([]float64{100}, 2))
	assert.Equal(t, 75.0, meanWithMissing([]float64{100, 50}, 2))
}

func TestCourseWithHalfItsUnitsCompleteIsHalfway(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()
	h := testutil.SeedHierarchy(t, e.db, 0, 0, 0, 0)
	learner := testutil.SeedLearner(t, e.db, "Lynn Conway")

	_, err := e.progress.CompleteCourseUnit(ctx, learner.ID, h.CourseUnits[0].ID)
	require.NoError(t, err)
	out, err := e.progress.CompleteCourseUnit(ctx, learner.ID, h.CourseUnits[2].ID)
	require.NoError(t, err)

	assert.Equal(t, 50.0, out.CourseProgress.CompletionPercentage)
	assert.Equal(t, "in_progress", out.CourseProgress.Status)
	assert.Equal(t, 50.0, out.ModuleProgress.CompletionPercentage)
	assert.Equal(t, 50.0, out.TrainingAreaProgress.CompletionPercentage)
}

func TestCompletingUnitsNeverLowersAncestors(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()
	h := testutil.SeedHierarchy(t, e.db, 0, 0, 0)
	second := testutil.SeedCourse(t, e.db, h.Module.ID, "Follow-up")
	var placements []model.CourseUnit
	for i := 0; i < 2; i++ {
		u := model.Unit{Name: fmt.Sprintf("Follow-up %d", i+1)}
		require.NoError(t, e.db.Create(&u).Error)
		cu := model.CourseUnit{CourseID: second.ID, UnitID: u.ID, Order: i + 1}
		require.NoError(t, e.db.Create(&cu).Error)
		placements = append(placements, cu)
	}
	learner := testutil.SeedLearner(t, e.db, "Hedy Lamarr")

	// interleave the two courses
	order := []uint{
		h.CourseUnits[0].ID, placements[0].ID, h.CourseUnits[1].ID,
		placements[1].ID, h.CourseUnits[2].ID,
	}
	var prevCourses [2]float64
	var prevModule, prevArea float64
	for i, cuID := range order {
		_, err := e.progress.CompleteCourseUnit(ctx, learner.ID, cuID)
		require.NoError(t, err)

		stored := progressOf(t, e, learner.ID)
		courses := [2]float64{
			stored.courses[h.Course.ID].CompletionPercentage,
			stored.courses[second.ID].CompletionPercentage,
		}
		for c := range courses {
			assert.GreaterOrEqual(t, courses[c], prevCourses[c], "step %d course %d", i, c)
		}
		module := stored.modules[h.Module.ID].CompletionPercentage
		area := stored.areas[h.Area.ID].CompletionPercentage
		assert.GreaterOrEqual(t, module, prevModule, "step %d module", i)
		assert.GreaterOrEqual(t, area, prevArea, "step %d area", i)
		prevCourses, prevModule, prevArea = courses, module, area
	}
	assert.Equal(t, 100.0, prevModule)
	assert.Equal(t, 100.0, prevArea)
}

func TestConcurrentEventsOfOneLearnerKeepEveryUnit(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()
	h := testutil.SeedHierarchy(t, e.db, 0, 0, 0, 0)
	learner := testutil.SeedLearner(t, e.db, "Evelyn Berezin")

	var wg sync.WaitGroup
	errs := make(chan error, len(h.CourseUnits))
	for _, cu := range h.CourseUnits {
		wg.Add(1)
		go func(id uint) {
			defer wg.Done()
			_, err := e.progress.CompleteCourseUnit(ctx, learner.ID, id)
			errs <- err
		}(cu.ID)
	}
	wg.Wait()
	close(errs)
	for err := range errs {
		require.NoError(t, err)
	}

	resp, err := e.progress.GetCourseProgress(ctx, learner.ID, h.Course.ID)
	require.NoError(t, err)
	assert.Equal(t, 100.0, resp.CompletionPercentage)
	assert.Equal(t, "completed", resp.Status)
}

func TestRollupRetriesInfrastructureFailuresOnly(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()
	s := e.progress.(*progressService)
	s.retries = 2

	calls := 0
	err := s.inTx(ctx, func(*gorm.DB) error {
		calls++
		if calls < 3 {
			return errors.New("could not serialize access due to concurrent update")
		}
		return nil
	})
	require.NoError(t, err)
	assert.Equal(t, 3, calls)

	calls = 0
	err = s.inTx(ctx, func(*gorm.DB) error {
		calls++
		return apperr.NotFound("course unit", 7)
	})
	assert.True(t, apperr.IsNotFound(err))
	assert.Equal(t, 1, calls)
}

func TestDuplicateProgressRowIsRetried(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()
	h := testutil.SeedHierarchy(t, e.db, 0)
	learner := testutil.SeedLearner(t, e.db, "Kathleen Booth")
	repo := repository.NewProgressRepository(e.db)

	row := func() *model.UserCourseProgress {
		return &model.UserCourseProgress{UserID: learner.ID, CourseID: h.Course.ID, Status: model.StatusNotStarted}
	}
	require.NoError(t, repo.Save(ctx, row()))
	err := repo.Save(ctx, row())
	require.Error(t, err)
	assert.False(t, isClientError(err), "a racing first write must stay retryable")
}

func TestRollupOfMissingLearnerIsNotFound(t *testing.T) {
	e := newEnv(t)
	h := testutil.SeedHierarchy(t, e.db, 0)

	_, err := e.progress.CompleteCourse(context.Background(), 4242, h.Course.ID)
	assert.True(t, apperr.IsNotFound(err))
}
