package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vxacademy/academy/internal/dto"
	"github.com/vxacademy/academy/internal/model"
	"github.com/vxacademy/academy/internal/testutil"
)

type storedProgress struct {
	areas, modules, courses map[uint]dto.ProgressEntry
}

func progressOf(t *testing.T, e *env, userID uint) storedProgress {
	t.Helper()
	overview, err := e.progress.GetLearnerOverview(context.Background(), userID)
	require.NoError(t, err)
	byID := func(entries []dto.ProgressEntry) map[uint]dto.ProgressEntry {
		out := make(map[uint]dto.ProgressEntry, len(entries))
		for _, en := range entries {
			out[en.EntityID] = en
		}
		return out
	}
	return storedProgress{
		areas:   byID(overview.TrainingAreas),
		modules: byID(overview.Modules),
		courses: byID(overview.Courses),
	}
}

func TestAttachAndDetachRecomputeCourseProgress(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()
	h := testutil.SeedHierarchy(t, e.db, 10, 20)
	learner := testutil.SeedLearner(t, e.db, "Margaret Hamilton")

	_, err := e.progress.CompleteCourse(ctx, learner.ID, h.Course.ID)
	require.NoError(t, err)

	unit, err := e.content.CreateUnit(ctx, dto.CreateUnitRequest{Name: "Unit 3"})
	require.NoError(t, err)
	_, err = e.content.AttachUnit(ctx, h.Course.ID, dto.AttachUnitRequest{UnitID: unit.ID})
	require.NoError(t, err)

	resp, err := e.progress.GetCourseProgress(ctx, learner.ID, h.Course.ID)
	require.NoError(t, err)
	require.Len(t, resp.Units, 3)
	assert.InDelta(t, 200.0/3, resp.CompletionPercentage, 0.001)
	assert.Equal(t, "in_progress", resp.Status)
	assert.NotNil(t, resp.CompletedAt, "first completion time is kept")

	stored := progressOf(t, e, learner.ID)
	assert.InDelta(t, 200.0/3, stored.modules[h.Module.ID].CompletionPercentage, 0.001)
	assert.InDelta(t, 200.0/3, stored.areas[h.Area.ID].CompletionPercentage, 0.001)

	_, err = e.content.DetachUnit(ctx, h.CourseUnits[0].ID)
	require.NoError(t, err)

	resp, err = e.progress.GetCourseProgress(ctx, learner.ID, h.Course.ID)
	require.NoError(t, err)
	require.Len(t, resp.Units, 2)
	assert.Equal(t, 50.0, resp.CompletionPercentage)
	assert.Equal(t, "in_progress", resp.Status)
	assert.Equal(t, 50.0, progressOf(t, e, learner.ID).areas[h.Area.ID].CompletionPercentage)
}

func TestAttachLeavesLearnersWithoutProgressAlone(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()
	h := testutil.SeedHierarchy(t, e.db, 0)
	learner := testutil.SeedLearner(t, e.db, "Adele Goldberg")

	unit, err := e.content.CreateUnit(ctx, dto.CreateUnitRequest{Name: "Extra"})
	require.NoError(t, err)
	_, err = e.content.AttachUnit(ctx, h.Course.ID, dto.AttachUnitRequest{UnitID: unit.ID})
	require.NoError(t, err)

	var rows int64
	require.NoError(t, e.db.Model(&model.UserCourseProgress{}).Where("user_id = ?", learner.ID).Count(&rows).Error)
	assert.Zero(t, rows)
}

func TestDeleteUnitRecomputesPlacingCourses(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()
	h := testutil.SeedHierarchy(t, e.db, 5, 5)
	learner := testutil.SeedLearner(t, e.db, "Radia Perlman")

	out, err := e.progress.CompleteCourseUnit(ctx, learner.ID, h.CourseUnits[0].ID)
	require.NoError(t, err)
	require.Equal(t, 50.0, out.CourseProgress.CompletionPercentage)

	require.NoError(t, e.content.DeleteUnit(ctx, h.Units[1].ID))

	stored := progressOf(t, e, learner.ID)
	course := stored.courses[h.Course.ID]
	assert.Equal(t, 100.0, course.CompletionPercentage)
	assert.Equal(t, "completed", course.Status)
	assert.NotNil(t, course.CompletedAt)
	assert.Equal(t, 100.0, stored.modules[h.Module.ID].CompletionPercentage)
	assert.Equal(t, 100.0, stored.areas[h.Area.ID].CompletionPercentage)

	var notes int64
	require.NoError(t, e.db.Model(&model.Notification{}).
		Where("user_id = ? AND type = ?", learner.ID, model.NotificationCourseCompleted).Count(&notes).Error)
	assert.EqualValues(t, 1, notes)
}

func TestCourseCreationAndDeletionRecomputeModule(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()
	h := testutil.SeedHierarchy(t, e.db, 0)
	learner := testutil.SeedLearner(t, e.db, "Jean Sammet")

	_, err := e.progress.CompleteCourse(ctx, learner.ID, h.Course.ID)
	require.NoError(t, err)

	extra, err := e.content.CreateCourse(ctx, dto.CreateCourseRequest{ModuleID: h.Module.ID, Name: "Advanced"})
	require.NoError(t, err)
	stored := progressOf(t, e, learner.ID)
	assert.Equal(t, 50.0, stored.modules[h.Module.ID].CompletionPercentage)
	assert.Equal(t, "in_progress", stored.modules[h.Module.ID].Status)
	assert.Equal(t, 50.0, stored.areas[h.Area.ID].CompletionPercentage)

	require.NoError(t, e.content.DeleteCourse(ctx, extra.ID))
	stored = progressOf(t, e, learner.ID)
	assert.Equal(t, 100.0, stored.modules[h.Module.ID].CompletionPercentage)
	assert.Equal(t, "completed", stored.modules[h.Module.ID].Status)
	assert.Equal(t, 100.0, stored.areas[h.Area.ID].CompletionPercentage)
}

func TestModuleCreationAndDeletionRecomputeArea(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()
	h := testutil.SeedHierarchy(t, e.db, 0)
	learner := testutil.SeedLearner(t, e.db, "Mary Allen Wilkes")

	_, err := e.progress.CompleteCourse(ctx, learner.ID, h.Course.ID)
	require.NoError(t, err)

	module, err := e.content.CreateModule(ctx, dto.CreateModuleRequest{TrainingAreaID: h.Area.ID, Name: "Night shifts"})
	require.NoError(t, err)
	assert.Equal(t, 50.0, progressOf(t, e, learner.ID).areas[h.Area.ID].CompletionPercentage)

	require.NoError(t, e.content.DeleteModule(ctx, module.ID))
	assert.Equal(t, 100.0, progressOf(t, e, learner.ID).areas[h.Area.ID].CompletionPercentage)
}

func TestReparentingMovesProgressBetweenParents(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()
	h := testutil.SeedHierarchy(t, e.db, 0)
	learner := testutil.SeedLearner(t, e.db, "Sophie Wilson")

	_, err := e.progress.CompleteCourse(ctx, learner.ID, h.Course.ID)
	require.NoError(t, err)

	target, err := e.content.CreateModule(ctx, dto.CreateModuleRequest{TrainingAreaID: h.Area.ID, Name: "Target"})
	require.NoError(t, err)
	_, err = e.content.UpdateCourse(ctx, h.Course.ID, dto.UpdateCourseRequest{ModuleID: uptr(target.ID)})
	require.NoError(t, err)

	stored := progressOf(t, e, learner.ID)
	assert.Equal(t, 0.0, stored.modules[h.Module.ID].CompletionPercentage)
	assert.Equal(t, "not_started", stored.modules[h.Module.ID].Status)
	assert.Equal(t, 100.0, stored.modules[target.ID].CompletionPercentage)
	assert.Equal(t, 50.0, stored.areas[h.Area.ID].CompletionPercentage)

	area, err := e.content.CreateTrainingArea(ctx, dto.CreateTrainingAreaRequest{Name: "Logistics"})
	require.NoError(t, err)
	_, err = e.content.UpdateModule(ctx, target.ID, dto.UpdateModuleRequest{TrainingAreaID: uptr(area.ID)})
	require.NoError(t, err)

	stored = progressOf(t, e, learner.ID)
	assert.Equal(t, 0.0, stored.areas[h.Area.ID].CompletionPercentage)
	assert.Equal(t, 100.0, stored.areas[area.ID].CompletionPercentage)
	assert.Equal(t, "completed", stored.areas[area.ID].Status)
}
