package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vxacademy/academy/internal/apperr"
	"github.com/vxacademy/academy/internal/dto"
	"github.com/vxacademy/academy/internal/model"
	"github.com/vxacademy/academy/internal/repository"
	"github.com/vxacademy/academy/internal/testutil"
)

func TestDeleteTrainingAreaRemovesSubtree(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()
	h := testutil.SeedHierarchy(t, e.db, 10, 10)
	learner := testutil.SeedLearner(t, e.db, "Edsger Dijkstra")
	testutil.SeedBlocks(t, e.db, h.Units[0].ID, 2)
	_, err := e.progress.CompleteCourseUnit(ctx, learner.ID, h.CourseUnits[0].ID)
	require.NoError(t, err)
	createQuiz(t, e, quiz{owner: dto.AssessmentOwnerDTO{Type: "module", ID: h.Module.ID}, passing: 50, retakes: 1, questions: 2})

	require.NoError(t, e.content.DeleteTrainingArea(ctx, h.Area.ID))

	_, err = e.content.GetModule(ctx, h.Module.ID)
	assert.True(t, apperr.IsNotFound(err))
	_, err = e.content.GetCourse(ctx, h.Course.ID)
	assert.True(t, apperr.IsNotFound(err))

	for _, m := range []interface{}{
		&model.CourseUnit{}, &model.Assessment{}, &model.Question{},
		&model.UserCourseUnitProgress{}, &model.UserCourseProgress{},
		&model.UserModuleProgress{}, &model.UserTrainingAreaProgress{},
	} {
		var n int64
		require.NoError(t, e.db.Model(m).Count(&n).Error)
		assert.Zero(t, n, "%T rows left behind", m)
	}

	// units are shared library content and outlive the course
	unit, err := e.content.GetUnit(ctx, h.Units[0].ID)
	require.NoError(t, err)
	assert.Len(t, unit.LearningBlocks, 2)

	assert.True(t, apperr.IsNotFound(e.content.DeleteTrainingArea(ctx, h.Area.ID)))
}

func TestCreateModuleRequiresTrainingArea(t *testing.T) {
	e := newEnv(t)
	_, err := e.content.CreateModule(context.Background(), dto.CreateModuleRequest{TrainingAreaID: 99, Name: "Orphan"})
	assert.True(t, apperr.IsNotFound(err))
}

func TestListCoursesFilters(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()
	h := testutil.SeedHierarchy(t, e.db)
	other, err := e.content.CreateModule(ctx, dto.CreateModuleRequest{TrainingAreaID: h.Area.ID, Name: "Confined spaces"})
	require.NoError(t, err)
	_, err = e.content.CreateCourse(ctx, dto.CreateCourseRequest{ModuleID: other.ID, Name: "Gas testing"})
	require.NoError(t, err)

	all, err := e.content.ListCourses(ctx, repository.CourseFilter{TrainingAreaID: &h.Area.ID})
	require.NoError(t, err)
	assert.Len(t, all, 2)

	one, err := e.content.ListCourses(ctx, repository.CourseFilter{ModuleID: &other.ID})
	require.NoError(t, err)
	require.Len(t, one, 1)
	assert.Equal(t, "Gas testing", one[0].Name)
	assert.Equal(t, "beginner", one[0].Level)
}

func TestListUnitsFollowsHierarchy(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()
	h := testutil.SeedHierarchy(t, e.db, 0, 0)
	other := testutil.SeedHierarchy(t, e.db, 0)
	_, err := e.content.CreateUnit(ctx, dto.CreateUnitRequest{Name: "Loose"})
	require.NoError(t, err)
	// shared with the first tree, must not repeat
	_, err = e.content.AttachUnit(ctx, other.Course.ID, dto.AttachUnitRequest{UnitID: h.Units[0].ID})
	require.NoError(t, err)

	byArea, err := e.content.ListUnits(ctx, repository.UnitFilter{TrainingAreaID: &h.Area.ID})
	require.NoError(t, err)
	assert.Len(t, byArea, 2)

	byModule, err := e.content.ListUnits(ctx, repository.UnitFilter{ModuleID: &other.Module.ID})
	require.NoError(t, err)
	assert.Len(t, byModule, 2)

	byCourse, err := e.content.ListUnits(ctx, repository.UnitFilter{ModuleID: &h.Module.ID, CourseID: &other.Course.ID})
	require.NoError(t, err)
	assert.Len(t, byCourse, 2, "course is the most specific level")

	all, err := e.content.ListUnits(ctx, repository.UnitFilter{})
	require.NoError(t, err)
	assert.Len(t, all, 4)
}

func TestCourseUnitOrderStaysContiguous(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()
	h := testutil.SeedHierarchy(t, e.db, 0, 0, 0)

	extra, err := e.content.CreateUnit(ctx, dto.CreateUnitRequest{Name: "Unit 4"})
	require.NoError(t, err)
	list, err := e.content.AttachUnit(ctx, h.Course.ID, dto.AttachUnitRequest{UnitID: extra.ID, Order: 1})
	require.NoError(t, err)
	require.Len(t, list, 4)
	assert.Equal(t, extra.ID, list[0].UnitID)
	assertContiguous(t, list)

	_, err = e.content.AttachUnit(ctx, h.Course.ID, dto.AttachUnitRequest{UnitID: extra.ID})
	assert.True(t, apperr.IsConflict(err))
	_, err = e.content.AttachUnit(ctx, h.Course.ID, dto.AttachUnitRequest{UnitID: 404})
	assert.True(t, apperr.IsNotFound(err))

	list, err = e.content.ReorderCourseUnit(ctx, h.CourseUnits[0].ID, 4)
	require.NoError(t, err)
	assert.Equal(t, h.Units[0].ID, list[3].UnitID)
	assertContiguous(t, list)

	_, err = e.content.ReorderCourseUnit(ctx, h.CourseUnits[0].ID, 5)
	assert.True(t, apperr.IsValidation(err))

	list, err = e.content.DetachUnit(ctx, h.CourseUnits[1].ID)
	require.NoError(t, err)
	require.Len(t, list, 3)
	assertContiguous(t, list)
}

func assertContiguous(t *testing.T, list []dto.CourseUnitResponse) {
	t.Helper()
	for i, cu := range list {
		assert.Equal(t, i+1, cu.Order, "course unit %d", cu.ID)
	}
}

func TestLearningBlockOrdering(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()
	h := testutil.SeedHierarchy(t, e.db, 0)
	seeded := testutil.SeedBlocks(t, e.db, h.Units[0].ID, 2)

	blocks, err := e.content.CreateLearningBlock(ctx, h.Units[0].ID, dto.CreateLearningBlockRequest{Type: "video", Title: "Intro", Order: 1})
	require.NoError(t, err)
	require.Len(t, blocks, 3)
	assert.Equal(t, "Intro", blocks[0].Title)
	assert.Equal(t, []int{1, 2, 3}, blockOrders(blocks))

	_, err = e.content.CreateLearningBlock(ctx, h.Units[0].ID, dto.CreateLearningBlockRequest{Type: "text", Order: 9})
	assert.True(t, apperr.IsValidation(err))

	blocks, err = e.content.ReorderLearningBlock(ctx, seeded[1].ID, 1)
	require.NoError(t, err)
	assert.Equal(t, seeded[1].ID, blocks[0].ID)

	blocks, err = e.content.DeleteLearningBlock(ctx, seeded[0].ID)
	require.NoError(t, err)
	assert.Equal(t, []int{1, 2}, blockOrders(blocks))
}

func blockOrders(blocks []dto.LearningBlockResponse) []int {
	out := make([]int, 0, len(blocks))
	for _, b := range blocks {
		out = append(out, b.Order)
	}
	return out
}
