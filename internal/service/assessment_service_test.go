package service

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vxacademy/academy/internal/apperr"
	"github.com/vxacademy/academy/internal/dto"
	"github.com/vxacademy/academy/internal/model"
	"github.com/vxacademy/academy/internal/testutil"
)

type quiz struct {
	owner     dto.AssessmentOwnerDTO
	passing   int
	retakes   int
	xp        int
	questions int
}

func createQuiz(t *testing.T, e *env, q quiz) *dto.AssessmentResponse {
	t.Helper()
	req := dto.CreateAssessmentRequest{
		Owner:        q.owner,
		Title:        "Checkpoint",
		PassingScore: q.passing,
		MaxRetakes:   q.retakes,
		XPReward:     q.xp,
	}
	for i := 0; i < q.questions; i++ {
		req.Questions = append(req.Questions, dto.CreateQuestionRequest{
			Text:          fmt.Sprintf("Question %d", i+1),
			Type:          "mcq",
			Options:       []string{"A", "B", "C"},
			CorrectAnswer: "A",
		})
	}
	resp, err := e.assessments.CreateAssessment(context.Background(), req)
	require.NoError(t, err)
	require.Len(t, resp.Questions, q.questions)
	return resp
}

// answers marks the first correct questions right and the rest wrong.
func answers(a *dto.AssessmentResponse, correct int) map[uint]string {
	out := make(map[uint]string, len(a.Questions))
	for i, q := range a.Questions {
		if i < correct {
			out[q.ID] = "A"
		} else {
			out[q.ID] = "B"
		}
	}
	return out
}

func TestSubmitScoresAgainstPassingScore(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()
	h := testutil.SeedHierarchy(t, e.db, 0)
	learner := testutil.SeedLearner(t, e.db, "Ada Lovelace")
	a := createQuiz(t, e, quiz{owner: dto.AssessmentOwnerDTO{Type: "training_area", ID: h.Area.ID}, passing: 70, retakes: 5, questions: 5})

	pass, err := e.assessments.Submit(ctx, a.ID, dto.SubmitAssessmentRequest{UserID: learner.ID, Answers: answers(a, 4)})
	require.NoError(t, err)
	assert.Equal(t, 80, pass.Score)
	assert.True(t, pass.Passed)
	assert.Equal(t, 4, pass.CorrectCount)
	assert.Equal(t, 5, pass.TotalQuestions)
	assert.Equal(t, 0, pass.SelectedIndexes[a.Questions[0].ID])
	assert.Equal(t, 1, pass.SelectedIndexes[a.Questions[4].ID])

	fail, err := e.assessments.Submit(ctx, a.ID, dto.SubmitAssessmentRequest{UserID: learner.ID, Answers: answers(a, 3)})
	require.NoError(t, err)
	assert.Equal(t, 60, fail.Score)
	assert.False(t, fail.Passed)
	assert.EqualValues(t, 2, fail.AttemptsUsed)
	assert.EqualValues(t, 3, fail.AttemptsLeft)
}

func TestSubmitUnansweredQuestionsAreWrong(t *testing.T) {
	e := newEnv(t)
	h := testutil.SeedHierarchy(t, e.db, 0)
	learner := testutil.SeedLearner(t, e.db, "Grace Hopper")
	a := createQuiz(t, e, quiz{owner: dto.AssessmentOwnerDTO{Type: "module", ID: h.Module.ID}, passing: 50, retakes: 1, questions: 4})

	got, err := e.assessments.Submit(context.Background(), a.ID, dto.SubmitAssessmentRequest{
		UserID:  learner.ID,
		Answers: map[uint]string{a.Questions[0].ID: "A", 987654: "A"},
	})
	require.NoError(t, err)
	assert.Equal(t, 25, got.Score)
	assert.False(t, got.Passed)
	assert.Equal(t, -1, got.SelectedIndexes[a.Questions[1].ID])
}

func TestSubmitEnforcesRetakeLimit(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()
	h := testutil.SeedHierarchy(t, e.db, 0)
	learner := testutil.SeedLearner(t, e.db, "Alan Turing")
	a := createQuiz(t, e, quiz{owner: dto.AssessmentOwnerDTO{Type: "training_area", ID: h.Area.ID}, passing: 100, retakes: 2, questions: 2})

	for i := 0; i < 2; i++ {
		_, err := e.assessments.Submit(ctx, a.ID, dto.SubmitAssessmentRequest{UserID: learner.ID, Answers: answers(a, 0)})
		require.NoError(t, err)
	}
	_, err := e.assessments.Submit(ctx, a.ID, dto.SubmitAssessmentRequest{UserID: learner.ID, Answers: answers(a, 2)})
	assert.True(t, apperr.IsAttemptLimitExceeded(err))

	attempts, err := e.assessments.ListAttempts(ctx, a.ID, &learner.ID)
	require.NoError(t, err)
	assert.Len(t, attempts, 2)
	for _, at := range attempts {
		assert.Zero(t, at.AttemptsLeft)
	}
}

func TestSubmitAwardsXPOnFirstPassOnly(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()
	h := testutil.SeedHierarchy(t, e.db, 0)
	learner := testutil.SeedLearner(t, e.db, "Barbara Liskov")
	a := createQuiz(t, e, quiz{owner: dto.AssessmentOwnerDTO{Type: "training_area", ID: h.Area.ID}, passing: 50, retakes: 3, xp: 40, questions: 2})

	first, err := e.assessments.Submit(ctx, a.ID, dto.SubmitAssessmentRequest{UserID: learner.ID, Answers: answers(a, 2)})
	require.NoError(t, err)
	assert.Equal(t, 40, first.XPAwarded)
	second, err := e.assessments.Submit(ctx, a.ID, dto.SubmitAssessmentRequest{UserID: learner.ID, Answers: answers(a, 2)})
	require.NoError(t, err)
	assert.Zero(t, second.XPAwarded)

	var user model.User
	require.NoError(t, e.db.First(&user, learner.ID).Error)
	assert.Equal(t, 40, user.XP)
}

func TestSubmitRejectsEmptyAssessment(t *testing.T) {
	e := newEnv(t)
	h := testutil.SeedHierarchy(t, e.db, 0)
	learner := testutil.SeedLearner(t, e.db, "Ken Thompson")
	a := createQuiz(t, e, quiz{owner: dto.AssessmentOwnerDTO{Type: "course", ID: h.Course.ID}, passing: 50, retakes: 1})

	_, err := e.assessments.Submit(context.Background(), a.ID, dto.SubmitAssessmentRequest{UserID: learner.ID, Answers: map[uint]string{}})
	assert.True(t, apperr.IsValidation(err))

	_, err = e.assessments.Submit(context.Background(), 4242, dto.SubmitAssessmentRequest{UserID: learner.ID})
	assert.True(t, apperr.IsNotFound(err))
}

func TestPassingCourseAssessmentCompletesCourseAndIssuesCertificate(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()
	h := testutil.SeedHierarchy(t, e.db, 10, 10)
	learner := testutil.SeedLearner(t, e.db, "Frances Allen")
	a := createQuiz(t, e, quiz{owner: dto.AssessmentOwnerDTO{Type: "course", ID: h.Course.ID}, passing: 50, retakes: 2, questions: 2})

	got, err := e.assessments.Submit(ctx, a.ID, dto.SubmitAssessmentRequest{UserID: learner.ID, Answers: answers(a, 2)})
	require.NoError(t, err)
	require.NotNil(t, got.Certificate)
	assert.True(t, strings.HasPrefix(got.Certificate.CertificateNumber, "VXA-"))
	assert.Equal(t, "active", got.Certificate.Status)

	progress, err := e.progress.GetCourseProgress(ctx, learner.ID, h.Course.ID)
	require.NoError(t, err)
	assert.Equal(t, "completed", progress.Status)
	assert.Len(t, e.mail.Sent(), 1)
}

func TestPassingUnitAssessmentCompletesCourseUnit(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()
	h := testutil.SeedHierarchy(t, e.db, 0, 0)
	learner := testutil.SeedLearner(t, e.db, "John Backus")
	a := createQuiz(t, e, quiz{owner: dto.AssessmentOwnerDTO{Type: "unit", ID: h.Units[0].ID}, passing: 50, retakes: 3, questions: 1})

	_, err := e.assessments.Submit(ctx, a.ID, dto.SubmitAssessmentRequest{
		UserID: learner.ID, CourseUnitID: &h.CourseUnits[1].ID, Answers: answers(a, 1),
	})
	assert.True(t, apperr.IsValidation(err), "course unit 2 places another unit")

	got, err := e.assessments.Submit(ctx, a.ID, dto.SubmitAssessmentRequest{
		UserID: learner.ID, CourseUnitID: &h.CourseUnits[0].ID, Answers: answers(a, 1),
	})
	require.NoError(t, err)
	assert.True(t, got.Passed)
	assert.Nil(t, got.Certificate)

	progress, err := e.progress.GetCourseProgress(ctx, learner.ID, h.Course.ID)
	require.NoError(t, err)
	assert.Equal(t, "completed", progress.Units[0].Status)
	assert.Equal(t, 50.0, progress.CompletionPercentage)
}

func TestCreateAssessmentChecksOwner(t *testing.T) {
	e := newEnv(t)
	_, err := e.assessments.CreateAssessment(context.Background(), dto.CreateAssessmentRequest{
		Owner: dto.AssessmentOwnerDTO{Type: "course", ID: 77}, Title: "Orphan", MaxRetakes: 1,
	})
	assert.True(t, apperr.IsNotFound(err))

	_, err = e.assessments.CreateAssessment(context.Background(), dto.CreateAssessmentRequest{
		Owner: dto.AssessmentOwnerDTO{Type: "lesson", ID: 1}, Title: "Unknown", MaxRetakes: 1,
	})
	assert.True(t, apperr.IsValidation(err))
}

func TestQuestionValidation(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()
	h := testutil.SeedHierarchy(t, e.db, 0)
	a := createQuiz(t, e, quiz{owner: dto.AssessmentOwnerDTO{Type: "training_area", ID: h.Area.ID}, passing: 50, retakes: 1})

	_, err := e.assessments.CreateQuestion(ctx, a.ID, dto.CreateQuestionRequest{
		Text: "Pick one", Type: "mcq", Options: []string{"A", "B"}, CorrectAnswer: "C",
	})
	assert.True(t, apperr.IsValidation(err))

	_, err = e.assessments.CreateQuestion(ctx, a.ID, dto.CreateQuestionRequest{
		Text: "Pick one", Type: "mcq", Options: []string{"A"}, CorrectAnswer: "A",
	})
	assert.True(t, apperr.IsValidation(err))

	_, err = e.assessments.CreateQuestion(ctx, a.ID, dto.CreateQuestionRequest{
		Text: "Pick one", Type: "mcq", Options: []string{"A", "A"}, CorrectAnswer: "A",
	})
	assert.True(t, apperr.IsValidation(err))

	tf, err := e.assessments.CreateQuestion(ctx, a.ID, dto.CreateQuestionRequest{
		Text: "Helmets are optional", Type: "true_false", CorrectAnswer: "False",
	})
	require.NoError(t, err)
	assert.Equal(t, []string{"True", "False"}, tf.Options)
	assert.Equal(t, 1, tf.Order)

	mcq, err := e.assessments.CreateQuestion(ctx, a.ID, dto.CreateQuestionRequest{
		Text: "Pick one", Type: "mcq", Options: []string{"A", "B"}, CorrectAnswer: "B",
	})
	require.NoError(t, err)
	assert.Equal(t, 2, mcq.Order)

	bad := "Z"
	_, err = e.assessments.UpdateQuestion(ctx, mcq.ID, dto.UpdateQuestionRequest{CorrectAnswer: &bad})
	assert.True(t, apperr.IsValidation(err))

	learnerView, err := e.assessments.GetAssessment(ctx, a.ID, false)
	require.NoError(t, err)
	require.Len(t, learnerView.Questions, 2)
	for _, q := range learnerView.Questions {
		assert.Empty(t, q.CorrectAnswer)
	}
}

func TestGradeAnswers(t *testing.T) {
	questions := []model.Question{
		{ID: 1, Options: []string{"x", "y"}, CorrectAnswer: "y"},
		{ID: 2, Options: []string{"x", "y"}, CorrectAnswer: "x"},
		{ID: 3, Options: []string{"x", "y"}, CorrectAnswer: "x"},
	}
	res := gradeAnswers(questions, map[uint]string{1: "y", 2: "X"}, 30)
	assert.Equal(t, 1, res.Correct)
	assert.Equal(t, 33, res.Score)
	assert.True(t, res.Passed)
	assert.Equal(t, map[uint]int{1: 1, 2: -1, 3: -1}, res.Selected)

	assert.Equal(t, 67, scorePercent(2, 3))
	assert.Equal(t, 0, scorePercent(0, 0))
}

func TestConcurrentSubmitsRespectRetakeLimit(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()
	h := testutil.SeedHierarchy(t, e.db, 0)
	learner := testutil.SeedLearner(t, e.db, "Ida Rhodes")
	a := createQuiz(t, e, quiz{owner: dto.AssessmentOwnerDTO{Type: "training_area", ID: h.Area.ID}, passing: 100, retakes: 2, questions: 2})

	var wg sync.WaitGroup
	errs := make(chan error, 5)
	for i := 0; i < 5; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := e.assessments.Submit(ctx, a.ID, dto.SubmitAssessmentRequest{UserID: learner.ID, Answers: answers(a, 0)})
			errs <- err
		}()
	}
	wg.Wait()
	close(errs)

	var accepted, limited int
	for err := range errs {
		switch {
		case err == nil:
			accepted++
		case apperr.IsAttemptLimitExceeded(err):
			limited++
		default:
			t.Errorf("unexpected error: %v", err)
		}
	}
	assert.Equal(t, 2, accepted)
	assert.Equal(t, 3, limited)

	var stored int64
	require.NoError(t, e.db.Model(&model.AssessmentAttempt{}).Where("user_id = ?", learner.ID).Count(&stored).Error)
	assert.EqualValues(t, 2, stored)
}
