package user

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vxacademy/academy/internal/apperr"
	"github.com/vxacademy/academy/internal/controller"
	"github.com/vxacademy/academy/internal/dto"
	"github.com/vxacademy/academy/internal/mailer"
	"github.com/vxacademy/academy/internal/repository"
	"github.com/vxacademy/academy/internal/service"
	"github.com/vxacademy/academy/internal/testutil"
	"gorm.io/gorm"
)

type envelope struct {
	Success bool                `json:"success"`
	Data    json.RawMessage     `json:"data"`
	Message string              `json:"message"`
	Errors  []apperr.FieldError `json:"errors"`
}

type learningEnv struct {
	router      *gin.Engine
	db          *gorm.DB
	assessments service.AssessmentService
}

func newLearningEnv(t *testing.T) *learningEnv {
	t.Helper()
	gin.SetMode(gin.TestMode)
	controller.SetupValidator()
	db := testutil.NewDB(t)
	cfg := testutil.Config()

	areaRepo := repository.NewTrainingAreaRepository(db)
	moduleRepo := repository.NewModuleRepository(db)
	courseRepo := repository.NewCourseRepository(db)
	unitRepo := repository.NewUnitRepository(db)
	userRepo := repository.NewUserRepository(db)
	notificationRepo := repository.NewNotificationRepository(db)

	progress := service.NewProgressService(db, cfg, repository.NewProgressRepository(db), courseRepo, moduleRepo, unitRepo,
		userRepo, repository.NewEnrollmentRepository(db), notificationRepo)
	certificates := service.NewCertificateService(db, cfg, repository.NewCertificateRepository(db), userRepo, courseRepo,
		notificationRepo, mailer.NewLogMailer())
	assessments := service.NewAssessmentService(db,
		repository.NewAssessmentRepository(db),
		repository.NewQuestionRepository(db),
		repository.NewAttemptRepository(db),
		areaRepo, moduleRepo, courseRepo, unitRepo, userRepo,
		progress, certificates,
	)

	r := gin.New()
	NewLearningController(progress, assessments).RegisterRoutes(r.Group("/api/v1"))
	return &learningEnv{router: r, db: db, assessments: assessments}
}

func (e *learningEnv) do(t *testing.T, method, path, body string) (int, envelope) {
	t.Helper()
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	e.router.ServeHTTP(w, req)
	var env envelope
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &env), w.Body.String())
	return w.Code, env
}

func TestRecordProgressEndpoint(t *testing.T) {
	e := newLearningEnv(t)
	h := testutil.SeedHierarchy(t, e.db, 0, 0)
	learner := testutil.SeedLearner(t, e.db, "Jean Sammet")
	path := fmt.Sprintf("/api/v1/course-units/%d/progress", h.CourseUnits[0].ID)

	code, env := e.do(t, http.MethodPost, path, fmt.Sprintf(`{"user_id":%d}`, learner.ID))
	assert.Equal(t, http.StatusUnprocessableEntity, code)
	require.NotEmpty(t, env.Errors)
	assert.Equal(t, "percentage", env.Errors[0].Field)

	code, _ = e.do(t, http.MethodPost, path, fmt.Sprintf(`{"user_id":%d,"percentage":120}`, learner.ID))
	assert.Equal(t, http.StatusUnprocessableEntity, code)

	code, env = e.do(t, http.MethodPost, path, fmt.Sprintf(`{"user_id":%d,"percentage":0}`, learner.ID))
	require.Equal(t, http.StatusOK, code, env.Message)

	code, env = e.do(t, http.MethodPost, path, fmt.Sprintf(`{"user_id":%d,"percentage":60}`, learner.ID))
	require.Equal(t, http.StatusOK, code, env.Message)
	var rollup dto.RollupResponse
	require.NoError(t, json.Unmarshal(env.Data, &rollup))
	assert.Equal(t, "in_progress", rollup.UnitProgress.Status)
	assert.Equal(t, 30.0, rollup.CourseProgress.CompletionPercentage)

	code, _ = e.do(t, http.MethodPost, "/api/v1/course-units/999/progress", fmt.Sprintf(`{"user_id":%d,"percentage":10}`, learner.ID))
	assert.Equal(t, http.StatusNotFound, code)

	code, _ = e.do(t, http.MethodGet, fmt.Sprintf("/api/v1/courses/%d/progress", h.Course.ID), "")
	assert.Equal(t, http.StatusBadRequest, code, "user_id is required")
}

func TestSubmitAssessmentEndpoint(t *testing.T) {
	e := newLearningEnv(t)
	h := testutil.SeedHierarchy(t, e.db, 0)
	learner := testutil.SeedLearner(t, e.db, "Kathleen Booth")

	a, err := e.assessments.CreateAssessment(context.Background(), dto.CreateAssessmentRequest{
		Owner:        dto.AssessmentOwnerDTO{Type: "module", ID: h.Module.ID},
		Title:        "Module check",
		PassingScore: 100,
		MaxRetakes:   1,
		Questions: []dto.CreateQuestionRequest{
			{Text: "Is the yard a hard hat area?", Type: "true_false", CorrectAnswer: "True"},
		},
	})
	require.NoError(t, err)
	qid := a.Questions[0].ID

	code, env := e.do(t, http.MethodGet, fmt.Sprintf("/api/v1/assessments/%d", a.ID), "")
	require.Equal(t, http.StatusOK, code)
	assert.NotContains(t, string(env.Data), "correct_answer")

	body := fmt.Sprintf(`{"user_id":%d,"answers":{"%d":"False"}}`, learner.ID, qid)
	code, env = e.do(t, http.MethodPost, fmt.Sprintf("/api/v1/assessments/%d/attempts", a.ID), body)
	require.Equal(t, http.StatusCreated, code, env.Message)
	var attempt dto.AttemptResponse
	require.NoError(t, json.Unmarshal(env.Data, &attempt))
	assert.False(t, attempt.Passed)
	assert.Equal(t, 1, attempt.SelectedIndexes[qid])

	code, _ = e.do(t, http.MethodPost, fmt.Sprintf("/api/v1/assessments/%d/attempts", a.ID), body)
	assert.Equal(t, http.StatusForbidden, code)

	code, env = e.do(t, http.MethodGet, fmt.Sprintf("/api/v1/assessments/%d/my-attempts?user_id=%d", a.ID, learner.ID), "")
	require.Equal(t, http.StatusOK, code)
	var attempts []dto.AttemptResponse
	require.NoError(t, json.Unmarshal(env.Data, &attempts))
	assert.Len(t, attempts, 1)
}
