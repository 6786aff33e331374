package admin

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vxacademy/academy/internal/apperr"
	"github.com/vxacademy/academy/internal/controller"
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

func newContentRouter(t *testing.T) (*gin.Engine, *gorm.DB) {
	t.Helper()
	gin.SetMode(gin.TestMode)
	controller.SetupValidator()
	db := testutil.NewDB(t)
	content := service.NewContentService(db,
		repository.NewTrainingAreaRepository(db),
		repository.NewModuleRepository(db),
		repository.NewCourseRepository(db),
		repository.NewUnitRepository(db),
		repository.NewProgressRepository(db),
		repository.NewUserRepository(db),
		repository.NewNotificationRepository(db),
	)
	r := gin.New()
	NewContentController(content).RegisterRoutes(r.Group("/api/v1/admin"))
	return r, db
}

func do(t *testing.T, r http.Handler, method, path, body string) (int, envelope) {
	t.Helper()
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	var env envelope
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &env), w.Body.String())
	return w.Code, env
}

func TestCreateTrainingAreaValidation(t *testing.T) {
	r, _ := newContentRouter(t)

	code, env := do(t, r, http.MethodPost, "/api/v1/admin/training-areas", `{"image_url":"not a url"}`)
	assert.Equal(t, http.StatusUnprocessableEntity, code)
	assert.False(t, env.Success)
	fields := map[string]bool{}
	for _, f := range env.Errors {
		fields[f.Field] = true
	}
	assert.True(t, fields["name"])
	assert.True(t, fields["image_url"])

	code, _ = do(t, r, http.MethodPost, "/api/v1/admin/training-areas", `{"name":`)
	assert.Equal(t, http.StatusBadRequest, code)

	code, env = do(t, r, http.MethodPost, "/api/v1/admin/training-areas", `{"name":"Safety"}`)
	assert.Equal(t, http.StatusCreated, code)
	assert.True(t, env.Success)
}

func TestGetTrainingAreaErrors(t *testing.T) {
	r, _ := newContentRouter(t)

	code, _ := do(t, r, http.MethodGet, "/api/v1/admin/training-areas/abc", "")
	assert.Equal(t, http.StatusBadRequest, code)

	code, env := do(t, r, http.MethodGet, "/api/v1/admin/training-areas/42", "")
	assert.Equal(t, http.StatusNotFound, code)
	assert.Contains(t, env.Message, "not found")
}

func TestListCoursesTableQuery(t *testing.T) {
	r, db := newContentRouter(t)
	h := testutil.SeedHierarchy(t, db)
	testutil.SeedCourse(t, db, h.Module.ID, "Alarms")
	testutil.SeedCourse(t, db, h.Module.ID, "Zones")

	code, env := do(t, r, http.MethodGet, "/api/v1/admin/courses?sort=name&dir=desc", "")
	require.Equal(t, http.StatusOK, code)
	var courses []struct {
		Name string `json:"name"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &courses))
	require.Len(t, courses, 3)
	assert.Equal(t, "Zones", courses[0].Name)
	assert.Equal(t, "Alarms", courses[2].Name)

	code, env = do(t, r, http.MethodGet, "/api/v1/admin/courses?search=ALA", "")
	require.Equal(t, http.StatusOK, code)
	require.NoError(t, json.Unmarshal(env.Data, &courses))
	assert.Len(t, courses, 1)

	code, env = do(t, r, http.MethodGet, "/api/v1/admin/courses?sort=level", "")
	assert.Equal(t, http.StatusBadRequest, code)
	require.Len(t, env.Errors, 1)
	assert.Equal(t, "sort", env.Errors[0].Field)

	code, _ = do(t, r, http.MethodGet, "/api/v1/admin/courses?module_id=0", "")
	assert.Equal(t, http.StatusBadRequest, code)
}

func TestDeleteTrainingAreaThenNotFound(t *testing.T) {
	r, db := newContentRouter(t)
	h := testutil.SeedHierarchy(t, db, 0)
	path := "/api/v1/admin/training-areas/" + jsonID(h.Area.ID)

	code, _ := do(t, r, http.MethodDelete, path, "")
	assert.Equal(t, http.StatusOK, code)
	code, _ = do(t, r, http.MethodGet, path, "")
	assert.Equal(t, http.StatusNotFound, code)
	code, _ = do(t, r, http.MethodGet, "/api/v1/admin/courses/"+jsonID(h.Course.ID), "")
	assert.Equal(t, http.StatusNotFound, code)
}

func TestReorderCourseUnitOutOfRange(t *testing.T) {
	r, db := newContentRouter(t)
	h := testutil.SeedHierarchy(t, db, 0, 0)

	code, env := do(t, r, http.MethodPut, "/api/v1/admin/course-units/"+jsonID(h.CourseUnits[0].ID)+"/order", `{"order":3}`)
	assert.Equal(t, http.StatusUnprocessableEntity, code)
	require.NotEmpty(t, env.Errors)
	assert.Equal(t, "order", env.Errors[0].Field)

	code, _ = do(t, r, http.MethodPut, "/api/v1/admin/course-units/"+jsonID(h.CourseUnits[0].ID)+"/order", `{"order":2}`)
	assert.Equal(t, http.StatusOK, code)
}

func jsonID(id uint) string {
	return strconv.FormatUint(uint64(id), 10)
}
