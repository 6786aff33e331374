// Package controller holds the HTTP helpers shared by the admin and learner
// controllers: the response envelope, error to status mapping, binding with
// translated validation errors and path/query parsing.
package controller

import (
	"encoding/json"
	"net/http"
	"reflect"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/locales/en"
	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	en_translations "github.com/go-playground/validator/v10/translations/en"
	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"
	"github.com/vxacademy/academy/internal/apperr"
	"github.com/vxacademy/academy/internal/dto"
	"github.com/vxacademy/academy/internal/tableview"
)

var (
	translator ut.Translator
	setupOnce  sync.Once
)

// SetupValidator registers English messages and JSON field names on gin's validator.
func SetupValidator() {
	setupOnce.Do(func() {
		v, ok := binding.Validator.Engine().(*validator.Validate)
		if !ok {
			return
		}
		_en := en.New()
		uni := ut.New(_en, _en)
		translator, _ = uni.GetTranslator("en")
		_ = en_translations.RegisterDefaultTranslations(v, translator)
		v.RegisterTagNameFunc(func(fld reflect.StructField) string {
			name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
			if name == "-" {
				return ""
			}
			if name == "" {
				name = strings.SplitN(fld.Tag.Get("form"), ",", 2)[0]
			}
			return name
		})
	})
}

func OK(c *gin.Context, data interface{}) {
	c.JSON(http.StatusOK, dto.Response{Success: true, Data: data})
}

func Created(c *gin.Context, data interface{}) {
	c.JSON(http.StatusCreated, dto.Response{Success: true, Data: data})
}

func Message(c *gin.Context, msg string) {
	c.JSON(http.StatusOK, dto.Response{Success: true, Message: msg})
}

// Fail writes the error envelope with the status matching the error kind.
func Fail(c *gin.Context, err error) {
	var (
		status = http.StatusInternalServerError
		msg    = "internal server error"
		fields []apperr.FieldError
		ve     *apperr.ValidationError
	)
	switch {
	case apperr.IsNotFound(err):
		status, msg = http.StatusNotFound, err.Error()
	case errors.As(err, &ve):
		status, msg, fields = http.StatusUnprocessableEntity, "validation failed", ve.Fields
		if len(fields) == 0 {
			msg = ve.Error()
		}
	case apperr.IsConflict(err):
		status, msg = http.StatusConflict, err.Error()
	case apperr.IsAttemptLimitExceeded(err):
		status, msg = http.StatusForbidden, err.Error()
	case apperr.IsUnavailable(err):
		status, msg = http.StatusServiceUnavailable, err.Error()
	default:
		log.Error().Err(err).Str("path", c.FullPath()).Msg("Unhandled error")
	}
	c.AbortWithStatusJSON(status, dto.Response{Success: false, Message: msg, Errors: fields})
}

// BadRequest reports malformed input that never reached the service.
func BadRequest(c *gin.Context, msg string, fields ...apperr.FieldError) {
	c.AbortWithStatusJSON(http.StatusBadRequest, dto.Response{Success: false, Message: msg, Errors: fields})
}

// BindJSON decodes the body into req. Tag violations become a 422 with one
// entry per field; undecodable bodies are a 400.
func BindJSON(c *gin.Context, req interface{}) bool {
	err := c.ShouldBindJSON(req)
	if err == nil {
		return true
	}
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) {
		fields := make([]apperr.FieldError, 0, len(verrs))
		for _, fe := range verrs {
			fields = append(fields, apperr.FieldError{Field: fieldPath(fe), Error: translate(fe)})
		}
		log.Warn().Int("fields", len(fields)).Str("path", c.FullPath()).Msg("Request validation failed")
		Fail(c, apperr.NewValidationError(err, fields...))
		return false
	}
	var syntaxErr *json.SyntaxError
	var typeErr *json.UnmarshalTypeError
	switch {
	case errors.As(err, &typeErr):
		BadRequest(c, "invalid request body", apperr.FieldError{Field: typeErr.Field, Error: "must be " + typeErr.Type.String()})
	case errors.As(err, &syntaxErr):
		BadRequest(c, "malformed JSON body")
	default:
		BadRequest(c, "invalid request body: "+err.Error())
	}
	return false
}

// fieldPath drops the root struct name from the namespace: "CreateUserRequest.sub_admin_detail.eid" -> "sub_admin_detail.eid".
func fieldPath(fe validator.FieldError) string {
	ns := fe.Namespace()
	if i := strings.Index(ns, "."); i >= 0 {
		return ns[i+1:]
	}
	return fe.Field()
}

func translate(fe validator.FieldError) string {
	if translator == nil {
		return fe.Error()
	}
	return fe.Translate(translator)
}

// ParamID parses a positive integer path parameter.
func ParamID(c *gin.Context, name string) (uint, bool) {
	v, err := strconv.ParseUint(c.Param(name), 10, 32)
	if err != nil || v == 0 {
		BadRequest(c, "invalid "+name, apperr.FieldError{Field: name, Error: "must be a positive integer"})
		return 0, false
	}
	return uint(v), true
}

// QueryID parses an optional positive integer query parameter.
func QueryID(c *gin.Context, name string) (*uint, bool) {
	raw := c.Query(name)
	if raw == "" {
		return nil, true
	}
	v, err := strconv.ParseUint(raw, 10, 32)
	if err != nil || v == 0 {
		BadRequest(c, "invalid "+name, apperr.FieldError{Field: name, Error: "must be a positive integer"})
		return nil, false
	}
	id := uint(v)
	return &id, true
}

// RequiredQueryID is QueryID for mandatory parameters.
func RequiredQueryID(c *gin.Context, name string) (uint, bool) {
	id, ok := QueryID(c, name)
	if !ok {
		return 0, false
	}
	if id == nil {
		BadRequest(c, name+" is required", apperr.FieldError{Field: name, Error: "is required"})
		return 0, false
	}
	return *id, true
}

// QueryDate parses an optional YYYY-MM-DD query parameter.
func QueryDate(c *gin.Context, name string) (*time.Time, bool) {
	raw := c.Query(name)
	if raw == "" {
		return nil, true
	}
	t, err := time.ParseInLocation("2006-01-02", raw, time.Local)
	if err != nil {
		BadRequest(c, "invalid "+name, apperr.FieldError{Field: name, Error: "must be a date in YYYY-MM-DD format"})
		return nil, false
	}
	return &t, true
}

// TableQuery reads the list screen parameters: the cascading hierarchy
// filter, search and sort (?sort=column&dir=asc|desc).
func TableQuery(c *gin.Context, v tableview.View) (tableview.Query, bool) {
	var q tableview.Query
	for _, sel := range []struct {
		name   string
		choose func(*uint)
	}{
		{"training_area_id", q.Filter.SelectTrainingArea},
		{"module_id", q.Filter.SelectModule},
		{"course_id", q.Filter.SelectCourse},
		{"unit_id", q.Filter.SelectUnit},
	} {
		id, ok := QueryID(c, sel.name)
		if !ok {
			return q, false
		}
		if id != nil {
			sel.choose(id)
		}
	}
	q.Search = c.Query("search")
	if col := c.Query("sort"); col != "" {
		s, err := tableview.NewSort(v, col, c.Query("dir"))
		if err != nil {
			BadRequest(c, err.Error(), apperr.FieldError{Field: "sort", Error: err.Error()})
			return q, false
		}
		q.Sort = s
	}
	return q, true
}
