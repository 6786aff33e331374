// Package apperr holds the error taxonomy shared by repositories, services and
// controllers.
package apperr

import (
	"fmt"

	"github.com/pkg/errors"
	"gorm.io/gorm"
)

// ErrAttemptLimitExceeded is returned when a learner has used every retake of an assessment.
var ErrAttemptLimitExceeded = errors.New("assessment attempt limit exceeded")

// ErrUnavailable is returned by optional integrations that are not configured.
var ErrUnavailable = errors.New("service unavailable")

// NotFoundError reports a referenced entity that does not exist.
type NotFoundError struct {
	Entity string
	ID     uint
}

func (e *NotFoundError) Error() string {
	if e.ID == 0 {
		return fmt.Sprintf("%s not found", e.Entity)
	}
	return fmt.Sprintf("%s %d not found", e.Entity, e.ID)
}

func NotFound(entity string, id uint) error {
	return &NotFoundError{Entity: entity, ID: id}
}

// FieldError is used to indicate an error with a specific input field.
type FieldError struct {
	Field string `json:"field"`
	Error string `json:"error"`
}

type ValidationError struct {
	Err    error
	Fields []FieldError
}

func (e *ValidationError) Error() string {
	if e.Err == nil {
		return "validation failed"
	}
	return e.Err.Error()
}

func (e *ValidationError) Unwrap() error { return e.Err }

func NewValidationError(err error, flds ...FieldError) error {
	return &ValidationError{Err: err, Fields: flds}
}

// Invalid is a shortcut for a single-field validation error.
func Invalid(field, msg string) error {
	return NewValidationError(fmt.Errorf("%s: %s", field, msg), FieldError{Field: field, Error: msg})
}

// ConflictError reports a uniqueness violation.
type ConflictError struct {
	Entity string
	Field  string
	Value  string
}

func (e *ConflictError) Error() string {
	if e.Field == "" {
		return fmt.Sprintf("%s already exists", e.Entity)
	}
	if e.Value == "" {
		return fmt.Sprintf("%s with this %s already exists", e.Entity, e.Field)
	}
	return fmt.Sprintf("%s with %s %q already exists", e.Entity, e.Field, e.Value)
}

func Conflict(entity, field, value string) error {
	return &ConflictError{Entity: entity, Field: field, Value: value}
}

func IsNotFound(err error) bool {
	var nf *NotFoundError
	return errors.As(err, &nf)
}

func IsValidation(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}

func IsConflict(err error) bool {
	var ce *ConflictError
	return errors.As(err, &ce)
}

func IsAttemptLimitExceeded(err error) bool {
	return errors.Is(err, ErrAttemptLimitExceeded)
}

func IsUnavailable(err error) bool {
	return errors.Is(err, ErrUnavailable)
}

// FromDB maps gorm sentinel errors onto the taxonomy. Other errors are wrapped
// with msg and returned as-is.
func FromDB(err error, entity string, id uint, msg string) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, gorm.ErrRecordNotFound):
		return NotFound(entity, id)
	case errors.Is(err, gorm.ErrDuplicatedKey):
		return Conflict(entity, "", "")
	case errors.Is(err, gorm.ErrForeignKeyViolated):
		return NewValidationError(errors.Wrap(err, msg), FieldError{Field: "id", Error: "references a missing record"})
	}
	return errors.Wrap(err, msg)
}
