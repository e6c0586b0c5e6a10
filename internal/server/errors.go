// Package server provides the HTTP REST API for the skill intelligence
// service.
package server

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/jonathan/skill-intel/internal/catalog"
	"github.com/jonathan/skill-intel/internal/trends"
)

// ErrValidation indicates request validation failure.
type ErrValidation struct {
	Field   string
	Message string
}

func (e *ErrValidation) Error() string {
	return fmt.Sprintf("validation error: %s - %s", e.Field, e.Message)
}

// ErrPeriodNotFound indicates a requested snapshot period does not exist.
type ErrPeriodNotFound struct {
	Period string
}

func (e *ErrPeriodNotFound) Error() string {
	return fmt.Sprintf("period not found: %s", e.Period)
}

// HTTPStatus returns the appropriate HTTP status code for an error.
func HTTPStatus(err error) int {
	var (
		validation *ErrValidation
		notFound   *ErrPeriodNotFound
		data       *catalog.DataError
		storage    *trends.StorageError
	)
	switch {
	case errors.As(err, &validation):
		return http.StatusBadRequest
	case errors.As(err, &notFound):
		return http.StatusNotFound
	case errors.As(err, &data), errors.As(err, &storage):
		return http.StatusInternalServerError
	default:
		return http.StatusInternalServerError
	}
}
