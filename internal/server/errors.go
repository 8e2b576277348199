// Package server provides the HTTP API for brand compliance evaluation.
package server

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/jonathan/brand-compliance/internal/repair"
	"github.com/jonathan/brand-compliance/internal/validation"
)

// ErrValidation indicates request validation failure
type ErrValidation struct {
	Field   string
	Message string
}

func (e *ErrValidation) Error() string {
	return fmt.Sprintf("validation error: %s - %s", e.Field, e.Message)
}

// ErrNotFound indicates the requested resource does not exist
type ErrNotFound struct {
	Resource string
	ID       string
}

func (e *ErrNotFound) Error() string {
	return fmt.Sprintf("%s not found: %s", e.Resource, e.ID)
}

// HTTPStatus returns the appropriate HTTP status code for an error
func HTTPStatus(err error) int {
	var (
		validationErr *ErrValidation
		notFoundErr   *ErrNotFound
		contractErr   *validation.ContractError
		translateErr  *repair.TranslateError
	)
	switch {
	case errors.As(err, &validationErr):
		return http.StatusBadRequest
	case errors.As(err, &notFoundErr):
		return http.StatusNotFound
	case errors.As(err, &contractErr), errors.As(err, &translateErr):
		return http.StatusUnprocessableEntity
	default:
		return http.StatusInternalServerError
	}
}
