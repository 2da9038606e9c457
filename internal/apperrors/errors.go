// Package apperrors defines the error kinds the ledger core returns.
// Handlers translate each kind into an HTTP status:
// ValidationError -> 400, NotFoundError -> 404, InvalidStateError -> 409,
// ComputationError -> 500. Any other error is treated as an internal failure.
package apperrors

import (
	"errors"
	"fmt"
	"net/http"
)

// ValidationError reports bad or missing input supplied by the caller.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	if e.Field == "" {
		return e.Message
	}
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// NotFoundError reports a referenced entity that does not exist.
type NotFoundError struct {
	Entity string
	ID     int64
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s %d not found", e.Entity, e.ID)
}

// InvalidStateError reports an operation that conflicts with the current
// state of an entity, such as paying a debt that is already paid.
type InvalidStateError struct {
	Message string
}

func (e *InvalidStateError) Error() string { return e.Message }

// ComputationError reports a broken internal invariant. It is never
// returned for bad input and must always be logged.
type ComputationError struct {
	Message string
}

func (e *ComputationError) Error() string { return "computation error: " + e.Message }

func Validation(field, format string, args ...any) error {
	return &ValidationError{Field: field, Message: fmt.Sprintf(format, args...)}
}

func NotFound(entity string, id int64) error {
	return &NotFoundError{Entity: entity, ID: id}
}

func InvalidState(format string, args ...any) error {
	return &InvalidStateError{Message: fmt.Sprintf(format, args...)}
}

func Computation(format string, args ...any) error {
	return &ComputationError{Message: fmt.Sprintf(format, args...)}
}

func IsValidation(err error) bool {
	var target *ValidationError
	return errors.As(err, &target)
}

func IsNotFound(err error) bool {
	var target *NotFoundError
	return errors.As(err, &target)
}

func IsInvalidState(err error) bool {
	var target *InvalidStateError
	return errors.As(err, &target)
}

func IsComputation(err error) bool {
	var target *ComputationError
	return errors.As(err, &target)
}

// HTTPStatus maps an error to the status code and client-facing message.
// Internal failures never leak their cause to the client.
func HTTPStatus(err error) (int, string) {
	switch {
	case IsValidation(err):
		return http.StatusBadRequest, err.Error()
	case IsNotFound(err):
		return http.StatusNotFound, err.Error()
	case IsInvalidState(err):
		return http.StatusConflict, err.Error()
	default:
		return http.StatusInternalServerError, "internal server error"
	}
}
