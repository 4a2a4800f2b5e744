package errors

import (
	"errors"
	"fmt"
	"net/http"
)

// ValidationError reports a missing or malformed input field.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
}

// NewValidation creates a validation error for a field.
func NewValidation(field, reason string) *ValidationError {
	return &ValidationError{Field: field, Reason: reason}
}

// NotFoundError reports a missing resource.
type NotFoundError struct {
	Resource string
}

func (e *NotFoundError) Error() string {
	return e.Resource + " not found"
}

// NewNotFound creates a not-found error for a resource kind.
func NewNotFound(resource string) *NotFoundError {
	return &NotFoundError{Resource: resource}
}

// ForbiddenError reports an ownership or role violation.
type ForbiddenError struct {
	Reason string
}

func (e *ForbiddenError) Error() string {
	return e.Reason
}

// NewForbidden creates a forbidden error.
func NewForbidden(reason string) *ForbiddenError {
	return &ForbiddenError{Reason: reason}
}

// ConflictError reports a state conflict such as a full slot or an
// illegal status transition.
type ConflictError struct {
	Reason string
}

func (e *ConflictError) Error() string {
	return e.Reason
}

// NewConflict creates a conflict error.
func NewConflict(reason string) *ConflictError {
	return &ConflictError{Reason: reason}
}

// StorageError wraps a persistence-layer fault. Callers may retry at
// their discretion; the services themselves never do.
type StorageError struct {
	Op  string
	Err error
}

func (e *StorageError) Error() string {
	return fmt.Sprintf("storage: %s: %v", e.Op, e.Err)
}

func (e *StorageError) Unwrap() error {
	return e.Err
}

// NewStorage wraps err as a storage failure during op.
func NewStorage(op string, err error) *StorageError {
	return &StorageError{Op: op, Err: err}
}

// ErrorResponse represents a standardized error response.
type ErrorResponse struct {
	Error string `json:"error"`
	Code  string `json:"code"`
}

// HTTPError represents an HTTP error with status code.
type HTTPError struct {
	StatusCode int
	Message    string
	Code       string
}

func (e *HTTPError) Error() string {
	return e.Message
}

// NewHTTPError creates a new HTTP error.
func NewHTTPError(statusCode int, message, code string) *HTTPError {
	return &HTTPError{
		StatusCode: statusCode,
		Message:    message,
		Code:       code,
	}
}

// ToErrorResponse converts an HTTPError to ErrorResponse.
func (e *HTTPError) ToErrorResponse() ErrorResponse {
	return ErrorResponse{
		Error: e.Message,
		Code:  e.Code,
	}
}

// MapErrorToHTTP maps domain errors to HTTP errors.
func MapErrorToHTTP(err error) *HTTPError {
	var (
		validation *ValidationError
		notFound   *NotFoundError
		forbidden  *ForbiddenError
		conflict   *ConflictError
		storage    *StorageError
	)
	switch {
	case errors.As(err, &validation):
		return NewHTTPError(http.StatusBadRequest, validation.Error(), "VALIDATION_ERROR")
	case errors.As(err, &notFound):
		return NewHTTPError(http.StatusNotFound, notFound.Error(), "NOT_FOUND")
	case errors.As(err, &forbidden):
		return NewHTTPError(http.StatusForbidden, forbidden.Error(), "FORBIDDEN")
	case errors.As(err, &conflict):
		return NewHTTPError(http.StatusConflict, conflict.Error(), "CONFLICT")
	case errors.As(err, &storage):
		return NewHTTPError(http.StatusServiceUnavailable, "storage unavailable", "STORAGE_ERROR")
	default:
		return NewHTTPError(http.StatusInternalServerError, "internal server error", "INTERNAL_ERROR")
	}
}
