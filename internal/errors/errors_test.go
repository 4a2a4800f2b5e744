package errors

import (
	stderrors "errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMapErrorToHTTP(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		statusCode int
		code       string
	}{
		{"validation maps to 400", NewValidation("date", "required"), http.StatusBadRequest, "VALIDATION_ERROR"},
		{"not found maps to 404", NewNotFound("reservation"), http.StatusNotFound, "NOT_FOUND"},
		{"forbidden maps to 403", NewForbidden("not the owner"), http.StatusForbidden, "FORBIDDEN"},
		{"conflict maps to 409", NewConflict("slot is full"), http.StatusConflict, "CONFLICT"},
		{"storage maps to 503", NewStorage("create reservation", stderrors.New("connection refused")), http.StatusServiceUnavailable, "STORAGE_ERROR"},
		{"unknown maps to 500", stderrors.New("boom"), http.StatusInternalServerError, "INTERNAL_ERROR"},
		{"wrapped domain errors still map", fmt.Errorf("handler: %w", NewConflict("slot is full")), http.StatusConflict, "CONFLICT"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			httpErr := MapErrorToHTTP(tt.err)
			assert.Equal(t, tt.statusCode, httpErr.StatusCode)
			assert.Equal(t, tt.code, httpErr.Code)
		})
	}
}

func TestStorageError_Unwrap(t *testing.T) {
	cause := stderrors.New("deadlock")
	err := NewStorage("reschedule reservation", cause)
	assert.ErrorIs(t, err, cause)
}
