package errors

import (
	"errors"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNotFound(t *testing.T) {
	err := NotFound("product", "abc-123")

	assert.Equal(t, "NOT_FOUND", err.Code)
	assert.Equal(t, http.StatusNotFound, err.Status)
	assert.Contains(t, err.Message, "abc-123")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestForbidden(t *testing.T) {
	err := Forbidden("you do not own this product")

	assert.Equal(t, "FORBIDDEN", err.Code)
	assert.Equal(t, http.StatusForbidden, err.Status)
	assert.ErrorIs(t, err, ErrForbidden)
}

func TestStoreUnavailable(t *testing.T) {
	cause := errors.New("connection refused")
	err := StoreUnavailable(cause)

	assert.Equal(t, "STORE_UNAVAILABLE", err.Code)
	assert.Equal(t, http.StatusServiceUnavailable, err.Status)
	assert.ErrorIs(t, err, ErrStoreUnavailable)
	assert.ErrorIs(t, err, cause)
}

func TestIndexWriteFailed(t *testing.T) {
	cause := errors.New("es: 503")
	err := IndexWriteFailed("prod-1", cause)

	assert.Equal(t, "INDEX_WRITE_FAILED", err.Code)
	assert.Equal(t, http.StatusInternalServerError, err.Status)
	assert.Contains(t, err.Message, "prod-1")
	assert.ErrorIs(t, err, ErrIndexWrite)
	assert.ErrorIs(t, err, cause)

	// Must not be mistaken for a full write failure.
	assert.NotErrorIs(t, err, ErrStoreUnavailable)
}

func TestAppError_Error(t *testing.T) {
	err := &AppError{Code: "X", Message: "boom", Err: errors.New("cause")}
	assert.Equal(t, "X: boom: cause", err.Error())

	err = &AppError{Code: "X", Message: "boom"}
	assert.Equal(t, "X: boom", err.Error())
}

func TestHTTPStatus(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		expected int
	}{
		{"app error", NotFound("product", "1"), http.StatusNotFound},
		{"wrapped app error", Wrap(Forbidden("nope"), "update product"), http.StatusForbidden},
		{"sentinel not found", ErrNotFound, http.StatusNotFound},
		{"sentinel invalid input", ErrInvalidInput, http.StatusBadRequest},
		{"sentinel unauthorized", ErrUnauthorized, http.StatusUnauthorized},
		{"sentinel forbidden", ErrForbidden, http.StatusForbidden},
		{"sentinel store unavailable", ErrStoreUnavailable, http.StatusServiceUnavailable},
		{"unknown error", errors.New("weird"), http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, HTTPStatus(tt.err))
		})
	}
}
