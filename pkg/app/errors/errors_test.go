package errors

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestServiceError_StatusCode(t *testing.T) {
	cause := errors.New("cause")

	tests := []struct {
		name     string
		err      error
		status   int
		internal bool
	}{
		{"general", GeneralError(cause), http.StatusInternalServerError, true},
		{"bad request", BadRequestError(cause, "invalid limit"), http.StatusBadRequest, false},
		{"not found", ResourceNotFoundError(nil, "no finalizations"), http.StatusNotFound, false},
		{"dependency", DependencyError(cause, "journal unavailable"), http.StatusBadGateway, true},
		{"recovering", RecoveringError("not ready"), http.StatusServiceUnavailable, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var svcErr *ServiceError
			wrapped := fmt.Errorf("handler: %w", tt.err)
			assert.True(t, errors.As(wrapped, &svcErr))
			assert.Equal(t, tt.status, svcErr.StatusCode())
			assert.Equal(t, tt.internal, IsInternalError(wrapped))
			assert.True(t, Is(wrapped, svcErr.Category))
		})
	}
}

func TestServiceError_Unwrap(t *testing.T) {
	cause := errors.New("db down")
	err := DependencyError(cause, "journal unavailable")

	assert.ErrorIs(t, err, cause)
	assert.Equal(t, "db down", err.Error())
	assert.Equal(t, "invalid limit", BadRequestError(nil, "invalid limit").Error())
}

func TestIsInternalError_PlainError(t *testing.T) {
	assert.True(t, IsInternalError(errors.New("boom")))
	assert.False(t, Is(errors.New("boom"), CategoryGeneralError))
}
