package errors

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestErrorCode_HTTPStatus(t *testing.T) {
	tests := []struct {
		code ErrorCode
		want int
	}{
		{ErrCodeInvalidArgument, http.StatusBadRequest},
		{ErrCodeUnauthorized, http.StatusUnauthorized},
		{ErrCodeNotFound, http.StatusNotFound},
		{ErrCodeMethodNotAllowed, http.StatusMethodNotAllowed},
		{ErrCodeConflict, http.StatusConflict},
		{ErrCodeRateLimitExceeded, http.StatusTooManyRequests},
		{ErrCodeServiceUnavailable, http.StatusServiceUnavailable},
		{ErrCodeInternal, http.StatusInternalServerError},
		{ErrorCode("SOMETHING_ELSE"), http.StatusInternalServerError},
	}
	for _, tt := range tests {
		t.Run(string(tt.code), func(t *testing.T) {
			assert.Equal(t, tt.want, tt.code.HTTPStatus())
		})
	}
}

func TestAppError_Error(t *testing.T) {
	assert.Equal(t, "[NOT_FOUND] task not found", NotFound("task not found").Error())

	cause := errors.New("connection refused")
	err := Internal("failed to list tasks", cause)
	assert.Equal(t, "[INTERNAL] failed to list tasks: connection refused", err.Error())
	assert.ErrorIs(t, err, cause)
}

func TestIsCode_Wrapped(t *testing.T) {
	err := fmt.Errorf("handler: %w", Conflict("overlaps task 4"))

	assert.True(t, IsCode(err, ErrCodeConflict))
	assert.False(t, IsCode(err, ErrCodeNotFound))
	assert.False(t, IsCode(errors.New("plain"), ErrCodeConflict))
}

func TestGetCodeFromError(t *testing.T) {
	assert.Equal(t, ErrCodeRateLimitExceeded, GetCodeFromError(RateLimitExceeded("slow down"), ErrCodeInternal))
	assert.Equal(t, ErrCodeInternal, GetCodeFromError(errors.New("boom"), ErrCodeInternal))
}
