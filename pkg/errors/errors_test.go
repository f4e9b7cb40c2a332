package errors

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var errSentinel = errors.New("sentinel")

func TestError_Format(t *testing.T) {
	assert.Equal(t, "[USER_NOT_FOUND] user not found", New(ErrCodeUserNotFound, "user not found").Error())
	assert.Equal(t, "[INTERNAL_ERROR] failed to save: sentinel", Wrap(errSentinel, ErrCodeInternal, "failed to save").Error())
	assert.Equal(t, "[INVALID_INPUT] invalid username: must not be empty", InvalidInput("username", "must not be empty").Error())
	assert.Equal(t, "[NOT_FOUND] role not found: ROLE_X", NotFound("role", "ROLE_X").Error())
}

func TestWrap(t *testing.T) {
	t.Run("NilStaysNil", func(t *testing.T) {
		assert.Nil(t, Wrap(nil, ErrCodeInternal, "ignored"))
	})

	t.Run("KeepsCause", func(t *testing.T) {
		err := fmt.Errorf("outer: %w", Wrap(errSentinel, ErrCodeUserAlreadyExists, "duplicate"))

		assert.ErrorIs(t, err, errSentinel)
		assert.True(t, IsCode(err, ErrCodeUserAlreadyExists))
		assert.Equal(t, ErrCodeUserAlreadyExists, GetCode(err))
	})
}

func TestGetCode_Unstructured(t *testing.T) {
	assert.Equal(t, ErrCodeInternal, GetCode(errSentinel))
	assert.False(t, IsCode(errSentinel, ErrCodeInternal))
}

func TestWithDetail(t *testing.T) {
	err := New(ErrCodeUserNotFound, "missing").WithDetail("username", "alice").WithDetail("id", "42")

	require.Len(t, err.Details, 2)
	assert.Equal(t, "alice", err.Details["username"])
}

func TestMapErrorCodeToHTTPStatus(t *testing.T) {
	tests := []struct {
		code ErrorCode
		want int
	}{
		{ErrCodeInvalidInput, http.StatusBadRequest},
		{ErrCodeValidationFailed, http.StatusBadRequest},
		{ErrCodeRoleInvalid, http.StatusBadRequest},
		{ErrCodeInvalidCredentials, http.StatusUnauthorized},
		{ErrCodeForbidden, http.StatusForbidden},
		{ErrCodeUserNotFound, http.StatusNotFound},
		{ErrCodeRoleNotFound, http.StatusNotFound},
		{ErrCodeUserAlreadyExists, http.StatusConflict},
		{ErrCodeAlreadyExists, http.StatusConflict},
		{ErrCodeInternal, http.StatusInternalServerError},
		{ErrorCode("SOMETHING_ELSE"), http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(string(tt.code), func(t *testing.T) {
			assert.Equal(t, tt.want, MapErrorCodeToHTTPStatus(tt.code))
			assert.Equal(t, tt.want, New(tt.code, "x").HTTPStatusCode())
		})
	}
}
