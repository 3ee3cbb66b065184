package common

import (
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestErrorCode(t *testing.T) {
	cases := []struct {
		err  error
		code string
	}{
		{ErrNotFound, "NOT_FOUND"},
		{ErrInvalidInput, "INVALID_INPUT"},
		{ErrPermissionDenied, "PERMISSION_DENIED"},
		{ErrNotAuthorized, "NOT_AUTHORIZED"},
		{ErrInvalidState, "INVALID_STATE"},
		{ErrDuplicateActiveRequest, "DUPLICATE_ACTIVE_REQUEST"},
		{ErrChannelNotActive, "CHANNEL_NOT_ACTIVE"},
		{ErrRateLimitExceeded, "RATE_LIMIT_EXCEEDED"},
		{fmt.Errorf("something else"), "INTERNAL_ERROR"},
	}

	for _, tc := range cases {
		assert.Equal(t, tc.code, ErrorCode(tc.err))
	}
}

func TestErrorCodeUnwrapsContext(t *testing.T) {
	wrapped := fmt.Errorf("%w: channel is closed", ErrChannelNotActive)
	assert.Equal(t, "CHANNEL_NOT_ACTIVE", ErrorCode(wrapped))
	assert.Equal(t, http.StatusConflict, HTTPStatus(wrapped))
}

func TestHTTPStatus(t *testing.T) {
	assert.Equal(t, http.StatusNotFound, HTTPStatus(ErrNotFound))
	assert.Equal(t, http.StatusBadRequest, HTTPStatus(ErrInvalidInput))
	assert.Equal(t, http.StatusForbidden, HTTPStatus(ErrPermissionDenied))
	assert.Equal(t, http.StatusForbidden, HTTPStatus(ErrNotAuthorized))
	assert.Equal(t, http.StatusConflict, HTTPStatus(ErrInvalidState))
	assert.Equal(t, http.StatusConflict, HTTPStatus(ErrDuplicateActiveRequest))
	assert.Equal(t, http.StatusTooManyRequests, HTTPStatus(ErrRateLimitExceeded))
	assert.Equal(t, http.StatusInternalServerError, HTTPStatus(fmt.Errorf("boom")))
}
