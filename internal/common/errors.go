package common

import (
	"errors"
	"net/http"
)

// Business logic errors
var (
	// General errors
	ErrNotFound     = errors.New("resource not found")
	ErrInvalidInput = errors.New("invalid input")

	// Policy errors
	ErrPermissionDenied = errors.New("permission denied by privacy policy")
	ErrNotAuthorized    = errors.New("caller is not the correct party")

	// Lifecycle errors
	ErrInvalidState           = errors.New("operation not valid for current state")
	ErrDuplicateActiveRequest = errors.New("an active request already exists for this pair")
	ErrChannelNotActive       = errors.New("chat channel is not active")

	// Moderation errors
	ErrRateLimitExceeded = errors.New("message rate limit exceeded")
)

// ErrorCode returns the stable machine-readable code for an engine error.
// The UI layer keys localized messaging off these codes.
func ErrorCode(err error) string {
	switch {
	case errors.Is(err, ErrNotFound):
		return "NOT_FOUND"
	case errors.Is(err, ErrInvalidInput):
		return "INVALID_INPUT"
	case errors.Is(err, ErrPermissionDenied):
		return "PERMISSION_DENIED"
	case errors.Is(err, ErrNotAuthorized):
		return "NOT_AUTHORIZED"
	case errors.Is(err, ErrInvalidState):
		return "INVALID_STATE"
	case errors.Is(err, ErrDuplicateActiveRequest):
		return "DUPLICATE_ACTIVE_REQUEST"
	case errors.Is(err, ErrChannelNotActive):
		return "CHANNEL_NOT_ACTIVE"
	case errors.Is(err, ErrRateLimitExceeded):
		return "RATE_LIMIT_EXCEEDED"
	default:
		return "INTERNAL_ERROR"
	}
}

// HTTPStatus maps an engine error to an HTTP status code
func HTTPStatus(err error) int {
	switch {
	case errors.Is(err, ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, ErrInvalidInput):
		return http.StatusBadRequest
	case errors.Is(err, ErrPermissionDenied), errors.Is(err, ErrNotAuthorized):
		return http.StatusForbidden
	case errors.Is(err, ErrInvalidState),
		errors.Is(err, ErrDuplicateActiveRequest),
		errors.Is(err, ErrChannelNotActive):
		return http.StatusConflict
	case errors.Is(err, ErrRateLimitExceeded):
		return http.StatusTooManyRequests
	default:
		return http.StatusInternalServerError
	}
}
