package model

import (
	"errors"
	"net/http"
)

// Error codes surfaced in the response envelope.
const (
	ErrCodeWorkNotFound    = "WRK001"
	ErrCodeNoPermission    = "WRK002"
	ErrCodeNotPublic       = "WRK003"
	ErrCodeInvalidStatus   = "WRK004"
	ErrCodeAlreadyTemplate = "WRK005"
	ErrCodeChannelDup      = "WRK006"
	ErrCodeChannelFailed   = "WRK007"
	ErrCodeChannelLastOne  = "WRK008"
)

// Sentinel errors. A deleted work is indistinguishable from an absent one,
// so both surface ErrWorkNotFound.
var (
	ErrWorkNotFound = errors.New("work not found")

	// ErrNoPermission is the generic ability denial; ErrNotPublic is the
	// endpoint-specific variant for reading someone else's private work.
	ErrNoPermission = errors.New("no permission on this work")
	ErrNotPublic    = errors.New("work is not public")

	// ErrInvalidTransition covers every failed lifecycle precondition,
	// including the one detected by the conditional write losing a race.
	ErrInvalidTransition = errors.New("invalid status transition")
	ErrAlreadyTemplate   = errors.New("work is already a template")

	ErrChannelDuplicate = errors.New("channel name already exists")
	// ErrChannelOperateFailed is deliberately generic: the loser of a
	// write-time race gets it instead of a duplicate report, so callers
	// cannot infer timing.
	ErrChannelOperateFailed = errors.New("channel operate failed")
	ErrChannelLastOne       = errors.New("at least one channel must remain")
)

// ErrorCode maps a domain error to its stable code.
func ErrorCode(err error) string {
	switch {
	case errors.Is(err, ErrWorkNotFound):
		return ErrCodeWorkNotFound
	case errors.Is(err, ErrNotPublic):
		return ErrCodeNotPublic
	case errors.Is(err, ErrNoPermission):
		return ErrCodeNoPermission
	case errors.Is(err, ErrAlreadyTemplate):
		return ErrCodeAlreadyTemplate
	case errors.Is(err, ErrInvalidTransition):
		return ErrCodeInvalidStatus
	case errors.Is(err, ErrChannelDuplicate):
		return ErrCodeChannelDup
	case errors.Is(err, ErrChannelLastOne):
		return ErrCodeChannelLastOne
	case errors.Is(err, ErrChannelOperateFailed):
		return ErrCodeChannelFailed
	default:
		return "INTERNAL_SERVER_ERROR"
	}
}

// GetHTTPStatusCode maps a domain error to the transport status. Anything
// outside the taxonomy is an unexpected failure and stays a 500.
func GetHTTPStatusCode(err error) int {
	switch {
	case errors.Is(err, ErrWorkNotFound):
		return http.StatusNotFound
	case errors.Is(err, ErrNoPermission), errors.Is(err, ErrNotPublic):
		return http.StatusForbidden
	case errors.Is(err, ErrInvalidTransition), errors.Is(err, ErrAlreadyTemplate):
		return http.StatusUnprocessableEntity
	case errors.Is(err, ErrChannelDuplicate),
		errors.Is(err, ErrChannelOperateFailed),
		errors.Is(err, ErrChannelLastOne):
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}
