package response

import (
	"errors"
	"fmt"
	"net/http"
)

// ErrCode identifies one member of the closed set of API failures.
type ErrCode string

const (
	// ─── Pagination ────────────────────────────────────────────────────
	ErrMissingParameters ErrCode = "MISSING_PARAMETERS"
	ErrParseParameter    ErrCode = "PARSE_ERROR"
	ErrInvalidRange      ErrCode = "INVALID_RANGE"

	// ─── Payload ───────────────────────────────────────────────────────
	ErrInvalidPayload ErrCode = "INVALID_PAYLOAD"

	// ─── Transport ─────────────────────────────────────────────────────
	ErrCorsForbidden     ErrCode = "CORS_FORBIDDEN"
	ErrRateLimitExceeded ErrCode = "RATE_LIMIT_EXCEEDED"
	ErrRouteNotFound     ErrCode = "ROUTE_NOT_FOUND"

	// ─── Server ────────────────────────────────────────────────────────
	ErrInternal ErrCode = "INTERNAL_ERROR"
)

// GetMessage returns the fixed display text for a given error code.
func GetMessage(code ErrCode) string {
	switch code {
	case ErrMissingParameters:
		return "Missing parameter"
	case ErrParseParameter:
		return "Cannot parse parameter"
	case ErrInvalidRange:
		return "Invalid range"
	case ErrInvalidPayload:
		return "Invalid question payload"
	case ErrCorsForbidden:
		return "CORS request forbidden: origin not allowed"
	case ErrRateLimitExceeded:
		return "Too many requests"
	case ErrRouteNotFound:
		return "Route not found"
	default:
		return "Internal server error"
	}
}

// StatusOf returns the HTTP status a code renders with.
func StatusOf(code ErrCode) int {
	switch code {
	case ErrMissingParameters, ErrParseParameter, ErrInvalidRange, ErrInvalidPayload:
		return http.StatusRequestedRangeNotSatisfiable
	case ErrCorsForbidden:
		return http.StatusForbidden
	case ErrRateLimitExceeded:
		return http.StatusTooManyRequests
	case ErrRouteNotFound:
		return http.StatusNotFound
	default:
		return http.StatusInternalServerError
	}
}

// Error is a structured failure carried from a handler to the boundary
// translator. Err holds the diagnostic detail, if any.
type Error struct {
	Code ErrCode
	Err  error
}

// NewError wraps err under code. err may be nil.
func NewError(code ErrCode, err error) *Error {
	return &Error{Code: code, Err: err}
}

// Errorf builds an Error whose detail is a formatted message.
func Errorf(code ErrCode, format string, args ...any) *Error {
	return &Error{Code: code, Err: fmt.Errorf(format, args...)}
}

func (e *Error) Error() string {
	if e.Err == nil {
		return GetMessage(e.Code)
	}
	return GetMessage(e.Code) + ": " + e.Err.Error()
}

func (e *Error) Unwrap() error { return e.Err }

// Status returns the HTTP status for e.
func (e *Error) Status() int { return StatusOf(e.Code) }

// AsError extracts the structured error from err's chain.
// Anything unrecognized is reported as ErrInternal.
func AsError(err error) *Error {
	var apiErr *Error
	if errors.As(err, &apiErr) {
		return apiErr
	}
	return &Error{Code: ErrInternal, Err: err}
}

// IsCode reports whether err carries the given code.
func IsCode(err error, code ErrCode) bool {
	var apiErr *Error
	return errors.As(err, &apiErr) && apiErr.Code == code
}
