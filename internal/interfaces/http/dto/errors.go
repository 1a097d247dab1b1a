package dto

import (
	"net/http"
	"strings"
)

// Transport-level error codes. Domain errors carry their own codes; these
// cover the failures the HTTP layer produces itself.
const (
	ErrCodeValidationFailed   = "VALIDATION_FAILED"
	ErrCodeInvalidRequest     = "INVALID_REQUEST"
	ErrCodeUnauthorized       = "UNAUTHORIZED"
	ErrCodeForbidden          = "FORBIDDEN"
	ErrCodeNotFound           = "NOT_FOUND"
	ErrCodeConflict           = "CONFLICT"
	ErrCodeRequestTimeout     = "REQUEST_TIMEOUT"
	ErrCodeInternalError      = "INTERNAL_ERROR"
	ErrCodeServiceUnavailable = "SERVICE_UNAVAILABLE"
)

// ErrorCodeHTTPStatus maps error codes to HTTP status codes. Codes absent
// from the map fall through to the prefix rules in HTTPStatusForCode.
var ErrorCodeHTTPStatus = map[string]int{
	ErrCodeValidationFailed:   http.StatusBadRequest,
	ErrCodeInvalidRequest:     http.StatusBadRequest,
	ErrCodeUnauthorized:       http.StatusUnauthorized,
	ErrCodeForbidden:          http.StatusForbidden,
	ErrCodeNotFound:           http.StatusNotFound,
	ErrCodeConflict:           http.StatusConflict,
	ErrCodeRequestTimeout:     http.StatusRequestTimeout,
	ErrCodeInternalError:      http.StatusInternalServerError,
	ErrCodeServiceUnavailable: http.StatusServiceUnavailable,

	// shared domain errors
	"ALREADY_EXISTS":       http.StatusConflict,
	"INVALID_INPUT":        http.StatusBadRequest,
	"INVALID_STATE":        http.StatusConflict,
	"CONCURRENCY_CONFLICT": http.StatusConflict,

	// posting engine
	"UNBALANCED_POSTING": http.StatusUnprocessableEntity,
	"DUPLICATE_POSTING":  http.StatusConflict,

	// expense derivation
	"MISSING_TRIP_CATEGORY": http.StatusUnprocessableEntity,

	// auth failures surfaced by middleware
	"TOKEN_EXPIRED": http.StatusUnauthorized,
	"TOKEN_INVALID": http.StatusUnauthorized,
}

// HTTPStatusForCode resolves an error code to an HTTP status. Unmapped
// INVALID_* codes are client errors; everything else unknown is a 500.
func HTTPStatusForCode(code string) int {
	if status, ok := ErrorCodeHTTPStatus[code]; ok {
		return status
	}
	if strings.HasPrefix(code, "INVALID_") {
		return http.StatusBadRequest
	}
	if strings.HasSuffix(code, "_NOT_FOUND") {
		return http.StatusNotFound
	}
	return http.StatusInternalServerError
}
