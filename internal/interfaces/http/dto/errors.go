package dto

import "net/http"

// Error code constants
const (
	ErrCodeInternal     = "ERR_INTERNAL"
	ErrCodeBadRequest   = "ERR_BAD_REQUEST"
	ErrCodeInvalidInput = "ERR_INVALID_INPUT"
	ErrCodeNotFound     = "ERR_NOT_FOUND"
	ErrCodeConflict     = "ERR_CONFLICT"
	ErrCodeInvalidState = "ERR_INVALID_STATE"
)

// ErrorCodeHTTPStatus maps error codes to HTTP status codes
var ErrorCodeHTTPStatus = map[string]int{
	ErrCodeInternal:     http.StatusInternalServerError,
	ErrCodeBadRequest:   http.StatusBadRequest,
	ErrCodeInvalidInput: http.StatusBadRequest,
	ErrCodeNotFound:     http.StatusNotFound,
	ErrCodeConflict:     http.StatusConflict,
	ErrCodeInvalidState: http.StatusUnprocessableEntity,
}

// GetHTTPStatus returns the HTTP status code for an error code.
// Unknown codes fall back to 500.
func GetHTTPStatus(code string) int {
	if status, ok := ErrorCodeHTTPStatus[code]; ok {
		return status
	}
	return http.StatusInternalServerError
}

// domainErrorCodeMapping maps domain error codes to the API error codes
var domainErrorCodeMapping = map[string]string{
	"NOT_FOUND":         ErrCodeNotFound,
	"ALREADY_EXISTS":    ErrCodeConflict,
	"INVALID_INPUT":     ErrCodeInvalidInput,
	"INVALID_STATUS":    ErrCodeInvalidInput,
	"INVALID_STATE":     ErrCodeInvalidState,
	"ORDER_CANCELLED":   ErrCodeInvalidState,
	"UNKNOWN_COUNTRY":      ErrCodeInvalidInput,
	"CONFLICTING_TERMS":    ErrCodeInvalidInput,
	"INVALID_COUNTRY":      ErrCodeInvalidInput,
	"INVALID_ORDER_NUMBER": ErrCodeInvalidInput,
	"INVALID_CLIENT":       ErrCodeInvalidInput,
	"INVALID_QUANTITY":     ErrCodeInvalidInput,
	"INVALID_PRICE":        ErrCodeInvalidInput,
	"INVALID_DEPOSIT":      ErrCodeInvalidInput,
	"INVALID_PAYMENT":      ErrCodeInvalidInput,
	"ALREADY_PAID":         ErrCodeInvalidState,
	"NOT_SHIPPED":          ErrCodeInvalidState,
}

// NormalizeErrorCode converts a domain error code to the API format.
// Unknown codes pass through unchanged and map to 500.
func NormalizeErrorCode(code string) string {
	if apiCode, ok := domainErrorCodeMapping[code]; ok {
		return apiCode
	}
	return code
}
