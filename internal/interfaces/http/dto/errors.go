package dto

import (
	"net/http"
	"strings"
)

// Error code constants organized by category
// Format: ERR_<CATEGORY>_<DESCRIPTION>

// General error codes
const (
	// ErrCodeUnknown is used when the error type is unknown
	ErrCodeUnknown = "ERR_UNKNOWN"
	// ErrCodeInternal is used for internal server errors
	ErrCodeInternal = "ERR_INTERNAL"
	// ErrCodeSchemaOutOfDate is used when the database schema lags behind the build
	ErrCodeSchemaOutOfDate = "ERR_SCHEMA_OUT_OF_DATE"
	// ErrCodePrintingDisabled is used when PDF rendering is switched off
	ErrCodePrintingDisabled = "ERR_PRINTING_DISABLED"
)

// Validation error codes
const (
	// ErrCodeValidation is the base code for validation errors
	ErrCodeValidation = "ERR_VALIDATION"
	// ErrCodeValidationRequired is used when a required field is missing
	ErrCodeValidationRequired = "ERR_VALIDATION_REQUIRED"
	// ErrCodeValidationFormat is used when a field has invalid format
	ErrCodeValidationFormat = "ERR_VALIDATION_FORMAT"
	// ErrCodeValidationRange is used when a value is out of range
	ErrCodeValidationRange = "ERR_VALIDATION_RANGE"
	// ErrCodeValidationLength is used when a field length is invalid
	ErrCodeValidationLength = "ERR_VALIDATION_LENGTH"
)

// Authentication error codes
const (
	// ErrCodeUnauthorized is used when authentication is required but missing/invalid
	ErrCodeUnauthorized = "ERR_UNAUTHORIZED"
	// ErrCodeForbidden is used when the user lacks permission
	ErrCodeForbidden = "ERR_FORBIDDEN"
	// ErrCodeTokenExpired is used when the auth token has expired
	ErrCodeTokenExpired = "ERR_TOKEN_EXPIRED"
	// ErrCodeTokenInvalid is used when the auth token is invalid
	ErrCodeTokenInvalid = "ERR_TOKEN_INVALID"
	// ErrCodeTokenRevoked is used when the auth token was logged out
	ErrCodeTokenRevoked = "ERR_TOKEN_REVOKED"
	// ErrCodeInvalidCredentials is used when login fails
	ErrCodeInvalidCredentials = "ERR_INVALID_CREDENTIALS"
	// ErrCodeAccountDisabled is used when a deactivated user signs in
	ErrCodeAccountDisabled = "ERR_ACCOUNT_DISABLED"
)

// Resource error codes
const (
	// ErrCodeNotFound is used when a resource is not found
	ErrCodeNotFound = "ERR_NOT_FOUND"
	// ErrCodeAlreadyExists is used when trying to create a duplicate resource
	ErrCodeAlreadyExists = "ERR_ALREADY_EXISTS"
	// ErrCodeConflict is used for general resource conflicts
	ErrCodeConflict = "ERR_CONFLICT"
	// ErrCodeConcurrencyConflict is used when optimistic locking fails
	ErrCodeConcurrencyConflict = "ERR_CONCURRENCY_CONFLICT"
	// ErrCodeFileTooLarge is used when an upload exceeds the size limit
	ErrCodeFileTooLarge = "ERR_FILE_TOO_LARGE"
	// ErrCodeUnsupportedFileType is used when an upload has a disallowed type
	ErrCodeUnsupportedFileType = "ERR_UNSUPPORTED_FILE_TYPE"
)

// Business rule error codes
const (
	// ErrCodeInvalidState is used when an operation is invalid for current state
	ErrCodeInvalidState = "ERR_INVALID_STATE"
	// ErrCodeBusinessRule is used for generic business rule violations
	ErrCodeBusinessRule = "ERR_BUSINESS_RULE"
)

// Input error codes
const (
	// ErrCodeBadRequest is used for malformed requests
	ErrCodeBadRequest = "ERR_BAD_REQUEST"
	// ErrCodeInvalidInput is used for invalid input data
	ErrCodeInvalidInput = "ERR_INVALID_INPUT"
	// ErrCodeInvalidJSON is used when JSON parsing fails
	ErrCodeInvalidJSON = "ERR_INVALID_JSON"
	// ErrCodePayloadTooLarge is used when the request body exceeds the limit
	ErrCodePayloadTooLarge = "ERR_PAYLOAD_TOO_LARGE"
)

// Rate limiting error codes
const (
	// ErrCodeRateLimited is used when rate limit is exceeded
	ErrCodeRateLimited = "ERR_RATE_LIMITED"
)

// Rendering error codes
const (
	ErrCodeRenderTimeout  = "ERR_RENDER_TIMEOUT"
	ErrCodeRenderFailed   = "ERR_RENDER_FAILED"
	ErrCodeTemplateFailed = "ERR_TEMPLATE_FAILED"
	ErrCodeStorageFailed  = "ERR_STORAGE_FAILED"
)

// ErrorCodeHTTPStatus maps error codes to HTTP status codes. Codes not
// listed fall back to 400 for ERR_INVALID_* and 422 for other business
// rules, see GetHTTPStatus.
var ErrorCodeHTTPStatus = map[string]int{
	// General errors
	ErrCodeUnknown:          http.StatusInternalServerError,
	ErrCodeInternal:         http.StatusInternalServerError,
	ErrCodeSchemaOutOfDate:  http.StatusServiceUnavailable,
	ErrCodePrintingDisabled: http.StatusServiceUnavailable,

	// Validation errors -> 400 Bad Request
	ErrCodeValidation:         http.StatusBadRequest,
	ErrCodeValidationRequired: http.StatusBadRequest,
	ErrCodeValidationFormat:   http.StatusBadRequest,
	ErrCodeValidationRange:    http.StatusBadRequest,
	ErrCodeValidationLength:   http.StatusBadRequest,
	"ERR_EMPTY_FILE":          http.StatusBadRequest,

	// Auth errors
	ErrCodeUnauthorized:       http.StatusUnauthorized,
	ErrCodeForbidden:          http.StatusForbidden,
	ErrCodeTokenExpired:       http.StatusUnauthorized,
	ErrCodeTokenInvalid:       http.StatusUnauthorized,
	ErrCodeTokenRevoked:       http.StatusUnauthorized,
	"ERR_TOKEN_MAX_REFRESH":   http.StatusUnauthorized,
	ErrCodeInvalidCredentials: http.StatusUnauthorized,
	ErrCodeAccountDisabled:    http.StatusForbidden,

	// Resource errors
	ErrCodeNotFound:                  http.StatusNotFound,
	ErrCodeAlreadyExists:             http.StatusConflict,
	ErrCodeConflict:                  http.StatusConflict,
	ErrCodeConcurrencyConflict:       http.StatusConflict,
	"ERR_IDEMPOTENCY_IN_PROGRESS":    http.StatusConflict,
	"ERR_PINCODE_ALREADY_MAPPED":     http.StatusConflict,
	"ERR_ACTIVE_SUBSCRIPTION_EXISTS": http.StatusConflict,
	"ERR_FINAL_INVOICE_EXISTS":       http.StatusConflict,
	ErrCodeFileTooLarge:              http.StatusRequestEntityTooLarge,
	ErrCodeUnsupportedFileType:       http.StatusUnsupportedMediaType,

	// Business rule errors -> 422 Unprocessable Entity
	ErrCodeInvalidState: http.StatusUnprocessableEntity,
	ErrCodeBusinessRule: http.StatusUnprocessableEntity,

	// Input errors -> 400 Bad Request
	ErrCodeBadRequest:      http.StatusBadRequest,
	ErrCodeInvalidInput:    http.StatusBadRequest,
	ErrCodeInvalidJSON:     http.StatusBadRequest,
	ErrCodePayloadTooLarge: http.StatusRequestEntityTooLarge,

	// Rate limiting -> 429 Too Many Requests
	ErrCodeRateLimited: http.StatusTooManyRequests,

	// Rendering and storage
	ErrCodeRenderTimeout:  http.StatusGatewayTimeout,
	ErrCodeRenderFailed:   http.StatusInternalServerError,
	ErrCodeTemplateFailed: http.StatusInternalServerError,
	ErrCodeStorageFailed:  http.StatusInternalServerError,
	"ERR_INVALID_HTML":    http.StatusInternalServerError,
}

// GetHTTPStatus returns the HTTP status code for an error code.
// Unlisted ERR_INVALID_* codes are input errors (400), other unlisted
// ERR_* codes are business rule violations (422) and anything else is 500.
func GetHTTPStatus(code string) int {
	if status, ok := ErrorCodeHTTPStatus[code]; ok {
		return status
	}
	switch {
	case strings.HasPrefix(code, "ERR_INVALID_"):
		return http.StatusBadRequest
	case strings.HasSuffix(code, "_EXISTS"):
		return http.StatusConflict
	case strings.HasPrefix(code, "ERR_"):
		return http.StatusUnprocessableEntity
	}
	return http.StatusInternalServerError
}

// DomainErrorCodeMapping maps domain error codes whose API code is not
// simply ERR_<code>
var DomainErrorCodeMapping = map[string]string{
	"VALIDATION_ERROR":         ErrCodeValidation,
	"INTERNAL_ERROR":           ErrCodeInternal,
	"PASSWORD_HASH_ERROR":      ErrCodeInternal,
	"EMAIL_EXISTS":             ErrCodeAlreadyExists,
	"PHONE_EXISTS":             ErrCodeAlreadyExists,
	"CODE_EXISTS":              ErrCodeAlreadyExists,
	"EMAIL_ALREADY_REGISTERED": ErrCodeAlreadyExists,
	"PHONE_ALREADY_REGISTERED": ErrCodeAlreadyExists,
	"BRANCH_CODE_EXISTS":       ErrCodeAlreadyExists,
	"PLAN_CODE_EXISTS":         ErrCodeAlreadyExists,
	"SERVICE_CODE_EXISTS":      ErrCodeAlreadyExists,
}

// NormalizeErrorCode converts a domain error code to its API form.
// Codes already in the ERR_ format are returned unchanged.
func NormalizeErrorCode(code string) string {
	if code == "" {
		return ErrCodeUnknown
	}
	if strings.HasPrefix(code, "ERR_") {
		return code
	}
	if mapped, ok := DomainErrorCodeMapping[code]; ok {
		return mapped
	}
	return "ERR_" + code
}

// SchemaRemediation lists the steps front-ends display when the database
// schema is behind the running build
var SchemaRemediation = []string{
	"Back up the database before changing its schema.",
	"Run `migrate up` (cmd/migrate) against the configured database.",
	"If the schema is marked dirty, fix the failed migration and run `migrate force <version>` before retrying.",
	"Restart the API server once `migrate version` reports the latest version.",
}

// RemediationFor returns manual remediation steps for an API error code
func RemediationFor(code string) []string {
	if code == ErrCodeSchemaOutOfDate {
		return SchemaRemediation
	}
	return nil
}
