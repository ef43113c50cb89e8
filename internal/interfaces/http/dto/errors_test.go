package dto

import (
	"encoding/json"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetHTTPStatus(t *testing.T) {
	tests := []struct {
		code     string
		expected int
	}{
		{ErrCodeUnknown, http.StatusInternalServerError},
		{ErrCodeInternal, http.StatusInternalServerError},
		{ErrCodeValidation, http.StatusBadRequest},
		{ErrCodeUnauthorized, http.StatusUnauthorized},
		{ErrCodeInvalidCredentials, http.StatusUnauthorized},
		{ErrCodeForbidden, http.StatusForbidden},
		{ErrCodeTokenExpired, http.StatusUnauthorized},
		{ErrCodeNotFound, http.StatusNotFound},
		{ErrCodeAlreadyExists, http.StatusConflict},
		{ErrCodeConcurrencyConflict, http.StatusConflict},
		{ErrCodeInvalidState, http.StatusUnprocessableEntity},
		{ErrCodeRateLimited, http.StatusTooManyRequests},
		{ErrCodeSchemaOutOfDate, http.StatusServiceUnavailable},
		{ErrCodePrintingDisabled, http.StatusServiceUnavailable},
		{ErrCodeFileTooLarge, http.StatusRequestEntityTooLarge},
		// Fallbacks
		{"ERR_INVALID_PINCODE", http.StatusBadRequest},
		{"ERR_PAYMENT_EXCEEDS_BALANCE", http.StatusUnprocessableEntity},
		{"ERR_ORDER_NOT_BILLABLE", http.StatusUnprocessableEntity},
		{"ERR_FINAL_INVOICE_EXISTS", http.StatusConflict},
		{"UNKNOWN_CODE", http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.code, func(t *testing.T) {
			assert.Equal(t, tt.expected, GetHTTPStatus(tt.code))
		})
	}
}

func TestNormalizeErrorCode(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{"NOT_FOUND", ErrCodeNotFound},
		{"ALREADY_EXISTS", ErrCodeAlreadyExists},
		{"INVALID_STATE", ErrCodeInvalidState},
		{"CONCURRENCY_CONFLICT", ErrCodeConcurrencyConflict},
		{"SCHEMA_OUT_OF_DATE", ErrCodeSchemaOutOfDate},
		{"PRINTING_DISABLED", ErrCodePrintingDisabled},
		{"PHONE_EXISTS", ErrCodeAlreadyExists},
		{"INTERNAL_ERROR", ErrCodeInternal},
		{"PINCODE_NOT_SERVICEABLE", "ERR_PINCODE_NOT_SERVICEABLE"},
		// Already normalized codes pass through unchanged
		{ErrCodeNotFound, ErrCodeNotFound},
		{"", ErrCodeUnknown},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			assert.Equal(t, tt.expected, NormalizeErrorCode(tt.input))
		})
	}
}

func TestSchemaOutOfDateCarriesRemediation(t *testing.T) {
	resp := NewErrorResponseWithRequestID(ErrCodeSchemaOutOfDate, "Database schema is out of date", "req-1")

	body, err := json.Marshal(resp)
	require.NoError(t, err)

	var decoded map[string]any
	require.NoError(t, json.Unmarshal(body, &decoded))
	errInfo := decoded["error"].(map[string]any)
	assert.Equal(t, "req-1", errInfo["request_id"])
	steps, ok := errInfo["remediation"].([]any)
	require.True(t, ok)
	assert.Len(t, steps, len(SchemaRemediation))

	other := NewErrorResponse(ErrCodeNotFound, "Order not found")
	assert.Nil(t, other.Error.Remediation)
}

func TestNewSuccessResponseWithMeta(t *testing.T) {
	tests := []struct {
		name          string
		total         int64
		page, size    int
		expectedPages int
	}{
		{"exact", 40, 1, 20, 2},
		{"remainder", 41, 3, 20, 3},
		{"empty", 0, 1, 20, 0},
		{"zero page size", 5, 0, 0, 1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp := NewSuccessResponseWithMeta([]int{}, tt.total, tt.page, tt.size)
			require.NotNil(t, resp.Meta)
			assert.True(t, resp.Success)
			assert.Equal(t, tt.expectedPages, resp.Meta.TotalPages)
			assert.GreaterOrEqual(t, resp.Meta.Page, 1)
		})
	}
}
