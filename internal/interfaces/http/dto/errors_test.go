package dto

import (
	"encoding/json"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/ventureflow/backend/internal/domain/shared"
)

func TestGetHTTPStatus(t *testing.T) {
	tests := []struct {
		code     string
		expected int
	}{
		{ErrCodeInternal, http.StatusInternalServerError},
		{ErrCodeValidation, http.StatusUnprocessableEntity},
		{ErrCodeUnauthorized, http.StatusUnauthorized},
		{ErrCodeInvalidCredentials, http.StatusUnauthorized},
		{ErrCodeAccountLocked, http.StatusLocked},
		{ErrCodeForbidden, http.StatusForbidden},
		{ErrCodeNotFound, http.StatusNotFound},
		{ErrCodeAlreadyExists, http.StatusConflict},
		{ErrCodeInvalidState, http.StatusUnprocessableEntity},
		{ErrCodeBadRequest, http.StatusBadRequest},
		{ErrCodeRequestTooLarge, http.StatusRequestEntityTooLarge},
		{ErrCodeRateLimited, http.StatusTooManyRequests},
		// Unknown code should return 500
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
		{"ACCOUNT_LOCKED", ErrCodeAccountLocked},
		{"TOKEN_MAX_REFRESH", ErrCodeTokenMaxRefresh},
		// Already normalized codes are returned unchanged
		{ErrCodeNotFound, ErrCodeNotFound},
		{"SOMETHING_NEW", "SOMETHING_NEW"},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			assert.Equal(t, tt.expected, NormalizeErrorCode(tt.input))
		})
	}
}

func TestNewPageResponse(t *testing.T) {
	page := shared.NewPaginated([]string(nil), 25, 4, shared.FixedPageSize)
	body, err := json.Marshal(NewPageResponse(page))
	require.NoError(t, err)

	assert.JSONEq(t, `{
		"success": true,
		"data": [],
		"meta": {"total": 25, "current_page": 4, "per_page": 10, "last_page": 3}
	}`, string(body))
}

func TestNewValidationErrorResponse(t *testing.T) {
	verr := shared.NewValidationError("stage_code", "Unknown stage code")
	verr.Add("name", "This field is required")

	body, err := json.Marshal(NewValidationErrorResponse("Request validation failed", "req-1", FromValidationError(verr)))
	require.NoError(t, err)

	assert.JSONEq(t, `{
		"success": false,
		"data": null,
		"error": {
			"code": "ERR_VALIDATION",
			"message": "Request validation failed",
			"request_id": "req-1",
			"details": [
				{"field": "stage_code", "message": "Unknown stage code"},
				{"field": "name", "message": "This field is required"}
			]
		}
	}`, string(body))
}
