package handlers

import (
	"fmt"
	"testing"

	"github.com/danielgtaylor/huma/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"hostgenie-api/core/editor"
	"hostgenie-api/core/errors"
	"hostgenie-api/core/workers"
)

func TestToHumaError(t *testing.T) {
	tests := []struct {
		name           string
		input          error
		expectedStatus int
		expectedDetail string
	}{
		{
			name:           "NotFoundError returns 404",
			input:          &errors.NotFoundError{Resource: "session", ID: "abc"},
			expectedStatus: 404,
			expectedDetail: "session not found: abc",
		},
		{
			name:           "ValidationError returns 400",
			input:          &errors.ValidationError{Field: "selector", Message: "selector is required"},
			expectedStatus: 400,
			expectedDetail: "selector is required",
		},
		{
			name:           "ForbiddenError returns 403",
			input:          &errors.ForbiddenError{Resource: "site", Reason: "owned by another user"},
			expectedStatus: 403,
			expectedDetail: "owned by another user",
		},
		{
			name:           "MutationError wrapping NotFound returns 404",
			input:          &errors.MutationError{Kind: "text", Selector: "#x", Err: &errors.NotFoundError{Resource: "element", ID: "#x"}},
			expectedStatus: 404,
			expectedDetail: "element not found",
		},
		{
			name:           "other MutationError returns 422",
			input:          &errors.MutationError{Kind: "style", Selector: "p", Err: fmt.Errorf("broken")},
			expectedStatus: 422,
			expectedDetail: "style mutation",
		},
		{
			name:           "closed session returns 410",
			input:          editor.ErrSessionClosed,
			expectedStatus: 410,
			expectedDetail: "closed",
		},
		{
			name:           "running generation returns 409",
			input:          editor.ErrGenerating,
			expectedStatus: 409,
			expectedDetail: "already running",
		},
		{
			name:           "full generation queue returns 429",
			input:          workers.ErrQueueFull,
			expectedStatus: 429,
			expectedDetail: "queue is full",
		},
		{
			name:           "stopped pool returns 503",
			input:          workers.ErrWorkerStopped,
			expectedStatus: 503,
			expectedDetail: "unavailable",
		},
		{
			name:           "ExternalAPIError with 502 returns 503",
			input:          &errors.ExternalAPIError{StatusCode: 502, Message: "all keys failed", API: "ai"},
			expectedStatus: 503,
			expectedDetail: "External service error",
		},
		{
			name:           "ExternalAPIError with 429 returns 429",
			input:          &errors.ExternalAPIError{StatusCode: 429, Message: "rate limited"},
			expectedStatus: 429,
			expectedDetail: "Rate limited by external service",
		},
		{
			name:           "ExternalAPIError with 400 returns 400",
			input:          &errors.ExternalAPIError{StatusCode: 400, Message: "bad request"},
			expectedStatus: 400,
			expectedDetail: "External service request error",
		},
		{
			name:           "ExternalAPIError with unexpected status returns 500",
			input:          &errors.ExternalAPIError{StatusCode: 200, Message: "ok but error"},
			expectedStatus: 500,
			expectedDetail: "Unexpected external service response",
		},
		{
			name:           "wrapped NotFoundError returns 404",
			input:          fmt.Errorf("wrapped: %w", &errors.NotFoundError{Resource: "site", ID: "x"}),
			expectedStatus: 404,
			expectedDetail: "site not found",
		},
		{
			name:           "unknown error returns 500",
			input:          fmt.Errorf("some unknown error"),
			expectedStatus: 500,
			expectedDetail: "Internal server error",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			humaErr, ok := toHumaError(tt.input).(*huma.ErrorModel)
			require.True(t, ok, "expected huma.ErrorModel")
			assert.Equal(t, tt.expectedStatus, humaErr.Status)
			assert.Contains(t, humaErr.Detail, tt.expectedDetail)
		})
	}
}

func TestToHumaError_Nil(t *testing.T) {
	assert.Nil(t, toHumaError(nil))
}
