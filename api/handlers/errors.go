// ABOUTME: Error handling utilities for API handlers
// ABOUTME: Converts domain, editor and worker errors to HTTP problem responses

package handlers

import (
	"errors"

	"github.com/danielgtaylor/huma/v2"

	"hostgenie-api/core/editor"
	coreerrors "hostgenie-api/core/errors"
	"hostgenie-api/core/workers"
)

// toHumaError converts domain errors to appropriate Huma HTTP errors
func toHumaError(err error) error {
	if err == nil {
		return nil
	}

	switch {
	case errors.Is(err, editor.ErrSessionClosed):
		return huma.Error410Gone(err.Error())
	case errors.Is(err, editor.ErrGenerating):
		return huma.Error409Conflict(err.Error())
	case coreerrors.IsNotFound(err):
		return huma.Error404NotFound(err.Error())
	case coreerrors.IsValidation(err):
		return huma.Error400BadRequest(err.Error())
	case coreerrors.IsForbidden(err):
		return huma.Error403Forbidden(err.Error())
	case coreerrors.IsMutation(err):
		return huma.Error422UnprocessableEntity(err.Error())
	}

	var workerErr *workers.WorkerError
	if errors.As(err, &workerErr) {
		if workerErr == workers.ErrQueueFull {
			return huma.Error429TooManyRequests("Generation queue is full")
		}
		return huma.Error503ServiceUnavailable("Generation is unavailable", err)
	}

	var apiErr *coreerrors.ExternalAPIError
	if errors.As(err, &apiErr) {
		switch {
		case apiErr.StatusCode >= 500:
			return huma.Error503ServiceUnavailable("External service error", err)
		case apiErr.StatusCode == 429:
			return huma.Error429TooManyRequests("Rate limited by external service")
		case apiErr.StatusCode >= 400:
			return huma.Error400BadRequest("External service request error", err)
		default:
			return huma.Error500InternalServerError("Unexpected external service response", err)
		}
	}

	return huma.Error500InternalServerError("Internal server error", err)
}
