// ABOUTME: Custom error types for the editor core and site services
// ABOUTME: Provides structured errors so handlers and tests can tell failure classes apart

package errors

import (
	"errors"
	"fmt"
)

// NotFoundError represents a resource not found error
type NotFoundError struct {
	Resource string
	ID       string
}

// Error implements the error interface
func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s not found: %s", e.Resource, e.ID)
}

// ValidationError represents a validation error
type ValidationError struct {
	Field   string
	Message string
}

// Error implements the error interface
func (e *ValidationError) Error() string {
	return fmt.Sprintf("validation error on field '%s': %s", e.Field, e.Message)
}

// ExternalAPIError represents an error from an external API
type ExternalAPIError struct {
	StatusCode int
	Message    string
	API        string
}

// Error implements the error interface
func (e *ExternalAPIError) Error() string {
	return fmt.Sprintf("external API error from %s: %d - %s", e.API, e.StatusCode, e.Message)
}

// ForbiddenError represents an operation the resource owner has not allowed
type ForbiddenError struct {
	Resource string
	Reason   string
}

// Error implements the error interface
func (e *ForbiddenError) Error() string {
	return fmt.Sprintf("%s forbidden: %s", e.Resource, e.Reason)
}

// MutationError reports a document mutation that was not applied.
// The document the mutation targeted is left untouched.
type MutationError struct {
	Kind     string
	Selector string
	Err      error
}

// Error implements the error interface
func (e *MutationError) Error() string {
	if e.Selector == "" {
		return fmt.Sprintf("%s mutation failed: %v", e.Kind, e.Err)
	}
	return fmt.Sprintf("%s mutation on %q failed: %v", e.Kind, e.Selector, e.Err)
}

// Unwrap returns the underlying cause
func (e *MutationError) Unwrap() error {
	return e.Err
}

// IsNotFound checks if an error is a NotFoundError
func IsNotFound(err error) bool {
	var notFoundErr *NotFoundError
	return errors.As(err, &notFoundErr)
}

// IsValidation checks if an error is a ValidationError
func IsValidation(err error) bool {
	var validationErr *ValidationError
	return errors.As(err, &validationErr)
}

// IsExternalAPI checks if an error is an ExternalAPIError
func IsExternalAPI(err error) bool {
	var apiErr *ExternalAPIError
	return errors.As(err, &apiErr)
}

// IsForbidden checks if an error is a ForbiddenError
func IsForbidden(err error) bool {
	var forbiddenErr *ForbiddenError
	return errors.As(err, &forbiddenErr)
}

// IsMutation checks if an error is a MutationError
func IsMutation(err error) bool {
	var mutationErr *MutationError
	return errors.As(err, &mutationErr)
}

// WrapError wraps an error with additional context
func WrapError(err error, message string) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%s: %w", message, err)
}
