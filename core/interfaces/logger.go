package interfaces

// Logger defines the interface for logging throughout the application.
// The production implementation wraps logrus; tests use recording mocks.
//
// Example usage:
//
//	logger.Info("Mutation applied", map[string]interface{}{
//		"session_id": id,
//		"kind":       "style",
//	})
//
//	logger.Warn("Draft save failed", map[string]interface{}{
//		"owner_id": owner,
//		"error":    err.Error(),
//	})
type Logger interface {
	// Debug logs a debug level message with optional structured fields.
	Debug(msg string, fields map[string]interface{})

	// Info logs an info level message with optional structured fields.
	Info(msg string, fields map[string]interface{})

	// Warn logs a warning level message with optional structured fields.
	// Warning messages indicate potential issues that don't prevent operation.
	Warn(msg string, fields map[string]interface{})

	// Error logs an error level message with optional structured fields.
	Error(msg string, fields map[string]interface{})
}

// NopLogger discards everything. Useful as a default when no logger is injected.
type NopLogger struct{}

func (NopLogger) Debug(msg string, fields map[string]interface{}) {}
func (NopLogger) Info(msg string, fields map[string]interface{})  {}
func (NopLogger) Warn(msg string, fields map[string]interface{})  {}
func (NopLogger) Error(msg string, fields map[string]interface{}) {}
