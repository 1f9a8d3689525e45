package errors

import (
	"fmt"
)

// AppError is the unified error type.
type AppError struct {
	// Code is a machine-readable error code.
	Code ErrorCode `json:"code"`
	// Message is a human-readable error message.
	Message string `json:"message"`
	// Source identifies the collaborator that produced the error, if known.
	Source string `json:"source,omitempty"`
	// Details contains additional context for the error.
	Details map[string]any `json:"details,omitempty"`
	// Cause is the underlying error that caused this error.
	Cause error `json:"-"`
}

// Error returns the string representation of the error.
func (e *AppError) Error() string {
	prefix := string(e.Code)
	if e.Source != "" {
		prefix = fmt.Sprintf("%s [%s]", e.Code, e.Source)
	}
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s (cause: %v)", prefix, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s: %s", prefix, e.Message)
}

// Unwrap returns the underlying cause of the error.
func (e *AppError) Unwrap() error { return e.Cause }

// WithCause sets the underlying cause of the error and returns the receiver.
func (e *AppError) WithCause(cause error) *AppError {
	e.Cause = cause
	return e
}

// WithSource sets the source tag and returns the receiver.
func (e *AppError) WithSource(source string) *AppError {
	e.Source = source
	return e
}

// WithDetails merges the provided details into the error and returns the receiver.
func (e *AppError) WithDetails(details map[string]any) *AppError {
	if e.Details == nil {
		e.Details = make(map[string]any, len(details))
	}
	for k, v := range details {
		e.Details[k] = v
	}
	return e
}

// WithDetail sets a single detail key-value pair and returns the receiver.
func (e *AppError) WithDetail(key string, value any) *AppError {
	if e.Details == nil {
		e.Details = make(map[string]any)
	}
	e.Details[key] = value
	return e
}

// New creates a new AppError.
func New(code ErrorCode, message string) *AppError {
	return &AppError{Code: code, Message: message}
}

// Newf creates a new AppError with a formatted message.
func Newf(code ErrorCode, format string, args ...any) *AppError {
	return &AppError{Code: code, Message: fmt.Sprintf(format, args...)}
}

// --- Operation errors ---

// OperationFailed wraps the error returned by a unit of work.
func OperationFailed(source string, cause error) *AppError {
	msg := "operation failed"
	if cause != nil {
		msg = cause.Error()
	}
	return &AppError{Code: ErrCodeOperationFailed, Message: msg, Source: source, Cause: cause}
}

// TaskAborted reports a unit of work that did not run to completion, such as
// a panic recovered by the governor.
func TaskAborted(reason any) *AppError {
	e := &AppError{
		Code:    ErrCodeTaskAborted,
		Message: fmt.Sprintf("task aborted: %v", reason),
		Source:  "governor",
	}
	if err, ok := reason.(error); ok {
		e.Cause = err
	}
	return e
}

// SeedFailed reports that a pipeline could not build its seed collection.
func SeedFailed(source string, cause error) *AppError {
	return &AppError{
		Code: ErrCodeSeedFailed, Message: "failed to build seed collection",
		Source: source, Cause: cause,
	}
}

// --- Collaborator errors ---

// ConnectionFailed reports a remote resource that could not be fetched.
func ConnectionFailed(url string, cause error) *AppError {
	return &AppError{
		Code: ErrCodeConnectionFailed, Message: fmt.Sprintf("failed to connect to url: %s", url),
		Details: map[string]any{"url": url}, Cause: cause,
	}
}

// ParseFailed reports a fetched resource that could not be parsed.
func ParseFailed(source string, cause error) *AppError {
	return &AppError{
		Code: ErrCodeParseFailed, Message: fmt.Sprintf("failed to parse a scraped value in %q", source),
		Source: source, Cause: cause,
	}
}

// NoOutput reports an operation that succeeded without producing anything.
// The engine does not treat empty expansions as failures; callers that do
// construct this error themselves.
func NoOutput(source, url string) *AppError {
	return &AppError{
		Code: ErrCodeNoOutput, Message: fmt.Sprintf("no output found at %s", url),
		Source: source, Details: map[string]any{"url": url},
	}
}

// --- Configuration errors ---

// InvalidConfig reports an invalid configuration value.
func InvalidConfig(field, reason string) *AppError {
	details := make(map[string]any)
	if field != "" {
		details["field"] = field
	}
	return &AppError{
		Code: ErrCodeInvalidConfig, Message: fmt.Sprintf("invalid config: %s", reason),
		Details: details,
	}
}

// Validation creates an AppError for aggregated validation messages.
func Validation(message string) *AppError {
	return &AppError{Code: ErrCodeInvalidConfig, Message: message}
}

// MissingField creates an AppError for a missing required field.
func MissingField(field string) *AppError {
	return &AppError{
		Code: ErrCodeMissingField, Message: fmt.Sprintf("missing required field: %s", field),
		Details: map[string]any{"field": field},
	}
}

// InvalidFormat creates an AppError for an invalid field format.
func InvalidFormat(field, expectedFormat string) *AppError {
	return &AppError{
		Code: ErrCodeInvalidFormat, Message: fmt.Sprintf("invalid format for %s, expected: %s", field, expectedFormat),
		Details: map[string]any{"field": field, "expected_format": expectedFormat},
	}
}

// Internal creates an AppError for an unexpected internal error.
func Internal(cause error) *AppError {
	return &AppError{Code: ErrCodeInternal, Message: "an unexpected error occurred", Cause: cause}
}
