package errors

// ErrorCode represents a machine-readable error code.
type ErrorCode string

// Operation errors, produced by units of work or the governor running them.
const (
	// ErrCodeOperationFailed indicates a unit of work returned an error.
	ErrCodeOperationFailed ErrorCode = "OPERATION_FAILED"
	// ErrCodeTaskAborted indicates a unit of work did not run to completion
	// inside the governor (for example, it panicked).
	ErrCodeTaskAborted ErrorCode = "TASK_ABORTED"
	// ErrCodeSeedFailed indicates a pipeline could not build its seed collection.
	ErrCodeSeedFailed ErrorCode = "SEED_FAILED"
)

// Collaborator errors. The engine never creates these itself.
const (
	// ErrCodeConnectionFailed indicates a remote resource could not be fetched.
	ErrCodeConnectionFailed ErrorCode = "CONNECTION_FAILED"
	// ErrCodeParseFailed indicates a fetched resource could not be parsed.
	ErrCodeParseFailed ErrorCode = "PARSE_FAILED"
	// ErrCodeNoOutput indicates an operation succeeded but produced nothing.
	ErrCodeNoOutput ErrorCode = "NO_OUTPUT"
)

// Configuration errors
const (
	// ErrCodeInvalidConfig indicates a configuration value is invalid.
	ErrCodeInvalidConfig ErrorCode = "INVALID_CONFIG"
	// ErrCodeMissingField indicates a required field is missing.
	ErrCodeMissingField ErrorCode = "MISSING_FIELD"
	// ErrCodeInvalidFormat indicates a field has an invalid format.
	ErrCodeInvalidFormat ErrorCode = "INVALID_FORMAT"
)

// Internal errors
const (
	// ErrCodeInternal indicates an unexpected internal error.
	ErrCodeInternal ErrorCode = "INTERNAL_ERROR"
)

var knownCodes = map[ErrorCode]bool{
	ErrCodeOperationFailed:  true,
	ErrCodeTaskAborted:      true,
	ErrCodeSeedFailed:       true,
	ErrCodeConnectionFailed: true,
	ErrCodeParseFailed:      true,
	ErrCodeNoOutput:         true,
	ErrCodeInvalidConfig:    true,
	ErrCodeMissingField:     true,
	ErrCodeInvalidFormat:    true,
	ErrCodeInternal:         true,
}

// IsKnownCode reports whether code is one of the codes defined in this package.
func IsKnownCode(code ErrorCode) bool {
	return knownCodes[code]
}
