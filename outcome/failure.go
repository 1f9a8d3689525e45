package outcome

import (
	"time"

	"github.com/google/uuid"

	"github.com/kbukum/harvest/errors"
)

// Failure is the opaque record kept for every input that did not succeed.
//
// Consumers may rely on Message and Source only. The wrapped error is kept for
// errors.Is/As and logging, never for control flow inside the engine.
type Failure struct {
	// ID distinguishes failures with identical messages.
	ID uuid.UUID
	// Message is the human-readable failure text.
	Message string
	// Source names the collaborator that produced the failure, if known.
	Source string
	// At is when the failure was recorded.
	At time.Time

	err error
}

// NewFailure records err. The source tag is taken from err's chain when present.
func NewFailure(err error) Failure {
	if err == nil {
		err = errors.New(errors.ErrCodeInternal, "nil error recorded as a failure")
	}
	return Failure{
		ID:      uuid.New(),
		Message: err.Error(),
		Source:  errors.SourceOf(err),
		At:      time.Now(),
		err:     err,
	}
}

// NewFailureFrom records err under an explicit source tag.
func NewFailureFrom(source string, err error) Failure {
	f := NewFailure(err)
	f.Source = source
	return f
}

// Error implements error so a Failure can be joined or wrapped like any other.
func (f Failure) Error() string { return f.Message }

// Err returns the recorded error.
func (f Failure) Err() error {
	if f.err == nil {
		return errors.New(errors.ErrCodeInternal, f.Message)
	}
	return f.err
}

// Unwrap exposes the recorded error to errors.Is and errors.As.
func (f Failure) Unwrap() error { return f.err }

// String renders the failure with its source tag.
func (f Failure) String() string {
	if f.Source == "" {
		return f.Message
	}
	return "[" + f.Source + "] " + f.Message
}
