package errors

import (
	stderrors "errors"
	"maps"
)

// IsAppError checks if an error is an AppError.
func IsAppError(err error) bool {
	var appErr *AppError
	return stderrors.As(err, &appErr)
}

// AsAppError converts an error to an AppError if possible.
func AsAppError(err error) (*AppError, bool) {
	var appErr *AppError
	if stderrors.As(err, &appErr) {
		return appErr, true
	}
	return nil, false
}

// Tag attaches a source tag to err without modifying it. An error whose chain
// already carries a source is returned as is. An untagged AppError is copied
// with the tag set, and an AppError wrapped deeper keeps its code under a new
// tagged layer. Any other error is wrapped as OPERATION_FAILED. A nil err
// stays nil.
//
// Tag is safe on shared sentinel errors: each call tags its own value.
func Tag(source string, err error) error {
	if err == nil {
		return nil
	}
	if SourceOf(err) != "" {
		return err
	}
	if appErr, ok := err.(*AppError); ok {
		cp := *appErr
		cp.Source = source
		cp.Details = maps.Clone(appErr.Details)
		return &cp
	}
	if appErr, ok := AsAppError(err); ok {
		return &AppError{Code: appErr.Code, Message: err.Error(), Source: source, Cause: err}
	}
	return OperationFailed(source, err)
}

// SourceOf returns the first non-empty source tag found in err's chain.
func SourceOf(err error) string {
	for err != nil {
		if appErr, ok := err.(*AppError); ok && appErr.Source != "" {
			return appErr.Source
		}
		err = stderrors.Unwrap(err)
	}
	return ""
}

// CodeOf returns the code of the outermost AppError in err's chain, or the
// empty code when there is none.
func CodeOf(err error) ErrorCode {
	if appErr, ok := AsAppError(err); ok {
		return appErr.Code
	}
	return ""
}

// IsCode reports whether err's chain contains an AppError with the given code.
func IsCode(err error, code ErrorCode) bool {
	for err != nil {
		if appErr, ok := err.(*AppError); ok && appErr.Code == code {
			return true
		}
		err = stderrors.Unwrap(err)
	}
	return false
}
