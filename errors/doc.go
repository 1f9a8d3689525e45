// Package errors provides the structured error type shared by the harvest
// engine and its collaborators.
//
// Every failure recorded by an outcome.Aggregator is an opaque record with a
// human-readable message and an optional source tag. AppError carries both,
// plus a machine-readable code and an optional cause, so collaborators that
// want to classify failures can do so without the engine interpreting them.
//
//	err := errors.ConnectionFailed(url, cause).WithSource("jumbo")
//	errors.SourceOf(err) // "jumbo"
package errors
