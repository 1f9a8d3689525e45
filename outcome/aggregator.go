package outcome

import (
	stderrors "errors"
	"slices"

	"github.com/kbukum/harvest/errors"
	"github.com/kbukum/harvest/governor"
)

// Aggregator splits a batch of fallible results into an ordered success
// stream and an ordered failure stream. It never drops a failure.
//
// An Aggregator is owned by one stage at a time. Combinators consume their
// input and leave it empty; keep the returned value instead.
type Aggregator[T any] struct {
	successes []T
	failures  []Failure
}

// New returns an empty Aggregator.
func New[T any]() *Aggregator[T] {
	return &Aggregator[T]{}
}

// FromSlice seeds an Aggregator in which every item is a success.
func FromSlice[T any](items []T) *Aggregator[T] {
	return &Aggregator[T]{successes: slices.Clone(items)}
}

// FromError seeds an Aggregator with no successes and a single failure. Use it
// when a pipeline cannot even build its seed collection, so later stages see
// one inherited failure instead of an error escaping the pipeline.
func FromError[T any](err error) *Aggregator[T] {
	return &Aggregator[T]{failures: []Failure{NewFailure(err)}}
}

// FromResults collects governor results in order. Aborted tasks and tasks that
// returned an error both become failures.
func FromResults[T any](results []governor.Result[T]) *Aggregator[T] {
	a := &Aggregator[T]{successes: make([]T, 0, len(results))}
	for _, r := range results {
		a.Collect(r.Value, r.Err)
	}
	return a
}

// Successes returns a copy of the successes in order.
func (a *Aggregator[T]) Successes() []T { return slices.Clone(a.successes) }

// Failures returns a copy of the failures in order.
func (a *Aggregator[T]) Failures() []Failure { return slices.Clone(a.failures) }

// SuccessCount returns the number of successes.
func (a *Aggregator[T]) SuccessCount() int { return len(a.successes) }

// FailureCount returns the number of failures, inherited ones included.
func (a *Aggregator[T]) FailureCount() int { return len(a.failures) }

// Len returns successes plus failures.
func (a *Aggregator[T]) Len() int { return len(a.successes) + len(a.failures) }

// IsEmpty reports whether the Aggregator holds nothing at all.
func (a *Aggregator[T]) IsEmpty() bool { return a.Len() == 0 }

// Err joins every failure into one error, or returns nil when there are none.
func (a *Aggregator[T]) Err() error {
	if len(a.failures) == 0 {
		return nil
	}
	errs := make([]error, len(a.failures))
	for i, f := range a.failures {
		errs[i] = f
	}
	return stderrors.Join(errs...)
}

// Messages returns the failure messages in order.
func (a *Aggregator[T]) Messages() []string {
	msgs := make([]string, len(a.failures))
	for i, f := range a.failures {
		msgs[i] = f.Message
	}
	return msgs
}

// Collect records one outcome: v when err is nil, a failure otherwise.
func (a *Aggregator[T]) Collect(v T, err error) {
	if err != nil {
		a.failures = append(a.failures, NewFailure(err))
		return
	}
	a.successes = append(a.successes, v)
}

// CollectMany records an expanding outcome: every item of vs when err is nil,
// a single failure otherwise.
func (a *Aggregator[T]) CollectMany(vs []T, err error) {
	if err != nil {
		a.failures = append(a.failures, NewFailure(err))
		return
	}
	a.successes = append(a.successes, vs...)
}

// CollectFrom records an outcome under an explicit source tag.
func (a *Aggregator[T]) CollectFrom(source string, v T, err error) {
	a.Collect(v, errors.Tag(source, err))
}

// Extend appends other's successes and failures and empties other.
func (a *Aggregator[T]) Extend(other *Aggregator[T]) {
	successes, failures := other.take()
	a.successes = append(a.successes, successes...)
	a.failures = append(a.failures, failures...)
}

// InheritFailures appends failures carried over from an upstream stage.
func (a *Aggregator[T]) InheritFailures(failures ...Failure) {
	a.failures = append(a.failures, failures...)
}

// Inherit moves src's failures onto dst, whatever src's element type. src's
// successes are left in place.
func Inherit[T, U any](dst *Aggregator[T], src *Aggregator[U]) {
	dst.failures = append(dst.failures, src.failures...)
	src.failures = nil
}

// take hands the contents to the caller and leaves the Aggregator empty.
func (a *Aggregator[T]) take() ([]T, []Failure) {
	successes, failures := a.successes, a.failures
	a.successes, a.failures = nil, nil
	return successes, failures
}
