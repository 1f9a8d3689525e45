package outcome

import (
	"iter"
	"slices"

	"github.com/kbukum/harvest/errors"
)

// transformSource tags failures recovered from a panicking synchronous fn.
const transformSource = "transform"

// Pair is one element of a cartesian product.
type Pair[T, U any] struct {
	First  T
	Second U
}

// Transform applies fn to every success. Results that fail become new
// failures, placed ahead of the failures inherited from a. A panic in fn is
// recorded as a TASK_ABORTED failure for that element, as in TransformAsync.
func Transform[T, I any](a *Aggregator[T], fn func(T) (I, error)) *Aggregator[I] {
	successes, inherited := a.take()
	out := &Aggregator[I]{successes: make([]I, 0, len(successes))}
	for _, v := range successes {
		out.Collect(apply(fn, v))
	}
	out.InheritFailures(inherited...)
	return out
}

func apply[T, I any](fn func(T) (I, error), v T) (res I, err error) {
	defer func() {
		if r := recover(); r != nil {
			var zero I
			res, err = zero, errors.TaskAborted(r).WithSource(transformSource)
		}
	}()
	return fn(v)
}

// TransformMany applies an expanding fn to every success and flattens the
// results in input order.
func TransformMany[T, I any](a *Aggregator[T], fn func(T) ([]I, error)) *Aggregator[I] {
	return Flatten(Transform(a, fn))
}

// Flatten concatenates every success sequence. Element i's items come before
// element i+1's. Failures pass through unchanged.
func Flatten[T any](a *Aggregator[[]T]) *Aggregator[T] {
	successes, failures := a.take()
	n := 0
	for _, s := range successes {
		n += len(s)
	}
	out := &Aggregator[T]{successes: make([]T, 0, n), failures: failures}
	for _, s := range successes {
		out.successes = append(out.successes, s...)
	}
	return out
}

// Explode pairs every success with every element of second. Output is grouped
// by success in input order, then by second's order.
func Explode[T, U any](a *Aggregator[T], second []U) *Aggregator[Pair[T, U]] {
	return ExplodeSeq(a, slices.Values(second))
}

// ExplodeSeq is Explode over a sequence. seq is ranged once per success, so it
// must yield the same elements every time; a single-pass sequence is not valid.
func ExplodeSeq[T, U any](a *Aggregator[T], seq iter.Seq[U]) *Aggregator[Pair[T, U]] {
	successes, failures := a.take()
	out := &Aggregator[Pair[T, U]]{failures: failures}
	for _, first := range successes {
		for second := range seq {
			out.successes = append(out.successes, Pair[T, U]{First: first, Second: second})
		}
	}
	return out
}

// Extract maps both streams in one pass and empties a. It is the consumption
// step, e.g. turning products and failures into store-tagged rows.
func Extract[T, S, F any](a *Aggregator[T], onSuccess func(T) S, onFailure func(Failure) F) ([]S, []F) {
	successes, failures := a.take()
	s := make([]S, len(successes))
	for i, v := range successes {
		s[i] = onSuccess(v)
	}
	f := make([]F, len(failures))
	for i, v := range failures {
		f[i] = onFailure(v)
	}
	return s, f
}
