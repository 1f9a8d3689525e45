package outcome

import (
	"context"

	"github.com/kbukum/harvest/governor"
	"github.com/kbukum/harvest/logger"
	"github.com/kbukum/harvest/observability"
)

const defaultStageName = "transform_async"

// StageOption configures an async stage.
type StageOption func(*stageOptions)

type stageOptions struct {
	name    string
	metrics *observability.StageMetrics
	log     *logger.Logger
}

// WithStageName names the stage in spans, logs and metrics.
func WithStageName(name string) StageOption {
	return func(o *stageOptions) {
		if name != "" {
			o.name = name
		}
	}
}

// WithStageMetrics counts the stage's inputs, successes and new failures.
func WithStageMetrics(m *observability.StageMetrics) StageOption {
	return func(o *stageOptions) { o.metrics = m }
}

// WithStageLogger replaces the outcome component logger.
func WithStageLogger(l *logger.Logger) StageOption {
	return func(o *stageOptions) { o.log = l }
}

func newStageOptions(opts []StageOption) *stageOptions {
	o := &stageOptions{name: defaultStageName}
	for _, opt := range opts {
		opt(o)
	}
	if o.log == nil {
		o.log = logger.Get("outcome")
	}
	return o
}

// TransformAsync runs fn once per success through g and zips each result back
// to its input position. Errors and aborted tasks become new failures, placed
// ahead of the failures inherited from a. This is the only place a pipeline's
// remote work meets a concurrency limit.
func TransformAsync[T, I any](
	ctx context.Context,
	a *Aggregator[T],
	g governor.Governor,
	fn func(context.Context, T) (I, error),
	opts ...StageOption,
) *Aggregator[I] {
	o := newStageOptions(opts)
	successes, inherited := a.take()

	ctx, scope := observability.StartStage(ctx, observability.SpanTransformAsync, o.name, o.metrics)
	scope.SetGovernor(g.Name(), g.Limit())

	tasks := make([]governor.Task[I], len(successes))
	for i, v := range successes {
		tasks[i] = func(ctx context.Context) (I, error) { return fn(ctx, v) }
	}
	out := FromResults(governor.Run(ctx, g, tasks))

	newFailures := out.FailureCount()
	out.InheritFailures(inherited...)

	scope.End(ctx, len(successes), out.SuccessCount(), newFailures)
	fields := logger.CountFields(o.name, len(successes), out.SuccessCount(), newFailures)
	fields[logger.FieldGovernor] = g.Name()
	o.log.Debug("stage finished", logger.MergeWithDuration(fields, scope.Duration()))
	return out
}

// TransformAsyncMany is TransformAsync for an expanding fn, flattened in
// input order.
func TransformAsyncMany[T, I any](
	ctx context.Context,
	a *Aggregator[T],
	g governor.Governor,
	fn func(context.Context, T) ([]I, error),
	opts ...StageOption,
) *Aggregator[I] {
	return Flatten(TransformAsync(ctx, a, g, fn, opts...))
}
