package observability

import (
	"context"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

// StageScope tracks one run of a pipeline stage: its span, start time and
// optional metrics.
type StageScope struct {
	Stage     string
	StartTime time.Time
	Metrics   *StageMetrics

	span trace.Span
}

// StartStage starts a span for a stage run. If metrics is nil, metric
// recording is skipped.
func StartStage(ctx context.Context, spanName, stage string, metrics *StageMetrics) (context.Context, *StageScope) {
	ctx, span := StartSpan(ctx, spanName)
	span.SetAttributes(attribute.String(AttrStage, stage))
	return ctx, &StageScope{
		Stage:     stage,
		StartTime: time.Now(),
		Metrics:   metrics,
		span:      span,
	}
}

// SetGovernor records the governor a stage ran under.
func (s *StageScope) SetGovernor(name string, limit int) {
	s.span.SetAttributes(
		attribute.String(AttrGovernor, name),
		attribute.Int(AttrLimit, limit),
	)
}

// End records the tallies and ends the span. failures counts only the stage's
// new failures. The span status is Error when every input failed.
func (s *StageScope) End(ctx context.Context, inputs, successes, failures int) {
	duration := time.Since(s.StartTime)

	s.span.SetAttributes(
		attribute.Int(AttrInputs, inputs),
		attribute.Int(AttrSuccesses, successes),
		attribute.Int(AttrFailures, failures),
		attribute.Int64(AttrDurationMs, duration.Milliseconds()),
	)
	if inputs > 0 && failures == inputs {
		s.span.SetStatus(codes.Error, "all inputs failed")
	}
	s.span.End()

	if s.Metrics != nil {
		s.Metrics.Record(ctx, s.Stage, inputs, successes, failures)
	}
}

// Duration returns the elapsed time since the stage started.
func (s *StageScope) Duration() time.Duration {
	return time.Since(s.StartTime)
}
