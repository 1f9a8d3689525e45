package observability

import (
	"context"
	"fmt"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

// Task status values recorded on governor.tasks.total.
const (
	StatusOK      = "ok"
	StatusError   = "error"
	StatusAborted = "aborted"
)

// GovernorMetrics holds instruments describing admission through a governor.
type GovernorMetrics struct {
	tasksTotal   metric.Int64Counter
	permitsInUse metric.Int64UpDownCounter
	waitDuration metric.Float64Histogram
	taskDuration metric.Float64Histogram
}

// NewGovernorMetrics creates governor instruments on the given meter.
func NewGovernorMetrics(meter metric.Meter) (*GovernorMetrics, error) {
	tasksTotal, err := meter.Int64Counter("governor.tasks.total",
		metric.WithDescription("Tasks completed by a governor, by status"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating governor.tasks.total counter: %w", err)
	}

	permitsInUse, err := meter.Int64UpDownCounter("governor.permits.in_use",
		metric.WithDescription("Permits currently held"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating governor.permits.in_use gauge: %w", err)
	}

	waitDuration, err := meter.Float64Histogram("governor.wait.duration",
		metric.WithDescription("Time from submission until a unit is admitted"),
		metric.WithUnit("s"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating governor.wait.duration histogram: %w", err)
	}

	taskDuration, err := meter.Float64Histogram("governor.task.duration",
		metric.WithDescription("Time spent running admitted work"),
		metric.WithUnit("s"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating governor.task.duration histogram: %w", err)
	}

	return &GovernorMetrics{
		tasksTotal:   tasksTotal,
		permitsInUse: permitsInUse,
		waitDuration: waitDuration,
		taskDuration: taskDuration,
	}, nil
}

// RecordAcquire marks a permit as held after waiting for it.
func (m *GovernorMetrics) RecordAcquire(ctx context.Context, governor string, wait time.Duration) {
	attrs := metric.WithAttributes(attribute.String(AttrGovernor, governor))
	m.permitsInUse.Add(ctx, 1, attrs)
	m.waitDuration.Record(ctx, wait.Seconds(), attrs)
}

// RecordRelease marks a permit as returned and counts the finished task.
func (m *GovernorMetrics) RecordRelease(ctx context.Context, governor, status string, duration time.Duration) {
	attrs := metric.WithAttributes(attribute.String(AttrGovernor, governor))
	m.permitsInUse.Add(ctx, -1, attrs)
	m.taskDuration.Record(ctx, duration.Seconds(), attrs)
	m.tasksTotal.Add(ctx, 1, metric.WithAttributes(
		attribute.String(AttrGovernor, governor),
		attribute.String(AttrStatus, status),
	))
}

// StageMetrics counts what flows through a pipeline stage.
type StageMetrics struct {
	inputsTotal    metric.Int64Counter
	successesTotal metric.Int64Counter
	failuresTotal  metric.Int64Counter
}

// NewStageMetrics creates stage instruments on the given meter.
func NewStageMetrics(meter metric.Meter) (*StageMetrics, error) {
	inputsTotal, err := meter.Int64Counter("stage.inputs.total",
		metric.WithDescription("Successes fed into a stage"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating stage.inputs.total counter: %w", err)
	}

	successesTotal, err := meter.Int64Counter("stage.successes.total",
		metric.WithDescription("Successes produced by a stage"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating stage.successes.total counter: %w", err)
	}

	failuresTotal, err := meter.Int64Counter("stage.failures.total",
		metric.WithDescription("New failures produced by a stage, inherited ones excluded"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating stage.failures.total counter: %w", err)
	}

	return &StageMetrics{
		inputsTotal:    inputsTotal,
		successesTotal: successesTotal,
		failuresTotal:  failuresTotal,
	}, nil
}

// Record adds one stage run's tallies.
func (m *StageMetrics) Record(ctx context.Context, stage string, inputs, successes, failures int) {
	attrs := metric.WithAttributes(attribute.String(AttrStage, stage))
	m.inputsTotal.Add(ctx, int64(inputs), attrs)
	m.successesTotal.Add(ctx, int64(successes), attrs)
	m.failuresTotal.Add(ctx, int64(failures), attrs)
}
