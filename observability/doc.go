// Package observability wires OpenTelemetry tracing and metrics into the
// engine.
//
// Tracing:
//
//	tp, err := observability.InitTracer(ctx, &cfg)
//	defer tp.Shutdown(ctx)
//
// Metrics:
//
//	mp, err := observability.InitMeter(ctx, &mcfg)
//	defer mp.Shutdown(ctx)
//
//	inst, err := observability.NewInstruments(nil)
//	g := governor.NewBounded(5, governor.WithMetrics(inst.Governors))
//	out := outcome.TransformAsync(ctx, in, g, fetch, outcome.WithStageMetrics(inst.Stages))
//
// Governors record permit acquisition and task completion through
// GovernorMetrics. Async stages open a StageScope that ends with the stage's
// input, success and failure tallies. Without InitMeter/InitTracer the
// global no-op providers are used.
package observability
