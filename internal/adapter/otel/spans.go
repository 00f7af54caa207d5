// Package otel instruments the orchestration loop and HTTP surface through
// the OpenTelemetry global API. Provider installation is left to the
// embedding environment; without one, all instruments are no-ops.
package otel

import (
	"context"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

const tracerName = "overseer"

// StartRunSpan starts a span covering one full orchestration run.
func StartRunSpan(ctx context.Context, runID, objective string) (context.Context, trace.Span) {
	return otel.Tracer(tracerName).Start(ctx, "run",
		trace.WithAttributes(
			attribute.String("run.id", runID),
			attribute.String("run.objective", objective),
		),
	)
}

// StartIterationSpan starts a span for one DECIDE→SYNC loop pass.
func StartIterationSpan(ctx context.Context, runID string, iteration int, action string) (context.Context, trace.Span) {
	return otel.Tracer(tracerName).Start(ctx, "iteration",
		trace.WithAttributes(
			attribute.String("run.id", runID),
			attribute.Int("iteration", iteration),
			attribute.String("action", action),
		),
	)
}

// StartTaskSpan starts a span for one task execution delegation.
func StartTaskSpan(ctx context.Context, runID string, taskID int, tools []string) (context.Context, trace.Span) {
	return otel.Tracer(tracerName).Start(ctx, "task",
		trace.WithAttributes(
			attribute.String("run.id", runID),
			attribute.Int("task.id", taskID),
			attribute.StringSlice("task.tools", tools),
		),
	)
}
