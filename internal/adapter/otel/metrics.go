package otel

import (
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/metric"
)

const meterName = "overseer"

// Metrics holds all Overseer metric instruments.
type Metrics struct {
	RunsStarted    metric.Int64Counter
	RunsCompleted  metric.Int64Counter
	TasksCompleted metric.Int64Counter
	TasksFailed    metric.Int64Counter
	RunIterations  metric.Float64Histogram
	RunDuration    metric.Float64Histogram
}

// NewMetrics creates all metric instruments.
func NewMetrics() (*Metrics, error) {
	meter := otel.Meter(meterName)
	m := &Metrics{}
	var err error

	m.RunsStarted, err = meter.Int64Counter("overseer.runs.started",
		metric.WithDescription("Number of runs started"))
	if err != nil {
		return nil, err
	}

	m.RunsCompleted, err = meter.Int64Counter("overseer.runs.completed",
		metric.WithDescription("Number of runs that reached finalize"))
	if err != nil {
		return nil, err
	}

	m.TasksCompleted, err = meter.Int64Counter("overseer.tasks.completed",
		metric.WithDescription("Number of tasks completed successfully"))
	if err != nil {
		return nil, err
	}

	m.TasksFailed, err = meter.Int64Counter("overseer.tasks.failed",
		metric.WithDescription("Number of tasks that failed"))
	if err != nil {
		return nil, err
	}

	m.RunIterations, err = meter.Float64Histogram("overseer.run.iterations",
		metric.WithDescription("Loop iterations used per run"))
	if err != nil {
		return nil, err
	}

	m.RunDuration, err = meter.Float64Histogram("overseer.run.duration_seconds",
		metric.WithDescription("Run duration in seconds"))
	if err != nil {
		return nil, err
	}

	return m, nil
}
