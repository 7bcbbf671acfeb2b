package eval

import (
	"context"
	"sync"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

const instrumentationName = "github.com/vk/block/internal/eval"

var meter = otel.Meter(instrumentationName)

// Metrics for evaluation passes.
var (
	passesTotal   metric.Int64Counter
	nodesComputed metric.Int64Counter
	failuresTotal metric.Int64Counter
	passDuration  metric.Float64Histogram

	metricsOnce sync.Once
	metricsErr  error
)

// initMetrics creates the instruments. Safe to call multiple times.
func initMetrics() error {
	metricsOnce.Do(func() {
		var err error

		passesTotal, err = meter.Int64Counter(
			"block_eval_passes_total",
			metric.WithDescription("Total number of evaluation passes"),
		)
		if err != nil {
			metricsErr = err
			return
		}

		nodesComputed, err = meter.Int64Counter(
			"block_eval_nodes_computed_total",
			metric.WithDescription("Total number of blocks computed across passes"),
		)
		if err != nil {
			metricsErr = err
			return
		}

		failuresTotal, err = meter.Int64Counter(
			"block_eval_failures_total",
			metric.WithDescription("Total number of failed evaluation passes"),
		)
		if err != nil {
			metricsErr = err
			return
		}

		passDuration, err = meter.Float64Histogram(
			"block_eval_pass_duration_seconds",
			metric.WithDescription("Duration of evaluation passes"),
			metric.WithUnit("s"),
		)
		if err != nil {
			metricsErr = err
			return
		}
	})
	return metricsErr
}

// recordPass records the outcome of one pass.
func recordPass(ctx context.Context, computed int, duration time.Duration, err error) {
	if initMetrics() != nil {
		return
	}
	ok := attribute.Bool("success", err == nil)
	passesTotal.Add(ctx, 1, metric.WithAttributes(ok))
	nodesComputed.Add(ctx, int64(computed))
	passDuration.Record(ctx, duration.Seconds(), metric.WithAttributes(ok))
	if err != nil {
		failuresTotal.Add(ctx, 1)
	}
}
