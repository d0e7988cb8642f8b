// Package observability traces and times calls to external language services.
package observability

import (
	"context"
	"errors"
	"time"

	"github.com/localnerve/lexideck/internal/types"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

const tracerName = "github.com/localnerve/lexideck"

// ExternalDuration records the latency of every external call by service and outcome.
var ExternalDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
	Name:    "lexideck_external_request_duration_seconds",
	Help:    "Duration of calls to external translation, dictionary and scoring services.",
	Buckets: []float64{0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30},
}, []string{"service", "outcome"})

// Tracer returns the package tracer from the global provider
func Tracer() trace.Tracer {
	return otel.Tracer(tracerName)
}

// ObserveExternal runs fn inside a span named after service and records its duration.
func ObserveExternal(ctx context.Context, service string, fn func(ctx context.Context) error) error {
	ctx, span := Tracer().Start(ctx, service, trace.WithSpanKind(trace.SpanKindClient))
	defer span.End()

	start := time.Now()
	err := fn(ctx)
	outcome := Outcome(err)
	ExternalDuration.WithLabelValues(service, outcome).Observe(time.Since(start).Seconds())

	span.SetAttributes(attribute.String("lexideck.outcome", outcome))
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, outcome)
	}
	return err
}

// Outcome classifies an error for metric labels
func Outcome(err error) string {
	switch {
	case err == nil:
		return "ok"
	case errors.Is(err, context.DeadlineExceeded):
		return "timeout"
	case errors.Is(err, context.Canceled):
		return "canceled"
	case types.KindOf(err) == types.KindUnavailable:
		return "unavailable"
	}
	return "error"
}
