package metrics

import (
	"context"
	"log"
	"sync"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

// AppMetrics holds the application's metric instruments.
type AppMetrics struct {
	PipelineRequestsTotal   metric.Int64Counter
	PipelineDurationSeconds metric.Float64Histogram
	FallbacksTotal          metric.Int64Counter
	UpstreamErrorsTotal     metric.Int64Counter
	PlacesReturned          metric.Int64Histogram
}

var (
	appMetrics *AppMetrics
	once       sync.Once
)

// InitAppMetrics initializes the global metrics instruments ONLY ONCE.
// It gets the Meter from the globally configured MeterProvider.
func InitAppMetrics() {
	once.Do(func() {
		meter := otel.GetMeterProvider().Meter("ChatRecommendations")
		m, err := New(meter)
		if err != nil {
			log.Fatalf("Metrics: %v", err)
		}
		log.Println("Application metrics instruments initialized.")
		appMetrics = m
	})
}

// New builds the instruments on the given meter.
func New(meter metric.Meter) (*AppMetrics, error) {
	var err error
	m := &AppMetrics{}

	m.PipelineRequestsTotal, err = meter.Int64Counter(
		"recommendation_pipeline_requests_total",
		metric.WithDescription("Total number of recommendation pipeline runs"),
		metric.WithUnit("{request}"),
	)
	if err != nil {
		return nil, err
	}

	m.PipelineDurationSeconds, err = meter.Float64Histogram(
		"recommendation_pipeline_duration_seconds",
		metric.WithDescription("Duration of a full recommendation pipeline run"),
		metric.WithUnit("s"),
	)
	if err != nil {
		return nil, err
	}

	m.FallbacksTotal, err = meter.Int64Counter(
		"recommendation_fallbacks_total",
		metric.WithDescription("Number of times a pipeline stage used its deterministic fallback"),
		metric.WithUnit("{fallback}"),
	)
	if err != nil {
		return nil, err
	}

	m.UpstreamErrorsTotal, err = meter.Int64Counter(
		"upstream_errors_total",
		metric.WithDescription("Errors returned by the text analyzer or place backend"),
		metric.WithUnit("{error}"),
	)
	if err != nil {
		return nil, err
	}

	m.PlacesReturned, err = meter.Int64Histogram(
		"recommendation_places_returned",
		metric.WithDescription("Number of personalized places in a pipeline response"),
		metric.WithUnit("{place}"),
	)
	if err != nil {
		return nil, err
	}
	return m, nil
}

// Get returns the globally initialized AppMetrics instance.
// Panics if InitAppMetrics was not called first.
func Get() *AppMetrics {
	if appMetrics == nil {
		panic("metrics instruments not initialized. Call metrics.InitAppMetrics() first.")
	}
	return appMetrics
}

// RecordFallback counts one fallback for the named stage.
func (m *AppMetrics) RecordFallback(ctx context.Context, stage string) {
	if m == nil {
		return
	}
	m.FallbacksTotal.Add(ctx, 1, metric.WithAttributes(attribute.String("stage", stage)))
}

// RecordUpstreamError counts one failed call against a collaborator.
func (m *AppMetrics) RecordUpstreamError(ctx context.Context, upstream, operation string) {
	if m == nil {
		return
	}
	m.UpstreamErrorsTotal.Add(ctx, 1, metric.WithAttributes(
		attribute.String("upstream", upstream),
		attribute.String("operation", operation),
	))
}

// RecordPipeline records one finished pipeline run.
func (m *AppMetrics) RecordPipeline(ctx context.Context, source string, elapsed time.Duration, places int) {
	if m == nil {
		return
	}
	attrs := metric.WithAttributes(attribute.String("source", source))
	m.PipelineRequestsTotal.Add(ctx, 1, attrs)
	m.PipelineDurationSeconds.Record(ctx, elapsed.Seconds(), attrs)
	m.PlacesReturned.Record(ctx, int64(places), attrs)
}
