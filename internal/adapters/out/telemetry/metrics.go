package telemetry

import (
	"context"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

// Metrics holds the translation metric instruments.
type Metrics struct {
	TranslateTotal    metric.Int64Counter
	TranslateErrors   metric.Int64Counter
	TranslateDuration metric.Float64Histogram
}

// NewMetrics creates the instruments on meter.
// All fields are always initialized; a noop meter yields noop instruments.
func NewMetrics(meter metric.Meter) (*Metrics, error) {
	m := &Metrics{}
	var err error

	if m.TranslateTotal, err = meter.Int64Counter("virtdock.translate.total",
		metric.WithDescription("Total number of config translations")); err != nil {
		return nil, err
	}
	if m.TranslateErrors, err = meter.Int64Counter("virtdock.translate.errors",
		metric.WithDescription("Failed config translations by error kind")); err != nil {
		return nil, err
	}
	if m.TranslateDuration, err = meter.Float64Histogram("virtdock.translate.duration_seconds",
		metric.WithDescription("Config translation duration in seconds"),
		metric.WithUnit("s"),
		metric.WithExplicitBucketBoundaries(0.00001, 0.0001, 0.001, 0.01, 0.1)); err != nil {
		return nil, err
	}

	return m, nil
}

// RecordTranslation implements out.TranslationRecorder.
func (m *Metrics) RecordTranslation(ctx context.Context, elapsed time.Duration, kind string) {
	m.TranslateTotal.Add(ctx, 1)
	m.TranslateDuration.Record(ctx, elapsed.Seconds())
	if kind != "" {
		m.TranslateErrors.Add(ctx, 1, metric.WithAttributes(
			attribute.String("kind", kind),
		))
	}
}
