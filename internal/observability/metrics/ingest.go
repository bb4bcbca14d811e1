package metrics

import (
	"context"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

const (
	ingestMeterName = "flock.ingest"
)

const (
	OutcomeAccepted    = "accepted"
	OutcomeMalformed   = "malformed"
	OutcomeUnavailable = "unavailable"
	OutcomeError       = "error"

	NotificationSent      = "sent"
	NotificationFailed    = "failed"
	NotificationDuplicate = "duplicate"
)

type IngestMetrics struct {
	readings       metric.Int64Counter
	transitions    metric.Int64Counter
	notifications  metric.Int64Counter
	ingestDuration metric.Float64Histogram
}

func NewIngestMetrics() (*IngestMetrics, error) {
	meter := otel.Meter(ingestMeterName)

	readings, err := meter.Int64Counter(
		"flock_readings_total",
		metric.WithDescription("Total number of tag readings received"),
		metric.WithUnit("{reading}"),
	)
	if err != nil {
		return nil, err
	}

	transitions, err := meter.Int64Counter(
		"flock_transitions_total",
		metric.WithDescription("Episode transitions by kind"),
		metric.WithUnit("{transition}"),
	)
	if err != nil {
		return nil, err
	}

	notifications, err := meter.Int64Counter(
		"flock_notifications_total",
		metric.WithDescription("Alert notifications by transition and outcome"),
		metric.WithUnit("{notification}"),
	)
	if err != nil {
		return nil, err
	}

	ingestDuration, err := meter.Float64Histogram(
		"flock_ingest_duration_seconds",
		metric.WithDescription("Time from receiving a reading to its persisted pin"),
		metric.WithUnit("s"),
		metric.WithExplicitBucketBoundaries(
			0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5,
		),
	)
	if err != nil {
		return nil, err
	}

	return &IngestMetrics{
		readings:       readings,
		transitions:    transitions,
		notifications:  notifications,
		ingestDuration: ingestDuration,
	}, nil
}

// The Record methods are safe on a nil receiver so tests can omit metrics.

func (m *IngestMetrics) RecordReading(ctx context.Context, outcome string) {
	if m == nil {
		return
	}
	m.readings.Add(ctx, 1, metric.WithAttributes(
		attribute.String("outcome", outcome),
	))
}

func (m *IngestMetrics) RecordTransition(ctx context.Context, transition string) {
	if m == nil {
		return
	}
	m.transitions.Add(ctx, 1, metric.WithAttributes(
		attribute.String("transition", transition),
	))
}

func (m *IngestMetrics) RecordNotification(ctx context.Context, transition, outcome string) {
	if m == nil {
		return
	}
	m.notifications.Add(ctx, 1, metric.WithAttributes(
		attribute.String("transition", transition),
		attribute.String("outcome", outcome),
	))
}

func (m *IngestMetrics) RecordIngestDuration(ctx context.Context, outcome string, duration time.Duration) {
	if m == nil {
		return
	}
	m.ingestDuration.Record(ctx, duration.Seconds(), metric.WithAttributes(
		attribute.String("outcome", outcome),
	))
}
