//go:build gcloud

package readingrecorder

import (
	"context"
	"log/slog"
	"time"

	"cloud.google.com/go/bigquery"

	"github.com/KasumiMercury/flock-watch/internal/domain"
)

type bigQueryRow struct {
	InsertedAt time.Time `bigquery:"inserted_at"`
	RecordedAt time.Time `bigquery:"recorded_at"`
	PinID      string    `bigquery:"pin_id"`
	SubjectID  string    `bigquery:"subject_id"`
	DevEUI     string    `bigquery:"dev_eui"`
	Longitude  float64   `bigquery:"longitude"`
	Latitude   float64   `bigquery:"latitude"`
	AcceleroX  float64   `bigquery:"accelero_x"`
	Transition string    `bigquery:"transition"`
}

type bigQueryRecorder struct {
	client   *bigquery.Client
	inserter *bigquery.Inserter
}

func NewRecorder(ctx context.Context, cfg *Config) (domain.ReadingRecorder, error) {
	if cfg.Disabled {
		slog.InfoContext(ctx, "reading recording disabled")
		return NewNoopRecorder(), nil
	}

	if cfg.BigQueryProjectID == "" {
		slog.WarnContext(ctx, "BigQuery project ID not configured, reading recording disabled")
		return NewNoopRecorder(), nil
	}

	client, err := bigquery.NewClient(ctx, cfg.BigQueryProjectID)
	if err != nil {
		slog.ErrorContext(ctx, "failed to create BigQuery client, reading recording disabled",
			slog.String("error", err.Error()),
			slog.String("project_id", cfg.BigQueryProjectID),
		)
		return NewNoopRecorder(), nil
	}

	slog.InfoContext(ctx, "reading recorder initialized",
		slog.String("type", "bigquery"),
		slog.String("project_id", cfg.BigQueryProjectID),
		slog.String("dataset", cfg.BigQueryDataset),
		slog.String("table", cfg.BigQueryTable),
	)

	return &bigQueryRecorder{
		client:   client,
		inserter: client.Dataset(cfg.BigQueryDataset).Table(cfg.BigQueryTable).Inserter(),
	}, nil
}

func (r *bigQueryRecorder) RecordReading(ctx context.Context, record domain.ReadingRecord) error {
	row := &bigQueryRow{
		InsertedAt: time.Now().UTC(),
		RecordedAt: record.RecordedAt,
		PinID:      record.PinID,
		SubjectID:  record.SubjectID,
		DevEUI:     record.DevEUI,
		Longitude:  record.Longitude,
		Latitude:   record.Latitude,
		AcceleroX:  record.AcceleroX,
		Transition: record.Transition.String(),
	}

	if err := r.inserter.Put(ctx, row); err != nil {
		slog.WarnContext(ctx, "failed to insert reading to BigQuery",
			slog.String("error", err.Error()),
			slog.String("subject_id", record.SubjectID),
		)
		return err
	}
	return nil
}

func (r *bigQueryRecorder) Flush(context.Context) error {
	return nil
}

func (r *bigQueryRecorder) Close() error {
	if r.client != nil {
		return r.client.Close()
	}
	return nil
}
