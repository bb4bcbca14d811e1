//go:build !gcloud

package readingrecorder

import (
	"context"
	"log/slog"

	influxdb2 "github.com/influxdata/influxdb-client-go/v2"
	"github.com/influxdata/influxdb-client-go/v2/api"

	"github.com/KasumiMercury/flock-watch/internal/domain"
)

type influxDBRecorder struct {
	client   influxdb2.Client
	writeAPI api.WriteAPIBlocking
	bucket   string
}

// NewRecorder returns an InfluxDB recorder, or a no-op one when recording is
// disabled or not configured.
func NewRecorder(ctx context.Context, cfg *Config) (domain.ReadingRecorder, error) {
	if cfg.Disabled {
		slog.InfoContext(ctx, "reading recording disabled")
		return NewNoopRecorder(), nil
	}

	if cfg.InfluxDBToken == "" || cfg.InfluxDBOrg == "" {
		slog.WarnContext(ctx, "InfluxDB token or org not configured, reading recording disabled",
			slog.String("url", cfg.InfluxDBURL),
		)
		return NewNoopRecorder(), nil
	}

	client := influxdb2.NewClient(cfg.InfluxDBURL, cfg.InfluxDBToken)

	slog.InfoContext(ctx, "reading recorder initialized",
		slog.String("type", "influxdb"),
		slog.String("url", cfg.InfluxDBURL),
		slog.String("bucket", cfg.InfluxDBBucket),
	)

	return &influxDBRecorder{
		client:   client,
		writeAPI: client.WriteAPIBlocking(cfg.InfluxDBOrg, cfg.InfluxDBBucket),
		bucket:   cfg.InfluxDBBucket,
	}, nil
}

func (r *influxDBRecorder) RecordReading(ctx context.Context, record domain.ReadingRecord) error {
	if err := r.writeAPI.WritePoint(ctx, newPoint(record)); err != nil {
		slog.WarnContext(ctx, "failed to write reading to InfluxDB",
			slog.String("error", err.Error()),
			slog.String("bucket", r.bucket),
			slog.String("subject_id", record.SubjectID),
		)
		return err
	}
	return nil
}

func (r *influxDBRecorder) Flush(ctx context.Context) error {
	return r.writeAPI.Flush(ctx)
}

func (r *influxDBRecorder) Close() error {
	if r.client != nil {
		r.client.Close()
	}
	return nil
}
