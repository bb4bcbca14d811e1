//go:build gcloud

package logging

import (
	"fmt"
	"log/slog"

	"go.opentelemetry.io/otel/trace"
)

// traceAttrs links log entries to Cloud Trace. Without a project id the
// plain ids are logged.
func traceAttrs(sc trace.SpanContext, projectID string) []slog.Attr {
	attrs := []slog.Attr{
		slog.String("trace_id", sc.TraceID().String()),
		slog.String("span_id", sc.SpanID().String()),
	}
	if projectID == "" {
		return attrs
	}
	return append(attrs,
		slog.String("logging.googleapis.com/trace", fmt.Sprintf("projects/%s/traces/%s", projectID, sc.TraceID().String())),
		slog.String("logging.googleapis.com/spanId", sc.SpanID().String()),
		slog.Bool("logging.googleapis.com/trace_sampled", sc.IsSampled()),
	)
}
