//go:build !gcloud

package logging

import (
	"log/slog"

	"go.opentelemetry.io/otel/trace"
)

// traceAttrs correlates a record with its span for OTLP backends.
func traceAttrs(sc trace.SpanContext, _ string) []slog.Attr {
	return []slog.Attr{
		slog.String("trace_id", sc.TraceID().String()),
		slog.String("span_id", sc.SpanID().String()),
	}
}
