package tracing

import (
	"context"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

const ingestTracerName = "github.com/KasumiMercury/flock-watch/internal/service/ingest"

func IngestTracer() trace.Tracer {
	return otel.Tracer(ingestTracerName)
}

func StartIngestSpan(ctx context.Context, devEUI string) (context.Context, trace.Span) {
	return IngestTracer().Start(ctx, "flock.ingest",
		trace.WithAttributes(
			attribute.String("device.eui", devEUI),
		),
	)
}

func StartParseSpan(ctx context.Context) (context.Context, trace.Span) {
	return IngestTracer().Start(ctx, "flock.ingest.parse")
}

func StartPersistSpan(ctx context.Context, subjectID string) (context.Context, trace.Span) {
	return IngestTracer().Start(ctx, "flock.ingest.persist",
		trace.WithAttributes(
			attribute.String("subject.id", subjectID),
		),
	)
}

func StartNotifySpan(ctx context.Context, subjectID, transition string) (context.Context, trace.Span) {
	return IngestTracer().Start(ctx, "flock.ingest.notify",
		trace.WithAttributes(
			attribute.String("subject.id", subjectID),
			attribute.String("episode.transition", transition),
		),
		trace.WithSpanKind(trace.SpanKindProducer),
	)
}

func RecordIngestResult(span trace.Span, subjectID, pinID, transition string) {
	span.SetAttributes(
		attribute.String("subject.id", subjectID),
		attribute.String("pin.id", pinID),
		attribute.String("episode.transition", transition),
	)
	span.SetStatus(codes.Ok, "")
}

func RecordError(span trace.Span, err error) {
	if err == nil {
		span.SetStatus(codes.Ok, "")
		return
	}
	span.RecordError(err)
	span.SetStatus(codes.Error, err.Error())
}
