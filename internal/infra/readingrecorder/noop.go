package readingrecorder

import (
	"context"

	"github.com/KasumiMercury/flock-watch/internal/domain"
)

type noopRecorder struct{}

func NewNoopRecorder() domain.ReadingRecorder {
	return noopRecorder{}
}

func (noopRecorder) RecordReading(context.Context, domain.ReadingRecord) error {
	return nil
}

func (noopRecorder) Flush(context.Context) error {
	return nil
}

func (noopRecorder) Close() error {
	return nil
}
