package domain

import (
	"context"
	"time"
)

//go:generate mockgen -source=reading_recorder.go -destination=reading_recorder_mock.go -package=domain

type ReadingRecord struct {
	PinID      string
	SubjectID  string
	DevEUI     string
	Longitude  float64
	Latitude   float64
	AcceleroX  float64
	Transition Transition
	RecordedAt time.Time
}

// ReadingRecorder exports ingested readings to a time series sink.
type ReadingRecorder interface {
	RecordReading(ctx context.Context, record ReadingRecord) error
	Flush(ctx context.Context) error
	Close() error
}
