package readingrecorder

import (
	influxdb2 "github.com/influxdata/influxdb-client-go/v2"
	"github.com/influxdata/influxdb-client-go/v2/api/write"

	"github.com/KasumiMercury/flock-watch/internal/domain"
)

const measurement = "tag_reading"

// newPoint maps one record to a line protocol point. Subject and transition
// are tags so dashboards can group on them; the rest are fields.
func newPoint(record domain.ReadingRecord) *write.Point {
	tags := map[string]string{
		"subject_id": record.SubjectID,
		"transition": record.Transition.String(),
	}
	if record.DevEUI != "" {
		tags["dev_eui"] = record.DevEUI
	}

	return influxdb2.NewPoint(
		measurement,
		tags,
		map[string]any{
			"pin_id":     record.PinID,
			"longitude":  record.Longitude,
			"latitude":   record.Latitude,
			"accelero_x": record.AcceleroX,
			"inverted":   record.Transition != domain.TransitionNormal && record.Transition != domain.TransitionRecovered,
		},
		record.RecordedAt,
	)
}
