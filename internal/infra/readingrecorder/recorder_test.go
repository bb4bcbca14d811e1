package readingrecorder

import (
	"context"
	"testing"
	"time"

	"github.com/KasumiMercury/flock-watch/internal/domain"
)

func TestLoadConfig_Defaults(t *testing.T) {
	t.Setenv("READINGS_RECORDER_DISABLED", "")
	t.Setenv("INFLUXDB_BUCKET", "")

	cfg := LoadConfig()
	if cfg.Disabled {
		t.Error("Disabled = true, want false")
	}
	if cfg.InfluxDBBucket != "flock_readings" {
		t.Errorf("InfluxDBBucket = %q", cfg.InfluxDBBucket)
	}
}

func TestNewRecorder_FallsBackToNoop(t *testing.T) {
	tests := []struct {
		name string
		cfg  *Config
	}{
		{name: "disabled", cfg: &Config{Disabled: true}},
		{name: "unconfigured", cfg: &Config{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec, err := NewRecorder(context.Background(), tt.cfg)
			if err != nil {
				t.Fatalf("NewRecorder() error = %v", err)
			}
			if _, ok := rec.(noopRecorder); !ok {
				t.Errorf("NewRecorder() = %T, want noopRecorder", rec)
			}
			if err := rec.RecordReading(context.Background(), domain.ReadingRecord{}); err != nil {
				t.Errorf("RecordReading() error = %v", err)
			}
		})
	}
}

func TestNewPoint(t *testing.T) {
	at := time.Date(2024, time.May, 2, 3, 4, 5, 0, time.UTC)
	p := newPoint(domain.ReadingRecord{
		PinID:      "pin-1",
		SubjectID:  "ewe-12",
		DevEUI:     "70b3d57ed0001234",
		Longitude:  -6.26,
		Latitude:   53.35,
		AcceleroX:  -0.9,
		Transition: domain.TransitionSustainedAnomaly,
		RecordedAt: at,
	})

	if p.Name() != measurement {
		t.Errorf("Name() = %q, want %q", p.Name(), measurement)
	}
	if !p.Time().Equal(at) {
		t.Errorf("Time() = %v, want %v", p.Time(), at)
	}

	tags := map[string]string{}
	for _, tag := range p.TagList() {
		tags[tag.Key] = tag.Value
	}
	if tags["subject_id"] != "ewe-12" || tags["transition"] != "sustained_anomaly" || tags["dev_eui"] != "70b3d57ed0001234" {
		t.Errorf("tags = %v", tags)
	}

	fields := map[string]any{}
	for _, f := range p.FieldList() {
		fields[f.Key] = f.Value
	}
	if fields["accelero_x"] != -0.9 || fields["inverted"] != true {
		t.Errorf("fields = %v", fields)
	}
}
