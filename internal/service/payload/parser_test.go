package payload

import (
	"errors"
	"testing"

	"github.com/KasumiMercury/flock-watch/internal/domain"
)

func TestParse_Success(t *testing.T) {
	raw := `{"name":"ewe-12","longitude":-8.5,"latitude":52.6,"accelero_x":-0.9}`

	reading, err := Parse(raw, Envelope{DevEUI: "70b3d57ed0051234", DeviceName: "tag-7"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if reading.SubjectID != "ewe-12" {
		t.Errorf("SubjectID: got %q, want %q", reading.SubjectID, "ewe-12")
	}
	if reading.Longitude != -8.5 {
		t.Errorf("Longitude: got %v, want -8.5", reading.Longitude)
	}
	if reading.Latitude != 52.6 {
		t.Errorf("Latitude: got %v, want 52.6", reading.Latitude)
	}
	if reading.AcceleroX != -0.9 {
		t.Errorf("AcceleroX: got %v, want -0.9", reading.AcceleroX)
	}
	if reading.DevEUI != "70b3d57ed0051234" || reading.DeviceName != "tag-7" {
		t.Errorf("envelope not carried: got %q/%q", reading.DevEUI, reading.DeviceName)
	}
	if reading.RawPayload != raw {
		t.Errorf("RawPayload: got %q, want %q", reading.RawPayload, raw)
	}
	if reading.Satellites != nil {
		t.Errorf("Satellites: got %v, want nil", *reading.Satellites)
	}
}

func TestParse_OptionalSatellites(t *testing.T) {
	reading, err := Parse(`{"name":"ram-3","longitude":1,"latitude":2,"accelero_x":0,"sats":7}`, Envelope{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if reading.Satellites == nil || *reading.Satellites != 7 {
		t.Fatalf("Satellites: got %v, want 7", reading.Satellites)
	}
}

func TestParse_ZeroValuesArePresent(t *testing.T) {
	reading, err := Parse(`{"name":"lamb","longitude":0,"latitude":0,"accelero_x":0}`, Envelope{})
	if err != nil {
		t.Fatalf("explicit zeros must parse, got %v", err)
	}
	if reading.AcceleroX != 0 || reading.Longitude != 0 || reading.Latitude != 0 {
		t.Errorf("unexpected values: %+v", reading)
	}
}

func TestParse_Malformed(t *testing.T) {
	tests := []struct {
		name string
		raw  string
	}{
		{name: "invalid JSON", raw: `{"name":`},
		{name: "empty string", raw: ``},
		{name: "JSON array", raw: `[1,2,3]`},
		{name: "JSON null", raw: `null`},
		{name: "missing name", raw: `{"longitude":-8.5,"latitude":52.6,"accelero_x":1}`},
		{name: "empty name", raw: `{"name":"  ","longitude":-8.5,"latitude":52.6,"accelero_x":1}`},
		{name: "numeric name", raw: `{"name":12,"longitude":-8.5,"latitude":52.6,"accelero_x":1}`},
		{name: "non-numeric longitude", raw: `{"name":"ewe","longitude":"west","latitude":52.6,"accelero_x":1}`},
		{name: "numeric string latitude", raw: `{"name":"ewe","longitude":-8.5,"latitude":"52.6","accelero_x":1}`},
		{name: "missing latitude", raw: `{"name":"ewe","longitude":-8.5,"accelero_x":1}`},
		{name: "null accelero_x", raw: `{"name":"ewe","longitude":-8.5,"latitude":52.6,"accelero_x":null}`},
		{name: "missing accelero_x", raw: `{"name":"ewe","longitude":-8.5,"latitude":52.6}`},
		{name: "latitude out of range", raw: `{"name":"ewe","longitude":-8.5,"latitude":95,"accelero_x":1}`},
		{name: "longitude out of range", raw: `{"name":"ewe","longitude":-190,"latitude":52.6,"accelero_x":1}`},
		{name: "fractional sats", raw: `{"name":"ewe","longitude":-8.5,"latitude":52.6,"accelero_x":1,"sats":2.5}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			reading, err := Parse(tt.raw, Envelope{})
			if !errors.Is(err, domain.ErrMalformedPayload) {
				t.Fatalf("expected ErrMalformedPayload, got %v", err)
			}
			if reading != nil {
				t.Errorf("expected nil reading, got %+v", reading)
			}
		})
	}
}
