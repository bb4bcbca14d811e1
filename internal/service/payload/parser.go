// Package payload decodes the JSON object a tag forwards into a typed Reading.
package payload

import (
	"encoding/json"
	"fmt"
	"math"
	"strings"

	"github.com/golang/geo/s2"

	"github.com/KasumiMercury/flock-watch/internal/domain"
)

const (
	FieldLongitude  = "longitude"
	FieldLatitude   = "latitude"
	FieldName       = "name"
	FieldAcceleroX  = "accelero_x"
	FieldSatellites = "sats"
)

// Envelope carries the device identifiers the network server sends next to
// the payload rather than inside it.
type Envelope struct {
	DevEUI     string
	DeviceName string
}

// Parse decodes raw into a Reading. Required fields must be present and of the
// expected JSON type; nothing is defaulted.
func Parse(raw string, env Envelope) (*domain.Reading, error) {
	var fields map[string]json.RawMessage
	if err := json.Unmarshal([]byte(raw), &fields); err != nil {
		return nil, fmt.Errorf("%w: invalid JSON object: %v", domain.ErrMalformedPayload, err)
	}
	if fields == nil {
		return nil, fmt.Errorf("%w: payload is null", domain.ErrMalformedPayload)
	}

	longitude, err := requireNumber(fields, FieldLongitude)
	if err != nil {
		return nil, err
	}
	latitude, err := requireNumber(fields, FieldLatitude)
	if err != nil {
		return nil, err
	}
	name, err := requireString(fields, FieldName)
	if err != nil {
		return nil, err
	}
	acceleroX, err := requireNumber(fields, FieldAcceleroX)
	if err != nil {
		return nil, err
	}
	sats, err := optionalCount(fields, FieldSatellites)
	if err != nil {
		return nil, err
	}

	if !s2.LatLngFromDegrees(latitude, longitude).IsValid() {
		return nil, fmt.Errorf("%w: coordinates out of range (lat=%v, lon=%v)",
			domain.ErrMalformedPayload, latitude, longitude)
	}

	return &domain.Reading{
		SubjectID:  name,
		Longitude:  longitude,
		Latitude:   latitude,
		AcceleroX:  acceleroX,
		Satellites: sats,
		DevEUI:     env.DevEUI,
		DeviceName: env.DeviceName,
		RawPayload: raw,
	}, nil
}

func lookup(fields map[string]json.RawMessage, key string) (json.RawMessage, bool) {
	raw, ok := fields[key]
	if !ok || string(raw) == "null" {
		return nil, false
	}
	return raw, true
}

func requireNumber(fields map[string]json.RawMessage, key string) (float64, error) {
	raw, ok := lookup(fields, key)
	if !ok {
		return 0, fmt.Errorf("%w: field %q is missing", domain.ErrMalformedPayload, key)
	}

	var v float64
	if err := json.Unmarshal(raw, &v); err != nil {
		return 0, fmt.Errorf("%w: field %q must be a number", domain.ErrMalformedPayload, key)
	}
	return v, nil
}

func requireString(fields map[string]json.RawMessage, key string) (string, error) {
	raw, ok := lookup(fields, key)
	if !ok {
		return "", fmt.Errorf("%w: field %q is missing", domain.ErrMalformedPayload, key)
	}

	var v string
	if err := json.Unmarshal(raw, &v); err != nil {
		return "", fmt.Errorf("%w: field %q must be a string", domain.ErrMalformedPayload, key)
	}
	v = strings.TrimSpace(v)
	if v == "" {
		return "", fmt.Errorf("%w: field %q is empty", domain.ErrMalformedPayload, key)
	}
	return v, nil
}

func optionalCount(fields map[string]json.RawMessage, key string) (*int, error) {
	raw, ok := lookup(fields, key)
	if !ok {
		return nil, nil
	}

	var v float64
	if err := json.Unmarshal(raw, &v); err != nil || v < 0 || v != math.Trunc(v) {
		return nil, fmt.Errorf("%w: field %q must be a non-negative integer", domain.ErrMalformedPayload, key)
	}
	n := int(v)
	return &n, nil
}
