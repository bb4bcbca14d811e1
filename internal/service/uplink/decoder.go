// Package uplink decodes raw LoRaWAN frames from the tracker tag firmware into
// the JSON payload shape accepted by the payload parser.
package uplink

import (
	"encoding/json"
	"fmt"

	"github.com/KasumiMercury/flock-watch/internal/domain"
)

const (
	// MinFrameLength is the shortest frame carrying every decoded field.
	MinFrameLength = 40

	acceleroXOffset  = 13
	latitudeOffset   = 21
	longitudeOffset  = 24
	satellitesOffset = 38

	coordinateScale = 10000.0
)

type Frame struct {
	AcceleroX  float64 `json:"accelero_x"`
	Latitude   float64 `json:"latitude"`
	Longitude  float64 `json:"longitude"`
	Satellites int     `json:"sats"`
	Name       string  `json:"name"`
}

// Decode extracts the accelerometer x axis, position and satellite count.
// Multi-byte fields are big endian and signed fields are two's complement.
func Decode(data []byte, name string) (*Frame, error) {
	if len(data) < MinFrameLength {
		return nil, fmt.Errorf("%w: uplink frame has %d bytes, need at least %d",
			domain.ErrMalformedPayload, len(data), MinFrameLength)
	}

	return &Frame{
		AcceleroX:  float64(int16(uint16(data[acceleroXOffset])<<8 | uint16(data[acceleroXOffset+1]))),
		Latitude:   float64(int24(data[latitudeOffset:])) / coordinateScale,
		Longitude:  float64(int24(data[longitudeOffset:])) / coordinateScale,
		Satellites: int(uint16(data[satellitesOffset])<<8 | uint16(data[satellitesOffset+1])),
		Name:       name,
	}, nil
}

// JSON renders the frame as the payload object accepted by the ingest path.
func (f *Frame) JSON() (string, error) {
	data, err := json.Marshal(f)
	if err != nil {
		return "", fmt.Errorf("failed to encode frame: %w", err)
	}
	return string(data), nil
}

func int24(b []byte) int32 {
	v := int32(b[0])<<16 | int32(b[1])<<8 | int32(b[2])
	if b[0]&0x80 != 0 {
		v |= -1 << 24
	}
	return v
}
