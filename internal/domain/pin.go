package domain

import (
	"time"
)

// Pin is the persisted record of one reading.
type Pin struct {
	ID         string     `json:"id"`
	SubjectID  string     `json:"subjectId"`
	Longitude  float64    `json:"longitude"`
	Latitude   float64    `json:"latitude"`
	AcceleroX  float64    `json:"accelero_x"`
	RecordedAt time.Time  `json:"recordedAt"`
	Timestamp  string     `json:"timestamp"`
	RawPayload string     `json:"objectJSON"`
	DevEUI     string     `json:"devEUI,omitempty"`
	DeviceName string     `json:"deviceName,omitempty"`
	Satellites *int       `json:"sats,omitempty"`
	Transition Transition `json:"transition,omitempty"`
}

func NewPin(reading *Reading, transition Transition) *Pin {
	return &Pin{
		SubjectID:  reading.SubjectID,
		Longitude:  reading.Longitude,
		Latitude:   reading.Latitude,
		AcceleroX:  reading.AcceleroX,
		RawPayload: reading.RawPayload,
		DevEUI:     reading.DevEUI,
		DeviceName: reading.DeviceName,
		Satellites: reading.Satellites,
		Transition: transition,
	}
}

// Clone returns a copy safe to hand out of a store.
func (p *Pin) Clone() *Pin {
	if p == nil {
		return nil
	}
	c := *p
	if p.Satellites != nil {
		sats := *p.Satellites
		c.Satellites = &sats
	}
	return &c
}
