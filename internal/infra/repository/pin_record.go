package repository

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/KasumiMercury/flock-watch/internal/domain"
)

type pinRecord struct {
	ID         string    `json:"id"`
	SubjectID  string    `json:"subject_id"`
	Longitude  float64   `json:"longitude"`
	Latitude   float64   `json:"latitude"`
	AcceleroX  float64   `json:"accelero_x"`
	RecordedAt time.Time `json:"recorded_at"`
	RawPayload string    `json:"raw_payload"`
	DevEUI     string    `json:"dev_eui,omitempty"`
	DeviceName string    `json:"device_name,omitempty"`
	Satellites *int      `json:"sats,omitempty"`
	Transition string    `json:"transition,omitempty"`
}

func newPinRecord(pin *domain.Pin) pinRecord {
	return pinRecord{
		ID:         pin.ID,
		SubjectID:  pin.SubjectID,
		Longitude:  pin.Longitude,
		Latitude:   pin.Latitude,
		AcceleroX:  pin.AcceleroX,
		RecordedAt: pin.RecordedAt.UTC(),
		RawPayload: pin.RawPayload,
		DevEUI:     pin.DevEUI,
		DeviceName: pin.DeviceName,
		Satellites: pin.Satellites,
		Transition: pin.Transition.String(),
	}
}

func (r pinRecord) toDomain() *domain.Pin {
	return &domain.Pin{
		ID:         r.ID,
		SubjectID:  r.SubjectID,
		Longitude:  r.Longitude,
		Latitude:   r.Latitude,
		AcceleroX:  r.AcceleroX,
		RecordedAt: r.RecordedAt.UTC(),
		RawPayload: r.RawPayload,
		DevEUI:     r.DevEUI,
		DeviceName: r.DeviceName,
		Satellites: r.Satellites,
		Transition: domain.Transition(r.Transition),
	}
}

func validatePin(pin *domain.Pin) error {
	if pin == nil || pin.ID == "" || pin.SubjectID == "" {
		return ErrInvalidPinData
	}
	return nil
}

func decodePin(data []byte) (*domain.Pin, error) {
	var record pinRecord
	if err := json.Unmarshal(data, &record); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidPinData, err)
	}
	return record.toDomain(), nil
}

func unavailable(err error) error {
	return fmt.Errorf("%w: %w", domain.ErrStoreUnavailable, err)
}
