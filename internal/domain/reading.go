package domain

// Reading is one decoded tag sample. It is never persisted directly; ingestion
// turns it into a Pin.
type Reading struct {
	SubjectID  string
	Longitude  float64
	Latitude   float64
	AcceleroX  float64
	Satellites *int
	DevEUI     string
	DeviceName string
	RawPayload string
}

// Inverted reports whether the axis reading is below the given inversion bound.
func (r *Reading) Inverted(below float64) bool {
	return r.AcceleroX < below
}
