package domain

import "time"

// Transition is the classification of one reading relative to the subject's
// ongoing episode.
type Transition string

const (
	TransitionNormal           Transition = "normal"
	TransitionEnteringAnomaly  Transition = "entering_anomaly"
	TransitionSustainedAnomaly Transition = "sustained_anomaly"
	TransitionAnomalyOngoing   Transition = "anomaly_ongoing"
	TransitionRecovered        Transition = "recovered"
)

func (t Transition) String() string {
	return string(t)
}

// Alertable reports whether the transition warrants an outbound notification.
func (t Transition) Alertable() bool {
	return t == TransitionSustainedAnomaly || t == TransitionRecovered
}

// Decision is a single classification instance. The alert dispatcher
// deduplicates on ID.
type Decision struct {
	ID         string
	SubjectID  string
	Transition Transition
	DecidedAt  time.Time
}
