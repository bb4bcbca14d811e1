package episode

import (
	"errors"
	"fmt"

	"github.com/KasumiMercury/flock-watch/internal/domain"
)

const (
	DefaultSustainThreshold = 2
	DefaultInversionBelow   = 0.0
)

var ErrInvalidPolicy = errors.New("invalid episode policy")

// Policy parameterizes the debounce. Past revisions of the alerting rule
// disagreed on the sustain count and on when a recovery is reported, so both
// are configuration rather than constants.
type Policy struct {
	// SustainThreshold is the number of consecutive inverted readings after
	// which the episode is alert-worthy.
	SustainThreshold int
	// RecoveryThreshold is the minimum length of the run that has just ended
	// for a non-inverted reading to be reported as a recovery. Only runs that
	// already alerted can recover.
	RecoveryThreshold int
	// InversionBelow: an axis value strictly below it is an inverted reading.
	InversionBelow float64
}

func DefaultPolicy() Policy {
	return Policy{
		SustainThreshold:  DefaultSustainThreshold,
		RecoveryThreshold: DefaultSustainThreshold,
		InversionBelow:    DefaultInversionBelow,
	}
}

func (p Policy) Validate() error {
	if p.SustainThreshold < 1 {
		return fmt.Errorf("%w: sustain threshold must be at least 1, got %d", ErrInvalidPolicy, p.SustainThreshold)
	}
	if p.RecoveryThreshold < 1 {
		return fmt.Errorf("%w: recovery threshold must be at least 1, got %d", ErrInvalidPolicy, p.RecoveryThreshold)
	}
	return nil
}

// Step classifies one axis reading against the current state and returns the
// state to store next. It has no side effects.
func Step(p Policy, state domain.EpisodeState, axis float64) (domain.EpisodeState, domain.Transition) {
	if axis >= p.InversionBelow {
		next := domain.NewEpisodeState()
		if state.Alerted && state.Count >= p.RecoveryThreshold {
			return next, domain.TransitionRecovered
		}
		return next, domain.TransitionNormal
	}

	next := state
	next.Count = state.Count + 1

	switch {
	case state.Alerted:
		return next, domain.TransitionAnomalyOngoing
	case next.Count >= p.SustainThreshold:
		next.Alerted = true
		next.Classification = domain.ClassificationAnomalous
		return next, domain.TransitionSustainedAnomaly
	default:
		next.Classification = domain.ClassificationNormal
		return next, domain.TransitionEnteringAnomaly
	}
}
