// Package episode tracks consecutive inverted readings per subject and turns
// each reading into a Transition.
package episode

import (
	"context"
	"time"

	"github.com/KasumiMercury/flock-watch/internal/domain"
	"github.com/KasumiMercury/flock-watch/internal/idgen"
)

// CommitFunc runs inside the subject's critical section after classification.
// If it fails the episode state is left as it was.
type CommitFunc func(ctx context.Context, decision domain.Decision) error

type Tracker struct {
	store  domain.EpisodeStore
	policy Policy
	now    func() time.Time
}

func NewTracker(store domain.EpisodeStore, policy Policy) *Tracker {
	return &Tracker{
		store:  store,
		policy: policy,
		now:    time.Now,
	}
}

func (t *Tracker) Policy() Policy {
	return t.policy
}

// Observe classifies axis for subjectID and, when commit succeeds, stores the
// resulting state. Readings for one subject are processed one at a time.
func (t *Tracker) Observe(ctx context.Context, subjectID string, axis float64, commit CommitFunc) (domain.Decision, error) {
	var decision domain.Decision

	err := t.store.Update(ctx, subjectID, func(state domain.EpisodeState) (domain.EpisodeState, error) {
		next, transition := Step(t.policy, state, axis)

		d := domain.Decision{
			ID:         idgen.New(),
			SubjectID:  subjectID,
			Transition: transition,
			DecidedAt:  t.now().UTC(),
		}

		if commit != nil {
			if err := commit(ctx, d); err != nil {
				return state, err
			}
		}

		decision = d
		return next, nil
	})
	if err != nil {
		return domain.Decision{}, err
	}

	return decision, nil
}

func (t *Tracker) Classify(ctx context.Context, subjectID string, axis float64) (domain.Transition, error) {
	decision, err := t.Observe(ctx, subjectID, axis, nil)
	if err != nil {
		return "", err
	}
	return decision.Transition, nil
}

func (t *Tracker) State(ctx context.Context, subjectID string) (domain.EpisodeState, error) {
	return t.store.Get(ctx, subjectID)
}
