package domain

import "context"

//go:generate mockgen -source=episode_store.go -destination=episode_store_mock.go -package=domain

// EpisodeUpdateFunc computes the next state from the current one. Returning an
// error discards the update.
type EpisodeUpdateFunc func(state EpisodeState) (EpisodeState, error)

// EpisodeStore holds episode state keyed by subject. Update calls for the same
// subject are serialized; the state passed to fn is NewEpisodeState() for a
// subject that was never committed.
type EpisodeStore interface {
	Update(ctx context.Context, subjectID string, fn EpisodeUpdateFunc) error
	Get(ctx context.Context, subjectID string) (EpisodeState, error)
}
