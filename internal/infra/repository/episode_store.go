package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/KasumiMercury/flock-watch/internal/domain"
	"github.com/KasumiMercury/flock-watch/internal/idgen"
)

const (
	episodeStateKeyPrefix = "flock:episode:state:"
	episodeLockKeyPrefix  = "flock:episode:lock:"

	DefaultEpisodeLockTTL  = 5 * time.Second
	DefaultEpisodeLockWait = 10 * time.Second
	lockRetryInterval      = 20 * time.Millisecond
)

// releaseScript deletes the lock only when it still holds our token.
var releaseScript = redis.NewScript(`
if redis.call("GET", KEYS[1]) == ARGV[1] then
	return redis.call("DEL", KEYS[1])
end
return 0
`)

// extendScript refreshes the lock TTL while it still holds our token.
var extendScript = redis.NewScript(`
if redis.call("GET", KEYS[1]) == ARGV[1] then
	return redis.call("PEXPIRE", KEYS[1], ARGV[2])
end
return 0
`)

// commitScript writes the state only while the lock still holds our token.
var commitScript = redis.NewScript(`
if redis.call("GET", KEYS[1]) == ARGV[1] then
	redis.call("SET", KEYS[2], ARGV[2])
	return 1
end
return 0
`)

type EpisodeStoreOption func(*EpisodeStore)

func WithLockTTL(ttl time.Duration) EpisodeStoreOption {
	return func(s *EpisodeStore) {
		if ttl > 0 {
			s.lockTTL = ttl
		}
	}
}

func WithLockWait(wait time.Duration) EpisodeStoreOption {
	return func(s *EpisodeStore) {
		if wait > 0 {
			s.lockWait = wait
		}
	}
}

// EpisodeStore keeps per-subject episode state in Redis so several
// instances share one debounce. Updates for a subject are serialized by a
// lock key held for the duration of the update function. The lock is
// refreshed while the function runs and the state is written only if the
// lock is still ours.
type EpisodeStore struct {
	client   redis.UniversalClient
	lockTTL  time.Duration
	lockWait time.Duration
}

func NewEpisodeStore(client redis.UniversalClient, opts ...EpisodeStoreOption) *EpisodeStore {
	s := &EpisodeStore{
		client:   client,
		lockTTL:  DefaultEpisodeLockTTL,
		lockWait: DefaultEpisodeLockWait,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *EpisodeStore) Update(ctx context.Context, subjectID string, fn domain.EpisodeUpdateFunc) error {
	lockKey := episodeLockKeyPrefix + subjectID

	token, err := s.acquire(ctx, lockKey)
	if err != nil {
		return err
	}
	defer s.release(lockKey, token)

	state, err := s.load(ctx, subjectID)
	if err != nil {
		if !errors.Is(err, domain.ErrEpisodeNotFound) {
			return err
		}
		state = domain.NewEpisodeState()
	}

	stop := s.keepAlive(lockKey, token)
	defer stop()

	next, err := fn(state)
	if err != nil {
		return err
	}

	data, err := json.Marshal(next)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidEpisodeData, err)
	}

	committed, err := commitScript.Run(ctx, s.client,
		[]string{lockKey, episodeStateKeyPrefix + subjectID}, token, data).Int()
	if err != nil {
		return unavailable(err)
	}
	if committed == 0 {
		return fmt.Errorf("%w: %w: %s", domain.ErrStoreUnavailable, ErrLockLost, lockKey)
	}
	return nil
}

func (s *EpisodeStore) Get(ctx context.Context, subjectID string) (domain.EpisodeState, error) {
	return s.load(ctx, subjectID)
}

func (s *EpisodeStore) load(ctx context.Context, subjectID string) (domain.EpisodeState, error) {
	data, err := s.client.Get(ctx, episodeStateKeyPrefix+subjectID).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return domain.EpisodeState{}, domain.ErrEpisodeNotFound
		}
		return domain.EpisodeState{}, unavailable(err)
	}

	var state domain.EpisodeState
	if err := json.Unmarshal(data, &state); err != nil {
		return domain.EpisodeState{}, fmt.Errorf("%w: %w", ErrInvalidEpisodeData, err)
	}
	return state, nil
}

func (s *EpisodeStore) acquire(ctx context.Context, lockKey string) (string, error) {
	token := idgen.New()
	deadline := time.Now().Add(s.lockWait)

	for {
		ok, err := s.client.SetNX(ctx, lockKey, token, s.lockTTL).Result()
		if err != nil {
			return "", unavailable(err)
		}
		if ok {
			return token, nil
		}

		if time.Now().After(deadline) {
			return "", fmt.Errorf("%w: %w: %s", domain.ErrStoreUnavailable, ErrLockNotAcquired, lockKey)
		}

		timer := time.NewTimer(lockRetryInterval)
		select {
		case <-ctx.Done():
			timer.Stop()
			return "", ctx.Err()
		case <-timer.C:
		}
	}
}

// keepAlive extends the lock every third of its TTL until the returned stop
// function is called.
func (s *EpisodeStore) keepAlive(lockKey, token string) func() {
	done := make(chan struct{})
	finished := make(chan struct{})

	go func() {
		defer close(finished)

		interval := s.lockTTL / 3
		if interval < time.Millisecond {
			interval = time.Millisecond
		}
		ticker := time.NewTicker(interval)
		defer ticker.Stop()

		for {
			select {
			case <-done:
				return
			case <-ticker.C:
				ctx, cancel := context.WithTimeout(context.Background(), interval)
				err := extendScript.Run(ctx, s.client, []string{lockKey}, token, s.lockTTL.Milliseconds()).Err()
				cancel()
				if err != nil {
					slog.Warn("failed to extend episode lock",
						slog.String("key", lockKey),
						slog.String("error", err.Error()),
					)
				}
			}
		}
	}()

	return func() {
		close(done)
		<-finished
	}
}

func (s *EpisodeStore) release(lockKey, token string) {
	// The request context may already be cancelled; the lock must still go.
	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()

	if err := releaseScript.Run(ctx, s.client, []string{lockKey}, token).Err(); err != nil {
		slog.Warn("failed to release episode lock",
			slog.String("key", lockKey),
			slog.String("error", err.Error()),
		)
	}
}
