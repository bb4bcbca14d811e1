package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/redis/go-redis/v9"

	"github.com/KasumiMercury/flock-watch/internal/domain"
)

const (
	pinKeyPrefix        = "flock:pins:pin:"
	pinIndexKey         = "flock:pins:index"
	pinSubjectKeyPrefix = "flock:pins:subject:"
	pinSubjectsKey      = "flock:pins:subjects"
)

type redisPinRepository struct {
	client redis.UniversalClient
}

// NewRedisPinRepository stores each pin as JSON under its own key with a
// sorted index on RecordedAt, globally and per subject.
func NewRedisPinRepository(client redis.UniversalClient) domain.PinRepository {
	return &redisPinRepository{
		client: client,
	}
}

func pinKey(id string) string {
	return pinKeyPrefix + id
}

func subjectKey(subjectID string) string {
	return pinSubjectKeyPrefix + subjectID
}

func pinScore(pin *domain.Pin) float64 {
	return float64(pin.RecordedAt.UnixMicro())
}

func (r *redisPinRepository) Save(ctx context.Context, pin *domain.Pin) error {
	if err := validatePin(pin); err != nil {
		return err
	}

	data, err := json.Marshal(newPinRecord(pin))
	if err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidPinData, err)
	}

	member := redis.Z{Score: pinScore(pin), Member: pin.ID}

	pipe := r.client.TxPipeline()
	pipe.Set(ctx, pinKey(pin.ID), data, 0)
	pipe.ZAdd(ctx, pinIndexKey, member)
	pipe.ZAdd(ctx, subjectKey(pin.SubjectID), member)
	pipe.SAdd(ctx, pinSubjectsKey, pin.SubjectID)

	if _, err := pipe.Exec(ctx); err != nil {
		return unavailable(err)
	}
	return nil
}

func (r *redisPinRepository) FindAll(ctx context.Context) ([]*domain.Pin, error) {
	ids, err := r.client.ZRange(ctx, pinIndexKey, 0, -1).Result()
	if err != nil {
		return nil, unavailable(err)
	}
	if len(ids) == 0 {
		return []*domain.Pin{}, nil
	}

	keys := make([]string, len(ids))
	for i, id := range ids {
		keys[i] = pinKey(id)
	}

	values, err := r.client.MGet(ctx, keys...).Result()
	if err != nil {
		return nil, unavailable(err)
	}

	pins := make([]*domain.Pin, 0, len(values))
	for _, v := range values {
		s, ok := v.(string)
		if !ok {
			// index entry without a record, removed concurrently
			continue
		}
		pin, err := decodePin([]byte(s))
		if err != nil {
			return nil, err
		}
		pins = append(pins, pin)
	}

	return pins, nil
}

func (r *redisPinRepository) FindLatestBySubject(ctx context.Context, subjectID string) (*domain.Pin, error) {
	ids, err := r.client.ZRevRange(ctx, subjectKey(subjectID), 0, 0).Result()
	if err != nil {
		return nil, unavailable(err)
	}
	if len(ids) == 0 {
		return nil, domain.ErrPinNotFound
	}

	return r.get(ctx, ids[0])
}

func (r *redisPinRepository) get(ctx context.Context, id string) (*domain.Pin, error) {
	data, err := r.client.Get(ctx, pinKey(id)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, domain.ErrPinNotFound
		}
		return nil, unavailable(err)
	}
	return decodePin(data)
}

func (r *redisPinRepository) Delete(ctx context.Context, id string) (*domain.Pin, error) {
	pin, err := r.get(ctx, id)
	if err != nil {
		return nil, err
	}

	pipe := r.client.TxPipeline()
	del := pipe.Del(ctx, pinKey(id))
	pipe.ZRem(ctx, pinIndexKey, id)
	pipe.ZRem(ctx, subjectKey(pin.SubjectID), id)

	if _, err := pipe.Exec(ctx); err != nil {
		return nil, unavailable(err)
	}

	// A concurrent delete won the race.
	if del.Val() == 0 {
		return nil, domain.ErrPinNotFound
	}

	return pin, nil
}

func (r *redisPinRepository) DeleteAll(ctx context.Context) (int, error) {
	ids, err := r.client.ZRange(ctx, pinIndexKey, 0, -1).Result()
	if err != nil {
		return 0, unavailable(err)
	}

	subjects, err := r.client.SMembers(ctx, pinSubjectsKey).Result()
	if err != nil {
		return 0, unavailable(err)
	}

	if len(ids) == 0 && len(subjects) == 0 {
		return 0, nil
	}

	pinKeys := make([]string, len(ids))
	for i, id := range ids {
		pinKeys[i] = pinKey(id)
	}

	indexKeys := make([]string, 0, len(subjects)+2)
	indexKeys = append(indexKeys, pinIndexKey, pinSubjectsKey)
	for _, s := range subjects {
		indexKeys = append(indexKeys, subjectKey(s))
	}

	pipe := r.client.TxPipeline()
	var del *redis.IntCmd
	if len(pinKeys) > 0 {
		del = pipe.Del(ctx, pinKeys...)
	}
	pipe.Del(ctx, indexKeys...)

	if _, err := pipe.Exec(ctx); err != nil {
		return 0, unavailable(err)
	}

	if del == nil {
		return 0, nil
	}
	return int(del.Val()), nil
}
