package repository

import (
	"context"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/KasumiMercury/flock-watch/internal/domain"
)

const (
	alertKeyPrefix = "flock:alerts:"

	DefaultAlertDedupTTL = 24 * time.Hour
)

type redisAlertLedger struct {
	client redis.UniversalClient
	ttl    time.Duration
}

func NewRedisAlertLedger(client redis.UniversalClient, ttl time.Duration) domain.AlertLedger {
	if ttl <= 0 {
		ttl = DefaultAlertDedupTTL
	}
	return &redisAlertLedger{
		client: client,
		ttl:    ttl,
	}
}

func (l *redisAlertLedger) MarkDispatched(ctx context.Context, decisionID string) (bool, error) {
	ok, err := l.client.SetNX(ctx, alertKeyPrefix+decisionID, time.Now().UTC().Format(time.RFC3339), l.ttl).Result()
	if err != nil {
		return false, unavailable(err)
	}
	return ok, nil
}

func (l *redisAlertLedger) Release(ctx context.Context, decisionID string) error {
	if err := l.client.Del(ctx, alertKeyPrefix+decisionID).Err(); err != nil {
		return unavailable(err)
	}
	return nil
}

type memoryAlertLedger struct {
	mu      sync.Mutex
	ttl     time.Duration
	entries map[string]time.Time
	now     func() time.Time
}

func NewMemoryAlertLedger(ttl time.Duration) domain.AlertLedger {
	if ttl <= 0 {
		ttl = DefaultAlertDedupTTL
	}
	return &memoryAlertLedger{
		ttl:     ttl,
		entries: make(map[string]time.Time),
		now:     time.Now,
	}
}

func (l *memoryAlertLedger) MarkDispatched(_ context.Context, decisionID string) (bool, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.now()
	for id, expires := range l.entries {
		if now.After(expires) {
			delete(l.entries, id)
		}
	}

	if _, ok := l.entries[decisionID]; ok {
		return false, nil
	}
	l.entries[decisionID] = now.Add(l.ttl)
	return true, nil
}

func (l *memoryAlertLedger) Release(_ context.Context, decisionID string) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	delete(l.entries, decisionID)
	return nil
}
