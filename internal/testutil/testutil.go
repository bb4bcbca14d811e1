// Package testutil holds helpers shared by integration tests.
package testutil

import (
	"context"
	"testing"

	"github.com/redis/go-redis/v9"
	redismodule "github.com/testcontainers/testcontainers-go/modules/redis"
)

const redisImage = "redis:8-alpine"

// SetupRedisContainer starts a throwaway Redis and returns a client for it.
// The test is skipped when no container runtime is available.
func SetupRedisContainer(ctx context.Context, t *testing.T) (*redis.Client, func()) {
	t.Helper()

	defer func() {
		if r := recover(); r != nil {
			t.Skipf("container runtime unavailable: %v", r)
		}
	}()

	container, err := redismodule.Run(ctx, redisImage)
	if err != nil {
		t.Skipf("redis container did not start: %v", err)
	}

	uri, err := container.ConnectionString(ctx)
	if err != nil {
		t.Skipf("redis connection string unavailable: %v", err)
	}

	opts, err := redis.ParseURL(uri)
	if err != nil {
		t.Fatalf("invalid redis url %q: %v", uri, err)
	}
	client := redis.NewClient(opts)

	cleanup := func() {
		if err := client.Close(); err != nil {
			t.Logf("redis client close: %v", err)
		}
		if err := container.Terminate(ctx); err != nil {
			t.Logf("redis container terminate: %v", err)
		}
	}

	return client, cleanup
}

// FlushRedis empties the current database so subtests sharing one container
// start clean.
func FlushRedis(ctx context.Context, t *testing.T, client redis.UniversalClient) {
	t.Helper()

	if err := client.FlushDB(ctx).Err(); err != nil {
		t.Fatalf("flush redis: %v", err)
	}
}
