package config

import (
	"fmt"
	"os"
	"strings"
)

type Backend string

const (
	BackendRedis  Backend = "redis"
	BackendSQLite Backend = "sqlite"
	BackendMemory Backend = "memory"
)

const defaultSQLitePath = "flock-watch.db"

type StoreConfig struct {
	PinBackend     Backend
	EpisodeBackend Backend
	SQLitePath     string
}

func LoadStoreConfig() (*StoreConfig, error) {
	cfg := &StoreConfig{
		PinBackend:     Backend(strings.ToLower(getEnvOrDefault("PIN_STORE_BACKEND", string(BackendRedis)))),
		EpisodeBackend: Backend(strings.ToLower(getEnvOrDefault("EPISODE_STATE_BACKEND", string(BackendMemory)))),
		SQLitePath:     getEnvOrDefault("SQLITE_PATH", defaultSQLitePath),
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *StoreConfig) Validate() error {
	switch c.PinBackend {
	case BackendRedis, BackendMemory:
	case BackendSQLite:
		if c.SQLitePath == "" {
			return ErrSQLitePathMissing
		}
	default:
		return fmt.Errorf("%w: PIN_STORE_BACKEND=%q", ErrUnknownBackend, c.PinBackend)
	}

	switch c.EpisodeBackend {
	case BackendRedis, BackendMemory:
	default:
		return fmt.Errorf("%w: EPISODE_STATE_BACKEND=%q", ErrUnknownBackend, c.EpisodeBackend)
	}

	return nil
}

func getEnvOrDefault(key, defaultValue string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return defaultValue
}
