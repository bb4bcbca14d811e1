package config

import (
	"errors"
	"log/slog"
	"os"

	"github.com/KasumiMercury/flock-watch/internal/observability/logging"
)

type Config struct {
	Port        string
	LogLevel    slog.Level
	Environment logging.Environment
	ServiceName string

	Store   *StoreConfig
	Redis   *RedisConfig
	Episode *EpisodeConfig
	Display *DisplayConfig
	Alert   *AlertConfig
	Auth    *AuthConfig
}

func Load() (*Config, error) {
	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}

	serviceName := os.Getenv("SERVICE_NAME")
	if serviceName == "" {
		serviceName = "flock-watch"
	}

	env := logging.EnvDev
	if e := os.Getenv("ENV"); e != "" {
		env = logging.Environment(e)
	}

	var errs []error

	store, err := LoadStoreConfig()
	if err != nil {
		errs = append(errs, err)
	}

	redisConfig, err := LoadRedisConfig()
	if err != nil {
		errs = append(errs, err)
	}

	episode, err := LoadEpisodeConfig()
	if err != nil {
		errs = append(errs, err)
	}

	display, err := LoadDisplayConfig()
	if err != nil {
		errs = append(errs, err)
	}

	alert, err := LoadAlertConfig()
	if err != nil {
		errs = append(errs, err)
	}

	if len(errs) > 0 {
		return nil, errors.Join(errs...)
	}

	return &Config{
		Port:        port,
		LogLevel:    logging.ParseLevel(os.Getenv("LOG_LEVEL")),
		Environment: env,
		ServiceName: serviceName,
		Store:       store,
		Redis:       redisConfig,
		Episode:     episode,
		Display:     display,
		Alert:       alert,
		Auth:        LoadAuthConfig(),
	}, nil
}

// NeedsRedis reports whether any configured backend lives in Redis.
func (c *Config) NeedsRedis() bool {
	return c.Store.PinBackend == BackendRedis || c.Store.EpisodeBackend == BackendRedis
}
