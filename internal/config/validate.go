package config

import (
	"errors"
	"fmt"
)

func ValidateForRun(cfg *Config) error {
	var errs []error

	if err := cfg.Store.Validate(); err != nil {
		errs = append(errs, err)
	}

	if cfg.NeedsRedis() {
		if err := cfg.Redis.Validate(); err != nil {
			errs = append(errs, err)
		}
	}

	if cfg.Episode.LockTTL > cfg.Episode.LockWait {
		errs = append(errs, fmt.Errorf("%w: EPISODE_LOCK_TTL must not exceed EPISODE_LOCK_WAIT", ErrInvalidDuration))
	}

	if cfg.Auth.Enabled() && len(cfg.Auth.JWTSecret) < 32 {
		errs = append(errs, errors.New("AUTH_JWT_SECRET must be at least 32 bytes"))
	}

	return errors.Join(errs...)
}
