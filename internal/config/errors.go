package config

import "errors"

var (
	ErrRedisAddrMissing      = errors.New("REDIS_ADDR is required")
	ErrInvalidRedisDB        = errors.New("REDIS_DB must be a valid integer")
	ErrUnknownBackend        = errors.New("unknown storage backend")
	ErrSQLitePathMissing     = errors.New("SQLITE_PATH is required for the sqlite backend")
	ErrInvalidThreshold      = errors.New("episode thresholds must be positive integers")
	ErrInvalidInversionBound = errors.New("EPISODE_INVERSION_BELOW must be a number")
	ErrInvalidDuration       = errors.New("invalid duration")
	ErrInvalidBool           = errors.New("invalid boolean")
)
