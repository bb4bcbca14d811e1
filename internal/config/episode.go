package config

import (
	"fmt"
	"os"
	"strconv"
	"time"
)

const (
	sustainThresholdEnv  = "EPISODE_SUSTAIN_THRESHOLD"
	recoveryThresholdEnv = "EPISODE_RECOVERY_THRESHOLD"
	inversionBelowEnv    = "EPISODE_INVERSION_BELOW"
	lockTTLEnv           = "EPISODE_LOCK_TTL"
	lockWaitEnv          = "EPISODE_LOCK_WAIT"

	defaultSustainThreshold = 2
	defaultLockTTL          = 5 * time.Second
	defaultLockWait         = 10 * time.Second
)

type EpisodeConfig struct {
	SustainThreshold int
	// RecoveryThreshold defaults to SustainThreshold.
	RecoveryThreshold int
	InversionBelow    float64
	LockTTL           time.Duration
	LockWait          time.Duration
}

func LoadEpisodeConfig() (*EpisodeConfig, error) {
	sustain, err := positiveInt(sustainThresholdEnv, defaultSustainThreshold)
	if err != nil {
		return nil, err
	}

	recovery, err := positiveInt(recoveryThresholdEnv, sustain)
	if err != nil {
		return nil, err
	}

	var below float64
	if raw := os.Getenv(inversionBelowEnv); raw != "" {
		below, err = strconv.ParseFloat(raw, 64)
		if err != nil {
			return nil, fmt.Errorf("%w: %q", ErrInvalidInversionBound, raw)
		}
	}

	lockTTL, err := duration(lockTTLEnv, defaultLockTTL)
	if err != nil {
		return nil, err
	}

	lockWait, err := duration(lockWaitEnv, defaultLockWait)
	if err != nil {
		return nil, err
	}

	return &EpisodeConfig{
		SustainThreshold:  sustain,
		RecoveryThreshold: recovery,
		InversionBelow:    below,
		LockTTL:           lockTTL,
		LockWait:          lockWait,
	}, nil
}

func positiveInt(key string, def int) (int, error) {
	raw := os.Getenv(key)
	if raw == "" {
		return def, nil
	}
	v, err := strconv.Atoi(raw)
	if err != nil || v < 1 {
		return 0, fmt.Errorf("%w: %s=%q", ErrInvalidThreshold, key, raw)
	}
	return v, nil
}

func duration(key string, def time.Duration) (time.Duration, error) {
	raw := os.Getenv(key)
	if raw == "" {
		return def, nil
	}
	v, err := time.ParseDuration(raw)
	if err != nil || v <= 0 {
		return 0, fmt.Errorf("%w: %s=%q", ErrInvalidDuration, key, raw)
	}
	return v, nil
}
