package config

import "time"

const defaultAlertDedupTTL = 24 * time.Hour

type AlertConfig struct {
	// DedupTTL bounds how long a dispatched decision is remembered.
	DedupTTL time.Duration
}

func LoadAlertConfig() (*AlertConfig, error) {
	ttl, err := duration("ALERT_DEDUP_TTL", defaultAlertDedupTTL)
	if err != nil {
		return nil, err
	}
	return &AlertConfig{DedupTTL: ttl}, nil
}
