//go:build !gcloud

package main

import (
	"context"

	"github.com/KasumiMercury/flock-watch/internal/config"
	"github.com/KasumiMercury/flock-watch/internal/observability"
	"github.com/KasumiMercury/flock-watch/internal/observability/logging"
)

func initObservability(ctx context.Context, cfg *config.Config) (*observability.Resources, error) {
	return observability.Init(ctx, observability.Config{
		ServiceInfo: logging.ServiceInfo{
			Name:    cfg.ServiceName,
			Version: Version,
		},
		Environment:   cfg.Environment,
		LogLevel:      cfg.LogLevel,
		SamplingRate:  1.0,
		DefaultModule: logging.Module("flock-watch"),
	})
}
