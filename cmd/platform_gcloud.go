//go:build gcloud

package main

import (
	"context"
	"os"

	"github.com/KasumiMercury/flock-watch/internal/config"
	"github.com/KasumiMercury/flock-watch/internal/observability"
	"github.com/KasumiMercury/flock-watch/internal/observability/logging"
)

func initObservability(ctx context.Context, cfg *config.Config) (*observability.Resources, error) {
	serviceName := os.Getenv("K_SERVICE")
	if serviceName == "" {
		serviceName = cfg.ServiceName
	}

	env := logging.EnvProd
	if os.Getenv("ENV") != "" {
		env = cfg.Environment
	}

	projectID := os.Getenv("GOOGLE_CLOUD_PROJECT")
	if projectID == "" {
		projectID = os.Getenv("GCLOUD_PROJECT_ID")
	}

	return observability.Init(ctx, observability.Config{
		ServiceInfo: logging.ServiceInfo{
			Name:     serviceName,
			Version:  Version,
			Revision: os.Getenv("K_REVISION"),
		},
		Environment:   env,
		LogLevel:      cfg.LogLevel,
		GCPProjectID:  projectID,
		SamplingRate:  1.0,
		DefaultModule: logging.Module("flock-watch"),
	})
}
