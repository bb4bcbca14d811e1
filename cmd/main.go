package main

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/extra/redisotel/v9"
	"github.com/redis/go-redis/v9"

	"github.com/KasumiMercury/flock-watch/internal/config"
	"github.com/KasumiMercury/flock-watch/internal/domain"
	"github.com/KasumiMercury/flock-watch/internal/handler"
	"github.com/KasumiMercury/flock-watch/internal/health"
	"github.com/KasumiMercury/flock-watch/internal/infra/notifier"
	"github.com/KasumiMercury/flock-watch/internal/infra/readingrecorder"
	"github.com/KasumiMercury/flock-watch/internal/infra/repository"
	"github.com/KasumiMercury/flock-watch/internal/localtime"
	"github.com/KasumiMercury/flock-watch/internal/observability/logging"
	"github.com/KasumiMercury/flock-watch/internal/observability/metrics"
	"github.com/KasumiMercury/flock-watch/internal/observability/middleware"
	"github.com/KasumiMercury/flock-watch/internal/service/alert"
	"github.com/KasumiMercury/flock-watch/internal/service/episode"
	"github.com/KasumiMercury/flock-watch/internal/service/ingest"
	"github.com/KasumiMercury/flock-watch/internal/service/pinstore"
)

// Version is set via ldflags at build time
var Version = "dev"

func main() {
	os.Exit(run())
}

func run() int {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load configuration", slog.String("error", err.Error()))
		return 1
	}

	if err := config.ValidateForRun(cfg); err != nil {
		slog.Error("configuration validation error", slog.String("error", err.Error()))
		return 1
	}

	obs, err := initObservability(ctx, cfg)
	if err != nil {
		slog.Error("failed to initialize observability", slog.String("error", err.Error()))
		return 1
	}
	defer func() {
		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer shutdownCancel()
		if err := obs.Shutdown(shutdownCtx); err != nil {
			slog.Warn("observability shutdown error", slog.String("error", err.Error()))
		}
	}()

	slog.SetDefault(obs.Logger())

	httpMetrics, err := metrics.NewHTTPMetrics()
	if err != nil {
		slog.Error("failed to initialize HTTP metrics", slog.String("error", err.Error()))
		return 1
	}

	ingestMetrics, err := metrics.NewIngestMetrics()
	if err != nil {
		slog.Error("failed to initialize ingest metrics", slog.String("error", err.Error()))
		return 1
	}

	// Initialize reading recorder (InfluxDB for local, BigQuery for gcloud)
	recorder, err := readingrecorder.NewRecorder(ctx, readingrecorder.LoadConfig())
	if err != nil {
		slog.Error("failed to initialize reading recorder", slog.String("error", err.Error()))
		return 1
	}
	defer func() {
		flushCtx, flushCancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer flushCancel()
		if err := recorder.Flush(flushCtx); err != nil {
			slog.Warn("failed to flush reading recorder", slog.String("error", err.Error()))
		}
		if err := recorder.Close(); err != nil {
			slog.Warn("failed to close reading recorder", slog.String("error", err.Error()))
		}
	}()

	notifyCfg := notifier.LoadConfig()
	channel, err := notifier.New(ctx, notifyCfg)
	if err != nil {
		slog.Error("failed to initialize notification channel", slog.String("error", err.Error()))
		return 1
	}
	defer func() {
		if err := channel.Close(); err != nil {
			slog.Warn("failed to close notification channel", slog.String("error", err.Error()))
		}
	}()

	var redisClient redis.UniversalClient
	if cfg.NeedsRedis() {
		client, err := connectRedis(ctx, cfg.Redis)
		if err != nil {
			slog.Error("failed to connect redis",
				slog.String("event", "redis.connect.fail"),
				slog.String("error", err.Error()),
			)
			return 1
		}
		defer func() {
			if err := client.Close(); err != nil {
				slog.Warn("failed to close redis client", slog.String("error", err.Error()))
			}
		}()
		redisClient = client

		slog.Info("redis connected",
			slog.String("addr", cfg.Redis.Addr),
		)
	}

	var sqliteDB *sql.DB
	if cfg.Store.PinBackend == config.BackendSQLite {
		sqliteDB, err = repository.OpenSQLite(ctx, cfg.Store.SQLitePath)
		if err != nil {
			slog.Error("failed to open sqlite database",
				slog.String("path", cfg.Store.SQLitePath),
				slog.String("error", err.Error()),
			)
			return 1
		}
		defer func() {
			if err := sqliteDB.Close(); err != nil {
				slog.Warn("failed to close sqlite database", slog.String("error", err.Error()))
			}
		}()
	}

	pinRepo := newPinRepository(cfg.Store, redisClient, sqliteDB)
	episodeStore := newEpisodeStore(cfg, redisClient)

	var ledger domain.AlertLedger
	if redisClient != nil {
		ledger = repository.NewRedisAlertLedger(redisClient, cfg.Alert.DedupTTL)
	} else {
		ledger = repository.NewMemoryAlertLedger(cfg.Alert.DedupTTL)
	}

	formatter, err := localtime.New(cfg.Display.Timezone, cfg.Display.DSTAdjust)
	if err != nil {
		slog.Error("invalid display timezone",
			slog.String("timezone", cfg.Display.Timezone),
			slog.String("error", err.Error()),
		)
		return 1
	}

	policy := episode.Policy{
		SustainThreshold:  cfg.Episode.SustainThreshold,
		RecoveryThreshold: cfg.Episode.RecoveryThreshold,
		InversionBelow:    cfg.Episode.InversionBelow,
	}
	if err := policy.Validate(); err != nil {
		slog.Error("invalid episode policy", slog.String("error", err.Error()))
		return 1
	}

	pins := pinstore.NewStore(pinRepo, formatter)
	tracker := episode.NewTracker(episodeStore, policy)
	dispatcher := alert.NewDispatcher(channel, ledger, notifyCfg.To, notifyCfg.From)
	ingestService := ingest.NewService(tracker, pins, dispatcher,
		ingest.WithRecorder(recorder),
		ingest.WithMetrics(ingestMetrics),
		ingest.WithNotifyTimeout(notifyCfg.Timeout),
	)

	// Setup router with observability middleware
	r := gin.New()
	r.Use(middleware.Gin(middleware.GinConfig{
		SkipPaths:   []string{"/health", "/health/live", "/health/ready"},
		Module:      logging.Module("ingest"),
		TracerName:  "github.com/KasumiMercury/flock-watch/internal/observability/middleware",
		HTTPMetrics: httpMetrics,
	}))
	r.Use(middleware.PanicRecoveryGin())

	// Health check endpoints
	healthChecker := health.NewChecker(Version,
		health.WithRedis(redisClient),
		health.WithSQLite(sqliteDB),
	)
	r.GET("/health/live", healthChecker.LiveHandler())
	r.GET("/health/ready", healthChecker.ReadyHandler())
	r.GET("/health", healthChecker.ReadyHandler())

	var auth gin.HandlerFunc
	if cfg.Auth.Enabled() {
		auth = handler.JWTAuth(cfg.Auth.JWTSecret, cfg.Auth.JWTIssuer)
	}
	handler.RegisterRoutes(r,
		handler.NewPinHandler(ingestService, pins),
		handler.NewEpisodeHandler(ingestService),
		auth,
	)

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	serverErr := make(chan error, 1)
	go func() {
		slog.Info("starting server",
			slog.String("port", cfg.Port),
			slog.String("pin_backend", string(cfg.Store.PinBackend)),
			slog.String("episode_backend", string(cfg.Store.EpisodeBackend)),
			slog.String("notify_channel", string(channel.Kind)),
			slog.Int("sustain_threshold", policy.SustainThreshold),
			slog.Int("recovery_threshold", policy.RecoveryThreshold),
			slog.String("display_timezone", formatter.Region()),
			slog.Bool("auth_enabled", auth != nil),
		)
		serverErr <- srv.ListenAndServe()
	}()

	// Wait for shutdown signal or server error
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case sig := <-quit:
		slog.Info("shutdown signal received", slog.String("signal", sig.String()))
		cancel()

		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer shutdownCancel()

		if err := srv.Shutdown(shutdownCtx); err != nil {
			slog.Error("failed to shutdown server", slog.String("error", err.Error()))
			return 1
		}

		slog.Info("server exited properly")
		return 0

	case err := <-serverErr:
		if errors.Is(err, http.ErrServerClosed) {
			return 0
		}
		slog.Error("server exited with error", slog.String("error", err.Error()))
		return 1
	}
}

func connectRedis(ctx context.Context, cfg *config.RedisConfig) (*redis.Client, error) {
	client := redis.NewClient(cfg.Options())

	if err := redisotel.InstrumentTracing(client); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("instrument redis tracing: %w", err)
	}

	if err := redisotel.InstrumentMetrics(client); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("instrument redis metrics: %w", err)
	}

	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, err
	}

	return client, nil
}

func newPinRepository(cfg *config.StoreConfig, redisClient redis.UniversalClient, db *sql.DB) domain.PinRepository {
	switch cfg.PinBackend {
	case config.BackendSQLite:
		return repository.NewSQLitePinRepository(db)
	case config.BackendMemory:
		slog.Warn("pins are kept in memory and lost on restart")
		return repository.NewMemoryPinRepository()
	default:
		return repository.NewRedisPinRepository(redisClient)
	}
}

func newEpisodeStore(cfg *config.Config, redisClient redis.UniversalClient) domain.EpisodeStore {
	if cfg.Store.EpisodeBackend == config.BackendRedis {
		return repository.NewEpisodeStore(redisClient,
			repository.WithLockTTL(cfg.Episode.LockTTL),
			repository.WithLockWait(cfg.Episode.LockWait),
		)
	}
	return episode.NewMemoryStore()
}
