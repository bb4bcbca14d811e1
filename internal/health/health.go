package health

import (
	"context"
	"database/sql"
	"net/http"
	"sort"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
)

// Status represents the health status of a service or dependency.
type Status string

const (
	StatusHealthy   Status = "healthy"
	StatusUnhealthy Status = "unhealthy"
)

// CheckResult represents the health check result for a single dependency.
type CheckResult struct {
	Status    Status `json:"status"`
	LatencyMs int64  `json:"latency_ms,omitempty"`
	Error     string `json:"error,omitempty"`
}

// HealthStatus represents the overall health status of the service.
type HealthStatus struct {
	Status  Status                 `json:"status"`
	Version string                 `json:"version,omitempty"`
	Checks  map[string]CheckResult `json:"checks,omitempty"`
}

// PingFunc probes one dependency.
type PingFunc func(ctx context.Context) error

// Checker performs health checks on service dependencies.
type Checker struct {
	checks  map[string]PingFunc
	version string
}

type Option func(*Checker)

// WithRedis checks the Redis backend. A nil client is ignored.
func WithRedis(client redis.UniversalClient) Option {
	return func(c *Checker) {
		if client == nil {
			return
		}
		c.checks["redis"] = func(ctx context.Context) error {
			return client.Ping(ctx).Err()
		}
	}
}

// WithSQLite checks the SQLite pin database. A nil handle is ignored.
func WithSQLite(db *sql.DB) Option {
	return func(c *Checker) {
		if db == nil {
			return
		}
		c.checks["sqlite"] = db.PingContext
	}
}

// NewChecker creates a new health checker with the given dependencies.
func NewChecker(version string, opts ...Option) *Checker {
	c := &Checker{
		checks:  make(map[string]PingFunc),
		version: version,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Check performs health checks on all dependencies and returns the overall status.
func (c *Checker) Check(ctx context.Context) *HealthStatus {
	checkCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	status := &HealthStatus{
		Status:  StatusHealthy,
		Version: c.version,
		Checks:  make(map[string]CheckResult),
	}

	names := make([]string, 0, len(c.checks))
	for name := range c.checks {
		names = append(names, name)
	}
	sort.Strings(names)

	for _, name := range names {
		start := time.Now()
		if err := c.checks[name](checkCtx); err != nil {
			status.Status = StatusUnhealthy
			status.Checks[name] = CheckResult{
				Status: StatusUnhealthy,
				Error:  err.Error(),
			}
			continue
		}
		status.Checks[name] = CheckResult{
			Status:    StatusHealthy,
			LatencyMs: time.Since(start).Milliseconds(),
		}
	}

	return status
}

// LiveHandler returns a Gin handler for liveness probes.
func (c *Checker) LiveHandler() gin.HandlerFunc {
	return func(ctx *gin.Context) {
		ctx.JSON(http.StatusOK, gin.H{"status": "ok"})
	}
}

// ReadyHandler returns a Gin handler for readiness probes.
func (c *Checker) ReadyHandler() gin.HandlerFunc {
	return func(ctx *gin.Context) {
		status := c.Check(ctx.Request.Context())

		httpStatus := http.StatusOK
		if status.Status != StatusHealthy {
			httpStatus = http.StatusServiceUnavailable
		}

		ctx.JSON(httpStatus, status)
	}
}
