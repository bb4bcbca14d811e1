package notifier

import (
	"context"
	"log/slog"

	"github.com/KasumiMercury/flock-watch/internal/idgen"
)

// LogChannel writes alerts to the structured log. It is the default when no
// provider is configured.
type LogChannel struct {
	logger *slog.Logger
}

func NewLogChannel(logger *slog.Logger) *LogChannel {
	if logger == nil {
		logger = slog.Default()
	}
	return &LogChannel{logger: logger}
}

func (c *LogChannel) Send(ctx context.Context, to, from, message string) (string, error) {
	id := idgen.New()

	c.logger.InfoContext(ctx, "alert notification",
		slog.String("delivery_id", id),
		slog.String("to", to),
		slog.String("from", from),
		slog.String("message", message),
	)

	return id, nil
}
