package notifier

import (
	"context"
	"log/slog"

	"github.com/KasumiMercury/flock-watch/internal/domain"
)

func decisionID(ctx context.Context) (string, bool) {
	return domain.DecisionIDFromContext(ctx)
}

// Channel is a NotificationChannel with a release hook.
type Channel struct {
	domain.NotificationChannel
	Kind  Kind
	close func() error
}

func (c *Channel) Close() error {
	if c.close == nil {
		return nil
	}
	return c.close()
}

// New builds the channel selected by cfg.Kind.
func New(ctx context.Context, cfg *Config) (*Channel, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	switch cfg.Kind {
	case KindTwilio:
		ch, err := NewTwilioChannel(cfg.TwilioBaseURL, cfg.TwilioAccountSID, cfg.TwilioAuthToken, cfg.Timeout)
		if err != nil {
			return nil, err
		}
		slog.InfoContext(ctx, "notification channel initialized",
			slog.String("type", string(KindTwilio)),
			slog.String("base_url", cfg.TwilioBaseURL),
		)
		return &Channel{NotificationChannel: ch, Kind: KindTwilio}, nil

	case KindMQTT:
		ch, err := NewMQTTChannel(cfg.MQTTBroker, cfg.MQTTClientID, cfg.MQTTTopic, cfg.Timeout)
		if err != nil {
			return nil, err
		}
		slog.InfoContext(ctx, "notification channel initialized",
			slog.String("type", string(KindMQTT)),
			slog.String("broker", cfg.MQTTBroker),
			slog.String("topic", cfg.MQTTTopic),
		)
		return &Channel{NotificationChannel: ch, Kind: KindMQTT, close: ch.Close}, nil

	case KindCloudTasks:
		return newCloudTasksChannel(ctx, cfg)

	default:
		slog.InfoContext(ctx, "notification channel initialized", slog.String("type", string(KindLog)))
		return &Channel{NotificationChannel: NewLogChannel(nil), Kind: KindLog}, nil
	}
}
