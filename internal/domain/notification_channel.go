package domain

import "context"

//go:generate mockgen -source=notification_channel.go -destination=notification_channel_mock.go -package=domain

// NotificationChannel delivers a human readable message to an outbound address
// and returns the provider's delivery id.
type NotificationChannel interface {
	Send(ctx context.Context, to, from, message string) (string, error)
}

// AlertLedger records which decisions were already dispatched.
type AlertLedger interface {
	// MarkDispatched returns true the first time it is called for decisionID.
	MarkDispatched(ctx context.Context, decisionID string) (bool, error)
	// Release forgets decisionID so that a failed delivery may be retried by
	// the same decision.
	Release(ctx context.Context, decisionID string) error
}

type decisionIDKey struct{}

// ContextWithDecisionID attaches the decision being notified so channels that
// support provider-side deduplication can use it.
func ContextWithDecisionID(ctx context.Context, decisionID string) context.Context {
	return context.WithValue(ctx, decisionIDKey{}, decisionID)
}

func DecisionIDFromContext(ctx context.Context) (string, bool) {
	id, ok := ctx.Value(decisionIDKey{}).(string)
	return id, ok && id != ""
}
