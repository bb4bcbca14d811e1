// Package alert turns alert-worthy transitions into outbound notifications.
package alert

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/KasumiMercury/flock-watch/internal/domain"
)

// Delivery describes a notification handed to the channel.
type Delivery struct {
	DecisionID string
	SubjectID  string
	Transition domain.Transition
	Message    string
	DeliveryID string
	SentAt     time.Time
}

type Dispatcher struct {
	channel domain.NotificationChannel
	ledger  domain.AlertLedger
	to      string
	from    string
	now     func() time.Time
}

func NewDispatcher(channel domain.NotificationChannel, ledger domain.AlertLedger, to, from string) *Dispatcher {
	return &Dispatcher{
		channel: channel,
		ledger:  ledger,
		to:      to,
		from:    from,
		now:     time.Now,
	}
}

// Message returns the notification text for an alert-worthy transition.
func Message(subjectID string, transition domain.Transition) (string, bool) {
	switch transition {
	case domain.TransitionSustainedAnomaly:
		return fmt.Sprintf("Your sheep %s is upside down", subjectID), true
	case domain.TransitionRecovered:
		return fmt.Sprintf("Your sheep %s is back up", subjectID), true
	default:
		return "", false
	}
}

// Dispatch sends at most one notification per decision. It returns nil
// without sending for transitions that do not alert and for decisions that
// were already dispatched. Failures wrap domain.ErrNotificationFailure.
func (d *Dispatcher) Dispatch(ctx context.Context, decision domain.Decision) (*Delivery, error) {
	message, ok := Message(decision.SubjectID, decision.Transition)
	if !ok {
		return nil, nil
	}

	first, err := d.ledger.MarkDispatched(ctx, decision.ID)
	if err != nil {
		return nil, fmt.Errorf("%w: ledger: %w", domain.ErrNotificationFailure, err)
	}
	if !first {
		slog.InfoContext(ctx, "alert already dispatched",
			slog.String("decision_id", decision.ID),
			slog.String("subject_id", decision.SubjectID),
		)
		return nil, nil
	}

	deliveryID, err := d.channel.Send(domain.ContextWithDecisionID(ctx, decision.ID), d.to, d.from, message)
	if err != nil {
		if releaseErr := d.ledger.Release(ctx, decision.ID); releaseErr != nil {
			slog.WarnContext(ctx, "failed to release alert ledger entry",
				slog.String("decision_id", decision.ID),
				slog.String("error", releaseErr.Error()),
			)
		}
		return nil, fmt.Errorf("%w: %w", domain.ErrNotificationFailure, err)
	}

	delivery := &Delivery{
		DecisionID: decision.ID,
		SubjectID:  decision.SubjectID,
		Transition: decision.Transition,
		Message:    message,
		DeliveryID: deliveryID,
		SentAt:     d.now().UTC(),
	}

	slog.InfoContext(ctx, "alert dispatched",
		slog.String("decision_id", decision.ID),
		slog.String("subject_id", decision.SubjectID),
		slog.String("transition", decision.Transition.String()),
		slog.String("delivery_id", deliveryID),
	)

	return delivery, nil
}
