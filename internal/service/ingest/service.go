// Package ingest runs one tag reading through parsing, episode tracking,
// persistence and alerting.
package ingest

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/KasumiMercury/flock-watch/internal/domain"
	"github.com/KasumiMercury/flock-watch/internal/observability/metrics"
	"github.com/KasumiMercury/flock-watch/internal/observability/tracing"
	"github.com/KasumiMercury/flock-watch/internal/service/alert"
	"github.com/KasumiMercury/flock-watch/internal/service/episode"
	"github.com/KasumiMercury/flock-watch/internal/service/payload"
	"github.com/KasumiMercury/flock-watch/internal/service/pinstore"
)

const defaultNotifyTimeout = 10 * time.Second

// Request is one inbound reading as delivered by the network server.
type Request struct {
	ObjectJSON string
	DevEUI     string
	DeviceName string
}

type Service struct {
	tracker       *episode.Tracker
	pins          *pinstore.Store
	dispatcher    *alert.Dispatcher
	recorder      domain.ReadingRecorder
	metrics       *metrics.IngestMetrics
	notifyTimeout time.Duration
}

type Option func(*Service)

func WithRecorder(recorder domain.ReadingRecorder) Option {
	return func(s *Service) {
		s.recorder = recorder
	}
}

func WithMetrics(m *metrics.IngestMetrics) Option {
	return func(s *Service) {
		s.metrics = m
	}
}

func WithNotifyTimeout(timeout time.Duration) Option {
	return func(s *Service) {
		if timeout > 0 {
			s.notifyTimeout = timeout
		}
	}
}

func NewService(tracker *episode.Tracker, pins *pinstore.Store, dispatcher *alert.Dispatcher, opts ...Option) *Service {
	s := &Service{
		tracker:       tracker,
		pins:          pins,
		dispatcher:    dispatcher,
		notifyTimeout: defaultNotifyTimeout,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Ingest parses req, classifies it against the subject's episode and stores
// the resulting pin. The episode state advances only when the pin was stored.
// Notification failures are logged and never fail the ingestion.
func (s *Service) Ingest(ctx context.Context, req Request) (*domain.Pin, error) {
	start := time.Now()

	ctx, span := tracing.StartIngestSpan(ctx, req.DevEUI)
	defer span.End()

	reading, err := s.parse(ctx, req)
	if err != nil {
		s.finish(ctx, metrics.OutcomeMalformed, start)
		tracing.RecordError(span, err)
		slog.WarnContext(ctx, "rejected malformed reading",
			slog.String("dev_eui", req.DevEUI),
			slog.String("error", err.Error()),
		)
		return nil, err
	}

	var stored *domain.Pin
	decision, err := s.tracker.Observe(ctx, reading.SubjectID, reading.AcceleroX, func(ctx context.Context, d domain.Decision) error {
		ctx, persistSpan := tracing.StartPersistSpan(ctx, reading.SubjectID)
		defer persistSpan.End()

		pin := domain.NewPin(reading, d.Transition)
		pin.RecordedAt = d.DecidedAt

		saved, err := s.pins.Save(ctx, pin)
		tracing.RecordError(persistSpan, err)
		if err != nil {
			return err
		}
		stored = saved
		return nil
	})
	if err != nil {
		outcome := metrics.OutcomeError
		if errors.Is(err, domain.ErrStoreUnavailable) {
			outcome = metrics.OutcomeUnavailable
		}
		s.finish(ctx, outcome, start)
		tracing.RecordError(span, err)
		slog.ErrorContext(ctx, "failed to ingest reading",
			slog.String("subject_id", reading.SubjectID),
			slog.String("error", err.Error()),
		)
		return nil, err
	}

	s.metrics.RecordTransition(ctx, decision.Transition.String())

	slog.InfoContext(ctx, "reading ingested",
		slog.String("subject_id", reading.SubjectID),
		slog.String("pin_id", stored.ID),
		slog.String("transition", decision.Transition.String()),
		slog.Float64("accelero_x", reading.AcceleroX),
	)

	s.notify(ctx, decision)
	s.record(ctx, stored)

	s.finish(ctx, metrics.OutcomeAccepted, start)
	tracing.RecordIngestResult(span, reading.SubjectID, stored.ID, decision.Transition.String())

	return stored, nil
}

// Episode returns the current episode state for subjectID.
func (s *Service) Episode(ctx context.Context, subjectID string) (domain.EpisodeState, error) {
	return s.tracker.State(ctx, subjectID)
}

func (s *Service) parse(ctx context.Context, req Request) (*domain.Reading, error) {
	_, span := tracing.StartParseSpan(ctx)
	defer span.End()

	reading, err := payload.Parse(req.ObjectJSON, payload.Envelope{
		DevEUI:     req.DevEUI,
		DeviceName: req.DeviceName,
	})
	tracing.RecordError(span, err)
	return reading, err
}

func (s *Service) notify(ctx context.Context, decision domain.Decision) {
	if !decision.Transition.Alertable() {
		return
	}

	// The caller's request may end before the provider answers.
	notifyCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), s.notifyTimeout)
	defer cancel()

	notifyCtx, span := tracing.StartNotifySpan(notifyCtx, decision.SubjectID, decision.Transition.String())
	defer span.End()

	delivery, err := s.dispatcher.Dispatch(notifyCtx, decision)
	tracing.RecordError(span, err)

	switch {
	case err != nil:
		s.metrics.RecordNotification(ctx, decision.Transition.String(), metrics.NotificationFailed)
		slog.ErrorContext(ctx, "alert notification dropped",
			slog.String("decision_id", decision.ID),
			slog.String("subject_id", decision.SubjectID),
			slog.String("transition", decision.Transition.String()),
			slog.String("error", err.Error()),
		)
	case delivery == nil:
		s.metrics.RecordNotification(ctx, decision.Transition.String(), metrics.NotificationDuplicate)
	default:
		s.metrics.RecordNotification(ctx, decision.Transition.String(), metrics.NotificationSent)
	}
}

func (s *Service) record(ctx context.Context, pin *domain.Pin) {
	if s.recorder == nil {
		return
	}

	err := s.recorder.RecordReading(ctx, domain.ReadingRecord{
		PinID:      pin.ID,
		SubjectID:  pin.SubjectID,
		DevEUI:     pin.DevEUI,
		Longitude:  pin.Longitude,
		Latitude:   pin.Latitude,
		AcceleroX:  pin.AcceleroX,
		Transition: pin.Transition,
		RecordedAt: pin.RecordedAt,
	})
	if err != nil {
		slog.WarnContext(ctx, "failed to record reading telemetry",
			slog.String("pin_id", pin.ID),
			slog.String("error", err.Error()),
		)
	}
}

func (s *Service) finish(ctx context.Context, outcome string, start time.Time) {
	s.metrics.RecordReading(ctx, outcome)
	s.metrics.RecordIngestDuration(ctx, outcome, time.Since(start))
}
