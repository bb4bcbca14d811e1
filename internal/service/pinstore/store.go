// Package pinstore owns the pin lifecycle: identifiers, timestamps and
// presentation of stored pins.
package pinstore

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/KasumiMercury/flock-watch/internal/domain"
	"github.com/KasumiMercury/flock-watch/internal/idgen"
	"github.com/KasumiMercury/flock-watch/internal/localtime"
)

type Store struct {
	repo      domain.PinRepository
	formatter *localtime.Formatter
	now       func() time.Time
}

func NewStore(repo domain.PinRepository, formatter *localtime.Formatter) *Store {
	return &Store{
		repo:      repo,
		formatter: formatter,
		now:       time.Now,
	}
}

// Save assigns an id and RecordedAt when absent, persists the pin and returns
// the stored form with a display timestamp. The argument is not modified.
func (s *Store) Save(ctx context.Context, pin *domain.Pin) (*domain.Pin, error) {
	stored := pin.Clone()
	if stored.ID == "" {
		stored.ID = idgen.New()
	}
	if stored.RecordedAt.IsZero() {
		stored.RecordedAt = s.now()
	}
	stored.RecordedAt = stored.RecordedAt.UTC()
	stored.Timestamp = ""

	if err := s.repo.Save(ctx, stored); err != nil {
		return nil, unavailable("save pin", err)
	}

	slog.DebugContext(ctx, "pin stored",
		slog.String("pin_id", stored.ID),
		slog.String("subject_id", stored.SubjectID),
	)

	return s.present(stored), nil
}

func (s *Store) FindAll(ctx context.Context) ([]*domain.Pin, error) {
	pins, err := s.repo.FindAll(ctx)
	if err != nil {
		return nil, unavailable("list pins", err)
	}

	result := make([]*domain.Pin, 0, len(pins))
	for _, p := range pins {
		result = append(result, s.present(p))
	}
	return result, nil
}

// FindBySubject returns the most recent pin for subjectID or ErrPinNotFound.
func (s *Store) FindBySubject(ctx context.Context, subjectID string) (*domain.Pin, error) {
	pin, err := s.repo.FindLatestBySubject(ctx, subjectID)
	if err != nil {
		if errors.Is(err, domain.ErrPinNotFound) {
			return nil, err
		}
		return nil, unavailable("find pin by subject", err)
	}
	return s.present(pin), nil
}

func (s *Store) DeleteByID(ctx context.Context, id string) (*domain.Pin, error) {
	pin, err := s.repo.Delete(ctx, id)
	if err != nil {
		if errors.Is(err, domain.ErrPinNotFound) {
			return nil, err
		}
		return nil, unavailable("delete pin", err)
	}

	slog.InfoContext(ctx, "pin deleted",
		slog.String("pin_id", id),
		slog.String("subject_id", pin.SubjectID),
	)

	return s.present(pin), nil
}

func (s *Store) DeleteAll(ctx context.Context) (int, error) {
	n, err := s.repo.DeleteAll(ctx)
	if err != nil {
		return 0, unavailable("delete all pins", err)
	}

	slog.InfoContext(ctx, "all pins deleted", slog.Int("count", n))

	return n, nil
}

func (s *Store) present(p *domain.Pin) *domain.Pin {
	out := p.Clone()
	out.Timestamp = s.formatter.Format(out.RecordedAt)
	return out
}

func unavailable(op string, err error) error {
	if errors.Is(err, domain.ErrStoreUnavailable) {
		return fmt.Errorf("%s: %w", op, err)
	}
	return fmt.Errorf("%s: %w: %w", op, domain.ErrStoreUnavailable, err)
}
