package repository

import (
	"context"
	"sort"
	"sync"

	"github.com/KasumiMercury/flock-watch/internal/domain"
)

type memoryPinRepository struct {
	mu   sync.RWMutex
	pins map[string]*domain.Pin
}

// NewMemoryPinRepository keeps pins in process. Contents are lost on restart.
func NewMemoryPinRepository() domain.PinRepository {
	return &memoryPinRepository{
		pins: make(map[string]*domain.Pin),
	}
}

func (r *memoryPinRepository) Save(_ context.Context, pin *domain.Pin) error {
	if err := validatePin(pin); err != nil {
		return err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	r.pins[pin.ID] = pin.Clone()
	return nil
}

func (r *memoryPinRepository) sorted() []*domain.Pin {
	pins := make([]*domain.Pin, 0, len(r.pins))
	for _, p := range r.pins {
		pins = append(pins, p)
	}
	sort.Slice(pins, func(i, j int) bool {
		if pins[i].RecordedAt.Equal(pins[j].RecordedAt) {
			return pins[i].ID < pins[j].ID
		}
		return pins[i].RecordedAt.Before(pins[j].RecordedAt)
	})
	return pins
}

func (r *memoryPinRepository) FindAll(_ context.Context) ([]*domain.Pin, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	sorted := r.sorted()
	out := make([]*domain.Pin, len(sorted))
	for i, p := range sorted {
		out[i] = p.Clone()
	}
	return out, nil
}

func (r *memoryPinRepository) FindLatestBySubject(_ context.Context, subjectID string) (*domain.Pin, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	sorted := r.sorted()
	for i := len(sorted) - 1; i >= 0; i-- {
		if sorted[i].SubjectID == subjectID {
			return sorted[i].Clone(), nil
		}
	}
	return nil, domain.ErrPinNotFound
}

func (r *memoryPinRepository) Delete(_ context.Context, id string) (*domain.Pin, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	pin, ok := r.pins[id]
	if !ok {
		return nil, domain.ErrPinNotFound
	}
	delete(r.pins, id)
	return pin, nil
}

func (r *memoryPinRepository) DeleteAll(_ context.Context) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	n := len(r.pins)
	r.pins = make(map[string]*domain.Pin)
	return n, nil
}
