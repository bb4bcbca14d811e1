package episode

import (
	"context"
	"sync"

	"github.com/KasumiMercury/flock-watch/internal/domain"
)

type subjectEntry struct {
	mu        sync.Mutex
	state     domain.EpisodeState
	committed bool
}

// MemoryStore keeps episode state in process. Each subject has its own lock,
// so updates for different subjects never wait on each other.
type MemoryStore struct {
	mu       sync.Mutex
	subjects map[string]*subjectEntry
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		subjects: make(map[string]*subjectEntry),
	}
}

func (s *MemoryStore) entry(subjectID string, create bool) *subjectEntry {
	s.mu.Lock()
	defer s.mu.Unlock()

	e, ok := s.subjects[subjectID]
	if !ok && create {
		e = &subjectEntry{state: domain.NewEpisodeState()}
		s.subjects[subjectID] = e
	}
	return e
}

func (s *MemoryStore) Update(ctx context.Context, subjectID string, fn domain.EpisodeUpdateFunc) error {
	e := s.entry(subjectID, true)

	e.mu.Lock()
	defer e.mu.Unlock()

	if err := ctx.Err(); err != nil {
		return err
	}

	next, err := fn(e.state)
	if err != nil {
		return err
	}

	e.state = next
	e.committed = true
	return nil
}

func (s *MemoryStore) Get(_ context.Context, subjectID string) (domain.EpisodeState, error) {
	e := s.entry(subjectID, false)
	if e == nil {
		return domain.EpisodeState{}, domain.ErrEpisodeNotFound
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	if !e.committed {
		return domain.EpisodeState{}, domain.ErrEpisodeNotFound
	}
	return e.state, nil
}

// Len returns the number of subjects with committed state.
func (s *MemoryStore) Len() int {
	s.mu.Lock()
	entries := make([]*subjectEntry, 0, len(s.subjects))
	for _, e := range s.subjects {
		entries = append(entries, e)
	}
	s.mu.Unlock()

	n := 0
	for _, e := range entries {
		e.mu.Lock()
		if e.committed {
			n++
		}
		e.mu.Unlock()
	}
	return n
}
