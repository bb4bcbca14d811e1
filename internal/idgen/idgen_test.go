package idgen

import (
	"sync"
	"testing"

	"github.com/google/uuid"
)

func TestNew_Version7(t *testing.T) {
	id, err := uuid.Parse(New())
	if err != nil {
		t.Fatalf("invalid uuid: %v", err)
	}
	if id.Version() != 7 {
		t.Errorf("version: got %d, want 7", id.Version())
	}
}

func TestNew_UniqueUnderConcurrency(t *testing.T) {
	const workers = 16
	const perWorker = 500

	var mu sync.Mutex
	seen := make(map[string]struct{}, workers*perWorker)

	var wg sync.WaitGroup
	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			local := make([]string, 0, perWorker)
			for i := 0; i < perWorker; i++ {
				local = append(local, New())
			}
			mu.Lock()
			defer mu.Unlock()
			for _, id := range local {
				if _, dup := seen[id]; dup {
					t.Errorf("duplicate id %s", id)
				}
				seen[id] = struct{}{}
			}
		}()
	}
	wg.Wait()

	if len(seen) != workers*perWorker {
		t.Errorf("got %d unique ids, want %d", len(seen), workers*perWorker)
	}
}
