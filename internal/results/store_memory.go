package results

import (
	"context"
	"slices"
	"sync"
)

// InMemoryStore keeps draw results in a map, for tests and database-less
// runs.
type InMemoryStore struct {
	mu     sync.RWMutex
	byDate map[string]*DrawResult
}

// NewInMemoryStore constructs an empty in-memory result store.
func NewInMemoryStore() *InMemoryStore {
	return &InMemoryStore{byDate: make(map[string]*DrawResult)}
}

func (s *InMemoryStore) ByDate(_ context.Context, date string) (*DrawResult, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	r, ok := s.byDate[date]
	if !ok {
		return nil, nil
	}
	return &DrawResult{
		Date:    r.Date,
		Balls:   slices.Clone(r.Balls),
		Stars:   slices.Clone(r.Stars),
		Jackpot: slices.Clone(r.Jackpot),
	}, nil
}

func (s *InMemoryStore) Upsert(_ context.Context, result *DrawResult) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.byDate[result.Date] = &DrawResult{
		Date:    result.Date,
		Balls:   slices.Clone(result.Balls),
		Stars:   slices.Clone(result.Stars),
		Jackpot: slices.Clone(result.Jackpot),
	}
	return nil
}
