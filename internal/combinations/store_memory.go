package combinations

import (
	"context"
	"slices"
	"sync"
)

// InMemoryStore keeps combinations in a map, for tests and database-less
// runs.
type InMemoryStore struct {
	mu     sync.RWMutex
	byID   map[int]*Combination
	nextID int
}

// NewInMemoryStore constructs an empty in-memory combination store.
func NewInMemoryStore() *InMemoryStore {
	return &InMemoryStore{byID: make(map[int]*Combination), nextID: 1}
}

func (s *InMemoryStore) Create(_ context.Context, userID int, balls, stars []int) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	c := &Combination{
		ID:     s.nextID,
		UserID: userID,
		Balls:  slices.Clone(balls),
		Stars:  slices.Clone(stars),
	}
	s.nextID++
	s.byID[c.ID] = c
	return c.ID, nil
}

func (s *InMemoryStore) Exists(_ context.Context, userID int, balls, stars []int) (bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, c := range s.byID {
		if c.UserID == userID && slices.Equal(c.Balls, balls) && slices.Equal(c.Stars, stars) {
			return true, nil
		}
	}
	return false, nil
}

func (s *InMemoryStore) OwnerOf(_ context.Context, id int) (int, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	c, ok := s.byID[id]
	if !ok {
		return 0, false, nil
	}
	return c.UserID, true, nil
}

func (s *InMemoryStore) ListByUser(_ context.Context, userID int) ([]Combination, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	result := []Combination{}
	for _, c := range s.byID {
		if c.UserID == userID {
			result = append(result, Combination{
				ID:     c.ID,
				UserID: c.UserID,
				Balls:  slices.Clone(c.Balls),
				Stars:  slices.Clone(c.Stars),
			})
		}
	}
	slices.SortFunc(result, func(a, b Combination) int { return a.ID - b.ID })
	return result, nil
}

func (s *InMemoryStore) Update(_ context.Context, id int, balls, stars []int) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	c, ok := s.byID[id]
	if !ok {
		return false, nil
	}
	c.Balls = slices.Clone(balls)
	c.Stars = slices.Clone(stars)
	return true, nil
}

func (s *InMemoryStore) Delete(_ context.Context, id int) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.byID[id]; !ok {
		return false, nil
	}
	delete(s.byID, id)
	return true, nil
}

func (s *InMemoryStore) DeleteByUser(_ context.Context, userID int) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for id, c := range s.byID {
		if c.UserID == userID {
			delete(s.byID, id)
		}
	}
	return nil
}
