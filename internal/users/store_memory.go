package users

import (
	"context"
	"sync"

	domainerrors "euromillones/pkg/domain-errors"
)

// InMemoryStore keeps users in a map, for tests and database-less runs.
type InMemoryStore struct {
	mu     sync.RWMutex
	byID   map[int]*User
	nextID int

	// onDelete lets the combinations store mirror the schema's cascade.
	onDelete func(userID int)
}

// NewInMemoryStore constructs an empty in-memory user store.
func NewInMemoryStore() *InMemoryStore {
	return &InMemoryStore{byID: make(map[int]*User), nextID: 1}
}

// OnDelete registers a cascade hook invoked with the removed user's ID.
func (s *InMemoryStore) OnDelete(fn func(userID int)) {
	s.onDelete = fn
}

func (s *InMemoryStore) ByEmail(_ context.Context, email string) (*User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.findLocked(email), nil
}

func (s *InMemoryStore) Create(_ context.Context, email string) (*User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.findLocked(email) != nil {
		return nil, nil
	}
	u := &User{ID: s.nextID, Email: email}
	s.nextID++
	s.byID[u.ID] = u
	return &User{ID: u.ID, Email: u.Email}, nil
}

func (s *InMemoryStore) UpdateEmail(_ context.Context, oldEmail, newEmail string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	target := s.findLocked(oldEmail)
	if target == nil {
		return false, nil
	}
	if taken := s.findLocked(newEmail); taken != nil && taken.ID != target.ID {
		return false, domainerrors.New(domainerrors.CodeConflict, "New email already exists")
	}
	target.Email = newEmail
	return true, nil
}

func (s *InMemoryStore) Delete(_ context.Context, email string) (bool, error) {
	s.mu.Lock()
	u := s.findLocked(email)
	if u == nil {
		s.mu.Unlock()
		return false, nil
	}
	delete(s.byID, u.ID)
	hook := s.onDelete
	s.mu.Unlock()

	if hook != nil {
		hook(u.ID)
	}
	return true, nil
}

func (s *InMemoryStore) findLocked(email string) *User {
	for _, u := range s.byID {
		if u.Email == email {
			return u
		}
	}
	return nil
}
