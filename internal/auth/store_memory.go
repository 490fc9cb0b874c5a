package auth

import (
	"context"
	"sync"
)

// InMemoryCredentialStore holds credentials in a map, for tests and for
// running without a database.
type InMemoryCredentialStore struct {
	mu          sync.RWMutex
	credentials map[string]Credential
	nextID      int
}

// NewInMemoryCredentialStore constructs an empty in-memory credential store.
func NewInMemoryCredentialStore() *InMemoryCredentialStore {
	return &InMemoryCredentialStore{
		credentials: make(map[string]Credential),
		nextID:      1,
	}
}

// Add stores a credential and returns its assigned ID.
func (s *InMemoryCredentialStore) Add(nickname, passwordHash string) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	id := s.nextID
	s.nextID++
	s.credentials[nickname] = Credential{ID: id, Nickname: nickname, PasswordHash: passwordHash}
	return id
}

func (s *InMemoryCredentialStore) ByNickname(_ context.Context, nickname string) (*Credential, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	c, ok := s.credentials[nickname]
	if !ok {
		return nil, nil
	}
	return &c, nil
}
