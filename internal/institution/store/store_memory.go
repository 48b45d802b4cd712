package store

import (
	"context"
	"sync"

	"tourmint/internal/institution/models"
	id "tourmint/pkg/domain"
)

// InMemoryStore keeps the issuer set in a map. Membership never expires.
type InMemoryStore struct {
	mu      sync.RWMutex
	members map[id.Identity]models.Institution
}

func NewInMemoryStore() *InMemoryStore {
	return &InMemoryStore{
		members: make(map[id.Identity]models.Institution),
	}
}

func (s *InMemoryStore) Add(_ context.Context, institution models.Institution) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, exists := s.members[institution.ID]; exists {
		return nil
	}
	s.members[institution.ID] = institution
	return nil
}

func (s *InMemoryStore) IsMember(_ context.Context, identity id.Identity) (bool, error) {
	if identity.IsNil() {
		return false, nil
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	_, ok := s.members[identity]
	return ok, nil
}

// Count reports the number of registered institutions.
func (s *InMemoryStore) Count(_ context.Context) (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.members), nil
}
