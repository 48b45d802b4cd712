package store

import (
	"context"
	"fmt"
	"sync"

	"tourmint/internal/mint/models"
	id "tourmint/pkg/domain"
	"tourmint/pkg/platform/sentinel"
)

// InMemoryCredentialStore keeps credentials and ownership in maps.
// Credentials are cloned on the way in and out.
type InMemoryCredentialStore struct {
	mu          sync.RWMutex
	credentials map[id.CredentialID]*models.Credential
	owners      map[id.CredentialID]id.Identity
	lastID      id.CredentialID
}

func NewInMemoryCredentialStore() *InMemoryCredentialStore {
	return &InMemoryCredentialStore{
		credentials: make(map[id.CredentialID]*models.Credential),
		owners:      make(map[id.CredentialID]id.Identity),
	}
}

// AllocateID returns the id the next Insert must use. It does not consume it.
func (s *InMemoryCredentialStore) AllocateID(_ context.Context) (id.CredentialID, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.lastID + 1, nil
}

// Insert writes the credential and its owner and advances lastId.
func (s *InMemoryCredentialStore) Insert(_ context.Context, credential *models.Credential, owner id.Identity) error {
	if credential == nil {
		return fmt.Errorf("credential is required")
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, exists := s.credentials[credential.ID]; exists || credential.ID != s.lastID+1 {
		return sentinel.ErrConflict
	}
	s.credentials[credential.ID] = credential.Clone()
	s.owners[credential.ID] = owner
	s.lastID = credential.ID
	return nil
}

func (s *InMemoryCredentialStore) FindByID(_ context.Context, credentialID id.CredentialID) (*models.Credential, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	credential, ok := s.credentials[credentialID]
	if !ok {
		return nil, sentinel.ErrNotFound
	}
	return credential.Clone(), nil
}

func (s *InMemoryCredentialStore) OwnerOf(_ context.Context, credentialID id.CredentialID) (id.Identity, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	owner, ok := s.owners[credentialID]
	if !ok {
		return "", sentinel.ErrNotFound
	}
	return owner, nil
}

func (s *InMemoryCredentialStore) SetOwner(_ context.Context, credentialID id.CredentialID, owner id.Identity) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.owners[credentialID]; !ok {
		return sentinel.ErrNotFound
	}
	s.owners[credentialID] = owner
	return nil
}

func (s *InMemoryCredentialStore) LastID(_ context.Context) (id.CredentialID, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.lastID, nil
}
