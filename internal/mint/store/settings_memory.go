package store

import (
	"context"
	"sync"

	"tourmint/internal/mint/models"
)

// InMemorySettingsStore holds the registry configuration record.
type InMemorySettingsStore struct {
	mu          sync.RWMutex
	settings    models.Settings
	initialized bool
}

func NewInMemorySettingsStore() *InMemorySettingsStore {
	return &InMemorySettingsStore{}
}

// Init stores the initial settings once. Later calls leave the record untouched,
// so the contract owner never changes.
func (s *InMemorySettingsStore) Init(_ context.Context, settings models.Settings) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.initialized {
		return false, nil
	}
	s.settings = settings
	s.initialized = true
	return true, nil
}

func (s *InMemorySettingsStore) Snapshot(_ context.Context) (models.Settings, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if !s.initialized {
		return models.Settings{}, ErrSettingsNotInitialized
	}
	return s.settings, nil
}

func (s *InMemorySettingsStore) SetPaused(_ context.Context, paused bool) error {
	return s.update(func(st *models.Settings) { st.Paused = paused })
}

func (s *InMemorySettingsStore) SetMintFee(_ context.Context, fee uint64) error {
	return s.update(func(st *models.Settings) { st.MintFee = fee })
}

func (s *InMemorySettingsStore) SetMaxEditionLimit(_ context.Context, limit uint64) error {
	return s.update(func(st *models.Settings) { st.MaxEditionLimit = limit })
}

func (s *InMemorySettingsStore) update(fn func(*models.Settings)) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.initialized {
		return ErrSettingsNotInitialized
	}
	fn(&s.settings)
	return nil
}
