package store

import (
	"context"
	"fmt"

	badger "github.com/dgraph-io/badger/v4"

	"tourmint/internal/mint/models"
	id "tourmint/pkg/domain"
)

// BadgerSettingsStore keeps the registry configuration record under one key.
type BadgerSettingsStore struct {
	db *badger.DB
}

func NewBadgerSettingsStore(db *badger.DB) *BadgerSettingsStore {
	return &BadgerSettingsStore{db: db}
}

// Init writes the initial settings unless a record already exists.
func (s *BadgerSettingsStore) Init(_ context.Context, settings models.Settings) (bool, error) {
	created := false
	err := s.db.Update(func(txn *badger.Txn) error {
		var existing settingsRecord
		found, err := readValue(txn, []byte(keySettings), &existing)
		if err != nil || found {
			return err
		}
		created = true
		return writeValue(txn, []byte(keySettings), settingsRecord{
			ContractOwner:   settings.ContractOwner.String(),
			MintFee:         settings.MintFee,
			MaxEditionLimit: settings.MaxEditionLimit,
			Paused:          settings.Paused,
		})
	})
	if err != nil {
		return false, fmt.Errorf("init settings: %w", err)
	}
	return created, nil
}

func (s *BadgerSettingsStore) Snapshot(_ context.Context) (models.Settings, error) {
	var record settingsRecord
	var found bool
	err := s.db.View(func(txn *badger.Txn) error {
		var err error
		found, err = readValue(txn, []byte(keySettings), &record)
		return err
	})
	if err != nil {
		return models.Settings{}, fmt.Errorf("read settings: %w", err)
	}
	if !found {
		return models.Settings{}, ErrSettingsNotInitialized
	}
	return models.Settings{
		ContractOwner:   id.Identity(record.ContractOwner),
		MintFee:         record.MintFee,
		MaxEditionLimit: record.MaxEditionLimit,
		Paused:          record.Paused,
	}, nil
}

func (s *BadgerSettingsStore) SetPaused(_ context.Context, paused bool) error {
	return s.update(func(r *settingsRecord) { r.Paused = paused })
}

func (s *BadgerSettingsStore) SetMintFee(_ context.Context, fee uint64) error {
	return s.update(func(r *settingsRecord) { r.MintFee = fee })
}

func (s *BadgerSettingsStore) SetMaxEditionLimit(_ context.Context, limit uint64) error {
	return s.update(func(r *settingsRecord) { r.MaxEditionLimit = limit })
}

func (s *BadgerSettingsStore) update(fn func(*settingsRecord)) error {
	return s.db.Update(func(txn *badger.Txn) error {
		var record settingsRecord
		found, err := readValue(txn, []byte(keySettings), &record)
		if err != nil {
			return fmt.Errorf("read settings: %w", err)
		}
		if !found {
			return ErrSettingsNotInitialized
		}
		fn(&record)
		return writeValue(txn, []byte(keySettings), record)
	})
}
