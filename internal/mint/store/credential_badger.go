package store

import (
	"context"
	"errors"
	"fmt"

	badger "github.com/dgraph-io/badger/v4"

	"tourmint/internal/mint/models"
	id "tourmint/pkg/domain"
	"tourmint/pkg/platform/sentinel"
)

// BadgerCredentialStore persists credentials in an embedded badger database.
// Insert writes credential, owner and lastId in one badger transaction.
type BadgerCredentialStore struct {
	db *badger.DB
}

func NewBadgerCredentialStore(db *badger.DB) *BadgerCredentialStore {
	return &BadgerCredentialStore{db: db}
}

func (s *BadgerCredentialStore) AllocateID(ctx context.Context) (id.CredentialID, error) {
	lastID, err := s.LastID(ctx)
	if err != nil {
		return 0, err
	}
	return lastID + 1, nil
}

func (s *BadgerCredentialStore) Insert(_ context.Context, credential *models.Credential, owner id.Identity) error {
	if credential == nil {
		return fmt.Errorf("credential is required")
	}
	err := s.db.Update(func(txn *badger.Txn) error {
		lastID, err := readLastID(txn)
		if err != nil {
			return err
		}
		if credential.ID != lastID+1 {
			return sentinel.ErrConflict
		}
		if _, err := txn.Get(credentialKey(credential.ID)); err == nil {
			return sentinel.ErrConflict
		} else if !errors.Is(err, badger.ErrKeyNotFound) {
			return err
		}
		if err := writeValue(txn, credentialKey(credential.ID), toRecord(credential)); err != nil {
			return err
		}
		if err := txn.Set(ownerKey(credential.ID), []byte(owner)); err != nil {
			return err
		}
		return writeLastID(txn, credential.ID)
	})
	if errors.Is(err, badger.ErrConflict) {
		return sentinel.ErrConflict
	}
	if err != nil && !errors.Is(err, sentinel.ErrConflict) {
		return fmt.Errorf("insert credential: %w", err)
	}
	return err
}

func (s *BadgerCredentialStore) FindByID(_ context.Context, credentialID id.CredentialID) (*models.Credential, error) {
	var record credentialRecord
	var found bool
	err := s.db.View(func(txn *badger.Txn) error {
		var err error
		found, err = readValue(txn, credentialKey(credentialID), &record)
		return err
	})
	if err != nil {
		return nil, fmt.Errorf("find credential: %w", err)
	}
	if !found {
		return nil, sentinel.ErrNotFound
	}
	return record.toModel(), nil
}

func (s *BadgerCredentialStore) OwnerOf(_ context.Context, credentialID id.CredentialID) (id.Identity, error) {
	var owner id.Identity
	err := s.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get(ownerKey(credentialID))
		if err != nil {
			return err
		}
		return item.Value(func(val []byte) error {
			owner = id.Identity(val)
			return nil
		})
	})
	if errors.Is(err, badger.ErrKeyNotFound) {
		return "", sentinel.ErrNotFound
	}
	if err != nil {
		return "", fmt.Errorf("find owner: %w", err)
	}
	return owner, nil
}

func (s *BadgerCredentialStore) SetOwner(_ context.Context, credentialID id.CredentialID, owner id.Identity) error {
	err := s.db.Update(func(txn *badger.Txn) error {
		if _, err := txn.Get(ownerKey(credentialID)); err != nil {
			return err
		}
		return txn.Set(ownerKey(credentialID), []byte(owner))
	})
	if errors.Is(err, badger.ErrKeyNotFound) {
		return sentinel.ErrNotFound
	}
	if err != nil {
		return fmt.Errorf("set owner: %w", err)
	}
	return nil
}

func (s *BadgerCredentialStore) LastID(_ context.Context) (id.CredentialID, error) {
	var lastID id.CredentialID
	err := s.db.View(func(txn *badger.Txn) error {
		var err error
		lastID, err = readLastID(txn)
		return err
	})
	if err != nil {
		return 0, fmt.Errorf("read last id: %w", err)
	}
	return lastID, nil
}
