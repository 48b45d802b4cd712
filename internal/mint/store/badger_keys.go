package store

import (
	"encoding/binary"
	"errors"

	badger "github.com/dgraph-io/badger/v4"
	"github.com/vmihailenco/msgpack/v5"

	"tourmint/internal/mint/models"
	id "tourmint/pkg/domain"
)

// Key layout. Ids are big-endian so prefix iteration walks them in order.
const (
	prefixCredential = "CREDENTIAL:"
	prefixOwner      = "OWNER:"
	keyLastID        = "META:LAST_ID"
	keySettings      = "META:SETTINGS"
)

func credentialKey(credentialID id.CredentialID) []byte {
	return idKey(prefixCredential, credentialID)
}

func ownerKey(credentialID id.CredentialID) []byte {
	return idKey(prefixOwner, credentialID)
}

func idKey(prefix string, credentialID id.CredentialID) []byte {
	key := make([]byte, len(prefix)+8)
	copy(key, prefix)
	binary.BigEndian.PutUint64(key[len(prefix):], uint64(credentialID))
	return key
}

// credentialRecord is the msgpack encoding of a credential.
type credentialRecord struct {
	ID             uint64   `msgpack:"id"`
	Creator        string   `msgpack:"creator"`
	Title          string   `msgpack:"title"`
	Description    string   `msgpack:"description"`
	ContentHash    []byte   `msgpack:"content_hash"`
	AccessTier     string   `msgpack:"access_tier"`
	MintTime       uint64   `msgpack:"mint_time"`
	EditionLimit   uint64   `msgpack:"edition_limit"`
	EditionCount   uint64   `msgpack:"edition_count"`
	RoyaltyRate    uint64   `msgpack:"royalty_rate"`
	IsTransferable bool     `msgpack:"is_transferable"`
	MetadataURI    *string  `msgpack:"metadata_uri"`
	Tags           []string `msgpack:"tags"`
}

func toRecord(c *models.Credential) credentialRecord {
	return credentialRecord{
		ID:             uint64(c.ID),
		Creator:        c.Creator.String(),
		Title:          c.Title,
		Description:    c.Description,
		ContentHash:    c.ContentHash,
		AccessTier:     c.AccessTier.String(),
		MintTime:       c.MintTime,
		EditionLimit:   c.EditionLimit,
		EditionCount:   c.EditionCount,
		RoyaltyRate:    c.RoyaltyRate,
		IsTransferable: c.IsTransferable,
		MetadataURI:    c.MetadataURI,
		Tags:           c.Tags,
	}
}

func (r credentialRecord) toModel() *models.Credential {
	return &models.Credential{
		ID:             id.CredentialID(r.ID),
		Creator:        id.Identity(r.Creator),
		Title:          r.Title,
		Description:    r.Description,
		ContentHash:    r.ContentHash,
		AccessTier:     models.AccessTier(r.AccessTier),
		MintTime:       r.MintTime,
		EditionLimit:   r.EditionLimit,
		EditionCount:   r.EditionCount,
		RoyaltyRate:    r.RoyaltyRate,
		IsTransferable: r.IsTransferable,
		MetadataURI:    r.MetadataURI,
		Tags:           r.Tags,
	}
}

type settingsRecord struct {
	ContractOwner   string `msgpack:"contract_owner"`
	MintFee         uint64 `msgpack:"mint_fee"`
	MaxEditionLimit uint64 `msgpack:"max_edition_limit"`
	Paused          bool   `msgpack:"paused"`
}

// readValue loads key into out. A missing key reports found=false.
func readValue(txn *badger.Txn, key []byte, out any) (bool, error) {
	item, err := txn.Get(key)
	if errors.Is(err, badger.ErrKeyNotFound) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	err = item.Value(func(val []byte) error {
		return msgpack.Unmarshal(val, out)
	})
	return err == nil, err
}

func writeValue(txn *badger.Txn, key []byte, v any) error {
	val, err := msgpack.Marshal(v)
	if err != nil {
		return err
	}
	return txn.Set(key, val)
}

func readLastID(txn *badger.Txn) (id.CredentialID, error) {
	item, err := txn.Get([]byte(keyLastID))
	if errors.Is(err, badger.ErrKeyNotFound) {
		return 0, nil
	}
	if err != nil {
		return 0, err
	}
	var lastID uint64
	err = item.Value(func(val []byte) error {
		if len(val) != 8 {
			return errors.New("corrupt last id")
		}
		lastID = binary.BigEndian.Uint64(val)
		return nil
	})
	return id.CredentialID(lastID), err
}

func writeLastID(txn *badger.Txn, lastID id.CredentialID) error {
	val := make([]byte, 8)
	binary.BigEndian.PutUint64(val, uint64(lastID))
	return txn.Set([]byte(keyLastID), val)
}
