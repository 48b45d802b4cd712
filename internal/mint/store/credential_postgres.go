package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5/pgtype"

	"tourmint/internal/mint/models"
	id "tourmint/pkg/domain"
	"tourmint/pkg/platform/sentinel"
)

// PostgresCredentialStore persists credentials in the credentials and
// credential_owners tables. lastId lives in the registry_settings row.
type PostgresCredentialStore struct {
	pgHandle
}

func NewPostgresCredentialStore(db *sql.DB) *PostgresCredentialStore {
	return &PostgresCredentialStore{pgHandle{db: db}}
}

// NewPostgresCredentialStoreTx binds the store to a transaction.
func NewPostgresCredentialStoreTx(tx *sql.Tx) *PostgresCredentialStore {
	return &PostgresCredentialStore{pgHandle{tx: tx}}
}

func (s *PostgresCredentialStore) AllocateID(ctx context.Context) (id.CredentialID, error) {
	lastID, err := s.LastID(ctx)
	if err != nil {
		return 0, err
	}
	return lastID + 1, nil
}

// Insert advances last_id with a compare-and-set and writes both rows.
func (s *PostgresCredentialStore) Insert(ctx context.Context, credential *models.Credential, owner id.Identity) error {
	if credential == nil {
		return fmt.Errorf("credential is required")
	}
	return s.inTx(ctx, func(exec dbExecutor) error {
		res, err := exec.ExecContext(ctx, `
			UPDATE registry_settings SET last_id = $1, updated_at = NOW()
			WHERE id = 1 AND last_id = $2
		`, int64(credential.ID), int64(credential.ID)-1)
		if err != nil {
			return fmt.Errorf("advance last id: %w", err)
		}
		if n, err := res.RowsAffected(); err != nil {
			return fmt.Errorf("advance last id: %w", err)
		} else if n == 0 {
			return sentinel.ErrConflict
		}

		tags := credential.Tags
		if tags == nil {
			tags = []string{}
		}
		_, err = exec.ExecContext(ctx, `
			INSERT INTO credentials (
				id, creator, title, description, content_hash, access_tier, mint_time,
				edition_limit, edition_count, royalty_rate, is_transferable, metadata_uri, tags
			)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8::text::numeric, $9::text::numeric, $10, $11, $12, $13)
		`,
			int64(credential.ID),
			credential.Creator.String(),
			credential.Title,
			credential.Description,
			credential.ContentHash,
			credential.AccessTier.String(),
			int64(credential.MintTime), //nolint:gosec // block heights stay far below MaxInt64
			formatUint(credential.EditionLimit),
			formatUint(credential.EditionCount),
			int64(credential.RoyaltyRate), //nolint:gosec // validated to at most 20
			credential.IsTransferable,
			credential.MetadataURI,
			tags,
		)
		if err != nil {
			if isUniqueViolation(err) {
				return sentinel.ErrConflict
			}
			return fmt.Errorf("insert credential: %w", err)
		}

		_, err = exec.ExecContext(ctx, `
			INSERT INTO credential_owners (credential_id, owner, updated_at)
			VALUES ($1, $2, NOW())
		`, int64(credential.ID), owner.String())
		if err != nil {
			if isUniqueViolation(err) {
				return sentinel.ErrConflict
			}
			return fmt.Errorf("insert owner: %w", err)
		}
		return nil
	})
}

func (s *PostgresCredentialStore) FindByID(ctx context.Context, credentialID id.CredentialID) (*models.Credential, error) {
	row := s.execer().QueryRowContext(ctx, `
		SELECT id, creator, title, description, content_hash, access_tier, mint_time,
		       edition_limit::text, edition_count::text, royalty_rate, is_transferable, metadata_uri, tags
		FROM credentials
		WHERE id = $1
	`, int64(credentialID))
	credential, err := scanCredential(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, sentinel.ErrNotFound
		}
		return nil, fmt.Errorf("find credential: %w", err)
	}
	return credential, nil
}

func (s *PostgresCredentialStore) OwnerOf(ctx context.Context, credentialID id.CredentialID) (id.Identity, error) {
	var owner string
	err := s.execer().QueryRowContext(ctx, `
		SELECT owner FROM credential_owners WHERE credential_id = $1
	`, int64(credentialID)).Scan(&owner)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return "", sentinel.ErrNotFound
		}
		return "", fmt.Errorf("find owner: %w", err)
	}
	return id.Identity(owner), nil
}

func (s *PostgresCredentialStore) SetOwner(ctx context.Context, credentialID id.CredentialID, owner id.Identity) error {
	res, err := s.execer().ExecContext(ctx, `
		UPDATE credential_owners SET owner = $2, updated_at = NOW() WHERE credential_id = $1
	`, int64(credentialID), owner.String())
	if err != nil {
		return fmt.Errorf("set owner: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("set owner: %w", err)
	}
	if n == 0 {
		return sentinel.ErrNotFound
	}
	return nil
}

// LastID reads the counter; an uninitialized registry has minted nothing.
func (s *PostgresCredentialStore) LastID(ctx context.Context) (id.CredentialID, error) {
	var lastID int64
	err := s.execer().QueryRowContext(ctx, `SELECT last_id FROM registry_settings WHERE id = 1`).Scan(&lastID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return 0, nil
		}
		return 0, fmt.Errorf("read last id: %w", err)
	}
	return id.CredentialID(lastID), nil //nolint:gosec // last_id is never negative
}

type credentialRow interface {
	Scan(dest ...any) error
}

func scanCredential(row credentialRow) (*models.Credential, error) {
	var (
		c            models.Credential
		credentialID int64
		creator      string
		tier         string
		mintTime     int64
		editionLimit string
		editionCount string
		royaltyRate  int64
		metadataURI  sql.NullString
		tags         []string
	)
	typeMap := pgtype.NewMap()
	if err := row.Scan(
		&credentialID,
		&creator,
		&c.Title,
		&c.Description,
		&c.ContentHash,
		&tier,
		&mintTime,
		&editionLimit,
		&editionCount,
		&royaltyRate,
		&c.IsTransferable,
		&metadataURI,
		typeMap.SQLScanner(&tags),
	); err != nil {
		return nil, err
	}

	var err error
	if c.EditionLimit, err = parseUint(editionLimit); err != nil {
		return nil, err
	}
	if c.EditionCount, err = parseUint(editionCount); err != nil {
		return nil, err
	}
	c.ID = id.CredentialID(credentialID) //nolint:gosec // ids are positive
	c.MintTime = uint64(mintTime)        //nolint:gosec // heights are positive
	c.RoyaltyRate = uint64(royaltyRate)  //nolint:gosec // constrained by CHECK
	c.Creator = id.Identity(creator)
	c.AccessTier = models.AccessTier(tier)
	if metadataURI.Valid {
		uri := metadataURI.String
		c.MetadataURI = &uri
	}
	if len(tags) > 0 {
		c.Tags = tags
	}
	return &c, nil
}
