package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"tourmint/internal/mint/models"
	id "tourmint/pkg/domain"
)

// PostgresSettingsStore reads and updates the single registry_settings row.
type PostgresSettingsStore struct {
	pgHandle
}

func NewPostgresSettingsStore(db *sql.DB) *PostgresSettingsStore {
	return &PostgresSettingsStore{pgHandle{db: db}}
}

// NewPostgresSettingsStoreTx binds the store to a transaction.
func NewPostgresSettingsStoreTx(tx *sql.Tx) *PostgresSettingsStore {
	return &PostgresSettingsStore{pgHandle{tx: tx}}
}

// Init inserts the settings row unless it already exists.
func (s *PostgresSettingsStore) Init(ctx context.Context, settings models.Settings) (bool, error) {
	res, err := s.execer().ExecContext(ctx, `
		INSERT INTO registry_settings (id, contract_owner, mint_fee, max_edition_limit, paused, last_id, updated_at)
		VALUES (1, $1, $2::text::numeric, $3::text::numeric, $4, 0, NOW())
		ON CONFLICT (id) DO NOTHING
	`, settings.ContractOwner.String(), formatUint(settings.MintFee), formatUint(settings.MaxEditionLimit), settings.Paused)
	if err != nil {
		return false, fmt.Errorf("init settings: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("init settings: %w", err)
	}
	return n == 1, nil
}

func (s *PostgresSettingsStore) Snapshot(ctx context.Context) (models.Settings, error) {
	var (
		owner    string
		fee      string
		maxLimit string
		settings models.Settings
	)
	err := s.execer().QueryRowContext(ctx, `
		SELECT contract_owner, mint_fee::text, max_edition_limit::text, paused
		FROM registry_settings
		WHERE id = 1
	`).Scan(&owner, &fee, &maxLimit, &settings.Paused)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return models.Settings{}, ErrSettingsNotInitialized
		}
		return models.Settings{}, fmt.Errorf("read settings: %w", err)
	}
	settings.ContractOwner = id.Identity(owner)
	if settings.MintFee, err = parseUint(fee); err != nil {
		return models.Settings{}, err
	}
	if settings.MaxEditionLimit, err = parseUint(maxLimit); err != nil {
		return models.Settings{}, err
	}
	return settings, nil
}

func (s *PostgresSettingsStore) SetPaused(ctx context.Context, paused bool) error {
	return s.update(ctx, `UPDATE registry_settings SET paused = $1, updated_at = NOW() WHERE id = 1`, paused)
}

func (s *PostgresSettingsStore) SetMintFee(ctx context.Context, fee uint64) error {
	return s.update(ctx, `UPDATE registry_settings SET mint_fee = $1::text::numeric, updated_at = NOW() WHERE id = 1`, formatUint(fee))
}

func (s *PostgresSettingsStore) SetMaxEditionLimit(ctx context.Context, limit uint64) error {
	return s.update(ctx, `UPDATE registry_settings SET max_edition_limit = $1::text::numeric, updated_at = NOW() WHERE id = 1`, formatUint(limit))
}

func (s *PostgresSettingsStore) update(ctx context.Context, query string, arg any) error {
	res, err := s.execer().ExecContext(ctx, query, arg)
	if err != nil {
		return fmt.Errorf("update settings: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("update settings: %w", err)
	}
	if n == 0 {
		return ErrSettingsNotInitialized
	}
	return nil
}
