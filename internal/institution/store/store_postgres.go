package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"tourmint/internal/institution/models"
	id "tourmint/pkg/domain"
)

// PostgresStore persists the issuer set in the institutions table.
type PostgresStore struct {
	db *sql.DB
}

func NewPostgres(db *sql.DB) *PostgresStore {
	return &PostgresStore{db: db}
}

// Add registers an institution. Re-registering keeps the original timestamp.
func (s *PostgresStore) Add(ctx context.Context, institution models.Institution) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO institutions (identity, registered_at)
		VALUES ($1, $2)
		ON CONFLICT (identity) DO NOTHING
	`, institution.ID.String(), institution.RegisteredAt)
	if err != nil {
		return fmt.Errorf("add institution: %w", err)
	}
	return nil
}

func (s *PostgresStore) IsMember(ctx context.Context, identity id.Identity) (bool, error) {
	if identity.IsNil() {
		return false, nil
	}
	var exists int
	err := s.db.QueryRowContext(ctx, `SELECT 1 FROM institutions WHERE identity = $1`, identity.String()).Scan(&exists)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return false, nil
		}
		return false, fmt.Errorf("check institution: %w", err)
	}
	return true, nil
}

func (s *PostgresStore) Count(ctx context.Context) (int, error) {
	var n int
	if err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM institutions`).Scan(&n); err != nil {
		return 0, fmt.Errorf("count institutions: %w", err)
	}
	return n, nil
}
