package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strconv"

	"github.com/jackc/pgx/v5/pgconn"
)

type dbExecutor interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

// pgHandle is embedded by the PostgreSQL stores. A store bound to a transaction
// runs every statement inside it; otherwise multi-statement writes open their own.
type pgHandle struct {
	db *sql.DB
	tx *sql.Tx
}

func (h pgHandle) execer() dbExecutor {
	if h.tx != nil {
		return h.tx
	}
	return h.db
}

func (h pgHandle) inTx(ctx context.Context, fn func(exec dbExecutor) error) error {
	if h.tx != nil {
		return fn(h.tx)
	}
	tx, err := h.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer func() {
		_ = tx.Rollback() //nolint:errcheck // rollback after commit is no-op
	}()
	if err := fn(tx); err != nil {
		return err
	}
	return tx.Commit()
}

// Amounts and limits are NUMERIC(20,0) so the full uint64 range round-trips as text.
func formatUint(v uint64) string { return strconv.FormatUint(v, 10) }

func parseUint(s string) (uint64, error) {
	v, err := strconv.ParseUint(s, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("parse numeric %q: %w", s, err)
	}
	return v, nil
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == "23505"
	}
	return false
}
