package ledger

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strconv"

	"tourmint/internal/payment/models"
	id "tourmint/pkg/domain"
	"tourmint/pkg/requestcontext"
)

type dbExecutor interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

// PostgresLedger keeps balances and the payment log in PostgreSQL. Bound to a
// transaction it joins the caller's unit of work, so a failed mint rolls the
// payment back with it.
type PostgresLedger struct {
	db *sql.DB
	tx *sql.Tx
}

func NewPostgres(db *sql.DB) *PostgresLedger {
	return &PostgresLedger{db: db}
}

func NewPostgresTx(tx *sql.Tx) *PostgresLedger {
	return &PostgresLedger{tx: tx}
}

func (l *PostgresLedger) execer() dbExecutor {
	if l.tx != nil {
		return l.tx
	}
	return l.db
}

func (l *PostgresLedger) Seed(ctx context.Context, account id.Identity, amount uint64) (bool, error) {
	res, err := l.execer().ExecContext(ctx, `
		INSERT INTO balances (identity, amount, updated_at)
		VALUES ($1, $2::text::numeric, $3)
		ON CONFLICT (identity) DO NOTHING
	`, account.String(), strconv.FormatUint(amount, 10), requestcontext.Now(ctx))
	if err != nil {
		return false, fmt.Errorf("seed balance: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("seed balance: %w", err)
	}
	return n == 1, nil
}

// Transfer debits with a guarded UPDATE so the balance never goes negative.
func (l *PostgresLedger) Transfer(ctx context.Context, amount uint64, from, to id.Identity) error {
	if l.tx == nil {
		tx, err := l.db.BeginTx(ctx, nil)
		if err != nil {
			return fmt.Errorf("begin tx: %w", err)
		}
		defer func() {
			_ = tx.Rollback() //nolint:errcheck // rollback after commit is no-op
		}()
		if err := NewPostgresTx(tx).Transfer(ctx, amount, from, to); err != nil {
			return err
		}
		return tx.Commit()
	}

	value := strconv.FormatUint(amount, 10)
	now := requestcontext.Now(ctx)
	res, err := l.tx.ExecContext(ctx, `
		UPDATE balances SET amount = amount - $2::text::numeric, updated_at = $3
		WHERE identity = $1 AND amount >= $2::text::numeric
	`, from.String(), value, now)
	if err != nil {
		return fmt.Errorf("debit balance: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("debit balance: %w", err)
	}
	if n == 0 {
		return models.ErrInsufficientFunds
	}

	_, err = l.tx.ExecContext(ctx, `
		INSERT INTO balances (identity, amount, updated_at)
		VALUES ($1, $2::text::numeric, $3)
		ON CONFLICT (identity) DO UPDATE SET amount = balances.amount + EXCLUDED.amount, updated_at = EXCLUDED.updated_at
	`, to.String(), value, now)
	if err != nil {
		return fmt.Errorf("credit balance: %w", err)
	}

	_, err = l.tx.ExecContext(ctx, `
		INSERT INTO payments (amount, sender, recipient, created_at)
		VALUES ($1::text::numeric, $2, $3, $4)
	`, value, from.String(), to.String(), now)
	if err != nil {
		return fmt.Errorf("record payment: %w", err)
	}
	return nil
}

func (l *PostgresLedger) Balance(ctx context.Context, account id.Identity) (uint64, error) {
	var amount string
	err := l.execer().QueryRowContext(ctx, `SELECT amount::text FROM balances WHERE identity = $1`, account.String()).Scan(&amount)
	if errors.Is(err, sql.ErrNoRows) {
		return 0, nil
	}
	if err != nil {
		return 0, fmt.Errorf("read balance: %w", err)
	}
	return strconv.ParseUint(amount, 10, 64)
}

func (l *PostgresLedger) Transfers(ctx context.Context) ([]models.Transfer, error) {
	rows, err := l.execer().QueryContext(ctx, `
		SELECT amount::text, sender, recipient, created_at FROM payments ORDER BY id ASC
	`)
	if err != nil {
		return nil, fmt.Errorf("list payments: %w", err)
	}
	defer rows.Close()

	var transfers []models.Transfer
	for rows.Next() {
		var (
			t      models.Transfer
			amount string
			from   string
			to     string
		)
		if err := rows.Scan(&amount, &from, &to, &t.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan payment: %w", err)
		}
		if t.Amount, err = strconv.ParseUint(amount, 10, 64); err != nil {
			return nil, fmt.Errorf("parse payment amount: %w", err)
		}
		t.From = id.Identity(from)
		t.To = id.Identity(to)
		transfers = append(transfers, t)
	}
	return transfers, rows.Err()
}
