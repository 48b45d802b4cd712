package main

import (
	"context"
	"database/sql"
	"time"

	mintservice "tourmint/internal/mint/service"
	mintstore "tourmint/internal/mint/store"
	"tourmint/internal/payment/ledger"
	dErrors "tourmint/pkg/domain-errors"
)

const (
	defaultMintTxTimeout = 5 * time.Second

	// registryLockKey is the advisory lock serializing mints and transfers.
	registryLockKey int64 = 0x746f75726d696e74
)

// mintPostgresTx runs each mint or transfer in one database transaction that
// first takes the registry advisory lock.
type mintPostgresTx struct {
	db      *sql.DB
	timeout time.Duration
}

func newMintPostgresTx(db *sql.DB) *mintPostgresTx {
	return &mintPostgresTx{db: db}
}

func (t *mintPostgresTx) RunInTx(ctx context.Context, fn func(ctx context.Context, stores mintservice.Stores) error) error {
	if err := ctx.Err(); err != nil {
		return dErrors.Wrap(err, dErrors.CodeTimeout, "transaction aborted: context cancelled")
	}

	timeout := t.timeout
	if timeout == 0 {
		timeout = defaultMintTxTimeout
	}
	if _, hasDeadline := ctx.Deadline(); !hasDeadline {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, timeout)
		defer cancel()
	}

	tx, err := t.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() {
		_ = tx.Rollback() //nolint:errcheck // rollback after commit is no-op; error already captured
	}()

	if _, err := tx.ExecContext(ctx, `SELECT pg_advisory_xact_lock($1)`, registryLockKey); err != nil {
		return dErrors.Wrap(err, dErrors.CodeTimeout, "failed to acquire registry lock")
	}

	stores := mintservice.Stores{
		Credentials: mintstore.NewPostgresCredentialStoreTx(tx),
		Settings:    mintstore.NewPostgresSettingsStoreTx(tx),
		Payments:    ledger.NewPostgresTx(tx),
	}
	if err := fn(ctx, stores); err != nil {
		return err
	}
	return tx.Commit()
}
