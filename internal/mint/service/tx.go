package service

import (
	"context"
	"errors"
	"sync"
	"time"

	dErrors "tourmint/pkg/domain-errors"
)

// StoreTx provides the serialized boundary for mint and transfer.
// Implementations may wrap a database transaction or an in-memory lock; fn
// receives stores bound to that boundary.
type StoreTx interface {
	RunInTx(ctx context.Context, fn func(ctx context.Context, stores Stores) error) error
}

const defaultTxTimeout = 5 * time.Second

// RevertiblePayments is implemented by payment backends that cannot join a
// database transaction. Mark returns the current position of the transfer log;
// RevertTo undoes every transfer recorded after it.
type RevertiblePayments interface {
	Mark(ctx context.Context) (uint64, error)
	RevertTo(ctx context.Context, mark uint64) error
}

// InMemoryStoreTx serializes mutations over stores that have no transactions
// of their own (memory and badger). When fn fails, transfers made by a
// RevertiblePayments backend during fn are reverted.
type InMemoryStoreTx struct {
	mu      sync.Mutex
	stores  Stores
	timeout time.Duration
}

func NewInMemoryStoreTx(stores Stores) *InMemoryStoreTx {
	return &InMemoryStoreTx{stores: stores}
}

func (t *InMemoryStoreTx) RunInTx(ctx context.Context, fn func(ctx context.Context, stores Stores) error) error {
	if err := ctx.Err(); err != nil {
		return dErrors.Wrap(err, dErrors.CodeTimeout, "transaction aborted: context cancelled")
	}

	timeout := t.timeout
	if timeout == 0 {
		timeout = defaultTxTimeout
	}
	if _, hasDeadline := ctx.Deadline(); !hasDeadline {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, timeout)
		defer cancel()
	}

	t.mu.Lock()
	defer t.mu.Unlock()

	if err := ctx.Err(); err != nil {
		return dErrors.Wrap(err, dErrors.CodeTimeout, "transaction aborted: context cancelled")
	}

	payments, revertible := t.stores.Payments.(RevertiblePayments)
	if !revertible {
		return fn(ctx, t.stores)
	}

	mark, err := payments.Mark(ctx)
	if err != nil {
		return dErrors.Wrap(err, dErrors.CodeInternal, "failed to mark payment log")
	}
	fnErr := fn(ctx, t.stores)
	if fnErr == nil {
		return nil
	}
	// Revert even when the request context has expired.
	if err := payments.RevertTo(context.WithoutCancel(ctx), mark); err != nil {
		return dErrors.Wrap(errors.Join(fnErr, err), dErrors.CodeInternal, "failed to revert payments")
	}
	return fnErr
}
