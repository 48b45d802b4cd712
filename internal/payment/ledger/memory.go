// Package ledger moves native funds between principals and records every transfer.
package ledger

import (
	"context"
	"fmt"
	"sync"

	"tourmint/internal/payment/models"
	id "tourmint/pkg/domain"
	"tourmint/pkg/requestcontext"
)

// InMemoryLedger keeps balances and the transfer log in process memory.
type InMemoryLedger struct {
	mu       sync.Mutex
	balances map[id.Identity]uint64
	entries  []entry
}

// entry is a logged transfer plus whether it opened the recipient's account.
type entry struct {
	transfer models.Transfer
	opened   bool
}

func NewInMemoryLedger() *InMemoryLedger {
	return &InMemoryLedger{
		balances: make(map[id.Identity]uint64),
	}
}

// Seed opens an account with the given balance. Existing accounts are untouched.
func (l *InMemoryLedger) Seed(_ context.Context, account id.Identity, amount uint64) (bool, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if _, exists := l.balances[account]; exists {
		return false, nil
	}
	l.balances[account] = amount
	return true, nil
}

// Transfer debits from and credits to. A self-transfer still requires the funds.
func (l *InMemoryLedger) Transfer(ctx context.Context, amount uint64, from, to id.Identity) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.balances[from] < amount {
		return models.ErrInsufficientFunds
	}
	_, exists := l.balances[to]
	l.balances[from] -= amount
	l.balances[to] += amount
	l.entries = append(l.entries, entry{
		transfer: models.Transfer{
			Amount:    amount,
			From:      from,
			To:        to,
			CreatedAt: requestcontext.Now(ctx),
		},
		opened: !exists,
	})
	return nil
}

func (l *InMemoryLedger) Balance(_ context.Context, account id.Identity) (uint64, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.balances[account], nil
}

// Transfers returns the transfer log, oldest first.
func (l *InMemoryLedger) Transfers(_ context.Context) ([]models.Transfer, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	out := make([]models.Transfer, 0, len(l.entries))
	for _, e := range l.entries {
		out = append(out, e.transfer)
	}
	return out, nil
}

// Mark returns the length of the transfer log.
func (l *InMemoryLedger) Mark(_ context.Context) (uint64, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	return uint64(len(l.entries)), nil
}

// RevertTo undoes transfers newer than mark, newest first, and drops them from
// the log. Accounts opened by a reverted transfer are closed again.
func (l *InMemoryLedger) RevertTo(_ context.Context, mark uint64) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	if mark > uint64(len(l.entries)) {
		return fmt.Errorf("revert mark %d beyond log length %d", mark, len(l.entries))
	}
	for i := len(l.entries) - 1; i >= int(mark); i-- {
		e := l.entries[i]
		l.balances[e.transfer.To] -= e.transfer.Amount
		l.balances[e.transfer.From] += e.transfer.Amount
		if e.opened {
			delete(l.balances, e.transfer.To)
		}
	}
	l.entries = l.entries[:mark]
	return nil
}
