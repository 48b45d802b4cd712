package ledger

import (
	"context"
	"testing"
	"time"

	badger "github.com/dgraph-io/badger/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tourmint/internal/payment/models"
	"tourmint/internal/platform/badgerdb"
	id "tourmint/pkg/domain"
	"tourmint/pkg/requestcontext"
)

func openBadger(t *testing.T, dir string) *badger.DB {
	t.Helper()
	db, err := badgerdb.Open(dir, nil)
	require.NoError(t, err)
	return db
}

func TestBadgerLedger_Transfer(t *testing.T) {
	db := openBadger(t, "")
	t.Cleanup(func() { _ = db.Close() })
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	ctx := requestcontext.WithTime(context.Background(), now)
	ledger := NewBadger(db)
	_, err := ledger.Seed(ctx, "ST1MUSEUM", 1500)
	require.NoError(t, err)

	require.NoError(t, ledger.Transfer(ctx, 1000, "ST1MUSEUM", "ST1TEST"))

	museum, _ := ledger.Balance(ctx, "ST1MUSEUM")
	owner, _ := ledger.Balance(ctx, "ST1TEST")
	assert.Equal(t, uint64(500), museum)
	assert.Equal(t, uint64(1000), owner)

	transfers, err := ledger.Transfers(ctx)
	require.NoError(t, err)
	require.Len(t, transfers, 1)
	assert.Equal(t, models.Transfer{
		Amount:    1000,
		From:      id.Identity("ST1MUSEUM"),
		To:        id.Identity("ST1TEST"),
		CreatedAt: now,
	}, transfers[0])

	err = ledger.Transfer(ctx, 501, "ST1MUSEUM", "ST1TEST")
	require.ErrorIs(t, err, models.ErrInsufficientFunds)
	museum, _ = ledger.Balance(ctx, "ST1MUSEUM")
	assert.Equal(t, uint64(500), museum)
}

func TestBadgerLedger_SelfTransferNeedsFunds(t *testing.T) {
	db := openBadger(t, "")
	t.Cleanup(func() { _ = db.Close() })
	ctx := context.Background()
	ledger := NewBadger(db)

	assert.ErrorIs(t, ledger.Transfer(ctx, 1000, "ST1TEST", "ST1TEST"), models.ErrInsufficientFunds)

	_, err := ledger.Seed(ctx, "ST1TEST", 1000)
	require.NoError(t, err)
	require.NoError(t, ledger.Transfer(ctx, 1000, "ST1TEST", "ST1TEST"))

	balance, _ := ledger.Balance(ctx, "ST1TEST")
	assert.Equal(t, uint64(1000), balance)
	transfers, _ := ledger.Transfers(ctx)
	assert.Len(t, transfers, 1)
}

func TestBadgerLedger_RevertTo(t *testing.T) {
	db := openBadger(t, "")
	t.Cleanup(func() { _ = db.Close() })
	ctx := context.Background()
	ledger := NewBadger(db)
	_, err := ledger.Seed(ctx, "ST1MUSEUM", 5000)
	require.NoError(t, err)
	require.NoError(t, ledger.Transfer(ctx, 1000, "ST1MUSEUM", "ST1TEST"))

	mark, err := ledger.Mark(ctx)
	require.NoError(t, err)
	assert.Equal(t, uint64(1), mark)

	require.NoError(t, ledger.Transfer(ctx, 1000, "ST1MUSEUM", "ST1TEST"))
	require.NoError(t, ledger.Transfer(ctx, 500, "ST1MUSEUM", "ST1GALLERY"))
	require.NoError(t, ledger.RevertTo(ctx, mark))

	museum, _ := ledger.Balance(ctx, "ST1MUSEUM")
	owner, _ := ledger.Balance(ctx, "ST1TEST")
	assert.Equal(t, uint64(4000), museum)
	assert.Equal(t, uint64(1000), owner)
	transfers, _ := ledger.Transfers(ctx)
	assert.Len(t, transfers, 1)

	created, err := ledger.Seed(ctx, "ST1GALLERY", 700)
	require.NoError(t, err)
	assert.True(t, created, "account opened by a reverted transfer is closed again")

	assert.Error(t, ledger.RevertTo(ctx, 9))
}

func TestBadgerLedger_SurvivesReopen(t *testing.T) {
	dir := t.TempDir()
	ctx := context.Background()

	db := openBadger(t, dir)
	ledger := NewBadger(db)
	_, err := ledger.Seed(ctx, "ST1MUSEUM", 5000)
	require.NoError(t, err)
	require.NoError(t, ledger.Transfer(ctx, 1000, "ST1MUSEUM", "ST1TEST"))
	require.NoError(t, db.Close())

	reopened := openBadger(t, dir)
	t.Cleanup(func() { _ = reopened.Close() })
	ledger = NewBadger(reopened)

	created, err := ledger.Seed(ctx, "ST1MUSEUM", 5000)
	require.NoError(t, err)
	assert.False(t, created)
	museum, _ := ledger.Balance(ctx, "ST1MUSEUM")
	assert.Equal(t, uint64(4000), museum)
	transfers, _ := ledger.Transfers(ctx)
	assert.Len(t, transfers, 1)
}
