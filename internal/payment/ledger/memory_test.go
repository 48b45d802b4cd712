package ledger

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tourmint/internal/payment/models"
	id "tourmint/pkg/domain"
)

func TestInMemoryLedger_Transfer(t *testing.T) {
	ctx := context.Background()
	ledger := NewInMemoryLedger()
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
	assert.Equal(t, uint64(1000), transfers[0].Amount)
	assert.Equal(t, id.Identity("ST1MUSEUM"), transfers[0].From)
	assert.Equal(t, id.Identity("ST1TEST"), transfers[0].To)
}

func TestInMemoryLedger_InsufficientFunds(t *testing.T) {
	ctx := context.Background()
	ledger := NewInMemoryLedger()
	_, err := ledger.Seed(ctx, "ST1MUSEUM", 999)
	require.NoError(t, err)

	err = ledger.Transfer(ctx, 1000, "ST1MUSEUM", "ST1TEST")
	require.ErrorIs(t, err, models.ErrInsufficientFunds)

	balance, _ := ledger.Balance(ctx, "ST1MUSEUM")
	assert.Equal(t, uint64(999), balance)
	transfers, _ := ledger.Transfers(ctx)
	assert.Empty(t, transfers)

	err = ledger.Transfer(ctx, 1, "ST1NOBODY", "ST1TEST")
	assert.ErrorIs(t, err, models.ErrInsufficientFunds)
}

func TestInMemoryLedger_SelfTransferNeedsFunds(t *testing.T) {
	ctx := context.Background()
	ledger := NewInMemoryLedger()

	err := ledger.Transfer(ctx, 1000, "ST1TEST", "ST1TEST")
	assert.ErrorIs(t, err, models.ErrInsufficientFunds)

	_, err = ledger.Seed(ctx, "ST1TEST", 1000)
	require.NoError(t, err)
	require.NoError(t, ledger.Transfer(ctx, 1000, "ST1TEST", "ST1TEST"))

	balance, _ := ledger.Balance(ctx, "ST1TEST")
	assert.Equal(t, uint64(1000), balance)
	transfers, _ := ledger.Transfers(ctx)
	assert.Len(t, transfers, 1)
}

func TestInMemoryLedger_SeedDoesNotOverwrite(t *testing.T) {
	ctx := context.Background()
	ledger := NewInMemoryLedger()

	created, err := ledger.Seed(ctx, "ST1MUSEUM", 10)
	require.NoError(t, err)
	assert.True(t, created)

	created, err = ledger.Seed(ctx, "ST1MUSEUM", 99)
	require.NoError(t, err)
	assert.False(t, created)

	balance, _ := ledger.Balance(ctx, "ST1MUSEUM")
	assert.Equal(t, uint64(10), balance)
}

func TestInMemoryLedger_TransfersReturnsCopy(t *testing.T) {
	ctx := context.Background()
	ledger := NewInMemoryLedger()
	_, _ = ledger.Seed(ctx, "A", 10)
	require.NoError(t, ledger.Transfer(ctx, 5, "A", "B"))

	transfers, _ := ledger.Transfers(ctx)
	transfers[0].Amount = 999

	again, _ := ledger.Transfers(ctx)
	assert.Equal(t, uint64(5), again[0].Amount)
}

func TestInMemoryLedger_RevertTo(t *testing.T) {
	ctx := context.Background()
	ledger := NewInMemoryLedger()
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
}

func TestInMemoryLedger_RevertToRejectsFutureMark(t *testing.T) {
	ledger := NewInMemoryLedger()
	assert.Error(t, ledger.RevertTo(context.Background(), 3))
}
