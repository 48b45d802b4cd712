package seeder

import (
	"context"
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	institutionservice "tourmint/internal/institution/service"
	institutionstore "tourmint/internal/institution/store"
	"tourmint/internal/mint/models"
	"tourmint/internal/mint/store"
	"tourmint/internal/payment/ledger"
	id "tourmint/pkg/domain"
)

func newSeeder(t *testing.T) (*Seeder, *institutionstore.InMemoryStore, *store.InMemorySettingsStore, *ledger.InMemoryLedger) {
	t.Helper()
	institutions := institutionstore.NewInMemoryStore()
	gate, err := institutionservice.NewGate(institutions)
	require.NoError(t, err)
	settings := store.NewInMemorySettingsStore()
	accounts := ledger.NewInMemoryLedger()
	return New(gate, settings, accounts, slog.New(slog.NewTextHandler(io.Discard, nil))), institutions, settings, accounts
}

func defaultSeed() Seed {
	return Seed{
		Settings: models.Settings{ContractOwner: "ST1TEST", MintFee: 1000, MaxEditionLimit: 100},
		Issuers:  []string{"ST1MUSEUM", " ST1GALLERY "},
		Balances: map[string]uint64{"ST1MUSEUM": 5000},
	}
}

func TestSeedAll(t *testing.T) {
	ctx := context.Background()
	s, institutions, settings, accounts := newSeeder(t)

	require.NoError(t, s.SeedAll(ctx, defaultSeed()))

	snapshot, err := settings.Snapshot(ctx)
	require.NoError(t, err)
	assert.Equal(t, id.Identity("ST1TEST"), snapshot.ContractOwner)
	assert.False(t, snapshot.Paused)

	for _, issuer := range []id.Identity{"ST1MUSEUM", "ST1GALLERY"} {
		ok, err := institutions.IsMember(ctx, issuer)
		require.NoError(t, err)
		assert.True(t, ok, issuer)
	}

	balance, err := accounts.Balance(ctx, "ST1MUSEUM")
	require.NoError(t, err)
	assert.Equal(t, uint64(5000), balance)
}

func TestSeedAllIsIdempotent(t *testing.T) {
	ctx := context.Background()
	s, _, settings, accounts := newSeeder(t)
	require.NoError(t, s.SeedAll(ctx, defaultSeed()))
	require.NoError(t, accounts.Transfer(ctx, 1000, "ST1MUSEUM", "ST1TEST"))

	reseed := defaultSeed()
	reseed.Settings.ContractOwner = "ST1OTHER"
	require.NoError(t, s.SeedAll(ctx, reseed))

	snapshot, err := settings.Snapshot(ctx)
	require.NoError(t, err)
	assert.Equal(t, id.Identity("ST1TEST"), snapshot.ContractOwner, "contract owner never changes")

	balance, err := accounts.Balance(ctx, "ST1MUSEUM")
	require.NoError(t, err)
	assert.Equal(t, uint64(4000), balance)
}

func TestSeedAllRejectsBadInput(t *testing.T) {
	ctx := context.Background()
	cases := map[string]func(*Seed){
		"empty owner":    func(s *Seed) { s.Settings.ContractOwner = "" },
		"zero fee":       func(s *Seed) { s.Settings.MintFee = 0 },
		"zero limit":     func(s *Seed) { s.Settings.MaxEditionLimit = 0 },
		"blank issuer":   func(s *Seed) { s.Issuers = []string{"  "} },
		"spaced account": func(s *Seed) { s.Balances = map[string]uint64{"ST1 BAD": 1} },
	}
	for name, mutate := range cases {
		t.Run(name, func(t *testing.T) {
			s, _, _, _ := newSeeder(t)
			seed := defaultSeed()
			mutate(&seed)
			assert.Error(t, s.SeedAll(ctx, seed))
		})
	}
}
