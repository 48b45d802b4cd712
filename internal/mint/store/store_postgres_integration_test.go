//go:build integration

package store_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/suite"

	"tourmint/internal/mint/models"
	"tourmint/internal/mint/store"
	id "tourmint/pkg/domain"
	"tourmint/pkg/platform/sentinel"
	"tourmint/pkg/testutil"
	"tourmint/pkg/testutil/containers"
)

type PostgresStoreSuite struct {
	suite.Suite
	postgres    *containers.PostgresContainer
	credentials *store.PostgresCredentialStore
	settings    *store.PostgresSettingsStore
}

func TestPostgresStoreSuite(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}
	suite.Run(t, new(PostgresStoreSuite))
}

func (s *PostgresStoreSuite) SetupSuite() {
	mgr := containers.GetManager()
	s.postgres = mgr.GetPostgres(s.T())
	s.credentials = store.NewPostgresCredentialStore(s.postgres.DB)
	s.settings = store.NewPostgresSettingsStore(s.postgres.DB)
}

func (s *PostgresStoreSuite) SetupTest() {
	ctx := context.Background()
	s.Require().NoError(s.postgres.ResetRegistry(ctx))
	_, err := s.settings.Init(ctx, models.Settings{ContractOwner: "ST1TEST", MintFee: 1000, MaxEditionLimit: 100})
	s.Require().NoError(err)
}

func credential(credentialID id.CredentialID) *models.Credential {
	uri := "ipfs://tour"
	return &models.Credential{
		ID:             credentialID,
		Creator:        "ST1MUSEUM",
		Title:          "Tour1",
		Description:    "Désc",
		ContentHash:    make([]byte, models.ContentHashLength),
		AccessTier:     models.TierPremium,
		MintTime:       3,
		EditionLimit:   100,
		EditionCount:   1,
		RoyaltyRate:    20,
		IsTransferable: false,
		MetadataURI:    &uri,
		Tags:           []string{"a", "b"},
	}
}

func (s *PostgresStoreSuite) TestRoundTrip() {
	ctx := context.Background()
	s.Require().NoError(s.credentials.Insert(ctx, credential(1), "ST1MUSEUM"))

	got, err := s.credentials.FindByID(ctx, 1)
	s.Require().NoError(err)
	s.Equal(credential(1), got)

	lastID, err := s.credentials.LastID(ctx)
	s.Require().NoError(err)
	s.Equal(id.CredentialID(1), lastID)

	next, err := s.credentials.AllocateID(ctx)
	s.Require().NoError(err)
	s.Equal(id.CredentialID(2), next)
}

func (s *PostgresStoreSuite) TestInsertConflictLeavesNoTrace() {
	ctx := context.Background()
	s.Require().NoError(s.credentials.Insert(ctx, credential(1), "ST1MUSEUM"))

	err := s.credentials.Insert(ctx, credential(1), "ST1OTHER")
	s.ErrorIs(err, sentinel.ErrConflict)

	err = s.credentials.Insert(ctx, credential(5), "ST1OTHER")
	s.ErrorIs(err, sentinel.ErrConflict)

	_, err = s.credentials.FindByID(ctx, 5)
	s.ErrorIs(err, sentinel.ErrNotFound)
	owner, err := s.credentials.OwnerOf(ctx, 1)
	s.Require().NoError(err)
	s.Equal(id.Identity("ST1MUSEUM"), owner)
}

func (s *PostgresStoreSuite) TestSetOwnerAbsent() {
	err := s.credentials.SetOwner(context.Background(), 9, "ST1R")
	s.ErrorIs(err, sentinel.ErrNotFound)
}

func (s *PostgresStoreSuite) TestSettingsNumericRange() {
	ctx := context.Background()
	s.Require().NoError(s.settings.SetMintFee(ctx, ^uint64(0)))
	s.Require().NoError(s.settings.SetPaused(ctx, true))

	snapshot, err := s.settings.Snapshot(ctx)
	s.Require().NoError(err)
	s.Equal(^uint64(0), snapshot.MintFee)
	s.True(snapshot.Paused)
	s.Equal(id.Identity("ST1TEST"), snapshot.ContractOwner)
}

// TestConcurrentInsertsSameID verifies the compare-and-set on last_id lets exactly one writer win.
func (s *PostgresStoreSuite) TestConcurrentInsertsSameID() {
	ctx := context.Background()
	result := testutil.RunConcurrent(10, func(int) error {
		return s.credentials.Insert(ctx, credential(1), "ST1MUSEUM")
	})

	s.Equal(int32(1), result.Successes)
	s.Equal(int32(9), result.Conflicts+result.Errors)

	lastID, err := s.credentials.LastID(ctx)
	s.Require().NoError(err)
	s.Equal(id.CredentialID(1), lastID)
}
