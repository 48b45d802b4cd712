//go:build integration

package store_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	"tourmint/internal/institution/models"
	"tourmint/internal/institution/store"
	id "tourmint/pkg/domain"
	"tourmint/pkg/testutil/containers"
)

type membershipStore interface {
	Add(ctx context.Context, institution models.Institution) error
	IsMember(ctx context.Context, identity id.Identity) (bool, error)
	Count(ctx context.Context) (int, error)
}

type MembershipIntegrationSuite struct {
	suite.Suite
	postgres *containers.PostgresContainer
	redis    *containers.RedisContainer
}

func TestMembershipIntegrationSuite(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}
	suite.Run(t, new(MembershipIntegrationSuite))
}

func (s *MembershipIntegrationSuite) SetupSuite() {
	mgr := containers.GetManager()
	s.postgres = mgr.GetPostgres(s.T())
	s.redis = mgr.GetRedis(s.T())
}

func (s *MembershipIntegrationSuite) SetupTest() {
	ctx := context.Background()
	s.Require().NoError(s.postgres.TruncateTables(ctx, "institutions"))
	s.Require().NoError(s.redis.FlushAll(ctx))
}

func (s *MembershipIntegrationSuite) backends() map[string]membershipStore {
	return map[string]membershipStore{
		"postgres": store.NewPostgres(s.postgres.DB),
		"redis":    store.NewRedis(s.redis.Client),
	}
}

func (s *MembershipIntegrationSuite) TestMembership() {
	ctx := context.Background()
	for name, backend := range s.backends() {
		s.Run(name, func() {
			s.Require().NoError(backend.Add(ctx, models.Institution{ID: "ST1MUSEUM", RegisteredAt: time.Now()}))
			s.Require().NoError(backend.Add(ctx, models.Institution{ID: "ST1MUSEUM", RegisteredAt: time.Now()}))

			ok, err := backend.IsMember(ctx, "ST1MUSEUM")
			s.Require().NoError(err)
			s.True(ok)

			ok, err = backend.IsMember(ctx, "ST1STRANGER")
			s.Require().NoError(err)
			s.False(ok)

			ok, err = backend.IsMember(ctx, "")
			s.Require().NoError(err)
			s.False(ok)

			n, err := backend.Count(ctx)
			s.Require().NoError(err)
			s.Equal(1, n)
		})
	}
}
