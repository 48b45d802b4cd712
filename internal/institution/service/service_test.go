package service

//go:generate mockgen -source=service.go -destination=mocks/mocks.go -package=mocks MembershipStore

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"
	"go.uber.org/mock/gomock"

	"tourmint/internal/institution/models"
	"tourmint/internal/institution/service/mocks"
	"tourmint/internal/institution/store"
	id "tourmint/pkg/domain"
	dErrors "tourmint/pkg/domain-errors"
	"tourmint/pkg/requestcontext"
)

type GateSuite struct {
	suite.Suite
	ctrl      *gomock.Controller
	mockStore *mocks.MockMembershipStore
	gate      *Gate
}

func TestGateSuite(t *testing.T) {
	suite.Run(t, new(GateSuite))
}

func (s *GateSuite) SetupTest() {
	s.ctrl = gomock.NewController(s.T())
	s.mockStore = mocks.NewMockMembershipStore(s.ctrl)
	var err error
	s.gate, err = NewGate(s.mockStore, WithLogger(slog.New(slog.NewTextHandler(io.Discard, nil))))
	s.Require().NoError(err)
}

func (s *GateSuite) TearDownTest() {
	s.ctrl.Finish()
}

func (s *GateSuite) TestNewGate() {
	s.Run("nil store returns error", func() {
		_, err := NewGate(nil)
		s.ErrorContains(err, "membership store is required")
	})
}

func (s *GateSuite) TestIsAuthorizedIssuer() {
	ctx := context.Background()

	s.Run("member", func() {
		s.mockStore.EXPECT().IsMember(ctx, id.Identity("ST1MUSEUM")).Return(true, nil)
		ok, err := s.gate.IsAuthorizedIssuer(ctx, "ST1MUSEUM")
		s.NoError(err)
		s.True(ok)
	})

	s.Run("non member", func() {
		s.mockStore.EXPECT().IsMember(ctx, id.Identity("ST1STRANGER")).Return(false, nil)
		ok, err := s.gate.IsAuthorizedIssuer(ctx, "ST1STRANGER")
		s.NoError(err)
		s.False(ok)
	})

	s.Run("store failure is internal, not a denial", func() {
		s.mockStore.EXPECT().IsMember(ctx, id.Identity("ST1MUSEUM")).Return(false, errors.New("connection reset"))
		ok, err := s.gate.IsAuthorizedIssuer(ctx, "ST1MUSEUM")
		s.False(ok)
		s.True(dErrors.HasCode(err, dErrors.CodeInternal))
	})
}

func (s *GateSuite) TestRegister() {
	now := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)
	ctx := requestcontext.WithTime(context.Background(), now)

	s.Run("adds institution stamped with request time", func() {
		s.mockStore.EXPECT().
			Add(ctx, models.Institution{ID: "ST1MUSEUM", RegisteredAt: now}).
			Return(nil)
		s.NoError(s.gate.Register(ctx, "ST1MUSEUM"))
	})

	s.Run("empty identity rejected without touching the store", func() {
		err := s.gate.Register(ctx, "")
		s.True(dErrors.HasCode(err, dErrors.CodeInvalidInput))
	})

	s.Run("store failure is internal", func() {
		s.mockStore.EXPECT().Add(ctx, gomock.Any()).Return(errors.New("disk full"))
		err := s.gate.Register(ctx, "ST1MUSEUM")
		s.True(dErrors.HasCode(err, dErrors.CodeInternal))
	})
}

// TestGateOverMemoryStore checks the gate against the real in-memory set.
func (s *GateSuite) TestGateOverMemoryStore() {
	ctx := context.Background()
	gate, err := NewGate(store.NewInMemoryStore())
	s.Require().NoError(err)

	s.Require().NoError(gate.Register(ctx, "ST1TEST"))

	ok, err := gate.IsAuthorizedIssuer(ctx, "ST1TEST")
	s.NoError(err)
	s.True(ok)

	ok, err = gate.IsAuthorizedIssuer(ctx, "ST1OTHER")
	s.NoError(err)
	s.False(ok)
}
