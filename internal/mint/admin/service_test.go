package admin

//go:generate mockgen -source=service.go -destination=mocks/mocks.go -package=mocks SettingsStore

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"sync"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/suite"
	"go.uber.org/mock/gomock"

	"tourmint/internal/mint/admin/mocks"
	mintmetrics "tourmint/internal/mint/metrics"
	"tourmint/internal/mint/models"
	"tourmint/internal/mint/store"
	id "tourmint/pkg/domain"
	dErrors "tourmint/pkg/domain-errors"
	"tourmint/pkg/platform/audit"
)

const owner = id.Identity("ST1OWNER")

type recordingEmitter struct {
	mu     sync.Mutex
	events []audit.Event
}

func (r *recordingEmitter) Emit(_ context.Context, event audit.Event) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, event)
	return nil
}

type AdminServiceSuite struct {
	suite.Suite
	ctrl      *gomock.Controller
	mockStore *mocks.MockSettingsStore
	emitter   *recordingEmitter
	metrics   *mintmetrics.Metrics
	service   *Service
}

func TestAdminServiceSuite(t *testing.T) {
	suite.Run(t, new(AdminServiceSuite))
}

func (s *AdminServiceSuite) SetupTest() {
	s.ctrl = gomock.NewController(s.T())
	s.mockStore = mocks.NewMockSettingsStore(s.ctrl)
	s.emitter = &recordingEmitter{}
	s.metrics = mintmetrics.NewWithRegisterer(prometheus.NewRegistry())
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	s.service = New(s.mockStore,
		WithLogger(logger),
		WithAuditLogger(audit.NewLogger(logger, s.emitter)),
		WithMetrics(s.metrics),
	)
}

func (s *AdminServiceSuite) TearDownTest() {
	s.ctrl.Finish()
}

func (s *AdminServiceSuite) expectSnapshot() {
	s.mockStore.EXPECT().Snapshot(gomock.Any()).Return(models.Settings{
		ContractOwner:   owner,
		MintFee:         1000,
		MaxEditionLimit: 100,
	}, nil)
}

func (s *AdminServiceSuite) TestSetPaused() {
	ctx := context.Background()

	s.Run("owner pauses", func() {
		s.expectSnapshot()
		s.mockStore.EXPECT().SetPaused(gomock.Any(), true).Return(nil)

		s.Require().NoError(s.service.SetPaused(ctx, owner, true))
	})

	s.Run("non owner rejected before any write", func() {
		s.expectSnapshot()

		err := s.service.SetPaused(ctx, "ST1STRANGER", true)
		s.ErrorIs(err, models.ErrNotAuthorized)
		s.True(dErrors.HasCode(err, dErrors.CodeForbidden))
	})
}

func (s *AdminServiceSuite) TestSetMintFee() {
	ctx := context.Background()

	s.Run("owner updates fee", func() {
		s.expectSnapshot()
		s.mockStore.EXPECT().SetMintFee(gomock.Any(), uint64(2500)).Return(nil)

		s.Require().NoError(s.service.SetMintFee(ctx, owner, 2500))
	})

	s.Run("zero fee invalid", func() {
		s.expectSnapshot()

		err := s.service.SetMintFee(ctx, owner, 0)
		s.ErrorIs(err, models.ErrInvalidFee)
		s.True(dErrors.HasCode(err, dErrors.CodeValidation))
	})

	s.Run("non owner with zero fee sees not authorized", func() {
		s.expectSnapshot()

		err := s.service.SetMintFee(ctx, "ST1STRANGER", 0)
		s.ErrorIs(err, models.ErrNotAuthorized)
	})
}

func (s *AdminServiceSuite) TestSetMaxEditionLimit() {
	ctx := context.Background()

	s.Run("owner updates limit", func() {
		s.expectSnapshot()
		s.mockStore.EXPECT().SetMaxEditionLimit(gomock.Any(), uint64(5)).Return(nil)

		s.Require().NoError(s.service.SetMaxEditionLimit(ctx, owner, 5))
	})

	s.Run("zero limit invalid", func() {
		s.expectSnapshot()

		err := s.service.SetMaxEditionLimit(ctx, owner, 0)
		s.ErrorIs(err, models.ErrInvalidEditionLimit)
	})

	s.Run("non owner rejected", func() {
		s.expectSnapshot()

		err := s.service.SetMaxEditionLimit(ctx, "ST1STRANGER", 5)
		s.ErrorIs(err, models.ErrNotAuthorized)
	})
}

func (s *AdminServiceSuite) TestStoreFailures() {
	ctx := context.Background()

	s.Run("snapshot failure is internal", func() {
		s.mockStore.EXPECT().Snapshot(gomock.Any()).Return(models.Settings{}, errors.New("connection refused"))

		err := s.service.SetPaused(ctx, owner, true)
		s.True(dErrors.HasCode(err, dErrors.CodeInternal))
		_, isKind := models.KindOf(err)
		s.False(isKind)
	})

	s.Run("write failure is internal", func() {
		s.expectSnapshot()
		s.mockStore.EXPECT().SetMintFee(gomock.Any(), uint64(10)).Return(errors.New("timeout"))

		err := s.service.SetMintFee(ctx, owner, 10)
		s.True(dErrors.HasCode(err, dErrors.CodeInternal))
	})
}

func (s *AdminServiceSuite) TestAuditAndMetrics() {
	ctx := context.Background()
	s.expectSnapshot()
	s.mockStore.EXPECT().SetMintFee(gomock.Any(), uint64(42)).Return(nil)
	s.expectSnapshot()

	s.Require().NoError(s.service.SetMintFee(ctx, owner, 42))
	s.Require().Error(s.service.SetMintFee(ctx, "ST1STRANGER", 42))

	s.Require().Len(s.emitter.events, 1)
	ev := s.emitter.events[0]
	s.Equal(string(audit.EventSettingsChanged), ev.Action)
	s.Equal(owner, ev.Actor)
	s.Equal("mint_fee=42", ev.Reason)
	s.InDelta(1, testutil.ToFloat64(s.metrics.SettingsChanged.WithLabelValues("mint_fee")), 0)
}

// TestAgainstMemoryStore runs the admin flow against the real settings record.
func (s *AdminServiceSuite) TestAgainstMemoryStore() {
	ctx := context.Background()
	settings := store.NewInMemorySettingsStore()
	_, err := settings.Init(ctx, models.Settings{ContractOwner: owner, MintFee: 1000, MaxEditionLimit: 100})
	s.Require().NoError(err)
	svc := New(settings)

	s.Require().NoError(svc.SetPaused(ctx, owner, true))
	s.Require().NoError(svc.SetMintFee(ctx, owner, 2000))
	s.Require().NoError(svc.SetMaxEditionLimit(ctx, owner, 7))
	s.ErrorIs(svc.SetMintFee(ctx, "ST1STRANGER", 1), models.ErrNotAuthorized)

	snapshot, err := settings.Snapshot(ctx)
	s.Require().NoError(err)
	s.Equal(models.Settings{ContractOwner: owner, MintFee: 2000, MaxEditionLimit: 7, Paused: true}, snapshot)
}
