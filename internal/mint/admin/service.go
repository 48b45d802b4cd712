// Package admin holds the contract owner's control surface over registry settings.
package admin

import (
	"context"
	"log/slog"
	"strconv"

	mintmetrics "tourmint/internal/mint/metrics"
	"tourmint/internal/mint/models"
	id "tourmint/pkg/domain"
	dErrors "tourmint/pkg/domain-errors"
	"tourmint/pkg/platform/audit"
	"tourmint/pkg/platform/tracer"
)

// SettingsStore is the only write path to registry settings.
type SettingsStore interface {
	Snapshot(ctx context.Context) (models.Settings, error)
	SetPaused(ctx context.Context, paused bool) error
	SetMintFee(ctx context.Context, fee uint64) error
	SetMaxEditionLimit(ctx context.Context, limit uint64) error
}

const (
	settingPaused          = "paused"
	settingMintFee         = "mint_fee"
	settingMaxEditionLimit = "max_edition_limit"
)

// Service applies owner-only settings changes.
type Service struct {
	settings SettingsStore
	logger   *slog.Logger
	auditor  *audit.Logger
	metrics  *mintmetrics.Metrics
	tracer   tracer.Tracer
}

type Option func(*Service)

func WithLogger(logger *slog.Logger) Option {
	return func(s *Service) {
		s.logger = logger
	}
}

func WithAuditLogger(auditor *audit.Logger) Option {
	return func(s *Service) {
		s.auditor = auditor
	}
}

func WithMetrics(m *mintmetrics.Metrics) Option {
	return func(s *Service) {
		s.metrics = m
	}
}

func WithTracer(t tracer.Tracer) Option {
	return func(s *Service) {
		s.tracer = t
	}
}

func New(settings SettingsStore, opts ...Option) *Service {
	s := &Service{
		settings: settings,
		logger:   slog.Default(),
		tracer:   tracer.NewNoop(),
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.auditor == nil {
		s.auditor = audit.NewLogger(s.logger, nil)
	}
	return s
}

// SetPaused toggles mint issuance. Transfers are unaffected.
func (s *Service) SetPaused(ctx context.Context, caller id.Identity, paused bool) error {
	return s.update(ctx, caller, settingPaused, strconv.FormatBool(paused), func(ctx context.Context) error {
		return s.settings.SetPaused(ctx, paused)
	})
}

func (s *Service) SetMintFee(ctx context.Context, caller id.Identity, fee uint64) error {
	return s.update(ctx, caller, settingMintFee, strconv.FormatUint(fee, 10), func(ctx context.Context) error {
		if fee == 0 {
			return models.ErrInvalidFee
		}
		return s.settings.SetMintFee(ctx, fee)
	})
}

// SetMaxEditionLimit changes the cap for future mints only.
func (s *Service) SetMaxEditionLimit(ctx context.Context, caller id.Identity, limit uint64) error {
	return s.update(ctx, caller, settingMaxEditionLimit, strconv.FormatUint(limit, 10), func(ctx context.Context) error {
		if limit == 0 {
			return models.ErrInvalidEditionLimit
		}
		return s.settings.SetMaxEditionLimit(ctx, limit)
	})
}

// update checks ownership before apply runs. Validation lives in apply so an
// unauthorized caller always sees NotAuthorized, whatever the value.
func (s *Service) update(ctx context.Context, caller id.Identity, setting, value string, apply func(context.Context) error) (err error) {
	ctx, span := s.tracer.Start(ctx, tracer.SpanAdminUpdate,
		tracer.String(tracer.AttrCaller, caller.String()),
		tracer.String(tracer.AttrSetting, setting),
	)
	defer func() { span.End(err) }()

	current, err := s.settings.Snapshot(ctx)
	if err != nil {
		return dErrors.Wrap(err, dErrors.CodeInternal, "failed to load registry settings")
	}
	if caller != current.ContractOwner {
		s.logger.WarnContext(ctx, "settings change rejected",
			"caller", caller,
			"setting", setting,
		)
		return models.ErrNotAuthorized.AsDomainError()
	}

	if err := apply(ctx); err != nil {
		if kind, ok := models.KindOf(err); ok {
			return kind.AsDomainError()
		}
		return dErrors.Wrap(err, dErrors.CodeInternal, "failed to update registry settings")
	}

	s.auditor.Log(ctx, string(audit.EventSettingsChanged),
		"actor", caller,
		"reason", setting+"="+value,
	)
	if s.metrics != nil {
		s.metrics.IncrementSettingsChanged(setting)
	}
	return nil
}
