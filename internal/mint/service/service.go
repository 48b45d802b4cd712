// Package service orchestrates minting and transferring tour credentials.
package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	mintmetrics "tourmint/internal/mint/metrics"
	"tourmint/internal/mint/models"
	"tourmint/internal/mint/validation"
	paymentmodels "tourmint/internal/payment/models"
	id "tourmint/pkg/domain"
	dErrors "tourmint/pkg/domain-errors"
	"tourmint/pkg/platform/audit"
	"tourmint/pkg/platform/sentinel"
	"tourmint/pkg/platform/tracer"
)

// Service owns the mint and transfer state transitions.
type Service struct {
	tx      StoreTx
	stores  Stores
	gate    IssuerGate
	clock   Clock
	logger  *slog.Logger
	auditor *audit.Logger
	metrics *mintmetrics.Metrics
	tracer  tracer.Tracer
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

// New builds the orchestrator. stores serve queries outside a transaction;
// mutations always go through tx.
func New(tx StoreTx, stores Stores, gate IssuerGate, clock Clock, opts ...Option) (*Service, error) {
	if tx == nil {
		return nil, errors.New("store tx is required")
	}
	if stores.Credentials == nil || stores.Settings == nil {
		return nil, errors.New("credential and settings stores are required")
	}
	if gate == nil {
		return nil, errors.New("issuer gate is required")
	}
	if clock == nil {
		return nil, errors.New("clock is required")
	}
	s := &Service{
		tx:     tx,
		stores: stores,
		gate:   gate,
		clock:  clock,
		logger: slog.Default(),
		tracer: tracer.NewNoop(),
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.auditor == nil {
		s.auditor = audit.NewLogger(s.logger, nil)
	}
	return s, nil
}

// Mint validates req, charges the mint fee to the contract owner and records a
// new credential owned by caller. Nothing is consumed when any step fails.
func (s *Service) Mint(ctx context.Context, caller id.Identity, req models.MintRequest) (newID id.CredentialID, err error) {
	start := time.Now()
	ctx, span := s.tracer.Start(ctx, tracer.SpanMint, tracer.String(tracer.AttrCaller, caller.String()))
	defer func() { span.End(err) }()

	var fee uint64
	err = s.tx.RunInTx(ctx, func(ctx context.Context, stores Stores) error {
		settings, err := stores.Settings.Snapshot(ctx)
		if err != nil {
			return dErrors.Wrap(err, dErrors.CodeInternal, "failed to load registry settings")
		}
		if err := validation.ValidateMintRequest(ctx, caller, req, settings, s.gate); err != nil {
			return err
		}

		if err := s.charge(ctx, stores.Payments, settings, caller); err != nil {
			return err
		}

		credentialID, err := stores.Credentials.AllocateID(ctx)
		if err != nil {
			return dErrors.Wrap(err, dErrors.CodeInternal, "failed to allocate credential id")
		}
		credential := buildCredential(credentialID, caller, req, s.clock.Height(ctx))

		ictx, ispan := s.tracer.Start(ctx, tracer.SpanMintInsert, tracer.Uint64(tracer.AttrCredentialID, uint64(credentialID)))
		err = stores.Credentials.Insert(ictx, credential, caller)
		ispan.End(err)
		if err != nil {
			if errors.Is(err, sentinel.ErrConflict) {
				return dErrors.Wrap(err, dErrors.CodeInvariantViolation, "credential id already taken")
			}
			return dErrors.Wrap(err, dErrors.CodeInternal, "failed to store credential")
		}

		newID = credentialID
		fee = settings.MintFee
		return nil
	})
	if err != nil {
		err = translate(err, "mint failed")
		s.rejected(ctx, audit.EventMintRejected, caller, 0, err)
		return 0, err
	}

	s.auditor.Log(ctx, string(audit.EventCredentialMinted),
		"actor", caller,
		"credential_id", newID,
	)
	if s.metrics != nil {
		s.metrics.IncrementMinted(fee)
		s.metrics.ObserveMint(start)
	}
	return newID, nil
}

func (s *Service) charge(ctx context.Context, payments PaymentGateway, settings models.Settings, caller id.Identity) (err error) {
	if payments == nil {
		return dErrors.New(dErrors.CodeInternal, "payment gateway not configured")
	}
	ctx, span := s.tracer.Start(ctx, tracer.SpanMintCharge, tracer.Uint64(tracer.AttrMintFee, settings.MintFee))
	defer func() { span.End(err) }()

	err = payments.Transfer(ctx, settings.MintFee, caller, settings.ContractOwner)
	switch {
	case err == nil:
		return nil
	case errors.Is(err, paymentmodels.ErrInsufficientFunds):
		return models.ErrInsufficientBalance.AsDomainError()
	default:
		// The cause stays in the chain for logs.
		return &dErrors.Error{
			Code:    models.ErrInsufficientBalance.Category(),
			Message: "failed to collect mint fee",
			Err:     fmt.Errorf("%w: %w", models.ErrInsufficientBalance, err),
		}
	}
}

func buildCredential(credentialID id.CredentialID, caller id.Identity, req models.MintRequest, height uint64) *models.Credential {
	credential := &models.Credential{
		ID:             credentialID,
		Creator:        caller,
		Title:          req.Title,
		Description:    req.Description,
		ContentHash:    append([]byte(nil), req.ContentHash...),
		AccessTier:     req.AccessTier,
		MintTime:       height,
		EditionLimit:   req.EditionLimit,
		EditionCount:   1,
		RoyaltyRate:    req.RoyaltyRate,
		IsTransferable: req.IsTransferable,
		Tags:           append([]string(nil), req.Tags...),
	}
	if req.MetadataURI != nil {
		uri := *req.MetadataURI
		credential.MetadataURI = &uri
	}
	return credential
}

// Transfer reassigns ownership of a transferable credential. Only the current
// owner may transfer; no fee is charged and a self-transfer is allowed.
func (s *Service) Transfer(ctx context.Context, caller id.Identity, credentialID id.CredentialID, recipient id.Identity) (err error) {
	ctx, span := s.tracer.Start(ctx, tracer.SpanTransfer,
		tracer.String(tracer.AttrCaller, caller.String()),
		tracer.Uint64(tracer.AttrCredentialID, uint64(credentialID)),
		tracer.String(tracer.AttrRecipient, recipient.String()),
	)
	defer func() { span.End(err) }()

	err = s.tx.RunInTx(ctx, func(ctx context.Context, stores Stores) error {
		credential, err := stores.Credentials.FindByID(ctx, credentialID)
		if err != nil {
			return translateStoreErr(err, "failed to load credential")
		}
		owner, err := stores.Credentials.OwnerOf(ctx, credentialID)
		if err != nil {
			return translateStoreErr(err, "failed to load credential owner")
		}
		if caller != owner {
			return models.ErrNotOwner.AsDomainError()
		}
		if !credential.IsTransferable {
			return models.ErrTransferNotAllowed.AsDomainError()
		}
		if err := stores.Credentials.SetOwner(ctx, credentialID, recipient); err != nil {
			return translateStoreErr(err, "failed to update credential owner")
		}
		return nil
	})
	if err != nil {
		err = translate(err, "transfer failed")
		s.rejected(ctx, audit.EventTransferRejected, caller, credentialID, err)
		return err
	}

	s.auditor.Log(ctx, string(audit.EventCredentialTransferred),
		"actor", caller,
		"credential_id", credentialID,
		"recipient", recipient,
	)
	if s.metrics != nil {
		s.metrics.IncrementTransferred()
	}
	return nil
}

// rejected records a failed mutation. Rule violations go to the audit trail;
// infrastructure failures are logged as errors only.
func (s *Service) rejected(ctx context.Context, event audit.AuditEvent, caller id.Identity, credentialID id.CredentialID, err error) {
	kind, ok := models.KindOf(err)
	if !ok {
		s.logger.ErrorContext(ctx, "registry operation failed",
			"event", string(event),
			"caller", caller,
			"error", err,
		)
		return
	}

	attrs := []any{
		"actor", caller,
		"error_code", kind.ErrorCode(),
		"reason", kind.KindName(),
	}
	if !credentialID.IsNil() {
		attrs = append(attrs, "credential_id", credentialID)
	}
	s.auditor.Log(ctx, string(event), attrs...)

	if s.metrics == nil {
		return
	}
	switch event {
	case audit.EventMintRejected:
		s.metrics.IncrementMintRejected(kind.KindName())
	case audit.EventTransferRejected:
		s.metrics.IncrementTransferRejected(kind.KindName())
	}
}
