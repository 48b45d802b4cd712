package handler

import (
	"context"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"tourmint/internal/mint/models"
	id "tourmint/pkg/domain"
	dErrors "tourmint/pkg/domain-errors"
	"tourmint/pkg/platform/audit"
	"tourmint/pkg/platform/httputil"
	"tourmint/pkg/requestcontext"
)

const (
	defaultAuditLimit = 50
	maxAuditLimit     = 500
)

// MintService is the orchestrator surface the handler needs.
type MintService interface {
	Mint(ctx context.Context, caller id.Identity, req models.MintRequest) (id.CredentialID, error)
	Transfer(ctx context.Context, caller id.Identity, credentialID id.CredentialID, recipient id.Identity) error
	GetCredential(ctx context.Context, credentialID id.CredentialID) (*models.Credential, bool, error)
	GetOwner(ctx context.Context, credentialID id.CredentialID) (id.Identity, bool, error)
	Registry(ctx context.Context) (models.RegistryView, error)
}

// AdminService applies owner-only settings changes.
type AdminService interface {
	SetPaused(ctx context.Context, caller id.Identity, paused bool) error
	SetMintFee(ctx context.Context, caller id.Identity, fee uint64) error
	SetMaxEditionLimit(ctx context.Context, caller id.Identity, limit uint64) error
}

// AuditReader serves the operator audit view.
type AuditReader interface {
	ListByCredential(ctx context.Context, credentialID id.CredentialID) ([]audit.Event, error)
	ListRecent(ctx context.Context, limit int) ([]audit.Event, error)
}

type Handler struct {
	service MintService
	admin   AdminService
	audit   AuditReader
	logger  *slog.Logger
}

func New(service MintService, admin AdminService, auditReader AuditReader, logger *slog.Logger) *Handler {
	return &Handler{service: service, admin: admin, audit: auditReader, logger: logger}
}

// Register mounts the caller-authenticated routes. The router must install the
// caller middleware.
func (h *Handler) Register(r chi.Router) {
	r.Post("/credentials", h.HandleMint)
	r.Post("/credentials/{id}/transfer", h.HandleTransfer)
	r.Get("/credentials/{id}", h.HandleGetCredential)
	r.Get("/credentials/{id}/owner", h.HandleGetOwner)
	r.Get("/registry", h.HandleGetRegistry)
	r.Put("/admin/paused", h.HandleSetPaused)
	r.Put("/admin/mint-fee", h.HandleSetMintFee)
	r.Put("/admin/max-edition-limit", h.HandleSetMaxEditionLimit)
}

// RegisterOps mounts operator routes guarded by the admin token middleware.
func (h *Handler) RegisterOps(r chi.Router) {
	r.Get("/ops/audit", h.HandleListAudit)
}

func (h *Handler) HandleMint(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	caller, err := httputil.RequireCaller(ctx, h.logger)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	req, ok := httputil.DecodeAndPrepare[MintCredentialRequest](w, r, h.logger)
	if !ok {
		return
	}
	credentialID, err := h.service.Mint(ctx, caller, req.ToModel())
	if err != nil {
		h.logFailure(ctx, "mint failed", err, "caller", caller)
		httputil.WriteError(w, err)
		return
	}

	httputil.WriteJSON(w, http.StatusCreated, &MintResponse{CredentialID: credentialID})
}

func (h *Handler) HandleTransfer(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	caller, err := httputil.RequireCaller(ctx, h.logger)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	credentialID, ok := h.credentialIDParam(w, r)
	if !ok {
		return
	}
	req, ok := httputil.DecodeAndPrepare[TransferCredentialRequest](w, r, h.logger)
	if !ok {
		return
	}
	recipient, err := id.ParseIdentity(req.Recipient)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	if err := h.service.Transfer(ctx, caller, credentialID, recipient); err != nil {
		h.logFailure(ctx, "transfer failed", err, "caller", caller, "credential_id", credentialID)
		httputil.WriteError(w, err)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, &TransferResponse{CredentialID: credentialID, Owner: recipient})
}

func (h *Handler) HandleGetCredential(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	credentialID, ok := h.credentialIDParam(w, r)
	if !ok {
		return
	}

	credential, found, err := h.service.GetCredential(ctx, credentialID)
	if err != nil {
		h.logFailure(ctx, "get credential failed", err, "credential_id", credentialID)
		httputil.WriteError(w, err)
		return
	}
	if !found {
		httputil.WriteError(w, models.ErrNotFound.AsDomainError())
		return
	}

	httputil.WriteJSON(w, http.StatusOK, toCredentialResponse(credential))
}

func (h *Handler) HandleGetOwner(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	credentialID, ok := h.credentialIDParam(w, r)
	if !ok {
		return
	}

	owner, found, err := h.service.GetOwner(ctx, credentialID)
	if err != nil {
		h.logFailure(ctx, "get owner failed", err, "credential_id", credentialID)
		httputil.WriteError(w, err)
		return
	}
	if !found {
		httputil.WriteError(w, models.ErrNotFound.AsDomainError())
		return
	}

	httputil.WriteJSON(w, http.StatusOK, &OwnerResponse{CredentialID: credentialID, Owner: owner})
}

func (h *Handler) HandleGetRegistry(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	view, err := h.service.Registry(ctx)
	if err != nil {
		h.logFailure(ctx, "get registry failed", err)
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, toRegistryResponse(view))
}

func (h *Handler) HandleSetPaused(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	caller, err := httputil.RequireCaller(ctx, h.logger)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	req, ok := httputil.DecodeAndPrepare[SetPausedRequest](w, r, h.logger)
	if !ok {
		return
	}
	if err := h.admin.SetPaused(ctx, caller, *req.Paused); err != nil {
		h.logFailure(ctx, "set paused failed", err, "caller", caller)
		httputil.WriteError(w, err)
		return
	}
	h.writeRegistry(w, r)
}

func (h *Handler) HandleSetMintFee(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	caller, err := httputil.RequireCaller(ctx, h.logger)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	req, ok := httputil.DecodeAndPrepare[SetMintFeeRequest](w, r, h.logger)
	if !ok {
		return
	}
	if err := h.admin.SetMintFee(ctx, caller, *req.MintFee); err != nil {
		h.logFailure(ctx, "set mint fee failed", err, "caller", caller)
		httputil.WriteError(w, err)
		return
	}
	h.writeRegistry(w, r)
}

func (h *Handler) HandleSetMaxEditionLimit(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	caller, err := httputil.RequireCaller(ctx, h.logger)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	req, ok := httputil.DecodeAndPrepare[SetMaxEditionLimitRequest](w, r, h.logger)
	if !ok {
		return
	}
	if err := h.admin.SetMaxEditionLimit(ctx, caller, *req.MaxEditionLimit); err != nil {
		h.logFailure(ctx, "set max edition limit failed", err, "caller", caller)
		httputil.WriteError(w, err)
		return
	}
	h.writeRegistry(w, r)
}

// HandleListAudit returns recent audit events, or the events of one credential
// when credential_id is given.
func (h *Handler) HandleListAudit(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	if h.audit == nil {
		httputil.WriteError(w, dErrors.New(dErrors.CodeUnavailable, "audit store not configured"))
		return
	}

	var (
		events []audit.Event
		err    error
	)
	if raw := r.URL.Query().Get("credential_id"); raw != "" {
		credentialID, parseErr := id.ParseCredentialID(raw)
		if parseErr != nil {
			httputil.WriteError(w, parseErr)
			return
		}
		events, err = h.audit.ListByCredential(ctx, credentialID)
	} else {
		limit, parseErr := parseLimit(r.URL.Query().Get("limit"))
		if parseErr != nil {
			httputil.WriteError(w, parseErr)
			return
		}
		events, err = h.audit.ListRecent(ctx, limit)
	}
	if err != nil {
		h.logFailure(ctx, "list audit events failed", err)
		httputil.WriteError(w, dErrors.Wrap(err, dErrors.CodeInternal, "failed to list audit events"))
		return
	}
	if events == nil {
		events = []audit.Event{}
	}
	httputil.WriteJSON(w, http.StatusOK, &AuditEventsResponse{Events: events})
}

func parseLimit(raw string) (int, error) {
	if raw == "" {
		return defaultAuditLimit, nil
	}
	limit, err := strconv.Atoi(raw)
	if err != nil || limit <= 0 {
		return 0, dErrors.New(dErrors.CodeBadRequest, "limit must be a positive integer")
	}
	return min(limit, maxAuditLimit), nil
}

func (h *Handler) writeRegistry(w http.ResponseWriter, r *http.Request) {
	view, err := h.service.Registry(r.Context())
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, toRegistryResponse(view))
}

func (h *Handler) credentialIDParam(w http.ResponseWriter, r *http.Request) (id.CredentialID, bool) {
	credentialID, err := id.ParseCredentialID(chi.URLParam(r, "id"))
	if err != nil {
		httputil.WriteError(w, err)
		return 0, false
	}
	return credentialID, true
}

// logFailure logs rule rejections at warn and everything else at error.
func (h *Handler) logFailure(ctx context.Context, msg string, err error, attrs ...any) {
	attrs = append(attrs, "error", err, "error_code", dErrors.CodeOf(err), "request_id", requestcontext.RequestID(ctx))
	if _, ok := models.KindOf(err); ok {
		h.logger.WarnContext(ctx, msg, attrs...)
		return
	}
	h.logger.ErrorContext(ctx, msg, attrs...)
}
