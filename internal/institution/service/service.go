// Package service answers whether a principal is a registered issuing institution.
package service

import (
	"context"
	"fmt"
	"log/slog"

	"tourmint/internal/institution/models"
	id "tourmint/pkg/domain"
	dErrors "tourmint/pkg/domain-errors"
	"tourmint/pkg/requestcontext"
)

// MembershipStore is the injectable issuer set.
type MembershipStore interface {
	IsMember(ctx context.Context, identity id.Identity) (bool, error)
	Add(ctx context.Context, institution models.Institution) error
}

// Gate is a pure membership check over a MembershipStore. It never mutates
// membership while answering.
type Gate struct {
	store  MembershipStore
	logger *slog.Logger
}

type Option func(*Gate)

func WithLogger(logger *slog.Logger) Option {
	return func(g *Gate) {
		g.logger = logger
	}
}

func NewGate(store MembershipStore, opts ...Option) (*Gate, error) {
	if store == nil {
		return nil, fmt.Errorf("membership store is required")
	}
	g := &Gate{store: store}
	for _, opt := range opts {
		opt(g)
	}
	return g, nil
}

// IsAuthorizedIssuer reports membership. Store failures surface as internal
// errors and are never reported as "not a member".
func (g *Gate) IsAuthorizedIssuer(ctx context.Context, identity id.Identity) (bool, error) {
	ok, err := g.store.IsMember(ctx, identity)
	if err != nil {
		if g.logger != nil {
			g.logger.ErrorContext(ctx, "issuer registry lookup failed",
				"error", err,
				"identity", identity,
				"request_id", requestcontext.RequestID(ctx),
			)
		}
		return false, dErrors.Wrap(err, dErrors.CodeInternal, "failed to check issuer registry")
	}
	return ok, nil
}

// Register adds an institution. Only startup seeding calls this; the registry
// exposes no registration endpoint.
func (g *Gate) Register(ctx context.Context, identity id.Identity) error {
	if identity.IsNil() {
		return dErrors.New(dErrors.CodeInvalidInput, "institution identity is required")
	}
	err := g.store.Add(ctx, models.Institution{
		ID:           identity,
		RegisteredAt: requestcontext.Now(ctx),
	})
	if err != nil {
		return dErrors.Wrap(err, dErrors.CodeInternal, "failed to register institution")
	}
	if g.logger != nil {
		g.logger.InfoContext(ctx, "institution registered", "identity", identity)
	}
	return nil
}
