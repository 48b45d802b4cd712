package service

import (
	"context"

	"tourmint/internal/mint/models"
	id "tourmint/pkg/domain"
)

// CredentialStore persists credentials and their ownership.
// Absence is sentinel.ErrNotFound; an id collision is sentinel.ErrConflict.
type CredentialStore interface {
	AllocateID(ctx context.Context) (id.CredentialID, error)
	Insert(ctx context.Context, credential *models.Credential, owner id.Identity) error
	FindByID(ctx context.Context, credentialID id.CredentialID) (*models.Credential, error)
	OwnerOf(ctx context.Context, credentialID id.CredentialID) (id.Identity, error)
	SetOwner(ctx context.Context, credentialID id.CredentialID, owner id.Identity) error
	LastID(ctx context.Context) (id.CredentialID, error)
}

// SettingsReader exposes the registry settings read-only. Writes go through
// the admin service.
type SettingsReader interface {
	Snapshot(ctx context.Context) (models.Settings, error)
}

// PaymentGateway moves the mint fee. It reports a short balance as
// payment models.ErrInsufficientFunds.
type PaymentGateway interface {
	Transfer(ctx context.Context, amount uint64, from, to id.Identity) error
}

// IssuerGate answers whether a principal is a registered institution.
type IssuerGate interface {
	IsAuthorizedIssuer(ctx context.Context, identity id.Identity) (bool, error)
}

// Clock reports the current logical block height.
type Clock interface {
	Height(ctx context.Context) uint64
}

// Stores groups the collaborators a single mint or transfer mutates together.
type Stores struct {
	Credentials CredentialStore
	Settings    SettingsReader
	Payments    PaymentGateway
}
