package audit

import (
	"context"
	"time"

	id "tourmint/pkg/domain"
)

// Event is emitted from domain logic to capture key registry actions. Keep it
// transport-agnostic so stores and sinks can fan out.
type Event struct {
	ID           id.EventID      `json:"id"`
	Timestamp    time.Time       `json:"timestamp"`
	Action       string          `json:"action"`
	Actor        id.Identity     `json:"actor,omitempty"`
	CredentialID id.CredentialID `json:"credential_id,omitempty"`
	Recipient    id.Identity     `json:"recipient,omitempty"`
	Reason       string          `json:"reason,omitempty"`
	ErrorCode    int             `json:"error_code,omitempty"`
	RequestID    string          `json:"request_id,omitempty"`
}

type AuditEvent string

const (
	EventCredentialMinted      AuditEvent = "credential_minted"
	EventCredentialTransferred AuditEvent = "credential_transferred"
	EventMintRejected          AuditEvent = "mint_rejected"
	EventTransferRejected      AuditEvent = "transfer_rejected"
	EventSettingsChanged       AuditEvent = "settings_changed"
)

// Appender persists or forwards a single event.
type Appender interface {
	Append(ctx context.Context, event Event) error
}

// Store is an append-only event log that can be queried back.
type Store interface {
	Appender
	ListByCredential(ctx context.Context, credentialID id.CredentialID) ([]Event, error)
	ListRecent(ctx context.Context, limit int) ([]Event, error)
}
