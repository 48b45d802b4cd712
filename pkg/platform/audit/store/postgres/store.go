package postgres

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/google/uuid"

	id "tourmint/pkg/domain"
	audit "tourmint/pkg/platform/audit"
)

// Store implements audit.Store using PostgreSQL.
type Store struct {
	db *sql.DB
}

// New creates a new PostgreSQL audit store.
func New(db *sql.DB) *Store {
	return &Store{db: db}
}

const selectColumns = `id, occurred_at, action, actor, credential_id, recipient, reason, error_code, request_id`

// Append inserts an audit event. Replays of the same event id are ignored.
func (s *Store) Append(ctx context.Context, event audit.Event) error {
	eventID := uuid.UUID(event.ID)
	if event.ID.IsNil() {
		eventID = uuid.New()
	}
	var credentialID *int64
	if !event.CredentialID.IsNil() {
		v := int64(event.CredentialID)
		credentialID = &v
	}

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO audit_events (`+selectColumns+`)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		ON CONFLICT (id) DO NOTHING
	`,
		eventID,
		event.Timestamp,
		event.Action,
		string(event.Actor),
		credentialID,
		string(event.Recipient),
		event.Reason,
		event.ErrorCode,
		event.RequestID,
	)
	if err != nil {
		return fmt.Errorf("insert audit event: %w", err)
	}
	return nil
}

// ListByCredential returns events touching one credential, oldest first.
func (s *Store) ListByCredential(ctx context.Context, credentialID id.CredentialID) ([]audit.Event, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT `+selectColumns+`
		FROM audit_events
		WHERE credential_id = $1
		ORDER BY seq ASC
	`, int64(credentialID))
	if err != nil {
		return nil, fmt.Errorf("query audit events: %w", err)
	}
	defer rows.Close()
	return scanEvents(rows)
}

// ListRecent returns the N most recent events, most recent last.
func (s *Store) ListRecent(ctx context.Context, limit int) ([]audit.Event, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT `+selectColumns+` FROM (
			SELECT seq, `+selectColumns+`
			FROM audit_events
			ORDER BY seq DESC
			LIMIT $1
		) recent
		ORDER BY seq ASC
	`, limit)
	if err != nil {
		return nil, fmt.Errorf("query audit events: %w", err)
	}
	defer rows.Close()
	return scanEvents(rows)
}

func scanEvents(rows *sql.Rows) ([]audit.Event, error) {
	var events []audit.Event
	for rows.Next() {
		var (
			event        audit.Event
			eventID      uuid.UUID
			actor        string
			recipient    string
			credentialID sql.NullInt64
		)
		err := rows.Scan(
			&eventID,
			&event.Timestamp,
			&event.Action,
			&actor,
			&credentialID,
			&recipient,
			&event.Reason,
			&event.ErrorCode,
			&event.RequestID,
		)
		if err != nil {
			return nil, fmt.Errorf("scan audit event: %w", err)
		}
		event.ID = id.EventID(eventID)
		event.Actor = id.Identity(actor)
		event.Recipient = id.Identity(recipient)
		if credentialID.Valid {
			event.CredentialID = id.CredentialID(credentialID.Int64)
		}
		events = append(events, event)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate audit events: %w", err)
	}
	return events, nil
}
