package audit

import (
	"context"
	"fmt"
	"log/slog"
	"strconv"

	id "tourmint/pkg/domain"
	"tourmint/pkg/requestcontext"
)

// Emitter is the interface for audit event emission.
// Satisfied by publisher.Publisher.
type Emitter interface {
	Emit(ctx context.Context, event Event) error
}

// Logger provides structured audit logging with optional event emission.
// Services use it to standardize audit logging patterns.
type Logger struct {
	textLogger *slog.Logger
	emitter    Emitter
}

// NewLogger creates an audit logger. Both arguments are optional.
func NewLogger(textLogger *slog.Logger, emitter Emitter) *Logger {
	return &Logger{
		textLogger: textLogger,
		emitter:    emitter,
	}
}

// Log writes an audit record to the text log and emits it to the audit store.
// Known attribute keys (actor, credential_id, recipient, reason, error_code)
// are lifted into the Event; request_id comes from the context.
//
//	logger.Log(ctx, "credential_minted", "actor", caller, "credential_id", newID)
func (l *Logger) Log(ctx context.Context, event string, attributes ...any) {
	requestID := requestcontext.RequestID(ctx)
	if requestID != "" {
		attributes = append(attributes, "request_id", requestID)
	}

	if l.textLogger != nil {
		args := append(attributes, "event", event, "log_type", "audit")
		l.textLogger.InfoContext(ctx, event, args...)
	}

	if l.emitter == nil {
		return
	}
	credentialID, _ := strconv.ParseUint(extractString(attributes, "credential_id"), 10, 64) //nolint:errcheck // best-effort extraction for audit
	errorCode, _ := strconv.Atoi(extractString(attributes, "error_code"))                    //nolint:errcheck // best-effort extraction for audit

	err := l.emitter.Emit(ctx, Event{
		ID:           id.NewEventID(),
		Timestamp:    requestcontext.Now(ctx),
		Action:       event,
		Actor:        id.Identity(extractString(attributes, "actor")),
		CredentialID: id.CredentialID(credentialID),
		Recipient:    id.Identity(extractString(attributes, "recipient")),
		Reason:       extractString(attributes, "reason"),
		ErrorCode:    errorCode,
		RequestID:    requestID,
	})
	if err != nil && l.textLogger != nil {
		l.textLogger.ErrorContext(ctx, "failed to emit audit event",
			"error", err,
			"event", event,
		)
	}
}

// extractString finds key in a slog-style key/value list and renders its value.
func extractString(attributes []any, key string) string {
	for i := 0; i+1 < len(attributes); i += 2 {
		k, ok := attributes[i].(string)
		if !ok || k != key {
			continue
		}
		switch v := attributes[i+1].(type) {
		case string:
			return v
		case fmt.Stringer:
			return v.String()
		case nil:
			return ""
		default:
			return fmt.Sprint(v)
		}
	}
	return ""
}
