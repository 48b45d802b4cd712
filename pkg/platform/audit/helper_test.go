package audit

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/suite"

	id "tourmint/pkg/domain"
	"tourmint/pkg/requestcontext"
)

type recordingEmitter struct {
	events    []Event
	shouldErr bool
}

func (m *recordingEmitter) Emit(_ context.Context, event Event) error {
	if m.shouldErr {
		return errors.New("emit failed")
	}
	m.events = append(m.events, event)
	return nil
}

// LoggerSuite covers attribute lifting and the emit failure path of the audit Logger.
type LoggerSuite struct {
	suite.Suite
	emitter *recordingEmitter
	logger  *Logger
}

func TestLoggerSuite(t *testing.T) {
	suite.Run(t, new(LoggerSuite))
}

func (s *LoggerSuite) SetupTest() {
	s.emitter = &recordingEmitter{}
	s.logger = NewLogger(slog.New(slog.NewTextHandler(io.Discard, nil)), s.emitter)
}

func (s *LoggerSuite) TestLogEnrichesWithRequestID() {
	ctx := requestcontext.WithRequestID(context.Background(), "req-12345")

	s.logger.Log(ctx, string(EventCredentialMinted), "actor", "ST1ISSUER")

	s.Require().Len(s.emitter.events, 1)
	s.Equal("req-12345", s.emitter.events[0].RequestID)
}

func (s *LoggerSuite) TestLogLiftsKnownAttributes() {
	s.logger.Log(context.Background(), string(EventCredentialTransferred),
		"actor", id.Identity("ST1HOLDER"),
		"credential_id", id.CredentialID(7),
		"recipient", "ST1OTHER",
		"error_code", 112,
		"reason", "not owner",
	)

	s.Require().Len(s.emitter.events, 1)
	ev := s.emitter.events[0]
	s.Equal(string(EventCredentialTransferred), ev.Action)
	s.Equal(id.Identity("ST1HOLDER"), ev.Actor)
	s.Equal(id.CredentialID(7), ev.CredentialID)
	s.Equal(id.Identity("ST1OTHER"), ev.Recipient)
	s.Equal(112, ev.ErrorCode)
	s.Equal("not owner", ev.Reason)
	s.False(ev.ID.IsNil())
}

func (s *LoggerSuite) TestLogSurvivesEmitFailure() {
	s.emitter.shouldErr = true
	s.NotPanics(func() {
		s.logger.Log(context.Background(), string(EventSettingsChanged))
	})
}

func (s *LoggerSuite) TestLogWithoutEmitter() {
	logger := NewLogger(nil, nil)
	s.NotPanics(func() {
		logger.Log(context.Background(), string(EventMintRejected), "actor", "x")
	})
}
