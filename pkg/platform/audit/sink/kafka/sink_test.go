package kafka

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tourmint/internal/platform/kafka/producer"
	audit "tourmint/pkg/platform/audit"
	"tourmint/pkg/platform/circuit"
)

type stubProducer struct {
	messages []*producer.Message
	err      error
	calls    int
}

func (p *stubProducer) Produce(_ context.Context, msg *producer.Message) error {
	p.calls++
	if p.err != nil {
		return p.err
	}
	p.messages = append(p.messages, msg)
	return nil
}

func TestSink_ProducesKeyedJSON(t *testing.T) {
	p := &stubProducer{}
	sink := New(p, "tourmint.audit")

	err := sink.Append(context.Background(), audit.Event{
		Action:       string(audit.EventCredentialMinted),
		CredentialID: 42,
		Actor:        "ST1ISSUER",
		RequestID:    "req-1",
	})
	require.NoError(t, err)
	require.Len(t, p.messages, 1)

	msg := p.messages[0]
	assert.Equal(t, "tourmint.audit", msg.Topic)
	assert.Equal(t, "42", string(msg.Key))
	assert.Equal(t, "credential_minted", msg.Headers["action"])

	var decoded audit.Event
	require.NoError(t, json.Unmarshal(msg.Value, &decoded))
	assert.Equal(t, "ST1ISSUER", string(decoded.Actor))
	assert.Equal(t, uint64(42), uint64(decoded.CredentialID))
}

func TestSink_SkipsWhileCircuitOpen(t *testing.T) {
	p := &stubProducer{err: errors.New("broker down")}
	sink := New(p, "tourmint.audit", WithBreaker(circuit.New("kafka", circuit.WithFailureThreshold(1))))

	err := sink.Append(context.Background(), audit.Event{Action: "a"})
	require.Error(t, err)

	err = sink.Append(context.Background(), audit.Event{Action: "b"})
	require.NoError(t, err)
	assert.Equal(t, 1, p.calls, "open circuit skips the producer")
}
