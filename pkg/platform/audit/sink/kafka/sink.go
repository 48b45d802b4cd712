// Package kafka forwards audit events to a Kafka topic.
package kafka

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"tourmint/internal/platform/kafka/producer"
	audit "tourmint/pkg/platform/audit"
	"tourmint/pkg/platform/audit/metrics"
	"tourmint/pkg/platform/circuit"
)

const sinkName = "kafka"

// Producer is the subset of the Kafka producer the sink needs.
type Producer interface {
	Produce(ctx context.Context, msg *producer.Message) error
}

// Sink publishes each event as JSON keyed by credential id so a credential's
// history lands on one partition. A circuit breaker skips the broker while it is down.
type Sink struct {
	producer Producer
	topic    string
	breaker  *circuit.Breaker
	logger   *slog.Logger
	metrics  *metrics.Metrics
}

// Option configures the Sink.
type Option func(*Sink)

func WithLogger(logger *slog.Logger) Option {
	return func(s *Sink) { s.logger = logger }
}

func WithMetrics(m *metrics.Metrics) Option {
	return func(s *Sink) { s.metrics = m }
}

func WithBreaker(b *circuit.Breaker) Option {
	return func(s *Sink) {
		if b != nil {
			s.breaker = b
		}
	}
}

func New(p Producer, topic string, opts ...Option) *Sink {
	s := &Sink{
		producer: p,
		topic:    topic,
		breaker:  circuit.New(sinkName),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *Sink) Name() string { return sinkName }

// Append returns nil without producing while the circuit is open.
func (s *Sink) Append(ctx context.Context, event audit.Event) error {
	if !s.breaker.Allow() {
		if s.metrics != nil {
			s.metrics.SinkSkipped.WithLabelValues(sinkName).Inc()
		}
		return nil
	}

	value, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("encode audit event: %w", err)
	}
	msg := &producer.Message{
		Topic: s.topic,
		Key:   []byte(event.CredentialID.String()),
		Value: value,
		Headers: map[string]string{
			"action":     event.Action,
			"request_id": event.RequestID,
		},
	}

	if err := s.producer.Produce(ctx, msg); err != nil {
		if s.breaker.RecordFailure() && s.logger != nil {
			s.logger.WarnContext(ctx, "audit kafka sink circuit opened", "error", err)
		}
		return fmt.Errorf("produce audit event: %w", err)
	}
	if s.breaker.RecordSuccess() && s.logger != nil {
		s.logger.InfoContext(ctx, "audit kafka sink circuit closed")
	}
	return nil
}
