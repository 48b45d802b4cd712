//go:build integration

package producer_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"
	"github.com/twmb/franz-go/pkg/kgo"

	"tourmint/internal/platform/kafka/producer"
	"tourmint/pkg/testutil/containers"
)

type ProducerIntegrationSuite struct {
	suite.Suite
	kafka    *containers.KafkaContainer
	producer *producer.Producer
}

func TestProducerIntegrationSuite(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}
	suite.Run(t, new(ProducerIntegrationSuite))
}

func (s *ProducerIntegrationSuite) SetupSuite() {
	s.kafka = containers.GetManager().GetKafka(s.T())

	cfg := producer.DefaultConfig(s.kafka.Brokers)
	cfg.DeliveryTimeout = 10 * time.Second
	prod, err := producer.New(cfg, nil)
	s.Require().NoError(err)
	s.producer = prod
}

func (s *ProducerIntegrationSuite) TearDownSuite() {
	if s.producer != nil {
		s.producer.Close()
	}
}

// Produce only returns after broker acknowledgment, and headers survive the round trip.
func (s *ProducerIntegrationSuite) TestProduceDeliversWithHeaders() {
	ctx := context.Background()
	topic := "tourmint-audit-test"
	s.Require().NoError(s.kafka.CreateTopic(ctx, topic, 1, 1))

	err := s.producer.Produce(ctx, &producer.Message{
		Topic: topic,
		Key:   []byte("7"),
		Value: []byte(`{"action":"credential_minted"}`),
		Headers: map[string]string{
			"action":     "credential_minted",
			"request_id": "req-1",
		},
	})
	s.Require().NoError(err)

	record, err := s.kafka.WaitForRecord(ctx, topic, 10*time.Second, func(r *kgo.Record) bool {
		return string(r.Key) == "7"
	})
	s.Require().NoError(err)
	s.Require().NotNil(record)

	headers := make(map[string]string)
	for _, h := range record.Headers {
		headers[h.Key] = string(h.Value)
	}
	s.Equal("credential_minted", headers["action"])
	s.Equal("req-1", headers["request_id"])
}

func (s *ProducerIntegrationSuite) TestHealthyUntilClosed() {
	ctx := context.Background()
	prod, err := producer.New(producer.DefaultConfig(s.kafka.Brokers), nil)
	s.Require().NoError(err)

	s.True(prod.Healthy(ctx))
	s.Require().NoError(prod.Close())
	s.False(prod.Healthy(ctx))
	s.Error(prod.Produce(ctx, &producer.Message{Topic: "x"}))
}
