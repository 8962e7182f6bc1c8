//go:build integration

package producer_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"
	"github.com/twmb/franz-go/pkg/kgo"

	"trustlink/internal/platform/config"
	"trustlink/internal/platform/kafka/producer"
	"trustlink/pkg/testutil/containers"
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

	prod, err := producer.New(config.KafkaConfig{
		Brokers:         s.kafka.Brokers,
		Acks:            "all",
		Retries:         3,
		DeliveryTimeout: 10 * time.Second,
	}, nil)
	s.Require().NoError(err)
	s.producer = prod
}

func (s *ProducerIntegrationSuite) TearDownSuite() {
	if s.producer != nil {
		s.producer.Close()
	}
}

func (s *ProducerIntegrationSuite) TestProduceDeliversMessage() {
	ctx := context.Background()
	topic := "test-produce-sync"
	s.Require().NoError(s.kafka.CreateTopic(ctx, topic, 1, 1))

	err := s.producer.Produce(ctx, &producer.Message{
		Topic:   topic,
		Key:     []byte("0xabc"),
		Value:   []byte(`{"action":"verification_stored"}`),
		Headers: map[string]string{"event_type": "verification_stored"},
	})
	s.Require().NoError(err)

	consumer, err := s.kafka.NewConsumer(ctx, "producer-test", topic)
	s.Require().NoError(err)
	defer consumer.Close()

	record := s.kafka.WaitForMessage(ctx, consumer, 10*time.Second, func(r *kgo.Record) bool {
		return string(r.Key) == "0xabc"
	})
	s.Require().NotNil(record)
	s.Equal(`{"action":"verification_stored"}`, string(record.Value))
}

func (s *ProducerIntegrationSuite) TestHealthy() {
	s.NoError(s.producer.Healthy(context.Background()))
}
