// Package kafka publishes audit events to a Kafka topic as JSON records
// keyed by principal, so one principal's events stay ordered on a partition.
package kafka

import (
	"context"
	"encoding/json"
	"fmt"

	"trustlink/internal/platform/kafka/producer"
	audit "trustlink/pkg/platform/audit"
)

// Producer is satisfied by *producer.Producer and *producer.NoopProducer.
type Producer interface {
	Produce(ctx context.Context, msg *producer.Message) error
}

type Sink struct {
	producer Producer
	topic    string
}

func NewSink(p Producer, topic string) *Sink {
	return &Sink{producer: p, topic: topic}
}

type payload struct {
	audit.Event
	Principal string `json:"principal"`
	Category  string `json:"category"`
}

func (s *Sink) Append(ctx context.Context, event audit.Event) error {
	body, err := json.Marshal(payload{
		Event:     event,
		Principal: event.Principal.String(),
		Category:  string(audit.AuditEvent(event.Action).Category()),
	})
	if err != nil {
		return fmt.Errorf("marshal audit event: %w", err)
	}

	msg := &producer.Message{
		Topic: s.topic,
		Key:   []byte(event.Principal.String()),
		Value: body,
		Headers: map[string]string{
			"event_type": event.Action,
		},
	}
	if event.RequestID != "" {
		msg.Headers["request_id"] = event.RequestID
	}
	if err := s.producer.Produce(ctx, msg); err != nil {
		return fmt.Errorf("publish audit event: %w", err)
	}
	return nil
}
