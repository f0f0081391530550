package kafka

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/aniketri/real-insights-data/internal/domain/event"
	"github.com/aniketri/real-insights-data/internal/domain/port"
	"github.com/aniketri/real-insights-data/pkg/events"
	pkgkafka "github.com/aniketri/real-insights-data/pkg/kafka"
)

var (
	_ port.EventPublisher = (*Publisher)(nil)
	_ port.EventPublisher = (*LogPublisher)(nil)
)

// Header names carried by every published event.
const (
	HeaderEventType      = "event_type"
	HeaderEventID        = "event_id"
	HeaderAggregateType  = "aggregate_type"
	HeaderOrganizationID = "organization_id"
	HeaderInstanceID     = "instance_id"
)

// MessageWriter is the producer side used by Publisher.
type MessageWriter interface {
	Publish(ctx context.Context, topic string, messages ...pkgkafka.Message) error
}

// Publisher implements port.EventPublisher using Kafka. Events are wrapped in
// an events.Envelope and keyed by aggregate ID so one loan's events stay ordered.
type Publisher struct {
	writer     MessageWriter
	topic      string
	instanceID string
	logger     *slog.Logger
}

// NewPublisher creates a new Kafka-based event publisher.
func NewPublisher(writer MessageWriter, topic, instanceID string, logger *slog.Logger) *Publisher {
	return &Publisher{
		writer:     writer,
		topic:      topic,
		instanceID: instanceID,
		logger:     logger,
	}
}

// Publish sends domain events to the configured topic.
func (p *Publisher) Publish(ctx context.Context, evts ...event.DomainEvent) error {
	messages := make([]pkgkafka.Message, 0, len(evts))
	for _, evt := range evts {
		env, err := events.NewEnvelope(evt)
		if err != nil {
			return err
		}
		value, err := json.Marshal(env)
		if err != nil {
			return fmt.Errorf("marshal %s envelope: %w", evt.EventType(), err)
		}

		p.logger.DebugContext(ctx, "publishing event",
			"topic", p.topic,
			"event_type", evt.EventType(),
			"aggregate_id", evt.AggregateID(),
			"payload_size", len(value),
		)

		messages = append(messages, pkgkafka.Message{
			Key:   []byte(evt.AggregateID().String()),
			Value: value,
			Headers: map[string]string{
				HeaderEventType:      evt.EventType(),
				HeaderEventID:        evt.EventID().String(),
				HeaderAggregateType:  evt.AggregateType(),
				HeaderOrganizationID: evt.OrganizationID().String(),
				HeaderInstanceID:     p.instanceID,
			},
		})
	}

	if len(messages) == 0 {
		return nil
	}

	if err := p.writer.Publish(ctx, p.topic, messages...); err != nil {
		return fmt.Errorf("publish events to topic %s: %w", p.topic, err)
	}
	return nil
}

// LogPublisher logs events instead of publishing them. It is used when no
// brokers are configured.
type LogPublisher struct {
	logger *slog.Logger
}

func NewLogPublisher(logger *slog.Logger) *LogPublisher {
	return &LogPublisher{logger: logger}
}

func (p *LogPublisher) Publish(ctx context.Context, evts ...event.DomainEvent) error {
	for _, evt := range evts {
		p.logger.InfoContext(ctx, "domain event",
			"event_type", evt.EventType(),
			"aggregate_id", evt.AggregateID(),
			"organization_id", evt.OrganizationID(),
		)
	}
	return nil
}
