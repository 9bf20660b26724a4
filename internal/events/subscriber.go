package events

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill-kafka/v2/pkg/kafka"
	"github.com/ThreeDotsLabs/watermill/message"
)

var ErrUnknownEventType = errors.New("unknown profile event type")

// ProfileEventHandler processes one decoded event. Returning an error nacks
// the message so it is redelivered.
type ProfileEventHandler func(ctx context.Context, event *ProfileEvent) error

// SubscriberConfig holds configuration for consuming profile events
type SubscriberConfig struct {
	KafkaBrokers  []string
	ConsumerGroup string
	Logger        *slog.Logger
}

// NewKafkaSubscriber creates a Watermill subscriber reading from Kafka
func NewKafkaSubscriber(config SubscriberConfig) (message.Subscriber, error) {
	subscriber, err := kafka.NewSubscriber(kafka.SubscriberConfig{
		Brokers:               config.KafkaBrokers,
		Unmarshaler:           kafka.DefaultMarshaler{},
		OverwriteSaramaConfig: kafka.DefaultSaramaSubscriberConfig(),
		ConsumerGroup:         config.ConsumerGroup,
	}, watermill.NewSlogLogger(config.Logger))
	if err != nil {
		return nil, fmt.Errorf("failed to create Kafka subscriber: %w", err)
	}
	return subscriber, nil
}

// Consume feeds events from topic to handle until ctx is cancelled or the
// subscriber closes. Undecodable messages are acked and skipped.
func Consume(ctx context.Context, subscriber message.Subscriber, topic string, handle ProfileEventHandler, logger *slog.Logger) error {
	messages, err := subscriber.Subscribe(ctx, topic)
	if err != nil {
		return fmt.Errorf("failed to subscribe to %s: %w", topic, err)
	}

	for msg := range messages {
		event, err := FromMessage(msg)
		if err != nil {
			logger.Warn("Skipping undecodable profile event", "message_id", msg.UUID, "error", err)
			msg.Ack()
			continue
		}

		if err := handle(msg.Context(), event); err != nil {
			logger.Error("Failed to handle profile event", "event_id", event.ID, "event_type", event.Type, "error", err)
			msg.Nack()
			continue
		}
		msg.Ack()
	}

	return nil
}

// FromMessage decodes a message produced by the publisher. Data holds the
// typed payload for known event types.
func FromMessage(msg *message.Message) (*ProfileEvent, error) {
	var envelope struct {
		ProfileEvent
		Data json.RawMessage `json:"data"`
	}
	if err := json.Unmarshal(msg.Payload, &envelope); err != nil {
		return nil, fmt.Errorf("failed to unmarshal profile event: %w", err)
	}

	event := envelope.ProfileEvent
	switch event.Type {
	case EventProfileGenerated:
		var data ProfileGeneratedEvent
		if err := json.Unmarshal(envelope.Data, &data); err != nil {
			return nil, fmt.Errorf("failed to unmarshal %s payload: %w", event.Type, err)
		}
		event.Data = data
	case EventSpiritDetailsFilled:
		var data SpiritDetailsFilledEvent
		if err := json.Unmarshal(envelope.Data, &data); err != nil {
			return nil, fmt.Errorf("failed to unmarshal %s payload: %w", event.Type, err)
		}
		event.Data = data
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownEventType, event.Type)
	}

	return &event, nil
}
