package eventbus

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"sync"

	"github.com/Black-And-White-Club/moto-pickem/app/shared/attr"
	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
)

// EventBus publishes domain events and fans them out to in-process handlers.
type EventBus interface {
	Publish(ctx context.Context, topic string, msg *message.Message) error
	Subscribe(ctx context.Context, topic string, handler func(ctx context.Context, msg *message.Message) error) error
	Close() error
}

type eventBus struct {
	pubsub *gochannel.GoChannel
	logger *slog.Logger
	wg     sync.WaitGroup
}

// NewEventBus creates an EventBus backed by watermill's in-memory pub/sub.
func NewEventBus(logger *slog.Logger) EventBus {
	pubsub := gochannel.NewGoChannel(
		gochannel.Config{OutputChannelBuffer: 64},
		watermill.NewSlogLogger(logger),
	)
	return &eventBus{pubsub: pubsub, logger: logger}
}

func (eb *eventBus) Publish(ctx context.Context, topic string, msg *message.Message) error {
	if msg.UUID == "" {
		msg.UUID = watermill.NewUUID()
	}
	if id := attr.CorrelationID(ctx); id != "" && msg.Metadata.Get(MetadataCorrelationID) == "" {
		msg.Metadata.Set(MetadataCorrelationID, id)
	}

	eb.logger.DebugContext(ctx, "Publishing message",
		attr.String("topic", topic),
		attr.String("message_id", msg.UUID),
	)

	if err := eb.pubsub.Publish(topic, msg); err != nil {
		eb.logger.ErrorContext(ctx, "Failed to publish message",
			attr.String("topic", topic),
			attr.Error(err),
		)
		return fmt.Errorf("failed to publish to %s: %w", topic, err)
	}
	return nil
}

// Subscribe runs handler for every message on topic until ctx is done or the
// bus is closed. A handler error nacks the message.
func (eb *eventBus) Subscribe(ctx context.Context, topic string, handler func(ctx context.Context, msg *message.Message) error) error {
	messages, err := eb.pubsub.Subscribe(ctx, topic)
	if err != nil {
		return fmt.Errorf("failed to subscribe to %s: %w", topic, err)
	}

	eb.logger.InfoContext(ctx, "Subscription started", attr.String("topic", topic))

	eb.wg.Add(1)
	go func() {
		defer eb.wg.Done()
		for msg := range messages {
			msgCtx := attr.WithCorrelationID(msg.Context(), msg.Metadata.Get(MetadataCorrelationID))
			if err := handler(msgCtx, msg); err != nil {
				eb.logger.ErrorContext(msgCtx, "Handler error",
					attr.String("topic", topic),
					attr.Error(err),
				)
				msg.Nack()
				continue
			}
			msg.Ack()
		}
	}()
	return nil
}

func (eb *eventBus) Close() error {
	err := eb.pubsub.Close()
	eb.wg.Wait()
	return err
}

// NewEventMessage marshals payload into a watermill message.
func NewEventMessage(ctx context.Context, payload any) (*message.Message, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal event payload: %w", err)
	}
	msg := message.NewMessage(watermill.NewUUID(), data)
	if id := attr.CorrelationID(ctx); id != "" {
		msg.Metadata.Set(MetadataCorrelationID, id)
	}
	return msg, nil
}

// PublishEvent marshals payload and publishes it on topic. A nil bus is a no-op.
func PublishEvent(ctx context.Context, bus EventBus, topic string, payload any) error {
	if bus == nil {
		return nil
	}
	msg, err := NewEventMessage(ctx, payload)
	if err != nil {
		return err
	}
	return bus.Publish(ctx, topic, msg)
}

// DecodeEvent unmarshals a message payload into T.
func DecodeEvent[T any](msg *message.Message) (T, error) {
	var out T
	if err := json.Unmarshal(msg.Payload, &out); err != nil {
		return out, fmt.Errorf("failed to decode event %s: %w", msg.UUID, err)
	}
	return out, nil
}
