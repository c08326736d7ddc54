package leaderboardsubscribers

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/Black-And-White-Club/moto-pickem/app/eventbus"
	"github.com/Black-And-White-Club/moto-pickem/app/shared/attr"
	"github.com/ThreeDotsLabs/watermill/message"
)

// StaleMarker records that scoring inputs changed.
type StaleMarker interface {
	MarkStale(ctx context.Context, at time.Time) error
}

// StaleTracker marks the leaderboard stale whenever picks, results, rounds
// or users change.
type StaleTracker struct {
	bus    eventbus.EventBus
	marker StaleMarker
	logger *slog.Logger
}

func NewStaleTracker(bus eventbus.EventBus, marker StaleMarker, logger *slog.Logger) *StaleTracker {
	return &StaleTracker{bus: bus, marker: marker, logger: logger}
}

// occurrence is the field every data-change event carries.
type occurrence struct {
	OccurredAt time.Time `json:"occurred_at"`
}

// Start subscribes to every data-change topic until ctx is done.
func (t *StaleTracker) Start(ctx context.Context) error {
	for _, topic := range eventbus.DataChangeTopics {
		if err := t.bus.Subscribe(ctx, topic, t.handle(topic)); err != nil {
			return fmt.Errorf("stale tracker: %w", err)
		}
	}
	return nil
}

func (t *StaleTracker) handle(topic string) func(ctx context.Context, msg *message.Message) error {
	return func(ctx context.Context, msg *message.Message) error {
		ev, err := eventbus.DecodeEvent[occurrence](msg)
		if err != nil {
			// A malformed payload will never decode; drop it.
			t.logger.ErrorContext(ctx, "Dropping undecodable event",
				attr.String("topic", topic),
				attr.Error(err),
			)
			return nil
		}
		at := ev.OccurredAt
		if at.IsZero() {
			at = time.Now().UTC()
		}
		if err := t.marker.MarkStale(ctx, at); err != nil {
			return fmt.Errorf("mark stale after %s: %w", topic, err)
		}
		t.logger.DebugContext(ctx, "Leaderboard marked stale",
			attr.String("topic", topic),
			attr.Time("occurred_at", at),
		)
		return nil
	}
}
