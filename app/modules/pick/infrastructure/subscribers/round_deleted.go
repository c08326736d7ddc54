// Package picksubscribers reacts to schedule events on behalf of the pick
// module.
package picksubscribers

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/Black-And-White-Club/moto-pickem/app/eventbus"
	"github.com/Black-And-White-Club/moto-pickem/app/shared/attr"
	sharedtypes "github.com/Black-And-White-Club/moto-pickem/app/shared/types"
	"github.com/ThreeDotsLabs/watermill/message"
)

// JobCanceler drops queued sweeps for a round.
type JobCanceler interface {
	CancelSweepJobs(ctx context.Context, round sharedtypes.RoundNumber) error
}

// RoundDeletedSubscriber cancels pending auto-pick sweeps of deleted rounds.
type RoundDeletedSubscriber struct {
	bus      eventbus.EventBus
	canceler JobCanceler
	logger   *slog.Logger
}

func NewRoundDeletedSubscriber(bus eventbus.EventBus, canceler JobCanceler, logger *slog.Logger) *RoundDeletedSubscriber {
	return &RoundDeletedSubscriber{bus: bus, canceler: canceler, logger: logger}
}

// Start subscribes until ctx is done.
func (s *RoundDeletedSubscriber) Start(ctx context.Context) error {
	if err := s.bus.Subscribe(ctx, eventbus.TopicRoundDeleted, s.handle); err != nil {
		return fmt.Errorf("round deleted subscriber: %w", err)
	}
	return nil
}

func (s *RoundDeletedSubscriber) handle(ctx context.Context, msg *message.Message) error {
	ev, err := eventbus.DecodeEvent[eventbus.RoundDeleted](msg)
	if err != nil {
		s.logger.ErrorContext(ctx, "Dropping undecodable round deleted event", attr.Error(err))
		return nil
	}
	if err := s.canceler.CancelSweepJobs(ctx, ev.Round); err != nil {
		s.logger.ErrorContext(ctx, "Failed to cancel sweep jobs",
			attr.RoundNumber("round", ev.Round),
			attr.Error(err),
		)
		// The worker cancels a job whose round no longer exists.
		return nil
	}
	s.logger.InfoContext(ctx, "Cancelled sweep jobs for deleted round",
		attr.RoundNumber("round", ev.Round),
		attr.ExtractCorrelationID(ctx),
	)
	return nil
}
