package picksubscribers

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"sync"
	"testing"
	"time"

	"github.com/Black-And-White-Club/moto-pickem/app/eventbus"
	sharedtypes "github.com/Black-And-White-Club/moto-pickem/app/shared/types"
	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeCanceler struct {
	mu     sync.Mutex
	rounds []sharedtypes.RoundNumber
	err    error
	calls  chan struct{}
}

func (f *fakeCanceler) CancelSweepJobs(ctx context.Context, round sharedtypes.RoundNumber) error {
	f.mu.Lock()
	f.rounds = append(f.rounds, round)
	f.mu.Unlock()
	f.calls <- struct{}{}
	return f.err
}

func waitCall(t *testing.T, ch <-chan struct{}) {
	t.Helper()
	select {
	case <-ch:
	case <-time.After(3 * time.Second):
		t.Fatal("timed out waiting for cancel")
	}
}

func TestRoundDeletedCancelsJobs(t *testing.T) {
	tests := []struct {
		name string
		err  error
	}{
		{name: "cancelled"},
		{name: "cancel error is not redelivered", err: errors.New("pool closed")},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()

			logger := slog.New(slog.NewTextHandler(io.Discard, nil))
			bus := eventbus.NewEventBus(logger)
			t.Cleanup(func() { _ = bus.Close() })

			canceler := &fakeCanceler{err: tt.err, calls: make(chan struct{}, 8)}
			require.NoError(t, NewRoundDeletedSubscriber(bus, canceler, logger).Start(ctx))

			// Dropped without reaching the canceler.
			require.NoError(t, bus.Publish(ctx, eventbus.TopicRoundDeleted, message.NewMessage(watermill.NewUUID(), []byte("not json"))))
			require.NoError(t, eventbus.PublishEvent(ctx, bus, eventbus.TopicRoundDeleted, eventbus.RoundDeleted{Round: 6}))
			waitCall(t, canceler.calls)

			require.NoError(t, eventbus.PublishEvent(ctx, bus, eventbus.TopicRoundDeleted, eventbus.RoundDeleted{Round: 7}))
			waitCall(t, canceler.calls)

			canceler.mu.Lock()
			defer canceler.mu.Unlock()
			assert.Equal(t, []sharedtypes.RoundNumber{6, 7}, canceler.rounds)
		})
	}
}
