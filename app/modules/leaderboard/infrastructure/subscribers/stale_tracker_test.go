package leaderboardsubscribers

import (
	"context"
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

type recordingMarker struct {
	mu    sync.Mutex
	marks []time.Time
	done  chan struct{}
	want  int
}

func (m *recordingMarker) MarkStale(ctx context.Context, at time.Time) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.marks = append(m.marks, at)
	if len(m.marks) == m.want {
		close(m.done)
	}
	return nil
}

func TestStaleTracker(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	bus := eventbus.NewEventBus(logger)
	t.Cleanup(func() { _ = bus.Close() })

	marker := &recordingMarker{done: make(chan struct{}), want: 4}
	require.NoError(t, NewStaleTracker(bus, marker, logger).Start(ctx))

	base := time.Date(2025, 2, 1, 9, 0, 0, 0, time.UTC)
	require.NoError(t, eventbus.PublishEvent(ctx, bus, eventbus.TopicPicksChanged, eventbus.PicksChanged{Round: 4, UserIDs: []sharedtypes.UserID{1}, OccurredAt: base}))
	require.NoError(t, eventbus.PublishEvent(ctx, bus, eventbus.TopicResultsEntered, eventbus.ResultsEntered{Round: 3, Class: sharedtypes.PickClass450, Count: 22, OccurredAt: base.Add(time.Minute)}))
	require.NoError(t, eventbus.PublishEvent(ctx, bus, eventbus.TopicRoundDeleted, eventbus.RoundDeleted{Round: 9, OccurredAt: base.Add(2 * time.Minute)}))
	// Not a data change.
	require.NoError(t, eventbus.PublishEvent(ctx, bus, eventbus.TopicLeaderboardRecalculated, eventbus.LeaderboardRecalculated{At: base}))
	// Malformed payload is dropped.
	require.NoError(t, bus.Publish(ctx, eventbus.TopicUserDeleted, message.NewMessage(watermill.NewUUID(), []byte("{"))))
	require.NoError(t, eventbus.PublishEvent(ctx, bus, eventbus.TopicUserDeleted, eventbus.UserDeleted{UserID: 2, OccurredAt: base.Add(3 * time.Minute)}))

	select {
	case <-marker.done:
	case <-ctx.Done():
		t.Fatal("timed out waiting for stale marks")
	}

	marker.mu.Lock()
	defer marker.mu.Unlock()
	assert.ElementsMatch(t, []time.Time{
		base,
		base.Add(time.Minute),
		base.Add(2 * time.Minute),
		base.Add(3 * time.Minute),
	}, marker.marks)
}
