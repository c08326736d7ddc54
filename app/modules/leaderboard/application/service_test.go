package leaderboardservice

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/Black-And-White-Club/moto-pickem/app/eventbus"
	leaderboarddomain "github.com/Black-And-White-Club/moto-pickem/app/modules/leaderboard/domain"
	leaderboarddb "github.com/Black-And-White-Club/moto-pickem/app/modules/leaderboard/infrastructure/repositories"
	resultdomain "github.com/Black-And-White-Club/moto-pickem/app/modules/result/domain"
	scheduledomain "github.com/Black-And-White-Club/moto-pickem/app/modules/schedule/domain"
	"github.com/Black-And-White-Club/moto-pickem/app/shared/clock"
	"github.com/Black-And-White-Club/moto-pickem/app/shared/metrics"
	sharedtypes "github.com/Black-And-White-Club/moto-pickem/app/shared/types"
	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/uptrace/bun"
	"go.opentelemetry.io/otel/trace/noop"
)

const (
	alice sharedtypes.UserID = 1
	bob   sharedtypes.UserID = 2
)

var (
	round1Date = time.Date(2025, 1, 11, 0, 0, 0, 0, time.UTC)
	round2Date = time.Date(2025, 1, 18, 0, 0, 0, 0, time.UTC)
	round3Date = time.Date(2025, 5, 31, 0, 0, 0, 0, time.UTC)

	// Round 1 has locked (midnight Pacific is 08:00 UTC), round 2 has not.
	afterRound1 = time.Date(2025, 1, 12, 12, 0, 0, 0, time.UTC)
	afterRound3 = time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
)

func intp(v int) *int { return &v }

type fixture struct {
	repo   *memRepo
	source *fakeSource
	clock  *clock.Fake
	svc    *LeaderboardService
}

func newFixture(t *testing.T, now time.Time, bus eventbus.EventBus, opts ...Option) *fixture {
	t.Helper()
	f := &fixture{
		repo:  newMemRepo(),
		clock: clock.NewFake(now),
		source: &fakeSource{
			rounds: []RoundRef{
				{Number: 1, RaceDate: round1Date, Location: "Anaheim, CA", RaceType: sharedtypes.RaceTypeSX},
				{Number: 2, RaceDate: round2Date, Location: "San Diego, CA", RaceType: sharedtypes.RaceTypeSX},
				{Number: 3, RaceDate: round3Date, Location: "Pala, CA", RaceType: sharedtypes.RaceTypeMX},
			},
			members: []leaderboarddomain.Member{{ID: alice, Username: "alice"}, {ID: bob, Username: "bob"}},
			picks: []leaderboarddomain.Pick{
				{UserID: alice, Round: 1, Class: sharedtypes.PickClass450, RiderID: 1, Rider: "Jett Lawrence"},
				{UserID: alice, Round: 1, Class: sharedtypes.PickClass250, RiderID: 10, Rider: "Haiden Deegan"},
				{UserID: bob, Round: 1, Class: sharedtypes.PickClass450, RiderID: 2, Rider: "Chase Sexton", AutoRandom: true},
				{UserID: alice, Round: 2, Class: sharedtypes.PickClass450, RiderID: 3, Rider: "Cooper Webb"},
				{UserID: bob, Round: 3, Class: sharedtypes.PickClass450, RiderID: 1, Rider: "Jett Lawrence"},
			},
			finishes: []leaderboarddomain.Finish{
				{Round: 1, Class: sharedtypes.PickClass450, RiderID: 1, Position: 1},
				{Round: 1, Class: sharedtypes.PickClass450, RiderID: 2, Position: 25},
				{Round: 1, Class: sharedtypes.PickClass250, RiderID: 10, Position: 3},
				{Round: 3, Class: sharedtypes.PickClass450, RiderID: 1, Position: 2},
			},
		},
	}

	resolver, err := scheduledomain.NewDeadlineResolver("")
	require.NoError(t, err)
	f.svc = NewLeaderboardService(
		f.repo,
		f.source,
		f.source,
		f.source,
		f.source,
		resolver,
		f.clock,
		resultdomain.StandardTable,
		bus,
		slog.New(slog.NewTextHandler(io.Discard, nil)),
		metrics.NoOpMetrics{},
		noop.NewTracerProvider().Tracer("test"),
		nil,
		opts...,
	)
	return f
}

func TestTriggerRecalculation(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, afterRound1, nil)

	res, err := f.svc.TriggerRecalculation(ctx)
	require.NoError(t, err)
	require.True(t, res.IsSuccess())
	assert.Equal(t, RecalcSummary{At: afterRound1, VisibleRounds: 1, Users: 2, Snapshots: 3}, *res.Success)
	assert.Equal(t, afterRound1, f.repo.meta[leaderboarddb.MetaLastRecalculated])

	view, err := f.svc.GetLeaderboard(ctx, sharedtypes.ViewOverall)
	require.NoError(t, err)
	require.True(t, view.IsSuccess())
	lv := *view.Success

	assert.True(t, lv.Built)
	assert.False(t, lv.Stale)
	require.NotNil(t, lv.LastRecalculated)
	assert.True(t, lv.LastRecalculated.Equal(afterRound1))

	wantRounds := []RoundColumn{{Round: 1, RaceType: sharedtypes.RaceTypeSX, RaceDate: round1Date, Location: "Anaheim, CA"}}
	if diff := cmp.Diff(wantRounds, lv.Rounds); diff != "" {
		t.Errorf("rounds mismatch (-want +got):\n%s", diff)
	}

	wantStandings := []StandingRow{
		{
			Rank: 1, UserID: alice, Username: "alice", Total: 45,
			Rounds: []RoundPicks{{Round: 1, Picks: []PickCell{
				{Class: sharedtypes.PickClass450, Rider: "Jett Lawrence", Initials: "JL", Points: intp(25)},
				{Class: sharedtypes.PickClass250, Rider: "Haiden Deegan", Initials: "HD", Points: intp(20)},
			}}},
		},
		{
			Rank: 2, UserID: bob, Username: "bob", Total: 0,
			Rounds: []RoundPicks{{Round: 1, Picks: []PickCell{
				{Class: sharedtypes.PickClass450, Rider: "Chase Sexton", Initials: "CS", Points: intp(0), AutoRandom: true},
			}}},
		},
	}
	if diff := cmp.Diff(wantStandings, lv.Standings); diff != "" {
		t.Errorf("standings mismatch (-want +got):\n%s", diff)
	}
}

func TestTriggerRecalculation_Idempotent(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, afterRound3, nil)

	_, err := f.svc.TriggerRecalculation(ctx)
	require.NoError(t, err)
	firstTotals := append([]leaderboarddb.Total(nil), f.repo.totals...)
	firstSnaps := append([]leaderboarddb.PickSnapshot(nil), f.repo.snapshots...)

	_, err = f.svc.TriggerRecalculation(ctx)
	require.NoError(t, err)

	if diff := cmp.Diff(firstTotals, f.repo.totals); diff != "" {
		t.Errorf("totals changed on rebuild (-first +second):\n%s", diff)
	}
	if diff := cmp.Diff(firstSnaps, f.repo.snapshots); diff != "" {
		t.Errorf("snapshots changed on rebuild (-first +second):\n%s", diff)
	}
	assert.Equal(t, 2, f.repo.count("ReplaceCache"))
}

func TestTriggerRecalculation_PendingResult(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, afterRound3, nil)

	_, err := f.svc.TriggerRecalculation(ctx)
	require.NoError(t, err)

	res, err := f.svc.GetLeaderboard(ctx, sharedtypes.ViewSX)
	require.NoError(t, err)
	lv := *res.Success

	require.Len(t, lv.Rounds, 2)
	require.Equal(t, "alice", lv.Standings[0].Username)
	round2 := lv.Standings[0].Rounds[1]
	assert.Equal(t, sharedtypes.RoundNumber(2), round2.Round)
	require.Len(t, round2.Picks, 1)
	assert.Nil(t, round2.Picks[0].Points)
	assert.True(t, round2.Picks[0].Pending)
	assert.Equal(t, 45, lv.Standings[0].Total)
}

func TestTriggerRecalculation_RepositoryError(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, afterRound1, nil)
	boom := errors.New("disk full")
	f.repo.ReplaceCacheFunc = func(context.Context, bun.IDB, []leaderboarddb.VisibleRound, []leaderboarddb.PickSnapshot, []leaderboarddb.Total) error {
		return boom
	}

	_, err := f.svc.TriggerRecalculation(ctx)
	require.ErrorIs(t, err, boom)
	_, ok := f.repo.meta[leaderboarddb.MetaLastRecalculated]
	assert.False(t, ok, "marker must not move when the rebuild fails")
}

func TestTriggerRecalculation_PublishesEvent(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	bus := eventbus.NewEventBus(slog.New(slog.NewTextHandler(io.Discard, nil)))
	t.Cleanup(func() { _ = bus.Close() })

	got := make(chan eventbus.LeaderboardRecalculated, 1)
	require.NoError(t, bus.Subscribe(ctx, eventbus.TopicLeaderboardRecalculated, func(ctx context.Context, msg *message.Message) error {
		ev, err := eventbus.DecodeEvent[eventbus.LeaderboardRecalculated](msg)
		if err != nil {
			return err
		}
		got <- ev
		return nil
	}))

	f := newFixture(t, afterRound1, bus)
	_, err := f.svc.TriggerRecalculation(ctx)
	require.NoError(t, err)

	select {
	case ev := <-got:
		assert.Equal(t, 1, ev.VisibleRounds)
		assert.Equal(t, 2, ev.Users)
		assert.True(t, ev.At.Equal(afterRound1))
	case <-ctx.Done():
		t.Fatal("no recalculation event received")
	}
}

func TestGetLeaderboard_NotBuilt(t *testing.T) {
	f := newFixture(t, afterRound1, nil)

	res, err := f.svc.GetLeaderboard(context.Background(), sharedtypes.ViewOverall)
	require.NoError(t, err)
	require.True(t, res.IsSuccess())

	lv := *res.Success
	assert.False(t, lv.Built)
	assert.Nil(t, lv.LastRecalculated)
	assert.Empty(t, lv.Rounds)
	assert.Empty(t, lv.Standings)
	assert.Zero(t, f.repo.count("GetTotals"))

	last, err := f.svc.GetLastRecalculated(context.Background())
	require.NoError(t, err)
	assert.Nil(t, last)
}

func TestGetLeaderboard_InvalidView(t *testing.T) {
	f := newFixture(t, afterRound1, nil)

	res, err := f.svc.GetLeaderboard(context.Background(), sharedtypes.ViewType("enduro"))
	require.NoError(t, err)
	require.True(t, res.IsFailure())
	assert.ErrorIs(t, *res.Failure, ErrInvalidView)
}

func TestGetLeaderboard_ViewFilters(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, afterRound3, nil)
	_, err := f.svc.TriggerRecalculation(ctx)
	require.NoError(t, err)

	tests := []struct {
		view       sharedtypes.ViewType
		wantRounds []sharedtypes.RoundNumber
		wantOrder  []string
		wantTotals []int
	}{
		{sharedtypes.ViewOverall, []sharedtypes.RoundNumber{1, 2, 3}, []string{"alice", "bob"}, []int{45, 22}},
		{sharedtypes.ViewSX, []sharedtypes.RoundNumber{1, 2}, []string{"alice", "bob"}, []int{45, 0}},
		{sharedtypes.ViewMX, []sharedtypes.RoundNumber{3}, []string{"bob", "alice"}, []int{22, 0}},
		{sharedtypes.ViewSMX, []sharedtypes.RoundNumber{}, []string{"alice", "bob"}, []int{0, 0}},
	}
	for _, tt := range tests {
		t.Run(string(tt.view), func(t *testing.T) {
			res, err := f.svc.GetLeaderboard(ctx, tt.view)
			require.NoError(t, err)
			lv := *res.Success

			rounds := []sharedtypes.RoundNumber{}
			for _, r := range lv.Rounds {
				rounds = append(rounds, r.Round)
			}
			var order []string
			var totals []int
			for _, row := range lv.Standings {
				order = append(order, row.Username)
				totals = append(totals, row.Total)
				assert.Len(t, row.Rounds, len(tt.wantRounds))
			}
			assert.Equal(t, tt.wantRounds, rounds)
			assert.Equal(t, tt.wantOrder, order)
			assert.Equal(t, tt.wantTotals, totals)
		})
	}
}

func TestGetLeaderboard_Stale(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, afterRound1, nil)
	_, err := f.svc.TriggerRecalculation(ctx)
	require.NoError(t, err)

	require.NoError(t, f.svc.MarkStale(ctx, afterRound1.Add(time.Hour)))

	res, err := f.svc.GetLeaderboard(ctx, sharedtypes.ViewOverall)
	require.NoError(t, err)
	assert.True(t, res.Success.Stale)

	f.clock.Advance(2 * time.Hour)
	_, err = f.svc.TriggerRecalculation(ctx)
	require.NoError(t, err)

	res, err = f.svc.GetLeaderboard(ctx, sharedtypes.ViewOverall)
	require.NoError(t, err)
	assert.False(t, res.Success.Stale)

	last, err := f.svc.GetLastRecalculated(ctx)
	require.NoError(t, err)
	require.NotNil(t, last)
	assert.True(t, last.Equal(afterRound1.Add(2*time.Hour)))
}

func TestMarkStale_KeepsLatestChange(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, afterRound1, nil)
	_, err := f.svc.TriggerRecalculation(ctx)
	require.NoError(t, err)

	// A pick made after the rebuild, then a results event from before it
	// that was handled late.
	require.NoError(t, f.svc.MarkStale(ctx, afterRound1.Add(time.Hour)))
	require.NoError(t, f.svc.MarkStale(ctx, afterRound1.Add(-time.Hour)))

	res, err := f.svc.GetLeaderboard(ctx, sharedtypes.ViewOverall)
	require.NoError(t, err)
	assert.True(t, res.Success.Stale)
	assert.True(t, f.repo.meta[leaderboarddb.MetaLastDataChange].Equal(afterRound1.Add(time.Hour)))
}

func TestGetLeaderboard_Cache(t *testing.T) {
	ctx := context.Background()
	cache := newFakeCache()
	f := newFixture(t, afterRound1, nil, WithCache(cache))

	// An unbuilt view is never cached.
	_, err := f.svc.GetLeaderboard(ctx, sharedtypes.ViewOverall)
	require.NoError(t, err)
	assert.Zero(t, cache.sets)

	_, err = f.svc.TriggerRecalculation(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, cache.invalidated)

	first, err := f.svc.GetLeaderboard(ctx, sharedtypes.ViewOverall)
	require.NoError(t, err)
	assert.Equal(t, 1, cache.sets)
	assert.Equal(t, 1, f.repo.count("GetTotals"))

	second, err := f.svc.GetLeaderboard(ctx, sharedtypes.ViewOverall)
	require.NoError(t, err)
	assert.Equal(t, 1, f.repo.count("GetTotals"), "second read should be served from cache")
	if diff := cmp.Diff(*first.Success, *second.Success); diff != "" {
		t.Errorf("cached view differs (-db +cache):\n%s", diff)
	}

	require.NoError(t, f.svc.MarkStale(ctx, afterRound1.Add(time.Minute)))
	assert.Equal(t, 2, cache.invalidated)

	third, err := f.svc.GetLeaderboard(ctx, sharedtypes.ViewOverall)
	require.NoError(t, err)
	assert.Equal(t, 2, f.repo.count("GetTotals"))
	assert.True(t, third.Success.Stale)
}

func TestStandingsProgression(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, afterRound3, nil)
	_, err := f.svc.TriggerRecalculation(ctx)
	require.NoError(t, err)

	got, err := f.svc.StandingsProgression(ctx, sharedtypes.ViewOverall, 0)
	require.NoError(t, err)
	want := Progression{
		View:   sharedtypes.ViewOverall,
		Rounds: []sharedtypes.RoundNumber{1, 2, 3},
		Series: []ProgressionSeries{
			{Username: "alice", Cumulative: []int{45, 45, 45}},
			{Username: "bob", Cumulative: []int{0, 0, 22}},
		},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("progression mismatch (-want +got):\n%s", diff)
	}

	top, err := f.svc.StandingsProgression(ctx, sharedtypes.ViewOverall, 1)
	require.NoError(t, err)
	require.Len(t, top.Series, 1)
	assert.Equal(t, "alice", top.Series[0].Username)

	_, err = f.svc.StandingsProgression(ctx, sharedtypes.ViewType("bogus"), 0)
	assert.ErrorIs(t, err, ErrInvalidView)
}
