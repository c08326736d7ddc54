package adapters

import (
	"context"
	"errors"
	"testing"
	"time"

	leaderboardservice "github.com/Black-And-White-Club/moto-pickem/app/modules/leaderboard/application"
	leaderboarddomain "github.com/Black-And-White-Club/moto-pickem/app/modules/leaderboard/domain"
	pickdb "github.com/Black-And-White-Club/moto-pickem/app/modules/pick/infrastructure/repositories"
	resultdb "github.com/Black-And-White-Club/moto-pickem/app/modules/result/infrastructure/repositories"
	scheduledb "github.com/Black-And-White-Club/moto-pickem/app/modules/schedule/infrastructure/repositories"
	userdb "github.com/Black-And-White-Club/moto-pickem/app/modules/user/infrastructure/repositories"
	sharedtypes "github.com/Black-And-White-Club/moto-pickem/app/shared/types"
	"github.com/google/go-cmp/cmp"
	"github.com/uptrace/bun"
)

var (
	_ leaderboardservice.ScheduleReader  = (*ScheduleReaderAdapter)(nil)
	_ leaderboardservice.PickReader      = (*PickReaderAdapter)(nil)
	_ leaderboardservice.ResultReader    = (*ResultReaderAdapter)(nil)
	_ leaderboardservice.MemberDirectory = (*MemberDirectoryAdapter)(nil)
)

func TestScheduleReaderAdapter(t *testing.T) {
	date := time.Date(2025, 5, 31, 0, 0, 0, 0, time.UTC)
	repo := &scheduledb.FakeRepository{
		ListRoundsFn: func(ctx context.Context, db bun.IDB) ([]scheduledb.Round, error) {
			return []scheduledb.Round{{Number: 12, RaceDate: date, Location: "Pala, CA", RaceType: sharedtypes.RaceTypeMX, SplitMode: sharedtypes.SplitCombined}}, nil
		},
	}
	got, err := NewScheduleReaderAdapter(repo).ListRounds(context.Background(), nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := []leaderboardservice.RoundRef{{Number: 12, RaceDate: date, Location: "Pala, CA", RaceType: sharedtypes.RaceTypeMX}}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("rounds mismatch (-want +got):\n%s", diff)
	}
}

func TestPickReaderAdapter(t *testing.T) {
	repo := &pickdb.FakeRepository{
		PicksForRoundsFn: func(ctx context.Context, db bun.IDB, rounds []sharedtypes.RoundNumber) ([]pickdb.Pick, error) {
			return []pickdb.Pick{{UserID: 4, RoundNumber: 2, Class: sharedtypes.PickClass250, RiderID: 11, RiderName: "Levi Kitchen", AutoRandom: true}}, nil
		},
	}
	got, err := NewPickReaderAdapter(repo).PicksForRounds(context.Background(), nil, []sharedtypes.RoundNumber{2})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := []leaderboarddomain.Pick{{UserID: 4, Round: 2, Class: sharedtypes.PickClass250, RiderID: 11, Rider: "Levi Kitchen", AutoRandom: true}}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("picks mismatch (-want +got):\n%s", diff)
	}
}

func TestResultReaderAdapter(t *testing.T) {
	var before sharedtypes.RoundNumber
	repo := &resultdb.FakeRepository{
		HistoryBeforeFn: func(ctx context.Context, db bun.IDB, round sharedtypes.RoundNumber) ([]resultdb.HistoricalResult, error) {
			before = round
			return []resultdb.HistoricalResult{
				{RoundNumber: 1, Class: sharedtypes.PickClass450, RiderID: 1, Position: 1},
				{RoundNumber: 2, Class: sharedtypes.PickClass450, RiderID: 1, Position: 4},
				{RoundNumber: 3, Class: sharedtypes.PickClass450, RiderID: 2, Position: 2},
			}, nil
		},
	}
	adapter := NewResultReaderAdapter(repo)

	got, err := adapter.FinishesForRounds(context.Background(), nil, []sharedtypes.RoundNumber{3, 1})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if before != 4 {
		t.Errorf("expected history before round 4, got %d", before)
	}
	want := []leaderboarddomain.Finish{
		{Round: 1, Class: sharedtypes.PickClass450, RiderID: 1, Position: 1},
		{Round: 3, Class: sharedtypes.PickClass450, RiderID: 2, Position: 2},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("finishes mismatch (-want +got):\n%s", diff)
	}

	before = 0
	got, err = adapter.FinishesForRounds(context.Background(), nil, nil)
	if err != nil || got != nil || before != 0 {
		t.Errorf("expected no query for empty rounds, got %v %v (before=%d)", got, err, before)
	}
}

func TestMemberDirectoryAdapter(t *testing.T) {
	t.Run("lists users", func(t *testing.T) {
		repo := &userdb.FakeRepository{
			ListUsersFn: func(ctx context.Context, db bun.IDB) ([]userdb.User, error) {
				return []userdb.User{{ID: 1, Username: "alice"}, {ID: 2, Username: "bob", IsAdmin: true}}, nil
			},
		}
		got, err := NewMemberDirectoryAdapter(repo).ListMembers(context.Background(), nil)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		want := []leaderboarddomain.Member{{ID: 1, Username: "alice"}, {ID: 2, Username: "bob"}}
		if diff := cmp.Diff(want, got); diff != "" {
			t.Errorf("members mismatch (-want +got):\n%s", diff)
		}
	})

	t.Run("propagates errors", func(t *testing.T) {
		boom := errors.New("connection reset")
		repo := &userdb.FakeRepository{
			ListUsersFn: func(ctx context.Context, db bun.IDB) ([]userdb.User, error) { return nil, boom },
		}
		if _, err := NewMemberDirectoryAdapter(repo).ListMembers(context.Background(), nil); !errors.Is(err, boom) {
			t.Errorf("expected %v, got %v", boom, err)
		}
	})
}
