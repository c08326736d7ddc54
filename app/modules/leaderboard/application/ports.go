package leaderboardservice

import (
	"context"
	"time"

	leaderboarddomain "github.com/Black-And-White-Club/moto-pickem/app/modules/leaderboard/domain"
	sharedtypes "github.com/Black-And-White-Club/moto-pickem/app/shared/types"
	"github.com/uptrace/bun"
)

// RoundRef is a calendar entry with what the deadline needs.
type RoundRef struct {
	Number   sharedtypes.RoundNumber
	RaceDate time.Time
	Location string
	RaceType sharedtypes.RaceType
}

// ScheduleReader lists the season calendar.
type ScheduleReader interface {
	ListRounds(ctx context.Context, db bun.IDB) ([]RoundRef, error)
}

// PickReader loads every user's picks for a set of rounds.
type PickReader interface {
	PicksForRounds(ctx context.Context, db bun.IDB, rounds []sharedtypes.RoundNumber) ([]leaderboarddomain.Pick, error)
}

// ResultReader loads stored results for a set of rounds.
type ResultReader interface {
	FinishesForRounds(ctx context.Context, db bun.IDB, rounds []sharedtypes.RoundNumber) ([]leaderboarddomain.Finish, error)
}

// MemberDirectory lists league users.
type MemberDirectory interface {
	ListMembers(ctx context.Context, db bun.IDB) ([]leaderboarddomain.Member, error)
}

// ViewCache is an optional read-through cache of assembled views.
type ViewCache interface {
	// Get returns nil on a miss.
	Get(ctx context.Context, view sharedtypes.ViewType) (*LeaderboardView, error)
	Set(ctx context.Context, view sharedtypes.ViewType, lv *LeaderboardView) error
	Invalidate(ctx context.Context) error
}
