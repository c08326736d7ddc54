package leaderboarddb

import (
	"context"
	"time"

	sharedtypes "github.com/Black-And-White-Club/moto-pickem/app/shared/types"
	"github.com/uptrace/bun"
)

// Repository defines the contract for the leaderboard cache tables.
type Repository interface {
	// ReplaceCache clears every cache table and writes the new content.
	ReplaceCache(ctx context.Context, db bun.IDB, rounds []VisibleRound, snapshots []PickSnapshot, totals []Total) error

	// GetTotals returns the ranked totals for a view, ordered by rank then username.
	GetTotals(ctx context.Context, db bun.IDB, view sharedtypes.ViewType) ([]Total, error)

	// GetSnapshots returns cached pick cells for the given rounds.
	GetSnapshots(ctx context.Context, db bun.IDB, rounds []sharedtypes.RoundNumber) ([]PickSnapshot, error)

	// GetRounds returns visible rounds, limited to raceType unless it is empty.
	GetRounds(ctx context.Context, db bun.IDB, raceType sharedtypes.RaceType) ([]VisibleRound, error)

	// SetTime stores a timestamp marker.
	SetTime(ctx context.Context, db bun.IDB, key string, at time.Time) error

	// AdvanceTime stores a timestamp marker unless the stored one is later.
	AdvanceTime(ctx context.Context, db bun.IDB, key string, at time.Time) error

	// GetTime reads a timestamp marker, returning ErrMetaNotFound when unset.
	GetTime(ctx context.Context, db bun.IDB, key string) (time.Time, error)
}
