package pickdb

import (
	"context"

	sharedtypes "github.com/Black-And-White-Club/moto-pickem/app/shared/types"
	"github.com/uptrace/bun"
)

// Repository defines the contract for pick persistence.
type Repository interface {
	// GetPicks returns the user's picks for a round with rider names.
	GetPicks(ctx context.Context, db bun.IDB, userID sharedtypes.UserID, round sharedtypes.RoundNumber) ([]Pick, error)

	// PicksInRounds returns the user's picks for any of the given rounds.
	PicksInRounds(ctx context.Context, db bun.IDB, userID sharedtypes.UserID, rounds []sharedtypes.RoundNumber) ([]Pick, error)

	// PicksForRounds returns every user's picks for the given rounds.
	PicksForRounds(ctx context.Context, db bun.IDB, rounds []sharedtypes.RoundNumber) ([]Pick, error)

	// RoundPicks returns every pick stored for a round.
	RoundPicks(ctx context.Context, db bun.IDB, round sharedtypes.RoundNumber) ([]Pick, error)

	// ReplacePicks deletes the user's picks for the round and inserts picks.
	// Concurrent calls for the same user are serialized; the last one wins.
	ReplacePicks(ctx context.Context, db bun.IDB, userID sharedtypes.UserID, round sharedtypes.RoundNumber, picks []Pick) error

	// InsertPick adds a single pick, returning ErrPickExists on a
	// (user, round, class) collision.
	InsertPick(ctx context.Context, db bun.IDB, pick *Pick) error
}
