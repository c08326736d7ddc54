package resultdb

import (
	"context"

	sharedtypes "github.com/Black-And-White-Club/moto-pickem/app/shared/types"
	"github.com/uptrace/bun"
)

// Repository defines the contract for result persistence.
type Repository interface {
	// GetResults returns the stored results for a round and class, ordered by position.
	GetResults(ctx context.Context, db bun.IDB, round sharedtypes.RoundNumber, class sharedtypes.PickClass) ([]Result, error)

	// UpsertResults writes rows keyed by (round, class, rider); a re-entry replaces the position.
	UpsertResults(ctx context.Context, db bun.IDB, rows []Result) error

	// DeleteResultsExcept removes rows for the round and class whose rider is not in keep.
	DeleteResultsExcept(ctx context.Context, db bun.IDB, round sharedtypes.RoundNumber, class sharedtypes.PickClass, keep []int64) (int, error)

	// HistoryBefore returns every result from rounds strictly before round.
	HistoryBefore(ctx context.Context, db bun.IDB, round sharedtypes.RoundNumber) ([]HistoricalResult, error)
}
