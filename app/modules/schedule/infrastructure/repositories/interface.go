package scheduledb

import (
	"context"

	sharedtypes "github.com/Black-And-White-Club/moto-pickem/app/shared/types"
	"github.com/uptrace/bun"
)

// Repository defines the contract for round and rider persistence.
type Repository interface {
	// Rounds
	UpsertRound(ctx context.Context, db bun.IDB, round *Round) error
	DeleteRound(ctx context.Context, db bun.IDB, number sharedtypes.RoundNumber) error
	GetRound(ctx context.Context, db bun.IDB, number sharedtypes.RoundNumber) (*Round, error)
	ListRounds(ctx context.Context, db bun.IDB) ([]Round, error)

	// Riders
	UpsertRider(ctx context.Context, db bun.IDB, rider *Rider) error
	SetRiderActive(ctx context.Context, db bun.IDB, name string, active bool) error
	GetRiderByName(ctx context.Context, db bun.IDB, name string) (*Rider, error)
	GetRidersByNames(ctx context.Context, db bun.IDB, names []string) ([]Rider, error)
	ListRiders(ctx context.Context, db bun.IDB, classes []sharedtypes.RiderClass, activeOnly bool) ([]Rider, error)
}
