package scheduleservice

import (
	"context"
	"time"

	scheduledb "github.com/Black-And-White-Club/moto-pickem/app/modules/schedule/infrastructure/repositories"
	sharedtypes "github.com/Black-And-White-Club/moto-pickem/app/shared/types"
)

// Service is the schedule and rider registry.
type Service interface {
	UpsertRound(ctx context.Context, in RoundInput) (RoundResult, error)
	DeleteRound(ctx context.Context, number sharedtypes.RoundNumber) (DeleteResult, error)
	GetRound(ctx context.Context, number sharedtypes.RoundNumber) (*RoundInfo, error)
	ListRounds(ctx context.Context) ([]RoundInfo, error)
	LockedRounds(ctx context.Context) ([]RoundInfo, error)
	Deadline(ctx context.Context, number sharedtypes.RoundNumber) (time.Time, bool, error)

	UpsertRider(ctx context.Context, in RiderInput) (RiderResult, error)
	SetRiderActive(ctx context.Context, name string, active bool) error
	ListRiders(ctx context.Context, classes []sharedtypes.RiderClass, activeOnly bool) ([]scheduledb.Rider, error)
	EligibleRiders(ctx context.Context, number sharedtypes.RoundNumber, class sharedtypes.PickClass) ([]scheduledb.Rider, error)
}

var _ Service = (*ScheduleService)(nil)
