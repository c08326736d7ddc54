package adapters

import (
	"context"
	"errors"

	pickservice "github.com/Black-And-White-Club/moto-pickem/app/modules/pick/application"
	scheduledomain "github.com/Black-And-White-Club/moto-pickem/app/modules/schedule/domain"
	scheduledb "github.com/Black-And-White-Club/moto-pickem/app/modules/schedule/infrastructure/repositories"
	sharedtypes "github.com/Black-And-White-Club/moto-pickem/app/shared/types"
	"github.com/uptrace/bun"
)

// ScheduleReaderAdapter adapts the schedule repository to the pick
// service's ScheduleReader port.
type ScheduleReaderAdapter struct {
	repo scheduledb.Repository
}

func NewScheduleReaderAdapter(repo scheduledb.Repository) *ScheduleReaderAdapter {
	return &ScheduleReaderAdapter{repo: repo}
}

func toRoundRef(r scheduledb.Round) pickservice.RoundRef {
	return pickservice.RoundRef{
		Number:    r.Number,
		RaceDate:  r.RaceDate,
		Location:  r.Location,
		RaceType:  r.RaceType,
		SplitMode: r.SplitMode,
	}
}

func toRiderRefs(riders []scheduledb.Rider) []pickservice.RiderRef {
	refs := make([]pickservice.RiderRef, 0, len(riders))
	for _, r := range riders {
		refs = append(refs, pickservice.RiderRef{ID: r.ID, Name: r.Name, Class: r.Class, Active: r.Active})
	}
	return refs
}

func (a *ScheduleReaderAdapter) GetRound(ctx context.Context, db bun.IDB, number sharedtypes.RoundNumber) (*pickservice.RoundRef, error) {
	round, err := a.repo.GetRound(ctx, db, number)
	if err != nil {
		if errors.Is(err, scheduledb.ErrNotFound) {
			return nil, nil
		}
		return nil, err
	}
	ref := toRoundRef(*round)
	return &ref, nil
}

func (a *ScheduleReaderAdapter) ListRounds(ctx context.Context, db bun.IDB) ([]pickservice.RoundRef, error) {
	rounds, err := a.repo.ListRounds(ctx, db)
	if err != nil {
		return nil, err
	}
	refs := make([]pickservice.RoundRef, 0, len(rounds))
	for _, r := range rounds {
		refs = append(refs, toRoundRef(r))
	}
	return refs, nil
}

func (a *ScheduleReaderAdapter) EligibleRiders(ctx context.Context, db bun.IDB, class sharedtypes.PickClass, split sharedtypes.SplitMode) ([]pickservice.RiderRef, error) {
	riders, err := a.repo.ListRiders(ctx, db, scheduledomain.EligibleRiderClasses(class, split), true)
	if err != nil {
		return nil, err
	}
	return toRiderRefs(riders), nil
}

func (a *ScheduleReaderAdapter) RidersByName(ctx context.Context, db bun.IDB, names []string) ([]pickservice.RiderRef, error) {
	riders, err := a.repo.GetRidersByNames(ctx, db, names)
	if err != nil {
		return nil, err
	}
	return toRiderRefs(riders), nil
}
