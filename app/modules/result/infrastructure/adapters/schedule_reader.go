package adapters

import (
	"context"
	"errors"

	resultservice "github.com/Black-And-White-Club/moto-pickem/app/modules/result/application"
	scheduledb "github.com/Black-And-White-Club/moto-pickem/app/modules/schedule/infrastructure/repositories"
	sharedtypes "github.com/Black-And-White-Club/moto-pickem/app/shared/types"
	"github.com/uptrace/bun"
)

// ScheduleReaderAdapter adapts the schedule repository to the result
// service's ScheduleReader port.
type ScheduleReaderAdapter struct {
	repo scheduledb.Repository
}

func NewScheduleReaderAdapter(repo scheduledb.Repository) *ScheduleReaderAdapter {
	return &ScheduleReaderAdapter{repo: repo}
}

func (a *ScheduleReaderAdapter) GetRound(ctx context.Context, db bun.IDB, number sharedtypes.RoundNumber) (*resultservice.RoundRef, error) {
	round, err := a.repo.GetRound(ctx, db, number)
	if err != nil {
		if errors.Is(err, scheduledb.ErrNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &resultservice.RoundRef{
		Number:   round.Number,
		RaceDate: round.RaceDate,
		Location: round.Location,
		RaceType: round.RaceType,
	}, nil
}

func (a *ScheduleReaderAdapter) RidersByName(ctx context.Context, db bun.IDB, names []string) ([]resultservice.RiderRef, error) {
	riders, err := a.repo.GetRidersByNames(ctx, db, names)
	if err != nil {
		return nil, err
	}
	refs := make([]resultservice.RiderRef, 0, len(riders))
	for _, r := range riders {
		refs = append(refs, resultservice.RiderRef{ID: r.ID, Name: r.Name, Class: r.Class})
	}
	return refs, nil
}
