package scheduleservice

import (
	"context"
	"errors"
	"fmt"
	"strings"

	scheduledomain "github.com/Black-And-White-Club/moto-pickem/app/modules/schedule/domain"
	scheduledb "github.com/Black-And-White-Club/moto-pickem/app/modules/schedule/infrastructure/repositories"
	"github.com/Black-And-White-Club/moto-pickem/app/shared/results"
	sharedtypes "github.com/Black-And-White-Club/moto-pickem/app/shared/types"
	"github.com/uptrace/bun"
)

// UpsertRider adds a rider to the roster or updates class and active flag.
func (s *ScheduleService) UpsertRider(ctx context.Context, in RiderInput) (RiderResult, error) {
	return withTelemetry(s, ctx, "UpsertRider", 0, func(ctx context.Context) (RiderResult, error) {
		name := strings.TrimSpace(in.Name)
		if name == "" {
			return results.FailureResult[scheduledb.Rider, error](fmt.Errorf("%w: name is required", ErrInvalidRider)), nil
		}
		if !in.Class.Valid() {
			return results.FailureResult[scheduledb.Rider, error](fmt.Errorf("%w: unknown class %q", ErrInvalidRider, in.Class)), nil
		}
		rider := &scheduledb.Rider{Name: name, Class: in.Class, Active: in.Active}
		return runInTx(s, ctx, func(ctx context.Context, db bun.IDB) (RiderResult, error) {
			if err := s.repo.UpsertRider(ctx, db, rider); err != nil {
				return RiderResult{}, err
			}
			return results.SuccessResult[scheduledb.Rider, error](*rider), nil
		})
	})
}

// SetRiderActive toggles eligibility. Historical results are kept either way.
func (s *ScheduleService) SetRiderActive(ctx context.Context, name string, active bool) error {
	err := s.repo.SetRiderActive(ctx, nil, name, active)
	if errors.Is(err, scheduledb.ErrNotFound) {
		return ErrRiderNotFound
	}
	return err
}

func (s *ScheduleService) ListRiders(ctx context.Context, classes []sharedtypes.RiderClass, activeOnly bool) ([]scheduledb.Rider, error) {
	return s.repo.ListRiders(ctx, nil, classes, activeOnly)
}

// EligibleRiders returns the active riders that may be picked for class at
// the given round, ordered by name.
func (s *ScheduleService) EligibleRiders(ctx context.Context, number sharedtypes.RoundNumber, class sharedtypes.PickClass) ([]scheduledb.Rider, error) {
	r, err := s.repo.GetRound(ctx, nil, number)
	if err != nil {
		if errors.Is(err, scheduledb.ErrNotFound) {
			return nil, ErrRoundNotFound
		}
		return nil, err
	}
	return s.repo.ListRiders(ctx, nil, scheduledomain.EligibleRiderClasses(class, r.SplitMode), true)
}
