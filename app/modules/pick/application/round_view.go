package pickservice

import (
	"context"
	"fmt"
	"sort"

	"github.com/Black-And-White-Club/moto-pickem/app/shared/results"
	sharedtypes "github.com/Black-And-White-Club/moto-pickem/app/shared/types"
	"github.com/uptrace/bun"
)

func viewFailure(err error) RoundViewResult {
	return results.FailureResult[RoundView, error](err)
}

// GetRoundView assembles the pick page for a user. Once the round is locked
// a user with no picks at all is given auto-picks on the spot.
func (s *PickService) GetRoundView(ctx context.Context, userID sharedtypes.UserID, number sharedtypes.RoundNumber) (RoundViewResult, error) {
	result, err := withTelemetry(s, ctx, "GetRoundView", userID, number, func(ctx context.Context) (RoundViewResult, error) {
		return runInTx(s, ctx, func(ctx context.Context, db bun.IDB) (RoundViewResult, error) {
			return s.roundView(ctx, db, userID, number)
		})
	})
	if err == nil && result.IsSuccess() && result.Success.AutoAssigned {
		s.publishPicksChanged(ctx, number, []sharedtypes.UserID{userID}, true)
	}
	return result, err
}

func (s *PickService) roundView(ctx context.Context, db bun.IDB, userID sharedtypes.UserID, number sharedtypes.RoundNumber) (RoundViewResult, error) {
	round, err := s.schedule.GetRound(ctx, db, number)
	if err != nil {
		return RoundViewResult{}, err
	}
	if round == nil {
		return viewFailure(fmt.Errorf("%w: %d", ErrRoundNotFound, number)), nil
	}
	ok, err := s.users.UserExists(ctx, db, userID)
	if err != nil {
		return RoundViewResult{}, err
	}
	if !ok {
		return viewFailure(fmt.Errorf("%w: %d", ErrUserNotFound, userID)), nil
	}

	deadline, locked := s.deadline(*round)
	view := RoundView{
		Round:     round.Number,
		RaceDate:  round.RaceDate,
		Location:  round.Location,
		RaceType:  round.RaceType,
		SplitMode: round.SplitMode,
		Timezone:  s.resolver.Location(round.Location).String(),
		Deadline:  deadline,
		Locked:    locked,
		Eligible:  map[sharedtypes.PickClass][]string{},
		Excluded:  map[sharedtypes.PickClass][]string{},
	}

	picks, err := s.repo.GetPicks(ctx, db, userID, number)
	if err != nil {
		return RoundViewResult{}, err
	}
	if locked && len(picks) == 0 {
		picker, err := s.newAutoPicker(ctx, db, *round)
		if err != nil {
			return RoundViewResult{}, err
		}
		assigned, err := picker.assign(ctx, db, userID, nil)
		if err != nil {
			return RoundViewResult{}, err
		}
		if len(assigned) > 0 {
			view.AutoAssigned = true
			if picks, err = s.repo.GetPicks(ctx, db, userID, number); err != nil {
				return RoundViewResult{}, err
			}
		}
	}
	view.Picks = toExisting(picks)

	prior, err := s.priorPicks(ctx, db, userID, number)
	if err != nil {
		return RoundViewResult{}, err
	}
	for _, class := range sharedtypes.PickClasses {
		riders, err := s.schedule.EligibleRiders(ctx, db, class, round.SplitMode)
		if err != nil {
			return RoundViewResult{}, err
		}
		names := make([]string, 0, len(riders))
		for _, r := range riders {
			names = append(names, r.Name)
		}
		view.Eligible[class] = names

		seen := map[string]bool{}
		excluded := []string{}
		for _, p := range prior {
			if p.Class == class && !seen[p.Rider] {
				seen[p.Rider] = true
				excluded = append(excluded, p.Rider)
			}
		}
		sort.Strings(excluded)
		view.Excluded[class] = excluded
	}

	return results.SuccessResult[RoundView, error](view), nil
}
