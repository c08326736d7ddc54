package pickservice

import (
	"context"
	"errors"
	"fmt"

	pickdomain "github.com/Black-And-White-Club/moto-pickem/app/modules/pick/domain"
	pickdb "github.com/Black-And-White-Club/moto-pickem/app/modules/pick/infrastructure/repositories"
	"github.com/Black-And-White-Club/moto-pickem/app/shared/attr"
	"github.com/Black-And-White-Club/moto-pickem/app/shared/results"
	sharedtypes "github.com/Black-And-White-Club/moto-pickem/app/shared/types"
	"github.com/uptrace/bun"
)

// autoPicker assigns missing picks for one locked round. Rosters and
// history are loaded once and shared across users.
type autoPicker struct {
	s          *PickService
	round      RoundRef
	candidates map[sharedtypes.PickClass][]pickdomain.Candidate
	finishes   []pickdomain.Finish
}

func (s *PickService) newAutoPicker(ctx context.Context, db bun.IDB, round RoundRef) (*autoPicker, error) {
	finishes, err := s.history.FinishesBefore(ctx, db, round.Number)
	if err != nil {
		return nil, err
	}
	ap := &autoPicker{
		s:          s,
		round:      round,
		candidates: make(map[sharedtypes.PickClass][]pickdomain.Candidate, len(sharedtypes.PickClasses)),
		finishes:   finishes,
	}
	for _, class := range sharedtypes.PickClasses {
		riders, err := s.schedule.EligibleRiders(ctx, db, class, round.SplitMode)
		if err != nil {
			return nil, err
		}
		for _, r := range riders {
			ap.candidates[class] = append(ap.candidates[class], pickdomain.Candidate{ID: r.ID, Name: r.Name})
		}
	}
	return ap, nil
}

// assign fills every class the user has no pick for.
func (ap *autoPicker) assign(ctx context.Context, db bun.IDB, userID sharedtypes.UserID, have map[sharedtypes.PickClass]bool) ([]AssignedPick, error) {
	prior, err := ap.s.priorPicks(ctx, db, userID, ap.round.Number)
	if err != nil {
		return nil, err
	}

	var assigned []AssignedPick
	for _, class := range sharedtypes.PickClasses {
		if have[class] {
			continue
		}
		standings := pickdomain.RankCandidates(ap.candidates[class], ap.finishes, ap.round.Number, class, ap.s.table)
		pool, tier := pickdomain.CandidatePool(standings, pickdomain.Excluded(prior, ap.round.Number, class))
		choice, ok := ap.s.choose(pool)
		if !ok {
			ap.s.logger.WarnContext(ctx, "No eligible riders for auto-pick",
				attr.UserID("user_id", userID),
				attr.RoundNumber("round", ap.round.Number),
				attr.String("class", string(class)),
			)
			continue
		}

		err := ap.s.repo.InsertPick(ctx, db, &pickdb.Pick{
			UserID:      userID,
			RoundNumber: ap.round.Number,
			Class:       class,
			RiderID:     choice.ID,
			AutoRandom:  true,
			RiderName:   choice.Name,
		})
		if errors.Is(err, pickdb.ErrPickExists) {
			continue
		}
		if err != nil {
			return nil, err
		}
		assigned = append(assigned, AssignedPick{UserID: userID, Class: class, Rider: choice.Name, Tier: tier})
		ap.s.metrics.RecordAutoPicks(ctx, string(class), 1)
	}
	return assigned, nil
}

func sweepFailure(err error) SweepResult {
	return results.FailureResult[SweepSummary, error](err)
}

// RunAutoPickSweep gives every user without a complete pick set for a
// locked round a randomly drawn pick per missing class.
func (s *PickService) RunAutoPickSweep(ctx context.Context, number sharedtypes.RoundNumber) (SweepResult, error) {
	result, err := withTelemetry(s, ctx, "RunAutoPickSweep", 0, number, func(ctx context.Context) (SweepResult, error) {
		return runInTx(s, ctx, func(ctx context.Context, db bun.IDB) (SweepResult, error) {
			round, err := s.schedule.GetRound(ctx, db, number)
			if err != nil {
				return SweepResult{}, err
			}
			if round == nil {
				return sweepFailure(fmt.Errorf("%w: %d", ErrRoundNotFound, number)), nil
			}
			if deadline, locked := s.deadline(*round); !locked {
				return sweepFailure(fmt.Errorf("%w: locks at %s", ErrRoundStillOpen, deadline.Format("2006-01-02 15:04 MST"))), nil
			}

			userIDs, err := s.users.ListUserIDs(ctx, db)
			if err != nil {
				return SweepResult{}, err
			}
			existing, err := s.repo.RoundPicks(ctx, db, number)
			if err != nil {
				return SweepResult{}, err
			}
			have := make(map[sharedtypes.UserID]map[sharedtypes.PickClass]bool, len(userIDs))
			for _, p := range existing {
				if have[p.UserID] == nil {
					have[p.UserID] = map[sharedtypes.PickClass]bool{}
				}
				have[p.UserID][p.Class] = true
			}

			picker, err := s.newAutoPicker(ctx, db, *round)
			if err != nil {
				return SweepResult{}, err
			}

			summary := SweepSummary{Round: number, UsersChecked: len(userIDs)}
			for _, id := range userIDs {
				if len(have[id]) == len(sharedtypes.PickClasses) {
					continue
				}
				assigned, err := picker.assign(ctx, db, id, have[id])
				if err != nil {
					return SweepResult{}, err
				}
				summary.Assigned = append(summary.Assigned, assigned...)
			}
			return results.SuccessResult[SweepSummary, error](summary), nil
		})
	})
	if err == nil && result.IsSuccess() {
		s.publishPicksChanged(ctx, number, assignedUsers(result.Success.Assigned), true)
	}
	return result, err
}

// SweepLockedRounds runs the sweep for every locked round. A failing round
// does not stop the others.
func (s *PickService) SweepLockedRounds(ctx context.Context) ([]SweepSummary, error) {
	rounds, err := s.schedule.ListRounds(ctx, nil)
	if err != nil {
		return nil, err
	}

	var (
		summaries []SweepSummary
		errs      []error
	)
	for _, r := range rounds {
		if _, locked := s.deadline(r); !locked {
			continue
		}
		res, err := s.RunAutoPickSweep(ctx, r.Number)
		if err != nil {
			errs = append(errs, err)
			continue
		}
		if res.IsSuccess() {
			summaries = append(summaries, *res.Success)
		}
	}
	return summaries, errors.Join(errs...)
}

func assignedUsers(assigned []AssignedPick) []sharedtypes.UserID {
	seen := map[sharedtypes.UserID]bool{}
	var out []sharedtypes.UserID
	for _, a := range assigned {
		if !seen[a.UserID] {
			seen[a.UserID] = true
			out = append(out, a.UserID)
		}
	}
	return out
}
