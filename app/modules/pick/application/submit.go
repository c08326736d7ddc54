package pickservice

import (
	"context"
	"fmt"
	"strings"

	pickdomain "github.com/Black-And-White-Club/moto-pickem/app/modules/pick/domain"
	pickdb "github.com/Black-And-White-Club/moto-pickem/app/modules/pick/infrastructure/repositories"
	"github.com/Black-And-White-Club/moto-pickem/app/shared/results"
	sharedtypes "github.com/Black-And-White-Club/moto-pickem/app/shared/types"
	"github.com/uptrace/bun"
)

func submitFailure(err error) SubmitResult {
	return results.FailureResult[SubmitSummary, error](err)
}

// SubmitPick replaces the user's pick pair for a round. Both picks are
// validated before either is written, and the delete-then-insert runs in
// one transaction so a partial pair is never visible.
func (s *PickService) SubmitPick(ctx context.Context, userID sharedtypes.UserID, round sharedtypes.RoundNumber, sel Selection) (SubmitResult, error) {
	result, err := withTelemetry(s, ctx, "SubmitPick", userID, round, func(ctx context.Context) (SubmitResult, error) {
		sel = Selection{
			Rider450: strings.TrimSpace(sel.Rider450),
			Rider250: strings.TrimSpace(sel.Rider250),
		}
		for _, class := range sharedtypes.PickClasses {
			if sel.rider(class) == "" {
				return submitFailure(fmt.Errorf("%w: a %s rider is required", ErrValidation, class)), nil
			}
		}

		return runInTx(s, ctx, func(ctx context.Context, db bun.IDB) (SubmitResult, error) {
			return s.submit(ctx, db, userID, round, sel)
		})
	})
	if err == nil && result.IsSuccess() {
		s.publishPicksChanged(ctx, round, []sharedtypes.UserID{userID}, false)
	}
	return result, err
}

func (s *PickService) submit(ctx context.Context, db bun.IDB, userID sharedtypes.UserID, number sharedtypes.RoundNumber, sel Selection) (SubmitResult, error) {
	round, err := s.schedule.GetRound(ctx, db, number)
	if err != nil {
		return SubmitResult{}, err
	}
	if round == nil {
		return submitFailure(fmt.Errorf("%w: %d", ErrRoundNotFound, number)), nil
	}
	if deadline, locked := s.deadline(*round); locked {
		return submitFailure(fmt.Errorf("%w: round %d locked at %s", ErrDeadlinePassed, number, deadline.Format("2006-01-02 15:04 MST"))), nil
	}

	ok, err := s.users.UserExists(ctx, db, userID)
	if err != nil {
		return SubmitResult{}, err
	}
	if !ok {
		return submitFailure(fmt.Errorf("%w: %d", ErrUserNotFound, userID)), nil
	}

	known, err := s.schedule.RidersByName(ctx, db, []string{sel.Rider450, sel.Rider250})
	if err != nil {
		return SubmitResult{}, err
	}
	byName := make(map[string]RiderRef, len(known))
	for _, r := range known {
		byName[r.Name] = r
	}

	chosen := make(map[sharedtypes.PickClass]RiderRef, len(sharedtypes.PickClasses))
	for _, class := range sharedtypes.PickClasses {
		name := sel.rider(class)
		rider, ok := byName[name]
		if !ok {
			return submitFailure(fmt.Errorf("%w: unknown rider %q", ErrValidation, name)), nil
		}
		eligible, err := s.schedule.EligibleRiders(ctx, db, class, round.SplitMode)
		if err != nil {
			return SubmitResult{}, err
		}
		if !containsRider(eligible, rider.ID) {
			return submitFailure(fmt.Errorf("%w: %s cannot be picked for %s at round %d", ErrEligibility, name, class, number)), nil
		}
		chosen[class] = rider
	}

	prior, err := s.priorPicks(ctx, db, userID, number)
	if err != nil {
		return SubmitResult{}, err
	}
	for _, class := range sharedtypes.PickClasses {
		rider := chosen[class]
		if hit, found := pickdomain.FindRepeat(prior, number, class, rider.ID); found {
			return submitFailure(&RepeatRuleViolationError{Class: class, Rider: rider.Name, ConflictRound: hit.Round}), nil
		}
	}

	picks := make([]pickdb.Pick, 0, len(sharedtypes.PickClasses))
	for _, class := range sharedtypes.PickClasses {
		picks = append(picks, pickdb.Pick{
			UserID:      userID,
			RoundNumber: number,
			Class:       class,
			RiderID:     chosen[class].ID,
			RiderName:   chosen[class].Name,
		})
	}
	if err := s.repo.ReplacePicks(ctx, db, userID, number, picks); err != nil {
		return SubmitResult{}, err
	}

	return results.SuccessResult[SubmitSummary, error](SubmitSummary{
		UserID: userID,
		Round:  number,
		Picks:  toExisting(picks),
	}), nil
}

// priorPicks loads the user's picks in the repeat window around round.
func (s *PickService) priorPicks(ctx context.Context, db bun.IDB, userID sharedtypes.UserID, round sharedtypes.RoundNumber) ([]pickdomain.PriorPick, error) {
	stored, err := s.repo.PicksInRounds(ctx, db, userID, pickdomain.WindowRounds(round))
	if err != nil {
		return nil, err
	}
	prior := make([]pickdomain.PriorPick, 0, len(stored))
	for _, p := range stored {
		prior = append(prior, pickdomain.PriorPick{Round: p.RoundNumber, Class: p.Class, RiderID: p.RiderID, Rider: p.RiderName})
	}
	return prior, nil
}

func containsRider(riders []RiderRef, id int64) bool {
	for _, r := range riders {
		if r.ID == id {
			return true
		}
	}
	return false
}

// GetExistingPicks returns the user's stored picks for a round, possibly none.
func (s *PickService) GetExistingPicks(ctx context.Context, userID sharedtypes.UserID, round sharedtypes.RoundNumber) ([]ExistingPick, error) {
	picks, err := s.repo.GetPicks(ctx, nil, userID, round)
	if err != nil {
		return nil, err
	}
	return toExisting(picks), nil
}
