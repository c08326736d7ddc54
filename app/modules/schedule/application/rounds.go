package scheduleservice

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	scheduledb "github.com/Black-And-White-Club/moto-pickem/app/modules/schedule/infrastructure/repositories"
	"github.com/Black-And-White-Club/moto-pickem/app/shared/attr"
	"github.com/Black-And-White-Club/moto-pickem/app/shared/results"
	sharedtypes "github.com/Black-And-White-Club/moto-pickem/app/shared/types"
	"github.com/uptrace/bun"
)

func validateRound(in RoundInput) error {
	switch {
	case in.Number <= 0:
		return fmt.Errorf("%w: round number must be positive", ErrInvalidRound)
	case in.RaceDate.IsZero():
		return fmt.Errorf("%w: race date is required", ErrInvalidRound)
	case strings.TrimSpace(in.Location) == "":
		return fmt.Errorf("%w: location is required", ErrInvalidRound)
	case !in.RaceType.Valid():
		return fmt.Errorf("%w: unknown race type %q", ErrInvalidRound, in.RaceType)
	case !in.SplitMode.Valid():
		return fmt.Errorf("%w: unknown split mode %q", ErrInvalidRound, in.SplitMode)
	}
	return nil
}

// UpsertRound creates or updates a round on the calendar.
func (s *ScheduleService) UpsertRound(ctx context.Context, in RoundInput) (RoundResult, error) {
	return withTelemetry(s, ctx, "UpsertRound", in.Number, func(ctx context.Context) (RoundResult, error) {
		if err := validateRound(in); err != nil {
			return results.FailureResult[RoundInfo, error](err), nil
		}
		y, m, d := in.RaceDate.Date()
		round := &scheduledb.Round{
			Number:    in.Number,
			RaceDate:  time.Date(y, m, d, 0, 0, 0, 0, time.UTC),
			Location:  strings.TrimSpace(in.Location),
			RaceType:  in.RaceType,
			SplitMode: in.SplitMode,
		}
		return runInTx(s, ctx, func(ctx context.Context, db bun.IDB) (RoundResult, error) {
			if err := s.repo.UpsertRound(ctx, db, round); err != nil {
				return RoundResult{}, err
			}
			return results.SuccessResult[RoundInfo, error](s.roundInfo(*round)), nil
		})
	})
}

// DeleteRound removes a round and, through cascades, its picks, results and
// cached leaderboard rows.
func (s *ScheduleService) DeleteRound(ctx context.Context, number sharedtypes.RoundNumber) (DeleteResult, error) {
	return withTelemetry(s, ctx, "DeleteRound", number, func(ctx context.Context) (DeleteResult, error) {
		return runInTx(s, ctx, func(ctx context.Context, db bun.IDB) (DeleteResult, error) {
			err := s.repo.DeleteRound(ctx, db, number)
			if errors.Is(err, scheduledb.ErrNotFound) {
				return results.FailureResult[sharedtypes.RoundNumber, error](ErrRoundNotFound), nil
			}
			if err != nil {
				return DeleteResult{}, err
			}
			s.logger.InfoContext(ctx, "Round deleted", attr.RoundNumber("round", number))
			return results.SuccessResult[sharedtypes.RoundNumber, error](number), nil
		})
	})
}

// GetRound returns ErrRoundNotFound for unknown numbers.
func (s *ScheduleService) GetRound(ctx context.Context, number sharedtypes.RoundNumber) (*RoundInfo, error) {
	r, err := s.repo.GetRound(ctx, nil, number)
	if err != nil {
		if errors.Is(err, scheduledb.ErrNotFound) {
			return nil, ErrRoundNotFound
		}
		return nil, err
	}
	info := s.roundInfo(*r)
	return &info, nil
}

func (s *ScheduleService) ListRounds(ctx context.Context) ([]RoundInfo, error) {
	rounds, err := s.repo.ListRounds(ctx, nil)
	if err != nil {
		return nil, err
	}
	out := make([]RoundInfo, 0, len(rounds))
	for _, r := range rounds {
		out = append(out, s.roundInfo(r))
	}
	return out, nil
}

// LockedRounds returns rounds whose deadline has passed, in number order.
func (s *ScheduleService) LockedRounds(ctx context.Context) ([]RoundInfo, error) {
	all, err := s.ListRounds(ctx)
	if err != nil {
		return nil, err
	}
	locked := all[:0]
	for _, r := range all {
		if r.Locked {
			locked = append(locked, r)
		}
	}
	return locked, nil
}

// Deadline returns the pick deadline for a round. An unknown round has no
// deadline and reports ok=false.
func (s *ScheduleService) Deadline(ctx context.Context, number sharedtypes.RoundNumber) (time.Time, bool, error) {
	r, err := s.repo.GetRound(ctx, nil, number)
	if err != nil {
		if errors.Is(err, scheduledb.ErrNotFound) {
			return time.Time{}, false, nil
		}
		return time.Time{}, false, err
	}
	return s.resolver.Deadline(r.RaceDate, r.Location), true, nil
}
