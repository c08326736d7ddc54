package leaderboardservice

import (
	"context"
	"errors"
	"fmt"
	"time"

	leaderboarddb "github.com/Black-And-White-Club/moto-pickem/app/modules/leaderboard/infrastructure/repositories"
	"github.com/Black-And-White-Club/moto-pickem/app/shared/attr"
	"github.com/Black-And-White-Club/moto-pickem/app/shared/results"
	sharedtypes "github.com/Black-And-White-Club/moto-pickem/app/shared/types"
	"github.com/uptrace/bun"
)

func validView(view sharedtypes.ViewType) bool {
	for _, v := range sharedtypes.ViewTypes {
		if v == view {
			return true
		}
	}
	return false
}

// GetLeaderboard serves a view from the cache tables only.
func (s *LeaderboardService) GetLeaderboard(ctx context.Context, view sharedtypes.ViewType) (LeaderboardResult, error) {
	return withTelemetry(s, ctx, "GetLeaderboard", string(view), func(ctx context.Context) (LeaderboardResult, error) {
		if !validView(view) {
			return results.FailureResult[LeaderboardView, error](fmt.Errorf("%w: %q", ErrInvalidView, view)), nil
		}

		if s.cache != nil {
			cached, err := s.cache.Get(ctx, view)
			if err != nil {
				s.logger.WarnContext(ctx, "Leaderboard cache read failed", attr.Error(err))
			}
			s.metrics.RecordCacheLookup(ctx, cached != nil)
			if cached != nil {
				return results.SuccessResult[LeaderboardView, error](*cached), nil
			}
		}

		result, err := runInTx(s, ctx, readSnapshot, func(ctx context.Context, db bun.IDB) (LeaderboardResult, error) {
			lv, err := s.readView(ctx, db, view)
			if err != nil {
				return LeaderboardResult{}, err
			}
			return results.SuccessResult[LeaderboardView, error](lv), nil
		})
		if err != nil {
			return result, err
		}

		if s.cache != nil && result.Success != nil && result.Success.Built {
			if err := s.cache.Set(ctx, view, result.Success); err != nil {
				s.logger.WarnContext(ctx, "Leaderboard cache write failed", attr.Error(err))
			}
		}
		return result, nil
	})
}

func (s *LeaderboardService) readView(ctx context.Context, db bun.IDB, view sharedtypes.ViewType) (LeaderboardView, error) {
	lv := LeaderboardView{View: view, Rounds: []RoundColumn{}, Standings: []StandingRow{}}

	last, err := s.repo.GetTime(ctx, db, leaderboarddb.MetaLastRecalculated)
	if errors.Is(err, leaderboarddb.ErrMetaNotFound) {
		return lv, nil
	}
	if err != nil {
		return lv, err
	}
	lv.Built = true
	lv.LastRecalculated = &last

	changed, err := s.repo.GetTime(ctx, db, leaderboarddb.MetaLastDataChange)
	switch {
	case err == nil:
		lv.Stale = changed.After(last)
	case !errors.Is(err, leaderboarddb.ErrMetaNotFound):
		return lv, err
	}

	var raceType sharedtypes.RaceType
	if view != sharedtypes.ViewOverall {
		raceType = sharedtypes.RaceType(view)
	}
	rounds, err := s.repo.GetRounds(ctx, db, raceType)
	if err != nil {
		return lv, err
	}
	numbers := make([]sharedtypes.RoundNumber, 0, len(rounds))
	for _, r := range rounds {
		numbers = append(numbers, r.RoundNumber)
		lv.Rounds = append(lv.Rounds, RoundColumn{
			Round:    r.RoundNumber,
			RaceType: r.RaceType,
			RaceDate: r.RaceDate,
			Location: r.Location,
		})
	}

	totals, err := s.repo.GetTotals(ctx, db, view)
	if err != nil {
		return lv, err
	}
	snaps, err := s.repo.GetSnapshots(ctx, db, numbers)
	if err != nil {
		return lv, err
	}

	cells := make(map[sharedtypes.UserID]map[sharedtypes.RoundNumber][]PickCell, len(totals))
	for _, sn := range snaps {
		if cells[sn.UserID] == nil {
			cells[sn.UserID] = map[sharedtypes.RoundNumber][]PickCell{}
		}
		cells[sn.UserID][sn.RoundNumber] = append(cells[sn.UserID][sn.RoundNumber], PickCell{
			Class:      sn.Class,
			Rider:      sn.RiderName,
			Initials:   sn.Initials,
			Points:     sn.Points,
			Pending:    sn.Points == nil,
			AutoRandom: sn.AutoRandom,
		})
	}

	for _, t := range totals {
		row := StandingRow{
			Rank:     t.Rank,
			UserID:   t.UserID,
			Username: t.Username,
			Total:    t.TotalPoints,
			Rounds:   make([]RoundPicks, 0, len(numbers)),
		}
		for _, n := range numbers {
			row.Rounds = append(row.Rounds, RoundPicks{Round: n, Picks: cells[t.UserID][n]})
		}
		lv.Standings = append(lv.Standings, row)
	}
	return lv, nil
}

// GetLastRecalculated returns nil before the first rebuild.
func (s *LeaderboardService) GetLastRecalculated(ctx context.Context) (*time.Time, error) {
	at, err := s.repo.GetTime(ctx, nil, leaderboarddb.MetaLastRecalculated)
	if errors.Is(err, leaderboarddb.ErrMetaNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &at, nil
}

// MarkStale records that scoring inputs changed at at. An earlier at than
// the one already recorded leaves the marker alone.
func (s *LeaderboardService) MarkStale(ctx context.Context, at time.Time) error {
	if err := s.repo.AdvanceTime(ctx, nil, leaderboarddb.MetaLastDataChange, at); err != nil {
		return err
	}
	s.invalidateCache(ctx)
	return nil
}

// StandingsProgression derives cumulative totals per round for the top
// users of a view. top <= 0 means everyone.
func (s *LeaderboardService) StandingsProgression(ctx context.Context, view sharedtypes.ViewType, top int) (Progression, error) {
	res, err := s.GetLeaderboard(ctx, view)
	if err != nil {
		return Progression{}, err
	}
	if res.IsFailure() {
		return Progression{}, *res.Failure
	}
	lv := *res.Success

	p := Progression{View: view, Rounds: make([]sharedtypes.RoundNumber, 0, len(lv.Rounds))}
	for _, r := range lv.Rounds {
		p.Rounds = append(p.Rounds, r.Round)
	}
	for i, row := range lv.Standings {
		if top > 0 && i >= top {
			break
		}
		series := ProgressionSeries{Username: row.Username, Cumulative: make([]int, 0, len(row.Rounds))}
		running := 0
		for _, rp := range row.Rounds {
			for _, c := range rp.Picks {
				if c.Points != nil {
					running += *c.Points
				}
			}
			series.Cumulative = append(series.Cumulative, running)
		}
		p.Series = append(p.Series, series)
	}
	return p, nil
}
