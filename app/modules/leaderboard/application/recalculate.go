package leaderboardservice

import (
	"context"
	"database/sql"

	"github.com/Black-And-White-Club/moto-pickem/app/eventbus"
	leaderboarddomain "github.com/Black-And-White-Club/moto-pickem/app/modules/leaderboard/domain"
	leaderboarddb "github.com/Black-And-White-Club/moto-pickem/app/modules/leaderboard/infrastructure/repositories"
	"github.com/Black-And-White-Club/moto-pickem/app/shared/attr"
	"github.com/Black-And-White-Club/moto-pickem/app/shared/results"
	sharedtypes "github.com/Black-And-White-Club/moto-pickem/app/shared/types"
	"github.com/uptrace/bun"
)

// TriggerRecalculation clears and rebuilds every cache table in one
// transaction. Only rounds whose deadline has passed are included.
func (s *LeaderboardService) TriggerRecalculation(ctx context.Context) (RecalcResult, error) {
	result, err := withTelemetry(s, ctx, "TriggerRecalculation", string(sharedtypes.ViewOverall), func(ctx context.Context) (RecalcResult, error) {
		return runInTx(s, ctx, &sql.TxOptions{}, s.recalculate)
	})
	if err == nil && result.IsSuccess() {
		s.invalidateCache(ctx)
		sum := *result.Success
		if pubErr := eventbus.PublishEvent(ctx, s.eventBus, eventbus.TopicLeaderboardRecalculated, eventbus.LeaderboardRecalculated{
			VisibleRounds: sum.VisibleRounds,
			Users:         sum.Users,
			At:            sum.At,
		}); pubErr != nil {
			s.logger.WarnContext(ctx, "Failed to publish recalculation event", attr.Error(pubErr))
		}
	}
	return result, err
}

func (s *LeaderboardService) recalculate(ctx context.Context, db bun.IDB) (RecalcResult, error) {
	now := s.clock.Now()

	calendar, err := s.schedule.ListRounds(ctx, db)
	if err != nil {
		return RecalcResult{}, err
	}
	var (
		visible []leaderboarddomain.Round
		numbers []sharedtypes.RoundNumber
	)
	for _, r := range calendar {
		if !s.resolver.IsLocked(r.RaceDate, r.Location, now) {
			continue
		}
		visible = append(visible, leaderboarddomain.Round{
			Number:   r.Number,
			RaceType: r.RaceType,
			RaceDate: r.RaceDate,
			Location: r.Location,
		})
		numbers = append(numbers, r.Number)
	}

	members, err := s.members.ListMembers(ctx, db)
	if err != nil {
		return RecalcResult{}, err
	}
	picks, err := s.picks.PicksForRounds(ctx, db, numbers)
	if err != nil {
		return RecalcResult{}, err
	}
	finishes, err := s.finishes.FinishesForRounds(ctx, db, numbers)
	if err != nil {
		return RecalcResult{}, err
	}

	standings := leaderboarddomain.Build(leaderboarddomain.Input{
		Members:  members,
		Rounds:   visible,
		Picks:    picks,
		Finishes: finishes,
	}, s.table)

	rounds, snapshots, totals := toRows(standings)
	if err := s.repo.ReplaceCache(ctx, db, rounds, snapshots, totals); err != nil {
		return RecalcResult{}, err
	}
	if err := s.repo.SetTime(ctx, db, leaderboarddb.MetaLastRecalculated, now); err != nil {
		return RecalcResult{}, err
	}

	s.logger.InfoContext(ctx, "Leaderboard rebuilt",
		attr.Int("visible_rounds", len(rounds)),
		attr.Int("users", len(members)),
		attr.Int("snapshots", len(snapshots)),
	)
	return results.SuccessResult[RecalcSummary, error](RecalcSummary{
		At:            now,
		VisibleRounds: len(rounds),
		Users:         len(members),
		Snapshots:     len(snapshots),
	}), nil
}

func toRows(st leaderboarddomain.Standings) ([]leaderboarddb.VisibleRound, []leaderboarddb.PickSnapshot, []leaderboarddb.Total) {
	rounds := make([]leaderboarddb.VisibleRound, 0, len(st.Rounds))
	for _, r := range st.Rounds {
		rounds = append(rounds, leaderboarddb.VisibleRound{
			RoundNumber: r.Number,
			RaceType:    r.RaceType,
			RaceDate:    r.RaceDate,
			Location:    r.Location,
		})
	}
	snapshots := make([]leaderboarddb.PickSnapshot, 0, len(st.Snapshots))
	for _, sn := range st.Snapshots {
		snapshots = append(snapshots, leaderboarddb.PickSnapshot{
			UserID:      sn.UserID,
			RoundNumber: sn.Round,
			Class:       sn.Class,
			RiderName:   sn.Rider,
			Initials:    sn.Initials,
			Points:      sn.Points,
			AutoRandom:  sn.AutoRandom,
		})
	}
	totals := make([]leaderboarddb.Total, 0, len(st.Totals))
	for _, t := range st.Totals {
		totals = append(totals, leaderboarddb.Total{
			UserID:      t.UserID,
			ViewType:    t.View,
			TotalPoints: t.Points,
			Rank:        t.Rank,
			Username:    t.Username,
		})
	}
	return rounds, snapshots, totals
}
