package adapters

import (
	"context"
	"slices"

	leaderboardservice "github.com/Black-And-White-Club/moto-pickem/app/modules/leaderboard/application"
	leaderboarddomain "github.com/Black-And-White-Club/moto-pickem/app/modules/leaderboard/domain"
	pickdb "github.com/Black-And-White-Club/moto-pickem/app/modules/pick/infrastructure/repositories"
	resultdb "github.com/Black-And-White-Club/moto-pickem/app/modules/result/infrastructure/repositories"
	scheduledb "github.com/Black-And-White-Club/moto-pickem/app/modules/schedule/infrastructure/repositories"
	userdb "github.com/Black-And-White-Club/moto-pickem/app/modules/user/infrastructure/repositories"
	sharedtypes "github.com/Black-And-White-Club/moto-pickem/app/shared/types"
	"github.com/uptrace/bun"
)

// ScheduleReaderAdapter exposes the calendar to the leaderboard.
type ScheduleReaderAdapter struct {
	repo scheduledb.Repository
}

func NewScheduleReaderAdapter(repo scheduledb.Repository) *ScheduleReaderAdapter {
	return &ScheduleReaderAdapter{repo: repo}
}

func (a *ScheduleReaderAdapter) ListRounds(ctx context.Context, db bun.IDB) ([]leaderboardservice.RoundRef, error) {
	rounds, err := a.repo.ListRounds(ctx, db)
	if err != nil {
		return nil, err
	}
	out := make([]leaderboardservice.RoundRef, 0, len(rounds))
	for _, r := range rounds {
		out = append(out, leaderboardservice.RoundRef{
			Number:   r.Number,
			RaceDate: r.RaceDate,
			Location: r.Location,
			RaceType: r.RaceType,
		})
	}
	return out, nil
}

// PickReaderAdapter loads stored picks with rider names.
type PickReaderAdapter struct {
	repo pickdb.Repository
}

func NewPickReaderAdapter(repo pickdb.Repository) *PickReaderAdapter {
	return &PickReaderAdapter{repo: repo}
}

func (a *PickReaderAdapter) PicksForRounds(ctx context.Context, db bun.IDB, rounds []sharedtypes.RoundNumber) ([]leaderboarddomain.Pick, error) {
	rows, err := a.repo.PicksForRounds(ctx, db, rounds)
	if err != nil {
		return nil, err
	}
	out := make([]leaderboarddomain.Pick, 0, len(rows))
	for _, p := range rows {
		out = append(out, leaderboarddomain.Pick{
			UserID:     p.UserID,
			Round:      p.RoundNumber,
			Class:      p.Class,
			RiderID:    p.RiderID,
			Rider:      p.RiderName,
			AutoRandom: p.AutoRandom,
		})
	}
	return out, nil
}

// ResultReaderAdapter reads finishes through the result history query,
// keeping only the requested rounds.
type ResultReaderAdapter struct {
	repo resultdb.Repository
}

func NewResultReaderAdapter(repo resultdb.Repository) *ResultReaderAdapter {
	return &ResultReaderAdapter{repo: repo}
}

func (a *ResultReaderAdapter) FinishesForRounds(ctx context.Context, db bun.IDB, rounds []sharedtypes.RoundNumber) ([]leaderboarddomain.Finish, error) {
	if len(rounds) == 0 {
		return nil, nil
	}
	latest := slices.Max(rounds)
	rows, err := a.repo.HistoryBefore(ctx, db, latest+1)
	if err != nil {
		return nil, err
	}
	var out []leaderboarddomain.Finish
	for _, r := range rows {
		if !slices.Contains(rounds, r.RoundNumber) {
			continue
		}
		out = append(out, leaderboarddomain.Finish{
			Round:    r.RoundNumber,
			Class:    r.Class,
			RiderID:  r.RiderID,
			Position: r.Position,
		})
	}
	return out, nil
}

// MemberDirectoryAdapter lists registered users.
type MemberDirectoryAdapter struct {
	repo userdb.Repository
}

func NewMemberDirectoryAdapter(repo userdb.Repository) *MemberDirectoryAdapter {
	return &MemberDirectoryAdapter{repo: repo}
}

func (a *MemberDirectoryAdapter) ListMembers(ctx context.Context, db bun.IDB) ([]leaderboarddomain.Member, error) {
	users, err := a.repo.ListUsers(ctx, db)
	if err != nil {
		return nil, err
	}
	out := make([]leaderboarddomain.Member, 0, len(users))
	for _, u := range users {
		out = append(out, leaderboarddomain.Member{ID: u.ID, Username: u.Username})
	}
	return out, nil
}
