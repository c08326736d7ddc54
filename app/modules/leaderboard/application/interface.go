package leaderboardservice

import (
	"context"
	"time"

	sharedtypes "github.com/Black-And-White-Club/moto-pickem/app/shared/types"
)

// Service rebuilds and serves the cached leaderboard.
type Service interface {
	TriggerRecalculation(ctx context.Context) (RecalcResult, error)
	GetLeaderboard(ctx context.Context, view sharedtypes.ViewType) (LeaderboardResult, error)
	GetLastRecalculated(ctx context.Context) (*time.Time, error)
	MarkStale(ctx context.Context, at time.Time) error
	StandingsProgression(ctx context.Context, view sharedtypes.ViewType, top int) (Progression, error)
}

var _ Service = (*LeaderboardService)(nil)
