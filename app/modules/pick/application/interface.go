package pickservice

import (
	"context"

	sharedtypes "github.com/Black-And-White-Club/moto-pickem/app/shared/types"
)

// Service validates and stores picks and backfills missed ones.
type Service interface {
	SubmitPick(ctx context.Context, userID sharedtypes.UserID, round sharedtypes.RoundNumber, sel Selection) (SubmitResult, error)
	GetExistingPicks(ctx context.Context, userID sharedtypes.UserID, round sharedtypes.RoundNumber) ([]ExistingPick, error)
	GetRoundView(ctx context.Context, userID sharedtypes.UserID, round sharedtypes.RoundNumber) (RoundViewResult, error)
	RunAutoPickSweep(ctx context.Context, round sharedtypes.RoundNumber) (SweepResult, error)
	SweepLockedRounds(ctx context.Context) ([]SweepSummary, error)
	UpcomingDeadlines(ctx context.Context) ([]RoundDeadline, error)
}

var _ Service = (*PickService)(nil)
