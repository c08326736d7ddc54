package leaderboarddb

import (
	"context"
	"time"

	sharedtypes "github.com/Black-And-White-Club/moto-pickem/app/shared/types"
	"github.com/uptrace/bun"
)

// FakeRepository is a fake implementation of Repository for testing.
type FakeRepository struct {
	ReplaceCacheFn func(ctx context.Context, db bun.IDB, rounds []VisibleRound, snapshots []PickSnapshot, totals []Total) error
	GetTotalsFn    func(ctx context.Context, db bun.IDB, view sharedtypes.ViewType) ([]Total, error)
	GetSnapshotsFn func(ctx context.Context, db bun.IDB, rounds []sharedtypes.RoundNumber) ([]PickSnapshot, error)
	GetRoundsFn    func(ctx context.Context, db bun.IDB, raceType sharedtypes.RaceType) ([]VisibleRound, error)
	SetTimeFn      func(ctx context.Context, db bun.IDB, key string, at time.Time) error
	GetTimeFn      func(ctx context.Context, db bun.IDB, key string) (time.Time, error)
	AdvanceTimeFn  func(ctx context.Context, db bun.IDB, key string, at time.Time) error
}

var _ Repository = (*FakeRepository)(nil)

func (f *FakeRepository) ReplaceCache(ctx context.Context, db bun.IDB, rounds []VisibleRound, snapshots []PickSnapshot, totals []Total) error {
	if f.ReplaceCacheFn != nil {
		return f.ReplaceCacheFn(ctx, db, rounds, snapshots, totals)
	}
	return nil
}

func (f *FakeRepository) GetTotals(ctx context.Context, db bun.IDB, view sharedtypes.ViewType) ([]Total, error) {
	if f.GetTotalsFn != nil {
		return f.GetTotalsFn(ctx, db, view)
	}
	return nil, nil
}

func (f *FakeRepository) GetSnapshots(ctx context.Context, db bun.IDB, rounds []sharedtypes.RoundNumber) ([]PickSnapshot, error) {
	if f.GetSnapshotsFn != nil {
		return f.GetSnapshotsFn(ctx, db, rounds)
	}
	return nil, nil
}

func (f *FakeRepository) GetRounds(ctx context.Context, db bun.IDB, raceType sharedtypes.RaceType) ([]VisibleRound, error) {
	if f.GetRoundsFn != nil {
		return f.GetRoundsFn(ctx, db, raceType)
	}
	return nil, nil
}

func (f *FakeRepository) SetTime(ctx context.Context, db bun.IDB, key string, at time.Time) error {
	if f.SetTimeFn != nil {
		return f.SetTimeFn(ctx, db, key, at)
	}
	return nil
}

func (f *FakeRepository) AdvanceTime(ctx context.Context, db bun.IDB, key string, at time.Time) error {
	if f.AdvanceTimeFn != nil {
		return f.AdvanceTimeFn(ctx, db, key, at)
	}
	return nil
}

func (f *FakeRepository) GetTime(ctx context.Context, db bun.IDB, key string) (time.Time, error) {
	if f.GetTimeFn != nil {
		return f.GetTimeFn(ctx, db, key)
	}
	return time.Time{}, ErrMetaNotFound
}
