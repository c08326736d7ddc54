package resultdb

import (
	"context"

	sharedtypes "github.com/Black-And-White-Club/moto-pickem/app/shared/types"
	"github.com/uptrace/bun"
)

// FakeRepository is a fake implementation of Repository for testing.
type FakeRepository struct {
	GetResultsFn          func(ctx context.Context, db bun.IDB, round sharedtypes.RoundNumber, class sharedtypes.PickClass) ([]Result, error)
	UpsertResultsFn       func(ctx context.Context, db bun.IDB, rows []Result) error
	DeleteResultsExceptFn func(ctx context.Context, db bun.IDB, round sharedtypes.RoundNumber, class sharedtypes.PickClass, keep []int64) (int, error)
	HistoryBeforeFn       func(ctx context.Context, db bun.IDB, round sharedtypes.RoundNumber) ([]HistoricalResult, error)
}

var _ Repository = (*FakeRepository)(nil)

func (f *FakeRepository) GetResults(ctx context.Context, db bun.IDB, round sharedtypes.RoundNumber, class sharedtypes.PickClass) ([]Result, error) {
	if f.GetResultsFn != nil {
		return f.GetResultsFn(ctx, db, round, class)
	}
	return nil, nil
}

func (f *FakeRepository) UpsertResults(ctx context.Context, db bun.IDB, rows []Result) error {
	if f.UpsertResultsFn != nil {
		return f.UpsertResultsFn(ctx, db, rows)
	}
	return nil
}

func (f *FakeRepository) DeleteResultsExcept(ctx context.Context, db bun.IDB, round sharedtypes.RoundNumber, class sharedtypes.PickClass, keep []int64) (int, error) {
	if f.DeleteResultsExceptFn != nil {
		return f.DeleteResultsExceptFn(ctx, db, round, class, keep)
	}
	return 0, nil
}

func (f *FakeRepository) HistoryBefore(ctx context.Context, db bun.IDB, round sharedtypes.RoundNumber) ([]HistoricalResult, error) {
	if f.HistoryBeforeFn != nil {
		return f.HistoryBeforeFn(ctx, db, round)
	}
	return nil, nil
}
