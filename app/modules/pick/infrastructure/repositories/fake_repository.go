package pickdb

import (
	"context"

	sharedtypes "github.com/Black-And-White-Club/moto-pickem/app/shared/types"
	"github.com/uptrace/bun"
)

// FakeRepository is a fake implementation of Repository for testing.
type FakeRepository struct {
	GetPicksFn       func(ctx context.Context, db bun.IDB, userID sharedtypes.UserID, round sharedtypes.RoundNumber) ([]Pick, error)
	PicksInRoundsFn  func(ctx context.Context, db bun.IDB, userID sharedtypes.UserID, rounds []sharedtypes.RoundNumber) ([]Pick, error)
	PicksForRoundsFn func(ctx context.Context, db bun.IDB, rounds []sharedtypes.RoundNumber) ([]Pick, error)
	RoundPicksFn     func(ctx context.Context, db bun.IDB, round sharedtypes.RoundNumber) ([]Pick, error)
	ReplacePicksFn   func(ctx context.Context, db bun.IDB, userID sharedtypes.UserID, round sharedtypes.RoundNumber, picks []Pick) error
	InsertPickFn     func(ctx context.Context, db bun.IDB, pick *Pick) error
}

var _ Repository = (*FakeRepository)(nil)

func (f *FakeRepository) GetPicks(ctx context.Context, db bun.IDB, userID sharedtypes.UserID, round sharedtypes.RoundNumber) ([]Pick, error) {
	if f.GetPicksFn != nil {
		return f.GetPicksFn(ctx, db, userID, round)
	}
	return nil, nil
}

func (f *FakeRepository) PicksInRounds(ctx context.Context, db bun.IDB, userID sharedtypes.UserID, rounds []sharedtypes.RoundNumber) ([]Pick, error) {
	if f.PicksInRoundsFn != nil {
		return f.PicksInRoundsFn(ctx, db, userID, rounds)
	}
	return nil, nil
}

func (f *FakeRepository) PicksForRounds(ctx context.Context, db bun.IDB, rounds []sharedtypes.RoundNumber) ([]Pick, error) {
	if f.PicksForRoundsFn != nil {
		return f.PicksForRoundsFn(ctx, db, rounds)
	}
	return nil, nil
}

func (f *FakeRepository) RoundPicks(ctx context.Context, db bun.IDB, round sharedtypes.RoundNumber) ([]Pick, error) {
	if f.RoundPicksFn != nil {
		return f.RoundPicksFn(ctx, db, round)
	}
	return nil, nil
}

func (f *FakeRepository) ReplacePicks(ctx context.Context, db bun.IDB, userID sharedtypes.UserID, round sharedtypes.RoundNumber, picks []Pick) error {
	if f.ReplacePicksFn != nil {
		return f.ReplacePicksFn(ctx, db, userID, round, picks)
	}
	return nil
}

func (f *FakeRepository) InsertPick(ctx context.Context, db bun.IDB, pick *Pick) error {
	if f.InsertPickFn != nil {
		return f.InsertPickFn(ctx, db, pick)
	}
	return nil
}
