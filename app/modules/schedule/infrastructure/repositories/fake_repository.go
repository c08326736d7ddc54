package scheduledb

import (
	"context"

	sharedtypes "github.com/Black-And-White-Club/moto-pickem/app/shared/types"
	"github.com/uptrace/bun"
)

// FakeRepository is a fake implementation of Repository for testing.
// Unset functions return zero values.
type FakeRepository struct {
	UpsertRoundFn      func(ctx context.Context, db bun.IDB, round *Round) error
	DeleteRoundFn      func(ctx context.Context, db bun.IDB, number sharedtypes.RoundNumber) error
	GetRoundFn         func(ctx context.Context, db bun.IDB, number sharedtypes.RoundNumber) (*Round, error)
	ListRoundsFn       func(ctx context.Context, db bun.IDB) ([]Round, error)
	UpsertRiderFn      func(ctx context.Context, db bun.IDB, rider *Rider) error
	SetRiderActiveFn   func(ctx context.Context, db bun.IDB, name string, active bool) error
	GetRiderByNameFn   func(ctx context.Context, db bun.IDB, name string) (*Rider, error)
	GetRidersByNamesFn func(ctx context.Context, db bun.IDB, names []string) ([]Rider, error)
	ListRidersFn       func(ctx context.Context, db bun.IDB, classes []sharedtypes.RiderClass, activeOnly bool) ([]Rider, error)
}

var _ Repository = (*FakeRepository)(nil)

func (f *FakeRepository) UpsertRound(ctx context.Context, db bun.IDB, round *Round) error {
	if f.UpsertRoundFn != nil {
		return f.UpsertRoundFn(ctx, db, round)
	}
	return nil
}

func (f *FakeRepository) DeleteRound(ctx context.Context, db bun.IDB, number sharedtypes.RoundNumber) error {
	if f.DeleteRoundFn != nil {
		return f.DeleteRoundFn(ctx, db, number)
	}
	return nil
}

func (f *FakeRepository) GetRound(ctx context.Context, db bun.IDB, number sharedtypes.RoundNumber) (*Round, error) {
	if f.GetRoundFn != nil {
		return f.GetRoundFn(ctx, db, number)
	}
	return nil, ErrNotFound
}

func (f *FakeRepository) ListRounds(ctx context.Context, db bun.IDB) ([]Round, error) {
	if f.ListRoundsFn != nil {
		return f.ListRoundsFn(ctx, db)
	}
	return nil, nil
}

func (f *FakeRepository) UpsertRider(ctx context.Context, db bun.IDB, rider *Rider) error {
	if f.UpsertRiderFn != nil {
		return f.UpsertRiderFn(ctx, db, rider)
	}
	return nil
}

func (f *FakeRepository) SetRiderActive(ctx context.Context, db bun.IDB, name string, active bool) error {
	if f.SetRiderActiveFn != nil {
		return f.SetRiderActiveFn(ctx, db, name, active)
	}
	return nil
}

func (f *FakeRepository) GetRiderByName(ctx context.Context, db bun.IDB, name string) (*Rider, error) {
	if f.GetRiderByNameFn != nil {
		return f.GetRiderByNameFn(ctx, db, name)
	}
	return nil, ErrNotFound
}

func (f *FakeRepository) GetRidersByNames(ctx context.Context, db bun.IDB, names []string) ([]Rider, error) {
	if f.GetRidersByNamesFn != nil {
		return f.GetRidersByNamesFn(ctx, db, names)
	}
	return nil, nil
}

func (f *FakeRepository) ListRiders(ctx context.Context, db bun.IDB, classes []sharedtypes.RiderClass, activeOnly bool) ([]Rider, error) {
	if f.ListRidersFn != nil {
		return f.ListRidersFn(ctx, db, classes, activeOnly)
	}
	return nil, nil
}
