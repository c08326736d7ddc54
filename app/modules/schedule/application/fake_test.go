package scheduleservice

import (
	"context"

	scheduledb "github.com/Black-And-White-Club/moto-pickem/app/modules/schedule/infrastructure/repositories"
	sharedtypes "github.com/Black-And-White-Club/moto-pickem/app/shared/types"
	"github.com/uptrace/bun"
)

// FakeScheduleRepository is an in-memory scheduledb.Repository that records
// every call.
type FakeScheduleRepository struct {
	trace  []string
	rounds map[sharedtypes.RoundNumber]scheduledb.Round
	riders map[string]scheduledb.Rider
	nextID int64

	UpsertRoundFunc func(ctx context.Context, db bun.IDB, round *scheduledb.Round) error
	ListRoundsFunc  func(ctx context.Context, db bun.IDB) ([]scheduledb.Round, error)
}

func NewFakeScheduleRepository() *FakeScheduleRepository {
	return &FakeScheduleRepository{
		trace:  []string{},
		rounds: map[sharedtypes.RoundNumber]scheduledb.Round{},
		riders: map[string]scheduledb.Rider{},
	}
}

func (f *FakeScheduleRepository) Trace() []string {
	out := make([]string, len(f.trace))
	copy(out, f.trace)
	return out
}

func (f *FakeScheduleRepository) record(step string) {
	f.trace = append(f.trace, step)
}

func (f *FakeScheduleRepository) UpsertRound(ctx context.Context, db bun.IDB, round *scheduledb.Round) error {
	f.record("UpsertRound")
	if f.UpsertRoundFunc != nil {
		return f.UpsertRoundFunc(ctx, db, round)
	}
	f.rounds[round.Number] = *round
	return nil
}

func (f *FakeScheduleRepository) DeleteRound(ctx context.Context, db bun.IDB, number sharedtypes.RoundNumber) error {
	f.record("DeleteRound")
	if _, ok := f.rounds[number]; !ok {
		return scheduledb.ErrNotFound
	}
	delete(f.rounds, number)
	return nil
}

func (f *FakeScheduleRepository) GetRound(ctx context.Context, db bun.IDB, number sharedtypes.RoundNumber) (*scheduledb.Round, error) {
	f.record("GetRound")
	r, ok := f.rounds[number]
	if !ok {
		return nil, scheduledb.ErrNotFound
	}
	return &r, nil
}

func (f *FakeScheduleRepository) ListRounds(ctx context.Context, db bun.IDB) ([]scheduledb.Round, error) {
	f.record("ListRounds")
	if f.ListRoundsFunc != nil {
		return f.ListRoundsFunc(ctx, db)
	}
	out := make([]scheduledb.Round, 0, len(f.rounds))
	for n := sharedtypes.RoundNumber(1); len(out) < len(f.rounds); n++ {
		if r, ok := f.rounds[n]; ok {
			out = append(out, r)
		}
	}
	return out, nil
}

func (f *FakeScheduleRepository) UpsertRider(ctx context.Context, db bun.IDB, rider *scheduledb.Rider) error {
	f.record("UpsertRider")
	if existing, ok := f.riders[rider.Name]; ok {
		rider.ID = existing.ID
	} else {
		f.nextID++
		rider.ID = f.nextID
	}
	f.riders[rider.Name] = *rider
	return nil
}

func (f *FakeScheduleRepository) SetRiderActive(ctx context.Context, db bun.IDB, name string, active bool) error {
	f.record("SetRiderActive")
	r, ok := f.riders[name]
	if !ok {
		return scheduledb.ErrNotFound
	}
	r.Active = active
	f.riders[name] = r
	return nil
}

func (f *FakeScheduleRepository) GetRiderByName(ctx context.Context, db bun.IDB, name string) (*scheduledb.Rider, error) {
	f.record("GetRiderByName")
	r, ok := f.riders[name]
	if !ok {
		return nil, scheduledb.ErrNotFound
	}
	return &r, nil
}

func (f *FakeScheduleRepository) GetRidersByNames(ctx context.Context, db bun.IDB, names []string) ([]scheduledb.Rider, error) {
	f.record("GetRidersByNames")
	var out []scheduledb.Rider
	for _, n := range names {
		if r, ok := f.riders[n]; ok {
			out = append(out, r)
		}
	}
	return out, nil
}

func (f *FakeScheduleRepository) ListRiders(ctx context.Context, db bun.IDB, classes []sharedtypes.RiderClass, activeOnly bool) ([]scheduledb.Rider, error) {
	f.record("ListRiders")
	want := map[sharedtypes.RiderClass]bool{}
	for _, c := range classes {
		want[c] = true
	}
	var out []scheduledb.Rider
	for _, r := range f.riders {
		if len(want) > 0 && !want[r.Class] {
			continue
		}
		if activeOnly && !r.Active {
			continue
		}
		out = append(out, r)
	}
	sortRiders(out)
	return out, nil
}

func sortRiders(rs []scheduledb.Rider) {
	for i := 1; i < len(rs); i++ {
		for j := i; j > 0 && rs[j].Name < rs[j-1].Name; j-- {
			rs[j], rs[j-1] = rs[j-1], rs[j]
		}
	}
}

var _ scheduledb.Repository = (*FakeScheduleRepository)(nil)
