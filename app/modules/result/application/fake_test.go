package resultservice

import (
	"context"
	"sort"

	resultdb "github.com/Black-And-White-Club/moto-pickem/app/modules/result/infrastructure/repositories"
	sharedtypes "github.com/Black-And-White-Club/moto-pickem/app/shared/types"
	"github.com/uptrace/bun"
)

type resultKey struct {
	round sharedtypes.RoundNumber
	class sharedtypes.PickClass
	rider int64
}

// FakeResultRepository is an in-memory resultdb.Repository.
type FakeResultRepository struct {
	trace []string
	rows  map[resultKey]resultdb.Result
	names map[int64]string

	UpsertResultsFunc func(ctx context.Context, db bun.IDB, rows []resultdb.Result) error
}

func NewFakeResultRepository() *FakeResultRepository {
	return &FakeResultRepository{
		trace: []string{},
		rows:  map[resultKey]resultdb.Result{},
		names: map[int64]string{},
	}
}

func (f *FakeResultRepository) Trace() []string {
	out := make([]string, len(f.trace))
	copy(out, f.trace)
	return out
}

func (f *FakeResultRepository) record(step string) {
	f.trace = append(f.trace, step)
}

func (f *FakeResultRepository) seed(round sharedtypes.RoundNumber, class sharedtypes.PickClass, rider RiderRef, position int) {
	f.names[rider.ID] = rider.Name
	f.rows[resultKey{round, class, rider.ID}] = resultdb.Result{
		RoundNumber: round, Class: class, RiderID: rider.ID, Position: position, Source: sourceManual, RiderName: rider.Name,
	}
}

func (f *FakeResultRepository) GetResults(ctx context.Context, db bun.IDB, round sharedtypes.RoundNumber, class sharedtypes.PickClass) ([]resultdb.Result, error) {
	f.record("GetResults")
	var out []resultdb.Result
	for k, r := range f.rows {
		if k.round == round && k.class == class {
			r.RiderName = f.names[r.RiderID]
			out = append(out, r)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Position < out[j].Position })
	return out, nil
}

func (f *FakeResultRepository) UpsertResults(ctx context.Context, db bun.IDB, rows []resultdb.Result) error {
	f.record("UpsertResults")
	if f.UpsertResultsFunc != nil {
		return f.UpsertResultsFunc(ctx, db, rows)
	}
	for _, r := range rows {
		if r.RiderName != "" {
			f.names[r.RiderID] = r.RiderName
		}
		f.rows[resultKey{r.RoundNumber, r.Class, r.RiderID}] = r
	}
	return nil
}

func (f *FakeResultRepository) DeleteResultsExcept(ctx context.Context, db bun.IDB, round sharedtypes.RoundNumber, class sharedtypes.PickClass, keep []int64) (int, error) {
	f.record("DeleteResultsExcept")
	kept := make(map[int64]bool, len(keep))
	for _, id := range keep {
		kept[id] = true
	}
	removed := 0
	for k := range f.rows {
		if k.round == round && k.class == class && !kept[k.rider] {
			delete(f.rows, k)
			removed++
		}
	}
	return removed, nil
}

func (f *FakeResultRepository) HistoryBefore(ctx context.Context, db bun.IDB, round sharedtypes.RoundNumber) ([]resultdb.HistoricalResult, error) {
	f.record("HistoryBefore")
	var out []resultdb.HistoricalResult
	for k, r := range f.rows {
		if k.round < round {
			out = append(out, resultdb.HistoricalResult{
				RoundNumber: k.round, Class: k.class, RiderID: k.rider, RiderName: f.names[k.rider], Position: r.Position,
			})
		}
	}
	return out, nil
}

// FakeScheduleReader serves a fixed calendar and roster.
type FakeScheduleReader struct {
	rounds map[sharedtypes.RoundNumber]RoundRef
	riders map[string]RiderRef
}

func NewFakeScheduleReader(riders ...RiderRef) *FakeScheduleReader {
	f := &FakeScheduleReader{
		rounds: map[sharedtypes.RoundNumber]RoundRef{},
		riders: map[string]RiderRef{},
	}
	for _, r := range riders {
		f.riders[r.Name] = r
	}
	return f
}

func (f *FakeScheduleReader) addRound(r RoundRef) { f.rounds[r.Number] = r }

func (f *FakeScheduleReader) GetRound(ctx context.Context, db bun.IDB, number sharedtypes.RoundNumber) (*RoundRef, error) {
	r, ok := f.rounds[number]
	if !ok {
		return nil, nil
	}
	return &r, nil
}

func (f *FakeScheduleReader) RidersByName(ctx context.Context, db bun.IDB, names []string) ([]RiderRef, error) {
	var out []RiderRef
	for _, n := range names {
		if r, ok := f.riders[n]; ok {
			out = append(out, r)
		}
	}
	return out, nil
}

// FakeSource returns canned positions or an error.
type FakeSource struct {
	Positions map[string]int
	Err       error
	Calls     int
}

func (f *FakeSource) FetchPositions(ctx context.Context, round RoundRef, class sharedtypes.PickClass) (map[string]int, error) {
	f.Calls++
	if f.Err != nil {
		return nil, f.Err
	}
	return f.Positions, nil
}
