package pickservice

import (
	"context"
	"sort"

	pickdomain "github.com/Black-And-White-Club/moto-pickem/app/modules/pick/domain"
	pickdb "github.com/Black-And-White-Club/moto-pickem/app/modules/pick/infrastructure/repositories"
	scheduledomain "github.com/Black-And-White-Club/moto-pickem/app/modules/schedule/domain"
	sharedtypes "github.com/Black-And-White-Club/moto-pickem/app/shared/types"
	"github.com/uptrace/bun"
)

// FakePickRepository is an in-memory pickdb.Repository that records every call.
type FakePickRepository struct {
	trace  []string
	picks  []pickdb.Pick
	nextID int64

	ReplacePicksFunc func(ctx context.Context, db bun.IDB, userID sharedtypes.UserID, round sharedtypes.RoundNumber, picks []pickdb.Pick) error
}

func NewFakePickRepository() *FakePickRepository {
	return &FakePickRepository{trace: []string{}}
}

func (f *FakePickRepository) Trace() []string {
	out := make([]string, len(f.trace))
	copy(out, f.trace)
	return out
}

func (f *FakePickRepository) record(step string) {
	f.trace = append(f.trace, step)
}

func (f *FakePickRepository) seed(p pickdb.Pick) {
	f.nextID++
	p.ID = f.nextID
	f.picks = append(f.picks, p)
}

func (f *FakePickRepository) filter(keep func(pickdb.Pick) bool) []pickdb.Pick {
	var out []pickdb.Pick
	for _, p := range f.picks {
		if keep(p) {
			out = append(out, p)
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].RoundNumber != out[j].RoundNumber {
			return out[i].RoundNumber < out[j].RoundNumber
		}
		if out[i].UserID != out[j].UserID {
			return out[i].UserID < out[j].UserID
		}
		return out[i].Class > out[j].Class
	})
	return out
}

func (f *FakePickRepository) GetPicks(ctx context.Context, db bun.IDB, userID sharedtypes.UserID, round sharedtypes.RoundNumber) ([]pickdb.Pick, error) {
	f.record("GetPicks")
	return f.filter(func(p pickdb.Pick) bool { return p.UserID == userID && p.RoundNumber == round }), nil
}

func (f *FakePickRepository) PicksInRounds(ctx context.Context, db bun.IDB, userID sharedtypes.UserID, rounds []sharedtypes.RoundNumber) ([]pickdb.Pick, error) {
	f.record("PicksInRounds")
	in := map[sharedtypes.RoundNumber]bool{}
	for _, r := range rounds {
		in[r] = true
	}
	return f.filter(func(p pickdb.Pick) bool { return p.UserID == userID && in[p.RoundNumber] }), nil
}

func (f *FakePickRepository) PicksForRounds(ctx context.Context, db bun.IDB, rounds []sharedtypes.RoundNumber) ([]pickdb.Pick, error) {
	f.record("PicksForRounds")
	in := map[sharedtypes.RoundNumber]bool{}
	for _, r := range rounds {
		in[r] = true
	}
	return f.filter(func(p pickdb.Pick) bool { return in[p.RoundNumber] }), nil
}

func (f *FakePickRepository) RoundPicks(ctx context.Context, db bun.IDB, round sharedtypes.RoundNumber) ([]pickdb.Pick, error) {
	f.record("RoundPicks")
	return f.filter(func(p pickdb.Pick) bool { return p.RoundNumber == round }), nil
}

func (f *FakePickRepository) ReplacePicks(ctx context.Context, db bun.IDB, userID sharedtypes.UserID, round sharedtypes.RoundNumber, picks []pickdb.Pick) error {
	f.record("ReplacePicks")
	if f.ReplacePicksFunc != nil {
		return f.ReplacePicksFunc(ctx, db, userID, round, picks)
	}
	f.picks = f.filter(func(p pickdb.Pick) bool { return p.UserID != userID || p.RoundNumber != round })
	for _, p := range picks {
		f.seed(p)
	}
	return nil
}

func (f *FakePickRepository) InsertPick(ctx context.Context, db bun.IDB, pick *pickdb.Pick) error {
	f.record("InsertPick")
	for _, p := range f.picks {
		if p.UserID == pick.UserID && p.RoundNumber == pick.RoundNumber && p.Class == pick.Class {
			return pickdb.ErrPickExists
		}
	}
	f.seed(*pick)
	return nil
}

// FakeSchedule is a fixed calendar and roster implementing ScheduleReader.
type FakeSchedule struct {
	rounds map[sharedtypes.RoundNumber]RoundRef
	riders []RiderRef
}

func NewFakeSchedule(riders ...RiderRef) *FakeSchedule {
	return &FakeSchedule{rounds: map[sharedtypes.RoundNumber]RoundRef{}, riders: riders}
}

func (f *FakeSchedule) addRound(r RoundRef) { f.rounds[r.Number] = r }

func (f *FakeSchedule) rider(name string) RiderRef {
	for _, r := range f.riders {
		if r.Name == name {
			return r
		}
	}
	panic("unknown test rider " + name)
}

func (f *FakeSchedule) GetRound(ctx context.Context, db bun.IDB, number sharedtypes.RoundNumber) (*RoundRef, error) {
	r, ok := f.rounds[number]
	if !ok {
		return nil, nil
	}
	return &r, nil
}

func (f *FakeSchedule) ListRounds(ctx context.Context, db bun.IDB) ([]RoundRef, error) {
	out := make([]RoundRef, 0, len(f.rounds))
	for _, r := range f.rounds {
		out = append(out, r)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Number < out[j].Number })
	return out, nil
}

func (f *FakeSchedule) EligibleRiders(ctx context.Context, db bun.IDB, class sharedtypes.PickClass, split sharedtypes.SplitMode) ([]RiderRef, error) {
	allowed := map[sharedtypes.RiderClass]bool{}
	for _, c := range scheduledomain.EligibleRiderClasses(class, split) {
		allowed[c] = true
	}
	var out []RiderRef
	for _, r := range f.riders {
		if r.Active && allowed[r.Class] {
			out = append(out, r)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

func (f *FakeSchedule) RidersByName(ctx context.Context, db bun.IDB, names []string) ([]RiderRef, error) {
	var out []RiderRef
	for _, n := range names {
		for _, r := range f.riders {
			if r.Name == n {
				out = append(out, r)
			}
		}
	}
	return out, nil
}

// FakeHistory serves fixed finishes.
type FakeHistory struct {
	finishes []pickdomain.Finish
}

func (f *FakeHistory) FinishesBefore(ctx context.Context, db bun.IDB, round sharedtypes.RoundNumber) ([]pickdomain.Finish, error) {
	var out []pickdomain.Finish
	for _, fin := range f.finishes {
		if fin.Round < round {
			out = append(out, fin)
		}
	}
	return out, nil
}

// FakeUsers is a fixed member list.
type FakeUsers struct {
	ids []sharedtypes.UserID
}

func (f *FakeUsers) UserExists(ctx context.Context, db bun.IDB, id sharedtypes.UserID) (bool, error) {
	for _, u := range f.ids {
		if u == id {
			return true, nil
		}
	}
	return false, nil
}

func (f *FakeUsers) ListUserIDs(ctx context.Context, db bun.IDB) ([]sharedtypes.UserID, error) {
	return append([]sharedtypes.UserID(nil), f.ids...), nil
}
