package leaderboardservice

import (
	"context"
	"sort"
	"time"

	leaderboarddomain "github.com/Black-And-White-Club/moto-pickem/app/modules/leaderboard/domain"
	leaderboarddb "github.com/Black-And-White-Club/moto-pickem/app/modules/leaderboard/infrastructure/repositories"
	sharedtypes "github.com/Black-And-White-Club/moto-pickem/app/shared/types"
	"github.com/uptrace/bun"
)

// memRepo keeps the cache tables in memory and records every call.
type memRepo struct {
	trace     []string
	rounds    []leaderboarddb.VisibleRound
	snapshots []leaderboarddb.PickSnapshot
	totals    []leaderboarddb.Total
	meta      map[string]time.Time

	ReplaceCacheFunc func(ctx context.Context, db bun.IDB, rounds []leaderboarddb.VisibleRound, snapshots []leaderboarddb.PickSnapshot, totals []leaderboarddb.Total) error
}

var _ leaderboarddb.Repository = (*memRepo)(nil)

func newMemRepo() *memRepo {
	return &memRepo{meta: map[string]time.Time{}}
}

func (m *memRepo) record(step string) { m.trace = append(m.trace, step) }

func (m *memRepo) count(step string) int {
	n := 0
	for _, s := range m.trace {
		if s == step {
			n++
		}
	}
	return n
}

func (m *memRepo) ReplaceCache(ctx context.Context, db bun.IDB, rounds []leaderboarddb.VisibleRound, snapshots []leaderboarddb.PickSnapshot, totals []leaderboarddb.Total) error {
	m.record("ReplaceCache")
	if m.ReplaceCacheFunc != nil {
		return m.ReplaceCacheFunc(ctx, db, rounds, snapshots, totals)
	}
	m.rounds = append([]leaderboarddb.VisibleRound(nil), rounds...)
	m.snapshots = append([]leaderboarddb.PickSnapshot(nil), snapshots...)
	m.totals = append([]leaderboarddb.Total(nil), totals...)
	return nil
}

func (m *memRepo) GetTotals(ctx context.Context, db bun.IDB, view sharedtypes.ViewType) ([]leaderboarddb.Total, error) {
	m.record("GetTotals")
	var out []leaderboarddb.Total
	for _, t := range m.totals {
		if t.ViewType == view {
			out = append(out, t)
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].Rank != out[j].Rank {
			return out[i].Rank < out[j].Rank
		}
		return out[i].Username < out[j].Username
	})
	return out, nil
}

func (m *memRepo) GetSnapshots(ctx context.Context, db bun.IDB, rounds []sharedtypes.RoundNumber) ([]leaderboarddb.PickSnapshot, error) {
	m.record("GetSnapshots")
	in := map[sharedtypes.RoundNumber]bool{}
	for _, r := range rounds {
		in[r] = true
	}
	var out []leaderboarddb.PickSnapshot
	for _, s := range m.snapshots {
		if in[s.RoundNumber] {
			out = append(out, s)
		}
	}
	return out, nil
}

func (m *memRepo) GetRounds(ctx context.Context, db bun.IDB, raceType sharedtypes.RaceType) ([]leaderboarddb.VisibleRound, error) {
	m.record("GetRounds")
	var out []leaderboarddb.VisibleRound
	for _, r := range m.rounds {
		if raceType == "" || r.RaceType == raceType {
			out = append(out, r)
		}
	}
	return out, nil
}

func (m *memRepo) SetTime(ctx context.Context, db bun.IDB, key string, at time.Time) error {
	m.record("SetTime:" + key)
	m.meta[key] = at
	return nil
}

func (m *memRepo) AdvanceTime(ctx context.Context, db bun.IDB, key string, at time.Time) error {
	m.record("AdvanceTime:" + key)
	if prev, ok := m.meta[key]; !ok || at.After(prev) {
		m.meta[key] = at
	}
	return nil
}

func (m *memRepo) GetTime(ctx context.Context, db bun.IDB, key string) (time.Time, error) {
	at, ok := m.meta[key]
	if !ok {
		return time.Time{}, leaderboarddb.ErrMetaNotFound
	}
	return at, nil
}

// fakeSource serves a fixed calendar, picks, results and member list.
type fakeSource struct {
	rounds   []RoundRef
	picks    []leaderboarddomain.Pick
	finishes []leaderboarddomain.Finish
	members  []leaderboarddomain.Member
}

func (f *fakeSource) ListRounds(ctx context.Context, db bun.IDB) ([]RoundRef, error) {
	return append([]RoundRef(nil), f.rounds...), nil
}

func (f *fakeSource) PicksForRounds(ctx context.Context, db bun.IDB, rounds []sharedtypes.RoundNumber) ([]leaderboarddomain.Pick, error) {
	in := map[sharedtypes.RoundNumber]bool{}
	for _, r := range rounds {
		in[r] = true
	}
	var out []leaderboarddomain.Pick
	for _, p := range f.picks {
		if in[p.Round] {
			out = append(out, p)
		}
	}
	return out, nil
}

func (f *fakeSource) FinishesForRounds(ctx context.Context, db bun.IDB, rounds []sharedtypes.RoundNumber) ([]leaderboarddomain.Finish, error) {
	in := map[sharedtypes.RoundNumber]bool{}
	for _, r := range rounds {
		in[r] = true
	}
	var out []leaderboarddomain.Finish
	for _, fin := range f.finishes {
		if in[fin.Round] {
			out = append(out, fin)
		}
	}
	return out, nil
}

func (f *fakeSource) ListMembers(ctx context.Context, db bun.IDB) ([]leaderboarddomain.Member, error) {
	return append([]leaderboarddomain.Member(nil), f.members...), nil
}

// fakeCache is an in-memory ViewCache.
type fakeCache struct {
	views       map[sharedtypes.ViewType]LeaderboardView
	sets        int
	invalidated int
}

func newFakeCache() *fakeCache {
	return &fakeCache{views: map[sharedtypes.ViewType]LeaderboardView{}}
}

func (c *fakeCache) Get(ctx context.Context, view sharedtypes.ViewType) (*LeaderboardView, error) {
	lv, ok := c.views[view]
	if !ok {
		return nil, nil
	}
	return &lv, nil
}

func (c *fakeCache) Set(ctx context.Context, view sharedtypes.ViewType, lv *LeaderboardView) error {
	c.sets++
	c.views[view] = *lv
	return nil
}

func (c *fakeCache) Invalidate(ctx context.Context) error {
	c.invalidated++
	c.views = map[sharedtypes.ViewType]LeaderboardView{}
	return nil
}
