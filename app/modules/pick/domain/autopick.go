package pickdomain

import (
	"math/rand/v2"
	"sort"

	resultdomain "github.com/Black-And-White-Club/moto-pickem/app/modules/result/domain"
	sharedtypes "github.com/Black-And-White-Club/moto-pickem/app/shared/types"
)

// PoolSize is how many top riders the smart pool draws from.
const PoolSize = 10

// Candidate is an eligible rider for one class at one round.
type Candidate struct {
	ID   int64
	Name string
}

// Finish is a historical result used to rank candidates.
type Finish struct {
	Round    sharedtypes.RoundNumber
	Class    sharedtypes.PickClass
	RiderID  int64
	Position int
}

// Standing is a candidate with the points accumulated before the target round.
type Standing struct {
	Candidate
	Points  int
	Results int
}

// Tier names the step of the fallback chain a pool came from.
type Tier string

const (
	TierSmart        Tier = "smart"
	TierWithResults  Tier = "with_results"
	TierRoster       Tier = "roster"
	TierUnrestricted Tier = "unrestricted"
)

// RankCandidates scores every candidate over finishes strictly before
// target and orders them by points desc, then name.
func RankCandidates(candidates []Candidate, finishes []Finish, target sharedtypes.RoundNumber, class sharedtypes.PickClass, table resultdomain.PointsTable) []Standing {
	byID := make(map[int64]*Standing, len(candidates))
	out := make([]Standing, len(candidates))
	for i, c := range candidates {
		out[i] = Standing{Candidate: c}
		byID[c.ID] = &out[i]
	}
	for _, f := range finishes {
		if f.Round >= target || f.Class != class {
			continue
		}
		if s, ok := byID[f.RiderID]; ok {
			s.Points += table.Points(f.Position)
			s.Results++
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].Points != out[j].Points {
			return out[i].Points > out[j].Points
		}
		return out[i].Name < out[j].Name
	})
	return out
}

// CandidatePool returns the riders an auto-pick may choose from and the
// tier that produced them. The result is deterministic for fixed inputs.
// It is empty only when standings is empty.
func CandidatePool(standings []Standing, excluded map[int64]bool) ([]Candidate, Tier) {
	var smart []Candidate
	for i, s := range standings {
		if i >= PoolSize || s.Points <= 0 {
			break
		}
		if !excluded[s.ID] {
			smart = append(smart, s.Candidate)
		}
	}
	if len(smart) > 0 {
		return smart, TierSmart
	}

	var withResults []Candidate
	for _, s := range standings {
		if s.Results > 0 && !excluded[s.ID] {
			withResults = append(withResults, s.Candidate)
		}
	}
	if len(withResults) > 0 {
		return withResults, TierWithResults
	}

	var roster []Candidate
	for _, s := range standings {
		if !excluded[s.ID] {
			roster = append(roster, s.Candidate)
		}
	}
	if len(roster) > 0 {
		return roster, TierRoster
	}

	all := make([]Candidate, 0, len(standings))
	for _, s := range standings {
		all = append(all, s.Candidate)
	}
	return all, TierUnrestricted
}

// Choose picks uniformly from pool. It returns false for an empty pool.
func Choose(pool []Candidate, rng *rand.Rand) (Candidate, bool) {
	if len(pool) == 0 {
		return Candidate{}, false
	}
	return pool[rng.IntN(len(pool))], true
}
