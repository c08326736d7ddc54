// Package leaderboarddomain turns picks and results into ranked standings.
// It is pure: the caller loads the inputs and persists the output.
package leaderboarddomain

import (
	"sort"
	"strings"
	"time"
	"unicode"

	resultdomain "github.com/Black-And-White-Club/moto-pickem/app/modules/result/domain"
	sharedtypes "github.com/Black-And-White-Club/moto-pickem/app/shared/types"
)

// Member is a league user.
type Member struct {
	ID       sharedtypes.UserID
	Username string
}

// Round is a visible round and the view it contributes to.
type Round struct {
	Number   sharedtypes.RoundNumber
	RaceType sharedtypes.RaceType
	RaceDate time.Time
	Location string
}

// Pick is a stored pick with its rider.
type Pick struct {
	UserID     sharedtypes.UserID
	Round      sharedtypes.RoundNumber
	Class      sharedtypes.PickClass
	RiderID    int64
	Rider      string
	AutoRandom bool
}

// Finish is a stored result.
type Finish struct {
	Round    sharedtypes.RoundNumber
	Class    sharedtypes.PickClass
	RiderID  int64
	Position int
}

// Input is everything one rebuild reads.
type Input struct {
	Members  []Member
	Rounds   []Round
	Picks    []Pick
	Finishes []Finish
}

// Snapshot is one cached pick cell. Points is nil until a result exists.
type Snapshot struct {
	UserID     sharedtypes.UserID
	Round      sharedtypes.RoundNumber
	Class      sharedtypes.PickClass
	Rider      string
	Initials   string
	Points     *int
	AutoRandom bool
}

// Total is a user's score and dense rank in one view.
type Total struct {
	UserID   sharedtypes.UserID
	Username string
	View     sharedtypes.ViewType
	Points   int
	Rank     int
}

// Standings is the full cache content produced by Build.
type Standings struct {
	Rounds    []Round
	Snapshots []Snapshot
	Totals    []Total
}

type finishKey struct {
	round   sharedtypes.RoundNumber
	class   sharedtypes.PickClass
	riderID int64
}

// Build scores every member's picks in the visible rounds. Picks outside
// those rounds or by unknown users are ignored. Every member gets a total in
// every view, zero when nothing scored.
func Build(in Input, table resultdomain.PointsTable) Standings {
	rounds := append([]Round(nil), in.Rounds...)
	sort.Slice(rounds, func(i, j int) bool { return rounds[i].Number < rounds[j].Number })

	raceType := make(map[sharedtypes.RoundNumber]sharedtypes.RaceType, len(rounds))
	for _, r := range rounds {
		raceType[r.Number] = r.RaceType
	}
	members := make(map[sharedtypes.UserID]bool, len(in.Members))
	for _, m := range in.Members {
		members[m.ID] = true
	}
	positions := make(map[finishKey]int, len(in.Finishes))
	for _, f := range in.Finishes {
		positions[finishKey{f.Round, f.Class, f.RiderID}] = f.Position
	}

	totals := make(map[sharedtypes.UserID]map[sharedtypes.ViewType]int, len(in.Members))
	for _, m := range in.Members {
		totals[m.ID] = make(map[sharedtypes.ViewType]int, len(sharedtypes.ViewTypes))
	}

	var snapshots []Snapshot
	for _, p := range in.Picks {
		rt, visible := raceType[p.Round]
		if !visible || !members[p.UserID] {
			continue
		}
		snap := Snapshot{
			UserID:     p.UserID,
			Round:      p.Round,
			Class:      p.Class,
			Rider:      p.Rider,
			Initials:   Initials(p.Rider),
			AutoRandom: p.AutoRandom,
		}
		if pos, ok := positions[finishKey{p.Round, p.Class, p.RiderID}]; ok {
			pts := table.Points(pos)
			snap.Points = &pts
			totals[p.UserID][sharedtypes.ViewOverall] += pts
			totals[p.UserID][sharedtypes.ViewType(rt)] += pts
		}
		snapshots = append(snapshots, snap)
	}
	sort.Slice(snapshots, func(i, j int) bool {
		a, b := snapshots[i], snapshots[j]
		if a.UserID != b.UserID {
			return a.UserID < b.UserID
		}
		if a.Round != b.Round {
			return a.Round < b.Round
		}
		return a.Class > b.Class
	})

	var ranked []Total
	for _, view := range sharedtypes.ViewTypes {
		rows := make([]Total, 0, len(in.Members))
		for _, m := range in.Members {
			rows = append(rows, Total{UserID: m.ID, Username: m.Username, View: view, Points: totals[m.ID][view]})
		}
		ranked = append(ranked, DenseRank(rows)...)
	}

	return Standings{Rounds: rounds, Snapshots: snapshots, Totals: ranked}
}

// DenseRank orders rows by points descending then username and assigns
// 1-based dense ranks: equal points share a rank and the next distinct
// total takes the following integer.
func DenseRank(rows []Total) []Total {
	out := append([]Total(nil), rows...)
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].Points != out[j].Points {
			return out[i].Points > out[j].Points
		}
		return out[i].Username < out[j].Username
	})
	rank := 0
	for i := range out {
		if i == 0 || out[i].Points != out[i-1].Points {
			rank++
		}
		out[i].Rank = rank
	}
	return out
}

// Initials abbreviates a rider name to the upper-cased first letter of each
// word: "Jett Lawrence" becomes "JL".
func Initials(name string) string {
	var b strings.Builder
	for _, word := range strings.Fields(name) {
		for _, r := range word {
			if unicode.IsLetter(r) || unicode.IsDigit(r) {
				b.WriteRune(unicode.ToUpper(r))
				break
			}
		}
	}
	return b.String()
}
