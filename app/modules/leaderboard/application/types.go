package leaderboardservice

import (
	"time"

	"github.com/Black-And-White-Club/moto-pickem/app/shared/results"
	sharedtypes "github.com/Black-And-White-Club/moto-pickem/app/shared/types"
)

// PickCell is one user's pick for a class at a round.
type PickCell struct {
	Class      sharedtypes.PickClass `json:"class"`
	Rider      string                `json:"rider"`
	Initials   string                `json:"initials"`
	Points     *int                  `json:"points"`
	Pending    bool                  `json:"pending"`
	AutoRandom bool                  `json:"auto_random"`
}

// RoundPicks groups a user's cells for one round.
type RoundPicks struct {
	Round sharedtypes.RoundNumber `json:"round"`
	Picks []PickCell              `json:"picks"`
}

// RoundColumn describes a visible round in the view.
type RoundColumn struct {
	Round    sharedtypes.RoundNumber `json:"round"`
	RaceType sharedtypes.RaceType    `json:"race_type"`
	RaceDate time.Time               `json:"race_date"`
	Location string                  `json:"location"`
}

// StandingRow is one ranked user.
type StandingRow struct {
	Rank     int                `json:"rank"`
	UserID   sharedtypes.UserID `json:"user_id"`
	Username string             `json:"username"`
	Total    int                `json:"total"`
	Rounds   []RoundPicks       `json:"rounds"`
}

// LeaderboardView is the cached standings for one view type. Built is false
// until the first recalculation.
type LeaderboardView struct {
	View             sharedtypes.ViewType `json:"view"`
	Built            bool                 `json:"built"`
	LastRecalculated *time.Time           `json:"last_recalculated,omitempty"`
	Stale            bool                 `json:"stale"`
	Rounds           []RoundColumn        `json:"rounds"`
	Standings        []StandingRow        `json:"standings"`
}

// RecalcSummary reports a rebuild.
type RecalcSummary struct {
	At            time.Time `json:"at"`
	VisibleRounds int       `json:"visible_rounds"`
	Users         int       `json:"users"`
	Snapshots     int       `json:"snapshots"`
}

// Progression is each user's cumulative total after every visible round.
type Progression struct {
	View   sharedtypes.ViewType      `json:"view"`
	Rounds []sharedtypes.RoundNumber `json:"rounds"`
	Series []ProgressionSeries       `json:"series"`
}

// ProgressionSeries is one user's line, ordered like Progression.Rounds.
type ProgressionSeries struct {
	Username   string `json:"username"`
	Cumulative []int  `json:"cumulative"`
}

type (
	RecalcResult      = results.OperationResult[RecalcSummary, error]
	LeaderboardResult = results.OperationResult[LeaderboardView, error]
)
