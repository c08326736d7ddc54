package leaderboarddb

import (
	"time"

	sharedtypes "github.com/Black-And-White-Club/moto-pickem/app/shared/types"
	"github.com/uptrace/bun"
)

// Meta keys.
const (
	MetaLastRecalculated = "last_recalculated"
	MetaLastDataChange   = "last_data_change"
)

// PickSnapshot is one cached pick cell. Points is NULL while the result is
// pending.
type PickSnapshot struct {
	bun.BaseModel `bun:"table:leaderboard_pick_snapshots,alias:lps"`

	UserID      sharedtypes.UserID      `bun:"user_id,pk"`
	RoundNumber sharedtypes.RoundNumber `bun:"round_number,pk"`
	Class       sharedtypes.PickClass   `bun:"class,pk"`
	RiderName   string                  `bun:"rider_name,notnull"`
	Initials    string                  `bun:"initials,notnull"`
	Points      *int                    `bun:"points"`
	AutoRandom  bool                    `bun:"auto_random,notnull,default:false"`
}

// Total is a user's cached score and rank in one view.
type Total struct {
	bun.BaseModel `bun:"table:leaderboard_totals,alias:lt"`

	UserID      sharedtypes.UserID   `bun:"user_id,pk"`
	ViewType    sharedtypes.ViewType `bun:"view_type,pk"`
	TotalPoints int                  `bun:"total_points,notnull"`
	Rank        int                  `bun:"rank,notnull"`

	Username string `bun:"username,scanonly"`
}

// VisibleRound lists a round included in the last rebuild.
type VisibleRound struct {
	bun.BaseModel `bun:"table:leaderboard_rounds,alias:lr"`

	RoundNumber sharedtypes.RoundNumber `bun:"round_number,pk"`
	RaceType    sharedtypes.RaceType    `bun:"race_type,notnull"`
	RaceDate    time.Time               `bun:"race_date,type:date,notnull"`
	Location    string                  `bun:"location,notnull"`
}

// Meta is a key/value marker row.
type Meta struct {
	bun.BaseModel `bun:"table:leaderboard_meta,alias:lm"`

	Key       string    `bun:"key,pk"`
	At        time.Time `bun:"at,notnull"`
	UpdatedAt time.Time `bun:"updated_at,notnull,default:current_timestamp"`
}
