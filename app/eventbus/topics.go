package eventbus

import (
	"time"

	sharedtypes "github.com/Black-And-White-Club/moto-pickem/app/shared/types"
)

const MetadataCorrelationID = "correlation_id"

// Topics published by the modules. Anything that changes scoring inputs is
// followed by the leaderboard staleness tracker.
const (
	TopicPicksChanged            = "picks.changed"
	TopicResultsEntered          = "results.entered"
	TopicRoundDeleted            = "schedule.round_deleted"
	TopicUserDeleted             = "users.deleted"
	TopicLeaderboardRecalculated = "leaderboard.recalculated"
)

// DataChangeTopics are the topics that make a built leaderboard stale.
var DataChangeTopics = []string{
	TopicPicksChanged,
	TopicResultsEntered,
	TopicRoundDeleted,
	TopicUserDeleted,
}

// PicksChanged is published after a manual or automatic pick write.
type PicksChanged struct {
	Round      sharedtypes.RoundNumber `json:"round"`
	UserIDs    []sharedtypes.UserID    `json:"user_ids"`
	AutoRandom bool                    `json:"auto_random"`
	OccurredAt time.Time               `json:"occurred_at"`
}

// ResultsEntered is published after a results batch is stored.
type ResultsEntered struct {
	Round      sharedtypes.RoundNumber `json:"round"`
	Class      sharedtypes.PickClass   `json:"class"`
	Count      int                     `json:"count"`
	Source     string                  `json:"source"`
	OccurredAt time.Time               `json:"occurred_at"`
}

// RoundDeleted is published after a round and its dependents are removed.
type RoundDeleted struct {
	Round      sharedtypes.RoundNumber `json:"round"`
	OccurredAt time.Time               `json:"occurred_at"`
}

// UserDeleted is published after an admin removes a user.
type UserDeleted struct {
	UserID     sharedtypes.UserID `json:"user_id"`
	OccurredAt time.Time          `json:"occurred_at"`
}

// LeaderboardRecalculated is published after a successful rebuild.
type LeaderboardRecalculated struct {
	VisibleRounds int       `json:"visible_rounds"`
	Users         int       `json:"users"`
	At            time.Time `json:"at"`
}
