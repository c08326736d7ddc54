package pickservice

import (
	"time"

	pickdomain "github.com/Black-And-White-Club/moto-pickem/app/modules/pick/domain"
	"github.com/Black-And-White-Club/moto-pickem/app/shared/results"
	sharedtypes "github.com/Black-And-White-Club/moto-pickem/app/shared/types"
)

// Selection is a full pick set: one rider per class.
type Selection struct {
	Rider450 string `json:"rider_450"`
	Rider250 string `json:"rider_250"`
}

func (s Selection) rider(class sharedtypes.PickClass) string {
	if class == sharedtypes.PickClass450 {
		return s.Rider450
	}
	return s.Rider250
}

// ExistingPick is a stored pick as shown to its owner.
type ExistingPick struct {
	Class      sharedtypes.PickClass `json:"class"`
	Rider      string                `json:"rider"`
	AutoRandom bool                  `json:"auto_random"`
}

// SubmitSummary is the stored pick set after a successful submission.
type SubmitSummary struct {
	UserID sharedtypes.UserID      `json:"user_id"`
	Round  sharedtypes.RoundNumber `json:"round"`
	Picks  []ExistingPick          `json:"picks"`
}

// RoundView is everything a pick page needs for one user and round.
type RoundView struct {
	Round     sharedtypes.RoundNumber `json:"round"`
	RaceDate  time.Time               `json:"race_date"`
	Location  string                  `json:"location"`
	RaceType  sharedtypes.RaceType    `json:"race_type"`
	SplitMode sharedtypes.SplitMode   `json:"split_mode"`
	Timezone  string                  `json:"timezone"`
	Deadline  time.Time               `json:"deadline"`
	Locked    bool                    `json:"locked"`

	Eligible map[sharedtypes.PickClass][]string `json:"eligible"`
	// Excluded lists eligible riders blocked by the repeat window.
	Excluded map[sharedtypes.PickClass][]string `json:"excluded"`
	Picks    []ExistingPick                     `json:"picks"`

	// AutoAssigned is set when this request filled in missing picks.
	AutoAssigned bool `json:"auto_assigned"`
}

// AssignedPick is one auto-pick written by the assigner.
type AssignedPick struct {
	UserID sharedtypes.UserID    `json:"user_id"`
	Class  sharedtypes.PickClass `json:"class"`
	Rider  string                `json:"rider"`
	Tier   pickdomain.Tier       `json:"tier"`
}

// SweepSummary reports an auto-pick sweep over one round.
type SweepSummary struct {
	Round        sharedtypes.RoundNumber `json:"round"`
	UsersChecked int                     `json:"users_checked"`
	Assigned     []AssignedPick          `json:"assigned"`
}

type (
	SubmitResult    = results.OperationResult[SubmitSummary, error]
	RoundViewResult = results.OperationResult[RoundView, error]
	SweepResult     = results.OperationResult[SweepSummary, error]
)

// RoundDeadline is the lock instant of one round.
type RoundDeadline struct {
	Round    sharedtypes.RoundNumber `json:"round"`
	Deadline time.Time               `json:"deadline"`
}
