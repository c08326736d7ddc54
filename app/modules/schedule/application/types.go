package scheduleservice

import (
	"time"

	scheduledb "github.com/Black-And-White-Club/moto-pickem/app/modules/schedule/infrastructure/repositories"
	"github.com/Black-And-White-Club/moto-pickem/app/shared/results"
	sharedtypes "github.com/Black-And-White-Club/moto-pickem/app/shared/types"
)

// RoundInput describes a round to create or update.
type RoundInput struct {
	Number    sharedtypes.RoundNumber
	RaceDate  time.Time
	Location  string
	RaceType  sharedtypes.RaceType
	SplitMode sharedtypes.SplitMode
}

// RoundInfo is a round together with its resolved deadline.
type RoundInfo struct {
	Number    sharedtypes.RoundNumber `json:"number"`
	RaceDate  time.Time               `json:"race_date"`
	Location  string                  `json:"location"`
	RaceType  sharedtypes.RaceType    `json:"race_type"`
	SplitMode sharedtypes.SplitMode   `json:"split_mode"`
	Timezone  string                  `json:"timezone"`
	Deadline  time.Time               `json:"deadline"`
	Locked    bool                    `json:"locked"`
}

// RiderInput describes a roster entry to create or update.
type RiderInput struct {
	Name   string
	Class  sharedtypes.RiderClass
	Active bool
}

type (
	RoundResult  = results.OperationResult[RoundInfo, error]
	RiderResult  = results.OperationResult[scheduledb.Rider, error]
	DeleteResult = results.OperationResult[sharedtypes.RoundNumber, error]
)
