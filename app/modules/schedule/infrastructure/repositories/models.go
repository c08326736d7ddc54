package scheduledb

import (
	"time"

	sharedtypes "github.com/Black-And-White-Club/moto-pickem/app/shared/types"
	"github.com/uptrace/bun"
)

// Round is one race weekend on the season calendar.
type Round struct {
	bun.BaseModel `bun:"table:rounds,alias:rd"`

	Number    sharedtypes.RoundNumber `bun:"number,pk"`
	RaceDate  time.Time               `bun:"race_date,type:date,notnull"`
	Location  string                  `bun:"location,notnull"`
	RaceType  sharedtypes.RaceType    `bun:"race_type,notnull"`
	SplitMode sharedtypes.SplitMode   `bun:"split_mode,notnull"`
	CreatedAt time.Time               `bun:"created_at,notnull,default:current_timestamp"`
	UpdatedAt time.Time               `bun:"updated_at,notnull,default:current_timestamp"`
}

// Rider is a competitor on the season roster.
type Rider struct {
	bun.BaseModel `bun:"table:riders,alias:rdr"`

	ID        int64                  `bun:"id,pk,autoincrement"`
	Name      string                 `bun:"name,unique,notnull"`
	Class     sharedtypes.RiderClass `bun:"class,notnull"`
	Active    bool                   `bun:"active,notnull,default:true"`
	CreatedAt time.Time              `bun:"created_at,notnull,default:current_timestamp"`
}
