package pickdb

import (
	"time"

	sharedtypes "github.com/Black-And-White-Club/moto-pickem/app/shared/types"
	"github.com/uptrace/bun"
)

// Pick is a user's rider for one class at one round.
type Pick struct {
	bun.BaseModel `bun:"table:picks,alias:pk"`

	ID          int64                   `bun:"id,pk,autoincrement"`
	UserID      sharedtypes.UserID      `bun:"user_id,notnull"`
	RoundNumber sharedtypes.RoundNumber `bun:"round_number,notnull"`
	Class       sharedtypes.PickClass   `bun:"class,notnull"`
	RiderID     int64                   `bun:"rider_id,notnull"`
	AutoRandom  bool                    `bun:"auto_random,notnull,default:false"`
	CreatedAt   time.Time               `bun:"created_at,notnull,default:current_timestamp"`

	RiderName string `bun:"rider_name,scanonly"`
}
