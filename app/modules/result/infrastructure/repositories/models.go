package resultdb

import (
	"time"

	sharedtypes "github.com/Black-And-White-Club/moto-pickem/app/shared/types"
	"github.com/uptrace/bun"
)

// Result is one rider's finishing position in a class at a round.
type Result struct {
	bun.BaseModel `bun:"table:results,alias:res"`

	ID          int64                   `bun:"id,pk,autoincrement"`
	RoundNumber sharedtypes.RoundNumber `bun:"round_number,notnull"`
	Class       sharedtypes.PickClass   `bun:"class,notnull"`
	RiderID     int64                   `bun:"rider_id,notnull"`
	Position    int                     `bun:"position,notnull"`
	Source      string                  `bun:"source,notnull,default:'manual'"`
	UpdatedAt   time.Time               `bun:"updated_at,notnull,default:current_timestamp"`

	RiderName string `bun:"rider_name,scanonly"`
}

// HistoricalResult is a result row flattened for points accumulation.
type HistoricalResult struct {
	RoundNumber sharedtypes.RoundNumber `bun:"round_number"`
	Class       sharedtypes.PickClass   `bun:"class"`
	RiderID     int64                   `bun:"rider_id"`
	RiderName   string                  `bun:"rider_name"`
	Position    int                     `bun:"position"`
}
