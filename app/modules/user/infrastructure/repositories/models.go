package userdb

import (
	"time"

	sharedtypes "github.com/Black-And-White-Club/moto-pickem/app/shared/types"
	"github.com/uptrace/bun"
)

// User is a registered player.
type User struct {
	bun.BaseModel `bun:"table:users,alias:u"`

	ID           sharedtypes.UserID `bun:"id,pk,autoincrement" json:"id"`
	Username     string             `bun:"username,unique,notnull" json:"username"`
	Email        *string            `bun:"email,nullzero" json:"email,omitempty"`
	PasswordHash string             `bun:"password_hash,notnull" json:"-"`
	IsAdmin      bool               `bun:"is_admin,notnull,default:false" json:"is_admin"`
	CreatedAt    time.Time          `bun:"created_at,notnull,default:current_timestamp" json:"created_at"`
	UpdatedAt    time.Time          `bun:"updated_at,notnull,default:current_timestamp" json:"updated_at"`
}
