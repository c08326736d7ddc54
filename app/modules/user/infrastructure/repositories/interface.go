package userdb

import (
	"context"

	sharedtypes "github.com/Black-And-White-Club/moto-pickem/app/shared/types"
	"github.com/uptrace/bun"
)

// Repository defines the contract for user persistence.
type Repository interface {
	CreateUser(ctx context.Context, db bun.IDB, user *User) error
	GetUserByID(ctx context.Context, db bun.IDB, id sharedtypes.UserID) (*User, error)
	GetUserByUsername(ctx context.Context, db bun.IDB, username string) (*User, error)
	ListUsers(ctx context.Context, db bun.IDB) ([]User, error)
	UpdatePasswordHash(ctx context.Context, db bun.IDB, id sharedtypes.UserID, hash string) error

	// DeleteUser removes the user; picks and leaderboard rows cascade.
	DeleteUser(ctx context.Context, db bun.IDB, id sharedtypes.UserID) error
}
