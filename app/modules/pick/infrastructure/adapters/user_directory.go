package adapters

import (
	"context"
	"errors"

	userdb "github.com/Black-And-White-Club/moto-pickem/app/modules/user/infrastructure/repositories"
	sharedtypes "github.com/Black-And-White-Club/moto-pickem/app/shared/types"
	"github.com/uptrace/bun"
)

// UserDirectoryAdapter answers membership questions from the user repository.
type UserDirectoryAdapter struct {
	repo userdb.Repository
}

func NewUserDirectoryAdapter(repo userdb.Repository) *UserDirectoryAdapter {
	return &UserDirectoryAdapter{repo: repo}
}

func (a *UserDirectoryAdapter) UserExists(ctx context.Context, db bun.IDB, id sharedtypes.UserID) (bool, error) {
	_, err := a.repo.GetUserByID(ctx, db, id)
	if err != nil {
		if errors.Is(err, userdb.ErrNotFound) {
			return false, nil
		}
		return false, err
	}
	return true, nil
}

func (a *UserDirectoryAdapter) ListUserIDs(ctx context.Context, db bun.IDB) ([]sharedtypes.UserID, error) {
	users, err := a.repo.ListUsers(ctx, db)
	if err != nil {
		return nil, err
	}
	ids := make([]sharedtypes.UserID, 0, len(users))
	for _, u := range users {
		ids = append(ids, u.ID)
	}
	return ids, nil
}
