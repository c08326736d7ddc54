package userservice

import (
	"context"

	userdb "github.com/Black-And-White-Club/moto-pickem/app/modules/user/infrastructure/repositories"
	sharedtypes "github.com/Black-And-White-Club/moto-pickem/app/shared/types"
	"github.com/uptrace/bun"
)

// FakeUserRepository is an in-memory userdb.Repository with overridable hooks.
type FakeUserRepository struct {
	trace  []string
	users  map[sharedtypes.UserID]userdb.User
	nextID sharedtypes.UserID

	CreateUserFunc func(ctx context.Context, db bun.IDB, user *userdb.User) error
	DeleteUserFunc func(ctx context.Context, db bun.IDB, id sharedtypes.UserID) error
}

func NewFakeUserRepository() *FakeUserRepository {
	return &FakeUserRepository{trace: []string{}, users: map[sharedtypes.UserID]userdb.User{}}
}

func (f *FakeUserRepository) Trace() []string {
	out := make([]string, len(f.trace))
	copy(out, f.trace)
	return out
}

func (f *FakeUserRepository) record(step string) { f.trace = append(f.trace, step) }

func (f *FakeUserRepository) CreateUser(ctx context.Context, db bun.IDB, user *userdb.User) error {
	f.record("CreateUser")
	if f.CreateUserFunc != nil {
		return f.CreateUserFunc(ctx, db, user)
	}
	f.nextID++
	user.ID = f.nextID
	f.users[user.ID] = *user
	return nil
}

func (f *FakeUserRepository) GetUserByID(ctx context.Context, db bun.IDB, id sharedtypes.UserID) (*userdb.User, error) {
	f.record("GetUserByID")
	u, ok := f.users[id]
	if !ok {
		return nil, userdb.ErrNotFound
	}
	return &u, nil
}

func (f *FakeUserRepository) GetUserByUsername(ctx context.Context, db bun.IDB, username string) (*userdb.User, error) {
	f.record("GetUserByUsername")
	for _, u := range f.users {
		if u.Username == username {
			return &u, nil
		}
	}
	return nil, userdb.ErrNotFound
}

func (f *FakeUserRepository) ListUsers(ctx context.Context, db bun.IDB) ([]userdb.User, error) {
	f.record("ListUsers")
	out := make([]userdb.User, 0, len(f.users))
	for id := sharedtypes.UserID(1); id <= f.nextID; id++ {
		if u, ok := f.users[id]; ok {
			out = append(out, u)
		}
	}
	return out, nil
}

func (f *FakeUserRepository) UpdatePasswordHash(ctx context.Context, db bun.IDB, id sharedtypes.UserID, hash string) error {
	f.record("UpdatePasswordHash")
	u, ok := f.users[id]
	if !ok {
		return userdb.ErrNotFound
	}
	u.PasswordHash = hash
	f.users[id] = u
	return nil
}

func (f *FakeUserRepository) DeleteUser(ctx context.Context, db bun.IDB, id sharedtypes.UserID) error {
	f.record("DeleteUser")
	if f.DeleteUserFunc != nil {
		return f.DeleteUserFunc(ctx, db, id)
	}
	if _, ok := f.users[id]; !ok {
		return userdb.ErrNotFound
	}
	delete(f.users, id)
	return nil
}

var _ userdb.Repository = (*FakeUserRepository)(nil)
