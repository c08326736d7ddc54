package userdb

import (
	"context"

	sharedtypes "github.com/Black-And-White-Club/moto-pickem/app/shared/types"
	"github.com/uptrace/bun"
)

// FakeRepository is a fake implementation of Repository for testing.
type FakeRepository struct {
	CreateUserFn         func(ctx context.Context, db bun.IDB, user *User) error
	GetUserByIDFn        func(ctx context.Context, db bun.IDB, id sharedtypes.UserID) (*User, error)
	GetUserByUsernameFn  func(ctx context.Context, db bun.IDB, username string) (*User, error)
	ListUsersFn          func(ctx context.Context, db bun.IDB) ([]User, error)
	UpdatePasswordHashFn func(ctx context.Context, db bun.IDB, id sharedtypes.UserID, hash string) error
	DeleteUserFn         func(ctx context.Context, db bun.IDB, id sharedtypes.UserID) error
}

var _ Repository = (*FakeRepository)(nil)

func (f *FakeRepository) CreateUser(ctx context.Context, db bun.IDB, user *User) error {
	if f.CreateUserFn != nil {
		return f.CreateUserFn(ctx, db, user)
	}
	return nil
}

func (f *FakeRepository) GetUserByID(ctx context.Context, db bun.IDB, id sharedtypes.UserID) (*User, error) {
	if f.GetUserByIDFn != nil {
		return f.GetUserByIDFn(ctx, db, id)
	}
	return nil, ErrNotFound
}

func (f *FakeRepository) GetUserByUsername(ctx context.Context, db bun.IDB, username string) (*User, error) {
	if f.GetUserByUsernameFn != nil {
		return f.GetUserByUsernameFn(ctx, db, username)
	}
	return nil, ErrNotFound
}

func (f *FakeRepository) ListUsers(ctx context.Context, db bun.IDB) ([]User, error) {
	if f.ListUsersFn != nil {
		return f.ListUsersFn(ctx, db)
	}
	return nil, nil
}

func (f *FakeRepository) UpdatePasswordHash(ctx context.Context, db bun.IDB, id sharedtypes.UserID, hash string) error {
	if f.UpdatePasswordHashFn != nil {
		return f.UpdatePasswordHashFn(ctx, db, id, hash)
	}
	return nil
}

func (f *FakeRepository) DeleteUser(ctx context.Context, db bun.IDB, id sharedtypes.UserID) error {
	if f.DeleteUserFn != nil {
		return f.DeleteUserFn(ctx, db, id)
	}
	return nil
}
