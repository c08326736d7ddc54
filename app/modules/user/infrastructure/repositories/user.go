package userdb

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	sharedtypes "github.com/Black-And-White-Club/moto-pickem/app/shared/types"
	"github.com/uptrace/bun"
	"github.com/uptrace/bun/driver/pgdriver"
)

// Impl implements Repository using Bun ORM.
type Impl struct {
	db bun.IDB
}

// NewRepository creates a new user repository.
func NewRepository(db bun.IDB) Repository {
	return &Impl{db: db}
}

func (r *Impl) resolveDB(db bun.IDB) bun.IDB {
	if db == nil {
		return r.db
	}
	return db
}

// CreateUser inserts user and populates its ID.
func (r *Impl) CreateUser(ctx context.Context, db bun.IDB, user *User) error {
	db = r.resolveDB(db)
	_, err := db.NewInsert().
		Model(user).
		Returning("id, created_at").
		Exec(ctx)
	if err != nil {
		if isUniqueViolation(err) {
			return ErrDuplicateUsername
		}
		return fmt.Errorf("userdb.CreateUser: %w", err)
	}
	return nil
}

func (r *Impl) GetUserByID(ctx context.Context, db bun.IDB, id sharedtypes.UserID) (*User, error) {
	db = r.resolveDB(db)
	user := new(User)
	err := db.NewSelect().Model(user).Where("id = ?", id).Scan(ctx)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("userdb.GetUserByID: %w", err)
	}
	return user, nil
}

func (r *Impl) GetUserByUsername(ctx context.Context, db bun.IDB, username string) (*User, error) {
	db = r.resolveDB(db)
	user := new(User)
	err := db.NewSelect().Model(user).Where("username = ?", username).Scan(ctx)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("userdb.GetUserByUsername: %w", err)
	}
	return user, nil
}

// ListUsers returns every user ordered by id.
func (r *Impl) ListUsers(ctx context.Context, db bun.IDB) ([]User, error) {
	db = r.resolveDB(db)
	var users []User
	if err := db.NewSelect().Model(&users).Order("id ASC").Scan(ctx); err != nil {
		return nil, fmt.Errorf("userdb.ListUsers: %w", err)
	}
	return users, nil
}

func (r *Impl) UpdatePasswordHash(ctx context.Context, db bun.IDB, id sharedtypes.UserID, hash string) error {
	db = r.resolveDB(db)
	res, err := db.NewUpdate().
		Model((*User)(nil)).
		Set("password_hash = ?", hash).
		Set("updated_at = ?", time.Now().UTC()).
		Where("id = ?", id).
		Exec(ctx)
	if err != nil {
		return fmt.Errorf("userdb.UpdatePasswordHash: %w", err)
	}
	return expectRow(res)
}

func (r *Impl) DeleteUser(ctx context.Context, db bun.IDB, id sharedtypes.UserID) error {
	db = r.resolveDB(db)
	res, err := db.NewDelete().Model((*User)(nil)).Where("id = ?", id).Exec(ctx)
	if err != nil {
		return fmt.Errorf("userdb.DeleteUser: %w", err)
	}
	return expectRow(res)
}

func expectRow(res sql.Result) error {
	rows, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rows == 0 {
		return ErrNotFound
	}
	return nil
}

func isUniqueViolation(err error) bool {
	var pgErr pgdriver.Error
	return errors.As(err, &pgErr) && pgErr.Field('C') == "23505"
}
