package pickdb

import (
	"context"
	"errors"
	"fmt"

	sharedtypes "github.com/Black-And-White-Club/moto-pickem/app/shared/types"
	"github.com/uptrace/bun"
	"github.com/uptrace/bun/driver/pgdriver"
)

// Impl implements Repository using Bun ORM.
type Impl struct {
	db bun.IDB
}

// NewRepository creates a new pick repository.
func NewRepository(db bun.IDB) Repository {
	return &Impl{db: db}
}

func (r *Impl) resolveDB(db bun.IDB) bun.IDB {
	if db == nil {
		return r.db
	}
	return db
}

func (r *Impl) selectWithRider(db bun.IDB, picks *[]Pick) *bun.SelectQuery {
	return db.NewSelect().
		Model(picks).
		ColumnExpr("pk.*").
		ColumnExpr("rdr.name AS rider_name").
		Join("JOIN riders AS rdr ON rdr.id = pk.rider_id")
}

func (r *Impl) GetPicks(ctx context.Context, db bun.IDB, userID sharedtypes.UserID, round sharedtypes.RoundNumber) ([]Pick, error) {
	db = r.resolveDB(db)
	var picks []Pick
	err := r.selectWithRider(db, &picks).
		Where("pk.user_id = ?", userID).
		Where("pk.round_number = ?", round).
		Order("pk.class DESC").
		Scan(ctx)
	if err != nil {
		return nil, fmt.Errorf("pickdb.GetPicks: %w", err)
	}
	return picks, nil
}

func (r *Impl) PicksInRounds(ctx context.Context, db bun.IDB, userID sharedtypes.UserID, rounds []sharedtypes.RoundNumber) ([]Pick, error) {
	if len(rounds) == 0 {
		return nil, nil
	}
	db = r.resolveDB(db)
	var picks []Pick
	err := r.selectWithRider(db, &picks).
		Where("pk.user_id = ?", userID).
		Where("pk.round_number IN (?)", bun.In(rounds)).
		Order("pk.round_number ASC", "pk.class DESC").
		Scan(ctx)
	if err != nil {
		return nil, fmt.Errorf("pickdb.PicksInRounds: %w", err)
	}
	return picks, nil
}

func (r *Impl) PicksForRounds(ctx context.Context, db bun.IDB, rounds []sharedtypes.RoundNumber) ([]Pick, error) {
	if len(rounds) == 0 {
		return nil, nil
	}
	db = r.resolveDB(db)
	var picks []Pick
	err := r.selectWithRider(db, &picks).
		Where("pk.round_number IN (?)", bun.In(rounds)).
		Order("pk.round_number ASC", "pk.user_id ASC", "pk.class DESC").
		Scan(ctx)
	if err != nil {
		return nil, fmt.Errorf("pickdb.PicksForRounds: %w", err)
	}
	return picks, nil
}

func (r *Impl) RoundPicks(ctx context.Context, db bun.IDB, round sharedtypes.RoundNumber) ([]Pick, error) {
	db = r.resolveDB(db)
	var picks []Pick
	err := r.selectWithRider(db, &picks).
		Where("pk.round_number = ?", round).
		Order("pk.user_id ASC", "pk.class DESC").
		Scan(ctx)
	if err != nil {
		return nil, fmt.Errorf("pickdb.RoundPicks: %w", err)
	}
	return picks, nil
}

func (r *Impl) ReplacePicks(ctx context.Context, db bun.IDB, userID sharedtypes.UserID, round sharedtypes.RoundNumber, picks []Pick) error {
	db = r.resolveDB(db)
	// Concurrent replacements for one user queue on the user row.
	if _, err := db.NewSelect().
		Table("users").
		Column("id").
		Where("id = ?", userID).
		For("UPDATE").
		Exec(ctx); err != nil {
		return fmt.Errorf("pickdb.ReplacePicks: lock: %w", err)
	}
	if _, err := db.NewDelete().
		Model((*Pick)(nil)).
		Where("user_id = ?", userID).
		Where("round_number = ?", round).
		Exec(ctx); err != nil {
		return fmt.Errorf("pickdb.ReplacePicks: delete: %w", err)
	}
	if len(picks) == 0 {
		return nil
	}
	if _, err := db.NewInsert().
		Model(&picks).
		Column("user_id", "round_number", "class", "rider_id", "auto_random").
		On("CONFLICT (user_id, round_number, class) DO UPDATE").
		Set("rider_id = EXCLUDED.rider_id").
		Set("auto_random = EXCLUDED.auto_random").
		Returning("id, created_at").
		Exec(ctx); err != nil {
		return fmt.Errorf("pickdb.ReplacePicks: insert: %w", err)
	}
	return nil
}

func (r *Impl) InsertPick(ctx context.Context, db bun.IDB, pick *Pick) error {
	db = r.resolveDB(db)
	res, err := db.NewInsert().
		Model(pick).
		Column("user_id", "round_number", "class", "rider_id", "auto_random").
		On("CONFLICT (user_id, round_number, class) DO NOTHING").
		Exec(ctx)
	if err != nil {
		if isUniqueViolation(err) {
			return ErrPickExists
		}
		return fmt.Errorf("pickdb.InsertPick: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("pickdb.InsertPick: %w", err)
	}
	if n == 0 {
		return ErrPickExists
	}
	return nil
}

func isUniqueViolation(err error) bool {
	var pgErr pgdriver.Error
	return errors.As(err, &pgErr) && pgErr.Field('C') == "23505"
}
