package leaderboarddb

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	sharedtypes "github.com/Black-And-White-Club/moto-pickem/app/shared/types"
	"github.com/uptrace/bun"
)

// Impl implements Repository using Bun ORM.
type Impl struct {
	db bun.IDB
}

// NewRepository creates a new leaderboard repository.
func NewRepository(db bun.IDB) Repository {
	return &Impl{db: db}
}

func (r *Impl) resolveDB(db bun.IDB) bun.IDB {
	if db == nil {
		return r.db
	}
	return db
}

func (r *Impl) ReplaceCache(ctx context.Context, db bun.IDB, rounds []VisibleRound, snapshots []PickSnapshot, totals []Total) error {
	db = r.resolveDB(db)

	for _, model := range []any{(*PickSnapshot)(nil), (*Total)(nil), (*VisibleRound)(nil)} {
		if _, err := db.NewDelete().Model(model).Where("TRUE").Exec(ctx); err != nil {
			return fmt.Errorf("leaderboarddb.ReplaceCache: clear: %w", err)
		}
	}

	if len(rounds) > 0 {
		if _, err := db.NewInsert().Model(&rounds).Exec(ctx); err != nil {
			return fmt.Errorf("leaderboarddb.ReplaceCache: rounds: %w", err)
		}
	}
	if len(snapshots) > 0 {
		if _, err := db.NewInsert().Model(&snapshots).Exec(ctx); err != nil {
			return fmt.Errorf("leaderboarddb.ReplaceCache: snapshots: %w", err)
		}
	}
	if len(totals) > 0 {
		if _, err := db.NewInsert().Model(&totals).Exec(ctx); err != nil {
			return fmt.Errorf("leaderboarddb.ReplaceCache: totals: %w", err)
		}
	}
	return nil
}

func (r *Impl) GetTotals(ctx context.Context, db bun.IDB, view sharedtypes.ViewType) ([]Total, error) {
	db = r.resolveDB(db)
	var totals []Total
	err := db.NewSelect().
		Model(&totals).
		ColumnExpr("lt.*").
		ColumnExpr("u.username AS username").
		Join("JOIN users AS u ON u.id = lt.user_id").
		Where("lt.view_type = ?", view).
		Order("lt.rank ASC", "u.username ASC").
		Scan(ctx)
	if err != nil {
		return nil, fmt.Errorf("leaderboarddb.GetTotals: %w", err)
	}
	return totals, nil
}

func (r *Impl) GetSnapshots(ctx context.Context, db bun.IDB, rounds []sharedtypes.RoundNumber) ([]PickSnapshot, error) {
	if len(rounds) == 0 {
		return nil, nil
	}
	db = r.resolveDB(db)
	var snaps []PickSnapshot
	err := db.NewSelect().
		Model(&snaps).
		Where("lps.round_number IN (?)", bun.In(rounds)).
		Order("lps.user_id ASC", "lps.round_number ASC", "lps.class DESC").
		Scan(ctx)
	if err != nil {
		return nil, fmt.Errorf("leaderboarddb.GetSnapshots: %w", err)
	}
	return snaps, nil
}

func (r *Impl) GetRounds(ctx context.Context, db bun.IDB, raceType sharedtypes.RaceType) ([]VisibleRound, error) {
	db = r.resolveDB(db)
	var rounds []VisibleRound
	q := db.NewSelect().Model(&rounds)
	if raceType != "" {
		q = q.Where("lr.race_type = ?", raceType)
	}
	if err := q.Order("lr.round_number ASC").Scan(ctx); err != nil {
		return nil, fmt.Errorf("leaderboarddb.GetRounds: %w", err)
	}
	return rounds, nil
}

func (r *Impl) SetTime(ctx context.Context, db bun.IDB, key string, at time.Time) error {
	db = r.resolveDB(db)
	meta := &Meta{Key: key, At: at.UTC(), UpdatedAt: time.Now().UTC()}
	_, err := db.NewInsert().
		Model(meta).
		On("CONFLICT (key) DO UPDATE").
		Set("at = EXCLUDED.at").
		Set("updated_at = EXCLUDED.updated_at").
		Exec(ctx)
	if err != nil {
		return fmt.Errorf("leaderboarddb.SetTime: %w", err)
	}
	return nil
}

func (r *Impl) AdvanceTime(ctx context.Context, db bun.IDB, key string, at time.Time) error {
	db = r.resolveDB(db)
	meta := &Meta{Key: key, At: at.UTC(), UpdatedAt: time.Now().UTC()}
	_, err := db.NewInsert().
		Model(meta).
		On("CONFLICT (key) DO UPDATE").
		Set("at = GREATEST(?TableAlias.at, EXCLUDED.at)").
		Set("updated_at = EXCLUDED.updated_at").
		Exec(ctx)
	if err != nil {
		return fmt.Errorf("leaderboarddb.AdvanceTime: %w", err)
	}
	return nil
}

func (r *Impl) GetTime(ctx context.Context, db bun.IDB, key string) (time.Time, error) {
	db = r.resolveDB(db)
	meta := new(Meta)
	err := db.NewSelect().Model(meta).Where("lm.key = ?", key).Scan(ctx)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return time.Time{}, ErrMetaNotFound
		}
		return time.Time{}, fmt.Errorf("leaderboarddb.GetTime: %w", err)
	}
	return meta.At.UTC(), nil
}
