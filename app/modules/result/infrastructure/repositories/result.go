package resultdb

import (
	"context"
	"errors"
	"fmt"
	"time"

	sharedtypes "github.com/Black-And-White-Club/moto-pickem/app/shared/types"
	"github.com/uptrace/bun"
	"github.com/uptrace/bun/driver/pgdriver"
)

const positionConstraint = "results_round_class_position_key"

// Impl implements Repository using Bun ORM.
type Impl struct {
	db bun.IDB
}

// NewRepository creates a new result repository.
func NewRepository(db bun.IDB) Repository {
	return &Impl{db: db}
}

func (r *Impl) resolveDB(db bun.IDB) bun.IDB {
	if db == nil {
		return r.db
	}
	return db
}

func (r *Impl) GetResults(ctx context.Context, db bun.IDB, round sharedtypes.RoundNumber, class sharedtypes.PickClass) ([]Result, error) {
	db = r.resolveDB(db)
	var rows []Result
	err := db.NewSelect().
		Model(&rows).
		ColumnExpr("res.*").
		ColumnExpr("rdr.name AS rider_name").
		Join("JOIN riders AS rdr ON rdr.id = res.rider_id").
		Where("res.round_number = ?", round).
		Where("res.class = ?", class).
		Order("res.position ASC").
		Scan(ctx)
	if err != nil {
		return nil, fmt.Errorf("resultdb.GetResults: %w", err)
	}
	return rows, nil
}

func (r *Impl) UpsertResults(ctx context.Context, db bun.IDB, rows []Result) error {
	if len(rows) == 0 {
		return nil
	}
	db = r.resolveDB(db)
	now := time.Now().UTC()
	for i := range rows {
		rows[i].UpdatedAt = now
	}
	_, err := db.NewInsert().
		Model(&rows).
		Column("round_number", "class", "rider_id", "position", "source", "updated_at").
		On("CONFLICT (round_number, class, rider_id) DO UPDATE").
		Set("position = EXCLUDED.position").
		Set("source = EXCLUDED.source").
		Set("updated_at = EXCLUDED.updated_at").
		Exec(ctx)
	if err != nil {
		if IsPositionConflict(err) {
			return ErrPositionConflict
		}
		return fmt.Errorf("resultdb.UpsertResults: %w", err)
	}
	return nil
}

func (r *Impl) DeleteResultsExcept(ctx context.Context, db bun.IDB, round sharedtypes.RoundNumber, class sharedtypes.PickClass, keep []int64) (int, error) {
	db = r.resolveDB(db)
	q := db.NewDelete().
		Model((*Result)(nil)).
		Where("round_number = ?", round).
		Where("class = ?", class)
	if len(keep) > 0 {
		q = q.Where("rider_id NOT IN (?)", bun.In(keep))
	}
	res, err := q.Exec(ctx)
	if err != nil {
		return 0, fmt.Errorf("resultdb.DeleteResultsExcept: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("resultdb.DeleteResultsExcept: %w", err)
	}
	return int(n), nil
}

func (r *Impl) HistoryBefore(ctx context.Context, db bun.IDB, round sharedtypes.RoundNumber) ([]HistoricalResult, error) {
	db = r.resolveDB(db)
	var rows []HistoricalResult
	err := db.NewSelect().
		TableExpr("results AS res").
		ColumnExpr("res.round_number, res.class, res.rider_id, res.position").
		ColumnExpr("rdr.name AS rider_name").
		Join("JOIN riders AS rdr ON rdr.id = res.rider_id").
		Where("res.round_number < ?", round).
		OrderExpr("res.round_number ASC, res.class ASC, res.position ASC").
		Scan(ctx, &rows)
	if err != nil {
		return nil, fmt.Errorf("resultdb.HistoryBefore: %w", err)
	}
	return rows, nil
}

// IsPositionConflict reports whether err is the unique (round, class,
// position) violation, which may surface at commit since the constraint is
// deferred.
func IsPositionConflict(err error) bool {
	if errors.Is(err, ErrPositionConflict) {
		return true
	}
	var pgErr pgdriver.Error
	return errors.As(err, &pgErr) &&
		pgErr.Field('C') == "23505" &&
		pgErr.Field('n') == positionConstraint
}
