package scheduledb

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

// NewRepository creates a new schedule repository.
func NewRepository(db bun.IDB) Repository {
	return &Impl{db: db}
}

func (r *Impl) resolveDB(db bun.IDB) bun.IDB {
	if db == nil {
		return r.db
	}
	return db
}

// UpsertRound creates a round or replaces its calendar details.
func (r *Impl) UpsertRound(ctx context.Context, db bun.IDB, round *Round) error {
	db = r.resolveDB(db)
	round.UpdatedAt = time.Now().UTC()
	_, err := db.NewInsert().
		Model(round).
		On("CONFLICT (number) DO UPDATE").
		Set("race_date = EXCLUDED.race_date").
		Set("location = EXCLUDED.location").
		Set("race_type = EXCLUDED.race_type").
		Set("split_mode = EXCLUDED.split_mode").
		Set("updated_at = EXCLUDED.updated_at").
		Exec(ctx)
	if err != nil {
		return fmt.Errorf("scheduledb.UpsertRound: %w", err)
	}
	return nil
}

// DeleteRound removes a round. Picks, results and cached leaderboard rows
// go with it through ON DELETE CASCADE.
func (r *Impl) DeleteRound(ctx context.Context, db bun.IDB, number sharedtypes.RoundNumber) error {
	db = r.resolveDB(db)
	res, err := db.NewDelete().
		Model((*Round)(nil)).
		Where("number = ?", number).
		Exec(ctx)
	if err != nil {
		return fmt.Errorf("scheduledb.DeleteRound: %w", err)
	}
	rows, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("scheduledb.DeleteRound: %w", err)
	}
	if rows == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *Impl) GetRound(ctx context.Context, db bun.IDB, number sharedtypes.RoundNumber) (*Round, error) {
	db = r.resolveDB(db)
	round := new(Round)
	err := db.NewSelect().
		Model(round).
		Where("number = ?", number).
		Scan(ctx)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("scheduledb.GetRound: %w", err)
	}
	return round, nil
}

// ListRounds returns every round ordered by number.
func (r *Impl) ListRounds(ctx context.Context, db bun.IDB) ([]Round, error) {
	db = r.resolveDB(db)
	var rounds []Round
	err := db.NewSelect().
		Model(&rounds).
		Order("number ASC").
		Scan(ctx)
	if err != nil {
		return nil, fmt.Errorf("scheduledb.ListRounds: %w", err)
	}
	return rounds, nil
}

// UpsertRider creates a rider or updates class and active flag by name.
// rider.ID is populated on return.
func (r *Impl) UpsertRider(ctx context.Context, db bun.IDB, rider *Rider) error {
	db = r.resolveDB(db)
	_, err := db.NewInsert().
		Model(rider).
		On("CONFLICT (name) DO UPDATE").
		Set("class = EXCLUDED.class").
		Set("active = EXCLUDED.active").
		Returning("id").
		Exec(ctx)
	if err != nil {
		return fmt.Errorf("scheduledb.UpsertRider: %w", err)
	}
	return nil
}

func (r *Impl) SetRiderActive(ctx context.Context, db bun.IDB, name string, active bool) error {
	db = r.resolveDB(db)
	res, err := db.NewUpdate().
		Model((*Rider)(nil)).
		Set("active = ?", active).
		Where("name = ?", name).
		Exec(ctx)
	if err != nil {
		return fmt.Errorf("scheduledb.SetRiderActive: %w", err)
	}
	rows, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("scheduledb.SetRiderActive: %w", err)
	}
	if rows == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *Impl) GetRiderByName(ctx context.Context, db bun.IDB, name string) (*Rider, error) {
	db = r.resolveDB(db)
	rider := new(Rider)
	err := db.NewSelect().
		Model(rider).
		Where("name = ?", name).
		Scan(ctx)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("scheduledb.GetRiderByName: %w", err)
	}
	return rider, nil
}

// GetRidersByNames returns the riders that exist among names. Missing names
// are silently skipped; callers compare lengths.
func (r *Impl) GetRidersByNames(ctx context.Context, db bun.IDB, names []string) ([]Rider, error) {
	if len(names) == 0 {
		return nil, nil
	}
	db = r.resolveDB(db)
	var riders []Rider
	err := db.NewSelect().
		Model(&riders).
		Where("name IN (?)", bun.In(names)).
		Scan(ctx)
	if err != nil {
		return nil, fmt.Errorf("scheduledb.GetRidersByNames: %w", err)
	}
	return riders, nil
}

// ListRiders returns riders ordered by name, optionally restricted to
// classes and to active riders.
func (r *Impl) ListRiders(ctx context.Context, db bun.IDB, classes []sharedtypes.RiderClass, activeOnly bool) ([]Rider, error) {
	db = r.resolveDB(db)
	var riders []Rider
	q := db.NewSelect().Model(&riders)
	if len(classes) > 0 {
		q = q.Where("class IN (?)", bun.In(classes))
	}
	if activeOnly {
		q = q.Where("active = ?", true)
	}
	if err := q.Order("name ASC").Scan(ctx); err != nil {
		return nil, fmt.Errorf("scheduledb.ListRiders: %w", err)
	}
	return riders, nil
}
