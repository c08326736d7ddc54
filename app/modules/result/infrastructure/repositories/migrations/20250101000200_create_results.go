package resultmigrations

import (
	"context"
	"fmt"

	"github.com/uptrace/bun"
)

func init() {
	Migrations.MustRegister(func(ctx context.Context, db *bun.DB) error {
		fmt.Println("Creating results table...")

		// The position constraint is deferred so a batch can swap two riders
		// inside one transaction.
		_, err := db.ExecContext(ctx, `
			CREATE TABLE IF NOT EXISTS results (
				id BIGSERIAL PRIMARY KEY,
				round_number INTEGER NOT NULL REFERENCES rounds(number) ON DELETE CASCADE,
				class VARCHAR(3) NOT NULL CHECK (class IN ('450', '250')),
				rider_id BIGINT NOT NULL REFERENCES riders(id) ON DELETE CASCADE,
				position INTEGER NOT NULL CHECK (position > 0),
				source TEXT NOT NULL DEFAULT 'manual',
				updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
				CONSTRAINT results_round_class_rider_key UNIQUE (round_number, class, rider_id),
				CONSTRAINT results_round_class_position_key UNIQUE (round_number, class, position)
					DEFERRABLE INITIALLY DEFERRED
			);
			CREATE INDEX IF NOT EXISTS idx_results_rider ON results(rider_id);
		`)
		if err != nil {
			return fmt.Errorf("failed to create results table: %w", err)
		}

		fmt.Println("Results table created successfully!")
		return nil
	}, func(ctx context.Context, db *bun.DB) error {
		fmt.Println("Dropping results table...")
		if _, err := db.ExecContext(ctx, `DROP TABLE IF EXISTS results;`); err != nil {
			return fmt.Errorf("failed to drop results table: %w", err)
		}
		return nil
	})
}
