package schedulemigrations

import (
	"context"
	"fmt"

	"github.com/uptrace/bun"
)

func init() {
	Migrations.MustRegister(func(ctx context.Context, db *bun.DB) error {
		fmt.Println("Creating rounds and riders tables...")

		return db.RunInTx(ctx, nil, func(ctx context.Context, tx bun.Tx) error {
			if _, err := tx.ExecContext(ctx, `
				CREATE TABLE IF NOT EXISTS rounds (
					number INTEGER PRIMARY KEY CHECK (number > 0),
					race_date DATE NOT NULL,
					location TEXT NOT NULL,
					race_type VARCHAR(3) NOT NULL CHECK (race_type IN ('SX', 'MX', 'SMX')),
					split_mode VARCHAR(8) NOT NULL CHECK (split_mode IN ('east', 'west', 'combined')),
					created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
					updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
				);
			`); err != nil {
				return fmt.Errorf("failed to create rounds table: %w", err)
			}

			if _, err := tx.ExecContext(ctx, `
				CREATE TABLE IF NOT EXISTS riders (
					id BIGSERIAL PRIMARY KEY,
					name TEXT NOT NULL UNIQUE,
					class VARCHAR(4) NOT NULL CHECK (class IN ('450', '250E', '250W')),
					active BOOLEAN NOT NULL DEFAULT TRUE,
					created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
				);
				CREATE INDEX IF NOT EXISTS idx_riders_class_active ON riders(class, active);
			`); err != nil {
				return fmt.Errorf("failed to create riders table: %w", err)
			}

			fmt.Println("rounds and riders tables created successfully!")
			return nil
		})
	}, func(ctx context.Context, db *bun.DB) error {
		fmt.Println("Dropping rounds and riders tables...")
		if _, err := db.ExecContext(ctx, `DROP TABLE IF EXISTS riders CASCADE; DROP TABLE IF EXISTS rounds CASCADE;`); err != nil {
			return fmt.Errorf("failed to drop schedule tables: %w", err)
		}
		return nil
	})
}
