package pickmigrations

import (
	"context"
	"fmt"

	"github.com/uptrace/bun"
)

func init() {
	Migrations.MustRegister(func(ctx context.Context, db *bun.DB) error {
		fmt.Println("Creating picks table...")

		_, err := db.ExecContext(ctx, `
			CREATE TABLE IF NOT EXISTS picks (
				id BIGSERIAL PRIMARY KEY,
				user_id BIGINT NOT NULL REFERENCES users(id) ON DELETE CASCADE,
				round_number INTEGER NOT NULL REFERENCES rounds(number) ON DELETE CASCADE,
				class VARCHAR(3) NOT NULL CHECK (class IN ('450', '250')),
				rider_id BIGINT NOT NULL REFERENCES riders(id) ON DELETE CASCADE,
				auto_random BOOLEAN NOT NULL DEFAULT FALSE,
				created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
				CONSTRAINT picks_user_round_class_key UNIQUE (user_id, round_number, class)
			);
			CREATE INDEX IF NOT EXISTS idx_picks_round ON picks(round_number);
			CREATE INDEX IF NOT EXISTS idx_picks_user_class_rider ON picks(user_id, class, rider_id);
		`)
		if err != nil {
			return fmt.Errorf("failed to create picks table: %w", err)
		}

		fmt.Println("Picks table created successfully!")
		return nil
	}, func(ctx context.Context, db *bun.DB) error {
		fmt.Println("Dropping picks table...")
		if _, err := db.ExecContext(ctx, `DROP TABLE IF EXISTS picks;`); err != nil {
			return fmt.Errorf("failed to drop picks table: %w", err)
		}
		return nil
	})
}
