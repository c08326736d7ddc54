package leaderboardmigrations

import (
	"context"
	"fmt"

	"github.com/uptrace/bun"
)

func init() {
	Migrations.MustRegister(func(ctx context.Context, db *bun.DB) error {
		fmt.Println("Creating leaderboard cache tables...")

		_, err := db.ExecContext(ctx, `
			CREATE TABLE IF NOT EXISTS leaderboard_pick_snapshots (
				user_id BIGINT NOT NULL REFERENCES users(id) ON DELETE CASCADE,
				round_number INTEGER NOT NULL REFERENCES rounds(number) ON DELETE CASCADE,
				class VARCHAR(3) NOT NULL,
				rider_name TEXT NOT NULL,
				initials TEXT NOT NULL,
				points INTEGER,
				auto_random BOOLEAN NOT NULL DEFAULT FALSE,
				PRIMARY KEY (user_id, round_number, class)
			);
			CREATE INDEX IF NOT EXISTS idx_lb_snapshots_round ON leaderboard_pick_snapshots(round_number);

			CREATE TABLE IF NOT EXISTS leaderboard_totals (
				user_id BIGINT NOT NULL REFERENCES users(id) ON DELETE CASCADE,
				view_type VARCHAR(16) NOT NULL,
				total_points INTEGER NOT NULL,
				rank INTEGER NOT NULL,
				PRIMARY KEY (user_id, view_type)
			);
			CREATE INDEX IF NOT EXISTS idx_lb_totals_view_rank ON leaderboard_totals(view_type, rank);

			CREATE TABLE IF NOT EXISTS leaderboard_rounds (
				round_number INTEGER PRIMARY KEY REFERENCES rounds(number) ON DELETE CASCADE,
				race_type VARCHAR(3) NOT NULL,
				race_date DATE NOT NULL,
				location TEXT NOT NULL
			);

			CREATE TABLE IF NOT EXISTS leaderboard_meta (
				key TEXT PRIMARY KEY,
				at TIMESTAMPTZ NOT NULL,
				updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
			);
		`)
		if err != nil {
			return fmt.Errorf("failed to create leaderboard cache tables: %w", err)
		}

		fmt.Println("Leaderboard cache tables created successfully!")
		return nil
	}, func(ctx context.Context, db *bun.DB) error {
		fmt.Println("Dropping leaderboard cache tables...")
		_, err := db.ExecContext(ctx, `
			DROP TABLE IF EXISTS leaderboard_meta;
			DROP TABLE IF EXISTS leaderboard_rounds;
			DROP TABLE IF EXISTS leaderboard_totals;
			DROP TABLE IF EXISTS leaderboard_pick_snapshots;
		`)
		if err != nil {
			return fmt.Errorf("failed to drop leaderboard cache tables: %w", err)
		}
		return nil
	})
}
