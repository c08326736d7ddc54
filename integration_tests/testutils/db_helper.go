package testutils

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/Black-And-White-Club/moto-pickem/db/bundb"
	"github.com/uptrace/bun"
)

// appTables lists every league table; TRUNCATE ... CASCADE clears the
// leaderboard cache through its foreign keys as well.
var appTables = []string{
	"leaderboard_meta",
	"picks",
	"results",
	"riders",
	"rounds",
	"users",
}

// runMigrations applies River's schema and then every module migrator.
func runMigrations(ctx context.Context, db *bun.DB, dsn string, logger *slog.Logger) error {
	if err := bundb.MigrateRiver(ctx, dsn, logger); err != nil {
		return fmt.Errorf("failed to run River migrations: %w", err)
	}
	if err := bundb.MigrateAll(ctx, db, logger); err != nil {
		return fmt.Errorf("failed to run module migrations: %w", err)
	}
	return nil
}

// TruncateTables truncates the named tables and restarts their sequences.
func TruncateTables(ctx context.Context, db *bun.DB, tables ...string) error {
	if len(tables) == 0 {
		return nil
	}
	quoted := make([]string, len(tables))
	for i, t := range tables {
		quoted[i] = fmt.Sprintf(`"%s"`, t)
	}
	query := fmt.Sprintf("TRUNCATE TABLE %s RESTART IDENTITY CASCADE", strings.Join(quoted, ", "))
	if _, err := db.ExecContext(ctx, query); err != nil {
		return fmt.Errorf("failed to truncate tables %v: %w", tables, err)
	}
	return nil
}

// CleanupRiverJobs deletes all jobs from the River queue.
func CleanupRiverJobs(ctx context.Context, db *bun.DB) error {
	_, err := db.ExecContext(ctx, "DELETE FROM river_job")
	return err
}

// CleanupDatabase resets the league tables and the job queue.
func CleanupDatabase(ctx context.Context, db *bun.DB) error {
	if err := TruncateTables(ctx, db, appTables...); err != nil {
		return err
	}
	if err := CleanupRiverJobs(ctx, db); err != nil && !strings.Contains(err.Error(), "does not exist") {
		return fmt.Errorf("failed to cleanup river jobs: %w", err)
	}
	return nil
}
