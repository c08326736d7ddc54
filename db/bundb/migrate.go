package bundb

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/riverqueue/river/riverdriver/riverpgxv5"
	"github.com/riverqueue/river/rivermigrate"
	"github.com/uptrace/bun"
	"github.com/uptrace/bun/migrate"

	leaderboardmigrations "github.com/Black-And-White-Club/moto-pickem/app/modules/leaderboard/infrastructure/repositories/migrations"
	pickmigrations "github.com/Black-And-White-Club/moto-pickem/app/modules/pick/infrastructure/repositories/migrations"
	resultmigrations "github.com/Black-And-White-Club/moto-pickem/app/modules/result/infrastructure/repositories/migrations"
	schedulemigrations "github.com/Black-And-White-Club/moto-pickem/app/modules/schedule/infrastructure/repositories/migrations"
	usermigrations "github.com/Black-And-White-Club/moto-pickem/app/modules/user/infrastructure/repositories/migrations"
)

// ModuleMigrator is one module's migrator.
type ModuleMigrator struct {
	Module   string
	Migrator *migrate.Migrator
}

// Migrators returns a migrator per module in foreign-key order. Each module
// records its groups in its own bun_migrations table.
func Migrators(db *bun.DB) []ModuleMigrator {
	sets := []struct {
		module     string
		migrations *migrate.Migrations
	}{
		{"schedule", schedulemigrations.Migrations},
		{"user", usermigrations.Migrations},
		{"result", resultmigrations.Migrations},
		{"pick", pickmigrations.Migrations},
		{"leaderboard", leaderboardmigrations.Migrations},
	}

	out := make([]ModuleMigrator, 0, len(sets))
	for _, s := range sets {
		out = append(out, ModuleMigrator{
			Module: s.module,
			Migrator: migrate.NewMigrator(db, s.migrations,
				migrate.WithTableName("bun_migrations_"+s.module),
				migrate.WithLocksTableName("bun_migration_locks_"+s.module),
			),
		})
	}
	return out
}

// MigrateAll initializes and applies every module's pending migrations.
func MigrateAll(ctx context.Context, db *bun.DB, logger *slog.Logger) error {
	for _, m := range Migrators(db) {
		if err := m.Migrator.Init(ctx); err != nil {
			return fmt.Errorf("init migrations for %s: %w", m.Module, err)
		}
		group, err := m.Migrator.Migrate(ctx)
		if err != nil {
			return fmt.Errorf("migrate %s: %w", m.Module, err)
		}
		if group.IsZero() {
			logger.InfoContext(ctx, "No new migrations", slog.String("module", m.Module))
			continue
		}
		logger.InfoContext(ctx, "Migrated module",
			slog.String("module", m.Module),
			slog.String("group", group.String()),
		)
	}
	return nil
}

// MigrateRiver applies River's own schema.
func MigrateRiver(ctx context.Context, dsn string, logger *slog.Logger) error {
	pool, err := pgxpool.New(ctx, dsn)
	if err != nil {
		return fmt.Errorf("failed to create pgx pool: %w", err)
	}
	defer pool.Close()

	migrator, err := rivermigrate.New(riverpgxv5.New(pool), &rivermigrate.Config{Logger: logger})
	if err != nil {
		return fmt.Errorf("failed to create river migrator: %w", err)
	}

	res, err := migrator.Migrate(ctx, rivermigrate.DirectionUp, nil)
	if err != nil {
		return fmt.Errorf("failed to migrate river schema: %w", err)
	}
	for _, v := range res.Versions {
		logger.InfoContext(ctx, "Applied river migration", slog.Int("version", v.Version))
	}
	return nil
}
