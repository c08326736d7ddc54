package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/Black-And-White-Club/moto-pickem/config"
	"github.com/Black-And-White-Club/moto-pickem/db/bundb"
	"github.com/uptrace/bun"
	"github.com/uptrace/bun/migrate"
	"github.com/urfave/cli/v2"
)

func openDB(c *cli.Context) (*config.Config, *bun.DB, error) {
	cfg, err := loadConfig(c)
	if err != nil {
		return nil, nil, err
	}
	db, err := bundb.NewBunDB(c.Context, cfg.Postgres.DSN)
	if err != nil {
		return nil, nil, err
	}
	return cfg, db, nil
}

func migrateAll(ctx context.Context, cfg *config.Config) error {
	logger := slog.New(slog.NewTextHandler(os.Stdout, nil))

	db, err := bundb.NewBunDB(ctx, cfg.Postgres.DSN)
	if err != nil {
		return err
	}
	defer db.Close()

	if err := bundb.MigrateAll(ctx, db, logger); err != nil {
		return err
	}
	if cfg.League.DisableQueue {
		return nil
	}
	return bundb.MigrateRiver(ctx, cfg.Postgres.DSN, logger)
}

// eachMigrator runs fn for every module in dependency order, or in reverse
// when reverse is set.
func eachMigrator(c *cli.Context, reverse bool, fn func(module string, m *migrate.Migrator) error) error {
	_, db, err := openDB(c)
	if err != nil {
		return err
	}
	defer db.Close()

	migrators := bundb.Migrators(db)
	for i := range migrators {
		m := migrators[i]
		if reverse {
			m = migrators[len(migrators)-1-i]
		}
		if err := fn(m.Module, m.Migrator); err != nil {
			return err
		}
	}
	return nil
}

func findMigrator(db *bun.DB, module string) (*migrate.Migrator, error) {
	for _, m := range bundb.Migrators(db) {
		if m.Module == module {
			return m.Migrator, nil
		}
	}
	return nil, fmt.Errorf("invalid module name: %s", module)
}

func migrateCommand() *cli.Command {
	return &cli.Command{
		Name:  "migrate",
		Usage: "database migrations",
		Subcommands: []*cli.Command{
			{
				Name:  "init",
				Usage: "create migration tables",
				Action: func(c *cli.Context) error {
					return eachMigrator(c, false, func(module string, m *migrate.Migrator) error {
						fmt.Printf("Initializing migrations for module: %s\n", module)
						if err := m.Init(c.Context); err != nil {
							return fmt.Errorf("init %s: %w", module, err)
						}
						return nil
					})
				},
			},
			{
				Name:  "migrate",
				Usage: "migrate database",
				Action: func(c *cli.Context) error {
					return eachMigrator(c, false, func(module string, m *migrate.Migrator) error {
						fmt.Printf("Running migrations for module: %s\n", module)
						if err := m.Lock(c.Context); err != nil {
							return err
						}
						defer m.Unlock(c.Context) //nolint:errcheck

						group, err := m.Migrate(c.Context)
						if err != nil {
							return err
						}
						if group.IsZero() {
							fmt.Printf("No new migrations to run for module: %s\n", module)
						} else {
							fmt.Printf("Migrated module: %s to %s\n", module, group)
						}
						return nil
					})
				},
			},
			{
				Name:  "rollback",
				Usage: "rollback the last migration group of every module",
				Action: func(c *cli.Context) error {
					return eachMigrator(c, true, func(module string, m *migrate.Migrator) error {
						fmt.Printf("Rolling back migrations for module: %s\n", module)
						if err := m.Lock(c.Context); err != nil {
							return err
						}
						defer m.Unlock(c.Context) //nolint:errcheck

						group, err := m.Rollback(c.Context)
						if err != nil {
							return err
						}
						if group.IsZero() {
							fmt.Printf("No groups to roll back for module: %s\n", module)
						} else {
							fmt.Printf("Rolled back module: %s to %s\n", module, group)
						}
						return nil
					})
				},
			},
			{
				Name:  "status",
				Usage: "print migrations status",
				Action: func(c *cli.Context) error {
					return eachMigrator(c, false, func(module string, m *migrate.Migrator) error {
						ms, err := m.MigrationsWithStatus(c.Context)
						if err != nil {
							return err
						}
						fmt.Printf("Migrations for module: %s\n", module)
						fmt.Printf("  %s\n", ms)
						fmt.Printf("  Applied: %s\n", ms.Applied())
						fmt.Printf("  Unapplied: %s\n", ms.Unapplied())
						return nil
					})
				},
			},
			{
				Name:      "create_go",
				Usage:     "create Go migration",
				ArgsUsage: "<module> <name words...>",
				Action: func(c *cli.Context) error {
					_, db, err := openDB(c)
					if err != nil {
						return err
					}
					defer db.Close()

					moduleName := c.Args().First()
					migrator, err := findMigrator(db, moduleName)
					if err != nil {
						return err
					}

					name := strings.Join(c.Args().Tail(), "_")
					mf, err := migrator.CreateGoMigration(c.Context, name)
					if err != nil {
						return err
					}
					fmt.Printf("Created migration for module %s: %s (%s)\n", moduleName, mf.Name, mf.Path)
					return nil
				},
			},
			{
				Name:  "river",
				Usage: "apply the River job queue schema",
				Action: func(c *cli.Context) error {
					cfg, err := loadConfig(c)
					if err != nil {
						return err
					}
					return bundb.MigrateRiver(c.Context, cfg.Postgres.DSN, slog.New(slog.NewTextHandler(os.Stdout, nil)))
				},
			},
			{
				Name:  "all",
				Usage: "init and apply every module's migrations and the River schema",
				Action: func(c *cli.Context) error {
					cfg, err := loadConfig(c)
					if err != nil {
						return err
					}
					return migrateAll(c.Context, cfg)
				},
			},
		},
	}
}
