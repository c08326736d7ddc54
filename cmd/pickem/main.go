package main

import (
	"context"
	"fmt"
	"log"
	"os"

	"github.com/Black-And-White-Club/moto-pickem/app"
	"github.com/Black-And-White-Club/moto-pickem/app/shared/results"
	"github.com/Black-And-White-Club/moto-pickem/config"
	"github.com/urfave/cli/v2"
)

func main() {
	cliApp := &cli.App{
		Name:  "pickem",
		Usage: "supercross and motocross pick'em league",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "config",
				Aliases: []string{"c"},
				Value:   "config.yaml",
				Usage:   "path to the configuration file",
				EnvVars: []string{"PICKEM_CONFIG"},
			},
		},
		Commands: []*cli.Command{
			serveCommand(),
			migrateCommand(),
			recalcCommand(),
			sweepCommand(),
			leaderboardCommand(),
			roundCommand(),
			riderCommand(),
			resultsCommand(),
			userCommand(),
		},
	}

	if err := cliApp.Run(os.Args); err != nil {
		log.Fatal(err)
	}
}

func loadConfig(c *cli.Context) (*config.Config, error) {
	cfg, err := config.LoadConfig(c.String("config"))
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	return cfg, nil
}

// withApp builds the application for a one-shot command. River is not
// started; the command runs against the services directly.
func withApp(c *cli.Context, fn func(ctx context.Context, a *app.App) error) error {
	cfg, err := loadConfig(c)
	if err != nil {
		return err
	}
	cfg.League.DisableQueue = true

	a, err := app.NewApp(c.Context, cfg)
	if err != nil {
		return err
	}
	defer a.Close()

	return fn(c.Context, a)
}

// outcome folds an operation result into a single error.
func outcome[S any](res results.OperationResult[S, error], err error) (*S, error) {
	if err != nil {
		return nil, err
	}
	if res.IsFailure() {
		return nil, *res.Failure
	}
	if res.Success == nil {
		return nil, fmt.Errorf("empty operation result")
	}
	return res.Success, nil
}

func serveCommand() *cli.Command {
	return &cli.Command{
		Name:  "serve",
		Usage: "run the HTTP API, the auto-pick queue and the sweep schedule",
		Flags: []cli.Flag{
			&cli.BoolFlag{Name: "migrate", Usage: "apply pending migrations before starting"},
		},
		Action: func(c *cli.Context) error {
			cfg, err := loadConfig(c)
			if err != nil {
				return err
			}

			if c.Bool("migrate") {
				if err := migrateAll(c.Context, cfg); err != nil {
					return err
				}
			}

			a, err := app.NewApp(c.Context, cfg)
			if err != nil {
				return err
			}
			return a.Start(c.Context)
		},
	}
}
