package main

import (
	"context"
	"fmt"
	"os"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/Black-And-White-Club/moto-pickem/app"
	pickservice "github.com/Black-And-White-Club/moto-pickem/app/modules/pick/application"
	resultservice "github.com/Black-And-White-Club/moto-pickem/app/modules/result/application"
	scheduleservice "github.com/Black-And-White-Club/moto-pickem/app/modules/schedule/application"
	scheduledomain "github.com/Black-And-White-Club/moto-pickem/app/modules/schedule/domain"
	"github.com/Black-And-White-Club/moto-pickem/app/shared/clock"
	sharedtypes "github.com/Black-And-White-Club/moto-pickem/app/shared/types"
	"github.com/urfave/cli/v2"
)

func table() *tabwriter.Writer {
	return tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
}

func roundFlag(required bool) *cli.IntFlag {
	return &cli.IntFlag{Name: "round", Aliases: []string{"r"}, Usage: "round number", Required: required}
}

func classFlag() *cli.StringFlag {
	return &cli.StringFlag{Name: "class", Usage: "450 or 250", Required: true}
}

func pickClass(c *cli.Context) (sharedtypes.PickClass, error) {
	class := sharedtypes.PickClass(c.String("class"))
	if !class.Valid() {
		return "", fmt.Errorf("invalid class %q", class)
	}
	return class, nil
}

func recalcCommand() *cli.Command {
	return &cli.Command{
		Name:  "recalc",
		Usage: "rebuild the leaderboard cache",
		Action: func(c *cli.Context) error {
			return withApp(c, func(ctx context.Context, a *app.App) error {
				sum, err := outcome(a.Modules.Leaderboard.LeaderboardService.TriggerRecalculation(ctx))
				if err != nil {
					return err
				}
				fmt.Printf("Recalculated at %s: %d visible rounds, %d users, %d picks\n",
					sum.At.Format(time.RFC3339), sum.VisibleRounds, sum.Users, sum.Snapshots)
				return nil
			})
		},
	}
}

func sweepCommand() *cli.Command {
	return &cli.Command{
		Name:  "sweep",
		Usage: "assign auto-picks for one locked round, or for every locked round",
		Flags: []cli.Flag{roundFlag(false)},
		Action: func(c *cli.Context) error {
			return withApp(c, func(ctx context.Context, a *app.App) error {
				picks := a.Modules.Pick.PickService

				var summaries []pickservice.SweepSummary
				if c.IsSet("round") {
					sum, err := outcome(picks.RunAutoPickSweep(ctx, sharedtypes.RoundNumber(c.Int("round"))))
					if err != nil {
						return err
					}
					summaries = append(summaries, *sum)
				} else {
					var err error
					if summaries, err = picks.SweepLockedRounds(ctx); err != nil {
						return err
					}
				}

				w := table()
				fmt.Fprintln(w, "ROUND\tUSER\tCLASS\tRIDER\tTIER")
				for _, sum := range summaries {
					for _, p := range sum.Assigned {
						fmt.Fprintf(w, "%d\t%d\t%s\t%s\t%s\n", sum.Round, p.UserID, p.Class, p.Rider, p.Tier)
					}
				}
				return w.Flush()
			})
		},
	}
}

func leaderboardCommand() *cli.Command {
	return &cli.Command{
		Name:  "leaderboard",
		Usage: "print the cached standings",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "view", Value: string(sharedtypes.ViewOverall), Usage: "overall, SX, MX or SMX"},
		},
		Action: func(c *cli.Context) error {
			return withApp(c, func(ctx context.Context, a *app.App) error {
				view, err := sharedtypes.ParseViewType(c.String("view"))
				if err != nil {
					return err
				}
				lb, err := outcome(a.Modules.Leaderboard.LeaderboardService.GetLeaderboard(ctx, view))
				if err != nil {
					return err
				}
				if !lb.Built {
					fmt.Println("Leaderboard has not been calculated yet; run `pickem recalc`.")
					return nil
				}
				if lb.Stale {
					fmt.Println("Picks or results changed since the last recalculation.")
				}

				w := table()
				fmt.Fprintln(w, "RANK\tUSER\tPOINTS")
				for _, row := range lb.Standings {
					fmt.Fprintf(w, "%d\t%s\t%d\n", row.Rank, row.Username, row.Total)
				}
				return w.Flush()
			})
		},
	}
}

func roundCommand() *cli.Command {
	return &cli.Command{
		Name:  "round",
		Usage: "manage the season calendar",
		Subcommands: []*cli.Command{
			{
				Name:  "list",
				Usage: "list rounds with their deadlines",
				Action: func(c *cli.Context) error {
					return withApp(c, func(ctx context.Context, a *app.App) error {
						rounds, err := a.Modules.Schedule.ScheduleService.ListRounds(ctx)
						if err != nil {
							return err
						}
						w := table()
						fmt.Fprintln(w, "ROUND\tDATE\tTYPE\tSPLIT\tLOCATION\tDEADLINE\tLOCKED")
						for _, r := range rounds {
							fmt.Fprintf(w, "%d\t%s\t%s\t%s\t%s\t%s\t%t\n",
								r.Number, r.RaceDate.Format(time.DateOnly), r.RaceType, r.SplitMode,
								r.Location, r.Deadline.Format(time.RFC3339), r.Locked)
						}
						return w.Flush()
					})
				},
			},
			{
				Name:  "upsert",
				Usage: "create or update a round",
				Flags: []cli.Flag{
					roundFlag(true),
					&cli.StringFlag{Name: "date", Required: true, Usage: `race date, e.g. 2025-01-11 or "next saturday"`},
					&cli.StringFlag{Name: "location", Required: true, Usage: `venue with state, e.g. "Anaheim, CA"`},
					&cli.StringFlag{Name: "type", Required: true, Usage: "SX, MX or SMX"},
					&cli.StringFlag{Name: "split", Value: string(sharedtypes.SplitCombined), Usage: "east, west or combined"},
				},
				Action: func(c *cli.Context) error {
					return withApp(c, func(ctx context.Context, a *app.App) error {
						date, err := scheduledomain.ParseRaceDate(c.String("date"), clock.Real{})
						if err != nil {
							return err
						}
						info, err := outcome(a.Modules.Schedule.ScheduleService.UpsertRound(ctx, scheduleservice.RoundInput{
							Number:    sharedtypes.RoundNumber(c.Int("round")),
							RaceDate:  date,
							Location:  c.String("location"),
							RaceType:  sharedtypes.RaceType(strings.ToUpper(c.String("type"))),
							SplitMode: sharedtypes.SplitMode(strings.ToLower(c.String("split"))),
						}))
						if err != nil {
							return err
						}
						fmt.Printf("Round %d saved: %s %s, picks lock %s (%s)\n",
							info.Number, info.RaceDate.Format(time.DateOnly), info.Location,
							info.Deadline.Format(time.RFC3339), info.Timezone)
						return nil
					})
				},
			},
			{
				Name:  "delete",
				Usage: "delete a round with its picks and results",
				Flags: []cli.Flag{roundFlag(true)},
				Action: func(c *cli.Context) error {
					return withApp(c, func(ctx context.Context, a *app.App) error {
						n, err := outcome(a.Modules.Schedule.ScheduleService.DeleteRound(ctx, sharedtypes.RoundNumber(c.Int("round"))))
						if err != nil {
							return err
						}
						fmt.Printf("Round %d deleted\n", *n)
						return nil
					})
				},
			},
		},
	}
}

func riderCommand() *cli.Command {
	return &cli.Command{
		Name:  "rider",
		Usage: "manage the rider roster",
		Subcommands: []*cli.Command{
			{
				Name:  "list",
				Usage: "list riders",
				Flags: []cli.Flag{
					&cli.BoolFlag{Name: "active", Usage: "only active riders"},
				},
				Action: func(c *cli.Context) error {
					return withApp(c, func(ctx context.Context, a *app.App) error {
						riders, err := a.Modules.Schedule.ScheduleService.ListRiders(ctx, nil, c.Bool("active"))
						if err != nil {
							return err
						}
						w := table()
						fmt.Fprintln(w, "NAME\tCLASS\tACTIVE")
						for _, r := range riders {
							fmt.Fprintf(w, "%s\t%s\t%t\n", r.Name, r.Class, r.Active)
						}
						return w.Flush()
					})
				},
			},
			{
				Name:  "upsert",
				Usage: "add a rider or change their class",
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "name", Required: true},
					&cli.StringFlag{Name: "class", Required: true, Usage: "450, 250E or 250W"},
					&cli.BoolFlag{Name: "inactive", Usage: "add the rider as inactive"},
				},
				Action: func(c *cli.Context) error {
					return withApp(c, func(ctx context.Context, a *app.App) error {
						r, err := outcome(a.Modules.Schedule.ScheduleService.UpsertRider(ctx, scheduleservice.RiderInput{
							Name:   c.String("name"),
							Class:  sharedtypes.RiderClass(strings.ToUpper(c.String("class"))),
							Active: !c.Bool("inactive"),
						}))
						if err != nil {
							return err
						}
						fmt.Printf("Rider %s saved in %s (active=%t)\n", r.Name, r.Class, r.Active)
						return nil
					})
				},
			},
			{
				Name:      "set-active",
				Usage:     "activate or deactivate a rider",
				ArgsUsage: "<name>",
				Flags: []cli.Flag{
					&cli.BoolFlag{Name: "active", Value: true},
				},
				Action: func(c *cli.Context) error {
					name := strings.Join(c.Args().Slice(), " ")
					if name == "" {
						return fmt.Errorf("rider name is required")
					}
					return withApp(c, func(ctx context.Context, a *app.App) error {
						if err := a.Modules.Schedule.ScheduleService.SetRiderActive(ctx, name, c.Bool("active")); err != nil {
							return err
						}
						fmt.Printf("Rider %s active=%t\n", name, c.Bool("active"))
						return nil
					})
				},
			},
		},
	}
}

func resultsCommand() *cli.Command {
	return &cli.Command{
		Name:  "results",
		Usage: "enter, import or show finishing positions",
		Subcommands: []*cli.Command{
			{
				Name:      "enter",
				Usage:     "store positions given as \"Rider Name=position\" arguments",
				ArgsUsage: `"Eli Tomac=1" "Cooper Webb=2" ...`,
				Flags: []cli.Flag{
					roundFlag(true),
					classFlag(),
					&cli.BoolFlag{Name: "replace", Usage: "remove stored riders missing from this batch"},
				},
				Action: func(c *cli.Context) error {
					class, err := pickClass(c)
					if err != nil {
						return err
					}
					entries, err := parseEntries(c.Args().Slice())
					if err != nil {
						return err
					}
					return withApp(c, func(ctx context.Context, a *app.App) error {
						sum, err := outcome(a.Modules.Result.ResultService.EnterResults(ctx, resultservice.EnterResultsRequest{
							Round:   sharedtypes.RoundNumber(c.Int("round")),
							Class:   class,
							Entries: entries,
							Replace: c.Bool("replace"),
							Source:  "cli",
						}))
						if err != nil {
							return err
						}
						fmt.Printf("Stored %d results, removed %d\n", sum.Written, sum.Removed)
						return nil
					})
				},
			},
			{
				Name:  "import",
				Usage: "fetch positions from the configured results source",
				Flags: []cli.Flag{roundFlag(true), classFlag()},
				Action: func(c *cli.Context) error {
					class, err := pickClass(c)
					if err != nil {
						return err
					}
					return withApp(c, func(ctx context.Context, a *app.App) error {
						sum, err := outcome(a.Modules.Result.ResultService.ImportResults(ctx, sharedtypes.RoundNumber(c.Int("round")), class))
						if err != nil {
							return err
						}
						fmt.Printf("Batch %s: fetched %d, stored %d\n", sum.BatchID, sum.FetchedEntries, sum.Written)
						if len(sum.UnknownRiders) > 0 {
							fmt.Printf("Unknown riders skipped: %s\n", strings.Join(sum.UnknownRiders, ", "))
						}
						return nil
					})
				},
			},
			{
				Name:  "show",
				Usage: "print stored positions with points",
				Flags: []cli.Flag{roundFlag(true), classFlag()},
				Action: func(c *cli.Context) error {
					class, err := pickClass(c)
					if err != nil {
						return err
					}
					return withApp(c, func(ctx context.Context, a *app.App) error {
						views, err := a.Modules.Result.ResultService.GetResults(ctx, sharedtypes.RoundNumber(c.Int("round")), class)
						if err != nil {
							return err
						}
						w := table()
						fmt.Fprintln(w, "POS\tRIDER\tPOINTS")
						for _, v := range views {
							fmt.Fprintf(w, "%d\t%s\t%d\n", v.Position, v.Rider, v.Points)
						}
						return w.Flush()
					})
				},
			},
		},
	}
}

func userCommand() *cli.Command {
	return &cli.Command{
		Name:  "user",
		Usage: "manage players",
		Subcommands: []*cli.Command{
			{
				Name:  "create",
				Usage: "register a player",
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "username", Required: true},
					&cli.StringFlag{Name: "email", Required: true},
					&cli.StringFlag{Name: "password", Required: true, EnvVars: []string{"PICKEM_USER_PASSWORD"}},
				},
				Action: func(c *cli.Context) error {
					return withApp(c, func(ctx context.Context, a *app.App) error {
						u, err := outcome(a.Modules.User.UserService.RegisterUser(ctx, c.String("username"), c.String("email"), c.String("password")))
						if err != nil {
							return err
						}
						fmt.Printf("User %s created with id %d\n", u.Username, u.ID)
						return nil
					})
				},
			},
			{
				Name:  "list",
				Usage: "list players",
				Action: func(c *cli.Context) error {
					return withApp(c, func(ctx context.Context, a *app.App) error {
						users, err := a.Modules.User.UserService.ListUsers(ctx)
						if err != nil {
							return err
						}
						w := table()
						fmt.Fprintln(w, "ID\tUSERNAME\tEMAIL\tADMIN")
						for _, u := range users {
							fmt.Fprintf(w, "%d\t%s\t%s\t%t\n", u.ID, u.Username, u.Email, u.IsAdmin)
						}
						return w.Flush()
					})
				},
			},
			{
				Name:  "reset-password",
				Usage: "set a new password for a player",
				Flags: []cli.Flag{
					&cli.Int64Flag{Name: "id", Required: true},
					&cli.StringFlag{Name: "password", Required: true, EnvVars: []string{"PICKEM_USER_PASSWORD"}},
				},
				Action: func(c *cli.Context) error {
					return withApp(c, func(ctx context.Context, a *app.App) error {
						id, err := outcome(a.Modules.User.UserService.ResetPassword(ctx, sharedtypes.UserID(c.Int64("id")), c.String("password")))
						if err != nil {
							return err
						}
						fmt.Printf("Password reset for user %d\n", *id)
						return nil
					})
				},
			},
			{
				Name:  "delete",
				Usage: "delete a player and their picks",
				Flags: []cli.Flag{
					&cli.Int64Flag{Name: "id", Required: true},
				},
				Action: func(c *cli.Context) error {
					return withApp(c, func(ctx context.Context, a *app.App) error {
						id, err := outcome(a.Modules.User.UserService.DeleteUser(ctx, sharedtypes.UserID(c.Int64("id"))))
						if err != nil {
							return err
						}
						fmt.Printf("User %d deleted\n", *id)
						return nil
					})
				},
			},
		},
	}
}
