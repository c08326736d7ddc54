package app

import (
	"context"
	"fmt"
	"sync"

	"github.com/Black-And-White-Club/moto-pickem/app/api"
	"github.com/Black-And-White-Club/moto-pickem/app/eventbus"
	"github.com/Black-And-White-Club/moto-pickem/app/modules/leaderboard"
	"github.com/Black-And-White-Club/moto-pickem/app/modules/pick"
	"github.com/Black-And-White-Club/moto-pickem/app/modules/result"
	resultdomain "github.com/Black-And-White-Club/moto-pickem/app/modules/result/domain"
	"github.com/Black-And-White-Club/moto-pickem/app/modules/schedule"
	scheduledomain "github.com/Black-And-White-Club/moto-pickem/app/modules/schedule/domain"
	"github.com/Black-And-White-Club/moto-pickem/app/modules/user"
	"github.com/Black-And-White-Club/moto-pickem/app/shared/attr"
	"github.com/Black-And-White-Club/moto-pickem/app/shared/clock"
	"github.com/Black-And-White-Club/moto-pickem/app/shared/observability"
	"github.com/Black-And-White-Club/moto-pickem/config"
	"github.com/Black-And-White-Club/moto-pickem/db/bundb"
	"github.com/uptrace/bun"
)

// runnable is what every module exposes to the app.
type runnable interface {
	Run(ctx context.Context, wg *sync.WaitGroup)
	Close() error
}

// Modules holds the league modules.
type Modules struct {
	Schedule    *schedule.Module
	User        *user.Module
	Result      *result.Module
	Pick        *pick.Module
	Leaderboard *leaderboard.Module
}

type App struct {
	Cfg           *config.Config
	Observability observability.Observability
	EventBus      eventbus.EventBus
	Modules       Modules
	Handlers      *api.Handlers
	db            *bun.DB
	ownsDB        bool
	wg            sync.WaitGroup
}

// NewApp connects to Postgres and builds every module.
func NewApp(ctx context.Context, cfg *config.Config) (*App, error) {
	obs := observability.New(cfg.Observability)

	db, err := bundb.NewBunDB(ctx, cfg.Postgres.DSN)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize database: %w", err)
	}

	app, err := newApp(ctx, cfg, obs, db, clock.Real{})
	if err != nil {
		_ = db.Close()
		return nil, err
	}
	app.ownsDB = true
	return app, nil
}

// NewAppWithDB builds every module on an already open database, reading the
// current time from clk. Close leaves db open.
func NewAppWithDB(ctx context.Context, cfg *config.Config, obs observability.Observability, db *bun.DB, clk clock.Clock) (*App, error) {
	return newApp(ctx, cfg, obs, db, clk)
}

func newApp(ctx context.Context, cfg *config.Config, obs observability.Observability, db *bun.DB, clk clock.Clock) (*App, error) {
	table, err := resultdomain.TableByVersion(cfg.League.ScoringTable)
	if err != nil {
		return nil, err
	}
	resolver, err := scheduledomain.NewDeadlineResolver(cfg.League.DefaultTimezone)
	if err != nil {
		return nil, err
	}

	bus := eventbus.NewEventBus(obs.Logger)

	scheduleModule, err := schedule.NewScheduleModule(ctx, obs, db, resolver, clk)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize schedule module: %w", err)
	}
	userModule, err := user.NewUserModule(ctx, cfg, obs, db, bus)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize user module: %w", err)
	}
	resultModule, err := result.NewResultModule(ctx, cfg, obs, db, bus, scheduleModule.Repo, table)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize result module: %w", err)
	}
	pickModule, err := pick.NewPickModule(ctx, cfg, obs, db, bus, resolver, clk, table,
		scheduleModule.Repo, resultModule.Repo, userModule.Repo)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize pick module: %w", err)
	}
	leaderboardModule, err := leaderboard.NewLeaderboardModule(ctx, cfg, obs, db, bus, resolver, clk, table,
		scheduleModule.Repo, pickModule.Repo, resultModule.Repo, userModule.Repo)
	if err != nil {
		_ = pickModule.Close()
		return nil, fmt.Errorf("failed to initialize leaderboard module: %w", err)
	}

	modules := Modules{
		Schedule:    scheduleModule,
		User:        userModule,
		Result:      resultModule,
		Pick:        pickModule,
		Leaderboard: leaderboardModule,
	}

	obs.Logger.InfoContext(ctx, "Application initialized",
		attr.String("scoring_table", cfg.League.ScoringTable),
		attr.Bool("queue", !cfg.League.DisableQueue),
	)

	return &App{
		Cfg:           cfg,
		Observability: obs,
		EventBus:      bus,
		Modules:       modules,
		Handlers: api.NewHandlers(
			scheduleModule.ScheduleService,
			pickModule.PickService,
			resultModule.ResultService,
			leaderboardModule.LeaderboardService,
			userModule.UserService,
			clk,
			obs.Logger,
		),
		db: db,
	}, nil
}

// DB returns the database handle.
func (app *App) DB() *bun.DB {
	return app.db
}

func (app *App) runnables() []runnable {
	return []runnable{
		app.Modules.Schedule,
		app.Modules.User,
		app.Modules.Result,
		app.Modules.Pick,
		app.Modules.Leaderboard,
	}
}

// RunModules starts every module's background work.
func (app *App) RunModules(ctx context.Context) {
	for _, m := range app.runnables() {
		app.wg.Add(1)
		go m.Run(ctx, &app.wg)
	}
}

// Close stops the modules and the event bus, then closes the database when
// NewApp opened it.
func (app *App) Close() error {
	logger := app.Observability.Logger

	var firstErr error
	for _, m := range app.runnables() {
		if err := m.Close(); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	app.wg.Wait()

	if err := app.EventBus.Close(); err != nil {
		logger.Error("Error closing event bus", attr.Error(err))
		if firstErr == nil {
			firstErr = err
		}
	}
	if !app.ownsDB {
		return firstErr
	}
	if err := app.db.Close(); err != nil {
		logger.Error("Error closing database connection", attr.Error(err))
		if firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}
