package pick

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/Black-And-White-Club/moto-pickem/app/eventbus"
	pickservice "github.com/Black-And-White-Club/moto-pickem/app/modules/pick/application"
	pickadapters "github.com/Black-And-White-Club/moto-pickem/app/modules/pick/infrastructure/adapters"
	pickqueue "github.com/Black-And-White-Club/moto-pickem/app/modules/pick/infrastructure/queue"
	pickdb "github.com/Black-And-White-Club/moto-pickem/app/modules/pick/infrastructure/repositories"
	pickscheduler "github.com/Black-And-White-Club/moto-pickem/app/modules/pick/infrastructure/scheduler"
	picksubscribers "github.com/Black-And-White-Club/moto-pickem/app/modules/pick/infrastructure/subscribers"
	resultdomain "github.com/Black-And-White-Club/moto-pickem/app/modules/result/domain"
	resultdb "github.com/Black-And-White-Club/moto-pickem/app/modules/result/infrastructure/repositories"
	scheduledomain "github.com/Black-And-White-Club/moto-pickem/app/modules/schedule/domain"
	scheduledb "github.com/Black-And-White-Club/moto-pickem/app/modules/schedule/infrastructure/repositories"
	userdb "github.com/Black-And-White-Club/moto-pickem/app/modules/user/infrastructure/repositories"
	"github.com/Black-And-White-Club/moto-pickem/app/shared/attr"
	"github.com/Black-And-White-Club/moto-pickem/app/shared/clock"
	"github.com/Black-And-White-Club/moto-pickem/app/shared/observability"
	"github.com/Black-And-White-Club/moto-pickem/config"
	"github.com/uptrace/bun"
)

// Module represents the pick module: the validator and store, the
// auto-pick assigner, and the jobs that run it at each deadline.
type Module struct {
	PickService   pickservice.Service
	Repo          pickdb.Repository
	Queue         pickqueue.QueueService
	scheduler     *pickscheduler.Scheduler
	observability observability.Observability
	cancelFunc    context.CancelFunc
}

// NewPickModule initializes the pick module. River is skipped when
// cfg.League.DisableQueue is set; the cron sweep then assigns auto-picks
// on its own.
func NewPickModule(
	ctx context.Context,
	cfg *config.Config,
	obs observability.Observability,
	db *bun.DB,
	eventBus eventbus.EventBus,
	resolver *scheduledomain.DeadlineResolver,
	clk clock.Clock,
	table resultdomain.PointsTable,
	scheduleRepo scheduledb.Repository,
	resultRepo resultdb.Repository,
	userRepo userdb.Repository,
) (*Module, error) {
	logger := obs.Logger
	logger.InfoContext(ctx, "pick.NewPickModule called")

	repo := pickdb.NewRepository(db)
	service := pickservice.NewPickService(
		repo,
		pickadapters.NewScheduleReaderAdapter(scheduleRepo),
		pickadapters.NewHistoryReaderAdapter(resultRepo),
		pickadapters.NewUserDirectoryAdapter(userRepo),
		resolver,
		clk,
		table,
		eventBus,
		logger,
		obs.Metrics,
		obs.Tracer,
		db,
	)

	module := &Module{
		PickService:   service,
		Repo:          repo,
		observability: obs,
	}

	var planner pickscheduler.Planner
	if !cfg.League.DisableQueue {
		queue, err := pickqueue.NewService(ctx, db, logger, cfg.Postgres.DSN, obs.Metrics, service)
		if err != nil {
			return nil, fmt.Errorf("failed to create pick queue: %w", err)
		}
		module.Queue = queue
		planner = queue

		if err := picksubscribers.NewRoundDeletedSubscriber(eventBus, queue, logger).Start(ctx); err != nil {
			return nil, err
		}
	}

	module.scheduler = pickscheduler.NewScheduler(service, planner, cfg.League.SweepCron, logger)
	return module, nil
}

// Run starts the queue and the sweep schedule and blocks until ctx is done.
func (m *Module) Run(ctx context.Context, wg *sync.WaitGroup) {
	logger := m.observability.Logger
	logger.InfoContext(ctx, "Starting pick module")

	ctx, cancel := context.WithCancel(ctx)
	m.cancelFunc = cancel
	defer cancel()

	if wg != nil {
		defer wg.Done()
	}

	if m.Queue != nil {
		if err := m.Queue.Start(ctx); err != nil {
			logger.ErrorContext(ctx, "Pick queue failed to start", attr.Error(err))
		}
	}
	if err := m.scheduler.Start(ctx); err != nil {
		logger.ErrorContext(ctx, "Pick scheduler failed to start", attr.Error(err))
	}

	<-ctx.Done()
	logger.InfoContext(ctx, "Pick module goroutine stopped")
}

// Close stops the sweep schedule and drains the queue.
func (m *Module) Close() error {
	logger := m.observability.Logger
	logger.Info("Stopping pick module")

	if m.cancelFunc != nil {
		m.cancelFunc()
	}
	m.scheduler.Stop()

	if m.Queue != nil {
		stopCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := m.Queue.Stop(stopCtx); err != nil {
			logger.Error("Error stopping pick queue", attr.Error(err))
			return fmt.Errorf("error stopping pick queue: %w", err)
		}
	}

	logger.Info("Pick module stopped")
	return nil
}
