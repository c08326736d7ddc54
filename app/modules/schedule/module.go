package schedule

import (
	"context"
	"sync"

	scheduleservice "github.com/Black-And-White-Club/moto-pickem/app/modules/schedule/application"
	scheduledomain "github.com/Black-And-White-Club/moto-pickem/app/modules/schedule/domain"
	scheduledb "github.com/Black-And-White-Club/moto-pickem/app/modules/schedule/infrastructure/repositories"
	"github.com/Black-And-White-Club/moto-pickem/app/shared/clock"
	"github.com/Black-And-White-Club/moto-pickem/app/shared/observability"
	"github.com/uptrace/bun"
)

// Module represents the schedule and rider registry module.
type Module struct {
	ScheduleService scheduleservice.Service
	Repo            scheduledb.Repository
	observability   observability.Observability
	cancelFunc      context.CancelFunc
}

// NewScheduleModule creates a new instance of the schedule module.
func NewScheduleModule(
	ctx context.Context,
	obs observability.Observability,
	db *bun.DB,
	resolver *scheduledomain.DeadlineResolver,
	clk clock.Clock,
) (*Module, error) {
	logger := obs.Logger
	logger.InfoContext(ctx, "schedule.NewScheduleModule called")

	repo := scheduledb.NewRepository(db)
	service := scheduleservice.NewScheduleService(repo, resolver, clk, logger, obs.Metrics, obs.Tracer, db)

	return &Module{
		ScheduleService: service,
		Repo:            repo,
		observability:   obs,
	}, nil
}

// Run starts the schedule module.
func (m *Module) Run(ctx context.Context, wg *sync.WaitGroup) {
	logger := m.observability.Logger
	logger.InfoContext(ctx, "Starting schedule module")

	ctx, cancel := context.WithCancel(ctx)
	m.cancelFunc = cancel
	defer cancel()

	if wg != nil {
		defer wg.Done()
	}

	<-ctx.Done()
	logger.InfoContext(ctx, "Schedule module goroutine stopped")
}

// Close stops the schedule module.
func (m *Module) Close() error {
	if m.cancelFunc != nil {
		m.cancelFunc()
	}
	m.observability.Logger.Info("Schedule module stopped")
	return nil
}
