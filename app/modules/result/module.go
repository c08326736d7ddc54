package result

import (
	"context"
	"sync"

	"github.com/Black-And-White-Club/moto-pickem/app/eventbus"
	resultservice "github.com/Black-And-White-Club/moto-pickem/app/modules/result/application"
	resultdomain "github.com/Black-And-White-Club/moto-pickem/app/modules/result/domain"
	resultadapters "github.com/Black-And-White-Club/moto-pickem/app/modules/result/infrastructure/adapters"
	"github.com/Black-And-White-Club/moto-pickem/app/modules/result/infrastructure/importer"
	resultdb "github.com/Black-And-White-Club/moto-pickem/app/modules/result/infrastructure/repositories"
	scheduledb "github.com/Black-And-White-Club/moto-pickem/app/modules/schedule/infrastructure/repositories"
	"github.com/Black-And-White-Club/moto-pickem/app/shared/attr"
	"github.com/Black-And-White-Club/moto-pickem/app/shared/observability"
	"github.com/Black-And-White-Club/moto-pickem/config"
	"github.com/uptrace/bun"
)

// Module represents the results module.
type Module struct {
	ResultService resultservice.Service
	Repo          resultdb.Repository
	observability observability.Observability
	cancelFunc    context.CancelFunc
}

// NewResultModule initializes the results module. Importing is enabled
// when cfg.Results.ImportURL is set.
func NewResultModule(
	ctx context.Context,
	cfg *config.Config,
	obs observability.Observability,
	db *bun.DB,
	eventBus eventbus.EventBus,
	scheduleRepo scheduledb.Repository,
	table resultdomain.PointsTable,
) (*Module, error) {
	logger := obs.Logger
	logger.InfoContext(ctx, "result.NewResultModule called")

	repo := resultdb.NewRepository(db)

	opts := []resultservice.Option{resultservice.WithImportTimeout(cfg.Results.ImportTimeout)}
	if src := importer.NewSource(cfg.Results.ImportURL, cfg.Results.ImportTimeout, logger); src != nil {
		opts = append(opts, resultservice.WithSource(src))
		logger.InfoContext(ctx, "Results import enabled", attr.String("source", cfg.Results.ImportURL))
	}

	service := resultservice.NewResultService(
		repo,
		resultadapters.NewScheduleReaderAdapter(scheduleRepo),
		table,
		eventBus,
		logger,
		obs.Metrics,
		obs.Tracer,
		db,
		opts...,
	)

	return &Module{
		ResultService: service,
		Repo:          repo,
		observability: obs,
	}, nil
}

// Run starts the results module.
func (m *Module) Run(ctx context.Context, wg *sync.WaitGroup) {
	logger := m.observability.Logger
	logger.InfoContext(ctx, "Starting result module")

	ctx, cancel := context.WithCancel(ctx)
	m.cancelFunc = cancel
	defer cancel()

	if wg != nil {
		defer wg.Done()
	}

	<-ctx.Done()
	logger.InfoContext(ctx, "Result module goroutine stopped")
}

// Close stops the results module.
func (m *Module) Close() error {
	if m.cancelFunc != nil {
		m.cancelFunc()
	}
	m.observability.Logger.Info("Result module stopped")
	return nil
}
