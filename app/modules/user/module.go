package user

import (
	"context"
	"sync"

	"github.com/Black-And-White-Club/moto-pickem/app/eventbus"
	userservice "github.com/Black-And-White-Club/moto-pickem/app/modules/user/application"
	userdb "github.com/Black-And-White-Club/moto-pickem/app/modules/user/infrastructure/repositories"
	"github.com/Black-And-White-Club/moto-pickem/app/shared/observability"
	"github.com/Black-And-White-Club/moto-pickem/config"
	"github.com/uptrace/bun"
)

// Module represents the user module.
type Module struct {
	UserService   userservice.Service
	Repo          userdb.Repository
	observability observability.Observability
	cancelFunc    context.CancelFunc
}

// NewUserModule initializes the user module.
func NewUserModule(
	ctx context.Context,
	cfg *config.Config,
	obs observability.Observability,
	db *bun.DB,
	eventBus eventbus.EventBus,
) (*Module, error) {
	logger := obs.Logger
	logger.InfoContext(ctx, "user.NewUserModule called")

	repo := userdb.NewRepository(db)
	service := userservice.NewUserService(repo, eventBus, logger, obs.Metrics, obs.Tracer, db, cfg.League.BcryptCost)

	return &Module{
		UserService:   service,
		Repo:          repo,
		observability: obs,
	}, nil
}

// Run starts the user module.
func (m *Module) Run(ctx context.Context, wg *sync.WaitGroup) {
	logger := m.observability.Logger
	logger.InfoContext(ctx, "Starting user module")

	ctx, cancel := context.WithCancel(ctx)
	m.cancelFunc = cancel
	defer cancel()

	if wg != nil {
		defer wg.Done()
	}

	<-ctx.Done()
	logger.InfoContext(ctx, "User module goroutine stopped")
}

// Close stops the user module.
func (m *Module) Close() error {
	if m.cancelFunc != nil {
		m.cancelFunc()
	}
	m.observability.Logger.Info("User module stopped")
	return nil
}
