package leaderboard

import (
	"context"
	"fmt"
	"sync"

	"github.com/Black-And-White-Club/moto-pickem/app/eventbus"
	leaderboardservice "github.com/Black-And-White-Club/moto-pickem/app/modules/leaderboard/application"
	leaderboardadapters "github.com/Black-And-White-Club/moto-pickem/app/modules/leaderboard/infrastructure/adapters"
	leaderboardcache "github.com/Black-And-White-Club/moto-pickem/app/modules/leaderboard/infrastructure/cache"
	leaderboarddb "github.com/Black-And-White-Club/moto-pickem/app/modules/leaderboard/infrastructure/repositories"
	leaderboardsubscribers "github.com/Black-And-White-Club/moto-pickem/app/modules/leaderboard/infrastructure/subscribers"
	pickdb "github.com/Black-And-White-Club/moto-pickem/app/modules/pick/infrastructure/repositories"
	resultdomain "github.com/Black-And-White-Club/moto-pickem/app/modules/result/domain"
	resultdb "github.com/Black-And-White-Club/moto-pickem/app/modules/result/infrastructure/repositories"
	scheduledomain "github.com/Black-And-White-Club/moto-pickem/app/modules/schedule/domain"
	scheduledb "github.com/Black-And-White-Club/moto-pickem/app/modules/schedule/infrastructure/repositories"
	userdb "github.com/Black-And-White-Club/moto-pickem/app/modules/user/infrastructure/repositories"
	"github.com/Black-And-White-Club/moto-pickem/app/shared/attr"
	"github.com/Black-And-White-Club/moto-pickem/app/shared/clock"
	"github.com/Black-And-White-Club/moto-pickem/app/shared/observability"
	"github.com/Black-And-White-Club/moto-pickem/config"
	"github.com/redis/go-redis/v9"
	"github.com/uptrace/bun"
)

// Module represents the leaderboard module.
type Module struct {
	LeaderboardService leaderboardservice.Service
	Repo               leaderboarddb.Repository
	redis              *redis.Client
	observability      observability.Observability
	cancelFunc         context.CancelFunc
}

// NewLeaderboardModule creates the leaderboard module and starts tracking
// data changes. The Redis view cache is used when cfg.Redis.Addr is set.
func NewLeaderboardModule(
	ctx context.Context,
	cfg *config.Config,
	obs observability.Observability,
	db *bun.DB,
	eventBus eventbus.EventBus,
	resolver *scheduledomain.DeadlineResolver,
	clk clock.Clock,
	table resultdomain.PointsTable,
	scheduleRepo scheduledb.Repository,
	pickRepo pickdb.Repository,
	resultRepo resultdb.Repository,
	userRepo userdb.Repository,
) (*Module, error) {
	logger := obs.Logger
	logger.InfoContext(ctx, "leaderboard.NewLeaderboardModule called")

	module := &Module{observability: obs}

	var opts []leaderboardservice.Option
	if cfg.Redis.Addr != "" {
		client, err := leaderboardcache.Connect(ctx, cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB)
		if err != nil {
			return nil, err
		}
		module.redis = client
		opts = append(opts, leaderboardservice.WithCache(leaderboardcache.NewRedisCache(client, cfg.Redis.TTL)))
		logger.InfoContext(ctx, "Leaderboard view cache enabled", attr.String("redis_addr", cfg.Redis.Addr))
	}

	repo := leaderboarddb.NewRepository(db)
	service := leaderboardservice.NewLeaderboardService(
		repo,
		leaderboardadapters.NewScheduleReaderAdapter(scheduleRepo),
		leaderboardadapters.NewPickReaderAdapter(pickRepo),
		leaderboardadapters.NewResultReaderAdapter(resultRepo),
		leaderboardadapters.NewMemberDirectoryAdapter(userRepo),
		resolver,
		clk,
		table,
		eventBus,
		logger,
		obs.Metrics,
		obs.Tracer,
		db,
		opts...,
	)
	module.LeaderboardService = service
	module.Repo = repo

	if err := leaderboardsubscribers.NewStaleTracker(eventBus, service, logger).Start(ctx); err != nil {
		module.closeRedis()
		return nil, fmt.Errorf("failed to start stale tracker: %w", err)
	}

	return module, nil
}

// Run starts the leaderboard module.
func (m *Module) Run(ctx context.Context, wg *sync.WaitGroup) {
	logger := m.observability.Logger
	logger.InfoContext(ctx, "Starting leaderboard module")

	ctx, cancel := context.WithCancel(ctx)
	m.cancelFunc = cancel
	defer cancel()

	if wg != nil {
		defer wg.Done()
	}

	<-ctx.Done()
	logger.InfoContext(ctx, "Leaderboard module goroutine stopped")
}

// Close stops the leaderboard module and cleans up resources.
func (m *Module) Close() error {
	if m.cancelFunc != nil {
		m.cancelFunc()
	}
	if err := m.closeRedis(); err != nil {
		m.observability.Logger.Error("Error closing redis client", attr.Error(err))
		return fmt.Errorf("error closing redis client: %w", err)
	}
	m.observability.Logger.Info("Leaderboard module stopped")
	return nil
}

func (m *Module) closeRedis() error {
	if m.redis == nil {
		return nil
	}
	return m.redis.Close()
}
