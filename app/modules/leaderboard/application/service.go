package leaderboardservice

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"time"

	"github.com/Black-And-White-Club/moto-pickem/app/eventbus"
	leaderboarddb "github.com/Black-And-White-Club/moto-pickem/app/modules/leaderboard/infrastructure/repositories"
	resultdomain "github.com/Black-And-White-Club/moto-pickem/app/modules/result/domain"
	scheduledomain "github.com/Black-And-White-Club/moto-pickem/app/modules/schedule/domain"
	"github.com/Black-And-White-Club/moto-pickem/app/shared/attr"
	"github.com/Black-And-White-Club/moto-pickem/app/shared/clock"
	"github.com/Black-And-White-Club/moto-pickem/app/shared/metrics"
	"github.com/Black-And-White-Club/moto-pickem/app/shared/results"
	"github.com/uptrace/bun"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

const serviceName = "leaderboard"

// LeaderboardService implements the Service interface.
type LeaderboardService struct {
	repo     leaderboarddb.Repository
	schedule ScheduleReader
	picks    PickReader
	finishes ResultReader
	members  MemberDirectory
	resolver *scheduledomain.DeadlineResolver
	clock    clock.Clock
	table    resultdomain.PointsTable
	cache    ViewCache
	eventBus eventbus.EventBus
	logger   *slog.Logger
	metrics  metrics.OperationMetrics
	tracer   trace.Tracer
	db       *bun.DB
}

// Option configures a LeaderboardService.
type Option func(*LeaderboardService)

// WithCache enables the read-through view cache.
func WithCache(c ViewCache) Option {
	return func(s *LeaderboardService) { s.cache = c }
}

// NewLeaderboardService creates a new LeaderboardService.
func NewLeaderboardService(
	repo leaderboarddb.Repository,
	schedule ScheduleReader,
	picks PickReader,
	finishes ResultReader,
	members MemberDirectory,
	resolver *scheduledomain.DeadlineResolver,
	clk clock.Clock,
	table resultdomain.PointsTable,
	eventBus eventbus.EventBus,
	logger *slog.Logger,
	m metrics.OperationMetrics,
	tracer trace.Tracer,
	db *bun.DB,
	opts ...Option,
) *LeaderboardService {
	s := &LeaderboardService{
		repo:     repo,
		schedule: schedule,
		picks:    picks,
		finishes: finishes,
		members:  members,
		resolver: resolver,
		clock:    clk,
		table:    table,
		eventBus: eventBus,
		logger:   logger,
		metrics:  m,
		tracer:   tracer,
		db:       db,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

type operationFunc[S any, F any] func(ctx context.Context) (results.OperationResult[S, F], error)

// withTelemetry wraps a service operation with tracing, metrics, and panic recovery.
func withTelemetry[S any, F any](
	s *LeaderboardService,
	ctx context.Context,
	operationName string,
	view string,
	op operationFunc[S, F],
) (result results.OperationResult[S, F], err error) {
	ctx, span := s.tracer.Start(ctx, operationName, trace.WithAttributes(
		attribute.String("operation", operationName),
		attribute.String("view", view),
	))
	defer span.End()

	s.metrics.RecordOperationAttempt(ctx, operationName, serviceName)
	startTime := time.Now()
	defer func() {
		s.metrics.RecordOperationDuration(ctx, operationName, serviceName, time.Since(startTime))
	}()

	s.logger.InfoContext(ctx, operationName+" triggered",
		attr.String("operation", operationName),
		attr.String("view", view),
		attr.ExtractCorrelationID(ctx),
	)

	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("panic in %s: %v", operationName, r)
			s.logger.ErrorContext(ctx, "Critical panic recovered",
				attr.String("view", view),
				attr.Error(err),
			)
			s.metrics.RecordOperationFailure(ctx, operationName, serviceName)
			span.RecordError(err)
			result = results.OperationResult[S, F]{}
		}
	}()

	result, err = op(ctx)
	if err != nil {
		wrappedErr := fmt.Errorf("%s: %w", operationName, err)
		s.logger.ErrorContext(ctx, "Operation failed with error",
			attr.String("operation", operationName),
			attr.String("view", view),
			attr.ExtractCorrelationID(ctx),
			attr.Error(wrappedErr),
		)
		s.metrics.RecordOperationFailure(ctx, operationName, serviceName)
		span.RecordError(wrappedErr)
		return result, wrappedErr
	}

	if result.IsFailure() {
		s.logger.WarnContext(ctx, "Operation returned failure result",
			attr.String("operation", operationName),
			attr.Any("failure_payload", *result.Failure),
		)
	}
	if result.IsSuccess() {
		s.metrics.RecordOperationSuccess(ctx, operationName, serviceName)
	}
	return result, nil
}

// runInTx runs fn in a transaction with the given options. Without a
// database fn gets a nil IDB and repositories fall back to their own handle.
func runInTx[S any, F any](
	s *LeaderboardService,
	ctx context.Context,
	opts *sql.TxOptions,
	fn func(ctx context.Context, db bun.IDB) (results.OperationResult[S, F], error),
) (results.OperationResult[S, F], error) {
	if s.db == nil {
		return fn(ctx, nil)
	}

	var result results.OperationResult[S, F]
	err := s.db.RunInTx(ctx, opts, func(ctx context.Context, tx bun.Tx) error {
		var txErr error
		result, txErr = fn(ctx, tx)
		return txErr
	})
	return result, err
}

// readSnapshot reads the cache tables from one consistent snapshot so a
// concurrent rebuild is either fully visible or not at all.
var readSnapshot = &sql.TxOptions{Isolation: sql.LevelRepeatableRead, ReadOnly: true}

func (s *LeaderboardService) invalidateCache(ctx context.Context) {
	if s.cache == nil {
		return
	}
	if err := s.cache.Invalidate(ctx); err != nil {
		s.logger.WarnContext(ctx, "Failed to invalidate leaderboard cache", attr.Error(err))
	}
}
