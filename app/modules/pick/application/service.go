package pickservice

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"math/rand/v2"
	"sync"
	"time"

	"github.com/Black-And-White-Club/moto-pickem/app/eventbus"
	pickdomain "github.com/Black-And-White-Club/moto-pickem/app/modules/pick/domain"
	pickdb "github.com/Black-And-White-Club/moto-pickem/app/modules/pick/infrastructure/repositories"
	resultdomain "github.com/Black-And-White-Club/moto-pickem/app/modules/result/domain"
	scheduledomain "github.com/Black-And-White-Club/moto-pickem/app/modules/schedule/domain"
	"github.com/Black-And-White-Club/moto-pickem/app/shared/attr"
	"github.com/Black-And-White-Club/moto-pickem/app/shared/clock"
	"github.com/Black-And-White-Club/moto-pickem/app/shared/metrics"
	"github.com/Black-And-White-Club/moto-pickem/app/shared/results"
	sharedtypes "github.com/Black-And-White-Club/moto-pickem/app/shared/types"
	"github.com/uptrace/bun"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

const serviceName = "pick"

// PickService implements the Service interface.
type PickService struct {
	repo     pickdb.Repository
	schedule ScheduleReader
	history  HistoryReader
	users    UserDirectory
	resolver *scheduledomain.DeadlineResolver
	clock    clock.Clock
	table    resultdomain.PointsTable
	eventBus eventbus.EventBus
	logger   *slog.Logger
	metrics  metrics.OperationMetrics
	tracer   trace.Tracer
	db       *bun.DB

	rngMu sync.Mutex
	rng   *rand.Rand
}

// Option configures a PickService.
type Option func(*PickService)

// WithRand replaces the random source used to choose auto-picks.
func WithRand(rng *rand.Rand) Option {
	return func(s *PickService) { s.rng = rng }
}

// NewPickService creates a new PickService.
func NewPickService(
	repo pickdb.Repository,
	schedule ScheduleReader,
	history HistoryReader,
	users UserDirectory,
	resolver *scheduledomain.DeadlineResolver,
	clk clock.Clock,
	table resultdomain.PointsTable,
	eventBus eventbus.EventBus,
	logger *slog.Logger,
	m metrics.OperationMetrics,
	tracer trace.Tracer,
	db *bun.DB,
	opts ...Option,
) *PickService {
	s := &PickService{
		repo:     repo,
		schedule: schedule,
		history:  history,
		users:    users,
		resolver: resolver,
		clock:    clk,
		table:    table,
		eventBus: eventBus,
		logger:   logger,
		metrics:  m,
		tracer:   tracer,
		db:       db,
		rng:      rand.New(rand.NewPCG(uint64(time.Now().UnixNano()), rand.Uint64())),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

type operationFunc[S any, F any] func(ctx context.Context) (results.OperationResult[S, F], error)

// withTelemetry wraps a service operation with tracing, metrics, and panic recovery.
func withTelemetry[S any, F any](
	s *PickService,
	ctx context.Context,
	operationName string,
	userID sharedtypes.UserID,
	round sharedtypes.RoundNumber,
	op operationFunc[S, F],
) (result results.OperationResult[S, F], err error) {
	ctx, span := s.tracer.Start(ctx, operationName, trace.WithAttributes(
		attribute.String("operation", operationName),
		attribute.Int64("user_id", int64(userID)),
		attribute.Int("round", int(round)),
	))
	defer span.End()

	s.metrics.RecordOperationAttempt(ctx, operationName, serviceName)
	startTime := time.Now()
	defer func() {
		s.metrics.RecordOperationDuration(ctx, operationName, serviceName, time.Since(startTime))
	}()

	s.logger.InfoContext(ctx, operationName+" triggered",
		attr.String("operation", operationName),
		attr.UserID("user_id", userID),
		attr.RoundNumber("round", round),
		attr.ExtractCorrelationID(ctx),
	)

	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("panic in %s: %v", operationName, r)
			s.logger.ErrorContext(ctx, "Critical panic recovered",
				attr.UserID("user_id", userID),
				attr.RoundNumber("round", round),
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
			attr.UserID("user_id", userID),
			attr.RoundNumber("round", round),
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
			attr.UserID("user_id", userID),
			attr.RoundNumber("round", round),
			attr.Any("failure_payload", *result.Failure),
		)
	}
	if result.IsSuccess() {
		s.metrics.RecordOperationSuccess(ctx, operationName, serviceName)
	}
	return result, nil
}

// runInTx ensures the operation runs within a transaction.
func runInTx[S any, F any](
	s *PickService,
	ctx context.Context,
	fn func(ctx context.Context, db bun.IDB) (results.OperationResult[S, F], error),
) (results.OperationResult[S, F], error) {
	if s.db == nil {
		return fn(ctx, nil)
	}

	var result results.OperationResult[S, F]
	err := s.db.RunInTx(ctx, &sql.TxOptions{}, func(ctx context.Context, tx bun.Tx) error {
		var txErr error
		result, txErr = fn(ctx, tx)
		return txErr
	})
	return result, err
}

// deadline returns the lock instant for round and whether now is past it.
func (s *PickService) deadline(round RoundRef) (time.Time, bool) {
	d := s.resolver.Deadline(round.RaceDate, round.Location)
	return d, !s.clock.Now().Before(d)
}

func (s *PickService) choose(pool []pickdomain.Candidate) (pickdomain.Candidate, bool) {
	s.rngMu.Lock()
	defer s.rngMu.Unlock()
	return pickdomain.Choose(pool, s.rng)
}

func toExisting(picks []pickdb.Pick) []ExistingPick {
	out := make([]ExistingPick, 0, len(picks))
	for _, p := range picks {
		out = append(out, ExistingPick{Class: p.Class, Rider: p.RiderName, AutoRandom: p.AutoRandom})
	}
	return out
}

func (s *PickService) publishPicksChanged(ctx context.Context, round sharedtypes.RoundNumber, users []sharedtypes.UserID, auto bool) {
	if len(users) == 0 {
		return
	}
	err := eventbus.PublishEvent(ctx, s.eventBus, eventbus.TopicPicksChanged, eventbus.PicksChanged{
		Round:      round,
		UserIDs:    users,
		AutoRandom: auto,
		OccurredAt: s.clock.Now(),
	})
	if err != nil {
		s.logger.WarnContext(ctx, "Failed to publish picks event",
			attr.RoundNumber("round", round),
			attr.Error(err),
		)
	}
}
