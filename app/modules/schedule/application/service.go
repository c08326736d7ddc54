package scheduleservice

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"time"

	scheduledomain "github.com/Black-And-White-Club/moto-pickem/app/modules/schedule/domain"
	scheduledb "github.com/Black-And-White-Club/moto-pickem/app/modules/schedule/infrastructure/repositories"
	"github.com/Black-And-White-Club/moto-pickem/app/shared/attr"
	"github.com/Black-And-White-Club/moto-pickem/app/shared/clock"
	"github.com/Black-And-White-Club/moto-pickem/app/shared/metrics"
	"github.com/Black-And-White-Club/moto-pickem/app/shared/results"
	sharedtypes "github.com/Black-And-White-Club/moto-pickem/app/shared/types"
	"github.com/uptrace/bun"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

const serviceName = "schedule"

// ScheduleService implements the Service interface.
type ScheduleService struct {
	repo     scheduledb.Repository
	resolver *scheduledomain.DeadlineResolver
	clock    clock.Clock
	logger   *slog.Logger
	metrics  metrics.OperationMetrics
	tracer   trace.Tracer
	db       *bun.DB
}

// NewScheduleService creates a new ScheduleService.
func NewScheduleService(
	repo scheduledb.Repository,
	resolver *scheduledomain.DeadlineResolver,
	clk clock.Clock,
	logger *slog.Logger,
	m metrics.OperationMetrics,
	tracer trace.Tracer,
	db *bun.DB,
) *ScheduleService {
	return &ScheduleService{
		repo:     repo,
		resolver: resolver,
		clock:    clk,
		logger:   logger,
		metrics:  m,
		tracer:   tracer,
		db:       db,
	}
}

type operationFunc[S any, F any] func(ctx context.Context) (results.OperationResult[S, F], error)

// withTelemetry wraps a service operation with tracing, metrics, and panic recovery.
func withTelemetry[S any, F any](
	s *ScheduleService,
	ctx context.Context,
	operationName string,
	round sharedtypes.RoundNumber,
	op operationFunc[S, F],
) (result results.OperationResult[S, F], err error) {
	ctx, span := s.tracer.Start(ctx, operationName, trace.WithAttributes(
		attribute.String("operation", operationName),
		attribute.Int("round", int(round)),
	))
	defer span.End()

	s.metrics.RecordOperationAttempt(ctx, operationName, serviceName)

	startTime := time.Now()
	defer func() {
		s.metrics.RecordOperationDuration(ctx, operationName, serviceName, time.Since(startTime))
	}()

	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("panic in %s: %v", operationName, r)
			s.logger.ErrorContext(ctx, "Critical panic recovered",
				attr.RoundNumber("round", round),
				attr.ExtractCorrelationID(ctx),
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
	s *ScheduleService,
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

// roundInfo decorates a stored round with its deadline as of now.
func (s *ScheduleService) roundInfo(r scheduledb.Round) RoundInfo {
	deadline := s.resolver.Deadline(r.RaceDate, r.Location)
	return RoundInfo{
		Number:    r.Number,
		RaceDate:  r.RaceDate,
		Location:  r.Location,
		RaceType:  r.RaceType,
		SplitMode: r.SplitMode,
		Timezone:  s.resolver.Location(r.Location).String(),
		Deadline:  deadline,
		Locked:    !s.clock.Now().Before(deadline),
	}
}
