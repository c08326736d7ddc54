package resultservice

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"time"

	"github.com/Black-And-White-Club/moto-pickem/app/eventbus"
	resultdomain "github.com/Black-And-White-Club/moto-pickem/app/modules/result/domain"
	resultdb "github.com/Black-And-White-Club/moto-pickem/app/modules/result/infrastructure/repositories"
	"github.com/Black-And-White-Club/moto-pickem/app/shared/attr"
	"github.com/Black-And-White-Club/moto-pickem/app/shared/metrics"
	"github.com/Black-And-White-Club/moto-pickem/app/shared/results"
	sharedtypes "github.com/Black-And-White-Club/moto-pickem/app/shared/types"
	"github.com/uptrace/bun"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

const (
	serviceName = "result"

	// DefaultImportTimeout bounds a single external fetch.
	DefaultImportTimeout = 10 * time.Second
)

// ResultService implements the Service interface.
type ResultService struct {
	repo          resultdb.Repository
	schedule      ScheduleReader
	source        ResultsSource
	table         resultdomain.PointsTable
	eventBus      eventbus.EventBus
	logger        *slog.Logger
	metrics       metrics.OperationMetrics
	tracer        trace.Tracer
	db            *bun.DB
	importTimeout time.Duration
}

// Option configures a ResultService.
type Option func(*ResultService)

// WithSource enables ImportResults.
func WithSource(src ResultsSource) Option {
	return func(s *ResultService) { s.source = src }
}

// WithImportTimeout overrides DefaultImportTimeout.
func WithImportTimeout(d time.Duration) Option {
	return func(s *ResultService) {
		if d > 0 {
			s.importTimeout = d
		}
	}
}

// NewResultService creates a new ResultService.
func NewResultService(
	repo resultdb.Repository,
	schedule ScheduleReader,
	table resultdomain.PointsTable,
	eventBus eventbus.EventBus,
	logger *slog.Logger,
	m metrics.OperationMetrics,
	tracer trace.Tracer,
	db *bun.DB,
	opts ...Option,
) *ResultService {
	s := &ResultService{
		repo:          repo,
		schedule:      schedule,
		table:         table,
		eventBus:      eventBus,
		logger:        logger,
		metrics:       m,
		tracer:        tracer,
		db:            db,
		importTimeout: DefaultImportTimeout,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

type operationFunc[S any, F any] func(ctx context.Context) (results.OperationResult[S, F], error)

// withTelemetry wraps a service operation with tracing, metrics, and panic recovery.
func withTelemetry[S any, F any](
	s *ResultService,
	ctx context.Context,
	operationName string,
	round sharedtypes.RoundNumber,
	class sharedtypes.PickClass,
	op operationFunc[S, F],
) (result results.OperationResult[S, F], err error) {
	ctx, span := s.tracer.Start(ctx, operationName, trace.WithAttributes(
		attribute.String("operation", operationName),
		attribute.Int("round", int(round)),
		attribute.String("class", string(class)),
	))
	defer span.End()

	s.metrics.RecordOperationAttempt(ctx, operationName, serviceName)
	startTime := time.Now()
	defer func() {
		s.metrics.RecordOperationDuration(ctx, operationName, serviceName, time.Since(startTime))
	}()

	s.logger.InfoContext(ctx, operationName+" triggered",
		attr.String("operation", operationName),
		attr.RoundNumber("round", round),
		attr.String("class", string(class)),
		attr.ExtractCorrelationID(ctx),
	)

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
			attr.String("class", string(class)),
			attr.Any("failure_payload", *result.Failure),
		)
	}
	if result.IsSuccess() {
		s.logger.InfoContext(ctx, operationName+" completed successfully",
			attr.String("operation", operationName),
			attr.RoundNumber("round", round),
			attr.ExtractCorrelationID(ctx),
		)
		s.metrics.RecordOperationSuccess(ctx, operationName, serviceName)
	}
	return result, nil
}

// runInTx ensures the operation runs within a transaction.
func runInTx[S any, F any](
	s *ResultService,
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

func (s *ResultService) view(rows []resultdb.Result) []ResultView {
	out := make([]ResultView, 0, len(rows))
	for _, r := range rows {
		out = append(out, ResultView{Rider: r.RiderName, Position: r.Position, Points: s.table.Points(r.Position)})
	}
	return out
}

// GetResults returns the stored results for a round and class with points.
func (s *ResultService) GetResults(ctx context.Context, round sharedtypes.RoundNumber, class sharedtypes.PickClass) ([]ResultView, error) {
	rows, err := s.repo.GetResults(ctx, nil, round, class)
	if err != nil {
		return nil, err
	}
	return s.view(rows), nil
}
