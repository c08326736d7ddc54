package pickqueue

import (
	"context"
	"fmt"
	"log/slog"
	"strconv"
	"time"

	pickservice "github.com/Black-And-White-Club/moto-pickem/app/modules/pick/application"
	"github.com/Black-And-White-Club/moto-pickem/app/shared/attr"
	sharedtypes "github.com/Black-And-White-Club/moto-pickem/app/shared/types"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/riverqueue/river"
	"github.com/riverqueue/river/riverdriver/riverpgxv5"
	"github.com/uptrace/bun"
)

const (
	queueName     = "pick"
	metricService = "river"
)

// Metrics is the subset of operation metrics the queue records.
type Metrics interface {
	RecordOperationAttempt(ctx context.Context, operation, service string)
	RecordOperationSuccess(ctx context.Context, operation, service string)
	RecordOperationFailure(ctx context.Context, operation, service string)
	RecordOperationDuration(ctx context.Context, operation, service string, duration time.Duration)
}

// QueueService schedules deadline sweeps.
type QueueService interface {
	// ScheduleUpcoming enqueues a sweep at each deadline and reports how
	// many jobs were new.
	ScheduleUpcoming(ctx context.Context, deadlines []pickservice.RoundDeadline) (int, error)
	// CancelSweepJobs cancels pending sweeps for a round.
	CancelSweepJobs(ctx context.Context, round sharedtypes.RoundNumber) error
	// GetScheduledJobs lists sweep jobs for a round, for debugging.
	GetScheduledJobs(ctx context.Context, round sharedtypes.RoundNumber) ([]JobInfo, error)
	HealthCheck(ctx context.Context) error
	Start(ctx context.Context) error
	Stop(ctx context.Context) error
}

var _ QueueService = (*Service)(nil)

// Service runs auto-pick sweeps through River.
type Service struct {
	client  *river.Client[pgx.Tx]
	pool    *pgxpool.Pool
	logger  *slog.Logger
	db      *bun.DB
	metrics Metrics
}

// NewService connects River to dsn and registers the sweep worker.
func NewService(ctx context.Context, bunDB *bun.DB, logger *slog.Logger, dsn string, metrics Metrics, runner SweepRunner) (*Service, error) {
	ctxLogger := logger.With(
		attr.String("operation", "new_pick_queue_service"),
		attr.String("component", "river_queue"),
	)

	start := time.Now()
	metrics.RecordOperationAttempt(ctx, "initialize_service", metricService)

	config, err := pgxpool.ParseConfig(dsn)
	if err != nil {
		metrics.RecordOperationFailure(ctx, "initialize_service", metricService)
		return nil, fmt.Errorf("failed to parse DSN: %w", err)
	}

	pool, err := pgxpool.NewWithConfig(ctx, config)
	if err != nil {
		metrics.RecordOperationFailure(ctx, "initialize_service", metricService)
		return nil, fmt.Errorf("failed to create pgx pool: %w", err)
	}

	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		ctxLogger.Error("Failed to ping database for River", attr.Error(err))
		metrics.RecordOperationFailure(ctx, "initialize_service", metricService)
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	workers := river.NewWorkers()
	river.AddWorker(workers, NewAutoPickSweepWorker(ctxLogger, runner))

	riverClient, err := river.NewClient(riverpgxv5.New(pool), &river.Config{
		Queues: map[string]river.QueueConfig{
			river.QueueDefault: {MaxWorkers: 10},
			queueName:          {MaxWorkers: 2},
		},
		Workers: workers,
		Logger:  ctxLogger,
	})
	if err != nil {
		pool.Close()
		ctxLogger.Error("Failed to create River client", attr.Error(err))
		metrics.RecordOperationFailure(ctx, "initialize_service", metricService)
		return nil, fmt.Errorf("failed to create River client: %w", err)
	}

	metrics.RecordOperationSuccess(ctx, "initialize_service", metricService)
	metrics.RecordOperationDuration(ctx, "initialize_service", metricService, time.Since(start))
	ctxLogger.Info("Pick queue service initialized")

	return &Service{
		client:  riverClient,
		pool:    pool,
		logger:  logger.With(attr.String("component", "river_queue")),
		db:      bunDB,
		metrics: metrics,
	}, nil
}

func (s *Service) Start(ctx context.Context) error {
	s.metrics.RecordOperationAttempt(ctx, "start_service", metricService)
	if err := s.client.Start(ctx); err != nil {
		s.logger.Error("Failed to start River client", attr.Error(err))
		s.metrics.RecordOperationFailure(ctx, "start_service", metricService)
		return fmt.Errorf("failed to start River client: %w", err)
	}
	s.metrics.RecordOperationSuccess(ctx, "start_service", metricService)
	s.logger.Info("Pick queue service started")
	return nil
}

// Stop drains running jobs and closes the pgx pool.
func (s *Service) Stop(ctx context.Context) error {
	s.metrics.RecordOperationAttempt(ctx, "stop_service", metricService)
	defer s.pool.Close()
	if err := s.client.Stop(ctx); err != nil {
		s.logger.Error("Failed to stop River client", attr.Error(err))
		s.metrics.RecordOperationFailure(ctx, "stop_service", metricService)
		return fmt.Errorf("failed to stop River client: %w", err)
	}
	s.metrics.RecordOperationSuccess(ctx, "stop_service", metricService)
	s.logger.Info("Pick queue service stopped")
	return nil
}

func (s *Service) ScheduleUpcoming(ctx context.Context, deadlines []pickservice.RoundDeadline) (int, error) {
	start := time.Now()
	s.metrics.RecordOperationAttempt(ctx, "schedule_sweeps", metricService)

	inserted := 0
	for _, d := range deadlines {
		res, err := s.client.Insert(ctx, AutoPickSweepJob{Round: d.Round, Deadline: d.Deadline.UTC()}, &river.InsertOpts{
			Queue:       queueName,
			ScheduledAt: d.Deadline,
			UniqueOpts:  river.UniqueOpts{ByArgs: true},
		})
		if err != nil {
			s.logger.Error("Failed to schedule auto-pick sweep",
				attr.RoundNumber("round", d.Round),
				attr.Time("deadline", d.Deadline),
				attr.Error(err),
			)
			s.metrics.RecordOperationFailure(ctx, "schedule_sweeps", metricService)
			return inserted, fmt.Errorf("failed to schedule sweep for round %d: %w", d.Round, err)
		}
		if !res.UniqueSkippedAsDuplicate {
			inserted++
			s.logger.Info("Auto-pick sweep scheduled",
				attr.RoundNumber("round", d.Round),
				attr.Time("deadline", d.Deadline),
				attr.Int64("job_id", res.Job.ID),
			)
		}
	}

	s.metrics.RecordOperationSuccess(ctx, "schedule_sweeps", metricService)
	s.metrics.RecordOperationDuration(ctx, "schedule_sweeps", metricService, time.Since(start))
	return inserted, nil
}

type riverJobRow struct {
	ID          int64          `bun:"id"`
	Kind        string         `bun:"kind"`
	State       string         `bun:"state"`
	Args        map[string]any `bun:"args,type:jsonb"`
	ScheduledAt *time.Time     `bun:"scheduled_at"`
	CreatedAt   time.Time      `bun:"created_at"`
	Attempt     int16          `bun:"attempt"`
	MaxAttempts int16          `bun:"max_attempts"`
}

func (s *Service) sweepJobs(ctx context.Context, round sharedtypes.RoundNumber, states ...string) ([]riverJobRow, error) {
	var jobs []riverJobRow
	q := s.db.NewSelect().
		Table("river_job").
		Column("id", "kind", "state", "args", "scheduled_at", "created_at", "attempt", "max_attempts").
		Where("kind = ?", AutoPickSweepJob{}.Kind()).
		Where("args->>'round' = ?", strconv.Itoa(int(round)))
	if len(states) > 0 {
		q = q.Where("state IN (?)", bun.In(states))
	}
	err := q.Order("scheduled_at ASC NULLS LAST", "created_at ASC").Scan(ctx, &jobs)
	return jobs, err
}

func (s *Service) CancelSweepJobs(ctx context.Context, round sharedtypes.RoundNumber) error {
	s.metrics.RecordOperationAttempt(ctx, "cancel_sweep_jobs", metricService)

	jobs, err := s.sweepJobs(ctx, round, "available", "scheduled", "retryable")
	if err != nil {
		s.metrics.RecordOperationFailure(ctx, "cancel_sweep_jobs", metricService)
		return fmt.Errorf("failed to query jobs for cancellation: %w", err)
	}

	cancelled := 0
	for _, job := range jobs {
		if _, err := s.client.JobCancel(ctx, job.ID); err != nil {
			s.logger.Warn("Failed to cancel job",
				attr.Int64("job_id", job.ID),
				attr.Error(err),
			)
			continue
		}
		cancelled++
	}
	if cancelled == len(jobs) {
		s.metrics.RecordOperationSuccess(ctx, "cancel_sweep_jobs", metricService)
	} else {
		s.metrics.RecordOperationFailure(ctx, "cancel_sweep_jobs", metricService)
	}
	s.logger.Info("Sweep jobs cancelled",
		attr.RoundNumber("round", round),
		attr.Int("found", len(jobs)),
		attr.Int("cancelled", cancelled),
	)
	return nil
}

func (s *Service) GetScheduledJobs(ctx context.Context, round sharedtypes.RoundNumber) ([]JobInfo, error) {
	jobs, err := s.sweepJobs(ctx, round)
	if err != nil {
		return nil, fmt.Errorf("failed to query scheduled jobs: %w", err)
	}
	out := make([]JobInfo, len(jobs))
	for i, job := range jobs {
		scheduledAt := ""
		if job.ScheduledAt != nil {
			scheduledAt = job.ScheduledAt.Format(time.RFC3339)
		}
		out[i] = JobInfo{
			ID:          job.ID,
			Kind:        job.Kind,
			Round:       int(round),
			State:       job.State,
			ScheduledAt: scheduledAt,
			CreatedAt:   job.CreatedAt.Format(time.RFC3339),
			Attempt:     int(job.Attempt),
			MaxAttempts: int(job.MaxAttempts),
		}
	}
	return out, nil
}

func (s *Service) HealthCheck(ctx context.Context) error {
	if s.client == nil {
		return fmt.Errorf("river client is nil")
	}
	var count int
	err := s.db.NewSelect().
		Table("river_job").
		ColumnExpr("COUNT(*)").
		Where("kind = ?", AutoPickSweepJob{}.Kind()).
		Scan(ctx, &count)
	if err != nil {
		s.logger.Error("Queue service health check failed", attr.Error(err))
		return fmt.Errorf("queue service health check failed: %w", err)
	}
	s.logger.Debug("Queue service health check passed", attr.Int("sweep_jobs", count))
	return nil
}
