// Package pickscheduler runs the periodic auto-pick backstop: it sweeps
// every locked round and keeps a River job queued at each upcoming deadline.
package pickscheduler

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"

	pickservice "github.com/Black-And-White-Club/moto-pickem/app/modules/pick/application"
	"github.com/Black-And-White-Club/moto-pickem/app/shared/attr"
	"github.com/robfig/cron/v3"
)

// DefaultSpec runs the backstop every fifteen minutes.
const DefaultSpec = "*/15 * * * *"

// Sweeper is the part of the pick service the scheduler drives.
type Sweeper interface {
	SweepLockedRounds(ctx context.Context) ([]pickservice.SweepSummary, error)
	UpcomingDeadlines(ctx context.Context) ([]pickservice.RoundDeadline, error)
}

// Planner queues sweeps at future deadlines.
type Planner interface {
	ScheduleUpcoming(ctx context.Context, deadlines []pickservice.RoundDeadline) (int, error)
}

// Scheduler manages the cron-driven sweep.
type Scheduler struct {
	sweeper Sweeper
	planner Planner
	spec    string
	logger  *slog.Logger
	cron    *cron.Cron

	mu      sync.Mutex
	running bool
}

// NewScheduler creates a scheduler. planner may be nil when no job queue is
// configured; the cron sweep alone then assigns auto-picks.
func NewScheduler(sweeper Sweeper, planner Planner, spec string, logger *slog.Logger) *Scheduler {
	if spec == "" {
		spec = DefaultSpec
	}
	return &Scheduler{
		sweeper: sweeper,
		planner: planner,
		spec:    spec,
		logger:  logger.With(attr.String("component", "pick_scheduler")),
		cron:    cron.New(),
	}
}

// Start runs one tick immediately and then on every cron firing.
func (s *Scheduler) Start(ctx context.Context) error {
	if _, err := s.cron.AddFunc(s.spec, func() {
		if err := s.Tick(ctx); err != nil {
			s.logger.ErrorContext(ctx, "Scheduled sweep failed", attr.Error(err))
		}
	}); err != nil {
		return fmt.Errorf("failed to schedule auto-pick sweep %q: %w", s.spec, err)
	}

	if err := s.Tick(ctx); err != nil {
		s.logger.ErrorContext(ctx, "Startup sweep failed", attr.Error(err))
	}

	s.cron.Start()
	s.logger.InfoContext(ctx, "Pick scheduler started", attr.String("schedule", s.spec))
	return nil
}

// Stop halts the cron and waits for a running tick to finish.
func (s *Scheduler) Stop() {
	<-s.cron.Stop().Done()
	s.logger.Info("Pick scheduler stopped")
}

// Tick sweeps locked rounds and queues upcoming deadlines. Overlapping
// calls are skipped.
func (s *Scheduler) Tick(ctx context.Context) error {
	s.mu.Lock()
	if s.running {
		s.mu.Unlock()
		s.logger.DebugContext(ctx, "Previous tick still running, skipping")
		return nil
	}
	s.running = true
	s.mu.Unlock()
	defer func() {
		s.mu.Lock()
		s.running = false
		s.mu.Unlock()
	}()

	var errs []error

	summaries, err := s.sweeper.SweepLockedRounds(ctx)
	if err != nil {
		errs = append(errs, fmt.Errorf("sweep locked rounds: %w", err))
	}
	assigned := 0
	for _, sum := range summaries {
		assigned += len(sum.Assigned)
	}
	if assigned > 0 {
		s.logger.InfoContext(ctx, "Auto-picks assigned",
			attr.Int("rounds", len(summaries)),
			attr.Int("assigned", assigned),
		)
	}

	if s.planner != nil {
		deadlines, err := s.sweeper.UpcomingDeadlines(ctx)
		if err != nil {
			errs = append(errs, fmt.Errorf("list upcoming deadlines: %w", err))
		} else if n, err := s.planner.ScheduleUpcoming(ctx, deadlines); err != nil {
			errs = append(errs, fmt.Errorf("queue sweeps: %w", err))
		} else if n > 0 {
			s.logger.InfoContext(ctx, "Queued deadline sweeps", attr.Int("jobs", n))
		}
	}

	return errors.Join(errs...)
}
