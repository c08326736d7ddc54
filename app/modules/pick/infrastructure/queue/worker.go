package pickqueue

import (
	"context"
	"errors"
	"log/slog"
	"time"

	pickservice "github.com/Black-And-White-Club/moto-pickem/app/modules/pick/application"
	"github.com/Black-And-White-Club/moto-pickem/app/shared/attr"
	sharedtypes "github.com/Black-And-White-Club/moto-pickem/app/shared/types"
	"github.com/riverqueue/river"
)

const (
	// snoozeEarly is how long a sweep that fired before its deadline waits.
	snoozeEarly = time.Minute
	// earlyGrace bounds how long past its scheduled deadline a job keeps
	// snoozing. Beyond it the round was moved and a newer job owns it.
	earlyGrace = 10 * time.Minute
)

// SweepRunner is the part of the pick service the worker drives.
type SweepRunner interface {
	RunAutoPickSweep(ctx context.Context, round sharedtypes.RoundNumber) (pickservice.SweepResult, error)
}

// AutoPickSweepWorker executes AutoPickSweepJob.
type AutoPickSweepWorker struct {
	river.WorkerDefaults[AutoPickSweepJob]
	runner SweepRunner
	logger *slog.Logger
}

func NewAutoPickSweepWorker(logger *slog.Logger, runner SweepRunner) *AutoPickSweepWorker {
	return &AutoPickSweepWorker{runner: runner, logger: logger}
}

func (w *AutoPickSweepWorker) Work(ctx context.Context, job *river.Job[AutoPickSweepJob]) error {
	round := job.Args.Round
	ctxLogger := w.logger.With(
		attr.RoundNumber("round", round),
		attr.Int64("job_id", job.ID),
		attr.String("job_kind", job.Kind),
	)

	res, err := w.runner.RunAutoPickSweep(ctx, round)
	if err != nil {
		ctxLogger.Error("Auto-pick sweep failed", attr.Error(err))
		return err
	}
	if res.IsFailure() {
		failure := *res.Failure
		switch {
		case errors.Is(failure, pickservice.ErrRoundStillOpen):
			if time.Since(job.Args.Deadline) > earlyGrace {
				ctxLogger.Info("Round was rescheduled, cancelling stale sweep", attr.Error(failure))
				return river.JobCancel(failure)
			}
			ctxLogger.Info("Round still open, snoozing sweep", attr.Error(failure))
			return river.JobSnooze(snoozeEarly)
		case errors.Is(failure, pickservice.ErrRoundNotFound):
			ctxLogger.Warn("Round no longer exists, cancelling sweep", attr.Error(failure))
			return river.JobCancel(failure)
		default:
			ctxLogger.Warn("Auto-pick sweep returned failure", attr.Error(failure))
			return failure
		}
	}

	ctxLogger.Info("Auto-pick sweep completed",
		attr.Int("users_checked", res.Success.UsersChecked),
		attr.Int("assigned", len(res.Success.Assigned)),
	)
	return nil
}
