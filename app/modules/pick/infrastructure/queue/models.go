package pickqueue

import (
	"time"

	sharedtypes "github.com/Black-And-White-Club/moto-pickem/app/shared/types"
)

// AutoPickSweepJob runs the auto-pick sweep for a round once it locks.
// Deadline is part of the unique args so a rescheduled round gets a new job.
type AutoPickSweepJob struct {
	Round    sharedtypes.RoundNumber `json:"round"`
	Deadline time.Time               `json:"deadline"`
}

// Kind returns the job type identifier for River
func (AutoPickSweepJob) Kind() string { return "autopick_sweep" }

// JobInfo represents information about a scheduled job (for debugging/monitoring)
type JobInfo struct {
	ID          int64  `json:"id"`
	Kind        string `json:"kind"`
	Round       int    `json:"round"`
	State       string `json:"state"`
	ScheduledAt string `json:"scheduled_at"`
	CreatedAt   string `json:"created_at"`
	Attempt     int    `json:"attempt"`
	MaxAttempts int    `json:"max_attempts"`
}
