package pickservice

import (
	"errors"
	"fmt"

	sharedtypes "github.com/Black-And-White-Club/moto-pickem/app/shared/types"
)

// Domain errors for the pick service. They are returned as failure
// payloads and shown to the submitting user as-is.
var (
	// ErrValidation indicates an empty or unknown rider name.
	ErrValidation = errors.New("invalid pick")

	// ErrEligibility indicates a known rider who may not be picked for this
	// round and class: inactive, wrong class, or the other 250 region.
	ErrEligibility = errors.New("rider not eligible for this round")

	// ErrRepeatRule is wrapped by RepeatRuleViolationError.
	ErrRepeatRule = errors.New("rider picked within the repeat window")

	// ErrDeadlinePassed indicates a write after the round locked.
	ErrDeadlinePassed = errors.New("pick deadline has passed")

	ErrRoundNotFound = errors.New("round not found")
	ErrUserNotFound  = errors.New("user not found")

	// ErrRoundStillOpen is returned by the sweep before the deadline.
	ErrRoundStillOpen = errors.New("round is still open for picks")
)

// RepeatRuleViolationError names the rider and the round that blocks it.
type RepeatRuleViolationError struct {
	Class         sharedtypes.PickClass
	Rider         string
	ConflictRound sharedtypes.RoundNumber
}

func (e *RepeatRuleViolationError) Error() string {
	return fmt.Sprintf("%s: %s was already picked for %s in round %d", ErrRepeatRule, e.Rider, e.Class, e.ConflictRound)
}

func (e *RepeatRuleViolationError) Unwrap() error { return ErrRepeatRule }
