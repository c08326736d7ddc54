package scheduleservice

import "errors"

// Domain errors for the schedule service. Handlers map these to 4xx
// responses rather than retrying.
var (
	// ErrRoundNotFound indicates the referenced round number is not on the calendar.
	ErrRoundNotFound = errors.New("round not found")

	// ErrRiderNotFound indicates the referenced rider is not on the roster.
	ErrRiderNotFound = errors.New("rider not found")

	// ErrInvalidRound indicates a round definition failed validation.
	ErrInvalidRound = errors.New("invalid round")

	// ErrInvalidRider indicates a rider definition failed validation.
	ErrInvalidRider = errors.New("invalid rider")
)
