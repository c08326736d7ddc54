package resultservice

import "errors"

// Domain errors for the result service. All are caller-correctable and are
// returned as failure payloads, not infrastructure errors.
var (
	// ErrValidation indicates a malformed entry: empty rider, non-positive
	// position, unknown class, or a rider entered twice.
	ErrValidation = errors.New("invalid result entry")

	// ErrDuplicatePosition indicates two riders would share a finishing
	// position in one round and class. The whole batch is rejected.
	ErrDuplicatePosition = errors.New("duplicate finishing position")

	// ErrRoundNotFound indicates the round is not on the calendar.
	ErrRoundNotFound = errors.New("round not found")

	// ErrRiderNotFound indicates a rider name is not on the roster.
	ErrRiderNotFound = errors.New("rider not found")

	// ErrImportUnavailable indicates the external results fetch failed,
	// timed out, or returned nothing. Manual entry remains available.
	ErrImportUnavailable = errors.New("results import unavailable")
)
