package scheduledb

import "errors"

// Sentinel errors for the repository layer.
var (
	// ErrNotFound indicates the requested round or rider does not exist.
	ErrNotFound = errors.New("schedule record not found")
)
