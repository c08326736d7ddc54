package resultdb

import "errors"

// Sentinel errors for the repository layer.
var (
	// ErrPositionConflict indicates the (round, class, position) uniqueness
	// constraint rejected the batch at commit.
	ErrPositionConflict = errors.New("finishing position already taken")
)
