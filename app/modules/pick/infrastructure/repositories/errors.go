package pickdb

import "errors"

// ErrPickExists is returned when a (user, round, class) pick is already
// stored. The auto-pick path treats it as already satisfied.
var ErrPickExists = errors.New("pick already exists")
