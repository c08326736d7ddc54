package leaderboarddb

import "errors"

// ErrMetaNotFound indicates the meta key has never been written.
var ErrMetaNotFound = errors.New("leaderboard meta key not found")
