package leaderboardservice

import "errors"

// ErrInvalidView is returned for a view type outside sharedtypes.ViewTypes.
var ErrInvalidView = errors.New("invalid leaderboard view")
