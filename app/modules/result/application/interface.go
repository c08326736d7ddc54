package resultservice

import (
	"context"

	sharedtypes "github.com/Black-And-White-Club/moto-pickem/app/shared/types"
)

// Service stores finishing positions and derives points from them.
type Service interface {
	EnterResults(ctx context.Context, req EnterResultsRequest) (EnterResultsResult, error)
	EnterResult(ctx context.Context, round sharedtypes.RoundNumber, class sharedtypes.PickClass, rider string, position int) (EnterResultsResult, error)
	ImportResults(ctx context.Context, round sharedtypes.RoundNumber, class sharedtypes.PickClass) (ImportResult, error)
	GetResults(ctx context.Context, round sharedtypes.RoundNumber, class sharedtypes.PickClass) ([]ResultView, error)
}

var _ Service = (*ResultService)(nil)
