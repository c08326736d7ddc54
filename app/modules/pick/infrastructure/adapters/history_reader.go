package adapters

import (
	"context"

	pickdomain "github.com/Black-And-White-Club/moto-pickem/app/modules/pick/domain"
	resultdb "github.com/Black-And-White-Club/moto-pickem/app/modules/result/infrastructure/repositories"
	sharedtypes "github.com/Black-And-White-Club/moto-pickem/app/shared/types"
	"github.com/uptrace/bun"
)

// HistoryReaderAdapter exposes stored results as auto-pick ranking input.
type HistoryReaderAdapter struct {
	repo resultdb.Repository
}

func NewHistoryReaderAdapter(repo resultdb.Repository) *HistoryReaderAdapter {
	return &HistoryReaderAdapter{repo: repo}
}

func (a *HistoryReaderAdapter) FinishesBefore(ctx context.Context, db bun.IDB, round sharedtypes.RoundNumber) ([]pickdomain.Finish, error) {
	rows, err := a.repo.HistoryBefore(ctx, db, round)
	if err != nil {
		return nil, err
	}
	out := make([]pickdomain.Finish, 0, len(rows))
	for _, r := range rows {
		out = append(out, pickdomain.Finish{Round: r.RoundNumber, Class: r.Class, RiderID: r.RiderID, Position: r.Position})
	}
	return out, nil
}
