package resultservice

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/Black-And-White-Club/moto-pickem/app/eventbus"
	resultdb "github.com/Black-And-White-Club/moto-pickem/app/modules/result/infrastructure/repositories"
	"github.com/Black-And-White-Club/moto-pickem/app/shared/attr"
	"github.com/Black-And-White-Club/moto-pickem/app/shared/results"
	sharedtypes "github.com/Black-And-White-Club/moto-pickem/app/shared/types"
	"github.com/uptrace/bun"
)

const sourceManual = "manual"

func enterFailure(err error) EnterResultsResult {
	return results.FailureResult[EnterResultsSummary, error](err)
}

// validateBatch checks the batch on its own, before touching storage.
func validateBatch(req EnterResultsRequest) error {
	if !req.Class.Valid() {
		return fmt.Errorf("%w: unknown class %q", ErrValidation, req.Class)
	}
	if len(req.Entries) == 0 {
		return fmt.Errorf("%w: no entries", ErrValidation)
	}
	riders := make(map[string]bool, len(req.Entries))
	positions := make(map[int]string, len(req.Entries))
	for _, e := range req.Entries {
		name := strings.TrimSpace(e.Rider)
		if name == "" {
			return fmt.Errorf("%w: rider is required", ErrValidation)
		}
		if e.Position < 1 {
			return fmt.Errorf("%w: position for %s must be positive", ErrValidation, name)
		}
		if riders[name] {
			return fmt.Errorf("%w: %s entered twice", ErrValidation, name)
		}
		riders[name] = true
		if other, taken := positions[e.Position]; taken {
			return fmt.Errorf("%w: %s and %s both at position %d", ErrDuplicatePosition, other, name, e.Position)
		}
		positions[e.Position] = name
	}
	return nil
}

// EnterResults upserts a batch of finishing positions for one round and
// class. A position collision, within the batch or against rows already
// stored for other riders, rejects the whole batch.
func (s *ResultService) EnterResults(ctx context.Context, req EnterResultsRequest) (EnterResultsResult, error) {
	result, err := withTelemetry(s, ctx, "EnterResults", req.Round, req.Class, func(ctx context.Context) (EnterResultsResult, error) {
		if err := validateBatch(req); err != nil {
			return enterFailure(err), nil
		}
		res, err := runInTx(s, ctx, func(ctx context.Context, db bun.IDB) (EnterResultsResult, error) {
			return s.applyBatch(ctx, db, req)
		})
		if err != nil && resultdb.IsPositionConflict(err) {
			return enterFailure(fmt.Errorf("%w: %v", ErrDuplicatePosition, err)), nil
		}
		return res, err
	})
	if err == nil && result.IsSuccess() {
		source := req.Source
		if source == "" {
			source = sourceManual
		}
		s.publishResultsEntered(ctx, req.Round, req.Class, result.Success.Written, source)
	}
	return result, err
}

// EnterResult records a single rider's position.
func (s *ResultService) EnterResult(ctx context.Context, round sharedtypes.RoundNumber, class sharedtypes.PickClass, rider string, position int) (EnterResultsResult, error) {
	return s.EnterResults(ctx, EnterResultsRequest{
		Round:   round,
		Class:   class,
		Entries: []ResultEntry{{Rider: rider, Position: position}},
	})
}

func (s *ResultService) applyBatch(ctx context.Context, db bun.IDB, req EnterResultsRequest) (EnterResultsResult, error) {
	round, err := s.schedule.GetRound(ctx, db, req.Round)
	if err != nil {
		return EnterResultsResult{}, err
	}
	if round == nil {
		return enterFailure(fmt.Errorf("%w: %d", ErrRoundNotFound, req.Round)), nil
	}

	names := make([]string, 0, len(req.Entries))
	for _, e := range req.Entries {
		names = append(names, strings.TrimSpace(e.Rider))
	}
	riders, err := s.schedule.RidersByName(ctx, db, names)
	if err != nil {
		return EnterResultsResult{}, err
	}
	byName := make(map[string]RiderRef, len(riders))
	for _, r := range riders {
		byName[r.Name] = r
	}

	var missing []string
	for _, n := range names {
		r, ok := byName[n]
		if !ok {
			missing = append(missing, n)
			continue
		}
		if r.Class.PickClass() != req.Class {
			return enterFailure(fmt.Errorf("%w: %s races %s, not %s", ErrValidation, n, r.Class, req.Class)), nil
		}
	}
	if len(missing) > 0 {
		return enterFailure(fmt.Errorf("%w: %s", ErrRiderNotFound, strings.Join(missing, ", "))), nil
	}

	existing, err := s.repo.GetResults(ctx, db, req.Round, req.Class)
	if err != nil {
		return EnterResultsResult{}, err
	}

	source := req.Source
	if source == "" {
		source = sourceManual
	}
	rows := make([]resultdb.Result, 0, len(req.Entries))
	batchRiders := make(map[int64]bool, len(req.Entries))
	for _, e := range req.Entries {
		r := byName[strings.TrimSpace(e.Rider)]
		batchRiders[r.ID] = true
		rows = append(rows, resultdb.Result{
			RoundNumber: req.Round,
			Class:       req.Class,
			RiderID:     r.ID,
			Position:    e.Position,
			Source:      source,
			RiderName:   r.Name,
		})
	}

	if !req.Replace {
		if err := checkMergedPositions(existing, rows, batchRiders); err != nil {
			return enterFailure(err), nil
		}
	}

	if err := s.repo.UpsertResults(ctx, db, rows); err != nil {
		return EnterResultsResult{}, err
	}

	removed := 0
	if req.Replace {
		keep := make([]int64, 0, len(batchRiders))
		for id := range batchRiders {
			keep = append(keep, id)
		}
		sort.Slice(keep, func(i, j int) bool { return keep[i] < keep[j] })
		if removed, err = s.repo.DeleteResultsExcept(ctx, db, req.Round, req.Class, keep); err != nil {
			return EnterResultsResult{}, err
		}
	}

	stored, err := s.repo.GetResults(ctx, db, req.Round, req.Class)
	if err != nil {
		return EnterResultsResult{}, err
	}

	return results.SuccessResult[EnterResultsSummary, error](EnterResultsSummary{
		Round:   req.Round,
		Class:   req.Class,
		Written: len(rows),
		Removed: removed,
		Results: s.view(stored),
	}), nil
}

// checkMergedPositions rejects a batch whose positions collide with stored
// rows for riders the batch does not overwrite.
func checkMergedPositions(existing, batch []resultdb.Result, batchRiders map[int64]bool) error {
	taken := make(map[int]string, len(existing))
	for _, r := range existing {
		if batchRiders[r.RiderID] {
			continue
		}
		taken[r.Position] = r.RiderName
	}
	for _, r := range batch {
		if other, ok := taken[r.Position]; ok {
			return fmt.Errorf("%w: position %d already held by %s", ErrDuplicatePosition, r.Position, other)
		}
	}
	return nil
}

func (s *ResultService) publishResultsEntered(ctx context.Context, round sharedtypes.RoundNumber, class sharedtypes.PickClass, count int, source string) {
	err := eventbus.PublishEvent(ctx, s.eventBus, eventbus.TopicResultsEntered, eventbus.ResultsEntered{
		Round:      round,
		Class:      class,
		Count:      count,
		Source:     source,
		OccurredAt: time.Now().UTC(),
	})
	if err != nil {
		s.logger.WarnContext(ctx, "Failed to publish results event",
			attr.RoundNumber("round", round),
			attr.Error(err),
		)
	}
}
