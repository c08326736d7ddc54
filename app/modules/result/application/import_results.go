package resultservice

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/Black-And-White-Club/moto-pickem/app/shared/attr"
	"github.com/Black-And-White-Club/moto-pickem/app/shared/results"
	sharedtypes "github.com/Black-And-White-Club/moto-pickem/app/shared/types"
	"github.com/google/uuid"
)

const sourceImport = "import"

func importFailure(err error) ImportResult {
	return results.FailureResult[ImportSummary, error](err)
}

// ImportResults fetches positions from the configured source and stores
// them as an authoritative batch. Riders the roster does not know are
// skipped and reported. Fetch problems are reported as ErrImportUnavailable
// so the caller can fall back to manual entry.
func (s *ResultService) ImportResults(ctx context.Context, round sharedtypes.RoundNumber, class sharedtypes.PickClass) (ImportResult, error) {
	return withTelemetry(s, ctx, "ImportResults", round, class, func(ctx context.Context) (ImportResult, error) {
		if !class.Valid() {
			return importFailure(fmt.Errorf("%w: unknown class %q", ErrValidation, class)), nil
		}
		if s.source == nil {
			return importFailure(fmt.Errorf("%w: no source configured", ErrImportUnavailable)), nil
		}

		ref, err := s.schedule.GetRound(ctx, nil, round)
		if err != nil {
			return ImportResult{}, err
		}
		if ref == nil {
			return importFailure(fmt.Errorf("%w: %d", ErrRoundNotFound, round)), nil
		}

		batchID := uuid.NewString()
		positions, err := s.fetch(ctx, *ref, class)
		if err != nil {
			s.logger.WarnContext(ctx, "Results import unavailable",
				attr.String("batch_id", batchID),
				attr.RoundNumber("round", round),
				attr.Error(err),
			)
			return importFailure(fmt.Errorf("%w: %v", ErrImportUnavailable, err)), nil
		}

		names := make([]string, 0, len(positions))
		for name := range positions {
			names = append(names, strings.TrimSpace(name))
		}
		known, err := s.schedule.RidersByName(ctx, nil, names)
		if err != nil {
			return ImportResult{}, err
		}
		onRoster := make(map[string]bool, len(known))
		for _, r := range known {
			onRoster[r.Name] = true
		}

		var entries []ResultEntry
		var unknown []string
		for name, pos := range positions {
			name = strings.TrimSpace(name)
			if !onRoster[name] {
				unknown = append(unknown, name)
				continue
			}
			entries = append(entries, ResultEntry{Rider: name, Position: pos})
		}
		sort.Strings(unknown)
		sort.Slice(entries, func(i, j int) bool { return entries[i].Position < entries[j].Position })

		if len(unknown) > 0 {
			s.logger.WarnContext(ctx, "Import skipped riders not on the roster",
				attr.String("batch_id", batchID),
				attr.Any("riders", unknown),
			)
		}
		if len(entries) == 0 {
			return importFailure(fmt.Errorf("%w: no rostered riders in feed", ErrImportUnavailable)), nil
		}

		stored, err := s.EnterResults(ctx, EnterResultsRequest{
			Round:   round,
			Class:   class,
			Entries: entries,
			Replace: true,
			Source:  sourceImport,
		})
		if err != nil {
			return ImportResult{}, err
		}
		if stored.IsFailure() {
			return importFailure(*stored.Failure), nil
		}

		return results.SuccessResult[ImportSummary, error](ImportSummary{
			EnterResultsSummary: *stored.Success,
			BatchID:             batchID,
			UnknownRiders:       unknown,
			FetchedEntries:      len(positions),
		}), nil
	})
}

var errEmptyFeed = errors.New("feed returned no positions")

func (s *ResultService) fetch(ctx context.Context, ref RoundRef, class sharedtypes.PickClass) (map[string]int, error) {
	fetchCtx, cancel := context.WithTimeout(ctx, s.importTimeout)
	defer cancel()

	start := time.Now()
	positions, err := s.source.FetchPositions(fetchCtx, ref, class)
	status := "ok"
	switch {
	case err != nil && errors.Is(fetchCtx.Err(), context.DeadlineExceeded):
		status = "timeout"
	case err != nil:
		status = "error"
	case len(positions) == 0:
		status = "empty"
		err = errEmptyFeed
	}
	s.metrics.RecordImportFetch(ctx, status, time.Since(start))
	return positions, err
}
