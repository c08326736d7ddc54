package resultservice

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	resultdomain "github.com/Black-And-White-Club/moto-pickem/app/modules/result/domain"
	resultdb "github.com/Black-And-White-Club/moto-pickem/app/modules/result/infrastructure/repositories"
	"github.com/Black-And-White-Club/moto-pickem/app/shared/metrics"
	sharedtypes "github.com/Black-And-White-Club/moto-pickem/app/shared/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/uptrace/bun"
	"go.opentelemetry.io/otel/trace/noop"
)

var (
	jett   = RiderRef{ID: 1, Name: "Jett Lawrence", Class: sharedtypes.RiderClass450}
	chase  = RiderRef{ID: 2, Name: "Chase Sexton", Class: sharedtypes.RiderClass450}
	cooper = RiderRef{ID: 3, Name: "Cooper Webb", Class: sharedtypes.RiderClass450}
	haiden = RiderRef{ID: 4, Name: "Haiden Deegan", Class: sharedtypes.RiderClass250W}

	round1 = RoundRef{Number: 1, RaceDate: time.Date(2025, 1, 11, 0, 0, 0, 0, time.UTC), Location: "Anaheim, CA", RaceType: sharedtypes.RaceTypeSX}
)

func newTestService(t *testing.T, repo resultdb.Repository, schedule ScheduleReader, opts ...Option) *ResultService {
	t.Helper()
	return NewResultService(
		repo,
		schedule,
		resultdomain.StandardTable,
		nil,
		slog.New(slog.NewTextHandler(io.Discard, nil)),
		metrics.NoOpMetrics{},
		noop.NewTracerProvider().Tracer("test"),
		nil,
		opts...,
	)
}

func newSchedule() *FakeScheduleReader {
	s := NewFakeScheduleReader(jett, chase, cooper, haiden)
	s.addRound(round1)
	return s
}

func TestEnterResults(t *testing.T) {
	ctx := context.Background()

	tests := []struct {
		name        string
		req         EnterResultsRequest
		setupFake   func(*FakeResultRepository)
		wantFailure error
		wantErr     bool
		wantResults []ResultView
	}{
		{
			name: "batch stored with points",
			req: EnterResultsRequest{Round: 1, Class: sharedtypes.PickClass450, Entries: []ResultEntry{
				{Rider: "Chase Sexton", Position: 3},
				{Rider: "Jett Lawrence", Position: 1},
			}},
			wantResults: []ResultView{
				{Rider: "Jett Lawrence", Position: 1, Points: 25},
				{Rider: "Chase Sexton", Position: 3, Points: 20},
			},
		},
		{
			name: "two riders at position 1 rejects the batch",
			req: EnterResultsRequest{Round: 1, Class: sharedtypes.PickClass450, Entries: []ResultEntry{
				{Rider: "Jett Lawrence", Position: 1},
				{Rider: "Chase Sexton", Position: 1},
			}},
			wantFailure: ErrDuplicatePosition,
		},
		{
			name: "collision with a stored row for another rider",
			req: EnterResultsRequest{Round: 1, Class: sharedtypes.PickClass450, Entries: []ResultEntry{
				{Rider: "Cooper Webb", Position: 2},
			}},
			setupFake: func(f *FakeResultRepository) {
				f.seed(1, sharedtypes.PickClass450, chase, 2)
			},
			wantFailure: ErrDuplicatePosition,
		},
		{
			name: "re-entering a rider moves them",
			req: EnterResultsRequest{Round: 1, Class: sharedtypes.PickClass450, Entries: []ResultEntry{
				{Rider: "Chase Sexton", Position: 4},
			}},
			setupFake: func(f *FakeResultRepository) {
				f.seed(1, sharedtypes.PickClass450, chase, 2)
			},
			wantResults: []ResultView{{Rider: "Chase Sexton", Position: 4, Points: 18}},
		},
		{
			name: "replace drops riders missing from the batch",
			req: EnterResultsRequest{Round: 1, Class: sharedtypes.PickClass450, Replace: true, Entries: []ResultEntry{
				{Rider: "Cooper Webb", Position: 2},
			}},
			setupFake: func(f *FakeResultRepository) {
				f.seed(1, sharedtypes.PickClass450, chase, 2)
				f.seed(1, sharedtypes.PickClass450, jett, 1)
			},
			wantResults: []ResultView{{Rider: "Cooper Webb", Position: 2, Points: 22}},
		},
		{
			name:        "non-positive position",
			req:         EnterResultsRequest{Round: 1, Class: sharedtypes.PickClass450, Entries: []ResultEntry{{Rider: "Jett Lawrence", Position: 0}}},
			wantFailure: ErrValidation,
		},
		{
			name:        "empty rider",
			req:         EnterResultsRequest{Round: 1, Class: sharedtypes.PickClass450, Entries: []ResultEntry{{Rider: "  ", Position: 1}}},
			wantFailure: ErrValidation,
		},
		{
			name:        "unknown class",
			req:         EnterResultsRequest{Round: 1, Class: "125", Entries: []ResultEntry{{Rider: "Jett Lawrence", Position: 1}}},
			wantFailure: ErrValidation,
		},
		{
			name:        "rider in the wrong class",
			req:         EnterResultsRequest{Round: 1, Class: sharedtypes.PickClass450, Entries: []ResultEntry{{Rider: "Haiden Deegan", Position: 1}}},
			wantFailure: ErrValidation,
		},
		{
			name:        "unknown round",
			req:         EnterResultsRequest{Round: 9, Class: sharedtypes.PickClass450, Entries: []ResultEntry{{Rider: "Jett Lawrence", Position: 1}}},
			wantFailure: ErrRoundNotFound,
		},
		{
			name:        "unknown rider",
			req:         EnterResultsRequest{Round: 1, Class: sharedtypes.PickClass450, Entries: []ResultEntry{{Rider: "Nobody", Position: 1}}},
			wantFailure: ErrRiderNotFound,
		},
		{
			name: "repository failure is an infrastructure error",
			req:  EnterResultsRequest{Round: 1, Class: sharedtypes.PickClass450, Entries: []ResultEntry{{Rider: "Jett Lawrence", Position: 1}}},
			setupFake: func(f *FakeResultRepository) {
				f.UpsertResultsFunc = func(ctx context.Context, db bun.IDB, rows []resultdb.Result) error {
					return errors.New("connection reset")
				}
			},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fake := NewFakeResultRepository()
			if tt.setupFake != nil {
				tt.setupFake(fake)
			}
			svc := newTestService(t, fake, newSchedule())

			res, err := svc.EnterResults(ctx, tt.req)
			if tt.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)

			if tt.wantFailure != nil {
				require.True(t, res.IsFailure(), "expected failure result")
				assert.ErrorIs(t, *res.Failure, tt.wantFailure)
				assert.NotContains(t, fake.Trace(), "UpsertResults")
				return
			}
			require.True(t, res.IsSuccess(), "expected success, got %v", res.Failure)
			assert.Equal(t, tt.wantResults, res.Success.Results)
		})
	}
}

func TestEnterResults_RejectedBatchLeavesStoreUntouched(t *testing.T) {
	ctx := context.Background()
	fake := NewFakeResultRepository()
	fake.seed(1, sharedtypes.PickClass450, cooper, 5)
	svc := newTestService(t, fake, newSchedule())

	res, err := svc.EnterResults(ctx, EnterResultsRequest{Round: 1, Class: sharedtypes.PickClass450, Entries: []ResultEntry{
		{Rider: "Jett Lawrence", Position: 1},
		{Rider: "Chase Sexton", Position: 1},
	}})
	require.NoError(t, err)
	require.True(t, res.IsFailure())

	stored, err := svc.GetResults(ctx, 1, sharedtypes.PickClass450)
	require.NoError(t, err)
	assert.Equal(t, []ResultView{{Rider: "Cooper Webb", Position: 5, Points: 17}}, stored)
}

func TestEnterResult(t *testing.T) {
	fake := NewFakeResultRepository()
	svc := newTestService(t, fake, newSchedule())

	res, err := svc.EnterResult(context.Background(), 1, sharedtypes.PickClass450, "Cooper Webb", 21)
	require.NoError(t, err)
	require.True(t, res.IsSuccess())
	assert.Equal(t, []ResultView{{Rider: "Cooper Webb", Position: 21, Points: 0}}, res.Success.Results)
}

func TestImportResults(t *testing.T) {
	ctx := context.Background()

	tests := []struct {
		name        string
		source      *FakeSource
		round       sharedtypes.RoundNumber
		wantFailure error
		wantUnknown []string
		wantWritten int
	}{
		{
			name:        "feed stored as an authoritative batch",
			source:      &FakeSource{Positions: map[string]int{"Jett Lawrence": 1, "Chase Sexton": 2, "Eli Tomac": 3}},
			round:       1,
			wantUnknown: []string{"Eli Tomac"},
			wantWritten: 2,
		},
		{
			name:        "fetch error is import unavailable",
			source:      &FakeSource{Err: errors.New("502 bad gateway")},
			round:       1,
			wantFailure: ErrImportUnavailable,
		},
		{
			name:        "empty feed is import unavailable",
			source:      &FakeSource{Positions: map[string]int{}},
			round:       1,
			wantFailure: ErrImportUnavailable,
		},
		{
			name:        "feed with only unknown riders",
			source:      &FakeSource{Positions: map[string]int{"Eli Tomac": 1}},
			round:       1,
			wantFailure: ErrImportUnavailable,
		},
		{
			name:        "duplicate positions in feed",
			source:      &FakeSource{Positions: map[string]int{"Jett Lawrence": 1, "Chase Sexton": 1}},
			round:       1,
			wantFailure: ErrDuplicatePosition,
		},
		{
			name:        "unknown round",
			source:      &FakeSource{Positions: map[string]int{"Jett Lawrence": 1}},
			round:       7,
			wantFailure: ErrRoundNotFound,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fake := NewFakeResultRepository()
			svc := newTestService(t, fake, newSchedule(), WithSource(tt.source), WithImportTimeout(time.Second))

			res, err := svc.ImportResults(ctx, tt.round, sharedtypes.PickClass450)
			require.NoError(t, err)

			if tt.wantFailure != nil {
				require.True(t, res.IsFailure(), "expected failure result")
				assert.ErrorIs(t, *res.Failure, tt.wantFailure)
				return
			}
			require.True(t, res.IsSuccess(), "expected success, got %v", res.Failure)
			assert.Equal(t, tt.wantWritten, res.Success.Written)
			assert.Equal(t, tt.wantUnknown, res.Success.UnknownRiders)
			assert.NotEmpty(t, res.Success.BatchID)
			assert.Equal(t, 3, res.Success.FetchedEntries)
		})
	}
}

func TestImportResults_WithoutSource(t *testing.T) {
	svc := newTestService(t, NewFakeResultRepository(), newSchedule())

	res, err := svc.ImportResults(context.Background(), 1, sharedtypes.PickClass450)
	require.NoError(t, err)
	require.True(t, res.IsFailure())
	assert.ErrorIs(t, *res.Failure, ErrImportUnavailable)
}
