package resultservice

import (
	"context"
	"time"

	sharedtypes "github.com/Black-And-White-Club/moto-pickem/app/shared/types"
	"github.com/uptrace/bun"
)

// RoundRef is the slice of a round the result service needs.
type RoundRef struct {
	Number   sharedtypes.RoundNumber
	RaceDate time.Time
	Location string
	RaceType sharedtypes.RaceType
}

// RiderRef identifies a roster entry.
type RiderRef struct {
	ID    int64
	Name  string
	Class sharedtypes.RiderClass
}

// ScheduleReader resolves rounds and riders from the registry.
type ScheduleReader interface {
	// GetRound returns nil, nil for an unknown round.
	GetRound(ctx context.Context, db bun.IDB, number sharedtypes.RoundNumber) (*RoundRef, error)
	RidersByName(ctx context.Context, db bun.IDB, names []string) ([]RiderRef, error)
}

// ResultsSource fetches best-effort finishing positions from outside the
// league database. An empty map means nothing was published yet.
type ResultsSource interface {
	FetchPositions(ctx context.Context, round RoundRef, class sharedtypes.PickClass) (map[string]int, error)
}
