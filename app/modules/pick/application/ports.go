package pickservice

import (
	"context"
	"time"

	pickdomain "github.com/Black-And-White-Club/moto-pickem/app/modules/pick/domain"
	sharedtypes "github.com/Black-And-White-Club/moto-pickem/app/shared/types"
	"github.com/uptrace/bun"
)

// RoundRef is the part of a round the pick service needs.
type RoundRef struct {
	Number    sharedtypes.RoundNumber
	RaceDate  time.Time
	Location  string
	RaceType  sharedtypes.RaceType
	SplitMode sharedtypes.SplitMode
}

// RiderRef is a roster entry.
type RiderRef struct {
	ID     int64
	Name   string
	Class  sharedtypes.RiderClass
	Active bool
}

// ScheduleReader resolves rounds and rosters.
type ScheduleReader interface {
	// GetRound returns nil, nil for an unknown round.
	GetRound(ctx context.Context, db bun.IDB, number sharedtypes.RoundNumber) (*RoundRef, error)
	ListRounds(ctx context.Context, db bun.IDB) ([]RoundRef, error)
	// EligibleRiders returns active riders that may be picked for class
	// under split, ordered by name.
	EligibleRiders(ctx context.Context, db bun.IDB, class sharedtypes.PickClass, split sharedtypes.SplitMode) ([]RiderRef, error)
	RidersByName(ctx context.Context, db bun.IDB, names []string) ([]RiderRef, error)
}

// HistoryReader supplies the finishes auto-picks are ranked on.
type HistoryReader interface {
	FinishesBefore(ctx context.Context, db bun.IDB, round sharedtypes.RoundNumber) ([]pickdomain.Finish, error)
}

// UserDirectory lists league members.
type UserDirectory interface {
	UserExists(ctx context.Context, db bun.IDB, id sharedtypes.UserID) (bool, error)
	ListUserIDs(ctx context.Context, db bun.IDB) ([]sharedtypes.UserID, error)
}
