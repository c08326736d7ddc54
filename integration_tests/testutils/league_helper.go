package testutils

import (
	"context"
	"testing"
	"time"

	"github.com/Black-And-White-Club/moto-pickem/app"
	scheduleservice "github.com/Black-And-White-Club/moto-pickem/app/modules/schedule/application"
	userservice "github.com/Black-And-White-Club/moto-pickem/app/modules/user/application"
	sharedtypes "github.com/Black-And-White-Club/moto-pickem/app/shared/types"
	"github.com/stretchr/testify/require"
)

// Roster is the seeded rider names per class.
type Roster map[sharedtypes.RiderClass][]string

// SeedRoster adds n active riders to each class.
func SeedRoster(t *testing.T, ctx context.Context, a *app.App, gen *TestDataGenerator, n int) Roster {
	t.Helper()

	roster := Roster{}
	for _, class := range []sharedtypes.RiderClass{sharedtypes.RiderClass450, sharedtypes.RiderClass250E, sharedtypes.RiderClass250W} {
		for _, name := range gen.RiderNames(n) {
			res, err := a.Modules.Schedule.ScheduleService.UpsertRider(ctx, scheduleservice.RiderInput{
				Name:   name,
				Class:  class,
				Active: true,
			})
			require.NoError(t, err)
			require.True(t, res.IsSuccess(), "upsert rider %s: %v", name, res.Failure)
			roster[class] = append(roster[class], name)
		}
	}
	return roster
}

// SeedUsers registers n users.
func SeedUsers(t *testing.T, ctx context.Context, a *app.App, gen *TestDataGenerator, n int) []userservice.UserSummary {
	t.Helper()

	users := make([]userservice.UserSummary, 0, n)
	for i := 0; i < n; i++ {
		res, err := a.Modules.User.UserService.RegisterUser(ctx, gen.Username(), gen.Email(), gen.Password())
		require.NoError(t, err)
		require.True(t, res.IsSuccess(), "register user: %v", res.Failure)
		users = append(users, *res.Success)
	}
	return users
}

// SeedRound creates a round racing on the given calendar date.
func SeedRound(t *testing.T, ctx context.Context, a *app.App, number int, date time.Time, location string, raceType sharedtypes.RaceType, split sharedtypes.SplitMode) scheduleservice.RoundInfo {
	t.Helper()

	res, err := a.Modules.Schedule.ScheduleService.UpsertRound(ctx, scheduleservice.RoundInput{
		Number:    sharedtypes.RoundNumber(number),
		RaceDate:  time.Date(date.Year(), date.Month(), date.Day(), 0, 0, 0, 0, time.UTC),
		Location:  location,
		RaceType:  raceType,
		SplitMode: split,
	})
	require.NoError(t, err)
	require.True(t, res.IsSuccess(), "upsert round %d: %v", number, res.Failure)
	return *res.Success
}
