package seasonintegrationtests

import (
	"context"
	"testing"
	"time"

	"github.com/Black-And-White-Club/moto-pickem/app"
	userservice "github.com/Black-And-White-Club/moto-pickem/app/modules/user/application"
	"github.com/Black-And-White-Club/moto-pickem/app/shared/clock"
	sharedtypes "github.com/Black-And-White-Club/moto-pickem/app/shared/types"
	"github.com/Black-And-White-Club/moto-pickem/config"
	"github.com/Black-And-White-Club/moto-pickem/integration_tests/testutils"
)

// league is a seeded season: three West-coast supercross rounds a week
// apart and an outdoor round in June.
type league struct {
	ctx    context.Context
	app    *app.App
	clock  *clock.Fake
	roster testutils.Roster
	users  []userservice.UserSummary
}

// r1Deadline is local midnight in Anaheim on the first race date.
var r1Deadline = time.Date(2025, 1, 11, 8, 0, 0, 0, time.UTC)

func newLeague(t *testing.T, users int, opts ...func(*config.Config)) *league {
	t.Helper()

	clk := clock.NewFake(testutils.SeasonStart)
	a := testEnv.NewApp(t, clk, opts...)
	gen := testutils.NewTestDataGenerator()
	t.Logf("data seed %d", gen.Seed())

	ctx := testEnv.Ctx
	l := &league{
		ctx:    ctx,
		app:    a,
		clock:  clk,
		roster: testutils.SeedRoster(t, ctx, a, gen, 12),
		users:  testutils.SeedUsers(t, ctx, a, gen, users),
	}

	testutils.SeedRound(t, ctx, a, 1, time.Date(2025, 1, 11, 0, 0, 0, 0, time.UTC), "Anaheim, CA", sharedtypes.RaceTypeSX, sharedtypes.SplitWest)
	testutils.SeedRound(t, ctx, a, 2, time.Date(2025, 1, 18, 0, 0, 0, 0, time.UTC), "San Diego, CA", sharedtypes.RaceTypeSX, sharedtypes.SplitWest)
	testutils.SeedRound(t, ctx, a, 3, time.Date(2025, 1, 25, 0, 0, 0, 0, time.UTC), "Glendale, AZ", sharedtypes.RaceTypeSX, sharedtypes.SplitWest)
	testutils.SeedRound(t, ctx, a, 4, time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC), "Hangtown, CA", sharedtypes.RaceTypeMX, sharedtypes.SplitCombined)
	return l
}

func (l *league) rider(class sharedtypes.RiderClass, i int) string {
	return l.roster[class][i]
}
