package api

import (
	"context"
	"time"

	leaderboardservice "github.com/Black-And-White-Club/moto-pickem/app/modules/leaderboard/application"
	pickservice "github.com/Black-And-White-Club/moto-pickem/app/modules/pick/application"
	resultservice "github.com/Black-And-White-Club/moto-pickem/app/modules/result/application"
	scheduleservice "github.com/Black-And-White-Club/moto-pickem/app/modules/schedule/application"
	scheduledb "github.com/Black-And-White-Club/moto-pickem/app/modules/schedule/infrastructure/repositories"
	userservice "github.com/Black-And-White-Club/moto-pickem/app/modules/user/application"
	sharedtypes "github.com/Black-And-White-Club/moto-pickem/app/shared/types"
)

// Each fake answers with its Func field when set, and a zero value otherwise.

type fakeSchedule struct {
	UpsertRoundFunc    func(ctx context.Context, in scheduleservice.RoundInput) (scheduleservice.RoundResult, error)
	DeleteRoundFunc    func(ctx context.Context, n sharedtypes.RoundNumber) (scheduleservice.DeleteResult, error)
	GetRoundFunc       func(ctx context.Context, n sharedtypes.RoundNumber) (*scheduleservice.RoundInfo, error)
	ListRoundsFunc     func(ctx context.Context) ([]scheduleservice.RoundInfo, error)
	UpsertRiderFunc    func(ctx context.Context, in scheduleservice.RiderInput) (scheduleservice.RiderResult, error)
	SetRiderActiveFunc func(ctx context.Context, name string, active bool) error
	EligibleRidersFunc func(ctx context.Context, n sharedtypes.RoundNumber, c sharedtypes.PickClass) ([]scheduledb.Rider, error)
}

func (f *fakeSchedule) UpsertRound(ctx context.Context, in scheduleservice.RoundInput) (scheduleservice.RoundResult, error) {
	if f.UpsertRoundFunc != nil {
		return f.UpsertRoundFunc(ctx, in)
	}
	return scheduleservice.RoundResult{}, nil
}

func (f *fakeSchedule) DeleteRound(ctx context.Context, n sharedtypes.RoundNumber) (scheduleservice.DeleteResult, error) {
	if f.DeleteRoundFunc != nil {
		return f.DeleteRoundFunc(ctx, n)
	}
	return scheduleservice.DeleteResult{}, nil
}

func (f *fakeSchedule) GetRound(ctx context.Context, n sharedtypes.RoundNumber) (*scheduleservice.RoundInfo, error) {
	if f.GetRoundFunc != nil {
		return f.GetRoundFunc(ctx, n)
	}
	return nil, scheduleservice.ErrRoundNotFound
}

func (f *fakeSchedule) ListRounds(ctx context.Context) ([]scheduleservice.RoundInfo, error) {
	if f.ListRoundsFunc != nil {
		return f.ListRoundsFunc(ctx)
	}
	return nil, nil
}

func (f *fakeSchedule) LockedRounds(ctx context.Context) ([]scheduleservice.RoundInfo, error) {
	return nil, nil
}

func (f *fakeSchedule) Deadline(ctx context.Context, n sharedtypes.RoundNumber) (time.Time, bool, error) {
	return time.Time{}, false, nil
}

func (f *fakeSchedule) UpsertRider(ctx context.Context, in scheduleservice.RiderInput) (scheduleservice.RiderResult, error) {
	if f.UpsertRiderFunc != nil {
		return f.UpsertRiderFunc(ctx, in)
	}
	return scheduleservice.RiderResult{}, nil
}

func (f *fakeSchedule) SetRiderActive(ctx context.Context, name string, active bool) error {
	if f.SetRiderActiveFunc != nil {
		return f.SetRiderActiveFunc(ctx, name, active)
	}
	return nil
}

func (f *fakeSchedule) ListRiders(ctx context.Context, classes []sharedtypes.RiderClass, activeOnly bool) ([]scheduledb.Rider, error) {
	return nil, nil
}

func (f *fakeSchedule) EligibleRiders(ctx context.Context, n sharedtypes.RoundNumber, c sharedtypes.PickClass) ([]scheduledb.Rider, error) {
	if f.EligibleRidersFunc != nil {
		return f.EligibleRidersFunc(ctx, n, c)
	}
	return nil, nil
}

type fakePicks struct {
	SubmitPickFunc       func(ctx context.Context, u sharedtypes.UserID, n sharedtypes.RoundNumber, sel pickservice.Selection) (pickservice.SubmitResult, error)
	GetRoundViewFunc     func(ctx context.Context, u sharedtypes.UserID, n sharedtypes.RoundNumber) (pickservice.RoundViewResult, error)
	RunAutoPickSweepFunc func(ctx context.Context, n sharedtypes.RoundNumber) (pickservice.SweepResult, error)
}

func (f *fakePicks) SubmitPick(ctx context.Context, u sharedtypes.UserID, n sharedtypes.RoundNumber, sel pickservice.Selection) (pickservice.SubmitResult, error) {
	if f.SubmitPickFunc != nil {
		return f.SubmitPickFunc(ctx, u, n, sel)
	}
	return pickservice.SubmitResult{}, nil
}

func (f *fakePicks) GetExistingPicks(ctx context.Context, u sharedtypes.UserID, n sharedtypes.RoundNumber) ([]pickservice.ExistingPick, error) {
	return nil, nil
}

func (f *fakePicks) GetRoundView(ctx context.Context, u sharedtypes.UserID, n sharedtypes.RoundNumber) (pickservice.RoundViewResult, error) {
	if f.GetRoundViewFunc != nil {
		return f.GetRoundViewFunc(ctx, u, n)
	}
	return pickservice.RoundViewResult{}, nil
}

func (f *fakePicks) RunAutoPickSweep(ctx context.Context, n sharedtypes.RoundNumber) (pickservice.SweepResult, error) {
	if f.RunAutoPickSweepFunc != nil {
		return f.RunAutoPickSweepFunc(ctx, n)
	}
	return pickservice.SweepResult{}, nil
}

func (f *fakePicks) SweepLockedRounds(ctx context.Context) ([]pickservice.SweepSummary, error) {
	return nil, nil
}

func (f *fakePicks) UpcomingDeadlines(ctx context.Context) ([]pickservice.RoundDeadline, error) {
	return nil, nil
}

type fakeResults struct {
	EnterResultsFunc  func(ctx context.Context, req resultservice.EnterResultsRequest) (resultservice.EnterResultsResult, error)
	ImportResultsFunc func(ctx context.Context, n sharedtypes.RoundNumber, c sharedtypes.PickClass) (resultservice.ImportResult, error)
	GetResultsFunc    func(ctx context.Context, n sharedtypes.RoundNumber, c sharedtypes.PickClass) ([]resultservice.ResultView, error)
}

func (f *fakeResults) EnterResults(ctx context.Context, req resultservice.EnterResultsRequest) (resultservice.EnterResultsResult, error) {
	if f.EnterResultsFunc != nil {
		return f.EnterResultsFunc(ctx, req)
	}
	return resultservice.EnterResultsResult{}, nil
}

func (f *fakeResults) EnterResult(ctx context.Context, n sharedtypes.RoundNumber, c sharedtypes.PickClass, rider string, position int) (resultservice.EnterResultsResult, error) {
	return f.EnterResults(ctx, resultservice.EnterResultsRequest{
		Round: n, Class: c, Entries: []resultservice.ResultEntry{{Rider: rider, Position: position}},
	})
}

func (f *fakeResults) ImportResults(ctx context.Context, n sharedtypes.RoundNumber, c sharedtypes.PickClass) (resultservice.ImportResult, error) {
	if f.ImportResultsFunc != nil {
		return f.ImportResultsFunc(ctx, n, c)
	}
	return resultservice.ImportResult{}, nil
}

func (f *fakeResults) GetResults(ctx context.Context, n sharedtypes.RoundNumber, c sharedtypes.PickClass) ([]resultservice.ResultView, error) {
	if f.GetResultsFunc != nil {
		return f.GetResultsFunc(ctx, n, c)
	}
	return nil, nil
}

type fakeLeaderboard struct {
	TriggerRecalculationFunc func(ctx context.Context) (leaderboardservice.RecalcResult, error)
	GetLeaderboardFunc       func(ctx context.Context, v sharedtypes.ViewType) (leaderboardservice.LeaderboardResult, error)
	StandingsProgressionFunc func(ctx context.Context, v sharedtypes.ViewType, top int) (leaderboardservice.Progression, error)
}

func (f *fakeLeaderboard) TriggerRecalculation(ctx context.Context) (leaderboardservice.RecalcResult, error) {
	if f.TriggerRecalculationFunc != nil {
		return f.TriggerRecalculationFunc(ctx)
	}
	return leaderboardservice.RecalcResult{}, nil
}

func (f *fakeLeaderboard) GetLeaderboard(ctx context.Context, v sharedtypes.ViewType) (leaderboardservice.LeaderboardResult, error) {
	if f.GetLeaderboardFunc != nil {
		return f.GetLeaderboardFunc(ctx, v)
	}
	return leaderboardservice.LeaderboardResult{}, nil
}

func (f *fakeLeaderboard) GetLastRecalculated(ctx context.Context) (*time.Time, error) {
	return nil, nil
}

func (f *fakeLeaderboard) MarkStale(ctx context.Context, at time.Time) error {
	return nil
}

func (f *fakeLeaderboard) StandingsProgression(ctx context.Context, v sharedtypes.ViewType, top int) (leaderboardservice.Progression, error) {
	if f.StandingsProgressionFunc != nil {
		return f.StandingsProgressionFunc(ctx, v, top)
	}
	return leaderboardservice.Progression{View: v}, nil
}

type fakeUsers struct {
	RegisterUserFunc  func(ctx context.Context, username, email, password string) (userservice.UserResult, error)
	ListUsersFunc     func(ctx context.Context) ([]userservice.UserSummary, error)
	ResetPasswordFunc func(ctx context.Context, id sharedtypes.UserID, pw string) (userservice.AdminResult, error)
	DeleteUserFunc    func(ctx context.Context, id sharedtypes.UserID) (userservice.AdminResult, error)
	AuthenticateFunc  func(ctx context.Context, username, password string) (userservice.UserResult, error)
}

func (f *fakeUsers) RegisterUser(ctx context.Context, username, email, password string) (userservice.UserResult, error) {
	if f.RegisterUserFunc != nil {
		return f.RegisterUserFunc(ctx, username, email, password)
	}
	return userservice.UserResult{}, nil
}

func (f *fakeUsers) GetUser(ctx context.Context, id sharedtypes.UserID) (*userservice.UserSummary, error) {
	return nil, userservice.ErrUserNotFound
}

func (f *fakeUsers) ListUsers(ctx context.Context) ([]userservice.UserSummary, error) {
	if f.ListUsersFunc != nil {
		return f.ListUsersFunc(ctx)
	}
	return nil, nil
}

func (f *fakeUsers) ResetPassword(ctx context.Context, id sharedtypes.UserID, pw string) (userservice.AdminResult, error) {
	if f.ResetPasswordFunc != nil {
		return f.ResetPasswordFunc(ctx, id, pw)
	}
	return userservice.AdminResult{}, nil
}

func (f *fakeUsers) DeleteUser(ctx context.Context, id sharedtypes.UserID) (userservice.AdminResult, error) {
	if f.DeleteUserFunc != nil {
		return f.DeleteUserFunc(ctx, id)
	}
	return userservice.AdminResult{}, nil
}

func (f *fakeUsers) VerifyPassword(ctx context.Context, username, password string) (bool, error) {
	return false, nil
}

func (f *fakeUsers) Authenticate(ctx context.Context, username, password string) (userservice.UserResult, error) {
	if f.AuthenticateFunc != nil {
		return f.AuthenticateFunc(ctx, username, password)
	}
	return userservice.UserResult{}, nil
}

var (
	_ scheduleservice.Service    = (*fakeSchedule)(nil)
	_ pickservice.Service        = (*fakePicks)(nil)
	_ resultservice.Service      = (*fakeResults)(nil)
	_ leaderboardservice.Service = (*fakeLeaderboard)(nil)
	_ userservice.Service        = (*fakeUsers)(nil)
)
