package userservice

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"

	userdb "github.com/Black-And-White-Club/moto-pickem/app/modules/user/infrastructure/repositories"
	"github.com/Black-And-White-Club/moto-pickem/app/shared/metrics"
	sharedtypes "github.com/Black-And-White-Club/moto-pickem/app/shared/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/uptrace/bun"
	"go.opentelemetry.io/otel/trace/noop"
	"golang.org/x/crypto/bcrypt"
)

func newTestService(repo userdb.Repository) *UserService {
	return NewUserService(
		repo,
		nil,
		slog.New(slog.NewTextHandler(io.Discard, nil)),
		metrics.NoOpMetrics{},
		noop.NewTracerProvider().Tracer("test"),
		nil,
		bcrypt.MinCost,
	)
}

func TestRegisterUser(t *testing.T) {
	ctx := context.Background()

	tests := []struct {
		name        string
		username    string
		email       string
		password    string
		setupFake   func(*FakeUserRepository)
		wantFailure error
		wantErr     bool
	}{
		{name: "valid registration", username: "alice", email: "alice@example.com", password: "supersecret"},
		{name: "email is optional", username: "bob", password: "supersecret"},
		{name: "short username", username: "al", password: "supersecret", wantFailure: ErrInvalidUsername},
		{name: "bad characters", username: "al ice", password: "supersecret", wantFailure: ErrInvalidUsername},
		{name: "bad email", username: "carol", email: "not-an-email", password: "supersecret", wantFailure: ErrInvalidEmail},
		{name: "weak password", username: "dave", password: "short", wantFailure: ErrWeakPassword},
		{
			name:     "duplicate username",
			username: "erin",
			password: "supersecret",
			setupFake: func(f *FakeUserRepository) {
				f.nextID = 1
				f.users[1] = userdb.User{ID: 1, Username: "erin"}
			},
			wantFailure: ErrUserAlreadyExists,
		},
		{
			name:     "unique violation race maps to already exists",
			username: "frank",
			password: "supersecret",
			setupFake: func(f *FakeUserRepository) {
				f.CreateUserFunc = func(ctx context.Context, db bun.IDB, user *userdb.User) error {
					return userdb.ErrDuplicateUsername
				}
			},
			wantFailure: ErrUserAlreadyExists,
		},
		{
			name:     "database failure",
			username: "grace",
			password: "supersecret",
			setupFake: func(f *FakeUserRepository) {
				f.CreateUserFunc = func(ctx context.Context, db bun.IDB, user *userdb.User) error {
					return errors.New("disk full")
				}
			},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fake := NewFakeUserRepository()
			if tt.setupFake != nil {
				tt.setupFake(fake)
			}
			svc := newTestService(fake)

			res, err := svc.RegisterUser(ctx, tt.username, tt.email, tt.password)
			if tt.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			if tt.wantFailure != nil {
				require.NotNil(t, res.Failure)
				assert.ErrorIs(t, *res.Failure, tt.wantFailure)
				return
			}
			require.NotNil(t, res.Success)
			assert.Equal(t, tt.username, res.Success.Username)
			assert.Equal(t, tt.email, res.Success.Email)

			ok, err := svc.VerifyPassword(ctx, tt.username, tt.password)
			require.NoError(t, err)
			assert.True(t, ok)
		})
	}
}

func TestResetPassword(t *testing.T) {
	ctx := context.Background()
	fake := NewFakeUserRepository()
	svc := newTestService(fake)

	reg, err := svc.RegisterUser(ctx, "alice", "", "original-pass")
	require.NoError(t, err)
	id := reg.Success.ID

	res, err := svc.ResetPassword(ctx, id, "brand-new-pass")
	require.NoError(t, err)
	require.NotNil(t, res.Success)

	ok, err := svc.VerifyPassword(ctx, "alice", "original-pass")
	require.NoError(t, err)
	assert.False(t, ok, "old password must stop working")

	ok, err = svc.VerifyPassword(ctx, "alice", "brand-new-pass")
	require.NoError(t, err)
	assert.True(t, ok)

	res, err = svc.ResetPassword(ctx, id, "short")
	require.NoError(t, err)
	assert.ErrorIs(t, *res.Failure, ErrWeakPassword)

	res, err = svc.ResetPassword(ctx, sharedtypes.UserID(999), "long-enough-pass")
	require.NoError(t, err)
	assert.ErrorIs(t, *res.Failure, ErrUserNotFound)
}

func TestListAndDeleteUsers(t *testing.T) {
	ctx := context.Background()
	fake := NewFakeUserRepository()
	svc := newTestService(fake)

	for _, name := range []string{"alice", "bob", "carol"} {
		_, err := svc.RegisterUser(ctx, name, name+"@example.com", "supersecret")
		require.NoError(t, err)
	}

	users, err := svc.ListUsers(ctx)
	require.NoError(t, err)
	require.Len(t, users, 3)
	assert.Equal(t, "alice", users[0].Username)
	assert.Equal(t, "bob@example.com", users[1].Email)

	res, err := svc.DeleteUser(ctx, users[1].ID)
	require.NoError(t, err)
	require.NotNil(t, res.Success)

	_, err = svc.GetUser(ctx, users[1].ID)
	assert.ErrorIs(t, err, ErrUserNotFound)

	res, err = svc.DeleteUser(ctx, users[1].ID)
	require.NoError(t, err)
	assert.ErrorIs(t, *res.Failure, ErrUserNotFound)
}

func TestVerifyPasswordUnknownUser(t *testing.T) {
	ok, err := newTestService(NewFakeUserRepository()).VerifyPassword(context.Background(), "ghost", "whatever1")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestAuthenticate(t *testing.T) {
	ctx := context.Background()
	svc := newTestService(NewFakeUserRepository())

	reg, err := svc.RegisterUser(ctx, "alice", "", "supersecret")
	require.NoError(t, err)
	require.True(t, reg.IsSuccess())

	tests := []struct {
		name     string
		username string
		password string
		wantOK   bool
	}{
		{name: "valid", username: "alice", password: "supersecret", wantOK: true},
		{name: "surrounding spaces", username: " alice ", password: "supersecret", wantOK: true},
		{name: "wrong password", username: "alice", password: "supersecret!"},
		{name: "unknown user", username: "ghost", password: "supersecret"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res, err := svc.Authenticate(ctx, tt.username, tt.password)
			require.NoError(t, err)
			if !tt.wantOK {
				require.True(t, res.IsFailure())
				assert.ErrorIs(t, *res.Failure, ErrInvalidCredentials)
				return
			}
			require.True(t, res.IsSuccess())
			assert.Equal(t, reg.Success.ID, res.Success.ID)
		})
	}
}
