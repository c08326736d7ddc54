package api

import (
	"context"
	"net/http"
	"testing"
	"time"

	pickservice "github.com/Black-And-White-Club/moto-pickem/app/modules/pick/application"
	userservice "github.com/Black-And-White-Club/moto-pickem/app/modules/user/application"
	userjwt "github.com/Black-And-White-Club/moto-pickem/app/modules/user/infrastructure/jwt"
	"github.com/Black-And-White-Club/moto-pickem/app/shared/results"
	sharedtypes "github.com/Black-And-White-Club/moto-pickem/app/shared/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLogin(t *testing.T) {
	tests := []struct {
		name       string
		body       string
		result     userservice.UserResult
		err        error
		wantStatus int
	}{
		{
			name: "valid credentials",
			body: `{"username":"rider_fan","password":"correct horse"}`,
			result: results.SuccessResult[userservice.UserSummary, error](userservice.UserSummary{
				ID: 12, Username: "rider_fan",
			}),
			wantStatus: http.StatusOK,
		},
		{
			name:       "wrong password",
			body:       `{"username":"rider_fan","password":"nope"}`,
			result:     results.FailureResult[userservice.UserSummary, error](userservice.ErrInvalidCredentials),
			wantStatus: http.StatusUnauthorized,
		},
		{
			name:       "unknown field",
			body:       `{"username":"rider_fan","token":"x"}`,
			wantStatus: http.StatusBadRequest,
		},
		{
			name:       "store down",
			body:       `{"username":"rider_fan","password":"correct horse"}`,
			err:        assert.AnError,
			wantStatus: http.StatusInternalServerError,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sessions := userjwt.NewProvider("test-secret")
			f := newFakes()
			f.users.AuthenticateFunc = func(ctx context.Context, username, password string) (userservice.UserResult, error) {
				return tt.result, tt.err
			}
			srv := f.server(t, RouterConfig{Sessions: sessions, SessionTTL: time.Hour})

			resp := do(t, http.MethodPost, srv.URL+"/api/sessions", tt.body, nil)
			require.Equal(t, tt.wantStatus, resp.StatusCode)
			if tt.wantStatus != http.StatusOK {
				return
			}

			got := decode[sessionResponse](t, resp)
			assert.Equal(t, sharedtypes.UserID(12), got.User.ID)
			assert.WithinDuration(t, time.Now().Add(time.Hour), got.ExpiresAt, time.Minute)

			claims, err := sessions.ValidateToken(got.Token)
			require.NoError(t, err)
			assert.Equal(t, sharedtypes.UserID(12), claims.UserID)
			assert.Equal(t, "rider_fan", claims.Username)
		})
	}
}

func TestLoginDisabledWithoutSecret(t *testing.T) {
	srv := newFakes().server(t, RouterConfig{})
	resp := do(t, http.MethodPost, srv.URL+"/api/sessions", `{"username":"a","password":"b"}`, nil)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestBearerIdentity(t *testing.T) {
	sessions := userjwt.NewProvider("test-secret")
	token, _, err := sessions.GenerateToken(42, "holeshot", time.Hour)
	require.NoError(t, err)
	foreign, _, err := userjwt.NewProvider("other-secret").GenerateToken(42, "holeshot", time.Hour)
	require.NoError(t, err)

	tests := []struct {
		name       string
		headers    map[string]string
		wantStatus int
	}{
		{
			name:       "valid token",
			headers:    map[string]string{"Authorization": "Bearer " + token},
			wantStatus: http.StatusOK,
		},
		{
			name:       "foreign token",
			headers:    map[string]string{"Authorization": "Bearer " + foreign},
			wantStatus: http.StatusUnauthorized,
		},
		{
			name:       "header ignored once sessions are on",
			headers:    map[string]string{HeaderUserID: "42"},
			wantStatus: http.StatusUnauthorized,
		},
		{
			name:       "missing",
			wantStatus: http.StatusUnauthorized,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var gotUser sharedtypes.UserID
			f := newFakes()
			f.picks.GetRoundViewFunc = func(ctx context.Context, u sharedtypes.UserID, n sharedtypes.RoundNumber) (pickservice.RoundViewResult, error) {
				gotUser = u
				return results.SuccessResult[pickservice.RoundView, error](pickservice.RoundView{Round: n}), nil
			}
			srv := f.server(t, RouterConfig{Sessions: sessions})

			resp := do(t, http.MethodGet, srv.URL+"/api/rounds/1/picks", "", tt.headers)
			require.Equal(t, tt.wantStatus, resp.StatusCode)
			if tt.wantStatus == http.StatusOK {
				assert.Equal(t, sharedtypes.UserID(42), gotUser)
			}
		})
	}
}
