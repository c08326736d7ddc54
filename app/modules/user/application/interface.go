package userservice

import (
	"context"

	userdb "github.com/Black-And-White-Club/moto-pickem/app/modules/user/infrastructure/repositories"
	"github.com/Black-And-White-Club/moto-pickem/app/shared/results"
	sharedtypes "github.com/Black-And-White-Club/moto-pickem/app/shared/types"
)

type (
	UserResult  = results.OperationResult[UserSummary, error]
	AdminResult = results.OperationResult[sharedtypes.UserID, error]
)

// UserSummary is the admin-facing view of a user.
type UserSummary struct {
	ID       sharedtypes.UserID `json:"id"`
	Username string             `json:"username"`
	Email    string             `json:"email,omitempty"`
	IsAdmin  bool               `json:"is_admin"`
}

func summarize(u userdb.User) UserSummary {
	s := UserSummary{ID: u.ID, Username: u.Username, IsAdmin: u.IsAdmin}
	if u.Email != nil {
		s.Email = *u.Email
	}
	return s
}

// Service manages player accounts.
type Service interface {
	RegisterUser(ctx context.Context, username, email, password string) (UserResult, error)
	GetUser(ctx context.Context, id sharedtypes.UserID) (*UserSummary, error)
	ListUsers(ctx context.Context) ([]UserSummary, error)
	ResetPassword(ctx context.Context, id sharedtypes.UserID, newPassword string) (AdminResult, error)
	DeleteUser(ctx context.Context, id sharedtypes.UserID) (AdminResult, error)
	VerifyPassword(ctx context.Context, username, password string) (bool, error)
	Authenticate(ctx context.Context, username, password string) (UserResult, error)
}

var _ Service = (*UserService)(nil)
