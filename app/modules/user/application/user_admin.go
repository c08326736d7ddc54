package userservice

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/Black-And-White-Club/moto-pickem/app/eventbus"
	userdb "github.com/Black-And-White-Club/moto-pickem/app/modules/user/infrastructure/repositories"
	"github.com/Black-And-White-Club/moto-pickem/app/shared/attr"
	"github.com/Black-And-White-Club/moto-pickem/app/shared/results"
	sharedtypes "github.com/Black-And-White-Club/moto-pickem/app/shared/types"
	"github.com/uptrace/bun"
	"golang.org/x/crypto/bcrypt"
)

func (s *UserService) GetUser(ctx context.Context, id sharedtypes.UserID) (*UserSummary, error) {
	u, err := s.repo.GetUserByID(ctx, nil, id)
	if err != nil {
		if errors.Is(err, userdb.ErrNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	summary := summarize(*u)
	return &summary, nil
}

// ListUsers returns id, username and email of every account.
func (s *UserService) ListUsers(ctx context.Context) ([]UserSummary, error) {
	users, err := s.repo.ListUsers(ctx, nil)
	if err != nil {
		return nil, err
	}
	out := make([]UserSummary, 0, len(users))
	for _, u := range users {
		out = append(out, summarize(u))
	}
	return out, nil
}

// ResetPassword replaces a user's password hash.
func (s *UserService) ResetPassword(ctx context.Context, id sharedtypes.UserID, newPassword string) (AdminResult, error) {
	return withTelemetry(s, ctx, "ResetPassword", id, func(ctx context.Context) (AdminResult, error) {
		if len(newPassword) < MinPasswordLength {
			return results.FailureResult[sharedtypes.UserID, error](ErrWeakPassword), nil
		}
		hash, err := bcrypt.GenerateFromPassword([]byte(newPassword), s.bcryptCost)
		if err != nil {
			return AdminResult{}, fmt.Errorf("hash password: %w", err)
		}
		return runInTx(s, ctx, func(ctx context.Context, db bun.IDB) (AdminResult, error) {
			err := s.repo.UpdatePasswordHash(ctx, db, id, string(hash))
			if errors.Is(err, userdb.ErrNotFound) {
				return results.FailureResult[sharedtypes.UserID, error](ErrUserNotFound), nil
			}
			if err != nil {
				return AdminResult{}, err
			}
			return results.SuccessResult[sharedtypes.UserID, error](id), nil
		})
	})
}

// DeleteUser removes a user along with their picks and cached leaderboard
// rows.
func (s *UserService) DeleteUser(ctx context.Context, id sharedtypes.UserID) (AdminResult, error) {
	res, err := withTelemetry(s, ctx, "DeleteUser", id, func(ctx context.Context) (AdminResult, error) {
		return runInTx(s, ctx, func(ctx context.Context, db bun.IDB) (AdminResult, error) {
			err := s.repo.DeleteUser(ctx, db, id)
			if errors.Is(err, userdb.ErrNotFound) {
				return results.FailureResult[sharedtypes.UserID, error](ErrUserNotFound), nil
			}
			if err != nil {
				return AdminResult{}, err
			}
			return results.SuccessResult[sharedtypes.UserID, error](id), nil
		})
	})
	if err == nil && res.IsSuccess() {
		if pubErr := eventbus.PublishEvent(ctx, s.eventBus, eventbus.TopicUserDeleted, eventbus.UserDeleted{
			UserID:     id,
			OccurredAt: time.Now().UTC(),
		}); pubErr != nil {
			s.logger.WarnContext(ctx, "Failed to publish user deletion", attr.UserID("user_id", id), attr.Error(pubErr))
		}
	}
	return res, err
}
