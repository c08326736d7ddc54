package userservice

import (
	"context"
	"errors"
	"fmt"
	"net/mail"
	"regexp"
	"strings"

	userdb "github.com/Black-And-White-Club/moto-pickem/app/modules/user/infrastructure/repositories"
	"github.com/Black-And-White-Club/moto-pickem/app/shared/results"
	"github.com/uptrace/bun"
	"golang.org/x/crypto/bcrypt"
)

// MinPasswordLength is the shortest accepted password.
const MinPasswordLength = 8

var usernamePattern = regexp.MustCompile(`^[A-Za-z0-9_.-]{3,32}$`)

func validateRegistration(username, email, password string) error {
	if !usernamePattern.MatchString(username) {
		return fmt.Errorf("%w: use 3-32 letters, digits, '.', '_' or '-'", ErrInvalidUsername)
	}
	if email != "" {
		if _, err := mail.ParseAddress(email); err != nil {
			return fmt.Errorf("%w: %s", ErrInvalidEmail, email)
		}
	}
	if len(password) < MinPasswordLength {
		return ErrWeakPassword
	}
	return nil
}

// RegisterUser creates an account with a bcrypt password hash.
func (s *UserService) RegisterUser(ctx context.Context, username, email, password string) (UserResult, error) {
	username = strings.TrimSpace(username)
	email = strings.TrimSpace(email)

	return withTelemetry(s, ctx, "RegisterUser", 0, func(ctx context.Context) (UserResult, error) {
		if err := validateRegistration(username, email, password); err != nil {
			return results.FailureResult[UserSummary, error](err), nil
		}

		hash, err := bcrypt.GenerateFromPassword([]byte(password), s.bcryptCost)
		if err != nil {
			return UserResult{}, fmt.Errorf("hash password: %w", err)
		}

		user := &userdb.User{Username: username, PasswordHash: string(hash)}
		if email != "" {
			user.Email = &email
		}

		return runInTx(s, ctx, func(ctx context.Context, db bun.IDB) (UserResult, error) {
			if _, err := s.repo.GetUserByUsername(ctx, db, username); err == nil {
				return results.FailureResult[UserSummary, error](ErrUserAlreadyExists), nil
			} else if !errors.Is(err, userdb.ErrNotFound) {
				return UserResult{}, err
			}

			if err := s.repo.CreateUser(ctx, db, user); err != nil {
				if errors.Is(err, userdb.ErrDuplicateUsername) {
					return results.FailureResult[UserSummary, error](ErrUserAlreadyExists), nil
				}
				return UserResult{}, err
			}
			return results.SuccessResult[UserSummary, error](summarize(*user)), nil
		})
	})
}

// VerifyPassword reports whether password matches the stored hash. An
// unknown username is not an error.
func (s *UserService) VerifyPassword(ctx context.Context, username, password string) (bool, error) {
	user, err := s.checkPassword(ctx, username, password)
	return user != nil, err
}

// Authenticate returns the user whose credentials match. Unknown usernames
// and wrong passwords both fail with ErrInvalidCredentials.
func (s *UserService) Authenticate(ctx context.Context, username, password string) (UserResult, error) {
	return withTelemetry(s, ctx, "Authenticate", 0, func(ctx context.Context) (UserResult, error) {
		user, err := s.checkPassword(ctx, strings.TrimSpace(username), password)
		if err != nil {
			return UserResult{}, err
		}
		if user == nil {
			return results.FailureResult[UserSummary, error](ErrInvalidCredentials), nil
		}
		return results.SuccessResult[UserSummary, error](summarize(*user)), nil
	})
}

// checkPassword returns the user when password matches, nil otherwise.
func (s *UserService) checkPassword(ctx context.Context, username, password string) (*userdb.User, error) {
	user, err := s.repo.GetUserByUsername(ctx, nil, username)
	if err != nil {
		if errors.Is(err, userdb.ErrNotFound) {
			return nil, nil
		}
		return nil, err
	}
	err = bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password))
	if errors.Is(err, bcrypt.ErrMismatchedHashAndPassword) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return user, nil
}
