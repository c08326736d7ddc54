// Package userjwt issues and checks the signed session tokens players get
// after logging in.
package userjwt

import (
	"errors"
	"fmt"
	"strconv"
	"time"

	sharedtypes "github.com/Black-And-White-Club/moto-pickem/app/shared/types"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

const issuer = "moto-pickem"

// Claims is the identity carried by a session token.
type Claims struct {
	UserID    sharedtypes.UserID
	Username  string
	IssuedAt  time.Time
	ExpiresAt time.Time
}

// Provider defines the interface for session token operations.
type Provider interface {
	// GenerateToken signs a token for the user valid for ttl.
	GenerateToken(userID sharedtypes.UserID, username string, ttl time.Duration) (string, time.Time, error)

	// ValidateToken validates a token and returns its claims.
	ValidateToken(tokenString string) (*Claims, error)
}

type sessionClaims struct {
	jwt.RegisteredClaims
	Username string `json:"username,omitempty"`
}

type provider struct {
	secret []byte
	now    func() time.Time
}

// NewProvider creates an HS256 provider.
func NewProvider(secret string) Provider {
	return &provider{secret: []byte(secret), now: time.Now}
}

func (p *provider) GenerateToken(userID sharedtypes.UserID, username string, ttl time.Duration) (string, time.Time, error) {
	now := p.now()
	expires := now.Add(ttl)
	claims := &sessionClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.NewString(),
			Issuer:    issuer,
			Subject:   strconv.FormatInt(int64(userID), 10),
			ExpiresAt: jwt.NewNumericDate(expires),
			IssuedAt:  jwt.NewNumericDate(now),
		},
		Username: username,
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(p.secret)
	if err != nil {
		return "", time.Time{}, fmt.Errorf("failed to sign token: %w", err)
	}
	return signed, expires, nil
}

func (p *provider) ValidateToken(tokenString string) (*Claims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &sessionClaims{}, func(token *jwt.Token) (any, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, ErrInvalidSignature
		}
		return p.secret, nil
	}, jwt.WithIssuer(issuer), jwt.WithTimeFunc(p.now))
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, ErrExpiredToken
		}
		if errors.Is(err, jwt.ErrTokenSignatureInvalid) {
			return nil, ErrInvalidSignature
		}
		return nil, ErrInvalidToken
	}

	claims, ok := token.Claims.(*sessionClaims)
	if !ok || !token.Valid {
		return nil, ErrInvalidToken
	}
	id, err := strconv.ParseInt(claims.Subject, 10, 64)
	if err != nil || id <= 0 {
		return nil, ErrInvalidToken
	}

	out := &Claims{UserID: sharedtypes.UserID(id), Username: claims.Username}
	if claims.IssuedAt != nil {
		out.IssuedAt = claims.IssuedAt.Time
	}
	if claims.ExpiresAt != nil {
		out.ExpiresAt = claims.ExpiresAt.Time
	}
	return out, nil
}
