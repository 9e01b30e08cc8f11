// Package auth inspects the tokens the API issues. The client cannot verify
// signatures (it has no key); it only reads claims to decide whether stored
// credentials are still worth keeping.
package auth

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"mentordoc/client/internal/model"
)

const (
	AudienceAccess  = "access_token"
	AudienceRefresh = "refresh_token"
)

var (
	ErrInvalidToken = errors.New("invalid token")
	ErrExpiredToken = errors.New("expired token")
)

type Claims struct {
	Subject   string
	Audience  string
	ExpiresAt time.Time
}

// ParseToken reads the claims of token without verifying its signature.
func ParseToken(token string) (Claims, error) {
	registered := &jwt.RegisteredClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(token, registered); err != nil {
		return Claims{}, ErrInvalidToken
	}
	if registered.Subject == "" || registered.ExpiresAt == nil {
		return Claims{}, ErrInvalidToken
	}

	claims := Claims{Subject: registered.Subject, ExpiresAt: registered.ExpiresAt.Time}
	if len(registered.Audience) > 0 {
		claims.Audience = registered.Audience[0]
	}
	return claims, nil
}

// Lifetime returns how long token stays valid after now. Unreadable or
// expired tokens yield ErrInvalidToken or ErrExpiredToken.
func Lifetime(token string, now time.Time) (time.Duration, error) {
	claims, err := ParseToken(token)
	if err != nil {
		return 0, err
	}
	remaining := claims.ExpiresAt.Sub(now)
	if remaining <= 0 {
		return 0, ErrExpiredToken
	}
	return remaining, nil
}

// SessionLifetime is how long stored credentials remain usable: the refresh
// token can mint new access tokens until it expires itself. ok is false for
// credentials that are already unusable.
func SessionLifetime(data *model.AuthenticationData, now time.Time) (time.Duration, bool) {
	if data == nil || data.RefreshToken == "" {
		return 0, false
	}
	remaining, err := Lifetime(data.RefreshToken, now)
	if errors.Is(err, ErrInvalidToken) {
		// opaque tokens are kept without expiry
		return 0, true
	}
	if err != nil {
		return 0, false
	}
	return remaining, true
}
