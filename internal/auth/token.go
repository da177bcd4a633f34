package auth

import (
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// expiryLeeway is how long before actual expiry a token is treated as stale,
// so a request doesn't leave with a token that dies in transit.
const expiryLeeway = 30 * time.Second

// Expiry reports the expiry time of an access token. The signature is not
// verified: only the backend can (and must) verify it, the client just needs
// to know when to refresh.
func Expiry(token string) (time.Time, error) {
	claims := &jwt.RegisteredClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(token, claims); err != nil {
		return time.Time{}, fmt.Errorf("parsing token: %w", err)
	}
	if claims.ExpiresAt == nil {
		return time.Time{}, fmt.Errorf("token has no expiry claim")
	}
	return claims.ExpiresAt.Time, nil
}

// Subject reports the subject claim of an access token, for display purposes.
func Subject(token string) (string, error) {
	claims := &jwt.RegisteredClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(token, claims); err != nil {
		return "", fmt.Errorf("parsing token: %w", err)
	}
	return claims.Subject, nil
}

// stillValid reports whether the token is usable for at least expiryLeeway.
// Unparseable tokens count as expired.
func stillValid(token string, now time.Time) bool {
	exp, err := Expiry(token)
	if err != nil {
		return false
	}
	return exp.After(now.Add(expiryLeeway))
}
