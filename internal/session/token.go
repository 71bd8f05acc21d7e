package session

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

var ErrMalformedToken = errors.New("malformed bearer token")

// ExpiresAt reads the exp claim of an upstream JWT without verifying its
// signature. The console never holds the upstream signing key; the upstream stays
// authoritative and this is only used to skip calls that are certain to fail.
// ok is false when the token carries no exp claim.
func ExpiresAt(token string) (exp time.Time, ok bool, err error) {
	claims := jwt.RegisteredClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(token, &claims); err != nil {
		return time.Time{}, false, fmt.Errorf("%w: %v", ErrMalformedToken, err)
	}
	if claims.ExpiresAt == nil {
		return time.Time{}, false, nil
	}
	return claims.ExpiresAt.Time, true, nil
}

// TokenExpired reports whether token is a JWT whose exp is at or before now.
// Opaque or malformed tokens are never considered expired here.
func TokenExpired(token string, now time.Time) bool {
	exp, ok, err := ExpiresAt(token)
	if err != nil || !ok {
		return false
	}
	return !now.Before(exp)
}
