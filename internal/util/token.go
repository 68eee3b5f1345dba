package util

import (
	"errors"
	"fmt"

	"github.com/golang-jwt/jwt/v5"
)

// ErrNoUserClaim is returned when a token carries none of the user id claims
var ErrNoUserClaim = errors.New("token has no user id claim")

// userClaimKeys are checked in order
var userClaimKeys = []string{"user_id", "sub", "uid"}

// UserIDFromClaims extracts the user id from JWT claims
func UserIDFromClaims(claims jwt.MapClaims) (string, error) {
	for _, k := range userClaimKeys {
		if v, ok := claims[k].(string); ok && v != "" {
			return v, nil
		}
	}
	return "", ErrNoUserClaim
}

// UserIDFromToken reads the caller's user id from an access token without verifying
// its signature. The board API verifies the token; the client only needs the subject.
func UserIDFromToken(tokenString string) (string, error) {
	claims := jwt.MapClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(tokenString, claims); err != nil {
		return "", fmt.Errorf("parse access token: %w", err)
	}
	return UserIDFromClaims(claims)
}
