package jwtx

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// Verifier validates a JWT and gives you back the claims if it's legit.
type Verifier interface {
	Verify(token string) (Claims, error)
}

// Every error returned by a Verifier wraps exactly one of the first four
// sentinels below, so callers can branch on the failure kind.
var (
	ErrMalformed   = errors.New("jwtx: malformed token")
	ErrUnsupported = errors.New("jwtx: unsupported token format")
	ErrInvalidSig  = errors.New("jwtx: invalid signature")
	ErrExpired     = errors.New("jwtx: token expired")

	ErrIssuer       = errors.New("jwtx: issuer mismatch")
	ErrInvalidClaim = errors.New("jwtx: invalid claims")

	errUnsupportedAlg = errors.New("jwtx: unsupported signing algorithm")
)

// classify folds the golang-jwt error tree into our sentinels.
func classify(err error) error {
	switch {
	case errors.Is(err, errUnsupportedAlg), errors.Is(err, jwt.ErrTokenUnverifiable):
		return fmt.Errorf("%w: %v", ErrUnsupported, err)
	case errors.Is(err, jwt.ErrTokenMalformed):
		return fmt.Errorf("%w: %v", ErrMalformed, err)
	case errors.Is(err, jwt.ErrTokenSignatureInvalid):
		return fmt.Errorf("%w: %v", ErrInvalidSig, err)
	case errors.Is(err, jwt.ErrTokenExpired):
		return fmt.Errorf("%w: %v", ErrExpired, err)
	case errors.Is(err, ErrIssuer):
		return fmt.Errorf("%w: %w", ErrUnsupported, err)
	default:
		return fmt.Errorf("%w: %w: %v", ErrMalformed, ErrInvalidClaim, err)
	}
}

// PeekExpiry reads the exp claim without verifying the token. It must only
// feed bookkeeping such as revocation pruning, never an access decision.
func PeekExpiry(tokenString string) (time.Time, bool) {
	var claims Claims
	if _, _, err := jwt.NewParser().ParseUnverified(tokenString, &claims); err != nil {
		return time.Time{}, false
	}
	if claims.ExpiresAt == nil {
		return time.Time{}, false
	}
	return claims.ExpiresAt.Time, true
}
