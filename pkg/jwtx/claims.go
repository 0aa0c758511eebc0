package jwtx

import (
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// Default token TTL constants. Services can override them through config.
const (
	// DefaultAccessTokenTTL is the default lifetime for access tokens.
	DefaultAccessTokenTTL = 15 * time.Minute

	// DefaultRefreshTokenTTL is the default lifetime for refresh tokens.
	// Must stay longer than the access token lifetime.
	DefaultRefreshTokenTTL = 7 * 24 * time.Hour
)

// TypeRefresh is the value of the "type" claim on refresh tokens. Access
// tokens carry no type claim at all.
const TypeRefresh = "refresh"

// Claims are the claims carried by both access and refresh tokens. The
// subject is always the username; the identity fields are a snapshot taken
// at issuance time.
type Claims struct {
	jwt.RegisteredClaims

	UserID    int64  `json:"id"`
	Username  string `json:"username,omitempty"`
	FirstName string `json:"firstName,omitempty"`
	LastName  string `json:"lastName,omitempty"`
	Email     string `json:"email,omitempty"`
	Role      string `json:"role,omitempty"`

	// Type is "refresh" on refresh tokens and empty otherwise.
	Type string `json:"type,omitempty"`
}

// Subject identity fields embedded into a token.
type Subject struct {
	UserID    int64
	Username  string
	FirstName string
	LastName  string
	Email     string
	Role      string
}

// NewAccessClaims builds access token claims for the subject.
func NewAccessClaims(sub Subject, issuer string, ttl time.Duration, now time.Time) Claims {
	return newClaims(sub, issuer, ttl, now, "")
}

// NewRefreshClaims builds refresh token claims for the subject. They differ
// from access claims only by the "type" claim and the lifetime.
func NewRefreshClaims(sub Subject, issuer string, ttl time.Duration, now time.Time) Claims {
	return newClaims(sub, issuer, ttl, now, TypeRefresh)
}

func newClaims(sub Subject, issuer string, ttl time.Duration, now time.Time, typ string) Claims {
	return Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    issuer,
			Subject:   sub.Username,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
			ID:        NewTokenID(),
		},
		UserID:    sub.UserID,
		Username:  sub.Username,
		FirstName: sub.FirstName,
		LastName:  sub.LastName,
		Email:     sub.Email,
		Role:      sub.Role,
		Type:      typ,
	}
}

// NewTokenID returns a fresh identifier for the "jti" claim, so two tokens
// issued for the same subject in the same second still differ.
func NewTokenID() string {
	return uuid.NewString()
}

// IsRefresh reports whether the claims belong to a refresh token.
func (c *Claims) IsRefresh() bool {
	return c.Type == TypeRefresh
}

// Identity returns the identity snapshot embedded in the claims.
func (c *Claims) Identity() Subject {
	return Subject{
		UserID:    c.UserID,
		Username:  c.Username,
		FirstName: c.FirstName,
		LastName:  c.LastName,
		Email:     c.Email,
		Role:      c.Role,
	}
}

// ValidateIssuer checks if the issuer matches expected value.
func (c *Claims) ValidateIssuer(expected string) error {
	if expected == "" {
		return nil // nothing to enforce
	}

	if c.Issuer != expected {
		return ErrIssuer
	}

	return nil
}
