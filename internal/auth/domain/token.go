package domain

import "time"

// TokenTypeBearer is the scheme clients present tokens with.
const TokenTypeBearer = "Bearer"

// TokenPair is what a successful sign-up, sign-in or refresh returns.
// ExpiresAt is the access token expiry.
type TokenPair struct {
	AccessToken  string
	RefreshToken string
	ExpiresAt    time.Time
	Identity     Identity
}
