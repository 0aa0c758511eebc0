package jwtx

import (
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// HS256Verifier validates JWTs signed with a shared HMAC secret.
type HS256Verifier struct {
	secret []byte
	issuer string
	now    func() time.Time
}

// NewVerifierHS256 creates a verifier for tokens signed with secret. An
// empty issuer disables the issuer check.
func NewVerifierHS256(secret []byte, issuer string) *HS256Verifier {
	return &HS256Verifier{
		secret: append([]byte(nil), secret...),
		issuer: issuer,
		now:    time.Now,
	}
}

// WithClock swaps the wall clock used for expiry checks.
func (v *HS256Verifier) WithClock(now func() time.Time) *HS256Verifier {
	v.now = now
	return v
}

// Verify validates the JWT string and returns its parsed Claims.
func (v *HS256Verifier) Verify(tokenStr string) (Claims, error) {
	parser := jwt.NewParser(
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(v.now),
	)

	var claims Claims
	_, err := parser.ParseWithClaims(tokenStr, &claims, func(t *jwt.Token) (any, error) {
		// Only HMAC-SHA256 is ever issued here, reject everything else
		// (including "none") before touching the secret.
		if t.Method != jwt.SigningMethodHS256 {
			return nil, errUnsupportedAlg
		}
		return v.secret, nil
	})
	if err != nil {
		return Claims{}, classify(err)
	}

	if err := claims.ValidateIssuer(v.issuer); err != nil {
		return Claims{}, classify(err)
	}

	return claims, nil
}
