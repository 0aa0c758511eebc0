package jwtx

import (
	"fmt"

	"github.com/golang-jwt/jwt/v5"
)

// HS256Signer implements the Signer interface using HMAC-SHA256.
type HS256Signer struct {
	secret []byte
	alg    string
}

func newHS256Signer(secret []byte) (*HS256Signer, error) {
	s := &HS256Signer{
		secret: append([]byte(nil), secret...),
		alg:    jwt.SigningMethodHS256.Alg(),
	}
	if err := s.Validate(); err != nil {
		return nil, err
	}
	return s, nil
}

func (s *HS256Signer) Alg() string { return s.alg }

// Sign takes your claims and turns them into a signed JWT string.
func (s *HS256Signer) Sign(claims Claims) (string, error) {
	t := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return t.SignedString(s.secret)
}

// Validate does a quick sanity check on the secret size.
func (s *HS256Signer) Validate() error {
	if len(s.secret) < MinSecretSize {
		return fmt.Errorf("jwtx: HS256 secret must be at least %d bytes, got %d", MinSecretSize, len(s.secret))
	}
	return nil
}
