package jwtx

// Signer is our interface for anything that can sign JWTs.
type Signer interface {
	Alg() string
	Sign(Claims) (string, error)
	Validate() error
}

// MinSecretSize is the smallest HMAC secret accepted, matching the
// SHA-256 output size.
const MinSecretSize = 32

// NewSignerHS256 creates an HS256 signer from a shared secret.
func NewSignerHS256(secret []byte) (Signer, error) {
	return newHS256Signer(secret)
}
