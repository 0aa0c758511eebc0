package cryptox

import (
	"crypto/sha256"
	"encoding/base64"
)

// FingerprintToken returns a short deterministic SHA-256 fingerprint of a
// token. Logs carry the fingerprint so a bearer credential never ends up
// in log storage.
func FingerprintToken(token string) string {
	sum := sha256.Sum256([]byte(token))
	return base64.RawURLEncoding.EncodeToString(sum[:12])
}
