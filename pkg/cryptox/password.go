package cryptox

import (
	"crypto/rand"
	"crypto/subtle"
	"encoding/base64"
	"errors"
	"fmt"
	"strings"

	"golang.org/x/crypto/argon2"
)

// Argon2id parameters used for new hashes. Verification reads the
// parameters back from the stored hash, so changing these only affects
// passwords hashed afterwards.
const (
	memory      = 19 * 1024 // KiB
	iterations  = 2
	parallelism = 1
	keyLength   = 32
	saltLength  = 16
)

var (
	// ErrPasswordMismatch is returned when a password does not match its hash.
	ErrPasswordMismatch = errors.New("password does not match")
	// ErrInvalidHash is returned for stored hashes that are not argon2id PHC strings.
	ErrInvalidHash = errors.New("invalid hash format")
)

// PasswordHasher hashes passwords with Argon2id and a server-side pepper
// that never lives next to the hashes.
type PasswordHasher struct {
	pepper []byte
}

// NewPasswordHasher returns a hasher mixing pepper into every hash.
func NewPasswordHasher(pepper []byte) *PasswordHasher {
	return &PasswordHasher{pepper: append([]byte(nil), pepper...)}
}

func (h *PasswordHasher) key(password string, salt []byte, iters, mem uint32, par uint8, n uint32) []byte {
	input := make([]byte, 0, len(password)+len(h.pepper))
	input = append(input, password...)
	input = append(input, h.pepper...)
	return argon2.IDKey(input, salt, iters, mem, par, n)
}

// Hash returns a PHC-format Argon2id hash string including salt and parameters.
func (h *PasswordHasher) Hash(password string) (string, error) {
	salt := make([]byte, saltLength)
	if _, err := rand.Read(salt); err != nil {
		return "", fmt.Errorf("cryptox: read salt: %w", err)
	}
	sum := h.key(password, salt, iterations, memory, parallelism, keyLength)

	return fmt.Sprintf(
		"$argon2id$v=%d$m=%d,t=%d,p=%d$%s$%s",
		argon2.Version,
		memory,
		iterations,
		parallelism,
		base64.RawStdEncoding.EncodeToString(salt),
		base64.RawStdEncoding.EncodeToString(sum),
	), nil
}

// Verify compares a plaintext password against a PHC-style Argon2id hash.
func (h *PasswordHasher) Verify(password, encoded string) error {
	// ["", "argon2id", "v=19", "m=X,t=Y,p=Z", "salt", "hash"]
	parts := strings.Split(encoded, "$")
	if len(parts) != 6 || parts[0] != "" || parts[1] != "argon2id" {
		return ErrInvalidHash
	}
	if parts[2] != fmt.Sprintf("v=%d", argon2.Version) {
		return fmt.Errorf("%w: unsupported version %q", ErrInvalidHash, parts[2])
	}

	var mem, iters uint32
	var par uint8
	if _, err := fmt.Sscanf(parts[3], "m=%d,t=%d,p=%d", &mem, &iters, &par); err != nil {
		return fmt.Errorf("%w: parameters: %v", ErrInvalidHash, err)
	}
	if iters == 0 || par == 0 {
		return fmt.Errorf("%w: parameters out of range", ErrInvalidHash)
	}

	salt, err := base64.RawStdEncoding.DecodeString(parts[4])
	if err != nil {
		return fmt.Errorf("%w: salt: %v", ErrInvalidHash, err)
	}
	want, err := base64.RawStdEncoding.DecodeString(parts[5])
	if err != nil || len(want) == 0 {
		return fmt.Errorf("%w: hash", ErrInvalidHash)
	}

	got := h.key(password, salt, iters, mem, par, uint32(len(want))) // #nosec G115 - bounded by the decoded hash
	if subtle.ConstantTimeCompare(got, want) != 1 {
		return ErrPasswordMismatch
	}
	return nil
}
