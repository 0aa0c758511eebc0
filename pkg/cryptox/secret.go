package cryptox

import (
	"crypto/rand"
	"encoding/base64"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// DecodeSecret decodes a base64 secret in either the standard or the URL
// alphabet, padded or not.
func DecodeSecret(s string) ([]byte, error) {
	s = strings.TrimSpace(s)
	for _, enc := range []*base64.Encoding{
		base64.StdEncoding, base64.RawStdEncoding,
		base64.URLEncoding, base64.RawURLEncoding,
	} {
		if b, err := enc.DecodeString(s); err == nil {
			return b, nil
		}
	}
	return nil, errors.New("cryptox: secret is not valid base64")
}

// LoadOrCreateSecret reads a base64 secret from path. When the file does
// not exist a random secret of size bytes is generated and written with
// 0600 permissions, so the value survives restarts.
func LoadOrCreateSecret(path string, size int) ([]byte, error) {
	path = filepath.Clean(path)

	raw, err := os.ReadFile(path)
	switch {
	case err == nil:
		secret, err := DecodeSecret(string(raw))
		if err != nil {
			return nil, fmt.Errorf("cryptox: %s: %w", path, err)
		}
		if len(secret) < size {
			return nil, fmt.Errorf("cryptox: %s holds %d bytes, need at least %d", path, len(secret), size)
		}
		return secret, nil
	case !errors.Is(err, os.ErrNotExist):
		return nil, fmt.Errorf("cryptox: read %s: %w", path, err)
	}

	if err := os.MkdirAll(filepath.Dir(path), 0o750); err != nil {
		return nil, fmt.Errorf("cryptox: create dir for %s: %w", path, err)
	}

	secret := make([]byte, size)
	if _, err := rand.Read(secret); err != nil {
		return nil, fmt.Errorf("cryptox: generate secret: %w", err)
	}
	encoded := base64.RawURLEncoding.EncodeToString(secret)
	if err := os.WriteFile(path, []byte(encoded), 0o600); err != nil {
		return nil, fmt.Errorf("cryptox: write %s: %w", path, err)
	}
	return secret, nil
}
