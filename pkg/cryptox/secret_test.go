package cryptox_test

import (
	"encoding/base64"
	"os"
	"path/filepath"
	"testing"

	"github.com/aussiebroadwan/gatekeep/pkg/cryptox"
	"github.com/stretchr/testify/require"
)

func TestDecodeSecret(t *testing.T) {
	raw := []byte{0xfb, 0xff, 0x01, 0x02, 0x03}

	for _, enc := range []*base64.Encoding{base64.StdEncoding, base64.RawStdEncoding, base64.URLEncoding, base64.RawURLEncoding} {
		got, err := cryptox.DecodeSecret(" " + enc.EncodeToString(raw) + "\n")
		require.NoError(t, err)
		require.Equal(t, raw, got)
	}

	_, err := cryptox.DecodeSecret("%%%")
	require.Error(t, err)
}

func TestLoadOrCreateSecret(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "secret")

	first, err := cryptox.LoadOrCreateSecret(path, 32)
	require.NoError(t, err)
	require.Len(t, first, 32)

	info, err := os.Stat(path)
	require.NoError(t, err)
	require.Equal(t, os.FileMode(0o600), info.Mode().Perm())

	second, err := cryptox.LoadOrCreateSecret(path, 32)
	require.NoError(t, err)
	require.Equal(t, first, second, "existing secret must be reused")

	t.Run("rejects a short secret", func(t *testing.T) {
		short := filepath.Join(t.TempDir(), "short")
		require.NoError(t, os.WriteFile(short, []byte(base64.RawURLEncoding.EncodeToString([]byte("tiny"))), 0o600))

		_, err := cryptox.LoadOrCreateSecret(short, 32)
		require.Error(t, err)
	})
}

func TestFingerprintToken(t *testing.T) {
	a := cryptox.FingerprintToken("token-a")
	require.Equal(t, a, cryptox.FingerprintToken("token-a"))
	require.NotEqual(t, a, cryptox.FingerprintToken("token-b"))
	require.Len(t, a, 16)
}
