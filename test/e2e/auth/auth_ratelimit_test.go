package auth_test

import (
	"testing"

	"github.com/aussiebroadwan/gatekeep/pkg/authsdk"
	"github.com/stretchr/testify/require"
)

// TestLoginRateLimit runs with the production limits: five logins per
// minute per client address.
func TestLoginRateLimit(t *testing.T) {
	s := setupStack(t, stackOptions{defaultRateLimits: true})
	client := authsdk.NewClient(s.AuthURL)

	limited := false
	for i := range 10 {
		_, err := client.Login(t.Context(), "nobody", "wrong-password")
		require.Error(t, err)
		if authsdk.IsRateLimited(err) {
			require.GreaterOrEqual(t, i, 5, "limited after only %d attempts", i)
			limited = true
			break
		}
		require.True(t, authsdk.IsUnauthorized(err), "attempt %d: %v", i, err)
	}
	require.True(t, limited, "login was never rate limited")
}
