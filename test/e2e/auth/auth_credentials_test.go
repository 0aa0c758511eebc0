package auth_test

import (
	"net/http"
	"testing"

	"github.com/aussiebroadwan/gatekeep/pkg/authsdk"
	"github.com/stretchr/testify/require"
)

func TestCredentialLifecycle(t *testing.T) {
	s := setupStack(t, stackOptions{})
	client := authsdk.NewClient(s.AuthURL)
	ctx := t.Context()

	registered := registerUser(t, client, "alice")

	t.Run("duplicate registration", func(t *testing.T) {
		_, err := client.Register(ctx, authsdk.RegisterRequest{
			Username: "alice", FirstName: "Other", LastName: "Alice",
			Email: "other@example.com", Password: testPassword,
		})
		assertStatus(t, err, http.StatusBadRequest)
	})

	t.Run("login by username and email", func(t *testing.T) {
		byName, err := client.Login(ctx, "alice", testPassword)
		require.NoError(t, err)
		assertAuthenticationResponse(t, byName, "alice")
		require.Equal(t, registered.UserID, byName.UserID)

		byEmail, err := client.Login(ctx, "alice@example.com", testPassword)
		require.NoError(t, err)
		require.Equal(t, registered.UserID, byEmail.UserID)
	})

	t.Run("bad credentials look the same", func(t *testing.T) {
		_, errWrong := client.Login(ctx, "alice", "wrong-password")
		assertStatus(t, errWrong, http.StatusUnauthorized)

		_, errUnknown := client.Login(ctx, "nobody", testPassword)
		assertStatus(t, errUnknown, http.StatusUnauthorized)

		require.Equal(t, errWrong.Error(), errUnknown.Error())
	})

	t.Run("profile", func(t *testing.T) {
		profile, err := client.Profile(ctx, registered.AccessToken)
		require.NoError(t, err)
		require.Equal(t, "alice", profile.UserInfo.Username)
		require.Equal(t, "alice@example.com", profile.UserInfo.Email)
		require.Equal(t, "ACTIVE", profile.Status)

		_, err = client.Profile(ctx, "not-a-token")
		assertStatus(t, err, http.StatusUnauthorized)
	})

	t.Run("refresh keeps the old access token valid", func(t *testing.T) {
		login, err := client.Login(ctx, "alice", testPassword)
		require.NoError(t, err)

		refreshed, err := client.Refresh(ctx, login.RefreshToken)
		require.NoError(t, err)
		assertAuthenticationResponse(t, refreshed, "alice")
		require.NotEqual(t, login.AccessToken, refreshed.AccessToken)

		_, err = client.Profile(ctx, login.AccessToken)
		require.NoError(t, err)

		_, err = client.Refresh(ctx, login.AccessToken)
		assertStatus(t, err, http.StatusUnauthorized)
	})

	t.Run("change password", func(t *testing.T) {
		_, err := client.ChangePassword(ctx, registered.AccessToken, authsdk.ChangePasswordRequest{
			CurrentPassword: "wrong-password",
			NewPassword:     "NewPassword456!",
		})
		assertStatus(t, err, http.StatusBadRequest)

		resp, err := client.ChangePassword(ctx, registered.AccessToken, authsdk.ChangePasswordRequest{
			CurrentPassword: testPassword,
			NewPassword:     "NewPassword456!",
		})
		require.NoError(t, err)
		require.True(t, resp.Success)

		_, err = client.Login(ctx, "alice", testPassword)
		assertStatus(t, err, http.StatusUnauthorized)
		_, err = client.Login(ctx, "alice", "NewPassword456!")
		require.NoError(t, err)
	})

	t.Run("logout revokes the token", func(t *testing.T) {
		login, err := client.Login(ctx, "alice", "NewPassword456!")
		require.NoError(t, err)

		resp, err := client.Logout(ctx, login.AccessToken)
		require.NoError(t, err)
		require.True(t, resp.Success)

		_, err = client.Profile(ctx, login.AccessToken)
		assertStatus(t, err, http.StatusUnauthorized)
	})

	t.Run("validation errors", func(t *testing.T) {
		_, err := client.Register(ctx, authsdk.RegisterRequest{Username: "x", Email: "nope", Password: "short"})
		assertStatus(t, err, http.StatusUnprocessableEntity)
		require.True(t, authsdk.IsValidationError(err))
	})
}
