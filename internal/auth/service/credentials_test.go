package service

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/aussiebroadwan/gatekeep/internal/auth/directory"
	"github.com/aussiebroadwan/gatekeep/internal/auth/domain"
	"github.com/aussiebroadwan/gatekeep/pkg/jwtx"
	"github.com/stretchr/testify/require"
)

var bob = domain.Registration{
	Username:  "bob",
	FirstName: "Bob",
	LastName:  "Builder",
	Email:     "bob@example.com",
	Password:  "bobpassword",
}

func TestSignUp(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	t.Run("creates a USER account and logs it in", func(t *testing.T) {
		f := newFixture(t)

		pair, err := f.validator.SignUp(ctx, bob)
		require.NoError(t, err)
		require.Equal(t, "bob", pair.Identity.Username)
		require.Equal(t, domain.RoleUser, pair.Identity.Role)

		claims, err := f.verifier.Verify(pair.AccessToken)
		require.NoError(t, err)
		require.Equal(t, "bob", claims.Subject)
		require.Equal(t, pair.Identity.UserID, claims.UserID)
	})

	t.Run("username taken", func(t *testing.T) {
		f := newFixture(t)
		taken := bob
		taken.Username = "alice"

		_, err := f.validator.SignUp(ctx, taken)
		require.ErrorIs(t, err, ErrUsernameTaken)
		require.Equal(t, 0, f.dir.Calls("CreateUser"))
	})

	t.Run("email taken", func(t *testing.T) {
		f := newFixture(t)
		taken := bob
		taken.Email = "alice@example.com"

		_, err := f.validator.SignUp(ctx, taken)
		require.ErrorIs(t, err, ErrEmailTaken)
		require.Equal(t, 0, f.dir.Calls("CreateUser"))
	})

	t.Run("existence check failure aborts", func(t *testing.T) {
		f := newFixture(t)
		f.dir.Fail("EmailExists", directory.ErrUnavailable)

		_, err := f.validator.SignUp(ctx, bob)
		require.ErrorIs(t, err, ErrRegistrationFailed)
		require.Equal(t, 0, f.dir.Calls("CreateUser"))
	})

	t.Run("create failure aborts", func(t *testing.T) {
		f := newFixture(t)
		f.dir.Fail("CreateUser", directory.ErrInvalidArgument)

		_, err := f.validator.SignUp(ctx, bob)
		require.ErrorIs(t, err, ErrRegistrationFailed)
	})

	t.Run("issuance failure rolls the account back", func(t *testing.T) {
		f := newFixture(t)
		f.authority.Signer = failingSigner{}

		_, err := f.validator.SignUp(ctx, bob)
		require.ErrorIs(t, err, ErrRegistrationFailed)
		require.Equal(t, 1, f.dir.Calls("DeleteUser"))

		exists, err := f.dir.UsernameExists(ctx, "bob")
		require.NoError(t, err)
		require.False(t, exists)
	})
}

func TestSignIn(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	t.Run("by username", func(t *testing.T) {
		f := newFixture(t)

		pair, err := f.validator.SignIn(ctx, "alice", "pw123456")
		require.NoError(t, err)

		access, err := f.verifier.Verify(pair.AccessToken)
		require.NoError(t, err)
		require.Equal(t, "alice", access.Subject)
		require.Equal(t, domain.RoleUser, access.Role)
		require.Equal(t, access.IssuedAt.Add(f.authority.AccessTTL), access.ExpiresAt.Time)
		require.Equal(t, access.ExpiresAt.Time, pair.ExpiresAt)

		refresh, err := f.verifier.Verify(pair.RefreshToken)
		require.NoError(t, err)
		require.Equal(t, jwtx.TypeRefresh, refresh.Type)

		require.Eventually(t, func() bool {
			return f.dir.LastLoginUpdates(f.alice.UserID) == 1
		}, time.Second, 10*time.Millisecond)
	})

	t.Run("by email", func(t *testing.T) {
		f := newFixture(t)

		pair, err := f.validator.SignIn(ctx, "alice@example.com", "pw123456")
		require.NoError(t, err)
		require.Equal(t, f.alice.UserID, pair.Identity.UserID)
	})

	t.Run("failures collapse to invalid credentials", func(t *testing.T) {
		f := newFixture(t)

		_, err := f.validator.SignIn(ctx, "alice", "wrong")
		require.ErrorIs(t, err, ErrInvalidCredentials)

		_, err = f.validator.SignIn(ctx, "nobody", "pw123456")
		require.ErrorIs(t, err, ErrInvalidCredentials)

		f.dir.Fail("Authenticate", fmt.Errorf("%w: deadline exceeded", directory.ErrUnavailable))
		_, err = f.validator.SignIn(ctx, "alice", "pw123456")
		require.ErrorIs(t, err, ErrInvalidCredentials)
		require.NotErrorIs(t, err, directory.ErrUnavailable)
	})

	t.Run("last login failure does not fail the login", func(t *testing.T) {
		f := newFixture(t)
		f.dir.Fail("UpdateLastLogin", directory.ErrUnavailable)

		_, err := f.validator.SignIn(ctx, "alice", "pw123456")
		require.NoError(t, err)
	})

	t.Run("cancelled request still records last login", func(t *testing.T) {
		f := newFixture(t)
		reqCtx, cancel := context.WithCancel(ctx)

		_, err := f.validator.SignIn(reqCtx, "alice", "pw123456")
		require.NoError(t, err)
		cancel()

		require.Eventually(t, func() bool {
			return f.dir.LastLoginUpdates(f.alice.UserID) == 1
		}, time.Second, 10*time.Millisecond)
	})
}

func TestRefresh(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	t.Run("issues a new pair", func(t *testing.T) {
		f := newFixture(t)
		first, err := f.validator.SignIn(ctx, "alice", "pw123456")
		require.NoError(t, err)
		refreshClaims, err := f.verifier.Verify(first.RefreshToken)
		require.NoError(t, err)

		f.clock.Advance(time.Minute)

		second, err := f.validator.Refresh(ctx, first.RefreshToken)
		require.NoError(t, err)
		require.NotEqual(t, first.AccessToken, second.AccessToken)
		require.True(t, second.ExpiresAt.After(refreshClaims.IssuedAt.Time))
	})

	t.Run("previous access token stays valid until it expires", func(t *testing.T) {
		f := newFixture(t)
		first, err := f.validator.SignIn(ctx, "alice", "pw123456")
		require.NoError(t, err)

		_, err = f.validator.Refresh(ctx, first.RefreshToken)
		require.NoError(t, err)

		require.True(t, f.authority.Validate(ctx, first.AccessToken).Valid())

		f.clock.Advance(f.authority.AccessTTL + time.Second)
		require.Equal(t, domain.StatusExpired, f.authority.Validate(ctx, first.AccessToken).Status)
	})

	t.Run("access tokens are not accepted", func(t *testing.T) {
		f := newFixture(t)
		pair, err := f.validator.SignIn(ctx, "alice", "pw123456")
		require.NoError(t, err)

		_, err = f.validator.Refresh(ctx, pair.AccessToken)
		require.ErrorIs(t, err, ErrInvalidRefreshToken)
	})

	t.Run("revoked refresh token is rejected", func(t *testing.T) {
		f := newFixture(t)
		pair, err := f.validator.SignIn(ctx, "alice", "pw123456")
		require.NoError(t, err)
		require.NoError(t, f.validator.Logout(ctx, pair.RefreshToken))

		_, err = f.validator.Refresh(ctx, pair.RefreshToken)
		require.ErrorIs(t, err, ErrInvalidRefreshToken)
	})

	t.Run("expired refresh token is rejected", func(t *testing.T) {
		f := newFixture(t)
		pair, err := f.validator.SignIn(ctx, "alice", "pw123456")
		require.NoError(t, err)
		f.clock.Advance(f.authority.RefreshTTL + time.Second)

		_, err = f.validator.Refresh(ctx, pair.RefreshToken)
		require.ErrorIs(t, err, ErrInvalidRefreshToken)
	})
}

func TestLogoutThenValidate(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	f := newFixture(t)

	pair, err := f.validator.SignIn(ctx, "alice", "pw123456")
	require.NoError(t, err)
	require.NoError(t, f.validator.Logout(ctx, pair.AccessToken))

	result := f.authority.Validate(ctx, pair.AccessToken)
	require.False(t, result.Valid())
	require.Equal(t, "Token has been invalidated (user logged out)", result.ErrorMessage())
}

func TestChangePassword(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	f := newFixture(t)

	require.ErrorIs(t, f.validator.ChangePassword(ctx, f.alice.UserID, "wrong", "newpassword"), ErrIncorrectPassword)
	require.NoError(t, f.validator.ChangePassword(ctx, f.alice.UserID, "pw123456", "newpassword"))

	_, err := f.validator.SignIn(ctx, "alice", "newpassword")
	require.NoError(t, err)

	require.ErrorIs(t, f.validator.ChangePassword(ctx, 999, "a", "b"), ErrUnauthenticated)
}

func TestProfile(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	f := newFixture(t)

	p, err := f.validator.Profile(ctx, f.alice.UserID)
	require.NoError(t, err)
	require.Equal(t, f.alice, p.Identity)
	require.Equal(t, "ACTIVE", p.Status)

	f.dir.Fail("GetUserProfile", directory.ErrUnavailable)
	_, err = f.validator.Profile(ctx, f.alice.UserID)
	require.ErrorIs(t, err, directory.ErrUnavailable)
}
