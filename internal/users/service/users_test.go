package service_test

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/aussiebroadwan/gatekeep/internal/users/domain"
	"github.com/aussiebroadwan/gatekeep/internal/users/service"
	"github.com/aussiebroadwan/gatekeep/internal/users/store/drivers/sqlite"
	"github.com/aussiebroadwan/gatekeep/pkg/cryptox"
	"github.com/stretchr/testify/require"
)

var fixedNow = time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

func newService(t *testing.T) *service.UserService {
	t.Helper()

	st, err := sqlite.NewStore(filepath.Join(t.TempDir(), "users.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = st.Close() })
	require.NoError(t, st.ApplyMigrations())

	svc := service.NewUserService(st, cryptox.NewPasswordHasher([]byte("test-pepper")))
	svc.Now = func() time.Time { return fixedNow }
	return svc
}

func createAda(t *testing.T, svc *service.UserService) domain.User {
	t.Helper()

	u, err := svc.CreateUser(context.Background(), service.CreateUserParams{
		Username:  "ada",
		FirstName: "Ada",
		LastName:  "Lovelace",
		Email:     "ada@example.com",
		Password:  "correct horse",
	})
	require.NoError(t, err)
	return u
}

func TestCreateUser(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	t.Run("defaults role and status", func(t *testing.T) {
		t.Parallel()
		svc := newService(t)

		u := createAda(t, svc)
		require.Positive(t, u.ID)
		require.Equal(t, domain.RoleUser, u.Role)
		require.Equal(t, domain.StatusActive, u.Status)
		require.NotEqual(t, "correct horse", u.PasswordHash)
		require.Equal(t, fixedNow, u.CreatedAt)
	})

	t.Run("admin role", func(t *testing.T) {
		t.Parallel()
		svc := newService(t)

		u, err := svc.CreateUser(ctx, service.CreateUserParams{
			Username: "root", Email: "root@example.com", Password: "password1", Role: domain.RoleAdmin,
		})
		require.NoError(t, err)
		require.Equal(t, domain.RoleAdmin, u.Role)
	})

	t.Run("duplicate", func(t *testing.T) {
		t.Parallel()
		svc := newService(t)
		createAda(t, svc)

		_, err := svc.CreateUser(ctx, service.CreateUserParams{
			Username: "ada", Email: "someone@example.com", Password: "password1",
		})
		require.ErrorIs(t, err, service.ErrAlreadyExists)
	})

	t.Run("invalid input", func(t *testing.T) {
		t.Parallel()
		svc := newService(t)

		_, err := svc.CreateUser(ctx, service.CreateUserParams{Username: "  ", Email: "a@b.c", Password: "x"})
		require.ErrorIs(t, err, service.ErrInvalidArgument)

		_, err = svc.CreateUser(ctx, service.CreateUserParams{Username: "ada", Email: "a@b.c", Password: "x", Role: "ROOT"})
		require.ErrorIs(t, err, service.ErrInvalidArgument)
	})
}

func TestAuthenticate(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	svc := newService(t)
	ada := createAda(t, svc)

	t.Run("by username", func(t *testing.T) {
		u, err := svc.Authenticate(ctx, "ada", "correct horse", false)
		require.NoError(t, err)
		require.Equal(t, ada.ID, u.ID)
	})

	t.Run("by email", func(t *testing.T) {
		u, err := svc.Authenticate(ctx, "ada@example.com", "correct horse", true)
		require.NoError(t, err)
		require.Equal(t, ada.ID, u.ID)
	})

	t.Run("email without flag is a username lookup", func(t *testing.T) {
		_, err := svc.Authenticate(ctx, "ada@example.com", "correct horse", false)
		require.ErrorIs(t, err, service.ErrInvalidCredentials)
	})

	t.Run("wrong password", func(t *testing.T) {
		_, err := svc.Authenticate(ctx, "ada", "wrong horse", false)
		require.ErrorIs(t, err, service.ErrInvalidCredentials)
	})

	t.Run("unknown user", func(t *testing.T) {
		_, err := svc.Authenticate(ctx, "nobody", "correct horse", false)
		require.ErrorIs(t, err, service.ErrInvalidCredentials)
	})

	t.Run("missing password", func(t *testing.T) {
		_, err := svc.Authenticate(ctx, "ada", "", false)
		require.ErrorIs(t, err, service.ErrInvalidArgument)
	})
}

func TestUpdatePassword(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	t.Run("with current password", func(t *testing.T) {
		t.Parallel()
		svc := newService(t)
		ada := createAda(t, svc)

		ok, err := svc.UpdatePassword(ctx, ada.ID, "correct horse", "battery staple")
		require.NoError(t, err)
		require.True(t, ok)

		_, err = svc.Authenticate(ctx, "ada", "correct horse", false)
		require.ErrorIs(t, err, service.ErrInvalidCredentials)
		_, err = svc.Authenticate(ctx, "ada", "battery staple", false)
		require.NoError(t, err)
	})

	t.Run("wrong current password", func(t *testing.T) {
		t.Parallel()
		svc := newService(t)
		ada := createAda(t, svc)

		ok, err := svc.UpdatePassword(ctx, ada.ID, "nope", "battery staple")
		require.NoError(t, err)
		require.False(t, ok)

		_, err = svc.Authenticate(ctx, "ada", "correct horse", false)
		require.NoError(t, err)
	})

	t.Run("empty current skips check", func(t *testing.T) {
		t.Parallel()
		svc := newService(t)
		ada := createAda(t, svc)

		ok, err := svc.UpdatePassword(ctx, ada.ID, "", "battery staple")
		require.NoError(t, err)
		require.True(t, ok)
	})

	t.Run("unknown user", func(t *testing.T) {
		t.Parallel()
		svc := newService(t)

		_, err := svc.UpdatePassword(ctx, 42, "", "battery staple")
		require.ErrorIs(t, err, service.ErrNotFound)
	})

	t.Run("empty new password", func(t *testing.T) {
		t.Parallel()
		svc := newService(t)
		ada := createAda(t, svc)

		_, err := svc.UpdatePassword(ctx, ada.ID, "correct horse", "")
		require.ErrorIs(t, err, service.ErrInvalidArgument)
	})
}

func TestLifecycle(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	svc := newService(t)
	ada := createAda(t, svc)

	exists, err := svc.UsernameExists(ctx, "ada")
	require.NoError(t, err)
	require.True(t, exists)

	exists, err = svc.EmailExists(ctx, "grace@example.com")
	require.NoError(t, err)
	require.False(t, exists)

	require.NoError(t, svc.UpdateLastLogin(ctx, ada.ID))
	got, err := svc.GetUser(ctx, ada.ID)
	require.NoError(t, err)
	require.NotNil(t, got.LastLoginAt)
	require.True(t, fixedNow.Equal(*got.LastLoginAt))

	require.NoError(t, svc.DeleteUser(ctx, ada.ID))
	require.ErrorIs(t, svc.DeleteUser(ctx, ada.ID), service.ErrNotFound)
	require.ErrorIs(t, svc.UpdateLastLogin(ctx, ada.ID), service.ErrNotFound)

	_, err = svc.FindByUsername(ctx, "ada")
	require.ErrorIs(t, err, service.ErrNotFound)

	_, err = svc.GetUser(ctx, 0)
	require.ErrorIs(t, err, service.ErrInvalidArgument)
}
