package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/aussiebroadwan/gatekeep/internal/auth/directory"
	"github.com/aussiebroadwan/gatekeep/internal/auth/domain"
	"github.com/aussiebroadwan/gatekeep/pkg/slogx"
)

// DefaultBackgroundTimeout bounds fire-and-forget directory calls.
const DefaultBackgroundTimeout = 5 * time.Second

// CredentialValidator runs the sign-up, sign-in, refresh and logout flows by
// combining directory answers with token operations.
type CredentialValidator struct {
	Tokens    *TokenAuthority
	Directory directory.Client

	// BackgroundTimeout bounds the last-login update and sign-up rollback.
	BackgroundTimeout time.Duration
}

func (v *CredentialValidator) backgroundTimeout() time.Duration {
	if v.BackgroundTimeout > 0 {
		return v.BackgroundTimeout
	}
	return DefaultBackgroundTimeout
}

// SignUp creates an account with the USER role and logs it in. If tokens
// cannot be issued the new account is deleted again.
func (v *CredentialValidator) SignUp(ctx context.Context, reg domain.Registration) (domain.TokenPair, error) {
	log := slogx.FromContext(ctx).With("username", reg.Username)

	taken, err := v.Directory.UsernameExists(ctx, reg.Username)
	if err != nil {
		log.Error("username availability check failed", "error", err)
		return domain.TokenPair{}, fmt.Errorf("%w: %w", ErrRegistrationFailed, err)
	}
	if taken {
		return domain.TokenPair{}, ErrUsernameTaken
	}

	taken, err = v.Directory.EmailExists(ctx, reg.Email)
	if err != nil {
		log.Error("email availability check failed", "error", err)
		return domain.TokenPair{}, fmt.Errorf("%w: %w", ErrRegistrationFailed, err)
	}
	if taken {
		return domain.TokenPair{}, ErrEmailTaken
	}

	identity, err := v.Directory.CreateUser(ctx, reg, domain.RoleUser)
	if err != nil {
		log.Error("create user failed", "error", err)
		return domain.TokenPair{}, fmt.Errorf("%w: %w", ErrRegistrationFailed, err)
	}

	pair, err := v.Tokens.IssuePair(identity)
	if err != nil {
		log.Error("token issuance failed after account creation, rolling back", "user_id", identity.UserID, "error", err)
		v.rollbackSignUp(ctx, identity.UserID)
		return domain.TokenPair{}, fmt.Errorf("%w: %w", ErrRegistrationFailed, err)
	}

	log.Info("user registered", "user_id", identity.UserID)
	return pair, nil
}

func (v *CredentialValidator) rollbackSignUp(ctx context.Context, userID int64) {
	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), v.backgroundTimeout())
	defer cancel()

	if err := v.Directory.DeleteUser(ctx, userID); err != nil {
		slogx.FromContext(ctx).Error("sign-up rollback failed", "user_id", userID, "error", err)
	}
}

// SignIn authenticates against the directory. An identifier containing "@"
// is treated as an email address. Every failure is reported as
// ErrInvalidCredentials; the cause is only logged.
func (v *CredentialValidator) SignIn(ctx context.Context, usernameOrEmail, password string) (domain.TokenPair, error) {
	log := slogx.FromContext(ctx)
	usingEmail := domain.IsEmailIdentifier(usernameOrEmail)

	identity, err := v.Directory.Authenticate(ctx, usernameOrEmail, password, usingEmail)
	if err != nil {
		log.Warn("failed login attempt", "identifier", usernameOrEmail, "using_email", usingEmail, "error", err)
		return domain.TokenPair{}, ErrInvalidCredentials
	}

	pair, err := v.Tokens.IssuePair(identity)
	if err != nil {
		log.Error("token issuance failed", "user_id", identity.UserID, "error", err)
		return domain.TokenPair{}, ErrInvalidCredentials
	}

	v.touchLastLogin(ctx, identity.UserID)

	log.Info("user logged in", "user_id", identity.UserID)
	return pair, nil
}

// touchLastLogin updates the last-login time without blocking the caller.
func (v *CredentialValidator) touchLastLogin(ctx context.Context, userID int64) {
	ctx = context.WithoutCancel(ctx)
	go func() {
		ctx, cancel := context.WithTimeout(ctx, v.backgroundTimeout())
		defer cancel()

		if err := v.Directory.UpdateLastLogin(ctx, userID); err != nil {
			slogx.FromContext(ctx).Warn("last login update failed", "user_id", userID, "error", err)
		}
	}()
}

// Refresh exchanges a valid refresh token for a new pair. The access token
// issued alongside the old refresh token is left alone and stays valid
// until it expires on its own.
func (v *CredentialValidator) Refresh(ctx context.Context, refreshToken string) (domain.TokenPair, error) {
	log := slogx.FromContext(ctx)

	result := v.Tokens.Validate(ctx, refreshToken)
	if !result.Valid() {
		log.Info("refresh rejected", "status", result.Status.String())
		return domain.TokenPair{}, ErrInvalidRefreshToken
	}
	if !result.Refresh {
		log.Info("refresh rejected: not a refresh token")
		return domain.TokenPair{}, ErrInvalidRefreshToken
	}

	pair, err := v.Tokens.IssuePair(result.Identity)
	if err != nil {
		log.Error("token issuance failed", "user_id", result.Identity.UserID, "error", err)
		return domain.TokenPair{}, ErrInvalidRefreshToken
	}
	return pair, nil
}

// Logout revokes token.
func (v *CredentialValidator) Logout(ctx context.Context, token string) error {
	return v.Tokens.Revoke(ctx, token)
}

// ChangePassword replaces the password of userID after checking current.
func (v *CredentialValidator) ChangePassword(ctx context.Context, userID int64, current, next string) error {
	ok, err := v.Directory.UpdatePassword(ctx, userID, current, next)
	if err != nil {
		if errors.Is(err, directory.ErrNotFound) {
			return ErrUnauthenticated
		}
		return fmt.Errorf("update password: %w", err)
	}
	if !ok {
		return ErrIncorrectPassword
	}
	slogx.FromContext(ctx).Info("password changed", "user_id", userID)
	return nil
}

// Profile returns the directory profile of userID.
func (v *CredentialValidator) Profile(ctx context.Context, userID int64) (domain.Profile, error) {
	p, err := v.Directory.GetUserProfile(ctx, userID)
	if err != nil {
		if errors.Is(err, directory.ErrNotFound) {
			return domain.Profile{}, ErrUnauthenticated
		}
		return domain.Profile{}, fmt.Errorf("get profile: %w", err)
	}
	return p, nil
}
