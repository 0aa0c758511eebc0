// Package directory is the authority's view of the user directory service,
// the system of record for accounts and passwords.
package directory

import (
	"context"
	"errors"

	"github.com/aussiebroadwan/gatekeep/internal/auth/domain"
)

var (
	ErrNotFound           = errors.New("directory: user not found")
	ErrAlreadyExists      = errors.New("directory: user already exists")
	ErrInvalidCredentials = errors.New("directory: invalid credentials")
	ErrInvalidArgument    = errors.New("directory: invalid argument")
	// ErrUnavailable wraps every failure that is not a definite answer from
	// the directory: timeouts, unreachable peers, internal errors.
	ErrUnavailable = errors.New("directory: unavailable")
)

// Client is every directory operation the authority consumes.
type Client interface {
	FindByUsername(ctx context.Context, username string) (domain.Identity, error)
	FindByEmail(ctx context.Context, email string) (domain.Identity, error)
	// Authenticate checks the password for a username, or for an email when
	// usingEmail is set.
	Authenticate(ctx context.Context, usernameOrEmail, password string, usingEmail bool) (domain.Identity, error)
	CreateUser(ctx context.Context, reg domain.Registration, role string) (domain.Identity, error)
	// UpdatePassword reports false, with a nil error, when current does not
	// match the stored password.
	UpdatePassword(ctx context.Context, userID int64, current, next string) (bool, error)
	UsernameExists(ctx context.Context, username string) (bool, error)
	EmailExists(ctx context.Context, email string) (bool, error)
	UpdateLastLogin(ctx context.Context, userID int64) error
	GetUserInfo(ctx context.Context, userID int64) (domain.Identity, error)
	GetUserProfile(ctx context.Context, userID int64) (domain.Profile, error)
	// DeleteUser removes an account. It is the rollback primitive for a
	// sign-up that could not complete.
	DeleteUser(ctx context.Context, userID int64) error
}
