package store

import (
	"context"
	"errors"
	"time"

	"github.com/aussiebroadwan/gatekeep/internal/users/domain"
)

var (
	ErrNotFound      = errors.New("store: not found")
	ErrAlreadyExists = errors.New("store: already exists")
)

// Store is the root data access interface implemented by the drivers.
type Store interface {
	Users() Users

	ApplyMigrations() error

	// Close releases any underlying resources.
	Close() error

	// Ping verifies the database connection is still alive.
	Ping(ctx context.Context) error
}

type Users interface {
	GetUserByID(ctx context.Context, id int64) (domain.User, error)

	// GetUserByUsername and GetUserByEmail match exactly.
	GetUserByUsername(ctx context.Context, username string) (domain.User, error)
	GetUserByEmail(ctx context.Context, email string) (domain.User, error)

	// CreateUser inserts u and returns the assigned id. A taken username or
	// email yields ErrAlreadyExists.
	CreateUser(ctx context.Context, u domain.User) (int64, error)

	// UpdatePasswordHash sets the password_hash (argon2) and bumps updated_at.
	UpdatePasswordHash(ctx context.Context, userID int64, newHash string) error

	UpdateLastLogin(ctx context.Context, userID int64, at time.Time) error

	UsernameExists(ctx context.Context, username string) (bool, error)
	EmailExists(ctx context.Context, email string) (bool, error)

	// DeleteUser returns ErrNotFound when no row was removed.
	DeleteUser(ctx context.Context, userID int64) error
}
