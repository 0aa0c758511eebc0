// Package service implements the user directory: account lookups, password
// checks and account lifecycle on top of a store.Store.
package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/aussiebroadwan/gatekeep/internal/users/domain"
	"github.com/aussiebroadwan/gatekeep/internal/users/store"
	"github.com/aussiebroadwan/gatekeep/pkg/cryptox"
	"github.com/aussiebroadwan/gatekeep/pkg/slogx"
)

type UserService struct {
	Store  store.Store
	Hasher *cryptox.PasswordHasher
	Now    func() time.Time

	dummyOnce sync.Once
	dummyHash string
}

func NewUserService(st store.Store, hasher *cryptox.PasswordHasher) *UserService {
	return &UserService{
		Store:  st,
		Hasher: hasher,
		Now:    time.Now,
	}
}

// CreateUserParams carries a new account. Role defaults to domain.RoleUser.
type CreateUserParams struct {
	Username  string
	FirstName string
	LastName  string
	Email     string
	Role      string
	Password  string
}

func (s *UserService) now() time.Time {
	if s.Now == nil {
		return time.Now().UTC()
	}
	return s.Now().UTC()
}

func (s *UserService) FindByUsername(ctx context.Context, username string) (domain.User, error) {
	if strings.TrimSpace(username) == "" {
		return domain.User{}, fmt.Errorf("%w: username is required", ErrInvalidArgument)
	}
	u, err := s.Store.Users().GetUserByUsername(ctx, username)
	return u, mapStoreError(err)
}

func (s *UserService) FindByEmail(ctx context.Context, email string) (domain.User, error) {
	if strings.TrimSpace(email) == "" {
		return domain.User{}, fmt.Errorf("%w: email is required", ErrInvalidArgument)
	}
	u, err := s.Store.Users().GetUserByEmail(ctx, email)
	return u, mapStoreError(err)
}

func (s *UserService) GetUser(ctx context.Context, userID int64) (domain.User, error) {
	if userID <= 0 {
		return domain.User{}, fmt.Errorf("%w: user id must be positive", ErrInvalidArgument)
	}
	u, err := s.Store.Users().GetUserByID(ctx, userID)
	return u, mapStoreError(err)
}

// Authenticate checks password for the account named by identifier, which is
// an email when usingEmail is set. Unknown accounts still pay for one hash
// verification.
func (s *UserService) Authenticate(ctx context.Context, identifier, password string, usingEmail bool) (domain.User, error) {
	log := slogx.FromContext(ctx)

	if identifier == "" || password == "" {
		return domain.User{}, fmt.Errorf("%w: identifier and password are required", ErrInvalidArgument)
	}

	var (
		u   domain.User
		err error
	)
	if usingEmail {
		u, err = s.Store.Users().GetUserByEmail(ctx, identifier)
	} else {
		u, err = s.Store.Users().GetUserByUsername(ctx, identifier)
	}
	if errors.Is(err, store.ErrNotFound) {
		_ = s.Hasher.Verify(password, s.dummy())
		log.Info("authentication failed", "reason", "unknown_user", "using_email", usingEmail)
		return domain.User{}, ErrInvalidCredentials
	}
	if err != nil {
		return domain.User{}, err
	}

	if err := s.Hasher.Verify(password, u.PasswordHash); err != nil {
		if !errors.Is(err, cryptox.ErrPasswordMismatch) {
			log.Error("stored password hash unusable", "user_id", u.ID, "error", err)
		}
		log.Info("authentication failed", "reason", "wrong_password", "user_id", u.ID)
		return domain.User{}, ErrInvalidCredentials
	}

	return u, nil
}

func (s *UserService) CreateUser(ctx context.Context, p CreateUserParams) (domain.User, error) {
	if err := validateCreate(&p); err != nil {
		return domain.User{}, err
	}

	hash, err := s.Hasher.Hash(p.Password)
	if err != nil {
		return domain.User{}, fmt.Errorf("hash password: %w", err)
	}

	now := s.now()
	u := domain.User{
		Username:     p.Username,
		FirstName:    p.FirstName,
		LastName:     p.LastName,
		Email:        p.Email,
		Role:         p.Role,
		Status:       domain.StatusActive,
		PasswordHash: hash,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	id, err := s.Store.Users().CreateUser(ctx, u)
	if err != nil {
		return domain.User{}, mapStoreError(err)
	}
	u.ID = id

	slogx.FromContext(ctx).Info("user created", "user_id", id, "role", u.Role)
	return u, nil
}

// UpdatePassword replaces the stored hash. It reports false, with a nil
// error, when current is set and does not match. An empty current skips the
// check.
func (s *UserService) UpdatePassword(ctx context.Context, userID int64, current, next string) (bool, error) {
	if next == "" {
		return false, fmt.Errorf("%w: new password is required", ErrInvalidArgument)
	}

	u, err := s.GetUser(ctx, userID)
	if err != nil {
		return false, err
	}

	if current != "" {
		if err := s.Hasher.Verify(current, u.PasswordHash); err != nil {
			return false, nil
		}
	}

	hash, err := s.Hasher.Hash(next)
	if err != nil {
		return false, fmt.Errorf("hash password: %w", err)
	}
	if err := s.Store.Users().UpdatePasswordHash(ctx, userID, hash); err != nil {
		return false, mapStoreError(err)
	}

	slogx.FromContext(ctx).Info("password updated", "user_id", userID)
	return true, nil
}

func (s *UserService) UsernameExists(ctx context.Context, username string) (bool, error) {
	return s.Store.Users().UsernameExists(ctx, username)
}

func (s *UserService) EmailExists(ctx context.Context, email string) (bool, error) {
	return s.Store.Users().EmailExists(ctx, email)
}

func (s *UserService) UpdateLastLogin(ctx context.Context, userID int64) error {
	return mapStoreError(s.Store.Users().UpdateLastLogin(ctx, userID, s.now()))
}

func (s *UserService) DeleteUser(ctx context.Context, userID int64) error {
	if err := s.Store.Users().DeleteUser(ctx, userID); err != nil {
		return mapStoreError(err)
	}
	slogx.FromContext(ctx).Info("user deleted", "user_id", userID)
	return nil
}

// Ping reports whether the backing store is reachable.
func (s *UserService) Ping(ctx context.Context) error {
	return s.Store.Ping(ctx)
}

func (s *UserService) dummy() string {
	s.dummyOnce.Do(func() {
		s.dummyHash, _ = s.Hasher.Hash("not-a-real-password")
	})
	return s.dummyHash
}

func validateCreate(p *CreateUserParams) error {
	p.Username = strings.TrimSpace(p.Username)
	p.Email = strings.TrimSpace(p.Email)
	p.FirstName = strings.TrimSpace(p.FirstName)
	p.LastName = strings.TrimSpace(p.LastName)

	var missing []string
	if p.Username == "" {
		missing = append(missing, "username")
	}
	if p.Email == "" {
		missing = append(missing, "email")
	}
	if p.Password == "" {
		missing = append(missing, "password")
	}
	if len(missing) > 0 {
		return fmt.Errorf("%w: missing %s", ErrInvalidArgument, strings.Join(missing, ", "))
	}

	switch p.Role {
	case "":
		p.Role = domain.RoleUser
	case domain.RoleUser, domain.RoleAdmin:
	default:
		return fmt.Errorf("%w: unknown role %q", ErrInvalidArgument, p.Role)
	}
	return nil
}

func mapStoreError(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, store.ErrNotFound):
		return ErrNotFound
	case errors.Is(err, store.ErrAlreadyExists):
		return ErrAlreadyExists
	default:
		return err
	}
}
