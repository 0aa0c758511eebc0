package sqlite

import (
	"context"
	"time"

	"github.com/aussiebroadwan/gatekeep/internal/users/domain"
	"github.com/aussiebroadwan/gatekeep/internal/users/store"
)

type usersRepo struct {
	q *queries
}

func (r *usersRepo) GetUserByID(ctx context.Context, id int64) (domain.User, error) {
	row, err := r.q.GetUserByID(ctx, id)
	if err != nil {
		return domain.User{}, mapNotFound(err)
	}
	return mapUser(row), nil
}

func (r *usersRepo) GetUserByUsername(ctx context.Context, username string) (domain.User, error) {
	row, err := r.q.GetUserByUsername(ctx, username)
	if err != nil {
		return domain.User{}, mapNotFound(err)
	}
	return mapUser(row), nil
}

func (r *usersRepo) GetUserByEmail(ctx context.Context, email string) (domain.User, error) {
	row, err := r.q.GetUserByEmail(ctx, email)
	if err != nil {
		return domain.User{}, mapNotFound(err)
	}
	return mapUser(row), nil
}

func (r *usersRepo) CreateUser(ctx context.Context, u domain.User) (int64, error) {
	createdAt := u.CreatedAt
	if createdAt.IsZero() {
		createdAt = time.Now().UTC()
	}
	id, err := r.q.CreateUser(ctx, createUserParams{
		Username:     u.Username,
		FirstName:    u.FirstName,
		LastName:     u.LastName,
		Email:        u.Email,
		Role:         u.Role,
		Status:       u.Status,
		PasswordHash: u.PasswordHash,
		CreatedAt:    createdAt,
	})
	if err != nil {
		return 0, mapConstraint(err)
	}
	return id, nil
}

func (r *usersRepo) UpdatePasswordHash(ctx context.Context, userID int64, newHash string) error {
	n, err := r.q.UpdateUserPasswordHash(ctx, userID, newHash, time.Now().UTC())
	return affected(n, err)
}

func (r *usersRepo) UpdateLastLogin(ctx context.Context, userID int64, at time.Time) error {
	n, err := r.q.UpdateUserLastLogin(ctx, userID, at.UTC())
	return affected(n, err)
}

func (r *usersRepo) UsernameExists(ctx context.Context, username string) (bool, error) {
	return r.q.UsernameExists(ctx, username)
}

func (r *usersRepo) EmailExists(ctx context.Context, email string) (bool, error) {
	return r.q.EmailExists(ctx, email)
}

func (r *usersRepo) DeleteUser(ctx context.Context, userID int64) error {
	n, err := r.q.DeleteUser(ctx, userID)
	return affected(n, err)
}

func affected(n int64, err error) error {
	if err != nil {
		return err
	}
	if n == 0 {
		return store.ErrNotFound
	}
	return nil
}

func mapUser(row userRow) domain.User {
	return domain.User{
		ID:           row.ID,
		Username:     row.Username,
		FirstName:    row.FirstName,
		LastName:     row.LastName,
		Email:        row.Email,
		Role:         row.Role,
		Status:       row.Status,
		PasswordHash: row.PasswordHash,
		LastLoginAt:  mapNullTimePtr(row.LastLoginAt),
		CreatedAt:    row.CreatedAt,
		UpdatedAt:    row.UpdatedAt,
	}
}
