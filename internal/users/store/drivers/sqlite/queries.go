package sqlite

import (
	"context"
	"database/sql"
	"time"
)

// dbtx is satisfied by both *sql.DB and *sql.Tx.
type dbtx interface {
	ExecContext(context.Context, string, ...any) (sql.Result, error)
	QueryRowContext(context.Context, string, ...any) *sql.Row
}

type queries struct {
	db dbtx
}

type userRow struct {
	ID           int64
	Username     string
	FirstName    string
	LastName     string
	Email        string
	Role         string
	Status       string
	PasswordHash string
	LastLoginAt  sql.NullTime
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

const userColumns = `id, username, first_name, last_name, email, role, status, password_hash, last_login_at, created_at, updated_at`

const getUserByID = `SELECT ` + userColumns + ` FROM users WHERE id = ?`

func (q *queries) GetUserByID(ctx context.Context, id int64) (userRow, error) {
	return scanUser(q.db.QueryRowContext(ctx, getUserByID, id))
}

const getUserByUsername = `SELECT ` + userColumns + ` FROM users WHERE username = ?`

func (q *queries) GetUserByUsername(ctx context.Context, username string) (userRow, error) {
	return scanUser(q.db.QueryRowContext(ctx, getUserByUsername, username))
}

const getUserByEmail = `SELECT ` + userColumns + ` FROM users WHERE email = ?`

func (q *queries) GetUserByEmail(ctx context.Context, email string) (userRow, error) {
	return scanUser(q.db.QueryRowContext(ctx, getUserByEmail, email))
}

const createUser = `INSERT INTO users (username, first_name, last_name, email, role, status, password_hash, created_at, updated_at)
VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
RETURNING id`

type createUserParams struct {
	Username     string
	FirstName    string
	LastName     string
	Email        string
	Role         string
	Status       string
	PasswordHash string
	CreatedAt    time.Time
}

func (q *queries) CreateUser(ctx context.Context, arg createUserParams) (int64, error) {
	var id int64
	err := q.db.QueryRowContext(ctx, createUser,
		arg.Username,
		arg.FirstName,
		arg.LastName,
		arg.Email,
		arg.Role,
		arg.Status,
		arg.PasswordHash,
		arg.CreatedAt,
		arg.CreatedAt,
	).Scan(&id)
	return id, err
}

const updateUserPasswordHash = `UPDATE users SET password_hash = ?, updated_at = ? WHERE id = ?`

func (q *queries) UpdateUserPasswordHash(ctx context.Context, id int64, hash string, at time.Time) (int64, error) {
	return rowsAffected(q.db.ExecContext(ctx, updateUserPasswordHash, hash, at, id))
}

const updateUserLastLogin = `UPDATE users SET last_login_at = ? WHERE id = ?`

func (q *queries) UpdateUserLastLogin(ctx context.Context, id int64, at time.Time) (int64, error) {
	return rowsAffected(q.db.ExecContext(ctx, updateUserLastLogin, at, id))
}

const usernameExists = `SELECT EXISTS (SELECT 1 FROM users WHERE username = ?)`

func (q *queries) UsernameExists(ctx context.Context, username string) (bool, error) {
	var exists bool
	err := q.db.QueryRowContext(ctx, usernameExists, username).Scan(&exists)
	return exists, err
}

const emailExists = `SELECT EXISTS (SELECT 1 FROM users WHERE email = ?)`

func (q *queries) EmailExists(ctx context.Context, email string) (bool, error) {
	var exists bool
	err := q.db.QueryRowContext(ctx, emailExists, email).Scan(&exists)
	return exists, err
}

const deleteUser = `DELETE FROM users WHERE id = ?`

func (q *queries) DeleteUser(ctx context.Context, id int64) (int64, error) {
	return rowsAffected(q.db.ExecContext(ctx, deleteUser, id))
}

func scanUser(row *sql.Row) (userRow, error) {
	var u userRow
	err := row.Scan(
		&u.ID,
		&u.Username,
		&u.FirstName,
		&u.LastName,
		&u.Email,
		&u.Role,
		&u.Status,
		&u.PasswordHash,
		&u.LastLoginAt,
		&u.CreatedAt,
		&u.UpdatedAt,
	)
	return u, err
}

func rowsAffected(res sql.Result, err error) (int64, error) {
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}
