package domain

import "time"

// Account roles. New accounts get RoleUser.
const (
	RoleUser  = "USER"
	RoleAdmin = "ADMIN"
)

// StatusActive is the only account status currently assigned.
const StatusActive = "ACTIVE"

// User is an account record. PasswordHash is an argon2id PHC string and
// never leaves the service.
type User struct {
	ID           int64
	Username     string
	FirstName    string
	LastName     string
	Email        string
	Role         string
	Status       string
	PasswordHash string
	LastLoginAt  *time.Time
	CreatedAt    time.Time
	UpdatedAt    time.Time
}
