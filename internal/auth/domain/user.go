package domain

import "strings"

// Default and elevated account roles. Role matching is exact and
// case-sensitive.
const (
	RoleUser  = "USER"
	RoleAdmin = "ADMIN"
)

// Identity is a resolved account as seen by the authority. It is never
// persisted here; the directory service owns the record.
type Identity struct {
	UserID    int64
	Username  string
	FirstName string
	LastName  string
	Role      string
	Email     string
}

// Registration is a sign-up candidate.
type Registration struct {
	Username  string
	FirstName string
	LastName  string
	Email     string
	Password  string
}

// Profile is an identity plus its account status.
type Profile struct {
	Identity Identity
	Status   string
}

// IsEmailIdentifier reports whether a login identifier should be looked up
// as an email address.
func IsEmailIdentifier(identifier string) bool {
	return strings.Contains(identifier, "@")
}
