package domain

import "time"

// TokenStatus is the outcome of validating a token. Every value other than
// StatusValid is a terminal rejection.
type TokenStatus int

const (
	StatusValid TokenStatus = iota
	StatusExpired
	StatusMalformed
	StatusUnsupported
	StatusBadSignature
	StatusRevoked
	StatusUnknownSubject
)

var statusNames = [...]string{
	StatusValid:          "valid",
	StatusExpired:        "expired",
	StatusMalformed:      "malformed",
	StatusUnsupported:    "unsupported",
	StatusBadSignature:   "bad_signature",
	StatusRevoked:        "revoked",
	StatusUnknownSubject: "unknown_subject",
}

// Client-facing messages per rejection.
var statusMessages = [...]string{
	StatusValid:          "",
	StatusExpired:        "The JWT token is expired",
	StatusMalformed:      "The token is not readable (malformed). Try authentication again",
	StatusUnsupported:    "Received JWT token format or structure is not supported",
	StatusBadSignature:   "The JWT token signature is invalid!",
	StatusRevoked:        "Token has been invalidated (user logged out)",
	StatusUnknownSubject: "Given username was not found. Check JWT token subject",
}

func (s TokenStatus) String() string {
	if int(s) < 0 || int(s) >= len(statusNames) {
		return "unknown"
	}
	return statusNames[s]
}

// Message is the text shown to clients for a rejection.
func (s TokenStatus) Message() string {
	if int(s) < 0 || int(s) >= len(statusMessages) {
		return statusMessages[StatusMalformed]
	}
	return statusMessages[s]
}

// ValidationResult is returned by value from token validation. Identity
// and ExpiresAt are set only when Status is StatusValid.
type ValidationResult struct {
	Status    TokenStatus
	Identity  Identity
	ExpiresAt time.Time
	// Refresh reports whether the token carried the refresh type claim.
	Refresh bool
}

// Valid reports whether the token was accepted.
func (r ValidationResult) Valid() bool {
	return r.Status == StatusValid
}

// ErrorMessage is empty for valid results.
func (r ValidationResult) ErrorMessage() string {
	return r.Status.Message()
}

// Invalid builds a rejection result.
func Invalid(status TokenStatus) ValidationResult {
	return ValidationResult{Status: status}
}
