package service

import "errors"

var (
	// ErrInvalidCredentials hides why a sign-in failed: unknown account,
	// wrong password and directory outages all look the same to the caller.
	ErrInvalidCredentials  = errors.New("invalid_credentials")
	ErrInvalidRefreshToken = errors.New("invalid_refresh_token")
	ErrRegistrationFailed  = errors.New("registration_failed")
	ErrUsernameTaken       = errors.New("username_taken")
	ErrEmailTaken          = errors.New("email_taken")
	ErrIncorrectPassword   = errors.New("incorrect_password")
	ErrUnauthenticated     = errors.New("unauthenticated")
)
