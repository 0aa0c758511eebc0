package service

import "errors"

var (
	ErrNotFound      = errors.New("user_not_found")
	ErrAlreadyExists = errors.New("user_already_exists")
	// ErrInvalidCredentials covers both an unknown account and a wrong
	// password.
	ErrInvalidCredentials = errors.New("invalid_credentials")
	ErrInvalidArgument    = errors.New("invalid_argument")
)
