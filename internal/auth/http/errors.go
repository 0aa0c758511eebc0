package http

import (
	"errors"
	"net/http"

	"github.com/aussiebroadwan/gatekeep/internal/auth/service"
	"github.com/aussiebroadwan/gatekeep/pkg/httpx"
	"github.com/aussiebroadwan/gatekeep/pkg/slogx"
)

// writeServiceError maps service errors onto responses. Unknown errors are
// logged and answered with a generic 500.
func writeServiceError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, service.ErrInvalidCredentials):
		httpx.WriteError(w, http.StatusUnauthorized, "Invalid credentials")
	case errors.Is(err, service.ErrInvalidRefreshToken):
		httpx.WriteError(w, http.StatusUnauthorized, "Invalid refresh token")
	case errors.Is(err, service.ErrUnauthenticated):
		httpx.WriteUnauthorized(w, "Full authentication is required to access this resource")
	case errors.Is(err, service.ErrUsernameTaken):
		httpx.WriteError(w, http.StatusBadRequest, "Failed to create user: username is already taken")
	case errors.Is(err, service.ErrEmailTaken):
		httpx.WriteError(w, http.StatusBadRequest, "Failed to create user: email is already registered")
	case errors.Is(err, service.ErrRegistrationFailed):
		httpx.WriteError(w, http.StatusBadRequest, "Failed to create user")
	case errors.Is(err, service.ErrIncorrectPassword):
		httpx.WriteError(w, http.StatusBadRequest, "Current password is incorrect")
	default:
		slogx.FromContext(r.Context()).Error("request failed", "error", err)
		httpx.WriteError(w, http.StatusInternalServerError, "An unexpected error occurred")
	}
}

type validatable interface {
	Validate() map[string]string
}

// decodeRequest reads and validates a JSON body into v. It writes the
// error response itself and reports false when the handler should stop.
func decodeRequest(w http.ResponseWriter, r *http.Request, v validatable) bool {
	if err := httpx.DecodeJSON(w, r, v); err != nil {
		slogx.FromContext(r.Context()).Debug("undecodable request body", "error", err)
		httpx.WriteError(w, http.StatusBadRequest, "Request body must be valid JSON")
		return false
	}
	if details := v.Validate(); details != nil {
		httpx.WriteValidationError(w, details)
		return false
	}
	return true
}
