package http

import (
	"net/http"
	"strings"

	"github.com/aussiebroadwan/gatekeep/internal/auth/domain"
	"github.com/aussiebroadwan/gatekeep/internal/auth/service"
	"github.com/aussiebroadwan/gatekeep/pkg/authsdk"
	"github.com/aussiebroadwan/gatekeep/pkg/httpx"
)

// CredentialsHandler serves the unauthenticated token endpoints.
type CredentialsHandler struct {
	Credentials *service.CredentialValidator
}

// HandleRegister creates an account and answers 201 with its first pair.
func (h *CredentialsHandler) HandleRegister(w http.ResponseWriter, r *http.Request) {
	var req authsdk.RegisterRequest
	if !decodeRequest(w, r, &req) {
		return
	}

	pair, err := h.Credentials.SignUp(r.Context(), domain.Registration{
		Username:  strings.TrimSpace(req.Username),
		FirstName: strings.TrimSpace(req.FirstName),
		LastName:  strings.TrimSpace(req.LastName),
		Email:     strings.TrimSpace(req.Email),
		Password:  req.Password,
	})
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	httpx.WriteJSON(w, http.StatusCreated, authenticationResponse(pair))
}

// HandleLogin exchanges credentials for a token pair.
func (h *CredentialsHandler) HandleLogin(w http.ResponseWriter, r *http.Request) {
	var req authsdk.LoginRequest
	if !decodeRequest(w, r, &req) {
		return
	}

	pair, err := h.Credentials.SignIn(r.Context(), strings.TrimSpace(req.UsernameOrEmail), req.Password)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	httpx.WriteJSON(w, http.StatusOK, authenticationResponse(pair))
}

// HandleRefresh exchanges a refresh token for a new pair.
func (h *CredentialsHandler) HandleRefresh(w http.ResponseWriter, r *http.Request) {
	var req authsdk.RefreshTokenRequest
	if !decodeRequest(w, r, &req) {
		return
	}

	pair, err := h.Credentials.Refresh(r.Context(), strings.TrimSpace(req.RefreshToken))
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	httpx.WriteJSON(w, http.StatusOK, authenticationResponse(pair))
}

func authenticationResponse(pair domain.TokenPair) authsdk.AuthenticationResponse {
	return authsdk.AuthenticationResponse{
		AccessToken:  pair.AccessToken,
		RefreshToken: pair.RefreshToken,
		TokenType:    domain.TokenTypeBearer,
		ExpiresAt:    pair.ExpiresAt,
		UserID:       pair.Identity.UserID,
		Username:     pair.Identity.Username,
		Role:         pair.Identity.Role,
	}
}
