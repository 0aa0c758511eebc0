package http

import (
	"net/http"

	"github.com/aussiebroadwan/gatekeep/internal/auth/domain"
	"github.com/aussiebroadwan/gatekeep/internal/auth/service"
	"github.com/aussiebroadwan/gatekeep/pkg/authsdk"
	"github.com/aussiebroadwan/gatekeep/pkg/httpx"
)

// AccountHandler serves the endpoints that need an authenticated principal.
// Every method expects RequireAuthentication to have run.
type AccountHandler struct {
	Credentials *service.CredentialValidator
}

func principal(w http.ResponseWriter, r *http.Request) (Principal, bool) {
	p, ok := PrincipalFromContext(r.Context())
	if !ok {
		httpx.WriteUnauthorized(w, "Full authentication is required to access this resource")
	}
	return p, ok
}

// HandleLogout revokes the token the request was authenticated with.
func (h *AccountHandler) HandleLogout(w http.ResponseWriter, r *http.Request) {
	p, ok := principal(w, r)
	if !ok {
		return
	}

	if err := h.Credentials.Logout(r.Context(), p.Token); err != nil {
		writeServiceError(w, r, err)
		return
	}

	httpx.WriteJSON(w, http.StatusOK, authsdk.StatusResponse{
		Success: true,
		Message: "Successfully logged out",
	})
}

// HandleChangePassword replaces the principal's password.
func (h *AccountHandler) HandleChangePassword(w http.ResponseWriter, r *http.Request) {
	p, ok := principal(w, r)
	if !ok {
		return
	}

	var req authsdk.ChangePasswordRequest
	if !decodeRequest(w, r, &req) {
		return
	}

	if err := h.Credentials.ChangePassword(r.Context(), p.UserID, req.CurrentPassword, req.NewPassword); err != nil {
		writeServiceError(w, r, err)
		return
	}

	httpx.WriteJSON(w, http.StatusOK, authsdk.StatusResponse{
		Success: true,
		Message: "Password changed successfully",
	})
}

// HandleProfile returns the principal's directory profile.
func (h *AccountHandler) HandleProfile(w http.ResponseWriter, r *http.Request) {
	p, ok := principal(w, r)
	if !ok {
		return
	}

	profile, err := h.Credentials.Profile(r.Context(), p.UserID)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	httpx.WriteJSON(w, http.StatusOK, authsdk.ProfileResponse{
		UserInfo: userInfo(profile.Identity),
		Status:   profile.Status,
	})
}

func userInfo(id domain.Identity) authsdk.UserInfo {
	return authsdk.UserInfo{
		UserID:    id.UserID,
		Username:  id.Username,
		FirstName: id.FirstName,
		LastName:  id.LastName,
		Email:     id.Email,
		Role:      id.Role,
	}
}
