package httpx

import (
	"net/http"
	"strings"
)

const bearerPrefix = "Bearer "

// BearerToken returns the token from an "Authorization: Bearer <token>"
// header. ok is false when the header is absent, uses another scheme, or
// carries an empty token.
func BearerToken(r *http.Request) (token string, ok bool) {
	authz := r.Header.Get("Authorization")
	if !strings.HasPrefix(authz, bearerPrefix) {
		return "", false
	}
	token = strings.TrimSpace(authz[len(bearerPrefix):])
	if token == "" || strings.ContainsAny(token, " \t") {
		return "", false
	}
	return token, true
}

// WriteUnauthorized answers 401 with an RFC 6750 challenge header and the
// standard error body.
func WriteUnauthorized(w http.ResponseWriter, message string) {
	w.Header().Set("WWW-Authenticate", `Bearer error="invalid_token"`)
	WriteJSON(w, http.StatusUnauthorized, ErrorResponse{Error: "Unauthorized", Message: message})
}

// WriteForbidden answers 403 with an RFC 6750 insufficient_scope challenge.
func WriteForbidden(w http.ResponseWriter, message string) {
	w.Header().Set("WWW-Authenticate", `Bearer error="insufficient_scope"`)
	WriteJSON(w, http.StatusForbidden, ErrorResponse{Error: "Forbidden", Message: message})
}
