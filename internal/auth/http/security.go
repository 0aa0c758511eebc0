package http

import (
	"context"
	"net/http"
	"time"

	"github.com/aussiebroadwan/gatekeep/internal/auth/domain"
	"github.com/aussiebroadwan/gatekeep/pkg/cryptox"
	"github.com/aussiebroadwan/gatekeep/pkg/httpx"
	"github.com/aussiebroadwan/gatekeep/pkg/slogx"
)

// Principal is the authenticated caller of a self-service endpoint.
type Principal struct {
	domain.Identity

	// Token is the bearer token the request was authenticated with.
	Token     string
	ExpiresAt time.Time
}

type principalKey struct{}

// WithPrincipal returns a copy of ctx carrying p.
func WithPrincipal(ctx context.Context, p Principal) context.Context {
	return context.WithValue(ctx, principalKey{}, p)
}

// PrincipalFromContext returns the principal installed by RequireAuthentication.
func PrincipalFromContext(ctx context.Context) (Principal, bool) {
	p, ok := ctx.Value(principalKey{}).(Principal)
	return p, ok
}

// TokenValidator validates bearer tokens in process.
type TokenValidator interface {
	Validate(ctx context.Context, token string) domain.ValidationResult
}

// RequireAuthentication admits requests carrying a bearer token that
// validates locally, and installs the resolved principal into the request
// context.
func RequireAuthentication(tokens TokenValidator) httpx.Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token, ok := httpx.BearerToken(r)
			if !ok {
				httpx.WriteUnauthorized(w, "Full authentication is required to access this resource")
				return
			}

			result := tokens.Validate(r.Context(), token)
			if !result.Valid() {
				writeTokenError(w, r, token, result)
				return
			}

			ctx := WithPrincipal(r.Context(), Principal{
				Identity:  result.Identity,
				Token:     token,
				ExpiresAt: result.ExpiresAt,
			})
			ctx = slogx.WithContext(ctx, slogx.FromContext(ctx).With("user_id", result.Identity.UserID))
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// writeTokenError turns every token rejection into the same 401 body.
func writeTokenError(w http.ResponseWriter, r *http.Request, token string, result domain.ValidationResult) {
	slogx.FromContext(r.Context()).Info("token rejected",
		"status", result.Status.String(),
		"token_fp", cryptox.FingerprintToken(token),
	)
	httpx.WriteUnauthorized(w, result.ErrorMessage())
}
