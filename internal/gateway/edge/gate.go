package edge

import (
	"context"
	"net/http"
	"time"

	"github.com/aussiebroadwan/gatekeep/pkg/authrpc"
	"github.com/aussiebroadwan/gatekeep/pkg/cryptox"
	"github.com/aussiebroadwan/gatekeep/pkg/httpx"
	"github.com/aussiebroadwan/gatekeep/pkg/slogx"
	"google.golang.org/grpc"
)

// DefaultTimeout bounds the remote validation of one request.
const DefaultTimeout = 5 * time.Second

// TokenValidator is the auth service's remote validate operation.
// *authrpc.Client implements it.
type TokenValidator interface {
	ValidateToken(ctx context.Context, token string, opts ...grpc.CallOption) (*authrpc.ValidateTokenResponse, error)
}

// Gate enforces route requirements against the remote token authority.
type Gate struct {
	Tokens  TokenValidator
	Timeout time.Duration
	Metrics *Metrics
}

func (g *Gate) timeout() time.Duration {
	if g.Timeout <= 0 {
		return DefaultTimeout
	}
	return g.Timeout
}

// Require returns middleware enforcing req. A nil req passes every request
// through untouched.
func (g *Gate) Require(req *Requirement) httpx.Middleware {
	return func(next http.Handler) http.Handler {
		if req == nil {
			return next
		}
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			id, ok := g.check(w, r, *req)
			if !ok {
				return
			}

			ctx := WithIdentity(r.Context(), id)
			ctx = slogx.WithContext(ctx, slogx.FromContext(ctx).With("user_id", id.UserID))
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// check writes the rejection itself and reports false when the request must
// not proceed.
func (g *Gate) check(w http.ResponseWriter, r *http.Request, req Requirement) (Identity, bool) {
	log := slogx.FromContext(r.Context())

	token, ok := httpx.BearerToken(r)
	if !ok {
		g.Metrics.observeDecision(OutcomeMissingToken)
		log.Debug("no bearer token on protected route", "path", r.URL.Path)
		httpx.WriteUnauthorized(w, req.message())
		return Identity{}, false
	}

	ctx, cancel := context.WithTimeout(r.Context(), g.timeout())
	start := time.Now()
	resp, err := g.Tokens.ValidateToken(ctx, token)
	cancel()
	g.Metrics.observeValidate(time.Since(start))

	if err != nil {
		g.Metrics.observeDecision(OutcomeTransportError)
		log.Error("token validation call failed",
			"path", r.URL.Path,
			"token_fp", cryptox.FingerprintToken(token),
			"error", err,
		)
		httpx.WriteJSON(w, http.StatusInternalServerError, httpx.ErrorResponse{
			Error:   "Authentication Error",
			Message: "Authentication service unavailable",
		})
		return Identity{}, false
	}

	if !resp.Valid || resp.UserInfo == nil {
		g.Metrics.observeDecision(OutcomeInvalidToken)
		log.Warn("invalid token on protected route",
			"path", r.URL.Path,
			"token_fp", cryptox.FingerprintToken(token),
			"reason", resp.ErrorMessage,
		)
		msg := resp.ErrorMessage
		if msg == "" {
			msg = req.message()
		}
		httpx.WriteUnauthorized(w, msg)
		return Identity{}, false
	}

	u := resp.UserInfo
	if !httpx.RoleAllowed(u.Role, req.Roles) {
		g.Metrics.observeDecision(OutcomeForbidden)
		log.Warn("role not allowed",
			"user_id", u.UserID,
			"role", u.Role,
			"required", req.Roles,
		)
		httpx.WriteForbidden(w, "Insufficient permissions")
		return Identity{}, false
	}

	g.Metrics.observeDecision(OutcomeAllowed)
	return Identity{
		UserID:    u.UserID,
		Username:  u.Username,
		FirstName: u.FirstName,
		LastName:  u.LastName,
		Role:      u.Role,
		Email:     u.Email,
		ExpiresAt: time.UnixMilli(resp.ExpirationTime),
	}, true
}
