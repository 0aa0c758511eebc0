package http

import (
	"log/slog"
	"net/http"
	"net/netip"
	"time"

	"github.com/aussiebroadwan/gatekeep/internal/auth/service"
	"github.com/aussiebroadwan/gatekeep/pkg/httpx"
	"github.com/aussiebroadwan/gatekeep/pkg/slogx"
)

// Router holds shared dependencies for HTTP handlers.
type Router struct {
	Mux         *http.ServeMux
	middlewares []httpx.Middleware
	handler     http.Handler

	buildVersion string
	startTime    time.Time
	logger       *slog.Logger

	Tokens      *service.TokenAuthority
	Credentials *service.CredentialValidator

	// Directory is pinged by /readyz. Optional.
	Directory Pinger
	// Metrics instruments every route and serves /metrics. Optional.
	Metrics *httpx.HTTPMetrics

	StrictLimit   httpx.RateLimitConfig
	ModerateLimit httpx.RateLimitConfig

	// TrustedProxies may supply X-Forwarded-For for rate limit keys.
	TrustedProxies []netip.Prefix
}

func NewRouter(
	tokens *service.TokenAuthority,
	credentials *service.CredentialValidator,
	buildVersion string,
	logger *slog.Logger,
) *Router {
	r := &Router{
		Mux:           http.NewServeMux(),
		buildVersion:  buildVersion,
		startTime:     time.Now(),
		logger:        logger,
		Tokens:        tokens,
		Credentials:   credentials,
		StrictLimit:   httpx.StrictLimit,
		ModerateLimit: httpx.ModerateLimit,
	}

	// Set default middleware chain
	r.middlewares = []httpx.Middleware{
		slogx.HTTPMiddleware(r.logger),
	}

	return r
}

// ApplyRoutes registers every route and freezes the middleware chain. Set
// the optional fields before calling it.
func (r *Router) ApplyRoutes() {
	r.registerCredentials()
	r.registerAccount()
	r.registerSystem()

	var inner http.Handler = r.Mux
	if r.Metrics != nil {
		// Innermost, so it sees the pattern ServeMux sets on the request.
		inner = r.Metrics.Instrument(r.Mux)
	}
	r.handler = httpx.Chain(inner, r.middlewares...)
}

// ServeHTTP implements http.Handler for Router and applies the global middleware chain.
func (r *Router) ServeHTTP(w http.ResponseWriter, req *http.Request) {
	if r.handler == nil {
		httpx.Chain(r.Mux, r.middlewares...).ServeHTTP(w, req)
		return
	}
	r.handler.ServeHTTP(w, req)
}

func (r *Router) registerCredentials() {
	h := &CredentialsHandler{Credentials: r.Credentials}

	// POST /auth/register - strict rate limit by IP (account creation)
	r.Mux.Handle("POST /auth/register",
		httpx.Chain(http.HandlerFunc(h.HandleRegister),
			httpx.RateLimitByIP(r.StrictLimit, r.TrustedProxies...),
		),
	)

	// POST /auth/login - strict rate limit by IP (password guessing)
	r.Mux.Handle("POST /auth/login",
		httpx.Chain(http.HandlerFunc(h.HandleLogin),
			httpx.RateLimitByIP(r.StrictLimit, r.TrustedProxies...),
		),
	)

	// POST /auth/refresh - moderate rate limit by IP
	r.Mux.Handle("POST /auth/refresh",
		httpx.Chain(http.HandlerFunc(h.HandleRefresh),
			httpx.RateLimitByIP(r.ModerateLimit, r.TrustedProxies...),
		),
	)
}

func (r *Router) registerAccount() {
	h := &AccountHandler{Credentials: r.Credentials}
	authn := RequireAuthentication(r.Tokens)

	r.Mux.Handle("POST /auth/logout", httpx.Chain(http.HandlerFunc(h.HandleLogout), authn))
	r.Mux.Handle("PUT /auth/change-password", httpx.Chain(http.HandlerFunc(h.HandleChangePassword), authn))
	r.Mux.Handle("GET /auth/profile", httpx.Chain(http.HandlerFunc(h.HandleProfile), authn))
}

func (r *Router) registerSystem() {
	r.Mux.Handle("GET /livez", LivezHandler(r.startTime, r.buildVersion))
	r.Mux.Handle("GET /readyz", ReadyzHandler(r.startTime, r.buildVersion, r.Directory, r.Tokens.Signer))

	if r.Metrics != nil {
		r.Mux.Handle("GET /metrics", r.Metrics.Handler())
	}
}
