package edge

import (
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/aussiebroadwan/gatekeep/pkg/httpx"
	"github.com/aussiebroadwan/gatekeep/pkg/slogx"
)

// Router dispatches gateway traffic. Every configured route is wrapped in
// the gate for its own Requirement, so the mux pattern is the only lookup
// key between a request and its access rule.
type Router struct {
	Mux         *http.ServeMux
	middlewares []httpx.Middleware
	handler     http.Handler

	buildVersion string
	startTime    time.Time
	logger       *slog.Logger

	Gate   *Gate
	Routes []Route

	// Upstream builds the handler a matched route forwards to. Defaults to
	// NewProxy.
	Upstream func(Route) http.Handler
	// Auth is checked by /readyz. Optional.
	Auth HealthChecker
	// Metrics instruments every route and serves /metrics. Optional.
	Metrics *httpx.HTTPMetrics
}

func NewRouter(gate *Gate, routes []Route, buildVersion string, logger *slog.Logger) *Router {
	r := &Router{
		Mux:          http.NewServeMux(),
		buildVersion: buildVersion,
		startTime:    time.Now(),
		logger:       logger,
		Gate:         gate,
		Routes:       routes,
		Upstream: func(rt Route) http.Handler {
			return NewProxy(rt.Upstream)
		},
	}

	r.middlewares = []httpx.Middleware{
		slogx.HTTPMiddleware(r.logger),
	}

	return r
}

// ApplyRoutes registers the system endpoints and the route table. A
// malformed or conflicting pattern is reported as an error instead of the
// ServeMux panic.
func (r *Router) ApplyRoutes() (err error) {
	defer func() {
		if rec := recover(); rec != nil {
			err = fmt.Errorf("register routes: %v", rec)
		}
	}()

	r.registerSystem()

	seen := map[string]bool{}
	for _, rt := range r.Routes {
		if rt.Upstream == nil {
			return fmt.Errorf("route %q: no upstream", rt.Pattern)
		}
		r.Mux.Handle(rt.Pattern, httpx.Chain(r.Upstream(rt), r.Gate.Require(rt.Auth)))
		seen[rt.Pattern] = true

		access := "public"
		if rt.Auth != nil {
			access = fmt.Sprintf("roles=%v", rt.Auth.Roles)
		}
		r.logger.Info("route registered", "pattern", rt.Pattern, "upstream", rt.Upstream.Host, "access", access)
	}

	if !seen["/"] {
		r.Mux.HandleFunc("/", func(w http.ResponseWriter, req *http.Request) {
			httpx.WriteError(w, http.StatusNotFound, "No route matches "+req.URL.Path)
		})
	}

	var inner http.Handler = r.Mux
	if r.Metrics != nil {
		inner = r.Metrics.Instrument(r.Mux)
	}
	r.handler = httpx.Chain(inner, r.middlewares...)
	return nil
}

// ServeHTTP implements http.Handler for Router and applies the global middleware chain.
func (r *Router) ServeHTTP(w http.ResponseWriter, req *http.Request) {
	if r.handler == nil {
		httpx.Chain(r.Mux, r.middlewares...).ServeHTTP(w, req)
		return
	}
	r.handler.ServeHTTP(w, req)
}

func (r *Router) registerSystem() {
	r.Mux.Handle("GET /livez", LivezHandler(r.startTime, r.buildVersion))
	r.Mux.Handle("GET /readyz", ReadyzHandler(r.startTime, r.buildVersion, r.Auth))

	if r.Metrics != nil {
		r.Mux.Handle("GET /metrics", r.Metrics.Handler())
	}
}
