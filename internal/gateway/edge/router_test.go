package edge_test

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/aussiebroadwan/gatekeep/internal/gateway/edge"
	"github.com/aussiebroadwan/gatekeep/pkg/authrpc"
	"github.com/aussiebroadwan/gatekeep/pkg/httpx"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/require"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

type seenRequest struct {
	Path    string
	Headers http.Header
}

func newUpstream(t *testing.T) *url.URL {
	t.Helper()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		httpx.WriteJSON(w, http.StatusOK, seenRequest{Path: r.URL.Path, Headers: r.Header})
	}))
	t.Cleanup(srv.Close)

	u, err := url.Parse(srv.URL)
	require.NoError(t, err)
	return u
}

func newGateway(t *testing.T, routes func(upstream *url.URL) []edge.Route) (*httptest.Server, *fakeAuth) {
	t.Helper()

	auth := &fakeAuth{}
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	router := edge.NewRouter(&edge.Gate{Tokens: auth}, routes(newUpstream(t)), "test", logger)
	router.Auth = auth
	router.Metrics = httpx.NewHTTPMetrics(prometheus.NewRegistry(), "gateway")
	require.NoError(t, router.ApplyRoutes())

	srv := httptest.NewServer(router)
	t.Cleanup(srv.Close)
	return srv, auth
}

func defaultRoutes(upstream *url.URL) []edge.Route {
	return []edge.Route{
		{Pattern: "GET /api/v1/labs", Upstream: upstream},
		{Pattern: "POST /api/v1/labs", Upstream: upstream, Auth: &edge.Requirement{}},
		{Pattern: "DELETE /api/v1/labs/{id}", Upstream: upstream, Auth: &edge.Requirement{Roles: []string{"ADMIN"}}},
	}
}

func do(t *testing.T, method, target string, headers map[string]string) (*http.Response, seenRequest) {
	t.Helper()

	req, err := http.NewRequest(method, target, nil)
	require.NoError(t, err)
	for k, v := range headers {
		req.Header.Set(k, v)
	}
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	t.Cleanup(func() { _ = resp.Body.Close() })

	var seen seenRequest
	if resp.StatusCode == http.StatusOK && strings.HasPrefix(resp.Header.Get("Content-Type"), "application/json") {
		require.NoError(t, json.NewDecoder(resp.Body).Decode(&seen))
	}
	return resp, seen
}

func TestRouter_Forwarding(t *testing.T) {
	t.Parallel()
	srv, auth := newGateway(t, defaultRoutes)

	t.Run("public route strips spoofed identity", func(t *testing.T) {
		resp, seen := do(t, http.MethodGet, srv.URL+"/api/v1/labs", map[string]string{
			edge.HeaderUserID:   "1",
			edge.HeaderUserRole: "ADMIN",
		})
		require.Equal(t, http.StatusOK, resp.StatusCode)
		require.Equal(t, "/api/v1/labs", seen.Path)
		require.Empty(t, seen.Headers.Get(edge.HeaderUserID))
		require.Empty(t, seen.Headers.Get(edge.HeaderUserRole))
	})

	t.Run("protected route forwards identity", func(t *testing.T) {
		resp, seen := do(t, http.MethodPost, srv.URL+"/api/v1/labs", map[string]string{
			"Authorization":     "Bearer user-token",
			edge.HeaderUserRole: "ADMIN",
		})
		require.Equal(t, http.StatusOK, resp.StatusCode)
		require.Equal(t, "7", seen.Headers.Get(edge.HeaderUserID))
		require.Equal(t, "alice", seen.Headers.Get(edge.HeaderUserName))
		require.Equal(t, "USER", seen.Headers.Get(edge.HeaderUserRole))
		require.Equal(t, "alice@example.com", seen.Headers.Get(edge.HeaderUserEmail))
		require.NotEmpty(t, seen.Headers.Get("X-Forwarded-For"))
	})

	t.Run("admin route", func(t *testing.T) {
		resp, _ := do(t, http.MethodDelete, srv.URL+"/api/v1/labs/3", map[string]string{"Authorization": "Bearer user-token"})
		require.Equal(t, http.StatusForbidden, resp.StatusCode)

		resp, seen := do(t, http.MethodDelete, srv.URL+"/api/v1/labs/3", map[string]string{"Authorization": "Bearer admin-token"})
		require.Equal(t, http.StatusOK, resp.StatusCode)
		require.Equal(t, "/api/v1/labs/3", seen.Path)
	})

	t.Run("unmatched path is 404", func(t *testing.T) {
		before := auth.calls.Load()
		resp, _ := do(t, http.MethodGet, srv.URL+"/nowhere", map[string]string{"Authorization": "Bearer user-token"})
		require.Equal(t, http.StatusNotFound, resp.StatusCode)
		require.Equal(t, before, auth.calls.Load())
	})

	t.Run("system endpoints", func(t *testing.T) {
		resp, _ := do(t, http.MethodGet, srv.URL+"/livez", nil)
		require.Equal(t, http.StatusOK, resp.StatusCode)

		resp, _ = do(t, http.MethodGet, srv.URL+"/readyz", nil)
		require.Equal(t, http.StatusOK, resp.StatusCode)

		resp, _ = do(t, http.MethodGet, srv.URL+"/metrics", nil)
		require.Equal(t, http.StatusOK, resp.StatusCode)
		body, err := io.ReadAll(resp.Body)
		require.NoError(t, err)
		require.Contains(t, string(body), "gateway_http_requests")
	})
}

func TestRouter_UpstreamDown(t *testing.T) {
	t.Parallel()

	dead, err := url.Parse("http://127.0.0.1:1")
	require.NoError(t, err)
	srv, _ := newGateway(t, func(*url.URL) []edge.Route {
		return []edge.Route{{Pattern: "GET /api/v1/labs", Upstream: dead}}
	})

	resp, _ := do(t, http.MethodGet, srv.URL+"/api/v1/labs", nil)
	require.Equal(t, http.StatusBadGateway, resp.StatusCode)
}

func TestRouter_ConflictingPatterns(t *testing.T) {
	t.Parallel()

	upstream, err := url.Parse("http://upstream.invalid")
	require.NoError(t, err)

	router := edge.NewRouter(&edge.Gate{Tokens: &fakeAuth{}}, []edge.Route{
		{Pattern: "GET /api/v1/labs", Upstream: upstream},
		{Pattern: "GET /api/v1/labs", Upstream: upstream},
	}, "test", slog.New(slog.NewTextHandler(io.Discard, nil)))

	require.Error(t, router.ApplyRoutes())
}

type downAuth struct{ fakeAuth }

func (*downAuth) HealthCheck(context.Context, ...grpc.CallOption) (*authrpc.HealthCheckResponse, error) {
	return nil, status.Error(codes.Unavailable, "dial tcp 10.0.0.9:9090: connection refused")
}

func TestRouter_ReadyzHidesCause(t *testing.T) {
	t.Parallel()

	auth := &downAuth{}
	router := edge.NewRouter(&edge.Gate{Tokens: auth}, nil, "test", slog.New(slog.NewTextHandler(io.Discard, nil)))
	router.Auth = auth
	require.NoError(t, router.ApplyRoutes())

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/readyz", nil))
	require.Equal(t, http.StatusServiceUnavailable, rec.Code)

	var body edge.HealthResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	require.Equal(t, "degraded", body.Status)
	require.Equal(t, "unavailable", body.Checks["auth"])
	require.NotContains(t, rec.Body.String(), "10.0.0.9")
}
