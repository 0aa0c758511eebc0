package edge

import (
	"context"
	"net/http"
	"time"

	"github.com/aussiebroadwan/gatekeep/pkg/authrpc"
	"github.com/aussiebroadwan/gatekeep/pkg/httpx"
	"github.com/aussiebroadwan/gatekeep/pkg/slogx"
	"google.golang.org/grpc"
)

// HealthChecker is the auth service's health RPC. *authrpc.Client
// implements it.
type HealthChecker interface {
	HealthCheck(ctx context.Context, opts ...grpc.CallOption) (*authrpc.HealthCheckResponse, error)
}

type HealthResponse struct {
	Status  string            `json:"status"`
	Uptime  string            `json:"uptime"`
	Version string            `json:"version"`
	Checks  map[string]string `json:"checks,omitempty"`
}

func LivezHandler(startTime time.Time, version string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		httpx.WriteJSON(w, http.StatusOK, HealthResponse{
			Status:  "ok",
			Uptime:  time.Since(startTime).String(),
			Version: version,
		})
	}
}

// ReadyzHandler answers 503 while the auth service does not report healthy,
// since no protected route can be served without it.
func ReadyzHandler(startTime time.Time, version string, auth HealthChecker) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		resp := HealthResponse{
			Status:  "ok",
			Uptime:  time.Since(startTime).String(),
			Version: version,
			Checks:  map[string]string{"auth": "ok"},
		}
		code := http.StatusOK

		if auth != nil {
			ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
			defer cancel()

			hc, err := auth.HealthCheck(ctx)
			switch {
			case err != nil:
				slogx.FromContext(r.Context()).Warn("readiness: auth service unavailable", "error", err)
				resp.Checks["auth"] = "unavailable"
			case !hc.Success:
				slogx.FromContext(r.Context()).Warn("readiness: auth service unhealthy", "message", hc.Message)
				resp.Checks["auth"] = "unavailable"
			}
			if resp.Checks["auth"] != "ok" {
				resp.Status = "degraded"
				code = http.StatusServiceUnavailable
			}
		}

		httpx.WriteJSON(w, code, resp)
	}
}
