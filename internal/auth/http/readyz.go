package http

import (
	"context"
	"net/http"
	"time"

	"github.com/aussiebroadwan/gatekeep/pkg/authsdk"
	"github.com/aussiebroadwan/gatekeep/pkg/httpx"
	"github.com/aussiebroadwan/gatekeep/pkg/jwtx"
	"github.com/aussiebroadwan/gatekeep/pkg/slogx"
)

// Pinger reports whether a dependency is reachable.
type Pinger interface {
	Ping(ctx context.Context) error
}

// ReadyzHandler answers 200 when the directory answers its health check
// and the signer is usable, 503 otherwise.
func ReadyzHandler(
	startTime time.Time,
	version string,
	directory Pinger,
	signer jwtx.Signer,
) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		checks := &authsdk.HealthChecks{
			Directory: "ok",
			Signer:    "ok",
		}
		overallStatus := "ok"
		statusCode := http.StatusOK
		log := slogx.FromContext(r.Context())

		if directory != nil {
			if err := directory.Ping(r.Context()); err != nil {
				log.Warn("readiness: directory unavailable", "error", err)
				checks.Directory = "unavailable"
				overallStatus = "degraded"
				statusCode = http.StatusServiceUnavailable
			}
		}

		if err := signer.Validate(); err != nil {
			log.Error("readiness: signer unusable", "error", err)
			checks.Signer = "unavailable"
			overallStatus = "degraded"
			statusCode = http.StatusServiceUnavailable
		}

		response := authsdk.HealthResponse{
			Status:  overallStatus,
			Uptime:  time.Since(startTime).String(),
			Version: version,
			Checks:  checks,
		}
		httpx.WriteJSON(w, statusCode, response)
	}
}
