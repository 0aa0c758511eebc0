package grpcx

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"google.golang.org/grpc"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"
)

// WaitForHealth blocks until the health check for service reports SERVING
// or ctx ends.
func WaitForHealth(ctx context.Context, conn *grpc.ClientConn, service string, logger *slog.Logger) error {
	if conn == nil {
		return fmt.Errorf("grpcx: connection is not configured")
	}
	if logger == nil {
		logger = slog.Default()
	}

	client := healthpb.NewHealthClient(conn)
	backoff := 200 * time.Millisecond
	for {
		callCtx, cancel := context.WithTimeout(ctx, time.Second)
		resp, err := client.Check(callCtx, &healthpb.HealthCheckRequest{Service: service}, grpc.CallContentSubtype("proto"))
		cancel()
		if err == nil && resp.GetStatus() == healthpb.HealthCheckResponse_SERVING {
			logger.Debug("grpc health is SERVING", "target", conn.Target())
			return nil
		}
		if err != nil {
			logger.Info("waiting for grpc health", "target", conn.Target(), "error", err)
		} else {
			logger.Info("waiting for grpc health", "target", conn.Target(), "status", resp.GetStatus().String())
		}

		select {
		case <-ctx.Done():
			return fmt.Errorf("wait for grpc health: %w", ctx.Err())
		case <-time.After(backoff):
		}

		backoff = min(backoff*2, time.Second)
	}
}
