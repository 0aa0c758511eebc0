package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/aussiebroadwan/gatekeep/internal/gateway/edge"
	"github.com/aussiebroadwan/gatekeep/pkg/authrpc"
	"github.com/aussiebroadwan/gatekeep/pkg/grpcx"
	"github.com/aussiebroadwan/gatekeep/pkg/httpx"
	"github.com/aussiebroadwan/gatekeep/pkg/slogx"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"google.golang.org/grpc"
)

const (
	// BuildVersion should be set at build time via ldflags.
	BuildVersion = "v0.1.0"

	authWaitTimeout = 30 * time.Second
)

// Application is the edge gateway: the access gate in front of a reverse
// proxy to the platform's services.
type Application struct {
	cfg      Config
	logger   *slog.Logger
	registry *prometheus.Registry

	authConn *grpc.ClientConn
	auth     *authrpc.Client

	router *edge.Router
	server *http.Server
}

func New(cfg Config) (*Application, error) {
	app := &Application{
		cfg: cfg,
		logger: slogx.New(slogx.Config{
			Service: "gateway",
			Version: BuildVersion,
			Env:     cfg.Env,
			Level:   cfg.LogLevel,
			Format:  cfg.LogFormat,
		}),
		registry: prometheus.NewRegistry(),
	}
	app.registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	routes, err := LoadRoutes(cfg.RoutesFile)
	if err != nil {
		return nil, fmt.Errorf("failed to load routes: %w", err)
	}

	conn, err := grpcx.Dial(cfg.AuthGRPCAddr)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize auth client: %w", err)
	}
	app.authConn = conn
	app.auth = authrpc.NewClient(conn)

	if err := app.initHTTP(routes); err != nil {
		_ = conn.Close()
		return nil, err
	}
	return app, nil
}

func (app *Application) initHTTP(routes []edge.Route) error {
	gate := &edge.Gate{
		Tokens:  app.auth,
		Timeout: app.cfg.AuthTimeout,
		Metrics: edge.NewMetrics(app.registry),
	}

	router := edge.NewRouter(gate, routes, BuildVersion, app.logger)
	router.Auth = app.auth
	router.Metrics = httpx.NewHTTPMetrics(app.registry, "gateway")
	if err := router.ApplyRoutes(); err != nil {
		return err
	}
	app.router = router

	app.server = &http.Server{
		Addr:              fmt.Sprintf(":%d", app.cfg.Port),
		Handler:           router,
		ReadHeaderTimeout: 3 * time.Second,
	}
	return nil
}

// Run serves until SIGINT or SIGTERM.
func (app *Application) Run() error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	app.waitForAuth(ctx)

	app.logger.Info("gateway starting",
		"port", app.cfg.Port,
		"routes", len(app.router.Routes),
		"version", BuildVersion,
	)

	serverErrors := make(chan error, 1)
	go func() {
		serverErrors <- app.server.ListenAndServe()
	}()

	var runErr error
	select {
	case err := <-serverErrors:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			runErr = fmt.Errorf("server failed: %w", err)
		}
	case <-ctx.Done():
		app.logger.Info("shutdown signal received")
	}

	if err := app.Shutdown(); err != nil {
		return errors.Join(runErr, fmt.Errorf("graceful shutdown failed: %w", err))
	}
	return runErr
}

func (app *Application) Shutdown() error {
	app.logger.Info("shutting down gateway...")

	ctx, cancel := context.WithTimeout(context.Background(), app.cfg.ShutdownGracePeriod)
	defer cancel()

	if err := app.server.Shutdown(ctx); err != nil {
		app.logger.Error("graceful server shutdown failed", "error", err)
		if err := app.server.Close(); err != nil {
			app.logger.Error("error closing server", "error", err)
		}
	}

	if err := app.authConn.Close(); err != nil {
		app.logger.Error("error closing auth connection", "error", err)
		return err
	}

	app.logger.Info("gateway stopped")
	return nil
}

// waitForAuth holds startup until the auth service reports serving. The
// gateway starts regardless; protected routes answer 500 until it does.
func (app *Application) waitForAuth(ctx context.Context) {
	ctx, cancel := context.WithTimeout(ctx, authWaitTimeout)
	defer cancel()

	if err := grpcx.WaitForHealth(ctx, app.authConn, authrpc.ServiceName, app.logger); err != nil {
		app.logger.Warn("auth service not ready, starting anyway", "addr", app.cfg.AuthGRPCAddr, "error", err)
		return
	}
	app.logger.Info("auth service is serving", "addr", app.cfg.AuthGRPCAddr)
}
