package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/aussiebroadwan/gatekeep/internal/auth/directory"
	httpapi "github.com/aussiebroadwan/gatekeep/internal/auth/http"
	"github.com/aussiebroadwan/gatekeep/internal/auth/rpc"
	"github.com/aussiebroadwan/gatekeep/internal/auth/service"
	"github.com/aussiebroadwan/gatekeep/pkg/authrpc"
	"github.com/aussiebroadwan/gatekeep/pkg/grpcx"
	"github.com/aussiebroadwan/gatekeep/pkg/httpx"
	"github.com/aussiebroadwan/gatekeep/pkg/jwtx"
	"github.com/aussiebroadwan/gatekeep/pkg/slogx"
	"github.com/aussiebroadwan/gatekeep/pkg/userrpc"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"google.golang.org/grpc"
)

const (
	// BuildVersion should be set at build time via ldflags.
	BuildVersion = "v0.1.0"

	// directoryWaitTimeout bounds the startup wait for the directory. The
	// authority starts anyway once it passes.
	directoryWaitTimeout = 30 * time.Second
)

// Application encapsulates the auth service application with all its dependencies
type Application struct {
	cfg      Config
	logger   *slog.Logger
	registry *prometheus.Registry

	// Core dependencies
	usersConn *grpc.ClientConn
	directory *directory.GRPCClient

	// Services
	authority   *service.TokenAuthority
	credentials *service.CredentialValidator
	sweeper     *service.RevocationSweeper // nil unless REVOCATION_SWEEP_INTERVAL > 0

	// Servers
	server     *http.Server
	router     *httpapi.Router
	grpcServer *grpcx.Server
}

// New creates a new Application instance with all dependencies initialized
func New(cfg Config) (*Application, error) {
	app := &Application{
		cfg: cfg,
		logger: slogx.New(slogx.Config{
			Service: "auth-service",
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

	if err := app.initDirectory(); err != nil {
		return nil, err
	}
	if err := app.initServices(); err != nil {
		_ = app.usersConn.Close()
		return nil, err
	}
	if err := app.initHTTP(); err != nil {
		_ = app.usersConn.Close()
		return nil, err
	}
	app.initGRPC()

	return app, nil
}

// Run starts the application and blocks until shutdown is requested
func (app *Application) Run() error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	app.waitForDirectory(ctx)

	if app.sweeper != nil {
		app.sweeper.Start()
	}

	lis, err := net.Listen("tcp", fmt.Sprintf(":%d", app.cfg.GRPCPort))
	if err != nil {
		return fmt.Errorf("listen gRPC: %w", err)
	}

	app.logger.Info("auth service starting",
		"port", app.cfg.Port,
		"grpc_port", app.cfg.GRPCPort,
		"version", BuildVersion,
	)

	serverErrors := make(chan error, 2)
	go func() {
		serverErrors <- app.server.ListenAndServe()
	}()

	grpcCtx, stopGRPC := context.WithCancel(context.Background())
	defer stopGRPC()
	go func() {
		serverErrors <- app.grpcServer.Serve(grpcCtx, lis)
	}()
	app.grpcServer.MarkServing(authrpc.ServiceName)

	// Block until we receive a shutdown signal or server error
	var runErr error
	select {
	case err := <-serverErrors:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			runErr = fmt.Errorf("server failed: %w", err)
		}
	case <-ctx.Done():
		app.logger.Info("shutdown signal received")
	}

	stopGRPC()
	if err := app.Shutdown(); err != nil {
		return errors.Join(runErr, fmt.Errorf("graceful shutdown failed: %w", err))
	}
	return runErr
}

// Shutdown gracefully shuts down the application
func (app *Application) Shutdown() error {
	app.logger.Info("shutting down auth service...")

	// Give outstanding requests a deadline for completion
	ctx, cancel := context.WithTimeout(context.Background(), app.cfg.ShutdownGracePeriod)
	defer cancel()

	if err := app.server.Shutdown(ctx); err != nil {
		app.logger.Error("graceful server shutdown failed", "error", err)
		if err := app.server.Close(); err != nil {
			app.logger.Error("error closing server", "error", err)
		}
	}

	app.grpcServer.GracefulStop()

	if app.sweeper != nil {
		app.sweeper.Stop()
	}

	if err := app.usersConn.Close(); err != nil {
		app.logger.Error("error closing directory connection", "error", err)
		return err
	}

	app.logger.Info("auth service stopped")
	return nil
}

// initDirectory opens the lazily connecting client to the user directory.
func (app *Application) initDirectory() error {
	conn, err := grpcx.Dial(app.cfg.UsersGRPCAddr)
	if err != nil {
		return fmt.Errorf("failed to initialize directory client: %w", err)
	}
	app.usersConn = conn
	app.directory = directory.NewGRPCClient(conn, app.cfg.DirectoryTimeout)
	return nil
}

func (app *Application) waitForDirectory(ctx context.Context) {
	ctx, cancel := context.WithTimeout(ctx, directoryWaitTimeout)
	defer cancel()

	if err := grpcx.WaitForHealth(ctx, app.usersConn, userrpc.ServiceName, app.logger); err != nil {
		app.logger.Warn("directory not ready, starting anyway", "addr", app.cfg.UsersGRPCAddr, "error", err)
		return
	}
	app.logger.Info("directory is serving", "addr", app.cfg.UsersGRPCAddr)
}

// initServices initializes all business logic services
func (app *Application) initServices() error {
	secret, err := LoadSigningSecret(app.cfg, app.logger)
	if err != nil {
		return err
	}

	signer, err := jwtx.NewSignerHS256(secret)
	if err != nil {
		return fmt.Errorf("failed to initialize signer: %w", err)
	}

	metrics := service.NewMetrics(app.registry)
	revocations := service.NewMemoryRevocationStore()

	app.authority = &service.TokenAuthority{
		Signer:      signer,
		Verifier:    jwtx.NewVerifierHS256(secret, app.cfg.Issuer),
		Revocations: revocations,
		Directory:   app.directory,
		Issuer:      app.cfg.Issuer,
		AccessTTL:   app.cfg.AccessTokenTTL,
		RefreshTTL:  app.cfg.RefreshTokenTTL,
		Metrics:     metrics,
	}

	app.credentials = &service.CredentialValidator{
		Tokens:            app.authority,
		Directory:         app.directory,
		BackgroundTimeout: app.cfg.DirectoryTimeout,
	}

	if app.cfg.RevocationSweepInterval > 0 {
		app.sweeper = service.NewRevocationSweeper(revocations, app.logger, app.cfg.RevocationSweepInterval)
		app.sweeper.Metrics = metrics
	} else {
		app.logger.Info("revocation sweeper disabled, revoked tokens are kept for the process lifetime")
	}

	return nil
}

// initHTTP initializes the HTTP router and server
func (app *Application) initHTTP() error {
	trusted, err := httpx.ParseTrustedProxies(app.cfg.TrustedProxies)
	if err != nil {
		return fmt.Errorf("failed to parse trusted proxies: %w", err)
	}

	router := httpapi.NewRouter(app.authority, app.credentials, BuildVersion, app.logger)
	router.Directory = app.directory
	router.Metrics = httpx.NewHTTPMetrics(app.registry, "auth")
	router.StrictLimit = app.cfg.StrictLimit
	router.ModerateLimit = app.cfg.ModerateLimit
	router.TrustedProxies = trusted
	router.ApplyRoutes()

	app.router = router

	app.server = &http.Server{
		Addr:              fmt.Sprintf(":%d", app.cfg.Port),
		Handler:           router,
		ReadHeaderTimeout: 3 * time.Second,
	}
	return nil
}

// initGRPC registers the validate and health RPCs.
func (app *Application) initGRPC() {
	app.grpcServer = grpcx.NewServer(app.logger)
	authrpc.RegisterAuthServiceServer(app.grpcServer, &rpc.Server{
		Tokens:  app.authority,
		Version: BuildVersion,
	})
}
