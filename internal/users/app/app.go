package app

import (
	"context"
	"fmt"
	"log/slog"
	"net"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/aussiebroadwan/gatekeep/internal/users/rpc"
	"github.com/aussiebroadwan/gatekeep/internal/users/service"
	"github.com/aussiebroadwan/gatekeep/internal/users/store/drivers/sqlite"
	"github.com/aussiebroadwan/gatekeep/pkg/cryptox"
	"github.com/aussiebroadwan/gatekeep/pkg/grpcx"
	"github.com/aussiebroadwan/gatekeep/pkg/slogx"
	"github.com/aussiebroadwan/gatekeep/pkg/userrpc"
)

// BuildVersion should be set at build time via ldflags.
const BuildVersion = "v0.1.0"

// pepperSize is the number of random bytes in a generated pepper.
const pepperSize = 32

// Application is the user directory process: a sqlite store behind the
// directory gRPC surface.
type Application struct {
	cfg    Config
	logger *slog.Logger

	store      *sqlite.Store
	users      *service.UserService
	grpcServer *grpcx.Server
}

func New(cfg Config) (*Application, error) {
	app := &Application{
		cfg: cfg,
		logger: slogx.New(slogx.Config{
			Service: "users-service",
			Version: BuildVersion,
			Env:     cfg.Env,
			Level:   cfg.LogLevel,
			Format:  cfg.LogFormat,
		}),
	}

	if err := app.initStore(); err != nil {
		return nil, err
	}
	if err := app.initServices(); err != nil {
		_ = app.store.Close()
		return nil, err
	}
	app.initGRPC()

	return app, nil
}

// Run serves until SIGINT or SIGTERM.
func (app *Application) Run() error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	lis, err := net.Listen("tcp", fmt.Sprintf(":%d", app.cfg.GRPCPort))
	if err != nil {
		return fmt.Errorf("listen gRPC: %w", err)
	}

	app.logger.Info("users service starting", "grpc_port", app.cfg.GRPCPort, "version", BuildVersion)

	serveErr := make(chan error, 1)
	go func() {
		serveErr <- app.grpcServer.Serve(ctx, lis)
	}()
	app.grpcServer.MarkServing(userrpc.ServiceName)

	select {
	case err = <-serveErr:
	case <-ctx.Done():
		app.logger.Info("shutdown signal received")
		err = app.awaitStop(serveErr)
	}

	if cerr := app.store.Close(); cerr != nil {
		app.logger.Error("error closing store", "error", cerr)
	}
	app.logger.Info("users service stopped")
	return err
}

// awaitStop waits for the graceful stop Serve runs on cancellation, forcing
// the server down once the grace period passes.
func (app *Application) awaitStop(serveErr <-chan error) error {
	timer := time.NewTimer(app.cfg.ShutdownGracePeriod)
	defer timer.Stop()

	select {
	case err := <-serveErr:
		return err
	case <-timer.C:
		app.logger.Warn("graceful stop timed out, forcing")
		app.grpcServer.Stop()
		return <-serveErr
	}
}

func (app *Application) initStore() error {
	st, err := sqlite.NewStore(app.cfg.DatabaseFile)
	if err != nil {
		return fmt.Errorf("open store: %w", err)
	}
	if err := st.ApplyMigrations(); err != nil {
		_ = st.Close()
		return fmt.Errorf("apply migrations: %w", err)
	}
	app.store = st
	return nil
}

func (app *Application) initServices() error {
	pepper, err := cryptox.LoadOrCreateSecret(app.cfg.PepperFile, pepperSize)
	if err != nil {
		return fmt.Errorf("load pepper: %w", err)
	}
	app.logger.Info("password pepper loaded", "path", app.cfg.PepperFile)

	app.users = service.NewUserService(app.store, cryptox.NewPasswordHasher(pepper))
	return nil
}

func (app *Application) initGRPC() {
	app.grpcServer = grpcx.NewServer(app.logger)
	userrpc.RegisterUsersServiceServer(app.grpcServer, &rpc.Server{Users: app.users})
}
