package app

import (
	"errors"
	"fmt"
	"time"

	"github.com/caarlos0/env/v11"
)

type Config struct {
	AuthGRPCAddr string `env:"AUTH_GRPC_ADDR"`

	// AuthTimeout bounds each remote token validation.
	AuthTimeout time.Duration `env:"AUTH_TIMEOUT" envDefault:"5s"`

	RoutesFile string `env:"ROUTES_FILE" envDefault:"routes.toml"`

	Env                 string        `env:"ENV" envDefault:"dev"`
	LogLevel            string        `env:"LOG_LEVEL" envDefault:"info"`
	LogFormat           string        `env:"LOG_FORMAT" envDefault:"json"`
	Port                int           `env:"PORT" envDefault:"8000"`
	ShutdownGracePeriod time.Duration `env:"SHUTDOWN_GRACE_PERIOD" envDefault:"10s"`
}

func LoadConfig() (Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return Config{}, fmt.Errorf("parse env: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c Config) Validate() error {
	var errs []error
	if c.AuthGRPCAddr == "" {
		errs = append(errs, errors.New("AUTH_GRPC_ADDR is required"))
	}
	if c.AuthTimeout <= 0 {
		errs = append(errs, errors.New("AUTH_TIMEOUT must be positive"))
	}
	if c.RoutesFile == "" {
		errs = append(errs, errors.New("ROUTES_FILE must not be empty"))
	}
	if c.Port <= 0 || c.Port > 65535 {
		errs = append(errs, fmt.Errorf("PORT %d out of range", c.Port))
	}
	if c.ShutdownGracePeriod <= 0 {
		errs = append(errs, errors.New("SHUTDOWN_GRACE_PERIOD must be positive"))
	}
	return errors.Join(errs...)
}
