package app

import (
	"errors"
	"fmt"
	"time"

	"github.com/caarlos0/env/v11"
)

type Config struct {
	// DatabaseFile is handed to the sqlite driver as its DSN.
	DatabaseFile string `env:"USERS_DATABASE_FILE" envDefault:"file:users.db?_pragma=busy_timeout(5000)&_pragma=journal_mode(WAL)"`

	// PepperFile is created with a random pepper when missing.
	PepperFile string `env:"USERS_PEPPER_FILE" envDefault:"users.pepper"`

	Env                 string        `env:"ENV" envDefault:"dev"`
	LogLevel            string        `env:"LOG_LEVEL" envDefault:"info"`
	LogFormat           string        `env:"LOG_FORMAT" envDefault:"json"`
	GRPCPort            int           `env:"GRPC_PORT" envDefault:"9090"`
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
	if c.DatabaseFile == "" {
		errs = append(errs, errors.New("USERS_DATABASE_FILE must not be empty"))
	}
	if c.PepperFile == "" {
		errs = append(errs, errors.New("USERS_PEPPER_FILE must not be empty"))
	}
	if c.GRPCPort <= 0 || c.GRPCPort > 65535 {
		errs = append(errs, fmt.Errorf("GRPC_PORT %d out of range", c.GRPCPort))
	}
	if c.ShutdownGracePeriod <= 0 {
		errs = append(errs, errors.New("SHUTDOWN_GRACE_PERIOD must be positive"))
	}
	return errors.Join(errs...)
}
