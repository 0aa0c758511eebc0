package app

import (
	"errors"
	"fmt"
	"time"

	"github.com/aussiebroadwan/gatekeep/pkg/httpx"
	"github.com/caarlos0/env/v11"
)

type Config struct {
	Issuer string `env:"AUTH_ISSUER" envDefault:"gatekeep-auth"`

	// Secret is a base64 HS256 secret and takes precedence over SecretFile.
	Secret string `env:"AUTH_SECRET"`

	// SecretFile is created with a random secret when missing.
	SecretFile string `env:"AUTH_SECRET_FILE" envDefault:"auth.secret"`

	AccessTokenTTL  time.Duration `env:"ACCESS_TOKEN_TTL" envDefault:"15m"`
	RefreshTokenTTL time.Duration `env:"REFRESH_TOKEN_TTL" envDefault:"168h"`

	UsersGRPCAddr    string        `env:"USERS_GRPC_ADDR"`
	DirectoryTimeout time.Duration `env:"DIRECTORY_TIMEOUT" envDefault:"5s"`

	// RevocationSweepInterval enables the revocation sweeper when positive.
	RevocationSweepInterval time.Duration `env:"REVOCATION_SWEEP_INTERVAL" envDefault:"0s"`

	Env                 string        `env:"ENV" envDefault:"dev"`
	LogLevel            string        `env:"LOG_LEVEL" envDefault:"info"`
	LogFormat           string        `env:"LOG_FORMAT" envDefault:"json"`
	Port                int           `env:"PORT" envDefault:"8080"`
	GRPCPort            int           `env:"GRPC_PORT" envDefault:"9090"`
	ShutdownGracePeriod time.Duration `env:"SHUTDOWN_GRACE_PERIOD" envDefault:"10s"`

	// Rate limit overrides; unset profiles fall back to the httpx defaults.
	StrictLimit   httpx.RateLimitConfig `envPrefix:"RATELIMIT_STRICT_"`
	ModerateLimit httpx.RateLimitConfig `envPrefix:"RATELIMIT_MODERATE_"`

	// TrustedProxies lists the CIDRs whose X-Forwarded-For is believed when
	// keying rate limits. Empty keys on the connecting peer.
	TrustedProxies []string `env:"RATELIMIT_TRUSTED_PROXIES"`
}

// LoadConfig reads the environment and validates the result.
func LoadConfig() (Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return Config{}, fmt.Errorf("parse env: %w", err)
	}

	if !cfg.StrictLimit.Valid() {
		cfg.StrictLimit = httpx.StrictLimit
	}
	if !cfg.ModerateLimit.Valid() {
		cfg.ModerateLimit = httpx.ModerateLimit
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate reports every invalid setting at once.
func (c Config) Validate() error {
	var errs []error

	if c.Issuer == "" {
		errs = append(errs, errors.New("AUTH_ISSUER must not be empty"))
	}
	if c.Secret == "" && c.SecretFile == "" {
		errs = append(errs, errors.New("one of AUTH_SECRET or AUTH_SECRET_FILE is required"))
	}
	if c.AccessTokenTTL <= 0 {
		errs = append(errs, errors.New("ACCESS_TOKEN_TTL must be positive"))
	}
	if c.RefreshTokenTTL <= c.AccessTokenTTL {
		errs = append(errs, errors.New("REFRESH_TOKEN_TTL must be longer than ACCESS_TOKEN_TTL"))
	}
	if c.UsersGRPCAddr == "" {
		errs = append(errs, errors.New("USERS_GRPC_ADDR is required"))
	}
	if c.DirectoryTimeout <= 0 {
		errs = append(errs, errors.New("DIRECTORY_TIMEOUT must be positive"))
	}
	if c.RevocationSweepInterval < 0 {
		errs = append(errs, errors.New("REVOCATION_SWEEP_INTERVAL must not be negative"))
	}
	if c.Port <= 0 || c.Port > 65535 {
		errs = append(errs, fmt.Errorf("PORT %d out of range", c.Port))
	}
	if c.GRPCPort <= 0 || c.GRPCPort > 65535 {
		errs = append(errs, fmt.Errorf("GRPC_PORT %d out of range", c.GRPCPort))
	}
	if _, err := httpx.ParseTrustedProxies(c.TrustedProxies); err != nil {
		errs = append(errs, fmt.Errorf("RATELIMIT_TRUSTED_PROXIES: %w", err))
	}
	if c.Port == c.GRPCPort {
		errs = append(errs, errors.New("PORT and GRPC_PORT must differ"))
	}

	return errors.Join(errs...)
}
