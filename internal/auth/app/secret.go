package app

import (
	"fmt"
	"log/slog"

	"github.com/aussiebroadwan/gatekeep/pkg/cryptox"
	"github.com/aussiebroadwan/gatekeep/pkg/jwtx"
)

// LoadSigningSecret returns the HS256 secret. An inline AUTH_SECRET wins;
// otherwise the secret file is read, or created with a random secret when
// it does not exist yet.
func LoadSigningSecret(cfg Config, logger *slog.Logger) ([]byte, error) {
	if cfg.Secret != "" {
		secret, err := cryptox.DecodeSecret(cfg.Secret)
		if err != nil {
			return nil, fmt.Errorf("decode AUTH_SECRET: %w", err)
		}
		if len(secret) < jwtx.MinSecretSize {
			return nil, fmt.Errorf("AUTH_SECRET must decode to at least %d bytes, got %d", jwtx.MinSecretSize, len(secret))
		}
		logger.Info("signing secret loaded from environment")
		return secret, nil
	}

	secret, err := cryptox.LoadOrCreateSecret(cfg.SecretFile, jwtx.MinSecretSize)
	if err != nil {
		return nil, fmt.Errorf("load signing secret: %w", err)
	}
	logger.Info("signing secret loaded", "path", cfg.SecretFile)
	return secret, nil
}
