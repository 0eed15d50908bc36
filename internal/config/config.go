// Package config loads runtime configuration from environment variables.
package config

import (
	"fmt"

	"github.com/caarlos0/env/v11"
)

// Backend names a storage backend choice.
type Backend string

// Backend values. Auto resolves at startup from the rest of the
// configuration; the decision is made exactly once, not probed per request.
const (
	BackendAuto     Backend = "auto"
	BackendLocal    Backend = "local"
	BackendPostgres Backend = "postgres"
)

// Config is the full runtime configuration.
type Config struct {
	Addr        string  `env:"ADDR" envDefault:":8080"`
	WebDir      string  `env:"WEB_DIR" envDefault:"web"`
	Backend     Backend `env:"BACKEND" envDefault:"auto"`
	DatabaseURL string  `env:"DATABASE_URL"`
	DataFile    string  `env:"DATA_FILE" envDefault:"weightlog.json"`
	DisableAuth bool    `env:"DISABLE_AUTH"`

	OIDCIssuer       string `env:"OIDC_ISSUER"`
	OIDCClientID     string `env:"OIDC_CLIENT_ID"`
	OIDCClientSecret string `env:"OIDC_CLIENT_SECRET"`
	OIDCRedirectURL  string `env:"OIDC_REDIRECT_URL"`
}

// Load parses configuration from the environment.
func Load() (Config, error) {
	var c Config
	if err := env.Parse(&c); err != nil {
		return Config{}, fmt.Errorf("parse env: %w", err)
	}
	switch c.Backend {
	case BackendAuto, BackendLocal, BackendPostgres:
	default:
		return Config{}, fmt.Errorf("BACKEND must be auto, local or postgres, got %q", c.Backend)
	}
	return c, nil
}

// ResolveBackend returns the concrete backend to use. Missing relational
// configuration falls back to the local backend; a configured but
// unreachable database is the caller's error to surface, not to paper over.
func (c Config) ResolveBackend() Backend {
	if c.Backend == BackendLocal {
		return BackendLocal
	}
	if c.DatabaseURL == "" {
		return BackendLocal
	}
	return BackendPostgres
}

// SSOEnabled reports whether the OIDC configuration is complete enough to
// offer SSO login.
func (c Config) SSOEnabled() bool {
	return c.OIDCIssuer != "" && c.OIDCClientID != "" && c.OIDCClientSecret != "" && c.OIDCRedirectURL != ""
}
