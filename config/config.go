package config

import (
	"os"
	"strings"
)

// AppConfig is the main application configuration struct that composes
// domain-specific configuration from separate files.
//
// Configuration is loaded from environment variables using the
// github.com/caarlos0/env library. See individual domain config
// files for details on available environment variables:
//   - auth.go: OAuth/persona authentication configuration
//   - database.go: Database and session-store configuration
//   - http.go: HTTP server and session cookie configuration
//   - observability.go: Metrics and healthcheck configuration
type AppConfig struct {
	// IsDev controls development mode behavior (disk asset serving, etc.)
	// Set DEV=true or NODE_ENV=development for development mode.
	IsDev bool `env:"DEV" envDefault:"false"`

	// BuildTag identifies the deployed build, surfaced on /about.
	BuildTag string `env:"BUILD_TAG" envDefault:"localhost"`

	// Environment names the deployment environment (localhost, dev, model, production).
	Environment string `env:"ENVIRONMENT_NAME" envDefault:"localhost"`

	// Authentication configuration
	Auth AuthConfig

	// Database configuration
	Postgres DBConfig    `envPrefix:"DB_"`
	Redis    RedisConfig `envPrefix:"REDIS_"`

	// HTTP server configuration
	HTTP HTTPConfig

	// Session lifetime configuration
	Session SessionConfig

	// Observability configuration
	Observability ObservabilityConfig
}

// Sanitize applies guardrails to configuration values loaded from env.
// This should be called after loading configuration from environment variables.
func (c *AppConfig) Sanitize() {
	c.Auth.Sanitize()
	c.HTTP.Sanitize()
	c.Session.Sanitize()
	c.Observability.Sanitize()

	// Check NODE_ENV for dev mode
	c.detectDevMode()
}

// Validate checks that every required option is set. It is called once at
// startup; a failure here is fatal and never recovered.
func (c *AppConfig) Validate() error {
	return c.Auth.Validate()
}

// IsProd reports whether the service runs in the production environment.
func (c *AppConfig) IsProd() bool {
	return c.Environment == "production"
}

// detectDevMode checks both DEV and NODE_ENV environment variables.
// This is called by Sanitize() to ensure IsDev is set correctly.
// NODE_ENV is checked as a fallback (common in frontend tooling).
func (c *AppConfig) detectDevMode() {
	if !c.IsDev {
		nodeEnv := strings.ToLower(os.Getenv("NODE_ENV"))
		c.IsDev = nodeEnv == "development" || nodeEnv == "dev"
	}
}
