package config

import "strings"

// ObservabilityConfig contains metrics and healthcheck configuration.
type ObservabilityConfig struct {
	// StatsdEnabled turns on metric emission.
	StatsdEnabled bool `env:"STATSD_ENABLED" envDefault:"false"`

	// StatsdAddress is the host:port of the StatsD UDP endpoint.
	StatsdAddress string `env:"STATSD_ADDRESS" envDefault:""`

	// StatsdPrefix is prepended to every metric name.
	StatsdPrefix string `env:"STATSD_PREFIX" envDefault:"chatquote"`

	// PersonaStatusExpr is the JMESPath expression applied to the persona
	// health payload; the result must equal "UP" for the probe to pass.
	PersonaStatusExpr string `env:"PERSONA_HEALTH_STATUS_PATH" envDefault:"status"`
}

// Sanitize applies guardrails to observability configuration values.
func (o *ObservabilityConfig) Sanitize() {
	o.StatsdAddress = strings.TrimSpace(o.StatsdAddress)
	if strings.TrimSpace(o.PersonaStatusExpr) == "" {
		o.PersonaStatusExpr = "status"
	}
}
