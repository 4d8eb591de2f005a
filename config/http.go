package config

import (
	"strings"
	"time"

	"golang.org/x/net/publicsuffix"
)

// HTTPConfig contains HTTP server configuration.
type HTTPConfig struct {
	// Addr is the address to bind the HTTP server to.
	Addr string `env:"HTTP_ADDR" envDefault:":3000"`

	// CookieDomain is the domain for session cookies.
	// Leave empty to use the request domain.
	CookieDomain string `env:"APP_COOKIE_DOMAIN" envDefault:""`

	// ClientDir is the directory holding the built front end, served as
	// static assets when not in dev mode.
	ClientDir string `env:"APP_SOURCE_DIR" envDefault:"build"`
}

// Sanitize applies guardrails to HTTP configuration values.
// Browsers reject cookies scoped to a public suffix, so a CookieDomain that
// is one (e.g. "com" or "herokuapp.com") is cleared rather than silently
// producing cookies no client will store.
func (h *HTTPConfig) Sanitize() {
	domain := strings.TrimPrefix(strings.ToLower(strings.TrimSpace(h.CookieDomain)), ".")
	if domain == "" {
		h.CookieDomain = ""
		return
	}
	if suffix, _ := publicsuffix.PublicSuffix(domain); suffix == domain {
		h.CookieDomain = ""
		return
	}
	h.CookieDomain = domain
}

// SessionConfig controls server-side session lifetime.
type SessionConfig struct {
	// TTL is how long a session record lives in the store without refresh.
	TTL time.Duration `env:"SESSION_TTL" envDefault:"30m"`
}

// Sanitize clamps nonsensical session lifetimes back to the default.
func (s *SessionConfig) Sanitize() {
	if s.TTL <= 0 {
		s.TTL = 30 * time.Minute
	}
}
