package config

import (
	"strings"
	"testing"
	"time"
)

func TestAuthModeUnmarshalText(t *testing.T) {
	tests := []struct {
		input       string
		expected    AuthMode
		expectError bool
	}{
		{input: "oauth", expected: AuthModeOAuth},
		{input: "OAuth", expected: AuthModeOAuth},
		{input: "mock", expected: AuthModeMock},
		{input: "MOCK", expected: AuthModeMock},
		{input: "saml", expectError: true},
		{input: "", expectError: true},
	}

	for _, tt := range tests {
		var mode AuthMode
		err := mode.UnmarshalText([]byte(tt.input))
		if tt.expectError {
			if err == nil {
				t.Errorf("UnmarshalText(%q): expected error, got none", tt.input)
			}
			continue
		}
		if err != nil {
			t.Errorf("UnmarshalText(%q): unexpected error: %v", tt.input, err)
			continue
		}
		if mode != tt.expected {
			t.Errorf("UnmarshalText(%q) = %q, want %q", tt.input, mode, tt.expected)
		}
	}
}

func TestAuthConfigSanitize(t *testing.T) {
	cfg := AuthConfig{
		AppBaseURL:      "http://localhost:3000",
		AppCallbackPath: "/auth/pml/callback",
	}
	cfg.Sanitize()

	if cfg.AppBaseURL != "http://localhost:3000/" {
		t.Errorf("AppBaseURL = %q, want trailing slash", cfg.AppBaseURL)
	}
	if cfg.AppCallbackPath != "auth/pml/callback" {
		t.Errorf("AppCallbackPath = %q, want leading slash stripped", cfg.AppCallbackPath)
	}

	// Already-normalized values stay put.
	cfg.Sanitize()
	if cfg.AppBaseURL != "http://localhost:3000/" || cfg.AppCallbackPath != "auth/pml/callback" {
		t.Errorf("Sanitize is not idempotent: %q %q", cfg.AppBaseURL, cfg.AppCallbackPath)
	}
}

func validOAuthConfig() AuthConfig {
	cfg := AuthConfig{
		Mode:             AuthModeOAuth,
		AppBaseURL:       "http://localhost:3000/",
		AppCallbackPath:  "auth/pml/callback",
		AppLoggedOutPath: "#/loggedout",
		AuthorizeURL:     "https://idp.example.com/oauth2/dialog/authorize",
		TokenURL:         "http://idp.internal/oauth/token",
		UserInfoURL:      "http://idp.internal/api/userinfo",
		LogoutURL:        "https://idp.example.com/oauth2/logout",
		AboutURL:         "http://idp.internal/about",
		ClientID:         "chatquote",
		ClientSecret:     "secret",
		Scopes:           "offline_access basic_access",
		PersonaURL:       "https://persona.example.com/persona-service/user/userid/{{USERID}}?ctx=chatquote",
	}
	return cfg
}

func TestAuthConfigValidate(t *testing.T) {
	cfg := validOAuthConfig()
	if err := cfg.Validate(); err != nil {
		t.Fatalf("valid config rejected: %v", err)
	}

	missing := validOAuthConfig()
	missing.ClientSecret = ""
	err := missing.Validate()
	if err == nil {
		t.Fatal("expected error for missing client secret")
	}
	if !strings.Contains(err.Error(), "oAuthClientSecret") {
		t.Errorf("error %q does not name the missing option", err)
	}
}

func TestAuthConfigValidateMockModeSkipsCredentials(t *testing.T) {
	cfg := AuthConfig{Mode: AuthModeMock}
	if err := cfg.Validate(); err != nil {
		t.Fatalf("mock mode should not require provider options: %v", err)
	}
}

func TestAuthConfigDerivedURLs(t *testing.T) {
	cfg := validOAuthConfig()

	if got := cfg.CallbackURL(); got != "http://localhost:3000/auth/pml/callback" {
		t.Errorf("CallbackURL = %q", got)
	}
	if got := cfg.LoggedOutURL(); got != "http://localhost:3000/#/loggedout" {
		t.Errorf("LoggedOutURL = %q", got)
	}
	if got := cfg.ScopeList(); len(got) != 2 || got[0] != "offline_access" || got[1] != "basic_access" {
		t.Errorf("ScopeList = %v", got)
	}
	if got := cfg.PersonaHealthURL(); got != "https://persona.example.com/persona-service/health" {
		t.Errorf("PersonaHealthURL = %q", got)
	}

	cfg.PersonaURL = "https://persona.example.com/other/path"
	if got := cfg.PersonaHealthURL(); got != "" {
		t.Errorf("PersonaHealthURL without template = %q, want empty", got)
	}
}

func TestHTTPConfigSanitizeCookieDomain(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{name: "normal domain", input: "pennmutual.com", expected: "pennmutual.com"},
		{name: "leading dot stripped", input: ".pennmutual.com", expected: "pennmutual.com"},
		{name: "uppercase lowered", input: "PennMutual.COM", expected: "pennmutual.com"},
		{name: "empty stays empty", input: "", expected: ""},
		{name: "whitespace only", input: "   ", expected: ""},
		// Browsers refuse cookies scoped to a public suffix.
		{name: "bare TLD cleared", input: "com", expected: ""},
		{name: "multi-label public suffix cleared", input: "herokuapp.com", expected: ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := HTTPConfig{CookieDomain: tt.input}
			cfg.Sanitize()
			if cfg.CookieDomain != tt.expected {
				t.Errorf("Sanitize(%q) = %q, want %q", tt.input, cfg.CookieDomain, tt.expected)
			}
		})
	}
}

func TestSessionConfigSanitizeClampsTTL(t *testing.T) {
	tests := []struct {
		input    time.Duration
		expected time.Duration
	}{
		{input: 0, expected: 30 * time.Minute},
		{input: -time.Hour, expected: 30 * time.Minute},
		{input: 5 * time.Minute, expected: 5 * time.Minute},
		{input: 2 * time.Hour, expected: 2 * time.Hour},
	}

	for _, tt := range tests {
		cfg := SessionConfig{TTL: tt.input}
		cfg.Sanitize()
		if cfg.TTL != tt.expected {
			t.Errorf("Sanitize TTL %v = %v, want %v", tt.input, cfg.TTL, tt.expected)
		}
	}
}

func TestObservabilityConfigSanitize(t *testing.T) {
	cfg := ObservabilityConfig{
		StatsdAddress:     "  localhost:8125  ",
		PersonaStatusExpr: "   ",
	}
	cfg.Sanitize()

	if cfg.StatsdAddress != "localhost:8125" {
		t.Errorf("StatsdAddress = %q", cfg.StatsdAddress)
	}
	if cfg.PersonaStatusExpr != "status" {
		t.Errorf("PersonaStatusExpr = %q, want default restored", cfg.PersonaStatusExpr)
	}
}

func TestAppConfigIsProd(t *testing.T) {
	cfg := AppConfig{Environment: "production"}
	if !cfg.IsProd() {
		t.Error("production environment should report IsProd")
	}
	cfg.Environment = "localhost"
	if cfg.IsProd() {
		t.Error("localhost environment should not report IsProd")
	}
}
