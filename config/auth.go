package config

import (
	"fmt"
	"log/slog"
	"strings"

	apperrors "github.com/pennmutual/chatquote-ui-api/internal/errors"
)

// AuthMode represents the authentication mode for the application.
type AuthMode string

const (
	// AuthModeOAuth uses the corporate OAuth2 provider for authentication.
	AuthModeOAuth AuthMode = "oauth"
	// AuthModeMock uses mock/dev authentication (for development only).
	AuthModeMock AuthMode = "mock"
)

// UnmarshalText implements encoding.TextUnmarshaler for AuthMode.
func (a *AuthMode) UnmarshalText(text []byte) error {
	v := strings.ToLower(string(text))
	switch v {
	case "oauth", "mock":
		*a = AuthMode(v)
		return nil
	default:
		return fmt.Errorf("invalid AuthMode: %q (valid options: oauth, mock)", v)
	}
}

// DevAuthConfig controls mock/dev authentication identity.
// Used when AUTH_MODE=mock for development and testing.
type DevAuthConfig struct {
	Username string `env:"USERNAME" envDefault:"dev-user"`
	Email    string `env:"EMAIL"    envDefault:"dev@example.com"`
}

// AuthConfig holds the fixed, enumerated option set for the OAuth login flow.
// Every option must be set before the service starts; Validate rejects unset
// values and unknown options are impossible by construction.
type AuthConfig struct {
	// Mode determines which authentication provider to use.
	Mode AuthMode `env:"AUTH_MODE" envDefault:"oauth"`

	// AppBaseURL is the public URL of the app (load balancer VIP when deployed).
	// Sanitize guarantees a trailing slash.
	AppBaseURL string `env:"PML_BASE_URL" envDefault:"http://localhost:3000/"`

	// AppCallbackPath is the path used for the OAuth callback.
	// Sanitize strips any leading slash so it composes with AppBaseURL.
	AppCallbackPath string `env:"APP_CALLBACK_PATH" envDefault:"auth/pml/callback"`

	// AppLoggedOutPath is the in-app location users land on after the
	// provider logs them out.
	AppLoggedOutPath string `env:"APP_LOGGED_OUT_PATH" envDefault:"#/loggedout"`

	// AuthorizeURL is the external authorize URL for the user's browser.
	AuthorizeURL string `env:"OAUTH_AUTHORIZATION_URL" envDefault:"https://test.pennmutual.com/oauth2/dialog/authorize"`

	// TokenURL is the internal URL for server-to-server token exchange.
	TokenURL string `env:"OAUTH_TOKEN_URL" envDefault:"http://oauth2orize-mo.pennmutual.com/oauth/token"`

	// UserInfoURL is the internal URL for server-to-server user info requests.
	UserInfoURL string `env:"OAUTH_USERINFO_URL" envDefault:"http://oauth2orize-mo.pennmutual.com/api/userinfo"`

	// LogoutURL is the external logout URL for the user's browser.
	LogoutURL string `env:"OAUTH_LOGOUT_URL" envDefault:"https://test.pennmutual.com/oauth2/logout"`

	// AboutURL is probed by the healthcheck to verify the provider is reachable.
	AboutURL string `env:"OAUTH_ABOUT_URL" envDefault:"http://oauth2orize-mo.pennmutual.com/about"`

	// ClientID is the name the OAuth provider uses to refer to this application.
	ClientID string `env:"OAUTH_CLIENT_ID" envDefault:"chatquote"`

	// ClientSecret authenticates the app against the provider.
	// Credentials carry no default and must come from the environment.
	ClientSecret string `env:"OAUTH_CLIENT_SECRET"`

	// Scopes is the space-separated scope string requested at login.
	Scopes string `env:"OAUTH_SCOPES" envDefault:"offline_access basic_access pml_data_access"`

	// PersonaURL is the persona attribute service URL template;
	// {{USERID}} is replaced with the authenticated user's identifier.
	PersonaURL string `env:"PERSONA_URL" envDefault:"https://iam-persona-mo.pennmutual.com/persona-service/user/userid/{{USERID}}?ctx=chatquote"`

	// DevAuth configuration (used when Mode=mock).
	DevAuth DevAuthConfig `envPrefix:"DEV_AUTH_"`
}

// Sanitize normalizes values the rest of the system depends on:
// AppBaseURL always ends with a slash, AppCallbackPath never starts with one.
func (a *AuthConfig) Sanitize() {
	if a.AppBaseURL != "" && !strings.HasSuffix(a.AppBaseURL, "/") {
		a.AppBaseURL += "/"
	}
	a.AppCallbackPath = strings.TrimPrefix(a.AppCallbackPath, "/")
}

// requiredOptions maps option names to their values for validation and logging.
// The enumeration is fixed; there is no way to read or write an option outside it.
func (a *AuthConfig) requiredOptions() []struct{ name, value string } {
	return []struct{ name, value string }{
		{"appBaseURL", a.AppBaseURL},
		{"appCallbackPath", a.AppCallbackPath},
		{"appLoggedOutPath", a.AppLoggedOutPath},
		{"oAuthAuthorizationURL", a.AuthorizeURL},
		{"oAuthTokenURL", a.TokenURL},
		{"oAuthUserInfoURL", a.UserInfoURL},
		{"oAuthLogoutURL", a.LogoutURL},
		{"oAuthClientID", a.ClientID},
		{"oAuthClientSecret", a.ClientSecret},
		{"oAuthScopes", a.Scopes},
		{"personaURL", a.PersonaURL},
	}
}

// Validate fails with a configuration error on the first unset option.
// Mock mode skips provider credentials since no exchange happens.
func (a *AuthConfig) Validate() error {
	if a.Mode == AuthModeMock {
		return nil
	}
	for _, opt := range a.requiredOptions() {
		if opt.value == "" {
			return apperrors.Configurationf("option not set: %s", opt.name)
		}
	}
	return nil
}

// LogValues records every configured option, redacting the client secret.
func (a *AuthConfig) LogValues(logger *slog.Logger) {
	if logger == nil {
		return
	}
	for _, opt := range a.requiredOptions() {
		if opt.name == "oAuthClientSecret" {
			logger.Info("setting option", "name", opt.name)
			continue
		}
		logger.Info("setting option", "name", opt.name, "value", opt.value)
	}
}

// CallbackURL is the absolute redirect URI registered with the provider.
func (a *AuthConfig) CallbackURL() string {
	return a.AppBaseURL + a.AppCallbackPath
}

// LoggedOutURL is the absolute in-app URL users land on after provider logout.
func (a *AuthConfig) LoggedOutURL() string {
	return a.AppBaseURL + a.AppLoggedOutPath
}

// ScopeList splits the configured scope string on whitespace.
func (a *AuthConfig) ScopeList() []string {
	return strings.Fields(a.Scopes)
}

// PersonaHealthURL derives the persona service health endpoint from the
// configured attribute URL template.
func (a *AuthConfig) PersonaHealthURL() string {
	idx := strings.Index(a.PersonaURL, "/persona-service/")
	if idx < 0 {
		return ""
	}
	return a.PersonaURL[:idx] + "/persona-service/health"
}
