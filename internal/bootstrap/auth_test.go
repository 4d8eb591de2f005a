package bootstrap

import (
	"testing"

	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pennmutual/chatquote-ui-api/config"
)

// testRedisClient returns a client that is never dialed; construction alone
// performs no I/O.
func testRedisClient() redis.UniversalClient {
	return redis.NewClient(&redis.Options{Addr: "localhost:6379"})
}

func oauthTestConfig() config.AuthConfig {
	cfg := config.AuthConfig{
		Mode:            config.AuthModeOAuth,
		AppBaseURL:      "http://localhost:3000/",
		AppCallbackPath: "auth/pml/callback",
		AuthorizeURL:    "https://idp.example.com/oauth2/dialog/authorize",
		TokenURL:        "http://idp.internal.example.com/oauth/token",
		UserInfoURL:     "http://idp.internal.example.com/api/userinfo",
		ClientID:        "chatquote",
		ClientSecret:    "secret",
		Scopes:          "offline_access basic_access",
		PersonaURL:      "https://persona.example.com/persona-service/user/userid/{{USERID}}?ctx=chatquote",
	}
	return cfg
}

func TestBuildAuthServiceRequiresRedis(t *testing.T) {
	_, err := BuildAuthService(AuthConfig{Auth: oauthTestConfig()})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "redis client")
}

func TestBuildAuthServiceOAuthMode(t *testing.T) {
	svc, err := BuildAuthService(AuthConfig{
		Auth:        oauthTestConfig(),
		RedisClient: testRedisClient(),
	})
	require.NoError(t, err)
	require.NotNil(t, svc)
	assert.Contains(t, svc.BeginLoginURL(), "https://idp.example.com/oauth2/dialog/authorize")
	assert.Contains(t, svc.BeginLoginURL(), "client_id=chatquote")
}

func TestBuildAuthServiceOAuthModeMissingSecret(t *testing.T) {
	cfg := oauthTestConfig()
	cfg.ClientSecret = ""

	_, err := BuildAuthService(AuthConfig{
		Auth:        cfg,
		RedisClient: testRedisClient(),
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "create oauth provider")
}

func TestBuildAuthServiceMockMode(t *testing.T) {
	svc, err := BuildAuthService(AuthConfig{
		Auth: config.AuthConfig{
			Mode: config.AuthModeMock,
			DevAuth: config.DevAuthConfig{
				Username: "dev-user",
				Email:    "dev@example.com",
			},
		},
		RedisClient: testRedisClient(),
	})
	require.NoError(t, err)
	require.NotNil(t, svc)
	// Mock mode skips the IdP and points straight back at our callback.
	assert.Equal(t, "/auth/pml/callback?code=dev", svc.BeginLoginURL())
}

func TestBuildAuthServiceUnknownMode(t *testing.T) {
	_, err := BuildAuthService(AuthConfig{
		Auth:        config.AuthConfig{Mode: config.AuthMode("saml")},
		RedisClient: testRedisClient(),
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown auth mode")
}
