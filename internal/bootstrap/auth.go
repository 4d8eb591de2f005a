package bootstrap

import (
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/pennmutual/chatquote-ui-api/config"
	"github.com/pennmutual/chatquote-ui-api/internal/adapters/devauth"
	"github.com/pennmutual/chatquote-ui-api/internal/adapters/oidc"
	"github.com/pennmutual/chatquote-ui-api/internal/adapters/persona"
	redisadapter "github.com/pennmutual/chatquote-ui-api/internal/adapters/redis"
	"github.com/pennmutual/chatquote-ui-api/internal/observability/statsd"
	"github.com/pennmutual/chatquote-ui-api/internal/ports"
	"github.com/pennmutual/chatquote-ui-api/internal/service"
)

// AuthConfig contains configuration for the auth service.
type AuthConfig struct {
	Auth        config.AuthConfig
	Session     config.SessionConfig
	RedisClient redis.UniversalClient
	Metrics     statsd.Sink
	Logger      *slog.Logger
}

// BuildAuthService assembles the login flow for the configured auth mode:
// provider, enrichment sources, session store, and the orchestrating service.
// The whole app is gated behind login, so a broken auth stack is fatal.
func BuildAuthService(cfg AuthConfig) (*service.AuthService, error) {
	if cfg.RedisClient == nil {
		return nil, fmt.Errorf("auth service requires a redis client")
	}

	sessionStore := redisadapter.NewSessionStore(cfg.RedisClient, redisadapter.Options{
		TTL: cfg.Session.TTL,
	})

	var (
		provider      ports.AuthProvider
		userInfo      ports.UserInfoSource
		personaClient ports.PersonaClient
	)

	switch cfg.Auth.Mode {
	case config.AuthModeMock:
		dev, err := devauth.NewProvider(devauth.Config{
			Username: cfg.Auth.DevAuth.Username,
			Email:    cfg.Auth.DevAuth.Email,
		})
		if err != nil {
			return nil, fmt.Errorf("create dev auth provider: %w", err)
		}
		if cfg.Logger != nil {
			cfg.Logger.Warn("mock auth enabled; all logins resolve to the dev user",
				"username", cfg.Auth.DevAuth.Username)
		}
		provider, userInfo, personaClient = dev, dev, dev

	case config.AuthModeOAuth:
		oauthProvider, err := oidc.NewProvider(oidc.Config{
			ClientID:     cfg.Auth.ClientID,
			ClientSecret: cfg.Auth.ClientSecret,
			RedirectURL:  cfg.Auth.CallbackURL(),
			AuthorizeURL: cfg.Auth.AuthorizeURL,
			TokenURL:     cfg.Auth.TokenURL,
			UserInfoURL:  cfg.Auth.UserInfoURL,
			Scopes:       cfg.Auth.ScopeList(),
		})
		if err != nil {
			return nil, fmt.Errorf("create oauth provider: %w", err)
		}

		pc, err := persona.NewClient(cfg.Auth.PersonaURL, &http.Client{Timeout: 30 * time.Second})
		if err != nil {
			return nil, fmt.Errorf("create persona client: %w", err)
		}
		provider, userInfo, personaClient = oauthProvider, oauthProvider, pc

	default:
		return nil, fmt.Errorf("unknown auth mode: %q", cfg.Auth.Mode)
	}

	enricher := service.NewEnrichmentService(service.EnrichmentServiceOptions{
		Persona:  personaClient,
		UserInfo: userInfo,
		Logger:   cfg.Logger,
	})

	return service.NewAuthService(service.AuthServiceOptions{
		Provider: provider,
		Enricher: enricher,
		Sessions: sessionStore,
		Metrics:  cfg.Metrics,
		Logger:   cfg.Logger,
	}), nil
}
