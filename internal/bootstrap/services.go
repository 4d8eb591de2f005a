package bootstrap

import (
	"database/sql"
	"fmt"
	"log/slog"
	"os"

	"github.com/redis/go-redis/v9"

	"github.com/pennmutual/chatquote-ui-api/config"
	"github.com/pennmutual/chatquote-ui-api/internal/data"
	"github.com/pennmutual/chatquote-ui-api/internal/observability/statsd"
	"github.com/pennmutual/chatquote-ui-api/internal/service"
)

// ServiceContainer holds the application services shared between the HTTP
// layer and shutdown handling.
type ServiceContainer struct {
	Auth    *service.AuthService
	Chats   *service.ChatService
	Prompts *service.PromptService
	Metrics *statsd.Client
}

// ServicesConfig contains dependencies for building services.
type ServicesConfig struct {
	Config      *config.AppConfig
	DB          *sql.DB
	RedisClient redis.UniversalClient
	Logger      *slog.Logger
}

// BuildServices constructs the service container from connected backends.
func BuildServices(cfg ServicesConfig) (ServiceContainer, error) {
	if cfg.Config == nil {
		return ServiceContainer{}, fmt.Errorf("app config is required")
	}
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}

	metrics, err := statsd.NewClient(statsd.Config{
		Enabled: cfg.Config.Observability.StatsdEnabled,
		Address: cfg.Config.Observability.StatsdAddress,
		Prefix:  cfg.Config.Observability.StatsdPrefix,
		Logger:  logger,
		GlobalTags: map[string]string{
			"env":  cfg.Config.Environment,
			"node": nodeName(),
		},
	})
	if err != nil {
		return ServiceContainer{}, fmt.Errorf("create statsd client: %w", err)
	}

	auth, err := BuildAuthService(AuthConfig{
		Auth:        cfg.Config.Auth,
		Session:     cfg.Config.Session,
		RedisClient: cfg.RedisClient,
		Metrics:     metrics,
		Logger:      logger,
	})
	if err != nil {
		return ServiceContainer{}, err
	}

	chats := service.NewChatService(service.ChatServiceOptions{
		ChatRepo: data.NewChatRepo(cfg.DB),
	})
	prompts := service.NewPromptService(service.PromptServiceOptions{
		PromptRepo: data.NewPromptRepo(cfg.DB),
	})

	return ServiceContainer{
		Auth:    auth,
		Chats:   chats,
		Prompts: prompts,
		Metrics: metrics,
	}, nil
}

// nodeName identifies this instance in metrics and on /about.
func nodeName() string {
	host, err := os.Hostname()
	if err != nil {
		return "unknown"
	}
	return host
}
