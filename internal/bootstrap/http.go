package bootstrap

import (
	"context"
	"database/sql"
	"log/slog"
	"net/http"
	"time"

	"github.com/pennmutual/chatquote-ui-api/config"
	httpx "github.com/pennmutual/chatquote-ui-api/internal/http"
)

// HTTPServerConfig contains configuration for the HTTP server.
type HTTPServerConfig struct {
	Config   *config.AppConfig
	Services ServiceContainer
	DB       *sql.DB
	Logger   *slog.Logger
}

// StartHTTPServer creates and starts the HTTP server.
// Returns the server instance for graceful shutdown.
func StartHTTPServer(cfg *HTTPServerConfig) *http.Server {
	if cfg == nil {
		return nil
	}
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}

	appCfg := cfg.Config
	if appCfg == nil {
		appCfg = &config.AppConfig{}
	}

	clientDir := appCfg.HTTP.ClientDir
	if appCfg.IsDev {
		// Vite serves the front end in dev; only the API runs here.
		clientDir = ""
	}

	var pinger httpx.Pinger
	if cfg.DB != nil {
		pinger = dbPinger{db: cfg.DB}
	}

	handler := httpx.NewRouter(httpx.RouterServices{
		Auth:    cfg.Services.Auth,
		Chats:   cfg.Services.Chats,
		Prompts: cfg.Services.Prompts,

		CookieDomain: appCfg.HTTP.CookieDomain,
		LogoutURL:    appCfg.Auth.LogoutURL,
		LoggedOutURL: appCfg.Auth.LoggedOutURL(),

		DB:                pinger,
		OAuthAboutURL:     appCfg.Auth.AboutURL,
		PersonaHealthURL:  appCfg.Auth.PersonaHealthURL(),
		PersonaStatusExpr: appCfg.Observability.PersonaStatusExpr,

		AppName:     "chatquote-ui-api",
		Version:     appCfg.BuildTag,
		Environment: appCfg.Environment,
		NodeName:    nodeName(),
		StartedAt:   time.Now(),

		ClientDir: clientDir,
		Logger:    logger,
		Metrics:   cfg.Services.Metrics,
	})

	return startServer(logger, handler, appCfg.HTTP.Addr)
}

// dbPinger adapts *sql.DB to the health probe interface.
type dbPinger struct {
	db *sql.DB
}

func (p dbPinger) Ping(ctx context.Context) error {
	return p.db.PingContext(ctx)
}

func startServer(logger *slog.Logger, handler http.Handler, addr string) *http.Server {
	// Guard against empty addr to avoid listening on Go default
	if addr == "" {
		addr = ":3000"
	}

	server := &http.Server{
		Addr:         addr,
		Handler:      handler,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	go func() {
		logger.Info("starting HTTP server", "addr", server.Addr)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("HTTP server failed", "error", err)
		}
	}()

	return server
}

// ShutdownConfig contains dependencies for HTTP server shutdown.
type ShutdownConfig struct {
	Context context.Context
	Server  *http.Server
	Metrics interface{ Close() error }
	Logger  *slog.Logger
}

// ShutdownHTTPServer gracefully shuts down the HTTP server.
func ShutdownHTTPServer(cfg ShutdownConfig) error {
	if cfg.Server == nil {
		return nil
	}

	if cfg.Logger != nil {
		cfg.Logger.Info("shutting down HTTP server")
	}

	shutdownCtx, cancel := context.WithTimeout(cfg.Context, 10*time.Second)
	defer cancel()

	if err := cfg.Server.Shutdown(shutdownCtx); err != nil {
		return err
	}

	if cfg.Metrics != nil {
		if err := cfg.Metrics.Close(); err != nil && cfg.Logger != nil {
			cfg.Logger.Warn("failed to close metrics client", "error", err)
		}
	}

	if cfg.Logger != nil {
		cfg.Logger.Info("HTTP server stopped")
	}

	return nil
}
