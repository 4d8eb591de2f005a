package httpx

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/pennmutual/chatquote-ui-api/internal/observability/statsd"
	"github.com/pennmutual/chatquote-ui-api/internal/service"
)

// RouterServices holds all the services needed by the HTTP router.
type RouterServices struct {
	Auth    AuthServiceInterface
	Chats   *service.ChatService
	Prompts *service.PromptService

	// Auth flow URLs (resolved from configuration by bootstrap).
	CookieDomain string
	LogoutURL    string
	LoggedOutURL string

	// Health probe wiring.
	DB                Pinger
	OAuthAboutURL     string
	PersonaHealthURL  string
	PersonaStatusExpr string

	// About endpoint info.
	AppName     string
	Version     string
	Environment string
	NodeName    string
	StartedAt   time.Time

	// ClientDir is the built front-end directory served at /.
	ClientDir string

	Logger  *slog.Logger
	Metrics statsd.Sink
}

// NewRouter creates and configures the HTTP router.
func NewRouter(services RouterServices) http.Handler {
	mux := http.NewServeMux()

	authHandlers := &AuthHandlers{
		Svc:          services.Auth,
		CookieDomain: services.CookieDomain,
		LogoutURL:    services.LogoutURL,
		LoggedOutURL: services.LoggedOutURL,
		Logger:       services.Logger,
	}
	registerAuthRoutes(mux, authHandlers)

	requireAuth := RequireAuth(services.Auth)
	forceLogin := ForceLogin(services.Auth)

	if services.Chats != nil {
		registerChatRoutes(mux, &ChatHandlers{Svc: services.Chats}, guards{requireAuth, forceLogin})
	}
	if services.Prompts != nil {
		registerPromptRoutes(mux, &PromptHandlers{Svc: services.Prompts}, requireAuth)
	}

	healthHandlers := &HealthHandlers{
		DB:                services.DB,
		OAuthAboutURL:     services.OAuthAboutURL,
		PersonaHealthURL:  services.PersonaHealthURL,
		PersonaStatusExpr: services.PersonaStatusExpr,
		Logger:            services.Logger,
	}
	mux.HandleFunc("GET /healthcheck", healthHandlers.Healthcheck)
	mux.HandleFunc("GET /ping", Heartbeat)
	mux.HandleFunc("GET /heartbeat", Heartbeat)

	aboutHandlers := &AboutHandlers{
		Name:        services.AppName,
		Version:     services.Version,
		Environment: services.Environment,
		NodeName:    services.NodeName,
		StartedAt:   services.StartedAt,
	}
	mux.HandleFunc("GET /about", aboutHandlers.About)

	// Everything else is the single-page app.
	if services.ClientDir != "" {
		mux.Handle("/", NewSPAHandler(services.ClientDir))
	}

	logger := services.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return Recover(logger)(Logging(logger, services.Metrics)(mux))
}

type guards struct {
	requireAuth func(http.Handler) http.Handler
	forceLogin  func(http.Handler) http.Handler
}

func registerAuthRoutes(mux *http.ServeMux, h *AuthHandlers) {
	mux.HandleFunc("GET /auth/pml/corp", h.Login)
	mux.HandleFunc("GET /auth/pml/callback", h.Callback)
	mux.HandleFunc("GET /auth/pml/refresh", h.Refresh)
	// Logout accepts any method so provider-initiated POSTs work too.
	mux.HandleFunc("/auth/pml/corp/logout", h.Logout)
}

func registerChatRoutes(mux *http.ServeMux, h *ChatHandlers, g guards) {
	mux.Handle("GET /chats", g.requireAuth(http.HandlerFunc(h.List)))
	mux.Handle("POST /chats", g.requireAuth(http.HandlerFunc(h.Create)))
	// Chat detail is deep-linkable from the browser, so an expired session
	// bounces through login instead of getting a bare 401.
	mux.Handle("GET /chats/{id}", g.forceLogin(http.HandlerFunc(h.Get)))
	mux.Handle("PUT /chats/{id}", g.requireAuth(http.HandlerFunc(h.Update)))
	mux.Handle("DELETE /chats/{id}", g.requireAuth(http.HandlerFunc(h.Delete)))
}

func registerPromptRoutes(mux *http.ServeMux, h *PromptHandlers, requireAuth func(http.Handler) http.Handler) {
	mux.Handle("GET /prompts", requireAuth(http.HandlerFunc(h.List)))
	mux.Handle("POST /prompts", requireAuth(http.HandlerFunc(h.Create)))
	mux.Handle("GET /prompts/{id}", requireAuth(http.HandlerFunc(h.Get)))
	mux.Handle("PUT /prompts/{id}", requireAuth(http.HandlerFunc(h.Update)))
	mux.Handle("DELETE /prompts/{id}", requireAuth(http.HandlerFunc(h.Delete)))
}
