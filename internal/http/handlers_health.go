package httpx

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	jmespath "github.com/jmespath-community/go-jmespath"
	"golang.org/x/sync/errgroup"
)

// Pinger reports database connectivity.
type Pinger interface {
	Ping(ctx context.Context) error
}

const healthProbeTimeout = 5 * time.Second

// HealthHandlers probes the service's upstream dependencies. The healthcheck
// always answers 200 with per-dependency booleans; the load balancer keys off
// the body, not the status code.
type HealthHandlers struct {
	DB               Pinger
	OAuthAboutURL    string
	PersonaHealthURL string
	// PersonaStatusExpr is a JMESPath expression applied to the persona
	// health payload; the probe passes when it yields "UP".
	PersonaStatusExpr string
	HTTPClient        *http.Client
	Logger            *slog.Logger
}

type healthStatus struct {
	DBUp      bool `json:"dbUp"`
	OAuthUp   bool `json:"oAuthUp"`
	PersonaUp bool `json:"personaUp"`
	Healthy   bool `json:"healthy"`
}

func (h *HealthHandlers) logger() *slog.Logger {
	if h != nil && h.Logger != nil {
		return h.Logger
	}
	return slog.Default()
}

func (h *HealthHandlers) client() *http.Client {
	if h != nil && h.HTTPClient != nil {
		return h.HTTPClient
	}
	return http.DefaultClient
}

// Healthcheck handles GET /healthcheck. The three probes run concurrently;
// a probe failure flips its flag but never fails the request.
func (h *HealthHandlers) Healthcheck(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), healthProbeTimeout)
	defer cancel()

	var status healthStatus
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		status.DBUp = h.probeDB(gctx)
		return nil
	})
	g.Go(func() error {
		status.OAuthUp = h.probeOAuth(gctx)
		return nil
	})
	g.Go(func() error {
		status.PersonaUp = h.probePersona(gctx)
		return nil
	})
	_ = g.Wait() // probes never return errors

	status.Healthy = status.DBUp && status.OAuthUp && status.PersonaUp
	WriteJSON(w, http.StatusOK, status)
}

func (h *HealthHandlers) probeDB(ctx context.Context) bool {
	if h.DB == nil {
		return false
	}
	if err := h.DB.Ping(ctx); err != nil {
		h.logger().WarnContext(ctx, "db health probe failed", "error", err)
		return false
	}
	return true
}

func (h *HealthHandlers) probeOAuth(ctx context.Context) bool {
	if err := h.probeURL(ctx, h.OAuthAboutURL, nil); err != nil {
		h.logger().WarnContext(ctx, "oauth health probe failed", "error", err)
		return false
	}
	return true
}

func (h *HealthHandlers) probePersona(ctx context.Context) bool {
	var payload any
	if err := h.probeURL(ctx, h.PersonaHealthURL, &payload); err != nil {
		h.logger().WarnContext(ctx, "persona health probe failed", "error", err)
		return false
	}

	result, err := jmespath.Search(h.PersonaStatusExpr, payload)
	if err != nil {
		h.logger().WarnContext(ctx, "persona status expression failed",
			"expression", h.PersonaStatusExpr, "error", err)
		return false
	}
	up, ok := result.(string)
	if !ok || up != "UP" {
		h.logger().WarnContext(ctx, "persona reports not up", "status", result)
		return false
	}
	return true
}

// probeURL GETs the URL, requires a 2xx, and optionally decodes the JSON body.
func (h *HealthHandlers) probeURL(ctx context.Context, probeURL string, out any) error {
	if probeURL == "" {
		return fmt.Errorf("probe URL not configured")
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, probeURL, nil)
	if err != nil {
		return err
	}
	resp, err := h.client().Do(req)
	if err != nil {
		return err
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return fmt.Errorf("probe %s: unexpected status %d", probeURL, resp.StatusCode)
	}
	if out != nil {
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			return fmt.Errorf("probe %s: decode body: %w", probeURL, err)
		}
	}
	return nil
}
