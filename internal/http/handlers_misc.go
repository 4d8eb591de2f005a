package httpx

import (
	"net/http"
	"time"
)

// heartbeatBody is the exact body the load balancer expects from the
// liveness endpoints.
const heartbeatBody = "Service is Active"

// Heartbeat handles GET /ping and GET /heartbeat.
func Heartbeat(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	_, _ = w.Write([]byte(heartbeatBody))
}

// AboutHandlers serves build and deployment information.
type AboutHandlers struct {
	Name        string
	Version     string
	Environment string
	NodeName    string
	StartedAt   time.Time
}

// About handles GET /about. Requests arriving through the load balancer
// (identified by X-Forwarded-For) get a scrubbed payload so deployment
// details never leave the internal network.
func (h *AboutHandlers) About(w http.ResponseWriter, r *http.Request) {
	if r.Header.Get("X-Forwarded-For") != "" {
		WriteJSON(w, http.StatusOK, map[string]string{
			"name":    h.Name,
			"version": h.Version,
		})
		return
	}

	payload := map[string]string{
		"name":        h.Name,
		"version":     h.Version,
		"environment": h.Environment,
		"node":        h.NodeName,
	}
	if !h.StartedAt.IsZero() {
		payload["uptime"] = time.Since(h.StartedAt).Truncate(time.Second).String()
	}
	WriteJSON(w, http.StatusOK, payload)
}
