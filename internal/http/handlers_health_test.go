package httpx

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubPinger struct{ err error }

func (s stubPinger) Ping(context.Context) error { return s.err }

func decodeHealth(t *testing.T, w *httptest.ResponseRecorder) healthStatus {
	t.Helper()
	var status healthStatus
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &status))
	return status
}

func TestHealthcheckAllUp(t *testing.T) {
	about := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))
	defer about.Close()
	persona := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_ = json.NewEncoder(w).Encode(map[string]string{"status": "UP"})
	}))
	defer persona.Close()

	h := &HealthHandlers{
		DB:                stubPinger{},
		OAuthAboutURL:     about.URL,
		PersonaHealthURL:  persona.URL,
		PersonaStatusExpr: "status",
	}

	w := httptest.NewRecorder()
	h.Healthcheck(w, httptest.NewRequest(http.MethodGet, "/healthcheck", nil))

	require.Equal(t, http.StatusOK, w.Code)
	status := decodeHealth(t, w)
	assert.True(t, status.DBUp)
	assert.True(t, status.OAuthUp)
	assert.True(t, status.PersonaUp)
	assert.True(t, status.Healthy)
}

func TestHealthcheckNestedStatusExpression(t *testing.T) {
	persona := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_ = json.NewEncoder(w).Encode(map[string]any{
			"application": map[string]string{"status": "UP"},
		})
	}))
	defer persona.Close()

	h := &HealthHandlers{
		PersonaHealthURL:  persona.URL,
		PersonaStatusExpr: "application.status",
	}

	assert.True(t, h.probePersona(t.Context()))
}

func TestHealthcheckReportsFailuresWith200(t *testing.T) {
	about := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer about.Close()
	persona := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_ = json.NewEncoder(w).Encode(map[string]string{"status": "DOWN"})
	}))
	defer persona.Close()

	h := &HealthHandlers{
		DB:                stubPinger{err: errors.New("connection refused")},
		OAuthAboutURL:     about.URL,
		PersonaHealthURL:  persona.URL,
		PersonaStatusExpr: "status",
	}

	w := httptest.NewRecorder()
	h.Healthcheck(w, httptest.NewRequest(http.MethodGet, "/healthcheck", nil))

	// The load balancer keys off the body, never the status code.
	require.Equal(t, http.StatusOK, w.Code)
	status := decodeHealth(t, w)
	assert.False(t, status.DBUp)
	assert.False(t, status.OAuthUp)
	assert.False(t, status.PersonaUp)
	assert.False(t, status.Healthy)
}

func TestHealthcheckUnconfiguredProbes(t *testing.T) {
	h := &HealthHandlers{}

	w := httptest.NewRecorder()
	h.Healthcheck(w, httptest.NewRequest(http.MethodGet, "/healthcheck", nil))

	require.Equal(t, http.StatusOK, w.Code)
	status := decodeHealth(t, w)
	assert.False(t, status.Healthy)
}
