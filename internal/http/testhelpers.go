package httpx

import (
	"net/http"
	"testing"

	domainauth "github.com/pennmutual/chatquote-ui-api/internal/domain/auth"
	mockauth "github.com/pennmutual/chatquote-ui-api/internal/mocks/auth"
	"github.com/pennmutual/chatquote-ui-api/internal/service"
)

// TestAuthStack bundles a real AuthService wired over in-memory doubles so
// handler tests exercise the same code paths as production.
type TestAuthStack struct {
	Svc      *service.AuthService
	Store    *mockauth.MemorySessionStore
	Provider *mockauth.MockAuthProvider
	Enricher *mockauth.MockEnricher
}

// NewTestAuthStack builds an auth service whose enricher authorizes by default.
func NewTestAuthStack(t *testing.T) *TestAuthStack {
	t.Helper()
	store := mockauth.NewMemorySessionStore()
	provider := mockauth.NewMockAuthProvider()
	enricher := &mockauth.MockEnricher{Profile: domainauth.Profile{
		Authorized:   true,
		Roles:        []string{"advisor"},
		Name:         "Mock User",
		Email:        "mockuser@example.com",
		Capabilities: map[string]bool{"isRegional": true},
	}}
	svc := service.NewAuthService(service.AuthServiceOptions{
		Provider: provider,
		Enricher: enricher,
		Sessions: store,
	})
	return &TestAuthStack{Svc: svc, Store: store, Provider: provider, Enricher: enricher}
}

// Establish runs a login and returns the session record now in the store.
func (s *TestAuthStack) Establish(t *testing.T, r *http.Request) domainauth.SessionRecord {
	t.Helper()
	rec, err := s.Svc.CompleteLogin(r.Context(), "test-code")
	if err != nil {
		t.Fatalf("establish session: %v", err)
	}
	return rec
}

// WithSession attaches the session record to the request context, the way the
// auth guards do for handlers downstream.
func WithSession(r *http.Request, rec *domainauth.SessionRecord) *http.Request {
	return r.WithContext(SetSessionInContext(r.Context(), rec))
}

// SessionForUser builds a minimal authenticated session record for tests that
// only need a username in context.
func SessionForUser(username string) *domainauth.SessionRecord {
	return &domainauth.SessionRecord{User: &domainauth.Identity{Username: username}}
}
