// Package auth contains simple hand-written test doubles for auth ports.
// These are lightweight and suitable for unit tests without codegen.
package auth

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"

	domainauth "github.com/pennmutual/chatquote-ui-api/internal/domain/auth"
	"github.com/pennmutual/chatquote-ui-api/internal/ports"
)

// Ensure compile-time conformance to ports.
var (
	_ ports.AuthProvider   = (*MockAuthProvider)(nil)
	_ ports.SessionStore   = (*MemorySessionStore)(nil)
	_ ports.PersonaClient  = (*MockPersonaClient)(nil)
	_ ports.UserInfoSource = (*MockUserInfoSource)(nil)
	_ ports.Enricher       = (*MockEnricher)(nil)
)

// MockAuthProvider simulates the identity provider for tests.
type MockAuthProvider struct {
	AuthCodeURLFunc  func() string
	ExchangeFunc     func(ctx context.Context, code string) (domainauth.Identity, error)
	RefreshTokenFunc func(ctx context.Context, refreshToken string) (ports.TokenRefresh, error)

	// Defaults used when the corresponding func is nil.
	AuthURL         string
	DefaultIdentity domainauth.Identity
	DefaultRefresh  ports.TokenRefresh
}

// NewMockAuthProvider creates a MockAuthProvider with sensible defaults.
func NewMockAuthProvider() *MockAuthProvider {
	return &MockAuthProvider{
		AuthURL: "https://mock-idp/authorize?client_id=chatquote",
		DefaultIdentity: domainauth.Identity{
			AccessToken:           "mock-access-token",
			RefreshToken:          "mock-refresh-token",
			Username:              "mockuser",
			Role:                  domainauth.RoleUser,
			Context:               "corp",
			AccessTokenExpiration: time.Now().Add(30 * time.Minute),
		},
		DefaultRefresh: ports.TokenRefresh{
			AccessToken:  "mock-access-token-2",
			RefreshToken: "mock-refresh-token-2",
			ExpiresIn:    1800,
		},
	}
}

func (m *MockAuthProvider) AuthCodeURL() string {
	if m.AuthCodeURLFunc != nil {
		return m.AuthCodeURLFunc()
	}
	return m.AuthURL
}

func (m *MockAuthProvider) Exchange(ctx context.Context, code string) (domainauth.Identity, error) {
	if m.ExchangeFunc != nil {
		return m.ExchangeFunc(ctx, code)
	}
	if code == "" {
		return domainauth.Identity{}, errors.New("authorization code is required")
	}
	identity := m.DefaultIdentity
	identity.SessionID = uuid.NewString()
	return identity, nil
}

func (m *MockAuthProvider) RefreshToken(ctx context.Context, refreshToken string) (ports.TokenRefresh, error) {
	if m.RefreshTokenFunc != nil {
		return m.RefreshTokenFunc(ctx, refreshToken)
	}
	return m.DefaultRefresh, nil
}

// MemorySessionStore is an in-memory session store for unit tests.
// It is safe for concurrent use so refresh-race tests can hammer it.
type MemorySessionStore struct {
	mu       sync.Mutex
	sessions map[string]domainauth.SessionRecord

	// FailSave and FailDelete force errors for failure-path tests.
	FailSave   error
	FailDelete error
}

// NewMemorySessionStore creates a new in-memory session store.
func NewMemorySessionStore() *MemorySessionStore {
	return &MemorySessionStore{
		sessions: make(map[string]domainauth.SessionRecord),
	}
}

func (m *MemorySessionStore) Save(_ context.Context, id string, rec domainauth.SessionRecord) error {
	if m.FailSave != nil {
		return m.FailSave
	}
	if id == "" {
		return errors.New("session ID cannot be empty")
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.sessions[id] = rec
	return nil
}

func (m *MemorySessionStore) Get(_ context.Context, id string) (domainauth.SessionRecord, error) {
	if id == "" {
		return domainauth.SessionRecord{}, ErrNotFound
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	rec, ok := m.sessions[id]
	if !ok {
		return domainauth.SessionRecord{}, ErrNotFound
	}
	return rec, nil
}

func (m *MemorySessionStore) Delete(_ context.Context, id string) error {
	if m.FailDelete != nil {
		return m.FailDelete
	}
	if id == "" {
		return nil
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.sessions, id)
	return nil
}

// Len reports the number of stored sessions.
func (m *MemorySessionStore) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.sessions)
}

// ErrNotFound is returned by mocks when an entity is not present.
type notFoundError struct{}

func (notFoundError) Error() string { return "not found" }

var ErrNotFound error = notFoundError{}

// MockPersonaClient returns canned persona attributes.
type MockPersonaClient struct {
	FetchFunc func(ctx context.Context, userID string) (map[string]any, error)
	Attrs     map[string]any
	Err       error
}

func (m *MockPersonaClient) Fetch(ctx context.Context, userID string) (map[string]any, error) {
	if m.FetchFunc != nil {
		return m.FetchFunc(ctx, userID)
	}
	return m.Attrs, m.Err
}

// MockUserInfoSource returns canned userinfo claims.
type MockUserInfoSource struct {
	UserInfoFunc func(ctx context.Context, accessToken string) (map[string]any, error)
	Claims       map[string]any
	Err          error
}

func (m *MockUserInfoSource) UserInfo(ctx context.Context, accessToken string) (map[string]any, error) {
	if m.UserInfoFunc != nil {
		return m.UserInfoFunc(ctx, accessToken)
	}
	return m.Claims, m.Err
}

// MockEnricher returns a canned profile.
type MockEnricher struct {
	EnrichFunc func(ctx context.Context, accessToken string) (domainauth.Profile, error)
	Profile    domainauth.Profile
	Err        error
}

func (m *MockEnricher) Enrich(ctx context.Context, accessToken string) (domainauth.Profile, error) {
	if m.EnrichFunc != nil {
		return m.EnrichFunc(ctx, accessToken)
	}
	return m.Profile, m.Err
}
