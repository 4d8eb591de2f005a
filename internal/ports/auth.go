// Package ports defines interfaces (hexagonal ports) for auth-related behavior.
// Implementations live in internal/adapters; orchestration in internal/service.
package ports

import (
	"context"

	domainauth "github.com/pennmutual/chatquote-ui-api/internal/domain/auth"
)

// TokenRefresh is the validated result of a refresh-token grant.
type TokenRefresh struct {
	AccessToken  string
	RefreshToken string
	ExpiresIn    int64
}

// AuthProvider drives the Authorization Code Grant against an identity provider.
type AuthProvider interface {
	// AuthCodeURL returns the provider authorize URL with the configured
	// client ID, callback URL, and scopes.
	AuthCodeURL() string

	// Exchange trades an authorization code for an authenticated identity.
	Exchange(ctx context.Context, code string) (domainauth.Identity, error)

	// RefreshToken trades a refresh token for a new access token. The result
	// is validated: a provider error body or a response missing access_token
	// or expires_in is an error, never a partial result.
	RefreshToken(ctx context.Context, refreshToken string) (TokenRefresh, error)
}

// UserInfoSource fetches the identity provider's userinfo claims for an
// access token. The raw claim map is merged downstream with persona data.
type UserInfoSource interface {
	UserInfo(ctx context.Context, accessToken string) (map[string]any, error)
}

// PersonaClient fetches role and permission attributes for a user identifier
// from the persona service.
type PersonaClient interface {
	Fetch(ctx context.Context, userID string) (map[string]any, error)
}

// Enricher merges external attribute sources into a profile for an access
// token. Implementations tolerate partial source failure.
type Enricher interface {
	Enrich(ctx context.Context, accessToken string) (domainauth.Profile, error)
}

// SessionStore persists and retrieves server-side session records.
type SessionStore interface {
	Save(ctx context.Context, id string, rec domainauth.SessionRecord) error
	Get(ctx context.Context, id string) (domainauth.SessionRecord, error)
	Delete(ctx context.Context, id string) error
}
