// Package devauth provides a config-driven auth stack for local development.
// It short-circuits the OAuth flow, fabricates token material, and answers
// enrichment lookups locally so the app runs without IdP or persona access.
package devauth

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	domainauth "github.com/pennmutual/chatquote-ui-api/internal/domain/auth"
	"github.com/pennmutual/chatquote-ui-api/internal/ports"
)

// Config controls the dev auth provider behavior.
type Config struct {
	Username        string
	Email           string
	SessionDuration time.Duration // default 8h when zero
}

// Provider implements the auth provider, userinfo, and persona ports for
// local development. Exchange ignores the code and mints an identity for the
// configured user.
type Provider struct {
	username        string
	email           string
	sessionDuration time.Duration
}

var (
	_ ports.AuthProvider   = (*Provider)(nil)
	_ ports.UserInfoSource = (*Provider)(nil)
	_ ports.PersonaClient  = (*Provider)(nil)
)

// NewProvider constructs a dev auth provider from Config.
func NewProvider(cfg Config) (*Provider, error) {
	if cfg.Username == "" {
		return nil, errors.New("dev auth: Username is required")
	}
	if cfg.Email == "" {
		return nil, errors.New("dev auth: Email is required")
	}
	dur := cfg.SessionDuration
	if dur == 0 {
		dur = 8 * time.Hour
	}
	return &Provider{
		username:        cfg.Username,
		email:           cfg.Email,
		sessionDuration: dur,
	}, nil
}

// AuthCodeURL points straight back at our own callback, skipping the IdP.
func (p *Provider) AuthCodeURL() string {
	return "/auth/pml/callback?code=dev"
}

// Exchange ignores the provided code and returns an identity for the
// configured dev user with a freshly minted unsigned access token.
func (p *Provider) Exchange(_ context.Context, _ string) (domainauth.Identity, error) {
	token, err := p.mintAccessToken()
	if err != nil {
		return domainauth.Identity{}, err
	}
	return domainauth.Identity{
		AccessToken:           token,
		RefreshToken:          "dev-refresh-token",
		Username:              p.username,
		Role:                  domainauth.RoleUser,
		SessionID:             uuid.NewString(),
		Context:               "dev",
		AccessTokenExpiration: time.Now().Add(p.sessionDuration),
	}, nil
}

// RefreshToken mints a new token pair without calling any upstream.
func (p *Provider) RefreshToken(_ context.Context, refreshToken string) (ports.TokenRefresh, error) {
	if refreshToken == "" {
		return ports.TokenRefresh{}, errors.New("refresh token is required")
	}
	token, err := p.mintAccessToken()
	if err != nil {
		return ports.TokenRefresh{}, err
	}
	return ports.TokenRefresh{
		AccessToken:  token,
		RefreshToken: "dev-refresh-token",
		ExpiresIn:    int64(p.sessionDuration / time.Second),
	}, nil
}

// UserInfo answers the userinfo lookup locally.
func (p *Provider) UserInfo(_ context.Context, _ string) (map[string]any, error) {
	return map[string]any{
		"name":         p.username,
		"emailAddress": p.email,
	}, nil
}

// Fetch answers the persona lookup locally with a fully authorized profile.
func (p *Provider) Fetch(_ context.Context, userID string) (map[string]any, error) {
	if userID == "" {
		return nil, errors.New("user ID is required")
	}
	return map[string]any{
		"authorized":  true,
		"roles":       []any{"advisor"},
		"permissions": []any{"chat:read", "chat:write"},
		"isRegional":  true,
	}, nil
}

// mintAccessToken builds an unsigned JWT carrying the same claims the real
// IdP issues, so claim decoding works identically in dev mode.
func (p *Provider) mintAccessToken() (string, error) {
	claims := jwt.MapClaims{
		"loggedInAs": p.username,
		"context":    "dev",
		"exp":        time.Now().Add(p.sessionDuration).Unix(),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodNone, claims)
	signed, err := token.SignedString(jwt.UnsafeAllowNoneSignatureType)
	if err != nil {
		return "", fmt.Errorf("mint dev access token: %w", err)
	}
	return signed, nil
}
