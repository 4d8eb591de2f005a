// Package oidc provides the OAuth2 adapter for the corporate identity provider.
// The IdP publishes no discovery document, so endpoints are configured
// explicitly rather than resolved from a well-known URL.
package oidc

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	gooidc "github.com/coreos/go-oidc/v3/oidc"
	"github.com/google/uuid"
	"golang.org/x/oauth2"

	domainauth "github.com/pennmutual/chatquote-ui-api/internal/domain/auth"
	apperrors "github.com/pennmutual/chatquote-ui-api/internal/errors"
	"github.com/pennmutual/chatquote-ui-api/internal/ports"
)

// Provider implements ports.AuthProvider and ports.UserInfoSource against an
// OAuth2 identity provider with explicitly configured endpoints.
type Provider struct {
	config     *oauth2.Config
	tokenURL   string
	httpClient *http.Client

	oidcProvider *gooidc.Provider
}

var (
	_ ports.AuthProvider   = (*Provider)(nil)
	_ ports.UserInfoSource = (*Provider)(nil)
)

// Config holds configuration for the OAuth2 provider.
type Config struct {
	ClientID     string
	ClientSecret string
	RedirectURL  string
	AuthorizeURL string
	TokenURL     string
	UserInfoURL  string
	Scopes       []string
	HTTPClient   *http.Client // Optional, defaults to a 30s-timeout client
}

// NewProvider creates a new OAuth2 provider from explicit endpoint URLs.
func NewProvider(cfg Config) (*Provider, error) {
	if cfg.ClientID == "" {
		return nil, errors.New("client ID is required")
	}
	if cfg.ClientSecret == "" {
		return nil, errors.New("client secret is required")
	}
	if cfg.RedirectURL == "" {
		return nil, errors.New("redirect URL is required")
	}
	if cfg.AuthorizeURL == "" || cfg.TokenURL == "" || cfg.UserInfoURL == "" {
		return nil, errors.New("authorize, token, and userinfo URLs are required")
	}

	httpClient := cfg.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 30 * time.Second}
	}

	// No discovery endpoint exists on this IdP; build the go-oidc provider
	// from the explicit endpoints so the userinfo call reuses its plumbing.
	providerCfg := gooidc.ProviderConfig{
		AuthURL:     cfg.AuthorizeURL,
		TokenURL:    cfg.TokenURL,
		UserInfoURL: cfg.UserInfoURL,
	}
	ctx := context.WithValue(context.Background(), oauth2.HTTPClient, httpClient)
	op := providerCfg.NewProvider(ctx)

	return &Provider{
		config: &oauth2.Config{
			ClientID:     cfg.ClientID,
			ClientSecret: cfg.ClientSecret,
			RedirectURL:  cfg.RedirectURL,
			Scopes:       cfg.Scopes,
			Endpoint: oauth2.Endpoint{
				AuthURL:  cfg.AuthorizeURL,
				TokenURL: cfg.TokenURL,
			},
		},
		tokenURL:     cfg.TokenURL,
		httpClient:   httpClient,
		oidcProvider: op,
	}, nil
}

// AuthCodeURL returns the provider authorize URL. No state parameter is sent;
// the callback is correlated through the session cookie alone.
func (p *Provider) AuthCodeURL() string {
	return p.config.AuthCodeURL("")
}

// Exchange trades an authorization code for tokens and decodes the access
// token's claims into an identity with a freshly generated session ID.
func (p *Provider) Exchange(ctx context.Context, code string) (domainauth.Identity, error) {
	if code == "" {
		return domainauth.Identity{}, errors.New("authorization code is required")
	}

	ctx = context.WithValue(ctx, oauth2.HTTPClient, p.httpClient)
	token, err := p.config.Exchange(ctx, code)
	if err != nil {
		return domainauth.Identity{}, apperrors.Upstream(err, "exchange authorization code")
	}

	claims, err := domainauth.DecodeClaims(token.AccessToken)
	if err != nil {
		return domainauth.Identity{}, apperrors.Upstream(err, "decode access token claims")
	}

	expiration := token.Expiry
	if expiration.IsZero() {
		expiration = time.Now().Add(time.Hour)
	}

	return domainauth.Identity{
		AccessToken:           token.AccessToken,
		RefreshToken:          token.RefreshToken,
		Username:              claims.LoggedInAs,
		Role:                  domainauth.RoleUser,
		SessionID:             uuid.NewString(),
		Context:               claims.Context,
		AccessTokenExpiration: expiration,
	}, nil
}

// refreshResponse is the token endpoint's refresh-grant response body.
type refreshResponse struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
	ExpiresIn    int64  `json:"expires_in"`
	Error        string `json:"error"`
}

// RefreshToken posts a refresh-token grant to the token endpoint and validates
// the response. Any transport error, provider error body, or missing
// access_token/expires_in fails the whole call.
func (p *Provider) RefreshToken(ctx context.Context, refreshToken string) (ports.TokenRefresh, error) {
	if refreshToken == "" {
		return ports.TokenRefresh{}, errors.New("refresh token is required")
	}

	form := url.Values{}
	form.Set("refresh_token", refreshToken)
	form.Set("client_id", p.config.ClientID)
	form.Set("client_secret", p.config.ClientSecret)
	form.Set("grant_type", "refresh_token")

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, p.tokenURL, strings.NewReader(form.Encode()))
	if err != nil {
		return ports.TokenRefresh{}, fmt.Errorf("build refresh request: %w", err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := p.httpClient.Do(req)
	if err != nil {
		return ports.TokenRefresh{}, apperrors.Upstream(err, "refresh token request")
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	body, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return ports.TokenRefresh{}, apperrors.Upstream(err, "read refresh response")
	}

	var payload refreshResponse
	if unmarshalErr := json.Unmarshal(body, &payload); unmarshalErr != nil {
		return ports.TokenRefresh{}, apperrors.Upstream(unmarshalErr, "decode refresh response")
	}

	if payload.Error != "" {
		return ports.TokenRefresh{}, apperrors.Upstreamf(nil, "token endpoint returned %q", payload.Error)
	}
	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		return ports.TokenRefresh{}, apperrors.Upstreamf(nil, "token endpoint returned status %d", resp.StatusCode)
	}
	if payload.AccessToken == "" || payload.ExpiresIn <= 0 {
		return ports.TokenRefresh{}, apperrors.Upstreamf(nil, "refresh response missing access_token or expires_in")
	}

	return ports.TokenRefresh{
		AccessToken:  payload.AccessToken,
		RefreshToken: payload.RefreshToken,
		ExpiresIn:    payload.ExpiresIn,
	}, nil
}

// UserInfo fetches the userinfo claims using the access token as a bearer
// credential and returns them as a raw map for downstream merging.
func (p *Provider) UserInfo(ctx context.Context, accessToken string) (map[string]any, error) {
	ctx = context.WithValue(ctx, oauth2.HTTPClient, p.httpClient)
	ui, err := p.oidcProvider.UserInfo(ctx, oauth2.StaticTokenSource(&oauth2.Token{AccessToken: accessToken}))
	if err != nil {
		return nil, apperrors.Upstream(err, "fetch user info")
	}

	claims := map[string]any{}
	if claimsErr := ui.Claims(&claims); claimsErr != nil {
		return nil, apperrors.Upstream(claimsErr, "decode user info")
	}
	return claims, nil
}
