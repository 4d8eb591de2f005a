package service

import (
	"context"
	"log/slog"

	"golang.org/x/sync/errgroup"

	domainauth "github.com/pennmutual/chatquote-ui-api/internal/domain/auth"
	"github.com/pennmutual/chatquote-ui-api/internal/ports"
)

// EnrichmentServiceOptions groups dependencies for EnrichmentService.
type EnrichmentServiceOptions struct {
	Persona  ports.PersonaClient
	UserInfo ports.UserInfoSource
	Logger   *slog.Logger
}

// EnrichmentService merges persona attributes and IdP userinfo claims into a
// single profile for an access token. A single source failing degrades that
// source to an empty contribution; the merge itself never fails outright.
type EnrichmentService struct {
	persona  ports.PersonaClient
	userInfo ports.UserInfoSource
	logger   *slog.Logger
}

var _ ports.Enricher = (*EnrichmentService)(nil)

// NewEnrichmentService constructs a new EnrichmentService.
func NewEnrichmentService(opts EnrichmentServiceOptions) *EnrichmentService {
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return &EnrichmentService{
		persona:  opts.Persona,
		userInfo: opts.UserInfo,
		logger:   logger,
	}
}

// Enrich decodes the access token for the user identifier and fetches both
// attribute sources concurrently. The caller waits for both to settle; one
// source failing never cancels the other. On key collision the userinfo
// source wins.
func (s *EnrichmentService) Enrich(ctx context.Context, accessToken string) (domainauth.Profile, error) {
	claims, err := domainauth.DecodeClaims(accessToken)
	if err != nil {
		return domainauth.Profile{}, err
	}

	var (
		personaAttrs map[string]any
		infoClaims   map[string]any
	)

	// Both goroutines return nil so a source failure cannot cancel its peer.
	var g errgroup.Group
	g.Go(func() error {
		attrs, fetchErr := s.persona.Fetch(ctx, claims.LoggedInAs)
		if fetchErr != nil {
			s.logger.WarnContext(ctx, "persona fetch failed", "user", claims.LoggedInAs, "error", fetchErr)
			return nil
		}
		personaAttrs = attrs
		return nil
	})
	g.Go(func() error {
		info, infoErr := s.userInfo.UserInfo(ctx, accessToken)
		if infoErr != nil {
			s.logger.WarnContext(ctx, "userinfo fetch failed", "user", claims.LoggedInAs, "error", infoErr)
			return nil
		}
		infoClaims = info
		return nil
	})
	_ = g.Wait()

	merged := make(map[string]any, len(personaAttrs)+len(infoClaims))
	for k, v := range personaAttrs {
		merged[k] = v
	}
	for k, v := range infoClaims {
		merged[k] = v
	}

	return profileFromAttrs(merged), nil
}

// profileFromAttrs extracts the typed profile from merged attributes.
// Capability flags are collected here, at the merge step, into a typed map.
func profileFromAttrs(attrs map[string]any) domainauth.Profile {
	profile := domainauth.Profile{
		Roles:       stringSlice(attrs["roles"]),
		Permissions: stringSlice(attrs["permissions"]),
	}

	// Authorization requires a strict boolean true.
	if v, ok := attrs["authorized"].(bool); ok {
		profile.Authorized = v
	}
	if v, ok := attrs["name"].(string); ok {
		profile.Name = v
	}
	if v, ok := attrs["emailAddress"].(string); ok {
		profile.Email = v
	}

	for name, value := range attrs {
		if !domainauth.IsCapabilityFlag(name) {
			continue
		}
		flag, ok := value.(bool)
		if !ok {
			continue
		}
		if profile.Capabilities == nil {
			profile.Capabilities = make(map[string]bool)
		}
		profile.Capabilities[name] = flag
	}

	return profile
}

// stringSlice converts a decoded JSON array into a string slice, skipping
// non-string elements.
func stringSlice(v any) []string {
	items, ok := v.([]any)
	if !ok {
		return nil
	}
	out := make([]string, 0, len(items))
	for _, item := range items {
		if s, sok := item.(string); sok {
			out = append(out, s)
		}
	}
	return out
}
