package service

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	mockauth "github.com/pennmutual/chatquote-ui-api/internal/mocks/auth"
)

// Unsigned token carrying {"loggedInAs":"jdoe","context":"corp"}.
const enrichTestToken = "eyJhbGciOiJub25lIiwidHlwIjoiSldUIn0." +
	"eyJsb2dnZWRJbkFzIjoiamRvZSIsImNvbnRleHQiOiJjb3JwIn0."

func TestEnrichMergesBothSources(t *testing.T) {
	persona := &mockauth.MockPersonaClient{Attrs: map[string]any{
		"authorized":  true,
		"roles":       []any{"advisor"},
		"permissions": []any{"chat:read"},
		"name":        "From Persona",
		"isRegional":  true,
	}}
	userInfo := &mockauth.MockUserInfoSource{Claims: map[string]any{
		"name":         "Jane Doe",
		"emailAddress": "jdoe@example.com",
	}}

	svc := NewEnrichmentService(EnrichmentServiceOptions{Persona: persona, UserInfo: userInfo})

	profile, err := svc.Enrich(context.Background(), enrichTestToken)
	require.NoError(t, err)

	assert.True(t, profile.Authorized)
	assert.Equal(t, []string{"advisor"}, profile.Roles)
	assert.Equal(t, []string{"chat:read"}, profile.Permissions)
	// Userinfo wins on key collision.
	assert.Equal(t, "Jane Doe", profile.Name)
	assert.Equal(t, "jdoe@example.com", profile.Email)
	assert.Equal(t, map[string]bool{"isRegional": true}, profile.Capabilities)
}

func TestEnrichToleratesPersonaFailure(t *testing.T) {
	persona := &mockauth.MockPersonaClient{Err: errors.New("persona down")}
	userInfo := &mockauth.MockUserInfoSource{Claims: map[string]any{
		"name": "Jane Doe",
	}}

	svc := NewEnrichmentService(EnrichmentServiceOptions{Persona: persona, UserInfo: userInfo})

	profile, err := svc.Enrich(context.Background(), enrichTestToken)
	require.NoError(t, err)

	// No persona contribution means no authorization.
	assert.False(t, profile.Authorized)
	assert.Equal(t, "Jane Doe", profile.Name)
}

func TestEnrichToleratesUserInfoFailure(t *testing.T) {
	persona := &mockauth.MockPersonaClient{Attrs: map[string]any{
		"authorized": true,
		"name":       "From Persona",
	}}
	userInfo := &mockauth.MockUserInfoSource{Err: errors.New("userinfo down")}

	svc := NewEnrichmentService(EnrichmentServiceOptions{Persona: persona, UserInfo: userInfo})

	profile, err := svc.Enrich(context.Background(), enrichTestToken)
	require.NoError(t, err)

	assert.True(t, profile.Authorized)
	assert.Equal(t, "From Persona", profile.Name)
}

func TestEnrichBothSourcesFailYieldsEmptyProfile(t *testing.T) {
	persona := &mockauth.MockPersonaClient{Err: errors.New("persona down")}
	userInfo := &mockauth.MockUserInfoSource{Err: errors.New("userinfo down")}

	svc := NewEnrichmentService(EnrichmentServiceOptions{Persona: persona, UserInfo: userInfo})

	profile, err := svc.Enrich(context.Background(), enrichTestToken)
	require.NoError(t, err)
	assert.False(t, profile.Authorized)
	assert.Empty(t, profile.Capabilities)
}

func TestEnrichFailsOnUndecodableToken(t *testing.T) {
	svc := NewEnrichmentService(EnrichmentServiceOptions{
		Persona:  &mockauth.MockPersonaClient{},
		UserInfo: &mockauth.MockUserInfoSource{},
	})

	_, err := svc.Enrich(context.Background(), "not-a-jwt")
	assert.Error(t, err)
}

func TestEnrichOneSlowSourceDoesNotBlockTheOther(t *testing.T) {
	var mu sync.Mutex
	var order []string

	persona := &mockauth.MockPersonaClient{FetchFunc: func(_ context.Context, _ string) (map[string]any, error) {
		time.Sleep(50 * time.Millisecond)
		mu.Lock()
		order = append(order, "persona")
		mu.Unlock()
		return map[string]any{"authorized": true}, nil
	}}
	userInfo := &mockauth.MockUserInfoSource{UserInfoFunc: func(_ context.Context, _ string) (map[string]any, error) {
		mu.Lock()
		order = append(order, "userinfo")
		mu.Unlock()
		return map[string]any{"name": "Jane"}, nil
	}}

	svc := NewEnrichmentService(EnrichmentServiceOptions{Persona: persona, UserInfo: userInfo})

	start := time.Now()
	profile, err := svc.Enrich(context.Background(), enrichTestToken)
	require.NoError(t, err)

	// Total latency tracks the slower source, not the sum of both.
	assert.Less(t, time.Since(start), 150*time.Millisecond)
	assert.True(t, profile.Authorized)
	assert.Equal(t, "Jane", profile.Name)
	assert.Equal(t, []string{"userinfo", "persona"}, order)
}

func TestProfileFromAttrsIgnoresNonBooleanFlags(t *testing.T) {
	profile := profileFromAttrs(map[string]any{
		"authorized": "yes", // not a strict bool, must not authorize
		"isRegional": "true",
		"isManager":  true,
	})
	assert.False(t, profile.Authorized)
	assert.Equal(t, map[string]bool{"isManager": true}, profile.Capabilities)
}
