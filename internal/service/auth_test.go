package service

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	domainauth "github.com/pennmutual/chatquote-ui-api/internal/domain/auth"
	"github.com/pennmutual/chatquote-ui-api/internal/mocks/auth"
	"github.com/pennmutual/chatquote-ui-api/internal/ports"
)

func authorizedEnricher() *auth.MockEnricher {
	return &auth.MockEnricher{Profile: domainauth.Profile{
		Authorized:   true,
		Roles:        []string{"advisor"},
		Name:         "Mock User",
		Email:        "mockuser@example.com",
		Capabilities: map[string]bool{"isRegional": true},
	}}
}

func newTestAuthService(provider *auth.MockAuthProvider, enricher *auth.MockEnricher, store *auth.MemorySessionStore) *AuthService {
	return NewAuthService(AuthServiceOptions{
		Provider: provider,
		Enricher: enricher,
		Sessions: store,
	})
}

func TestCompleteLoginEstablishesSession(t *testing.T) {
	store := auth.NewMemorySessionStore()
	svc := newTestAuthService(auth.NewMockAuthProvider(), authorizedEnricher(), store)

	rec, err := svc.CompleteLogin(context.Background(), "code-123")
	require.NoError(t, err)
	require.NotNil(t, rec.User)
	require.NotNil(t, rec.UserInfo)

	assert.Equal(t, "mockuser", rec.User.Username)
	assert.Equal(t, domainauth.RoleUser, rec.User.Role)
	assert.NotEmpty(t, rec.User.SessionID)
	assert.Equal(t, "mockuser", rec.UserInfo.LoggedInAs)
	assert.True(t, rec.UserInfo.Authorized)
	assert.Equal(t, 1, store.Len())

	// Establish then guard: the fresh session must authenticate.
	got, err := svc.Authenticate(context.Background(), rec.User.SessionID)
	require.NoError(t, err)
	assert.Equal(t, rec.User.SessionID, got.User.SessionID)
}

func TestCompleteLoginUnauthorizedWritesNoSession(t *testing.T) {
	store := auth.NewMemorySessionStore()
	enricher := &auth.MockEnricher{Profile: domainauth.Profile{Authorized: false}}
	svc := newTestAuthService(auth.NewMockAuthProvider(), enricher, store)

	_, err := svc.CompleteLogin(context.Background(), "code-123")
	require.ErrorIs(t, err, ErrUnauthorizedUser)
	assert.Equal(t, 0, store.Len())
}

func TestCompleteLoginEnrichmentFailureDeniesAccess(t *testing.T) {
	store := auth.NewMemorySessionStore()
	enricher := &auth.MockEnricher{Err: errors.New("enrichment exploded")}
	svc := newTestAuthService(auth.NewMockAuthProvider(), enricher, store)

	_, err := svc.CompleteLogin(context.Background(), "code-123")
	require.ErrorIs(t, err, ErrUnauthorizedUser)
	assert.Equal(t, 0, store.Len())
}

func TestCompleteLoginExchangeFailure(t *testing.T) {
	provider := auth.NewMockAuthProvider()
	provider.ExchangeFunc = func(_ context.Context, _ string) (domainauth.Identity, error) {
		return domainauth.Identity{}, errors.New("idp rejected code")
	}
	svc := newTestAuthService(provider, authorizedEnricher(), auth.NewMemorySessionStore())

	_, err := svc.CompleteLogin(context.Background(), "code-123")
	assert.Error(t, err)
}

func TestCompleteLoginRequiresCode(t *testing.T) {
	svc := newTestAuthService(auth.NewMockAuthProvider(), authorizedEnricher(), auth.NewMemorySessionStore())

	_, err := svc.CompleteLogin(context.Background(), "")
	assert.Error(t, err)
}

func TestAuthenticateFailureCauses(t *testing.T) {
	store := auth.NewMemorySessionStore()
	svc := newTestAuthService(auth.NewMockAuthProvider(), authorizedEnricher(), store)
	ctx := context.Background()

	t.Run("no session", func(t *testing.T) {
		_, err := svc.Authenticate(ctx, "missing")
		assert.ErrorIs(t, err, ErrNoSession)

		_, err = svc.Authenticate(ctx, "")
		assert.ErrorIs(t, err, ErrNoSession)
	})

	t.Run("no user in session", func(t *testing.T) {
		require.NoError(t, store.Save(ctx, "empty-session", domainauth.SessionRecord{}))
		_, err := svc.Authenticate(ctx, "empty-session")
		assert.ErrorIs(t, err, ErrNoUser)
	})

	t.Run("expired token", func(t *testing.T) {
		identity := domainauth.Identity{
			Username:              "jdoe",
			SessionID:             "expired-session",
			AccessTokenExpiration: time.Now().Add(-time.Minute),
		}
		require.NoError(t, store.Save(ctx, "expired-session", domainauth.SessionRecord{User: &identity}))
		_, err := svc.Authenticate(ctx, "expired-session")
		assert.ErrorIs(t, err, ErrTokenExpired)
	})
}

func TestRefreshUpdatesStoredSession(t *testing.T) {
	store := auth.NewMemorySessionStore()
	provider := auth.NewMockAuthProvider()
	svc := newTestAuthService(provider, authorizedEnricher(), store)
	ctx := context.Background()

	rec, err := svc.CompleteLogin(ctx, "code-123")
	require.NoError(t, err)
	sid := rec.User.SessionID

	expiration, err := svc.Refresh(ctx, sid)
	require.NoError(t, err)
	assert.True(t, expiration.After(time.Now()))

	stored, err := store.Get(ctx, sid)
	require.NoError(t, err)
	assert.Equal(t, "mock-access-token-2", stored.User.AccessToken)
	assert.Equal(t, "mock-refresh-token-2", stored.User.RefreshToken)
	assert.Equal(t, expiration, stored.User.AccessTokenExpiration)
	assert.Equal(t, expiration, stored.UserInfo.AccessTokenExpiration)
}

func TestRefreshFailureLeavesSessionUntouched(t *testing.T) {
	store := auth.NewMemorySessionStore()
	provider := auth.NewMockAuthProvider()
	provider.RefreshTokenFunc = func(_ context.Context, _ string) (ports.TokenRefresh, error) {
		return ports.TokenRefresh{}, errors.New("invalid_grant")
	}
	svc := newTestAuthService(provider, authorizedEnricher(), store)
	ctx := context.Background()

	rec, err := svc.CompleteLogin(ctx, "code-123")
	require.NoError(t, err)
	sid := rec.User.SessionID
	before, err := store.Get(ctx, sid)
	require.NoError(t, err)

	_, err = svc.Refresh(ctx, sid)
	require.Error(t, err)

	after, err := store.Get(ctx, sid)
	require.NoError(t, err)
	assert.Equal(t, before.User.AccessToken, after.User.AccessToken)
	assert.Equal(t, before.User.RefreshToken, after.User.RefreshToken)
	assert.Equal(t, before.User.AccessTokenExpiration, after.User.AccessTokenExpiration)
}

func TestRefreshMissingSession(t *testing.T) {
	svc := newTestAuthService(auth.NewMockAuthProvider(), authorizedEnricher(), auth.NewMemorySessionStore())

	_, err := svc.Refresh(context.Background(), "missing")
	assert.ErrorIs(t, err, ErrNoSession)
}

func TestConcurrentRefreshesSerialize(t *testing.T) {
	store := auth.NewMemorySessionStore()
	provider := auth.NewMockAuthProvider()

	var mu sync.Mutex
	inFlight := 0
	maxInFlight := 0
	provider.RefreshTokenFunc = func(_ context.Context, _ string) (ports.TokenRefresh, error) {
		mu.Lock()
		inFlight++
		if inFlight > maxInFlight {
			maxInFlight = inFlight
		}
		mu.Unlock()

		time.Sleep(10 * time.Millisecond)

		mu.Lock()
		inFlight--
		mu.Unlock()
		return ports.TokenRefresh{AccessToken: "a", RefreshToken: "r", ExpiresIn: 1800}, nil
	}
	svc := newTestAuthService(provider, authorizedEnricher(), store)
	ctx := context.Background()

	rec, err := svc.CompleteLogin(ctx, "code-123")
	require.NoError(t, err)
	sid := rec.User.SessionID

	var wg sync.WaitGroup
	for range 4 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, refreshErr := svc.Refresh(ctx, sid)
			assert.NoError(t, refreshErr)
		}()
	}
	wg.Wait()

	assert.Equal(t, 1, maxInFlight)
}

func TestLogout(t *testing.T) {
	store := auth.NewMemorySessionStore()
	svc := newTestAuthService(auth.NewMockAuthProvider(), authorizedEnricher(), store)
	ctx := context.Background()

	rec, err := svc.CompleteLogin(ctx, "code-123")
	require.NoError(t, err)
	sid := rec.User.SessionID

	require.NoError(t, svc.Logout(ctx, sid))
	assert.Equal(t, 0, store.Len())

	// Logging out with no session is a no-op.
	assert.NoError(t, svc.Logout(ctx, ""))
}

func TestLogoutSurfacesStoreError(t *testing.T) {
	store := auth.NewMemorySessionStore()
	store.FailDelete = errors.New("redis down")
	svc := newTestAuthService(auth.NewMockAuthProvider(), authorizedEnricher(), store)

	err := svc.Logout(context.Background(), "sid")
	assert.Error(t, err)
}
