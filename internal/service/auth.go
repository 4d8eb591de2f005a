package service

import (
	"context"
	"fmt"
	"hash/fnv"
	"log/slog"
	"sync"
	"time"

	domainauth "github.com/pennmutual/chatquote-ui-api/internal/domain/auth"
	apperrors "github.com/pennmutual/chatquote-ui-api/internal/errors"
	"github.com/pennmutual/chatquote-ui-api/internal/observability/statsd"
	"github.com/pennmutual/chatquote-ui-api/internal/ports"
)

// Sentinel errors shared by the session guards and handlers. The guard
// middleware maps these onto the three distinct 401 bodies.
var (
	ErrNoSession        = apperrors.SessionInvalid("No session found for user")
	ErrNoUser           = apperrors.SessionInvalid("No user found in session")
	ErrTokenExpired     = apperrors.SessionInvalid("Access token expired")
	ErrUnauthorizedUser = apperrors.Forbidden("user is not authorized")
)

// refreshLockCount is the number of lock stripes guarding concurrent token
// refreshes. Two refreshes for the same session always share a stripe.
const refreshLockCount = 64

// AuthServiceOptions groups dependencies for AuthService.
type AuthServiceOptions struct {
	Provider ports.AuthProvider
	Enricher ports.Enricher
	Sessions ports.SessionStore
	Metrics  statsd.Sink
	Logger   *slog.Logger
	Now      func() time.Time // optional clock override for tests
}

// AuthService orchestrates login, session establishment, token refresh, and
// logout by coordinating the provider, enrichment, and session persistence.
type AuthService struct {
	provider ports.AuthProvider
	enricher ports.Enricher
	sessions ports.SessionStore
	metrics  statsd.Sink
	logger   *slog.Logger
	now      func() time.Time

	refreshLocks [refreshLockCount]sync.Mutex
}

// NewAuthService constructs a new AuthService.
func NewAuthService(opts AuthServiceOptions) *AuthService {
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	now := opts.Now
	if now == nil {
		now = time.Now
	}
	return &AuthService{
		provider: opts.Provider,
		enricher: opts.Enricher,
		sessions: opts.Sessions,
		metrics:  opts.Metrics,
		logger:   logger,
		now:      now,
	}
}

// BeginLoginURL returns the identity provider authorize URL the user agent
// should be redirected to.
func (s *AuthService) BeginLoginURL() string {
	return s.provider.AuthCodeURL()
}

// CompleteLogin exchanges the authorization code, enriches the resulting
// identity, applies the authorization policy, and persists the session.
// A denied policy check returns ErrUnauthorizedUser and writes no session
// state at all.
func (s *AuthService) CompleteLogin(ctx context.Context, code string) (domainauth.SessionRecord, error) {
	if code == "" {
		return domainauth.SessionRecord{}, apperrors.Validation("authorization code is required")
	}

	identity, err := s.provider.Exchange(ctx, code)
	if err != nil {
		s.count("auth.login.failure")
		return domainauth.SessionRecord{}, fmt.Errorf("exchange authorization code: %w", err)
	}

	// Enrichment failure is not fatal: it degrades to an empty profile,
	// which the policy check below then rejects.
	profile, err := s.enricher.Enrich(ctx, identity.AccessToken)
	if err != nil {
		s.logger.WarnContext(ctx, "enrichment failed", "user", identity.Username, "error", err)
		profile = domainauth.Profile{}
	}

	if !profile.Authorized {
		s.count("auth.login.unauthorized")
		return domainauth.SessionRecord{}, ErrUnauthorizedUser
	}

	projection := domainauth.NewProjection(identity, profile)
	rec := domainauth.SessionRecord{User: &identity, UserInfo: &projection}

	if saveErr := s.sessions.Save(ctx, identity.SessionID, rec); saveErr != nil {
		s.count("auth.login.failure")
		return domainauth.SessionRecord{}, fmt.Errorf("save session: %w", saveErr)
	}

	s.count("auth.login.success")
	return rec, nil
}

// GetSession retrieves a session record by ID.
func (s *AuthService) GetSession(ctx context.Context, sessionID string) (domainauth.SessionRecord, error) {
	if sessionID == "" {
		return domainauth.SessionRecord{}, ErrNoSession
	}
	rec, err := s.sessions.Get(ctx, sessionID)
	if err != nil {
		return domainauth.SessionRecord{}, ErrNoSession
	}
	return rec, nil
}

// Authenticate is the guard predicate: it resolves the session and verifies
// it carries an unexpired identity. It returns ErrNoSession, ErrNoUser, or
// ErrTokenExpired so callers can distinguish the failure cause.
func (s *AuthService) Authenticate(ctx context.Context, sessionID string) (domainauth.SessionRecord, error) {
	rec, err := s.GetSession(ctx, sessionID)
	if err != nil {
		return domainauth.SessionRecord{}, err
	}
	if rec.User == nil {
		return domainauth.SessionRecord{}, ErrNoUser
	}
	if rec.User.Expired(s.now()) {
		return domainauth.SessionRecord{}, ErrTokenExpired
	}
	return rec, nil
}

// Refresh exchanges the session's refresh token for a new access token and
// atomically updates the stored record. Per-session mutual exclusion guards
// two concurrent refreshes for the same session from interleaving their
// read-modify-write. On any provider failure the stored record is untouched.
func (s *AuthService) Refresh(ctx context.Context, sessionID string) (time.Time, error) {
	lock := s.refreshLock(sessionID)
	lock.Lock()
	defer lock.Unlock()

	rec, err := s.GetSession(ctx, sessionID)
	if err != nil {
		return time.Time{}, err
	}
	if rec.User == nil {
		return time.Time{}, ErrNoUser
	}

	result, err := s.provider.RefreshToken(ctx, rec.User.RefreshToken)
	if err != nil {
		s.count("auth.refresh.failure")
		return time.Time{}, fmt.Errorf("exchange refresh token: %w", err)
	}

	expiration := s.now().Add(time.Duration(result.ExpiresIn) * time.Second)
	rec.User.AccessToken = result.AccessToken
	if result.RefreshToken != "" {
		rec.User.RefreshToken = result.RefreshToken
	}
	rec.User.AccessTokenExpiration = expiration
	if rec.UserInfo != nil {
		rec.UserInfo.AccessTokenExpiration = expiration
	}

	if saveErr := s.sessions.Save(ctx, sessionID, rec); saveErr != nil {
		s.count("auth.refresh.failure")
		return time.Time{}, fmt.Errorf("save refreshed session: %w", saveErr)
	}

	s.count("auth.refresh.success")
	return expiration, nil
}

// Logout removes the session record. Callers treat a destroy failure as
// log-only; the client-side teardown proceeds regardless.
func (s *AuthService) Logout(ctx context.Context, sessionID string) error {
	if sessionID == "" {
		return nil // Nothing to log out
	}
	if err := s.sessions.Delete(ctx, sessionID); err != nil {
		return fmt.Errorf("delete session: %w", err)
	}
	s.count("auth.logout")
	return nil
}

func (s *AuthService) refreshLock(sessionID string) *sync.Mutex {
	h := fnv.New32a()
	_, _ = h.Write([]byte(sessionID))
	return &s.refreshLocks[h.Sum32()%refreshLockCount]
}

func (s *AuthService) count(name string) {
	if s.metrics == nil {
		return
	}
	s.metrics.Count(name, 1, nil)
}
