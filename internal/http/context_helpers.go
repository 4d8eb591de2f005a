package httpx

import (
	"context"

	domainauth "github.com/pennmutual/chatquote-ui-api/internal/domain/auth"
)

// sessionKey is an unexported context key type to avoid collisions across packages.
// Centralized in this file so all handlers/middleware use the same key.
type sessionKey struct{}

// SetSessionInContext returns a child context that carries the given session record.
// If the record is nil, the original ctx is returned unchanged.
func SetSessionInContext(ctx context.Context, rec *domainauth.SessionRecord) context.Context {
	if rec == nil {
		return ctx
	}
	return context.WithValue(ctx, sessionKey{}, rec)
}

// GetSessionFromContext returns the session record from context and a boolean
// indicating presence.
func GetSessionFromContext(ctx context.Context) (*domainauth.SessionRecord, bool) {
	if rec, ok := ctx.Value(sessionKey{}).(*domainauth.SessionRecord); ok && rec != nil {
		return rec, true
	}
	return nil, false
}

// UsernameFromContext returns the authenticated username, or "" if the
// request context carries no usable session.
func UsernameFromContext(ctx context.Context) string {
	rec, ok := GetSessionFromContext(ctx)
	if !ok || rec.User == nil {
		return ""
	}
	return rec.User.Username
}
