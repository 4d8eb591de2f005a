package httpx

import (
	"net/http"
	"net/url"
)

// Cookie names shared by the auth handlers and guard middleware.
const (
	// SessionCookieName holds the opaque server-side session ID.
	// HttpOnly; client script never reads it.
	SessionCookieName = "authorization.sid"

	// ClientSessionCookieName holds the URL-escaped JSON projection of the
	// session. Deliberately readable by client script.
	ClientSessionCookieName = "session"

	// startURLCookieName remembers where the user was headed before being
	// bounced through the login flow.
	startURLCookieName = "startUrl"
)

// LoginPath is where unauthenticated browser navigation is sent.
const LoginPath = "/auth/pml/corp"

// sessionIDFromRequest extracts the session ID cookie value, or "" when the
// cookie is absent.
func sessionIDFromRequest(r *http.Request) string {
	cookie, err := r.Cookie(SessionCookieName)
	if err != nil {
		return ""
	}
	return cookie.Value
}

// RequireAuth returns a middleware that rejects requests without a valid,
// unexpired session. Failures get a plain-text 401 naming the cause so API
// clients can distinguish a missing session from an expired token.
func RequireAuth(authSvc AuthServiceInterface) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			rec, err := authSvc.Authenticate(r.Context(), sessionIDFromRequest(r))
			if err != nil {
				http.Error(w, err.Error(), http.StatusUnauthorized)
				return
			}

			ctx := SetSessionInContext(r.Context(), &rec)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// ForceLogin returns a middleware for browser-navigable routes: instead of a
// 401, an unauthenticated request is redirected into the login flow with the
// original URL preserved as startUrl.
func ForceLogin(authSvc AuthServiceInterface) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			rec, err := authSvc.Authenticate(r.Context(), sessionIDFromRequest(r))
			if err != nil {
				loginURL := LoginPath + "?startUrl=" + url.QueryEscape(r.URL.RequestURI())
				http.Redirect(w, r, loginURL, http.StatusFound)
				return
			}

			ctx := SetSessionInContext(r.Context(), &rec)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
