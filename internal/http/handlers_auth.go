package httpx

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	domainauth "github.com/pennmutual/chatquote-ui-api/internal/domain/auth"
	"github.com/pennmutual/chatquote-ui-api/internal/service"
)

// AuthServiceInterface defines the interface for auth service operations.
type AuthServiceInterface interface {
	BeginLoginURL() string
	CompleteLogin(ctx context.Context, code string) (domainauth.SessionRecord, error)
	Authenticate(ctx context.Context, sessionID string) (domainauth.SessionRecord, error)
	Refresh(ctx context.Context, sessionID string) (time.Time, error)
	Logout(ctx context.Context, sessionID string) error
}

// AuthHandlers provides HTTP handlers for the login, callback, refresh, and
// logout endpoints.
type AuthHandlers struct {
	Svc          AuthServiceInterface
	CookieDomain string
	// LogoutURL is the provider's browser-facing logout endpoint.
	LogoutURL string
	// LoggedOutURL is the absolute in-app URL the provider sends users back to.
	LoggedOutURL string
	Logger       *slog.Logger
}

func (h *AuthHandlers) logger() *slog.Logger {
	if h != nil && h.Logger != nil {
		return h.Logger
	}
	return slog.Default()
}

// Login handles the login initiation endpoint.
// GET /auth/pml/corp?startUrl=<optional_redirect>.
func (h *AuthHandlers) Login(w http.ResponseWriter, r *http.Request) {
	// Remember where the user was headed; the callback consumes this.
	if startURL := r.URL.Query().Get("startUrl"); startURL != "" {
		h.setCookie(w, r, cookieParams{
			Name:     startURLCookieName,
			Value:    url.QueryEscape(startURL),
			HTTPOnly: true,
			MaxAge:   600, // 10 minutes
		})
	}

	http.Redirect(w, r, h.Svc.BeginLoginURL(), http.StatusFound)
}

// Callback handles the OAuth callback endpoint.
// GET /auth/pml/callback?code=<code>.
func (h *AuthHandlers) Callback(w http.ResponseWriter, r *http.Request) {
	code := r.URL.Query().Get("code")
	if code == "" {
		h.loginFailed(w, r, errors.New("authorization code missing from callback"))
		return
	}

	rec, err := h.Svc.CompleteLogin(r.Context(), code)
	if err != nil {
		// A user the policy rejects is sent through logout so the provider
		// session is torn down too; everything else is a generic failure.
		if errors.Is(err, service.ErrUnauthorizedUser) {
			http.Redirect(w, r, LoginPath+"/logout?code=UNAUTHORIZED", http.StatusFound)
			return
		}
		h.loginFailed(w, r, err)
		return
	}

	h.setSessionCookies(w, r, rec)

	redirectURI := h.consumeStartURL(w, r)
	http.Redirect(w, r, redirectURI, http.StatusFound)
}

// Refresh handles the token refresh endpoint.
// GET /auth/pml/refresh.
func (h *AuthHandlers) Refresh(w http.ResponseWriter, r *http.Request) {
	expiration, err := h.Svc.Refresh(r.Context(), sessionIDFromRequest(r))
	if err != nil {
		if errors.Is(err, service.ErrNoSession) || errors.Is(err, service.ErrNoUser) {
			http.Error(w, err.Error(), http.StatusUnauthorized)
			return
		}
		h.logger().ErrorContext(r.Context(), "token refresh failed", "error", err)
		http.Error(w, "Failed to exchange refresh token", http.StatusInternalServerError)
		return
	}

	WriteJSON(w, http.StatusOK, map[string]time.Time{"accessTokenExpiration": expiration})
}

// Logout handles the logout endpoint (any method).
// /auth/pml/corp/logout?code=<optional_reason>.
//
// Session destruction is best-effort: cookies are cleared and the user is
// sent to the provider logout regardless, so a store outage can never trap
// a user in a half-logged-out state.
func (h *AuthHandlers) Logout(w http.ResponseWriter, r *http.Request) {
	if sid := sessionIDFromRequest(r); sid != "" {
		if err := h.Svc.Logout(r.Context(), sid); err != nil {
			h.logger().WarnContext(r.Context(), "session destroy failed", "error", err)
		}
	}

	h.clearCookie(w, r, SessionCookieName, true)
	h.clearCookie(w, r, ClientSessionCookieName, false)

	redirectURI := h.LoggedOutURL
	if code := r.URL.Query().Get("code"); code != "" {
		redirectURI += "/" + code
	}

	u, err := url.Parse(h.LogoutURL)
	if err != nil {
		h.logger().ErrorContext(r.Context(), "invalid logout URL", "url", h.LogoutURL, "error", err)
		http.Redirect(w, r, "/", http.StatusFound)
		return
	}
	q := u.Query()
	q.Set("redirect_uri", redirectURI)
	u.RawQuery = q.Encode()

	http.Redirect(w, r, u.String(), http.StatusFound)
}

// loginFailed answers every callback failure with the same generic payload;
// the cause lands in the log, not the response.
func (h *AuthHandlers) loginFailed(w http.ResponseWriter, r *http.Request, err error) {
	h.logger().ErrorContext(r.Context(), "login failed", "error", err)
	WriteJSON(w, http.StatusNotFound, map[string]string{
		"message": "Something went wrong, please try again.",
	})
}

// setSessionCookies writes the opaque session ID cookie and the
// client-readable projection cookie.
func (h *AuthHandlers) setSessionCookies(w http.ResponseWriter, r *http.Request, rec domainauth.SessionRecord) {
	h.setCookie(w, r, cookieParams{
		Name:     SessionCookieName,
		Value:    rec.User.SessionID,
		HTTPOnly: true,
	})

	projection, err := json.Marshal(rec.UserInfo)
	if err != nil {
		h.logger().ErrorContext(r.Context(), "marshal session projection", "error", err)
		return
	}
	h.setCookie(w, r, cookieParams{
		Name:  ClientSessionCookieName,
		Value: url.QueryEscape(string(projection)),
	})
}

// consumeStartURL returns the post-login destination and clears the cookie
// that carried it. Only same-origin relative paths are honored.
func (h *AuthHandlers) consumeStartURL(w http.ResponseWriter, r *http.Request) string {
	redirectURI := "/"
	if cookie, err := r.Cookie(startURLCookieName); err == nil {
		if candidate, unescapeErr := url.QueryUnescape(cookie.Value); unescapeErr == nil {
			redirectURI = safeRedirectPath(candidate)
		}
		h.clearCookie(w, r, startURLCookieName, true)
	}
	return redirectURI
}

// cookieParams groups the per-cookie values setCookie needs.
type cookieParams struct {
	Name     string
	Value    string
	HTTPOnly bool
	MaxAge   int // 0 means a browser-session cookie
}

func (h *AuthHandlers) setCookie(w http.ResponseWriter, r *http.Request, p cookieParams) {
	http.SetCookie(w, &http.Cookie{
		Name:     p.Name,
		Value:    p.Value,
		Path:     "/",
		Domain:   h.CookieDomain,
		HttpOnly: p.HTTPOnly,
		Secure:   isSecureRequest(r),
		SameSite: http.SameSiteLaxMode,
		MaxAge:   p.MaxAge,
	})
}

// clearCookie clears a cookie by setting it to expire immediately.
// It mirrors key attributes (Secure, Path, Domain, SameSite) used when setting
// cookies to maximize compatibility across browsers during deletion.
func (h *AuthHandlers) clearCookie(w http.ResponseWriter, r *http.Request, name string, httpOnly bool) {
	http.SetCookie(w, &http.Cookie{
		Name:     name,
		Value:    "",
		Path:     "/",
		Domain:   h.CookieDomain,
		HttpOnly: httpOnly,
		Secure:   isSecureRequest(r),
		MaxAge:   -1,
		Expires:  time.Unix(0, 0).UTC(),
		SameSite: http.SameSiteLaxMode,
	})
}

func isSecureRequest(r *http.Request) bool {
	return r.TLS != nil || strings.EqualFold(r.Header.Get("X-Forwarded-Proto"), "https")
}

// safeRedirectPath ensures the provided redirect is a same-origin relative path
// starting with "/" and not an absolute URL. Returns "/" when invalid.
func safeRedirectPath(candidate string) string {
	if candidate == "" {
		return "/"
	}
	u, err := url.Parse(candidate)
	if err != nil || u.IsAbs() || u.Host != "" || !strings.HasPrefix(u.Path, "/") {
		return "/"
	}
	return candidate
}
