package httpx

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	domainauth "github.com/pennmutual/chatquote-ui-api/internal/domain/auth"
	"github.com/pennmutual/chatquote-ui-api/internal/ports"
)

const (
	testLogoutURL    = "https://idp.example.com/oauth2/logout"
	testLoggedOutURL = "http://localhost:3000/#/loggedout"
)

func newAuthHandlers(stack *TestAuthStack) *AuthHandlers {
	return &AuthHandlers{
		Svc:          stack.Svc,
		LogoutURL:    testLogoutURL,
		LoggedOutURL: testLoggedOutURL,
	}
}

func findCookie(t *testing.T, cookies []*http.Cookie, name string) *http.Cookie {
	t.Helper()
	for _, c := range cookies {
		if c.Name == name {
			return c
		}
	}
	return nil
}

func TestLoginRedirectsToProvider(t *testing.T) {
	stack := NewTestAuthStack(t)
	h := newAuthHandlers(stack)

	r := httptest.NewRequest(http.MethodGet, "/auth/pml/corp?startUrl=/chats/42", nil)
	w := httptest.NewRecorder()
	h.Login(w, r)

	assert.Equal(t, http.StatusFound, w.Code)
	assert.Equal(t, stack.Provider.AuthURL, w.Header().Get("Location"))

	cookie := findCookie(t, w.Result().Cookies(), startURLCookieName)
	require.NotNil(t, cookie)
	assert.Equal(t, url.QueryEscape("/chats/42"), cookie.Value)
	assert.True(t, cookie.HttpOnly)
}

func TestLoginWithoutStartURLSetsNoCookie(t *testing.T) {
	stack := NewTestAuthStack(t)
	h := newAuthHandlers(stack)

	r := httptest.NewRequest(http.MethodGet, "/auth/pml/corp", nil)
	w := httptest.NewRecorder()
	h.Login(w, r)

	assert.Equal(t, http.StatusFound, w.Code)
	assert.Nil(t, findCookie(t, w.Result().Cookies(), startURLCookieName))
}

func TestCallbackMissingCode(t *testing.T) {
	stack := NewTestAuthStack(t)
	h := newAuthHandlers(stack)

	r := httptest.NewRequest(http.MethodGet, "/auth/pml/callback", nil)
	w := httptest.NewRecorder()
	h.Callback(w, r)

	assert.Equal(t, http.StatusNotFound, w.Code)
	var body map[string]string
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, "Something went wrong, please try again.", body["message"])
}

func TestCallbackExchangeFailure(t *testing.T) {
	stack := NewTestAuthStack(t)
	stack.Provider.ExchangeFunc = func(context.Context, string) (domainauth.Identity, error) {
		return domainauth.Identity{}, errors.New("idp rejected code")
	}
	h := newAuthHandlers(stack)

	r := httptest.NewRequest(http.MethodGet, "/auth/pml/callback?code=bad", nil)
	w := httptest.NewRecorder()
	h.Callback(w, r)

	assert.Equal(t, http.StatusNotFound, w.Code)
	var body map[string]string
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, "Something went wrong, please try again.", body["message"])
	assert.Empty(t, w.Result().Cookies())
}

func TestCallbackUnauthorizedRedirectsToLogout(t *testing.T) {
	stack := NewTestAuthStack(t)
	stack.Enricher.Profile = domainauth.Profile{Authorized: false}
	h := newAuthHandlers(stack)

	r := httptest.NewRequest(http.MethodGet, "/auth/pml/callback?code=good", nil)
	w := httptest.NewRecorder()
	h.Callback(w, r)

	assert.Equal(t, http.StatusFound, w.Code)
	assert.Equal(t, "/auth/pml/corp/logout?code=UNAUTHORIZED", w.Header().Get("Location"))
	assert.Empty(t, w.Result().Cookies())
	assert.Equal(t, 0, stack.Store.Len())
}

func TestCallbackSuccessSetsCookies(t *testing.T) {
	stack := NewTestAuthStack(t)
	h := newAuthHandlers(stack)

	r := httptest.NewRequest(http.MethodGet, "/auth/pml/callback?code=good", nil)
	r.AddCookie(&http.Cookie{Name: startURLCookieName, Value: url.QueryEscape("/chats/42")})
	w := httptest.NewRecorder()
	h.Callback(w, r)

	assert.Equal(t, http.StatusFound, w.Code)
	assert.Equal(t, "/chats/42", w.Header().Get("Location"))

	cookies := w.Result().Cookies()

	sid := findCookie(t, cookies, SessionCookieName)
	require.NotNil(t, sid)
	assert.NotEmpty(t, sid.Value)
	assert.True(t, sid.HttpOnly)

	// The projection cookie is deliberately readable by client script and
	// must never leak tokens.
	session := findCookie(t, cookies, ClientSessionCookieName)
	require.NotNil(t, session)
	assert.False(t, session.HttpOnly)
	raw, err := url.QueryUnescape(session.Value)
	require.NoError(t, err)
	var projection map[string]any
	require.NoError(t, json.Unmarshal([]byte(raw), &projection))
	assert.Equal(t, "mockuser", projection["loggedInAs"])
	assert.Equal(t, true, projection["isRegional"])
	assert.NotContains(t, projection, "accessToken")
	assert.NotContains(t, projection, "refreshToken")

	// startUrl is single-use.
	start := findCookie(t, cookies, startURLCookieName)
	require.NotNil(t, start)
	assert.Less(t, start.MaxAge, 0)
}

func TestCallbackIgnoresAbsoluteStartURL(t *testing.T) {
	stack := NewTestAuthStack(t)
	h := newAuthHandlers(stack)

	r := httptest.NewRequest(http.MethodGet, "/auth/pml/callback?code=good", nil)
	r.AddCookie(&http.Cookie{Name: startURLCookieName, Value: url.QueryEscape("https://evil.example.com/")})
	w := httptest.NewRecorder()
	h.Callback(w, r)

	assert.Equal(t, http.StatusFound, w.Code)
	assert.Equal(t, "/", w.Header().Get("Location"))
}

func TestRefreshHandler(t *testing.T) {
	t.Run("no session", func(t *testing.T) {
		stack := NewTestAuthStack(t)
		h := newAuthHandlers(stack)

		r := httptest.NewRequest(http.MethodGet, "/auth/pml/refresh", nil)
		w := httptest.NewRecorder()
		h.Refresh(w, r)

		assert.Equal(t, http.StatusUnauthorized, w.Code)
		assert.Equal(t, "No session found for user\n", w.Body.String())
	})

	t.Run("provider failure", func(t *testing.T) {
		stack := NewTestAuthStack(t)
		stack.Provider.RefreshTokenFunc = func(context.Context, string) (ports.TokenRefresh, error) {
			return ports.TokenRefresh{}, errors.New("invalid_grant")
		}
		rec := stack.Establish(t, httptest.NewRequest(http.MethodGet, "/", nil))
		h := newAuthHandlers(stack)

		r := withSessionCookie(httptest.NewRequest(http.MethodGet, "/auth/pml/refresh", nil), rec.User.SessionID)
		w := httptest.NewRecorder()
		h.Refresh(w, r)

		assert.Equal(t, http.StatusInternalServerError, w.Code)
		assert.Equal(t, "Failed to exchange refresh token\n", w.Body.String())
	})

	t.Run("success", func(t *testing.T) {
		stack := NewTestAuthStack(t)
		rec := stack.Establish(t, httptest.NewRequest(http.MethodGet, "/", nil))
		h := newAuthHandlers(stack)

		r := withSessionCookie(httptest.NewRequest(http.MethodGet, "/auth/pml/refresh", nil), rec.User.SessionID)
		w := httptest.NewRecorder()
		h.Refresh(w, r)

		require.Equal(t, http.StatusOK, w.Code)
		var body map[string]time.Time
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
		assert.True(t, body["accessTokenExpiration"].After(time.Now()))
	})
}

func TestLogoutClearsCookiesAndRedirects(t *testing.T) {
	stack := NewTestAuthStack(t)
	rec := stack.Establish(t, httptest.NewRequest(http.MethodGet, "/", nil))
	h := newAuthHandlers(stack)

	r := withSessionCookie(httptest.NewRequest(http.MethodGet, "/auth/pml/corp/logout", nil), rec.User.SessionID)
	w := httptest.NewRecorder()
	h.Logout(w, r)

	assert.Equal(t, http.StatusFound, w.Code)
	assert.Equal(t, 0, stack.Store.Len())

	cookies := w.Result().Cookies()
	for _, name := range []string{SessionCookieName, ClientSessionCookieName} {
		cookie := findCookie(t, cookies, name)
		require.NotNil(t, cookie, name)
		assert.Less(t, cookie.MaxAge, 0, name)
	}

	location, err := url.Parse(w.Header().Get("Location"))
	require.NoError(t, err)
	assert.Equal(t, "idp.example.com", location.Host)
	assert.Equal(t, "/oauth2/logout", location.Path)
	assert.Equal(t, testLoggedOutURL, location.Query().Get("redirect_uri"))
}

func TestLogoutWithReasonCode(t *testing.T) {
	stack := NewTestAuthStack(t)
	h := newAuthHandlers(stack)

	r := httptest.NewRequest(http.MethodGet, "/auth/pml/corp/logout?code=UNAUTHORIZED", nil)
	w := httptest.NewRecorder()
	h.Logout(w, r)

	location, err := url.Parse(w.Header().Get("Location"))
	require.NoError(t, err)
	assert.Equal(t, testLoggedOutURL+"/UNAUTHORIZED", location.Query().Get("redirect_uri"))
}

func TestLogoutDestroyFailureStillClearsCookies(t *testing.T) {
	stack := NewTestAuthStack(t)
	stack.Store.FailDelete = errors.New("redis down")
	h := newAuthHandlers(stack)

	r := withSessionCookie(httptest.NewRequest(http.MethodGet, "/auth/pml/corp/logout", nil), "some-session")
	w := httptest.NewRecorder()
	h.Logout(w, r)

	assert.Equal(t, http.StatusFound, w.Code)
	assert.NotNil(t, findCookie(t, w.Result().Cookies(), SessionCookieName))
	assert.NotNil(t, findCookie(t, w.Result().Cookies(), ClientSessionCookieName))
}
