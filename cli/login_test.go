package cli

import (
	"context"
	"net"
	"net/http"
	"net/http/httptest"
	"net/url"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/oauth2"
)

func newLoginConfig(t *testing.T) *oauth2.Config {
	t.Helper()
	tokenSrv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if err := r.ParseForm(); err != nil || r.Form.Get("code") != "good-code" {
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusBadRequest)
			_, _ = w.Write([]byte(`{"error":"invalid_grant"}`))
			return
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"access_token":"fresh","token_type":"Bearer","refresh_token":"refresh","expires_in":3600}`))
	}))
	t.Cleanup(tokenSrv.Close)

	return &oauth2.Config{
		ClientID:     "client-id",
		ClientSecret: "client-secret",
		RedirectURL:  "http://127.0.0.1/oauth/callback",
		Endpoint: oauth2.Endpoint{
			AuthURL:   "https://accounts.example.test/auth",
			TokenURL:  tokenSrv.URL,
			AuthStyle: oauth2.AuthStyleInParams,
		},
	}
}

func listen(t *testing.T) net.Listener {
	t.Helper()
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	return ln
}

// callback hits the login callback with the state from authURL.
func callback(t *testing.T, ln net.Listener, authURL string, params url.Values) int {
	t.Helper()
	u, err := url.Parse(authURL)
	require.NoError(t, err)
	if params.Get("state") == "" {
		params.Set("state", u.Query().Get("state"))
	}

	resp, err := http.Get("http://" + ln.Addr().String() + "/oauth/callback?" + params.Encode())
	require.NoError(t, err)
	_ = resp.Body.Close()
	return resp.StatusCode
}

func TestLoginFlowExchangesCode(t *testing.T) {
	oauthCfg := newLoginConfig(t)
	ln := listen(t)

	var status int
	token, err := runLoginFlow(t.Context(), oauthCfg, ln, func(authURL string) {
		u, err := url.Parse(authURL)
		require.NoError(t, err)
		assert.Equal(t, "offline", u.Query().Get("access_type"))
		assert.NotEmpty(t, u.Query().Get("state"))
		status = callback(t, ln, authURL, url.Values{"code": {"good-code"}})
	})
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, status)
	assert.Equal(t, "fresh", token.AccessToken)
	assert.Equal(t, "refresh", token.RefreshToken)
}

func TestLoginFlowIgnoresRepeatedCallbacks(t *testing.T) {
	oauthCfg := newLoginConfig(t)
	ln := listen(t)

	var statuses []int
	token, err := runLoginFlow(t.Context(), oauthCfg, ln, func(authURL string) {
		// The second callback must not block while the first token is unread
		statuses = append(statuses, callback(t, ln, authURL, url.Values{"code": {"good-code"}}))
		statuses = append(statuses, callback(t, ln, authURL, url.Values{"code": {"good-code"}}))
	})
	require.NoError(t, err)
	assert.Equal(t, "fresh", token.AccessToken)
	assert.Equal(t, []int{http.StatusOK, http.StatusOK}, statuses)
}

func TestLoginFlowRejectsWrongState(t *testing.T) {
	oauthCfg := newLoginConfig(t)
	ln := listen(t)
	ctx, cancel := context.WithCancel(t.Context())
	defer cancel()

	var status int
	_, err := runLoginFlow(ctx, oauthCfg, ln, func(authURL string) {
		status = callback(t, ln, authURL, url.Values{"state": {"forged"}, "code": {"good-code"}})
		cancel()
	})
	require.Error(t, err)
	assert.Equal(t, http.StatusBadRequest, status)
	assert.Contains(t, err.Error(), "cancelled")
}

func TestLoginFlowDenied(t *testing.T) {
	oauthCfg := newLoginConfig(t)
	ln := listen(t)

	_, err := runLoginFlow(t.Context(), oauthCfg, ln, func(authURL string) {
		callback(t, ln, authURL, url.Values{"error": {"access_denied"}})
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "authorization denied")
}

func TestLoginFlowExchangeFailure(t *testing.T) {
	oauthCfg := newLoginConfig(t)
	ln := listen(t)

	var status int
	_, err := runLoginFlow(t.Context(), oauthCfg, ln, func(authURL string) {
		status = callback(t, ln, authURL, url.Values{"code": {"bad-code"}})
	})
	require.Error(t, err)
	assert.Equal(t, http.StatusBadGateway, status)
	assert.Contains(t, err.Error(), "failed to exchange code")
}

func TestLogoutRemovesToken(t *testing.T) {
	app, _, out := newTestApp(t)

	require.NoError(t, LogoutCommand(app, nil))
	_, err := os.Stat(app.Config.TokenPath())
	assert.True(t, os.IsNotExist(err))
	assert.Contains(t, out.String(), "✓ Logged out")

	// Logging out twice is fine.
	require.NoError(t, LogoutCommand(app, nil))
}

func TestLoginRequiresCredentials(t *testing.T) {
	app, _, _ := newTestApp(t)
	app.Config.GoogleClientID = ""

	err := LoginCommand(app, nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "GOOGLE_CLIENT_ID")
}
