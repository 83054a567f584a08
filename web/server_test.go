// ABOUTME: Tests for the web front-end
// ABOUTME: Drives routes through httptest against fake People and token endpoints
package web

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/oauth2"

	"github.com/harperreed/gcontacts/auth"
	"github.com/harperreed/gcontacts/config"
	"github.com/harperreed/gcontacts/contacts"
	"github.com/harperreed/gcontacts/contacts/peopletest"
	"github.com/harperreed/gcontacts/models"
	"github.com/harperreed/gcontacts/session"
)

const accessToken = "good-token"

type harness struct {
	handler http.Handler
	people  *peopletest.Server
	store   *session.MemoryStore
	oauth   *oauth2.Config
}

func idToken(t *testing.T, claims jwt.MapClaims) string {
	t.Helper()
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte("test"))
	require.NoError(t, err)
	return signed
}

// tokenServer fakes Google's token endpoint for both code exchange and refresh.
func tokenServer(t *testing.T) *httptest.Server {
	t.Helper()
	id := idToken(t, jwt.MapClaims{"sub": "1234", "email": "jane@example.com", "name": "Jane Doe"})
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_ = r.ParseForm()
		switch r.PostForm.Get("grant_type") {
		case "authorization_code":
			if r.PostForm.Get("code") != "good-code" {
				w.Header().Set("Content-Type", "application/json")
				w.WriteHeader(http.StatusBadRequest)
				_, _ = w.Write([]byte(`{"error":"invalid_grant"}`))
				return
			}
		case "refresh_token":
		default:
			w.WriteHeader(http.StatusBadRequest)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]any{
			"access_token":  accessToken,
			"token_type":    "Bearer",
			"refresh_token": "refresh",
			"expires_in":    3600,
			"id_token":      id,
		})
	}))
	t.Cleanup(srv.Close)
	return srv
}

func newHarness(t *testing.T) *harness {
	t.Helper()
	people := peopletest.NewServer(t, accessToken)
	tokens := tokenServer(t)

	cfg := &config.Config{
		BaseURL:       "http://localhost:8080",
		SessionSecret: "test-secret",
		SessionTTL:    time.Hour,
	}
	oauthCfg := &oauth2.Config{
		ClientID:     "client",
		ClientSecret: "secret",
		RedirectURL:  cfg.RedirectURL(),
		Scopes:       auth.Scopes,
		Endpoint: oauth2.Endpoint{
			AuthURL:  "https://accounts.example.com/o/oauth2/auth",
			TokenURL: tokens.URL,
		},
	}
	store := session.NewMemoryStore()
	client := contacts.NewClient(auth.ContextTokenProvider{}, people.ClientOption())

	srv, err := NewServer(cfg, oauthCfg, store, client)
	require.NoError(t, err)

	return &harness{handler: srv.Handler(), people: people, store: store, oauth: oauthCfg}
}

// login stores a session directly and returns its cookie.
func (h *harness) login(t *testing.T, token *oauth2.Token) *http.Cookie {
	t.Helper()
	sess := session.New(token, models.UserInfo{"sub": "1234", "email": "jane@example.com"}, time.Hour)
	require.NoError(t, h.store.Save(context.Background(), sess))
	return &http.Cookie{Name: sessionCookie, Value: sess.ID}
}

func (h *harness) do(req *http.Request, cookies ...*http.Cookie) *httptest.ResponseRecorder {
	for _, c := range cookies {
		req.AddCookie(c)
	}
	rec := httptest.NewRecorder()
	h.handler.ServeHTTP(rec, req)
	return rec
}

func (h *harness) get(path string, cookies ...*http.Cookie) *httptest.ResponseRecorder {
	return h.do(httptest.NewRequest(http.MethodGet, path, nil), cookies...)
}

func (h *harness) postForm(path string, form url.Values, cookies ...*http.Cookie) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	return h.do(req, cookies...)
}

func findCookie(rec *httptest.ResponseRecorder, name string) *http.Cookie {
	for _, c := range rec.Result().Cookies() {
		if c.Name == name {
			return c
		}
	}
	return nil
}

func TestHealthz(t *testing.T) {
	h := newHarness(t)
	rec := h.get("/healthz")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "ok", rec.Body.String())
	assert.NotEmpty(t, rec.Header().Get("X-Request-Id"))
}

func TestIndex(t *testing.T) {
	h := newHarness(t)

	rec := h.get("/")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `href="/login"`)

	cookie := h.login(t, &oauth2.Token{AccessToken: accessToken})
	rec = h.get("/", cookie)
	assert.Contains(t, rec.Body.String(), "jane@example.com")
	assert.Contains(t, rec.Body.String(), `href="/contacts"`)
}

func TestUnauthenticatedAccess(t *testing.T) {
	h := newHarness(t)

	rec := h.get("/contacts")
	assert.Equal(t, http.StatusFound, rec.Code)
	assert.Equal(t, "/login", rec.Header().Get("Location"))

	for _, path := range []string{"/api/contacts", "/api/contacts.vcf", "/user-info"} {
		rec := h.get(path)
		assert.Equal(t, http.StatusUnauthorized, rec.Code, path)
		assert.Contains(t, rec.Header().Get("Content-Type"), "application/json", path)
	}

	rec = h.postForm("/api/contacts/create", url.Values{"givenName": {"Jane"}})
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	rec = h.get("/contacts", &http.Cookie{Name: sessionCookie, Value: "forged"})
	assert.Equal(t, http.StatusFound, rec.Code)

	assert.Empty(t, h.people.Requests())
}

func TestLoginFlow(t *testing.T) {
	h := newHarness(t)

	rec := h.get("/login")
	require.Equal(t, http.StatusFound, rec.Code)

	location, err := url.Parse(rec.Header().Get("Location"))
	require.NoError(t, err)
	assert.Equal(t, "accounts.example.com", location.Host)
	assert.Equal(t, "offline", location.Query().Get("access_type"))
	assert.Equal(t, "http://localhost:8080/oauth/callback", location.Query().Get("redirect_uri"))
	assert.Contains(t, location.Query().Get("scope"), "https://www.googleapis.com/auth/contacts")

	state := location.Query().Get("state")
	require.NotEmpty(t, state)
	nonce := findCookie(rec, nonceCookie)
	require.NotNil(t, nonce)
	assert.True(t, nonce.HttpOnly)

	rec = h.get("/oauth/callback?code=good-code&state="+url.QueryEscape(state), nonce)
	require.Equal(t, http.StatusFound, rec.Code)
	assert.Equal(t, "/contacts", rec.Header().Get("Location"))

	sessCookie := findCookie(rec, sessionCookie)
	require.NotNil(t, sessCookie)
	assert.True(t, sessCookie.HttpOnly)
	assert.Equal(t, http.SameSiteLaxMode, sessCookie.SameSite)

	rec = h.get("/user-info", sessCookie)
	require.Equal(t, http.StatusOK, rec.Code)
	var info map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &info))
	assert.Equal(t, "jane@example.com", info["email"])
	assert.Equal(t, "1234", info["sub"])

	rec = h.get("/contacts", sessCookie)
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestCallbackRejectsBadState(t *testing.T) {
	h := newHarness(t)

	rec := h.get("/login")
	nonce := findCookie(rec, nonceCookie)
	require.NotNil(t, nonce)

	rec = h.get("/oauth/callback?code=good-code&state=tampered", nonce)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Nil(t, findCookie(rec, sessionCookie))

	// Valid state without the browser's nonce cookie
	location, _ := url.Parse(h.get("/login").Header().Get("Location"))
	rec = h.get("/oauth/callback?code=good-code&state=" + url.QueryEscape(location.Query().Get("state")))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestCallbackExchangeFailure(t *testing.T) {
	h := newHarness(t)

	rec := h.get("/login")
	nonce := findCookie(rec, nonceCookie)
	location, _ := url.Parse(rec.Header().Get("Location"))

	rec = h.get("/oauth/callback?code=bad-code&state="+url.QueryEscape(location.Query().Get("state")), nonce)
	assert.Equal(t, http.StatusBadGateway, rec.Code)
	assert.Contains(t, rec.Body.String(), "Login failed.")
}

func TestCallbackDenied(t *testing.T) {
	h := newHarness(t)
	rec := h.get("/oauth/callback?error=access_denied")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestLogout(t *testing.T) {
	h := newHarness(t)
	cookie := h.login(t, &oauth2.Token{AccessToken: accessToken})

	rec := h.postForm("/logout", url.Values{}, cookie)
	assert.Equal(t, http.StatusSeeOther, rec.Code)
	assert.Equal(t, "/", rec.Header().Get("Location"))

	cleared := findCookie(rec, sessionCookie)
	require.NotNil(t, cleared)
	assert.Negative(t, cleared.MaxAge)

	_, err := h.store.Get(context.Background(), cookie.Value)
	assert.ErrorIs(t, err, session.ErrNotFound)

	rec = h.get("/contacts", cookie)
	assert.Equal(t, http.StatusFound, rec.Code)
}

func TestContactsPageEmpty(t *testing.T) {
	h := newHarness(t)
	cookie := h.login(t, &oauth2.Token{AccessToken: accessToken})

	rec := h.get("/contacts", cookie)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "No contacts found.")
}

func TestContactsPageLists(t *testing.T) {
	h := newHarness(t)
	h.people.Seed("Alice", "Smith", "alice@example.com", "555-0101")
	cookie := h.login(t, &oauth2.Token{AccessToken: accessToken})

	rec := h.get("/contacts", cookie)
	assert.Equal(t, http.StatusOK, rec.Code)
	body := rec.Body.String()
	assert.Contains(t, body, "Alice Smith")
	assert.Contains(t, body, "alice@example.com")
	assert.Contains(t, body, "people/c1")
	assert.NotContains(t, body, "No contacts found.")
}

func TestContactsPageUpstreamFailure(t *testing.T) {
	h := newHarness(t)
	h.people.FailNext("GET connections", http.StatusInternalServerError)
	cookie := h.login(t, &oauth2.Token{AccessToken: accessToken})

	rec := h.get("/contacts", cookie)
	assert.Equal(t, http.StatusBadGateway, rec.Code)
	assert.Contains(t, rec.Body.String(), "Failed to fetch contacts.")
}

func TestAPIListContacts(t *testing.T) {
	h := newHarness(t)
	cookie := h.login(t, &oauth2.Token{AccessToken: accessToken})

	rec := h.get("/api/contacts", cookie)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `[]`, rec.Body.String())

	name := h.people.Seed("Alice", "Smith", "alice@example.com", "")
	rec = h.get("/api/contacts", cookie)
	require.Equal(t, http.StatusOK, rec.Code)

	var got []models.Contact
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
	require.Len(t, got, 1)
	assert.Equal(t, name, got[0].ResourceName)
	assert.Equal(t, []string{"alice@example.com"}, got[0].Emails)

	h.people.FailNext("GET connections", http.StatusServiceUnavailable)
	rec = h.get("/api/contacts", cookie)
	assert.Equal(t, http.StatusBadGateway, rec.Code)
}

func TestExportVCard(t *testing.T) {
	h := newHarness(t)
	h.people.Seed("Alice", "Smith", "alice@example.com", "")
	cookie := h.login(t, &oauth2.Token{AccessToken: accessToken})

	rec := h.get("/api/contacts.vcf", cookie)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "text/vcard; charset=utf-8", rec.Header().Get("Content-Type"))
	assert.Contains(t, rec.Header().Get("Content-Disposition"), "contacts.vcf")
	assert.Contains(t, rec.Body.String(), "BEGIN:VCARD")
	assert.Contains(t, rec.Body.String(), "alice@example.com")
}

func TestCreateContact(t *testing.T) {
	h := newHarness(t)
	cookie := h.login(t, &oauth2.Token{AccessToken: accessToken})

	rec := h.postForm("/api/contacts/create", url.Values{
		"givenName":  {" Jane "},
		"familyName": {"Doe"},
		"email":      {"jane@example.com"},
	}, cookie)
	assert.Equal(t, http.StatusSeeOther, rec.Code)
	assert.Equal(t, "/contacts", rec.Header().Get("Location"))

	person := h.people.Person("people/c1")
	require.NotNil(t, person)
	assert.Equal(t, "Jane", person.Names[0].GivenName)
	assert.Len(t, person.EmailAddresses, 1)
	assert.Empty(t, person.PhoneNumbers)
}

func TestCreateContactRequiresGivenName(t *testing.T) {
	h := newHarness(t)
	cookie := h.login(t, &oauth2.Token{AccessToken: accessToken})

	rec := h.postForm("/api/contacts/create", url.Values{"familyName": {"Doe"}}, cookie)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Empty(t, h.people.Requests())
}

func TestUpdateContact(t *testing.T) {
	h := newHarness(t)
	name := h.people.Seed("Alice", "Smith", "alice@example.com", "555")
	cookie := h.login(t, &oauth2.Token{AccessToken: accessToken})

	rec := h.postForm("/api/contacts/update", url.Values{
		"resourceName": {name},
		"givenName":    {"Alicia"},
		"familyName":   {"Smith"},
	}, cookie)
	assert.Equal(t, http.StatusSeeOther, rec.Code)

	person := h.people.Person(name)
	assert.Equal(t, "Alicia", person.Names[0].GivenName)
	assert.Empty(t, person.EmailAddresses)
	assert.Empty(t, person.PhoneNumbers)
	assert.Equal(t, []string{"GET person", "PATCH update"}, h.people.Calls())
}

func TestUpdateContactFailures(t *testing.T) {
	h := newHarness(t)
	cookie := h.login(t, &oauth2.Token{AccessToken: accessToken})

	rec := h.postForm("/api/contacts/update", url.Values{"givenName": {"A"}}, cookie)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = h.postForm("/api/contacts/update", url.Values{
		"resourceName": {"people/missing"},
		"givenName":    {"A"},
	}, cookie)
	assert.Equal(t, http.StatusBadGateway, rec.Code)
	assert.Contains(t, rec.Body.String(), "Failed to update contact.")
	assert.Equal(t, []string{"GET person"}, h.people.Calls())
}

func TestDeleteContact(t *testing.T) {
	h := newHarness(t)
	name := h.people.Seed("Alice", "Smith", "", "")
	cookie := h.login(t, &oauth2.Token{AccessToken: accessToken})

	rec := h.postForm("/api/contacts/delete", url.Values{"resourceName": {name}}, cookie)
	assert.Equal(t, http.StatusSeeOther, rec.Code)
	assert.Nil(t, h.people.Person(name))

	rec = h.postForm("/api/contacts/delete", url.Values{"resourceName": {name}}, cookie)
	assert.Equal(t, http.StatusBadGateway, rec.Code)
	assert.Contains(t, rec.Body.String(), "Failed to delete contact.")

	rec = h.postForm("/api/contacts/delete", url.Values{}, cookie)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestExpiredSessionTokenIsRefreshed(t *testing.T) {
	h := newHarness(t)
	cookie := h.login(t, &oauth2.Token{
		AccessToken:  "stale",
		RefreshToken: "refresh",
		Expiry:       time.Now().Add(-time.Hour),
	})

	rec := h.get("/api/contacts", cookie)
	require.Equal(t, http.StatusOK, rec.Code)

	sess, err := h.store.Get(context.Background(), cookie.Value)
	require.NoError(t, err)
	assert.Equal(t, accessToken, sess.Token.AccessToken)
}

func TestExpiredSessionWithoutRefreshTokenSignsOut(t *testing.T) {
	h := newHarness(t)
	cookie := h.login(t, &oauth2.Token{
		AccessToken: "stale",
		Expiry:      time.Now().Add(-time.Hour),
	})

	rec := h.get("/api/contacts", cookie)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	_, err := h.store.Get(context.Background(), cookie.Value)
	assert.ErrorIs(t, err, session.ErrNotFound)
	assert.Empty(t, h.people.Requests())
}
