// ABOUTME: OAuth2 login, callback, and logout handlers
// ABOUTME: Runs the Google authorization-code flow and manages the session cookie
package web

import (
	"log/slog"
	"net/http"

	"golang.org/x/oauth2"

	"github.com/harperreed/gcontacts/auth"
	"github.com/harperreed/gcontacts/logger"
	"github.com/harperreed/gcontacts/models"
	"github.com/harperreed/gcontacts/session"
)

const (
	nonceCookie = "gcontacts_oauth_nonce"
	noncePath   = "/oauth"
	nonceMaxAge = 600
)

func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	nonce := auth.NewNonce()
	state, err := s.state.Issue(nonce)
	if err != nil {
		logger.FromContext(r.Context()).Error("failed to issue oauth state", slog.Any("error", err))
		s.renderError(w, r, http.StatusInternalServerError, "Login failed.")
		return
	}

	s.setCookie(w, nonceCookie, nonce, noncePath, nonceMaxAge)
	http.Redirect(w, r, s.oauth.AuthCodeURL(state, oauth2.AccessTypeOffline), http.StatusFound)
}

func (s *Server) handleCallback(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := logger.FromContext(ctx)
	query := r.URL.Query()

	if e := query.Get("error"); e != "" {
		log.Warn("authorization denied", slog.String("reason", e))
		s.renderError(w, r, http.StatusBadRequest, "Login was cancelled.")
		return
	}

	var nonce string
	if c, err := r.Cookie(nonceCookie); err == nil {
		nonce = c.Value
	}
	s.clearCookie(w, nonceCookie, noncePath)

	if err := s.state.Verify(query.Get("state"), nonce); err != nil {
		log.Warn("rejected oauth callback", slog.Any("error", err))
		s.renderError(w, r, http.StatusBadRequest, "Login failed.")
		return
	}

	code := query.Get("code")
	if code == "" {
		s.renderError(w, r, http.StatusBadRequest, "Login failed.")
		return
	}

	token, err := s.oauth.Exchange(ctx, code)
	if err != nil {
		log.Error("failed to exchange code", slog.Any("error", err))
		s.renderError(w, r, http.StatusBadGateway, "Login failed.")
		return
	}

	attrs, err := auth.ClaimsFromToken(token)
	if err != nil {
		log.Warn("no identity claims in token response", slog.Any("error", err))
		attrs = models.UserInfo{}
	}

	sess := session.New(token, attrs, s.cfg.SessionTTL)
	if err := s.sessions.Save(ctx, sess); err != nil {
		log.Error("failed to save session", slog.Any("error", err))
		s.renderError(w, r, http.StatusInternalServerError, "Login failed.")
		return
	}

	log.Info("user signed in", slog.String("subject", attrs.Subject()))
	s.setCookie(w, sessionCookie, sess.ID, "/", int(s.cfg.SessionTTL.Seconds()))
	http.Redirect(w, r, "/contacts", http.StatusFound)
}

func (s *Server) handleLogout(w http.ResponseWriter, r *http.Request) {
	if c, err := r.Cookie(sessionCookie); err == nil && c.Value != "" {
		if err := s.sessions.Delete(r.Context(), c.Value); err != nil {
			logger.FromContext(r.Context()).Warn("failed to delete session", slog.Any("error", err))
		}
	}
	s.clearCookie(w, sessionCookie, "/")
	http.Redirect(w, r, "/", http.StatusSeeOther)
}
