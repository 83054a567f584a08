// ABOUTME: HTTP middleware for request logging and session-backed authentication
// ABOUTME: Loads the session cookie, refreshes expired tokens, and gates protected routes
package web

import (
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/oklog/ulid/v2"

	"github.com/harperreed/gcontacts/auth"
	"github.com/harperreed/gcontacts/logger"
	"github.com/harperreed/gcontacts/session"
)

const sessionCookie = "gcontacts_session"

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(status int) {
	r.status = status
	r.ResponseWriter.WriteHeader(status)
}

func (s *Server) logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		id := ulid.Make().String()

		l := logger.L.With(
			slog.String("request_id", id),
			slog.String("method", r.Method),
			slog.String("path", r.URL.Path),
		)
		w.Header().Set("X-Request-Id", id)

		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(rec, r.WithContext(logger.WithContext(r.Context(), l)))

		l.Info("request",
			slog.Int("status", rec.status),
			slog.Duration("duration", time.Since(start)),
		)
	})
}

// withSession attaches the principal of a valid session to the request context.
// Requests without one pass through unauthenticated.
func (s *Server) withSession(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if sess := s.loadSession(w, r); sess != nil {
			ctx := auth.WithPrincipal(r.Context(), &auth.Principal{
				Subject:    sess.Attributes.Subject(),
				Token:      sess.Token,
				Attributes: sess.Attributes,
			})
			r = r.WithContext(ctx)
		}
		next.ServeHTTP(w, r)
	})
}

func (s *Server) loadSession(w http.ResponseWriter, r *http.Request) *session.Session {
	cookie, err := r.Cookie(sessionCookie)
	if err != nil || cookie.Value == "" {
		return nil
	}

	ctx := r.Context()
	log := logger.FromContext(ctx)

	sess, err := s.sessions.Get(ctx, cookie.Value)
	if err != nil {
		if !errors.Is(err, session.ErrNotFound) {
			log.Error("failed to load session", slog.Any("error", err))
		}
		s.clearCookie(w, sessionCookie, "/")
		return nil
	}

	fresh, changed, err := auth.FreshToken(ctx, s.oauth, sess.Token)
	if err != nil || !fresh.Valid() {
		log.Warn("session token unusable, signing out", slog.Any("error", err))
		_ = s.sessions.Delete(ctx, sess.ID)
		s.clearCookie(w, sessionCookie, "/")
		return nil
	}
	if changed {
		sess.Token = fresh
		if err := s.sessions.Save(ctx, sess); err != nil {
			log.Warn("failed to persist refreshed token", slog.Any("error", err))
		} else {
			log.Debug("refreshed session token")
		}
	}

	return sess
}

// requirePage sends unauthenticated browsers to the login flow.
func requirePage(h http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if _, ok := auth.PrincipalFromContext(r.Context()); !ok {
			http.Redirect(w, r, "/login", http.StatusFound)
			return
		}
		h(w, r)
	}
}

// requireAPI rejects unauthenticated API calls with 401.
func requireAPI(h http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if _, ok := auth.PrincipalFromContext(r.Context()); !ok {
			writeJSONError(w, http.StatusUnauthorized, auth.ErrAuthentication.Error())
			return
		}
		h(w, r)
	}
}

func (s *Server) setCookie(w http.ResponseWriter, name, value, path string, maxAge int) {
	http.SetCookie(w, &http.Cookie{
		Name:     name,
		Value:    value,
		Path:     path,
		MaxAge:   maxAge,
		HttpOnly: true,
		Secure:   s.secureCookies(),
		SameSite: http.SameSiteLaxMode,
	})
}

func (s *Server) clearCookie(w http.ResponseWriter, name, path string) {
	s.setCookie(w, name, "", path, -1)
}
