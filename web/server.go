// ABOUTME: Web front-end for Google Contacts with embedded templates
// ABOUTME: Wires routes, middleware, and the HTTP server lifecycle
package web

import (
	"context"
	"embed"
	"encoding/json"
	"errors"
	"fmt"
	"html/template"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"golang.org/x/oauth2"

	"github.com/harperreed/gcontacts/auth"
	"github.com/harperreed/gcontacts/config"
	"github.com/harperreed/gcontacts/contacts"
	"github.com/harperreed/gcontacts/logger"
	"github.com/harperreed/gcontacts/models"
	"github.com/harperreed/gcontacts/session"
)

//go:embed templates/*
var templatesFS embed.FS

const shutdownTimeout = 10 * time.Second

type Server struct {
	cfg       *config.Config
	oauth     *oauth2.Config
	state     *auth.StateSigner
	sessions  session.Store
	contacts  *contacts.Client
	templates *template.Template
}

func NewServer(cfg *config.Config, oauthCfg *oauth2.Config, sessions session.Store, client *contacts.Client) (*Server, error) {
	funcMap := template.FuncMap{
		"join": strings.Join,
		"primaryName": func(c models.Contact) models.Name {
			return c.PrimaryName()
		},
		"fullName": func(c models.Contact) string {
			return c.PrimaryName().Full()
		},
		"first": func(values []string) string {
			if len(values) == 0 {
				return ""
			}
			return values[0]
		},
	}

	tmpl, err := template.New("").Funcs(funcMap).ParseFS(templatesFS, "templates/*.html")
	if err != nil {
		return nil, fmt.Errorf("failed to parse templates: %w", err)
	}

	signer, err := auth.NewStateSigner(cfg.SessionSecret, 10*time.Minute)
	if err != nil {
		return nil, err
	}

	return &Server{
		cfg:       cfg,
		oauth:     oauthCfg,
		state:     signer,
		sessions:  sessions,
		contacts:  client,
		templates: tmpl,
	}, nil
}

// Handler returns the fully wrapped router.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("GET /{$}", s.handleIndex)
	mux.HandleFunc("GET /healthz", s.handleHealthz)

	// OAuth
	mux.HandleFunc("GET /login", s.handleLogin)
	mux.HandleFunc("GET /oauth/callback", s.handleCallback)
	mux.HandleFunc("POST /logout", s.handleLogout)

	// Pages
	mux.HandleFunc("GET /contacts", requirePage(s.handleContactsPage))

	// API
	mux.HandleFunc("GET /api/contacts", requireAPI(s.handleListContacts))
	mux.HandleFunc("GET /api/contacts.vcf", requireAPI(s.handleExportContacts))
	mux.HandleFunc("POST /api/contacts/create", requireAPI(s.handleCreateContact))
	mux.HandleFunc("POST /api/contacts/update", requireAPI(s.handleUpdateContact))
	mux.HandleFunc("POST /api/contacts/delete", requireAPI(s.handleDeleteContact))
	mux.HandleFunc("GET /user-info", requireAPI(s.handleUserInfo))

	return s.logRequests(s.withSession(mux))
}

// Start serves until ctx is cancelled, then shuts down gracefully.
func (s *Server) Start(ctx context.Context) error {
	srv := &http.Server{
		Addr:         s.cfg.Addr,
		Handler:      s.Handler(),
		ReadTimeout:  s.cfg.ReadTimeout,
		WriteTimeout: s.cfg.WriteTimeout,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("starting web server", slog.String("addr", s.cfg.Addr), slog.String("base_url", s.cfg.BaseURL))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	logger.Info("shutting down web server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("failed to shut down server: %w", err)
	}
	return nil
}

type pageData struct {
	Title    string
	LoggedIn bool
	User     string
	Contacts []models.Contact
	Message  string
}

func (s *Server) page(r *http.Request, title string) pageData {
	data := pageData{Title: title}
	if p, ok := auth.PrincipalFromContext(r.Context()); ok {
		data.LoggedIn = true
		data.User = p.Attributes.Email()
		if data.User == "" {
			data.User = p.Subject
		}
	}
	return data
}

func (s *Server) renderTemplate(w http.ResponseWriter, r *http.Request, status int, name string, data any) {
	var buf strings.Builder
	if err := s.templates.ExecuteTemplate(&buf, name, data); err != nil {
		logger.FromContext(r.Context()).Error("template error", slog.String("template", name), slog.Any("error", err))
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	_, _ = w.Write([]byte(buf.String()))
}

func (s *Server) renderError(w http.ResponseWriter, r *http.Request, status int, message string) {
	data := s.page(r, "Error")
	data.Message = message
	s.renderTemplate(w, r, status, "error", data)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeJSONError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]string{"error": message})
}

// statusFor maps core errors to HTTP statuses.
func statusFor(err error) int {
	switch {
	case errors.Is(err, auth.ErrAuthentication):
		return http.StatusUnauthorized
	case errors.Is(err, contacts.ErrUpstream):
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

func (s *Server) secureCookies() bool {
	return strings.HasPrefix(s.cfg.BaseURL, "https://")
}
