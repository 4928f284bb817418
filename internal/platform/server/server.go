package server

import (
	"database/sql"
	"errors"
	"fmt"
	"html/template"
	"net/http"
	"path/filepath"

	"github.com/gorilla/sessions"
	"go.uber.org/zap"
	"userdir/internal/config"
	"userdir/internal/contracts"
	"userdir/internal/contracts/users"
	"userdir/internal/platform/core"
	"userdir/internal/platform/logging"
	sqlitestore "userdir/internal/platform/storage/sqlite"
)

// Server bundles dependencies for HTTP handlers.
type Server struct {
	cfg   config.Config
	db    *sql.DB
	store *sessions.CookieStore
	tmpl  *template.Template
	repos contracts.Repos
	log   *zap.SugaredLogger
}

// NewServer configures dependencies and templates for handlers using the
// SQLite-backed settings repository and the given user source.
func NewServer(cfg config.Config, db *sql.DB, source users.Source, log *zap.SugaredLogger) (*Server, error) {
	repos := sqlitestore.NewRepos(db)
	repos.Users = source
	return NewServerWithRepos(cfg, db, repos, log)
}

// NewServerWithRepos constructs a new server with repos.
func NewServerWithRepos(cfg config.Config, db *sql.DB, repos contracts.Repos, log *zap.SugaredLogger) (*Server, error) {
	if repos.Settings == nil || repos.Users == nil {
		return nil, errors.New("server: settings and users repositories are required")
	}
	store := sessions.NewCookieStore(cfg.SecretKey)
	store.Options = &sessions.Options{
		Path:     "/",
		MaxAge:   86400 * 30,
		HttpOnly: true,
		Secure:   cfg.CookieSecure,
		SameSite: cfg.CookieSameSite,
	}

	funcs := template.FuncMap{
		"dict": func(values ...interface{}) map[string]interface{} {
			out := make(map[string]interface{}, len(values)/2)
			for i := 0; i+1 < len(values); i += 2 {
				key, ok := values[i].(string)
				if !ok {
					continue
				}
				out[key] = values[i+1]
			}
			return out
		},
	}
	tmpl := template.New("").Funcs(funcs)

	templatePatterns := []string{
		filepath.Join("templates", "*.html"),
		filepath.Join("templates", "users", "*.html"),
	}
	for _, pattern := range templatePatterns {
		if _, err := tmpl.ParseGlob(pattern); err != nil {
			return nil, fmt.Errorf("failed to parse templates from %s: %w", pattern, err)
		}
	}

	return &Server{
		cfg:   cfg,
		db:    db,
		store: store,
		tmpl:  tmpl,
		repos: repos,
		log:   logging.OrNop(log),
	}, nil
}

// RegisterRoute registers routes and handlers for route.
func (s *Server) RegisterRoute(mux *http.ServeMux, pattern string, handler http.Handler) {
	mux.Handle(pattern, handler)
	s.log.Debugw("route registered", "pattern", pattern)
}

// WithSecurityHeaders wraps the handler with additional behavior.
func (s *Server) WithSecurityHeaders(next http.Handler) http.Handler {
	return s.withSecurityHeaders(next)
}

// Config returns a copy of the server configuration.
func (s *Server) Config() config.Config {
	return s.cfg
}

// Repos returns the repository bundle for storage access.
func (s *Server) Repos() contracts.Repos {
	return s.repos
}

// Logger returns the server's structured logger.
func (s *Server) Logger() *zap.SugaredLogger {
	return s.log
}

// withSecurityHeaders wraps the handler with additional behavior.
func (s *Server) withSecurityHeaders(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("X-Content-Type-Options", "nosniff")
		w.Header().Set("X-Frame-Options", "DENY")
		w.Header().Set("Referrer-Policy", "strict-origin-when-cross-origin")
		w.Header().Set("Permissions-Policy", "camera=(), microphone=(), geolocation=()")
		w.Header().Set("Content-Security-Policy", "default-src 'self'; img-src 'self' data:; style-src 'self' 'unsafe-inline'; object-src 'none'; base-uri 'self'")
		if r.TLS != nil {
			w.Header().Set("Strict-Transport-Security", "max-age=2592000; includeSubDomains")
		}
		next.ServeHTTP(w, r)
	})
}

// ensureCSRF ensures CSRF is initialized and available.
func (s *Server) ensureCSRF(session *sessions.Session) string {
	if token, ok := session.Values["csrf_token"].(string); ok && token != "" {
		return token
	}
	token := core.RandomToken(32)
	session.Values["csrf_token"] = token
	return token
}

// validateCSRF checks the submitted CSRF token unless disabled by config.
func (s *Server) validateCSRF(session *sessions.Session, token string) bool {
	if s.cfg.DisableCSRF {
		return true
	}
	stored, _ := session.Values["csrf_token"].(string)
	if stored == "" || token == "" {
		return false
	}
	return core.SubtleCompare(stored, token)
}
