package server

import (
	"database/sql"
	"net/http"

	"github.com/gorilla/sessions"
)

// EnsureCSRF ensures CSRF is initialized and available.
func (s *Server) EnsureCSRF(session *sessions.Session) string {
	return s.ensureCSRF(session)
}

// RenderTemplate renders a named template with the provided data.
func (s *Server) RenderTemplate(w http.ResponseWriter, name string, data interface{}) error {
	return s.tmpl.ExecuteTemplate(w, name, data)
}

// GetSession returns the session.
func (s *Server) GetSession(r *http.Request, name string) (*sessions.Session, error) {
	return s.store.Get(r, name)
}

// ValidateCSRF validates CSRF and returns an error on failure.
func (s *Server) ValidateCSRF(session *sessions.Session, token string) bool {
	return s.validateCSRF(session, token)
}

// DB returns the database handle.
func (s *Server) DB() *sql.DB {
	return s.db
}
