package wiring

import (
	"net/http"

	"github.com/gorilla/sessions"
	"go.uber.org/zap"
	"userdir/internal/config"
)

// Platform helpers.
func (d Deps) Config() config.Config {
	return d.srv.Config()
}

// Logger returns the server logger.
func (d Deps) Logger() *zap.SugaredLogger {
	return d.srv.Logger()
}

// GetSession returns the session by delegating to configured services.
func (d Deps) GetSession(r *http.Request, name string) (*sessions.Session, error) {
	return d.srv.GetSession(r, name)
}

// EnsureCSRF ensures CSRF is initialized and available by delegating to configured services.
func (d Deps) EnsureCSRF(session *sessions.Session) string {
	return d.srv.EnsureCSRF(session)
}

// ValidateCSRF validates CSRF and returns an error on failure.
func (d Deps) ValidateCSRF(session *sessions.Session, token string) bool {
	return d.srv.ValidateCSRF(session, token)
}

// RenderTemplate renders a named template with the provided data.
func (d Deps) RenderTemplate(w http.ResponseWriter, name string, data interface{}) error {
	return d.srv.RenderTemplate(w, name, data)
}
