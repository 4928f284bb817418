package settings

import (
	"net/http"

	"github.com/gorilla/sessions"
	"go.uber.org/zap"
	"userdir/internal/platform/core"
)

type Dependencies interface {
	Theme() *ThemeService
	Logger() *zap.SugaredLogger
	GetSession(r *http.Request, name string) (*sessions.Session, error)
	ValidateCSRF(session *sessions.Session, token string) bool
}

// Handler serves the theme endpoints.
type Handler struct {
	deps Dependencies
}

func NewHandler(deps Dependencies) Handler { return Handler{deps: deps} }

// ToggleTheme flips light/dark and redirects back to next.
func (h Handler) ToggleTheme(w http.ResponseWriter, r *http.Request) {
	session, _ := h.deps.GetSession(r, core.SessionName)
	if !h.deps.ValidateCSRF(session, r.FormValue("csrf_token")) {
		http.Error(w, "Invalid CSRF token", http.StatusBadRequest)
		return
	}
	mode, err := h.deps.Theme().Toggle(r.Context())
	if err != nil {
		h.deps.Logger().Errorw("theme toggle failed", "error", err)
		session.AddFlash("Could not save the theme preference.")
	} else {
		session.AddFlash("Switched to " + string(mode) + " mode.")
	}
	_ = session.Save(r, w)
	http.Redirect(w, r, redirectTarget(r), http.StatusSeeOther)
}

// Mode reports the current theme as JSON.
func (h Handler) Mode(w http.ResponseWriter, r *http.Request) {
	core.WriteJSON(w, map[string]string{"theme": string(h.deps.Theme().Mode())})
}

func redirectTarget(r *http.Request) string {
	next := r.FormValue("next")
	if core.IsSafeRedirect(r, next) {
		return next
	}
	return "/users"
}
