package favorites

import (
	"net/http"

	"github.com/gorilla/sessions"
	"go.uber.org/zap"
	"userdir/internal/domain"
	"userdir/internal/platform/core"
)

type Dependencies interface {
	Favorites() *Store
	LookupUser(id int) (domain.User, bool)
	Logger() *zap.SugaredLogger
	GetSession(r *http.Request, name string) (*sessions.Session, error)
	ValidateCSRF(session *sessions.Session, token string) bool
	RenderTemplate(w http.ResponseWriter, name string, data interface{}) error
}

// PageData builds the template data for the favorites page. The layout
// fields are supplied by the caller.
type PageData func(w http.ResponseWriter, r *http.Request, title string) map[string]interface{}

// Handler serves the favorites page and its mutations.
type Handler struct {
	deps   Dependencies
	layout PageData
}

func NewHandler(deps Dependencies, layout PageData) Handler {
	return Handler{deps: deps, layout: layout}
}

// Page renders the favorites list. It never touches the network.
func (h Handler) Page(w http.ResponseWriter, r *http.Request) {
	data := h.layout(w, r, "Favorites")
	data["Favorites"] = h.deps.Favorites().List()
	if err := h.deps.RenderTemplate(w, "favorites.html", data); err != nil {
		h.deps.Logger().Errorw("render favorites", "error", err)
	}
}

// Toggle adds or removes the posted user id.
func (h Handler) Toggle(w http.ResponseWriter, r *http.Request) {
	session, _ := h.deps.GetSession(r, core.SessionName)
	if !h.deps.ValidateCSRF(session, r.FormValue("csrf_token")) {
		http.Error(w, "Invalid CSRF token", http.StatusBadRequest)
		return
	}
	id := core.PositiveInt(r.FormValue("id"), 0)
	if id == 0 {
		http.Error(w, "Invalid user id", http.StatusBadRequest)
		return
	}
	user, ok := h.deps.LookupUser(id)
	if !ok {
		http.NotFound(w, r)
		return
	}
	added, err := h.deps.Favorites().Toggle(r.Context(), user)
	switch {
	case err != nil:
		h.deps.Logger().Errorw("favorite toggle failed", "id", id, "error", err)
		session.AddFlash("Could not save favorites.")
	case added:
		session.AddFlash(user.FullName() + " added to favorites.")
	default:
		session.AddFlash(user.FullName() + " removed from favorites.")
	}
	_ = session.Save(r, w)
	http.Redirect(w, r, redirectTarget(r, "/users"), http.StatusSeeOther)
}

// Clear empties the favorites set.
func (h Handler) Clear(w http.ResponseWriter, r *http.Request) {
	session, _ := h.deps.GetSession(r, core.SessionName)
	if !h.deps.ValidateCSRF(session, r.FormValue("csrf_token")) {
		http.Error(w, "Invalid CSRF token", http.StatusBadRequest)
		return
	}
	if err := h.deps.Favorites().Clear(r.Context()); err != nil {
		h.deps.Logger().Errorw("favorites clear failed", "error", err)
		session.AddFlash("Could not clear favorites.")
	} else {
		session.AddFlash("Favorites cleared.")
	}
	_ = session.Save(r, w)
	http.Redirect(w, r, "/favorites", http.StatusSeeOther)
}

// Export downloads the favorites as a JSON array.
func (h Handler) Export(w http.ResponseWriter, r *http.Request) {
	raw, err := Encode(h.deps.Favorites().List())
	if err != nil {
		http.Error(w, "Export failed", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("Content-Disposition", `attachment; filename="favorites.json"`)
	_, _ = w.Write(raw)
}

func redirectTarget(r *http.Request, fallback string) string {
	next := r.FormValue("next")
	if core.IsSafeRedirect(r, next) {
		return next
	}
	return fallback
}
