package settings

import (
	"net/http"

	"github.com/gorilla/sessions"
	"userdir/internal/features/favorites"
	"userdir/internal/platform/core"
)

// LayoutDeps is what every rendered page needs for the shared chrome.
type LayoutDeps interface {
	Theme() *ThemeService
	Favorites() *favorites.Store
	GetSession(r *http.Request, name string) (*sessions.Session, error)
	EnsureCSRF(session *sessions.Session) string
}

// LayoutData returns the template data shared by all pages. It pops the
// pending flash, so it must run before anything is written to w.
func LayoutData(w http.ResponseWriter, r *http.Request, deps LayoutDeps, title string) map[string]interface{} {
	session, _ := deps.GetSession(r, core.SessionName)
	csrf := deps.EnsureCSRF(session)
	flash := core.PopFlash(session)
	_ = session.Save(r, w)
	return map[string]interface{}{
		"Title":          title,
		"Theme":          string(deps.Theme().Mode()),
		"CSRFToken":      csrf,
		"Flash":          flash,
		"FavoritesCount": deps.Favorites().Len(),
		"Path":           r.URL.RequestURI(),
	}
}
