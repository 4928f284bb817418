package health

import (
	"context"
	"net/http"

	"userdir/internal/domain"
	"userdir/internal/features/detail"
	"userdir/internal/features/directory"
	"userdir/internal/features/favorites"
	featuresettings "userdir/internal/features/settings"
	"userdir/internal/platform/core"
)

type Dependencies interface {
	Directory() *directory.State
	Detail() *detail.State
	Favorites() *favorites.Store
	Theme() *featuresettings.ThemeService
}

// Pinger reports whether storage is reachable.
type Pinger interface {
	PingContext(ctx context.Context) error
}

type Handler struct {
	deps Dependencies
	db   Pinger
}

// NewHandler builds a health handler over the stores and database.
func NewHandler(deps Dependencies, db Pinger) Handler {
	return Handler{deps: deps, db: db}
}

// Health reports liveness and storage reachability.
func (h Handler) Health(w http.ResponseWriter, r *http.Request) {
	status := map[string]string{"status": "ok", "storage": "ok"}
	if h.db != nil {
		if err := h.db.PingContext(r.Context()); err != nil {
			status["status"] = "degraded"
			status["storage"] = err.Error()
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusServiceUnavailable)
		}
	}
	core.WriteJSON(w, status)
}

// StateView is the introspection payload for /api/state.
type StateView struct {
	Directory directory.Snapshot `json:"directory"`
	Visible   []domain.User      `json:"visible"`
	Detail    detail.Snapshot    `json:"detail"`
	Favorites []domain.User      `json:"favorites"`
	Theme     domain.ThemeMode   `json:"theme"`
}

// State dumps the current snapshots as JSON.
func (h Handler) State(w http.ResponseWriter, r *http.Request) {
	dir := h.deps.Directory().Snapshot()
	favs := h.deps.Favorites().List()
	if favs == nil {
		favs = []domain.User{}
	}
	core.WriteJSON(w, StateView{
		Directory: dir,
		Visible:   dir.Visible(),
		Detail:    h.deps.Detail().Snapshot(),
		Favorites: favs,
		Theme:     h.deps.Theme().Mode(),
	})
}
