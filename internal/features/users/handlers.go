package users

import (
	"context"
	"errors"
	"net/http"
	"net/url"
	"strconv"

	"go.uber.org/zap"
	"userdir/internal/config"
	"userdir/internal/domain"
	"userdir/internal/features/detail"
	"userdir/internal/features/directory"
	"userdir/internal/features/favorites"
	featuresettings "userdir/internal/features/settings"
	"userdir/internal/platform/core"
	"userdir/internal/platform/remote"
)

type Dependencies interface {
	featuresettings.LayoutDeps
	Directory() *directory.State
	Detail() *detail.State
	LookupUser(id int) (domain.User, bool)
	Config() config.Config
	Logger() *zap.SugaredLogger
	RenderTemplate(w http.ResponseWriter, name string, data interface{}) error
}

// Handler serves the directory list, detail view and per-user images.
type Handler struct {
	deps   Dependencies
	images *http.Client
}

func NewHandler(deps Dependencies) Handler {
	return Handler{
		deps:   deps,
		images: &http.Client{Timeout: deps.Config().RequestTimeout},
	}
}

// Index sends the root path to the directory.
func (h Handler) Index(w http.ResponseWriter, r *http.Request) {
	http.Redirect(w, r, "/users", http.StatusFound)
}

// List loads the requested page and renders it with the current search applied.
// Missing page or q parameters keep the values already held in state.
func (h Handler) List(w http.ResponseWriter, r *http.Request) {
	dir := h.deps.Directory()
	query := r.URL.Query()

	page := dir.Snapshot().Page
	if raw := query.Get("page"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil {
			http.Error(w, "Invalid page", http.StatusBadRequest)
			return
		}
		page = n
	}
	dir.SetPage(page)
	if _, ok := query["q"]; ok {
		dir.SetSearchTerm(query.Get("q"))
	}
	h.deps.Detail().Clear()

	// The result lands in shared state, so a client hanging up must not
	// record a failed fetch. The remote client's timeout still bounds it.
	fetchCtx := context.WithoutCancel(r.Context())
	if err := dir.RequestPage(fetchCtx, dir.Snapshot().Page); err != nil && !errors.Is(err, directory.ErrSuperseded) {
		h.deps.Logger().Warnw("directory page failed", "page", page, "error", err)
	}

	snap := dir.Snapshot()
	data := featuresettings.LayoutData(w, r, h.deps, "Users")
	data["Directory"] = snap
	data["Users"] = snap.Visible()
	data["FavoriteIDs"] = favoriteIDs(h.deps.Favorites())
	data["PrevURL"] = listURL(snap.PrevPage(), snap.SearchTerm)
	data["NextURL"] = listURL(snap.NextPage(), snap.SearchTerm)
	if err := h.deps.RenderTemplate(w, "list.html", data); err != nil {
		h.deps.Logger().Errorw("render list", "error", err)
	}
}

// Show selects the user and renders the detail view.
func (h Handler) Show(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r)
	if !ok {
		http.NotFound(w, r)
		return
	}
	status := http.StatusOK
	err := h.deps.Detail().Select(context.WithoutCancel(r.Context()), id)
	switch {
	case err == nil, errors.Is(err, detail.ErrSuperseded):
	case errors.Is(err, remote.ErrNotFound):
		status = http.StatusNotFound
	default:
		status = http.StatusBadGateway
		h.deps.Logger().Warnw("user detail failed", "id", id, "error", err)
	}

	snap := h.deps.Detail().Snapshot()
	dir := h.deps.Directory().Snapshot()
	data := featuresettings.LayoutData(w, r, h.deps, "User")
	data["Detail"] = snap
	data["IsFavorite"] = snap.Selected != nil && h.deps.Favorites().IsFavorite(snap.Selected.ID)
	data["BackURL"] = listURL(dir.Page, dir.SearchTerm)
	w.WriteHeader(status)
	if err := h.deps.RenderTemplate(w, "detail.html", data); err != nil {
		h.deps.Logger().Errorw("render detail", "error", err)
	}
}

func pathID(r *http.Request) (int, bool) {
	id := core.PositiveInt(r.PathValue("id"), 0)
	return id, id > 0
}

func favoriteIDs(store *favorites.Store) map[int]bool {
	list := store.List()
	ids := make(map[int]bool, len(list))
	for _, u := range list {
		ids[u.ID] = true
	}
	return ids
}

func listURL(page int, term string) string {
	v := url.Values{}
	v.Set("page", strconv.Itoa(page))
	if term != "" {
		v.Set("q", term)
	}
	return "/users?" + v.Encode()
}
