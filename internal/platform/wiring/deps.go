package wiring

import (
	"context"

	"userdir/internal/contracts"
	"userdir/internal/features/detail"
	"userdir/internal/features/directory"
	"userdir/internal/features/favorites"
	featuresettings "userdir/internal/features/settings"
	userdirserver "userdir/internal/platform/server"
)

// Deps is the handler-facing view of the server and the process-wide stores.
type Deps struct {
	srv       *userdirserver.Server
	repos     contracts.Repos
	directory *directory.State
	detail    *detail.State
	favorites *favorites.Store
	theme     *featuresettings.ThemeService
}

// NewDeps builds the stores once per server. Favorites and theme are
// hydrated from storage in one read before the first request is served; a
// failed read leaves both at their defaults.
func NewDeps(ctx context.Context, srv *userdirserver.Server) Deps {
	repos := srv.Repos()
	log := srv.Logger()
	favs := favorites.New(repos.Settings, log.Named("favorites"))
	theme := featuresettings.NewThemeService(repos.Settings, log.Named("theme"))

	values, err := repos.Settings.GetSettings(ctx, favorites.StorageKey, featuresettings.ThemeKey)
	if err != nil {
		log.Warnw("settings hydrate failed", "error", err)
	}
	favs.Restore(values[favorites.StorageKey])
	theme.Restore(values[featuresettings.ThemeKey])
	log.Debugw("state hydrated", "favorites", favs.Len(), "theme", theme.Mode())

	return Deps{
		srv:       srv,
		repos:     repos,
		directory: directory.NewState(repos.Users, log.Named("directory")),
		detail:    detail.NewState(repos.Users, log.Named("detail")),
		favorites: favs,
		theme:     theme,
	}
}
