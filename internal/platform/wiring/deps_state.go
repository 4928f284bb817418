package wiring

import (
	"userdir/internal/domain"
	"userdir/internal/features/detail"
	"userdir/internal/features/directory"
	"userdir/internal/features/favorites"
	featuresettings "userdir/internal/features/settings"
)

// Directory returns the paginated list state.
func (d Deps) Directory() *directory.State {
	return d.directory
}

// Detail returns the selected-user state.
func (d Deps) Detail() *detail.State {
	return d.detail
}

// Favorites returns the persisted favorites set.
func (d Deps) Favorites() *favorites.Store {
	return d.favorites
}

// Theme returns the persisted theme preference.
func (d Deps) Theme() *featuresettings.ThemeService {
	return d.theme
}

// LookupUser resolves a user already held in memory: the loaded directory
// page first, then the detail selection, then favorites. It never touches
// the network.
func (d Deps) LookupUser(id int) (domain.User, bool) {
	for _, u := range d.directory.Snapshot().Items {
		if u.ID == id {
			return u, true
		}
	}
	if sel := d.detail.Snapshot().Selected; sel != nil && sel.ID == id {
		return *sel, true
	}
	return d.favorites.Lookup(id)
}
