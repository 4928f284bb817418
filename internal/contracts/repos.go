package contracts

import (
	"userdir/internal/contracts/settings"
	"userdir/internal/contracts/users"
)

// Repos groups feature-specific repositories for injection into services and handlers.
type Repos struct {
	Settings settings.Repository
	Users    users.Source
}
