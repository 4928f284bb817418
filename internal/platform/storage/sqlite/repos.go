package sqlitestore

import (
	"context"
	"database/sql"

	"userdir/internal/contracts"
)

type repos struct {
	db *sql.DB
}

// NewRepos wires sqlite-backed repositories for the app layer.
func NewRepos(db *sql.DB) contracts.Repos {
	r := repos{db: db}
	return contracts.Repos{
		Settings: r,
	}
}

// SettingsStore
func (r repos) GetSettings(ctx context.Context, keys ...string) (map[string]string, error) {
	return GetSettings(ctx, r.db, keys...)
}

func (r repos) GetSetting(ctx context.Context, key string) (string, bool, error) {
	return GetSetting(ctx, r.db, key)
}

func (r repos) SetSetting(ctx context.Context, key, value string) error {
	return SetSetting(ctx, r.db, key, value)
}

func (r repos) DeleteSetting(ctx context.Context, key string) error {
	return DeleteSetting(ctx, r.db, key)
}
