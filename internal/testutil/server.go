package testutil

import (
	"database/sql"
	"net/http"
	"testing"
	"time"

	_ "modernc.org/sqlite"
	"userdir/internal/config"
	"userdir/internal/platform/remote"
	platformserver "userdir/internal/platform/server"
	sqlitestore "userdir/internal/platform/storage/sqlite"
)

// TestConfig returns a development config pointed at apiURL with no latency floor.
func TestConfig(t *testing.T, apiURL string) config.Config {
	t.Helper()
	return config.Config{
		Env:            "test",
		SecretKey:      []byte("test-secret"),
		StaticDir:      t.TempDir(),
		CookieSameSite: http.SameSiteLaxMode,
		APIURL:         apiURL,
		RequestTimeout: 2 * time.Second,
		AvatarMaxBytes: 1 << 20,
		LogLevel:       "debug",
	}
}

// NewServer builds a server over an in-memory database and a corpus server
// serving Corpus(). Callers must chdir to the repository root first.
func NewServer(t *testing.T) (*platformserver.Server, *CorpusServer) {
	t.Helper()
	corpus := NewCorpusServer(t, Corpus())
	return NewServerWithConfig(t, TestConfig(t, corpus.URL)), corpus
}

// NewServerWithConfig builds a server over an in-memory database.
func NewServerWithConfig(t *testing.T, cfg config.Config) *platformserver.Server {
	t.Helper()
	db, err := sql.Open("sqlite", ":memory:")
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	db.SetMaxOpenConns(1)
	t.Cleanup(func() {
		_ = db.Close()
	})
	if err := sqlitestore.InitDB(db); err != nil {
		t.Fatalf("init db: %v", err)
	}

	source := remote.New(remote.Options{URL: cfg.APIURL, Timeout: cfg.RequestTimeout, MinLatency: cfg.MinLatency})
	srv, err := platformserver.NewServer(cfg, db, source, nil)
	if err != nil {
		t.Fatalf("new server: %v", err)
	}
	return srv
}
