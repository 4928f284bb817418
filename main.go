package main

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"go.uber.org/zap"
	_ "modernc.org/sqlite"
	"userdir/internal/config"
	"userdir/internal/features/favorites"
	platformhttp "userdir/internal/platform/http"
	"userdir/internal/platform/logging"
	"userdir/internal/platform/remote"
	platformserver "userdir/internal/platform/server"
	"userdir/internal/platform/storage"
	sqlitestore "userdir/internal/platform/storage/sqlite"
)

// main wires dependencies and starts the HTTP server.
func main() {
	_ = godotenv.Load()

	cfg, err := config.LoadConfig()
	if err != nil {
		fmt.Fprintf(os.Stderr, "config error: %v\n", err)
		os.Exit(1)
	}
	lg, err := logging.New(logging.Config{Level: cfg.LogLevel, Dev: cfg.LogDev})
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to init logger: %v\n", err)
		os.Exit(1)
	}
	defer lg.Sync()
	sugar := lg.Sugar()

	if err := run(cfg, sugar, os.Args[1:], os.Stdout); err != nil {
		sugar.Errorw("fatal", "error", err)
		_ = lg.Sync()
		os.Exit(1)
	}
}

func run(cfg config.Config, log *zap.SugaredLogger, args []string, stdout io.Writer) error {
	db, err := openDB(cfg.DBPath)
	if err != nil {
		return err
	}
	defer db.Close()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cmd := ""
	if len(args) > 0 {
		cmd = args[0]
	}
	switch cmd {
	case "":
		return serve(ctx, cfg, db, log)
	case "backup":
		dest := ""
		if len(args) > 1 {
			dest = args[1]
		}
		path, err := storage.BackupToZip(ctx, db, dest)
		if err != nil {
			return fmt.Errorf("backup failed: %w", err)
		}
		log.Infow("backup written", "path", path)
		return nil
	case "export-favorites":
		return exportFavorites(ctx, db, log, stdout)
	default:
		return fmt.Errorf("unknown command %q (want backup or export-favorites)", cmd)
	}
}

func openDB(path string) (*sql.DB, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("db open: %w", err)
	}
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	if _, err := db.Exec("PRAGMA busy_timeout = 5000"); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("db busy_timeout: %w", err)
	}
	if _, err := db.Exec("PRAGMA journal_mode = WAL"); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("db journal_mode: %w", err)
	}
	if err := sqlitestore.InitDB(db); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("db init: %w", err)
	}
	return db, nil
}

func exportFavorites(ctx context.Context, db *sql.DB, log *zap.SugaredLogger, stdout io.Writer) error {
	store := favorites.NewStore(ctx, sqlitestore.NewRepos(db).Settings, log)
	raw, err := favorites.Encode(store.List())
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(stdout, string(raw))
	return err
}

func serve(ctx context.Context, cfg config.Config, db *sql.DB, log *zap.SugaredLogger) error {
	source := remote.New(remote.Options{
		URL:        cfg.APIURL,
		Timeout:    cfg.RequestTimeout,
		MinLatency: cfg.MinLatency,
		Logger:     log.Named("remote"),
	})
	srv, err := platformserver.NewServer(cfg, db, source, log)
	if err != nil {
		return fmt.Errorf("server init: %w", err)
	}

	addr := fmt.Sprintf("%s:%s", cfg.Host, cfg.Port)
	httpSrv := &http.Server{
		Addr:              addr,
		Handler:           platformhttp.RoutesContext(ctx, srv),
		ReadHeaderTimeout: 10 * time.Second,
	}
	errs := make(chan error, 1)
	go func() {
		log.Infow("listening", "addr", addr, "env", cfg.Env, "api", cfg.APIURL)
		errs <- httpSrv.ListenAndServe()
	}()

	select {
	case err := <-errs:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("server error: %w", err)
	case <-ctx.Done():
	}

	log.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := httpSrv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	return nil
}
