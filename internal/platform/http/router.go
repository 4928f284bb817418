package http

import (
	"context"
	"net/http"
	"os"

	"userdir/internal/features/favorites"
	"userdir/internal/features/health"
	featuresettings "userdir/internal/features/settings"
	"userdir/internal/features/users"
	"userdir/internal/platform/metrics"
	userdirserver "userdir/internal/platform/server"
	"userdir/internal/platform/wiring"
)

// Routes builds the HTTP mux and the process-wide stores behind it.
func Routes(s *userdirserver.Server) http.Handler {
	return RoutesContext(context.Background(), s)
}

// RoutesContext is Routes with a context for hydrating persisted state.
func RoutesContext(ctx context.Context, s *userdirserver.Server) http.Handler {
	mux := http.NewServeMux()
	register := func(pattern string, handler http.Handler) {
		s.RegisterRoute(mux, pattern, handler)
	}

	cfg := s.Config()
	deps := wiring.NewDeps(ctx, s)
	if info, err := os.Stat(cfg.StaticDir); err == nil && info.IsDir() {
		register("GET /static/", http.StripPrefix("/static/", http.FileServer(http.Dir(cfg.StaticDir))))
	}

	users.Register(mux, s, deps)
	favorites.Register(mux, s, deps, func(w http.ResponseWriter, r *http.Request, title string) map[string]interface{} {
		return featuresettings.LayoutData(w, r, deps, title)
	})
	featuresettings.Register(mux, s, deps)
	var pinger health.Pinger
	if db := s.DB(); db != nil {
		pinger = db
	}
	health.Register(mux, s, deps, pinger)
	register("GET /metrics", metrics.Handler())

	return s.WithRequestLogging(s.WithSecurityHeaders(metrics.Middleware(s.WithImageRateLimit(mux))))
}
