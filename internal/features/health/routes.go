package health

import (
	"net/http"

	"userdir/internal/platform/transport"
)

// Register wires health and state introspection endpoints.
func Register(mux *http.ServeMux, reg transport.Registrar, deps Dependencies, db Pinger) {
	register := func(pattern string, handler http.Handler) {
		reg.RegisterRoute(mux, pattern, handler)
	}
	handler := NewHandler(deps, db)
	register("GET /health", http.HandlerFunc(handler.Health))
	register("GET /api/state", http.HandlerFunc(handler.State))
}
