package settings

import (
	"net/http"

	"userdir/internal/platform/transport"
)

// Register registers routes and handlers.
func Register(mux *http.ServeMux, reg transport.Registrar, deps Dependencies) {
	register := func(pattern string, handler http.Handler) {
		reg.RegisterRoute(mux, pattern, handler)
	}

	handler := NewHandler(deps)
	register("POST /theme/toggle", http.HandlerFunc(handler.ToggleTheme))
	register("GET /theme", http.HandlerFunc(handler.Mode))
}
