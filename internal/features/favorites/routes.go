package favorites

import (
	"net/http"

	"userdir/internal/platform/transport"
)

// Register registers routes and handlers.
func Register(mux *http.ServeMux, reg transport.Registrar, deps Dependencies, layout PageData) {
	register := func(pattern string, handler http.Handler) {
		reg.RegisterRoute(mux, pattern, handler)
	}

	handler := NewHandler(deps, layout)
	register("GET /favorites", http.HandlerFunc(handler.Page))
	register("GET /favorites.json", http.HandlerFunc(handler.Export))
	register("POST /favorites/toggle", http.HandlerFunc(handler.Toggle))
	register("POST /favorites/clear", http.HandlerFunc(handler.Clear))
}
