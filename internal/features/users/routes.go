package users

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
	register("GET /{$}", http.HandlerFunc(handler.Index))
	register("GET /users", http.HandlerFunc(handler.List))
	register("GET /users/{id}", http.HandlerFunc(handler.Show))
	register("GET /users/{id}/qr.png", http.HandlerFunc(handler.QRCode))
	register("GET /avatars/{id}", http.HandlerFunc(handler.Avatar))
}
