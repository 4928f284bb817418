package transport

import "net/http"

// Registrar abstracts route registration.
type Registrar interface {
	RegisterRoute(mux *http.ServeMux, pattern string, handler http.Handler)
}
