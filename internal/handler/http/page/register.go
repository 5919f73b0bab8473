package page

import (
	"net/http"

	pageUC "page-hits/internal/usecase/page"
)

// Register registers all page-related HTTP handlers with the given mux.
// writeGuard wraps the mutating routes (create, hit); pass nil to leave them unguarded.
func Register(mux *http.ServeMux, svc *pageUC.Service, writeGuard func(http.Handler) http.Handler) {
	if writeGuard == nil {
		writeGuard = func(h http.Handler) http.Handler { return h }
	}

	mux.Handle("GET /api/pages", ListHandler{svc})
	mux.Handle("POST /api/pages", writeGuard(CreateHandler{svc}))
	mux.Handle("GET /api/pages/{id}/hits", HitsHandler{svc})
	mux.Handle("POST /api/pages/{id}/hit", writeGuard(HitHandler{svc}))
}
