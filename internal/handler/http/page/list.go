package page

import (
	"net/http"

	"page-hits/internal/handler/http/respond"
	pageUC "page-hits/internal/usecase/page"
)

type ListHandler struct{ Svc *pageUC.Service }

// ServeHTTP returns every page in creation order.
func (h ListHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	pages, err := h.Svc.List(r.Context())
	if err != nil {
		respond.InternalError(w, r, err)
		return
	}

	// 空でも null ではなく [] を返す
	out := make([]DTO, 0, len(pages))
	for _, p := range pages {
		out = append(out, toDTO(p))
	}
	respond.JSON(w, http.StatusOK, out)
}
