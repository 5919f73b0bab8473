package page

import (
	"errors"
	"net/http"

	"page-hits/internal/handler/http/pathutil"
	"page-hits/internal/handler/http/respond"
	pageUC "page-hits/internal/usecase/page"
)

type HitsHandler struct{ Svc *pageUC.Service }

// ServeHTTP returns {"hits": n} for the page in the path.
func (h HitsHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	id, err := pathutil.ParseID(r.PathValue("id"))
	if err != nil {
		respond.RouteNotFound(w, r)
		return
	}

	hits, err := h.Svc.GetHits(r.Context(), id)
	if err != nil {
		if errors.Is(err, pageUC.ErrPageNotFound) {
			respond.Error(w, http.StatusNotFound, msgPageNotFound)
			return
		}
		respond.InternalError(w, r, err)
		return
	}

	respond.JSON(w, http.StatusOK, HitsDTO{Hits: hits})
}
