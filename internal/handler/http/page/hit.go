package page

import (
	"errors"
	"net/http"

	"page-hits/internal/handler/http/pathutil"
	"page-hits/internal/handler/http/respond"
	pageUC "page-hits/internal/usecase/page"
)

type HitHandler struct{ Svc *pageUC.Service }

// ServeHTTP records one hit and returns the updated page.
func (h HitHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	id, err := pathutil.ParseID(r.PathValue("id"))
	if err != nil {
		// 数値でない ID はページのルートに一致しない扱い
		respond.RouteNotFound(w, r)
		return
	}

	page, err := h.Svc.RecordHit(r.Context(), id)
	if err != nil {
		if errors.Is(err, pageUC.ErrPageNotFound) {
			respond.Error(w, http.StatusNotFound, msgPageNotFound)
			return
		}
		respond.InternalError(w, r, err)
		return
	}

	respond.JSON(w, http.StatusOK, toDTO(page))
}
