package page

import (
	"encoding/json"
	"errors"
	"net/http"

	"page-hits/internal/domain/entity"
	"page-hits/internal/handler/http/respond"
	pageUC "page-hits/internal/usecase/page"
)

type CreateHandler struct{ Svc *pageUC.Service }

// ServeHTTP creates a page from {"name": "..."} and returns it with 201.
func (h CreateHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	var req createRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			respond.Error(w, http.StatusRequestEntityTooLarge, msgBodyTooLarge)
			return
		}
		// 不正な JSON も name 欠落と同じ扱い
		respond.Error(w, http.StatusBadRequest, msgNameRequired)
		return
	}

	page, err := h.Svc.Create(r.Context(), req.Name)
	if err != nil {
		if errors.Is(err, entity.ErrInvalidInput) {
			respond.Error(w, http.StatusBadRequest, msgNameRequired)
			return
		}
		respond.InternalError(w, r, err)
		return
	}

	respond.JSON(w, http.StatusCreated, toDTO(page))
}
