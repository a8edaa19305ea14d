package http

import (
	"net/http"

	"github.com/m-mizutani/cadport/pkg/domain/interfaces"
)

// PartsHandler serves part search
type PartsHandler struct {
	searchUC interfaces.SearchUseCase
}

// NewPartsHandler creates a new PartsHandler
func NewPartsHandler(searchUC interfaces.SearchUseCase) *PartsHandler {
	return &PartsHandler{searchUC: searchUC}
}

// Search handles GET /api/parts/search?q=
func (h *PartsHandler) Search(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	resp := h.searchUC.Search(ctx, r.URL.Query().Get("q"))
	writeJSON(ctx, w, resultStatus(resp.RequiresLogin), resp)
}
