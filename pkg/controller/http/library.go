package http

import (
	"encoding/json"
	"net/http"

	"github.com/m-mizutani/ctxlog"
	"github.com/m-mizutani/goerr/v2"

	"github.com/m-mizutani/cadport/pkg/domain/interfaces"
	"github.com/m-mizutani/cadport/pkg/domain/model"
)

// LibraryHandler serves library acquisition
type LibraryHandler struct {
	libraryUC interfaces.LibraryUseCase
}

// NewLibraryHandler creates a new LibraryHandler
func NewLibraryHandler(libraryUC interfaces.LibraryUseCase) *LibraryHandler {
	return &LibraryHandler{libraryUC: libraryUC}
}

// Download handles POST /api/library/download
func (h *LibraryHandler) Download(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req model.AcquisitionRequest
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodySize)).Decode(&req); err != nil {
		ctxlog.From(ctx).Warn("Invalid download request", "error", err)
		writeError(ctx, w, goerr.Wrap(err, "invalid request body"), http.StatusBadRequest)
		return
	}

	result := h.libraryUC.Download(ctx, &req)
	writeJSON(ctx, w, resultStatus(result.RequiresLogin), result)
}
