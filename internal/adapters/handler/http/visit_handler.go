package http

import (
	"log/slog"
	"net/http"

	"github.com/roysafi/poll/internal/core/ports"
)

type VisitHandler struct {
	service ports.VisitService
}

func NewVisitHandler(service ports.VisitService) *VisitHandler {
	return &VisitHandler{
		service: service,
	}
}

type visitRequest struct {
	Path string `json:"path"`
}

type visitResponse struct {
	Total int64 `json:"total"`
}

func (h *VisitHandler) RecordVisit(w http.ResponseWriter, r *http.Request) {
	var req visitRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	total, err := h.service.RecordVisit(r.Context(), req.Path)
	if err != nil {
		slog.Error("failed to record visit", "error", err)
		writeError(w, http.StatusInternalServerError, "failed to fetch count")
		return
	}

	writeJSON(w, http.StatusOK, visitResponse{Total: total})
}
