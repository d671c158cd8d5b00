package http

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/roysafi/poll/internal/core/domain"
	"github.com/roysafi/poll/internal/core/ports"
)

type AdminHandler struct {
	service ports.AdminService
}

func NewAdminHandler(service ports.AdminService) *AdminHandler {
	return &AdminHandler{
		service: service,
	}
}

type createPollRequest struct {
	Slug     string   `json:"slug"`
	Question string   `json:"question"`
	Options  []string `json:"options"`
	Active   bool     `json:"active"`
}

func (h *AdminHandler) CreatePoll(w http.ResponseWriter, r *http.Request) {
	var req createPollRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	poll, err := h.service.CreatePoll(r.Context(), ports.CreatePollInput{
		Slug:     req.Slug,
		Question: req.Question,
		Options:  req.Options,
		Active:   req.Active,
	})
	if err != nil {
		h.writeAdminError(w, "failed to create poll", err)
		return
	}

	slog.Info("poll created", "admin", adminSubject(r.Context()), "poll_id", poll.ID, "slug", poll.Slug, "active", poll.IsActive)
	writeJSON(w, http.StatusCreated, poll)
}

func (h *AdminHandler) ListPolls(w http.ResponseWriter, r *http.Request) {
	polls, err := h.service.ListPolls(r.Context())
	if err != nil {
		h.writeAdminError(w, "failed to list polls", err)
		return
	}
	if polls == nil {
		polls = []*domain.Poll{}
	}
	writeJSON(w, http.StatusOK, polls)
}

func (h *AdminHandler) ActivatePoll(w http.ResponseWriter, r *http.Request) {
	poll, err := h.service.ActivatePoll(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		h.writeAdminError(w, "failed to activate poll", err)
		return
	}

	slog.Info("poll activated", "admin", adminSubject(r.Context()), "poll_id", poll.ID, "slug", poll.Slug)
	writeJSON(w, http.StatusOK, poll)
}

func (h *AdminHandler) DeactivatePoll(w http.ResponseWriter, r *http.Request) {
	poll, err := h.service.DeactivatePoll(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		h.writeAdminError(w, "failed to deactivate poll", err)
		return
	}

	slog.Info("poll deactivated", "admin", adminSubject(r.Context()), "poll_id", poll.ID, "slug", poll.Slug)
	writeJSON(w, http.StatusOK, poll)
}

func (h *AdminHandler) writeAdminError(w http.ResponseWriter, message string, err error) {
	switch {
	case errors.Is(err, domain.ErrInvalidPoll), errors.Is(err, domain.ErrInvalidPollID):
		writeError(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, domain.ErrPollNotFound):
		writeError(w, http.StatusNotFound, err.Error())
	case errors.Is(err, domain.ErrSlugTaken):
		writeError(w, http.StatusConflict, err.Error())
	default:
		slog.Error(message, "error", err)
		writeError(w, http.StatusInternalServerError, message)
	}
}
