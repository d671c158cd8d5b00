package http

import (
	"log/slog"
	"net/http"

	"github.com/google/uuid"
	"github.com/roysafi/poll/internal/core/domain"
	"github.com/roysafi/poll/internal/core/ports"
)

type PollHandler struct {
	service ports.PollService
}

func NewPollHandler(service ports.PollService) *PollHandler {
	return &PollHandler{
		service: service,
	}
}

type pollView struct {
	ID       uuid.UUID             `json:"id"`
	Slug     string                `json:"slug"`
	Question string                `json:"question"`
	Options  []string              `json:"options"`
	Results  []domain.OptionResult `json:"results"`
	Total    int64                 `json:"total"`
}

type pollResponse struct {
	Poll *pollView `json:"poll"`
}

type wardView struct {
	Ward    *string               `json:"ward"`
	Results []domain.OptionResult `json:"results"`
	Total   int64                 `json:"total"`
}

type wardBreakdownResponse struct {
	Poll  *pollView  `json:"poll"`
	Wards []wardView `json:"wards"`
}

func newPollView(res *domain.PollResults) *pollView {
	if res == nil {
		return nil
	}
	return &pollView{
		ID:       res.Poll.ID,
		Slug:     res.Poll.Slug,
		Question: res.Poll.Question,
		Options:  res.Poll.Options,
		Results:  res.Results,
		Total:    res.Total,
	}
}

// GetPoll godoc
// @Summary      Active poll with its current tallies
// @Description  Returns {"poll": null} when no poll is active. The optional ward query restricts tallies to that ward.
// @Tags         poll
// @Produce      json
// @Param        ward  query  string  false  "ward label"
// @Success      200
// @Failure      500
// @Router       /api/poll [get]
func (h *PollHandler) GetPoll(w http.ResponseWriter, r *http.Request) {
	var ward *string
	if q := r.URL.Query(); q.Has("ward") {
		v := q.Get("ward")
		ward = &v
	}

	res, err := h.service.GetActivePollWithResults(r.Context(), ward)
	if err != nil {
		slog.Error("failed to load poll", "error", err)
		writeError(w, http.StatusInternalServerError, "failed to load poll")
		return
	}

	writeJSON(w, http.StatusOK, pollResponse{Poll: newPollView(res)})
}

// GetWardBreakdown godoc
// @Summary      Active poll tallies grouped by ward
// @Tags         poll
// @Produce      json
// @Success      200
// @Failure      500
// @Router       /api/poll/wards [get]
func (h *PollHandler) GetWardBreakdown(w http.ResponseWriter, r *http.Request) {
	res, wards, err := h.service.WardBreakdown(r.Context())
	if err != nil {
		slog.Error("failed to load ward breakdown", "error", err)
		writeError(w, http.StatusInternalServerError, "failed to load poll")
		return
	}

	resp := wardBreakdownResponse{Poll: newPollView(res), Wards: []wardView{}}
	for _, wr := range wards {
		resp.Wards = append(resp.Wards, wardView{Ward: wr.Ward, Results: wr.Results, Total: wr.Total})
	}
	writeJSON(w, http.StatusOK, resp)
}
