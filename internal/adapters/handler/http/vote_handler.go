package http

import (
	"bytes"
	"encoding/json"
	"errors"
	"log/slog"
	"math"
	"net/http"
	"strconv"
	"strings"

	"github.com/roysafi/poll/internal/core/domain"
	"github.com/roysafi/poll/internal/core/ports"
)

type VoteHandler struct {
	service ports.VoteService
}

func NewVoteHandler(service ports.VoteService) *VoteHandler {
	return &VoteHandler{
		service: service,
	}
}

type voteRequest struct {
	ChoiceIndex json.RawMessage `json:"choiceIndex"`
	Ward        *string         `json:"ward"`
}

type voteResponse struct {
	OK bool `json:"ok"`
}

// outOfRangeChoice stands in for integral indexes too large to address any
// option, so they fail as an invalid choice rather than a missing one.
const outOfRangeChoice = -1

// parseChoiceIndex accepts an integral JSON number or a string holding one.
// Anything else, including null, yields nil.
func parseChoiceIndex(raw json.RawMessage) *int {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 || bytes.Equal(raw, []byte("null")) {
		return nil
	}

	var f float64
	if err := json.Unmarshal(raw, &f); err == nil {
		if f != math.Trunc(f) {
			return nil
		}
		i := outOfRangeChoice
		if math.Abs(f) < math.MaxInt32 {
			i = int(f)
		}
		return &i
	}

	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		i, err := strconv.Atoi(strings.TrimSpace(s))
		if errors.Is(err, strconv.ErrRange) {
			i, err = outOfRangeChoice, nil
		}
		if err != nil {
			return nil
		}
		return &i
	}
	return nil
}

// VoteOnPoll godoc
// @Summary      Submit a vote for the active poll
// @Description  Body {"choiceIndex": number, "ward": string|null}. Unknown fields are rejected.
// @Tags         poll
// @Accept       json
// @Produce      json
// @Success      201
// @Failure      400
// @Failure      500
// @Router       /api/poll [post]
func (h *VoteHandler) VoteOnPoll(w http.ResponseWriter, r *http.Request) {
	var req voteRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	input := ports.VoteInput{
		ChoiceIndex: parseChoiceIndex(req.ChoiceIndex),
		Ward:        req.Ward,
	}

	if err := h.service.SubmitVote(r.Context(), input); err != nil {
		if errors.Is(err, domain.ErrChoiceIndexRequired) ||
			errors.Is(err, domain.ErrInvalidChoiceIndex) ||
			errors.Is(err, domain.ErrNoActivePoll) {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}

		slog.Error("failed to record vote", "error", err)
		writeError(w, http.StatusInternalServerError, "failed to record vote")
		return
	}

	writeJSON(w, http.StatusCreated, voteResponse{OK: true})
}
