package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"log"
	"net/http"

	"reelog/internal/auth"
	"reelog/models"
	"reelog/services/aifilter"
)

// FilterModeHeader reports which strategy produced an ai-filter response:
// "ai", "basic", or "company". Omitted when the history was empty.
const FilterModeHeader = "X-Filter-Mode"

type aiFilterService interface {
	Filter(ctx context.Context, userID, prompt string) ([]models.WatchItem, aifilter.Mode, error)
}

var _ aiFilterService = (*aifilter.Service)(nil)

// AIFilterHandler serves POST /api/watch-history/ai-filter.
type AIFilterHandler struct {
	Service aiFilterService
}

func NewAIFilterHandler(service aiFilterService) *AIFilterHandler {
	return &AIFilterHandler{Service: service}
}

// Filter runs the prompt-driven history filter. The response body is the
// matching items as a bare JSON array; the strategy is reported in the
// X-Filter-Mode header.
func (h *AIFilterHandler) Filter(w http.ResponseWriter, r *http.Request) {
	userID := auth.GetUserID(r)

	var body struct {
		Prompt string `json:"prompt"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	items, mode, err := h.Service.Filter(r.Context(), userID, body.Prompt)
	if err != nil {
		if errors.Is(err, aifilter.ErrPromptRequired) {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}
		log.Printf("[aifilter] request failed: %v", err)
		writeError(w, http.StatusInternalServerError, "filter request failed")
		return
	}

	if mode != aifilter.ModeNone {
		w.Header().Set(FilterModeHeader, string(mode))
	}
	writeJSON(w, http.StatusOK, items)
}
