package handlers

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"strings"

	"github.com/gorilla/mux"

	"reelog/internal/auth"
	"reelog/models"
	"reelog/services/history"
)

type watchHistoryService interface {
	List(userID string) ([]models.WatchItem, error)
	Add(userID string, input history.AddInput) (models.WatchItem, error)
	Update(userID, itemID string, update models.WatchItemUpdate) (models.WatchItem, error)
	Delete(userID, itemID string) error
	Clear(userID string, mediaTypes []string) (int64, error)
	Stats(userID string) (models.HistoryStats, error)
}

var _ watchHistoryService = (*history.Service)(nil)

// WatchHistoryHandler serves the watch-history CRUD endpoints.
type WatchHistoryHandler struct {
	Service watchHistoryService
}

func NewWatchHistoryHandler(service watchHistoryService) *WatchHistoryHandler {
	return &WatchHistoryHandler{Service: service}
}

// List handles GET /api/watch-history/.
func (h *WatchHistoryHandler) List(w http.ResponseWriter, r *http.Request) {
	userID := auth.GetUserID(r)

	items, err := h.Service.List(userID)
	if err != nil {
		log.Printf("[history] list failed: %v", err)
		writeError(w, http.StatusInternalServerError, "failed to load watch history")
		return
	}
	if items == nil {
		items = []models.WatchItem{}
	}

	writeJSON(w, http.StatusOK, items)
}

// Add handles POST /api/watch-history/.
func (h *WatchHistoryHandler) Add(w http.ResponseWriter, r *http.Request) {
	userID := auth.GetUserID(r)

	var body history.AddInput
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	item, err := h.Service.Add(userID, body)
	if err != nil {
		switch {
		case errors.Is(err, history.ErrTitleRequired),
			errors.Is(err, history.ErrInvalidMediaType),
			errors.Is(err, history.ErrInvalidSubType),
			errors.Is(err, history.ErrInvalidRating),
			errors.Is(err, history.ErrAlreadyExists):
			writeError(w, http.StatusBadRequest, err.Error())
		default:
			log.Printf("[history] add failed: %v", err)
			writeError(w, http.StatusInternalServerError, "failed to add watch item")
		}
		return
	}

	writeJSON(w, http.StatusCreated, item)
}

// Update handles PUT /api/watch-history/{id}.
func (h *WatchHistoryHandler) Update(w http.ResponseWriter, r *http.Request) {
	userID := auth.GetUserID(r)
	itemID := mux.Vars(r)["id"]

	var body models.WatchItemUpdate
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	item, err := h.Service.Update(userID, itemID, body)
	if err != nil {
		h.writeItemError(w, err, "update")
		return
	}

	writeJSON(w, http.StatusOK, item)
}

// Delete handles DELETE /api/watch-history/{id}.
func (h *WatchHistoryHandler) Delete(w http.ResponseWriter, r *http.Request) {
	userID := auth.GetUserID(r)
	itemID := mux.Vars(r)["id"]

	if err := h.Service.Delete(userID, itemID); err != nil {
		h.writeItemError(w, err, "delete")
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"message": "watch item removed"})
}

// Clear handles DELETE /api/watch-history/. An optional mediaType query
// parameter (repeatable or comma-separated) restricts which types are removed.
func (h *WatchHistoryHandler) Clear(w http.ResponseWriter, r *http.Request) {
	userID := auth.GetUserID(r)

	var mediaTypes []string
	for _, raw := range r.URL.Query()["mediaType"] {
		for _, v := range strings.Split(raw, ",") {
			v = strings.TrimSpace(v)
			if v == "" {
				continue
			}
			if v != models.MediaTypeMovie && v != models.MediaTypeSeries {
				writeError(w, http.StatusBadRequest, "mediaType must be movie or series")
				return
			}
			mediaTypes = append(mediaTypes, v)
		}
	}

	removed, err := h.Service.Clear(userID, mediaTypes)
	if err != nil {
		log.Printf("[history] clear failed: %v", err)
		writeError(w, http.StatusInternalServerError, "failed to clear watch history")
		return
	}

	writeJSON(w, http.StatusOK, map[string]int64{"deletedCount": removed})
}

// Stats handles GET /api/watch-history/stats.
func (h *WatchHistoryHandler) Stats(w http.ResponseWriter, r *http.Request) {
	userID := auth.GetUserID(r)

	stats, err := h.Service.Stats(userID)
	if err != nil {
		log.Printf("[history] stats failed: %v", err)
		writeError(w, http.StatusInternalServerError, "failed to compute stats")
		return
	}

	writeJSON(w, http.StatusOK, stats)
}

func (h *WatchHistoryHandler) writeItemError(w http.ResponseWriter, err error, op string) {
	switch {
	case errors.Is(err, history.ErrItemNotFound):
		writeError(w, http.StatusNotFound, err.Error())
	case errors.Is(err, history.ErrNotOwner):
		writeError(w, http.StatusUnauthorized, err.Error())
	case errors.Is(err, history.ErrInvalidRating):
		writeError(w, http.StatusBadRequest, err.Error())
	default:
		log.Printf("[history] %s failed: %v", op, err)
		writeError(w, http.StatusInternalServerError, "failed to "+op+" watch item")
	}
}
