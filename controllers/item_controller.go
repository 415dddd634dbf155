package controllers

import (
	"errors"
	"net/http"
	"strings"

	"study_server_go/cycle"
	"study_server_go/models"

	"github.com/gorilla/mux"
)

// CreateItem appends an item to a list.
// POST /api/lists/{list_id}/items
func (h *Handler) CreateItem(w http.ResponseWriter, r *http.Request) {
	listID := mux.Vars(r)["list_id"]
	if _, ok := h.ownedList(w, r, listID); !ok {
		return
	}

	var req models.CreateItemRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	title := strings.TrimSpace(req.Title)
	if title == "" {
		respondError(w, http.StatusBadRequest, "title is required")
		return
	}
	if req.EstimatedTime <= 0 {
		respondError(w, http.StatusBadRequest, "estimated_time must be a positive number of minutes")
		return
	}

	item := &models.StudyItem{ListID: listID, Title: title, EstimatedTime: req.EstimatedTime}
	if err := h.store.CreateItem(r.Context(), item); err != nil {
		h.log.Error().Err(err).Str("list_id", listID).Msg("failed to create item")
		respondError(w, http.StatusInternalServerError, "failed to create item")
		return
	}
	respondJSON(w, http.StatusCreated, item)
}

// ToggleItemCompletion sets the completion flag of an item. When every item of
// the list ends up completed the cycle is archived and the list reset before
// the response is written.
// PUT /api/items/{item_id}/completion
func (h *Handler) ToggleItemCompletion(w http.ResponseWriter, r *http.Request) {
	itemID := mux.Vars(r)["item_id"]

	item, err := h.store.GetItemByID(r.Context(), itemID)
	if err != nil {
		h.log.Error().Err(err).Str("item_id", itemID).Msg("failed to get item")
		respondError(w, http.StatusInternalServerError, "failed to get item")
		return
	}
	if item == nil {
		respondError(w, http.StatusNotFound, "item not found")
		return
	}
	if _, ok := h.ownedList(w, r, item.ListID); !ok {
		return
	}

	var req models.ToggleItemRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	if req.Completed == nil {
		respondError(w, http.StatusBadRequest, "completed is required")
		return
	}

	res, err := h.engine.ToggleItemCompletion(r.Context(), itemID, bool(*req.Completed))
	if err != nil {
		switch {
		case errors.Is(err, cycle.ErrItemNotFound):
			respondError(w, http.StatusNotFound, "item not found")
		case errors.Is(err, cycle.ErrResetFailed):
			respondError(w, http.StatusInternalServerError, "cycle was recorded but the list could not be reset")
		case errors.Is(err, cycle.ErrCycleNotRecorded):
			respondError(w, http.StatusInternalServerError, "item was updated but the cycle could not be recorded")
		default:
			respondError(w, http.StatusInternalServerError, "failed to update item")
		}
		return
	}

	resp := models.ToggleItemResponse{
		ListDetails: cycle.Details(res.Snapshot),
		Cycle:       res.Cycle,
	}
	if res.Notice != nil {
		resp.Notice = res.Notice.Message
	}
	respondJSON(w, http.StatusOK, resp)
}
