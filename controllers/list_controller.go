package controllers

import (
	"database/sql"
	"errors"
	"net/http"
	"strings"

	"study_server_go/cycle"
	"study_server_go/models"

	"github.com/gorilla/mux"
)

// ownedList loads the list named in the route and checks it belongs to the
// caller. A list owned by someone else is reported as not found. On failure
// the response has already been written.
func (h *Handler) ownedList(w http.ResponseWriter, r *http.Request, listID string) (*models.StudyList, bool) {
	uid, ok := userID(w, r)
	if !ok {
		return nil, false
	}
	list, err := h.store.GetListByID(r.Context(), listID)
	if err != nil {
		h.log.Error().Err(err).Str("list_id", listID).Msg("failed to get list")
		respondError(w, http.StatusInternalServerError, "failed to get list")
		return nil, false
	}
	if list == nil || list.UserID != uid {
		respondError(w, http.StatusNotFound, "list not found")
		return nil, false
	}
	return list, true
}

func (h *Handler) snapshot(w http.ResponseWriter, r *http.Request, listID string) (models.ListSnapshot, bool) {
	snap, err := h.store.LoadSnapshot(r.Context(), listID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			respondError(w, http.StatusNotFound, "list not found")
			return models.ListSnapshot{}, false
		}
		h.log.Error().Err(err).Str("list_id", listID).Msg("failed to load list")
		respondError(w, http.StatusInternalServerError, "failed to load list")
		return models.ListSnapshot{}, false
	}
	return snap, true
}

// GetLists returns the caller's lists, newest first, each with its items,
// cycles and summary.
// GET /api/lists
func (h *Handler) GetLists(w http.ResponseWriter, r *http.Request) {
	uid, ok := userID(w, r)
	if !ok {
		return
	}

	lists, err := h.store.GetListsForUser(r.Context(), uid)
	if err != nil {
		h.log.Error().Err(err).Str("user_id", uid).Msg("failed to get lists")
		respondError(w, http.StatusInternalServerError, "failed to get lists")
		return
	}

	details := make([]models.ListDetails, 0, len(lists))
	for _, list := range lists {
		snap, ok := h.snapshot(w, r, list.ID)
		if !ok {
			return
		}
		details = append(details, cycle.Details(snap))
	}
	respondJSON(w, http.StatusOK, details)
}

// CreateList creates a list for the caller.
// POST /api/lists
func (h *Handler) CreateList(w http.ResponseWriter, r *http.Request) {
	uid, ok := userID(w, r)
	if !ok {
		return
	}

	var req models.CreateListRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	title := strings.TrimSpace(req.Title)
	if title == "" {
		respondError(w, http.StatusBadRequest, "title is required")
		return
	}
	if !models.IsCycleDurationPreset(req.CycleDuration) {
		respondError(w, http.StatusBadRequest, "cycle_duration must be one of 1, 3, 7, 14 or 30 days")
		return
	}
	if req.Description != nil {
		d := strings.TrimSpace(*req.Description)
		if d == "" {
			req.Description = nil
		} else {
			req.Description = &d
		}
	}

	list := &models.StudyList{
		UserID:        uid,
		Title:         title,
		Description:   req.Description,
		CycleDuration: req.CycleDuration,
	}
	if err := h.store.CreateList(r.Context(), list); err != nil {
		h.log.Error().Err(err).Str("user_id", uid).Msg("failed to create list")
		respondError(w, http.StatusInternalServerError, "failed to create list")
		return
	}

	snap := models.ListSnapshot{List: *list, Items: []models.StudyItem{}, Cycles: []models.StudyCycle{}}
	respondJSON(w, http.StatusCreated, cycle.Details(snap))
}

// GetList returns one list with its items, cycles and summary.
// GET /api/lists/{list_id}
func (h *Handler) GetList(w http.ResponseWriter, r *http.Request) {
	listID := mux.Vars(r)["list_id"]
	if _, ok := h.ownedList(w, r, listID); !ok {
		return
	}
	snap, ok := h.snapshot(w, r, listID)
	if !ok {
		return
	}
	respondJSON(w, http.StatusOK, cycle.Details(snap))
}

// DeleteList removes a list with its items and cycles.
// DELETE /api/lists/{list_id}
func (h *Handler) DeleteList(w http.ResponseWriter, r *http.Request) {
	listID := mux.Vars(r)["list_id"]
	if _, ok := h.ownedList(w, r, listID); !ok {
		return
	}
	if err := h.store.DeleteList(r.Context(), listID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			respondError(w, http.StatusNotFound, "list not found")
			return
		}
		h.log.Error().Err(err).Str("list_id", listID).Msg("failed to delete list")
		respondError(w, http.StatusInternalServerError, "failed to delete list")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
