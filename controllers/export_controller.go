package controllers

import (
	"fmt"
	"net/http"
	"time"

	"study_server_go/models"
)

// ExportUserData returns every list of the caller with items and cycles as a
// downloadable JSON document.
// GET /api/export
func (h *Handler) ExportUserData(w http.ResponseWriter, r *http.Request) {
	uid, ok := userID(w, r)
	if !ok {
		return
	}

	user, err := h.store.GetUserByID(r.Context(), uid)
	if err != nil {
		h.log.Error().Err(err).Str("user_id", uid).Msg("failed to get user for export")
		respondError(w, http.StatusInternalServerError, "failed to export data")
		return
	}
	if user == nil {
		respondError(w, http.StatusNotFound, "user not found")
		return
	}

	lists, err := h.store.GetListsForUser(r.Context(), uid)
	if err != nil {
		h.log.Error().Err(err).Str("user_id", uid).Msg("failed to get lists for export")
		respondError(w, http.StatusInternalServerError, "failed to export data")
		return
	}

	payload := models.UserExport{
		User:       user.PublicInfo(),
		Lists:      make([]models.ListSnapshot, 0, len(lists)),
		ExportedAt: h.now().Format(time.RFC3339),
	}
	for _, list := range lists {
		snap, ok := h.snapshot(w, r, list.ID)
		if !ok {
			return
		}
		payload.Lists = append(payload.Lists, snap)
	}

	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", "study-export.json"))
	respondJSON(w, http.StatusOK, payload)
	h.log.Info().Str("user_id", uid).Int("lists", len(payload.Lists)).Msg("user data exported")
}
