package controllers

import (
	"bytes"
	"errors"
	"fmt"
	"net/http"

	"study_server_go/cycle"
	"study_server_go/export"

	"github.com/gorilla/mux"
)

// GetCycles returns the cycle history of a list, newest first.
// GET /api/lists/{list_id}/cycles
func (h *Handler) GetCycles(w http.ResponseWriter, r *http.Request) {
	listID := mux.Vars(r)["list_id"]
	if _, ok := h.ownedList(w, r, listID); !ok {
		return
	}
	snap, ok := h.snapshot(w, r, listID)
	if !ok {
		return
	}
	respondJSON(w, http.StatusOK, snap.Cycles)
}

// ExportCycles returns the cycle history of a list as an xlsx workbook.
// GET /api/lists/{list_id}/cycles/export
func (h *Handler) ExportCycles(w http.ResponseWriter, r *http.Request) {
	listID := mux.Vars(r)["list_id"]
	list, ok := h.ownedList(w, r, listID)
	if !ok {
		return
	}
	snap, ok := h.snapshot(w, r, listID)
	if !ok {
		return
	}

	var buf bytes.Buffer
	if err := export.WriteCyclesXLSX(&buf, *list, snap.Cycles); err != nil {
		h.log.Error().Err(err).Str("list_id", listID).Msg("failed to build cycle export")
		respondError(w, http.StatusInternalServerError, "failed to export cycles")
		return
	}

	w.Header().Set("Content-Type", export.ContentType)
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", export.FileName(*list)))
	w.WriteHeader(http.StatusOK)
	w.Write(buf.Bytes())
}

// ResumeCycles finishes completions of a list that were interrupted after the
// cycle was recorded.
// POST /api/lists/{list_id}/cycles/resume
func (h *Handler) ResumeCycles(w http.ResponseWriter, r *http.Request) {
	listID := mux.Vars(r)["list_id"]
	if _, ok := h.ownedList(w, r, listID); !ok {
		return
	}

	resumed, err := h.engine.Resume(r.Context(), listID)
	if err != nil {
		msg := "failed to resume cycle completion"
		if errors.Is(err, cycle.ErrResetFailed) {
			msg = "cycle was recorded but the list could not be reset"
		}
		respondError(w, http.StatusInternalServerError, msg)
		return
	}

	snap, ok := h.snapshot(w, r, listID)
	if !ok {
		return
	}
	respondJSON(w, http.StatusOK, map[string]interface{}{
		"resumed": resumed,
		"list":    cycle.Details(snap),
	})
}
