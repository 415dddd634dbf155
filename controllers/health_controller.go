package controllers

import (
	"context"
	"net/http"
	"time"
)

// HealthCheck reports whether the server and its database are reachable.
// GET /api/status
func (h *Handler) HealthCheck(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
	defer cancel()

	if err := h.store.Ping(ctx); err != nil {
		h.log.Error().Err(err).Msg("database ping failed")
		respondJSON(w, http.StatusServiceUnavailable, map[string]string{"status": "DEGRADED", "database": "unreachable"})
		return
	}
	respondJSON(w, http.StatusOK, map[string]string{"status": "OK", "database": "OK"})
}
