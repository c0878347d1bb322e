package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/codexhub/img-uploader/internal/utils"
)

// Root is a liveness probe endpoint.
func (h *Handler) Root(w http.ResponseWriter, r *http.Request) {
	utils.WriteMessage(w, http.StatusOK, "Image uploader API running")
}

// Ready is a readiness probe endpoint.
// Returns 503 Service Unavailable if the database is not reachable.
func (h *Handler) Ready(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
	defer cancel()

	if err := h.health.Ping(ctx); err != nil {
		utils.WriteMessage(w, http.StatusServiceUnavailable, "database unavailable")
		return
	}

	utils.WriteMessage(w, http.StatusOK, "ok")
}
