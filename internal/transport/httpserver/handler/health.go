package handler

import (
	"context"
	"net/http"
)

type healthResponse struct {
	Status string `json:"status"`
}

func (h *Handlers) Health(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.opts.PingTimeout)
	defer cancel()

	if err := h.Profiles.Ping(ctx); err != nil {
		h.log.InternalError("health: store ping failed", err)
		writeJSON(w, http.StatusServiceUnavailable, healthResponse{Status: "unavailable"})
		return
	}

	writeJSON(w, http.StatusOK, healthResponse{Status: "ok"})
}
