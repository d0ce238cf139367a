package handlers

import (
	"context"
	"net/http"
	"time"

	log "github.com/sirupsen/logrus"
)

// HealthHandler reports whether the database answers within two seconds.
func (h *Handlers) HealthHandler(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
	defer cancel()

	if err := h.DB.HealthCheck(ctx); err != nil {
		log.WithError(err).Warn("проверка БД не пройдена")
		writeSuccess(w, map[string]string{"status": "unavailable"}, http.StatusServiceUnavailable)
		return
	}

	writeSuccess(w, map[string]string{"status": "ok"}, http.StatusOK)
}
