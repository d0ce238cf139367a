package handlers

import (
	"net/http"
)

func (h *Handlers) GetDashboard(w http.ResponseWriter, r *http.Request) {
	dashboard, err := h.DashboardService.Dashboard(r.Context(), actorFrom(r))
	if err != nil {
		writeServiceError(w, err)
		return
	}

	writeSuccess(w, dashboard, http.StatusOK)
}
