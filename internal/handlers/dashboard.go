package handlers

import (
	"net/http"

	"moneymanager/internal/httpx"
	"moneymanager/internal/services"
)

type DashboardHandler struct {
	svc *services.DashboardService
}

func NewDashboardHandler(svc *services.DashboardService) *DashboardHandler {
	return &DashboardHandler{svc: svc}
}

func (h *DashboardHandler) Summary(w http.ResponseWriter, r *http.Request) {
	profileID, ok := currentProfileID(w, r)
	if !ok {
		return
	}
	dashboard, err := h.svc.Summary(r.Context(), profileID)
	if err != nil {
		writeError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, dashboard)
}
