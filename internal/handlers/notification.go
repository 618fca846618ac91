package handlers

import (
	"net/http"

	"moneymanager/internal/httpx"
	"moneymanager/internal/services"
)

// NotificationHandler exposes the mail jobs as on-demand operations; the
// cron triggers are optional.
type NotificationHandler struct {
	svc *services.NotificationService
}

func NewNotificationHandler(svc *services.NotificationService) *NotificationHandler {
	return &NotificationHandler{svc: svc}
}

func (h *NotificationHandler) Reminder(w http.ResponseWriter, r *http.Request) {
	outcomes, err := h.svc.SendDailyReminder(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, map[string]any{"outcomes": outcomes})
}

func (h *NotificationHandler) ExpenseSummary(w http.ResponseWriter, r *http.Request) {
	outcomes, err := h.svc.SendDailyExpenseSummary(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, map[string]any{"outcomes": outcomes})
}
