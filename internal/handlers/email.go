package handlers

import (
	"fmt"
	"net/http"
	"time"

	"moneymanager/internal/httpx"
	"moneymanager/internal/mail"
	"moneymanager/internal/report"
	"moneymanager/internal/services"
)

// EmailHandler mails a month's report to the authenticated profile.
// Unlike the scheduled jobs, a transport failure here surfaces to the
// caller.
type EmailHandler struct {
	transactions *services.TransactionService
	profiles     *services.ProfileService
	mailer       mail.Mailer
}

func NewEmailHandler(transactions *services.TransactionService, profiles *services.ProfileService, mailer mail.Mailer) *EmailHandler {
	return &EmailHandler{transactions: transactions, profiles: profiles, mailer: mailer}
}

func (h *EmailHandler) IncomeExcel(w http.ResponseWriter, r *http.Request) {
	h.send(w, r, services.KindIncome, "Income Details", "Income")
}

func (h *EmailHandler) ExpenseExcel(w http.ResponseWriter, r *http.Request) {
	h.send(w, r, services.KindExpense, "Expense Details", "Expense")
}

func (h *EmailHandler) send(w http.ResponseWriter, r *http.Request, kind services.Kind, sheet, label string) {
	profileID, ok := currentProfileID(w, r)
	if !ok {
		return
	}
	year, month, err := yearMonthParams(r, time.Now())
	if err != nil {
		httpx.JSONError(w, http.StatusBadRequest, "invalid_argument", err.Error())
		return
	}
	profile, err := h.profiles.ByID(r.Context(), profileID)
	if err != nil {
		writeError(w, err)
		return
	}
	list, err := h.transactions.ForMonth(r.Context(), profileID, kind, year, month)
	if err != nil {
		writeError(w, err)
		return
	}
	data, err := report.Build(sheet, report.FromTransactions(list))
	if err != nil {
		writeError(w, err)
		return
	}

	subject := fmt.Sprintf("%s Excel Report - %04d-%02d", label, year, month)
	body := fmt.Sprintf(
		"Please find attached your %s report for %04d-%02d.\n\nBest regards,\nMoney Manager Team",
		string(kind), year, month,
	)
	filename := fmt.Sprintf("%s_report_%04d_%02d.xlsx", string(kind), year, month)
	if err := h.mailer.SendWithAttachment(r.Context(), profile.Email, subject, body, data, filename); err != nil {
		writeError(w, fmt.Errorf("emailing %s report: %v: %w", kind, err, services.ErrMailDelivery))
		return
	}
	httpx.JSON(w, http.StatusOK, map[string]string{"message": label + " details emailed successfully"})
}
