package handlers

import (
	"net/http"
	"time"

	"moneymanager/internal/httpx"
	"moneymanager/internal/report"
	"moneymanager/internal/services"
)

// TransactionHandler serves one transaction store. The income and expense
// endpoints are the same handler bound to different kinds.
type TransactionHandler struct {
	svc       *services.TransactionService
	kind      services.Kind
	sheetName string
	fileStem  string
}

func NewIncomeHandler(svc *services.TransactionService) *TransactionHandler {
	return &TransactionHandler{svc: svc, kind: services.KindIncome, sheetName: "Income Details", fileStem: "income_details"}
}

func NewExpenseHandler(svc *services.TransactionService) *TransactionHandler {
	return &TransactionHandler{svc: svc, kind: services.KindExpense, sheetName: "Expense Details", fileStem: "expense_details"}
}

func (h *TransactionHandler) Add(w http.ResponseWriter, r *http.Request) {
	profileID, ok := currentProfileID(w, r)
	if !ok {
		return
	}
	var in services.TransactionInput
	if !decodeJSON(w, r, &in) {
		return
	}
	saved, err := h.svc.Add(r.Context(), profileID, h.kind, in)
	if err != nil {
		writeError(w, err)
		return
	}
	httpx.JSON(w, http.StatusCreated, saved)
}

// List returns the current month's transactions.
func (h *TransactionHandler) List(w http.ResponseWriter, r *http.Request) {
	profileID, ok := currentProfileID(w, r)
	if !ok {
		return
	}
	list, err := h.svc.CurrentMonth(r.Context(), profileID, h.kind)
	if err != nil {
		writeError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, list)
}

func (h *TransactionHandler) ByMonth(w http.ResponseWriter, r *http.Request) {
	profileID, ok := currentProfileID(w, r)
	if !ok {
		return
	}
	year, month, err := yearMonthParams(r, time.Now())
	if err != nil {
		httpx.JSONError(w, http.StatusBadRequest, "invalid_argument", err.Error())
		return
	}
	list, err := h.svc.ForMonth(r.Context(), profileID, h.kind, year, month)
	if err != nil {
		writeError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, list)
}

func (h *TransactionHandler) Delete(w http.ResponseWriter, r *http.Request) {
	profileID, ok := currentProfileID(w, r)
	if !ok {
		return
	}
	id, err := pathID(r)
	if err != nil {
		httpx.JSONError(w, http.StatusBadRequest, "invalid_argument", err.Error())
		return
	}
	if err := h.svc.Delete(r.Context(), profileID, h.kind, id); err != nil {
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// DownloadExcel streams the month's transactions as an xlsx attachment.
func (h *TransactionHandler) DownloadExcel(w http.ResponseWriter, r *http.Request) {
	profileID, ok := currentProfileID(w, r)
	if !ok {
		return
	}
	year, month, err := yearMonthParams(r, time.Now())
	if err != nil {
		httpx.JSONError(w, http.StatusBadRequest, "invalid_argument", err.Error())
		return
	}
	list, err := h.svc.ForMonth(r.Context(), profileID, h.kind, year, month)
	if err != nil {
		writeError(w, err)
		return
	}
	data, err := report.Build(h.sheetName, report.FromTransactions(list))
	if err != nil {
		writeError(w, err)
		return
	}
	httpx.Attachment(w, h.fileStem+".xlsx", report.SpreadsheetMIME, data)
}
