package handlers

import (
	"net/http"

	"moneymanager/internal/httpx"
	"moneymanager/internal/report"
	"moneymanager/internal/services"
)

// ExcelHandler serves the plain current-month downloads under /excel.
type ExcelHandler struct {
	svc *services.TransactionService
}

func NewExcelHandler(svc *services.TransactionService) *ExcelHandler {
	return &ExcelHandler{svc: svc}
}

func (h *ExcelHandler) DownloadIncome(w http.ResponseWriter, r *http.Request) {
	h.download(w, r, services.KindIncome, "Incomes", "income_report.xlsx")
}

func (h *ExcelHandler) DownloadExpense(w http.ResponseWriter, r *http.Request) {
	h.download(w, r, services.KindExpense, "Expenses", "expense_report.xlsx")
}

func (h *ExcelHandler) download(w http.ResponseWriter, r *http.Request, kind services.Kind, sheet, filename string) {
	profileID, ok := currentProfileID(w, r)
	if !ok {
		return
	}
	list, err := h.svc.CurrentMonth(r.Context(), profileID, kind)
	if err != nil {
		writeError(w, err)
		return
	}
	data, err := report.Build(sheet, report.FromTransactions(list))
	if err != nil {
		writeError(w, err)
		return
	}
	httpx.Attachment(w, filename, report.SpreadsheetMIME, data)
}
