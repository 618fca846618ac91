package handlers

import (
	"net/http"
	"strings"
	"time"

	"moneymanager/internal/httpx"
	"moneymanager/internal/models"
	"moneymanager/internal/services"
)

type FilterHandler struct {
	svc *services.TransactionService
}

func NewFilterHandler(svc *services.TransactionService) *FilterHandler {
	return &FilterHandler{svc: svc}
}

type filterRequest struct {
	Type      string       `json:"type"`
	StartDate *models.Date `json:"startDate"`
	EndDate   *models.Date `json:"endDate"`
	Keyword   string       `json:"keyword"`
	SortField string       `json:"sortField"`
	SortOrder string       `json:"sortOrder"`
}

// Filter searches one transaction store. Absent fields fall back to the
// widest range: 1900-01-01 through today, empty keyword, date ascending.
func (h *FilterHandler) Filter(w http.ResponseWriter, r *http.Request) {
	profileID, ok := currentProfileID(w, r)
	if !ok {
		return
	}
	var req filterRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	kind, err := services.ParseKind(req.Type)
	if err != nil {
		writeError(w, err)
		return
	}

	f := services.Filter{
		StartDate: models.NewDate(1900, time.January, 1),
		EndDate:   models.Today(time.Local),
		Keyword:   req.Keyword,
		SortField: "date",
		SortDesc:  strings.EqualFold(req.SortOrder, "desc"),
	}
	if req.StartDate != nil {
		f.StartDate = *req.StartDate
	}
	if req.EndDate != nil {
		f.EndDate = *req.EndDate
	}
	if req.SortField != "" {
		f.SortField = req.SortField
	}

	list, err := h.svc.Search(r.Context(), profileID, kind, f)
	if err != nil {
		writeError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, list)
}
