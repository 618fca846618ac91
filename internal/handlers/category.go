package handlers

import (
	"net/http"

	"moneymanager/internal/httpx"
	"moneymanager/internal/services"
)

type CategoryHandler struct {
	svc *services.CategoryService
}

func NewCategoryHandler(svc *services.CategoryService) *CategoryHandler {
	return &CategoryHandler{svc: svc}
}

func (h *CategoryHandler) Create(w http.ResponseWriter, r *http.Request) {
	profileID, ok := currentProfileID(w, r)
	if !ok {
		return
	}
	var in services.CategoryInput
	if !decodeJSON(w, r, &in) {
		return
	}
	category, err := h.svc.Create(r.Context(), profileID, in)
	if err != nil {
		writeError(w, err)
		return
	}
	httpx.JSON(w, http.StatusCreated, category)
}

func (h *CategoryHandler) List(w http.ResponseWriter, r *http.Request) {
	profileID, ok := currentProfileID(w, r)
	if !ok {
		return
	}
	categories, err := h.svc.List(r.Context(), profileID)
	if err != nil {
		writeError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, categories)
}

func (h *CategoryHandler) ListByType(w http.ResponseWriter, r *http.Request) {
	profileID, ok := currentProfileID(w, r)
	if !ok {
		return
	}
	categories, err := h.svc.ListByType(r.Context(), profileID, r.PathValue("type"))
	if err != nil {
		writeError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, categories)
}

func (h *CategoryHandler) Update(w http.ResponseWriter, r *http.Request) {
	profileID, ok := currentProfileID(w, r)
	if !ok {
		return
	}
	id, err := pathID(r)
	if err != nil {
		httpx.JSONError(w, http.StatusBadRequest, "invalid_argument", err.Error())
		return
	}
	var in services.CategoryInput
	if !decodeJSON(w, r, &in) {
		return
	}
	category, err := h.svc.Update(r.Context(), profileID, id, in)
	if err != nil {
		writeError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, category)
}
