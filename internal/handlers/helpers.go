package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"moneymanager/internal/auth"
	"moneymanager/internal/httpx"
	"moneymanager/internal/services"
)

// writeError maps a service error to its stable code and HTTP status.
func writeError(w http.ResponseWriter, err error) {
	code := services.Code(err)
	status := http.StatusInternalServerError
	switch code {
	case "not_found":
		status = http.StatusNotFound
	case "unauthorized":
		status = http.StatusForbidden
	case "invalid_argument":
		status = http.StatusBadRequest
	case "conflict":
		status = http.StatusConflict
	case "mail_failure":
		status = http.StatusBadGateway
	}
	details := any(nil)
	if code != "internal_error" {
		details = err.Error()
	}
	httpx.JSONError(w, status, code, details)
}

func decodeJSON(w http.ResponseWriter, r *http.Request, dst any) bool {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		httpx.JSONError(w, http.StatusBadRequest, "invalid_argument", "malformed JSON body")
		return false
	}
	return true
}

// currentProfileID reads the authenticated profile injected by RequireAuth.
func currentProfileID(w http.ResponseWriter, r *http.Request) (uint, bool) {
	id, ok := auth.ProfileIDFromContext(r.Context())
	if !ok {
		httpx.JSONError(w, http.StatusUnauthorized, "unauthorized", nil)
	}
	return id, ok
}

// yearMonthParams reads optional ?year=&month= query params, defaulting to
// the current month.
func yearMonthParams(r *http.Request, now time.Time) (int, int, error) {
	year, month := now.Year(), int(now.Month())
	if v := r.URL.Query().Get("year"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return 0, 0, errors.New("year must be an integer")
		}
		year = n
	}
	if v := r.URL.Query().Get("month"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return 0, 0, errors.New("month must be an integer")
		}
		month = n
	}
	return year, month, nil
}

func pathID(r *http.Request) (uint, error) {
	id, err := strconv.ParseUint(r.PathValue("id"), 10, 64)
	if err != nil {
		return 0, errors.New("id must be a positive integer")
	}
	return uint(id), nil
}
