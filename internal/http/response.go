package http

import (
	"encoding/json"
	"errors"
	"net/http"

	"expensetracker/internal/core"
	"expensetracker/internal/export"
	"expensetracker/internal/ledger"
	"expensetracker/internal/log"
)

// ErrorBody is the JSON shape of every error response.
type ErrorBody struct {
	Error string `json:"error"`
	Code  string `json:"code"`
}

func writeJSON(w http.ResponseWriter, r *http.Request, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.FromContext(r.Context()).WarnContext(r.Context(), "Failed to write response", log.FieldError, err)
	}
}

// writeError maps domain errors onto status codes. Unknown errors are
// logged and reported as 500 without detail.
func writeError(w http.ResponseWriter, r *http.Request, err error) {
	status, code := classify(err)
	msg := err.Error()
	if status == http.StatusInternalServerError {
		log.FromContext(r.Context()).ErrorContext(r.Context(), "Request failed", log.FieldError, err)
		msg = "internal error"
	}
	writeJSON(w, r, status, ErrorBody{Error: msg, Code: code})
}

func classify(err error) (int, string) {
	switch {
	case errors.Is(err, core.ErrMissingField):
		return http.StatusUnprocessableEntity, "missing_field"
	case errors.Is(err, core.ErrInvalidAmount):
		return http.StatusUnprocessableEntity, "invalid_amount"
	case errors.Is(err, core.ErrInvalidDate):
		return http.StatusUnprocessableEntity, "invalid_date"
	case ledger.IsValidationError(err):
		return http.StatusUnprocessableEntity, "invalid_input"
	case errors.Is(err, errMalformedBody), errors.Is(err, errInvalidID):
		return http.StatusBadRequest, "bad_request"
	case errors.Is(err, core.ErrExpenseNotFound):
		return http.StatusNotFound, "not_found"
	case errors.Is(err, core.ErrNotEditing):
		return http.StatusConflict, "not_editing"
	case errors.Is(err, export.ErrNoWriter):
		return http.StatusNotImplemented, "no_writer"
	default:
		return http.StatusInternalServerError, "internal"
	}
}
